// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package dockercontainers implements the docker_containers check: it counts
// the running containers whose name matches a pattern.
package dockercontainers

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/DataDog/docker-containers-check/pkg/aggregator/sender"
	"github.com/DataDog/docker-containers-check/pkg/autodiscovery/integration"
	"github.com/DataDog/docker-containers-check/pkg/collector/check"
	core "github.com/DataDog/docker-containers-check/pkg/collector/corechecks"
	"github.com/DataDog/docker-containers-check/pkg/telemetry"
	"github.com/DataDog/docker-containers-check/pkg/util/containers"
	"github.com/DataDog/docker-containers-check/pkg/util/cri"
	"github.com/DataDog/docker-containers-check/pkg/util/docker"
	"github.com/DataDog/docker-containers-check/pkg/util/log"
)

const (
	// CheckName is the name of the check
	CheckName = "docker_containers"

	runningContainersMetric = "docker.running_containers"
	containerTypeTag        = "container_type"
)

var (
	tlmListingErrors = telemetry.NewCounter(CheckName, "listing_errors",
		[]string{"runtime"}, "Number of runtime listings that failed and were reported as 0")
	tlmRunningContainers = telemetry.NewGauge(CheckName, "running_containers",
		[]string{containerTypeTag}, "Last count of running containers per pattern")
)

// listerFactory builds the runtime lister of an instance
var listerFactory = newLister

func newLister(conf *DockerContainersConfig) (containers.Lister, error) {
	switch conf.Runtime {
	case containers.RuntimeNameDocker:
		return docker.NewDockerUtil()
	case containers.RuntimeNameCRI:
		return cri.NewCRIUtil(conf.CRISocketPath)
	case containers.RuntimeNameCommand:
		return containers.NewCommandLister(conf.Command)
	}
	return nil, fmt.Errorf("unknown runtime %q", conf.Runtime)
}

// DockerContainersCheck reports the number of running containers matching
// container_name as docker.running_containers.
type DockerContainersCheck struct {
	core.CheckBase
	instance *DockerContainersConfig
	matcher  *containers.Matcher
	lister   containers.Lister

	// ctx lives as long as the check, Stop() cancels it
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// Factory returns a new check factory
func Factory() check.Check {
	return &DockerContainersCheck{
		CheckBase: core.NewCheckBase(CheckName),
		instance:  &DockerContainersConfig{},
	}
}

// Configure parses the check configuration and init the check
func (d *DockerContainersCheck) Configure(senderManager sender.SenderManager, config, initConfig integration.Data, source string) error {
	d.BuildID(config, initConfig)
	if err := d.CommonConfigure(senderManager, initConfig, config, source); err != nil {
		return err
	}

	instance := &DockerContainersConfig{}
	if err := instance.Parse(config, initConfig); err != nil {
		return err
	}

	matcher, err := containers.NewMatcher(*instance.ContainerName)
	if err != nil {
		return err
	}

	lister, err := listerFactory(instance)
	if err != nil {
		return err
	}

	// a reconfigured check releases its previous runtime client
	d.Stop()

	d.instance = instance
	d.matcher = matcher
	d.lister = lister
	d.ctx, d.cancel = context.WithCancel(context.Background())
	d.closeOnce = sync.Once{}
	log.Debugf("%s: counting containers matching %q through %s", d.ID(), d.matcher, d.lister)
	return nil
}

// Run executes the check
func (d *DockerContainersCheck) Run() error {
	sender, err := d.GetSender()
	if err != nil {
		return err
	}

	count := d.countRunningContainers()
	pattern := d.matcher.String()
	tlmRunningContainers.Set(float64(count), pattern)

	tags := append([]string{containerTypeTag + ":" + pattern}, d.InstanceTags()...)
	sender.Gauge(runningContainersMetric, float64(count), "", tags)
	sender.Commit()

	return nil
}

// countRunningContainers returns the number of matching running containers.
// A runtime that can't be listed counts as 0 and is reported as a warning.
func (d *DockerContainersCheck) countRunningContainers() int {
	ctx, cancel := context.WithTimeout(d.ctx, d.instance.QueryTimeout())
	defer cancel()

	names, err := d.lister.ListRunningContainers(ctx)
	if err != nil {
		tlmListingErrors.Inc(d.instance.Runtime)
		d.Warnf("Unable to list running containers with %s, reporting 0: %s", d.lister, err) //nolint:errcheck
		return 0
	}

	count := d.matcher.Count(names)
	log.Debugf("%s: %d of %d running containers match %q", d.ID(), count, len(names), d.matcher)
	return count
}

// Stop cancels any in-flight listing and releases the runtime client
func (d *DockerContainersCheck) Stop() {
	if d.cancel == nil {
		return
	}
	d.cancel()
	d.closeOnce.Do(func() {
		if closer, ok := d.lister.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				log.Debugf("%s: error closing %s: %s", d.ID(), d.lister, err)
			}
		}
	})
}
