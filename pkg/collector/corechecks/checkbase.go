// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2017 Datadog, Inc.

package corechecks

import (
	"errors"
	"sync"
	"time"

	yaml "gopkg.in/yaml.v2"

	"github.com/DataDog/docker-containers-check/pkg/aggregator/sender"
	"github.com/DataDog/docker-containers-check/pkg/autodiscovery/integration"
	"github.com/DataDog/docker-containers-check/pkg/collector/check"
	checkid "github.com/DataDog/docker-containers-check/pkg/collector/check/id"
	"github.com/DataDog/docker-containers-check/pkg/util/log"
)

// ErrNoSenderManager is returned when a sender is requested from an
// unconfigured check
var ErrNoSenderManager = errors.New("no sender manager configured")

// CheckBase provides default implementations for most of the check.Check
// interface to make it easier to bootstrap a new corecheck.
//
// To use it, you need to embed it in your check struct, by calling
// NewCheckBase() in your factory, plus:
// - long-running checks must override Stop() and Interval()
// - checks supporting multiple instances must call BuildID() from
// their Configure() method
// - after optionally building a unique ID, CommonConfigure() must
// be called from the Configure() method to handle the common instance
// fields
//
// Integration warnings are handled via the Warn and Warnf methods
// that forward the warning to the logger and keep it for the runner,
// which turns them into a WARNING check status.
type CheckBase struct {
	checkName     string
	checkID       checkid.ID
	checkInterval time.Duration
	source        string
	instanceTags  []string
	senderManager sender.SenderManager

	warningsLock   sync.Mutex
	latestWarnings []error
}

// NewCheckBase returns a check base struct with a given check name
func NewCheckBase(name string) CheckBase {
	return CheckBase{
		checkName:     name,
		checkID:       checkid.ID(name),
		checkInterval: check.DefaultCheckInterval,
	}
}

// BuildID is to be called by the check's Configure() method to generate
// the unique check ID.
func (c *CheckBase) BuildID(instance, initConfig integration.Data) {
	c.checkID = checkid.BuildID(c.checkName, instance, initConfig)
}

// Configure is provided for checks that require no config. If overridden,
// the call to CommonConfigure must be preserved.
func (c *CheckBase) Configure(senderManager sender.SenderManager, data integration.Data, initConfig integration.Data, source string) error {
	return c.CommonConfigure(senderManager, initConfig, data, source)
}

// CommonConfigure is called when checks implement their own Configure method,
// in order to setup common options (run interval, tags, source)
func (c *CheckBase) CommonConfigure(senderManager sender.SenderManager, _ integration.Data, instance integration.Data, source string) error {
	c.senderManager = senderManager
	c.source = source

	commonOptions := integration.CommonInstanceConfig{}
	err := yaml.Unmarshal(instance, &commonOptions)
	if err != nil {
		log.Errorf("invalid instance section for check %s: %s", string(c.ID()), err)
		return err
	}

	// See if a collection interval was specified
	if commonOptions.MinCollectionInterval > 0 {
		c.checkInterval = time.Duration(commonOptions.MinCollectionInterval) * time.Second
	}
	c.instanceTags = commonOptions.Tags

	return nil
}

// GetSender gets the object to submit metrics for this check instance
func (c *CheckBase) GetSender() (sender.Sender, error) {
	if c.senderManager == nil {
		return nil, ErrNoSenderManager
	}
	return c.senderManager.GetSender(c.ID())
}

// InstanceTags returns the `tags` of the instance configuration
func (c *CheckBase) InstanceTags() []string {
	return c.instanceTags
}

// Warn sends an integration warning to logs + agent status.
func (c *CheckBase) Warn(v ...interface{}) error {
	w := log.Warn(v...)
	c.addWarning(w)
	return w
}

// Warnf sends an integration warning to logs + agent status.
func (c *CheckBase) Warnf(format string, params ...interface{}) error {
	w := log.Warnf(format, params...)
	c.addWarning(w)
	return w
}

func (c *CheckBase) addWarning(w error) {
	c.warningsLock.Lock()
	defer c.warningsLock.Unlock()
	c.latestWarnings = append(c.latestWarnings, w)
}

// Stop does nothing by default, you need to implement it in checks that
// start work outliving Run(), or whose Run() can block.
func (c *CheckBase) Stop() {}

// Interval returns the scheduling time for the check.
// Long-running checks should override to return 0.
func (c *CheckBase) Interval() time.Duration {
	return c.checkInterval
}

// String returns the name of the check, the same for every instance
func (c *CheckBase) String() string {
	return c.checkName
}

// Version returns an empty string as Go check can't be updated independently
// from the agent
func (c *CheckBase) Version() string {
	return ""
}

// ConfigSource returns the source of the configuration of the check instance
func (c *CheckBase) ConfigSource() string {
	return c.source
}

// ID returns a unique ID for that check instance
//
// For checks that only support one instance, the default value is
// the check name. Regular checks must call BuildID() from Configure()
// to build their ID.
func (c *CheckBase) ID() checkid.ID {
	return c.checkID
}

// GetWarnings grabs the latest integration warnings for the check.
func (c *CheckBase) GetWarnings() []error {
	c.warningsLock.Lock()
	defer c.warningsLock.Unlock()

	if len(c.latestWarnings) == 0 {
		return nil
	}
	w := c.latestWarnings
	c.latestWarnings = []error{}
	return w
}
