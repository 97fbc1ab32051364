// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package collector loads checks from their configurations, schedules them
// and runs them.
package collector

import (
	"errors"
	"fmt"
	"sync"

	"github.com/DataDog/docker-containers-check/pkg/aggregator/sender"
	"github.com/DataDog/docker-containers-check/pkg/collector/check"
	checkid "github.com/DataDog/docker-containers-check/pkg/collector/check/id"
	"github.com/DataDog/docker-containers-check/pkg/collector/runner"
	"github.com/DataDog/docker-containers-check/pkg/collector/runner/expvars"
	"github.com/DataDog/docker-containers-check/pkg/collector/scheduler"
	"github.com/DataDog/docker-containers-check/pkg/util/log"
)

const (
	stopped uint32 = iota
	started
)

// ErrNotStarted is returned when the collector is not running
var ErrNotStarted = errors.New("the collector is not running")

// Collector abstract common operations about running a Check
type Collector struct {
	senderManager sender.SenderManager
	numWorkers    int

	checks    map[checkid.ID]check.Check
	state     uint32
	scheduler *scheduler.Scheduler
	runner    *runner.Runner
	m         sync.RWMutex
}

// NewCollector create a Collector instance
func NewCollector(senderManager sender.SenderManager, numWorkers int) *Collector {
	c := &Collector{
		senderManager: senderManager,
		numWorkers:    numWorkers,
		checks:        make(map[checkid.ID]check.Check),
		state:         stopped,
	}
	log.Debug("Collector up and running!")
	return c
}

// Start begins the collector's operation. The scheduler will not run any
// checks until this has been called.
func (c *Collector) Start() error {
	c.m.Lock()
	defer c.m.Unlock()

	if c.state == started {
		return nil
	}

	run := runner.NewRunner(c.senderManager, c.numWorkers)
	sched := scheduler.NewScheduler(run.GetChan())

	// let the runner some visibility into the scheduler
	run.SetShouldAddCheckStatsFunc(sched.IsCheckScheduled)
	if err := run.Start(); err != nil {
		return err
	}
	sched.Run()

	c.scheduler = sched
	c.runner = run
	c.state = started
	return nil
}

// Stop halts any component involved in running a Check
func (c *Collector) Stop() {
	c.m.Lock()
	defer c.m.Unlock()

	if c.state == stopped {
		return
	}

	// the scheduler goes first so nothing is enqueued on a closed channel
	c.scheduler.Stop()
	c.runner.Stop()
	for id, ch := range c.checks {
		ch.Stop()
		expvars.RemoveCheckStats(id)
	}
	c.checks = make(map[checkid.ID]check.Check)
	c.state = stopped
}

// RunCheck sends a Check in the execution queue
func (c *Collector) RunCheck(ch check.Check) (checkid.ID, error) {
	c.m.Lock()
	defer c.m.Unlock()

	var emptyID checkid.ID

	if c.state != started {
		return emptyID, ErrNotStarted
	}

	if _, found := c.checks[ch.ID()]; found {
		return emptyID, fmt.Errorf("a check with ID %s is already running", ch.ID())
	}

	if err := c.scheduler.Enter(ch); err != nil {
		return emptyID, fmt.Errorf("unable to schedule the check: %w", err)
	}

	c.checks[ch.ID()] = ch
	return ch.ID(), nil
}

// StopCheck halts a check and remove the instance
func (c *Collector) StopCheck(id checkid.ID) error {
	c.m.Lock()
	defer c.m.Unlock()

	if c.state != started {
		return ErrNotStarted
	}

	ch, found := c.checks[id]
	if !found {
		return fmt.Errorf("cannot find a check with ID %s", id)
	}

	// unschedule the instance
	if err := c.scheduler.Cancel(id); err != nil {
		return fmt.Errorf("an error occurred while canceling the check schedule: %w", err)
	}

	if err := c.runner.StopCheck(id); err != nil {
		// still attempt to cancel the check before returning the error
		ch.Stop()
		return fmt.Errorf("an error occurred while stopping the check: %w", err)
	}
	// the check is not running, release its resources
	ch.Stop()

	delete(c.checks, id)
	expvars.RemoveCheckStats(id)
	return nil
}

// GetChecks copies checks
func (c *Collector) GetChecks() []check.Check {
	c.m.RLock()
	defer c.m.RUnlock()

	chks := make([]check.Check, 0, len(c.checks))
	for _, chck := range c.checks {
		chks = append(chks, chck)
	}
	return chks
}
