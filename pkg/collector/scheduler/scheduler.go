// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package scheduler enqueues checks on the runner channel at their interval.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/atomic"

	"github.com/DataDog/docker-containers-check/pkg/collector/check"
	checkid "github.com/DataDog/docker-containers-check/pkg/collector/check/id"
	"github.com/DataDog/docker-containers-check/pkg/telemetry"
	"github.com/DataDog/docker-containers-check/pkg/util/log"
)

const minAllowedInterval = 1 * time.Second

var tlmScheduledChecks = telemetry.NewGauge("scheduler", "checks_entered",
	[]string{"check_name"}, "Number of check instances in the scheduler")

type job struct {
	check check.Check
	stop  chan struct{}
	once  sync.Once
}

func (j *job) cancel() {
	j.once.Do(func() { close(j.stop) })
}

// Scheduler keeps things rolling: one ticker per check instance, feeding
// the runner channel.
type Scheduler struct {
	checksPipe chan<- check.Check
	clock      clock.Clock
	running    *atomic.Bool

	m    sync.Mutex
	jobs map[checkid.ID]*job
	wg   sync.WaitGroup
}

// NewScheduler create a Scheduler and returns a pointer to it.
func NewScheduler(checksPipe chan<- check.Check) *Scheduler {
	return newSchedulerWithClock(checksPipe, clock.New())
}

func newSchedulerWithClock(checksPipe chan<- check.Check, clk clock.Clock) *Scheduler {
	return &Scheduler{
		checksPipe: checksPipe,
		clock:      clk,
		running:    atomic.NewBool(false),
		jobs:       make(map[checkid.ID]*job),
	}
}

// Enter schedules a Check. The first run is enqueued right away, then every
// Interval(). Checks with an interval of 0 are long-running and enqueued once.
func (s *Scheduler) Enter(c check.Check) error {
	interval := c.Interval()
	if interval != 0 && interval < minAllowedInterval {
		return fmt.Errorf("schedule interval must be greater than %v or 0", minAllowedInterval)
	}

	s.m.Lock()
	defer s.m.Unlock()

	if _, found := s.jobs[c.ID()]; found {
		return fmt.Errorf("check %s is already scheduled", c.ID())
	}

	j := &job{check: c, stop: make(chan struct{})}
	s.jobs[c.ID()] = j
	tlmScheduledChecks.Inc(c.String())
	log.Infof("Scheduling check %s with an interval of %v", c.ID(), interval)

	if s.running.Load() {
		s.startJob(j)
	}
	return nil
}

// Cancel remove a Check from the scheduled queue. If the check is not
// in the scheduler, this is a noop.
func (s *Scheduler) Cancel(id checkid.ID) error {
	s.m.Lock()
	defer s.m.Unlock()

	j, found := s.jobs[id]
	if !found {
		return nil
	}
	j.cancel()
	delete(s.jobs, id)
	tlmScheduledChecks.Dec(j.check.String())
	log.Infof("Unscheduled check %s", id)
	return nil
}

// IsCheckScheduled returns whether a check is in the scheduler or not
func (s *Scheduler) IsCheckScheduled(id checkid.ID) bool {
	s.m.Lock()
	defer s.m.Unlock()
	_, found := s.jobs[id]
	return found
}

// Run starts the scheduling of the checks entered so far, and of the
// ones entered later on.
func (s *Scheduler) Run() {
	s.m.Lock()
	defer s.m.Unlock()

	if !s.running.CompareAndSwap(false, true) {
		log.Debug("Scheduler is already running")
		return
	}
	for _, j := range s.jobs {
		s.startJob(j)
	}
	log.Infof("Scheduler started with %d checks", len(s.jobs))
}

// Stop cancels every scheduled check and waits for them to stop enqueuing
func (s *Scheduler) Stop() {
	s.m.Lock()
	if !s.running.CompareAndSwap(true, false) {
		s.m.Unlock()
		return
	}
	for _, j := range s.jobs {
		j.cancel()
	}
	s.jobs = make(map[checkid.ID]*job)
	s.m.Unlock()

	s.wg.Wait()
	log.Info("Scheduler stopped")
}

// startJob must be called with the lock held
func (s *Scheduler) startJob(j *job) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runJob(j)
	}()
}

func (s *Scheduler) runJob(j *job) {
	interval := j.check.Interval()
	if interval == 0 {
		s.enqueue(j)
		return
	}

	// the ticker exists before the first run so no tick is missed
	ticker := s.clock.Ticker(interval)
	defer ticker.Stop()

	if !s.enqueue(j) {
		return
	}
	for {
		select {
		case <-j.stop:
			return
		case <-ticker.C:
			if !s.enqueue(j) {
				return
			}
		}
	}
}

// enqueue sends the check to the runner, it returns false if the job was
// cancelled while waiting
func (s *Scheduler) enqueue(j *job) bool {
	log.Tracef("Enqueuing check %s", j.check.ID())
	select {
	case s.checksPipe <- j.check:
		return true
	case <-j.stop:
		return false
	}
}
