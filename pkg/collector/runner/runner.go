// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package runner runs the checks that the scheduler enqueues, on a pool of workers.
package runner

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/DataDog/docker-containers-check/pkg/aggregator/sender"
	"github.com/DataDog/docker-containers-check/pkg/collector/check"
	checkid "github.com/DataDog/docker-containers-check/pkg/collector/check/id"
	"github.com/DataDog/docker-containers-check/pkg/collector/runner/expvars"
	"github.com/DataDog/docker-containers-check/pkg/collector/runner/tracker"
	"github.com/DataDog/docker-containers-check/pkg/collector/worker"
	"github.com/DataDog/docker-containers-check/pkg/util/log"
)

const (
	// stopCheckTimeout is how long we wait for a check to stop
	stopCheckTimeout = 500 * time.Millisecond
	// stopAllChecksTimeout is how long we wait for all running checks on Stop()
	stopAllChecksTimeout = 2 * time.Second
)

var runnerIDGenerator = atomic.NewInt64(0)

// Runner is the object in charge of running all the checks
type Runner struct {
	senderManager     sender.SenderManager
	id                int
	numWorkers        int
	isRunning         *atomic.Bool
	pendingChecksChan chan check.Check
	checksTracker     *tracker.RunningChecksTracker
	workersWg         sync.WaitGroup

	// shouldAddCheckStats filters the checks whose stats are kept,
	// usually the ones still scheduled
	shouldAddCheckStats func(id checkid.ID) bool
}

// NewRunner takes the number of desired goroutines processing incoming checks.
func NewRunner(senderManager sender.SenderManager, numWorkers int) *Runner {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Runner{
		senderManager:       senderManager,
		id:                  int(runnerIDGenerator.Inc()),
		numWorkers:          numWorkers,
		isRunning:           atomic.NewBool(false),
		pendingChecksChan:   make(chan check.Check),
		checksTracker:       tracker.NewRunningChecksTracker(),
		shouldAddCheckStats: func(checkid.ID) bool { return true },
	}
}

// SetShouldAddCheckStatsFunc sets the filter of the checks whose stats are kept
func (r *Runner) SetShouldAddCheckStatsFunc(fn func(id checkid.ID) bool) {
	r.shouldAddCheckStats = fn
}

// Start starts the workers. It does nothing if the runner is already running.
func (r *Runner) Start() error {
	if !r.isRunning.CompareAndSwap(false, true) {
		log.Debug("Runner was already started, nothing to do here...")
		return nil
	}

	for i := 0; i < r.numWorkers; i++ {
		w, err := worker.NewWorker(r.senderManager, r.id, i, r.pendingChecksChan, r.checksTracker, r.shouldAddCheckStats)
		if err != nil {
			return fmt.Errorf("unable to create worker: %w", err)
		}

		r.workersWg.Add(1)
		go func() {
			defer r.workersWg.Done()
			w.Run()
		}()
	}

	log.Infof("Runner %d started with %d workers.", r.id, r.numWorkers)
	return nil
}

// GetChan returns a write-only version of the pending channel
func (r *Runner) GetChan() chan<- check.Check {
	return r.pendingChecksChan
}

// IsRunning tells whether the runner accepts checks
func (r *Runner) IsRunning() bool {
	return r.isRunning.Load()
}

// StopCheck invokes the `Stop` method on a check if it's running. If the check
// is not running, this is a noop
func (r *Runner) StopCheck(id checkid.ID) error {
	c, isRunning := r.checksTracker.Check(id)
	if !isRunning {
		log.Debugf("Check %s is not running, not stopping it", id)
		return nil
	}

	done := make(chan struct{})
	go func() {
		c.Stop()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(stopCheckTimeout):
		return fmt.Errorf("timeout during stop operation on check id %s", id)
	}
}

// Stop closes the pending channel so all workers will exit their loop and
// terminate, then stops the checks that are still running
func (r *Runner) Stop() {
	if !r.isRunning.CompareAndSwap(true, false) {
		log.Debug("Runner already stopped, nothing to do here...")
		return
	}

	log.Infof("Runner %d is shutting down...", r.id)
	close(r.pendingChecksChan)

	var wg sync.WaitGroup
	r.checksTracker.WithRunningChecks(func(running map[checkid.ID]check.Check) {
		for id := range running {
			wg.Add(1)
			go func(id checkid.ID) {
				defer wg.Done()
				if err := r.StopCheck(id); err != nil {
					log.Warnf("Error stopping check %s: %s", id, err) //nolint:errcheck
				}
			}(id)
		}
	})

	allStopped := make(chan struct{})
	go func() {
		wg.Wait()
		r.workersWg.Wait()
		close(allStopped)
	}()

	select {
	case <-allStopped:
		log.Infof("Runner %d stopped, %d checks run so far", r.id, expvars.GetRunsCount())
	case <-time.After(stopAllChecksTimeout):
		log.Errorf("Some checks of runner %d didn't stop in time, giving up", r.id)
	}
}
