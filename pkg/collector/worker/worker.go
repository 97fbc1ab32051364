// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package worker runs the checks coming from the runner's pending channel.
package worker

import (
	"errors"
	"fmt"
	"time"

	"github.com/DataDog/docker-containers-check/pkg/aggregator/sender"
	"github.com/DataDog/docker-containers-check/pkg/collector/check"
	checkid "github.com/DataDog/docker-containers-check/pkg/collector/check/id"
	"github.com/DataDog/docker-containers-check/pkg/collector/runner/expvars"
	"github.com/DataDog/docker-containers-check/pkg/collector/runner/tracker"
	"github.com/DataDog/docker-containers-check/pkg/metrics/servicecheck"
	"github.com/DataDog/docker-containers-check/pkg/telemetry"
	"github.com/DataDog/docker-containers-check/pkg/util/log"
)

const (
	serviceCheckStatusKey = "datadog.agent.check_status"
)

var (
	tlmCheckRuns = telemetry.NewCounter("collector", "check_runs",
		[]string{"check_name", "status"}, "Number of check runs by status")
	tlmCheckDuration = telemetry.NewHistogram("collector", "check_duration_seconds",
		[]string{"check_name"}, "Duration of check runs", nil)
)

// Worker is an object that encapsulates the logic to manage a loop of processing
// checks over the provided `PendingCheckChan`
type Worker struct {
	ID   int
	Name string

	checksTracker           *tracker.RunningChecksTracker
	pendingChecksChan       chan check.Check
	runnerID                int
	senderManager           sender.SenderManager
	shouldAddCheckStatsFunc func(id checkid.ID) bool
}

// NewWorker returns an instance of a `Worker` after parameter sanity checks are passed
func NewWorker(
	senderManager sender.SenderManager,
	runnerID int,
	ID int,
	pendingChecksChan chan check.Check,
	checksTracker *tracker.RunningChecksTracker,
	shouldAddCheckStatsFunc func(id checkid.ID) bool,
) (*Worker, error) {

	if checksTracker == nil {
		return nil, errors.New("worker cannot initialize using a nil checksTracker")
	}

	if pendingChecksChan == nil {
		return nil, errors.New("worker cannot initialize using a nil pendingChecksChan")
	}

	if shouldAddCheckStatsFunc == nil {
		return nil, errors.New("worker cannot initialize using a nil shouldAddCheckStatsFunc")
	}

	return &Worker{
		ID:                      ID,
		Name:                    fmt.Sprintf("worker_%d", ID),
		checksTracker:           checksTracker,
		pendingChecksChan:       pendingChecksChan,
		runnerID:                runnerID,
		senderManager:           senderManager,
		shouldAddCheckStatsFunc: shouldAddCheckStatsFunc,
	}, nil
}

// Run waits for checks and run them as long as they arrive on the channel
func (w *Worker) Run() {
	log.Debugf("Runner %d, worker %d: Ready to process checks...", w.runnerID, w.ID)
	expvars.AddWorkerCount(1)
	defer expvars.AddWorkerCount(-1)

	for c := range w.pendingChecksChan {
		w.runCheck(c)
	}

	log.Debugf("Runner %d, worker %d: Finished processing checks.", w.runnerID, w.ID)
}

func (w *Worker) runCheck(c check.Check) {
	checkLogger := CheckLogger{Check: c}

	// Add check to tracker if it's not already running
	if !w.checksTracker.AddCheck(c) {
		checkLogger.Debug("Check is already running, skipping execution...")
		return
	}
	defer w.checksTracker.DeleteCheck(c.ID())

	checkStartTime := time.Now()
	checkLogger.CheckStarted()
	expvars.AddRunningCheckCount(1)

	checkErr := c.Run()

	execTime := time.Since(checkStartTime)
	checkWarnings := c.GetWarnings()

	serviceCheckStatus := servicecheck.ServiceCheckOK
	if len(checkWarnings) != 0 {
		expvars.AddWarningsCount(len(checkWarnings))
		serviceCheckStatus = servicecheck.ServiceCheckWarning
	}
	if checkErr != nil {
		checkLogger.Error(checkErr)
		expvars.AddErrorsCount(1)
		serviceCheckStatus = servicecheck.ServiceCheckCritical
	}

	w.sendStatus(c, serviceCheckStatus, checkErr)

	// Publish statistics about this run
	expvars.AddRunningCheckCount(-1)
	expvars.AddRunsCount(1)
	tlmCheckRuns.Inc(c.String(), serviceCheckStatus.String())
	tlmCheckDuration.Observe(execTime.Seconds(), c.String())

	// Only add stats for checks still in the scheduler
	if w.shouldAddCheckStatsFunc(c.ID()) {
		expvars.AddCheckStats(c, execTime, checkErr, checkWarnings)
	}

	checkLogger.CheckFinished()
}

// sendStatus reports the outcome of the run through the default sender
func (w *Worker) sendStatus(c check.Check, status servicecheck.ServiceCheckStatus, checkErr error) {
	if w.senderManager == nil {
		return
	}
	s, err := w.senderManager.GetDefaultSender()
	if err != nil {
		log.Errorf("Error getting default sender: %v. Not sending status check for %s", err, c)
		return
	}

	message := ""
	if checkErr != nil {
		message = checkErr.Error()
	}
	serviceCheckTags := []string{fmt.Sprintf("check:%s", c.String())}
	s.ServiceCheck(serviceCheckStatusKey, status, "", serviceCheckTags, message)
	s.Commit()
}
