// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package worker

import (
	"fmt"

	"github.com/DataDog/docker-containers-check/pkg/collector/check"
	"github.com/DataDog/docker-containers-check/pkg/collector/runner/expvars"
	"github.com/DataDog/docker-containers-check/pkg/config"
	"github.com/DataDog/docker-containers-check/pkg/util/log"
)

const (
	// How long is the first series of check runs we want to log
	firstRunSeries uint64 = 5
)

// CheckLogger is a check-aware logger: it logs the first runs of a check at
// info level, then only every `logging_frequency` runs.
type CheckLogger struct {
	Check check.Check
}

// Debug logs a debug message about the check
func (cl *CheckLogger) Debug(message string) {
	log.Debugf("check:%s | %s", cl.Check, message)
}

// CheckStarted logs the start of a check run
func (cl *CheckLogger) CheckStarted() {
	if doLog, _ := cl.shouldLog(); doLog {
		log.Infof("check:%s | Running check...", cl.Check)
		return
	}
	log.Debugf("check:%s | Running check...", cl.Check)
}

// CheckFinished logs the end of a check run
func (cl *CheckLogger) CheckFinished() {
	doLog, lastLog := cl.shouldLog()
	if !doLog {
		log.Debugf("check:%s | Done running check", cl.Check)
		return
	}

	message := "Done running check"
	if lastLog {
		message = fmt.Sprintf("%s, next runs will be logged every %d runs",
			message, config.Datadog.GetInt("logging_frequency"))
	}
	log.Infof("check:%s | %s", cl.Check, message)
}

// Error logs a failed check run
func (cl *CheckLogger) Error(checkErr error) {
	log.Errorf("check:%s | Error running check: %s", cl.Check, checkErr)
}

// shouldLog tells whether the current run is logged at info level, and if it
// is the last run of the first series
func (cl *CheckLogger) shouldLog() (doLog bool, lastLog bool) {
	s, found := expvars.CheckStats(cl.Check.ID())
	// this is the first time we see the check, log it
	if !found {
		return true, false
	}

	loggingFrequency := uint64(config.Datadog.GetInt("logging_frequency"))
	if loggingFrequency == 0 {
		loggingFrequency = 1
	}
	// we log the first firstRunSeries times, then every loggingFrequency times
	doLog = s.TotalRuns <= firstRunSeries || s.TotalRuns%loggingFrequency == 0
	// we print a special message when we change logging frequency
	lastLog = s.TotalRuns == firstRunSeries
	return doLog, lastLog
}
