// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package tracker keeps the set of check instances currently running.
package tracker

import (
	"sync"

	"github.com/DataDog/docker-containers-check/pkg/collector/check"
	checkid "github.com/DataDog/docker-containers-check/pkg/collector/check/id"
)

// RunningChecksTracker is an object that keeps a thread-safe track of
// all the running checks
type RunningChecksTracker struct {
	runningChecks map[checkid.ID]check.Check
	accessLock    sync.RWMutex
}

// NewRunningChecksTracker is a contructor for a RunningChecksTracker
func NewRunningChecksTracker() *RunningChecksTracker {
	return &RunningChecksTracker{
		runningChecks: make(map[checkid.ID]check.Check),
	}
}

// Check returns a check in the running check list, if it can be found
func (t *RunningChecksTracker) Check(id checkid.ID) (check.Check, bool) {
	t.accessLock.RLock()
	defer t.accessLock.RUnlock()

	c, found := t.runningChecks[id]
	return c, found
}

// AddCheck adds a check to the list of running checks if it's not already
// there. It returns false when the check was already running.
func (t *RunningChecksTracker) AddCheck(c check.Check) bool {
	t.accessLock.Lock()
	defer t.accessLock.Unlock()

	if _, found := t.runningChecks[c.ID()]; found {
		return false
	}
	t.runningChecks[c.ID()] = c
	return true
}

// DeleteCheck removes a check from the list of running checks
func (t *RunningChecksTracker) DeleteCheck(id checkid.ID) {
	t.accessLock.Lock()
	defer t.accessLock.Unlock()

	delete(t.runningChecks, id)
}

// WithRunningChecks calls fn with a copy of the running checks
func (t *RunningChecksTracker) WithRunningChecks(fn func(map[checkid.ID]check.Check)) {
	t.accessLock.RLock()
	running := make(map[checkid.ID]check.Check, len(t.runningChecks))
	for id, c := range t.runningChecks {
		running[id] = c
	}
	t.accessLock.RUnlock()

	fn(running)
}

// Len returns the number of running checks
func (t *RunningChecksTracker) Len() int {
	t.accessLock.RLock()
	defer t.accessLock.RUnlock()
	return len(t.runningChecks)
}
