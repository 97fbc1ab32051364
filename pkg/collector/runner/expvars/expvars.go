// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package expvars holds the runner statistics, published under the "runner" expvar.
package expvars

import (
	"expvar"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/DataDog/docker-containers-check/pkg/collector/check"
	checkid "github.com/DataDog/docker-containers-check/pkg/collector/check/id"
	"github.com/DataDog/docker-containers-check/pkg/collector/check/stats"
	"github.com/DataDog/docker-containers-check/pkg/util/log"
)

var (
	runnerStats *expvar.Map

	checkStats *expvarRunnerCheckStats

	runningChecks = atomic.NewInt64(0)
	runs          = atomic.NewUint64(0)
	errorsCount   = atomic.NewUint64(0)
	warnings      = atomic.NewUint64(0)
	workers       = atomic.NewInt64(0)
)

// expvarRunnerCheckStats holds the stats from the running checks, keyed by
// check name then instance ID
type expvarRunnerCheckStats struct {
	stats map[string]map[checkid.ID]*stats.Stats
	m     sync.RWMutex
}

func init() {
	newRunnerStats()
}

func newRunnerStats() {
	checkStats = &expvarRunnerCheckStats{
		stats: make(map[string]map[checkid.ID]*stats.Stats),
	}

	runnerStats = new(expvar.Map).Init()
	runnerStats.Set("Checks", expvar.Func(expCheckStats))
	runnerStats.Set("RunningChecks", expvar.Func(func() interface{} { return runningChecks.Load() }))
	runnerStats.Set("Runs", expvar.Func(func() interface{} { return runs.Load() }))
	runnerStats.Set("Errors", expvar.Func(func() interface{} { return errorsCount.Load() }))
	runnerStats.Set("Warnings", expvar.Func(func() interface{} { return warnings.Load() }))
	runnerStats.Set("Workers", expvar.Func(func() interface{} { return workers.Load() }))

	if expvar.Get("runner") == nil {
		expvar.Publish("runner", runnerStats)
	}
}

// Reset clears all the runner stats, only meant for tests
func Reset() {
	checkStats.m.Lock()
	checkStats.stats = make(map[string]map[checkid.ID]*stats.Stats)
	checkStats.m.Unlock()

	runningChecks.Store(0)
	runs.Store(0)
	errorsCount.Store(0)
	warnings.Store(0)
	workers.Store(0)
}

func expCheckStats() interface{} {
	checkStats.m.RLock()
	defer checkStats.m.RUnlock()

	out := make(map[string]map[checkid.ID]stats.Stats, len(checkStats.stats))
	for name, instances := range checkStats.stats {
		out[name] = make(map[checkid.ID]stats.Stats, len(instances))
		for id, s := range instances {
			out[name][id] = s.Copy()
		}
	}
	return out
}

// AddCheckStats updates the stats of a given check, should be called after every check run
func AddCheckStats(c check.Check, execTime time.Duration, err error, checkWarnings []error) {
	checkStats.m.Lock()
	log.Tracef("Add stats for %s", string(c.ID()))
	instances, found := checkStats.stats[c.String()]
	if !found {
		instances = make(map[checkid.ID]*stats.Stats)
		checkStats.stats[c.String()] = instances
	}
	s, found := instances[c.ID()]
	if !found {
		s = stats.NewStats(c)
		instances[c.ID()] = s
	}
	checkStats.m.Unlock()

	s.Add(execTime, err, checkWarnings)
}

// RemoveCheckStats removes a check from the check stats map
func RemoveCheckStats(id checkid.ID) {
	checkStats.m.Lock()
	defer checkStats.m.Unlock()
	log.Debugf("Remove stats for %s", string(id))

	checkName := checkid.IDToCheckName(id)
	instances, found := checkStats.stats[checkName]
	if found {
		delete(instances, id)
		if len(instances) == 0 {
			delete(checkStats.stats, checkName)
		}
	}
}

// CheckStats returns a copy of the stats of a check instance
func CheckStats(id checkid.ID) (stats.Stats, bool) {
	checkStats.m.RLock()
	defer checkStats.m.RUnlock()

	instances, found := checkStats.stats[checkid.IDToCheckName(id)]
	if !found {
		return stats.Stats{}, false
	}
	s, found := instances[id]
	if !found {
		return stats.Stats{}, false
	}
	return s.Copy(), true
}

// GetCheckStats returns a copy of all the check stats
func GetCheckStats() map[string]map[checkid.ID]stats.Stats {
	return expCheckStats().(map[string]map[checkid.ID]stats.Stats)
}

// AddRunningCheckCount adds the given amount to the running checks count
func AddRunningCheckCount(amount int) {
	runningChecks.Add(int64(amount))
}

// GetRunningCheckCount returns the number of checks currently running
func GetRunningCheckCount() int64 {
	return runningChecks.Load()
}

// AddRunsCount adds the given amount to the runs count
func AddRunsCount(amount int) {
	runs.Add(uint64(amount))
}

// GetRunsCount returns the number of check runs
func GetRunsCount() uint64 {
	return runs.Load()
}

// AddErrorsCount adds the given amount to the errors count
func AddErrorsCount(amount int) {
	errorsCount.Add(uint64(amount))
}

// GetErrorsCount returns the number of failed check runs
func GetErrorsCount() uint64 {
	return errorsCount.Load()
}

// AddWarningsCount adds the given amount to the warnings count
func AddWarningsCount(amount int) {
	warnings.Add(uint64(amount))
}

// GetWarningsCount returns the number of warnings reported by checks
func GetWarningsCount() uint64 {
	return warnings.Load()
}

// AddWorkerCount adds the given amount to the workers count
func AddWorkerCount(amount int) {
	workers.Add(int64(amount))
}

// GetWorkerCount returns the number of running workers
func GetWorkerCount() int {
	return int(workers.Load())
}
