// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package stats keeps per-instance run statistics of checks.
package stats

import (
	"sync"
	"time"

	checkid "github.com/DataDog/docker-containers-check/pkg/collector/check/id"
)

// EntryCount is the number of execution times kept for the average
const EntryCount = 32

// StatsCheck is the subset of the check interface needed to build Stats
//
//nolint:revive
type StatsCheck interface {
	String() string
	ID() checkid.ID
	Version() string
	ConfigSource() string
	Interval() time.Duration
}

// Stats holds basic runtime statistics about check instances
type Stats struct {
	CheckName            string
	CheckVersion         string
	CheckConfigSource    string
	CheckID              checkid.ID
	Interval             time.Duration
	TotalRuns            uint64
	TotalErrors          uint64
	TotalWarnings        uint64
	ExecutionTimes       [EntryCount]int64 // circular buffer of recent run durations, most recent at [(TotalRuns+EntryCount-1) % EntryCount]
	AverageExecutionTime int64             // average run duration
	LastExecutionTime    int64             // most recent run duration, provided for convenience
	LastSuccessDate      int64             // most recent successful execution date, unix timestamp in seconds
	LastError            string            // error that occurred in the last run, if any
	LastWarnings         []string          // warnings that occurred in the last run, if any
	UpdateTimestamp      int64             // latest update to this instance, unix timestamp in seconds
	m                    sync.Mutex
}

// NewStats returns a new check stats instance
func NewStats(c StatsCheck) *Stats {
	return &Stats{
		CheckID:           c.ID(),
		CheckName:         c.String(),
		CheckVersion:      c.Version(),
		CheckConfigSource: c.ConfigSource(),
		Interval:          c.Interval(),
	}
}

// Add tracks a new execution time
func (cs *Stats) Add(t time.Duration, err error, warnings []error) {
	cs.m.Lock()
	defer cs.m.Unlock()

	// store execution times in Milliseconds
	tms := t.Nanoseconds() / 1e6
	cs.LastExecutionTime = tms
	cs.ExecutionTimes[cs.TotalRuns%EntryCount] = tms
	cs.TotalRuns++
	var totalExecutionTime int64
	ringSize := cs.TotalRuns
	if ringSize > EntryCount {
		ringSize = EntryCount
	}
	for i := uint64(0); i < ringSize; i++ {
		totalExecutionTime += cs.ExecutionTimes[i]
	}
	cs.AverageExecutionTime = totalExecutionTime / int64(ringSize)

	if err != nil {
		cs.TotalErrors++
		cs.LastError = err.Error()
	} else {
		cs.LastError = ""
	}
	cs.LastWarnings = []string{}
	if len(warnings) != 0 {
		for _, w := range warnings {
			cs.TotalWarnings++
			cs.LastWarnings = append(cs.LastWarnings, w.Error())
		}
	}
	cs.UpdateTimestamp = time.Now().Unix()
	if err == nil {
		cs.LastSuccessDate = cs.UpdateTimestamp
	}
}

// Copy returns a copy of the stats safe to read without holding the lock
func (cs *Stats) Copy() Stats {
	cs.m.Lock()
	defer cs.m.Unlock()

	return Stats{
		CheckName:            cs.CheckName,
		CheckVersion:         cs.CheckVersion,
		CheckConfigSource:    cs.CheckConfigSource,
		CheckID:              cs.CheckID,
		Interval:             cs.Interval,
		TotalRuns:            cs.TotalRuns,
		TotalErrors:          cs.TotalErrors,
		TotalWarnings:        cs.TotalWarnings,
		ExecutionTimes:       cs.ExecutionTimes,
		AverageExecutionTime: cs.AverageExecutionTime,
		LastExecutionTime:    cs.LastExecutionTime,
		LastSuccessDate:      cs.LastSuccessDate,
		LastError:            cs.LastError,
		LastWarnings:         append([]string(nil), cs.LastWarnings...),
		UpdateTimestamp:      cs.UpdateTimestamp,
	}
}
