// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package aggregator

import (
	"sync"

	"github.com/DataDog/docker-containers-check/pkg/metrics/servicecheck"
)

// MemorySink keeps everything it receives, used by one-shot check runs
type MemorySink struct {
	m             sync.Mutex
	samples       []*MetricSample
	serviceChecks servicecheck.ServiceChecks
}

// NewMemorySink returns an empty MemorySink
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Send implements Sink
func (s *MemorySink) Send(samples []*MetricSample, serviceChecks servicecheck.ServiceChecks) error {
	s.m.Lock()
	defer s.m.Unlock()
	s.samples = append(s.samples, samples...)
	s.serviceChecks = append(s.serviceChecks, serviceChecks...)
	return nil
}

// Flush implements Sink
func (s *MemorySink) Flush() error { return nil }

// Samples returns the metric samples received so far
func (s *MemorySink) Samples() []*MetricSample {
	s.m.Lock()
	defer s.m.Unlock()
	return append([]*MetricSample(nil), s.samples...)
}

// ServiceChecks returns the service checks received so far
func (s *MemorySink) ServiceChecks() servicecheck.ServiceChecks {
	s.m.Lock()
	defer s.m.Unlock()
	return append(servicecheck.ServiceChecks(nil), s.serviceChecks...)
}

// Reset drops everything received so far
func (s *MemorySink) Reset() {
	s.m.Lock()
	defer s.m.Unlock()
	s.samples = nil
	s.serviceChecks = nil
}
