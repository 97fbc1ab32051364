// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package aggregator

import (
	"sync"
	"time"

	checkid "github.com/DataDog/docker-containers-check/pkg/collector/check/id"
	"github.com/DataDog/docker-containers-check/pkg/metrics/servicecheck"
	"github.com/DataDog/docker-containers-check/pkg/util/log"
)

// checkSender implements sender.Sender. Samples are buffered until Commit
// hands them over to the sink.
type checkSender struct {
	id              checkid.ID
	defaultHostname string
	sink            Sink

	m             sync.Mutex
	samples       []*MetricSample
	serviceChecks servicecheck.ServiceChecks
}

func newCheckSender(id checkid.ID, defaultHostname string, sink Sink) *checkSender {
	return &checkSender{
		id:              id,
		defaultHostname: defaultHostname,
		sink:            sink,
	}
}

// Commit commits the metric samples that were added during a check run
// Should be called at the end of every check run
func (s *checkSender) Commit() {
	s.m.Lock()
	samples, serviceChecks := s.samples, s.serviceChecks
	s.samples, s.serviceChecks = nil, nil
	s.m.Unlock()

	if len(samples) == 0 && len(serviceChecks) == 0 {
		return
	}
	if err := s.sink.Send(samples, serviceChecks); err != nil {
		log.Errorf("Unable to submit %d samples for %s: %s", len(samples), s.id, err)
	}
}

func (s *checkSender) hostname(hostname string) string {
	if hostname == "" {
		return s.defaultHostname
	}
	return hostname
}

func (s *checkSender) sendSample(metric string, value float64, hostname string, tags []string, mType MetricType) {
	log.Trace(mType.String(), " sample: ", metric, ": ", value, " for hostname: ", hostname, " tags: ", tags)
	metricSample := &MetricSample{
		Name:       metric,
		Value:      value,
		Mtype:      mType,
		Tags:       append([]string(nil), tags...),
		Host:       s.hostname(hostname),
		SampleRate: 1,
		Timestamp:  time.Now().Unix(),
	}

	s.m.Lock()
	s.samples = append(s.samples, metricSample)
	s.m.Unlock()
}

// Gauge implements the Sender interface
func (s *checkSender) Gauge(metric string, value float64, hostname string, tags []string) {
	s.sendSample(metric, value, hostname, tags, GaugeType)
}

// Rate implements the Sender interface
func (s *checkSender) Rate(metric string, value float64, hostname string, tags []string) {
	s.sendSample(metric, value, hostname, tags, RateType)
}

// Count implements the Sender interface
func (s *checkSender) Count(metric string, value float64, hostname string, tags []string) {
	s.sendSample(metric, value, hostname, tags, CountType)
}

// MonotonicCount implements the Sender interface
func (s *checkSender) MonotonicCount(metric string, value float64, hostname string, tags []string) {
	s.sendSample(metric, value, hostname, tags, MonotonicCountType)
}

// Histogram implements the Sender interface
func (s *checkSender) Histogram(metric string, value float64, hostname string, tags []string) {
	s.sendSample(metric, value, hostname, tags, HistogramType)
}

// ServiceCheck submits a service check
func (s *checkSender) ServiceCheck(checkName string, status servicecheck.ServiceCheckStatus, hostname string, tags []string, message string) {
	log.Trace("Service check submitted: ", checkName, ": ", status.String(), " for hostname: ", hostname, " tags: ", tags)
	sc := &servicecheck.ServiceCheck{
		CheckName: checkName,
		Status:    status,
		Host:      s.hostname(hostname),
		Ts:        time.Now().Unix(),
		Tags:      append([]string(nil), tags...),
		Message:   message,
	}

	s.m.Lock()
	s.serviceChecks = append(s.serviceChecks, sc)
	s.m.Unlock()
}
