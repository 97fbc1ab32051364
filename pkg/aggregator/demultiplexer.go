// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package aggregator hands out senders to checks and forwards what they
// commit to a sink (DogStatsD, or memory for one-shot runs).
package aggregator

import (
	"sync"

	"github.com/DataDog/docker-containers-check/pkg/aggregator/sender"
	checkid "github.com/DataDog/docker-containers-check/pkg/collector/check/id"
	"github.com/DataDog/docker-containers-check/pkg/metrics/servicecheck"
	"github.com/DataDog/docker-containers-check/pkg/util/log"
)

// Sink receives what senders commit
type Sink interface {
	Send(samples []*MetricSample, serviceChecks servicecheck.ServiceChecks) error
	Flush() error
}

// Demultiplexer implements sender.SenderManager: it owns one sender per
// check instance, all writing to the same sink.
type Demultiplexer struct {
	sink     Sink
	hostname string

	m             sync.Mutex
	senders       map[checkid.ID]*checkSender
	defaultSender *checkSender
}

var _ sender.SenderManager = (*Demultiplexer)(nil)

// NewDemultiplexer returns a Demultiplexer writing to sink
func NewDemultiplexer(sink Sink, hostname string) *Demultiplexer {
	return &Demultiplexer{
		sink:     sink,
		hostname: hostname,
		senders:  make(map[checkid.ID]*checkSender),
	}
}

// GetSender returns the Sender of the given check instance, creating it if needed
func (d *Demultiplexer) GetSender(id checkid.ID) (sender.Sender, error) {
	d.m.Lock()
	defer d.m.Unlock()

	s, found := d.senders[id]
	if !found {
		s = newCheckSender(id, d.hostname, d.sink)
		d.senders[id] = s
	}
	return s, nil
}

// DestroySender frees up the resources used by the sender with passed ID.
// Samples that were not committed yet are lost.
func (d *Demultiplexer) DestroySender(id checkid.ID) {
	d.m.Lock()
	defer d.m.Unlock()
	delete(d.senders, id)
}

// GetDefaultSender returns the sender used for agent-level service checks
func (d *Demultiplexer) GetDefaultSender() (sender.Sender, error) {
	d.m.Lock()
	defer d.m.Unlock()

	if d.defaultSender == nil {
		var defaultCheckID checkid.ID // the default value is the zero value
		d.defaultSender = newCheckSender(defaultCheckID, d.hostname, d.sink)
	}
	return d.defaultSender, nil
}

// Stop flushes the sink
func (d *Demultiplexer) Stop() {
	if err := d.sink.Flush(); err != nil {
		log.Warnf("Unable to flush metrics on stop: %s", err)
	}
}
