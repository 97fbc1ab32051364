// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package telemetry exposes the internal metrics of the agent with Prometheus.
package telemetry

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = newRegistry()

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// Handler serves the telemetry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// Reset drops every registered metric, used in tests
func Reset() {
	registry = newRegistry()
}

func metricName(subsystem, name string) string {
	return fmt.Sprintf("%s__%s", subsystem, name)
}

// register registers c, or returns the collector already registered under
// the same description.
func register[T prometheus.Collector](c T) T {
	if err := registry.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// Counter tracks how many times something is happening.
type Counter interface {
	// Inc increments the counter with the given tags value.
	Inc(tagsValue ...string)
	// Add adds the given value to the counter with the given tags value.
	Add(value float64, tagsValue ...string)
}

// Gauge tracks the value of one health metric of the Agent.
type Gauge interface {
	// Set stores the value for the given tags.
	Set(value float64, tagsValue ...string)
	// Inc increments the Gauge value.
	Inc(tagsValue ...string)
	// Dec decrements the Gauge value.
	Dec(tagsValue ...string)
}

// Histogram tracks the value of one health metric of the Agent.
type Histogram interface {
	// Observe the value to the Histogram value.
	Observe(value float64, tagsValue ...string)
}

type promCounter struct {
	pc *prometheus.CounterVec
}

func (c *promCounter) Inc(tagsValue ...string) {
	c.pc.WithLabelValues(tagsValue...).Inc()
}

func (c *promCounter) Add(value float64, tagsValue ...string) {
	c.pc.WithLabelValues(tagsValue...).Add(value)
}

type promGauge struct {
	pg *prometheus.GaugeVec
}

func (g *promGauge) Set(value float64, tagsValue ...string) {
	g.pg.WithLabelValues(tagsValue...).Set(value)
}

func (g *promGauge) Inc(tagsValue ...string) {
	g.pg.WithLabelValues(tagsValue...).Inc()
}

func (g *promGauge) Dec(tagsValue ...string) {
	g.pg.WithLabelValues(tagsValue...).Dec()
}

type promHistogram struct {
	ph *prometheus.HistogramVec
}

func (h *promHistogram) Observe(value float64, tagsValue ...string) {
	h.ph.WithLabelValues(tagsValue...).Observe(value)
}

// NewCounter creates a Counter registered as <subsystem>__<name>
func NewCounter(subsystem, name string, tags []string, help string) Counter {
	return &promCounter{
		pc: register(prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricName(subsystem, name),
				Help: help,
			},
			tags,
		)),
	}
}

// NewGauge creates a Gauge registered as <subsystem>__<name>
func NewGauge(subsystem, name string, tags []string, help string) Gauge {
	return &promGauge{
		pg: register(prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricName(subsystem, name),
				Help: help,
			},
			tags,
		)),
	}
}

// NewHistogram creates a Histogram registered as <subsystem>__<name>
func NewHistogram(subsystem, name string, tags []string, help string, buckets []float64) Histogram {
	return &promHistogram{
		ph: register(prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricName(subsystem, name),
				Help:    help,
				Buckets: buckets,
			},
			tags,
		)),
	}
}
