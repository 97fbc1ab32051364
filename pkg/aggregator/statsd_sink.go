// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package aggregator

import (
	"fmt"
	"net"
	"strconv"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/hashicorp/go-multierror"

	"github.com/DataDog/docker-containers-check/pkg/config"
	"github.com/DataDog/docker-containers-check/pkg/metrics/servicecheck"
	"github.com/DataDog/docker-containers-check/pkg/util/log"
)

// statsdClient is the subset of statsd.ClientInterface the sink needs
type statsdClient interface {
	Gauge(name string, value float64, tags []string, rate float64) error
	Count(name string, value int64, tags []string, rate float64) error
	Histogram(name string, value float64, tags []string, rate float64) error
	ServiceCheck(sc *statsd.ServiceCheck) error
	Flush() error
	Close() error
}

// StatsdSink forwards committed samples to DogStatsD
type StatsdSink struct {
	client statsdClient
}

// NewStatsdSink builds a DogStatsD client from the agent configuration
func NewStatsdSink(cfg config.Config) (*StatsdSink, error) {
	addr := statsdAddress(cfg)
	opts := []statsd.Option{
		statsd.WithTags(cfg.GetStringSlice("tags")),
	}
	if ns := cfg.GetString("statsd_metric_namespace"); ns != "" {
		opts = append(opts, statsd.WithNamespace(ns))
	}

	client, err := statsd.New(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create dogstatsd client for %s: %w", addr, err)
	}
	log.Infof("Forwarding metrics to dogstatsd at %s", addr)
	return newStatsdSinkWithClient(client), nil
}

func newStatsdSinkWithClient(client statsdClient) *StatsdSink {
	return &StatsdSink{client: client}
}

func statsdAddress(cfg config.Config) string {
	if socket := cfg.GetString("dogstatsd_socket"); socket != "" {
		return "unix://" + socket
	}
	return net.JoinHostPort(cfg.GetString("dogstatsd_host"), strconv.Itoa(cfg.GetInt("dogstatsd_port")))
}

func withHostTag(tags []string, hostname string) []string {
	if hostname == "" {
		return tags
	}
	return append(append([]string(nil), tags...), "host:"+hostname)
}

func toStatsdStatus(status servicecheck.ServiceCheckStatus) statsd.ServiceCheckStatus {
	switch status {
	case servicecheck.ServiceCheckOK:
		return statsd.Ok
	case servicecheck.ServiceCheckWarning:
		return statsd.Warn
	case servicecheck.ServiceCheckCritical:
		return statsd.Critical
	default:
		return statsd.Unknown
	}
}

// Send implements Sink
func (s *StatsdSink) Send(samples []*MetricSample, serviceChecks servicecheck.ServiceChecks) error {
	var errs *multierror.Error

	for _, sample := range samples {
		tags := withHostTag(sample.Tags, sample.Host)
		var err error
		switch sample.Mtype {
		case GaugeType, RateType:
			err = s.client.Gauge(sample.Name, sample.Value, tags, sample.SampleRate)
		case CountType, MonotonicCountType:
			err = s.client.Count(sample.Name, int64(sample.Value), tags, sample.SampleRate)
		case HistogramType:
			err = s.client.Histogram(sample.Name, sample.Value, tags, sample.SampleRate)
		default:
			err = fmt.Errorf("unsupported metric type %d for %s", sample.Mtype, sample.Name)
		}
		if err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	for _, sc := range serviceChecks {
		err := s.client.ServiceCheck(&statsd.ServiceCheck{
			Name:     sc.CheckName,
			Status:   toStatsdStatus(sc.Status),
			Hostname: sc.Host,
			Message:  sc.Message,
			Tags:     sc.Tags,
		})
		if err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	return errs.ErrorOrNil()
}

// Flush implements Sink
func (s *StatsdSink) Flush() error {
	return s.client.Flush()
}

// Close flushes and closes the underlying client
func (s *StatsdSink) Close() error {
	return s.client.Close()
}
