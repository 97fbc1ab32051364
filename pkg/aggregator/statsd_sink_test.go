// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package aggregator

import (
	"errors"
	"testing"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/DataDog/docker-containers-check/pkg/config"
	"github.com/DataDog/docker-containers-check/pkg/metrics/servicecheck"
)

type mockStatsdClient struct {
	mock.Mock
}

func (m *mockStatsdClient) Gauge(name string, value float64, tags []string, rate float64) error {
	return m.Called(name, value, tags, rate).Error(0)
}

func (m *mockStatsdClient) Count(name string, value int64, tags []string, rate float64) error {
	return m.Called(name, value, tags, rate).Error(0)
}

func (m *mockStatsdClient) Histogram(name string, value float64, tags []string, rate float64) error {
	return m.Called(name, value, tags, rate).Error(0)
}

func (m *mockStatsdClient) ServiceCheck(sc *statsd.ServiceCheck) error {
	return m.Called(sc).Error(0)
}

func (m *mockStatsdClient) Flush() error {
	return m.Called().Error(0)
}

func (m *mockStatsdClient) Close() error {
	return m.Called().Error(0)
}

func TestStatsdSinkSend(t *testing.T) {
	client := &mockStatsdClient{}
	client.On("Gauge", "docker.running_containers", 3.0, []string{"container_type:web", "host:docker-host"}, 1.0).Return(nil).Once()
	client.On("Count", "docker.events", int64(4), []string{"host:docker-host"}, 1.0).Return(nil).Once()
	client.On("Histogram", "docker.latency", 0.5, []string(nil), 1.0).Return(nil).Once()
	client.On("ServiceCheck", mock.MatchedBy(func(sc *statsd.ServiceCheck) bool {
		return sc.Name == "datadog.agent.check_status" && sc.Status == statsd.Warn && sc.Hostname == "docker-host"
	})).Return(nil).Once()

	sink := newStatsdSinkWithClient(client)
	err := sink.Send(
		[]*MetricSample{
			{Name: "docker.running_containers", Value: 3, Mtype: GaugeType, Tags: []string{"container_type:web"}, Host: "docker-host", SampleRate: 1},
			{Name: "docker.events", Value: 4, Mtype: MonotonicCountType, Host: "docker-host", SampleRate: 1},
			{Name: "docker.latency", Value: 0.5, Mtype: HistogramType, SampleRate: 1},
		},
		servicecheck.ServiceChecks{
			{CheckName: "datadog.agent.check_status", Status: servicecheck.ServiceCheckWarning, Host: "docker-host"},
		},
	)
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestStatsdSinkSendAggregatesErrors(t *testing.T) {
	client := &mockStatsdClient{}
	client.On("Gauge", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("buffer full"))

	sink := newStatsdSinkWithClient(client)
	err := sink.Send([]*MetricSample{
		{Name: "a", Mtype: GaugeType, SampleRate: 1},
		{Name: "b", Mtype: GaugeType, SampleRate: 1},
		{Name: "c", Mtype: MetricType(42), SampleRate: 1},
	}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 errors occurred")
	assert.Contains(t, err.Error(), "unsupported metric type")
}

func TestStatsdSinkFlushAndClose(t *testing.T) {
	client := &mockStatsdClient{}
	client.On("Flush").Return(nil).Once()
	client.On("Close").Return(nil).Once()

	sink := newStatsdSinkWithClient(client)
	require.NoError(t, sink.Flush())
	require.NoError(t, sink.Close())
	client.AssertExpectations(t)
}

func TestStatsdAddress(t *testing.T) {
	cfg := config.Mock(t)
	assert.Equal(t, "localhost:8125", statsdAddress(cfg))

	cfg.Set("dogstatsd_host", "10.0.0.1")
	cfg.Set("dogstatsd_port", 9125)
	assert.Equal(t, "10.0.0.1:9125", statsdAddress(cfg))

	cfg.Set("dogstatsd_socket", "/var/run/datadog/dsd.socket")
	assert.Equal(t, "unix:///var/run/datadog/dsd.socket", statsdAddress(cfg))
}

func TestNewStatsdSink(t *testing.T) {
	cfg := config.Mock(t)
	cfg.Set("statsd_metric_namespace", "test")
	cfg.Set("tags", []string{"env:ci"})

	// UDP clients don't need a listening server to be created
	sink, err := NewStatsdSink(cfg)
	require.NoError(t, err)
	require.NoError(t, sink.Close())
}
