// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	checkid "github.com/DataDog/docker-containers-check/pkg/collector/check/id"
	"github.com/DataDog/docker-containers-check/pkg/metrics/servicecheck"
)

func TestDemuxGetSenderIsStable(t *testing.T) {
	require := require.New(t)
	demux := NewDemultiplexer(NewMemorySink(), "docker-host")

	s1, err := demux.GetSender(checkid.ID("docker_containers:1"))
	require.NoError(err)
	s2, err := demux.GetSender(checkid.ID("docker_containers:1"))
	require.NoError(err)
	s3, err := demux.GetSender(checkid.ID("docker_containers:2"))
	require.NoError(err)

	require.Same(s1, s2)
	require.NotSame(s1, s3)

	demux.DestroySender(checkid.ID("docker_containers:1"))
	s4, err := demux.GetSender(checkid.ID("docker_containers:1"))
	require.NoError(err)
	require.NotSame(s1, s4)
}

func TestDemuxDefaultSender(t *testing.T) {
	demux := NewDemultiplexer(NewMemorySink(), "docker-host")

	s1, err := demux.GetDefaultSender()
	require.NoError(t, err)
	s2, err := demux.GetDefaultSender()
	require.NoError(t, err)
	assert.Same(t, s1, s2)
}

func TestSenderBuffersUntilCommit(t *testing.T) {
	sink := NewMemorySink()
	demux := NewDemultiplexer(sink, "docker-host")

	s, err := demux.GetSender(checkid.ID("docker_containers:1"))
	require.NoError(t, err)

	tags := []string{"container_type:web"}
	s.Gauge("docker.running_containers", 2, "", tags)
	s.Count("some.count", 1, "other-host", nil)
	s.ServiceCheck("datadog.agent.check_status", servicecheck.ServiceCheckOK, "", []string{"check:docker_containers"}, "")
	assert.Empty(t, sink.Samples())

	// the sender must not keep a reference to the caller's slice
	tags[0] = "mutated"

	s.Commit()

	samples := sink.Samples()
	require.Len(t, samples, 2)
	assert.Equal(t, "docker.running_containers", samples[0].Name)
	assert.Equal(t, 2.0, samples[0].Value)
	assert.Equal(t, GaugeType, samples[0].Mtype)
	assert.Equal(t, []string{"container_type:web"}, samples[0].Tags)
	assert.Equal(t, "docker-host", samples[0].Host)
	assert.Equal(t, "other-host", samples[1].Host)
	assert.Equal(t, CountType, samples[1].Mtype)

	scs := sink.ServiceChecks()
	require.Len(t, scs, 1)
	assert.Equal(t, servicecheck.ServiceCheckOK, scs[0].Status)
	assert.Equal(t, "docker-host", scs[0].Host)

	// nothing left to commit
	s.Commit()
	assert.Len(t, sink.Samples(), 2)

	sink.Reset()
	assert.Empty(t, sink.Samples())
	assert.Empty(t, sink.ServiceChecks())
}

func TestMetricTypeString(t *testing.T) {
	assert.Equal(t, "Gauge", GaugeType.String())
	assert.Equal(t, "Rate", RateType.String())
	assert.Equal(t, "Count", CountType.String())
	assert.Equal(t, "MonotonicCount", MonotonicCountType.String())
	assert.Equal(t, "Histogram", HistogramType.String())
	assert.Equal(t, "", MetricType(42).String())
}
