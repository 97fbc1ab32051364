// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package collector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/DataDog/docker-containers-check/pkg/aggregator/mocksender"
	checkid "github.com/DataDog/docker-containers-check/pkg/collector/check/id"
	"github.com/DataDog/docker-containers-check/pkg/collector/check/stub"
)

type testCheck struct {
	stub.StubCheck
	id       string
	interval time.Duration
	runs     *atomic.Int64
	stopped  *atomic.Bool
}

func newTestCheck(id string) *testCheck {
	return &testCheck{
		id:       id,
		interval: time.Minute,
		runs:     atomic.NewInt64(0),
		stopped:  atomic.NewBool(false),
	}
}

func (c *testCheck) ID() checkid.ID          { return checkid.ID(c.id) }
func (c *testCheck) String() string          { return checkid.IDToCheckName(c.ID()) }
func (c *testCheck) Interval() time.Duration { return c.interval }
func (c *testCheck) Stop()                   { c.stopped.Store(true) }

func (c *testCheck) Run() error {
	c.runs.Inc()
	return nil
}

func newTestCollector(t *testing.T) *Collector {
	s := mocksender.NewMockSender("")
	s.SetupAcceptAll()

	c := NewCollector(s.GetSenderManager(), 2)
	require.NoError(t, c.Start())
	t.Cleanup(c.Stop)
	return c
}

func TestRunCheckNotStarted(t *testing.T) {
	c := NewCollector(nil, 1)
	_, err := c.RunCheck(newTestCheck("foo:1"))
	assert.ErrorIs(t, err, ErrNotStarted)
	assert.ErrorIs(t, c.StopCheck("foo:1"), ErrNotStarted)
}

func TestRunCheck(t *testing.T) {
	c := newTestCollector(t)

	ch := newTestCheck("docker_containers:web:1")
	id, err := c.RunCheck(ch)
	require.NoError(t, err)
	assert.Equal(t, ch.ID(), id)

	// first run is immediate
	require.Eventually(t, func() bool { return ch.runs.Load() == 1 }, 5*time.Second, 10*time.Millisecond)

	_, err = c.RunCheck(ch)
	assert.Error(t, err)
	assert.Len(t, c.GetChecks(), 1)
}

func TestRunCheckInvalidInterval(t *testing.T) {
	c := newTestCollector(t)

	ch := newTestCheck("fast:1")
	ch.interval = time.Millisecond
	_, err := c.RunCheck(ch)
	assert.Error(t, err)
	assert.Empty(t, c.GetChecks())
}

func TestStopCheck(t *testing.T) {
	c := newTestCollector(t)

	ch := newTestCheck("docker_containers:web:1")
	_, err := c.RunCheck(ch)
	require.NoError(t, err)

	require.NoError(t, c.StopCheck(ch.ID()))
	assert.True(t, ch.stopped.Load())
	assert.Empty(t, c.GetChecks())

	assert.Error(t, c.StopCheck(ch.ID()))
}

func TestCollectorStop(t *testing.T) {
	s := mocksender.NewMockSender("")
	s.SetupAcceptAll()
	c := NewCollector(s.GetSenderManager(), 1)
	require.NoError(t, c.Start())
	// starting twice is a noop
	require.NoError(t, c.Start())

	ch := newTestCheck("docker_containers:web:1")
	_, err := c.RunCheck(ch)
	require.NoError(t, err)

	c.Stop()
	assert.True(t, ch.stopped.Load())
	assert.Empty(t, c.GetChecks())

	// stopping twice is a noop
	c.Stop()
}
