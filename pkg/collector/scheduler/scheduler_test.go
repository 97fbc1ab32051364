// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package scheduler

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataDog/docker-containers-check/pkg/collector/check"
	checkid "github.com/DataDog/docker-containers-check/pkg/collector/check/id"
	"github.com/DataDog/docker-containers-check/pkg/collector/check/stub"
)

type testCheck struct {
	stub.StubCheck
	id       string
	interval time.Duration
}

func (c *testCheck) ID() checkid.ID          { return checkid.ID(c.id) }
func (c *testCheck) String() string          { return checkid.IDToCheckName(c.ID()) }
func (c *testCheck) Interval() time.Duration { return c.interval }

func receive(t *testing.T, pipe <-chan check.Check) check.Check {
	t.Helper()
	select {
	case c := <-pipe:
		return c
	case <-time.After(5 * time.Second):
		require.FailNow(t, "no check was enqueued")
	}
	return nil
}

func assertNothingEnqueued(t *testing.T, pipe <-chan check.Check) {
	t.Helper()
	select {
	case c := <-pipe:
		assert.Failf(t, "unexpected enqueue", "check %s", c.ID())
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEnterInvalidInterval(t *testing.T) {
	s := NewScheduler(make(chan check.Check))
	err := s.Enter(&testCheck{id: "fast", interval: 10 * time.Millisecond})
	assert.Error(t, err)
	assert.False(t, s.IsCheckScheduled("fast"))
}

func TestEnterTwice(t *testing.T) {
	s := NewScheduler(make(chan check.Check))
	c := &testCheck{id: "docker_containers:web:1", interval: 15 * time.Second}
	require.NoError(t, s.Enter(c))
	assert.Error(t, s.Enter(c))
	assert.True(t, s.IsCheckScheduled(c.ID()))
}

func TestRunEnqueuesImmediatelyThenEveryInterval(t *testing.T) {
	pipe := make(chan check.Check)
	mockClock := clock.NewMock()
	s := newSchedulerWithClock(pipe, mockClock)
	defer s.Stop()

	c := &testCheck{id: "docker_containers:web:1", interval: 15 * time.Second}
	require.NoError(t, s.Enter(c))
	s.Run()

	assert.Equal(t, c, receive(t, pipe))
	assertNothingEnqueued(t, pipe)

	mockClock.Add(15 * time.Second)
	assert.Equal(t, c, receive(t, pipe))

	mockClock.Add(15 * time.Second)
	assert.Equal(t, c, receive(t, pipe))
}

func TestEnterWhileRunning(t *testing.T) {
	pipe := make(chan check.Check)
	s := newSchedulerWithClock(pipe, clock.NewMock())
	s.Run()
	defer s.Stop()

	c := &testCheck{id: "docker_containers:web:1", interval: time.Minute}
	require.NoError(t, s.Enter(c))
	assert.Equal(t, c, receive(t, pipe))
}

func TestLongRunningCheckEnqueuedOnce(t *testing.T) {
	pipe := make(chan check.Check)
	mockClock := clock.NewMock()
	s := newSchedulerWithClock(pipe, mockClock)
	defer s.Stop()

	c := &testCheck{id: "longrunning", interval: 0}
	require.NoError(t, s.Enter(c))
	s.Run()

	assert.Equal(t, c, receive(t, pipe))
	mockClock.Add(time.Hour)
	assertNothingEnqueued(t, pipe)
}

func TestCancel(t *testing.T) {
	pipe := make(chan check.Check)
	mockClock := clock.NewMock()
	s := newSchedulerWithClock(pipe, mockClock)
	defer s.Stop()

	c := &testCheck{id: "docker_containers:web:1", interval: 15 * time.Second}
	require.NoError(t, s.Enter(c))
	s.Run()
	receive(t, pipe)

	require.NoError(t, s.Cancel(c.ID()))
	assert.False(t, s.IsCheckScheduled(c.ID()))

	mockClock.Add(15 * time.Second)
	assertNothingEnqueued(t, pipe)

	// unknown checks are a noop
	assert.NoError(t, s.Cancel("unknown"))
}

func TestStopUnblocksPendingEnqueue(t *testing.T) {
	// nobody reads the pipe
	s := newSchedulerWithClock(make(chan check.Check), clock.NewMock())
	require.NoError(t, s.Enter(&testCheck{id: "docker_containers:web:1", interval: 15 * time.Second}))
	s.Run()

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		require.FailNow(t, "Stop did not return")
	}
	assert.False(t, s.IsCheckScheduled("docker_containers:web:1"))
}
