// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package runner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/DataDog/docker-containers-check/pkg/aggregator/mocksender"
	checkid "github.com/DataDog/docker-containers-check/pkg/collector/check/id"
	"github.com/DataDog/docker-containers-check/pkg/collector/check/stub"
	"github.com/DataDog/docker-containers-check/pkg/collector/runner/expvars"
)

type testCheck struct {
	stub.StubCheck
	id       string
	runCount *atomic.Uint64
	started  chan struct{}
	stop     chan struct{}
	stopped  *atomic.Bool
}

func newTestCheck(id string, blocking bool) *testCheck {
	c := &testCheck{
		id:       id,
		runCount: atomic.NewUint64(0),
		started:  make(chan struct{}, 10),
		stopped:  atomic.NewBool(false),
	}
	if blocking {
		c.stop = make(chan struct{})
	}
	return c
}

func (c *testCheck) ID() checkid.ID { return checkid.ID(c.id) }
func (c *testCheck) String() string { return checkid.IDToCheckName(c.ID()) }

func (c *testCheck) Run() error {
	c.started <- struct{}{}
	if c.stop != nil {
		<-c.stop
	}
	c.runCount.Inc()
	return nil
}

func (c *testCheck) Stop() {
	if c.stopped.CompareAndSwap(false, true) && c.stop != nil {
		close(c.stop)
	}
}

func newTestRunner(t *testing.T, numWorkers int) *Runner {
	s := mocksender.NewMockSender("")
	s.SetupAcceptAll()

	r := NewRunner(s.GetSenderManager(), numWorkers)
	require.NoError(t, r.Start())
	t.Cleanup(r.Stop)
	return r
}

func TestRunnerRunsChecks(t *testing.T) {
	expvars.Reset()
	r := newTestRunner(t, 2)

	c := newTestCheck("docker_containers:web:1", false)
	r.GetChan() <- c
	r.GetChan() <- c

	require.Eventually(t, func() bool { return c.runCount.Load() == 2 }, 5*time.Second, 10*time.Millisecond)
	assert.True(t, r.IsRunning())
}

func TestRunnerStartTwice(t *testing.T) {
	expvars.Reset()
	r := newTestRunner(t, 2)
	require.NoError(t, r.Start())
	require.Eventually(t, func() bool { return expvars.GetWorkerCount() == 2 }, 5*time.Second, 10*time.Millisecond)
}

func TestRunnerStopCheck(t *testing.T) {
	expvars.Reset()
	r := newTestRunner(t, 1)

	c := newTestCheck("docker_containers:web:1", true)
	r.GetChan() <- c
	<-c.started

	require.NoError(t, r.StopCheck(c.ID()))
	require.Eventually(t, func() bool { return c.runCount.Load() == 1 }, 5*time.Second, 10*time.Millisecond)

	// not running anymore
	require.NoError(t, r.StopCheck(c.ID()))
}

func TestRunnerStopStopsRunningChecks(t *testing.T) {
	expvars.Reset()
	s := mocksender.NewMockSender("")
	s.SetupAcceptAll()
	r := NewRunner(s.GetSenderManager(), 2)
	require.NoError(t, r.Start())

	c := newTestCheck("docker_containers:web:1", true)
	r.GetChan() <- c
	<-c.started

	r.Stop()
	assert.True(t, c.stopped.Load())
	assert.False(t, r.IsRunning())
	assert.Equal(t, 0, expvars.GetWorkerCount())

	// stopping twice is a noop
	r.Stop()
}

func TestNewRunnerMinimumWorkers(t *testing.T) {
	r := NewRunner(nil, 0)
	assert.Equal(t, 1, r.numWorkers)
}
