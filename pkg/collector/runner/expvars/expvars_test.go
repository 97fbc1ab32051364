// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package expvars

import (
	"encoding/json"
	"errors"
	"expvar"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	checkid "github.com/DataDog/docker-containers-check/pkg/collector/check/id"
	"github.com/DataDog/docker-containers-check/pkg/collector/check/stub"
)

type testCheck struct {
	stub.StubCheck
	id string
}

func (c *testCheck) ID() checkid.ID { return checkid.ID(c.id) }
func (c *testCheck) String() string { return checkid.IDToCheckName(c.ID()) }

func TestCheckStats(t *testing.T) {
	Reset()

	web := &testCheck{id: "docker_containers:web:1234"}
	db := &testCheck{id: "docker_containers:db:5678"}

	AddCheckStats(web, 10*time.Millisecond, nil, nil)
	AddCheckStats(web, 20*time.Millisecond, errors.New("boom"), nil)
	AddCheckStats(db, 10*time.Millisecond, nil, []error{errors.New("docker unreachable")})

	s, found := CheckStats(web.ID())
	require.True(t, found)
	assert.Equal(t, uint64(2), s.TotalRuns)
	assert.Equal(t, uint64(1), s.TotalErrors)
	assert.Equal(t, "boom", s.LastError)
	assert.Equal(t, int64(15), s.AverageExecutionTime)

	s, found = CheckStats(db.ID())
	require.True(t, found)
	assert.Equal(t, []string{"docker unreachable"}, s.LastWarnings)

	all := GetCheckStats()
	assert.Len(t, all["docker_containers"], 2)

	RemoveCheckStats(web.ID())
	_, found = CheckStats(web.ID())
	assert.False(t, found)

	RemoveCheckStats(db.ID())
	assert.Empty(t, GetCheckStats())
}

func TestCounters(t *testing.T) {
	Reset()

	AddRunningCheckCount(2)
	AddRunningCheckCount(-1)
	AddRunsCount(3)
	AddErrorsCount(1)
	AddWarningsCount(2)
	AddWorkerCount(4)

	assert.Equal(t, int64(1), GetRunningCheckCount())
	assert.Equal(t, uint64(3), GetRunsCount())
	assert.Equal(t, uint64(1), GetErrorsCount())
	assert.Equal(t, uint64(2), GetWarningsCount())
	assert.Equal(t, 4, GetWorkerCount())
}

func TestPublished(t *testing.T) {
	Reset()
	AddRunsCount(1)

	v := expvar.Get("runner")
	require.NotNil(t, v)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(v.String()), &out))
	assert.Equal(t, float64(1), out["Runs"])
}
