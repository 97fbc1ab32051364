// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package corechecks

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataDog/docker-containers-check/pkg/aggregator/mocksender"
	"github.com/DataDog/docker-containers-check/pkg/aggregator/sender"
	"github.com/DataDog/docker-containers-check/pkg/autodiscovery/integration"
	"github.com/DataDog/docker-containers-check/pkg/collector/check"
)

// FIXTURE
type TestCheck struct {
	CheckBase
}

func (c *TestCheck) Configure(senderManager sender.SenderManager, data integration.Data, initConfig integration.Data, source string) error {
	switch string(data) {
	case "err":
		return errors.New("testError")
	case "skip":
		return check.ErrSkipCheckInstance
	}
	c.BuildID(data, initConfig)
	return c.CommonConfigure(senderManager, initConfig, data, source)
}

func (c *TestCheck) Run() error { return nil }

func testCheckFactory() check.Check {
	return &TestCheck{CheckBase: NewCheckBase("foo")}
}

func TestLoad(t *testing.T) {
	RegisterCheck("foo", testCheckFactory)
	senderManager := mocksender.NewMockSender("").GetSenderManager()

	// check is in catalog, pass 1 good instance
	i := []integration.Data{
		integration.Data("foo: bar"),
	}
	cc := integration.Config{Name: "foo", Instances: i, Source: "file:foo.yaml"}
	l, _ := NewGoCheckLoader()
	assert.Equal(t, GoCheckLoaderName, l.Name())
	assert.Equal(t, "GoCheckLoader", l.String())

	c, err := l.Load(senderManager, cc, i[0])
	require.NoError(t, err)
	assert.Equal(t, "foo", c.String())
	assert.Equal(t, "file:foo.yaml", c.ConfigSource())

	// check is in catalog, pass 1 bad instance
	i = []integration.Data{
		integration.Data("err"),
	}
	cc = integration.Config{Name: "foo", Instances: i}

	_, err = l.Load(senderManager, cc, i[0])
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "testError")

	// check refuses the instance
	i = []integration.Data{
		integration.Data("skip"),
	}
	cc = integration.Config{Name: "foo", Instances: i}

	_, err = l.Load(senderManager, cc, i[0])
	assert.ErrorIs(t, err, check.ErrSkipCheckInstance)

	// check is not in catalog
	cc = integration.Config{Name: "bar", Instances: i}
	_, err = l.Load(senderManager, cc, i[0])
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found in catalog")
}

func TestGetRegisteredFactoryKeys(t *testing.T) {
	RegisterCheck("foo", testCheckFactory)
	RegisterCheck("bar", testCheckFactory)

	keys := GetRegisteredFactoryKeys()
	assert.Contains(t, keys, "foo")
	assert.Contains(t, keys, "bar")
	assert.IsIncreasing(t, keys)
}
