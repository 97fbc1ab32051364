// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package stub provides a check that does nothing, to embed in test checks.
package stub

import (
	"time"

	"github.com/DataDog/docker-containers-check/pkg/aggregator/sender"
	"github.com/DataDog/docker-containers-check/pkg/autodiscovery/integration"
	checkid "github.com/DataDog/docker-containers-check/pkg/collector/check/id"
)

// StubCheck stubs a check, should only be used in tests
type StubCheck struct{}

// String provides a printable version of the check name
func (c *StubCheck) String() string { return "StubCheck" }

// Version returns the empty string
func (c *StubCheck) Version() string { return "" }

// ConfigSource returns the empty string
func (c *StubCheck) ConfigSource() string { return "" }

// Stop is a noop
func (c *StubCheck) Stop() {}

// Configure is a noop
func (c *StubCheck) Configure(sender.SenderManager, integration.Data, integration.Data, string) error {
	return nil
}

// Interval returns a duration of one second
func (c *StubCheck) Interval() time.Duration { return 1 * time.Second }

// Run is a noop
func (c *StubCheck) Run() error { return nil }

// ID returns the check name
func (c *StubCheck) ID() checkid.ID { return checkid.ID(c.String()) }

// GetWarnings returns an empty slice
func (c *StubCheck) GetWarnings() []error { return []error{} }
