// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package config

import (
	"strings"
	"testing"
)

// MockConfig should only be used in tests
type MockConfig struct {
	Config
}

// Mock is creating and returning a mock config. The global configuration is
// restored when the test ends.
func Mock(t testing.TB) *MockConfig {
	original := Datadog
	t.Cleanup(func() { Datadog = original })

	c := NewConfig("mock", "DD", strings.NewReplacer(".", "_"))
	InitConfig(c)
	Datadog = c
	return &MockConfig{c}
}
