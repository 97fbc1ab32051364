// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package mocksender provides a testify mock of the sender interfaces.
package mocksender

import (
	"github.com/stretchr/testify/mock"

	"github.com/DataDog/docker-containers-check/pkg/aggregator/sender"
	checkid "github.com/DataDog/docker-containers-check/pkg/collector/check/id"
	"github.com/DataDog/docker-containers-check/pkg/metrics/servicecheck"
)

// MockSender allows mocking of the checkSender for unit testing
type MockSender struct {
	mock.Mock
	id checkid.ID
}

// NewMockSender returns a functional mocked Sender for testing
func NewMockSender(id checkid.ID) *MockSender {
	return &MockSender{id: id}
}

// SetupAcceptAll sets mock expectations to accept any call in the Sender interface
func (m *MockSender) SetupAcceptAll() {
	metricCalls := []string{"Rate", "Count", "MonotonicCount", "Histogram", "Gauge"}
	for _, call := range metricCalls {
		m.On(call,
			mock.AnythingOfType("string"),   // Metric
			mock.AnythingOfType("float64"),  // Value
			mock.AnythingOfType("string"),   // Hostname
			mock.AnythingOfType("[]string"), // Tags
		).Return()
	}
	m.On("ServiceCheck",
		mock.AnythingOfType("string"),                          // Name
		mock.AnythingOfType("servicecheck.ServiceCheckStatus"), // Status
		mock.AnythingOfType("string"),                          // Hostname
		mock.AnythingOfType("[]string"),                        // Tags
		mock.AnythingOfType("string"),                          // Message
	).Return()
	m.On("Commit").Return()
}

// ResetCalls makes the mock forget previous calls
func (m *MockSender) ResetCalls() {
	m.Mock.Calls = m.Mock.Calls[0:0]
}

// GetSenderManager returns a SenderManager that always hands out this mock
func (m *MockSender) GetSenderManager() sender.SenderManager {
	return &mockSenderManager{sender: m}
}

// Gauge adds a gauge type to the mock calls.
func (m *MockSender) Gauge(metric string, value float64, hostname string, tags []string) {
	m.Called(metric, value, hostname, tags)
}

// Rate adds a rate type to the mock calls.
func (m *MockSender) Rate(metric string, value float64, hostname string, tags []string) {
	m.Called(metric, value, hostname, tags)
}

// Count adds a count type to the mock calls.
func (m *MockSender) Count(metric string, value float64, hostname string, tags []string) {
	m.Called(metric, value, hostname, tags)
}

// MonotonicCount adds a monotonic count type to the mock calls.
func (m *MockSender) MonotonicCount(metric string, value float64, hostname string, tags []string) {
	m.Called(metric, value, hostname, tags)
}

// Histogram adds a histogram type to the mock calls.
func (m *MockSender) Histogram(metric string, value float64, hostname string, tags []string) {
	m.Called(metric, value, hostname, tags)
}

// ServiceCheck enables the service check mock call.
func (m *MockSender) ServiceCheck(checkName string, status servicecheck.ServiceCheckStatus, hostname string, tags []string, message string) {
	m.Called(checkName, status, hostname, tags, message)
}

// Commit enables the commit mock call.
func (m *MockSender) Commit() {
	m.Called()
}

type mockSenderManager struct {
	sender *MockSender
}

func (m *mockSenderManager) GetSender(checkid.ID) (sender.Sender, error) {
	return m.sender, nil
}

func (m *mockSenderManager) DestroySender(checkid.ID) {}

func (m *mockSenderManager) GetDefaultSender() (sender.Sender, error) {
	return m.sender, nil
}
