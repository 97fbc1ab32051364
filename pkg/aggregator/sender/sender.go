// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package sender defines the interfaces checks use to submit metrics.
package sender

import (
	checkid "github.com/DataDog/docker-containers-check/pkg/collector/check/id"
	"github.com/DataDog/docker-containers-check/pkg/metrics/servicecheck"
)

// Sender allows sending metrics from checks/a check
type Sender interface {
	Commit()
	Gauge(metric string, value float64, hostname string, tags []string)
	Rate(metric string, value float64, hostname string, tags []string)
	Count(metric string, value float64, hostname string, tags []string)
	MonotonicCount(metric string, value float64, hostname string, tags []string)
	Histogram(metric string, value float64, hostname string, tags []string)
	ServiceCheck(checkName string, status servicecheck.ServiceCheckStatus, hostname string, tags []string, message string)
}

// SenderManager returns instances of Sender
//
//nolint:revive
type SenderManager interface {
	GetSender(id checkid.ID) (Sender, error)
	DestroySender(id checkid.ID)
	GetDefaultSender() (Sender, error)
}
