// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package commonchecks contains shared checks used by the agent commands.
package commonchecks

import (
	corecheckLoader "github.com/DataDog/docker-containers-check/pkg/collector/corechecks"
	"github.com/DataDog/docker-containers-check/pkg/collector/corechecks/containers/dockercontainers"
)

// RegisterChecks registers all core checks
func RegisterChecks() {
	corecheckLoader.RegisterCheck(dockercontainers.CheckName, dockercontainers.Factory)
}
