// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package commonchecks

import (
	"testing"

	"github.com/stretchr/testify/assert"

	corecheckLoader "github.com/DataDog/docker-containers-check/pkg/collector/corechecks"
)

func TestRegisterChecks(t *testing.T) {
	RegisterChecks()
	assert.Contains(t, corecheckLoader.GetRegisteredFactoryKeys(), "docker_containers")
}
