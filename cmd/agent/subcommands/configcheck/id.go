// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package configcheck

import (
	"strings"

	"github.com/DataDog/docker-containers-check/pkg/autodiscovery/integration"
	checkid "github.com/DataDog/docker-containers-check/pkg/collector/check/id"
)

// checkInstanceID is the ID the check instance gets once scheduled, without
// the check name
func checkInstanceID(c integration.Config, instance integration.Data) string {
	id := checkid.BuildID(c.Name, instance, c.InitConfig)
	return strings.TrimPrefix(string(id), c.Name+":")
}
