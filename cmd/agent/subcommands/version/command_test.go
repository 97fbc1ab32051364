// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package version

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataDog/docker-containers-check/cmd/agent/command"
	"github.com/DataDog/docker-containers-check/pkg/version"
)

func TestCommand(t *testing.T) {
	cmd := command.MakeCommand([]command.SubcommandFactory{Commands})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version", "--no-color"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Agent "+version.AgentVersion+" - Commit: ")
}
