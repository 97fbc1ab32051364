// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package version defines the version of the agent
package version

import (
	"fmt"
	"runtime"
)

// AgentVersion contains the version of the Agent.
// It is populated at build time using -ldflags "-X"
var AgentVersion string

// Commit is populated with the short commit hash from which the Agent was built
var Commit string

var agentVersionDefault = "0.1.0-devel"

func init() {
	if AgentVersion == "" {
		AgentVersion = agentVersionDefault
	}
}

// String returns the human readable version line printed by `agent version`
func String() string {
	commit := Commit
	if commit == "" {
		commit = "unknown"
	}
	return fmt.Sprintf("Agent %s - Commit: %s - Go version: %s", AgentVersion, commit, runtime.Version())
}
