// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package subcommands lists the subcommands of the agent binary.
package subcommands

import (
	"github.com/DataDog/docker-containers-check/cmd/agent/command"
	cmdcheck "github.com/DataDog/docker-containers-check/cmd/agent/subcommands/check"
	cmdconfigcheck "github.com/DataDog/docker-containers-check/cmd/agent/subcommands/configcheck"
	cmdrun "github.com/DataDog/docker-containers-check/cmd/agent/subcommands/run"
	cmdversion "github.com/DataDog/docker-containers-check/cmd/agent/subcommands/version"
)

// AgentSubcommands returns SubcommandFactories for the subcommands supported
// with the current build flags.
func AgentSubcommands() []command.SubcommandFactory {
	return []command.SubcommandFactory{
		cmdrun.Commands,
		cmdcheck.Commands,
		cmdconfigcheck.Commands,
		cmdversion.Commands,
	}
}
