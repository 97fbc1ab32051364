// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package main

import (
	"os"

	"github.com/DataDog/docker-containers-check/cmd/agent/command"
	"github.com/DataDog/docker-containers-check/cmd/agent/subcommands"
)

func main() {
	os.Exit(command.Run(command.MakeCommand(subcommands.AgentSubcommands())))
}
