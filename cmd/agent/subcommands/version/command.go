// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package version implements 'agent version'.
package version

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/DataDog/docker-containers-check/cmd/agent/command"
	"github.com/DataDog/docker-containers-check/pkg/version"
)

// Commands returns a slice of subcommands for the 'agent' command.
func Commands(*command.GlobalParams) []*cobra.Command {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version info",
		Long:  ``,
		Run: func(cmd *cobra.Command, _ []string) {
			commit := version.Commit
			if commit == "" {
				commit = "unknown"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Agent %s - Commit: %s - Go version: %s\n",
				color.CyanString(version.AgentVersion),
				color.GreenString(commit),
				color.RedString(runtime.Version()),
			)
		},
	}
	return []*cobra.Command{versionCmd}
}
