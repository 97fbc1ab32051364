// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package command implements the top-level `agent` binary, including its subcommands.
package command

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/DataDog/docker-containers-check/pkg/config"
)

// GlobalParams contains the values of agent-global Cobra flags.
//
// A pointer to this type is passed to SubcommandFactory's, but its contents
// are not valid until Cobra calls the subcommand's Run or RunE function.
type GlobalParams struct {
	// ConfFilePath holds the path to the folder containing the configuration
	// file, to allow overrides from the command line
	ConfFilePath string

	// LogLevel overrides the log_level of the configuration
	LogLevel string

	// NoColor disables the colored output
	NoColor bool
}

// SubcommandFactory is a callable that will return a slice of subcommands.
type SubcommandFactory func(globalParams *GlobalParams) []*cobra.Command

// MakeCommand makes the top-level Cobra command for this app.
func MakeCommand(subcommandFactories []SubcommandFactory) *cobra.Command {
	globalParams := GlobalParams{}

	// AgentCmd is the root command
	agentCmd := &cobra.Command{
		Use:   filepath.Base(os.Args[0]) + " [command]",
		Short: "Datadog docker_containers agent at your service.",
		Long: `
The agent runs the docker_containers check: it counts the running containers
whose name matches a pattern and sends the count to DogStatsD as the
docker.running_containers gauge.`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if globalParams.NoColor {
				color.NoColor = true
			}
		},
	}

	agentCmd.PersistentFlags().StringVarP(&globalParams.ConfFilePath, "cfgpath", "c", "", "path to directory containing datadog.yaml")
	agentCmd.PersistentFlags().StringVarP(&globalParams.LogLevel, "log-level", "l", "", "override the log_level of the configuration")
	agentCmd.PersistentFlags().BoolVarP(&globalParams.NoColor, "no-color", "n", false, "disable color output")

	for _, sf := range subcommandFactories {
		for _, cmd := range sf(&globalParams) {
			agentCmd.AddCommand(cmd)
		}
	}

	return agentCmd
}

// SetupConfig loads the agent configuration then the logger
func SetupConfig(globalParams *GlobalParams, loggerName config.LoggerName) error {
	if err := config.SetupConfig(globalParams.ConfFilePath); err != nil {
		return fmt.Errorf("unable to set up global agent configuration: %w", err)
	}
	if err := config.SetupLoggerFromConfig(loggerName, globalParams.LogLevel); err != nil {
		return fmt.Errorf("unable to set up logger: %w", err)
	}
	return nil
}

// Run executes cmd, printing the error if any, and returns the exit code
func Run(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), color.RedString("Error: %v", err))
		return 255
	}
	return 0
}
