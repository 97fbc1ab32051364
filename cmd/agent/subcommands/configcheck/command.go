// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package configcheck implements 'agent configcheck'.
package configcheck

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/DataDog/docker-containers-check/cmd/agent/command"
	"github.com/DataDog/docker-containers-check/cmd/agent/common"
	"github.com/DataDog/docker-containers-check/pkg/autodiscovery/integration"
	"github.com/DataDog/docker-containers-check/pkg/config"
	"github.com/DataDog/docker-containers-check/pkg/util/log"
)

// cliParams are the command-line arguments for this subcommand
type cliParams struct {
	*command.GlobalParams

	verbose bool
}

// Commands returns a slice of subcommands for the 'agent' command.
func Commands(globalParams *command.GlobalParams) []*cobra.Command {
	cliParams := &cliParams{GlobalParams: globalParams}

	configCheckCommand := &cobra.Command{
		Use:     "configcheck",
		Aliases: []string{"checkconfig"},
		Short:   "Print all the check configurations found in conf.d",
		Long:    ``,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := command.SetupConfig(cliParams.GlobalParams, config.CheckCmdLoggerName); err != nil {
				return err
			}
			defer log.Flush()
			return run(cmd.OutOrStdout(), cliParams)
		},
	}
	configCheckCommand.Flags().BoolVarP(&cliParams.verbose, "verbose", "v", false, "print the searched paths")

	return []*cobra.Command{configCheckCommand}
}

func run(out io.Writer, cliParams *cliParams) error {
	if cliParams.verbose {
		fmt.Fprintf(out, "Searched paths: %s\n\n", strings.Join(config.ConfdPaths(), ", "))
	}

	configs, provider := common.LoadCheckConfigs()
	sort.Slice(configs, func(i, j int) bool { return configs[i].Name < configs[j].Name })
	for _, c := range configs {
		printConfig(out, c)
	}

	configErrors := provider.GetConfigErrors()
	if len(configErrors) > 0 {
		fmt.Fprintln(out, color.RedString("=== Configuration errors ==="))
		files := make([]string, 0, len(configErrors))
		for file := range configErrors {
			files = append(files, file)
		}
		sort.Strings(files)
		for _, file := range files {
			fmt.Fprintf(out, "%s: %s\n", file, configErrors[file])
		}
	}
	return nil
}

// printConfig prints a human readable representation of a check config
func printConfig(out io.Writer, c integration.Config) {
	fmt.Fprintf(out, "=== %s check ===\n", color.GreenString(c.Name))
	fmt.Fprintf(out, "%s: %s\n", color.BlueString("Configuration provider"), c.Provider)
	fmt.Fprintf(out, "%s: %s\n", color.BlueString("Configuration source"), c.Source)
	for i, inst := range c.Instances {
		id := c.Name + ":" + checkInstanceID(c, inst)
		fmt.Fprintf(out, "%s %d (%s):\n%s", color.CyanString("Instance"), i+1, id, inst)
		fmt.Fprintln(out, "~")
	}
	if len(c.InitConfig) > 0 {
		fmt.Fprintf(out, "%s:\n%s", color.BlueString("Init Config"), c.InitConfig)
	}
	fmt.Fprintln(out, "===")
	fmt.Fprintln(out)
}
