// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package check implements 'agent check'.
package check

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/DataDog/docker-containers-check/cmd/agent/command"
	"github.com/DataDog/docker-containers-check/cmd/agent/common"
	"github.com/DataDog/docker-containers-check/pkg/aggregator"
	"github.com/DataDog/docker-containers-check/pkg/collector"
	"github.com/DataDog/docker-containers-check/pkg/collector/check"
	"github.com/DataDog/docker-containers-check/pkg/collector/check/stats"
	"github.com/DataDog/docker-containers-check/pkg/config"
	"github.com/DataDog/docker-containers-check/pkg/util/log"
)

// errCheckFailed is returned when at least one run of a check failed
var errCheckFailed = errors.New("check run failed")

// cliParams are the command-line arguments for this subcommand
type cliParams struct {
	*command.GlobalParams

	checkName  string
	checkTimes int
	checkDelay int
	formatJSON bool
}

// Commands returns a slice of subcommands for the 'agent' command.
func Commands(globalParams *command.GlobalParams) []*cobra.Command {
	cliParams := &cliParams{GlobalParams: globalParams}

	cmd := &cobra.Command{
		Use:   "check <check_name>",
		Short: "Run the specified check",
		Long:  `Use this to run a specific check with a specific rate`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliParams.checkName = args[0]
			if err := command.SetupConfig(cliParams.GlobalParams, config.CheckCmdLoggerName); err != nil {
				return err
			}
			defer log.Flush()
			return run(cmd.OutOrStdout(), cliParams)
		},
	}

	cmd.Flags().IntVarP(&cliParams.checkTimes, "check-times", "t", 1, "number of times to run the check")
	cmd.Flags().IntVar(&cliParams.checkDelay, "delay", 100, "delay between running the check, in milliseconds")
	cmd.Flags().BoolVarP(&cliParams.formatJSON, "json", "", false, "format aggregator and check runner output as json")

	return []*cobra.Command{cmd}
}

// sampleOutput is how a metric sample is printed
type sampleOutput struct {
	Metric string   `json:"metric"`
	Type   string   `json:"type"`
	Value  float64  `json:"value"`
	Tags   []string `json:"tags"`
	Host   string   `json:"host"`
}

// instanceOutput is the result of the runs of one check instance
type instanceOutput struct {
	CheckID              string         `json:"check_id"`
	CheckName            string         `json:"check_name"`
	Source               string         `json:"source"`
	TotalRuns            uint64         `json:"total_runs"`
	AverageExecutionTime int64          `json:"average_execution_time_ms"`
	Series               []sampleOutput `json:"series"`
	Warnings             []string       `json:"warnings,omitempty"`
	Errors               []string       `json:"errors,omitempty"`
}

func run(out io.Writer, cliParams *cliParams) error {
	if cliParams.checkTimes < 1 {
		return fmt.Errorf("check-times must be at least 1, got %d", cliParams.checkTimes)
	}

	sink := aggregator.NewMemorySink()
	demux := aggregator.NewDemultiplexer(sink, common.Hostname())
	defer demux.Stop()

	checkScheduler := common.NewCheckScheduler(nil, demux)
	configs, provider := common.LoadCheckConfigs()

	checks := checkScheduler.GetChecksByNameForConfigs(cliParams.checkName, configs)
	if len(checks) == 0 {
		for file, err := range provider.GetConfigErrors() {
			fmt.Fprintf(out, "Error parsing %s: %s\n", file, err)
		}
		for loader, err := range collector.GetLoaderErrors()[cliParams.checkName] {
			fmt.Fprintf(out, "%s: %s\n", loader, err)
		}
		return fmt.Errorf("no valid check found with name %s", cliParams.checkName)
	}

	results := make([]instanceOutput, 0, len(checks))
	failed := false
	for _, c := range checks {
		result := runCheck(c, sink, cliParams.checkTimes, time.Duration(cliParams.checkDelay)*time.Millisecond)
		if len(result.Errors) > 0 {
			failed = true
		}
		results = append(results, result)
	}

	if cliParams.formatJSON {
		b, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("unable to format the check output: %w", err)
		}
		fmt.Fprintln(out, string(b))
	} else {
		for _, result := range results {
			printResult(out, result)
		}
	}

	if failed {
		return errCheckFailed
	}
	return nil
}

// runCheck runs c the given number of times and stops it
func runCheck(c check.Check, sink *aggregator.MemorySink, times int, delay time.Duration) instanceOutput {
	defer c.Stop()

	s := stats.NewStats(c)
	result := instanceOutput{
		CheckID:   string(c.ID()),
		CheckName: c.String(),
		Source:    c.ConfigSource(),
		Series:    []sampleOutput{},
	}

	for i := 0; i < times; i++ {
		sink.Reset()
		start := time.Now()
		err := c.Run()
		warnings := c.GetWarnings()
		s.Add(time.Since(start), err, warnings)

		if err != nil {
			result.Errors = append(result.Errors, err.Error())
		}
		for _, w := range warnings {
			result.Warnings = append(result.Warnings, w.Error())
		}
		if i < times-1 {
			time.Sleep(delay)
		}
	}

	// only the samples of the last run are printed
	for _, sample := range sink.Samples() {
		tags := append([]string(nil), sample.Tags...)
		sort.Strings(tags)
		result.Series = append(result.Series, sampleOutput{
			Metric: sample.Name,
			Type:   sample.Mtype.String(),
			Value:  sample.Value,
			Tags:   tags,
			Host:   sample.Host,
		})
	}

	final := s.Copy()
	result.TotalRuns = final.TotalRuns
	result.AverageExecutionTime = final.AverageExecutionTime
	return result
}

func printResult(out io.Writer, result instanceOutput) {
	fmt.Fprintf(out, "=== %s ===\n", color.BlueString(result.CheckID))
	fmt.Fprintf(out, "  Source: %s\n", result.Source)
	fmt.Fprintf(out, "  Total Runs: %d, Average Execution Time: %dms\n", result.TotalRuns, result.AverageExecutionTime)
	for _, s := range result.Series {
		fmt.Fprintf(out, "  %s (%s) %s [%s]\n",
			color.CyanString(s.Metric), s.Type, color.GreenString("%v", s.Value), strings.Join(s.Tags, ", "))
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(out, "  %s %s\n", color.YellowString("Warning:"), w)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(out, "  %s %s\n", color.RedString("Error:"), e)
	}
}
