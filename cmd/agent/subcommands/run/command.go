// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package run implements 'agent run'.
package run

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/DataDog/docker-containers-check/cmd/agent/command"
	"github.com/DataDog/docker-containers-check/cmd/agent/common"
	"github.com/DataDog/docker-containers-check/pkg/aggregator"
	"github.com/DataDog/docker-containers-check/pkg/collector"
	"github.com/DataDog/docker-containers-check/pkg/config"
	"github.com/DataDog/docker-containers-check/pkg/telemetry"
	"github.com/DataDog/docker-containers-check/pkg/util/log"
	"github.com/DataDog/docker-containers-check/pkg/version"
)

const serverShutdownTimeout = 5 * time.Second

// cliParams are the command-line arguments for this subcommand
type cliParams struct {
	*command.GlobalParams
}

// Commands returns a slice of subcommands for the 'agent' command.
func Commands(globalParams *command.GlobalParams) []*cobra.Command {
	cliParams := &cliParams{GlobalParams: globalParams}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the Agent",
		Long:  `Runs the agent in the foreground`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := command.SetupConfig(cliParams.GlobalParams, config.CoreLoggerName); err != nil {
				return err
			}
			defer log.Flush()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx)
		},
	}

	return []*cobra.Command{runCmd}
}

// run starts the agent and blocks until ctx is done
func run(ctx context.Context) error {
	log.Infof("Starting %s", version.String())

	sink, err := aggregator.NewStatsdSink(config.Datadog)
	if err != nil {
		return fmt.Errorf("unable to create the DogStatsD client: %w", err)
	}
	defer sink.Close() //nolint:errcheck

	demux := aggregator.NewDemultiplexer(sink, common.Hostname())
	defer demux.Stop()

	coll := collector.NewCollector(demux, config.Datadog.GetInt("check_runners"))
	if err := coll.Start(); err != nil {
		return fmt.Errorf("unable to start the collector: %w", err)
	}

	checkScheduler := common.NewCheckScheduler(coll, demux)
	defer checkScheduler.Stop()

	configs, _ := common.LoadCheckConfigs()
	scheduled := checkScheduler.Schedule(configs)
	log.Infof("%d check instances scheduled from %d configurations", scheduled, len(configs))
	if scheduled == 0 {
		log.Warn("No check instance scheduled, the agent will only report its own telemetry") //nolint:errcheck
	}

	g, ctx := errgroup.WithContext(ctx)
	if config.Datadog.GetBool("telemetry.enabled") {
		addr := fmt.Sprintf("127.0.0.1:%d", config.Datadog.GetInt("expvar_port"))
		server := &http.Server{
			Addr:              addr,
			Handler:           newTelemetryRouter(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			log.Infof("Serving telemetry on http://%s/telemetry", addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("telemetry server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		log.Info("Stopping the agent")
		return nil
	})

	return g.Wait()
}

func newTelemetryRouter() *mux.Router {
	r := mux.NewRouter()
	r.Handle("/telemetry", telemetry.Handler()).Methods(http.MethodGet)
	r.Handle("/debug/vars", expvar.Handler()).Methods(http.MethodGet)
	return r
}
