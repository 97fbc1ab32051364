// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package common provides a set of common symbols needed by different packages,
// to avoid circular dependencies.
package common

import (
	"os"

	"github.com/DataDog/docker-containers-check/pkg/aggregator/sender"
	"github.com/DataDog/docker-containers-check/pkg/autodiscovery/integration"
	"github.com/DataDog/docker-containers-check/pkg/autodiscovery/providers"
	"github.com/DataDog/docker-containers-check/pkg/collector"
	"github.com/DataDog/docker-containers-check/pkg/collector/corechecks"
	"github.com/DataDog/docker-containers-check/pkg/commonchecks"
	"github.com/DataDog/docker-containers-check/pkg/config"
	"github.com/DataDog/docker-containers-check/pkg/util/log"
)

// Hostname returns the configured hostname, or the one of the OS
func Hostname() string {
	if hostname := config.Datadog.GetString("hostname"); hostname != "" {
		return hostname
	}
	hostname, err := os.Hostname()
	if err != nil {
		log.Warnf("Unable to get the hostname: %s", err) //nolint:errcheck
		return ""
	}
	return hostname
}

// LoadCheckConfigs collects the check configurations of the conf.d folders.
// Files that can't be read are logged and skipped.
func LoadCheckConfigs() ([]integration.Config, *providers.FileConfigProvider) {
	provider := providers.NewFileConfigProvider(config.ConfdPaths())
	configs, err := provider.Collect()
	if err != nil {
		log.Warnf("Some check configurations could not be loaded: %s", err) //nolint:errcheck
	}
	log.Debugf("%s provider collected %d check configurations", provider, len(configs))
	return configs, provider
}

// NewCheckScheduler registers the core checks and returns a check scheduler
// loading them into coll
func NewCheckScheduler(coll *collector.Collector, senderManager sender.SenderManager) *collector.CheckScheduler {
	commonchecks.RegisterChecks()

	loader, _ := corechecks.NewGoCheckLoader()
	return collector.InitCheckScheduler(coll, senderManager, loader)
}
