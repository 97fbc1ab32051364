// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package check defines the contract between the collector and the checks it runs.
package check

import (
	"errors"
	"time"

	"github.com/DataDog/docker-containers-check/pkg/aggregator/sender"
	"github.com/DataDog/docker-containers-check/pkg/autodiscovery/integration"
	checkid "github.com/DataDog/docker-containers-check/pkg/collector/check/id"
)

const (
	// DefaultCheckInterval is the interval in seconds the scheduler should apply
	// when no value was provided in Check configuration.
	DefaultCheckInterval time.Duration = 15 * time.Second
)

// ErrSkipCheckInstance is returned from Configure() when a check is intentionally
// refusing to load a check instance, and does not want an error to be logged.
var ErrSkipCheckInstance = errors.New("refused to load the check instance")

// Check is an interface for types capable to run checks
type Check interface {
	Run() error                                                                                                 // run the check
	Stop()                                                                                                      // stop the check if it's running
	String() string                                                                                             // provide a printable version of the check name
	Configure(senderManager sender.SenderManager, config, initConfig integration.Data, source string) error // configure the check from the outside
	Interval() time.Duration                                                                                    // return the interval time for the check
	ID() checkid.ID                                                                                               // provide a unique identifier for every check instance
	GetWarnings() []error                                                                                       // return the last warning registered by the check
	Version() string                                                                                            // return the version of the check if available
	ConfigSource() string                                                                                       // return the configuration source of the check
}

// Loader is the interface wrapping the operations to load a check from
// different sources, like Python modules or Go objects.
//
// A single check is loaded for the given `instance` YAML.
type Loader interface {
	Name() string
	Load(senderManager sender.SenderManager, config integration.Config, instance integration.Data) (Check, error)
}
