// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package corechecks holds the plumbing shared by the checks written in Go.
package corechecks

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/DataDog/docker-containers-check/pkg/aggregator/sender"
	"github.com/DataDog/docker-containers-check/pkg/autodiscovery/integration"
	"github.com/DataDog/docker-containers-check/pkg/collector/check"
	"github.com/DataDog/docker-containers-check/pkg/util/log"
)

// CheckFactory factory function type to instantiate checks
type CheckFactory func() check.Check

var (
	catalogLock sync.RWMutex
	catalog     = make(map[string]CheckFactory)
)

// RegisterCheck adds a check to the catalog
func RegisterCheck(name string, c CheckFactory) {
	catalogLock.Lock()
	defer catalogLock.Unlock()

	if _, found := catalog[name]; found {
		log.Debugf("Check %s was already registered, overriding it", name)
	}
	catalog[name] = c
}

// GetRegisteredFactoryKeys get the keys for all registered factories
func GetRegisteredFactoryKeys() []string {
	catalogLock.RLock()
	defer catalogLock.RUnlock()

	factoryKeys := make([]string, 0, len(catalog))
	for name := range catalog {
		factoryKeys = append(factoryKeys, name)
	}
	sort.Strings(factoryKeys)
	return factoryKeys
}

func getFactory(name string) (CheckFactory, bool) {
	catalogLock.RLock()
	defer catalogLock.RUnlock()
	factory, found := catalog[name]
	return factory, found
}

// GoCheckLoaderName is the name of the Go loader
const GoCheckLoaderName string = "core"

// GoCheckLoader is a specific loader for checks living in this package
type GoCheckLoader struct{}

var _ check.Loader = (*GoCheckLoader)(nil)

// NewGoCheckLoader creates a loader for go checks
func NewGoCheckLoader() (*GoCheckLoader, error) {
	return &GoCheckLoader{}, nil
}

// Name return returns Go loader name
func (gl *GoCheckLoader) Name() string {
	return GoCheckLoaderName
}

// Load returns a Go check
func (gl *GoCheckLoader) Load(senderManager sender.SenderManager, config integration.Config, instance integration.Data) (check.Check, error) {
	var c check.Check

	factory, found := getFactory(config.Name)
	if !found {
		return c, fmt.Errorf("check %s not found in catalog", config.Name)
	}

	c = factory()
	if err := c.Configure(senderManager, instance, config.InitConfig, config.Source); err != nil {
		if errors.Is(err, check.ErrSkipCheckInstance) {
			return c, err
		}
		log.Errorf("core.loader: could not configure check %s: %s", c, err)
		return c, fmt.Errorf("could not configure check %s: %w", c, err)
	}

	return c, nil
}

func (gl *GoCheckLoader) String() string {
	return "GoCheckLoader"
}
