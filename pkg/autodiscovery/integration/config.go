// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package integration defines types representing an integration configuration,
// which can be used by several components of the agent to configure checks.
package integration

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/twmb/murmur3"
	yaml "gopkg.in/yaml.v2"
)

// Data contains YAML code
type Data []byte

// RawMap is the generic type to hold YAML configurations
type RawMap map[interface{}]interface{}

// Config is a generic container for configuration data specific to an
// integration. It contains snippets of configuration for various agent
// components, in fields of type Data.
type Config struct {
	// When a check is configured, the resulting Config will contain this
	// name.
	Name string `json:"check_name"`

	// Instances is the list of instances in YAML. Each instance is
	// configured independently.
	Instances []Data `json:"instances"`

	// InitConfig is the init_config in YAML.
	InitConfig Data `json:"init_config"`

	// Provider is the name of the config provider that issued the config.
	Provider string `json:"provider"`

	// Source is the source of the configuration, e.g. "file:/etc/datadog-agent/conf.d/docker_containers.d/conf.yaml"
	Source string `json:"source"`
}

// CommonInstanceConfig holds the reserved fields for the yaml instance data
type CommonInstanceConfig struct {
	MinCollectionInterval int      `yaml:"min_collection_interval"`
	Tags                  []string `yaml:"tags"`
	Name                  string   `yaml:"name"`
}

// Equal determines whether the passed config is the same
func (c *Config) Equal(cfg *Config) bool {
	if cfg == nil {
		return false
	}

	return c.Digest() == cfg.Digest()
}

// String YAML representation of the config
func (c *Config) String() string {
	rawConfig := make(map[interface{}]interface{})
	var initConfig interface{}
	var instances []interface{}

	yaml.Unmarshal(c.InitConfig, &initConfig) //nolint:errcheck
	rawConfig["init_config"] = initConfig

	for _, i := range c.Instances {
		var instance interface{}
		yaml.Unmarshal(i, &instance) //nolint:errcheck
		instances = append(instances, instance)
	}
	rawConfig["instances"] = instances

	buffer, err := yaml.Marshal(&rawConfig)
	if err != nil {
		return ""
	}

	return string(buffer)
}

// IsCheckConfig returns true if the config is a check configuration
func (c *Config) IsCheckConfig() bool {
	return c.Name != "" && len(c.Instances) > 0
}

// Digest returns an hash value representing the data stored in this configuration.
// Instances are hashed in order.
func (c *Config) Digest() string {
	h := murmur3.New64()
	_, _ = h.Write([]byte(c.Name))
	for _, i := range c.Instances {
		_, _ = h.Write([]byte(i))
	}
	_, _ = h.Write([]byte(c.InitConfig))

	return strconv.FormatUint(h.Sum64(), 16)
}

// MergeAdditionalTags merges additional tags to possible existing config tags
func (c *Data) MergeAdditionalTags(tags []string) error {
	rawConfig := RawMap{}
	err := yaml.Unmarshal(*c, &rawConfig)
	if err != nil {
		return err
	}
	rTags, _ := rawConfig["tags"].([]interface{})
	existing := make(map[string]struct{}, len(rTags))
	for _, t := range rTags {
		existing[fmt.Sprint(t)] = struct{}{}
	}
	for _, t := range tags {
		if _, found := existing[t]; !found {
			rTags = append(rTags, t)
			existing[t] = struct{}{}
		}
	}
	if len(rTags) > 0 {
		rawConfig["tags"] = rTags
	}

	out, err := yaml.Marshal(&rawConfig)
	if err != nil {
		return err
	}
	*c = out
	return nil
}

// GetNameForInstance returns the name from an instance if specified, fallback on namespace
func (c *Data) GetNameForInstance() string {
	commonOptions := CommonInstanceConfig{}
	if err := yaml.Unmarshal(*c, &commonOptions); err != nil {
		return ""
	}
	return strings.TrimSpace(commonOptions.Name)
}
