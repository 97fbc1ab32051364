// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package dockercontainers

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/DataDog/docker-containers-check/pkg/config"
	"github.com/DataDog/docker-containers-check/pkg/util/containers"
)

// ErrMissingContainerName is returned when an instance has no container_name
var ErrMissingContainerName = errors.New("container_name is required")

// maxTimeout is the largest timeout, in seconds, a time.Duration can hold
const maxTimeout = math.MaxInt64 / int64(time.Second)

// DockerContainersConfig holds the docker_containers check configuration.
// init_config accepts the same keys, except container_name, as instance defaults.
type DockerContainersConfig struct {
	// ContainerName is the pattern matched against running container names.
	// A nil value means the key is missing, the empty string matches everything.
	ContainerName *string `yaml:"container_name"`

	Runtime       string   `yaml:"runtime"`
	Timeout       float64  `yaml:"timeout"` // in seconds
	Command       []string `yaml:"command"`
	CRISocketPath string   `yaml:"cri_socket_path"`
}

// Parse reads the docker_containers check configuration, applying the agent
// configuration defaults.
func (c *DockerContainersConfig) Parse(data, initConfig []byte) error {
	// default values
	c.Runtime = config.Datadog.GetString("container_runtime")
	c.Timeout = float64(config.Datadog.GetInt("docker_query_timeout"))
	c.CRISocketPath = config.Datadog.GetString("cri_socket_path")

	if err := yaml.Unmarshal(initConfig, c); err != nil {
		return fmt.Errorf("invalid init_config: %w", err)
	}
	c.ContainerName = nil
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("invalid instance: %w", err)
	}

	if c.ContainerName == nil {
		return ErrMissingContainerName
	}
	if math.IsNaN(c.Timeout) || c.Timeout <= 0 || c.Timeout > float64(maxTimeout) {
		return fmt.Errorf("timeout must be a positive number of seconds up to %d, got %v", maxTimeout, c.Timeout)
	}
	switch c.Runtime {
	case containers.RuntimeNameDocker:
	case containers.RuntimeNameCRI:
		if c.CRISocketPath == "" {
			return fmt.Errorf("runtime %q requires cri_socket_path", c.Runtime)
		}
	case containers.RuntimeNameCommand:
		if len(c.Command) == 0 {
			c.Command = containers.DefaultListCommand
		}
	default:
		return fmt.Errorf("unknown runtime %q, expected one of %s, %s or %s", c.Runtime,
			containers.RuntimeNameDocker, containers.RuntimeNameCRI, containers.RuntimeNameCommand)
	}
	return nil
}

// QueryTimeout returns the bound applied to every runtime listing
func (c *DockerContainersConfig) QueryTimeout() time.Duration {
	return time.Duration(c.Timeout * float64(time.Second))
}
