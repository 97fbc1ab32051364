// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package docker lists running containers through the Docker Engine API.
package docker

import (
	"context"
	"fmt"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"

	"github.com/DataDog/docker-containers-check/pkg/util/containers"
	"github.com/DataDog/docker-containers-check/pkg/util/log"
)

// dockerClient is the subset of client.APIClient used by DockerUtil
type dockerClient interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]types.Container, error)
	DaemonHost() string
	Close() error
}

// DockerUtil wraps interactions with a local docker API.
//
//nolint:revive
type DockerUtil struct {
	cli dockerClient
}

var _ containers.Lister = (*DockerUtil)(nil)

// NewDockerUtil returns a DockerUtil talking to the daemon configured through
// the DOCKER_HOST, DOCKER_API_VERSION, DOCKER_CERT_PATH and DOCKER_TLS_VERIFY
// environment variables. The daemon is not contacted until the first listing.
func NewDockerUtil() (*DockerUtil, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDockerNotAvailable, err)
	}
	log.Debugf("Docker client configured for %s", cli.DaemonHost())
	return &DockerUtil{cli: cli}, nil
}

// String implements containers.Lister
func (d *DockerUtil) String() string {
	return "docker at " + d.cli.DaemonHost()
}

// ListRunningContainers returns the names of the running containers, the way
// `docker ps --format {{.Names}}` prints them.
func (d *DockerUtil) ListRunningContainers(ctx context.Context) ([]string, error) {
	list, err := d.cli.ContainerList(ctx, container.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: listing docker containers: %w", containers.ErrRuntimeUnavailable, err)
	}

	names := make([]string, 0, len(list))
	for _, c := range list {
		name := containerNames(c)
		if name == "" {
			return nil, fmt.Errorf("%w: container %q has no name nor ID", containers.ErrMalformedOutput, c.Image)
		}
		names = append(names, name)
	}
	return names, nil
}

// Close closes the underlying client
func (d *DockerUtil) Close() error {
	return d.cli.Close()
}

// containerNames joins the container names, dropping their leading slash
func containerNames(c types.Container) string {
	if len(c.Names) == 0 {
		if len(c.ID) > 12 {
			return c.ID[:12]
		}
		return c.ID
	}
	names := make([]string, 0, len(c.Names))
	for _, n := range c.Names {
		names = append(names, strings.TrimPrefix(n, "/"))
	}
	return strings.Join(names, ",")
}
