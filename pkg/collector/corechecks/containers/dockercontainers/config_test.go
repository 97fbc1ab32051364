// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package dockercontainers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataDog/docker-containers-check/pkg/config"
	"github.com/DataDog/docker-containers-check/pkg/util/containers"
)

func TestParseDefaults(t *testing.T) {
	config.Mock(t)

	conf := &DockerContainersConfig{}
	require.NoError(t, conf.Parse([]byte("container_name: web"), nil))

	require.NotNil(t, conf.ContainerName)
	assert.Equal(t, "web", *conf.ContainerName)
	assert.Equal(t, containers.RuntimeNameDocker, conf.Runtime)
	assert.Equal(t, 5*time.Second, conf.QueryTimeout())
	assert.Empty(t, conf.Command)
}

func TestParseAgentConfigDefaults(t *testing.T) {
	cfg := config.Mock(t)
	cfg.Set("container_runtime", "cri")
	cfg.Set("cri_socket_path", "/run/containerd/containerd.sock")
	cfg.Set("docker_query_timeout", 2)

	conf := &DockerContainersConfig{}
	require.NoError(t, conf.Parse([]byte("container_name: web"), nil))

	assert.Equal(t, containers.RuntimeNameCRI, conf.Runtime)
	assert.Equal(t, "/run/containerd/containerd.sock", conf.CRISocketPath)
	assert.Equal(t, 2*time.Second, conf.QueryTimeout())
}

func TestParseInitConfigAndInstanceOverrides(t *testing.T) {
	config.Mock(t)

	initConfig := []byte("runtime: command\ntimeout: 3\ncontainer_name: ignored")
	conf := &DockerContainersConfig{}
	require.NoError(t, conf.Parse([]byte("container_name: web\ntimeout: 0.5"), initConfig))

	assert.Equal(t, "web", *conf.ContainerName)
	assert.Equal(t, containers.RuntimeNameCommand, conf.Runtime)
	assert.Equal(t, 500*time.Millisecond, conf.QueryTimeout())
	assert.Equal(t, containers.DefaultListCommand, conf.Command)

	// container_name is never taken from init_config
	conf = &DockerContainersConfig{}
	assert.ErrorIs(t, conf.Parse([]byte("timeout: 1"), initConfig), ErrMissingContainerName)
}

func TestParseCustomCommand(t *testing.T) {
	config.Mock(t)

	conf := &DockerContainersConfig{}
	require.NoError(t, conf.Parse([]byte("container_name: web\nruntime: command\ncommand: [\"podman\", \"ps\", \"--format\", \"{{.Names}}\"]"), nil))
	assert.Equal(t, []string{"podman", "ps", "--format", "{{.Names}}"}, conf.Command)
}

func TestParseEmptyContainerName(t *testing.T) {
	config.Mock(t)

	conf := &DockerContainersConfig{}
	require.NoError(t, conf.Parse([]byte(`container_name: ""`), nil))
	assert.Equal(t, "", *conf.ContainerName)
}

func TestParseTimeoutBounds(t *testing.T) {
	config.Mock(t)

	conf := &DockerContainersConfig{}
	require.NoError(t, conf.Parse([]byte("container_name: web\ntimeout: 9223372036"), nil))
	assert.Equal(t, time.Duration(maxTimeout)*time.Second, conf.QueryTimeout())
	assert.Positive(t, conf.QueryTimeout())

	for _, timeout := range []string{".nan", ".inf", "-.inf", "9223372037", "1e300"} {
		t.Run(timeout, func(t *testing.T) {
			conf := &DockerContainersConfig{}
			err := conf.Parse([]byte("container_name: web\ntimeout: "+timeout), nil)
			assert.ErrorContains(t, err, "timeout must be a positive number of seconds")
		})
	}
}
