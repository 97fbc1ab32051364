// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package providers

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v2"

	"github.com/DataDog/docker-containers-check/pkg/autodiscovery/integration"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func sortedNames(configs []integration.Config) []string {
	names := make([]string, 0, len(configs))
	for _, c := range configs {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

const dockerContainersConf = `
init_config:
  runtime: docker

instances:
  - container_name: web
  - container_name: db
    tags:
      - env:prod
`

func TestGetIntegrationConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.yaml")
	writeFile(t, path, dockerContainersConf)

	config, err := GetIntegrationConfigFromFile("docker_containers", path)
	require.NoError(t, err)

	assert.Equal(t, "docker_containers", config.Name)
	assert.Equal(t, File, config.Provider)
	assert.Equal(t, "file:"+path, config.Source)
	assert.Equal(t, integration.Data("runtime: docker\n"), config.InitConfig)
	require.Len(t, config.Instances, 2)

	var instance struct {
		ContainerName string   `yaml:"container_name"`
		Tags          []string `yaml:"tags"`
	}
	require.NoError(t, yaml.Unmarshal(config.Instances[1], &instance))
	assert.Equal(t, "db", instance.ContainerName)
	assert.Equal(t, []string{"env:prod"}, instance.Tags)
}

func TestGetIntegrationConfigFromFileErrors(t *testing.T) {
	dir := t.TempDir()

	noInstances := filepath.Join(dir, "empty.yaml")
	writeFile(t, noInstances, "init_config:\ninstances:\n")
	_, err := GetIntegrationConfigFromFile("empty", noInstances)
	assert.ErrorIs(t, err, ErrNoInstances)

	invalid := filepath.Join(dir, "invalid.yaml")
	writeFile(t, invalid, "instances: [container_name: web")
	_, err = GetIntegrationConfigFromFile("invalid", invalid)
	assert.Error(t, err)

	_, err = GetIntegrationConfigFromFile("missing", filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestGetIntegrationConfigFromFileNoInitConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.yaml")
	writeFile(t, path, "instances:\n  - container_name: \"\"\n")

	config, err := GetIntegrationConfigFromFile("docker_containers", path)
	require.NoError(t, err)
	assert.Nil(t, config.InitConfig)
	assert.Len(t, config.Instances, 1)
}

func TestCollect(t *testing.T) {
	confd := t.TempDir()
	extra := t.TempDir()

	writeFile(t, filepath.Join(confd, "docker_containers.d", "conf.yaml"), dockerContainersConf)
	writeFile(t, filepath.Join(confd, "docker_containers.d", "conf.yaml.example"), dockerContainersConf)
	writeFile(t, filepath.Join(confd, "docker_containers.d", "broken.yaml"), "instances: [")
	writeFile(t, filepath.Join(confd, "other.yaml"), "instances:\n  - foo: bar\n")
	writeFile(t, filepath.Join(confd, "default_on.yaml.default"), "instances:\n  - {}\n")
	writeFile(t, filepath.Join(confd, "README.md"), "not a config")
	writeFile(t, filepath.Join(confd, "notaconf", "conf.yaml"), dockerContainersConf)
	// already configured in the first path
	writeFile(t, filepath.Join(extra, "other.yaml"), "instances:\n  - foo: baz\n")
	writeFile(t, filepath.Join(extra, "third.yml"), "instances:\n  - foo: bar\n")

	provider := NewFileConfigProvider([]string{confd, extra, filepath.Join(confd, "missing")})
	configs, err := provider.Collect()

	// broken.yaml is reported, the rest is still collected
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.yaml")
	assert.Contains(t, provider.GetConfigErrors(), filepath.Join(confd, "docker_containers.d", "broken.yaml"))

	assert.Equal(t, []string{"default_on", "docker_containers", "other", "third"}, sortedNames(configs))
	for _, c := range configs {
		if c.Name == "other" {
			assert.Equal(t, "file:"+filepath.Join(confd, "other.yaml"), c.Source)
		}
	}
	assert.Equal(t, "File", provider.String())
}

func TestCollectDefaultOverridden(t *testing.T) {
	confd := t.TempDir()
	writeFile(t, filepath.Join(confd, "docker_containers.yaml.default"), "instances:\n  - container_name: \"\"\n")
	writeFile(t, filepath.Join(confd, "docker_containers.d", "conf.yaml"), dockerContainersConf)

	configs, err := NewFileConfigProvider([]string{confd}).Collect()
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Len(t, configs[0].Instances, 2)
}
