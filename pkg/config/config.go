// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package config holds the agent configuration (datadog.yaml and DD_* env vars)
// and the logger setup.
package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/DataDog/viper"

	"github.com/DataDog/docker-containers-check/pkg/util/log"
)

const (
	// DefaultConfPath points to the folder containing datadog.yaml
	DefaultConfPath = "/etc/datadog-agent"
	// DefaultLogFile points to the log file that will be used if not configured
	DefaultLogFile = "/var/log/datadog/agent.log"

	defaultConfdPath = "/etc/datadog-agent/conf.d"
)

// Config represents an object that can load and store configuration parameters
// coming from different kind of sources.
type Config interface {
	Set(key string, value interface{})
	SetDefault(key string, value interface{})
	BindEnv(key string, envvars ...string)
	BindEnvAndSetDefault(key string, val interface{}, envvars ...string)
	IsSet(key string) bool

	Get(key string) interface{}
	GetString(key string) string
	GetBool(key string) bool
	GetInt(key string) int
	GetDuration(key string) time.Duration
	GetStringSlice(key string) []string
	AllSettings() map[string]interface{}
	GetEnvVars() []string

	ReadInConfig() error
	AddConfigPath(in string)
	SetConfigFile(in string)
	ConfigFileUsed() string
}

// Datadog is the global configuration object
var Datadog Config

func init() {
	Datadog = NewConfig("datadog", "DD", strings.NewReplacer(".", "_"))
	InitConfig(Datadog)
}

// InitConfig initializes the config defaults on a config
func InitConfig(config Config) {
	config.BindEnvAndSetDefault("hostname", "")
	config.BindEnvAndSetDefault("tags", []string{})
	config.BindEnvAndSetDefault("confd_path", defaultConfdPath)
	config.BindEnvAndSetDefault("check_runners", 4)
	config.BindEnvAndSetDefault("logging_frequency", 500)

	// Logging
	config.BindEnvAndSetDefault("log_level", "info")
	config.BindEnvAndSetDefault("log_file", "")
	config.BindEnvAndSetDefault("log_to_console", true)
	config.BindEnvAndSetDefault("disable_file_logging", false)

	// Dogstatsd
	config.BindEnvAndSetDefault("dogstatsd_host", "localhost")
	config.BindEnvAndSetDefault("dogstatsd_port", 8125)
	config.BindEnvAndSetDefault("dogstatsd_socket", "") // Notice: empty means feature disabled
	config.BindEnvAndSetDefault("statsd_metric_namespace", "")

	// Container runtimes
	config.BindEnvAndSetDefault("container_runtime", "docker")
	config.BindEnvAndSetDefault("docker_query_timeout", 5)
	config.BindEnvAndSetDefault("cri_socket_path", "")     // empty is disabled
	config.BindEnvAndSetDefault("cri_connection_timeout", 1) // in seconds

	// Internal telemetry
	config.BindEnvAndSetDefault("telemetry.enabled", false)
	config.BindEnvAndSetDefault("expvar_port", 5000)
}

// Load reads configs files and initializes the config module. A missing
// datadog.yaml is not an error: env vars and defaults still apply.
func Load() error {
	err := Datadog.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
		log.Warnf("no datadog.yaml found, using defaults and environment: %v", err)
		return nil
	}
	if err != nil {
		return err
	}
	log.Infof("loaded configuration from %s", Datadog.ConfigFileUsed())
	return nil
}

// SetupConfig points the configuration at the given path then loads it
func SetupConfig(confFilePath string) error {
	if confFilePath != "" {
		// If they set a config file directly, let's try to honor that
		if strings.HasSuffix(confFilePath, ".yaml") || strings.HasSuffix(confFilePath, ".yml") {
			Datadog.SetConfigFile(confFilePath)
		} else {
			Datadog.AddConfigPath(confFilePath)
		}
	}
	Datadog.AddConfigPath(DefaultConfPath)
	return Load()
}

// ConfdPaths returns the directories scanned for check configurations
func ConfdPaths() []string {
	paths := []string{Datadog.GetString("confd_path")}
	if used := Datadog.ConfigFileUsed(); used != "" {
		local := filepath.Join(filepath.Dir(used), "conf.d")
		if local != paths[0] {
			paths = append(paths, local)
		}
	}
	return paths
}
