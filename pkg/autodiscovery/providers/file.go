// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package providers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	yaml "gopkg.in/yaml.v2"

	"github.com/DataDog/docker-containers-check/pkg/autodiscovery/integration"
	"github.com/DataDog/docker-containers-check/pkg/util/log"
)

// ErrNoInstances is returned for a check configuration file without instances
var ErrNoInstances = errors.New("configuration file contains no valid instances")

type configFormat struct {
	InitConfig interface{}          `yaml:"init_config"`
	Instances  []integration.RawMap `yaml:"instances"`
}

type configEntry struct {
	conf integration.Config
	name string
	err  error
}

// FileConfigProvider collect configuration files from disk
type FileConfigProvider struct {
	paths  []string
	errors map[string]string
	m      sync.RWMutex
}

var _ ConfigProvider = (*FileConfigProvider)(nil)

// NewFileConfigProvider creates a new FileConfigProvider searching for
// configuration files on the given paths
func NewFileConfigProvider(paths []string) *FileConfigProvider {
	return &FileConfigProvider{
		paths:  paths,
		errors: make(map[string]string),
	}
}

// Collect scans provided paths searching for configuration files. When
// found, it parses the files and try to unmarshall Yaml contents into a
// CheckConfig instance. A check configured in several paths is taken from
// the first one. The returned error aggregates the files that could not be
// read, the valid configurations are returned anyway.
func (c *FileConfigProvider) Collect() ([]integration.Config, error) {
	configs := []integration.Config{}
	configNames := make(map[string]struct{}) // use this map as a python set
	defaultConfigs := []integration.Config{}
	var errs *multierror.Error

	errorsByFile := make(map[string]string)

	for _, path := range c.paths {
		log.Debugf("Searching for configuration files at: %s", path)

		entries, err := os.ReadDir(path)
		if err != nil {
			log.Warnf("Skipping, %s", err) //nolint:errcheck
			continue
		}

		for _, entry := range entries {
			// We support only one level of nesting for check configs
			if entry.IsDir() {
				dirConfigs := c.collectDir(path, entry.Name(), errorsByFile, &errs)
				for _, conf := range dirConfigs {
					if _, isThere := configNames[conf.Name]; !isThere {
						configs = append(configs, conf)
					}
				}
				if len(dirConfigs) > 0 {
					configNames[dirConfigs[0].Name] = struct{}{}
				}
				continue
			}

			entry := collectEntry(entry.Name(), path, "")
			if entry.err != nil {
				errorsByFile[entry.name] = entry.err.Error()
				errs = multierror.Append(errs, fmt.Errorf("%s: %w", entry.name, entry.err))
				continue
			}
			if entry.name == "" {
				// not a check configuration
				continue
			}

			// determine if a check has to be run by default by
			// searching for check.yaml.default files
			if strings.HasSuffix(entry.name, ".default") {
				defaultConfigs = append(defaultConfigs, entry.conf)
				continue
			}
			if _, isThere := configNames[entry.conf.Name]; !isThere {
				configs = append(configs, entry.conf)
				configNames[entry.conf.Name] = struct{}{}
			}
		}
	}

	// add all the default enabled checks unless another regular
	// configuration file was already provided for the same check
	for _, conf := range defaultConfigs {
		if _, isThere := configNames[conf.Name]; !isThere {
			configs = append(configs, conf)
			configNames[conf.Name] = struct{}{}
		}
	}

	c.m.Lock()
	c.errors = errorsByFile
	c.m.Unlock()

	return configs, errs.ErrorOrNil()
}

// collectDir collects the configuration files of a `<check>.d` folder
func (c *FileConfigProvider) collectDir(parentPath, folder string, errorsByFile map[string]string, errs **multierror.Error) []integration.Config {
	configs := []integration.Config{}
	if filepath.Ext(folder) != ".d" {
		// the name of this directory isn't in the form `integration.d`, skip it
		log.Debugf("Not a config folder, skipping directory: %s", folder)
		return configs
	}

	dirPath := filepath.Join(parentPath, folder)
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		log.Warnf("Skipping config directory %s: %s", dirPath, err) //nolint:errcheck
		return configs
	}

	// strip the trailing `.d`
	integrationName := strings.TrimSuffix(folder, ".d")

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		entry := collectEntry(entry.Name(), dirPath, integrationName)
		if entry.err != nil {
			errorsByFile[entry.name] = entry.err.Error()
			*errs = multierror.Append(*errs, fmt.Errorf("%s: %w", entry.name, entry.err))
			continue
		}
		if entry.name == "" || strings.HasSuffix(entry.name, ".default") {
			continue
		}
		configs = append(configs, entry.conf)
	}
	return configs
}

// collectEntry reads one file. A zero entry means the file isn't a check
// configuration.
func collectEntry(fileName, path, integrationName string) configEntry {
	const defaultExt = ".default"
	var entry configEntry

	ext := filepath.Ext(fileName)
	checkName := strings.TrimSuffix(fileName, ext)
	if ext == defaultExt {
		// `foo.yaml.default`
		ext = filepath.Ext(checkName) + defaultExt
		checkName = strings.TrimSuffix(checkName, filepath.Ext(checkName))
	}

	if ext != ".yaml" && ext != ".yml" && ext != ".yaml"+defaultExt && ext != ".yml"+defaultExt {
		log.Tracef("Skipping file: %s", fileName)
		return entry
	}

	if integrationName == "" {
		integrationName = checkName
	}

	absPath := filepath.Join(path, fileName)
	entry.name = absPath

	conf, err := GetIntegrationConfigFromFile(integrationName, absPath)
	if err != nil {
		log.Warnf("%s is not a valid config file: %s", absPath, err) //nolint:errcheck
		entry.err = err
		return entry
	}
	log.Debugf("Found valid configuration in file: %s", absPath)
	entry.conf = conf
	return entry
}

// GetIntegrationConfigFromFile returns an instance of integration.Config if
// `fpath` points to a valid config file
func GetIntegrationConfigFromFile(name, fpath string) (integration.Config, error) {
	conf := integration.Config{Name: name}

	// Read file contents
	yamlFile, err := os.ReadFile(fpath)
	if err != nil {
		return conf, err
	}

	// Parse configuration
	cf := configFormat{}
	if err := yaml.Unmarshal(yamlFile, &cf); err != nil {
		return conf, err
	}

	// If no valid instances were found this is not a valid configuration file
	if len(cf.Instances) < 1 {
		return conf, ErrNoInstances
	}

	// at this point the Yaml was already parsed, no need to check the error
	if cf.InitConfig != nil {
		rawInitConfig, _ := yaml.Marshal(cf.InitConfig)
		conf.InitConfig = rawInitConfig
	}

	// Go through instances and return corresponding []byte
	for _, instance := range cf.Instances {
		// at this point the Yaml was already parsed, no need to check the error
		rawConf, _ := yaml.Marshal(instance)
		conf.Instances = append(conf.Instances, rawConf)
	}

	conf.Provider = File
	conf.Source = "file:" + fpath
	return conf, nil
}

// String returns a string representation of the FileConfigProvider
func (c *FileConfigProvider) String() string {
	return File
}

// GetConfigErrors returns the errors of the last Collect, keyed by file path
func (c *FileConfigProvider) GetConfigErrors() map[string]string {
	c.m.RLock()
	defer c.m.RUnlock()

	errs := make(map[string]string, len(c.errors))
	for file, err := range c.errors {
		errs[file] = err
	}
	return errs
}
