// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cihub/seelog"

	"github.com/DataDog/docker-containers-check/pkg/util/log"
)

const logFileMaxSize = 10 * 1024 * 1024         // 10MB
const logDateFormat = "2006-01-02 15:04:05 MST" // see time.Format for format syntax

// LoggerName is the name of the logger, added to every line
type LoggerName string

const (
	// CoreLoggerName is used by the agent process
	CoreLoggerName LoggerName = "CORE"
	// CheckCmdLoggerName is used by one-shot check runs
	CheckCmdLoggerName LoggerName = "CHECK"
)

// ErrNoLogOutput is returned when neither a file nor the console is enabled
var ErrNoLogOutput = errors.New("no log output configured")

func buildLoggerConfig(loggerName LoggerName, logLevel, logFile string, logToConsole bool) (string, error) {
	if logFile == "" && !logToConsole {
		return "", ErrNoLogOutput
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<seelog minlevel="%s">`, strings.ToLower(logLevel))
	b.WriteString(`<outputs formatid="common">`)
	if logToConsole {
		b.WriteString(`<console />`)
	}
	if logFile != "" {
		fmt.Fprintf(&b, `<rollingfile type="size" filename="%s" maxsize="%d" maxrolls="1" />`, logFile, logFileMaxSize)
	}
	b.WriteString(`</outputs><formats>`)
	fmt.Fprintf(&b, `<format id="common" format="%%Date(%s) | %s | %%LEVEL | (%%RelFile:%%Line in %%FuncShort) | %%Msg%%n"/>`, logDateFormat, loggerName)
	b.WriteString(`</formats></seelog>`)
	return b.String(), nil
}

// SetupLogger sets up the default logger
func SetupLogger(loggerName LoggerName, logLevel, logFile string, logToConsole bool) error {
	if _, ok := seelog.LogLevelFromString(strings.ToLower(logLevel)); !ok {
		return fmt.Errorf("unknown log level %q", logLevel)
	}

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
			return fmt.Errorf("unable to create log directory: %w", err)
		}
	}

	seelogConfig, err := buildLoggerConfig(loggerName, logLevel, logFile, logToConsole)
	if err != nil {
		return err
	}
	logger, err := seelog.LoggerFromConfigAsString(seelogConfig)
	if err != nil {
		return err
	}

	log.SetupLogger(logger, logLevel)
	return nil
}

// SetupLoggerFromConfig sets up the logger from the agent configuration
func SetupLoggerFromConfig(loggerName LoggerName, logLevelOverride string) error {
	logLevel := Datadog.GetString("log_level")
	if logLevelOverride != "" {
		logLevel = logLevelOverride
	}

	logFile := Datadog.GetString("log_file")
	if logFile == "" {
		logFile = DefaultLogFile
	}
	if Datadog.GetBool("disable_file_logging") {
		// this will prevent any logging on file
		logFile = ""
	}

	return SetupLogger(loggerName, logLevel, logFile, Datadog.GetBool("log_to_console"))
}
