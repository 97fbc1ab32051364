// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package log is the logging facade used across the agent. It wraps a seelog
// logger and scrubs credentials from every message before it is written.
package log

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/cihub/seelog"
)

var (
	logger *DatadogLogger

	// Lines logged before SetupLogger is called are replayed once the
	// logger exists. Loading the configuration is the only thing that
	// happens before that, so the buffer stays small.
	logsBuffer           = []func(){}
	bufferLogsBeforeInit = true
	bufferMutex          sync.Mutex
	defaultStackDepth    = 3
)

// DatadogLogger wrapper structure for seelog
type DatadogLogger struct {
	inner seelog.LoggerInterface
	level seelog.LogLevel
	l     sync.RWMutex
}

// SetupLogger configures the logger singleton with a seelog interface
func SetupLogger(i seelog.LoggerInterface, level string) {
	logger = &DatadogLogger{
		inner: i,
	}

	lvl, ok := seelog.LogLevelFromString(strings.ToLower(level))
	if !ok {
		lvl = seelog.InfoLvl
	}
	logger.level = lvl

	// The exported functions below add two frames between the caller and
	// seelog, skip them so %File and %Line point at the caller.
	logger.inner.SetAdditionalStackDepth(defaultStackDepth) //nolint:errcheck

	bufferMutex.Lock()
	defer bufferMutex.Unlock()
	bufferLogsBeforeInit = false
	for _, logLine := range logsBuffer {
		logLine()
	}
	logsBuffer = []func(){}
}

func addLogToBuffer(logHandle func()) {
	bufferMutex.Lock()
	defer bufferMutex.Unlock()

	logsBuffer = append(logsBuffer, logHandle)
}

func (sw *DatadogLogger) replaceInnerLogger(i seelog.LoggerInterface) seelog.LoggerInterface {
	sw.l.Lock()
	defer sw.l.Unlock()

	old := sw.inner
	sw.inner = i
	return old
}

func (sw *DatadogLogger) changeLogLevel(level string) error {
	sw.l.Lock()
	defer sw.l.Unlock()

	lvl, ok := seelog.LogLevelFromString(strings.ToLower(level))
	if !ok {
		return errors.New("bad log level")
	}
	sw.level = lvl
	return nil
}

func (sw *DatadogLogger) shouldLog(level seelog.LogLevel) bool {
	sw.l.RLock()
	defer sw.l.RUnlock()

	return level >= sw.level
}

func (sw *DatadogLogger) getLogLevel() seelog.LogLevel {
	sw.l.RLock()
	defer sw.l.RUnlock()

	return sw.level
}

// write sends an already formatted and scrubbed message to seelog
func (sw *DatadogLogger) write(level seelog.LogLevel, s string) error {
	sw.l.Lock()
	defer sw.l.Unlock()

	switch level {
	case seelog.TraceLvl:
		sw.inner.Trace(s)
	case seelog.DebugLvl:
		sw.inner.Debug(s)
	case seelog.InfoLvl:
		sw.inner.Info(s)
	case seelog.WarnLvl:
		return sw.inner.Warn(s)
	case seelog.ErrorLvl:
		return sw.inner.Error(s)
	case seelog.CriticalLvl:
		return sw.inner.Critical(s)
	}
	return nil
}

func scrubMessage(message string) string {
	msgScrubbed, err := CredentialsCleanerBytes([]byte(message))
	if err == nil {
		return string(msgScrubbed)
	}
	return "[REDACTED] - failure to clean the message"
}

func isReady() bool {
	return logger != nil && logger.inner != nil
}

func logLine(level seelog.LogLevel, bufferFunc func(), message func() string) {
	if isReady() {
		if logger.shouldLog(level) {
			logger.write(level, scrubMessage(message())) //nolint:errcheck
		}
		return
	}
	if bufferLogsBeforeInit {
		addLogToBuffer(bufferFunc)
	}
}

// logLineWithError logs like logLine but also returns the scrubbed message as
// an error, so callers can log and propagate in a single statement.
func logLineWithError(level seelog.LogLevel, bufferFunc func(), message func() string, fallbackStderr bool) error {
	msg := scrubMessage(message())
	err := errors.New(msg)

	if isReady() {
		if logger.shouldLog(level) {
			logger.write(level, msg) //nolint:errcheck
		}
		return err
	}
	if bufferLogsBeforeInit {
		addLogToBuffer(bufferFunc)
	}
	if fallbackStderr {
		fmt.Fprintf(os.Stderr, "%s: %s\n", level.String(), msg)
	}
	return err
}

// Trace logs at the trace level
func Trace(v ...interface{}) {
	logLine(seelog.TraceLvl, func() { Trace(v...) }, func() string { return fmt.Sprint(v...) })
}

// Tracef logs with format at the trace level
func Tracef(format string, params ...interface{}) {
	logLine(seelog.TraceLvl, func() { Tracef(format, params...) }, func() string { return fmt.Sprintf(format, params...) })
}

// Debug logs at the debug level
func Debug(v ...interface{}) {
	logLine(seelog.DebugLvl, func() { Debug(v...) }, func() string { return fmt.Sprint(v...) })
}

// Debugf logs with format at the debug level
func Debugf(format string, params ...interface{}) {
	logLine(seelog.DebugLvl, func() { Debugf(format, params...) }, func() string { return fmt.Sprintf(format, params...) })
}

// Info logs at the info level
func Info(v ...interface{}) {
	logLine(seelog.InfoLvl, func() { Info(v...) }, func() string { return fmt.Sprint(v...) })
}

// Infof logs with format at the info level
func Infof(format string, params ...interface{}) {
	logLine(seelog.InfoLvl, func() { Infof(format, params...) }, func() string { return fmt.Sprintf(format, params...) })
}

// Warn logs at the warn level and returns an error containing the formatted log message
func Warn(v ...interface{}) error {
	return logLineWithError(seelog.WarnLvl, func() { Warn(v...) }, func() string { return fmt.Sprint(v...) }, false)
}

// Warnf logs with format at the warn level and returns an error containing the formatted log message
func Warnf(format string, params ...interface{}) error {
	return logLineWithError(seelog.WarnLvl, func() { Warnf(format, params...) }, func() string { return fmt.Sprintf(format, params...) }, false)
}

// Error logs at the error level and returns an error containing the formatted log message
func Error(v ...interface{}) error {
	return logLineWithError(seelog.ErrorLvl, func() { Error(v...) }, func() string { return fmt.Sprint(v...) }, true)
}

// Errorf logs with format at the error level and returns an error containing the formatted log message
func Errorf(format string, params ...interface{}) error {
	return logLineWithError(seelog.ErrorLvl, func() { Errorf(format, params...) }, func() string { return fmt.Sprintf(format, params...) }, true)
}

// Critical logs at the critical level and returns an error containing the formatted log message
func Critical(v ...interface{}) error {
	return logLineWithError(seelog.CriticalLvl, func() { Critical(v...) }, func() string { return fmt.Sprint(v...) }, true)
}

// Criticalf logs with format at the critical level and returns an error containing the formatted log message
func Criticalf(format string, params ...interface{}) error {
	return logLineWithError(seelog.CriticalLvl, func() { Criticalf(format, params...) }, func() string { return fmt.Sprintf(format, params...) }, true)
}

// Flush flushes the underlying inner log
func Flush() {
	if isReady() {
		logger.inner.Flush()
	}
}

// ReplaceLogger allows replacing the internal logger, returns old logger
func ReplaceLogger(i seelog.LoggerInterface) seelog.LoggerInterface {
	if isReady() {
		i.SetAdditionalStackDepth(defaultStackDepth) //nolint:errcheck
		return logger.replaceInnerLogger(i)
	}
	return nil
}

// GetLogLevel returns a seelog native representation of the current log level
func GetLogLevel() (seelog.LogLevel, error) {
	if isReady() {
		return logger.getLogLevel(), nil
	}

	// need to return something, just set to Info (expected default)
	return seelog.InfoLvl, errors.New("cannot get loglevel: logger not initialized")
}

// ChangeLogLevel changes the current log level, valid levels are trace, debug,
// info, warn, error, critical and off
func ChangeLogLevel(level string) error {
	if isReady() {
		return logger.changeLogLevel(level)
	}
	return errors.New("cannot change loglevel: logger not initialized")
}
