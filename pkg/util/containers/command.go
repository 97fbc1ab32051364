// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package containers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/DataDog/docker-containers-check/pkg/util/log"
)

// DefaultListCommand prints one running container per line
var DefaultListCommand = []string{"docker", "ps", "--format", "{{.Names}}"}

// commandWaitDelay bounds how long we wait for the output pipes once the
// process got killed.
const commandWaitDelay = time.Second

// CommandLister lists running containers by running an external command that
// prints one container per line.
type CommandLister struct {
	argv []string
}

// NewCommandLister returns a lister running argv
func NewCommandLister(argv []string) (*CommandLister, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, errors.New("empty list command")
	}
	return &CommandLister{argv: append([]string(nil), argv...)}, nil
}

// String implements Lister
func (l *CommandLister) String() string {
	return strings.Join(l.argv, " ")
}

// ListRunningContainers runs the command and splits its output in lines.
// The process is killed when ctx is done.
func (l *CommandLister) ListRunningContainers(ctx context.Context) ([]string, error) {
	cmd := exec.CommandContext(ctx, l.argv[0], l.argv[1:]...)
	cmd.WaitDelay = commandWaitDelay
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%w: %q did not complete: %w", ErrRuntimeUnavailable, l.String(), ctxErr)
	}
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %q failed: %v: %s", ErrRuntimeUnavailable, l.String(), err, msg)
		}
		return nil, fmt.Errorf("%w: %q failed: %v", ErrRuntimeUnavailable, l.String(), err)
	}

	return parseCommandOutput(out)
}

func parseCommandOutput(out []byte) ([]string, error) {
	if !utf8.Valid(out) {
		return nil, fmt.Errorf("%w: output is not valid UTF-8", ErrMalformedOutput)
	}

	var names []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		names = append(names, line)
	}
	log.Tracef("list command returned %d containers", len(names))
	return names, nil
}
