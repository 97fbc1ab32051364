// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package containers holds the runtime-agnostic pieces used to count running
// containers: the Lister contract, the command based lister and name matching.
package containers

import (
	"context"
	"errors"
)

// Runtime names accepted in configurations
const (
	RuntimeNameDocker  = "docker"
	RuntimeNameCRI     = "cri"
	RuntimeNameCommand = "command"
)

var (
	// ErrRuntimeUnavailable is wrapped by every error returned when the container
	// runtime could not be queried (unreachable, missing binary, timeout).
	ErrRuntimeUnavailable = errors.New("container runtime unavailable")

	// ErrMalformedOutput is wrapped when the runtime answered but the answer
	// could not be turned into a list of container names.
	ErrMalformedOutput = errors.New("malformed runtime output")
)

// Lister lists the names of the running containers of a runtime
type Lister interface {
	// ListRunningContainers returns one entry per running container. A
	// container with several names has them joined with a comma.
	ListRunningContainers(ctx context.Context) ([]string, error)
	String() string
}
