// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package cri lists running containers through the Kubernetes Container
// Runtime Interface (containerd, CRI-O).
package cri

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	criv1 "k8s.io/cri-api/pkg/apis/runtime/v1"

	"github.com/DataDog/docker-containers-check/pkg/util/containers"
	"github.com/DataDog/docker-containers-check/pkg/util/log"
)

// ErrNoSocketPath is returned when no CRI socket is configured
var ErrNoSocketPath = errors.New("no cri_socket_path configured")

// CRIUtil wraps interactions with the CRI runtime service
//
//nolint:revive
type CRIUtil struct {
	socketPath string
	conn       *grpc.ClientConn
	client     criv1.RuntimeServiceClient
}

var _ containers.Lister = (*CRIUtil)(nil)

// NewCRIUtil returns a CRIUtil for the runtime listening on socketPath. The
// connection is established lazily by gRPC on the first call.
func NewCRIUtil(socketPath string) (*CRIUtil, error) {
	if socketPath == "" {
		return nil, ErrNoSocketPath
	}

	target := socketPath
	if !strings.Contains(target, "://") {
		target = "unix://" + target
	}
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("%w: unable to create cri client for %s: %w", containers.ErrRuntimeUnavailable, socketPath, err)
	}
	log.Debugf("CRI client configured for %s", target)

	return &CRIUtil{
		socketPath: socketPath,
		conn:       conn,
		client:     criv1.NewRuntimeServiceClient(conn),
	}, nil
}

// String implements containers.Lister
func (c *CRIUtil) String() string {
	return "cri at " + c.socketPath
}

// ListRunningContainers returns the names of the running containers
func (c *CRIUtil) ListRunningContainers(ctx context.Context) ([]string, error) {
	resp, err := c.client.ListContainers(ctx, &criv1.ListContainersRequest{
		Filter: &criv1.ContainerFilter{
			State: &criv1.ContainerStateValue{State: criv1.ContainerState_CONTAINER_RUNNING},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: listing cri containers: %w", containers.ErrRuntimeUnavailable, err)
	}

	names := make([]string, 0, len(resp.GetContainers()))
	for _, ctr := range resp.GetContainers() {
		if ctr.GetState() != criv1.ContainerState_CONTAINER_RUNNING {
			continue
		}
		name := ctr.GetMetadata().GetName()
		if name == "" {
			return nil, fmt.Errorf("%w: container %q has no name", containers.ErrMalformedOutput, ctr.GetId())
		}
		names = append(names, name)
	}
	return names, nil
}

// Close closes the gRPC connection
func (c *CRIUtil) Close() error {
	return c.conn.Close()
}
