// Package docker creates clients for the container engine the local cluster runs on.
package docker

import (
	"context"
	"errors"
	"fmt"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
)

// ErrEngineUnreachable is returned when the engine does not answer a ping.
var ErrEngineUnreachable = errors.New("container engine is not reachable")

// Pinger is the subset of client.APIClient used to probe the engine.
type Pinger interface {
	Ping(ctx context.Context) (types.Ping, error)
}

// GetDockerClient creates a Docker client from DOCKER_HOST and related environment.
func GetDockerClient() (client.APIClient, error) {
	dockerClient, err := client.NewClientWithOpts(
		client.FromEnv,
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	return dockerClient, nil
}

// Ping checks that the engine answers and returns its API version.
func Ping(ctx context.Context, pinger Pinger) (string, error) {
	ping, err := pinger.Ping(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEngineUnreachable, err)
	}

	return ping.APIVersion, nil
}
