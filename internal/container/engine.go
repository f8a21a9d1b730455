// SPDX-License-Identifier: EPL-2.0

package container

import (
	"context"
	"fmt"
	"io"
)

// Engine defines the interface for container engine operations.
type Engine interface {
	// Name returns the engine name (docker or podman)
	Name() string
	// Available checks if the engine is available on the system
	Available() bool
	// Version returns the engine version
	Version(ctx context.Context) (string, error)
	// ComposeAvailable checks if the compose plugin is usable
	ComposeAvailable(ctx context.Context) bool

	// ComposeUp starts the described services in detached mode
	ComposeUp(ctx context.Context, opts ComposeOptions) error
	// ComposeDown stops and removes the described services
	ComposeDown(ctx context.Context, opts ComposeOptions) error
	// ComposePS lists the described services that are running
	ComposePS(ctx context.Context, opts ComposeOptions) (string, error)
}

// ComposeOptions locates the deployment descriptor for compose subcommands.
type ComposeOptions struct {
	// Dir is the working directory holding the descriptor and its
	// referenced files (secrets, configs).
	Dir string
	// File is the descriptor filename, relative to Dir.
	File string
	// Stdout is where to stream compose output
	Stdout io.Writer
	// Stderr is where to stream compose errors
	Stderr io.Writer
}

// EngineType identifies the container engine type
type EngineType string

const (
	EngineTypeDocker EngineType = "docker"
	EngineTypePodman EngineType = "podman"
)

// ErrEngineNotAvailable is returned when a container engine is not available
type ErrEngineNotAvailable struct {
	Engine string
	Reason string
}

func (e *ErrEngineNotAvailable) Error() string {
	return fmt.Sprintf("container engine '%s' is not available: %s", e.Engine, e.Reason)
}

// NewEngine creates a new container engine based on preference
func NewEngine(preferredType EngineType) (Engine, error) {
	switch preferredType {
	case EngineTypeDocker:
		engine := NewDockerEngine()
		if engine.Available() {
			return engine, nil
		}
		// Fall back to Podman
		podmanEngine := NewPodmanEngine()
		if podmanEngine.Available() {
			return podmanEngine, nil
		}
		return nil, &ErrEngineNotAvailable{
			Engine: "docker",
			Reason: "docker is not installed or not accessible, and podman fallback is also not available",
		}

	case EngineTypePodman:
		engine := NewPodmanEngine()
		if engine.Available() {
			return engine, nil
		}
		// Fall back to Docker
		dockerEngine := NewDockerEngine()
		if dockerEngine.Available() {
			return dockerEngine, nil
		}
		return nil, &ErrEngineNotAvailable{
			Engine: "podman",
			Reason: "podman is not installed or not accessible, and docker fallback is also not available",
		}

	default:
		return nil, fmt.Errorf("unknown container engine type: %s", preferredType)
	}
}

// AutoDetectEngine tries to find an available container engine
func AutoDetectEngine() (Engine, error) {
	// Try Docker first (the descriptor targets the docker compose schema)
	docker := NewDockerEngine()
	if docker.Available() {
		return docker, nil
	}

	// Try Podman
	podman := NewPodmanEngine()
	if podman.Available() {
		return podman, nil
	}

	return nil, &ErrEngineNotAvailable{
		Engine: "any",
		Reason: "no container engine (docker or podman) is available on this system",
	}
}
