// SPDX-License-Identifier: MPL-2.0

package container

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/AskMe-CMI/TiG-Stack/internal/issue"
)

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// BaseCLIEngineOption configures a BaseCLIEngine.
	BaseCLIEngineOption func(*BaseCLIEngine)

	// BaseCLIEngine provides common implementation for CLI-based container
	// engines. Docker and Podman engines embed this struct. The compose
	// subcommands are identical across both CLIs and are implemented here;
	// engine-specific methods (Available, Version) remain on the concrete
	// types.
	BaseCLIEngine struct {
		name        string // Engine name for error messages (e.g., "docker", "podman")
		binaryPath  string // resolved at construction via exec.LookPath
		execCommand ExecCommandFunc
	}
)

// --- Option Functions ---

// WithName sets the engine name used in error messages.
func WithName(name string) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.name = name
	}
}

// WithExecCommand sets a custom exec command function for testing.
func WithExecCommand(fn ExecCommandFunc) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.execCommand = fn
	}
}

// --- Constructor ---

// NewBaseCLIEngine creates a new base engine with the given binary path.
func NewBaseCLIEngine(binaryPath string, opts ...BaseCLIEngineOption) *BaseCLIEngine {
	e := &BaseCLIEngine{
		binaryPath:  binaryPath,
		execCommand: exec.CommandContext,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// --- Accessor Methods ---

// Name returns the engine name used in error messages.
func (e *BaseCLIEngine) Name() string {
	return e.name
}

// BinaryPath returns the path to the container engine binary.
func (e *BaseCLIEngine) BinaryPath() string {
	return e.binaryPath
}

// --- Argument Builders ---

// ComposeArgs constructs arguments for a compose subcommand.
//
// Generated command: <binary> compose -f <file> <subcommand...>
func (e *BaseCLIEngine) ComposeArgs(opts ComposeOptions, subcommand ...string) []string {
	args := []string{"compose"}
	if opts.File != "" {
		args = append(args, "-f", opts.File)
	}
	return append(args, subcommand...)
}

// --- Command Execution ---

// RunCommandStatus executes a command and returns only the error status.
func (e *BaseCLIEngine) RunCommandStatus(ctx context.Context, args ...string) error {
	cmd := e.CreateCommand(ctx, args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("command %s %v failed: %w", e.binaryPath, args, err)
	}
	return nil
}

// RunCommandWithOutput executes a command with stdout captured to a buffer.
func (e *BaseCLIEngine) RunCommandWithOutput(ctx context.Context, args ...string) (string, error) {
	cmd := e.CreateCommand(ctx, args...)
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("command %s %v failed: %w", e.binaryPath, args, err)
	}

	return out.String(), nil
}

// CreateCommand creates an exec.Cmd for the given arguments.
// This is useful when the caller needs to customize stdin/stdout/stderr.
func (e *BaseCLIEngine) CreateCommand(ctx context.Context, args ...string) *exec.Cmd {
	return e.execCommand(ctx, e.binaryPath, args...)
}

// --- Promoted Engine Methods (shared by Docker and Podman) ---

// ComposeAvailable checks if the compose plugin responds.
func (e *BaseCLIEngine) ComposeAvailable(ctx context.Context) bool {
	return e.RunCommandStatus(ctx, "compose", "version") == nil
}

// ComposeUp starts the described services in detached mode.
func (e *BaseCLIEngine) ComposeUp(ctx context.Context, opts ComposeOptions) error {
	args := e.ComposeArgs(opts, "up", "-d")

	cmd := e.CreateCommand(ctx, args...)
	cmd.Dir = opts.Dir
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	if err := cmd.Run(); err != nil {
		return composeError(e.name, "start services", opts, err)
	}
	return nil
}

// ComposeDown stops and removes the described services.
func (e *BaseCLIEngine) ComposeDown(ctx context.Context, opts ComposeOptions) error {
	args := e.ComposeArgs(opts, "down")

	cmd := e.CreateCommand(ctx, args...)
	cmd.Dir = opts.Dir
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	if err := cmd.Run(); err != nil {
		return composeError(e.name, "stop services", opts, err)
	}
	return nil
}

// ComposePS lists running services from the descriptor.
func (e *BaseCLIEngine) ComposePS(ctx context.Context, opts ComposeOptions) (string, error) {
	args := e.ComposeArgs(opts, "ps", "--services")

	cmd := e.CreateCommand(ctx, args...)
	cmd.Dir = opts.Dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = opts.Stderr

	if err := cmd.Run(); err != nil {
		return "", composeError(e.name, "list services", opts, err)
	}
	return out.String(), nil
}

// --- Actionable Error Helpers ---

// composeError creates an actionable error for compose subcommand failures.
func composeError(engine, operation string, opts ComposeOptions, cause error) error {
	ctx := issue.NewErrorContext().
		WithOperation(operation)

	if opts.File != "" {
		ctx.WithResource(opts.File)
	} else if opts.Dir != "" {
		ctx.WithResource(opts.Dir)
	}

	ctx.WithSuggestion("Check that the " + engine + " daemon is running")
	ctx.WithSuggestion("Verify the descriptor exists in the stack directory")
	ctx.WithSuggestion("Run with --verbose to see full compose output")

	return ctx.Wrap(cause).BuildError()
}
