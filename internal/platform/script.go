// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// ErrDependencyInstall is the sentinel error wrapped by DependencyInstallError.
var ErrDependencyInstall = errors.New("dependency install failed")

type (
	// ScriptRunner executes shell snippets (repo setup, package-manager
	// invocations) through the embedded mvdan/sh interpreter, so multi-line
	// pipelines from the capability table run without requiring a host shell.
	ScriptRunner struct {
		stdout io.Writer
		stderr io.Writer
	}

	// DependencyInstallError is returned when a package-manager step fails.
	// There is no retry across package managers.
	DependencyInstallError struct {
		Step   string
		Script string
		Cause  error
	}
)

// Error implements the error interface.
func (e *DependencyInstallError) Error() string {
	return fmt.Sprintf("dependency install failed at %s: %v", e.Step, e.Cause)
}

// Unwrap returns the wrapped errors for errors.Is() compatibility.
func (e *DependencyInstallError) Unwrap() []error {
	return []error{ErrDependencyInstall, e.Cause}
}

// NewScriptRunner creates a runner writing command output to the given sinks.
func NewScriptRunner(stdout, stderr io.Writer) *ScriptRunner {
	return &ScriptRunner{stdout: stdout, stderr: stderr}
}

// Run parses and executes a shell snippet. The snippet runs with the parent
// environment and the interpreter's default exec handler, so package-manager
// binaries are looked up on PATH as usual.
func (r *ScriptRunner) Run(ctx context.Context, script string) error {
	prog, err := syntax.NewParser().Parse(strings.NewReader(script), "setup")
	if err != nil {
		return fmt.Errorf("parse setup script: %w", err)
	}

	runner, err := interp.New(
		interp.StdIO(nil, r.stdout, r.stderr),
		interp.Env(nil),
	)
	if err != nil {
		return fmt.Errorf("create interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return fmt.Errorf("setup script exited with status %d", int(exitStatus))
		}
		return err
	}
	return nil
}

// EnsurePackages runs the package manager's repo setup (once), metadata
// refresh, and install steps for the given packages. Each step failure is a
// DependencyInstallError; the caller treats it as fatal.
func (r *ScriptRunner) EnsurePackages(ctx context.Context, mgr PackageManager, packages []string) error {
	if mgr.RepoSetup != "" {
		if err := r.Run(ctx, mgr.RepoSetup); err != nil {
			return &DependencyInstallError{Step: "repo setup", Script: mgr.RepoSetup, Cause: err}
		}
	}

	if err := r.Run(ctx, mgr.UpdateCmd); err != nil {
		return &DependencyInstallError{Step: "metadata refresh", Script: mgr.UpdateCmd, Cause: err}
	}

	install := mgr.InstallCmd + " " + strings.Join(packages, " ")
	if err := r.Run(ctx, install); err != nil {
		return &DependencyInstallError{Step: "package install", Script: install, Cause: err}
	}

	return nil
}
