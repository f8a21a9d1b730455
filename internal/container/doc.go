// SPDX-License-Identifier: MPL-2.0

// Package container provides an abstraction layer for container engines
// (Docker/Podman) and their compose plugins.
//
// The stack is launched exclusively through `<engine> compose`, so the
// Engine interface is scoped to availability checks, version reporting, and
// the compose subcommands the installer needs. Engines are thin wrappers
// around the engine CLI via os/exec; the exec function is injectable for
// testing.
package container
