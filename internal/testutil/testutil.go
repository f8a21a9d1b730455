// SPDX-License-Identifier: EPL-2.0

// Package testutil provides helpers for tests that need a real container
// engine, keeping the skip logic in one place.
package testutil

import (
	"context"
	"testing"

	"github.com/AskMe-CMI/TiG-Stack/internal/container"
)

// RequireEngine returns a usable container engine or skips the test.
// Integration tests call this first so they pass through on CI runners
// and developer machines without docker or podman.
func RequireEngine(t testing.TB) container.Engine {
	t.Helper()

	engine, err := container.AutoDetectEngine()
	if err != nil {
		t.Skipf("skipping: no container engine available: %v", err)
	}
	if !engine.ComposeAvailable(context.Background()) {
		t.Skipf("skipping: %s has no compose plugin", engine.Name())
	}
	return engine
}
