// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/AskMe-CMI/TiG-Stack/internal/issue"
	"github.com/AskMe-CMI/TiG-Stack/internal/platform"
	"github.com/AskMe-CMI/TiG-Stack/internal/probe"
)

func TestFormatErrorForDisplay_PlainError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")
	if got := formatErrorForDisplay(err, false); got != "boom" {
		t.Errorf("formatErrorForDisplay() = %q, want %q", got, "boom")
	}
}

func TestFormatErrorForDisplay_ActionableError(t *testing.T) {
	t.Parallel()

	err := issue.NewErrorContext().
		WithOperation("start stack services").
		WithSuggestion("Check port collisions").
		Wrap(errors.New("bind: address already in use")).
		BuildError()

	out := formatErrorForDisplay(err, false)
	if !strings.Contains(out, "start stack services") {
		t.Errorf("display should name the operation, got:\n%s", out)
	}
	if !strings.Contains(out, "Check port collisions") {
		t.Errorf("display should include suggestions, got:\n%s", out)
	}
}

func TestFailure_PrefixAndExplainHint(t *testing.T) {
	t.Parallel()

	err := failure(&probe.HealthTimeoutError{Endpoint: "http://localhost:8086/health", Attempts: 30})

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("failure() should return *ExitError, got %T", err)
	}
	if exitErr.Code != 1 {
		t.Errorf("Code = %d, want 1", exitErr.Code)
	}
	if !strings.Contains(err.Error(), "Error:") {
		t.Errorf("failure() should prefix the message, got: %q", err.Error())
	}
	if !strings.Contains(err.Error(), "tigstack explain health-timeout") {
		t.Errorf("failure() should point at the explain topic, got: %q", err.Error())
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	plain := &ExitError{Code: 1}
	if plain.Error() != "exit status 1" {
		t.Errorf("Error() = %q", plain.Error())
	}

	wrapped := &ExitError{Code: 1, Err: errors.New("boom")}
	if wrapped.Error() != "boom" {
		t.Errorf("Error() = %q, want wrapped message", wrapped.Error())
	}
	if !errors.Is(wrapped, wrapped.Err) {
		t.Error("ExitError should unwrap to its cause")
	}
}

func TestTopicForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "unsupported platform",
			err:  &platform.UnsupportedPlatformError{Info: platform.Info{ID: "gentoo"}},
			want: "platform",
		},
		{
			name: "dependency install",
			err:  &platform.DependencyInstallError{Step: "package install", Cause: errors.New("exit 100")},
			want: "engine-install",
		},
		{
			name: "health timeout",
			err:  &probe.HealthTimeoutError{Endpoint: "http://localhost:8086/health", Attempts: 30},
			want: "health-timeout",
		},
		{name: "unknown", err: errors.New("boom"), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := topicForError(tt.err); got != tt.want {
				t.Errorf("topicForError() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExplainTopics_AllInCatalog(t *testing.T) {
	t.Parallel()

	for name, id := range topics {
		if issue.Get(id) == nil {
			t.Errorf("topic %q points at a missing catalog entry", name)
		}
	}
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	t.Parallel()

	want := map[string]bool{"up": false, "provision": false, "status": false, "down": false, "config": false, "explain": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}
