// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  &ActionableError{Operation: "detect platform"},
			want: "failed to detect platform",
		},
		{
			name: "operation and resource",
			err: &ActionableError{
				Operation: "write secret",
				Resource:  "/opt/tigstack/secrets/influxdb-token",
			},
			want: "failed to write secret: /opt/tigstack/secrets/influxdb-token",
		},
		{
			name: "operation, resource, and cause",
			err: &ActionableError{
				Operation: "launch stack",
				Resource:  "docker-compose.yml",
				Cause:     errors.New("exit status 1"),
			},
			want: "failed to launch stack: docker-compose.yml: exit status 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk full")
	err := WrapWithOperation(cause, "write artifact")

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	inner := errors.New("connection refused")
	err := NewErrorContext().
		WithOperation("probe database health").
		WithResource("http://localhost:8086/health").
		WithSuggestion("Check that the stack is running").
		WithSuggestion("Increase the probe budget").
		Wrap(inner).
		Build()

	got := err.Format(false)
	if !strings.Contains(got, "failed to probe database health") {
		t.Errorf("Format() missing operation: %q", got)
	}
	if !strings.Contains(got, "• Check that the stack is running") {
		t.Errorf("Format() missing first suggestion: %q", got)
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:") {
		t.Errorf("verbose Format() missing error chain: %q", verbose)
	}
	if !strings.Contains(verbose, "connection refused") {
		t.Errorf("verbose Format() missing cause: %q", verbose)
	}
}

func TestErrorContext_Build_RequiresOperation(t *testing.T) {
	t.Parallel()

	if got := NewErrorContext().WithResource("x").Build(); got != nil {
		t.Errorf("Build() without operation = %v, want nil", got)
	}
	if got := NewErrorContext().BuildError(); got != nil {
		t.Errorf("BuildError() without operation = %v, want nil", got)
	}
}

func TestWrapWithContext_NilPassthrough(t *testing.T) {
	t.Parallel()

	if got := WrapWithOperation(nil, "anything"); got != nil {
		t.Errorf("WrapWithOperation(nil) = %v, want nil", got)
	}
	if got := WrapWithContext(nil, "anything", "res"); got != nil {
		t.Errorf("WrapWithContext(nil) = %v, want nil", got)
	}
}
