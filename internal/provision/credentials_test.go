// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"errors"
	"regexp"
	"strings"
	"testing"
)

type fakePrompter struct {
	responses []string
	calls     int
}

func (f *fakePrompter) ReadPassword(string) (string, error) {
	if f.calls >= len(f.responses) {
		return "", errors.New("prompter exhausted")
	}
	r := f.responses[f.calls]
	f.calls++
	return r, nil
}

func TestGenerateToken_Format(t *testing.T) {
	t.Parallel()

	hexToken := regexp.MustCompile(`^[0-9a-f]{64}$`)

	token, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}
	if !hexToken.MatchString(token) {
		t.Errorf("token %q is not 64 lowercase hex characters", token)
	}

	other, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}
	if token == other {
		t.Error("two generated tokens should not collide")
	}
}

func TestValidatePassword_Bounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		length  int
		wantErr bool
	}{
		{name: "one under minimum", length: 7, wantErr: true},
		{name: "at minimum", length: 8, wantErr: false},
		{name: "at maximum", length: 72, wantErr: false},
		{name: "one over maximum", length: 73, wantErr: true},
		{name: "empty", length: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidatePassword(strings.Repeat("x", tt.length))
			if tt.wantErr {
				if !errors.Is(err, ErrPasswordLength) {
					t.Errorf("ValidatePassword(len=%d) = %v, want ErrPasswordLength", tt.length, err)
				}
				var ple *PasswordLengthError
				if !errors.As(err, &ple) || ple.Length != tt.length {
					t.Errorf("error should carry the rejected length %d", tt.length)
				}
			} else if err != nil {
				t.Errorf("ValidatePassword(len=%d) error: %v", tt.length, err)
			}
		})
	}
}

func TestPromptAdminPassword_RepromptsOnInvalid(t *testing.T) {
	t.Parallel()

	p := &fakePrompter{responses: []string{"short", strings.Repeat("x", 73), "valid-password"}}

	got, err := PromptAdminPassword(p, 3)
	if err != nil {
		t.Fatalf("PromptAdminPassword() error: %v", err)
	}
	if got != "valid-password" {
		t.Errorf("password = %q, want the third response", got)
	}
	if p.calls != 3 {
		t.Errorf("prompter called %d times, want 3", p.calls)
	}
}

func TestPromptAdminPassword_Exhausted(t *testing.T) {
	t.Parallel()

	p := &fakePrompter{responses: []string{"a", "b", "c"}}

	_, err := PromptAdminPassword(p, 3)
	if !errors.Is(err, ErrPromptExhausted) {
		t.Errorf("error = %v, want ErrPromptExhausted", err)
	}
	if !errors.Is(err, ErrPasswordLength) {
		t.Errorf("error should wrap the last validation failure: %v", err)
	}
}
