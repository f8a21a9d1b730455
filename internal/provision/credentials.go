// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

const (
	// TokenBytes is the entropy of a generated API token. The hex encoding
	// doubles it to 64 characters on disk.
	TokenBytes = 32

	// MinPasswordLen and MaxPasswordLen bound the admin password. The upper
	// bound matches the bcrypt input limit the database enforces.
	MinPasswordLen = 8
	MaxPasswordLen = 72

	// DefaultPasswordTries bounds interactive re-prompting.
	DefaultPasswordTries = 3
)

var (
	// ErrPasswordLength is the sentinel error wrapped by PasswordLengthError.
	ErrPasswordLength = errors.New("password length out of range")
	// ErrPromptExhausted is returned when every prompt attempt produced an
	// invalid password.
	ErrPromptExhausted = errors.New("no valid password entered")
)

type (
	// Prompter reads a secret value from the operator without echoing it.
	Prompter interface {
		ReadPassword(prompt string) (string, error)
	}

	// PasswordLengthError reports a rejected password without including
	// the password itself.
	PasswordLengthError struct {
		Length int
	}

	// TerminalPrompter reads from the controlling terminal with echo
	// disabled.
	TerminalPrompter struct{}
)

// Compile-time interface check
var _ Prompter = (*TerminalPrompter)(nil)

// Error implements the error interface.
func (e *PasswordLengthError) Error() string {
	return fmt.Sprintf("password length %d out of range [%d, %d]", e.Length, MinPasswordLen, MaxPasswordLen)
}

// Unwrap returns ErrPasswordLength for errors.Is() compatibility.
func (e *PasswordLengthError) Unwrap() error { return ErrPasswordLength }

// GenerateToken returns a fresh random API token: 64 lowercase hex
// characters backed by 256 bits of entropy.
func GenerateToken() (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// ValidatePassword checks the admin password length bounds. Both bounds
// are inclusive.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLen || len(password) > MaxPasswordLen {
		return &PasswordLengthError{Length: len(password)}
	}
	return nil
}

// ReadPassword prompts on stderr and reads without echo from stdin.
func (*TerminalPrompter) ReadPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}

// PromptAdminPassword asks for the admin password, re-prompting on invalid
// input up to tries times. It returns ErrPromptExhausted (wrapping the last
// validation error) once every attempt has failed.
func PromptAdminPassword(p Prompter, tries int) (string, error) {
	if tries <= 0 {
		tries = DefaultPasswordTries
	}

	var lastErr error
	for i := 0; i < tries; i++ {
		password, err := p.ReadPassword("Admin password for the database (8-72 characters): ")
		if err != nil {
			return "", err
		}
		if err := ValidatePassword(password); err != nil {
			lastErr = err
			fmt.Fprintf(os.Stderr, "Invalid password: %v\n", err)
			continue
		}
		return password, nil
	}

	return "", fmt.Errorf("%w after %d attempts: %w", ErrPromptExhausted, tries, lastErr)
}
