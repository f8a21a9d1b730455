// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AskMe-CMI/TiG-Stack/internal/config"
	"github.com/AskMe-CMI/TiG-Stack/internal/issue"

	"github.com/charmbracelet/log"
)

// Stack-relative artifact paths.
const (
	secretsDir      = "secrets"
	telegrafDir     = "telegraf"
	telegrafConfDir = "telegraf/telegraf.d"

	passwordPath     = secretsDir + "/" + secretAdminPassword
	tokenPath        = secretsDir + "/" + secretAdminToken
	telegrafBasePath = telegrafDir + "/telegraf.conf"
	telegrafOutPath  = telegrafConfDir + "/outputs.conf"
)

// Provisioner writes the stack's artifacts under the configured stack dir.
type Provisioner struct {
	cfg      *config.Config
	settings config.Settings
	prompter Prompter
	logger   *log.Logger
}

// NewProvisioner creates a Provisioner. A nil prompter falls back to the
// terminal prompter.
func NewProvisioner(cfg *config.Config, settings config.Settings, prompter Prompter, logger *log.Logger) *Provisioner {
	if prompter == nil {
		prompter = &TerminalPrompter{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Provisioner{
		cfg:      cfg,
		settings: settings,
		prompter: prompter,
		logger:   logger,
	}
}

// DescriptorPath returns where the compose descriptor lives.
func (p *Provisioner) DescriptorPath() string {
	return filepath.Join(p.cfg.StackDir, DescriptorFileName)
}

// TokenPath returns where the API token secret lives.
func (p *Provisioner) TokenPath() string {
	return filepath.Join(p.cfg.StackDir, tokenPath)
}

// ReadToken reads the provisioned API token from disk, trimming the
// trailing newline the secret files carry.
func (p *Provisioner) ReadToken() (string, error) {
	data, err := os.ReadFile(p.TokenPath())
	if err != nil {
		return "", fmt.Errorf("failed to read API token: %w", err)
	}
	token := string(data)
	if n := len(token); n > 0 && token[n-1] == '\n' {
		token = token[:n-1]
	}
	return token, nil
}

// Provision writes every stack artifact, honoring each one's overwrite
// policy, and reports what it did. Re-running against an already
// provisioned directory preserves secrets and operator edits to the base
// config while re-rendering the credential-bearing artifacts.
func (p *Provisioner) Provision(ctx context.Context) ([]Artifact, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("provisioning canceled: %w", ctx.Err())
	default:
	}

	for _, dir := range []string{secretsDir, telegrafConfDir} {
		if err := os.MkdirAll(filepath.Join(p.cfg.StackDir, dir), 0o755); err != nil {
			return nil, p.writeError(filepath.Join(p.cfg.StackDir, dir), err)
		}
	}
	// Secrets are owner-only.
	if err := os.Chmod(filepath.Join(p.cfg.StackDir, secretsDir), 0o700); err != nil {
		return nil, p.writeError(filepath.Join(p.cfg.StackDir, secretsDir), err)
	}

	var artifacts []Artifact

	password, err := p.ensurePassword()
	if err != nil {
		return nil, err
	}
	artifacts = append(artifacts, password)

	token, err := p.ensureToken()
	if err != nil {
		return nil, err
	}
	artifacts = append(artifacts, token)

	base, err := p.ensureBaseConfig()
	if err != nil {
		return nil, err
	}
	artifacts = append(artifacts, base)

	outputs, err := p.renderOutputsConfig()
	if err != nil {
		return nil, err
	}
	artifacts = append(artifacts, outputs)

	descriptor, err := p.renderStackDescriptor()
	if err != nil {
		return nil, err
	}
	artifacts = append(artifacts, descriptor)

	for _, a := range artifacts {
		p.logger.Debug("artifact", "path", a.Path, "kind", a.Kind, "action", a.Action)
	}

	return artifacts, nil
}

// ensurePassword writes the admin password secret. The operator is only
// prompted when the secret does not exist yet.
func (p *Provisioner) ensurePassword() (Artifact, error) {
	path := filepath.Join(p.cfg.StackDir, passwordPath)
	a := Artifact{Path: path, Kind: KindSecret, Policy: CreateIfAbsent}

	if fileExists(path) {
		a.Action = ActionPreserved
		return a, nil
	}

	password, err := PromptAdminPassword(p.prompter, DefaultPasswordTries)
	if err != nil {
		return Artifact{}, issue.NewErrorContext().
			WithOperation("collect admin password").
			WithSuggestion("Choose a password between 8 and 72 characters").
			Wrap(err).
			BuildError()
	}

	if err := writeSecret(path, password); err != nil {
		return Artifact{}, p.writeError(path, err)
	}
	a.Action = ActionCreated
	return a, nil
}

// ensureToken writes the API token secret, generating a fresh token only
// when none exists. Keeping the token stable across runs keeps previously
// issued client configs valid.
func (p *Provisioner) ensureToken() (Artifact, error) {
	path := filepath.Join(p.cfg.StackDir, tokenPath)
	a := Artifact{Path: path, Kind: KindSecret, Policy: CreateIfAbsent}

	if fileExists(path) {
		a.Action = ActionPreserved
		return a, nil
	}

	token, err := GenerateToken()
	if err != nil {
		return Artifact{}, err
	}

	if err := writeSecret(path, token); err != nil {
		return Artifact{}, p.writeError(path, err)
	}
	a.Action = ActionCreated
	return a, nil
}

// ensureBaseConfig writes the static collector config once. Operator edits
// to the file survive re-runs.
func (p *Provisioner) ensureBaseConfig() (Artifact, error) {
	path := filepath.Join(p.cfg.StackDir, telegrafBasePath)
	a := Artifact{Path: path, Kind: KindConfig, Policy: CreateIfAbsent}

	if fileExists(path) {
		a.Action = ActionPreserved
		return a, nil
	}

	content, err := renderTelegrafBase()
	if err != nil {
		return Artifact{}, err
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return Artifact{}, p.writeError(path, err)
	}
	a.Action = ActionCreated
	return a, nil
}

// renderOutputsConfig rewrites the credential-bearing collector config on
// every run so it always reflects the current token, organization, and
// bucket.
func (p *Provisioner) renderOutputsConfig() (Artifact, error) {
	path := filepath.Join(p.cfg.StackDir, telegrafOutPath)
	a := Artifact{Path: path, Kind: KindConfig, Policy: AlwaysRegenerate, Action: ActionRegenerated}

	token, err := p.ReadToken()
	if err != nil {
		return Artifact{}, err
	}

	content, err := renderTelegrafOutputs(token, p.settings.Organization, p.settings.Bucket)
	if err != nil {
		return Artifact{}, err
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return Artifact{}, p.writeError(path, err)
	}
	return a, nil
}

// renderStackDescriptor rewrites the compose descriptor on every run.
func (p *Provisioner) renderStackDescriptor() (Artifact, error) {
	path := p.DescriptorPath()
	a := Artifact{Path: path, Kind: KindDescriptor, Policy: AlwaysRegenerate, Action: ActionRegenerated}

	content, err := renderDescriptor(p.cfg, p.settings)
	if err != nil {
		return Artifact{}, err
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return Artifact{}, p.writeError(path, err)
	}
	return a, nil
}

func (p *Provisioner) writeError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("write stack artifact").
		WithResource(path).
		WithSuggestion("Check that the stack directory is writable").
		WithSuggestion("Re-run with elevated privileges if the directory is system-owned").
		Wrap(err).
		BuildError()
}

// writeSecret writes a credential with owner-only permissions and a
// trailing newline, matching what file-based secret consumers expect.
func writeSecret(path, value string) error {
	return os.WriteFile(path, []byte(value+"\n"), 0o600)
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
