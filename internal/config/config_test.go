// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AskMe-CMI/TiG-Stack/internal/issue"
)

func TestLoad_DefaultsWhenNoConfigFile(t *testing.T) {
	SetConfigDirOverride(t.TempDir())
	t.Cleanup(Reset)

	cfg, path, err := Load(LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if path != "" {
		t.Errorf("resolved path = %q, want empty (defaults)", path)
	}
	if cfg.ContainerEngine != ContainerEngineDocker {
		t.Errorf("ContainerEngine = %q, want docker", cfg.ContainerEngine)
	}
	if cfg.Ports.Database != 8086 || cfg.Ports.Dashboard != 3000 {
		t.Errorf("ports = %+v, want 8086/3000", cfg.Ports)
	}
	if cfg.Probe.MaxAttempts != 30 {
		t.Errorf("Probe.MaxAttempts = %d, want 30", cfg.Probe.MaxAttempts)
	}
}

func TestLoad_CUEFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	content := `container_engine: "podman"
organization: "acme"
ports: dashboard: 3001
probe: {
	max_attempts: 5
	interval:     "500ms"
}
`
	cuePath := filepath.Join(dir, "config.cue")
	if err := os.WriteFile(cuePath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, path, err := Load(LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if path != cuePath {
		t.Errorf("resolved path = %q, want %q", path, cuePath)
	}
	if cfg.ContainerEngine != ContainerEnginePodman {
		t.Errorf("ContainerEngine = %q, want podman", cfg.ContainerEngine)
	}
	if cfg.Organization != "acme" {
		t.Errorf("Organization = %q, want acme", cfg.Organization)
	}
	if cfg.Ports.Dashboard != 3001 {
		t.Errorf("Ports.Dashboard = %d, want 3001", cfg.Ports.Dashboard)
	}
	// Untouched fields keep their defaults.
	if cfg.Ports.Database != 8086 {
		t.Errorf("Ports.Database = %d, want default 8086", cfg.Ports.Database)
	}
	if cfg.Probe.MaxAttempts != 5 || cfg.Probe.Interval != "500ms" {
		t.Errorf("probe = %+v, want 5/500ms", cfg.Probe)
	}
}

func TestLoad_SchemaRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown engine", content: `container_engine: "rkt"`},
		{name: "port out of range", content: `ports: database: 70000`},
		{name: "negative attempts", content: `probe: max_attempts: -1`},
		{name: "bad interval format", content: `probe: interval: "soon"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			SetConfigDirOverride(dir)
			t.Cleanup(Reset)

			if err := os.WriteFile(filepath.Join(dir, "config.cue"), []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			_, _, err := Load(LoadOptions{})
			if err == nil {
				t.Fatal("Load() should reject invalid config")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Errorf("error should be actionable, got %T: %v", err, err)
			}
		})
	}
}

func TestLoad_ExplicitConfigFlagMissingFile(t *testing.T) {
	SetConfigDirOverride(t.TempDir())
	t.Cleanup(Reset)

	_, _, err := Load(LoadOptions{ConfigFilePath: "/nonexistent/config.cue"})
	if err == nil {
		t.Fatal("Load() should fail for missing explicit config file")
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error should be actionable, got %T", err)
	}
	if ae.Resource != "/nonexistent/config.cue" {
		t.Errorf("Resource = %q, want the config path", ae.Resource)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	SetConfigDirOverride(t.TempDir())
	t.Cleanup(Reset)
	t.Setenv("TIGSTACK_ENGINE", "podman")
	t.Setenv("TIGSTACK_DIR", "/srv/tigstack")

	cfg, _, err := Load(LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ContainerEngine != ContainerEnginePodman {
		t.Errorf("ContainerEngine = %q, want podman from env", cfg.ContainerEngine)
	}
	if cfg.StackDir != "/srv/tigstack" {
		t.Errorf("StackDir = %q, want /srv/tigstack from env", cfg.StackDir)
	}
}

func TestCreateDefaultConfig_CreateIfAbsent(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	path, err := CreateDefaultConfig()
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// A second call must not rewrite the file.
	marker := append([]byte("// user edit\n"), first...)
	if err := os.WriteFile(path, marker, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := CreateDefaultConfig(); err != nil {
		t.Fatalf("second CreateDefaultConfig() error: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(second) != string(marker) {
		t.Error("existing config file was overwritten")
	}
}

func TestGenerateCUE_RoundTripsThroughLoad(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	want := DefaultConfig()
	want.ContainerEngine = ContainerEnginePodman
	want.Organization = "acme"
	want.Ports.Dashboard = 3001
	if err := Save(want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, _, err := Load(LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.ContainerEngine != want.ContainerEngine ||
		got.Organization != want.Organization ||
		got.Ports.Dashboard != want.Ports.Dashboard {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{
			name:    "bad engine",
			mutate:  func(c *Config) { c.ContainerEngine = "rkt" },
			wantErr: ErrInvalidContainerEngine,
		},
		{
			name:    "zero attempts",
			mutate:  func(c *Config) { c.Probe.MaxAttempts = 0 },
			wantErr: ErrInvalidProbeConfig,
		},
		{
			name:    "negative interval",
			mutate:  func(c *Config) { c.Probe.Interval = "-2s" },
			wantErr: ErrInvalidProbeConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want errors.Is(%v)", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateCUE_ContainsHeader(t *testing.T) {
	t.Parallel()

	out := GenerateCUE(DefaultConfig())
	if !strings.HasPrefix(out, "// tigstack Configuration File") {
		t.Errorf("generated CUE should start with the file header, got:\n%s", out)
	}
}
