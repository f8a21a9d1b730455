// SPDX-License-Identifier: MPL-2.0

package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AskMe-CMI/TiG-Stack/internal/cueutil"
	"github.com/AskMe-CMI/TiG-Stack/internal/issue"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "tigstack"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the tigstack configuration directory:
// $XDG_CONFIG_HOME/tigstack, defaulting to ~/.config/tigstack.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	// Allow tests to override the config directory
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}

	return filepath.Join(configDir, AppName), nil
}

// LoadOptions controls config resolution.
type LoadOptions struct {
	// ConfigFilePath, when set, is used exclusively (--config flag).
	ConfigFilePath string
	// ConfigDirPath overrides the platform config directory.
	ConfigDirPath string
}

// Load resolves the configuration: defaults, then the CUE config file if one
// exists, then TIGSTACK_* environment overrides. It returns the config and
// the path of the file it was loaded from ("" when running on defaults).
func Load(opts LoadOptions) (*Config, string, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("container_engine", defaults.ContainerEngine)
	v.SetDefault("stack_dir", defaults.StackDir)
	v.SetDefault("organization", defaults.Organization)
	v.SetDefault("bucket", defaults.Bucket)
	v.SetDefault("images.influxdb", defaults.Images.InfluxDB)
	v.SetDefault("images.grafana", defaults.Images.Grafana)
	v.SetDefault("images.telegraf", defaults.Images.Telegraf)
	v.SetDefault("ports.database", defaults.Ports.Database)
	v.SetDefault("ports.dashboard", defaults.Ports.Dashboard)
	v.SetDefault("probe.max_attempts", defaults.Probe.MaxAttempts)
	v.SetDefault("probe.interval", defaults.Probe.Interval)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	resolvedPath := ""

	// If a custom config file path is set via --config flag, use it exclusively.
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				WithSuggestion("Use 'tigstack config show' to see default configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, opts.ConfigFilePath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'tigstack config init' to regenerate a default config").
				Wrap(err).
				BuildError()
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		cfgDir := opts.ConfigDirPath
		if cfgDir == "" {
			var err error
			cfgDir, err = ConfigDir()
			if err != nil {
				return nil, "", err
			}
		}

		cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
		if fileExists(cuePath) {
			if err := loadCUEIntoViper(v, cuePath); err != nil {
				return nil, "", issue.NewErrorContext().
					WithOperation("load configuration").
					WithResource(cuePath).
					WithSuggestion("Check that the file contains valid CUE syntax").
					WithSuggestion("Verify the configuration values match the expected schema").
					WithSuggestion("Run 'tigstack config init' to regenerate a default config").
					Wrap(err).
					BuildError()
			}
			resolvedPath = cuePath
		}
		// If no config file found, use defaults (no error)
	}

	// Environment overrides take precedence over file values.
	bindEnvOverrides(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check container_engine is 'docker' or 'podman'").
			WithSuggestion("Check port values are within 1-65535").
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// envOverrides maps viper keys to the environment variables that override
// them. Organization and bucket are run-scoped and resolved separately by
// ResolveSettings.
var envOverrides = map[string]string{
	"container_engine": "TIGSTACK_ENGINE",
	"stack_dir":        "TIGSTACK_DIR",
}

func bindEnvOverrides(v *viper.Viper) {
	for key, env := range envOverrides {
		if val := os.Getenv(env); val != "" {
			v.Set(key, val)
		}
	}
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// Config decodes to map[string]any (not a struct) so defaults set on the
// Viper instance survive the merge, and validates with Concrete(false)
// because every config field is optional.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(cfgDir, 0o755)
}

// CreateDefaultConfig creates a default config file if it doesn't exist.
// An existing file is never overwritten.
func CreateDefaultConfig() (string, error) {
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)

	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, nil // File exists
	}

	cueContent := GenerateCUE(DefaultConfig())

	if err := os.WriteFile(cfgPath, []byte(cueContent), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return cfgPath, nil
}

// Save writes the current configuration to file
func Save(cfg *Config) error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)

	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// tigstack Configuration File\n")
	sb.WriteString("// See https://github.com/AskMe-CMI/TiG-Stack for documentation.\n\n")

	sb.WriteString(fmt.Sprintf("container_engine: %q\n", cfg.ContainerEngine))
	sb.WriteString(fmt.Sprintf("stack_dir: %q\n", cfg.StackDir))
	sb.WriteString(fmt.Sprintf("organization: %q\n", cfg.Organization))
	sb.WriteString(fmt.Sprintf("bucket: %q\n", cfg.Bucket))

	sb.WriteString("\nimages: {\n")
	sb.WriteString(fmt.Sprintf("\tinfluxdb: %q\n", cfg.Images.InfluxDB))
	sb.WriteString(fmt.Sprintf("\tgrafana: %q\n", cfg.Images.Grafana))
	sb.WriteString(fmt.Sprintf("\ttelegraf: %q\n", cfg.Images.Telegraf))
	sb.WriteString("}\n")

	sb.WriteString("\nports: {\n")
	sb.WriteString(fmt.Sprintf("\tdatabase: %d\n", cfg.Ports.Database))
	sb.WriteString(fmt.Sprintf("\tdashboard: %d\n", cfg.Ports.Dashboard))
	sb.WriteString("}\n")

	sb.WriteString("\nprobe: {\n")
	sb.WriteString(fmt.Sprintf("\tmax_attempts: %d\n", cfg.Probe.MaxAttempts))
	sb.WriteString(fmt.Sprintf("\tinterval: %q\n", cfg.Probe.Interval))
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	sb.WriteString(fmt.Sprintf("\tverbose: %v\n", cfg.UI.Verbose))
	sb.WriteString("}\n")

	return sb.String()
}
