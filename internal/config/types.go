// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	// ContainerEngineDocker uses Docker as the container runtime.
	ContainerEngineDocker ContainerEngine = "docker"
	// ContainerEnginePodman uses Podman as the container runtime.
	ContainerEnginePodman ContainerEngine = "podman"
)

var (
	// ErrInvalidContainerEngine is returned when a ContainerEngine value is not recognized.
	ErrInvalidContainerEngine = errors.New("invalid container engine")
	// ErrInvalidProbeConfig is the sentinel error wrapped by InvalidProbeConfigError.
	ErrInvalidProbeConfig = errors.New("invalid probe config")
)

type (
	// ContainerEngine specifies which container runtime to use.
	ContainerEngine string

	// InvalidContainerEngineError is returned when a ContainerEngine value is not recognized.
	// It wraps ErrInvalidContainerEngine for errors.Is() compatibility.
	InvalidContainerEngineError struct {
		Value ContainerEngine
	}

	// InvalidProbeConfigError is returned when probe settings are out of range.
	InvalidProbeConfigError struct {
		Reason string
	}

	// ImagesConfig pins the container images for the three services.
	ImagesConfig struct {
		InfluxDB string `mapstructure:"influxdb"`
		Grafana  string `mapstructure:"grafana"`
		Telegraf string `mapstructure:"telegraf"`
	}

	// PortsConfig declares the host port exposures.
	PortsConfig struct {
		// Database is the host port mapped to the InfluxDB API.
		Database int `mapstructure:"database"`
		// Dashboard is the host port mapped to the Grafana UI.
		Dashboard int `mapstructure:"dashboard"`
	}

	// ProbeConfig bounds the readiness poll. Total wait is
	// MaxAttempts × Interval; there is no backoff by design.
	ProbeConfig struct {
		MaxAttempts int    `mapstructure:"max_attempts"`
		Interval    string `mapstructure:"interval"`
	}

	// UIConfig contains user interface preferences.
	UIConfig struct {
		Verbose bool `mapstructure:"verbose"`
	}

	// Config is the resolved tigstack configuration.
	Config struct {
		ContainerEngine ContainerEngine `mapstructure:"container_engine"`
		// StackDir is where artifacts (secrets, configs, descriptor) live.
		StackDir string `mapstructure:"stack_dir"`
		// Organization is the default organization name; overridable per
		// run via TIGSTACK_ORG or interactive input.
		Organization string `mapstructure:"organization"`
		// Bucket is the default bucket/dataset name; overridable per run
		// via TIGSTACK_BUCKET or interactive input.
		Bucket string       `mapstructure:"bucket"`
		Images ImagesConfig `mapstructure:"images"`
		Ports  PortsConfig  `mapstructure:"ports"`
		Probe  ProbeConfig  `mapstructure:"probe"`
		UI     UIConfig     `mapstructure:"ui"`
	}
)

// Error implements the error interface.
func (e *InvalidContainerEngineError) Error() string {
	return fmt.Sprintf("invalid container engine %q (valid: docker, podman)", e.Value)
}

// Unwrap returns ErrInvalidContainerEngine for errors.Is() compatibility.
func (e *InvalidContainerEngineError) Unwrap() error { return ErrInvalidContainerEngine }

// Error implements the error interface.
func (e *InvalidProbeConfigError) Error() string {
	return "invalid probe config: " + e.Reason
}

// Unwrap returns ErrInvalidProbeConfig for errors.Is() compatibility.
func (e *InvalidProbeConfigError) Unwrap() error { return ErrInvalidProbeConfig }

// Validate returns an error if the ContainerEngine is not one of the defined engines.
func (c ContainerEngine) Validate() error {
	switch c {
	case ContainerEngineDocker, ContainerEnginePodman:
		return nil
	default:
		return &InvalidContainerEngineError{Value: c}
	}
}

// String returns the string representation of the ContainerEngine.
func (c ContainerEngine) String() string { return string(c) }

// IntervalDuration parses the probe interval. Falls back to the default
// when unset.
func (p ProbeConfig) IntervalDuration() (time.Duration, error) {
	if p.Interval == "" {
		return 2 * time.Second, nil
	}
	d, err := time.ParseDuration(p.Interval)
	if err != nil {
		return 0, &InvalidProbeConfigError{Reason: fmt.Sprintf("interval %q: %v", p.Interval, err)}
	}
	if d <= 0 {
		return 0, &InvalidProbeConfigError{Reason: "interval must be positive"}
	}
	return d, nil
}

// Validate checks the resolved configuration.
func (c *Config) Validate() error {
	var errs []error

	if err := c.ContainerEngine.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Probe.MaxAttempts <= 0 {
		errs = append(errs, &InvalidProbeConfigError{Reason: "max_attempts must be positive"})
	}
	if _, err := c.Probe.IntervalDuration(); err != nil {
		errs = append(errs, err)
	}
	for name, port := range map[string]int{
		"ports.database":  c.Ports.Database,
		"ports.dashboard": c.Ports.Dashboard,
	} {
		if port <= 0 || port > 65535 {
			errs = append(errs, fmt.Errorf("%s: port %d out of range", name, port))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		ContainerEngine: ContainerEngineDocker,
		StackDir:        "/opt/tigstack",
		Organization:    "main-org",
		Bucket:          "telegraf",
		Images: ImagesConfig{
			InfluxDB: "influxdb:2.7",
			Grafana:  "grafana/grafana:11.2.0",
			Telegraf: "telegraf:1.31",
		},
		Ports: PortsConfig{
			Database:  8086,
			Dashboard: 3000,
		},
		Probe: ProbeConfig{
			MaxAttempts: 30,
			Interval:    "2s",
		},
	}
}
