// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/AskMe-CMI/TiG-Stack/internal/config"
	"github.com/AskMe-CMI/TiG-Stack/internal/container"
	"github.com/AskMe-CMI/TiG-Stack/internal/issue"
	"github.com/AskMe-CMI/TiG-Stack/internal/platform"
	"github.com/AskMe-CMI/TiG-Stack/internal/probe"
	"github.com/AskMe-CMI/TiG-Stack/internal/provision"

	"github.com/charmbracelet/log"
)

type (
	// PackageEnsurer installs operating system packages. Implemented by
	// platform.ScriptRunner; swapped for a fake in tests.
	PackageEnsurer interface {
		EnsurePackages(ctx context.Context, mgr platform.PackageManager, packages []string) error
	}

	// ReadinessProber polls the database for readiness. Implemented by
	// probe.Prober.
	ReadinessProber interface {
		WaitForHealthy(ctx context.Context, endpoint string, matcher probe.Matcher, maxAttempts int, interval time.Duration) (probe.Result, error)
		VerifyAuth(ctx context.Context, baseURL, token string) error
	}

	// Installer drives the full bring-up sequence.
	Installer struct {
		cfg         *config.Config
		settings    config.Settings
		engine      container.Engine
		provisioner *provision.Provisioner
		packages    PackageEnsurer
		prober      ReadinessProber
		logger      *log.Logger

		// detect and containerized are seams for platform probing.
		detect        func() (platform.Info, error)
		containerized func() bool
	}

	// Option configures an Installer.
	Option func(*Installer)
)

// WithEngine injects a container engine, bypassing auto-detection.
func WithEngine(engine container.Engine) Option {
	return func(i *Installer) { i.engine = engine }
}

// WithPackageEnsurer overrides how OS packages get installed.
func WithPackageEnsurer(pe PackageEnsurer) Option {
	return func(i *Installer) { i.packages = pe }
}

// WithProber overrides the readiness prober.
func WithProber(p ReadinessProber) Option {
	return func(i *Installer) { i.prober = p }
}

// WithPlatformDetection overrides platform probing.
func WithPlatformDetection(detect func() (platform.Info, error), containerized func() bool) Option {
	return func(i *Installer) {
		i.detect = detect
		i.containerized = containerized
	}
}

// New creates an Installer with production defaults.
func New(cfg *config.Config, settings config.Settings, provisioner *provision.Provisioner, logger *log.Logger, opts ...Option) *Installer {
	if logger == nil {
		logger = log.Default()
	}
	i := &Installer{
		cfg:           cfg,
		settings:      settings,
		provisioner:   provisioner,
		packages:      platform.NewScriptRunner(os.Stdout, os.Stderr),
		prober:        probe.NewProber(nil, logger),
		logger:        logger,
		detect:        platform.Detect,
		containerized: platform.IsContainerized,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// DatabaseURL is the host-side base URL of the database API.
func (i *Installer) DatabaseURL() string {
	return fmt.Sprintf("http://localhost:%d", i.cfg.Ports.Database)
}

// Run executes the full sequence: runtime, artifacts, services, readiness,
// then an advisory token check.
func (i *Installer) Run(ctx context.Context) error {
	engine, err := i.EnsureRuntime(ctx)
	if err != nil {
		return err
	}

	if _, err := i.provisioner.Provision(ctx); err != nil {
		return err
	}

	if err := i.Start(ctx, engine); err != nil {
		return err
	}

	if err := i.AwaitReady(ctx); err != nil {
		return err
	}

	i.CheckToken(ctx)
	return nil
}

// EnsureRuntime returns a usable container engine with its compose plugin,
// installing both through the platform package manager when missing.
func (i *Installer) EnsureRuntime(ctx context.Context) (container.Engine, error) {
	engine := i.engine
	if engine == nil {
		if detected, err := container.NewEngine(container.EngineType(i.cfg.ContainerEngine)); err == nil {
			engine = detected
		}
	}

	if engine != nil && engine.Available() && engine.ComposeAvailable(ctx) {
		version, err := engine.Version(ctx)
		if err == nil {
			i.logger.Info("container runtime ready", "engine", engine.Name(), "version", version)
		}
		return engine, nil
	}

	info, err := i.detect()
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("detect host platform").
			WithSuggestion("Install docker or podman manually, then re-run").
			Wrap(err).
			BuildError()
	}

	mgr, err := platform.Resolve(info)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("resolve package manager").
			WithResource(info.PrettyName).
			WithSuggestion("Install docker or podman manually, then re-run").
			WithSuggestion("Supported families: debian, fedora, opensuse, arch").
			Wrap(err).
			BuildError()
	}

	i.logger.Info("installing container runtime", "package_manager", mgr.Name)
	packages := append(append([]string{}, mgr.EnginePackages...), mgr.ComposePackages...)
	if err := i.packages.EnsurePackages(ctx, mgr, packages); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("install container runtime").
			WithResource(mgr.Name).
			WithSuggestion("Re-run with elevated privileges").
			WithSuggestion("Check network access to the package mirrors").
			Wrap(err).
			BuildError()
	}

	engine, err = container.NewEngine(container.EngineType(i.cfg.ContainerEngine))
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("verify container runtime").
			WithSuggestion("Check that the engine service is running (systemctl status docker)").
			WithSuggestion("Log out and back in if your user was just added to the docker group").
			Wrap(err).
			BuildError()
	}
	if !engine.ComposeAvailable(ctx) {
		return nil, issue.NewErrorContext().
			WithOperation("verify compose plugin").
			WithResource(engine.Name()).
			WithSuggestion("Install the compose plugin for your engine").
			Wrap(fmt.Errorf("%s installed but its compose plugin is missing", engine.Name())).
			BuildError()
	}
	return engine, nil
}

// Start brings the services up from the provisioned descriptor.
func (i *Installer) Start(ctx context.Context, engine container.Engine) error {
	opts := container.ComposeOptions{
		Dir:    i.cfg.StackDir,
		File:   provision.DescriptorFileName,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}

	if err := engine.ComposeUp(ctx, opts); err != nil {
		ec := issue.NewErrorContext().
			WithOperation("start stack services").
			WithResource(i.cfg.StackDir)
		// Nested container runtimes fail in ways the compose output does
		// not explain; name the likely cause up front.
		if i.containerized() {
			ec = ec.WithSuggestion("This host looks like a container; run on the host itself or inside a VM")
		}
		return ec.
			WithSuggestion("Inspect the compose output above for the failing service").
			WithSuggestion(fmt.Sprintf("Check port collisions on %d and %d", i.cfg.Ports.Database, i.cfg.Ports.Dashboard)).
			Wrap(err).
			BuildError()
	}
	return nil
}

// AwaitReady polls the database health endpoint until it passes or the
// attempt budget runs out.
func (i *Installer) AwaitReady(ctx context.Context) error {
	interval, err := i.cfg.Probe.IntervalDuration()
	if err != nil {
		return err
	}

	endpoint := i.DatabaseURL() + "/health"
	i.logger.Info("waiting for the database to report healthy",
		"endpoint", endpoint, "max_attempts", i.cfg.Probe.MaxAttempts, "interval", interval)

	res, err := i.prober.WaitForHealthy(ctx, endpoint, probe.HealthMatcher, i.cfg.Probe.MaxAttempts, interval)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("wait for database readiness").
			WithResource(endpoint).
			WithSuggestion("Check the database container logs for startup failures").
			WithSuggestion("Raise probe.max_attempts for slow hosts").
			Wrap(err).
			BuildError()
	}

	i.logger.Info("database healthy", "attempts", res.Attempts)
	return nil
}

// CheckToken verifies the provisioned token against the API. The result is
// advisory only: right after first boot the setup may not have finished
// applying, so a failure is logged and never aborts the run.
func (i *Installer) CheckToken(ctx context.Context) {
	token, err := i.provisioner.ReadToken()
	if err != nil {
		i.logger.Warn("could not read the API token for verification", "err", err)
		return
	}

	if err := i.prober.VerifyAuth(ctx, i.DatabaseURL(), token); err != nil {
		i.logger.Warn("token not accepted yet; setup may still be converging", "err", err)
		return
	}
	i.logger.Info("API token verified")
}
