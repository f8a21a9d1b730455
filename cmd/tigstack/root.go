// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for tigstack.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/AskMe-CMI/TiG-Stack/internal/config"
	"github.com/AskMe-CMI/TiG-Stack/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// flagOrg and flagBucket override the run-scoped settings
	flagOrg    string
	flagBucket string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "tigstack",
		Short: "Provision a host metrics stack on a fresh machine",
		Long: TitleStyle.Render("tigstack") + SubtitleStyle.Render(" - host metrics stack provisioner") + `

tigstack installs a container runtime if the host lacks one, generates
credentials and service configuration, and brings up a three-service
observability stack: a metrics collector, a time-series database, and a
dashboard. Re-running is safe: credentials and operator edits survive.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Run 'tigstack up' on the target host
  2. Enter an admin password when prompted (first run only)
  3. Open the dashboard on port 3000

` + SubtitleStyle.Render("Examples:") + `
  tigstack up                 Install, provision, and start the stack
  tigstack provision          Generate artifacts without starting anything
  tigstack status             List running stack services
  tigstack down               Stop the stack
  tigstack config show        Show current configuration`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/tigstack/config.cue)")
	rootCmd.PersistentFlags().StringVar(&flagOrg, "org", "", "organization name for this run (overrides TIGSTACK_ORG)")
	rootCmd.PersistentFlags().StringVar(&flagBucket, "bucket", "", "bucket name for this run (overrides TIGSTACK_BUCKET)")

	// Add subcommands
	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(provisionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(downCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(explainCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig applies the verbose flag to the process logger.
func initRootConfig() {
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}

// loadConfig resolves the effective configuration, honoring --config.
func loadConfig() (*config.Config, error) {
	cfg, _, err := config.Load(config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		return nil, err
	}
	if cfg.UI.Verbose && !verbose {
		verbose = true
		log.SetLevel(log.DebugLevel)
	}
	return cfg, nil
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// failure renders an error (with suggestions when actionable) and signals
// a non-zero exit. Known failure classes get a pointer to their explain
// topic.
func failure(err error) error {
	msg := fmt.Sprintf("%s %s", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
	if topic := topicForError(err); topic != "" {
		msg += fmt.Sprintf("\n\nRun 'tigstack explain %s' for remediation steps.", topic)
	}
	return &ExitError{Code: 1, Err: errors.New(msg)}
}
