// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/AskMe-CMI/TiG-Stack/internal/config"
	"github.com/AskMe-CMI/TiG-Stack/internal/installer"
	"github.com/AskMe-CMI/TiG-Stack/internal/provision"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Install, provision, and start the stack",
	Long: `Install, provision, and start the stack.

Runs the full sequence on the current host:
  1. Install a container runtime and compose plugin if missing
  2. Generate credentials and service configuration
  3. Start the collector, database, and dashboard services
  4. Wait until the database reports healthy

The command is idempotent: re-running preserves existing credentials and
any operator edits to the collector's base configuration.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return failure(err)
		}
		settings := config.ResolveSettings(cfg, flagOrg, flagBucket)

		logger := log.Default()
		prov := provision.NewProvisioner(cfg, settings, nil, logger)
		inst := installer.New(cfg, settings, prov, logger)

		if err := inst.Run(cmd.Context()); err != nil {
			return failure(err)
		}

		fmt.Println(SuccessStyle.Render("Stack is up."))
		fmt.Printf("  Dashboard: %s\n", CmdStyle.Render(fmt.Sprintf("http://localhost:%d", cfg.Ports.Dashboard)))
		fmt.Printf("  Database:  %s\n", CmdStyle.Render(inst.DatabaseURL()))
		return nil
	},
}
