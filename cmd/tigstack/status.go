// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/AskMe-CMI/TiG-Stack/internal/config"
	"github.com/AskMe-CMI/TiG-Stack/internal/container"
	"github.com/AskMe-CMI/TiG-Stack/internal/probe"
	"github.com/AskMe-CMI/TiG-Stack/internal/provision"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List running stack services and check database health",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return failure(err)
		}

		engine, err := container.NewEngine(container.EngineType(cfg.ContainerEngine))
		if err != nil {
			return failure(err)
		}

		out, err := engine.ComposePS(cmd.Context(), container.ComposeOptions{
			Dir:    cfg.StackDir,
			File:   provision.DescriptorFileName,
			Stderr: os.Stderr,
		})
		if err != nil {
			return failure(err)
		}

		services := strings.Fields(out)
		if len(services) == 0 {
			fmt.Println(WarningStyle.Render("No stack services are running."))
			return nil
		}
		fmt.Println(SuccessStyle.Render("Running services:"))
		for _, s := range services {
			fmt.Printf("  %s\n", s)
		}

		// Re-check readiness against the running stack. A single request is
		// enough here; the bounded poll loop belongs to 'up'.
		logger := log.Default()
		prober := probe.NewProber(nil, logger)
		endpoint := fmt.Sprintf("http://localhost:%d", cfg.Ports.Database)

		interval, err := cfg.Probe.IntervalDuration()
		if err != nil {
			return failure(err)
		}
		if _, err := prober.WaitForHealthy(cmd.Context(), endpoint+"/health", probe.HealthMatcher, 1, interval); err != nil {
			fmt.Println(WarningStyle.Render("Database is not reporting healthy yet."))
			return nil
		}
		fmt.Println(SuccessStyle.Render("Database is healthy."))

		settings := config.ResolveSettings(cfg, flagOrg, flagBucket)
		prov := provision.NewProvisioner(cfg, settings, nil, logger)
		token, err := prov.ReadToken()
		if err != nil {
			logger.Warn("could not read the API token for verification", "err", err)
			return nil
		}
		if err := prober.VerifyAuth(cmd.Context(), endpoint, token); err != nil {
			logger.Warn("token not accepted yet; setup may still be converging", "err", err)
			return nil
		}
		fmt.Println(SuccessStyle.Render("API token verified."))
		return nil
	},
}
