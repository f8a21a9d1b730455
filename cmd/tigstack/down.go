// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/AskMe-CMI/TiG-Stack/internal/container"
	"github.com/AskMe-CMI/TiG-Stack/internal/provision"

	"github.com/spf13/cobra"
)

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Stop the stack services",
	Long: `Stop the stack services.

Stops and removes the stack's containers and network. Named volumes and
generated artifacts (credentials, configs) are kept, so a later 'up'
resumes with the same data and credentials.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return failure(err)
		}

		engine, err := container.NewEngine(container.EngineType(cfg.ContainerEngine))
		if err != nil {
			return failure(err)
		}

		opts := container.ComposeOptions{
			Dir:    cfg.StackDir,
			File:   provision.DescriptorFileName,
			Stdout: os.Stdout,
			Stderr: os.Stderr,
		}
		if err := engine.ComposeDown(cmd.Context(), opts); err != nil {
			return failure(err)
		}

		fmt.Println(SuccessStyle.Render("Stack stopped."))
		return nil
	},
}
