// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/AskMe-CMI/TiG-Stack/internal/config"
	"github.com/AskMe-CMI/TiG-Stack/internal/provision"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Generate stack artifacts without starting services",
	Long: `Generate stack artifacts without starting services.

Writes credentials, collector configuration, and the stack descriptor
under the stack directory, then reports what each file's overwrite policy
did. Useful for inspecting or versioning the generated files before a
real bring-up.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return failure(err)
		}
		settings := config.ResolveSettings(cfg, flagOrg, flagBucket)

		prov := provision.NewProvisioner(cfg, settings, nil, log.Default())
		artifacts, err := prov.Provision(cmd.Context())
		if err != nil {
			return failure(err)
		}

		fmt.Println(SuccessStyle.Render("Artifacts provisioned:"))
		for _, a := range artifacts {
			fmt.Printf("  %-11s %-10s %s\n", a.Action, a.Kind, a.Path)
		}
		return nil
	},
}
