// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/AskMe-CMI/TiG-Stack/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage tigstack configuration",
	Long: `Manage tigstack configuration.

Configuration is stored in ~/.config/tigstack/config.cue (or under
$XDG_CONFIG_HOME when set). All fields are optional; unset fields fall
back to built-in defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, path, err := config.Load(config.LoadOptions{ConfigFilePath: cfgFile})
			if err != nil {
				return failure(err)
			}
			if path == "" {
				fmt.Println(SubtitleStyle.Render("// no config file found, showing built-in defaults"))
			} else {
				fmt.Println(SubtitleStyle.Render("// loaded from " + path))
			}
			fmt.Print(config.GenerateCUE(cfg))
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(_ *cobra.Command, _ []string) error {
			path, err := config.CreateDefaultConfig()
			if err != nil {
				return failure(err)
			}
			fmt.Println(SuccessStyle.Render("Config file: ") + path)
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(_ *cobra.Command, _ []string) error {
			dir, err := config.ConfigDir()
			if err != nil {
				return failure(err)
			}
			fmt.Println(filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt))
			return nil
		},
	})
}
