// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/AskMe-CMI/TiG-Stack/internal/issue"
	"github.com/AskMe-CMI/TiG-Stack/internal/platform"
	"github.com/AskMe-CMI/TiG-Stack/internal/probe"

	"github.com/spf13/cobra"
)

// topics maps the user-facing topic names to catalog entries.
var topics = map[string]issue.Id{
	"platform":       issue.UnsupportedPlatformId,
	"engine-install": issue.EngineInstallFailedId,
	"compose-plugin": issue.ComposePluginMissingId,
	"stack-start":    issue.StackStartFailedId,
	"health-timeout": issue.HealthCheckTimeoutId,
	"permissions":    issue.PermissionDeniedId,
	"config":         issue.ConfigLoadFailedId,
	"artifact-write": issue.ArtifactWriteFailedId,
}

var explainCmd = &cobra.Command{
	Use:   "explain [topic]",
	Short: "Explain a failure topic with remediation steps",
	Long: `Explain a failure topic with remediation steps.

Without arguments, lists the available topics. With a topic name, renders
the full explanation for that failure class.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if len(args) == 0 {
			names := make([]string, 0, len(topics))
			for name := range topics {
				names = append(names, name)
			}
			sort.Strings(names)

			fmt.Println(TitleStyle.Render("Topics:"))
			for _, name := range names {
				fmt.Printf("  %s\n", CmdStyle.Render(name))
			}
			return nil
		}

		id, ok := topics[args[0]]
		if !ok {
			return failure(fmt.Errorf("unknown topic %q; run 'tigstack explain' to list topics", args[0]))
		}

		out, err := issue.Get(id).Render("dark")
		if err != nil {
			return failure(err)
		}
		fmt.Print(out)
		return nil
	},
}

// topicForError maps known failure classes to an explain topic, or "".
func topicForError(err error) string {
	switch {
	case errors.Is(err, platform.ErrUnsupportedPlatform):
		return "platform"
	case errors.Is(err, platform.ErrDependencyInstall):
		return "engine-install"
	case errors.Is(err, probe.ErrHealthTimeout):
		return "health-timeout"
	case errors.Is(err, os.ErrPermission):
		return "permissions"
	default:
		return ""
	}
}
