package cmd

import (
	"fmt"

	"github.com/huangsam/deviceinfo/core"
	"github.com/huangsam/deviceinfo/schema"
	"github.com/spf13/cobra"
)

// launchCmd groups the app launch counter commands.
var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Count app launches per app version",
	Long: `Track how many times the app was launched, per app version.

The current app version comes from --app-version or the Info.plist
CFBundleShortVersionString.

Subcommands:
  status    - Show launch counts for every version
  increment - Record one launch for the current version

Examples:
  # Record a launch
  deviceinfo launch increment --app-version 1.0.1

  # Show launch counts as JSON
  deviceinfo launch status --output json`,
}

// reviewCmd groups the review prompt counter commands.
var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Count review prompts per app version",
	Long: `Track how many times the user was asked for an app review, per app version.

Review prompt counts are stored apart from launch counts.

Subcommands:
  status    - Show review prompt counts for every version
  increment - Record one review prompt for the current version`,
}

// statusCmd prints every counter at once.
var statusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show all counters",
	Long:    `Show launch and review prompt counts for every app version.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return core.ExecuteCounterStatus(rootCtx, cfg)
	},
}

// newCounterStatusCmd builds the status subcommand of one counter kind.
func newCounterStatusCmd(kind schema.CounterKind) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   fmt.Sprintf("Show %s counts for every app version", kind),
		PreRunE: sharedSetupWrapper,
		RunE: func(_ *cobra.Command, _ []string) error {
			return core.ExecuteCounterStatus(rootCtx, cfg, kind)
		},
	}
}

// newCounterIncrementCmd builds the increment subcommand of one counter kind.
func newCounterIncrementCmd(kind schema.CounterKind) *cobra.Command {
	return &cobra.Command{
		Use:     "increment",
		Short:   fmt.Sprintf("Record one %s event for the current app version", kind),
		PreRunE: sharedSetupWrapper,
		RunE: func(_ *cobra.Command, _ []string) error {
			return core.ExecuteCounterIncrement(rootCtx, cfg, kind)
		},
	}
}
