// Package cmd defines the command-line interface for deviceinfo.
package cmd

import (
	"github.com/huangsam/deviceinfo/internal/contract"
	"github.com/huangsam/deviceinfo/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(launchCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(deviceCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the counter subcommands to their parent commands
	launchCmd.AddCommand(newCounterStatusCmd(schema.LaunchCounter), newCounterIncrementCmd(schema.LaunchCounter))
	reviewCmd.AddCommand(newCounterStatusCmd(schema.ReviewPromptCounter), newCounterIncrementCmd(schema.ReviewPromptCounter))

	// Add the device subcommands to the parent device command
	deviceCmd.AddCommand(deviceInfoCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	flags := rootCmd.PersistentFlags()
	flags.String("local-backend", string(contract.DefaultLocalBackend), "Local store backend: sqlite or bolt or memory or none")
	flags.String("local-db-dir", "", "Directory for local store files (default $HOME/.deviceinfo)")
	flags.String("namespace", "", "Shared storage namespace, e.g. group.com.example.app")
	flags.Bool("prefer-sync", false, "Use the synchronized store when an account identity is available")
	flags.String("sync-backend", "", "Synchronized store backend: mysql or postgresql")
	flags.String("sync-db-connect", "", "Database connection string for the synchronized store (e.g., user:pass@tcp(host:port)/dbname)")
	flags.String("sync-identity", "", "Account identity that scopes the synchronized store")
	flags.String("app-version", "", "App version override (defaults to CFBundleShortVersionString)")
	flags.String("info-plist", "", "Path to the app's Info.plist (default ./Info.plist)")
	flags.String("model-identifier", "", "Hardware model identifier override, e.g. iPhone14,5")
	flags.String("device-name", "", "Device display name override (defaults to hostname)")
	flags.String("device-identifier", "", "Device identifier override (defaults to a random UUID)")
	flags.String("output", string(schema.TextOut), "Output format: text or json or csv or yaml or parquet")
	flags.String("output-file", "", "Optional path to write output to")
	flags.String("color", "yes", "Highlight the current version in tables (yes/no/true/false/1/0)")
	flags.String("log-level", "", "Log level for diagnostics on stderr: debug or info or warn or error")
	flags.String("config", "", "Path to config file")
	if err := viper.BindPFlags(flags); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Screen metrics are nested under "screen" in config files
	flags.Float64("screen-density", 0, "Screen scale factor, e.g. 3")
	flags.Float64("screen-height", 0, "Screen height in points")
	flags.Float64("screen-width", 0, "Screen width in points")
	for key, flag := range map[string]string{
		"screen.density": "screen-density",
		"screen.height":  "screen-height",
		"screen.width":   "screen-width",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			contract.LogFatal("Error binding screen flags", err)
		}
	}

	// Bind all flags of deviceInfoCmd to Viper
	deviceInfoCmd.Flags().String("token", "", "Push notification token; hex tokens are normalized to uppercase")
	deviceInfoCmd.Flags().Float64("lat", 0, "Device latitude")
	deviceInfoCmd.Flags().Float64("lng", 0, "Device longitude")
	deviceInfoCmd.Flags().Bool("null-missing", false, "Report missing token and coordinates as null instead of omitting them")
	if err := viper.BindPFlags(deviceInfoCmd.Flags()); err != nil {
		contract.LogFatal("Error binding device info flags", err)
	}

	// Location is read from each subcommand's own flags, not Viper
	for _, c := range []*cobra.Command{storeStatusCmd, storeClearCmd, storeMigrateCmd} {
		c.Flags().String("location", string(schema.LocalLocation), "Store location: local or synchronized")
	}
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlag("target-version", storeMigrateCmd.Flags().Lookup("target-version")); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
