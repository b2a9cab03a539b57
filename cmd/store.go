package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/deviceinfo/internal/contract"
	"github.com/huangsam/deviceinfo/internal/iocache"
	"github.com/huangsam/deviceinfo/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeCmd focused on counter store management.
//
// Note: clear and migrate only load configuration. They never open stores,
// so a corrupted or locked store can still be cleared.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the counter stores",
	Long: `Manage the key-value stores that hold version counters.

Supported backends:
  local        - SQLite (default), bolt, memory, or none
  synchronized - MySQL or PostgreSQL, scoped by --sync-identity

Subcommands:
  status  - Show store statistics and connection info
  clear   - Remove stored counters
  migrate - Run schema migrations

Examples:
  # Check the local store
  deviceinfo store status

  # Check the synchronized store
  DEVICEINFO_SYNC_DB_CONNECT="..." deviceinfo store status --location synchronized \
    --sync-backend postgresql --sync-identity alice`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display store statistics and connection details",
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		location, err := locationFlag(cmd)
		if err != nil {
			return err
		}
		status, err := iocache.Manager.Status(location, cfg.Namespace)
		if err != nil {
			return fmt.Errorf("failed to get store status: %w", err)
		}
		iocache.PrintStoreStatus(os.Stdout, status)
		return nil
	},
}

// storeClearCmd clears stored counters.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored counters",
	Long: `Delete stored counters from the configured backend.

For SQLite and bolt: Deletes the database file of the namespace
For MySQL/PostgreSQL: Deletes the rows of --sync-identity, or drops the table when no identity is set

Examples:
  # Clear the default local store
  deviceinfo store clear

  # Clear a shared namespace
  deviceinfo store clear --namespace group.com.example.app`,
	PreRunE: configSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		location, err := locationFlag(cmd)
		if err != nil {
			contract.LogFatal("Invalid location", err)
		}
		if err := iocache.ClearStore(cfg.Store, location, cfg.Namespace); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// storeMigrateCmd runs database migrations for a SQL-backed store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage the schema version of the version_counters table.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate the local SQLite store to the latest version
  deviceinfo store migrate

  # Roll the synchronized store back to the initial state
  deviceinfo store migrate --location synchronized --target-version 0`,
	PreRunE: configSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		location, err := locationFlag(cmd)
		if err != nil {
			contract.LogFatal("Invalid location", err)
		}
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateLocation(cfg.Store, location, cfg.Namespace, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}

// locationFlag parses the --location flag of a store subcommand.
func locationFlag(cmd *cobra.Command) (schema.StoreLocation, error) {
	value, err := cmd.Flags().GetString("location")
	if err != nil {
		return "", err
	}
	switch location := schema.StoreLocation(value); location {
	case schema.LocalLocation, schema.SynchronizedLocation:
		return location, nil
	default:
		return "", fmt.Errorf("invalid location '%s'. must be local, synchronized", value)
	}
}
