package cmd

import (
	"github.com/huangsam/deviceinfo/core"
	"github.com/spf13/cobra"
)

// exportCmd exports every counter to Parquet.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all counters to Parquet",
	Long: `Export every kind/version/count row to a Parquet file for analytics tools.

Requires: --output-file parameter

Examples:
  # Export all counters
  deviceinfo export --output-file counters.parquet

  # Query with DuckDB
  duckdb -c "SELECT kind, sum(count) FROM read_parquet('counters.parquet') GROUP BY kind"`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return core.ExecuteExport(rootCtx, cfg)
	},
}
