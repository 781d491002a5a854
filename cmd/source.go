package cmd

import (
	"os"

	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/internal/source"
	"github.com/spf13/cobra"
)

// sourceCmd focused on the dataset database.
var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Inspect and migrate the dataset database",
	Long: `Manage the database that 'skillspot load' writes to and queries read from.

Supported backends: SQLite (default), MySQL, PostgreSQL, ClickHouse

Subcommands:
  status  - Show the current data version and row counts
  migrate - Run dataset schema migrations (not needed for ClickHouse)`,
}

// sourceStatusCmd shows the loaded dataset.
var sourceStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display the current data version and row counts",
	Long: `Show which dataset version queries currently read, when it was loaded and
how many postings, companies and skills it holds.

Examples:
  skillspot source status
  skillspot source status --data-dir ./data`,
	Args: cobra.NoArgs,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return resolveConfig(nil)
	},
	Run: func(_ *cobra.Command, _ []string) {
		src, err := openSource(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to open data source", err)
		}
		defer func() { _ = src.Close() }()

		status, err := src.Status(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get source status", err)
		}
		source.PrintSourceStatus(os.Stdout, status)
	},
}

// sourceMigrateCmd runs the dataset migrations.
var sourceMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run dataset schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the dataset tables.

Loading data migrates to the latest version automatically. Use this command to
prepare an empty database ahead of time or to roll back.

Examples:
  # Migrate to latest version (default)
  skillspot source migrate --source-backend mysql --source-db-connect "user:pass@tcp(localhost:3306)/skillspot"

  # Rollback to initial state
  skillspot source migrate --target-version 0`,
	Args: cobra.NoArgs,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return resolveConfig(nil)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		targetVersion, _ := cmd.Flags().GetInt("target-version")
		if err := source.MigrateSource(cfg.SourceBackend, cfg.SourceDBConnect, targetVersion, os.Stdout); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
