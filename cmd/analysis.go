package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/internal/iocache"
	"github.com/huangsam/skillspot/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// analysisSetup loads minimal configuration needed for analysis operations.
// This is used by commands that need analysis access without full shared setup.
func analysisSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get analysis-related config values
	backendStr := viper.GetString("analysis-backend")
	connStr := viper.GetString("analysis-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Get output-related config values (used by export command)
	outputFile := viper.GetString("output-file")

	// Initialize stores with the loaded config (no cache tracking for analysis commands)
	if err := iocache.InitStores("", "", backend, connStr, 0); err != nil {
		return fmt.Errorf("failed to initialize analysis: %w", err)
	}

	cfg.AnalysisBackend = backend
	cfg.AnalysisDBConnect = connStr
	cfg.OutputFile = outputFile

	return nil
}

// analysisSetupWrapper wraps analysisSetup to provide PreRunE for analysis commands.
func analysisSetupWrapper(_ *cobra.Command, _ []string) error {
	return analysisSetup()
}

// analysisMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func analysisMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get analysis-related config values
	backendStr := viper.GetString("analysis-backend")
	connStr := viper.GetString("analysis-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetAnalysisDBFilePath()
	}

	cfg.AnalysisBackend = backend
	cfg.AnalysisDBConnect = connStr

	return nil
}

// analysisMigrateSetupWrapper wraps analysisMigrateSetup to provide PreRunE for migrate command.
func analysisMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return analysisMigrateSetup()
}

// analysisCmd focused on analysis data management.
//
// Note: Analysis subcommands use minimal initialization (analysisSetup) instead of
// the full sharedSetup used by query commands. This avoids opening the data source
// and complex config processing for simple analysis operations.
var analysisCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Manage historical analysis tracking and exports",
	Long: `Manage the history of skill scores used for trend tracking and reporting.

When enabled with --analysis-backend, every computed ranking is recorded:
- Run metadata (timestamp, operation, parameters, data version)
- Per-skill signals (count, growth, salary premium, demand gap) and hotness

Cached results are not recorded again, so each data version and parameter
set appears once per cache lifetime.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show analysis tracking statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all tracking data
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  skillspot analysis status --analysis-backend sqlite

  # Export for analysis in pandas/DuckDB
  skillspot analysis export --analysis-backend sqlite --output-file skills`,
}

// analysisClearCmd clears the analysis data.
var analysisClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all historical analysis tracking data",
	Long: `Delete all stored analysis runs and skill score history.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  skillspot analysis export --output-file backup
  skillspot analysis clear`,
	PreRunE: analysisSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearAnalysis(cfg.AnalysisBackend, sqliteFilePath(cfg.AnalysisDBConnect, contract.GetAnalysisDBFilePath()), cfg.AnalysisDBConnect); err != nil {
			contract.LogFatal("Failed to clear analysis data", err)
		}
		fmt.Println("Analysis data cleared successfully.")
	},
}

// analysisStatusCmd shows analysis status.
var analysisStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display analysis tracking statistics and connection details",
	Long: `Show detailed information about historical analysis tracking.

Displays:
- Backend type and connection status
- Total number of analysis runs stored
- Last and oldest analysis run timestamps
- Total skill scores recorded across all runs
- Database table sizes

Examples:
  # Check analysis tracking status
  skillspot analysis status`,
	PreRunE: analysisSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetAnalysisStore()
		if store == nil {
			contract.LogFatal("Failed to get analysis status", fmt.Errorf("analysis tracking is disabled"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get analysis status", err)
		}
		iocache.PrintAnalysisStatus(os.Stdout, status)
	},
}

// analysisExportCmd exports analysis data to Parquet files.
var analysisExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export historical data to Parquet for BI tools and analytics",
	Long: `Export all stored analysis data to Parquet format for use with analytics tools.

Writes two files next to --output-file:
- <output-file>.analysis_runs.parquet - one row per recorded run
- <output-file>.skill_scores.parquet  - one row per skill and run

Requires: --output-file parameter

Examples:
  # Export all data
  skillspot analysis export --output-file skillspot

  # Use with DuckDB for analysis
  duckdb -c "SELECT skill, avg(hotness) FROM read_parquet('skillspot.skill_scores.parquet') GROUP BY 1"`,
	PreRunE: analysisSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteAnalysisExport(iocache.Manager.GetAnalysisStore(), cfg.OutputFile, os.Stdout); err != nil {
			contract.LogFatal("Failed to export analysis data", err)
		}
	},
}

// analysisMigrateCmd runs database migrations for the analysis store.
var analysisMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the analysis tracking store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  skillspot analysis migrate --analysis-backend sqlite

  # Rollback to initial state
  skillspot analysis migrate --target-version 0`,
	PreRunE: analysisMigrateSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		targetVersion, _ := cmd.Flags().GetInt("target-version")
		if err := iocache.MigrateAnalysis(cfg.AnalysisBackend, cfg.AnalysisDBConnect, targetVersion, os.Stdout); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
