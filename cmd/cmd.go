// Package cmd defines the command-line interface for skillspot.
package cmd

import (
	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(skillsCmd)
	rootCmd.AddCommand(trendingCmd)
	rootCmd.AddCommand(salaryCmd)
	rootCmd.AddCommand(cooccurCmd)
	rootCmd.AddCommand(networkCmd)
	rootCmd.AddCommand(overviewCmd)
	rootCmd.AddCommand(locationsCmd)
	rootCmd.AddCommand(companiesCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(forecastCmd)
	rootCmd.AddCommand(occupationsCmd)
	rootCmd.AddCommand(forecastTopCmd)
	rootCmd.AddCommand(salaryTrendCmd)
	rootCmd.AddCommand(benefitsCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(sourceCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(analysisCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the source subcommands to the parent source command
	sourceCmd.AddCommand(sourceStatusCmd)
	sourceCmd.AddCommand(sourceMigrateCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the analysis subcommands to the parent analysis command
	analysisCmd.AddCommand(analysisClearCmd)
	analysisCmd.AddCommand(analysisStatusCmd)
	analysisCmd.AddCommand(analysisExportCmd)
	analysisCmd.AddCommand(analysisMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	flags := rootCmd.PersistentFlags()
	flags.IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	flags.String("sort", string(schema.SortByCount), "Ranking key for skills: count or hotness or growth")
	flags.String("output", string(schema.TextOut), "Output format: text or csv or json or yaml")
	flags.String("output-file", "", "Optional path to write output to")
	flags.Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	flags.String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	flags.Int("width", 0, "Terminal width override (0 = auto-detect)")
	flags.String("log-level", "", "Log level: debug or info or warn or error")
	flags.String("config", "", "Path to config file")
	flags.String("data-dir", "", "Analyze the CSV files in this directory instead of the source database")
	flags.String("source-backend", string(schema.SQLiteBackend), "Dataset backend: sqlite or mysql or postgresql or clickhouse")
	flags.String("source-db-connect", "", "Database connection string for the dataset (file path for sqlite)")
	flags.String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or redis or memory or none")
	flags.String("cache-db-connect", "", "Database connection string for the result cache (e.g., redis://localhost:6379/0)")
	flags.String("cache-ttl", contract.DefaultCacheTTL.String(), "How long cached results stay valid (e.g., 30m, 2h)")
	flags.String("analysis-backend", "", "Analysis tracking backend: sqlite or mysql or postgresql or none")
	flags.String("analysis-db-connect", "", "Database connection string for analysis tracking (must differ from cache-db-connect)")
	flags.String("forecast-backend", string(schema.LinearForecast), "Forecast backend: linear or exec or nats or none")
	flags.String("forecast-command", "", "Command that reads a forecast request on stdin (exec backend)")
	flags.String("forecast-subject", contract.DefaultForecastSubject, "NATS subject of the forecasting service (nats backend)")
	flags.String("forecast-timeout", contract.DefaultForecastTimeout.String(), "Upper bound for one forecast call")
	flags.String("nats-url", "", "NATS server URL for reload events and the nats forecast backend")
	flags.String("reload-subject", contract.DefaultReloadSubject, "NATS subject carrying dataset reload events")

	// Query parameters are persistent so each key binds to exactly one flag
	flags.String("skill", "", "Skill to analyze (case-insensitive)")
	flags.String("location", "", "City or state substring (case-insensitive)")
	flags.Int("window", contract.DefaultWindowMonths, "Number of trailing months for growth")
	flags.Float64("min-growth", contract.DefaultGrowthThreshold, "Growth threshold in percent for trending skills")
	flags.Int("min-connections", 0, "Minimum shared postings for co-occurrence")
	flags.Int("min-count", 0, "Minimum posting count for a network node")
	flags.Int("max-nodes", contract.DefaultMaxNodes, "Maximum number of network nodes")
	flags.Int("periods", contract.DefaultForecastPeriods, "Number of months to forecast")
	flags.Int("history", contract.DefaultForecastHistory, "Trailing months of history sent to the forecaster")
	if err := viper.BindPFlags(flags); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// The migrate commands read their own flag; it is not part of the shared config
	for _, c := range []*cobra.Command{analysisMigrateCmd, sourceMigrateCmd} {
		c.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	}

	loadCmd.Flags().Bool("publish", true, "Publish a reload event when --nats-url is set")
}
