package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/skillspot/core"
	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/internal/forecast"
	"github.com/huangsam/skillspot/internal/iocache"
	"github.com/huangsam/skillspot/internal/source"
	"github.com/huangsam/skillspot/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// cacheManager is the global persistence manager instance.
var cacheManager contract.CacheManager

// engine answers every query command. It is built by sharedSetup.
var engine *core.Engine

// closers release the data source and forecast connections on exit.
var closers []io.Closer

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "skillspot",
	Short:              "Analyze job postings to find the skills the market wants.",
	Long:               `Skillspot turns job posting data into skill demand, growth, salary and hotness insights.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setConfigPaths()

	// Set environment variable prefix
	viper.SetEnvPrefix("SKILLSPOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("limit", contract.DefaultResultLimit)
	viper.SetDefault("sort", schema.SortByCount)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("window", contract.DefaultWindowMonths)
	viper.SetDefault("min-growth", contract.DefaultGrowthThreshold)
	viper.SetDefault("periods", contract.DefaultForecastPeriods)
	viper.SetDefault("history", contract.DefaultForecastHistory)
	viper.SetDefault("max-nodes", contract.DefaultMaxNodes)
	viper.SetDefault("source-backend", schema.SQLiteBackend)
	viper.SetDefault("cache-backend", schema.SQLiteBackend)
	viper.SetDefault("cache-db-connect", "")
	viper.SetDefault("cache-ttl", contract.DefaultCacheTTL.String())
	viper.SetDefault("analysis-backend", "")
	viper.SetDefault("analysis-db-connect", "")
	viper.SetDefault("forecast-backend", schema.LinearForecast)
	viper.SetDefault("forecast-timeout", contract.DefaultForecastTimeout.String())
	viper.SetDefault("reload-subject", contract.DefaultReloadSubject)
	viper.SetDefault("color", "yes")
}

// setConfigPaths points viper at --config or the default .skillspot.yaml locations.
func setConfigPaths() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".skillspot") // Name of config file (without extension)
	viper.SetConfigType("yaml")       // We'll use YAML format
	viper.AddConfigPath(".")          // Look in the current directory
	viper.AddConfigPath("$HOME")      // Look in the home directory
}

// resolveConfig merges file, env and flags and validates the result into cfg.
func resolveConfig(args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	input.SkillArgs = args

	// 4. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	if _, err := contract.InitLogger(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid log level '%s': %w", cfg.LogLevel, err)
	}
	return nil
}

// sharedSetup unmarshals config, runs validation and builds the engine.
func sharedSetup(ctx context.Context, _ *cobra.Command, args []string) error {
	if err := resolveConfig(args); err != nil {
		return err
	}

	// 5. Initialize persistence layer with validated config
	if err := iocache.InitStores(cfg.CacheBackend, cfg.CacheDBConnect, cfg.AnalysisBackend, cfg.AnalysisDBConnect, cfg.CacheTTL); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	if cacheManager == nil {
		cacheManager = iocache.Manager
	}

	// 6. Connect the data source and forecaster
	return buildEngine(ctx)
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// openSource reads --data-dir into memory when given, and the configured database otherwise.
func openSource(ctx context.Context) (contract.DataSource, error) {
	if cfg.DataDir != "" {
		d, err := source.LoadDir(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return source.NewMemorySource(d)
	}
	src, err := source.Open(cfg.SourceBackend, cfg.SourceDBConnect)
	if err != nil {
		return nil, err
	}
	if _, err := src.Version(ctx); err != nil {
		_ = src.Close()
		return nil, err
	}
	return src, nil
}

// buildEngine wires the data source, stores and forecaster into the engine.
func buildEngine(ctx context.Context) error {
	src, err := openSource(ctx)
	if err != nil {
		return fmt.Errorf("failed to open data source: %w", err)
	}
	closers = append(closers, src)

	adapter, forecastCloser, err := forecast.FromConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize forecaster: %w", err)
	}
	closers = append(closers, forecastCloser)

	engine = core.NewEngineFromConfig(cfg, src, cacheManager, adapter)
	return nil
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	setConfigPaths()

	// Load config file if present
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// runExecutor adapts an executor to Cobra's Run.
func runExecutor(what string, executeFunc core.ExecutorFunc) func(*cobra.Command, []string) {
	return func(_ *cobra.Command, _ []string) {
		if err := executeFunc(rootCtx, cfg, engine); err != nil {
			contract.LogFatal("Cannot run "+what, err)
		}
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetCacheManager sets the global cache manager.
func SetCacheManager(mgr contract.CacheManager) {
	cacheManager = mgr
}

// Close releases the data source, forecaster and persistence stores.
func Close() {
	for _, c := range closers {
		if err := c.Close(); err != nil {
			contract.LogWarn("Failed to close resource", err)
		}
	}
	closers = nil
	iocache.CloseCaching()
	_ = contract.Logger().Sync()
}
