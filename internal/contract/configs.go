package contract

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/skillspot/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit      = 20
	MaxResultLimit          = 1000
	DefaultPrecision        = 1
	MaxPrecision            = 4
	DefaultWindowMonths     = 6
	DefaultGrowthThreshold  = 10.0
	DefaultForecastPeriods  = 6
	MaxForecastPeriods      = 24
	DefaultForecastHistory  = 12
	DefaultBatchForecast    = 10
	MaxBatchForecast        = 20
	BatchForecastWorkers    = 4
	DefaultMaxNodes         = 20
	DefaultCacheTTL         = time.Hour
	DefaultForecastTimeout  = 10 * time.Second
	DefaultReloadSubject    = "skillspot.dataset.reloaded"
	DefaultForecastSubject  = "skillspot.forecast"
	DefaultHistogramBuckets = 10
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	ResultLimit int
	SortKey     schema.SortKey
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool
	LogLevel    string

	// Query parameters shared by several commands
	WindowMonths    int
	GrowthThreshold float64
	Skill           string
	Location        string
	MinConnections  int
	MinCount        int
	MaxNodes        int
	Periods         int
	HistoryMonths   int
	CompareSkills   []string
	DataDir         string

	SourceBackend   schema.DatabaseBackend
	SourceDBConnect string // Please use env var as this is plaintext

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration

	AnalysisBackend   schema.DatabaseBackend
	AnalysisDBConnect string // Please use env var as this is plaintext

	ForecastBackend schema.ForecastBackend
	ForecastCommand string
	ForecastSubject string
	ForecastTimeout time.Duration

	NATSURL       string
	ReloadSubject string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Limit             int    `mapstructure:"limit"`
	Sort              string `mapstructure:"sort"`
	Output            string `mapstructure:"output"`
	OutputFile        string `mapstructure:"output-file"`
	Precision         int    `mapstructure:"precision"`
	Color             string `mapstructure:"color"`
	Width             int    `mapstructure:"width"`
	LogLevel          string `mapstructure:"log-level"`
	SourceBackend     string `mapstructure:"source-backend"`
	SourceDBConnect   string `mapstructure:"source-db-connect"`
	CacheBackend      string `mapstructure:"cache-backend"`
	CacheDBConnect    string `mapstructure:"cache-db-connect"`
	CacheTTL          string `mapstructure:"cache-ttl"`
	AnalysisBackend   string `mapstructure:"analysis-backend"`
	AnalysisDBConnect string `mapstructure:"analysis-db-connect"`
	ForecastBackend   string `mapstructure:"forecast-backend"`
	ForecastCommand   string `mapstructure:"forecast-command"`
	ForecastSubject   string `mapstructure:"forecast-subject"`
	ForecastTimeout   string `mapstructure:"forecast-timeout"`
	NATSURL           string `mapstructure:"nats-url"`
	ReloadSubject     string `mapstructure:"reload-subject"`

	// --- Fields from subcommand flags ---
	Window          int     `mapstructure:"window"`
	GrowthThreshold float64 `mapstructure:"min-growth"`
	Skill           string  `mapstructure:"skill"`
	Location        string  `mapstructure:"location"`
	MinConnections  int     `mapstructure:"min-connections"`
	MinCount        int     `mapstructure:"min-count"`
	MaxNodes        int     `mapstructure:"max-nodes"`
	Periods         int     `mapstructure:"periods"`
	History         int     `mapstructure:"history"`
	DataDir         string  `mapstructure:"data-dir"`

	// This is set manually from positional args, so no tag
	SkillArgs []string
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.CompareSkills != nil {
		clone.CompareSkills = make([]string, len(c.CompareSkills))
		copy(clone.CompareSkills, c.CompareSkills)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processQueryInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processForecastConfig(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for the networked backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.MemoryBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	case schema.ClickHouseBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.HasPrefix(connStr, "clickhouse://") {
			return fmt.Errorf("ClickHouse connection string must start with 'clickhouse://'")
		}
	case schema.RedisBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.HasPrefix(connStr, "redis://") && !strings.HasPrefix(connStr, "rediss://") {
			return fmt.Errorf("Redis connection string must start with 'redis://' or 'rediss://'")
		}
	}
	return nil
}

// validateBackendConfigs validates source, cache and analysis backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Source Backend Validation ---
	cfg.SourceBackend = schema.DatabaseBackend(strings.ToLower(input.SourceBackend))
	if cfg.SourceBackend == "" {
		cfg.SourceBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidSourceBackends[cfg.SourceBackend]; !ok {
		return fmt.Errorf("invalid source backend '%s'. must be sqlite, mysql, postgresql, clickhouse", input.SourceBackend)
	}
	cfg.SourceDBConnect = input.SourceDBConnect
	if err := ValidateDatabaseConnectionString(cfg.SourceBackend, cfg.SourceDBConnect); err != nil {
		return fmt.Errorf("source: %w", err)
	}

	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidCacheBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, redis, memory, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache: %w", err)
	}

	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		ttl, err := time.ParseDuration(input.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid cache-ttl '%s': %w", input.CacheTTL, err)
		}
		if ttl <= 0 {
			return fmt.Errorf("cache-ttl must be positive (received %s)", ttl)
		}
		cfg.CacheTTL = ttl
	}

	// --- Analysis Backend Validation ---
	cfg.AnalysisBackend = schema.DatabaseBackend(strings.ToLower(input.AnalysisBackend))
	if cfg.AnalysisBackend != "" {
		if _, ok := schema.ValidAnalysisBackends[cfg.AnalysisBackend]; !ok {
			return fmt.Errorf("invalid analysis backend '%s'. must be sqlite, mysql, postgresql, none", input.AnalysisBackend)
		}
		cfg.AnalysisDBConnect = input.AnalysisDBConnect
		if err := ValidateDatabaseConnectionString(cfg.AnalysisBackend, cfg.AnalysisDBConnect); err != nil {
			return fmt.Errorf("analysis: %w", err)
		}
	}

	// Each SQLite store needs its own file; the networked backends share databases by table prefix.
	paths := map[string]string{}
	for _, store := range []struct {
		name    string
		backend schema.DatabaseBackend
		connect string
		dflt    string
	}{
		{"source", cfg.SourceBackend, cfg.SourceDBConnect, GetSourceDBFilePath()},
		{"cache", cfg.CacheBackend, cfg.CacheDBConnect, GetCacheDBFilePath()},
		{"analysis", cfg.AnalysisBackend, cfg.AnalysisDBConnect, GetAnalysisDBFilePath()},
	} {
		if store.backend != schema.SQLiteBackend {
			continue
		}
		path := store.connect
		if path == "" {
			path = store.dflt
		}
		path = filepath.Clean(path)
		if other, ok := paths[path]; ok {
			return fmt.Errorf("%s and %s storage must use different SQLite database files. Both resolve to %q", other, store.name, path)
		}
		paths[path] = store.name
	}

	return nil
}

// validateSimpleInputs processes and validates the output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.LogLevel = strings.ToLower(input.LogLevel)

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Sort Key Validation ---
	cfg.SortKey = schema.SortKey(strings.ToLower(input.Sort))
	if cfg.SortKey == "" {
		cfg.SortKey = schema.SortByCount
	}
	if _, ok := schema.ValidSortKeys[cfg.SortKey]; !ok {
		return fmt.Errorf("invalid sort key '%s'. must be count, hotness, growth", input.Sort)
	}

	// --- 3. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, yaml", cfg.Output)
	}

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}

	return nil
}

// processQueryInputs handles the parameters of the individual query commands.
// Zero values fall back to the defaults so that commands can omit flags they do not use.
func processQueryInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.WindowMonths = input.Window
	if cfg.WindowMonths == 0 {
		cfg.WindowMonths = DefaultWindowMonths
	}
	if cfg.WindowMonths < 2 {
		return fmt.Errorf("window must be at least 2 months (received %d)", input.Window)
	}
	cfg.GrowthThreshold = input.GrowthThreshold

	cfg.Skill = strings.TrimSpace(input.Skill)
	cfg.Location = strings.TrimSpace(input.Location)

	if input.MinConnections < 0 || input.MinCount < 0 {
		return fmt.Errorf("minimum counts cannot be negative")
	}
	cfg.MinConnections = input.MinConnections
	cfg.MinCount = input.MinCount

	cfg.MaxNodes = input.MaxNodes
	if cfg.MaxNodes == 0 {
		cfg.MaxNodes = DefaultMaxNodes
	}
	if cfg.MaxNodes < 1 {
		return fmt.Errorf("max-nodes must be at least 1 (received %d)", input.MaxNodes)
	}

	cfg.Periods = input.Periods
	if cfg.Periods == 0 {
		cfg.Periods = DefaultForecastPeriods
	}
	if cfg.Periods < 1 || cfg.Periods > MaxForecastPeriods {
		return fmt.Errorf("periods must be between 1 and %d (received %d)", MaxForecastPeriods, input.Periods)
	}

	cfg.HistoryMonths = input.History
	if cfg.HistoryMonths == 0 {
		cfg.HistoryMonths = DefaultForecastHistory
	}
	if cfg.HistoryMonths < 1 {
		return fmt.Errorf("history must be at least 1 month (received %d)", input.History)
	}

	cfg.CompareSkills = nil
	for _, s := range input.SkillArgs {
		for part := range strings.SplitSeq(s, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				cfg.CompareSkills = append(cfg.CompareSkills, trimmed)
			}
		}
	}
	cfg.DataDir = strings.TrimSpace(input.DataDir)
	return nil
}

// processForecastConfig handles the forecast backend and the NATS settings.
func processForecastConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.ForecastBackend = schema.ForecastBackend(strings.ToLower(input.ForecastBackend))
	if cfg.ForecastBackend == "" {
		cfg.ForecastBackend = schema.LinearForecast
	}
	if _, ok := schema.ValidForecastBackends[cfg.ForecastBackend]; !ok {
		return fmt.Errorf("invalid forecast backend '%s'. must be linear, exec, nats, none", input.ForecastBackend)
	}

	cfg.ForecastCommand = strings.TrimSpace(input.ForecastCommand)
	if cfg.ForecastBackend == schema.ExecForecast && cfg.ForecastCommand == "" {
		return fmt.Errorf("forecast-command is required when using the %s forecast backend", schema.ExecForecast)
	}

	cfg.ForecastSubject = input.ForecastSubject
	if cfg.ForecastSubject == "" {
		cfg.ForecastSubject = DefaultForecastSubject
	}

	cfg.ForecastTimeout = DefaultForecastTimeout
	if input.ForecastTimeout != "" {
		timeout, err := time.ParseDuration(input.ForecastTimeout)
		if err != nil {
			return fmt.Errorf("invalid forecast-timeout '%s': %w", input.ForecastTimeout, err)
		}
		if timeout <= 0 {
			return fmt.Errorf("forecast-timeout must be positive (received %s)", timeout)
		}
		cfg.ForecastTimeout = timeout
	}

	cfg.NATSURL = strings.TrimSpace(input.NATSURL)
	if cfg.ForecastBackend == schema.NATSForecast && cfg.NATSURL == "" {
		return fmt.Errorf("nats-url is required when using the %s forecast backend", schema.NATSForecast)
	}
	cfg.ReloadSubject = input.ReloadSubject
	if cfg.ReloadSubject == "" {
		cfg.ReloadSubject = DefaultReloadSubject
	}
	return nil
}
