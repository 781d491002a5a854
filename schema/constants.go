package schema

// Custom string types for type safety.
type (
	// BreakdownKey represents keys used in hotness breakdowns.
	BreakdownKey string

	// OutputMode represents the format of the output.
	OutputMode string

	// SortKey represents the ranking key for top skills.
	SortKey string

	// WorkType represents the work arrangement of a posting.
	WorkType string

	// PayPeriod represents the period a salary value is quoted for.
	PayPeriod string

	// DatabaseBackend represents the database backend for sources, caching and analysis.
	DatabaseBackend string

	// ForecastBackend represents the external forecasting routine.
	ForecastBackend string

	// TrendLabel represents the coarse trend bucket of a trending skill.
	TrendLabel string
)

// Breakdown keys used in the hotness logic.
const (
	BreakdownVolume        BreakdownKey = "volume"
	BreakdownGrowth        BreakdownKey = "growth"
	BreakdownSalaryPremium BreakdownKey = "salary_premium"
	BreakdownDemandGap     BreakdownKey = "demand_gap"
)

// HotnessWeights are fixed and must not be overridden.
var HotnessWeights = map[BreakdownKey]float64{
	BreakdownVolume:        0.3,
	BreakdownGrowth:        0.3,
	BreakdownSalaryPremium: 0.2,
	BreakdownDemandGap:     0.2,
}

// HotnessKeys fixes the order used whenever breakdowns are printed.
var HotnessKeys = []BreakdownKey{BreakdownVolume, BreakdownGrowth, BreakdownSalaryPremium, BreakdownDemandGap}

// All output modes supported.
const (
	CSVOut  OutputMode = "csv"
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
	YAMLOut OutputMode = "yaml"
)

// All sort keys supported for top skills.
const (
	SortByCount   SortKey = "count" // default
	SortByHotness SortKey = "hotness"
	SortByGrowth  SortKey = "growth"
)

// All work arrangements supported.
const (
	RemoteWork  WorkType = "remote"
	HybridWork  WorkType = "hybrid"
	OnsiteWork  WorkType = "onsite"
	UnknownWork WorkType = ""
)

// All pay periods supported.
const (
	HourlyPay  PayPeriod = "HOURLY"
	WeeklyPay  PayPeriod = "WEEKLY"
	MonthlyPay PayPeriod = "MONTHLY"
	YearlyPay  PayPeriod = "YEARLY"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	ClickHouseBackend DatabaseBackend = "clickhouse" // source only
	RedisBackend      DatabaseBackend = "redis"      // cache only
	MemoryBackend     DatabaseBackend = "memory"     // cache only
	NoneBackend       DatabaseBackend = "none"
)

// All forecast backends supported.
const (
	LinearForecast ForecastBackend = "linear" // default
	ExecForecast   ForecastBackend = "exec"
	NATSForecast   ForecastBackend = "nats"
	NoneForecast   ForecastBackend = "none"
)

// Trend labels for trending skills.
const (
	TrendHot    TrendLabel = "HOT"
	TrendUp     TrendLabel = "UP"
	TrendRising TrendLabel = "RISING"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
	YAMLOut: {},
}

// ValidSortKeys lists all valid sort keys.
var ValidSortKeys = map[SortKey]struct{}{
	SortByCount:   {},
	SortByHotness: {},
	SortByGrowth:  {},
}

// ValidSourceBackends lists all valid tabular source backends.
var ValidSourceBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	ClickHouseBackend: {},
}

// ValidCacheBackends lists all valid result cache backends.
var ValidCacheBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	RedisBackend:      {},
	MemoryBackend:     {},
	NoneBackend:       {},
}

// ValidAnalysisBackends lists all valid analysis tracking backends.
var ValidAnalysisBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidForecastBackends lists all valid forecast backends.
var ValidForecastBackends = map[ForecastBackend]struct{}{
	LinearForecast: {},
	ExecForecast:   {},
	NATSForecast:   {},
	NoneForecast:   {},
}
