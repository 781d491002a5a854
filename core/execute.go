package core

import (
	"context"
	"time"

	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/internal/forecast"
	"github.com/huangsam/skillspot/internal/outwriter"
	"github.com/huangsam/skillspot/schema"
)

// ExecutorFunc defines the function signature for executing the query commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, e *Engine) error

// NewEngineFromConfig wires an engine to the stores held by the manager.
// A nil manager or store disables caching or run tracking.
func NewEngineFromConfig(cfg *contract.Config, source contract.DataSource, mgr contract.CacheManager, adapter *forecast.Adapter) *Engine {
	opts := []EngineOption{
		WithLogger(contract.Logger()),
		WithForecastHistory(cfg.HistoryMonths),
	}
	if mgr != nil {
		if store := mgr.GetResultStore(); store != nil && cfg.CacheBackend != schema.NoneBackend {
			opts = append(opts, WithCache(store, cfg.CacheTTL))
		}
		if store := mgr.GetAnalysisStore(); store != nil {
			opts = append(opts, WithAnalysisStore(store))
		}
	}
	if adapter != nil {
		opts = append(opts, WithForecaster(adapter))
	}
	return NewEngine(source, opts...)
}

// querySkill is the --skill flag, falling back to the first positional argument.
func querySkill(cfg *contract.Config) string {
	if cfg.Skill != "" {
		return cfg.Skill
	}
	if len(cfg.CompareSkills) > 0 {
		return cfg.CompareSkills[0]
	}
	return ""
}

// ExecuteTopSkills ranks skills and prints them.
func ExecuteTopSkills(ctx context.Context, cfg *contract.Config, e *Engine) error {
	start := time.Now()
	result, err := e.TopSkills(ctx, cfg.ResultLimit, cfg.SortKey)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteTopSkills(result, cfg, time.Since(start))
}

// ExecuteTrending reports trending skills and prints them.
func ExecuteTrending(ctx context.Context, cfg *contract.Config, e *Engine) error {
	start := time.Now()
	result, err := e.TrendingSkills(ctx, cfg.WindowMonths, cfg.GrowthThreshold)
	if err != nil {
		return err
	}
	if len(result.Skills) > cfg.ResultLimit {
		result.Skills = result.Skills[:cfg.ResultLimit]
	}
	return outwriter.NewOutWriter().WriteTrending(result, cfg, time.Since(start))
}

// ExecuteSalary describes the salary distribution for the skill and location flags.
func ExecuteSalary(ctx context.Context, cfg *contract.Config, e *Engine) error {
	start := time.Now()
	result, err := e.SalaryDistribution(ctx, schema.SalaryFilter{Skill: querySkill(cfg), Location: cfg.Location})
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSalary(result, cfg, time.Since(start))
}

// ExecuteCoOccurrence lists the skills seen with the requested skill.
func ExecuteCoOccurrence(ctx context.Context, cfg *contract.Config, e *Engine) error {
	start := time.Now()
	result, err := e.CoOccurrence(ctx, querySkill(cfg), cfg.MinConnections)
	if err != nil {
		return err
	}
	if len(result.Related) > cfg.ResultLimit {
		result.Related = result.Related[:cfg.ResultLimit]
	}
	return outwriter.NewOutWriter().WriteCoOccurrence(result, cfg, time.Since(start))
}

// ExecuteNetwork builds and prints the skill network.
func ExecuteNetwork(ctx context.Context, cfg *contract.Config, e *Engine) error {
	start := time.Now()
	result, err := e.SkillNetwork(ctx, cfg.MinCount, cfg.MaxNodes)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteNetwork(result, cfg, time.Since(start))
}

// ExecuteOverview prints the market overview.
func ExecuteOverview(ctx context.Context, cfg *contract.Config, e *Engine) error {
	start := time.Now()
	result, err := e.MarketOverview(ctx)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteOverview(result, cfg, time.Since(start))
}

// ExecuteLocations prints the top locations.
func ExecuteLocations(ctx context.Context, cfg *contract.Config, e *Engine) error {
	start := time.Now()
	result, err := e.LocationInsights(ctx, cfg.ResultLimit)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteLocations(result, cfg, time.Since(start))
}

// ExecuteCompanies prints the top hiring companies.
func ExecuteCompanies(ctx context.Context, cfg *contract.Config, e *Engine) error {
	start := time.Now()
	result, err := e.CompanyInsights(ctx, cfg.ResultLimit)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteCompanies(result, cfg, time.Since(start))
}

// ExecuteCompare compares the skills given as positional arguments.
func ExecuteCompare(ctx context.Context, cfg *contract.Config, e *Engine) error {
	start := time.Now()
	result, err := e.CompareSkills(ctx, cfg.CompareSkills)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteComparison(result, cfg, time.Since(start))
}

// ExecuteForecast forecasts the demand of one skill.
func ExecuteForecast(ctx context.Context, cfg *contract.Config, e *Engine) error {
	start := time.Now()
	result, err := e.Forecast(ctx, querySkill(cfg), cfg.Periods)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteForecast(result, cfg, time.Since(start))
}

// ExecuteOccupations ranks job titles and prints them.
func ExecuteOccupations(ctx context.Context, cfg *contract.Config, e *Engine) error {
	start := time.Now()
	result, err := e.TopOccupations(ctx, cfg.ResultLimit, cfg.SortKey)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteOccupations(result, cfg, time.Since(start))
}

// ExecuteForecastTop forecasts the demand of the busiest skills. The result limit caps the batch.
func ExecuteForecastTop(ctx context.Context, cfg *contract.Config, e *Engine) error {
	start := time.Now()
	result, err := e.ForecastTopSkills(ctx, min(cfg.ResultLimit, contract.MaxBatchForecast), cfg.Periods)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteBatchForecast(result, cfg, time.Since(start))
}

// ExecuteSalaryTrend forecasts the median salary of one skill.
func ExecuteSalaryTrend(ctx context.Context, cfg *contract.Config, e *Engine) error {
	start := time.Now()
	result, err := e.SalaryTrend(ctx, querySkill(cfg), cfg.Periods)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSalaryTrend(result, cfg, time.Since(start))
}

// ExecuteBenefits prints the most common benefits.
func ExecuteBenefits(ctx context.Context, cfg *contract.Config, e *Engine) error {
	start := time.Now()
	result, err := e.BenefitsAnalysis(ctx, cfg.ResultLimit)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteBenefits(result, cfg, time.Since(start))
}

// ExecuteMetrics displays the hotness definitions. It does not read any data.
func ExecuteMetrics(_ context.Context, cfg *contract.Config, _ *Engine) error {
	return outwriter.NewOutWriter().WriteMetrics(cfg)
}
