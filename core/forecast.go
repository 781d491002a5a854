package core

import (
	"context"
	"errors"
	"math"

	"github.com/huangsam/skillspot/core/agg"
	"github.com/huangsam/skillspot/core/algo"
	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/schema"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// errNoForecaster is wrapped when the engine was built without a forecast adapter.
var errNoForecaster = errors.New("no forecaster configured")

// Forecast predicts a skill's monthly posting counts. The history runs from the skill's first
// posting month to the dataset's latest month, keeping the trailing history window. Results are
// never cached because the forecaster is external.
func (e *Engine) Forecast(ctx context.Context, skill string, periods int) (schema.ForecastResult, error) {
	if schema.SkillKey(skill) == "" {
		return schema.ForecastResult{}, schema.InvalidInput("a skill is required")
	}
	jobs, err := e.jobs(ctx, schema.JobFilter{})
	if err != nil {
		return schema.ForecastResult{}, err
	}
	history, name := e.skillHistory(jobs, skill)
	if e.forecaster == nil {
		return schema.ForecastResult{}, schema.ForecastUnavailable(errNoForecaster)
	}

	result, err := e.forecaster.Forecast(ctx, name, history, periods)
	if err != nil {
		e.logger.Warn("forecast failed", zap.String("skill", name), zap.Int("history", len(history)), zap.Error(err))
		return schema.ForecastResult{}, err
	}
	return result, nil
}

// ForecastTopSkills forecasts the n skills with the most postings, busiest first. A skill the
// forecaster cannot cover is listed under Skipped with the kind of its failure. n <= 0 means
// contract.DefaultBatchForecast.
func (e *Engine) ForecastTopSkills(ctx context.Context, n, periods int) (schema.BatchForecastResult, error) {
	if n <= 0 {
		n = contract.DefaultBatchForecast
	}
	if n > contract.MaxBatchForecast {
		return schema.BatchForecastResult{}, schema.InvalidInput("at most %d skills can be forecast at once, got %d", contract.MaxBatchForecast, n)
	}
	if periods < 1 || periods > contract.MaxForecastPeriods {
		return schema.BatchForecastResult{}, schema.InvalidInput("periods must be between 1 and %d, got %d", contract.MaxForecastPeriods, periods)
	}
	if e.forecaster == nil {
		return schema.BatchForecastResult{}, schema.ForecastUnavailable(errNoForecaster)
	}
	jobs, err := e.jobs(ctx, schema.JobFilter{})
	if err != nil {
		return schema.BatchForecastResult{}, err
	}

	top := algo.RankCounts(agg.CountBySkill(jobs), n)
	results := make([]schema.ForecastResult, len(top))
	failures := make([]error, len(top))
	var g errgroup.Group
	g.SetLimit(contract.BatchForecastWorkers)
	for i, node := range top {
		g.Go(func() error {
			history, name := e.skillHistory(jobs, node.Skill)
			results[i], failures[i] = e.forecaster.Forecast(ctx, name, history, periods)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return schema.BatchForecastResult{}, schema.ForecastUnavailable(err)
	}

	out := schema.BatchForecastResult{Periods: periods, Forecasts: []schema.ForecastResult{}}
	for i, node := range top {
		if failures[i] == nil {
			out.Forecasts = append(out.Forecasts, results[i])
			continue
		}
		kind := schema.KindForecastUnavailable
		var ae *schema.AnalyticsError
		if errors.As(failures[i], &ae) {
			kind = ae.Kind
		}
		e.logger.Debug("batch forecast skipped a skill", zap.String("skill", node.Skill), zap.Error(failures[i]))
		out.Skipped = append(out.Skipped, schema.SkippedForecast{Skill: node.Skill, Kind: kind, Reason: failures[i].Error()})
	}
	return out, nil
}

// SalaryTrend forecasts a skill's monthly median annualized salary. Only months with at least
// one salary observation make up the history. The summary covers every observation of the skill.
func (e *Engine) SalaryTrend(ctx context.Context, skill string, periods int) (schema.SalaryTrendResult, error) {
	if schema.SkillKey(skill) == "" {
		return schema.SalaryTrendResult{}, schema.InvalidInput("a skill is required")
	}
	jobs, err := e.jobs(ctx, schema.JobFilter{})
	if err != nil {
		return schema.SalaryTrendResult{}, err
	}

	name, withSkill, months := e.skillWindow(jobs, skill)
	points := agg.MonthlySalaries(withSkill, name, months)
	series := make([]schema.SeriesPoint, len(points))
	for i, p := range points {
		series[i] = schema.SeriesPoint{Period: p.Period, Count: int(math.Round(p.Median))}
	}
	if e.forecaster == nil {
		return schema.SalaryTrendResult{}, schema.ForecastUnavailable(errNoForecaster)
	}
	predicted, err := e.forecaster.Forecast(ctx, name, series, periods)
	if err != nil {
		e.logger.Warn("salary trend failed", zap.String("skill", name), zap.Int("history", len(series)), zap.Error(err))
		return schema.SalaryTrendResult{}, err
	}

	values := agg.FilterObservations(agg.SalaryObservations(withSkill), name, "")
	result := schema.SalaryTrendResult{
		Skill:        name,
		Observations: len(values),
		Method:       predicted.Method,
		Confidence:   predicted.Confidence,
		History:      points,
		Forecast:     predicted.Forecast,
	}
	result.Mean, _ = algo.Mean(values)
	result.Median, _ = algo.Median(values)
	result.StdDev, _ = algo.StdDev(values)
	return result, nil
}

// skillHistory builds the real monthly count series of one skill.
func (e *Engine) skillHistory(jobs []schema.JobPosting, skill string) ([]schema.SeriesPoint, string) {
	name, withSkill, months := e.skillWindow(jobs, skill)
	if len(months) == 0 {
		return nil, name
	}
	return agg.MonthlySeries(withSkill, name, months), name
}

// skillWindow finds the stored spelling of the skill, the postings listing it and the months
// from its first posting to the dataset's latest month, trimmed to the trailing history window.
func (e *Engine) skillWindow(jobs []schema.JobPosting, skill string) (string, []schema.JobPosting, []string) {
	_, last, ok := agg.DatasetSpan(jobs)
	if !ok {
		return schema.SkillKey(skill), nil, nil
	}
	name, found := canonicalSkill(jobs, skill)
	if !found {
		return name, nil, nil
	}
	var withSkill []schema.JobPosting
	for _, j := range jobs {
		if j.HasSkill(name) {
			withSkill = append(withSkill, j)
		}
	}
	first, _, ok := agg.DatasetSpan(withSkill)
	if !ok {
		return name, withSkill, nil
	}

	months := agg.MonthsBetween(first, last)
	if len(months) > e.historyMonths {
		months = months[len(months)-e.historyMonths:]
	}
	return name, withSkill, months
}
