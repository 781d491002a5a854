// Package core has the query engine that turns posting data into labor-market metrics.
package core

import (
	"context"
	"time"

	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/internal/forecast"
	"github.com/huangsam/skillspot/schema"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Engine answers analytical queries over a data source.
// It is safe for concurrent use; every operation is read-only and idempotent.
type Engine struct {
	source        contract.DataSource
	cache         contract.CacheStore
	cacheTTL      time.Duration
	analysis      contract.AnalysisStore
	forecaster    *forecast.Adapter
	historyMonths int
	logger        *zap.Logger
	now           func() time.Time
	group         singleflight.Group
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithCache enables result caching. Entries older than ttl are recomputed; a ttl <= 0 never expires.
func WithCache(store contract.CacheStore, ttl time.Duration) EngineOption {
	return func(e *Engine) {
		e.cache = store
		e.cacheTTL = ttl
	}
}

// WithForecaster sets the adapter used by Forecast.
func WithForecaster(adapter *forecast.Adapter) EngineOption {
	return func(e *Engine) {
		e.forecaster = adapter
	}
}

// WithForecastHistory sets how many trailing months of history are sent to the forecaster.
func WithForecastHistory(months int) EngineOption {
	return func(e *Engine) {
		if months > 0 {
			e.historyMonths = months
		}
	}
}

// WithAnalysisStore records scoring runs in the store.
func WithAnalysisStore(store contract.AnalysisStore) EngineOption {
	return func(e *Engine) {
		e.analysis = store
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock overrides the time source used for cache expiry and run tracking.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine builds an engine over the source.
func NewEngine(source contract.DataSource, opts ...EngineOption) *Engine {
	e := &Engine{
		source:        source,
		historyMonths: contract.DefaultForecastHistory,
		logger:        contract.Logger(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Invalidate drops every cached result. It is called when the dataset is reloaded.
func (e *Engine) Invalidate(_ context.Context) error {
	if e.cache == nil {
		return nil
	}
	if err := e.cache.Clear(); err != nil {
		return err
	}
	e.logger.Info("result cache invalidated")
	return nil
}

// SourceStatus reports the status of the underlying data source.
func (e *Engine) SourceStatus(ctx context.Context) (schema.SourceStatus, error) {
	status, err := e.source.Status(ctx)
	if err != nil {
		return schema.SourceStatus{}, schema.SourceUnavailable(err)
	}
	return status, nil
}

// dataset reads a full snapshot from the source.
func (e *Engine) dataset(ctx context.Context, version string) (*schema.Dataset, error) {
	jobs, err := e.source.Jobs(ctx, schema.JobFilter{})
	if err != nil {
		return nil, schema.SourceUnavailable(err)
	}
	companies, err := e.source.Companies(ctx)
	if err != nil {
		return nil, schema.SourceUnavailable(err)
	}
	skills, err := e.source.Skills(ctx)
	if err != nil {
		return nil, schema.SourceUnavailable(err)
	}
	gaps, err := e.source.DemandGaps(ctx)
	if err != nil {
		return nil, schema.SourceUnavailable(err)
	}
	return &schema.Dataset{
		Version:    version,
		Jobs:       jobs,
		Companies:  companies,
		Skills:     skills,
		DemandGaps: gaps,
	}, nil
}

// jobs reads the postings matching the filter.
func (e *Engine) jobs(ctx context.Context, filter schema.JobFilter) ([]schema.JobPosting, error) {
	jobs, err := e.source.Jobs(ctx, filter)
	if err != nil {
		return nil, schema.SourceUnavailable(err)
	}
	return jobs, nil
}

// canonicalSkill finds the stored spelling of a case-insensitive skill query among the postings.
// It returns the normalized key when no posting lists the skill.
func canonicalSkill(jobs []schema.JobPosting, query string) (string, bool) {
	key := schema.SkillKey(query)
	for _, j := range jobs {
		for _, s := range j.Skills {
			if schema.SkillKey(s) == key {
				return s, true
			}
		}
	}
	return key, false
}
