// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/skillspot/schema"
)

// DataSource defines read access to the posting dataset.
// This allows the engine to be tested without a real database.
type DataSource interface {
	// Version returns an identifier that changes whenever the underlying data is reloaded.
	Version(ctx context.Context) (string, error)

	// Jobs returns the postings matching the filter. A zero filter returns every posting.
	Jobs(ctx context.Context, filter schema.JobFilter) ([]schema.JobPosting, error)

	// Companies returns every company with its industries and employee history.
	Companies(ctx context.Context) ([]schema.Company, error)

	// Skills returns the skill catalog.
	Skills(ctx context.Context) ([]schema.Skill, error)

	// DemandGaps returns externally supplied demand gap values keyed by skill name.
	DemandGaps(ctx context.Context) (map[string]float64, error)

	// Status reports row counts and the current version.
	Status(ctx context.Context) (schema.SourceStatus, error)

	// Close releases the underlying connection.
	Close() error
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetResultStore() CacheStore
	GetAnalysisStore() AnalysisStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	Clear() error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// AnalysisStore defines the interface for tracking analysis runs and storing skill scores.
type AnalysisStore interface {
	// BeginAnalysis creates a new analysis run and returns its unique ID
	BeginAnalysis(startTime time.Time, dataVersion string, configParams map[string]any) (int64, error)

	// EndAnalysis updates the analysis run with completion data
	EndAnalysis(analysisID int64, endTime time.Time, totalSkills int) error

	// RecordSkillScore stores the signals and hotness of one skill
	RecordSkillScore(analysisID int64, skill string, score schema.SkillScore) error

	// GetStatus returns status information about the analysis store
	GetStatus() (schema.AnalysisStatus, error)

	// GetAllAnalysisRuns returns every recorded run, oldest first
	GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error)

	// GetAllSkillScores returns every recorded skill score
	GetAllSkillScores() ([]schema.SkillScoreRecord, error)

	// Close closes the underlying connection
	Close() error
}

// Forecaster predicts future monthly posting counts from a history series.
// Implementations live outside the engine; the adapter in internal/forecast enforces
// the history minimum, timeout and error mapping around them.
type Forecaster interface {
	Forecast(ctx context.Context, history []schema.SeriesPoint, periods int) (schema.ForecastOutput, error)
}
