// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteTopSkills prints ranked skills using the configured output format.
func (ow *OutWriter) WriteTopSkills(result schema.TopSkillsResult, cfg *contract.Config, duration time.Duration) error {
	return writeResult(cfg, result, func(f formatter) resultTable {
		return topSkillsTable(result, cfg, f, duration)
	})
}

// WriteTrending prints trending skills using the configured output format.
func (ow *OutWriter) WriteTrending(result schema.TrendingResult, cfg *contract.Config, duration time.Duration) error {
	return writeResult(cfg, result, func(f formatter) resultTable {
		return trendingTable(result, f, duration)
	})
}

// WriteComparison prints a skill comparison using the configured output format.
func (ow *OutWriter) WriteComparison(result schema.SkillComparison, cfg *contract.Config, duration time.Duration) error {
	return writeResult(cfg, result, func(f formatter) resultTable {
		return comparisonTable(result, f, duration)
	})
}

// WriteSalary prints a salary distribution using the configured output format.
func (ow *OutWriter) WriteSalary(result schema.SalaryDistribution, cfg *contract.Config, duration time.Duration) error {
	return writeResult(cfg, result, func(f formatter) resultTable {
		return salaryTable(result, f, duration)
	})
}

// WriteCoOccurrence prints co-occurring skills using the configured output format.
func (ow *OutWriter) WriteCoOccurrence(result schema.CoOccurrenceResult, cfg *contract.Config, duration time.Duration) error {
	return writeResult(cfg, result, func(f formatter) resultTable {
		return coOccurrenceTable(result, f, duration)
	})
}

// WriteNetwork prints the skill network edges using the configured output format.
func (ow *OutWriter) WriteNetwork(result schema.SkillNetwork, cfg *contract.Config, duration time.Duration) error {
	return writeResult(cfg, result, func(f formatter) resultTable {
		return networkTable(result, f, duration)
	})
}

// WriteOverview prints the market overview using the configured output format.
func (ow *OutWriter) WriteOverview(result schema.MarketOverview, cfg *contract.Config, duration time.Duration) error {
	return writeResult(cfg, result, func(f formatter) resultTable {
		return overviewTable(result, f, duration)
	})
}

// WriteLocations prints location insights using the configured output format.
func (ow *OutWriter) WriteLocations(result schema.LocationInsights, cfg *contract.Config, duration time.Duration) error {
	return writeResult(cfg, result, func(f formatter) resultTable {
		return locationsTable(result, f, duration)
	})
}

// WriteCompanies prints company insights using the configured output format.
func (ow *OutWriter) WriteCompanies(result schema.CompanyInsights, cfg *contract.Config, duration time.Duration) error {
	return writeResult(cfg, result, func(f formatter) resultTable {
		return companiesTable(result, f, duration)
	})
}

// WriteForecast prints a forecast using the configured output format.
func (ow *OutWriter) WriteForecast(result schema.ForecastResult, cfg *contract.Config, duration time.Duration) error {
	return writeResult(cfg, result, func(f formatter) resultTable {
		return forecastTable(result, f, duration)
	})
}

// WriteOccupations prints ranked occupations using the configured output format.
func (ow *OutWriter) WriteOccupations(result schema.TopOccupationsResult, cfg *contract.Config, duration time.Duration) error {
	return writeResult(cfg, result, func(f formatter) resultTable {
		return occupationsTable(result, f, duration)
	})
}

// WriteBatchForecast prints the forecasts of several skills using the configured output format.
func (ow *OutWriter) WriteBatchForecast(result schema.BatchForecastResult, cfg *contract.Config, duration time.Duration) error {
	return writeResult(cfg, result, func(f formatter) resultTable {
		return batchForecastTable(result, f, duration)
	})
}

// WriteSalaryTrend prints a salary trend using the configured output format.
func (ow *OutWriter) WriteSalaryTrend(result schema.SalaryTrendResult, cfg *contract.Config, duration time.Duration) error {
	return writeResult(cfg, result, func(f formatter) resultTable {
		return salaryTrendTable(result, f, duration)
	})
}

// WriteBenefits prints the benefits analysis using the configured output format.
func (ow *OutWriter) WriteBenefits(result schema.BenefitsAnalysis, cfg *contract.Config, duration time.Duration) error {
	return writeResult(cfg, result, func(f formatter) resultTable {
		return benefitsTable(result, f, duration)
	})
}

// WriteMetrics prints the hotness definitions using the configured output format.
func (ow *OutWriter) WriteMetrics(cfg *contract.Config) error {
	model := buildMetricsRenderModel()
	return writeResult(cfg, model, func(f formatter) resultTable {
		return metricsTable(model, f)
	})
}
