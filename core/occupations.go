package core

import (
	"context"

	"github.com/huangsam/skillspot/core/agg"
	"github.com/huangsam/skillspot/core/algo"
	"github.com/huangsam/skillspot/schema"
)

// TopOccupations ranks the job titles of active postings the way TopSkills ranks skills.
// Titles are grouped case-insensitively and scored as one hotness cohort. Without external
// gaps the demand gap is each title's share of the busiest title.
func (e *Engine) TopOccupations(ctx context.Context, limit int, sortKey schema.SortKey) (schema.TopOccupationsResult, error) {
	if sortKey == "" {
		sortKey = schema.SortByCount
	}
	if _, ok := schema.ValidSortKeys[sortKey]; !ok {
		return schema.TopOccupationsResult{}, schema.InvalidInput("invalid sort key %q. must be count, hotness, growth", sortKey)
	}
	limit = max(limit, 0)

	return cachedCompute(ctx, e, "top_occupations", []any{limit, string(sortKey)}, func(ctx context.Context, version string) (schema.TopOccupationsResult, error) {
		jobs, err := e.jobs(ctx, schema.JobFilter{})
		if err != nil {
			return schema.TopOccupationsResult{}, err
		}

		active := agg.OccupationJobs(jobs)
		var months []string
		if first, last, ok := agg.DatasetSpan(jobs); ok {
			months = agg.MonthsBetween(first, last)
		}
		aggs := agg.BuildSkillAggregates(&schema.Dataset{Version: version, Jobs: active}, months)
		ranked := algo.RankSkills(scoreAggregates(aggs), sortKey, limit)

		e.recordAnalysis("top_occupations", version, map[string]any{
			"limit":    limit,
			"sort_key": string(sortKey),
		}, statScores(ranked))

		occupations := make([]schema.OccupationStat, len(ranked))
		for i, s := range ranked {
			occupations[i] = schema.OccupationStat{
				Rank:          s.Rank,
				Occupation:    s.Skill,
				Count:         s.Count,
				GrowthRate:    s.GrowthRate,
				GrowthDefined: s.GrowthDefined,
				SalaryPremium: s.SalaryPremium,
				DemandGap:     s.DemandGap,
				MedianSalary:  s.MedianSalary,
				Hotness:       s.Hotness,
				Label:         s.Label,
			}
		}
		return schema.TopOccupationsResult{
			SortKey:     sortKey,
			CohortSize:  len(aggs),
			ActiveJobs:  len(active),
			DataVersion: version,
			Occupations: occupations,
		}, nil
	})
}

// BenefitsAnalysis ranks the benefits offered across all postings. A limit <= 0 keeps every benefit.
func (e *Engine) BenefitsAnalysis(ctx context.Context, limit int) (schema.BenefitsAnalysis, error) {
	limit = max(limit, 0)
	return cachedCompute(ctx, e, "benefits", []any{limit}, func(ctx context.Context, _ string) (schema.BenefitsAnalysis, error) {
		jobs, err := e.jobs(ctx, schema.JobFilter{})
		if err != nil {
			return schema.BenefitsAnalysis{}, err
		}
		return agg.BenefitStats(jobs, limit), nil
	})
}
