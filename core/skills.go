package core

import (
	"context"
	"time"

	"github.com/huangsam/skillspot/core/agg"
	"github.com/huangsam/skillspot/core/algo"
	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/schema"
)

// TopSkills ranks every skill with at least one posting by sortKey, descending, with ties broken
// by name. Hotness is scored over that whole cohort. A limit <= 0 returns every skill.
func (e *Engine) TopSkills(ctx context.Context, limit int, sortKey schema.SortKey) (schema.TopSkillsResult, error) {
	if sortKey == "" {
		sortKey = schema.SortByCount
	}
	if _, ok := schema.ValidSortKeys[sortKey]; !ok {
		return schema.TopSkillsResult{}, schema.InvalidInput("invalid sort key %q. must be count, hotness, growth", sortKey)
	}
	if limit < 0 {
		limit = 0
	}

	return cachedCompute(ctx, e, "top_skills", []any{limit, string(sortKey)}, func(ctx context.Context, version string) (schema.TopSkillsResult, error) {
		d, err := e.dataset(ctx, version)
		if err != nil {
			return schema.TopSkillsResult{}, err
		}

		var months []string
		if first, last, ok := agg.DatasetSpan(d.Jobs); ok {
			months = agg.MonthsBetween(first, last)
		}
		aggs := agg.BuildSkillAggregates(d, months)
		stats := scoreAggregates(aggs)
		ranked := algo.RankSkills(stats, sortKey, limit)

		e.recordAnalysis("top_skills", version, map[string]any{
			"limit":    limit,
			"sort_key": string(sortKey),
		}, statScores(ranked))

		return schema.TopSkillsResult{
			SortKey:     sortKey,
			CohortSize:  len(aggs),
			TotalJobs:   len(d.Jobs),
			DataVersion: version,
			Skills:      ranked,
		}, nil
	})
}

// scoreAggregates scores the aggregates as one hotness cohort.
func scoreAggregates(aggs map[string]*agg.SkillAggregate) []schema.SkillStat {
	scores := algo.ScoreCohort(agg.Signals(aggs))
	stats := make([]schema.SkillStat, 0, len(aggs))
	for name, a := range aggs {
		score := scores[name]
		stat := schema.SkillStat{
			Skill:         name,
			Count:         a.Count,
			GrowthRate:    a.Growth,
			GrowthDefined: a.GrowthDefined,
			SalaryPremium: a.SalaryPremium,
			DemandGap:     a.DemandGap,
			Hotness:       score.Score,
			Label:         contract.GetPlainLabel(score.Score),
			Breakdown:     score.Breakdown,
		}
		if len(a.Salaries) > 0 {
			stat.MedianSalary, _ = algo.Median(a.Salaries)
		}
		stats = append(stats, stat)
	}
	return stats
}

// TrendingSkills reports skills whose growth over the trailing window exceeds the threshold.
// The window ends at the month of the latest posting.
func (e *Engine) TrendingSkills(ctx context.Context, windowMonths int, growthThreshold float64) (schema.TrendingResult, error) {
	return e.TrendingSkillsAsOf(ctx, windowMonths, growthThreshold, time.Time{})
}

// TrendingSkillsAsOf is TrendingSkills with an explicit last month. A zero asOf uses the latest posting.
func (e *Engine) TrendingSkillsAsOf(ctx context.Context, windowMonths int, growthThreshold float64, asOf time.Time) (schema.TrendingResult, error) {
	if windowMonths < 2 {
		return schema.TrendingResult{}, schema.InvalidInput("window must be at least 2 months (received %d)", windowMonths)
	}

	params := []any{windowMonths, growthThreshold, asOf}
	return cachedCompute(ctx, e, "trending_skills", params, func(ctx context.Context, version string) (schema.TrendingResult, error) {
		d, err := e.dataset(ctx, version)
		if err != nil {
			return schema.TrendingResult{}, err
		}
		result := schema.TrendingResult{
			WindowMonths:    windowMonths,
			GrowthThreshold: growthThreshold,
			Skills:          []schema.TrendingSkill{},
		}

		end := asOf
		if end.IsZero() {
			_, last, ok := agg.DatasetSpan(d.Jobs)
			if !ok {
				return result, nil
			}
			end = last
		}
		months := agg.MonthWindow(end, windowMonths)
		result.FromMonth, result.ToMonth = months[0], months[len(months)-1]

		// Restrict the cohort to postings inside the window.
		window := schema.JobFilter{
			Since: schema.MonthStart(end).AddDate(0, 1-windowMonths, 0),
			Until: schema.MonthStart(end).AddDate(0, 1, 0),
		}
		inWindow := *d
		inWindow.Jobs = nil
		for _, j := range d.Jobs {
			if !j.PostedAt.IsZero() && window.Matches(j) {
				inWindow.Jobs = append(inWindow.Jobs, j)
			}
		}

		aggs := agg.BuildSkillAggregates(&inWindow, months)
		scores := algo.ScoreCohort(agg.Signals(aggs))
		var tracked []scoredSkill
		for name, a := range aggs {
			if !a.GrowthDefined || a.Growth <= growthThreshold {
				continue
			}
			hotness := scores[name].Score
			result.Skills = append(result.Skills, schema.TrendingSkill{
				Skill:      name,
				Count:      a.Count,
				GrowthRate: a.Growth,
				Hotness:    hotness,
				Trend:      algo.TrendFor(a.Growth),
				Series:     a.Series,
			})
		}
		result.Skills = algo.RankTrending(result.Skills)
		for _, s := range result.Skills {
			a := aggs[s.Skill]
			tracked = append(tracked, scoredSkill{name: s.Skill, score: schema.SkillScore{
				Count:         s.Count,
				GrowthRate:    s.GrowthRate,
				SalaryPremium: a.SalaryPremium,
				DemandGap:     a.DemandGap,
				Hotness:       s.Hotness,
				Label:         string(s.Trend),
			}})
		}

		e.recordAnalysis("trending_skills", version, map[string]any{
			"window_months":    windowMonths,
			"growth_threshold": growthThreshold,
			"from_month":       result.FromMonth,
			"to_month":         result.ToMonth,
		}, tracked)
		return result, nil
	})
}

// CompareSkills puts the given skills side by side. Hotness is scored with exactly the compared
// set as the cohort. Unknown skills are reported with zero values.
func (e *Engine) CompareSkills(ctx context.Context, skills []string) (schema.SkillComparison, error) {
	var names []string
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		key := schema.SkillKey(s)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, s)
	}
	if len(names) == 0 {
		return schema.SkillComparison{}, schema.InvalidInput("at least one skill is required")
	}

	return cachedCompute(ctx, e, "compare_skills", []any{names}, func(ctx context.Context, version string) (schema.SkillComparison, error) {
		d, err := e.dataset(ctx, version)
		if err != nil {
			return schema.SkillComparison{}, err
		}

		var months []string
		if first, last, ok := agg.DatasetSpan(d.Jobs); ok {
			months = agg.MonthsBetween(first, last)
		}
		all := agg.BuildSkillAggregates(d, months)

		byKey := make(map[string]*agg.SkillAggregate, len(all))
		for name, a := range all {
			byKey[schema.SkillKey(name)] = a
		}
		cohort := make(map[string]*agg.SkillAggregate, len(names))
		order := make([]string, len(names))
		for i, name := range names {
			a, ok := byKey[schema.SkillKey(name)]
			if !ok {
				a = &agg.SkillAggregate{Skill: schema.SkillKey(name)}
			}
			order[i] = a.Skill
			cohort[a.Skill] = a
		}

		stats := scoreAggregates(cohort)
		bySkill := make(map[string]schema.SkillStat, len(stats))
		for _, s := range stats {
			bySkill[s.Skill] = s
		}
		result := schema.SkillComparison{Skills: make([]schema.SkillStat, len(order))}
		for i, name := range order {
			s := bySkill[name]
			s.Rank = i + 1
			result.Skills[i] = s
		}

		e.recordAnalysis("compare_skills", version, map[string]any{"skills": order}, statScores(result.Skills))
		return result, nil
	})
}
