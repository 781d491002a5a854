package core

import (
	"context"
	"sort"

	"github.com/huangsam/skillspot/core/agg"
	"github.com/huangsam/skillspot/core/algo"
	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/schema"
	"golang.org/x/sync/errgroup"
)

// SalaryDistribution describes the annualized salaries matching a skill and/or location.
// Fewer than two observations yield a result flagged InsufficientData rather than an error.
func (e *Engine) SalaryDistribution(ctx context.Context, filter schema.SalaryFilter) (schema.SalaryDistribution, error) {
	params := []any{filter.Skill, filter.Location}
	return cachedCompute(ctx, e, "salary_distribution", params, func(ctx context.Context, _ string) (schema.SalaryDistribution, error) {
		jobs, err := e.jobs(ctx, schema.JobFilter{Skill: filter.Skill, Location: filter.Location})
		if err != nil {
			return schema.SalaryDistribution{}, err
		}
		obs := agg.SalaryObservations(jobs)
		values := make([]float64, len(obs))
		for i, o := range obs {
			values[i] = o.Value
		}
		echo := schema.SalaryFilter{Location: schema.SkillKey(filter.Location)}
		if filter.Skill != "" {
			echo.Skill, _ = canonicalSkill(jobs, filter.Skill)
		}
		return describeSalaries(echo, values)
	})
}

func describeSalaries(filter schema.SalaryFilter, values []float64) (schema.SalaryDistribution, error) {
	out := schema.SalaryDistribution{
		Filter:    filter,
		Count:     len(values),
		Histogram: []schema.HistogramBucket{},
	}
	if len(values) < 2 {
		out.InsufficientData = true
		return out, nil
	}

	var err error
	if out.Mean, err = algo.Mean(values); err != nil {
		return out, err
	}
	if out.Median, err = algo.Median(values); err != nil {
		return out, err
	}
	if out.P25, err = algo.Percentile(values, 25); err != nil {
		return out, err
	}
	if out.P75, err = algo.Percentile(values, 75); err != nil {
		return out, err
	}
	if out.Min, out.Max, err = algo.MinMax(values); err != nil {
		return out, err
	}
	if out.StdDev, err = algo.StdDev(values); err != nil {
		return out, err
	}
	if out.Histogram, err = algo.Histogram(values, contract.DefaultHistogramBuckets); err != nil {
		return out, err
	}
	return out, nil
}

// CoOccurrence lists the skills appearing alongside skill at least minConnections times,
// most frequent first. An unknown skill yields an empty result.
func (e *Engine) CoOccurrence(ctx context.Context, skill string, minConnections int) (schema.CoOccurrenceResult, error) {
	if schema.SkillKey(skill) == "" {
		return schema.CoOccurrenceResult{}, schema.InvalidInput("a skill is required")
	}
	if minConnections < 0 {
		return schema.CoOccurrenceResult{}, schema.InvalidInput("min connections cannot be negative (received %d)", minConnections)
	}

	params := []any{skill, minConnections}
	return cachedCompute(ctx, e, "co_occurrence", params, func(ctx context.Context, _ string) (schema.CoOccurrenceResult, error) {
		jobs, err := e.jobs(ctx, schema.JobFilter{Skill: skill})
		if err != nil {
			return schema.CoOccurrenceResult{}, err
		}
		anchor, _ := canonicalSkill(jobs, skill)
		result := schema.CoOccurrenceResult{
			Skill:          anchor,
			MinConnections: minConnections,
			Related:        []schema.CoOccurrence{},
		}

		total, counts := agg.CoOccurrenceCounts(jobs, anchor)
		result.TotalPostings = total
		for name, c := range counts {
			if c < minConnections {
				continue
			}
			result.Related = append(result.Related, schema.CoOccurrence{
				Skill: name,
				Count: c,
				Rate:  float64(c) / float64(total) * 100,
			})
		}
		result.Related = algo.RankCoOccurrences(result.Related)
		return result, nil
	})
}

// SkillNetwork builds the co-occurrence graph among the top maxNodes skills that have at
// least minCount postings. A maxNodes <= 0 uses the default.
func (e *Engine) SkillNetwork(ctx context.Context, minCount, maxNodes int) (schema.SkillNetwork, error) {
	if minCount < 0 {
		return schema.SkillNetwork{}, schema.InvalidInput("min count cannot be negative (received %d)", minCount)
	}
	if maxNodes <= 0 {
		maxNodes = contract.DefaultMaxNodes
	}

	params := []any{minCount, maxNodes}
	return cachedCompute(ctx, e, "skill_network", params, func(ctx context.Context, _ string) (schema.SkillNetwork, error) {
		jobs, err := e.jobs(ctx, schema.JobFilter{})
		if err != nil {
			return schema.SkillNetwork{}, err
		}

		counts := agg.CountBySkill(jobs)
		for name, c := range counts {
			if c < minCount {
				delete(counts, name)
			}
		}
		network := schema.SkillNetwork{
			Nodes: algo.RankCounts(counts, maxNodes),
			Edges: []schema.NetworkEdge{},
		}

		nodes := make(map[string]struct{}, len(network.Nodes))
		for _, n := range network.Nodes {
			nodes[n.Skill] = struct{}{}
		}
		for pair, c := range agg.PairCounts(jobs, nodes) {
			network.Edges = append(network.Edges, schema.NetworkEdge{Source: pair[0], Target: pair[1], Count: c})
		}
		sort.Slice(network.Edges, func(i, j int) bool {
			a, b := network.Edges[i], network.Edges[j]
			if a.Count != b.Count {
				return a.Count > b.Count
			}
			if a.Source != b.Source {
				return a.Source < b.Source
			}
			return a.Target < b.Target
		})
		return network, nil
	})
}

// MarketOverview summarizes jobs, companies, skills, salaries and industries.
// It always succeeds on an empty dataset.
func (e *Engine) MarketOverview(ctx context.Context) (schema.MarketOverview, error) {
	return cachedCompute(ctx, e, "market_overview", nil, func(ctx context.Context, _ string) (schema.MarketOverview, error) {
		var (
			jobs      []schema.JobPosting
			companies []schema.Company
			catalog   []schema.Skill
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			jobs, err = e.jobs(gctx, schema.JobFilter{})
			return err
		})
		g.Go(func() error {
			var err error
			if companies, err = e.source.Companies(gctx); err != nil {
				return schema.SourceUnavailable(err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			if catalog, err = e.source.Skills(gctx); err != nil {
				return schema.SourceUnavailable(err)
			}
			return nil
		})
		if err := g.Wait(); err != nil {
			return schema.MarketOverview{}, err
		}

		// Each section writes its own field.
		var out schema.MarketOverview
		var sections errgroup.Group
		sections.Go(func() error {
			out.Jobs = agg.JobsSummary(jobs)
			out.Skills = agg.SkillsSummary(catalog, jobs)
			return nil
		})
		sections.Go(func() error {
			out.Companies = agg.CompaniesSummary(companies, jobs)
			out.Industries = agg.IndustriesSummary(companies, jobs)
			return nil
		})
		sections.Go(func() error {
			out.Salaries = agg.SalariesSummary(jobs)
			return nil
		})
		_ = sections.Wait()
		return out, nil
	})
}

// LocationInsights ranks cities by posting count. A limit <= 0 returns every city.
func (e *Engine) LocationInsights(ctx context.Context, limit int) (schema.LocationInsights, error) {
	return cachedCompute(ctx, e, "location_insights", []any{max(limit, 0)}, func(ctx context.Context, _ string) (schema.LocationInsights, error) {
		jobs, err := e.jobs(ctx, schema.JobFilter{})
		if err != nil {
			return schema.LocationInsights{}, err
		}
		return schema.LocationInsights{Locations: agg.LocationStats(jobs, limit)}, nil
	})
}

// CompanyInsights ranks companies by active postings. A limit <= 0 returns every company.
func (e *Engine) CompanyInsights(ctx context.Context, limit int) (schema.CompanyInsights, error) {
	return cachedCompute(ctx, e, "company_insights", []any{max(limit, 0)}, func(ctx context.Context, version string) (schema.CompanyInsights, error) {
		d, err := e.dataset(ctx, version)
		if err != nil {
			return schema.CompanyInsights{}, err
		}
		return schema.CompanyInsights{Companies: agg.CompanyStats(d, limit)}, nil
	})
}
