package agg

import (
	"sort"

	"github.com/huangsam/skillspot/core/algo"
	"github.com/huangsam/skillspot/schema"
)

// OccupationJobs relabels the active postings so that each one carries its title as its only
// "skill". Titles are grouped by SkillKey and shown in their most common spelling, ties going to
// the smallest one. Postings without a title are dropped. The result feeds BuildSkillAggregates.
func OccupationJobs(jobs []schema.JobPosting) []schema.JobPosting {
	spellings := make(map[string]map[string]int)
	for _, j := range jobs {
		key := schema.SkillKey(j.Title)
		if !j.Active || key == "" {
			continue
		}
		if spellings[key] == nil {
			spellings[key] = make(map[string]int)
		}
		spellings[key][j.Title]++
	}

	display := make(map[string]string, len(spellings))
	for key, counts := range spellings {
		best, bestCount := "", 0
		for title, c := range counts {
			if c > bestCount || (c == bestCount && title < best) {
				best, bestCount = title, c
			}
		}
		display[key] = best
	}

	out := make([]schema.JobPosting, 0, len(jobs))
	for _, j := range jobs {
		name, ok := display[schema.SkillKey(j.Title)]
		if !j.Active || !ok {
			continue
		}
		j.Skills = []string{name}
		out = append(out, j)
	}
	return out
}

// BenefitStats ranks benefit types by the number of postings offering them, then by name.
// A limit <= 0 keeps every benefit.
func BenefitStats(jobs []schema.JobPosting, limit int) schema.BenefitsAnalysis {
	type acc struct {
		name            string
		count, inferred int
	}
	byKey := make(map[string]*acc)
	result := schema.BenefitsAnalysis{TotalJobs: len(jobs)}
	total := 0
	for _, j := range jobs {
		if len(j.Benefits) == 0 {
			continue
		}
		result.JobsWithBenefits++
		for _, b := range j.Benefits {
			key := schema.SkillKey(b.Type)
			a, ok := byKey[key]
			if !ok {
				a = &acc{name: b.Type}
				byKey[key] = a
			}
			a.count++
			if b.Inferred {
				a.inferred++
			}
			total++
		}
	}
	if result.JobsWithBenefits == 0 {
		result.TopBenefits = []schema.BenefitStat{}
		return result
	}

	result.AveragePerJob = algo.Round(float64(total)/float64(result.JobsWithBenefits), 2)
	stats := make([]schema.BenefitStat, 0, len(byKey))
	for _, a := range byKey {
		stats = append(stats, schema.BenefitStat{
			Benefit:    a.name,
			Count:      a.count,
			Inferred:   a.inferred,
			Percentage: algo.Round(float64(a.count)/float64(result.JobsWithBenefits)*100, 2),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Benefit < stats[j].Benefit
	})
	if limit > 0 && len(stats) > limit {
		stats = stats[:limit]
	}
	result.TopBenefits = stats
	return result
}

// MonthlySalaries returns the median annualized salary of the skill's postings for each of the
// given months. Months without a salary observation are left out rather than filled.
func MonthlySalaries(jobs []schema.JobPosting, skill string, months []string) []schema.SalaryPoint {
	index := make(map[string]int, len(months))
	for i, m := range months {
		index[m] = i
	}
	values := make([][]float64, len(months))
	for _, j := range jobs {
		if j.PostedAt.IsZero() || !j.HasSkill(skill) {
			continue
		}
		i, ok := index[schema.MonthKey(j.PostedAt)]
		if !ok {
			continue
		}
		if obs, ok := ObservationFromPosting(j); ok {
			values[i] = append(values[i], obs.Value)
		}
	}

	var out []schema.SalaryPoint
	for i, v := range values {
		if len(v) == 0 {
			continue
		}
		median, _ := algo.Median(v)
		out = append(out, schema.SalaryPoint{Period: months[i], Median: median, Count: len(v)})
	}
	return out
}
