// Package agg has aggregation logic that reduces posting rows to per-skill signals.
package agg

import (
	"math"
	"time"

	"github.com/huangsam/skillspot/core/algo"
	"github.com/huangsam/skillspot/schema"
)

// SkillAggregate holds every raw signal the engine derives for one skill.
type SkillAggregate struct {
	Skill         string
	Count         int
	Series        []schema.SeriesPoint
	Growth        float64
	GrowthDefined bool
	SalaryPremium float64
	DemandGap     float64
	Salaries      []float64
}

// CountBySkill counts postings per skill. A posting listing a skill twice counts once.
func CountBySkill(jobs []schema.JobPosting) map[string]int {
	counts := make(map[string]int)
	for _, j := range jobs {
		for _, s := range uniqueSkills(j.Skills) {
			counts[s]++
		}
	}
	return counts
}

// uniqueSkills drops repeated and empty skill names while keeping order.
func uniqueSkills(skills []string) []string {
	if len(skills) < 2 {
		if len(skills) == 1 && skills[0] == "" {
			return nil
		}
		return skills
	}
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// DatasetSpan returns the earliest and latest posting times. ok is false when no posting has a time.
func DatasetSpan(jobs []schema.JobPosting) (first, last time.Time, ok bool) {
	for _, j := range jobs {
		if j.PostedAt.IsZero() {
			continue
		}
		if !ok || j.PostedAt.Before(first) {
			first = j.PostedAt
		}
		if !ok || j.PostedAt.After(last) {
			last = j.PostedAt
		}
		ok = true
	}
	return first, last, ok
}

// MonthWindow returns the labels of the trailing 'months' calendar months ending at asOf, oldest first.
func MonthWindow(asOf time.Time, months int) []string {
	end := schema.MonthStart(asOf)
	out := make([]string, months)
	for i := range months {
		out[i] = schema.MonthKey(end.AddDate(0, i-months+1, 0))
	}
	return out
}

// MonthlySeriesBySkill buckets postings into the given month labels per skill.
// Months without postings are zero so that every series has the same length.
func MonthlySeriesBySkill(jobs []schema.JobPosting, months []string) map[string][]schema.SeriesPoint {
	index := make(map[string]int, len(months))
	for i, m := range months {
		index[m] = i
	}

	out := make(map[string][]schema.SeriesPoint)
	for _, j := range jobs {
		if j.PostedAt.IsZero() {
			continue
		}
		i, ok := index[schema.MonthKey(j.PostedAt)]
		if !ok {
			continue
		}
		for _, s := range uniqueSkills(j.Skills) {
			series, ok := out[s]
			if !ok {
				series = emptySeries(months)
				out[s] = series
			}
			series[i].Count++
		}
	}
	return out
}

// MonthlySeries buckets the postings of one skill (or all postings when skill is empty).
func MonthlySeries(jobs []schema.JobPosting, skill string, months []string) []schema.SeriesPoint {
	series := emptySeries(months)
	index := make(map[string]int, len(months))
	for i, m := range months {
		index[m] = i
	}
	for _, j := range jobs {
		if j.PostedAt.IsZero() || (skill != "" && !j.HasSkill(skill)) {
			continue
		}
		if i, ok := index[schema.MonthKey(j.PostedAt)]; ok {
			series[i].Count++
		}
	}
	return series
}

func emptySeries(months []string) []schema.SeriesPoint {
	series := make([]schema.SeriesPoint, len(months))
	for i, m := range months {
		series[i].Period = m
	}
	return series
}

// MonthsBetween lists every calendar month label from first to last inclusive.
func MonthsBetween(first, last time.Time) []string {
	start, end := schema.MonthStart(first), schema.MonthStart(last)
	var out []string
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		out = append(out, schema.MonthKey(m))
	}
	return out
}

// ObservationFromPosting derives an annualized salary observation.
// Median wins, then the midpoint of min and max, then whichever single value is present.
func ObservationFromPosting(j schema.JobPosting) (schema.SalaryObservation, bool) {
	if j.Salary == nil {
		return schema.SalaryObservation{}, false
	}
	var value float64
	switch s := j.Salary; {
	case s.Med != nil:
		value = *s.Med
	case s.Min != nil && s.Max != nil:
		value = (*s.Min + *s.Max) / 2
	case s.Min != nil:
		value = *s.Min
	case s.Max != nil:
		value = *s.Max
	default:
		return schema.SalaryObservation{}, false
	}
	if !(value > 0) || math.IsInf(value, 0) {
		return schema.SalaryObservation{}, false
	}
	return schema.SalaryObservation{
		Value:    value * j.Salary.Period.AnnualFactor(),
		Skills:   j.Skills,
		Location: j.Location,
		City:     j.City,
		State:    j.State,
		At:       j.PostedAt,
	}, true
}

// SalaryObservations derives observations from every posting with a salary.
func SalaryObservations(jobs []schema.JobPosting) []schema.SalaryObservation {
	var out []schema.SalaryObservation
	for _, j := range jobs {
		if obs, ok := ObservationFromPosting(j); ok {
			out = append(out, obs)
		}
	}
	return out
}

// FilterObservations keeps the observations matching a canonical skill and a location query.
func FilterObservations(obs []schema.SalaryObservation, skill, location string) []float64 {
	var out []float64
	for _, o := range obs {
		if skill != "" && !containsSkill(o.Skills, skill) {
			continue
		}
		if !schema.MatchesLocation(location, o.Location, o.City, o.State) {
			continue
		}
		out = append(out, o.Value)
	}
	return out
}

func containsSkill(skills []string, skill string) bool {
	for _, s := range skills {
		if s == skill {
			return true
		}
	}
	return false
}

// SalariesBySkill groups observation values per skill.
func SalariesBySkill(obs []schema.SalaryObservation) map[string][]float64 {
	out := make(map[string][]float64)
	for _, o := range obs {
		for _, s := range uniqueSkills(o.Skills) {
			out[s] = append(out[s], o.Value)
		}
	}
	return out
}

// SalaryPremium is the percent difference between a skill's mean salary and the overall mean.
// It is 0 when either side has no data.
func SalaryPremium(skillValues []float64, overallMean float64) float64 {
	mean, err := algo.Mean(skillValues)
	if err != nil || overallMean == 0 {
		return 0
	}
	return (mean - overallMean) / overallMean * 100
}

// DemandGap returns the externally supplied gap for a skill when present. Otherwise it falls
// back to the skill's share of the busiest skill's posting count, in percent.
func DemandGap(skill string, count, maxCount int, external map[string]float64) float64 {
	if v, ok := external[skill]; ok {
		return v
	}
	if maxCount == 0 {
		return 0
	}
	return float64(count) / float64(maxCount) * 100
}

// BuildSkillAggregates reduces the dataset to one SkillAggregate per skill with at least one posting.
// Growth is measured over the given month window.
func BuildSkillAggregates(d *schema.Dataset, months []string) map[string]*SkillAggregate {
	counts := CountBySkill(d.Jobs)
	series := MonthlySeriesBySkill(d.Jobs, months)
	obs := SalaryObservations(d.Jobs)
	bySkill := SalariesBySkill(obs)

	allValues := make([]float64, len(obs))
	for i, o := range obs {
		allValues[i] = o.Value
	}
	overallMean, _ := algo.Mean(allValues)

	maxCount := 0
	for _, c := range counts {
		maxCount = max(maxCount, c)
	}

	out := make(map[string]*SkillAggregate, len(counts))
	for skill, c := range counts {
		s, ok := series[skill]
		if !ok {
			s = emptySeries(months)
		}
		growth, defined := algo.GrowthOrZero(algo.SeriesValues(s))
		out[skill] = &SkillAggregate{
			Skill:         skill,
			Count:         c,
			Series:        s,
			Growth:        growth,
			GrowthDefined: defined,
			SalaryPremium: SalaryPremium(bySkill[skill], overallMean),
			DemandGap:     DemandGap(skill, c, maxCount, d.DemandGaps),
			Salaries:      bySkill[skill],
		}
	}
	return out
}

// Signals converts aggregates into hotness inputs. Undefined growth is passed as absent.
func Signals(aggs map[string]*SkillAggregate) map[string]algo.HotnessSignals {
	out := make(map[string]algo.HotnessSignals, len(aggs))
	for name, a := range aggs {
		sig := algo.HotnessSignals{
			Volume:        float64(a.Count),
			SalaryPremium: a.SalaryPremium,
			DemandGap:     a.DemandGap,
		}
		if a.GrowthDefined {
			g := a.Growth
			sig.Growth = &g
		}
		out[name] = sig
	}
	return out
}

// CoOccurrenceCounts counts, for postings with the anchor skill, how often every other skill appears.
func CoOccurrenceCounts(jobs []schema.JobPosting, anchor string) (total int, counts map[string]int) {
	counts = make(map[string]int)
	for _, j := range jobs {
		skills := uniqueSkills(j.Skills)
		if !containsSkill(skills, anchor) {
			continue
		}
		total++
		for _, s := range skills {
			if s != anchor {
				counts[s]++
			}
		}
	}
	return total, counts
}

// PairCounts counts co-occurring pairs among the given nodes. Keys have the names in ascending order.
func PairCounts(jobs []schema.JobPosting, nodes map[string]struct{}) map[[2]string]int {
	out := make(map[[2]string]int)
	for _, j := range jobs {
		var present []string
		for _, s := range uniqueSkills(j.Skills) {
			if _, ok := nodes[s]; ok {
				present = append(present, s)
			}
		}
		for a := 0; a < len(present); a++ {
			for b := a + 1; b < len(present); b++ {
				x, y := present[a], present[b]
				if y < x {
					x, y = y, x
				}
				out[[2]string{x, y}]++
			}
		}
	}
	return out
}
