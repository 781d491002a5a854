package agg

import (
	"github.com/huangsam/skillspot/core/algo"
	"github.com/huangsam/skillspot/schema"
)

// JobsSummary counts postings by status and work arrangement.
func JobsSummary(jobs []schema.JobPosting) schema.JobsOverview {
	out := schema.JobsOverview{Total: len(jobs)}
	for _, j := range jobs {
		if j.Active {
			out.Active++
		}
		switch j.WorkType {
		case schema.RemoteWork:
			out.Remote++
		case schema.HybridWork:
			out.Hybrid++
		case schema.OnsiteWork:
			out.Onsite++
		}
	}
	out.Inactive = out.Total - out.Active
	return out
}

// CompaniesSummary counts companies and the distinct companies with at least one active posting.
func CompaniesSummary(companies []schema.Company, jobs []schema.JobPosting) schema.CompaniesOverview {
	hiring := make(map[string]struct{})
	for _, j := range jobs {
		if j.Active && j.CompanyID != "" {
			hiring[j.CompanyID] = struct{}{}
		}
	}
	return schema.CompaniesOverview{Total: len(companies), CurrentlyHiring: len(hiring)}
}

// SkillsSummary reports the catalog size and the skill with the most postings.
// Without a catalog the distinct skills seen on postings are counted instead.
func SkillsSummary(catalog []schema.Skill, jobs []schema.JobPosting) schema.SkillsOverview {
	counts := CountBySkill(jobs)
	out := schema.SkillsOverview{Total: len(catalog)}
	if out.Total == 0 {
		out.Total = len(counts)
	}
	if top := algo.RankCounts(counts, 1); len(top) > 0 {
		out.MostInDemand = top[0].Skill
		out.DemandCount = top[0].Count
	}
	return out
}

// SalariesSummary describes the annualized salary observations of the postings.
func SalariesSummary(jobs []schema.JobPosting) schema.SalariesOverview {
	obs := SalaryObservations(jobs)
	values := make([]float64, len(obs))
	for i, o := range obs {
		values[i] = o.Value
	}
	out := schema.SalariesOverview{Count: len(values)}
	if len(values) == 0 {
		return out
	}
	out.Avg, _ = algo.Mean(values)
	out.Min, out.Max, _ = algo.MinMax(values)
	return out
}

// IndustriesSummary counts distinct industries and picks the one with the most postings,
// attributing each posting to every industry of its company.
func IndustriesSummary(companies []schema.Company, jobs []schema.JobPosting) schema.IndustriesOverview {
	byCompany := make(map[string][]string, len(companies))
	distinct := make(map[string]struct{})
	for _, c := range companies {
		byCompany[c.ID] = c.Industries
		for _, ind := range c.Industries {
			distinct[ind] = struct{}{}
		}
	}

	postings := make(map[string]int)
	for _, j := range jobs {
		for _, ind := range byCompany[j.CompanyID] {
			postings[ind]++
		}
	}

	out := schema.IndustriesOverview{Total: len(distinct)}
	if top := algo.RankCounts(postings, 1); len(top) > 0 {
		out.Top = top[0].Skill
	}
	return out
}
