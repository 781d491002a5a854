package agg

import (
	"sort"

	"github.com/huangsam/skillspot/core/algo"
	"github.com/huangsam/skillspot/schema"
)

// cityKey identifies a city within a state.
type cityKey struct {
	city, state string
}

// LocationStats ranks cities by posting count, then city name, then state.
func LocationStats(jobs []schema.JobPosting, limit int) []schema.LocationStat {
	type acc struct {
		count, remote int
		salaries      []float64
	}
	cities := make(map[cityKey]*acc)
	for _, j := range jobs {
		city, state := j.City, j.State
		if city == "" {
			city, state = schema.SplitLocation(j.Location)
		}
		if city == "" {
			continue
		}
		k := cityKey{city: city, state: state}
		a, ok := cities[k]
		if !ok {
			a = &acc{}
			cities[k] = a
		}
		a.count++
		if j.WorkType == schema.RemoteWork {
			a.remote++
		}
		if obs, ok := ObservationFromPosting(j); ok {
			a.salaries = append(a.salaries, obs.Value)
		}
	}

	out := make([]schema.LocationStat, 0, len(cities))
	for k, a := range cities {
		stat := schema.LocationStat{
			City:        k.city,
			State:       k.state,
			Count:       a.count,
			RemoteShare: float64(a.remote) / float64(a.count) * 100,
		}
		if len(a.salaries) >= 2 {
			stat.MedianSalary, _ = algo.Median(a.salaries)
		}
		out = append(out, stat)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].City != out[j].City {
			return out[i].City < out[j].City
		}
		return out[i].State < out[j].State
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CompanyStats ranks companies by active postings, then name. Each entry lists up to three top skills.
func CompanyStats(d *schema.Dataset, limit int) []schema.CompanyStat {
	byCompany := d.JobsByCompany()
	out := make([]schema.CompanyStat, 0, len(d.Companies))
	for _, c := range d.Companies {
		jobs := byCompany[c.ID]
		active := 0
		for _, j := range jobs {
			if j.Active {
				active++
			}
		}
		if len(jobs) == 0 {
			continue
		}
		var top []string
		for _, n := range algo.RankCounts(CountBySkill(jobs), 3) {
			top = append(top, n.Skill)
		}
		name := c.Name
		if name == "" {
			name = c.ID
		}
		out = append(out, schema.CompanyStat{
			Company:        name,
			ActivePostings: active,
			Followers:      c.FollowerCount,
			Employees:      c.LatestEmployees(),
			TopSkills:      top,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ActivePostings != out[j].ActivePostings {
			return out[i].ActivePostings > out[j].ActivePostings
		}
		return out[i].Company < out[j].Company
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
