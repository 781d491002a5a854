package outwriter

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/schema"
)

// topSkillsTable ranks skills with their signals and hotness.
func topSkillsTable(result schema.TopSkillsResult, cfg *contract.Config, f formatter, duration time.Duration) resultTable {
	t := resultTable{
		title:   fmt.Sprintf("🔥 Top skills by %s", result.SortKey),
		headers: []string{"Rank", "Skill", "Count", "Growth %", "Premium %", "Demand Gap", "Median Salary", "Hotness", "Label", "Drivers"},
	}
	for i, s := range result.Skills {
		t.rows = append(t.rows, []string{
			f.int(i + 1),
			f.text(s.Skill),
			f.int(s.Count),
			growthCell(f, s.GrowthRate, s.GrowthDefined),
			f.percent(s.SalaryPremium),
			f.float(s.DemandGap),
			f.money(s.MedianSalary),
			f.float(s.Hotness),
			f.label(s.Hotness),
			formatBreakdown(s.Breakdown),
		})
	}
	t.footer = []string{
		fmt.Sprintf("Showing top %d of %d skills (total postings: %d, data version: %s)",
			len(result.Skills), result.CohortSize, result.TotalJobs, result.DataVersion),
		fmt.Sprintf("Query completed in %v. Cache backend: %s", duration, cfg.CacheBackend),
	}
	return t
}

// occupationsTable ranks job titles the way topSkillsTable ranks skills.
func occupationsTable(result schema.TopOccupationsResult, f formatter, duration time.Duration) resultTable {
	t := resultTable{
		title:   fmt.Sprintf("💼 Top occupations by %s", result.SortKey),
		headers: []string{"Rank", "Occupation", "Count", "Growth %", "Premium %", "Demand Gap", "Median Salary", "Hotness", "Label"},
	}
	for _, o := range result.Occupations {
		t.rows = append(t.rows, []string{
			f.int(o.Rank),
			f.text(o.Occupation),
			f.int(o.Count),
			growthCell(f, o.GrowthRate, o.GrowthDefined),
			f.percent(o.SalaryPremium),
			f.float(o.DemandGap),
			f.money(o.MedianSalary),
			f.float(o.Hotness),
			f.label(o.Hotness),
		})
	}
	t.footer = []string{
		fmt.Sprintf("Showing top %d of %d occupations (active postings: %d, data version: %s)",
			len(result.Occupations), result.CohortSize, result.ActiveJobs, result.DataVersion),
		fmt.Sprintf("Query completed in %v", duration),
	}
	return t
}

// growthCell shows n/a when growth is undefined.
func growthCell(f formatter, growth float64, defined bool) string {
	if !defined {
		if f.plain {
			return ""
		}
		return "n/a"
	}
	return f.percent(growth)
}

// trendingTable lists skills above the growth threshold with their monthly series.
func trendingTable(result schema.TrendingResult, f formatter, duration time.Duration) resultTable {
	t := resultTable{
		title: fmt.Sprintf("📈 Trending skills %s → %s (growth > %s)",
			result.FromMonth, result.ToMonth, f.percent(result.GrowthThreshold)),
		headers: []string{"Rank", "Skill", "Count", "Growth %", "Trend", "Hotness", "Series"},
	}
	for i, s := range result.Skills {
		counts := make([]string, len(s.Series))
		for j, p := range s.Series {
			counts[j] = f.int(p.Count)
		}
		t.rows = append(t.rows, []string{
			f.int(i + 1),
			f.text(s.Skill),
			f.int(s.Count),
			f.percent(s.GrowthRate),
			f.trend(s.Trend),
			f.float(s.Hotness),
			strings.Join(counts, " "),
		})
	}
	t.footer = []string{
		fmt.Sprintf("%d skills trending over %d months. Query completed in %v", len(result.Skills), result.WindowMonths, duration),
	}
	return t
}

// comparisonTable puts the compared skills side by side in input order.
func comparisonTable(result schema.SkillComparison, f formatter, duration time.Duration) resultTable {
	t := resultTable{
		title:   "⚖️  Skill comparison",
		headers: []string{"Skill", "Count", "Growth %", "Premium %", "Demand Gap", "Median Salary", "Hotness", "Label"},
	}
	for _, s := range result.Skills {
		t.rows = append(t.rows, []string{
			f.text(s.Skill),
			f.int(s.Count),
			growthCell(f, s.GrowthRate, s.GrowthDefined),
			f.percent(s.SalaryPremium),
			f.float(s.DemandGap),
			f.money(s.MedianSalary),
			f.float(s.Hotness),
			f.label(s.Hotness),
		})
	}
	t.footer = []string{
		fmt.Sprintf("Hotness is relative to the %d compared skills. Query completed in %v", len(result.Skills), duration),
	}
	return t
}
