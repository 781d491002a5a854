package outwriter

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/skillspot/schema"
)

// salaryTable shows the summary statistics and the histogram of a salary distribution.
// CSV output carries the histogram buckets only.
func salaryTable(result schema.SalaryDistribution, f formatter, duration time.Duration) resultTable {
	scope := describeFilter(result.Filter)
	t := resultTable{
		title:   fmt.Sprintf("💰 Salary distribution for %s (%d observations)", scope, result.Count),
		headers: []string{"Low", "High", "Count"},
	}
	for _, b := range result.Histogram {
		t.rows = append(t.rows, []string{f.money(b.Low), f.money(b.High), f.int(b.Count)})
	}
	if f.plain {
		return t
	}
	if result.InsufficientData {
		t.footer = []string{
			"Not enough salary observations for a distribution (need at least 2).",
			fmt.Sprintf("Query completed in %v", duration),
		}
		return t
	}
	t.footer = []string{
		fmt.Sprintf("Mean %s | Median %s | P25 %s | P75 %s", f.money(result.Mean), f.money(result.Median), f.money(result.P25), f.money(result.P75)),
		fmt.Sprintf("Min %s | Max %s | Std Dev %s", f.money(result.Min), f.money(result.Max), f.money(result.StdDev)),
		fmt.Sprintf("Query completed in %v", duration),
	}
	return t
}

func describeFilter(filter schema.SalaryFilter) string {
	var parts []string
	if filter.Skill != "" {
		parts = append(parts, filter.Skill)
	}
	if filter.Location != "" {
		parts = append(parts, "in "+filter.Location)
	}
	if len(parts) == 0 {
		return "all postings"
	}
	return strings.Join(parts, " ")
}

// coOccurrenceTable lists the skills seen alongside the anchor skill.
func coOccurrenceTable(result schema.CoOccurrenceResult, f formatter, duration time.Duration) resultTable {
	t := resultTable{
		title:   fmt.Sprintf("🔗 Skills co-occurring with %s (%d postings)", result.Skill, result.TotalPostings),
		headers: []string{"Rank", "Skill", "Count", "Rate %"},
	}
	for i, c := range result.Related {
		t.rows = append(t.rows, []string{f.int(i + 1), f.text(c.Skill), f.int(c.Count), f.percent(c.Rate)})
	}
	t.footer = []string{
		fmt.Sprintf("%d related skills with at least %d shared postings. Query completed in %v", len(result.Related), result.MinConnections, duration),
	}
	return t
}

// networkTable lists the weighted edges of the skill network.
func networkTable(result schema.SkillNetwork, f formatter, duration time.Duration) resultTable {
	t := resultTable{
		title:   fmt.Sprintf("🕸️  Skill network (%d nodes, %d edges)", len(result.Nodes), len(result.Edges)),
		headers: []string{"Source", "Target", "Count"},
	}
	for _, e := range result.Edges {
		t.rows = append(t.rows, []string{f.text(e.Source), f.text(e.Target), f.int(e.Count)})
	}
	nodes := make([]string, len(result.Nodes))
	for i, n := range result.Nodes {
		nodes[i] = fmt.Sprintf("%s (%d)", n.Skill, n.Count)
	}
	t.footer = []string{
		"Nodes: " + strings.Join(nodes, ", "),
		fmt.Sprintf("Query completed in %v", duration),
	}
	return t
}

// overviewTable renders the overview sections as metric/value rows.
func overviewTable(result schema.MarketOverview, f formatter, duration time.Duration) resultTable {
	t := resultTable{
		title:   "🌐 Market overview",
		headers: []string{"Metric", "Value"},
		rows: keyValueRows(
			"jobs.total", f.int(result.Jobs.Total),
			"jobs.active", f.int(result.Jobs.Active),
			"jobs.inactive", f.int(result.Jobs.Inactive),
			"jobs.remote", f.int(result.Jobs.Remote),
			"jobs.hybrid", f.int(result.Jobs.Hybrid),
			"jobs.onsite", f.int(result.Jobs.Onsite),
			"companies.total", f.int(result.Companies.Total),
			"companies.currently_hiring", f.int(result.Companies.CurrentlyHiring),
			"skills.total", f.int(result.Skills.Total),
			"skills.most_in_demand", result.Skills.MostInDemand,
			"skills.demand_count", f.int(result.Skills.DemandCount),
			"salaries.count", f.int(result.Salaries.Count),
			"salaries.avg", f.money(result.Salaries.Avg),
			"salaries.min", f.money(result.Salaries.Min),
			"salaries.max", f.money(result.Salaries.Max),
			"industries.total", f.int(result.Industries.Total),
			"industries.top", result.Industries.Top,
		),
		footer: []string{fmt.Sprintf("Query completed in %v", duration)},
	}
	return t
}

// locationsTable ranks cities by posting count.
func locationsTable(result schema.LocationInsights, f formatter, duration time.Duration) resultTable {
	t := resultTable{
		title:   "📍 Top locations",
		headers: []string{"Rank", "City", "State", "Count", "Remote %", "Median Salary"},
	}
	for i, l := range result.Locations {
		t.rows = append(t.rows, []string{
			f.int(i + 1), f.text(l.City), l.State, f.int(l.Count), f.percent(l.RemoteShare), f.money(l.MedianSalary),
		})
	}
	t.footer = []string{fmt.Sprintf("Showing %d locations. Query completed in %v", len(result.Locations), duration)}
	return t
}

// companiesTable ranks companies by active postings.
func companiesTable(result schema.CompanyInsights, f formatter, duration time.Duration) resultTable {
	t := resultTable{
		title:   "🏢 Top hiring companies",
		headers: []string{"Rank", "Company", "Active Postings", "Followers", "Employees", "Top Skills"},
	}
	sep := ", "
	if f.plain {
		sep = "|"
	}
	for i, c := range result.Companies {
		t.rows = append(t.rows, []string{
			f.int(i + 1), f.text(c.Company), f.int(c.ActivePostings), f.int(c.Followers), f.int(c.Employees), strings.Join(c.TopSkills, sep),
		})
	}
	t.footer = []string{fmt.Sprintf("Showing %d companies. Query completed in %v", len(result.Companies), duration)}
	return t
}

// benefitsTable ranks benefits by the postings offering them.
func benefitsTable(result schema.BenefitsAnalysis, f formatter, duration time.Duration) resultTable {
	t := resultTable{
		title:   fmt.Sprintf("🎁 Top benefits (%d of %d postings list benefits)", result.JobsWithBenefits, result.TotalJobs),
		headers: []string{"Rank", "Benefit", "Count", "Share %", "Inferred"},
	}
	for i, b := range result.TopBenefits {
		t.rows = append(t.rows, []string{f.int(i + 1), f.text(b.Benefit), f.int(b.Count), f.percent(b.Percentage), f.int(b.Inferred)})
	}
	t.footer = []string{
		fmt.Sprintf("%s benefits per posting on average. Query completed in %v", f.float(result.AveragePerJob), duration),
	}
	return t
}
