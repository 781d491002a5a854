package core

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/internal/source"
	"github.com/huangsam/skillspot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func month(m time.Month, day int) time.Time {
	return time.Date(2024, m, day, 12, 0, 0, 0, time.UTC)
}

func posting(id string, at time.Time, skills ...string) schema.JobPosting {
	return schema.JobPosting{ID: id, PostedAt: at, Skills: skills, Active: true}
}

func withSalary(j schema.JobPosting, med float64) schema.JobPosting {
	j.Salary = &schema.SalaryRange{Med: &med, Period: schema.YearlyPay}
	return j
}

// countsDataset has one posting per unit of count, all in the same month.
func countsDataset(counts map[string]int) schema.Dataset {
	var d schema.Dataset
	for skill, n := range counts {
		for i := range n {
			d.Jobs = append(d.Jobs, posting(fmt.Sprintf("%s-%03d", skill, i), month(1, 15), skill))
		}
	}
	return d
}

// coOccurrenceDataset lists Python with SQL 5 times, Docker 4 times and Java twice.
func coOccurrenceDataset() schema.Dataset {
	return schema.Dataset{Jobs: []schema.JobPosting{
		posting("1", month(1, 1), "Python", "SQL", "Docker"),
		posting("2", month(1, 2), "Python", "SQL", "Docker"),
		posting("3", month(1, 3), "Python", "SQL", "Docker", "Java"),
		posting("4", month(1, 4), "Python", "SQL", "Docker", "Java"),
		posting("5", month(1, 5), "Python", "SQL"),
		posting("6", month(1, 6), "Python"),
	}}
}

// trendDataset spans January to March 2024.
//
//	Go:     2, 3, 5  (+150%)
//	SQL:    4, 0, 5  (+25%)
//	Python: 10, 10, 11 (+10%)
//	Rust:   0, 1, 2  (undefined)
func trendDataset() schema.Dataset {
	var d schema.Dataset
	add := func(skill string, m time.Month, n int) {
		for i := range n {
			d.Jobs = append(d.Jobs, posting(fmt.Sprintf("%s-%d-%d", skill, m, i), month(m, i+1), skill))
		}
	}
	add("Go", 1, 2)
	add("Go", 2, 3)
	add("Go", 3, 5)
	add("SQL", 1, 4)
	add("SQL", 3, 5)
	add("Python", 1, 10)
	add("Python", 2, 10)
	add("Python", 3, 11)
	add("Rust", 2, 1)
	add("Rust", 3, 2)
	return d
}

// countingSource records how often postings are read.
type countingSource struct {
	*source.MemorySource
	jobCalls atomic.Int32
}

func (c *countingSource) Jobs(ctx context.Context, filter schema.JobFilter) ([]schema.JobPosting, error) {
	c.jobCalls.Add(1)
	return c.MemorySource.Jobs(ctx, filter)
}

func newSource(t *testing.T, d schema.Dataset) *countingSource {
	t.Helper()
	src, err := source.NewMemorySource(d)
	require.NoError(t, err)
	return &countingSource{MemorySource: src}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestTopSkillsOrder(t *testing.T) {
	ctx := context.Background()
	d := countsDataset(map[string]int{"Python": 120, "SQL": 90, "Java": 80, "Go": 40, "Rust": 10})
	e := NewEngine(newSource(t, d))

	result, err := e.TopSkills(ctx, 5, schema.SortByCount)
	require.NoError(t, err)

	var names []string
	for i, s := range result.Skills {
		names = append(names, s.Skill)
		assert.Equal(t, i+1, s.Rank)
		assert.GreaterOrEqual(t, s.Hotness, 0.0)
		assert.LessOrEqual(t, s.Hotness, 100.0)
		assert.False(t, s.GrowthDefined) // a single month has no growth
	}
	assert.Equal(t, []string{"Python", "SQL", "Java", "Go", "Rust"}, names)
	assert.Equal(t, 5, result.CohortSize)
	assert.Equal(t, 340, result.TotalJobs)
	assert.Equal(t, schema.SortByCount, result.SortKey)
	assert.NotEmpty(t, result.DataVersion)
	assert.Equal(t, 120, result.Skills[0].Count)

	top3, err := e.TopSkills(ctx, 3, "")
	require.NoError(t, err)
	assert.Len(t, top3.Skills, 3)

	all, err := e.TopSkills(ctx, 0, schema.SortByHotness)
	require.NoError(t, err)
	assert.Len(t, all.Skills, 5)
	for i := 1; i < len(all.Skills); i++ {
		assert.GreaterOrEqual(t, all.Skills[i-1].Hotness, all.Skills[i].Hotness)
	}

	_, err = e.TopSkills(ctx, 5, "salary")
	assert.ErrorIs(t, err, schema.ErrInvalidInput)
}

func TestTopSkillsTieBreak(t *testing.T) {
	d := countsDataset(map[string]int{"Rust": 3, "Go": 3, "C": 3})
	e := NewEngine(newSource(t, d))

	result, err := e.TopSkills(context.Background(), 0, schema.SortByCount)
	require.NoError(t, err)
	require.Len(t, result.Skills, 3)
	assert.Equal(t, "C", result.Skills[0].Skill)
	assert.Equal(t, "Go", result.Skills[1].Skill)
	assert.Equal(t, "Rust", result.Skills[2].Skill)

	// Identical signals put every member at the top of the cohort.
	for _, s := range result.Skills {
		assert.InDelta(t, 70.0, s.Hotness, 1e-9)
		assert.Equal(t, contract.HighValue, s.Label)
	}
}

// gapSource serves demand gaps without the source-side normalization.
type gapSource struct {
	*source.MemorySource
	gaps map[string]float64
}

func (g gapSource) DemandGaps(context.Context) (map[string]float64, error) {
	return g.gaps, nil
}

func TestNonFiniteInputsStayBounded(t *testing.T) {
	ctx := context.Background()
	d := schema.Dataset{
		Version: "v1",
		Jobs: []schema.JobPosting{
			withSalary(posting("1", month(1, 1), "Python"), 100000),
			withSalary(posting("2", month(1, 2), "Python", "SQL"), 120000),
			withSalary(posting("3", month(1, 3), "SQL"), math.NaN()),
			withSalary(posting("4", month(1, 4), "Python"), math.Inf(1)),
		},
		DemandGaps: map[string]float64{"Python": math.NaN(), "SQL": 4},
	}

	check := func(t *testing.T, e *Engine) {
		top, err := e.TopSkills(ctx, 0, schema.SortByHotness)
		require.NoError(t, err)
		require.Len(t, top.Skills, 2)
		for _, s := range top.Skills {
			assert.False(t, math.IsNaN(s.Hotness), s.Skill)
			assert.GreaterOrEqual(t, s.Hotness, 0.0)
			assert.LessOrEqual(t, s.Hotness, 100.0)
		}
		_, err = json.Marshal(top)
		assert.NoError(t, err)

		salary, err := e.SalaryDistribution(ctx, schema.SalaryFilter{Skill: "python"})
		require.NoError(t, err)
		assert.Equal(t, 2, salary.Count)
		assert.InDelta(t, 110000.0, salary.Mean, 1e-9)
		_, err = json.Marshal(salary)
		assert.NoError(t, err)
	}

	t.Run("memory source drops non-finite values", func(t *testing.T) {
		src := newSource(t, d)
		gaps, err := src.DemandGaps(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]float64{"SQL": 4}, gaps)
		check(t, NewEngine(src))
	})

	t.Run("engine tolerates non-finite gaps from any source", func(t *testing.T) {
		src := newSource(t, d)
		check(t, NewEngine(gapSource{
			MemorySource: src.MemorySource,
			gaps:         map[string]float64{"Python": math.NaN(), "SQL": math.Inf(1)},
		}))
	})
}

func TestTopSkillsEmptyDataset(t *testing.T) {
	e := NewEngine(newSource(t, schema.Dataset{}))
	result, err := e.TopSkills(context.Background(), 10, schema.SortByGrowth)
	require.NoError(t, err)
	assert.Empty(t, result.Skills)
	assert.Equal(t, 0, result.TotalJobs)
}

func TestTrendingSkills(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(newSource(t, trendDataset()))

	result, err := e.TrendingSkills(ctx, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, "2024-01", result.FromMonth)
	assert.Equal(t, "2024-03", result.ToMonth)
	require.Len(t, result.Skills, 2)

	goSkill := result.Skills[0]
	assert.Equal(t, "Go", goSkill.Skill)
	assert.InDelta(t, 150.0, goSkill.GrowthRate, 1e-9)
	assert.Equal(t, schema.TrendHot, goSkill.Trend)
	assert.Equal(t, 10, goSkill.Count)
	assert.Equal(t, []schema.SeriesPoint{{Period: "2024-01", Count: 2}, {Period: "2024-02", Count: 3}, {Period: "2024-03", Count: 5}}, goSkill.Series)

	sqlSkill := result.Skills[1]
	assert.Equal(t, "SQL", sqlSkill.Skill)
	assert.InDelta(t, 25.0, sqlSkill.GrowthRate, 1e-9)
	assert.Equal(t, schema.TrendUp, sqlSkill.Trend)
	assert.Equal(t, 0, sqlSkill.Series[1].Count) // empty months count as zero
}

func TestTrendingSkillsAsOf(t *testing.T) {
	e := NewEngine(newSource(t, trendDataset()))

	result, err := e.TrendingSkillsAsOf(context.Background(), 2, 0, month(2, 15))
	require.NoError(t, err)
	assert.Equal(t, "2024-01", result.FromMonth)
	assert.Equal(t, "2024-02", result.ToMonth)
	require.Len(t, result.Skills, 1)
	assert.Equal(t, "Go", result.Skills[0].Skill)
	assert.InDelta(t, 50.0, result.Skills[0].GrowthRate, 1e-9)
	assert.Equal(t, schema.TrendHot, result.Skills[0].Trend)
}

func TestTrendingSkillsInvalidAndEmpty(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(newSource(t, trendDataset()))
	_, err := e.TrendingSkills(ctx, 1, 10)
	assert.ErrorIs(t, err, schema.ErrInvalidInput)

	empty := NewEngine(newSource(t, schema.Dataset{}))
	result, err := empty.TrendingSkills(ctx, 6, 10)
	require.NoError(t, err)
	assert.Empty(t, result.Skills)
	assert.Equal(t, 6, result.WindowMonths)
}

func salaryDataset() schema.Dataset {
	austin := func(j schema.JobPosting) schema.JobPosting {
		j.Location, j.City, j.State = "Austin, TX", "Austin", "TX"
		return j
	}
	return schema.Dataset{Jobs: []schema.JobPosting{
		austin(withSalary(posting("1", month(1, 1), "Go"), 100000)),
		austin(withSalary(posting("2", month(1, 2), "Go"), 120000)),
		austin(withSalary(posting("3", month(1, 3), "Go", "SQL"), 140000)),
		austin(withSalary(posting("4", month(1, 4), "Go"), 160000)),
		austin(withSalary(posting("5", month(1, 5), "Go"), 180000)),
		{ID: "6", Location: "Denver, CO", City: "Denver", State: "CO", Skills: []string{"Go"}, Active: true,
			Salary: &schema.SalaryRange{Med: ptr(40), Period: schema.HourlyPay}},
		posting("7", month(1, 7), "Go"),
	}}
}

func ptr(v float64) *float64 { return &v }

func TestSalaryDistribution(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(newSource(t, salaryDataset()))

	dist, err := e.SalaryDistribution(ctx, schema.SalaryFilter{Skill: "go", Location: "austin"})
	require.NoError(t, err)
	assert.False(t, dist.InsufficientData)
	assert.Equal(t, schema.SalaryFilter{Skill: "Go", Location: "austin"}, dist.Filter)
	assert.Equal(t, 5, dist.Count)
	assert.InDelta(t, 140000.0, dist.Mean, 1e-6)
	assert.InDelta(t, 140000.0, dist.Median, 1e-6)
	assert.InDelta(t, 120000.0, dist.P25, 1e-6)
	assert.InDelta(t, 160000.0, dist.P75, 1e-6)
	assert.Equal(t, 100000.0, dist.Min)
	assert.Equal(t, 180000.0, dist.Max)
	assert.InDelta(t, 28284.27, dist.StdDev, 0.01)
	require.Len(t, dist.Histogram, contract.DefaultHistogramBuckets)
	total := 0
	for _, b := range dist.Histogram {
		total += b.Count
	}
	assert.Equal(t, 5, total)

	// The hourly Denver salary is annualized.
	all, err := e.SalaryDistribution(ctx, schema.SalaryFilter{Skill: "Go"})
	require.NoError(t, err)
	assert.Equal(t, 6, all.Count)
	assert.Equal(t, 83200.0, all.Min)
}

func TestSalaryDistributionInsufficientData(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(newSource(t, salaryDataset()))

	for _, filter := range []schema.SalaryFilter{
		{Location: "denver"},
		{Skill: "SQL"},
		{Skill: "Haskell"},
	} {
		dist, err := e.SalaryDistribution(ctx, filter)
		require.NoError(t, err, filter)
		assert.True(t, dist.InsufficientData, filter)
		assert.Zero(t, dist.Mean)
		assert.Zero(t, dist.StdDev)
		assert.Empty(t, dist.Histogram)
	}
}

func TestCoOccurrence(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(newSource(t, coOccurrenceDataset()))

	result, err := e.CoOccurrence(ctx, "python", 3)
	require.NoError(t, err)
	assert.Equal(t, "Python", result.Skill)
	assert.Equal(t, 6, result.TotalPostings)
	require.Len(t, result.Related, 2)
	assert.Equal(t, "SQL", result.Related[0].Skill)
	assert.Equal(t, 5, result.Related[0].Count)
	assert.InDelta(t, 83.333, result.Related[0].Rate, 1e-3)
	assert.Equal(t, "Docker", result.Related[1].Skill)
	assert.Equal(t, 4, result.Related[1].Count)

	unknown, err := e.CoOccurrence(ctx, "Haskell", 1)
	require.NoError(t, err)
	assert.Empty(t, unknown.Related)
	assert.Equal(t, 0, unknown.TotalPostings)

	_, err = e.CoOccurrence(ctx, "Python", -1)
	assert.ErrorIs(t, err, schema.ErrInvalidInput)
	_, err = e.CoOccurrence(ctx, "  ", 1)
	assert.ErrorIs(t, err, schema.ErrInvalidInput)
}

func TestSkillNetwork(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(newSource(t, coOccurrenceDataset()))

	network, err := e.SkillNetwork(ctx, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, []schema.NetworkNode{{Skill: "Python", Count: 6}, {Skill: "SQL", Count: 5}, {Skill: "Docker", Count: 4}}, network.Nodes)
	assert.Equal(t, []schema.NetworkEdge{
		{Source: "Python", Target: "SQL", Count: 5},
		{Source: "Docker", Target: "Python", Count: 4},
		{Source: "Docker", Target: "SQL", Count: 4},
	}, network.Edges)

	small, err := e.SkillNetwork(ctx, 0, 2)
	require.NoError(t, err)
	assert.Len(t, small.Nodes, 2)
	assert.Len(t, small.Edges, 1)

	_, err = e.SkillNetwork(ctx, -1, 5)
	assert.ErrorIs(t, err, schema.ErrInvalidInput)
}

func TestMarketOverview(t *testing.T) {
	ctx := context.Background()

	empty := NewEngine(newSource(t, schema.Dataset{}))
	overview, err := empty.MarketOverview(ctx)
	require.NoError(t, err)
	assert.Equal(t, schema.MarketOverview{}, overview)

	d := salaryDataset()
	d.Jobs[0].CompanyID = "acme"
	d.Jobs[0].WorkType = schema.RemoteWork
	d.Jobs[1].Active = false
	d.Companies = []schema.Company{{ID: "acme", Name: "Acme", Industries: []string{"Software"}}, {ID: "idle", Name: "Idle"}}
	e := NewEngine(newSource(t, d))

	overview, err = e.MarketOverview(ctx)
	require.NoError(t, err)
	assert.Equal(t, schema.JobsOverview{Total: 7, Active: 6, Inactive: 1, Remote: 1}, overview.Jobs)
	assert.Equal(t, schema.CompaniesOverview{Total: 2, CurrentlyHiring: 1}, overview.Companies)
	assert.Equal(t, schema.SkillsOverview{Total: 2, MostInDemand: "Go", DemandCount: 7}, overview.Skills)
	assert.Equal(t, 6, overview.Salaries.Count)
	assert.Equal(t, schema.IndustriesOverview{Total: 1, Top: "Software"}, overview.Industries)
}

func TestLocationAndCompanyInsights(t *testing.T) {
	ctx := context.Background()
	d := salaryDataset()
	d.Jobs[0].CompanyID = "acme"
	d.Jobs[1].CompanyID = "acme"
	d.Companies = []schema.Company{{ID: "acme", Name: "Acme", FollowerCount: 10}}
	e := NewEngine(newSource(t, d))

	locations, err := e.LocationInsights(ctx, 1)
	require.NoError(t, err)
	require.Len(t, locations.Locations, 1)
	assert.Equal(t, "Austin", locations.Locations[0].City)
	assert.Equal(t, 5, locations.Locations[0].Count)
	assert.Equal(t, 140000.0, locations.Locations[0].MedianSalary)

	companies, err := e.CompanyInsights(ctx, 10)
	require.NoError(t, err)
	require.Len(t, companies.Companies, 1)
	assert.Equal(t, "Acme", companies.Companies[0].Company)
	assert.Equal(t, 2, companies.Companies[0].ActivePostings)
	assert.Equal(t, []string{"Go"}, companies.Companies[0].TopSkills)
}

func TestCompareSkills(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(newSource(t, salaryDataset()))

	result, err := e.CompareSkills(ctx, []string{"sql", "Go", "GO", "Haskell"})
	require.NoError(t, err)
	require.Len(t, result.Skills, 3)

	assert.Equal(t, "SQL", result.Skills[0].Skill)
	assert.Equal(t, "Go", result.Skills[1].Skill)
	assert.Equal(t, "haskell", result.Skills[2].Skill) // unknown skills echo the normalized key
	for i, s := range result.Skills {
		assert.Equal(t, i+1, s.Rank)
	}

	assert.Equal(t, 7, result.Skills[1].Count)
	assert.InDelta(t, 130000.0, result.Skills[1].MedianSalary, 1e-6)
	assert.Equal(t, 0, result.Skills[2].Count)
	assert.Zero(t, result.Skills[2].MedianSalary)

	// Go has the most postings of the compared set, Haskell the fewest.
	assert.Equal(t, 100.0, result.Skills[1].Breakdown[schema.BreakdownVolume])
	assert.Equal(t, 0.0, result.Skills[2].Breakdown[schema.BreakdownVolume])

	_, err = e.CompareSkills(ctx, []string{" ", ""})
	assert.ErrorIs(t, err, schema.ErrInvalidInput)
}

func TestEngineDeterministicJSON(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(newSource(t, trendDataset()))

	type call func() (any, error)
	calls := map[string]call{
		"top":      func() (any, error) { return e.TopSkills(ctx, 0, schema.SortByHotness) },
		"trending": func() (any, error) { return e.TrendingSkills(ctx, 3, 0) },
		"network":  func() (any, error) { return e.SkillNetwork(ctx, 0, 0) },
		"overview": func() (any, error) { return e.MarketOverview(ctx) },
		"compare":  func() (any, error) { return e.CompareSkills(ctx, []string{"Go", "Rust", "SQL"}) },
		"benefits": func() (any, error) { return e.BenefitsAnalysis(ctx, 0) },
	}
	for name, c := range calls {
		t.Run(name, func(t *testing.T) {
			first, err := c()
			require.NoError(t, err)
			want := mustJSON(t, first)

			var wg sync.WaitGroup
			got := make([]string, 8)
			for i := range got {
				wg.Add(1)
				go func() {
					defer wg.Done()
					v, err := c()
					if assert.NoError(t, err) {
						data, _ := json.Marshal(v)
						got[i] = string(data)
					}
				}()
			}
			wg.Wait()
			for _, g := range got {
				assert.Equal(t, want, g)
			}
		})
	}
}

func TestSourceFailures(t *testing.T) {
	ctx := context.Background()

	versionFails := &contract.MockDataSource{}
	versionFails.On("Version", ctx).Return("", assert.AnError)
	_, err := NewEngine(versionFails).TopSkills(ctx, 5, schema.SortByCount)
	assert.ErrorIs(t, err, schema.ErrSourceUnavailable)
	assert.ErrorIs(t, err, assert.AnError)

	jobsFail := &contract.MockDataSource{}
	jobsFail.On("Version", ctx).Return("v1", nil)
	jobsFail.On("Jobs", ctx, schema.JobFilter{Skill: "Go"}).Return(nil, assert.AnError)
	_, err = NewEngine(jobsFail).CoOccurrence(ctx, "Go", 1)
	assert.ErrorIs(t, err, schema.ErrSourceUnavailable)

	statusFails := &contract.MockDataSource{}
	statusFails.On("Status", ctx).Return(schema.SourceStatus{}, assert.AnError)
	_, err = NewEngine(statusFails).SourceStatus(ctx)
	assert.ErrorIs(t, err, schema.ErrSourceUnavailable)
}
