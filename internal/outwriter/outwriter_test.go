package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testTopSkills() schema.TopSkillsResult {
	return schema.TopSkillsResult{
		SortKey:     schema.SortByHotness,
		CohortSize:  3,
		TotalJobs:   12,
		DataVersion: "v1",
		Skills: []schema.SkillStat{
			{
				Rank: 1, Skill: "Python", Count: 8, GrowthRate: 25, GrowthDefined: true, MedianSalary: 125000.4, Hotness: 82.5, Label: "Critical",
				Breakdown: map[schema.BreakdownKey]float64{schema.BreakdownVolume: 100, schema.BreakdownGrowth: 50},
			},
			{Rank: 2, Skill: "Rust", Count: 1, Hotness: 10, Label: "Low"},
		},
	}
}

func outputCfg(t *testing.T, mode schema.OutputMode, name string) *contract.Config {
	t.Helper()
	return &contract.Config{
		Output:       mode,
		OutputFile:   filepath.Join(t.TempDir(), name),
		Precision:    1,
		CacheBackend: schema.MemoryBackend,
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestWriteTopSkillsFormats(t *testing.T) {
	ow := NewOutWriter()
	result := testTopSkills()

	t.Run("json", func(t *testing.T) {
		cfg := outputCfg(t, schema.JSONOut, "out.json")
		require.NoError(t, ow.WriteTopSkills(result, cfg, time.Second))
		var decoded schema.TopSkillsResult
		require.NoError(t, json.Unmarshal([]byte(readFile(t, cfg.OutputFile)), &decoded))
		assert.Equal(t, result, decoded)
	})

	t.Run("yaml", func(t *testing.T) {
		cfg := outputCfg(t, schema.YAMLOut, "out.yaml")
		require.NoError(t, ow.WriteTopSkills(result, cfg, time.Second))
		var decoded schema.TopSkillsResult
		require.NoError(t, yaml.Unmarshal([]byte(readFile(t, cfg.OutputFile)), &decoded))
		assert.Equal(t, result.Skills[0].Skill, decoded.Skills[0].Skill)
		assert.Equal(t, result.DataVersion, decoded.DataVersion)
	})

	t.Run("csv", func(t *testing.T) {
		cfg := outputCfg(t, schema.CSVOut, "out.csv")
		require.NoError(t, ow.WriteTopSkills(result, cfg, time.Second))
		records, err := csv.NewReader(strings.NewReader(readFile(t, cfg.OutputFile))).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, []string{
			"rank", "skill", "count", "growth_pct", "premium_pct", "demand_gap", "median_salary", "hotness", "label", "drivers",
		}, records[0])
		assert.Equal(t, []string{"1", "Python", "8", "25.0", "0.0", "0.0", "125000", "82.5", "Critical", "volume > growth"}, records[1])
		assert.Equal(t, "", records[2][3], "undefined growth is empty in CSV")
	})

	t.Run("text", func(t *testing.T) {
		cfg := outputCfg(t, schema.TextOut, "out.txt")
		cfg.UseColors = true // files never get colors
		require.NoError(t, ow.WriteTopSkills(result, cfg, time.Second))
		out := readFile(t, cfg.OutputFile)
		assert.Contains(t, out, "Top skills by hotness")
		assert.Contains(t, out, "125,000")
		assert.Contains(t, out, "n/a")
		assert.Contains(t, out, "Showing top 2 of 3 skills (total postings: 12, data version: v1)")
		assert.NotContains(t, out, "\x1b[")
	})
}

func TestWriteSalary(t *testing.T) {
	ow := NewOutWriter()
	result := schema.SalaryDistribution{
		Filter: schema.SalaryFilter{Skill: "Go", Location: "austin"},
		Count:  3, Mean: 120000, Median: 120000, Min: 100000, Max: 140000, P25: 110000, P75: 130000, StdDev: 16329.9,
		Histogram: []schema.HistogramBucket{{Low: 100000, High: 120000, Count: 1}, {Low: 120000, High: 140000, Count: 2}},
	}

	cfg := outputCfg(t, schema.TextOut, "salary.txt")
	require.NoError(t, ow.WriteSalary(result, cfg, time.Millisecond))
	out := readFile(t, cfg.OutputFile)
	assert.Contains(t, out, "Salary distribution for Go in austin (3 observations)")
	assert.Contains(t, out, "Median 120,000")

	cfg = outputCfg(t, schema.CSVOut, "salary.csv")
	require.NoError(t, ow.WriteSalary(result, cfg, time.Millisecond))
	assert.Equal(t, "low,high,count\n100000,120000,1\n120000,140000,2\n", readFile(t, cfg.OutputFile))

	insufficient := schema.SalaryDistribution{InsufficientData: true, Count: 1, Histogram: []schema.HistogramBucket{}}
	cfg = outputCfg(t, schema.TextOut, "none.txt")
	require.NoError(t, ow.WriteSalary(insufficient, cfg, time.Millisecond))
	assert.Contains(t, readFile(t, cfg.OutputFile), "Not enough salary observations")
}

func TestWriteOtherResults(t *testing.T) {
	ow := NewOutWriter()
	cases := []struct {
		name  string
		write func(cfg *contract.Config) error
		want  []string
	}{
		{
			name: "trending",
			write: func(cfg *contract.Config) error {
				return ow.WriteTrending(schema.TrendingResult{
					WindowMonths: 3, GrowthThreshold: 10, FromMonth: "2024-01", ToMonth: "2024-03",
					Skills: []schema.TrendingSkill{{Skill: "Go", Count: 10, GrowthRate: 150, Trend: schema.TrendHot, Series: []schema.SeriesPoint{
						{Period: "2024-01", Count: 2}, {Period: "2024-02", Count: 3}, {Period: "2024-03", Count: 5},
					}}},
				}, cfg, time.Second)
			},
			want: []string{"2024-01 → 2024-03", "HOT", "2 3 5"},
		},
		{
			name: "cooccurrence",
			write: func(cfg *contract.Config) error {
				return ow.WriteCoOccurrence(schema.CoOccurrenceResult{
					Skill: "Python", TotalPostings: 6, MinConnections: 3,
					Related: []schema.CoOccurrence{{Skill: "SQL", Count: 5, Rate: 83.33}},
				}, cfg, time.Second)
			},
			want: []string{"co-occurring with Python (6 postings)", "SQL", "83.3%"},
		},
		{
			name: "network",
			write: func(cfg *contract.Config) error {
				return ow.WriteNetwork(schema.SkillNetwork{
					Nodes: []schema.NetworkNode{{Skill: "Python", Count: 6}, {Skill: "SQL", Count: 5}},
					Edges: []schema.NetworkEdge{{Source: "Python", Target: "SQL", Count: 5}},
				}, cfg, time.Second)
			},
			want: []string{"2 nodes, 1 edges", "Nodes: Python (6), SQL (5)"},
		},
		{
			name: "overview",
			write: func(cfg *contract.Config) error {
				return ow.WriteOverview(schema.MarketOverview{
					Jobs:   schema.JobsOverview{Total: 7, Active: 6},
					Skills: schema.SkillsOverview{Total: 4, MostInDemand: "Python", DemandCount: 4},
				}, cfg, time.Second)
			},
			want: []string{"jobs.total", "skills.most_in_demand", "Python"},
		},
		{
			name: "locations",
			write: func(cfg *contract.Config) error {
				return ow.WriteLocations(schema.LocationInsights{Locations: []schema.LocationStat{
					{City: "austin", State: "tx", Count: 3, RemoteShare: 33.3, MedianSalary: 120000},
				}}, cfg, time.Second)
			},
			want: []string{"austin", "33.3%", "120,000"},
		},
		{
			name: "companies",
			write: func(cfg *contract.Config) error {
				return ow.WriteCompanies(schema.CompanyInsights{Companies: []schema.CompanyStat{
					{Company: "Acme", ActivePostings: 3, TopSkills: []string{"Go", "SQL"}},
				}}, cfg, time.Second)
			},
			want: []string{"Acme", "Go, SQL"},
		},
		{
			name: "comparison",
			write: func(cfg *contract.Config) error {
				return ow.WriteComparison(schema.SkillComparison{Skills: []schema.SkillStat{
					{Rank: 1, Skill: "Go", Count: 5, Hotness: 65},
				}}, cfg, time.Second)
			},
			want: []string{"Skill comparison", "High", "relative to the 1 compared skills"},
		},
		{
			name: "forecast",
			write: func(cfg *contract.Config) error {
				return ow.WriteForecast(schema.ForecastResult{
					Skill: "Go", Method: "linear", Confidence: 72.5,
					History:  []schema.SeriesPoint{{Period: "2024-01", Count: 4}},
					Forecast: []schema.ForecastPoint{{Month: "2024-02", Predicted: 5, LowerBound: 4, UpperBound: 6}},
				}, cfg, time.Second)
			},
			want: []string{"Demand forecast for Go (linear, confidence 72.5%)", "actual", "forecast"},
		},
		{
			name: "occupations",
			write: func(cfg *contract.Config) error {
				return ow.WriteOccupations(schema.TopOccupationsResult{
					SortKey: schema.SortByCount, CohortSize: 2, ActiveJobs: 9, DataVersion: "v2",
					Occupations: []schema.OccupationStat{{Rank: 1, Occupation: "Data Engineer", Count: 6, MedianSalary: 130000, Hotness: 70}},
				}, cfg, time.Second)
			},
			want: []string{"Top occupations by count", "Data Engineer", "130,000", "1 of 2 occupations (active postings: 9"},
		},
		{
			name: "batch forecast",
			write: func(cfg *contract.Config) error {
				return ow.WriteBatchForecast(schema.BatchForecastResult{
					Periods: 2,
					Forecasts: []schema.ForecastResult{{
						Skill: "Go", Method: "linear", Confidence: 80,
						History:  []schema.SeriesPoint{{Period: "2024-01", Count: 4}},
						Forecast: []schema.ForecastPoint{{Month: "2024-02", Predicted: 5}, {Month: "2024-03", Predicted: 6.5}},
					}},
					Skipped: []schema.SkippedForecast{{Skill: "Rust", Kind: schema.KindInsufficientHistory, Reason: "need more"}},
				}, cfg, time.Second)
			},
			want: []string{"top 2 skills", "Go", "6.5", "Skipped Rust: INSUFFICIENT_HISTORY", "1 forecast, 1 skipped, 2 months ahead"},
		},
		{
			name: "salary trend",
			write: func(cfg *contract.Config) error {
				return ow.WriteSalaryTrend(schema.SalaryTrendResult{
					Skill: "Go", Observations: 7, Mean: 104571.4, Median: 105000, Method: "linear", Confidence: 90,
					History:  []schema.SalaryPoint{{Period: "2024-01", Median: 101000, Count: 1}},
					Forecast: []schema.ForecastPoint{{Month: "2024-02", Predicted: 109000, LowerBound: 107000, UpperBound: 111000}},
				}, cfg, time.Second)
			},
			want: []string{"Salary trend for Go (linear, confidence 90.0%)", "101,000", "111,000", "over 7 observations"},
		},
		{
			name: "benefits",
			write: func(cfg *contract.Config) error {
				return ow.WriteBenefits(schema.BenefitsAnalysis{
					TotalJobs: 8, JobsWithBenefits: 3, AveragePerJob: 1.67,
					TopBenefits: []schema.BenefitStat{{Benefit: "Medical insurance", Count: 3, Inferred: 1, Percentage: 100}},
				}, cfg, time.Second)
			},
			want: []string{"3 of 8 postings list benefits", "Medical insurance", "100.0%", "1.7 benefits per posting"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := outputCfg(t, schema.TextOut, tc.name+".txt")
			require.NoError(t, tc.write(cfg))
			out := readFile(t, cfg.OutputFile)
			for _, want := range tc.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestWriteMetrics(t *testing.T) {
	ow := NewOutWriter()

	cfg := outputCfg(t, schema.TextOut, "metrics.txt")
	require.NoError(t, ow.WriteMetrics(cfg))
	out := readFile(t, cfg.OutputFile)
	assert.Contains(t, out, "Hotness = 0.30*volume + 0.30*growth + 0.20*salary_premium + 0.20*demand_gap")
	assert.Contains(t, out, "Critical >= 80")

	cfg = outputCfg(t, schema.JSONOut, "metrics.json")
	require.NoError(t, ow.WriteMetrics(cfg))
	var model metricsRenderModel
	require.NoError(t, json.Unmarshal([]byte(readFile(t, cfg.OutputFile)), &model))
	require.Len(t, model.Factors, 4)
	var total float64
	for _, f := range model.Factors {
		total += f.Weight
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestFormatterHelpers(t *testing.T) {
	assert.Equal(t, "1,234,567", groupThousands(1234567))
	assert.Equal(t, "-1,000", groupThousands(-1000))
	assert.Equal(t, "999", groupThousands(999))

	assert.Equal(t, []string{"rank", "growth_pct", "active_postings"}, csvHeader([]string{"Rank", "Growth %", "Active Postings"}))

	assert.Equal(t, "Not applicable", formatBreakdown(nil))
	assert.Equal(t, "demand_gap > volume", formatBreakdown(map[schema.BreakdownKey]float64{
		schema.BreakdownVolume:    10,
		schema.BreakdownDemandGap: 100,
	}))

	text := formatter{precision: 2, textWidth: 8}
	assert.Equal(t, "Machi...", text.text("Machine Learning"))
	assert.Equal(t, "12.50%", text.percent(12.5))
	assert.Equal(t, "n/a", growthCell(text, 0, false))

	plain := formatter{precision: 2, plain: true, textWidth: 8}
	assert.Equal(t, "Machine Learning", plain.text("Machine Learning"))
	assert.Equal(t, "12.50", plain.percent(12.5))
	assert.Equal(t, "Low", plain.label(10))
}

func TestMaxTextWidth(t *testing.T) {
	assert.Equal(t, 15, maxTextWidth(&contract.Config{Width: 40}))
	assert.Equal(t, 40, maxTextWidth(&contract.Config{Width: 100}))
	assert.Equal(t, 50, maxTextWidth(&contract.Config{Width: 300}))
}
