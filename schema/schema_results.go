package schema

// HotnessBreakdown holds the normalized signals and composite score of one cohort member.
type HotnessBreakdown struct {
	Score     float64                  `json:"score" yaml:"score"`
	Breakdown map[BreakdownKey]float64 `json:"breakdown" yaml:"breakdown"`
}

// SkillStat is one ranked skill row.
type SkillStat struct {
	Rank          int                      `json:"rank" yaml:"rank"`
	Skill         string                   `json:"skill" yaml:"skill"`
	Count         int                      `json:"count" yaml:"count"`
	GrowthRate    float64                  `json:"growth_rate" yaml:"growth_rate"`
	GrowthDefined bool                     `json:"growth_defined" yaml:"growth_defined"`
	SalaryPremium float64                  `json:"salary_premium" yaml:"salary_premium"`
	DemandGap     float64                  `json:"demand_gap" yaml:"demand_gap"`
	MedianSalary  float64                  `json:"median_salary" yaml:"median_salary"`
	Hotness       float64                  `json:"hotness" yaml:"hotness"`
	Label         string                   `json:"label" yaml:"label"`
	Breakdown     map[BreakdownKey]float64 `json:"breakdown,omitempty" yaml:"breakdown,omitempty"`
}

// TopSkillsResult is the output of the top skills query.
type TopSkillsResult struct {
	SortKey     SortKey     `json:"sort_key" yaml:"sort_key"`
	CohortSize  int         `json:"cohort_size" yaml:"cohort_size"`
	TotalJobs   int         `json:"total_jobs" yaml:"total_jobs"`
	DataVersion string      `json:"data_version" yaml:"data_version"`
	Skills      []SkillStat `json:"skills" yaml:"skills"`
}

// TrendingSkill is one skill whose growth exceeded the threshold.
type TrendingSkill struct {
	Skill      string        `json:"skill" yaml:"skill"`
	Count      int           `json:"count" yaml:"count"`
	GrowthRate float64       `json:"growth_rate" yaml:"growth_rate"`
	Hotness    float64       `json:"hotness" yaml:"hotness"`
	Trend      TrendLabel    `json:"trend" yaml:"trend"`
	Series     []SeriesPoint `json:"series" yaml:"series"`
}

// TrendingResult is the output of the trending skills query.
type TrendingResult struct {
	WindowMonths    int             `json:"window_months" yaml:"window_months"`
	GrowthThreshold float64         `json:"growth_threshold" yaml:"growth_threshold"`
	FromMonth       string          `json:"from_month" yaml:"from_month"`
	ToMonth         string          `json:"to_month" yaml:"to_month"`
	Skills          []TrendingSkill `json:"skills" yaml:"skills"`
}

// HistogramBucket is a [Low, High) range except for the final bucket which is closed.
type HistogramBucket struct {
	Low   float64 `json:"low" yaml:"low"`
	High  float64 `json:"high" yaml:"high"`
	Count int     `json:"count" yaml:"count"`
}

// SalaryFilter selects salary observations by skill and/or location.
type SalaryFilter struct {
	Skill    string `json:"skill,omitempty" yaml:"skill,omitempty"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
}

// SalaryDistribution is the output of the salary distribution query.
// InsufficientData is set instead of failing when fewer than two observations match.
type SalaryDistribution struct {
	Filter           SalaryFilter      `json:"filter" yaml:"filter"`
	InsufficientData bool              `json:"insufficient_data" yaml:"insufficient_data"`
	Count            int               `json:"count" yaml:"count"`
	Mean             float64           `json:"mean" yaml:"mean"`
	Median           float64           `json:"median" yaml:"median"`
	Min              float64           `json:"min" yaml:"min"`
	Max              float64           `json:"max" yaml:"max"`
	P25              float64           `json:"p25" yaml:"p25"`
	P75              float64           `json:"p75" yaml:"p75"`
	StdDev           float64           `json:"std_dev" yaml:"std_dev"`
	Histogram        []HistogramBucket `json:"histogram" yaml:"histogram"`
}

// CoOccurrence is one co-occurring skill.
type CoOccurrence struct {
	Skill string  `json:"skill" yaml:"skill"`
	Count int     `json:"count" yaml:"count"`
	Rate  float64 `json:"rate" yaml:"rate"` // percent of postings with the anchor skill
}

// CoOccurrenceResult is the output of the co-occurrence query.
type CoOccurrenceResult struct {
	Skill          string         `json:"skill" yaml:"skill"`
	MinConnections int            `json:"min_connections" yaml:"min_connections"`
	TotalPostings  int            `json:"total_postings" yaml:"total_postings"`
	Related        []CoOccurrence `json:"related" yaml:"related"`
}

// NetworkNode is a skill in the co-occurrence network.
type NetworkNode struct {
	Skill string `json:"skill" yaml:"skill"`
	Count int    `json:"count" yaml:"count"`
}

// NetworkEdge is a weighted undirected edge with Source < Target.
type NetworkEdge struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Count  int    `json:"count" yaml:"count"`
}

// SkillNetwork is the co-occurrence graph among the top skills.
type SkillNetwork struct {
	Nodes []NetworkNode `json:"nodes" yaml:"nodes"`
	Edges []NetworkEdge `json:"edges" yaml:"edges"`
}

// JobsOverview summarizes postings.
type JobsOverview struct {
	Total    int `json:"total" yaml:"total"`
	Active   int `json:"active" yaml:"active"`
	Inactive int `json:"inactive" yaml:"inactive"`
	Remote   int `json:"remote" yaml:"remote"`
	Hybrid   int `json:"hybrid" yaml:"hybrid"`
	Onsite   int `json:"onsite" yaml:"onsite"`
}

// CompaniesOverview summarizes companies.
type CompaniesOverview struct {
	Total           int `json:"total" yaml:"total"`
	CurrentlyHiring int `json:"currently_hiring" yaml:"currently_hiring"`
}

// SkillsOverview summarizes skills.
type SkillsOverview struct {
	Total        int    `json:"total" yaml:"total"`
	MostInDemand string `json:"most_in_demand" yaml:"most_in_demand"`
	DemandCount  int    `json:"demand_count" yaml:"demand_count"`
}

// SalariesOverview summarizes annualized salary observations.
type SalariesOverview struct {
	Count int     `json:"count" yaml:"count"`
	Avg   float64 `json:"avg" yaml:"avg"`
	Min   float64 `json:"min" yaml:"min"`
	Max   float64 `json:"max" yaml:"max"`
}

// IndustriesOverview summarizes industries.
type IndustriesOverview struct {
	Total int    `json:"total" yaml:"total"`
	Top   string `json:"top" yaml:"top"`
}

// MarketOverview is the output of the market overview query. It is always well-formed.
type MarketOverview struct {
	Jobs       JobsOverview       `json:"jobs" yaml:"jobs"`
	Companies  CompaniesOverview  `json:"companies" yaml:"companies"`
	Skills     SkillsOverview     `json:"skills" yaml:"skills"`
	Salaries   SalariesOverview   `json:"salaries" yaml:"salaries"`
	Industries IndustriesOverview `json:"industries" yaml:"industries"`
}

// LocationStat is one ranked city.
type LocationStat struct {
	City         string  `json:"city" yaml:"city"`
	State        string  `json:"state" yaml:"state"`
	Count        int     `json:"count" yaml:"count"`
	RemoteShare  float64 `json:"remote_share" yaml:"remote_share"`
	MedianSalary float64 `json:"median_salary" yaml:"median_salary"`
}

// LocationInsights ranks cities by posting count.
type LocationInsights struct {
	Locations []LocationStat `json:"locations" yaml:"locations"`
}

// CompanyStat is one ranked company.
type CompanyStat struct {
	Company        string   `json:"company" yaml:"company"`
	ActivePostings int      `json:"active_postings" yaml:"active_postings"`
	Followers      int      `json:"followers" yaml:"followers"`
	Employees      int      `json:"employees" yaml:"employees"`
	TopSkills      []string `json:"top_skills" yaml:"top_skills"`
}

// CompanyInsights ranks companies by active postings.
type CompanyInsights struct {
	Companies []CompanyStat `json:"companies" yaml:"companies"`
}

// SkillComparison compares a chosen set of skills. Hotness is scored within that set.
type SkillComparison struct {
	Skills []SkillStat `json:"skills" yaml:"skills"`
}

// ForecastPoint is one predicted month.
type ForecastPoint struct {
	Month      string  `json:"month" yaml:"month"`
	Predicted  float64 `json:"predicted" yaml:"predicted"`
	LowerBound float64 `json:"lower_bound" yaml:"lower_bound"`
	UpperBound float64 `json:"upper_bound" yaml:"upper_bound"`
}

// ForecastOutput is what an external forecaster returns before normalization.
type ForecastOutput struct {
	Method     string          `json:"method"`
	Confidence float64         `json:"confidence"`
	Points     []ForecastPoint `json:"points"`
}

// ForecastResult is the normalized forecast returned to callers.
type ForecastResult struct {
	Skill      string          `json:"skill" yaml:"skill"`
	Method     string          `json:"method" yaml:"method"`
	Confidence float64         `json:"confidence" yaml:"confidence"`
	History    []SeriesPoint   `json:"history" yaml:"history"`
	Forecast   []ForecastPoint `json:"forecast" yaml:"forecast"`
}

// OccupationStat is one ranked job title. Titles are grouped case-insensitively.
type OccupationStat struct {
	Rank          int     `json:"rank" yaml:"rank"`
	Occupation    string  `json:"occupation" yaml:"occupation"`
	Count         int     `json:"count" yaml:"count"`
	GrowthRate    float64 `json:"growth_rate" yaml:"growth_rate"`
	GrowthDefined bool    `json:"growth_defined" yaml:"growth_defined"`
	SalaryPremium float64 `json:"salary_premium" yaml:"salary_premium"`
	DemandGap     float64 `json:"demand_gap" yaml:"demand_gap"`
	MedianSalary  float64 `json:"median_salary" yaml:"median_salary"`
	Hotness       float64 `json:"hotness" yaml:"hotness"`
	Label         string  `json:"label" yaml:"label"`
}

// TopOccupationsResult is the output of the top occupations query.
type TopOccupationsResult struct {
	SortKey     SortKey          `json:"sort_key" yaml:"sort_key"`
	CohortSize  int              `json:"cohort_size" yaml:"cohort_size"`
	ActiveJobs  int              `json:"active_jobs" yaml:"active_jobs"`
	DataVersion string           `json:"data_version" yaml:"data_version"`
	Occupations []OccupationStat `json:"occupations" yaml:"occupations"`
}

// SkippedForecast names a skill a batch forecast could not cover and why.
type SkippedForecast struct {
	Skill  string    `json:"skill" yaml:"skill"`
	Kind   ErrorKind `json:"kind" yaml:"kind"`
	Reason string    `json:"reason" yaml:"reason"`
}

// BatchForecastResult holds the forecasts of the busiest skills, busiest first.
type BatchForecastResult struct {
	Periods   int               `json:"periods" yaml:"periods"`
	Forecasts []ForecastResult  `json:"forecasts" yaml:"forecasts"`
	Skipped   []SkippedForecast `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// SalaryPoint is the median annualized salary of one month.
type SalaryPoint struct {
	Period string  `json:"period" yaml:"period"`
	Median float64 `json:"median" yaml:"median"`
	Count  int     `json:"count" yaml:"count"`
}

// SalaryTrendResult describes a skill's salary history and its forecast.
type SalaryTrendResult struct {
	Skill        string          `json:"skill" yaml:"skill"`
	Observations int             `json:"observations" yaml:"observations"`
	Mean         float64         `json:"mean" yaml:"mean"`
	Median       float64         `json:"median" yaml:"median"`
	StdDev       float64         `json:"std_dev" yaml:"std_dev"`
	Method       string          `json:"method" yaml:"method"`
	Confidence   float64         `json:"confidence" yaml:"confidence"`
	History      []SalaryPoint   `json:"history" yaml:"history"`
	Forecast     []ForecastPoint `json:"forecast" yaml:"forecast"`
}

// BenefitStat is one ranked benefit. Percentage is relative to postings listing any benefit.
type BenefitStat struct {
	Benefit    string  `json:"benefit" yaml:"benefit"`
	Count      int     `json:"count" yaml:"count"`
	Inferred   int     `json:"inferred" yaml:"inferred"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// BenefitsAnalysis is the output of the benefits query.
type BenefitsAnalysis struct {
	TotalJobs        int           `json:"total_jobs" yaml:"total_jobs"`
	JobsWithBenefits int           `json:"jobs_with_benefits" yaml:"jobs_with_benefits"`
	AveragePerJob    float64       `json:"average_per_job" yaml:"average_per_job"`
	TopBenefits      []BenefitStat `json:"top_benefits" yaml:"top_benefits"`
}
