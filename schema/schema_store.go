package schema

import "time"

// SkillScore is the per-skill row recorded for one analysis run.
type SkillScore struct {
	AnalysisTime  time.Time
	Operation     string
	Count         int
	GrowthRate    float64
	SalaryPremium float64
	DemandGap     float64
	Hotness       float64
	Label         string
}

// AnalysisRunRecord represents a row from the skillspot_analysis_runs table.
type AnalysisRunRecord struct {
	AnalysisID        int64
	StartTime         time.Time
	EndTime           *time.Time
	RunDurationMs     *int32
	TotalSkillsScored int32
	DataVersion       string
	ConfigParams      *string
}

// SkillScoreRecord represents a row from the skillspot_skill_scores table.
type SkillScoreRecord struct {
	AnalysisID    int64
	Skill         string
	AnalysisTime  time.Time
	Operation     string
	JobCount      int32
	GrowthRate    float64
	SalaryPremium float64
	DemandGap     float64
	Hotness       float64
	ScoreLabel    string
}
