// Package parquet provides data structures and functions for exporting skillspot
// analysis data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/skillspot/schema"
	"github.com/parquet-go/parquet-go"
)

// AnalysisRun represents a single recorded analysis run with metadata.
// This struct maps to the skillspot_analysis_runs database table.
type AnalysisRun struct {
	// AnalysisID is the unique identifier for this analysis run
	AnalysisID int64 `parquet:"analysis_id,snappy"`

	// StartTime is when the analysis began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the analysis completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the analysis run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalSkillsScored is the number of skills scored in this run
	TotalSkillsScored int32 `parquet:"total_skills_scored,snappy"`

	// DataVersion identifies the dataset load the run was computed from
	DataVersion string `parquet:"data_version,snappy"`

	// ConfigParams contains the JSON-encoded query parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// SkillScore represents the signals and hotness of one skill in an analysis.
// This struct maps to the skillspot_skill_scores database table.
type SkillScore struct {
	AnalysisID    int64     `parquet:"analysis_id,snappy"`
	Skill         string    `parquet:"skill,snappy"`
	AnalysisTime  time.Time `parquet:"analysis_time,snappy"`
	Operation     string    `parquet:"operation,snappy,dict"`
	JobCount      int32     `parquet:"job_count,snappy"`
	GrowthRate    float64   `parquet:"growth_rate,snappy"`
	SalaryPremium float64   `parquet:"salary_premium,snappy"`
	DemandGap     float64   `parquet:"demand_gap,snappy"`
	Hotness       float64   `parquet:"hotness,snappy"`
	ScoreLabel    string    `parquet:"score_label,snappy,dict"`
}

// writeParquet writes rows of any struct type to a Parquet file.
// The schema is derived from the struct tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	// Close flushes the row groups and the footer.
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return file.Close()
}

// WriteAnalysisRunsParquet writes a slice of AnalysisRun structs to a Parquet file.
func WriteAnalysisRunsParquet(data []AnalysisRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteSkillScoresParquet writes a slice of SkillScore structs to a Parquet file.
func WriteSkillScoresParquet(data []SkillScore, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertAnalysisRunRecords converts store records into Parquet rows.
func ConvertAnalysisRunRecords(records []schema.AnalysisRunRecord) []AnalysisRun {
	out := make([]AnalysisRun, len(records))
	for i, r := range records {
		out[i] = AnalysisRun{
			AnalysisID:        r.AnalysisID,
			StartTime:         r.StartTime,
			EndTime:           r.EndTime,
			RunDurationMs:     r.RunDurationMs,
			TotalSkillsScored: r.TotalSkillsScored,
			DataVersion:       r.DataVersion,
			ConfigParams:      r.ConfigParams,
		}
	}
	return out
}

// ConvertSkillScoreRecords converts store records into Parquet rows.
func ConvertSkillScoreRecords(records []schema.SkillScoreRecord) []SkillScore {
	out := make([]SkillScore, len(records))
	for i, r := range records {
		out[i] = SkillScore{
			AnalysisID:    r.AnalysisID,
			Skill:         r.Skill,
			AnalysisTime:  r.AnalysisTime,
			Operation:     r.Operation,
			JobCount:      r.JobCount,
			GrowthRate:    r.GrowthRate,
			SalaryPremium: r.SalaryPremium,
			DemandGap:     r.DemandGap,
			Hotness:       r.Hotness,
			ScoreLabel:    r.ScoreLabel,
		}
	}
	return out
}
