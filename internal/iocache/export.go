package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/internal/parquet"
)

// ExecuteAnalysisExport exports the runs and skill scores of the store to two Parquet files
// named after outputFile.
func ExecuteAnalysisExport(store contract.AnalysisStore, outputFile string, out io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("analysis tracking is disabled")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get analysis status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no analysis data found to export")
	}

	_, _ = fmt.Fprintf(out, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(out, "Total analysis runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(out, "Total skill score records: %d\n", status.TableSizes[skillScoresTable])

	analysisRuns, err := store.GetAllAnalysisRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve analysis runs: %w", err)
	}
	skillScores, err := store.GetAllSkillScores()
	if err != nil {
		return fmt.Errorf("failed to retrieve skill scores: %w", err)
	}

	runs := parquet.ConvertAnalysisRunRecords(analysisRuns)
	runsFile := outputFile + ".analysis_runs.parquet"
	if err := parquet.WriteAnalysisRunsParquet(runs, runsFile); err != nil {
		return fmt.Errorf("failed to write analysis runs: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Exported %d analysis runs to: %s\n", len(runs), runsFile)

	scores := parquet.ConvertSkillScoreRecords(skillScores)
	scoresFile := outputFile + ".skill_scores.parquet"
	if err := parquet.WriteSkillScoresParquet(scores, scoresFile); err != nil {
		return fmt.Errorf("failed to write skill scores: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Exported %d skill score records to: %s\n", len(scores), scoresFile)

	return nil
}
