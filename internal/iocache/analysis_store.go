package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/internal/sqldb"
	"github.com/huangsam/skillspot/schema"
)

// Table names for analysis tracking.
const (
	analysisRunsTable       = "skillspot_analysis_runs"
	skillScoresTable        = "skillspot_skill_scores"
	analysisMigrationsTable = "skillspot_analysis_migrations"
)

// AnalysisStoreImpl implements the AnalysisStore interface.
type AnalysisStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.AnalysisStore = &AnalysisStoreImpl{} // Compile-time check

// NewAnalysisStore creates a new AnalysisStore with the specified backend.
// The tables are brought to the latest migration on open.
func NewAnalysisStore(backend schema.DatabaseBackend, connStr string) (contract.AnalysisStore, error) {
	switch backend {
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend:
		// handled below
	case schema.NoneBackend:
		// Return a no-op store for disabled tracking
		return &AnalysisStoreImpl{backend: backend}, nil
	default:
		return nil, fmt.Errorf("unsupported analysis backend: %s", backend)
	}

	db, err := sqldb.Open(backend, connStr, contract.GetAnalysisDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := sqldb.Migrate(db, backend, migrationsFS, analysisMigrationsTable, -1, io.Discard); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create analysis tables: %w", err)
	}

	return &AnalysisStoreImpl{db: db, backend: backend}, nil
}

func (as *AnalysisStoreImpl) table(name string) string {
	return sqldb.QuoteTableName(name, as.backend)
}

func (as *AnalysisStoreImpl) ph(n int) string {
	return sqldb.Placeholder(as.backend, n)
}

// mysqlDateTime is how MySQL returns DATETIME(6) when the DSN lacks parseTime=true.
const mysqlDateTime = "2006-01-02 15:04:05.999999"

// scanTime reads a timestamp column. SQLite stores RFC3339Nano text.
func (as *AnalysisStoreImpl) scanTime(raw any) (time.Time, error) {
	var text string
	switch v := raw.(type) {
	case time.Time:
		return v.UTC(), nil
	case string:
		text = v
	case []byte:
		text = string(v)
	default:
		return time.Time{}, fmt.Errorf("unexpected time value %T", raw)
	}
	if t, err := time.Parse(time.RFC3339Nano, text); err == nil {
		return t, nil
	}
	return time.ParseInLocation(mysqlDateTime, text, time.UTC)
}

// BeginAnalysis creates a new analysis run and returns its unique ID.
func (as *AnalysisStoreImpl) BeginAnalysis(startTime time.Time, dataVersion string, configParams map[string]any) (int64, error) {
	if as.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	var analysisID int64
	switch as.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, data_version, config_params) VALUES ($1, $2, $3) RETURNING analysis_id`, as.table(analysisRunsTable))
		err = as.db.QueryRow(query, sqldb.FormatTime(startTime, as.backend), dataVersion, string(configJSON)).Scan(&analysisID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, data_version, config_params) VALUES (?, ?, ?)`, as.table(analysisRunsTable))
		var result sql.Result
		result, err = as.db.Exec(query, sqldb.FormatTime(startTime, as.backend), dataVersion, string(configJSON))
		if err == nil {
			analysisID, err = result.LastInsertId()
		}
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert analysis run: %w", err)
	}
	return analysisID, nil
}

// EndAnalysis updates the analysis run with completion data.
func (as *AnalysisStoreImpl) EndAnalysis(analysisID int64, endTime time.Time, totalSkills int) error {
	if as.db == nil {
		return nil
	}

	var raw any
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE analysis_id = %s`, as.table(analysisRunsTable), as.ph(1))
	if err := as.db.QueryRow(query, analysisID).Scan(&raw); err != nil {
		return fmt.Errorf("failed to get start_time for analysis %d: %w", analysisID, err)
	}
	startTime, err := as.scanTime(raw)
	if err != nil {
		return fmt.Errorf("failed to parse start_time: %w", err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()
	update := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_skills_scored = %s WHERE analysis_id = %s`,
		as.table(analysisRunsTable), as.ph(1), as.ph(2), as.ph(3), as.ph(4))
	if _, err := as.db.Exec(update, sqldb.FormatTime(endTime, as.backend), durationMs, totalSkills, analysisID); err != nil {
		return fmt.Errorf("failed to update analysis run: %w", err)
	}
	return nil
}

// RecordSkillScore stores the signals and hotness of one skill.
func (as *AnalysisStoreImpl) RecordSkillScore(analysisID int64, skill string, score schema.SkillScore) error {
	if as.db == nil {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (analysis_id, skill, analysis_time, operation, job_count,
		                growth_rate, salary_premium, demand_gap, hotness, score_label)
		VALUES (%s)
	`, as.table(skillScoresTable), sqldb.Placeholders(as.backend, 1, 10))
	_, err := as.db.Exec(query,
		analysisID, skill, sqldb.FormatTime(score.AnalysisTime, as.backend), score.Operation, score.Count,
		score.GrowthRate, score.SalaryPremium, score.DemandGap, score.Hotness, score.Label,
	)
	if err != nil {
		return fmt.Errorf("failed to insert skill score: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (as *AnalysisStoreImpl) Close() error {
	if as.db != nil {
		return as.db.Close()
	}
	return nil
}

// GetStatus returns status information about the analysis store.
func (as *AnalysisStoreImpl) GetStatus() (schema.AnalysisStatus, error) {
	status := schema.AnalysisStatus{
		Backend:    string(as.backend),
		Connected:  as.db != nil,
		TableSizes: make(map[string]int64),
	}

	if as.db == nil {
		return status, nil
	}

	row := as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", as.table(analysisRunsTable)))
	if err := row.Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var lastRaw, oldestRaw any
		row = as.db.QueryRow(fmt.Sprintf("SELECT analysis_id, start_time FROM %s ORDER BY analysis_id DESC LIMIT 1", as.table(analysisRunsTable)))
		if err := row.Scan(&status.LastRunID, &lastRaw); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		row = as.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY analysis_id ASC LIMIT 1", as.table(analysisRunsTable)))
		if err := row.Scan(&oldestRaw); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}

		var err error
		if status.LastRunTime, err = as.scanTime(lastRaw); err != nil {
			return status, fmt.Errorf("failed to parse last run time: %w", err)
		}
		if status.OldestRunTime, err = as.scanTime(oldestRaw); err != nil {
			return status, fmt.Errorf("failed to parse oldest run time: %w", err)
		}

		row = as.db.QueryRow(fmt.Sprintf("SELECT COALESCE(SUM(total_skills_scored), 0) FROM %s", as.table(analysisRunsTable)))
		if err := row.Scan(&status.TotalSkillsScored); err != nil {
			return status, fmt.Errorf("failed to get total skills scored: %w", err)
		}
	}

	for _, table := range []string{analysisRunsTable, skillScoresTable} {
		var count int64
		if err := as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", as.table(table))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllAnalysisRuns retrieves all analysis runs from the store.
func (as *AnalysisStoreImpl) GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error) {
	if as.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT analysis_id, start_time, end_time, run_duration_ms, total_skills_scored, data_version, config_params
		FROM %s ORDER BY analysis_id`, as.table(analysisRunsTable))
	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AnalysisRunRecord
	for rows.Next() {
		var (
			record           schema.AnalysisRunRecord
			startRaw, endRaw any
			duration         sql.NullInt32
			params           sql.NullString
		)
		if err := rows.Scan(&record.AnalysisID, &startRaw, &endRaw, &duration, &record.TotalSkillsScored, &record.DataVersion, &params); err != nil {
			return nil, fmt.Errorf("failed to scan analysis run: %w", err)
		}
		if record.StartTime, err = as.scanTime(startRaw); err != nil {
			return nil, fmt.Errorf("failed to parse start_time: %w", err)
		}
		if endRaw != nil {
			endTime, err := as.scanTime(endRaw)
			if err != nil {
				return nil, fmt.Errorf("failed to parse end_time: %w", err)
			}
			record.EndTime = &endTime
		}
		if duration.Valid {
			record.RunDurationMs = &duration.Int32
		}
		if params.Valid {
			record.ConfigParams = &params.String
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analysis runs: %w", err)
	}
	return results, nil
}

// GetAllSkillScores retrieves all skill scores from the store.
func (as *AnalysisStoreImpl) GetAllSkillScores() ([]schema.SkillScoreRecord, error) {
	if as.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT analysis_id, skill, analysis_time, operation, job_count,
		growth_rate, salary_premium, demand_gap, hotness, score_label
		FROM %s ORDER BY analysis_id, skill`, as.table(skillScoresTable))
	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query skill scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.SkillScoreRecord
	for rows.Next() {
		var record schema.SkillScoreRecord
		var atRaw any
		if err := rows.Scan(&record.AnalysisID, &record.Skill, &atRaw, &record.Operation, &record.JobCount,
			&record.GrowthRate, &record.SalaryPremium, &record.DemandGap, &record.Hotness, &record.ScoreLabel); err != nil {
			return nil, fmt.Errorf("failed to scan skill score: %w", err)
		}
		if record.AnalysisTime, err = as.scanTime(atRaw); err != nil {
			return nil, fmt.Errorf("failed to parse analysis_time: %w", err)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating skill scores: %w", err)
	}
	return results, nil
}
