package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/skillspot/internal/sqldb"
	"github.com/huangsam/skillspot/schema"
)

// tableRows is one table's worth of rows to insert.
type tableRows struct {
	name    string
	columns []string
	rows    [][]any
}

// datasetTables flattens a dataset into the rows of every dataset table.
func datasetTables(d schema.Dataset) []tableRows {
	companies := tableRows{name: companiesTable, columns: []string{"company_id", "name", "description", "company_size", "follower_count"}}
	industries := tableRows{name: industriesTable, columns: []string{"company_id", "seq_no", "industry"}}
	specialties := tableRows{name: specialtiesTable, columns: []string{"company_id", "seq_no", "specialty"}}
	employees := tableRows{name: employeesTable, columns: []string{"company_id", "employee_count", "follower_count", "time_recorded"}}
	for _, c := range d.Companies {
		companies.rows = append(companies.rows, []any{c.ID, c.Name, c.Description, int64(c.CompanySize), int64(c.FollowerCount)})
		for i, ind := range c.Industries {
			industries.rows = append(industries.rows, []any{c.ID, int64(i), ind})
		}
		for i, sp := range c.Specialties {
			specialties.rows = append(specialties.rows, []any{c.ID, int64(i), sp})
		}
		for _, p := range c.EmployeeCounts {
			employees.rows = append(employees.rows, []any{c.ID, int64(p.Employees), int64(p.Followers), toUnix(p.At)})
		}
	}

	skills := tableRows{name: skillsTable, columns: []string{"skill_abr", "skill_name"}}
	for _, s := range d.Skills {
		abr := s.Abbreviation
		if abr == "" {
			abr = s.Name
		}
		skills.rows = append(skills.rows, []any{abr, s.Name})
	}

	postings := tableRows{name: postingsTable, columns: []string{
		"job_id", "title", "company_id", "location", "city", "state", "country", "work_type",
		"posted_at", "active", "salary_min", "salary_med", "salary_max", "pay_period", "currency",
	}}
	jobSkills := tableRows{name: jobSkillsTable, columns: []string{"job_id", "seq_no", "skill_name", "skill_key"}}
	benefits := tableRows{name: jobBenefitsTable, columns: []string{"job_id", "seq_no", "benefit", "inferred"}}
	for _, j := range d.Jobs {
		var minPay, medPay, maxPay *float64
		var period, currency string
		if j.Salary != nil {
			minPay, medPay, maxPay = j.Salary.Min, j.Salary.Med, j.Salary.Max
			period, currency = string(j.Salary.Period), j.Salary.Currency
		}
		active := int64(0)
		if j.Active {
			active = 1
		}
		postings.rows = append(postings.rows, []any{
			j.ID, j.Title, j.CompanyID, j.Location, j.City, j.State, j.Country, string(j.WorkType),
			toUnix(j.PostedAt), active, minPay, medPay, maxPay, period, currency,
		})
		for i, s := range j.Skills {
			jobSkills.rows = append(jobSkills.rows, []any{j.ID, int64(i), s, schema.SkillKey(s)})
		}
		for i, b := range j.Benefits {
			inferred := int64(0)
			if b.Inferred {
				inferred = 1
			}
			benefits.rows = append(benefits.rows, []any{j.ID, int64(i), b.Type, inferred})
		}
	}

	gaps := tableRows{name: demandGapsTable, columns: []string{"skill_name", "gap"}}
	for skill, gap := range d.DemandGaps {
		gaps.rows = append(gaps.rows, []any{skill, gap})
	}

	return []tableRows{companies, industries, specialties, employees, skills, postings, jobSkills, benefits, gaps}
}

// Replace swaps the stored dataset for d and records a new load. It returns the new version.
func (s *SQLSource) Replace(ctx context.Context, d schema.Dataset) (string, error) {
	normalized, err := Normalize(d)
	if err != nil {
		return "", err
	}

	loadID := uuid.NewString()
	tables := datasetTables(normalized)
	load := tableRows{
		name:    loadsTable,
		columns: []string{"load_id", "loaded_at", "job_count", "company_count", "skill_count"},
		rows: [][]any{{
			loadID, time.Now().UnixNano(),
			int64(len(normalized.Jobs)), int64(len(normalized.Companies)), int64(len(normalized.Skills)),
		}},
	}

	if s.backend == schema.ClickHouseBackend {
		err = s.replaceClickHouse(ctx, tables, load)
	} else {
		err = s.replaceTx(ctx, tables, load)
	}
	if err != nil {
		return "", err
	}
	return loadID, nil
}

// replaceTx deletes and rewrites every table inside one transaction.
func (s *SQLSource) replaceTx(ctx context.Context, tables []tableRows, load tableRows) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin dataset load: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range tables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+s.table(t.name)); err != nil {
			return fmt.Errorf("failed to clear %s: %w", t.name, err)
		}
	}
	for _, t := range append(tables, load) {
		if err := s.insertRows(ctx, tx, t); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit dataset load: %w", err)
	}
	return nil
}

// replaceClickHouse truncates every table and inserts each one as a batch.
// The load row is written last so readers never see a version without its data.
func (s *SQLSource) replaceClickHouse(ctx context.Context, tables []tableRows, load tableRows) error {
	for _, t := range tables {
		if _, err := s.db.ExecContext(ctx, "TRUNCATE TABLE IF EXISTS "+s.table(t.name)); err != nil {
			return fmt.Errorf("failed to truncate %s: %w", t.name, err)
		}
	}
	for _, t := range append(tables, load) {
		if len(t.rows) == 0 {
			continue
		}
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin batch for %s: %w", t.name, err)
		}
		if err := s.insertRows(ctx, tx, t); err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to send batch for %s: %w", t.name, err)
		}
	}
	return nil
}

// insertRows writes the rows with one prepared statement.
func (s *SQLSource) insertRows(ctx context.Context, tx *sql.Tx, t tableRows) error {
	if len(t.rows) == 0 {
		return nil
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.table(t.name), strings.Join(t.columns, ", "), sqldb.Placeholders(s.backend, 1, len(t.columns)))
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert into %s: %w", t.name, err)
	}
	defer func() { _ = stmt.Close() }()

	for _, row := range t.rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", t.name, err)
		}
	}
	return nil
}
