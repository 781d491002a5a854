package source

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/internal/sqldb"
	"github.com/huangsam/skillspot/schema"
)

//go:embed migrations
var migrationsFS embed.FS

// Table names for the dataset.
const (
	loadsTable       = "skillspot_dataset_loads"
	companiesTable   = "skillspot_companies"
	industriesTable  = "skillspot_company_industries"
	specialtiesTable = "skillspot_company_specialties"
	employeesTable   = "skillspot_employee_counts"
	skillsTable      = "skillspot_skills"
	postingsTable    = "skillspot_postings"
	jobSkillsTable   = "skillspot_job_skills"
	demandGapsTable  = "skillspot_demand_gaps"
	jobBenefitsTable = "skillspot_job_benefits"

	migrationsTable = "skillspot_source_migrations"
)

// SQLSource reads the dataset from a relational or columnar database.
type SQLSource struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.DataSource = &SQLSource{} // Compile-time check

// Open connects to the backend and makes sure the dataset tables exist.
func Open(backend schema.DatabaseBackend, connStr string) (*SQLSource, error) {
	db, err := sqldb.Open(backend, connStr, contract.GetSourceDBFilePath())
	if err != nil {
		return nil, schema.SourceUnavailable(err)
	}
	if err := ensureSchema(db, backend); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLSource{db: db, backend: backend}, nil
}

// ensureSchema runs the embedded migrations, or the inline DDL for ClickHouse.
func ensureSchema(db *sql.DB, backend schema.DatabaseBackend) error {
	if backend == schema.ClickHouseBackend {
		return createClickHouseTables(db)
	}
	if err := sqldb.Migrate(db, backend, migrationsFS, migrationsTable, -1, io.Discard); err != nil {
		return fmt.Errorf("failed to prepare dataset tables: %w", err)
	}
	return nil
}

// MigrateSource runs dataset migrations to the target version. See sqldb.Migrate for its meaning.
func MigrateSource(backend schema.DatabaseBackend, connStr string, targetVersion int, out io.Writer) error {
	if backend == schema.ClickHouseBackend {
		return fmt.Errorf("migrations are not supported for %s backend; tables are created on open", backend)
	}
	db, err := sqldb.Open(backend, connStr, contract.GetSourceDBFilePath())
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return sqldb.Migrate(db, backend, migrationsFS, migrationsTable, targetVersion, out)
}

func (s *SQLSource) table(name string) string {
	return sqldb.QuoteTableName(name, s.backend)
}

// Version implements the DataSource interface. It is empty before the first load.
func (s *SQLSource) Version(ctx context.Context) (string, error) {
	query := fmt.Sprintf("SELECT load_id FROM %s ORDER BY loaded_at DESC LIMIT 1", s.table(loadsTable))
	var version string
	err := s.db.QueryRowContext(ctx, query).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", schema.SourceUnavailable(err)
	}
	return version, nil
}

// jobWhere renders the filter as a WHERE clause over the postings table aliased as p.
func (s *SQLSource) jobWhere(filter schema.JobFilter) (string, []any) {
	var conds []string
	var args []any
	next := func(v any) string {
		args = append(args, v)
		return sqldb.Placeholder(s.backend, len(args))
	}

	if filter.Skill != "" {
		conds = append(conds, fmt.Sprintf("p.job_id IN (SELECT job_id FROM %s WHERE skill_key = %s)",
			s.table(jobSkillsTable), next(schema.SkillKey(filter.Skill))))
	}
	if q := strings.ToLower(strings.TrimSpace(filter.Location)); q != "" {
		like, escape := s.containsPattern(q)
		conds = append(conds, fmt.Sprintf("(LOWER(p.location) LIKE %s%s OR LOWER(p.city) LIKE %s%s OR LOWER(p.state) LIKE %s%s)",
			next(like), escape, next(like), escape, next(like), escape))
	}
	if !filter.Since.IsZero() {
		conds = append(conds, "p.posted_at >= "+next(filter.Since.Unix()))
	}
	if !filter.Until.IsZero() {
		conds = append(conds, "p.posted_at < "+next(filter.Until.Unix()))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// containsPattern builds a LIKE pattern matching q as a literal substring, plus the ESCAPE
// clause it needs. ClickHouse has no ESCAPE clause and always treats backslash as the escape.
func (s *SQLSource) containsPattern(q string) (pattern, clause string) {
	esc, clause := "!", " ESCAPE '!'"
	if s.backend == schema.ClickHouseBackend {
		esc, clause = `\`, ""
	}
	r := strings.NewReplacer(esc, esc+esc, "%", esc+"%", "_", esc+"_")
	return "%" + r.Replace(q) + "%", clause
}

// Jobs implements the DataSource interface.
func (s *SQLSource) Jobs(ctx context.Context, filter schema.JobFilter) ([]schema.JobPosting, error) {
	where, args := s.jobWhere(filter)

	query := fmt.Sprintf(`SELECT p.job_id, p.title, p.company_id, p.location, p.city, p.state, p.country, p.work_type,
		p.posted_at, p.active, p.salary_min, p.salary_med, p.salary_max, p.pay_period, p.currency
		FROM %s p%s ORDER BY p.job_id`, s.table(postingsTable), where)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, schema.SourceUnavailable(err)
	}
	defer func() { _ = rows.Close() }()

	var jobs []schema.JobPosting
	index := make(map[string]int)
	for rows.Next() {
		var (
			j                      schema.JobPosting
			title, companyID       sql.NullString
			location, city, state  sql.NullString
			country, workType      sql.NullString
			payPeriod, currency    sql.NullString
			postedAt, active       int64
			minPay, medPay, maxPay sql.NullFloat64
		)
		if err := rows.Scan(&j.ID, &title, &companyID, &location, &city, &state, &country, &workType,
			&postedAt, &active, &minPay, &medPay, &maxPay, &payPeriod, &currency); err != nil {
			return nil, schema.SourceUnavailable(err)
		}
		j.Title, j.CompanyID = title.String, companyID.String
		j.Location, j.City, j.State, j.Country = location.String, city.String, state.String, country.String
		j.WorkType = schema.WorkType(workType.String)
		j.PostedAt = fromUnix(postedAt)
		j.Active = active != 0
		if minPay.Valid || medPay.Valid || maxPay.Valid {
			j.Salary = &schema.SalaryRange{
				Min:      nullFloat(minPay),
				Med:      nullFloat(medPay),
				Max:      nullFloat(maxPay),
				Period:   schema.ParsePayPeriod(payPeriod.String),
				Currency: currency.String,
			}
		}
		index[j.ID] = len(jobs)
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, schema.SourceUnavailable(err)
	}
	if len(jobs) == 0 {
		return jobs, nil
	}

	skillQuery := fmt.Sprintf(`SELECT js.job_id, js.skill_name FROM %s js
		WHERE js.job_id IN (SELECT p.job_id FROM %s p%s) ORDER BY js.job_id, js.seq_no`,
		s.table(jobSkillsTable), s.table(postingsTable), where)
	skillRows, err := s.db.QueryContext(ctx, skillQuery, args...)
	if err != nil {
		return nil, schema.SourceUnavailable(err)
	}
	defer func() { _ = skillRows.Close() }()
	for skillRows.Next() {
		var jobID, skill string
		if err := skillRows.Scan(&jobID, &skill); err != nil {
			return nil, schema.SourceUnavailable(err)
		}
		if i, ok := index[jobID]; ok {
			jobs[i].Skills = append(jobs[i].Skills, skill)
		}
	}
	if err := skillRows.Err(); err != nil {
		return nil, schema.SourceUnavailable(err)
	}

	benefitQuery := fmt.Sprintf(`SELECT jb.job_id, jb.benefit, jb.inferred FROM %s jb
		WHERE jb.job_id IN (SELECT p.job_id FROM %s p%s) ORDER BY jb.job_id, jb.seq_no`,
		s.table(jobBenefitsTable), s.table(postingsTable), where)
	benefitRows, err := s.db.QueryContext(ctx, benefitQuery, args...)
	if err != nil {
		return nil, schema.SourceUnavailable(err)
	}
	defer func() { _ = benefitRows.Close() }()
	for benefitRows.Next() {
		var jobID, benefit string
		var inferred int64
		if err := benefitRows.Scan(&jobID, &benefit, &inferred); err != nil {
			return nil, schema.SourceUnavailable(err)
		}
		if i, ok := index[jobID]; ok {
			jobs[i].Benefits = append(jobs[i].Benefits, schema.Benefit{Type: benefit, Inferred: inferred != 0})
		}
	}
	if err := benefitRows.Err(); err != nil {
		return nil, schema.SourceUnavailable(err)
	}
	return jobs, nil
}

// Companies implements the DataSource interface.
func (s *SQLSource) Companies(ctx context.Context) ([]schema.Company, error) {
	query := fmt.Sprintf("SELECT company_id, name, description, company_size, follower_count FROM %s ORDER BY company_id", s.table(companiesTable))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, schema.SourceUnavailable(err)
	}
	defer func() { _ = rows.Close() }()

	var companies []schema.Company
	index := make(map[string]int)
	for rows.Next() {
		var c schema.Company
		var description sql.NullString
		var size, followers int64
		if err := rows.Scan(&c.ID, &c.Name, &description, &size, &followers); err != nil {
			return nil, schema.SourceUnavailable(err)
		}
		c.Description = description.String
		c.CompanySize, c.FollowerCount = int(size), int(followers)
		index[c.ID] = len(companies)
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, schema.SourceUnavailable(err)
	}

	lists := []struct {
		table, column string
		add           func(c *schema.Company, v string)
	}{
		{industriesTable, "industry", func(c *schema.Company, v string) { c.Industries = append(c.Industries, v) }},
		{specialtiesTable, "specialty", func(c *schema.Company, v string) { c.Specialties = append(c.Specialties, v) }},
	}
	for _, l := range lists {
		query := fmt.Sprintf("SELECT company_id, %s FROM %s ORDER BY company_id, seq_no", l.column, s.table(l.table))
		if err := s.scanPairs(ctx, query, func(id, v string) {
			if i, ok := index[id]; ok {
				l.add(&companies[i], v)
			}
		}); err != nil {
			return nil, err
		}
	}

	query = fmt.Sprintf("SELECT company_id, employee_count, follower_count, time_recorded FROM %s ORDER BY company_id, time_recorded", s.table(employeesTable))
	empRows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, schema.SourceUnavailable(err)
	}
	defer func() { _ = empRows.Close() }()
	for empRows.Next() {
		var id string
		var employees, followers, at int64
		if err := empRows.Scan(&id, &employees, &followers, &at); err != nil {
			return nil, schema.SourceUnavailable(err)
		}
		if i, ok := index[id]; ok {
			companies[i].EmployeeCounts = append(companies[i].EmployeeCounts, schema.EmployeeCountPoint{
				At:        fromUnix(at),
				Employees: int(employees),
				Followers: int(followers),
			})
		}
	}
	if err := empRows.Err(); err != nil {
		return nil, schema.SourceUnavailable(err)
	}
	return companies, nil
}

// scanPairs runs a two-column string query and hands every row to fn.
func (s *SQLSource) scanPairs(ctx context.Context, query string, fn func(a, b string)) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return schema.SourceUnavailable(err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var a, b string
		if err := rows.Scan(&a, &b); err != nil {
			return schema.SourceUnavailable(err)
		}
		fn(a, b)
	}
	if err := rows.Err(); err != nil {
		return schema.SourceUnavailable(err)
	}
	return nil
}

// Skills implements the DataSource interface.
func (s *SQLSource) Skills(ctx context.Context) ([]schema.Skill, error) {
	var skills []schema.Skill
	query := fmt.Sprintf("SELECT skill_abr, skill_name FROM %s ORDER BY skill_name", s.table(skillsTable))
	err := s.scanPairs(ctx, query, func(abr, name string) {
		skills = append(skills, schema.Skill{Abbreviation: abr, Name: name})
	})
	return skills, err
}

// DemandGaps implements the DataSource interface.
func (s *SQLSource) DemandGaps(ctx context.Context) (map[string]float64, error) {
	query := fmt.Sprintf("SELECT skill_name, gap FROM %s", s.table(demandGapsTable))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, schema.SourceUnavailable(err)
	}
	defer func() { _ = rows.Close() }()

	gaps := make(map[string]float64)
	for rows.Next() {
		var skill string
		var gap float64
		if err := rows.Scan(&skill, &gap); err != nil {
			return nil, schema.SourceUnavailable(err)
		}
		gaps[skill] = gap
	}
	if err := rows.Err(); err != nil {
		return nil, schema.SourceUnavailable(err)
	}
	return gaps, nil
}

// Status implements the DataSource interface.
func (s *SQLSource) Status(ctx context.Context) (schema.SourceStatus, error) {
	status := schema.SourceStatus{Backend: string(s.backend)}

	query := fmt.Sprintf("SELECT load_id, loaded_at, job_count, company_count, skill_count FROM %s ORDER BY loaded_at DESC LIMIT 1", s.table(loadsTable))
	var loadedAt, jobs, companies, skills int64
	err := s.db.QueryRowContext(ctx, query).Scan(&status.Version, &loadedAt, &jobs, &companies, &skills)
	if errors.Is(err, sql.ErrNoRows) {
		return status, nil
	}
	if err != nil {
		return status, schema.SourceUnavailable(err)
	}
	status.LoadedAt = time.Unix(0, loadedAt)
	status.Jobs, status.Companies, status.Skills = int(jobs), int(companies), int(skills)
	return status, nil
}

// Close implements the DataSource interface.
func (s *SQLSource) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func fromUnix(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
