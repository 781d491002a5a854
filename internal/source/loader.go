package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/skillspot/schema"
)

// datasetFiles lists the CSV files of a dataset directory. Each entry accepts a flat
// layout and the nested layout of the public LinkedIn postings export.
var datasetFiles = map[string][]string{
	"companies":           {"companies.csv", "companies/companies.csv"},
	"skills":              {"skills.csv", "mappings/skills.csv"},
	"postings":            {"postings.csv"},
	"job_skills":          {"job_skills.csv", "jobs/job_skills.csv"},
	"salaries":            {"salaries.csv", "jobs/salaries.csv"},
	"company_industries":  {"company_industries.csv", "companies/company_industries.csv"},
	"company_specialties": {"company_specialities.csv", "companies/company_specialities.csv"},
	"employee_counts":     {"employee_counts.csv", "companies/employee_counts.csv"},
	"demand_gaps":         {"demand_gaps.csv"},
	"benefits":            {"benefits.csv", "jobs/benefits.csv"},
}

// csvTable is a parsed CSV file addressed by header name.
type csvTable struct {
	header map[string]int
	rows   [][]string
}

func (t *csvTable) get(row []string, column string) string {
	i, ok := t.header[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// first returns the first non-empty value among the columns.
func (t *csvTable) first(row []string, columns ...string) string {
	for _, c := range columns {
		if v := t.get(row, c); v != "" {
			return v
		}
	}
	return ""
}

func readCSV(r io.Reader) (*csvTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	t := &csvTable{header: map[string]int{}}
	if len(records) == 0 {
		return t, nil
	}
	for i, name := range records[0] {
		t.header[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	t.rows = records[1:]
	return t, nil
}

// openTable finds and parses a dataset file. ok is false when the file is absent.
func openTable(fsys fs.FS, kind string) (*csvTable, bool, error) {
	for _, name := range datasetFiles[kind] {
		f, err := fsys.Open(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, false, err
		}
		table, err := readCSV(f)
		_ = f.Close()
		if err != nil {
			return nil, false, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		return table, true, nil
	}
	return nil, false, nil
}

// LoadDir reads a dataset directory. postings.csv is required; every other file is optional.
func LoadDir(dir string) (schema.Dataset, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return schema.Dataset{}, fmt.Errorf("failed to read dataset directory: %w", err)
	}
	if !info.IsDir() {
		return schema.Dataset{}, fmt.Errorf("%s is not a directory", filepath.Clean(dir))
	}
	return LoadFS(os.DirFS(dir))
}

// LoadFS reads a dataset from a file system. See LoadDir.
func LoadFS(fsys fs.FS) (schema.Dataset, error) {
	var d schema.Dataset

	skillNames := map[string]string{}
	if t, ok, err := openTable(fsys, "skills"); err != nil {
		return d, err
	} else if ok {
		for _, row := range t.rows {
			abr, name := t.get(row, "skill_abr"), t.get(row, "skill_name")
			if name == "" {
				continue
			}
			if abr == "" {
				abr = name
			}
			skillNames[abr] = name
			d.Skills = append(d.Skills, schema.Skill{Abbreviation: abr, Name: name})
		}
	}

	companies, err := loadCompanies(fsys)
	if err != nil {
		return d, err
	}
	d.Companies = companies

	jobs, err := loadPostings(fsys, skillNames)
	if err != nil {
		return d, err
	}
	d.Jobs = jobs

	if t, ok, err := openTable(fsys, "demand_gaps"); err != nil {
		return d, err
	} else if ok {
		d.DemandGaps = map[string]float64{}
		for i, row := range t.rows {
			skill := t.first(row, "skill", "skill_name")
			gap, err := strconv.ParseFloat(t.get(row, "gap"), 64)
			if skill == "" || err != nil || math.IsNaN(gap) || math.IsInf(gap, 0) {
				return d, fmt.Errorf("demand_gaps.csv line %d: expected skill and finite numeric gap", i+2)
			}
			d.DemandGaps[skill] = gap
		}
	}
	return d, nil
}

func loadCompanies(fsys fs.FS) ([]schema.Company, error) {
	t, ok, err := openTable(fsys, "companies")
	if err != nil || !ok {
		return nil, err
	}

	companies := make([]schema.Company, 0, len(t.rows))
	index := make(map[string]int, len(t.rows))
	for _, row := range t.rows {
		id := normalizeID(t.get(row, "company_id"))
		if id == "" {
			continue
		}
		if _, dup := index[id]; dup {
			continue
		}
		index[id] = len(companies)
		companies = append(companies, schema.Company{
			ID:            id,
			Name:          t.get(row, "name"),
			Description:   t.get(row, "description"),
			CompanySize:   parseInt(t.get(row, "company_size")),
			FollowerCount: parseInt(t.get(row, "follower_count")),
		})
	}

	lists := []struct {
		kind, column string
		add          func(c *schema.Company, v string)
	}{
		{"company_industries", "industry", func(c *schema.Company, v string) { c.Industries = append(c.Industries, v) }},
		{"company_specialties", "speciality", func(c *schema.Company, v string) { c.Specialties = append(c.Specialties, v) }},
	}
	for _, l := range lists {
		lt, ok, err := openTable(fsys, l.kind)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		for _, row := range lt.rows {
			v := lt.first(row, l.column, "specialty")
			if i, ok := index[normalizeID(lt.get(row, "company_id"))]; ok && v != "" {
				l.add(&companies[i], v)
			}
		}
	}

	et, ok, err := openTable(fsys, "employee_counts")
	if err != nil {
		return nil, err
	}
	if ok {
		for _, row := range et.rows {
			i, found := index[normalizeID(et.get(row, "company_id"))]
			if !found {
				continue
			}
			point := schema.EmployeeCountPoint{
				At:        parseTime(et.get(row, "time_recorded")),
				Employees: parseInt(et.get(row, "employee_count")),
				Followers: parseInt(et.get(row, "follower_count")),
			}
			c := &companies[i]
			c.EmployeeCounts = append(c.EmployeeCounts, point)
			if latest := latestPoint(c.EmployeeCounts); latest.Followers > 0 {
				c.FollowerCount = latest.Followers
			}
		}
	}
	return companies, nil
}

func latestPoint(points []schema.EmployeeCountPoint) schema.EmployeeCountPoint {
	var latest schema.EmployeeCountPoint
	for i, p := range points {
		if i == 0 || p.At.After(latest.At) {
			latest = p
		}
	}
	return latest
}

func loadPostings(fsys fs.FS, skillNames map[string]string) ([]schema.JobPosting, error) {
	t, ok, err := openTable(fsys, "postings")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, schema.InvalidInput("postings.csv is required")
	}

	jobs := make([]schema.JobPosting, 0, len(t.rows))
	index := make(map[string]int, len(t.rows))
	for i, row := range t.rows {
		id := normalizeID(t.get(row, "job_id"))
		if id == "" {
			return nil, fmt.Errorf("postings.csv line %d: missing job_id", i+2)
		}
		if _, dup := index[id]; dup {
			continue
		}

		j := schema.JobPosting{
			ID:        id,
			Title:     t.get(row, "title"),
			CompanyID: normalizeID(t.get(row, "company_id")),
			Location:  t.get(row, "location"),
			City:      t.get(row, "city"),
			State:     t.get(row, "state"),
			Country:   t.get(row, "country"),
			PostedAt:  parseTime(t.first(row, "posted_at", "listed_time", "original_listed_time")),
			Active:    true,
		}
		if j.City == "" && j.State == "" {
			j.City, j.State = schema.SplitLocation(j.Location)
		}
		if allowed, _ := strconv.ParseFloat(t.get(row, "remote_allowed"), 64); allowed > 0 {
			j.WorkType = schema.RemoteWork
		} else {
			j.WorkType = schema.ParseWorkType(t.first(row, "work_arrangement", "work_type", "formatted_work_type"))
		}
		if v := t.first(row, "active", "is_active"); v != "" {
			j.Active = parseBool(v)
		}
		j.Salary = salaryFromRow(t, row)

		index[id] = len(jobs)
		jobs = append(jobs, j)
	}

	if st, ok, err := openTable(fsys, "salaries"); err != nil {
		return nil, err
	} else if ok {
		for _, row := range st.rows {
			if i, found := index[normalizeID(st.get(row, "job_id"))]; found {
				if salary := salaryFromRow(st, row); salary != nil {
					jobs[i].Salary = salary
				}
			}
		}
	}

	if jt, ok, err := openTable(fsys, "job_skills"); err != nil {
		return nil, err
	} else if ok {
		for _, row := range jt.rows {
			i, found := index[normalizeID(jt.get(row, "job_id"))]
			if !found {
				continue
			}
			name := jt.get(row, "skill_name")
			if name == "" {
				abr := jt.get(row, "skill_abr")
				if name = skillNames[abr]; name == "" {
					name = abr
				}
			}
			if name != "" {
				jobs[i].Skills = append(jobs[i].Skills, name)
			}
		}
	}

	if bt, ok, err := openTable(fsys, "benefits"); err != nil {
		return nil, err
	} else if ok {
		for _, row := range bt.rows {
			i, found := index[normalizeID(bt.get(row, "job_id"))]
			if !found {
				continue
			}
			if kind := bt.first(row, "type", "benefit"); kind != "" {
				jobs[i].Benefits = append(jobs[i].Benefits, schema.Benefit{
					Type:     kind,
					Inferred: parseBool(bt.get(row, "inferred")),
				})
			}
		}
	}
	return jobs, nil
}

// salaryFromRow reads min/med/max columns. It returns nil when none are numeric.
func salaryFromRow(t *csvTable, row []string) *schema.SalaryRange {
	parse := func(columns ...string) *float64 {
		v, err := strconv.ParseFloat(t.first(row, columns...), 64)
		if err != nil || !(v > 0) || math.IsInf(v, 0) {
			return nil
		}
		return &v
	}
	salary := schema.SalaryRange{
		Min:      parse("min_salary", "salary_min"),
		Med:      parse("med_salary", "salary_med"),
		Max:      parse("max_salary", "salary_max"),
		Period:   schema.ParsePayPeriod(t.get(row, "pay_period")),
		Currency: t.get(row, "currency"),
	}
	if salary.Min == nil && salary.Med == nil && salary.Max == nil {
		return nil
	}
	return &salary
}

// normalizeID strips the ".0" pandas leaves on integer IDs exported as floats.
func normalizeID(id string) string {
	return strings.TrimSuffix(strings.TrimSpace(id), ".0")
}

func parseInt(s string) int {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(f)
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "1.0", "true", "yes", "t", "y":
		return true
	default:
		return false
	}
}

// parseTime accepts RFC3339, a plain date, or epoch seconds or milliseconds.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return time.Time{}
	}
	// Anything past year 5138 in seconds is treated as milliseconds.
	if f > 1e11 {
		return time.UnixMilli(int64(f)).UTC()
	}
	return time.Unix(int64(f), 0).UTC()
}
