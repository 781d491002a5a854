// Package schema has the records, results and constants shared by all parts of skillspot.
package schema

import (
	"slices"
	"time"
)

// SalaryRange is the optional pay band attached to a posting.
// Any of Min, Med and Max may be nil; when several are present Min <= Med <= Max.
type SalaryRange struct {
	Min      *float64  `json:"min,omitempty" yaml:"min,omitempty"`
	Med      *float64  `json:"med,omitempty" yaml:"med,omitempty"`
	Max      *float64  `json:"max,omitempty" yaml:"max,omitempty"`
	Period   PayPeriod `json:"period" yaml:"period"`
	Currency string    `json:"currency" yaml:"currency"`
}

// JobPosting is one immutable posting row from the tabular data source.
type JobPosting struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	CompanyID string       `json:"company_id,omitempty"` // empty when the posting has no company
	Location  string       `json:"location"`
	City      string       `json:"city"`
	State     string       `json:"state"`
	Country   string       `json:"country"`
	WorkType  WorkType     `json:"work_type"`
	PostedAt  time.Time    `json:"posted_at"`
	Skills    []string     `json:"skills"`
	Salary    *SalaryRange `json:"salary,omitempty"`
	Active    bool         `json:"active"`
	Benefits  []Benefit    `json:"benefits,omitempty"`
}

// Benefit is one perk listed on a posting. Inferred marks benefits derived from the
// description rather than stated by the employer.
type Benefit struct {
	Type     string `json:"type"`
	Inferred bool   `json:"inferred,omitempty"`
}

// HasSkill reports whether the posting lists the canonical skill name.
func (j JobPosting) HasSkill(name string) bool {
	for _, s := range j.Skills {
		if s == name {
			return true
		}
	}
	return false
}

// EmployeeCountPoint is one sample of a company's headcount series.
type EmployeeCountPoint struct {
	At        time.Time `json:"at"`
	Employees int       `json:"employees"`
	Followers int       `json:"followers"`
}

// Company is an employer referenced by postings.
type Company struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	CompanySize    int                  `json:"company_size"`
	FollowerCount  int                  `json:"follower_count"`
	Industries     []string             `json:"industries"`
	Specialties    []string             `json:"specialties"`
	EmployeeCounts []EmployeeCountPoint `json:"employee_counts"`
}

// LatestEmployees returns the most recent headcount sample, or 0.
func (c Company) LatestEmployees() int {
	var latest EmployeeCountPoint
	for _, p := range c.EmployeeCounts {
		if p.At.After(latest.At) || latest.At.IsZero() {
			latest = p
		}
	}
	return latest.Employees
}

// Skill is a known skill. Name is the unique key.
type Skill struct {
	Abbreviation string `json:"abbreviation"`
	Name         string `json:"name"`
}

// SalaryObservation is a single annualized salary value derived from a posting.
type SalaryObservation struct {
	Value    float64
	Skills   []string
	Location string
	City     string
	State    string
	At       time.Time
}

// Dataset is a consistent snapshot of the data source at one data version.
type Dataset struct {
	Version    string
	Jobs       []JobPosting
	Companies  []Company
	Skills     []Skill
	DemandGaps map[string]float64 // externally computed demand gap per skill
}

// JobsByCompany derives the company back-reference for postings.
func (d *Dataset) JobsByCompany() map[string][]JobPosting {
	out := make(map[string][]JobPosting)
	for _, j := range d.Jobs {
		if j.CompanyID == "" {
			continue
		}
		out[j.CompanyID] = append(out[j.CompanyID], j)
	}
	return out
}

// JobFilter narrows the postings read from a data source. Zero values match everything.
type JobFilter struct {
	Skill    string    // case-insensitive skill name
	Location string    // case-insensitive substring of location, city or state
	Since    time.Time // inclusive
	Until    time.Time // exclusive
}

// Matches reports whether a posting passes the filter.
func (f JobFilter) Matches(j JobPosting) bool {
	if f.Skill != "" && !slices.ContainsFunc(j.Skills, func(s string) bool { return SkillKey(s) == SkillKey(f.Skill) }) {
		return false
	}
	if !MatchesLocation(f.Location, j.Location, j.City, j.State) {
		return false
	}
	if !f.Since.IsZero() && j.PostedAt.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && !j.PostedAt.Before(f.Until) {
		return false
	}
	return true
}

// SeriesPoint is one period of a monthly count series.
type SeriesPoint struct {
	Period string `json:"period"` // YYYY-MM
	Count  int    `json:"count"`
}
