// Package source provides the tabular data sources the engine reads postings from.
package source

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/schema"
)

// MemorySource serves an in-memory dataset.
type MemorySource struct {
	mu       sync.RWMutex
	data     schema.Dataset
	loadedAt time.Time
}

var _ contract.DataSource = &MemorySource{} // Compile-time check

// NewMemorySource validates and normalizes the dataset. When the dataset carries no
// version, a content hash is used so that equal data always has the same version.
func NewMemorySource(d schema.Dataset) (*MemorySource, error) {
	m := &MemorySource{}
	if err := m.Replace(d); err != nil {
		return nil, err
	}
	return m, nil
}

// Replace swaps in a new dataset.
func (m *MemorySource) Replace(d schema.Dataset) error {
	normalized, err := Normalize(d)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = normalized
	m.loadedAt = time.Now()
	return nil
}

// Normalize trims names, canonicalizes posting skills against the catalog by name or
// abbreviation, drops empty skills, orders salary values, rejects duplicate IDs and sorts
// rows by ID. It fills Version with a content hash when empty.
func Normalize(d schema.Dataset) (schema.Dataset, error) {
	out := schema.Dataset{
		Version:    d.Version,
		Jobs:       make([]schema.JobPosting, 0, len(d.Jobs)),
		Companies:  make([]schema.Company, 0, len(d.Companies)),
		Skills:     make([]schema.Skill, 0, len(d.Skills)),
		DemandGaps: make(map[string]float64, len(d.DemandGaps)),
	}

	catalog := make(map[string]string, 2*len(d.Skills))
	for _, s := range d.Skills {
		name := strings.Join(strings.Fields(s.Name), " ")
		if name == "" {
			continue
		}
		catalog[schema.SkillKey(name)] = name
		if abr := schema.SkillKey(s.Abbreviation); abr != "" {
			if _, taken := catalog[abr]; !taken {
				catalog[abr] = name
			}
		}
	}

	seen := make(map[string]struct{}, len(d.Jobs))
	for _, j := range d.Jobs {
		j.ID = strings.TrimSpace(j.ID)
		if j.ID == "" {
			return schema.Dataset{}, schema.InvalidInput("posting without an id")
		}
		if _, dup := seen[j.ID]; dup {
			return schema.Dataset{}, schema.InvalidInput("duplicate posting id %q", j.ID)
		}
		seen[j.ID] = struct{}{}

		skills := make([]string, 0, len(j.Skills))
		for _, s := range j.Skills {
			s = strings.Join(strings.Fields(s), " ")
			if canon, ok := catalog[schema.SkillKey(s)]; ok {
				s = canon
			}
			if s != "" && !slices.Contains(skills, s) {
				skills = append(skills, s)
			}
		}
		j.Skills = skills
		if !j.PostedAt.IsZero() {
			j.PostedAt = j.PostedAt.UTC()
		}
		if j.Salary != nil {
			j.Salary = normalizeSalary(*j.Salary)
		}
		j.Benefits = normalizeBenefits(j.Benefits)
		out.Jobs = append(out.Jobs, j)
	}
	slices.SortFunc(out.Jobs, func(a, b schema.JobPosting) int { return strings.Compare(a.ID, b.ID) })

	companies := make(map[string]struct{}, len(d.Companies))
	for _, c := range d.Companies {
		c.ID = strings.TrimSpace(c.ID)
		if _, dup := companies[c.ID]; dup {
			return schema.Dataset{}, schema.InvalidInput("duplicate company id %q", c.ID)
		}
		companies[c.ID] = struct{}{}
		out.Companies = append(out.Companies, c)
	}
	slices.SortFunc(out.Companies, func(a, b schema.Company) int { return strings.Compare(a.ID, b.ID) })

	for _, s := range d.Skills {
		s.Name = strings.Join(strings.Fields(s.Name), " ")
		if s.Name == "" {
			continue
		}
		out.Skills = append(out.Skills, s)
	}
	slices.SortFunc(out.Skills, func(a, b schema.Skill) int { return strings.Compare(a.Name, b.Name) })

	for skill, gap := range d.DemandGaps {
		if finite(gap) {
			out.DemandGaps[skill] = gap
		}
	}

	if out.Version == "" {
		version, err := contentVersion(out)
		if err != nil {
			return schema.Dataset{}, err
		}
		out.Version = version
	}
	return out, nil
}

// normalizeSalary copies the range, defaults the period to yearly and sorts the present
// values so that min <= med <= max.
func normalizeSalary(salary schema.SalaryRange) *schema.SalaryRange {
	if salary.Period == "" {
		salary.Period = schema.YearlyPay
	}
	fields := []**float64{&salary.Min, &salary.Med, &salary.Max}
	var values []float64
	for _, f := range fields {
		if *f != nil && !finite(**f) {
			*f = nil
		}
		if *f != nil {
			values = append(values, **f)
		}
	}
	slices.Sort(values)
	for _, f := range fields {
		if *f != nil {
			v := values[0]
			values = values[1:]
			*f = &v
		}
	}
	return &salary
}

// normalizeBenefits collapses whitespace and drops empty or repeated types. A benefit
// stated by the employer wins over an inferred duplicate.
func normalizeBenefits(in []schema.Benefit) []schema.Benefit {
	var out []schema.Benefit
	index := make(map[string]int, len(in))
	for _, b := range in {
		b.Type = strings.Join(strings.Fields(b.Type), " ")
		if b.Type == "" {
			continue
		}
		key := schema.SkillKey(b.Type)
		if i, dup := index[key]; dup {
			out[i].Inferred = out[i].Inferred && b.Inferred
			continue
		}
		index[key] = len(out)
		out = append(out, b)
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// contentVersion hashes the normalized dataset.
func contentVersion(d schema.Dataset) (string, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("failed to hash dataset: %w", err)
	}
	return fmt.Sprintf("%x", sha256.Sum256(data))[:16], nil
}

func (m *MemorySource) snapshot() schema.Dataset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data
}

// Version implements the DataSource interface.
func (m *MemorySource) Version(context.Context) (string, error) {
	return m.snapshot().Version, nil
}

// Jobs implements the DataSource interface.
func (m *MemorySource) Jobs(_ context.Context, filter schema.JobFilter) ([]schema.JobPosting, error) {
	d := m.snapshot()
	out := make([]schema.JobPosting, 0, len(d.Jobs))
	for _, j := range d.Jobs {
		if filter.Matches(j) {
			out = append(out, j)
		}
	}
	return out, nil
}

// Companies implements the DataSource interface.
func (m *MemorySource) Companies(context.Context) ([]schema.Company, error) {
	return slices.Clone(m.snapshot().Companies), nil
}

// Skills implements the DataSource interface.
func (m *MemorySource) Skills(context.Context) ([]schema.Skill, error) {
	return slices.Clone(m.snapshot().Skills), nil
}

// DemandGaps implements the DataSource interface.
func (m *MemorySource) DemandGaps(context.Context) (map[string]float64, error) {
	return maps.Clone(m.snapshot().DemandGaps), nil
}

// Status implements the DataSource interface.
func (m *MemorySource) Status(context.Context) (schema.SourceStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return schema.SourceStatus{
		Backend:   "memory",
		Version:   m.data.Version,
		LoadedAt:  m.loadedAt,
		Jobs:      len(m.data.Jobs),
		Companies: len(m.data.Companies),
		Skills:    len(m.data.Skills),
	}, nil
}

// Close implements the DataSource interface.
func (m *MemorySource) Close() error {
	return nil
}
