package core

import (
	"context"
	"testing"
	"time"

	"github.com/huangsam/skillspot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titled(id string, at time.Time, title string, active bool) schema.JobPosting {
	return schema.JobPosting{ID: id, Title: title, PostedAt: at, Active: active}
}

// occupationDataset has three active Data Engineer postings in two spellings, three Analyst
// postings, one Backend Engineer and one inactive Intern.
func occupationDataset() schema.Dataset {
	return schema.Dataset{Jobs: []schema.JobPosting{
		withSalary(titled("1", month(1, 5), "Data Engineer", true), 120000),
		withSalary(titled("2", month(2, 5), "Data Engineer", true), 140000),
		titled("3", month(3, 5), "data engineer", true),
		withSalary(titled("4", month(1, 9), "Analyst", true), 80000),
		titled("5", month(3, 9), "Analyst", true),
		titled("6", month(3, 10), "Analyst", true),
		titled("7", month(3, 11), "Intern", false),
		titled("8", month(3, 12), "Backend Engineer", true),
	}}
}

func TestTopOccupations(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(newSource(t, occupationDataset()))

	result, err := e.TopOccupations(ctx, 0, "")
	require.NoError(t, err)
	assert.Equal(t, schema.SortByCount, result.SortKey)
	assert.Equal(t, 3, result.CohortSize)
	assert.Equal(t, 7, result.ActiveJobs)
	assert.NotEmpty(t, result.DataVersion)

	var names []string
	for i, o := range result.Occupations {
		names = append(names, o.Occupation)
		assert.Equal(t, i+1, o.Rank)
		assert.GreaterOrEqual(t, o.Hotness, 0.0)
		assert.LessOrEqual(t, o.Hotness, 100.0)
		assert.NotEmpty(t, o.Label)
	}
	// Ties on count are ordered by title.
	assert.Equal(t, []string{"Analyst", "Data Engineer", "Backend Engineer"}, names)

	data := result.Occupations[1]
	assert.Equal(t, 3, data.Count)
	assert.Equal(t, 130000.0, data.MedianSalary)
	assert.Equal(t, 100.0, data.DemandGap)
	assert.InDelta(t, 33.333, result.Occupations[2].DemandGap, 1e-3)

	top1, err := e.TopOccupations(ctx, 1, schema.SortByHotness)
	require.NoError(t, err)
	assert.Len(t, top1.Occupations, 1)
	assert.Equal(t, 3, top1.CohortSize)

	_, err = e.TopOccupations(ctx, 5, "salary")
	assert.ErrorIs(t, err, schema.ErrInvalidInput)

	empty, err := NewEngine(newSource(t, schema.Dataset{})).TopOccupations(ctx, 5, schema.SortByCount)
	require.NoError(t, err)
	assert.Empty(t, empty.Occupations)
	assert.Zero(t, empty.CohortSize)
}

func TestBenefitsAnalysis(t *testing.T) {
	ctx := context.Background()
	d := occupationDataset()
	d.Jobs[0].Benefits = []schema.Benefit{{Type: "Medical insurance"}, {Type: "401(k)", Inferred: true}}
	d.Jobs[1].Benefits = []schema.Benefit{{Type: "medical insurance"}}
	d.Jobs[4].Benefits = []schema.Benefit{{Type: "Paid time off"}, {Type: "Medical insurance", Inferred: true}}
	e := NewEngine(newSource(t, d))

	result, err := e.BenefitsAnalysis(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 8, result.TotalJobs)
	assert.Equal(t, 3, result.JobsWithBenefits)
	assert.Equal(t, 1.67, result.AveragePerJob)
	require.Len(t, result.TopBenefits, 2)
	assert.Equal(t, schema.BenefitStat{Benefit: "Medical insurance", Count: 3, Inferred: 1, Percentage: 100}, result.TopBenefits[0])
	assert.Equal(t, "401(k)", result.TopBenefits[1].Benefit)

	none, err := NewEngine(newSource(t, trendDataset())).BenefitsAnalysis(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, none.JobsWithBenefits)
	assert.Empty(t, none.TopBenefits)
}
