package agg

import (
	"testing"

	"github.com/huangsam/skillspot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationStats(t *testing.T) {
	stats := LocationStats(loadFixture(t), 0)
	require.Len(t, stats, 4)

	assert.Equal(t, "Austin", stats[0].City)
	assert.Equal(t, "TX", stats[0].State)
	assert.Equal(t, 3, stats[0].Count)
	assert.InDelta(t, 33.333, stats[0].RemoteShare, 1e-3)
	assert.Equal(t, 120000.0, stats[0].MedianSalary)

	assert.Equal(t, "Seattle", stats[1].City)
	assert.Equal(t, 0.0, stats[1].MedianSalary) // a single observation is not enough

	// Ties on count are ordered by city name.
	assert.Equal(t, "Boston", stats[2].City)
	assert.Equal(t, "Remote", stats[3].City)
	assert.Equal(t, 100.0, stats[3].RemoteShare)

	assert.Len(t, LocationStats(loadFixture(t), 2), 2)
	assert.Empty(t, LocationStats(nil, 5))
}

func TestCompanyStats(t *testing.T) {
	d := &schema.Dataset{
		Jobs: loadFixture(t),
		Companies: []schema.Company{
			{ID: "acme", Name: "Acme", FollowerCount: 1200},
			{ID: "globex", Name: "Globex"},
			{ID: "initech", Name: "Initech"},
			{ID: "hooli", Name: "Hooli"},
		},
	}
	stats := CompanyStats(d, 0)
	require.Len(t, stats, 3)

	assert.Equal(t, "Acme", stats[0].Company)
	assert.Equal(t, 2, stats[0].ActivePostings)
	assert.Equal(t, 1200, stats[0].Followers)
	assert.Equal(t, []string{"SQL", "Docker", "Go"}, stats[0].TopSkills)

	assert.Equal(t, "Initech", stats[1].Company)
	assert.Equal(t, []string{"Python", "SQL"}, stats[1].TopSkills)

	assert.Equal(t, "Globex", stats[2].Company)
	assert.Equal(t, 1, stats[2].ActivePostings)
}
