//go:build basic

package integration

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryEnv keeps the basic tests away from the home directory databases.
var memoryEnv = map[string]string{
	"SKILLSPOT_CACHE_BACKEND": "memory",
}

// fixtureSkillCounts counts postings per skill name straight from the CSV files.
func fixtureSkillCounts(t *testing.T) map[string]int {
	t.Helper()
	read := func(name string) [][]string {
		f, err := os.Open(filepath.Join("..", fixtureDir, name))
		require.NoError(t, err)
		defer func() { _ = f.Close() }()
		rows, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)
		return rows[1:]
	}

	names := map[string]string{}
	for _, row := range read("skills.csv") {
		names[strings.ToUpper(row[0])] = row[1]
	}
	seen := map[[2]string]bool{}
	counts := map[string]int{}
	for _, row := range read("job_skills.csv") {
		name, ok := names[strings.ToUpper(row[1])]
		if !ok {
			name = row[1]
		}
		key := [2]string{row[0], name}
		if seen[key] {
			continue
		}
		seen[key] = true
		counts[name]++
	}
	return counts
}

// TestSkillsVerification runs skillspot skills on the fixture and checks the counts against the CSV files.
func TestSkillsVerification(t *testing.T) {
	out, err := runSkillspot(t, memoryEnv, "skills", "--data-dir", fixtureDir, "--output", "json", "--limit", "50")
	require.NoError(t, err)

	var result struct {
		TotalJobs int `json:"total_jobs"`
		Skills    []struct {
			Rank    int     `json:"rank"`
			Skill   string  `json:"skill"`
			Count   int     `json:"count"`
			Hotness float64 `json:"hotness"`
		} `json:"skills"`
	}
	require.NoError(t, json.Unmarshal(out, &result))

	expected := fixtureSkillCounts(t)
	assert.Equal(t, 3, result.TotalJobs)
	require.Len(t, result.Skills, len(expected))
	for i, s := range result.Skills {
		assert.Equal(t, i+1, s.Rank)
		assert.Equal(t, expected[s.Skill], s.Count, "count of %s", s.Skill)
		assert.GreaterOrEqual(t, s.Hotness, 0.0)
		assert.LessOrEqual(t, s.Hotness, 100.0)
		if i > 0 {
			assert.GreaterOrEqual(t, result.Skills[i-1].Count, s.Count)
		}
	}
}

// TestOutputsAreDeterministic runs the same query twice and expects identical bytes.
func TestOutputsAreDeterministic(t *testing.T) {
	for _, args := range [][]string{
		{"overview", "--output", "json"},
		{"cooccur", "python", "--output", "csv"},
		{"network", "--output", "yaml"},
		{"compare", "go,python", "--output", "json"},
	} {
		t.Run(args[0], func(t *testing.T) {
			full := append([]string{"--data-dir", fixtureDir}, args...)
			first, err := runSkillspot(t, memoryEnv, full...)
			require.NoError(t, err)
			second, err := runSkillspot(t, memoryEnv, full...)
			require.NoError(t, err)
			assert.Equal(t, string(first), string(second))
			assert.NotEmpty(t, first)
		})
	}
}

// TestErrorsExitNonZero checks that invalid queries fail instead of printing a result.
func TestErrorsExitNonZero(t *testing.T) {
	_, err := runSkillspot(t, memoryEnv, "forecast", "python", "--data-dir", fixtureDir)
	assert.Error(t, err, "three months of history are not enough to forecast")

	_, err = runSkillspot(t, memoryEnv, "trending", "--window", "1", "--data-dir", fixtureDir)
	assert.Error(t, err)
}

// TestMetricsNeedsNoData prints the formula without a data source.
func TestMetricsNeedsNoData(t *testing.T) {
	out, err := runSkillspot(t, nil, "metrics", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, string(out), "volume")
}
