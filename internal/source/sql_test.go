package source

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/skillspot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *SQLSource {
	t.Helper()
	src, err := Open(schema.SQLiteBackend, filepath.Join(t.TempDir(), "data.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })
	return src
}

func TestSQLSourceEmpty(t *testing.T) {
	ctx := context.Background()
	src := openSQLite(t)

	version, err := src.Version(ctx)
	require.NoError(t, err)
	assert.Empty(t, version)

	jobs, err := src.Jobs(ctx, schema.JobFilter{})
	require.NoError(t, err)
	assert.Empty(t, jobs)

	status, err := src.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.Zero(t, status.Jobs)
}

func TestSQLSourceRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := openSQLite(t)

	d, err := LoadDir("testdata/dataset")
	require.NoError(t, err)
	version, err := src.Replace(ctx, d)
	require.NoError(t, err)
	assert.Len(t, version, 36)

	current, err := src.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, version, current)

	expected, err := Normalize(d)
	require.NoError(t, err)
	jobs, err := src.Jobs(ctx, schema.JobFilter{})
	require.NoError(t, err)
	assert.Equal(t, expected.Jobs, jobs)
	require.Len(t, jobs, 3)
	assert.Equal(t, []schema.Benefit{{Type: "Medical insurance"}, {Type: "Paid time off"}}, jobs[1].Benefits)
	assert.Nil(t, jobs[2].Benefits)

	companies, err := src.Companies(ctx)
	require.NoError(t, err)
	require.Len(t, companies, 2)
	assert.Equal(t, []string{"Aerospace", "Manufacturing"}, companies[0].Industries)
	assert.Len(t, companies[0].EmployeeCounts, 2)
	assert.Equal(t, 150, companies[0].LatestEmployees())

	skills, err := src.Skills(ctx)
	require.NoError(t, err)
	assert.Equal(t, expected.Skills, skills)

	gaps, err := src.DemandGaps(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Go": 82.5}, gaps)

	status, err := src.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, version, status.Version)
	assert.Equal(t, 3, status.Jobs)
	assert.Equal(t, 2, status.Companies)
}

func TestSQLSourceFilters(t *testing.T) {
	ctx := context.Background()
	src := openSQLite(t)
	d, err := LoadDir("testdata/dataset")
	require.NoError(t, err)
	_, err = src.Replace(ctx, d)
	require.NoError(t, err)

	ids := func(jobs []schema.JobPosting) []string {
		out := make([]string, len(jobs))
		for i, j := range jobs {
			out[i] = j.ID
		}
		return out
	}

	jobs, err := src.Jobs(ctx, schema.JobFilter{Skill: "python"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids(jobs))
	assert.Equal(t, []string{"Go", "Python"}, jobs[1].Skills)

	jobs, err = src.Jobs(ctx, schema.JobFilter{Location: "seattle"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids(jobs))

	jobs, err = src.Jobs(ctx, schema.JobFilter{
		Skill: "SQL",
		Since: time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		Until: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, ids(jobs))

	jobs, err = src.Jobs(ctx, schema.JobFilter{Skill: "Haskell"})
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestSQLSourceLocationIsLiteral(t *testing.T) {
	ctx := context.Background()
	d := schema.Dataset{Jobs: []schema.JobPosting{
		{ID: "1", Location: "Remote_US"},
		{ID: "2", Location: "RemoteXUS"},
		{ID: "3", Location: "100% Remote"},
		{ID: "4", Location: "1000 Remote"},
		{ID: "5", Location: "Office!Tower"},
	}}
	src := openSQLite(t)
	_, err := src.Replace(ctx, d)
	require.NoError(t, err)
	mem, err := NewMemorySource(d)
	require.NoError(t, err)

	tests := []struct {
		query string
		want  []string
	}{
		{"remote_us", []string{"1"}},
		{"100%", []string{"3"}},
		{"e!t", []string{"5"}},
		{"remote", []string{"1", "2", "3", "4"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			filter := schema.JobFilter{Location: tt.query}
			fromSQL, err := src.Jobs(ctx, filter)
			require.NoError(t, err)
			fromMem, err := mem.Jobs(ctx, filter)
			require.NoError(t, err)

			var got []string
			for _, j := range fromSQL {
				got = append(got, j.ID)
			}
			assert.Equal(t, tt.want, got)
			assert.Len(t, fromMem, len(tt.want))
		})
	}
}

func TestSQLSourceReplaceChangesVersion(t *testing.T) {
	ctx := context.Background()
	src := openSQLite(t)
	d, err := LoadDir("testdata/dataset")
	require.NoError(t, err)

	first, err := src.Replace(ctx, d)
	require.NoError(t, err)

	d.Jobs = d.Jobs[:1]
	second, err := src.Replace(ctx, d)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	current, err := src.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, current)

	jobs, err := src.Jobs(ctx, schema.JobFilter{})
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func TestMigrateSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "migrate.db")
	require.NoError(t, MigrateSource(schema.SQLiteBackend, path, -1, nil))
	require.NoError(t, MigrateSource(schema.SQLiteBackend, path, 0, nil))
	require.NoError(t, MigrateSource(schema.SQLiteBackend, path, 1, nil))
	require.NoError(t, MigrateSource(schema.SQLiteBackend, path, 2, nil))

	err := MigrateSource(schema.ClickHouseBackend, "clickhouse://localhost:9000", -1, nil)
	assert.Error(t, err)
}
