//go:build database

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startContainer starts a container and terminates it when the test ends.
func startContainer(t *testing.T, req testcontainers.ContainerRequest) (host, port string) {
	t.Helper()
	ctx := context.Background()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	host, err = c.Host(ctx)
	require.NoError(t, err)
	mapped, err := c.MappedPort(ctx, nat.Port(req.ExposedPorts[0]))
	require.NoError(t, err)
	return host, mapped.Port()
}

// exerciseBackends loads the fixture and runs queries, cache and analysis commands against env.
func exerciseBackends(t *testing.T, env map[string]string) {
	t.Helper()

	_, err := runSkillspot(t, env, "cache", "clear")
	require.NoError(t, err)
	_, err = runSkillspot(t, env, "analysis", "clear")
	require.NoError(t, err)

	_, err = runSkillspot(t, env, "load", fixtureDir)
	require.NoError(t, err)

	out, err := runSkillspot(t, env, "source", "status")
	require.NoError(t, err)
	assert.Contains(t, string(out), "Postings: 3")

	// The second run is served from the cache and must match the first
	first, err := runSkillspot(t, env, "skills", "--sort", "hotness", "--output", "json")
	require.NoError(t, err)
	second, err := runSkillspot(t, env, "skills", "--sort", "hotness", "--output", "json")
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))

	var result struct {
		TotalJobs int `json:"total_jobs"`
	}
	require.NoError(t, json.Unmarshal(first, &result))
	assert.Equal(t, 3, result.TotalJobs)

	_, err = runSkillspot(t, env, "salary", "--output", "json")
	require.NoError(t, err)

	out, err = runSkillspot(t, env, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, string(out), "Connected: true")

	out, err = runSkillspot(t, env, "analysis", "status")
	require.NoError(t, err)
	assert.Contains(t, string(out), "Total Runs: 1")
}

// TestSkillspotWithMySQL tests the skillspot CLI with a MySQL backend.
func TestSkillspotWithMySQL(t *testing.T) {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "skillspot",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	})
	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/skillspot?parseTime=true", host, port)

	exerciseBackends(t, map[string]string{
		"SKILLSPOT_SOURCE_BACKEND":      "mysql",
		"SKILLSPOT_SOURCE_DB_CONNECT":   connStr,
		"SKILLSPOT_CACHE_BACKEND":       "mysql",
		"SKILLSPOT_CACHE_DB_CONNECT":    connStr,
		"SKILLSPOT_ANALYSIS_BACKEND":    "mysql",
		"SKILLSPOT_ANALYSIS_DB_CONNECT": connStr,
	})
}

// TestSkillspotWithPostgres tests the skillspot CLI with a PostgreSQL backend.
func TestSkillspotWithPostgres(t *testing.T) {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	})
	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port)

	exerciseBackends(t, map[string]string{
		"SKILLSPOT_SOURCE_BACKEND":      "postgresql",
		"SKILLSPOT_SOURCE_DB_CONNECT":   connStr,
		"SKILLSPOT_CACHE_BACKEND":       "postgresql",
		"SKILLSPOT_CACHE_DB_CONNECT":    connStr,
		"SKILLSPOT_ANALYSIS_BACKEND":    "postgresql",
		"SKILLSPOT_ANALYSIS_DB_CONNECT": connStr,
	})
}

// TestSkillspotWithRedisCache tests the Redis result cache over a SQLite dataset.
func TestSkillspotWithRedisCache(t *testing.T) {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	})
	dir := t.TempDir()

	exerciseBackends(t, map[string]string{
		"SKILLSPOT_SOURCE_BACKEND":      "sqlite",
		"SKILLSPOT_SOURCE_DB_CONNECT":   dir + "/data.db",
		"SKILLSPOT_CACHE_BACKEND":       "redis",
		"SKILLSPOT_CACHE_DB_CONNECT":    fmt.Sprintf("redis://%s:%s/0", host, port),
		"SKILLSPOT_ANALYSIS_BACKEND":    "sqlite",
		"SKILLSPOT_ANALYSIS_DB_CONNECT": dir + "/analysis.db",
	})
}
