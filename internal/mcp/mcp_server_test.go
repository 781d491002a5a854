package mcp_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/huangsam/skillspot/core"
	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/internal/forecast"
	mcp_internal "github.com/huangsam/skillspot/internal/mcp"
	"github.com/huangsam/skillspot/internal/source"
	"github.com/huangsam/skillspot/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *server.MCPServer {
	t.Helper()
	var d schema.Dataset
	for m := 1; m <= 8; m++ {
		for i := range m {
			at := time.Date(2024, time.Month(m), i+1, 0, 0, 0, 0, time.UTC)
			pay := float64(100000 + m*1000)
			job := schema.JobPosting{
				ID:       fmt.Sprintf("go-%d-%d", m, i),
				Title:    "Backend Engineer",
				PostedAt: at,
				Skills:   []string{"Go", "SQL"},
				Salary:   &schema.SalaryRange{Med: &pay, Period: schema.YearlyPay},
				Active:   true,
			}
			if i == 0 {
				job.Benefits = []schema.Benefit{{Type: "Medical insurance"}}
			}
			d.Jobs = append(d.Jobs, job)
		}
	}
	d.Jobs = append(d.Jobs, schema.JobPosting{
		ID: "py-1", Title: "Data Analyst", PostedAt: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), Skills: []string{"Python"}, Active: true,
	})

	src, err := source.NewMemorySource(d)
	require.NoError(t, err)
	engine := core.NewEngine(src, core.WithForecaster(forecast.NewAdapter(forecast.Linear{}, time.Second)))

	baseCfg := &contract.Config{
		ResultLimit:  contract.DefaultResultLimit,
		SortKey:      schema.SortByCount,
		WindowMonths: contract.DefaultWindowMonths,
		MaxNodes:     contract.DefaultMaxNodes,
		Periods:      contract.DefaultForecastPeriods,
	}
	return mcp_internal.NewMCPServer(baseCfg, engine)
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotEmpty(t, res.Content)
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerTools(t *testing.T) {
	s := newTestServer(t)
	for _, name := range []string{
		"top_skills", "trending_skills", "salary_distribution", "co_occurrence",
		"market_overview", "skill_network", "compare_skills", "forecast_skill",
		"top_occupations", "forecast_top_skills", "salary_trend", "benefits",
	} {
		assert.NotNil(t, s.GetTool(name), "Tool %s should exist", name)
	}
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	s := newTestServer(t)

	t.Run("co_occurrence empty skill", func(t *testing.T) {
		res := callTool(t, s, "co_occurrence", map[string]any{"skill": ""})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, resultText(res), string(schema.KindInvalidInput))
	})

	t.Run("trending_skills window too short", func(t *testing.T) {
		res := callTool(t, s, "trending_skills", map[string]any{"window_months": 1.0})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), string(schema.KindInvalidInput))
	})

	t.Run("forecast_skill short history", func(t *testing.T) {
		res := callTool(t, s, "forecast_skill", map[string]any{"skill": "Python"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), string(schema.KindInsufficientHistory))
	})

	t.Run("compare_skills without skills", func(t *testing.T) {
		res := callTool(t, s, "compare_skills", map[string]any{"skills": []any{}})
		assert.True(t, res.IsError)
	})

	t.Run("salary_trend empty skill", func(t *testing.T) {
		res := callTool(t, s, "salary_trend", map[string]any{"skill": " "})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), string(schema.KindInvalidInput))
	})

	t.Run("forecast_top_skills too many", func(t *testing.T) {
		res := callTool(t, s, "forecast_top_skills", map[string]any{"top_n": 50.0})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), string(schema.KindInvalidInput))
	})

	t.Run("top_occupations bad sort", func(t *testing.T) {
		res := callTool(t, s, "top_occupations", map[string]any{"sort_by": "salary"})
		assert.True(t, res.IsError)
	})
}

func TestMCPServerHandlers_Results(t *testing.T) {
	s := newTestServer(t)

	t.Run("top_skills", func(t *testing.T) {
		res := callTool(t, s, "top_skills", map[string]any{"limit": 2.0})
		require.False(t, res.IsError, resultText(res))

		var out schema.TopSkillsResult
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &out))
		require.Len(t, out.Skills, 2)
		assert.Equal(t, "Go", out.Skills[0].Skill)
		assert.Equal(t, "SQL", out.Skills[1].Skill)
	})

	t.Run("compare_skills splits comma lists", func(t *testing.T) {
		res := callTool(t, s, "compare_skills", map[string]any{"skills": []any{"go, python"}})
		require.False(t, res.IsError, resultText(res))

		var out schema.SkillComparison
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &out))
		assert.Len(t, out.Skills, 2)
	})

	t.Run("forecast_skill", func(t *testing.T) {
		res := callTool(t, s, "forecast_skill", map[string]any{"skill": "go", "periods": 2.0})
		require.False(t, res.IsError, resultText(res))

		var out schema.ForecastResult
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &out))
		assert.Len(t, out.Forecast, 2)
	})

	t.Run("top_occupations", func(t *testing.T) {
		res := callTool(t, s, "top_occupations", map[string]any{"sort_by": "count"})
		require.False(t, res.IsError, resultText(res))

		var out schema.TopOccupationsResult
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &out))
		require.Len(t, out.Occupations, 2)
		assert.Equal(t, "Backend Engineer", out.Occupations[0].Occupation)
		assert.Equal(t, 36, out.Occupations[0].Count)
		assert.Equal(t, "Data Analyst", out.Occupations[1].Occupation)
	})

	t.Run("forecast_top_skills", func(t *testing.T) {
		res := callTool(t, s, "forecast_top_skills", map[string]any{"top_n": 3.0, "periods": 2.0})
		require.False(t, res.IsError, resultText(res))

		var out schema.BatchForecastResult
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &out))
		require.Len(t, out.Forecasts, 2)
		assert.Equal(t, "Go", out.Forecasts[0].Skill)
		assert.Equal(t, "SQL", out.Forecasts[1].Skill)
		require.Len(t, out.Skipped, 1)
		assert.Equal(t, schema.KindInsufficientHistory, out.Skipped[0].Kind)
	})

	t.Run("salary_trend", func(t *testing.T) {
		res := callTool(t, s, "salary_trend", map[string]any{"skill": "go", "periods": 2.0})
		require.False(t, res.IsError, resultText(res))

		var out schema.SalaryTrendResult
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &out))
		assert.Equal(t, "Go", out.Skill)
		assert.Len(t, out.History, 8)
		assert.Len(t, out.Forecast, 2)
		assert.Equal(t, 36, out.Observations)
	})

	t.Run("benefits", func(t *testing.T) {
		res := callTool(t, s, "benefits", nil)
		require.False(t, res.IsError, resultText(res))

		var out schema.BenefitsAnalysis
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &out))
		assert.Equal(t, 8, out.JobsWithBenefits)
		require.Len(t, out.TopBenefits, 1)
		assert.Equal(t, 100.0, out.TopBenefits[0].Percentage)
	})

	t.Run("market_overview", func(t *testing.T) {
		res := callTool(t, s, "market_overview", nil)
		require.False(t, res.IsError, resultText(res))
		assert.Contains(t, resultText(res), "\"total\": 37")
	})
}
