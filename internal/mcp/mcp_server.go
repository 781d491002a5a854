// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/skillspot/core"
	"github.com/huangsam/skillspot/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Skillspot MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, engine *core.Engine) *server.MCPServer {
	s := server.NewMCPServer(
		"Skillspot Labor Market Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		engine:  engine,
	}

	// --- 1. Tool: top_skills ---
	s.AddTool(mcp.NewTool("top_skills",
		mcp.WithDescription("Rank skills by posting count, hotness or growth."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of skills returned.")),
		mcp.WithString("sort_by", mcp.Description("Ranking key. Defaults to 'count'."), mcp.Enum("count", "hotness", "growth")),
	), h.handleTopSkills)

	// --- 2. Tool: trending_skills ---
	s.AddTool(mcp.NewTool("trending_skills",
		mcp.WithDescription("Find skills whose posting count grew faster than a threshold over the trailing months."),
		mcp.WithNumber("window_months", mcp.Description("Number of trailing months (at least 2). Defaults to 6.")),
		mcp.WithNumber("min_growth", mcp.Description("Growth threshold in percent. Defaults to 10.")),
	), h.handleTrendingSkills)

	// --- 3. Tool: salary_distribution ---
	s.AddTool(mcp.NewTool("salary_distribution",
		mcp.WithDescription("Describe annualized salaries for a skill and/or location."),
		mcp.WithString("skill", mcp.Description("Skill name (case-insensitive).")),
		mcp.WithString("location", mcp.Description("City or state substring (case-insensitive).")),
	), h.handleSalaryDistribution)

	// --- 4. Tool: co_occurrence ---
	s.AddTool(mcp.NewTool("co_occurrence",
		mcp.WithDescription("List the skills that appear in the same postings as a given skill."),
		mcp.WithString("skill", mcp.Description("Anchor skill."), mcp.Required()),
		mcp.WithNumber("min_connections", mcp.Description("Minimum number of shared postings.")),
	), h.handleCoOccurrence)

	// --- 5. Tool: market_overview ---
	s.AddTool(mcp.NewTool("market_overview",
		mcp.WithDescription("Summarize jobs, companies, skills, salaries and industries."),
	), h.handleMarketOverview)

	// --- 6. Tool: skill_network ---
	s.AddTool(mcp.NewTool("skill_network",
		mcp.WithDescription("Build the co-occurrence graph among the most common skills."),
		mcp.WithNumber("min_count", mcp.Description("Minimum posting count for a skill to become a node.")),
		mcp.WithNumber("max_nodes", mcp.Description("Maximum number of nodes. Defaults to 20.")),
	), h.handleSkillNetwork)

	// --- 7. Tool: compare_skills ---
	s.AddTool(mcp.NewTool("compare_skills",
		mcp.WithDescription("Compare skills side by side. Hotness is scored within the compared set."),
		mcp.WithArray("skills", mcp.Description("Skills to compare."), mcp.Required(), mcp.WithStringItems()),
	), h.handleCompareSkills)

	// --- 8. Tool: forecast_skill ---
	s.AddTool(mcp.NewTool("forecast_skill",
		mcp.WithDescription("Forecast the monthly posting count of a skill from its real history."),
		mcp.WithString("skill", mcp.Description("Skill to forecast."), mcp.Required()),
		mcp.WithNumber("periods", mcp.Description("Months to forecast (1-24). Defaults to 6.")),
	), h.handleForecastSkill)

	// --- 9. Tool: top_occupations ---
	s.AddTool(mcp.NewTool("top_occupations",
		mcp.WithDescription("Rank the job titles of active postings by count, hotness or growth."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of occupations returned.")),
		mcp.WithString("sort_by", mcp.Description("Ranking key. Defaults to 'count'."), mcp.Enum("count", "hotness", "growth")),
	), h.handleTopOccupations)

	// --- 10. Tool: forecast_top_skills ---
	s.AddTool(mcp.NewTool("forecast_top_skills",
		mcp.WithDescription("Forecast the monthly posting count of the busiest skills. Skills that cannot be forecast are listed as skipped."),
		mcp.WithNumber("top_n", mcp.Description("Number of skills (1-20). Defaults to 10.")),
		mcp.WithNumber("periods", mcp.Description("Months to forecast (1-24). Defaults to 6.")),
	), h.handleForecastTopSkills)

	// --- 11. Tool: salary_trend ---
	s.AddTool(mcp.NewTool("salary_trend",
		mcp.WithDescription("Forecast a skill's monthly median annualized salary from its real history."),
		mcp.WithString("skill", mcp.Description("Skill to forecast."), mcp.Required()),
		mcp.WithNumber("periods", mcp.Description("Months to forecast (1-24). Defaults to 6.")),
	), h.handleSalaryTrend)

	// --- 12. Tool: benefits ---
	s.AddTool(mcp.NewTool("benefits",
		mcp.WithDescription("Rank the benefits offered in postings."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of benefits returned. Defaults to 20.")),
	), h.handleBenefits)

	return s
}

// StartMCPServer starts the Skillspot MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, engine *core.Engine) error {
	s := NewMCPServer(baseCfg, engine)
	return server.ServeStdio(s)
}
