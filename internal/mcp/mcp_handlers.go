package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/skillspot/core"
	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	engine  *core.Engine
}

// toolResult encodes a successful result or turns the error into a tool error.
// Errors never reach the protocol layer, so the agent can read them.
func toolResult(tool string, result any, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		contract.Logger().Warn("tool call failed", zap.String("tool", tool), zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", tool, err)), nil
	}
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s failed to encode result: %v", tool, err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleTopSkills(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := h.baseCfg.ResultLimit
	if l := request.GetInt("limit", 0); l > 0 {
		limit = min(l, contract.MaxResultLimit)
	}
	sortKey := h.baseCfg.SortKey
	if s := request.GetString("sort_by", ""); s != "" {
		sortKey = schema.SortKey(strings.ToLower(s))
	}

	result, err := h.engine.TopSkills(ctx, limit, sortKey)
	return toolResult("top_skills", result, err)
}

func (h *toolHandler) handleTrendingSkills(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	window := request.GetInt("window_months", h.baseCfg.WindowMonths)
	if window == 0 {
		window = contract.DefaultWindowMonths
	}
	threshold := request.GetFloat("min_growth", contract.DefaultGrowthThreshold)

	result, err := h.engine.TrendingSkills(ctx, window, threshold)
	return toolResult("trending_skills", result, err)
}

func (h *toolHandler) handleSalaryDistribution(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := schema.SalaryFilter{
		Skill:    strings.TrimSpace(request.GetString("skill", "")),
		Location: strings.TrimSpace(request.GetString("location", "")),
	}

	result, err := h.engine.SalaryDistribution(ctx, filter)
	return toolResult("salary_distribution", result, err)
}

func (h *toolHandler) handleCoOccurrence(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	skill := request.GetString("skill", "")
	minConnections := request.GetInt("min_connections", h.baseCfg.MinConnections)

	result, err := h.engine.CoOccurrence(ctx, skill, minConnections)
	return toolResult("co_occurrence", result, err)
}

func (h *toolHandler) handleMarketOverview(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := h.engine.MarketOverview(ctx)
	return toolResult("market_overview", result, err)
}

func (h *toolHandler) handleSkillNetwork(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	minCount := request.GetInt("min_count", h.baseCfg.MinCount)
	maxNodes := request.GetInt("max_nodes", h.baseCfg.MaxNodes)

	result, err := h.engine.SkillNetwork(ctx, minCount, maxNodes)
	return toolResult("skill_network", result, err)
}

func (h *toolHandler) handleCompareSkills(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var skills []string
	for _, s := range request.GetStringSlice("skills", nil) {
		for part := range strings.SplitSeq(s, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				skills = append(skills, trimmed)
			}
		}
	}

	result, err := h.engine.CompareSkills(ctx, skills)
	return toolResult("compare_skills", result, err)
}

func (h *toolHandler) handleForecastSkill(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	skill := request.GetString("skill", "")
	periods := request.GetInt("periods", h.baseCfg.Periods)
	if periods == 0 {
		periods = contract.DefaultForecastPeriods
	}

	result, err := h.engine.Forecast(ctx, skill, periods)
	return toolResult("forecast_skill", result, err)
}

func (h *toolHandler) handleTopOccupations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := h.baseCfg.ResultLimit
	if l := request.GetInt("limit", 0); l > 0 {
		limit = min(l, contract.MaxResultLimit)
	}
	sortKey := h.baseCfg.SortKey
	if s := request.GetString("sort_by", ""); s != "" {
		sortKey = schema.SortKey(strings.ToLower(s))
	}

	result, err := h.engine.TopOccupations(ctx, limit, sortKey)
	return toolResult("top_occupations", result, err)
}

func (h *toolHandler) handleForecastTopSkills(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n := request.GetInt("top_n", contract.DefaultBatchForecast)
	periods := request.GetInt("periods", h.baseCfg.Periods)
	if periods == 0 {
		periods = contract.DefaultForecastPeriods
	}

	result, err := h.engine.ForecastTopSkills(ctx, n, periods)
	return toolResult("forecast_top_skills", result, err)
}

func (h *toolHandler) handleSalaryTrend(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	skill := request.GetString("skill", "")
	periods := request.GetInt("periods", h.baseCfg.Periods)
	if periods == 0 {
		periods = contract.DefaultForecastPeriods
	}

	result, err := h.engine.SalaryTrend(ctx, skill, periods)
	return toolResult("salary_trend", result, err)
}

func (h *toolHandler) handleBenefits(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", contract.DefaultResultLimit)
	if limit <= 0 {
		limit = contract.DefaultResultLimit
	}

	result, err := h.engine.BenefitsAnalysis(ctx, min(limit, contract.MaxResultLimit))
	return toolResult("benefits", result, err)
}
