package outwriter

import (
	"fmt"
	"strings"

	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/schema"
)

// metricFactor is one weighted hotness component.
type metricFactor struct {
	Key     schema.BreakdownKey `json:"key" yaml:"key"`
	Weight  float64             `json:"weight" yaml:"weight"`
	Purpose string              `json:"purpose" yaml:"purpose"`
}

// metricThreshold maps a lower bound to a label.
type metricThreshold struct {
	Label   string  `json:"label" yaml:"label"`
	Minimum float64 `json:"minimum" yaml:"minimum"`
}

// metricsRenderModel is the static description printed by the metrics command.
type metricsRenderModel struct {
	Title       string            `json:"title" yaml:"title"`
	Description string            `json:"description" yaml:"description"`
	Formula     string            `json:"formula" yaml:"formula"`
	Factors     []metricFactor    `json:"factors" yaml:"factors"`
	Labels      []metricThreshold `json:"labels" yaml:"labels"`
	Trends      []metricThreshold `json:"trends" yaml:"trends"`
}

var factorPurposes = map[schema.BreakdownKey]string{
	schema.BreakdownVolume:        "Posting count of the skill",
	schema.BreakdownGrowth:        "Month-over-month growth of the posting count",
	schema.BreakdownSalaryPremium: "Median salary of the skill relative to the overall median",
	schema.BreakdownDemandGap:     "Demand gap reported for the skill",
}

// formatWeights formats weights for display in formulas.
func formatWeights(weights map[schema.BreakdownKey]float64, keys []schema.BreakdownKey) string {
	var parts []string
	for _, key := range keys {
		if weight, ok := weights[key]; ok && weight > 0 {
			parts = append(parts, fmt.Sprintf("%.2f*%s", weight, key))
		}
	}
	return strings.Join(parts, " + ")
}

// buildMetricsRenderModel constructs the complete render model from the fixed weights.
func buildMetricsRenderModel() metricsRenderModel {
	factors := make([]metricFactor, len(schema.HotnessKeys))
	for i, k := range schema.HotnessKeys {
		factors[i] = metricFactor{Key: k, Weight: schema.HotnessWeights[k], Purpose: factorPurposes[k]}
	}
	return metricsRenderModel{
		Title:       "Skillspot Hotness Score",
		Description: "Each factor is min-max normalized to [0,100] within the scored cohort",
		Formula:     "Hotness = " + formatWeights(schema.HotnessWeights, schema.HotnessKeys),
		Factors:     factors,
		Labels: []metricThreshold{
			{Label: contract.CriticalValue, Minimum: 80},
			{Label: contract.HighValue, Minimum: 60},
			{Label: contract.ModerateValue, Minimum: 40},
			{Label: contract.LowValue, Minimum: 0},
		},
		Trends: []metricThreshold{
			{Label: string(schema.TrendHot), Minimum: 30},
			{Label: string(schema.TrendUp), Minimum: 20},
			{Label: string(schema.TrendRising), Minimum: 0},
		},
	}
}

// metricsTable shows one row per factor. The formula and thresholds follow as text.
func metricsTable(model metricsRenderModel, f formatter) resultTable {
	t := resultTable{
		title:   "🔥 " + model.Title,
		headers: []string{"Factor", "Weight", "Purpose"},
	}
	for _, factor := range model.Factors {
		t.rows = append(t.rows, []string{string(factor.Key), fmt.Sprintf("%.2f", factor.Weight), factor.Purpose})
	}

	labels := make([]string, len(model.Labels))
	for i, l := range model.Labels {
		label := l.Label
		if f.colors {
			label = contract.GetColorLabel(l.Minimum)
		}
		labels[i] = fmt.Sprintf("%s >= %.0f", label, l.Minimum)
	}
	trends := make([]string, len(model.Trends))
	for i, tr := range model.Trends {
		trends[i] = fmt.Sprintf("%s > %.0f%%", f.trend(schema.TrendLabel(tr.Label)), tr.Minimum)
	}
	t.footer = []string{
		model.Formula,
		model.Description,
		"Labels: " + strings.Join(labels, ", "),
		"Trends: " + strings.Join(trends, ", "),
	}
	return t
}
