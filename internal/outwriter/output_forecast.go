package outwriter

import (
	"fmt"
	"time"

	"github.com/huangsam/skillspot/schema"
)

// forecastTable lists the real history followed by the predicted months.
func forecastTable(result schema.ForecastResult, f formatter, duration time.Duration) resultTable {
	t := resultTable{
		title:   fmt.Sprintf("🔮 Demand forecast for %s (%s, confidence %s)", result.Skill, result.Method, f.percent(result.Confidence)),
		headers: []string{"Month", "Kind", "Count", "Lower", "Upper"},
	}
	for _, p := range result.History {
		t.rows = append(t.rows, []string{p.Period, "actual", f.int(p.Count), "", ""})
	}
	for _, p := range result.Forecast {
		t.rows = append(t.rows, []string{p.Month, "forecast", f.float(p.Predicted), f.float(p.LowerBound), f.float(p.UpperBound)})
	}
	t.footer = []string{
		fmt.Sprintf("%d months of history, %d forecast. Query completed in %v", len(result.History), len(result.Forecast), duration),
	}
	return t
}

// batchForecastTable puts each skill's predicted months on one row.
func batchForecastTable(result schema.BatchForecastResult, f formatter, duration time.Duration) resultTable {
	t := resultTable{
		title:   fmt.Sprintf("🔮 Demand forecast for the top %d skills", len(result.Forecasts)+len(result.Skipped)),
		headers: []string{"Skill", "Method", "Confidence", "Last Actual", "Next", "Final", "Months"},
	}
	for _, r := range result.Forecasts {
		last := ""
		if n := len(r.History); n > 0 {
			last = f.int(r.History[n-1].Count)
		}
		next, final := "", ""
		if n := len(r.Forecast); n > 0 {
			next, final = f.float(r.Forecast[0].Predicted), f.float(r.Forecast[n-1].Predicted)
		}
		t.rows = append(t.rows, []string{f.text(r.Skill), r.Method, f.percent(r.Confidence), last, next, final, f.int(len(r.Forecast))})
	}
	for _, s := range result.Skipped {
		t.footer = append(t.footer, fmt.Sprintf("Skipped %s: %s", s.Skill, s.Kind))
	}
	t.footer = append(t.footer, fmt.Sprintf("%d forecast, %d skipped, %d months ahead. Query completed in %v",
		len(result.Forecasts), len(result.Skipped), result.Periods, duration))
	return t
}

// salaryTrendTable lists the monthly salary medians followed by the predicted months.
func salaryTrendTable(result schema.SalaryTrendResult, f formatter, duration time.Duration) resultTable {
	t := resultTable{
		title:   fmt.Sprintf("💰 Salary trend for %s (%s, confidence %s)", result.Skill, result.Method, f.percent(result.Confidence)),
		headers: []string{"Month", "Kind", "Median", "Lower", "Upper", "Postings"},
	}
	for _, p := range result.History {
		t.rows = append(t.rows, []string{p.Period, "actual", f.money(p.Median), "", "", f.int(p.Count)})
	}
	for _, p := range result.Forecast {
		t.rows = append(t.rows, []string{p.Month, "forecast", f.money(p.Predicted), f.money(p.LowerBound), f.money(p.UpperBound), ""})
	}
	if f.plain {
		return t
	}
	t.footer = []string{
		fmt.Sprintf("Mean %s | Median %s | Std Dev %s over %d observations",
			f.money(result.Mean), f.money(result.Median), f.money(result.StdDev), result.Observations),
		fmt.Sprintf("Query completed in %v", duration),
	}
	return t
}
