// Package forecast adapts external demand forecasters to the engine.
// The adapter enforces the history minimum and the timeout, maps every failure to
// a ForecastUnavailable error and normalizes the returned points.
package forecast

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/huangsam/skillspot/core/algo"
	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/schema"
)

// DefaultMinHistory is the shortest series a forecast is attempted for.
const DefaultMinHistory = 6

// Adapter wraps a Forecaster. It never retries.
type Adapter struct {
	Forecaster contract.Forecaster
	Timeout    time.Duration
	MinHistory int
}

// NewAdapter returns an adapter with the default history minimum.
// A non-positive timeout falls back to contract.DefaultForecastTimeout.
func NewAdapter(f contract.Forecaster, timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = contract.DefaultForecastTimeout
	}
	return &Adapter{Forecaster: f, Timeout: timeout, MinHistory: DefaultMinHistory}
}

// Forecast predicts the next periods months of the skill's posting counts.
func (a *Adapter) Forecast(ctx context.Context, skill string, history []schema.SeriesPoint, periods int) (schema.ForecastResult, error) {
	minHistory := a.MinHistory
	if minHistory <= 0 {
		minHistory = DefaultMinHistory
	}
	if periods < 1 || periods > contract.MaxForecastPeriods {
		return schema.ForecastResult{}, schema.InvalidInput("periods must be between 1 and %d, got %d", contract.MaxForecastPeriods, periods)
	}
	if len(history) < minHistory {
		return schema.ForecastResult{}, schema.InsufficientHistory(len(history), minHistory)
	}
	last, err := time.Parse("2006-01", history[len(history)-1].Period)
	if err != nil {
		return schema.ForecastResult{}, schema.InvalidInput("history period %q is not YYYY-MM", history[len(history)-1].Period)
	}
	if a.Forecaster == nil {
		return schema.ForecastResult{}, schema.ForecastUnavailable(fmt.Errorf("no forecaster configured"))
	}

	callCtx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	out, err := a.call(callCtx, history, periods)
	if err != nil {
		return schema.ForecastResult{}, schema.ForecastUnavailable(err)
	}
	if len(out.Points) == 0 {
		return schema.ForecastResult{}, schema.ForecastUnavailable(fmt.Errorf("forecaster returned no points"))
	}

	points := normalizePoints(out.Points, last, periods)
	confidence := out.Confidence
	if confidence <= 0 || confidence > 100 || math.IsNaN(confidence) {
		confidence = DataQuality(history)
	}
	method := out.Method
	if method == "" {
		method = "external"
	}

	return schema.ForecastResult{
		Skill:      skill,
		Method:     method,
		Confidence: algo.Round(confidence, 2),
		History:    history,
		Forecast:   points,
	}, nil
}

type callResult struct {
	out schema.ForecastOutput
	err error
}

// call returns when the forecaster does or when ctx is done, whichever comes first.
// A forecaster that ignores ctx finishes in the background and its result is dropped.
func (a *Adapter) call(ctx context.Context, history []schema.SeriesPoint, periods int) (schema.ForecastOutput, error) {
	done := make(chan callResult, 1)
	go func() {
		out, err := a.Forecaster.Forecast(ctx, history, periods)
		done <- callResult{out, err}
	}()
	select {
	case <-ctx.Done():
		return schema.ForecastOutput{}, ctx.Err()
	case r := <-done:
		if r.err == nil && ctx.Err() != nil {
			r.err = ctx.Err()
		}
		return r.out, r.err
	}
}

// normalizePoints relabels months after the last history month, clamps negatives
// to zero and orders bounds so that lower <= predicted <= upper.
func normalizePoints(raw []schema.ForecastPoint, last time.Time, periods int) []schema.ForecastPoint {
	n := min(len(raw), periods)
	points := make([]schema.ForecastPoint, n)
	for i := range n {
		p := raw[i]
		predicted := nonNegative(p.Predicted)
		lower := nonNegative(p.LowerBound)
		upper := nonNegative(p.UpperBound)
		lower = min(lower, predicted, upper)
		upper = max(upper, predicted, nonNegative(p.LowerBound))
		points[i] = schema.ForecastPoint{
			Month:      last.AddDate(0, i+1, 0).Format("2006-01"),
			Predicted:  algo.Round(predicted, 2),
			LowerBound: algo.Round(lower, 2),
			UpperBound: algo.Round(upper, 2),
		}
	}
	return points
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

// DataQuality scores a history series in [0,100]: half from its length
// (full marks at twelve months) and half from its coefficient of variation.
func DataQuality(history []schema.SeriesPoint) float64 {
	n := len(history)
	if n == 0 {
		return 0
	}
	values := algo.SeriesValues(history)
	mean, _ := algo.Mean(values)
	cv := 1.0
	if mean > 0 && n > 1 {
		cv = sampleStdDev(values, mean) / mean
	}
	lengthScore := math.Min(1, float64(n)/12) * 100
	spreadScore := math.Max(0, 1-cv) * 100
	return algo.Round((lengthScore+spreadScore)/2, 2)
}

// sampleStdDev uses the n-1 denominator.
func sampleStdDev(values []float64, mean float64) float64 {
	var sum float64
	for _, v := range values {
		sum += (v - mean) * (v - mean)
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
