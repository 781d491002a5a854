package forecast

import (
	"context"
	"fmt"

	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/schema"
)

// Linear fits a least-squares trend line and extends it with ±20% bounds.
type Linear struct{}

var _ contract.Forecaster = Linear{} // Compile-time check

// Forecast implements the Forecaster interface. Month labels are filled in by the adapter.
func (Linear) Forecast(ctx context.Context, history []schema.SeriesPoint, periods int) (schema.ForecastOutput, error) {
	if err := ctx.Err(); err != nil {
		return schema.ForecastOutput{}, err
	}
	n := len(history)
	if n < 2 {
		return schema.ForecastOutput{}, fmt.Errorf("linear trend needs at least 2 points, have %d", n)
	}

	// x = 0..n-1
	var sumX, sumY, sumXY, sumXX float64
	for i, p := range history {
		x, y := float64(i), float64(p.Count)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	fn := float64(n)
	slope := (fn*sumXY - sumX*sumY) / (fn*sumXX - sumX*sumX)
	intercept := (sumY - slope*sumX) / fn

	points := make([]schema.ForecastPoint, periods)
	for i := range periods {
		predicted := max(0, intercept+slope*float64(n+i))
		points[i] = schema.ForecastPoint{
			Predicted:  predicted,
			LowerBound: predicted * 0.8,
			UpperBound: predicted * 1.2,
		}
	}
	return schema.ForecastOutput{Method: "linear", Points: points}, nil
}

// Unavailable is the forecaster behind the none backend.
type Unavailable struct{}

var _ contract.Forecaster = Unavailable{} // Compile-time check

// Forecast implements the Forecaster interface. It always fails.
func (Unavailable) Forecast(context.Context, []schema.SeriesPoint, int) (schema.ForecastOutput, error) {
	return schema.ForecastOutput{}, fmt.Errorf("forecasting is disabled")
}
