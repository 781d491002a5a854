// Package algo holds the pure statistics, hotness scoring and ranking used by the engine.
package algo

import (
	"math"
	"slices"

	"github.com/huangsam/skillspot/schema"
)

// Count returns the cardinality of rows. An empty or nil slice yields 0.
func Count[T any](rows []T) int {
	return len(rows)
}

// sortedCopy returns values sorted ascending without touching the caller's slice.
func sortedCopy(values []float64) []float64 {
	s := slices.Clone(values)
	slices.Sort(s)
	return s
}

// Percentile returns the linearly interpolated p-th percentile of values.
// The rank is p/100*(n-1), so Percentile(v, 0) is the minimum and Percentile(v, 100) the maximum.
func Percentile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return 0, schema.NewAnalyticsError(schema.KindEmptyInput, "percentile of empty input", nil)
	}
	if math.IsNaN(p) || p < 0 || p > 100 {
		return 0, schema.InvalidInput("percentile %v outside [0,100]", p)
	}
	return percentileSorted(sortedCopy(values), p), nil
}

func percentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Median is the 50th percentile.
func Median(values []float64) (float64, error) {
	return Percentile(values, 50)
}

// Mean returns the arithmetic mean of values.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, schema.NewAnalyticsError(schema.KindEmptyInput, "mean of empty input", nil)
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), nil
}

// StdDev returns the population standard deviation of values.
func StdDev(values []float64) (float64, error) {
	mean, err := Mean(values)
	if err != nil {
		return 0, err
	}
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values))), nil
}

// MinMax returns the smallest and largest of values.
func MinMax(values []float64) (lo, hi float64, err error) {
	if len(values) == 0 {
		return 0, 0, schema.NewAnalyticsError(schema.KindEmptyInput, "min/max of empty input", nil)
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, nil
}

// Histogram partitions values into bucketCount equal-width buckets spanning [min, max].
// Buckets are half-open [low, high) except the last one which is closed.
// When min == max all values land in a single bucket.
func Histogram(values []float64, bucketCount int) ([]schema.HistogramBucket, error) {
	if bucketCount < 1 {
		return nil, schema.InvalidInput("bucket count must be at least 1 (received %d)", bucketCount)
	}
	if len(values) == 0 {
		return []schema.HistogramBucket{}, nil
	}

	lo, hi, _ := MinMax(values)
	if lo == hi {
		return []schema.HistogramBucket{{Low: lo, High: hi, Count: len(values)}}, nil
	}

	width := (hi - lo) / float64(bucketCount)
	buckets := make([]schema.HistogramBucket, bucketCount)
	for i := range buckets {
		buckets[i].Low = lo + float64(i)*width
		buckets[i].High = lo + float64(i+1)*width
	}
	// Share boundaries exactly so the partition has no gaps from rounding.
	for i := 1; i < bucketCount; i++ {
		buckets[i].Low = buckets[i-1].High
	}
	buckets[bucketCount-1].High = hi

	for _, v := range values {
		buckets[bucketIndex(buckets, v)].Count++
	}
	return buckets, nil
}

// bucketIndex finds the bucket holding v, honoring the half-open boundaries.
func bucketIndex(buckets []schema.HistogramBucket, v float64) int {
	last := len(buckets) - 1
	idx, _ := slices.BinarySearchFunc(buckets, v, func(b schema.HistogramBucket, target float64) int {
		switch {
		case target < b.Low:
			return 1
		case target >= b.High:
			return -1
		default:
			return 0
		}
	})
	return min(idx, last)
}

// GrowthRate returns (latest - earliest) / earliest * 100 over an ordered count series.
// It returns schema.ErrUndefinedGrowth when fewer than two periods exist or earliest is zero.
func GrowthRate(series []float64) (float64, error) {
	g, ok := growth(series)
	if !ok {
		return 0, schema.ErrUndefinedGrowth
	}
	return g, nil
}

// GrowthOrZero coerces an undefined growth rate to 0 and reports whether it was defined.
func GrowthOrZero(series []float64) (float64, bool) {
	return growth(series)
}

func growth(series []float64) (float64, bool) {
	if len(series) < 2 || series[0] == 0 {
		return 0, false
	}
	earliest, latest := series[0], series[len(series)-1]
	return (latest - earliest) / earliest * 100, true
}

// SeriesValues converts a count series into float64 values.
func SeriesValues(series []schema.SeriesPoint) []float64 {
	out := make([]float64, len(series))
	for i, p := range series {
		out[i] = float64(p.Count)
	}
	return out
}

// Round rounds v to the given number of decimals.
func Round(v float64, decimals int) float64 {
	pow := math.Pow10(decimals)
	return math.Round(v*pow) / pow
}
