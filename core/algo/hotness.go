package algo

import (
	"math"

	"github.com/huangsam/skillspot/schema"
)

// HotnessSignals are the raw, unnormalized inputs for one cohort member.
// A nil Growth means no growth data exists for the member.
type HotnessSignals struct {
	Volume        float64
	Growth        *float64
	SalaryPremium float64
	DemandGap     float64
}

// bounds tracks the cohort range of one signal.
type bounds struct {
	lo, hi float64
	seen   bool
}

// observe ignores NaN and infinities so one bad value cannot widen the range.
func (b *bounds) observe(v float64) {
	if !isFinite(v) {
		return
	}
	if !b.seen {
		b.lo, b.hi, b.seen = v, v, true
		return
	}
	b.lo = math.Min(b.lo, v)
	b.hi = math.Max(b.hi, v)
}

// norm min-max maps v into [0,100]. A zero range (including a sole member) maps to 100.
// NaN maps to 0.
func (b bounds) norm(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if !b.seen || b.hi == b.lo {
		return 100
	}
	return clamp((v-b.lo)/(b.hi-b.lo)*100, 0, 100)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// ScoreCohort scores every member against the cohort passed in this one call:
//
//	hotness = 0.3*norm(volume) + 0.3*norm(growth) + 0.2*norm(salary_premium) + 0.2*norm(demand_gap)
//
// Scores are only comparable within a single call. Members without growth data
// contribute 0 for the growth term and are left out of the growth range.
func ScoreCohort(cohort map[string]HotnessSignals) map[string]schema.HotnessBreakdown {
	var volume, growth, premium, gap bounds
	for _, s := range cohort {
		volume.observe(s.Volume)
		if s.Growth != nil {
			growth.observe(*s.Growth)
		}
		premium.observe(s.SalaryPremium)
		gap.observe(s.DemandGap)
	}

	out := make(map[string]schema.HotnessBreakdown, len(cohort))
	for name, s := range cohort {
		breakdown := map[schema.BreakdownKey]float64{
			schema.BreakdownVolume:        volume.norm(s.Volume),
			schema.BreakdownSalaryPremium: premium.norm(s.SalaryPremium),
			schema.BreakdownDemandGap:     gap.norm(s.DemandGap),
			schema.BreakdownGrowth:        0,
		}
		if s.Growth != nil {
			breakdown[schema.BreakdownGrowth] = growth.norm(*s.Growth)
		}

		var score float64
		for _, k := range schema.HotnessKeys {
			score += schema.HotnessWeights[k] * breakdown[k]
		}
		out[name] = schema.HotnessBreakdown{
			Score:     clamp(score, 0, 100),
			Breakdown: breakdown,
		}
	}
	return out
}

// Score is a convenience for a single-member cohort, which always scores 100 when growth is present.
func Score(volume float64, growth *float64, salaryPremium, demandGap float64) float64 {
	res := ScoreCohort(map[string]HotnessSignals{"": {
		Volume:        volume,
		Growth:        growth,
		SalaryPremium: salaryPremium,
		DemandGap:     demandGap,
	}})
	return res[""].Score
}

// TrendFor buckets a growth percentage into a trend label.
func TrendFor(growth float64) schema.TrendLabel {
	switch {
	case growth > 30:
		return schema.TrendHot
	case growth > 20:
		return schema.TrendUp
	default:
		return schema.TrendRising
	}
}
