package algo

import (
	"math/rand/v2"
	"testing"

	"github.com/huangsam/skillspot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestScoreSingleMemberCohort(t *testing.T) {
	assert.Equal(t, 100.0, Score(12, ptr(35), -4, 0.7))
	assert.Equal(t, 100.0, Score(0, ptr(0), 0, 0))

	// Absent growth contributes 0 to the growth term.
	assert.InDelta(t, 70.0, Score(12, nil, -4, 0.7), 1e-9)
}

// TestScoreCohort tests min-max normalization within a cohort.
func TestScoreCohort(t *testing.T) {
	cohort := map[string]HotnessSignals{
		"Python": {Volume: 120, Growth: ptr(40), SalaryPremium: 10, DemandGap: 0.9},
		"Java":   {Volume: 80, Growth: ptr(-10), SalaryPremium: 0, DemandGap: 0.5},
		"Rust":   {Volume: 10, Growth: ptr(15), SalaryPremium: 30, DemandGap: 0.1},
	}
	scores := ScoreCohort(cohort)
	require.Len(t, scores, 3)

	py := scores["Python"]
	assert.InDelta(t, 100, py.Breakdown[schema.BreakdownVolume], 1e-9)
	assert.InDelta(t, 100, py.Breakdown[schema.BreakdownGrowth], 1e-9)
	assert.InDelta(t, 33.333333, py.Breakdown[schema.BreakdownSalaryPremium], 1e-5)
	assert.InDelta(t, 100, py.Breakdown[schema.BreakdownDemandGap], 1e-9)
	assert.InDelta(t, 0.3*100+0.3*100+0.2*33.333333+0.2*100, py.Score, 1e-5)

	java := scores["Java"]
	assert.InDelta(t, 63.636363, java.Breakdown[schema.BreakdownVolume], 1e-5)
	assert.InDelta(t, 0, java.Breakdown[schema.BreakdownGrowth], 1e-9)
	assert.InDelta(t, 0, java.Breakdown[schema.BreakdownSalaryPremium], 1e-9)
	assert.InDelta(t, 50, java.Breakdown[schema.BreakdownDemandGap], 1e-9)

	rust := scores["Rust"]
	assert.InDelta(t, 0, rust.Breakdown[schema.BreakdownVolume], 1e-9)
	assert.InDelta(t, 50, rust.Breakdown[schema.BreakdownGrowth], 1e-9)
	assert.InDelta(t, 100, rust.Breakdown[schema.BreakdownSalaryPremium], 1e-9)
}

func TestScoreCohortMissingGrowth(t *testing.T) {
	scores := ScoreCohort(map[string]HotnessSignals{
		"Go":   {Volume: 40, Growth: ptr(20), SalaryPremium: 5, DemandGap: 0.4},
		"Perl": {Volume: 5, Growth: nil, SalaryPremium: 5, DemandGap: 0.4},
	})
	assert.Equal(t, 0.0, scores["Perl"].Breakdown[schema.BreakdownGrowth])
	// Go is the only member with growth, so its growth range is zero and it normalizes to 100.
	assert.Equal(t, 100.0, scores["Go"].Breakdown[schema.BreakdownGrowth])
	// Equal premiums and gaps have a zero range and normalize to 100 for both.
	assert.Equal(t, 100.0, scores["Perl"].Breakdown[schema.BreakdownSalaryPremium])
	assert.InDelta(t, 40.0, scores["Perl"].Score, 1e-9)
}

func TestScoreCohortEmpty(t *testing.T) {
	assert.Empty(t, ScoreCohort(nil))
}

// TestScoreCohortBounds checks every score stays inside [0,100] for random cohorts.
func TestScoreCohortBounds(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	for range 100 {
		cohort := make(map[string]HotnessSignals)
		n := 1 + r.IntN(25)
		for i := range n {
			var growth *float64
			if r.IntN(4) > 0 {
				growth = ptr(r.Float64()*400 - 100)
			}
			cohort[string(rune('A'+i))] = HotnessSignals{
				Volume:        float64(r.IntN(1000)),
				Growth:        growth,
				SalaryPremium: r.Float64()*200 - 100,
				DemandGap:     r.Float64(),
			}
		}
		for name, s := range ScoreCohort(cohort) {
			assert.GreaterOrEqual(t, s.Score, 0.0, name)
			assert.LessOrEqual(t, s.Score, 100.0, name)
			for k, v := range s.Breakdown {
				assert.GreaterOrEqual(t, v, 0.0, k)
				assert.LessOrEqual(t, v, 100.0, k)
			}
		}
	}
}

func TestTrendFor(t *testing.T) {
	assert.Equal(t, schema.TrendHot, TrendFor(30.01))
	assert.Equal(t, schema.TrendUp, TrendFor(30))
	assert.Equal(t, schema.TrendUp, TrendFor(20.5))
	assert.Equal(t, schema.TrendRising, TrendFor(20))
	assert.Equal(t, schema.TrendRising, TrendFor(-5))
}
