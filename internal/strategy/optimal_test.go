package strategy

import (
	"math"
	"testing"

	"GridScout/internal/model"

	"github.com/stretchr/testify/assert"
)

var allTiers = []model.Frequency{model.FrequencyHigh, model.FrequencyMedium, model.FrequencyLow}

func TestOptimalRange_Formula(t *testing.T) {
	r := OptimalRange(0.02, model.FrequencyHigh)
	assert.False(t, r.Fallback)
	assert.InDelta(t, 0.198, r.Base, 1e-9)
	assert.InDelta(t, 0.1584, r.Min, 1e-9)
	assert.InDelta(t, 0.2574, r.Max, 1e-9)

	r = OptimalRange(0.025, model.FrequencyMedium)
	assert.InDelta(t, 0.1125, r.Base, 1e-9)
	assert.InDelta(t, 0.09, r.Min, 1e-9)
	assert.InDelta(t, 0.14625, r.Max, 1e-9)
}

func TestOptimalRange_FloorAndCeiling(t *testing.T) {
	// base = 0.005*1.2*1.5 = 0.009: floor lifts min to 2%, max = 0.0117 < min,
	// so min shrinks below the floor and the tier default is used instead.
	low := OptimalRange(0.005, model.FrequencyLow)
	assert.True(t, low.Fallback)
	assert.Equal(t, 0.05, low.Min)
	assert.Equal(t, 0.20, low.Max)

	// base = 0.015*1.8 = 0.027: min = 0.0216, max = 0.0351.
	tight := OptimalRange(0.015, model.FrequencyLow)
	assert.False(t, tight.Fallback)
	assert.InDelta(t, 0.0216, tight.Min, 1e-9)

	// base well above the ceiling: max pinned at 50%, min shrinks to 40%.
	huge := OptimalRange(0.10, model.FrequencyHigh)
	assert.False(t, huge.Fallback)
	assert.Equal(t, MaxRangeRatio, huge.Max)
	assert.InDelta(t, 0.4, huge.Min, 1e-12)
}

func TestOptimalRange_BandInvariant(t *testing.T) {
	amplitudes := []float64{-0.01, 0, math.NaN(), math.Inf(1), 1e-6, 0.001, 0.005, 0.01, 0.015, 0.02, 0.03, 0.05, 0.1, 0.5, 2}
	for _, f := range allTiers {
		for _, amp := range amplitudes {
			r := OptimalRange(amp, f)
			assert.GreaterOrEqual(t, r.Min, MinRangeRatio, "tier=%s amp=%v", f, amp)
			assert.Less(t, r.Min, r.Max, "tier=%s amp=%v", f, amp)
			assert.LessOrEqual(t, r.Max, MaxRangeRatio, "tier=%s amp=%v", f, amp)
		}
	}
}

func TestOptimalCount_PerTier(t *testing.T) {
	tests := []struct {
		freq model.Frequency
		want model.OptimalCount
	}{
		// base = floor(1.8 * 5.5^2) = 54 → [max(12,49), min(30,62)] collapses → max = min+3
		{model.FrequencyHigh, model.OptimalCount{Base: 54, Min: 49, Max: 52}},
		// base = floor(1.8 * 2.5^2) = 11 → [8, 16]
		{model.FrequencyMedium, model.OptimalCount{Base: 11, Min: 8, Max: 16}},
		// base = floor(1.8) = 1 → [3, 4]
		{model.FrequencyLow, model.OptimalCount{Base: 1, Min: 3, Max: 4}},
	}
	for _, tt := range tests {
		t.Run(string(tt.freq), func(t *testing.T) {
			assert.Equal(t, tt.want, OptimalCount(0.02, tt.freq))
		})
	}
}

func TestOptimalCount_ZeroAmplitudeFallsBack(t *testing.T) {
	tests := []struct {
		freq     model.Frequency
		min, max int
	}{
		{model.FrequencyHigh, 12, 25},
		{model.FrequencyMedium, 6, 15},
		{model.FrequencyLow, 3, 8},
	}
	for _, tt := range tests {
		for _, amp := range []float64{0, -1, math.NaN()} {
			c := OptimalCount(amp, tt.freq)
			assert.True(t, c.Fallback)
			assert.Equal(t, tt.min, c.Min)
			assert.Equal(t, tt.max, c.Max)
		}
	}
}

func TestTierLookup_UnknownUsesMedium(t *testing.T) {
	assert.Equal(t, 2.5, TargetTriggers("turbo"))
	assert.Equal(t, 5.5, TargetTriggers(model.FrequencyHigh))
	assert.Equal(t, 1.0, TargetTriggers(model.FrequencyLow))
	assert.Equal(t, OptimalRange(0.02, model.FrequencyMedium), OptimalRange(0.02, "turbo"))
}

func TestSuggestGridParams_LandsInsideBands(t *testing.T) {
	for _, f := range allTiers {
		for _, amp := range []float64{0, 0.008, 0.02, 0.04, 0.2} {
			p := SuggestGridParams(amp, f)
			r, c := OptimalBands(amp, f)
			assert.GreaterOrEqual(t, p.PriceRangeRatio, r.Min)
			assert.LessOrEqual(t, p.PriceRangeRatio, r.Max)
			assert.GreaterOrEqual(t, p.GridCount, c.Min)
			assert.LessOrEqual(t, p.GridCount, c.Max)
			assert.Equal(t, 0.5, p.FrequencyMatchScore)
			assert.Equal(t, TargetTriggers(f), p.PredictedDailyTriggers)
		}
	}
}
