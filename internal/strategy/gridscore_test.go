package strategy

import (
	"math"
	"testing"

	"GridScout/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestScoreAxis_Ladder(t *testing.T) {
	tests := []struct {
		actual, lo, hi float64
		want           int
	}{
		{8, 8, 12, 5},
		{12, 8, 12, 5},
		{10, 8, 12, 5},
		{11.5, 9.5, 10.5, 4}, // 15% from midpoint 10
		{7.9, 8, 12, 3},      // 21%
		{13.5, 8, 12, 3},     // 35%
		{15, 8, 12, 2},       // 50%
		{5, 8, 12, 2},        // 50%
		{19, 8, 12, 1},       // 90%
		{20, 8, 12, 0},       // 100%
		{0, 8, 12, 0},        // 100%
		{40, 8, 12, 0},
	}
	for _, tt := range tests {
		got, err := scoreAxis(tt.actual, tt.lo, tt.hi)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got, "actual=%v band=[%v,%v]", tt.actual, tt.lo, tt.hi)
	}
}

func TestScoreAxis_Failures(t *testing.T) {
	_, err := scoreAxis(math.NaN(), 1, 2)
	assert.Error(t, err)
	_, err = scoreAxis(1, 0, 0)
	assert.Error(t, err)
}

func TestScoreGridParams_NeutralOnFailure(t *testing.T) {
	eval := ScoreGridParams(
		model.GridParams{PriceRangeRatio: math.NaN(), GridCount: 5, FrequencyMatchScore: 0.7},
		model.OptimalRange{Min: 0.1, Max: 0.2},
		model.OptimalCount{Min: 0, Max: 0},
	)
	assert.Equal(t, neutralAxisScore, eval.RangeScore)
	assert.Equal(t, neutralAxisScore, eval.CountScore)
	assert.Equal(t, 1, eval.FrequencyBonus)
	assert.Equal(t, 5, eval.Total)
}

func TestScoreGridParams_FrequencyBonus(t *testing.T) {
	r := model.OptimalRange{Min: 0.1, Max: 0.2}
	c := model.OptimalCount{Min: 8, Max: 16}
	tests := []struct {
		match     float64
		bonus     int
		total     int
		lowMatchW bool
	}{
		{0.95, 2, 10, false},
		{0.81, 2, 10, false},
		{0.8, 1, 10, false},
		{0.61, 1, 10, false},
		{0.6, 0, 10, false},
		{0.59, 0, 10, true},
		{0, 0, 10, true},
	}
	for _, tt := range tests {
		eval := ScoreGridParams(model.GridParams{PriceRangeRatio: 0.15, GridCount: 10, FrequencyMatchScore: tt.match}, r, c)
		assert.Equal(t, tt.bonus, eval.FrequencyBonus, "match=%v", tt.match)
		assert.Equal(t, tt.total, eval.Total, "match=%v", tt.match)
		if tt.lowMatchW {
			assert.Len(t, eval.Warnings, 1)
		} else {
			assert.Empty(t, eval.Warnings)
		}
	}
}

func TestScoreGridParams_FarOutsideBandWarnsOnBothAxes(t *testing.T) {
	r, c := OptimalBands(0.02, model.FrequencyHigh)
	eval := ScoreGridParams(model.GridParams{PriceRangeRatio: 0, GridCount: 0, FrequencyMatchScore: 0.9}, r, c)

	assert.Equal(t, 0, eval.RangeScore)
	assert.Equal(t, 0, eval.CountScore)
	assert.Equal(t, 2, eval.Total)
	assert.Len(t, eval.Warnings, 2)
	assert.Contains(t, eval.Warnings[0], "价格区间0.0%")
	assert.Contains(t, eval.Warnings[0], "15.8%-25.7%")
	assert.Contains(t, eval.Warnings[1], "网格数量0")
	assert.Contains(t, eval.Warnings[1], "49-52")
}

func TestScoreGridParams_BandRoundTrip(t *testing.T) {
	for _, f := range allTiers {
		for _, amp := range []float64{0, 0.004, 0.01, 0.02, 0.035, 0.08, 0.3} {
			r, c := OptimalBands(amp, f)
			for _, p := range []model.GridParams{
				{PriceRangeRatio: r.Min, GridCount: c.Min},
				{PriceRangeRatio: r.Max, GridCount: c.Max},
				{PriceRangeRatio: (r.Min + r.Max) / 2, GridCount: (c.Min + c.Max) / 2},
			} {
				eval := ScoreGridParams(p, r, c)
				assert.Equal(t, 5, eval.RangeScore, "tier=%s amp=%v", f, amp)
				assert.Equal(t, 5, eval.CountScore, "tier=%s amp=%v", f, amp)
			}
		}
	}
}
