package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdDev_IsPopulation(t *testing.T) {
	std, err := StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, std, 1e-12)
}

func TestEmptyInputs(t *testing.T) {
	_, err := Mean(nil)
	assert.ErrorIs(t, err, ErrEmptySeries)
	_, err = StdDev(nil)
	assert.ErrorIs(t, err, ErrEmptySeries)
	_, _, err = MinMax(nil)
	assert.ErrorIs(t, err, ErrEmptySeries)
	_, err = Percentile(nil, 50)
	assert.ErrorIs(t, err, ErrEmptySeries)
	_, err = TrendSlope([]float64{1})
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestCoefficientOfVariation(t *testing.T) {
	cv, err := CoefficientOfVariation([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(t, err)
	assert.InDelta(t, 0.4, cv, 1e-12)

	_, err = CoefficientOfVariation([]float64{-1, 1})
	assert.ErrorIs(t, err, ErrZeroMean)
}

func TestDailyReturnsAndVolatility(t *testing.T) {
	returns, err := DailyReturns([]float64{100, 110, 99})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.1, -0.1}, returns, 1e-12)

	vol, err := AnnualizedVolatility([]float64{100, 110, 99})
	require.NoError(t, err)
	assert.InDelta(t, 0.1*math.Sqrt(252)*100, vol, 1e-9)

	_, err = DailyReturns([]float64{0, 1, 2})
	assert.ErrorIs(t, err, ErrDegenerate)

	flat, err := AnnualizedVolatility([]float64{5, 5, 5, 5})
	require.NoError(t, err)
	assert.Zero(t, flat)
}

func TestTrendSlope(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		want   float64
	}{
		{"rising line", []float64{1, 2, 3, 4, 5}, 1},
		{"falling line", []float64{10, 8, 6, 4}, -2},
		{"flat", []float64{3, 3, 3, 3}, 0},
		{"noisy", []float64{1, 3, 2, 4}, 0.8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TrendSlope(tt.prices)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestPercentile_MatchesLinearInterpolation(t *testing.T) {
	xs := []float64{4, 1, 3, 2}
	tests := []struct {
		p, want float64
	}{
		{0, 1},
		{25, 1.75},
		{50, 2.5},
		{75, 3.25},
		{100, 4},
	}
	for _, tt := range tests {
		got, err := Percentile(xs, tt.p)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-12, "p=%v", tt.p)
	}
	_, err := Percentile(xs, 101)
	assert.Error(t, err)
}

func TestSkewnessAndKurtosis(t *testing.T) {
	sym := []float64{1, 2, 3, 4, 5}
	skew, err := Skewness(sym)
	require.NoError(t, err)
	assert.InDelta(t, 0, skew, 1e-12)

	kurt, err := ExcessKurtosis(sym)
	require.NoError(t, err)
	assert.InDelta(t, -1.3, kurt, 1e-12)

	right, err := Skewness([]float64{1, 1, 1, 1, 10})
	require.NoError(t, err)
	assert.Greater(t, right, 0.5)

	_, err = Skewness([]float64{2, 2, 2})
	assert.ErrorIs(t, err, ErrDegenerate)
	_, err = ExcessKurtosis([]float64{2, 2, 2})
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestPriceRangeAndClamp(t *testing.T) {
	r, err := PriceRange([]float64{3, 9, 1, 4})
	require.NoError(t, err)
	assert.Equal(t, 8.0, r)

	assert.Equal(t, 1.0, Clamp(1.7, 0, 1))
	assert.Equal(t, 0.0, Clamp(-0.2, 0, 1))
	assert.Equal(t, 0.4, Clamp(0.4, 0, 1))
}
