package analyzer

import (
	"testing"

	"GridScout/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestClassifyVolatility_Boundaries(t *testing.T) {
	tests := []struct {
		v    float64
		want model.VolatilityLevel
	}{
		{0, model.VolatilityLow},
		{9.99, model.VolatilityLow},
		{10, model.VolatilityMedium},
		{24.9, model.VolatilityMedium},
		{25, model.VolatilityHigh},
		{39.9, model.VolatilityHigh},
		{40, model.VolatilityExtreme},
		{120, model.VolatilityExtreme},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyVolatility(tt.v), "volatility %.2f", tt.v)
	}
}

func TestClassifyAmplitude_Boundaries(t *testing.T) {
	tests := []struct {
		v    float64
		want model.AmplitudeLevel
	}{
		{0.5, model.AmplitudeTiny},
		{1.0, model.AmplitudeSmall},
		{1.49, model.AmplitudeSmall},
		{1.5, model.AmplitudeMedium},
		{2.5, model.AmplitudeLarge},
		{3.99, model.AmplitudeLarge},
		{4.0, model.AmplitudeHuge},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyAmplitude(tt.v), "amplitude %.2f", tt.v)
	}
}

func TestClassifyMarketCharacter_Monotonic(t *testing.T) {
	tests := []struct {
		score float64
		want  model.MarketCharacter
	}{
		{1.0, model.MarketRanging},
		{0.61, model.MarketRanging},
		{0.6, model.MarketWeakTrend},
		{0.31, model.MarketWeakTrend},
		{0.3, model.MarketStrongTrend},
		{0, model.MarketStrongTrend},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyMarketCharacter(tt.score), "score %.2f", tt.score)
	}

	rank := map[model.MarketCharacter]int{
		model.MarketStrongTrend: 0,
		model.MarketWeakTrend:   1,
		model.MarketRanging:     2,
	}
	prev := -1
	for s := 0.0; s <= 1.0; s += 0.01 {
		r := rank[ClassifyMarketCharacter(s)]
		assert.GreaterOrEqual(t, r, prev)
		prev = r
	}
}

func TestClassifyTrend(t *testing.T) {
	assert.Equal(t, model.TrendUp, ClassifyTrend(0.02))
	assert.Equal(t, model.TrendOscillating, ClassifyTrend(0.01))
	assert.Equal(t, model.TrendOscillating, ClassifyTrend(0))
	assert.Equal(t, model.TrendOscillating, ClassifyTrend(-0.01))
	assert.Equal(t, model.TrendDown, ClassifyTrend(-0.011))
}

func TestClassifyDistribution(t *testing.T) {
	assert.Equal(t, model.DistributionNormal, ClassifyDistribution(0.1, -0.2))
	assert.Equal(t, model.DistributionRightSkewed, ClassifyDistribution(0.8, 0.1))
	assert.Equal(t, model.DistributionLeftSkewed, ClassifyDistribution(-0.8, 2))
	assert.Equal(t, model.DistributionOther, ClassifyDistribution(0.2, 1.5))
	assert.Equal(t, model.DistributionOther, ClassifyDistribution(0.5, 0))
}
