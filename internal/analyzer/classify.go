package analyzer

import (
	"math"

	"GridScout/internal/model"
)

// threshold maps values on one side of Limit to Label. Tables are walked in order.
type threshold[T any] struct {
	Limit float64
	Label T
}

// firstBelow returns the label of the first row whose limit v is strictly below.
func firstBelow[T any](v float64, table []threshold[T], fallback T) T {
	for _, row := range table {
		if v < row.Limit {
			return row.Label
		}
	}
	return fallback
}

// firstAbove returns the label of the first row whose limit v strictly exceeds.
func firstAbove[T any](v float64, table []threshold[T], fallback T) T {
	for _, row := range table {
		if v > row.Limit {
			return row.Label
		}
	}
	return fallback
}

var volatilityLevels = []threshold[model.VolatilityLevel]{
	{10, model.VolatilityLow},
	{25, model.VolatilityMedium},
	{40, model.VolatilityHigh},
}

var amplitudeLevels = []threshold[model.AmplitudeLevel]{
	{1.0, model.AmplitudeTiny},
	{1.5, model.AmplitudeSmall},
	{2.5, model.AmplitudeMedium},
	{4.0, model.AmplitudeLarge},
}

var marketCharacters = []threshold[model.MarketCharacter]{
	{0.6, model.MarketRanging},
	{0.3, model.MarketWeakTrend},
}

// trendFlatBand is the slope magnitude (price units per bar) treated as no trend.
const trendFlatBand = 0.01

var trendDirections = []struct {
	Match func(slope float64) bool
	Label model.TrendDirection
}{
	{func(s float64) bool { return s > trendFlatBand }, model.TrendUp},
	{func(s float64) bool { return s < -trendFlatBand }, model.TrendDown},
}

var distributionTypes = []struct {
	Match func(skew, kurt float64) bool
	Label model.DistributionType
}{
	{func(s, k float64) bool { return math.Abs(s) < 0.5 && math.Abs(k) < 0.5 }, model.DistributionNormal},
	{func(s, _ float64) bool { return s > 0.5 }, model.DistributionRightSkewed},
	{func(s, _ float64) bool { return s < -0.5 }, model.DistributionLeftSkewed},
}

// ClassifyVolatility buckets annualized volatility (percent).
func ClassifyVolatility(volatility float64) model.VolatilityLevel {
	return firstBelow(volatility, volatilityLevels, model.VolatilityExtreme)
}

// ClassifyAmplitude buckets mean daily amplitude (percent).
func ClassifyAmplitude(avgAmplitude float64) model.AmplitudeLevel {
	return firstBelow(avgAmplitude, amplitudeLevels, model.AmplitudeHuge)
}

// ClassifyMarketCharacter maps an oscillation score to a market character.
func ClassifyMarketCharacter(oscillation float64) model.MarketCharacter {
	return firstAbove(oscillation, marketCharacters, model.MarketStrongTrend)
}

// ClassifyTrend maps a least-squares slope to a trend direction.
func ClassifyTrend(slope float64) model.TrendDirection {
	for _, row := range trendDirections {
		if row.Match(slope) {
			return row.Label
		}
	}
	return model.TrendOscillating
}

// ClassifyDistribution maps skewness and excess kurtosis to a distribution shape.
func ClassifyDistribution(skew, kurt float64) model.DistributionType {
	for _, row := range distributionTypes {
		if row.Match(skew, kurt) {
			return row.Label
		}
	}
	return model.DistributionOther
}
