package model

import "encoding/json"

// VolatilityLevel buckets annualized volatility.
type VolatilityLevel string

const (
	VolatilityLow     VolatilityLevel = "low"
	VolatilityMedium  VolatilityLevel = "medium"
	VolatilityHigh    VolatilityLevel = "high"
	VolatilityExtreme VolatilityLevel = "extreme"
)

// AmplitudeLevel buckets mean daily amplitude.
type AmplitudeLevel string

const (
	AmplitudeTiny   AmplitudeLevel = "tiny"
	AmplitudeSmall  AmplitudeLevel = "small"
	AmplitudeMedium AmplitudeLevel = "medium"
	AmplitudeLarge  AmplitudeLevel = "large"
	AmplitudeHuge   AmplitudeLevel = "huge"
)

// TrendDirection is derived from the least-squares slope of close prices.
type TrendDirection string

const (
	TrendUp          TrendDirection = "uptrend"
	TrendDown        TrendDirection = "downtrend"
	TrendOscillating TrendDirection = "oscillating"
)

// MarketCharacter is derived from the oscillation score.
type MarketCharacter string

const (
	MarketRanging     MarketCharacter = "ranging"
	MarketWeakTrend   MarketCharacter = "weak-trend"
	MarketStrongTrend MarketCharacter = "strong-trend"
)

// DistributionType classifies the shape of the close price distribution.
type DistributionType string

const (
	DistributionNormal         DistributionType = "normal"
	DistributionRightSkewed    DistributionType = "right-skewed"
	DistributionLeftSkewed     DistributionType = "left-skewed"
	DistributionOther          DistributionType = "other"
	DistributionUnclassifiable DistributionType = "unclassifiable"
)

// PriceDistribution describes percentiles and shape of close prices.
type PriceDistribution struct {
	Q25      float64          `json:"q25"`
	Q50      float64          `json:"q50"`
	Q75      float64          `json:"q75"`
	IQR      float64          `json:"iqr"`
	Skewness float64          `json:"skewness"`
	Kurtosis float64          `json:"kurtosis"`
	Type     DistributionType `json:"distribution_type"`
}

// CharacteristicAnalysis is the statistical profile of a historical series.
//
// When the series is too short to analyze, Error is set, DataPoints carries
// the actual point count and every statistic is left zero.
type CharacteristicAnalysis struct {
	Error      string `json:"error,omitempty"`
	DataPoints int    `json:"data_points"`

	CurrentPrice float64 `json:"current_price"`
	AvgPrice     float64 `json:"avg_price"`
	PriceStd     float64 `json:"price_std"`
	PriceRange   float64 `json:"price_range"`

	Volatility      float64         `json:"volatility"`
	VolatilityLevel VolatilityLevel `json:"volatility_level"`

	AvgAmplitude   float64        `json:"avg_amplitude"`
	MaxAmplitude   float64        `json:"max_amplitude"`
	MinAmplitude   float64        `json:"min_amplitude"`
	AmplitudeStd   float64        `json:"amplitude_std"`
	AmplitudeLevel AmplitudeLevel `json:"amplitude_level"`

	AvgVolume      float64 `json:"avg_volume"`
	VolumeStd      float64 `json:"volume_std"`
	LiquidityScore float64 `json:"liquidity_score"`

	TrendSlope     float64        `json:"trend_slope"`
	TrendDirection TrendDirection `json:"trend_direction"`

	OscillationScore float64         `json:"oscillation_score"`
	MarketCharacter  MarketCharacter `json:"market_character"`

	PriceDistribution *PriceDistribution `json:"price_distribution,omitempty"`

	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	AnalysisDate string `json:"analysis_date"`
}

// analysisError is the wire form of a failed analysis.
type analysisError struct {
	Error      string `json:"error"`
	DataPoints int    `json:"data_points"`
}

// MarshalJSON emits only {error, data_points} for a failed analysis.
func (a CharacteristicAnalysis) MarshalJSON() ([]byte, error) {
	if a.Error != "" {
		return json.Marshal(analysisError{Error: a.Error, DataPoints: a.DataPoints})
	}
	type plain CharacteristicAnalysis
	return json.Marshal(plain(a))
}

// Failed reports whether the analysis carries an error instead of statistics.
func (a *CharacteristicAnalysis) Failed() bool {
	return a == nil || a.Error != ""
}
