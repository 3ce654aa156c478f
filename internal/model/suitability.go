package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFrequency is returned when a frequency tier name is not recognized.
var ErrUnknownFrequency = errors.New("unknown frequency tier")

// Frequency is the user's preferred grid-trigger frequency.
type Frequency string

const (
	FrequencyHigh   Frequency = "high"
	FrequencyMedium Frequency = "medium"
	FrequencyLow    Frequency = "low"
)

// ParseFrequency parses a tier name. An empty string yields FrequencyMedium.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(strings.ToLower(strings.TrimSpace(s))) {
	case "", FrequencyMedium:
		return FrequencyMedium, nil
	case FrequencyHigh:
		return FrequencyHigh, nil
	case FrequencyLow:
		return FrequencyLow, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFrequency, s)
}

// GridParams is the caller's actual grid configuration.
type GridParams struct {
	PriceRangeRatio        float64 `json:"price_range_ratio" yaml:"price_range_ratio"`
	GridCount              int     `json:"grid_count" yaml:"grid_count"`
	FrequencyMatchScore    float64 `json:"frequency_match_score" yaml:"frequency_match_score"`
	PredictedDailyTriggers float64 `json:"predicted_daily_triggers" yaml:"predicted_daily_triggers"`
}

// OptimalRange is the recommended price-range band, as fractions of price.
type OptimalRange struct {
	Base     float64 `json:"base"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Fallback bool    `json:"fallback,omitempty"`
}

// OptimalCount is the recommended grid-count band.
type OptimalCount struct {
	Base     int  `json:"base"`
	Min      int  `json:"min"`
	Max      int  `json:"max"`
	Fallback bool `json:"fallback,omitempty"`
}

// GridEvaluation details how actual grid params score against the optimal bands.
type GridEvaluation struct {
	RangeScore     int          `json:"range_score"`
	CountScore     int          `json:"count_score"`
	FrequencyBonus int          `json:"frequency_bonus"`
	Total          int          `json:"total"`
	OptimalRange   OptimalRange `json:"optimal_range"`
	OptimalCount   OptimalCount `json:"optimal_count"`
	Warnings       []string     `json:"warnings"`
}

// DimensionScore is one row of the suitability breakdown.
type DimensionScore struct {
	Name       string `json:"name"`
	Score      int    `json:"score"`
	Max        int    `json:"max"`
	Commentary string `json:"commentary"`
}

// SuitabilityVerdict is the terminal output of a suitability evaluation.
type SuitabilityVerdict struct {
	IsSuitable     bool             `json:"is_suitable"`
	Score          int              `json:"score"`
	MaxScore       int              `json:"max_score"`
	Frequency      Frequency        `json:"frequency"`
	Dimensions     []DimensionScore `json:"dimensions"`
	GridEvaluation *GridEvaluation  `json:"grid_evaluation,omitempty"`
	Reasons        []string         `json:"reasons"`
	Warnings       []string         `json:"warnings"`
	Recommendation string           `json:"recommendation"`
}
