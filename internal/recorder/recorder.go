package recorder

import (
	"time"

	"GridScout/internal/model"
)

// EvaluationRecord is one persisted suitability evaluation.
type EvaluationRecord struct {
	ID               int64                 `json:"id"`
	Timestamp        time.Time             `json:"timestamp"`
	Code             string                `json:"code"`
	Name             string                `json:"name"`
	Frequency        model.Frequency       `json:"frequency"`
	Score            int                   `json:"score"`
	IsSuitable       bool                  `json:"is_suitable"`
	AvgAmplitude     float64               `json:"avg_amplitude"`
	Volatility       float64               `json:"volatility"`
	OscillationScore float64               `json:"oscillation_score"`
	LiquidityScore   float64               `json:"liquidity_score"`
	MarketCharacter  model.MarketCharacter `json:"market_character"`
	PriceRangeRatio  float64               `json:"price_range_ratio"`
	GridCount        int                   `json:"grid_count"`
	Reasons          []string              `json:"reasons"`
	Warnings         []string              `json:"warnings"`
}

// ScanEvent summarizes one scheduled watchlist scan.
type ScanEvent struct {
	Funds    int
	Suitable int
	Failed   int
	Changed  int
	Duration time.Duration
}

// Recorder persists evaluation history.
type Recorder interface {
	RecordEvaluation(rec *EvaluationRecord) error
	RecordScan(evt *ScanEvent) error
	// RecentEvaluations returns up to limit records for code, newest first.
	RecentEvaluations(code string, limit int) ([]EvaluationRecord, error)
	Close() error
}
