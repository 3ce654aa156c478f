package model

import "time"

// FundInfo is a normalized snapshot of a fund's static metadata and latest quote.
type FundInfo struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Manager      string  `json:"manager"`
	CurrentPrice float64 `json:"current_price"`
	PreClose     float64 `json:"pre_close"`
	PctChange    float64 `json:"pct_change"`
	Volume       int64   `json:"volume"`
	Amount       float64 `json:"amount"`
	TradeDate    string  `json:"trade_date"`
	FoundDate    string  `json:"found_date"`
	ListDate     string  `json:"list_date"`
	DataAgeDays  int     `json:"data_age_days"`
}

// DailyBar is one trading day of a fund's price history.
// Amplitude is the intraday high-low swing as a percentage of the previous close.
type DailyBar struct {
	TradeDate time.Time `json:"trade_date"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	PreClose  float64   `json:"pre_close"`
	Volume    float64   `json:"volume"`
	Amount    float64   `json:"amount"`
	Amplitude float64   `json:"amplitude"`
}

// HistoricalSeries holds chronologically ordered daily bars with unique trade dates.
type HistoricalSeries struct {
	Code string     `json:"code"`
	Bars []DailyBar `json:"bars"`
}

// Len returns the number of bars.
func (s *HistoricalSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

// Closes extracts the close column.
func (s *HistoricalSeries) Closes() []float64 {
	out := make([]float64, s.Len())
	if s == nil {
		return out
	}
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Volumes extracts the volume column.
func (s *HistoricalSeries) Volumes() []float64 {
	out := make([]float64, s.Len())
	if s == nil {
		return out
	}
	for i, b := range s.Bars {
		out[i] = b.Volume
	}
	return out
}

// Amplitudes extracts the amplitude column.
func (s *HistoricalSeries) Amplitudes() []float64 {
	out := make([]float64, s.Len())
	if s == nil {
		return out
	}
	for i, b := range s.Bars {
		out[i] = b.Amplitude
	}
	return out
}

// BarAmplitude derives the amplitude percentage of a bar from its high, low and previous close.
func BarAmplitude(high, low, preClose float64) float64 {
	if preClose == 0 {
		return 0
	}
	return (high - low) / preClose * 100
}
