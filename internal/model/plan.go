package model

// RiskLevel grades a grid plan by volatility and range width.
type RiskLevel string

const (
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
	RiskExtreme RiskLevel = "extreme"
)

// CapitalAllocation splits capital between a base position and the grid.
type CapitalAllocation struct {
	Capital       float64 `json:"capital"`
	BasePosition  float64 `json:"base_position_amount"`
	GridPosition  float64 `json:"grid_position_amount"`
	PerGridAmount float64 `json:"per_grid_amount"`
	PerGridShares int     `json:"per_grid_shares"`
	MaxPosition   float64 `json:"max_position_amount"`
	MinPosition   float64 `json:"min_position_amount"`
}

// ProfitEstimate is a rough per-grid and monthly return estimate.
type ProfitEstimate struct {
	ProfitPerGrid      float64 `json:"profit_per_grid"`
	ProfitRate         float64 `json:"profit_rate"`
	MonthlyTriggers    int     `json:"monthly_triggers"`
	MonthlyEstimate    float64 `json:"monthly_estimate"`
	BreakEvenAmplitude float64 `json:"break_even_amplitude"`
	MaxDrawdown        float64 `json:"max_drawdown"`
}

// Adjustment is advice for one market condition.
type Adjustment struct {
	Situation   string            `json:"situation"`
	Suggestions []string          `json:"suggestions"`
	Parameters  map[string]string `json:"parameter_adjustments,omitempty"`
}

// GridPlan is a concrete arithmetic grid around the current price.
type GridPlan struct {
	CurrentPrice float64   `json:"current_price"`
	Frequency    Frequency `json:"frequency"`

	LowerBound  float64 `json:"price_lower_bound"`
	UpperBound  float64 `json:"price_upper_bound"`
	RangeRatio  float64 `json:"price_range_ratio"`
	RangeAmount float64 `json:"price_range_amount"`

	GridCount  int       `json:"grid_count"`
	Levels     []float64 `json:"grid_prices"`
	StepRatio  float64   `json:"step_size_ratio"`
	StepAmount float64   `json:"step_size_amount"`

	Allocation CapitalAllocation `json:"allocation"`
	Profit     ProfitEstimate    `json:"profit"`
	RiskLevel  RiskLevel         `json:"risk_level"`

	Adjustments []Adjustment `json:"adjustments"`
	Principles  []string     `json:"principles"`
}
