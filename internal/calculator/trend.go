package calculator

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// TrendSlope fits close = alpha + beta*t by ordinary least squares, where t is
// the 0-based bar index, and returns beta.
func TrendSlope(prices []float64) (float64, error) {
	if len(prices) < 2 {
		return 0, fmt.Errorf("need at least 2 prices, got %d: %w", len(prices), ErrEmptySeries)
	}
	x := make([]float64, len(prices))
	for i := range x {
		x[i] = float64(i)
	}
	_, beta := stat.LinearRegression(x, prices, nil, false)
	return finite(beta)
}
