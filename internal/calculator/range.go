package calculator

import (
	"gonum.org/v1/gonum/floats"
)

// MinMax returns the lowest and highest value of the series.
func MinMax(xs []float64) (low, high float64, err error) {
	if len(xs) == 0 {
		return 0, 0, ErrEmptySeries
	}
	return floats.Min(xs), floats.Max(xs), nil
}

// PriceRange returns max(prices) - min(prices).
func PriceRange(prices []float64) (float64, error) {
	low, high, err := MinMax(prices)
	if err != nil {
		return 0, err
	}
	return high - low, nil
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
