package calculator

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear annualizes daily statistics.
const TradingDaysPerYear = 252

var (
	ErrEmptySeries = errors.New("empty series")
	ErrZeroMean    = errors.New("mean is zero")
	ErrDegenerate  = errors.New("degenerate series")
)

// Mean returns the arithmetic mean.
func Mean(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, ErrEmptySeries
	}
	return finite(stat.Mean(xs, nil))
}

// StdDev returns the population standard deviation (divides by n, not n-1).
func StdDev(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, ErrEmptySeries
	}
	_, std := stat.PopMeanStdDev(xs, nil)
	return finite(std)
}

// MeanStdDev returns the mean and population standard deviation in one pass.
func MeanStdDev(xs []float64) (mean, std float64, err error) {
	if len(xs) == 0 {
		return 0, 0, ErrEmptySeries
	}
	mean, std = stat.PopMeanStdDev(xs, nil)
	if _, err := finite(mean); err != nil {
		return 0, 0, err
	}
	if _, err := finite(std); err != nil {
		return 0, 0, err
	}
	return mean, std, nil
}

// CoefficientOfVariation returns std/mean. A zero mean is an error.
func CoefficientOfVariation(xs []float64) (float64, error) {
	mean, std, err := MeanStdDev(xs)
	if err != nil {
		return 0, err
	}
	if mean == 0 {
		return 0, ErrZeroMean
	}
	return finite(std / mean)
}

// DailyReturns converts closes into simple returns: (p[i]-p[i-1])/p[i-1].
func DailyReturns(closes []float64) ([]float64, error) {
	if len(closes) < 2 {
		return nil, fmt.Errorf("need at least 2 prices, got %d: %w", len(closes), ErrEmptySeries)
	}
	returns := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			return nil, fmt.Errorf("zero close at index %d: %w", i-1, ErrDegenerate)
		}
		returns[i-1] = (closes[i] - closes[i-1]) / closes[i-1]
	}
	return returns, nil
}

// AnnualizedVolatility returns the standard deviation of daily returns scaled
// by sqrt(252), expressed as a percentage.
func AnnualizedVolatility(closes []float64) (float64, error) {
	returns, err := DailyReturns(closes)
	if err != nil {
		return 0, err
	}
	std, err := StdDev(returns)
	if err != nil {
		return 0, err
	}
	return std * math.Sqrt(TradingDaysPerYear) * 100, nil
}

func finite(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrDegenerate
	}
	return v, nil
}
