package calculator

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Percentile returns the p-th percentile (0..100) using linear interpolation
// between closest ranks, matching numpy's default method.
func Percentile(xs []float64, p float64) (float64, error) {
	if len(xs) == 0 {
		return 0, ErrEmptySeries
	}
	if p < 0 || p > 100 || math.IsNaN(p) {
		return 0, fmt.Errorf("percentile %v out of range", p)
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	pos := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo], nil
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac, nil
}

// Skewness returns the biased sample skewness m3 / m2^1.5.
func Skewness(xs []float64) (float64, error) {
	m2, err := secondMoment(xs)
	if err != nil {
		return 0, err
	}
	return finite(stat.Moment(3, xs, nil) / math.Pow(m2, 1.5))
}

// ExcessKurtosis returns the biased Fisher kurtosis m4 / m2^2 - 3.
func ExcessKurtosis(xs []float64) (float64, error) {
	m2, err := secondMoment(xs)
	if err != nil {
		return 0, err
	}
	return finite(stat.Moment(4, xs, nil)/(m2*m2) - 3)
}

func secondMoment(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, ErrEmptySeries
	}
	m2 := stat.Moment(2, xs, nil)
	if m2 == 0 || math.IsNaN(m2) {
		return 0, fmt.Errorf("zero variance: %w", ErrDegenerate)
	}
	return m2, nil
}
