package analyzer

import (
	"GridScout/internal/calculator"
	"GridScout/internal/model"
)

// Section names, used in logs and failure metrics.
const (
	SectionPrice        = "price"
	SectionVolatility   = "volatility"
	SectionAmplitude    = "amplitude"
	SectionVolume       = "volume"
	SectionTrend        = "trend"
	SectionOscillation  = "oscillation"
	SectionLiquidity    = "liquidity"
	SectionDistribution = "distribution"
)

// volumeAdequacyBase is the average volume (shares) that earns full adequacy credit.
const volumeAdequacyBase = 1_000_000

type priceStats struct {
	Current float64
	Avg     float64
	Std     float64
	Range   float64
}

func computePriceStats(closes []float64) (priceStats, error) {
	avg, std, err := calculator.MeanStdDev(closes)
	if err != nil {
		return priceStats{}, err
	}
	rng, err := calculator.PriceRange(closes)
	if err != nil {
		return priceStats{}, err
	}
	return priceStats{Current: closes[len(closes)-1], Avg: avg, Std: std, Range: rng}, nil
}

type amplitudeStats struct {
	Avg float64
	Max float64
	Min float64
	Std float64
}

func computeAmplitudeStats(amplitudes []float64) (amplitudeStats, error) {
	avg, std, err := calculator.MeanStdDev(amplitudes)
	if err != nil {
		return amplitudeStats{}, err
	}
	low, high, err := calculator.MinMax(amplitudes)
	if err != nil {
		return amplitudeStats{}, err
	}
	return amplitudeStats{Avg: avg, Max: high, Min: low, Std: std}, nil
}

type volumeStats struct {
	Avg float64
	Std float64
}

func computeVolumeStats(volumes []float64) (volumeStats, error) {
	avg, std, err := calculator.MeanStdDev(volumes)
	if err != nil {
		return volumeStats{}, err
	}
	return volumeStats{Avg: avg, Std: std}, nil
}

// computeOscillation favors wide price dispersion and uneven daily swings:
// min(1, (priceCV*10 + amplitudeCV) / 2).
func computeOscillation(closes, amplitudes []float64) (float64, error) {
	priceCV, err := calculator.CoefficientOfVariation(closes)
	if err != nil {
		return 0, err
	}
	ampCV, err := calculator.CoefficientOfVariation(amplitudes)
	if err != nil {
		return 0, err
	}
	return calculator.Clamp((priceCV*10+ampCV)/2, 0, 1), nil
}

// computeLiquidity rewards stable and sufficiently large volume, each half
// capped independently.
func computeLiquidity(volumes []float64) (float64, error) {
	avg, err := calculator.Mean(volumes)
	if err != nil {
		return 0, err
	}
	cv, err := calculator.CoefficientOfVariation(volumes)
	if err != nil {
		return 0, err
	}
	stability := 1 - min(1, cv)
	adequacy := min(1, avg/volumeAdequacyBase)
	return calculator.Clamp(stability*0.5+adequacy*0.5, 0, 1), nil
}

func computeDistribution(closes []float64) (model.PriceDistribution, error) {
	var quartiles [3]float64
	for i, p := range []float64{25, 50, 75} {
		q, err := calculator.Percentile(closes, p)
		if err != nil {
			return model.PriceDistribution{}, err
		}
		quartiles[i] = q
	}
	skew, err := calculator.Skewness(closes)
	if err != nil {
		return model.PriceDistribution{}, err
	}
	kurt, err := calculator.ExcessKurtosis(closes)
	if err != nil {
		return model.PriceDistribution{}, err
	}
	return model.PriceDistribution{
		Q25:      quartiles[0],
		Q50:      quartiles[1],
		Q75:      quartiles[2],
		IQR:      quartiles[2] - quartiles[0],
		Skewness: skew,
		Kurtosis: kurt,
		Type:     ClassifyDistribution(skew, kurt),
	}, nil
}

func unclassifiableDistribution() *model.PriceDistribution {
	return &model.PriceDistribution{Type: model.DistributionUnclassifiable}
}
