package strategy

import (
	"errors"
	"math"

	"GridScout/internal/model"
)

// Price-range limits. The floor is where a grid step stops covering round-trip
// trading costs; the ceiling bounds risk exposure.
const (
	MinRangeRatio = 0.02
	MaxRangeRatio = 0.50
)

var errInvalidAmplitude = errors.New("amplitude must be a positive finite fraction")

// tierSpec holds the per-frequency constants of the optimal-parameter calculator.
type tierSpec struct {
	TargetTriggers float64 // grid triggers per trading day
	CountBelow     int     // widening below the base count
	CountAbove     int     // widening above the base count
	CountFloor     int
	CountCap       int
	DefaultRange   model.OptimalRange
	DefaultCount   model.OptimalCount
}

var tiers = map[model.Frequency]tierSpec{
	model.FrequencyHigh: {
		TargetTriggers: 5.5,
		CountBelow:     5,
		CountAbove:     8,
		CountFloor:     12,
		CountCap:       30,
		DefaultRange:   model.OptimalRange{Base: 0.225, Min: 0.10, Max: 0.35},
		DefaultCount:   model.OptimalCount{Base: 18, Min: 12, Max: 25},
	},
	model.FrequencyMedium: {
		TargetTriggers: 2.5,
		CountBelow:     3,
		CountAbove:     5,
		CountFloor:     6,
		CountCap:       18,
		DefaultRange:   model.OptimalRange{Base: 0.165, Min: 0.08, Max: 0.25},
		DefaultCount:   model.OptimalCount{Base: 10, Min: 6, Max: 15},
	},
	model.FrequencyLow: {
		TargetTriggers: 1.0,
		CountBelow:     2,
		CountAbove:     3,
		CountFloor:     3,
		CountCap:       10,
		DefaultRange:   model.OptimalRange{Base: 0.125, Min: 0.05, Max: 0.20},
		DefaultCount:   model.OptimalCount{Base: 5, Min: 3, Max: 8},
	},
}

// tierFor resolves a frequency to its constants; unknown tiers use medium.
func tierFor(f model.Frequency) tierSpec {
	if spec, ok := tiers[f]; ok {
		return spec
	}
	return tiers[model.FrequencyMedium]
}

// TargetTriggers returns the target daily trigger count of a tier.
func TargetTriggers(f model.Frequency) float64 {
	return tierFor(f).TargetTriggers
}

// baseRange is amplitude × (targetTriggers × 1.2) × 1.5.
func baseRange(amplitude float64, spec tierSpec) (float64, error) {
	if !(amplitude > 0) || math.IsInf(amplitude, 0) {
		return 0, errInvalidAmplitude
	}
	return amplitude * (spec.TargetTriggers * 1.2) * 1.5, nil
}

func computeRange(amplitude float64, spec tierSpec) (model.OptimalRange, error) {
	base, err := baseRange(amplitude, spec)
	if err != nil {
		return model.OptimalRange{}, err
	}
	lo := max(MinRangeRatio, base*0.8)
	hi := min(MaxRangeRatio, base*1.3)
	if lo >= hi {
		lo = 0.8 * hi
	}
	if lo < MinRangeRatio || lo >= hi || hi > MaxRangeRatio {
		return model.OptimalRange{}, errors.New("price-range band outside trading limits")
	}
	return model.OptimalRange{Base: base, Min: lo, Max: hi}, nil
}

func computeCount(amplitude float64, spec tierSpec) (model.OptimalCount, error) {
	base, err := baseRange(amplitude, spec)
	if err != nil {
		return model.OptimalCount{}, err
	}
	step := amplitude / spec.TargetTriggers
	if !(step > 0) {
		return model.OptimalCount{}, errInvalidAmplitude
	}
	ratio := base / step
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return model.OptimalCount{}, errInvalidAmplitude
	}
	baseCount := int(math.Floor(ratio))
	lo := max(spec.CountFloor, baseCount-spec.CountBelow)
	hi := min(spec.CountCap, baseCount+spec.CountAbove)
	if lo >= hi {
		hi = lo + 3
	}
	return model.OptimalCount{Base: baseCount, Min: lo, Max: hi}, nil
}

// OptimalRange returns the recommended price-range band for a mean daily
// amplitude (fraction, e.g. 0.02) and frequency tier. It never fails: when the
// amplitude is unusable or the band falls outside [MinRangeRatio, MaxRangeRatio]
// the tier's default band is returned with Fallback set.
func OptimalRange(amplitude float64, f model.Frequency) model.OptimalRange {
	spec := tierFor(f)
	band, err := computeRange(amplitude, spec)
	if err != nil {
		band = spec.DefaultRange
		band.Fallback = true
	}
	return band
}

// OptimalCount returns the recommended grid-count band. Like OptimalRange it
// falls back to the tier default rather than failing, which covers a zero
// amplitude.
func OptimalCount(amplitude float64, f model.Frequency) model.OptimalCount {
	spec := tierFor(f)
	band, err := computeCount(amplitude, spec)
	if err != nil {
		band = spec.DefaultCount
		band.Fallback = true
	}
	return band
}

// OptimalBands returns both bands.
func OptimalBands(amplitude float64, f model.Frequency) (model.OptimalRange, model.OptimalCount) {
	return OptimalRange(amplitude, f), OptimalCount(amplitude, f)
}

// SuggestGridParams derives grid params from the optimal bands for callers
// that did not supply their own. Without trigger-pattern history the frequency
// match is assumed neutral (0.5).
func SuggestGridParams(amplitude float64, f model.Frequency) model.GridParams {
	r, c := OptimalBands(amplitude, f)
	return model.GridParams{
		PriceRangeRatio:        math.Min(math.Max(r.Base, r.Min), r.Max),
		GridCount:              min(max(c.Base, c.Min), c.Max),
		FrequencyMatchScore:    0.5,
		PredictedDailyTriggers: TargetTriggers(f),
	}
}
