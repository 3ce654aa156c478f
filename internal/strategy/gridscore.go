package strategy

import (
	"errors"
	"fmt"
	"math"

	"GridScout/internal/model"
)

const (
	// GridMaxScore caps the grid-parameter dimension.
	GridMaxScore = 10
	axisMaxScore = 5
	// neutralAxisScore is used when an axis cannot be scored.
	neutralAxisScore = 2
	// lowFrequencyMatch is the match score below which a warning is raised.
	lowFrequencyMatch = 0.6
)

// deviationLadder buckets relative deviation from a band midpoint.
var deviationLadder = []struct {
	Below  float64
	Points int
}{
	{0.2, 4},
	{0.4, 3},
	{0.6, 2},
	{1.0, 1},
}

// frequencyBonusLadder rewards a good match between predicted and target triggers.
var frequencyBonusLadder = []struct {
	Above  float64
	Points int
}{
	{0.8, 2},
	{0.6, 1},
}

// scoreAxis scores actual against [lo, hi] on a 0-5 scale.
func scoreAxis(actual, lo, hi float64) (int, error) {
	if math.IsNaN(actual) || math.IsInf(actual, 0) {
		return 0, errors.New("actual value is not finite")
	}
	if actual >= lo && actual <= hi {
		return axisMaxScore, nil
	}
	mid := (lo + hi) / 2
	if !(mid > 0) {
		return 0, fmt.Errorf("band midpoint %v is not positive", mid)
	}
	deviation := math.Abs(actual-mid) / mid
	for _, step := range deviationLadder {
		if deviation < step.Below {
			return step.Points, nil
		}
	}
	return 0, nil
}

func frequencyBonus(match float64) int {
	for _, step := range frequencyBonusLadder {
		if match > step.Above {
			return step.Points
		}
	}
	return 0
}

// ScoreGridParams scores actual grid params against the optimal bands. The
// range and count axes score 0-5 each (2 when an axis cannot be scored), a
// frequency-match bonus adds up to 2, and the total is capped at GridMaxScore.
func ScoreGridParams(p model.GridParams, r model.OptimalRange, c model.OptimalCount) model.GridEvaluation {
	eval := model.GridEvaluation{
		OptimalRange: r,
		OptimalCount: c,
		Warnings:     []string{},
	}

	if s, err := scoreAxis(p.PriceRangeRatio, r.Min, r.Max); err != nil {
		eval.RangeScore = neutralAxisScore
	} else {
		eval.RangeScore = s
	}
	if s, err := scoreAxis(float64(p.GridCount), float64(c.Min), float64(c.Max)); err != nil {
		eval.CountScore = neutralAxisScore
	} else {
		eval.CountScore = s
	}
	eval.FrequencyBonus = frequencyBonus(p.FrequencyMatchScore)
	eval.Total = min(GridMaxScore, eval.RangeScore+eval.CountScore+eval.FrequencyBonus)

	if eval.RangeScore < 3 {
		eval.Warnings = append(eval.Warnings, fmt.Sprintf(
			"价格区间%.1f%%偏离推荐区间%.1f%%-%.1f%%，建议调整",
			p.PriceRangeRatio*100, r.Min*100, r.Max*100))
	}
	if eval.CountScore < 3 {
		eval.Warnings = append(eval.Warnings, fmt.Sprintf(
			"网格数量%d偏离推荐范围%d-%d，建议调整",
			p.GridCount, c.Min, c.Max))
	}
	if p.FrequencyMatchScore < lowFrequencyMatch {
		eval.Warnings = append(eval.Warnings, fmt.Sprintf(
			"交易频率匹配度偏低(%.2f)，实际触发频次可能与预期不符",
			p.FrequencyMatchScore))
	}
	return eval
}
