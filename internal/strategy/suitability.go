package strategy

import (
	"fmt"

	"GridScout/internal/model"
)

const (
	// MaxScore is the sum of all dimension maxima.
	MaxScore = 100
	// SuitableScore is the minimum total for a suitable verdict.
	SuitableScore = 60
)

// Dimension names.
const (
	DimAmplitude       = "振幅"
	DimVolatility      = "波动率"
	DimMarketCharacter = "市场特征"
	DimLiquidity       = "流动性"
	DimGridParams      = "网格参数"
)

// dimensionResult is a scored dimension plus at most one reason and one warning.
type dimensionResult struct {
	Score   model.DimensionScore
	Reason  string
	Warning string
}

var amplitudeLadder = []struct {
	Min     float64
	Points  int
	Warning string
}{
	{2.0, 30, ""},
	{1.5, 20, "日均振幅偏低，可能影响网格收益"},
}

// scoreAmplitude rates mean daily amplitude (percent). Max 30.
func scoreAmplitude(a *model.CharacteristicAnalysis) dimensionResult {
	res := dimensionResult{Score: model.DimensionScore{
		Name:       DimAmplitude,
		Max:        30,
		Commentary: fmt.Sprintf("日均振幅%.2f%%", a.AvgAmplitude),
	}}
	for _, step := range amplitudeLadder {
		if a.AvgAmplitude >= step.Min {
			res.Score.Score = step.Points
			res.Warning = step.Warning
			return res
		}
	}
	res.Reason = "日均振幅过小，难以覆盖交易成本"
	return res
}

// scoreVolatility rates annualized volatility (percent). Max 25.
func scoreVolatility(a *model.CharacteristicAnalysis) dimensionResult {
	res := dimensionResult{Score: model.DimensionScore{
		Name:       DimVolatility,
		Max:        25,
		Commentary: fmt.Sprintf("年化波动率%.1f%%", a.Volatility),
	}}
	switch v := a.Volatility; {
	case v >= 15 && v <= 40:
		res.Score.Score = 25
	case v < 15:
		res.Score.Score = 15
		res.Warning = "波动率偏低，网格交易机会较少"
	default:
		res.Score.Score = 10
		res.Warning = "波动率过高，风险较大"
	}
	return res
}

var marketCharacterScores = map[model.MarketCharacter]struct {
	Points int
	Reason string
}{
	model.MarketRanging:     {20, ""},
	model.MarketWeakTrend:   {15, ""},
	model.MarketStrongTrend: {5, "市场趋势性较强，不适合网格交易"},
}

// scoreMarketCharacter rates the oscillation-derived market character. Max 20.
// Unknown characters score 0 without a reason.
func scoreMarketCharacter(a *model.CharacteristicAnalysis) dimensionResult {
	res := dimensionResult{Score: model.DimensionScore{
		Name:       DimMarketCharacter,
		Max:        20,
		Commentary: fmt.Sprintf("%s(震荡分数%.2f)", a.MarketCharacter, a.OscillationScore),
	}}
	if row, ok := marketCharacterScores[a.MarketCharacter]; ok {
		res.Score.Score = row.Points
		res.Reason = row.Reason
	}
	return res
}

var liquidityLadder = []struct {
	MinScore  float64
	MinVolume float64
	Points    int
	Warning   string
}{
	{0.7, 1_000_000, 15, ""},
	{0.5, 500_000, 10, "流动性一般，需注意交易冲击成本"},
}

// scoreLiquidity rates liquidity score and average volume together. Max 15.
func scoreLiquidity(a *model.CharacteristicAnalysis) dimensionResult {
	res := dimensionResult{Score: model.DimensionScore{
		Name:       DimLiquidity,
		Max:        15,
		Commentary: fmt.Sprintf("流动性%.2f，日均成交%.0f", a.LiquidityScore, a.AvgVolume),
	}}
	for _, step := range liquidityLadder {
		if a.LiquidityScore >= step.MinScore && a.AvgVolume >= step.MinVolume {
			res.Score.Score = step.Points
			res.Warning = step.Warning
			return res
		}
	}
	res.Reason = "流动性不足，可能存在交易风险"
	return res
}

// scoreGrid rates the caller's grid params against the optimal bands. Max 10.
func scoreGrid(a *model.CharacteristicAnalysis, p model.GridParams, f model.Frequency) (model.DimensionScore, model.GridEvaluation) {
	r, c := OptimalBands(a.AvgAmplitude/100, f)
	eval := ScoreGridParams(p, r, c)
	return model.DimensionScore{
		Name:       DimGridParams,
		Score:      eval.Total,
		Max:        GridMaxScore,
		Commentary: fmt.Sprintf("区间%.1f%% 网格%d", p.PriceRangeRatio*100, p.GridCount),
	}, eval
}

// Evaluate scores a fund's suitability for grid trading. An analysis carrying
// an error short-circuits to an unsuitable verdict with score 0. Otherwise the
// verdict is suitable only when the total reaches SuitableScore and no
// dimension produced a disqualifying reason. Unknown frequencies are treated
// as medium.
func Evaluate(a *model.CharacteristicAnalysis, p model.GridParams, f model.Frequency) *model.SuitabilityVerdict {
	if _, ok := tiers[f]; !ok {
		f = model.FrequencyMedium
	}
	v := &model.SuitabilityVerdict{
		MaxScore:   MaxScore,
		Frequency:  f,
		Dimensions: []model.DimensionScore{},
		Reasons:    []string{},
		Warnings:   []string{},
	}

	if a.Failed() {
		reason := "缺少特征分析结果"
		if a != nil {
			reason = a.Error
		}
		v.Reasons = append(v.Reasons, reason)
		v.Recommendation = Recommend(false, 0, v.Reasons, v.Warnings)
		return v
	}

	for _, res := range []dimensionResult{
		scoreAmplitude(a),
		scoreVolatility(a),
		scoreMarketCharacter(a),
		scoreLiquidity(a),
	} {
		v.Dimensions = append(v.Dimensions, res.Score)
		v.Score += res.Score.Score
		if res.Reason != "" {
			v.Reasons = append(v.Reasons, res.Reason)
		}
		if res.Warning != "" {
			v.Warnings = append(v.Warnings, res.Warning)
		}
	}

	gridScore, gridEval := scoreGrid(a, p, f)
	v.Dimensions = append(v.Dimensions, gridScore)
	v.Score += gridScore.Score
	v.GridEvaluation = &gridEval
	v.Warnings = append(v.Warnings, gridEval.Warnings...)

	v.IsSuitable = v.Score >= SuitableScore && len(v.Reasons) == 0
	v.Recommendation = Recommend(v.IsSuitable, v.Score, v.Reasons, v.Warnings)
	return v
}
