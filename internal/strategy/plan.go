package strategy

import (
	"errors"
	"fmt"
	"math"

	"GridScout/internal/model"
)

// Capital limits for a grid plan, in CNY.
const (
	DefaultCapital = 100_000
	MinCapital     = 10_000
	MaxCapital     = 1_000_000
)

// LotSize is the A-share board lot; per-grid orders are whole lots.
const LotSize = 100

const (
	basePositionRatio   = 0.4
	minPositionRatio    = 0.3 // of the base position
	transactionCost     = 0.001
	tradingDaysPerMonth = 20
	assumedSuccessRate  = 0.8
	drawdownGrids       = 3
)

var (
	ErrInvalidCapital = errors.New("capital out of range")
	ErrPlanInput      = errors.New("cannot build grid plan")
)

var riskLadder = []struct {
	Below float64
	Level model.RiskLevel
}{
	{0.8, model.RiskLow},
	{1.2, model.RiskMedium},
	{1.6, model.RiskHigh},
}

// ValidateCapital checks capital against [MinCapital, MaxCapital].
func ValidateCapital(capital float64) error {
	if math.IsNaN(capital) || capital < MinCapital || capital > MaxCapital {
		return fmt.Errorf("%w: %.0f not in [%d, %d]", ErrInvalidCapital, capital, MinCapital, MaxCapital)
	}
	return nil
}

// RiskLevel grades volatility (percent) plus range ratio:
// volatility/50 + rangeRatio/0.5 against 0.8 / 1.2 / 1.6.
func RiskLevel(volatility, rangeRatio float64) model.RiskLevel {
	score := volatility/50 + rangeRatio/0.5
	if math.IsNaN(score) {
		return model.RiskMedium
	}
	for _, row := range riskLadder {
		if score < row.Below {
			return row.Level
		}
	}
	return model.RiskExtreme
}

// BuildGridPlan lays an arithmetic grid of p.GridCount steps across
// p.PriceRangeRatio centered on price, allocates capital (0 means
// DefaultCapital) and estimates profit and risk.
func BuildGridPlan(price float64, a *model.CharacteristicAnalysis, p model.GridParams, f model.Frequency, capital float64) (*model.GridPlan, error) {
	switch {
	case a.Failed():
		return nil, fmt.Errorf("%w: analysis unavailable", ErrPlanInput)
	case !(price > 0) || math.IsInf(price, 0):
		return nil, fmt.Errorf("%w: invalid price %v", ErrPlanInput, price)
	case p.GridCount <= 0:
		return nil, fmt.Errorf("%w: grid count %d", ErrPlanInput, p.GridCount)
	case !(p.PriceRangeRatio > 0) || math.IsInf(p.PriceRangeRatio, 0):
		return nil, fmt.Errorf("%w: price range ratio %v", ErrPlanInput, p.PriceRangeRatio)
	}
	if capital == 0 {
		capital = DefaultCapital
	}
	if err := ValidateCapital(capital); err != nil {
		return nil, err
	}
	if _, ok := tiers[f]; !ok {
		f = model.FrequencyMedium
	}

	plan := &model.GridPlan{
		CurrentPrice: price,
		Frequency:    f,
		GridCount:    p.GridCount,
	}

	ratio := p.PriceRangeRatio
	amount := price * ratio
	lower, upper := price-amount/2, price+amount/2
	if lower <= 0 {
		lower = price * 0.1
		amount = upper - lower
		ratio = amount / price
	}
	plan.LowerBound, plan.UpperBound = lower, upper
	plan.RangeRatio, plan.RangeAmount = ratio, amount
	plan.StepRatio = ratio / float64(p.GridCount)
	plan.StepAmount = amount / float64(p.GridCount)
	plan.Levels = gridLevels(lower, plan.StepAmount, p.GridCount)

	plan.Allocation = allocate(capital, p.GridCount, price)
	plan.Profit = estimateProfit(plan, p.PredictedDailyTriggers)
	plan.RiskLevel = RiskLevel(a.Volatility, ratio)
	plan.Adjustments = adjustments(a.TrendDirection)
	plan.Principles = append([]string(nil), generalPrinciples...)
	return plan, nil
}

// gridLevels returns count+1 prices from lower in equal steps, rounded to 0.001.
func gridLevels(lower, step float64, count int) []float64 {
	levels := make([]float64, count+1)
	for i := range levels {
		levels[i] = math.Round((lower+float64(i)*step)*1000) / 1000
	}
	return levels
}

func allocate(capital float64, count int, price float64) model.CapitalAllocation {
	base := capital * basePositionRatio
	grid := capital - base
	shares := int(grid/float64(count)/price) / LotSize * LotSize
	if shares < LotSize {
		shares = LotSize
	}
	return model.CapitalAllocation{
		Capital:       capital,
		BasePosition:  base,
		GridPosition:  grid,
		PerGridShares: shares,
		PerGridAmount: float64(shares) * price,
		MaxPosition:   capital,
		MinPosition:   base * minPositionRatio,
	}
}

func estimateProfit(plan *model.GridPlan, dailyTriggers float64) model.ProfitEstimate {
	if !(dailyTriggers > 0) {
		dailyTriggers = TargetTriggers(plan.Frequency)
	}
	alloc := plan.Allocation
	mid := plan.Levels[len(plan.Levels)/2]
	net := float64(alloc.PerGridShares)*plan.StepAmount - alloc.PerGridAmount*transactionCost*2
	triggers := int(math.Round(dailyTriggers * tradingDaysPerMonth * assumedSuccessRate))
	return model.ProfitEstimate{
		ProfitPerGrid:      net,
		ProfitRate:         plan.StepAmount / mid,
		MonthlyTriggers:    triggers,
		MonthlyEstimate:    net * float64(triggers),
		BreakEvenAmplitude: transactionCost * 2 * 100,
		MaxDrawdown:        plan.StepAmount * drawdownGrids / mid,
	}
}

func adjustments(trend model.TrendDirection) []model.Adjustment {
	out := []model.Adjustment{
		{
			Situation: "波动率上升",
			Suggestions: []string{
				"适当扩大网格区间，增加价格覆盖范围",
				"减少网格数量，增大单个网格的步长",
				"降低仓位比例，控制风险暴露",
				"设置更严格的止损条件",
			},
			Parameters: map[string]string{
				"price_range_ratio": "增加10-20%",
				"grid_count":        "减少20-30%",
				"position_ratio":    "降低至30-40%",
				"stop_loss":         "设置5-8%的止损线",
			},
		},
		{
			Situation: "波动率下降",
			Suggestions: []string{
				"缩小网格区间，提高资金利用效率",
				"增加网格数量，捕捉更小的价格波动",
				"适当提高仓位比例",
				"降低对收益的期望值",
			},
			Parameters: map[string]string{
				"price_range_ratio":  "减少10-15%",
				"grid_count":         "增加15-25%",
				"position_ratio":     "提高至50-60%",
				"profit_expectation": "降低20-30%",
			},
		},
	}

	trendAdvice := model.Adjustment{
		Parameters: map[string]string{
			"grid_center":         "根据趋势方向调整",
			"position_allocation": "趋势方向减少配置",
		},
	}
	switch trend {
	case model.TrendUp:
		trendAdvice.Situation = "上涨趋势市场"
		trendAdvice.Suggestions = []string{
			"将网格中心适当上移",
			"在下方设置更密集的网格",
			"减少上方网格的仓位配置",
			"设置移动止盈条件",
		}
	case model.TrendDown:
		trendAdvice.Situation = "下跌趋势市场"
		trendAdvice.Suggestions = []string{
			"将网格中心适当下移",
			"减少下方网格的仓位配置",
			"考虑暂停网格交易",
			"设置更严格的止损条件",
		}
	default:
		trendAdvice.Situation = "震荡市场"
		trendAdvice.Suggestions = []string{
			"保持网格中心在当前价格附近",
			"按计划执行，避免频繁调整参数",
			"价格突破区间时重新评估",
		}
	}
	return append(out, trendAdvice)
}

var generalPrinciples = []string{
	"定期回顾和调整网格参数，适应市场变化",
	"严格控制风险，设置合理的止损线",
	"关注交易成本，确保网格收益能覆盖成本",
	"保持充足的现金储备，应对突发情况",
	"监控市场流动性，避免在流动性不足时交易",
}
