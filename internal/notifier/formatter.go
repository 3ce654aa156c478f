package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"GridScout/internal/advisor"
	"GridScout/internal/model"
)

// ScanRow is one fund's line in a scan summary.
type ScanRow struct {
	Code     string
	Name     string
	Score    int
	Suitable bool
	Changed  bool
	Err      string
}

var frequencyLabels = map[model.Frequency]string{
	model.FrequencyHigh:   "高频",
	model.FrequencyMedium: "中频",
	model.FrequencyLow:    "低频",
}

var characterLabels = map[model.MarketCharacter]string{
	model.MarketRanging:     "震荡市",
	model.MarketWeakTrend:   "弱趋势",
	model.MarketStrongTrend: "强趋势",
}

var riskLabels = map[model.RiskLevel]string{
	model.RiskLow:     "低风险",
	model.RiskMedium:  "中等风险",
	model.RiskHigh:    "高风险",
	model.RiskExtreme: "极高风险",
}

func fundTitle(code, name string) string {
	if name == "" {
		return html.EscapeString(code)
	}
	return fmt.Sprintf("%s (%s)", html.EscapeString(name), html.EscapeString(code))
}

// FormatVerdictReport formats an assessment into a Telegram message.
func FormatVerdictReport(r *advisor.Report) string {
	var b strings.Builder
	v := r.Verdict
	name := ""
	if r.Info != nil {
		name = r.Info.Name
	}

	b.WriteString(fmt.Sprintf("📊 <b>网格适合度评估</b> | %s\n", fundTitle(r.Code, name)))
	b.WriteString(fmt.Sprintf("频率偏好: %s | %s\n\n", frequencyLabels[v.Frequency], r.GeneratedAt.Format("2006-01-02 15:04")))

	if a := r.Analysis; a != nil && !a.Failed() {
		b.WriteString("📈 <b>特征分析:</b>\n")
		b.WriteString(fmt.Sprintf("  当前价格: %.3f\n", a.CurrentPrice))
		b.WriteString(fmt.Sprintf("  日均振幅: %.2f%% | 年化波动率: %.1f%%\n", a.AvgAmplitude, a.Volatility))
		b.WriteString(fmt.Sprintf("  市场特征: %s (震荡分数 %.2f)\n", characterLabels[a.MarketCharacter], a.OscillationScore))
		b.WriteString(fmt.Sprintf("  流动性: %.2f | 样本: %d个交易日\n\n", a.LiquidityScore, a.DataPoints))
	}

	if len(v.Dimensions) > 0 {
		b.WriteString("🧮 <b>评分明细:</b>\n")
		for _, d := range v.Dimensions {
			b.WriteString(fmt.Sprintf("  %s: %d/%d (%s)\n", d.Name, d.Score, d.Max, html.EscapeString(d.Commentary)))
		}
		b.WriteString("\n")
	}

	if ge := v.GridEvaluation; ge != nil {
		tag := ""
		if r.ParamsSuggested {
			tag = " (系统建议)"
		}
		b.WriteString(fmt.Sprintf("🔧 <b>网格参数%s:</b> 区间 %.1f%% | %d格\n", tag, r.Params.PriceRangeRatio*100, r.Params.GridCount))
		b.WriteString(fmt.Sprintf("  推荐区间: %.1f%%-%.1f%% | 推荐格数: %d-%d\n\n",
			ge.OptimalRange.Min*100, ge.OptimalRange.Max*100, ge.OptimalCount.Min, ge.OptimalCount.Max))
	}

	if p := r.Plan; p != nil {
		writePlan(&b, p)
	}

	b.WriteString(html.EscapeString(v.Recommendation))
	return b.String()
}

func writePlan(b *strings.Builder, p *model.GridPlan) {
	b.WriteString("🧱 <b>网格方案:</b>\n")
	b.WriteString(fmt.Sprintf("  价格区间: %.3f - %.3f (%.1f%%)\n", p.LowerBound, p.UpperBound, p.RangeRatio*100))
	b.WriteString(fmt.Sprintf("  网格: %d格 | 步长 %.3f (%.2f%%)\n", p.GridCount, p.StepAmount, p.StepRatio*100))
	al := p.Allocation
	b.WriteString(fmt.Sprintf("  每格: %d份 ≈ %.0f元 | 底仓 %.0f元\n", al.PerGridShares, al.PerGridAmount, al.BasePosition))
	pr := p.Profit
	b.WriteString(fmt.Sprintf("  单格收益: %.2f元 | 月均触发 %d次 ≈ %.0f元\n", pr.ProfitPerGrid, pr.MonthlyTriggers, pr.MonthlyEstimate))
	b.WriteString(fmt.Sprintf("  风险等级: %s\n", riskLabels[p.RiskLevel]))
	if n := len(p.Adjustments); n > 0 {
		adj := p.Adjustments[n-1]
		b.WriteString(fmt.Sprintf("  %s: %s\n", html.EscapeString(adj.Situation), html.EscapeString(strings.Join(adj.Suggestions, "；"))))
	}
	b.WriteString("\n")
}

// FormatFundInfo formats fund metadata for display.
func FormatFundInfo(info *model.FundInfo) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📦 <b>%s</b>\n\n", fundTitle(info.Code, info.Name)))
	if info.Manager != "" {
		b.WriteString(fmt.Sprintf("管理人: %s\n", html.EscapeString(info.Manager)))
	}
	b.WriteString(fmt.Sprintf("最新价: %.3f (%+.2f%%)\n", info.CurrentPrice, info.PctChange))
	b.WriteString(fmt.Sprintf("昨收: %.3f\n", info.PreClose))
	b.WriteString(fmt.Sprintf("成交量: %d | 成交额: %.0f\n", info.Volume, info.Amount))
	if info.TradeDate != "" {
		b.WriteString(fmt.Sprintf("交易日: %s", info.TradeDate))
		if info.DataAgeDays > 0 {
			b.WriteString(fmt.Sprintf(" (%d天前)", info.DataAgeDays))
		}
		b.WriteString("\n")
	}
	if info.ListDate != "" {
		b.WriteString(fmt.Sprintf("上市日期: %s\n", info.ListDate))
	}
	return b.String()
}

// FormatScanSummary formats the result of a watchlist scan.
func FormatScanSummary(rows []ScanRow, at time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🛰 <b>自选基金扫描</b> | %s\n\n", at.Format("2006-01-02 15:04")))
	if len(rows) == 0 {
		b.WriteString("自选列表为空")
		return b.String()
	}

	suitable := 0
	for _, r := range rows {
		switch {
		case r.Err != "":
			b.WriteString(fmt.Sprintf("⚪ %s: %s\n", fundTitle(r.Code, r.Name), html.EscapeString(r.Err)))
			continue
		case r.Suitable:
			suitable++
			b.WriteString("🟢 ")
		default:
			b.WriteString("🔴 ")
		}
		b.WriteString(fmt.Sprintf("%s: %d分", fundTitle(r.Code, r.Name), r.Score))
		if r.Changed {
			b.WriteString(" 🔔")
		}
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("\n适合网格: %d/%d", suitable, len(rows)))
	return b.String()
}

// FormatChangeAlert formats an alert for a fund whose verdict changed materially.
func FormatChangeAlert(r *advisor.Report, prev model.WatchEntry) string {
	name := ""
	if r.Info != nil {
		name = r.Info.Name
	}
	state := func(ok bool) string {
		if ok {
			return "适合"
		}
		return "不适合"
	}
	return fmt.Sprintf("🔔 <b>评估变化</b> | %s\n%s %d分 → %s %d分\n\n%s",
		fundTitle(r.Code, name),
		state(prev.IsSuitable), prev.Score,
		state(r.Verdict.IsSuitable), r.Verdict.Score,
		html.EscapeString(r.Verdict.Recommendation))
}
