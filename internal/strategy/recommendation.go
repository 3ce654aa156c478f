package strategy

import (
	"fmt"
	"strings"
)

// Recommend renders the verdict text. A suitable fund lists its warnings as
// cautions; an unsuitable one lists reasons first, then warnings as further risks.
func Recommend(isSuitable bool, score int, reasons, warnings []string) string {
	var b strings.Builder
	if isSuitable {
		b.WriteString("✅ 该基金适合进行网格交易")
		if len(warnings) > 0 {
			b.WriteString("\n⚠️ 注意事项：" + strings.Join(warnings, "; "))
		}
	} else {
		b.WriteString("❌ 该基金不适合进行网格交易")
		if len(reasons) > 0 {
			b.WriteString("\n📋 主要原因：" + strings.Join(reasons, "; "))
		}
		if len(warnings) > 0 {
			b.WriteString("\n⚠️ 其他风险：" + strings.Join(warnings, "; "))
		}
	}
	b.WriteString(fmt.Sprintf("\n📊 综合评分：%d/%d", score, MaxScore))
	return b.String()
}
