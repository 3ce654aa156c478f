package fund

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"GridScout/internal/model"
)

// CompleteCode normalizes a fund code to its exchange-qualified form.
// Any existing suffix is dropped; 15/16/18 prefixes trade in Shenzhen,
// everything else defaults to Shanghai.
func CompleteCode(code string) string {
	bare := BareCode(code)
	if bare == "" {
		return ""
	}
	for _, p := range []string{"15", "16", "18"} {
		if strings.HasPrefix(bare, p) {
			return bare + ".SZ"
		}
	}
	return bare + ".SH"
}

// BareCode strips an exchange suffix: "510300.SH" -> "510300".
func BareCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if i := strings.IndexByte(code, '.'); i >= 0 {
		code = code[:i]
	}
	return code
}

// FormatInfo normalizes a provider metadata map into a FundInfo. Missing or
// mistyped keys become empty strings and zeros; it never fails.
func FormatInfo(code string, raw map[string]any) model.FundInfo {
	manager := stringField(raw, "management")
	if manager == "" {
		manager = stringField(raw, "manager")
	}
	return model.FundInfo{
		Code:         code,
		Name:         stringField(raw, "name"),
		Manager:      manager,
		CurrentPrice: floatField(raw, "current_price"),
		PreClose:     floatField(raw, "pre_close"),
		PctChange:    floatField(raw, "pct_change"),
		Volume:       int64(floatField(raw, "volume")),
		Amount:       floatField(raw, "amount"),
		TradeDate:    stringField(raw, "trade_date"),
		FoundDate:    stringField(raw, "found_date"),
		ListDate:     stringField(raw, "list_date"),
		DataAgeDays:  int(floatField(raw, "data_age_days")),
	}
}

func stringField(raw map[string]any, key string) string {
	switch v := raw[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func floatField(raw map[string]any, key string) float64 {
	var f float64
	switch v := raw[key].(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		f, _ = v.Float64()
	case string:
		f, _ = strconv.ParseFloat(strings.TrimSpace(v), 64)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
