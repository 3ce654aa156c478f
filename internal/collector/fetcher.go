package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"GridScout/internal/model"
)

// Fetcher defines the interface to an upstream market-data provider. Codes are
// exchange-qualified ("510300.SH"). An empty result with a nil error means the
// provider has nothing for the request.
type Fetcher interface {
	Name() string
	FetchMetadata(ctx context.Context, code string) (map[string]any, error)
	FetchDailyBars(ctx context.Context, code string, start, end time.Time) ([]model.DailyBar, error)
}

// providerDate is the YYYYMMDD layout used by Chinese market-data APIs.
const providerDate = "20060102"

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

// toFloat coerces a decoded JSON value to float64; nulls and junk become 0.
func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f
	default:
		return 0
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(s)
	}
}

// calendarDay truncates t to midnight UTC of its date in loc.
func calendarDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysSince returns whole days between a trade date and now.
func daysSince(tradeDate, now time.Time) int {
	days := int(calendarDay(now, chinaTZ).Sub(tradeDate).Hours() / 24)
	return max(days, 0)
}

// chinaTZ is the exchange time zone for SSE/SZSE listings.
var chinaTZ = time.FixedZone("CST", 8*3600)
