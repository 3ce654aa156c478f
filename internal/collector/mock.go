package collector

import (
	"context"
	"math"
	"time"

	"GridScout/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// With no Bars set it synthesizes a deterministic range-bound series of
// weekday bars around BasePrice.
type MockFetcher struct {
	BasePrice float64
	Metadata  map[string]any
	Bars      []model.DailyBar
	Err       error
	Empty     bool
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchMetadata(_ context.Context, code string) (map[string]any, error) {
	if m.Err != nil || m.Empty {
		return nil, m.Err
	}
	if m.Metadata != nil {
		return m.Metadata, nil
	}
	price := m.basePrice()
	return map[string]any{
		"name":          "模拟ETF " + code,
		"management":    "模拟基金管理有限公司",
		"current_price": price,
		"pre_close":     price,
		"pct_change":    0.0,
		"volume":        2_000_000.0,
		"amount":        price * 2_000_000,
		"trade_date":    time.Now().Format(providerDate),
		"data_age_days": 0,
	}, nil
}

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, start, end time.Time) ([]model.DailyBar, error) {
	if m.Err != nil || m.Empty {
		return nil, m.Err
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	return generateMockBars(m.basePrice(), start, end), nil
}

func (m *MockFetcher) basePrice() float64 {
	if m.BasePrice > 0 {
		return m.BasePrice
	}
	return 3.0
}

// generateMockBars oscillates ±3% around basePrice on every weekday in [start, end].
func generateMockBars(basePrice float64, start, end time.Time) []model.DailyBar {
	var bars []model.DailyBar
	prev := basePrice
	i := 0
	for d := calendarDay(start, time.UTC); !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		c := basePrice * (1 + 0.03*math.Sin(float64(i)/3))
		bar := model.DailyBar{
			TradeDate: d,
			Open:      prev,
			High:      math.Max(prev, c) * 1.008,
			Low:       math.Min(prev, c) * 0.992,
			Close:     c,
			PreClose:  prev,
			Volume:    2_000_000 + 200_000*math.Cos(float64(i)),
		}
		bar.Amount = bar.Volume * c
		bar.Amplitude = model.BarAmplitude(bar.High, bar.Low, prev)
		bars = append(bars, bar)
		prev = c
		i++
	}
	return bars
}
