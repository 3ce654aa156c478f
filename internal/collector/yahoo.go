package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"GridScout/internal/model"
)

// metadataLookback is the chart window requested for metadata; long enough to
// span holidays.
const metadataLookback = 10 * 24 * time.Hour

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
type YahooFetcher struct {
	BaseURL string
	Client  *http.Client
	now     func() time.Time
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(baseURL, proxyURL string) *YahooFetcher {
	return &YahooFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  newHTTPClient(proxyURL),
		now:     time.Now,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooSymbol maps exchange suffixes to Yahoo's: Shanghai is ".SS".
func yahooSymbol(code string) string {
	if strings.HasSuffix(code, ".SH") {
		return strings.TrimSuffix(code, ".SH") + ".SS"
	}
	return code
}

type yahooMeta struct {
	Symbol             string  `json:"symbol"`
	ShortName          string  `json:"shortName"`
	LongName           string  `json:"longName"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	ChartPreviousClose float64 `json:"chartPreviousClose"`
	PreviousClose      float64 `json:"previousClose"`
	RegularMarketTime  int64   `json:"regularMarketTime"`
	RegularMarketVol   float64 `json:"regularMarketVolume"`
	FirstTradeDate     int64   `json:"firstTradeDate"`
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta       yahooMeta `json:"meta"`
			Timestamp  []int64   `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []any `json:"open"`
					High   []any `json:"high"`
					Low    []any `json:"low"`
					Close  []any `json:"close"`
					Volume []any `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func at(xs []any, i int) float64 {
	if i < len(xs) {
		return toFloat(xs[i])
	}
	return 0
}

func (f *YahooFetcher) fetchChart(ctx context.Context, code string, start, end time.Time) (*yahooChart, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		f.BaseURL, url.PathEscape(yahooSymbol(code)), start.Unix(), end.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, nil
	}
	return &chart, nil
}

// FetchMetadata builds a metadata map from the chart meta block. Yahoo has no
// fund manager, so that key is omitted.
func (f *YahooFetcher) FetchMetadata(ctx context.Context, code string) (map[string]any, error) {
	now := f.now()
	chart, err := f.fetchChart(ctx, code, now.Add(-metadataLookback), now)
	if err != nil || chart == nil {
		return nil, err
	}
	m := chart.Chart.Result[0].Meta
	if m.RegularMarketPrice == 0 {
		return nil, nil
	}

	name := m.LongName
	if name == "" {
		name = m.ShortName
	}
	preClose := m.PreviousClose
	if preClose == 0 {
		preClose = m.ChartPreviousClose
	}
	meta := map[string]any{
		"name":          name,
		"current_price": m.RegularMarketPrice,
		"pre_close":     preClose,
		"volume":        m.RegularMarketVol,
	}
	if preClose != 0 {
		meta["pct_change"] = (m.RegularMarketPrice - preClose) / preClose * 100
	}
	if m.RegularMarketTime > 0 {
		day := calendarDay(time.Unix(m.RegularMarketTime, 0), chinaTZ)
		meta["trade_date"] = day.Format(providerDate)
		meta["data_age_days"] = daysSince(day, now)
	}
	if m.FirstTradeDate > 0 {
		meta["list_date"] = calendarDay(time.Unix(m.FirstTradeDate, 0), chinaTZ).Format(providerDate)
	}
	return meta, nil
}

// FetchDailyBars returns daily bars between start and end. Null bars (holidays)
// are skipped; previous close is the prior bar's close.
func (f *YahooFetcher) FetchDailyBars(ctx context.Context, code string, start, end time.Time) ([]model.DailyBar, error) {
	chart, err := f.fetchChart(ctx, code, start, end)
	if err != nil || chart == nil {
		return nil, err
	}
	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	quote := result.Indicators.Quote[0]

	prevClose := result.Meta.ChartPreviousClose
	bars := make([]model.DailyBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o, h, l, c := at(quote.Open, i), at(quote.High, i), at(quote.Low, i), at(quote.Close, i)
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue
		}
		bar := model.DailyBar{
			TradeDate: calendarDay(time.Unix(ts, 0), chinaTZ),
			Open:      o,
			High:      h,
			Low:       l,
			Close:     c,
			PreClose:  prevClose,
			Volume:    at(quote.Volume, i),
		}
		bar.Amplitude = model.BarAmplitude(h, l, prevClose)
		bars = append(bars, bar)
		prevClose = c
	}
	return bars, nil
}
