package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"GridScout/internal/model"
)

const (
	tushareBasicFields = "ts_code,name,management,found_date,list_date"
	tushareQuoteFields = "ts_code,trade_date,close,pre_close,pct_chg,vol,amount"
	tushareBarFields   = "ts_code,trade_date,open,high,low,close,pre_close,vol,amount"
	// latestQuoteWindow is how far back FetchMetadata looks for the latest quote.
	latestQuoteWindow = 90 * 24 * time.Hour
)

// TushareFetcher implements Fetcher using the Tushare Pro HTTP API.
type TushareFetcher struct {
	BaseURL string
	Token   string
	Client  *http.Client
	now     func() time.Time
}

// NewTushareFetcher creates a new fetcher with optional proxy support.
func NewTushareFetcher(baseURL, token, proxyURL string) *TushareFetcher {
	return &TushareFetcher{
		BaseURL: baseURL,
		Token:   token,
		Client:  newHTTPClient(proxyURL),
		now:     time.Now,
	}
}

func (f *TushareFetcher) Name() string { return "tushare" }

type tushareRequest struct {
	APIName string            `json:"api_name"`
	Token   string            `json:"token"`
	Params  map[string]string `json:"params"`
	Fields  string            `json:"fields"`
}

type tushareResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data *struct {
		Fields []string `json:"fields"`
		Items  [][]any  `json:"items"`
	} `json:"data"`
}

// call posts one API request and returns its rows keyed by field name.
func (f *TushareFetcher) call(ctx context.Context, api string, params map[string]string, fields string) ([]map[string]any, error) {
	body, err := json.Marshal(tushareRequest{APIName: api, Token: f.Token, Params: params, Fields: fields})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tushare %s: %w", api, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tushare %s: status %d, body: %s", api, resp.StatusCode, string(b))
	}

	var out tushareResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("tushare %s decode: %w", api, err)
	}
	if out.Code != 0 {
		return nil, fmt.Errorf("tushare %s: code %d: %s", api, out.Code, out.Msg)
	}
	if out.Data == nil {
		return nil, nil
	}

	rows := make([]map[string]any, 0, len(out.Data.Items))
	for _, item := range out.Data.Items {
		row := make(map[string]any, len(out.Data.Fields))
		for i, name := range out.Data.Fields {
			if i < len(item) {
				row[name] = item[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// FetchMetadata merges the fund_basic record with the most recent fund_daily
// quote. It returns nil when either is missing.
func (f *TushareFetcher) FetchMetadata(ctx context.Context, code string) (map[string]any, error) {
	basic, err := f.call(ctx, "fund_basic", map[string]string{"ts_code": code, "market": "E"}, tushareBasicFields)
	if err != nil {
		return nil, err
	}
	if len(basic) == 0 {
		return nil, nil
	}

	now := f.now()
	quotes, err := f.call(ctx, "fund_daily", map[string]string{
		"ts_code":    code,
		"start_date": now.Add(-latestQuoteWindow).Format(providerDate),
		"end_date":   now.Format(providerDate),
	}, tushareQuoteFields)
	if err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, nil
	}
	sort.Slice(quotes, func(i, j int) bool {
		return toString(quotes[i]["trade_date"]) > toString(quotes[j]["trade_date"])
	})
	latest := quotes[0]

	meta := basic[0]
	tradeDate := toString(latest["trade_date"])
	meta["current_price"] = toFloat(latest["close"])
	meta["pre_close"] = toFloat(latest["pre_close"])
	meta["pct_change"] = toFloat(latest["pct_chg"])
	meta["volume"] = toFloat(latest["vol"])
	meta["amount"] = toFloat(latest["amount"])
	meta["trade_date"] = tradeDate
	if t, err := time.Parse(providerDate, tradeDate); err == nil {
		meta["data_age_days"] = daysSince(t, now)
	}
	return meta, nil
}

// FetchDailyBars returns fund_daily bars between start and end inclusive, with
// amplitude derived from high, low and previous close.
func (f *TushareFetcher) FetchDailyBars(ctx context.Context, code string, start, end time.Time) ([]model.DailyBar, error) {
	rows, err := f.call(ctx, "fund_daily", map[string]string{
		"ts_code":    code,
		"start_date": start.Format(providerDate),
		"end_date":   end.Format(providerDate),
	}, tushareBarFields)
	if err != nil {
		return nil, err
	}

	bars := make([]model.DailyBar, 0, len(rows))
	for _, row := range rows {
		date, err := time.Parse(providerDate, toString(row["trade_date"]))
		if err != nil {
			continue
		}
		bar := model.DailyBar{
			TradeDate: date,
			Open:      toFloat(row["open"]),
			High:      toFloat(row["high"]),
			Low:       toFloat(row["low"]),
			Close:     toFloat(row["close"]),
			PreClose:  toFloat(row["pre_close"]),
			Volume:    toFloat(row["vol"]),
			Amount:    toFloat(row["amount"]),
		}
		bar.Amplitude = model.BarAmplitude(bar.High, bar.Low, bar.PreClose)
		bars = append(bars, bar)
	}
	return bars, nil
}
