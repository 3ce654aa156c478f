package collector

import (
	"context"
	"errors"
	"sort"
	"time"

	"GridScout/internal/fund"
	"GridScout/internal/model"

	"github.com/rs/zerolog"
)

// ErrDataUnavailable is returned when the provider fails or has nothing.
var ErrDataUnavailable = errors.New("data unavailable")

const (
	// DefaultHistoryDays is the history window used when days <= 0.
	DefaultHistoryDays = 90
	// staleDataDays is the metadata age past which a warning is logged.
	staleDataDays = 30
)

// Unavailability kinds reported to the observer.
const (
	KindMetadata = "metadata"
	KindSeries   = "series"
)

// UnavailableObserver is notified each time a lookup yields no data.
type UnavailableObserver interface {
	ObserveDataUnavailable(kind string)
}

// Option configures a Collector.
type Option func(*Collector)

// WithObserver reports data unavailability to o.
func WithObserver(o UnavailableObserver) Option {
	return func(c *Collector) { c.observer = o }
}

// WithClock overrides the clock used for history windows.
func WithClock(now func() time.Time) Option {
	return func(c *Collector) { c.now = now }
}

// Collector turns provider responses into normalized fund info and series.
type Collector struct {
	fetcher  Fetcher
	log      zerolog.Logger
	observer UnavailableObserver
	now      func() time.Time
}

// New creates a Collector over fetcher.
func New(fetcher Fetcher, log zerolog.Logger, opts ...Option) *Collector {
	c := &Collector{
		fetcher: fetcher,
		log:     log.With().Str("component", "collector").Str("provider", fetcher.Name()).Logger(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FundInfo returns normalized metadata for code, or ErrDataUnavailable.
func (c *Collector) FundInfo(ctx context.Context, code string) (*model.FundInfo, error) {
	full := fund.CompleteCode(code)
	if full == "" {
		return nil, c.unavailable(KindMetadata, code, errors.New("empty code"))
	}

	raw, err := c.fetcher.FetchMetadata(ctx, full)
	if err != nil {
		return nil, c.unavailable(KindMetadata, full, err)
	}
	if len(raw) == 0 {
		return nil, c.unavailable(KindMetadata, full, nil)
	}

	info := fund.FormatInfo(full, raw)
	if info.DataAgeDays > staleDataDays {
		c.log.Warn().Str("code", full).Int("data_age_days", info.DataAgeDays).Msg("latest quote is stale")
	}
	return &info, nil
}

// History returns the last days calendar days of bars for code, sorted and
// de-duplicated by trade date. days <= 0 uses DefaultHistoryDays.
func (c *Collector) History(ctx context.Context, code string, days int) (*model.HistoricalSeries, error) {
	if days <= 0 {
		days = DefaultHistoryDays
	}
	full := fund.CompleteCode(code)
	if full == "" {
		return nil, c.unavailable(KindSeries, code, errors.New("empty code"))
	}

	end := c.now()
	start := end.AddDate(0, 0, -days)
	bars, err := c.fetcher.FetchDailyBars(ctx, full, start, end)
	if err != nil {
		return nil, c.unavailable(KindSeries, full, err)
	}
	bars = normalizeBars(bars)
	if len(bars) == 0 {
		return nil, c.unavailable(KindSeries, full, nil)
	}

	c.log.Debug().Str("code", full).Int("bars", len(bars)).Msg("history loaded")
	return &model.HistoricalSeries{Code: full, Bars: bars}, nil
}

func (c *Collector) unavailable(kind, code string, cause error) error {
	ev := c.log.Warn().Str("kind", kind).Str("code", code)
	if cause != nil {
		ev = ev.Err(cause)
	}
	ev.Msg("data unavailable")
	if c.observer != nil {
		c.observer.ObserveDataUnavailable(kind)
	}
	if cause != nil {
		return errors.Join(ErrDataUnavailable, cause)
	}
	return ErrDataUnavailable
}

// normalizeBars sorts chronologically and keeps the last row for each date.
func normalizeBars(bars []model.DailyBar) []model.DailyBar {
	if len(bars) == 0 {
		return nil
	}
	out := make([]model.DailyBar, len(bars))
	copy(out, bars)
	sort.SliceStable(out, func(i, j int) bool { return out[i].TradeDate.Before(out[j].TradeDate) })

	n := 0
	for i := range out {
		if n > 0 && out[n-1].TradeDate.Equal(out[i].TradeDate) {
			out[n-1] = out[i]
			continue
		}
		out[n] = out[i]
		n++
	}
	return out[:n]
}
