package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"GridScout/internal/cache"
	"GridScout/internal/model"

	"github.com/rs/zerolog"
)

// CachedFetcher decorates a Fetcher with a response cache. Cache failures fall
// through to the provider; empty responses are not cached.
type CachedFetcher struct {
	next        Fetcher
	store       cache.Store
	metadataTTL time.Duration
	seriesTTL   time.Duration
	log         zerolog.Logger
}

// NewCachedFetcher wraps next with store.
func NewCachedFetcher(next Fetcher, store cache.Store, metadataTTL, seriesTTL time.Duration, log zerolog.Logger) *CachedFetcher {
	return &CachedFetcher{
		next:        next,
		store:       store,
		metadataTTL: metadataTTL,
		seriesTTL:   seriesTTL,
		log:         log.With().Str("component", "cache").Str("provider", next.Name()).Logger(),
	}
}

func (f *CachedFetcher) Name() string { return f.next.Name() }

func (f *CachedFetcher) FetchMetadata(ctx context.Context, code string) (map[string]any, error) {
	key := fmt.Sprintf("gridscout:meta:%s:%s", f.next.Name(), code)

	var meta map[string]any
	if f.lookup(ctx, key, &meta) {
		return meta, nil
	}
	meta, err := f.next.FetchMetadata(ctx, code)
	if err != nil || len(meta) == 0 {
		return meta, err
	}
	f.save(ctx, key, meta, f.metadataTTL)
	return meta, nil
}

func (f *CachedFetcher) FetchDailyBars(ctx context.Context, code string, start, end time.Time) ([]model.DailyBar, error) {
	key := fmt.Sprintf("gridscout:bars:%s:%s:%s:%s", f.next.Name(), code,
		start.Format(providerDate), end.Format(providerDate))

	var bars []model.DailyBar
	if f.lookup(ctx, key, &bars) {
		return bars, nil
	}
	bars, err := f.next.FetchDailyBars(ctx, code, start, end)
	if err != nil || len(bars) == 0 {
		return bars, err
	}
	f.save(ctx, key, bars, f.seriesTTL)
	return bars, nil
}

func (f *CachedFetcher) lookup(ctx context.Context, key string, dest any) bool {
	err := f.store.Get(ctx, key, dest)
	if err == nil {
		f.log.Debug().Str("key", key).Msg("cache hit")
		return true
	}
	if !errors.Is(err, cache.ErrMiss) {
		f.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}
	return false
}

func (f *CachedFetcher) save(ctx context.Context, key string, value any, ttl time.Duration) {
	if err := f.store.Set(ctx, key, value, ttl); err != nil {
		f.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}
