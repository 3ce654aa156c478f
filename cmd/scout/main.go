package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"GridScout/internal/advisor"
	"GridScout/internal/analyzer"
	"GridScout/internal/api"
	"GridScout/internal/cache"
	"GridScout/internal/collector"
	"GridScout/internal/config"
	"GridScout/internal/fund"
	"GridScout/internal/logger"
	"GridScout/internal/metrics"
	"GridScout/internal/model"
	"GridScout/internal/notifier"
	"GridScout/internal/recorder"
	"GridScout/internal/scheduler"

	"github.com/rs/zerolog"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		l := logger.New(logger.Config{})
		l.Fatal().Err(err).Msg("load config")
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	log.Info().Str("config", cfgPath).Msg("GridScout starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()

	// Data source
	fetcher := newFetcher(cfg)
	store := newCacheStore(ctx, cfg, log)
	defer store.Close()
	cached := collector.NewCachedFetcher(fetcher, store, cfg.Cache.MetadataTTL, cfg.Cache.SeriesTTL, log)
	col := collector.New(cached, log, collector.WithObserver(m))
	log.Info().Str("provider", fetcher.Name()).Msg("data source ready")

	// Recorder
	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		} else {
			rec = sr
		}
	}
	defer rec.Close()

	// Advisor
	freq, err := model.ParseFrequency(cfg.Analysis.DefaultFrequency)
	if err != nil {
		log.Fatal().Err(err).Msg("default frequency")
	}
	an := analyzer.New(log, analyzer.WithObserver(m))
	adv := advisor.New(col, an, rec, log,
		advisor.WithObserver(m),
		advisor.WithDefaults(cfg.Analysis.HistoryDays, freq),
		advisor.WithCapital(cfg.Analysis.Capital),
	)

	// Watchlist
	tracker, err := fund.NewTracker(cfg.Watch.StateFile, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init watch tracker")
	}

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)

	sched := scheduler.NewScheduler(ctx, adv, col, tracker, tn, rec, cfg.Watch.Funds, log)
	if err := sched.Register(cfg.Schedule.ScanCron); err != nil {
		log.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()

	if cfg.TelegramEnabled() {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	} else {
		log.Warn().Msg("telegram not configured, bot disabled")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, scanning watchlist now")
		go sched.RunScan(ctx)
	}

	// HTTP API
	server := api.NewServer(adv, col, log,
		api.WithMetrics(m, m.Handler()),
		api.WithCORS(cfg.HTTP.AllowOrigins),
	).NewHTTPServer(cfg.HTTP.Addr)
	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr).Msg("http api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server failed")
			cancel()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Info().Msg("shutdown signal received, stopping...")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	cancel()
	sched.Stop()
	log.Info().Msg("GridScout stopped")
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	switch cfg.DataSource.Provider {
	case config.ProviderYahoo:
		return collector.NewYahooFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	case config.ProviderMock:
		return &collector.MockFetcher{BasePrice: 3.8}
	default:
		return collector.NewTushareFetcher(cfg.DataSource.BaseURL, cfg.DataSource.Token, cfg.Proxy)
	}
}

func newCacheStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) cache.Store {
	if cfg.Cache.RedisAddr == "" {
		return cache.NewMemoryStore()
	}
	rs, err := cache.NewRedisStore(ctx, cache.RedisOptions{
		Addr:     cfg.Cache.RedisAddr,
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
	})
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Cache.RedisAddr).Msg("redis unavailable, using in-memory cache")
		return cache.NewMemoryStore()
	}
	return rs
}
