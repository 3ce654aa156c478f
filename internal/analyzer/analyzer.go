package analyzer

import (
	"fmt"
	"time"

	"GridScout/internal/calculator"
	"GridScout/internal/model"

	"github.com/rs/zerolog"
)

// MinDataPoints is the shortest series the analyzer will characterize.
const MinDataPoints = 20

// FailureObserver is notified whenever a statistic section falls back to its default.
type FailureObserver interface {
	ObserveSectionFailure(section string)
}

type noopObserver struct{}

func (noopObserver) ObserveSectionFailure(string) {}

// Analyzer computes the characteristic profile of a fund's daily history.
// It holds no per-request state and is safe for concurrent use.
type Analyzer struct {
	log      zerolog.Logger
	observer FailureObserver
	now      func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithObserver reports section failures to o.
func WithObserver(o FailureObserver) Option {
	return func(a *Analyzer) {
		if o != nil {
			a.observer = o
		}
	}
}

// WithClock overrides the clock used for the analysis timestamp.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// New creates an Analyzer.
func New(log zerolog.Logger, opts ...Option) *Analyzer {
	a := &Analyzer{
		log:      log.With().Str("component", "analyzer").Logger(),
		observer: noopObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// InsufficientDataMessage is the error text carried by analyses of short series.
func InsufficientDataMessage(points int) string {
	return fmt.Sprintf("数据不足，无法进行分析（%d/%d个交易日）", points, MinDataPoints)
}

// Analyze characterizes the series. Series shorter than MinDataPoints yield an
// analysis with Error and DataPoints set and no statistics. Any single statistic
// that cannot be computed is logged and left at its zero default.
func (a *Analyzer) Analyze(series *model.HistoricalSeries) *model.CharacteristicAnalysis {
	n := series.Len()
	if n < MinDataPoints {
		a.log.Warn().Int("data_points", n).Msg("insufficient data for analysis")
		return &model.CharacteristicAnalysis{Error: InsufficientDataMessage(n), DataPoints: n}
	}

	closes := series.Closes()
	volumes := series.Volumes()
	amplitudes := series.Amplitudes()

	res := &model.CharacteristicAnalysis{
		DataPoints:   n,
		StartDate:    series.Bars[0].TradeDate.Format(time.DateOnly),
		EndDate:      series.Bars[n-1].TradeDate.Format(time.DateOnly),
		AnalysisDate: a.now().Format(time.RFC3339),
	}

	// Price
	if ps, err := computePriceStats(closes); err != nil {
		a.sectionFailed(SectionPrice, err)
	} else {
		res.CurrentPrice = ps.Current
		res.AvgPrice = ps.Avg
		res.PriceStd = ps.Std
		res.PriceRange = ps.Range
	}

	// Volatility
	if vol, err := calculator.AnnualizedVolatility(closes); err != nil {
		a.sectionFailed(SectionVolatility, err)
	} else {
		res.Volatility = vol
	}
	res.VolatilityLevel = ClassifyVolatility(res.Volatility)

	// Amplitude
	if as, err := computeAmplitudeStats(amplitudes); err != nil {
		a.sectionFailed(SectionAmplitude, err)
	} else {
		res.AvgAmplitude = as.Avg
		res.MaxAmplitude = as.Max
		res.MinAmplitude = as.Min
		res.AmplitudeStd = as.Std
	}
	res.AmplitudeLevel = ClassifyAmplitude(res.AvgAmplitude)

	// Volume
	if vs, err := computeVolumeStats(volumes); err != nil {
		a.sectionFailed(SectionVolume, err)
	} else {
		res.AvgVolume = vs.Avg
		res.VolumeStd = vs.Std
	}

	// Trend
	if slope, err := calculator.TrendSlope(closes); err != nil {
		a.sectionFailed(SectionTrend, err)
	} else {
		res.TrendSlope = slope
	}
	res.TrendDirection = ClassifyTrend(res.TrendSlope)

	// Oscillation
	if score, err := computeOscillation(closes, amplitudes); err != nil {
		a.sectionFailed(SectionOscillation, err)
	} else {
		res.OscillationScore = score
	}
	res.MarketCharacter = ClassifyMarketCharacter(res.OscillationScore)

	// Liquidity
	if score, err := computeLiquidity(volumes); err != nil {
		a.sectionFailed(SectionLiquidity, err)
	} else {
		res.LiquidityScore = score
	}

	// Distribution
	if dist, err := computeDistribution(closes); err != nil {
		a.sectionFailed(SectionDistribution, err)
		res.PriceDistribution = unclassifiableDistribution()
	} else {
		res.PriceDistribution = &dist
	}

	a.log.Debug().
		Int("data_points", n).
		Float64("avg_amplitude", res.AvgAmplitude).
		Float64("volatility", res.Volatility).
		Str("market_character", string(res.MarketCharacter)).
		Msg("characteristic analysis complete")
	return res
}

func (a *Analyzer) sectionFailed(section string, err error) {
	a.log.Warn().Str("section", section).Err(err).Msg("statistic unavailable, using default")
	a.observer.ObserveSectionFailure(section)
}
