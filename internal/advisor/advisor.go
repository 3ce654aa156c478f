package advisor

import (
	"context"
	"fmt"
	"time"

	"GridScout/internal/analyzer"
	"GridScout/internal/fund"
	"GridScout/internal/model"
	"GridScout/internal/recorder"
	"GridScout/internal/strategy"

	"github.com/rs/zerolog"
)

// DefaultHistoryDays is the analysis window when a request does not set one.
const DefaultHistoryDays = 90

// DataSource supplies fund metadata and daily history.
type DataSource interface {
	FundInfo(ctx context.Context, code string) (*model.FundInfo, error)
	History(ctx context.Context, code string, days int) (*model.HistoricalSeries, error)
}

// EvaluationObserver is notified of every verdict produced.
type EvaluationObserver interface {
	ObserveEvaluation(suitable bool, score int)
}

// Request asks for a suitability assessment of one fund. A nil Params lets
// the advisor suggest grid parameters from the optimal bands; a zero Capital
// uses the configured default.
type Request struct {
	Code      string
	Frequency model.Frequency
	Days      int
	Params    *model.GridParams
	Capital   float64
}

// Report is the full result of an assessment.
type Report struct {
	Code            string                        `json:"code"`
	Info            *model.FundInfo               `json:"info,omitempty"`
	Analysis        *model.CharacteristicAnalysis `json:"analysis"`
	Params          model.GridParams              `json:"grid_params"`
	ParamsSuggested bool                          `json:"grid_params_suggested"`
	Verdict         *model.SuitabilityVerdict     `json:"verdict"`
	Plan            *model.GridPlan               `json:"grid_plan,omitempty"`
	GeneratedAt     time.Time                     `json:"generated_at"`
}

// Option configures an Advisor.
type Option func(*Advisor)

// WithObserver reports verdicts to o.
func WithObserver(o EvaluationObserver) Option {
	return func(a *Advisor) { a.observer = o }
}

// WithDefaults sets the history window and frequency used when a request leaves them empty.
func WithDefaults(days int, f model.Frequency) Option {
	return func(a *Advisor) {
		if days > 0 {
			a.historyDays = days
		}
		if f != "" {
			a.frequency = f
		}
	}
}

// WithCapital sets the capital used for grid plans when a request leaves it zero.
func WithCapital(capital float64) Option {
	return func(a *Advisor) {
		if capital > 0 {
			a.capital = capital
		}
	}
}

// WithClock overrides the report timestamp source.
func WithClock(now func() time.Time) Option {
	return func(a *Advisor) { a.now = now }
}

// Advisor runs the collect, analyze, evaluate pipeline and records the outcome.
type Advisor struct {
	source      DataSource
	analyzer    *analyzer.Analyzer
	recorder    recorder.Recorder
	observer    EvaluationObserver
	log         zerolog.Logger
	now         func() time.Time
	historyDays int
	frequency   model.Frequency
	capital     float64
}

// New creates an Advisor. A nil recorder disables persistence.
func New(source DataSource, an *analyzer.Analyzer, rec recorder.Recorder, log zerolog.Logger, opts ...Option) *Advisor {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	a := &Advisor{
		source:      source,
		analyzer:    an,
		recorder:    rec,
		log:         log.With().Str("component", "advisor").Logger(),
		now:         time.Now,
		historyDays: DefaultHistoryDays,
		frequency:   model.FrequencyMedium,
		capital:     strategy.DefaultCapital,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Characterize loads history for code and analyzes it. days <= 0 uses the
// configured default. Only data unavailability is returned as an error.
func (a *Advisor) Characterize(ctx context.Context, code string, days int) (*model.CharacteristicAnalysis, error) {
	if days <= 0 {
		days = a.historyDays
	}
	series, err := a.source.History(ctx, code, days)
	if err != nil {
		return nil, err
	}
	return a.analyzer.Analyze(series), nil
}

// Assess produces a full report for req. It fails only when the frequency or
// capital is invalid or no history is available; missing metadata is
// tolerated, and a plan that cannot be built is left out.
func (a *Advisor) Assess(ctx context.Context, req Request) (*Report, error) {
	freq := a.frequency
	if req.Frequency != "" {
		f, err := model.ParseFrequency(string(req.Frequency))
		if err != nil {
			return nil, err
		}
		freq = f
	}
	capital := a.capital
	if req.Capital != 0 {
		if err := strategy.ValidateCapital(req.Capital); err != nil {
			return nil, err
		}
		capital = req.Capital
	}

	info, err := a.source.FundInfo(ctx, req.Code)
	if err != nil {
		a.log.Warn().Err(err).Str("code", req.Code).Msg("fund info unavailable, continuing without it")
		info = nil
	}

	analysis, err := a.Characterize(ctx, req.Code, req.Days)
	if err != nil {
		return nil, fmt.Errorf("history for %s: %w", req.Code, err)
	}

	report := &Report{
		Code:        fund.CompleteCode(req.Code),
		Info:        info,
		Analysis:    analysis,
		GeneratedAt: a.now(),
	}
	if req.Params != nil {
		report.Params = *req.Params
	} else {
		report.Params = strategy.SuggestGridParams(analysis.AvgAmplitude/100, freq)
		report.ParamsSuggested = true
	}

	report.Verdict = strategy.Evaluate(analysis, report.Params, freq)
	report.Plan = a.plan(report, freq, capital)
	a.record(report)

	a.log.Info().
		Str("code", report.Code).
		Str("frequency", string(freq)).
		Int("score", report.Verdict.Score).
		Bool("suitable", report.Verdict.IsSuitable).
		Msg("assessment complete")
	return report, nil
}

func (a *Advisor) plan(r *Report, freq model.Frequency, capital float64) *model.GridPlan {
	if r.Analysis.Failed() {
		return nil
	}
	price := r.Analysis.CurrentPrice
	if r.Info != nil && r.Info.CurrentPrice > 0 {
		price = r.Info.CurrentPrice
	}
	plan, err := strategy.BuildGridPlan(price, r.Analysis, r.Params, freq, capital)
	if err != nil {
		a.log.Warn().Err(err).Str("code", r.Code).Msg("grid plan unavailable")
		return nil
	}
	return plan
}

func (a *Advisor) record(r *Report) {
	if a.observer != nil {
		a.observer.ObserveEvaluation(r.Verdict.IsSuitable, r.Verdict.Score)
	}

	rec := &recorder.EvaluationRecord{
		Timestamp:        r.GeneratedAt,
		Code:             r.Code,
		Frequency:        r.Verdict.Frequency,
		Score:            r.Verdict.Score,
		IsSuitable:       r.Verdict.IsSuitable,
		AvgAmplitude:     r.Analysis.AvgAmplitude,
		Volatility:       r.Analysis.Volatility,
		OscillationScore: r.Analysis.OscillationScore,
		LiquidityScore:   r.Analysis.LiquidityScore,
		MarketCharacter:  r.Analysis.MarketCharacter,
		PriceRangeRatio:  r.Params.PriceRangeRatio,
		GridCount:        r.Params.GridCount,
		Reasons:          r.Verdict.Reasons,
		Warnings:         r.Verdict.Warnings,
	}
	if r.Info != nil {
		rec.Name = r.Info.Name
	}
	if err := a.recorder.RecordEvaluation(rec); err != nil {
		a.log.Error().Err(err).Str("code", r.Code).Msg("failed to record evaluation")
	}
}

// RecentEvaluations returns recorded history for code, newest first.
func (a *Advisor) RecentEvaluations(code string, limit int) ([]recorder.EvaluationRecord, error) {
	return a.recorder.RecentEvaluations(fund.CompleteCode(code), limit)
}
