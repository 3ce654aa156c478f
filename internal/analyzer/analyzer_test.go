package analyzer

import (
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"GridScout/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func makeSeries(n int, close, volume, amplitude func(i int) float64) *model.HistoricalSeries {
	s := &model.HistoricalSeries{Code: "510300.SH"}
	for i := 0; i < n; i++ {
		s.Bars = append(s.Bars, model.DailyBar{
			TradeDate: day0.AddDate(0, 0, i),
			Close:     close(i),
			Volume:    volume(i),
			Amplitude: amplitude(i),
		})
	}
	return s
}

func constant(v float64) func(int) float64 { return func(int) float64 { return v } }

func alternating(a, b float64) func(int) float64 {
	return func(i int) float64 {
		if i%2 == 0 {
			return a
		}
		return b
	}
}

type recordingObserver struct{ sections []string }

func (r *recordingObserver) ObserveSectionFailure(section string) {
	r.sections = append(r.sections, section)
}

func newTestAnalyzer(opts ...Option) *Analyzer {
	return New(zerolog.Nop(), opts...)
}

func TestAnalyze_InsufficientData(t *testing.T) {
	for _, n := range []int{0, 1, 19} {
		series := makeSeries(n, constant(1), constant(1), constant(1))
		res := newTestAnalyzer().Analyze(series)
		require.True(t, res.Failed())
		assert.Equal(t, n, res.DataPoints)
		assert.NotEmpty(t, res.Error)
		assert.Zero(t, res.AvgPrice)
		assert.Zero(t, res.Volatility)
		assert.Empty(t, res.MarketCharacter)
		assert.Nil(t, res.PriceDistribution)
	}

	res := newTestAnalyzer().Analyze(nil)
	assert.True(t, res.Failed())
	assert.Equal(t, 0, res.DataPoints)

	out, err := json.Marshal(newTestAnalyzer().Analyze(makeSeries(5, constant(1), constant(1), constant(1))))
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"`+InsufficientDataMessage(5)+`","data_points":5}`, string(out))
}

func TestAnalyze_RangingSeries(t *testing.T) {
	series := makeSeries(60, alternating(90, 110), constant(2_000_000), alternating(1, 4))
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	res := newTestAnalyzer(WithClock(func() time.Time { return now })).Analyze(series)

	require.False(t, res.Failed())
	assert.Equal(t, 60, res.DataPoints)
	assert.Equal(t, 110.0, res.CurrentPrice)
	assert.InDelta(t, 100, res.AvgPrice, 1e-9)
	assert.InDelta(t, 10, res.PriceStd, 1e-9)
	assert.InDelta(t, 20, res.PriceRange, 1e-9)

	assert.InDelta(t, 2.5, res.AvgAmplitude, 1e-9)
	assert.Equal(t, 4.0, res.MaxAmplitude)
	assert.Equal(t, 1.0, res.MinAmplitude)
	assert.InDelta(t, 1.5, res.AmplitudeStd, 1e-9)
	assert.Equal(t, model.AmplitudeLarge, res.AmplitudeLevel)

	assert.InDelta(t, 0.8, res.OscillationScore, 1e-9)
	assert.Equal(t, model.MarketRanging, res.MarketCharacter)

	assert.InDelta(t, 1.0, res.LiquidityScore, 1e-9)
	assert.InDelta(t, 2_000_000, res.AvgVolume, 1e-6)
	assert.Equal(t, model.VolatilityExtreme, res.VolatilityLevel)

	require.NotNil(t, res.PriceDistribution)
	assert.Equal(t, 90.0, res.PriceDistribution.Q25)
	assert.InDelta(t, 0, res.PriceDistribution.Skewness, 1e-9)
	assert.InDelta(t, -2, res.PriceDistribution.Kurtosis, 1e-9)
	assert.Equal(t, model.DistributionOther, res.PriceDistribution.Type)

	assert.Equal(t, "2024-01-02", res.StartDate)
	assert.Equal(t, "2024-03-01", res.EndDate)
	assert.Equal(t, "2024-03-01T10:00:00Z", res.AnalysisDate)
}

func TestAnalyze_StrongTrend(t *testing.T) {
	rising := func(i int) float64 { return 100 + 0.2*float64(i) }
	series := makeSeries(60, rising, constant(800_000), constant(2))
	res := newTestAnalyzer().Analyze(series)

	require.False(t, res.Failed())
	assert.InDelta(t, 0.2, res.TrendSlope, 1e-9)
	assert.Equal(t, model.TrendUp, res.TrendDirection)
	assert.Less(t, res.OscillationScore, 0.3)
	assert.Equal(t, model.MarketStrongTrend, res.MarketCharacter)
	assert.InDelta(t, 0.9, res.LiquidityScore, 1e-9)
	assert.Equal(t, model.VolatilityLow, res.VolatilityLevel)
}

func TestAnalyze_SectionFailuresAreIsolated(t *testing.T) {
	obs := &recordingObserver{}
	series := makeSeries(30, constant(5), constant(0), alternating(1, 3))
	res := newTestAnalyzer(WithObserver(obs)).Analyze(series)

	require.False(t, res.Failed())
	assert.ElementsMatch(t, []string{SectionLiquidity, SectionDistribution}, obs.sections)

	// Statistics that do not depend on the failed sections are still computed.
	assert.Equal(t, 5.0, res.AvgPrice)
	assert.InDelta(t, 2.0, res.AvgAmplitude, 1e-9)
	assert.Zero(t, res.Volatility)
	assert.Equal(t, model.TrendOscillating, res.TrendDirection)
	assert.InDelta(t, 0.25, res.OscillationScore, 1e-9)

	assert.Zero(t, res.LiquidityScore)
	require.NotNil(t, res.PriceDistribution)
	assert.Equal(t, model.PriceDistribution{Type: model.DistributionUnclassifiable}, *res.PriceDistribution)
}

func TestAnalyze_ZeroCloseOnlyBreaksVolatility(t *testing.T) {
	obs := &recordingObserver{}
	closes := func(i int) float64 {
		if i == 10 {
			return 0
		}
		return 10 + float64(i%3)
	}
	series := makeSeries(25, closes, constant(1_500_000), alternating(2, 3))
	res := newTestAnalyzer(WithObserver(obs)).Analyze(series)

	assert.Contains(t, obs.sections, SectionVolatility)
	assert.NotContains(t, obs.sections, SectionPrice)
	assert.Zero(t, res.Volatility)
	assert.NotZero(t, res.AvgPrice)
	assert.NotZero(t, res.LiquidityScore)
}

func TestAnalyze_ScoresStayInUnitInterval(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		n := 20 + rng.Intn(200)
		scale := 1 + rng.Float64()*100
		series := makeSeries(n,
			func(int) float64 { return scale * (0.5 + rng.Float64()) },
			func(int) float64 { return rng.Float64() * 5_000_000 },
			func(int) float64 { return 0.1 + rng.Float64()*6 },
		)
		res := newTestAnalyzer().Analyze(series)
		assert.GreaterOrEqual(t, res.OscillationScore, 0.0)
		assert.LessOrEqual(t, res.OscillationScore, 1.0)
		assert.GreaterOrEqual(t, res.LiquidityScore, 0.0)
		assert.LessOrEqual(t, res.LiquidityScore, 1.0)
	}
}
