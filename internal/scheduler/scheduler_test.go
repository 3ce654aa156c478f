package scheduler

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"GridScout/internal/advisor"
	"GridScout/internal/collector"
	"GridScout/internal/config"
	"GridScout/internal/fund"
	"GridScout/internal/model"
	"GridScout/internal/recorder"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAssessor struct {
	scores   map[string]int
	requests []advisor.Request
}

func (f *fakeAssessor) Assess(_ context.Context, req advisor.Request) (*advisor.Report, error) {
	f.requests = append(f.requests, req)
	code := fund.CompleteCode(req.Code)
	score, ok := f.scores[code]
	if !ok {
		return nil, fmt.Errorf("history for %s: %w", code, collector.ErrDataUnavailable)
	}
	freq := req.Frequency
	if freq == "" {
		freq = model.FrequencyMedium
	}
	return &advisor.Report{
		Code:     code,
		Info:     &model.FundInfo{Code: code, Name: "ETF " + code},
		Analysis: &model.CharacteristicAnalysis{DataPoints: 60},
		Verdict: &model.SuitabilityVerdict{
			Score:          score,
			IsSuitable:     score >= 60,
			MaxScore:       100,
			Frequency:      freq,
			Recommendation: fmt.Sprintf("评分%d", score),
		},
	}, nil
}

type fakeInfo struct{}

func (fakeInfo) FundInfo(_ context.Context, code string) (*model.FundInfo, error) {
	if fund.BareCode(code) == "510300" {
		return &model.FundInfo{Code: "510300.SH", Name: "沪深300ETF", CurrentPrice: 3.9}, nil
	}
	return nil, collector.ErrDataUnavailable
}

type fakeSender struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeSender) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

type scanRecorder struct {
	recorder.NoopRecorder
	scans []*recorder.ScanEvent
}

func (r *scanRecorder) RecordScan(evt *recorder.ScanEvent) error {
	r.scans = append(r.scans, evt)
	return nil
}

func newTestScheduler(t *testing.T, scores map[string]int, watch []config.WatchFund) (*Scheduler, *fakeAssessor, *fakeSender, *scanRecorder) {
	t.Helper()
	tracker, err := fund.NewTracker(filepath.Join(t.TempDir(), "watch.json"), zerolog.Nop())
	require.NoError(t, err)
	adv := &fakeAssessor{scores: scores}
	sender := &fakeSender{}
	rec := &scanRecorder{}
	s := NewScheduler(context.Background(), adv, fakeInfo{}, tracker, sender, rec, watch, zerolog.Nop())
	s.now = func() time.Time { return time.Date(2024, 3, 8, 15, 30, 0, 0, time.UTC) }
	return s, adv, sender, rec
}

func TestRunScan(t *testing.T) {
	watch := []config.WatchFund{
		{Code: "510300", Frequency: "high", PriceRangeRatio: 0.2, GridCount: 15},
		{Code: "159915"},
		{Code: "000001"},
	}
	scores := map[string]int{"510300.SH": 80, "159915.SZ": 40}
	s, adv, sender, rec := newTestScheduler(t, scores, watch)

	rows := s.RunScan(context.Background())
	require.Len(t, rows, 3)
	assert.Equal(t, "510300.SH", rows[0].Code)
	assert.True(t, rows[0].Suitable)
	assert.False(t, rows[0].Changed)
	assert.Equal(t, "数据不可用", rows[2].Err)

	require.Len(t, adv.requests, 3)
	assert.Equal(t, model.FrequencyHigh, adv.requests[0].Frequency)
	require.NotNil(t, adv.requests[0].Params)
	assert.Equal(t, 15, adv.requests[0].Params.GridCount)
	assert.Nil(t, adv.requests[1].Params)

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "适合网格: 1/3")
	require.Len(t, rec.scans, 1)
	assert.Equal(t, &recorder.ScanEvent{Funds: 3, Suitable: 1, Failed: 1}, rec.scans[0])

	// Second scan: 159915 jumps above the threshold and triggers an alert.
	scores["159915.SZ"] = 65
	rows = s.RunScan(context.Background())
	assert.True(t, rows[1].Changed)
	require.Len(t, sender.sent, 3)
	assert.Contains(t, sender.sent[2], "不适合 40分 → 适合 65分")
	assert.Equal(t, 1, rec.scans[1].Changed)
	assert.Equal(t, 2, rec.scans[1].Suitable)
}

func TestRunScan_SkipsOverlap(t *testing.T) {
	s, _, sender, _ := newTestScheduler(t, nil, []config.WatchFund{{Code: "510300"}})
	s.scanning.Store(true)
	assert.Nil(t, s.RunScan(context.Background()))
	assert.Empty(t, sender.sent)
}

func TestHandleCommand(t *testing.T) {
	watch := []config.WatchFund{{Code: "510300", Frequency: "low"}, {Code: "159915"}}
	s, adv, sender, _ := newTestScheduler(t, map[string]int{"510300.SH": 72}, watch)
	ctx := context.Background()

	reply := s.HandleCommand(ctx, "/analyze 510300 HIGH")
	assert.Contains(t, reply, "510300.SH")
	assert.Contains(t, reply, "评分72")
	require.Len(t, adv.requests, 1)
	assert.Equal(t, model.FrequencyHigh, adv.requests[0].Frequency)

	assert.Contains(t, s.HandleCommand(ctx, "/analyze 510300 hourly"), "未知的频率")
	assert.Contains(t, s.HandleCommand(ctx, "/analyze"), "用法")
	assert.Contains(t, s.HandleCommand(ctx, "/analyze 999999"), "数据不可用")

	assert.Contains(t, s.HandleCommand(ctx, "/info@GridScoutBot 510300"), "沪深300ETF")
	assert.Contains(t, s.HandleCommand(ctx, "/info 999999"), "未找到基金")

	assert.Contains(t, s.HandleCommand(ctx, "/watch"), "未评估")
	assert.Equal(t, "", s.HandleCommand(ctx, "/scan"))
	assert.Len(t, sender.sent, 1)

	watchReply := s.HandleCommand(ctx, "/watch")
	assert.Contains(t, watchReply, "510300.SH [low] 🟢 72分")
	assert.Contains(t, watchReply, "159915.SZ [medium] 未评估")

	assert.Equal(t, helpText, s.HandleCommand(ctx, "hello"))
	assert.Equal(t, helpText, s.HandleCommand(ctx, "   "))
}

func TestRegister(t *testing.T) {
	s, _, _, _ := newTestScheduler(t, nil, nil)
	assert.Error(t, s.Register("not a cron"))
	require.NoError(t, s.Register("0 30 15 * * 1-5"))
	s.Start()
	s.Stop()
}
