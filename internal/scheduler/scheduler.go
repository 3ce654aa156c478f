package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"GridScout/internal/advisor"
	"GridScout/internal/collector"
	"GridScout/internal/config"
	"GridScout/internal/fund"
	"GridScout/internal/model"
	"GridScout/internal/notifier"
	"GridScout/internal/recorder"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const sendRetries = 3

// Assessor runs a suitability assessment.
type Assessor interface {
	Assess(ctx context.Context, req advisor.Request) (*advisor.Report, error)
}

// InfoSource looks up fund metadata.
type InfoSource interface {
	FundInfo(ctx context.Context, code string) (*model.FundInfo, error)
}

// Sender delivers chat messages.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the watchlist scan on a cron schedule and answers bot commands.
type Scheduler struct {
	cron     *cron.Cron
	advisor  Assessor
	info     InfoSource
	tracker  *fund.Tracker
	notifier Sender
	recorder recorder.Recorder
	watch    []config.WatchFund
	log      zerolog.Logger
	ctx      context.Context
	now      func() time.Time
	scanning atomic.Bool
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, adv Assessor, info InfoSource, tracker *fund.Tracker, sender Sender,
	rec recorder.Recorder, watch []config.WatchFund, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		advisor:  adv,
		info:     info,
		tracker:  tracker,
		notifier: sender,
		recorder: rec,
		watch:    watch,
		log:      log.With().Str("component", "scheduler").Logger(),
		ctx:      ctx,
		now:      time.Now,
	}
}

// Register schedules the watchlist scan.
func (s *Scheduler) Register(scanCron string) error {
	if _, err := s.cron.AddFunc(scanCron, func() { s.RunScan(s.ctx) }); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("funds", len(s.watch)).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running scan to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunScan assesses every watchlist fund, sends a summary plus one alert per
// fund whose verdict changed, and records the scan. Overlapping scans are skipped.
func (s *Scheduler) RunScan(ctx context.Context) []notifier.ScanRow {
	if !s.scanning.CompareAndSwap(false, true) {
		s.log.Warn().Msg("scan already running, skipped")
		return nil
	}
	defer s.scanning.Store(false)

	started := s.now()
	s.log.Info().Int("funds", len(s.watch)).Msg("running watchlist scan")

	rows := make([]notifier.ScanRow, 0, len(s.watch))
	var alerts []string
	evt := &recorder.ScanEvent{Funds: len(s.watch)}

	for _, wf := range s.watch {
		code := fund.CompleteCode(wf.Code)
		report, err := s.advisor.Assess(ctx, advisor.Request{
			Code:      code,
			Frequency: model.Frequency(wf.Frequency),
			Params:    wf.GridParams(),
		})
		if err != nil {
			s.log.Error().Err(err).Str("code", code).Msg("scan assessment failed")
			rows = append(rows, notifier.ScanRow{Code: code, Err: describeError(err)})
			evt.Failed++
			continue
		}

		prev := s.tracker.Snapshot().Entries[report.Code]
		changed := s.tracker.Record(report.Code, report.Verdict, started)
		row := notifier.ScanRow{
			Code:     report.Code,
			Score:    report.Verdict.Score,
			Suitable: report.Verdict.IsSuitable,
			Changed:  changed,
		}
		if report.Info != nil {
			row.Name = report.Info.Name
		}
		rows = append(rows, row)

		if report.Verdict.IsSuitable {
			evt.Suitable++
		}
		if changed {
			evt.Changed++
			alerts = append(alerts, notifier.FormatChangeAlert(report, prev))
		}
	}

	s.trySend(ctx, notifier.FormatScanSummary(rows, started))
	for _, a := range alerts {
		s.trySend(ctx, a)
	}

	evt.Duration = s.now().Sub(started)
	if err := s.recorder.RecordScan(evt); err != nil {
		s.log.Error().Err(err).Msg("record scan failed")
	}
	s.log.Info().Int("suitable", evt.Suitable).Int("failed", evt.Failed).Int("changed", evt.Changed).Msg("scan complete")
	return rows
}

const helpText = "可用命令:\n" +
	"• /analyze 代码 [high|medium|low] 评估网格适合度\n" +
	"• /info 代码 查看基金信息\n" +
	"• /scan 立即扫描自选列表\n" +
	"• /watch 查看自选列表"

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return helpText
	}
	cmd := strings.ToLower(fields[0])
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	args := fields[1:]

	switch cmd {
	case "/analyze", "评估":
		if len(args) == 0 {
			return "用法: /analyze 代码 [high|medium|low]"
		}
		req := advisor.Request{Code: args[0]}
		if len(args) > 1 {
			f, err := model.ParseFrequency(args[1])
			if err != nil {
				return fmt.Sprintf("未知的频率: %s（可选 high|medium|low）", args[1])
			}
			req.Frequency = f
		}
		report, err := s.advisor.Assess(ctx, req)
		if err != nil {
			return fmt.Sprintf("❌ %s 评估失败: %s", args[0], describeError(err))
		}
		return notifier.FormatVerdictReport(report)

	case "/info", "信息":
		if len(args) == 0 {
			return "用法: /info 代码"
		}
		info, err := s.info.FundInfo(ctx, args[0])
		if err != nil {
			return fmt.Sprintf("❌ 未找到基金 %s", args[0])
		}
		return notifier.FormatFundInfo(info)

	case "/scan", "扫描":
		s.RunScan(ctx)
		return ""

	case "/watch", "自选":
		return s.formatWatchlist()

	default:
		return helpText
	}
}

func (s *Scheduler) formatWatchlist() string {
	if len(s.watch) == 0 {
		return "自选列表为空"
	}
	state := s.tracker.Snapshot()
	var b strings.Builder
	b.WriteString("⭐ <b>自选列表</b>\n\n")
	for _, wf := range s.watch {
		code := fund.CompleteCode(wf.Code)
		freq, _ := model.ParseFrequency(wf.Frequency)
		b.WriteString(fmt.Sprintf("%s [%s]", code, freq))
		if e, ok := state.Entries[code]; ok {
			mark := "🔴"
			if e.IsSuitable {
				mark = "🟢"
			}
			b.WriteString(fmt.Sprintf(" %s %d分 (%s)", mark, e.Score, e.EvaluatedAt.Format("01-02 15:04")))
		} else {
			b.WriteString(" 未评估")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func describeError(err error) string {
	switch {
	case errors.Is(err, collector.ErrDataUnavailable):
		return "数据不可用"
	case errors.Is(err, model.ErrUnknownFrequency):
		return "频率配置无效"
	default:
		return err.Error()
	}
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if err := s.notifier.SendWithRetry(ctx, text, sendRetries); err != nil {
		s.log.Error().Err(err).Msg("send notification failed")
	}
}
