package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"risksuite/internal/collector"
	"risksuite/internal/model"
	"risksuite/internal/notifier"
	"risksuite/internal/recorder"
	"risksuite/internal/report"
	"risksuite/internal/risk"
)

// Scheduler runs the risk analysis, either once or on a cron cadence.
// Per-asset failures are logged and skipped here, at the orchestration
// boundary; only configuration and report-save failures propagate.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Analyzer  *risk.Analyzer
	Assets    []string
	Writer    *report.ExcelWriter
	Recorder  recorder.Recorder
	Notifier  *notifier.TelegramNotifier
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, an *risk.Analyzer, assets []string, w *report.ExcelWriter, rec recorder.Recorder, tn *notifier.TelegramNotifier) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Analyzer:  an,
		Assets:    assets,
		Writer:    w,
		Recorder:  rec,
		Notifier:  tn,
		Ctx:       ctx,
	}
}

// Register schedules the analysis task on the given cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.analysisTask); err != nil {
		return fmt.Errorf("register analysis task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) analysisTask() {
	if err := s.RunOnce(); err != nil {
		log.Printf("[ERROR] scheduled analysis: %v", err)
		s.trySend(fmt.Sprintf("❌ Scheduled risk analysis failed: %v", err))
	}
}

// RunNow executes the analysis immediately, logging and alerting on
// failure like a scheduled run. Used for startup runs and manual triggers.
func (s *Scheduler) RunNow() {
	s.analysisTask()
}

// HandleCommand processes a user command received via Telegram polling
// and returns the reply text.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/report":
		log.Println("[INFO] /report command received, running analysis")
		if err := s.RunOnce(); err != nil {
			return fmt.Sprintf("❌ Report failed: %v", err)
		}
		return fmt.Sprintf("✅ Report saved to %s", s.Writer.Path)
	case "/help", "/start":
		return "Available commands:\n/report - run the risk analysis now\n/help - show this message"
	default:
		return "Unknown command. Send /help for the command list."
	}
}

// RunOnce processes every configured asset in order, then writes the report,
// records the run, and sends the summary. The returned error is a report-save
// failure; computation problems never abort the run.
func (s *Scheduler) RunOnce() error {
	var currents []model.CurrentRiskRecord
	var drifts []model.DriftRecord
	var skips []notifier.Skip

	for _, symbol := range s.Assets {
		log.Printf("[INFO] processing %s...", symbol)

		series, err := s.Collector.History(symbol)
		if err != nil {
			log.Printf("[WARN] data unavailable for %s: %v", symbol, err)
			skips = append(skips, notifier.Skip{Ticker: symbol, Reason: "data unavailable"})
			continue
		}

		current, drift, err := s.Analyzer.AnalyzeAsset(symbol, series)
		if err != nil {
			if errors.Is(err, risk.ErrInsufficientData) {
				log.Printf("[WARN] insufficient data for %s, skipping", symbol)
				skips = append(skips, notifier.Skip{Ticker: symbol, Reason: "insufficient history"})
			} else {
				log.Printf("[ERROR] analyze %s: %v", symbol, err)
				skips = append(skips, notifier.Skip{Ticker: symbol, Reason: err.Error()})
			}
			continue
		}

		currents = append(currents, current)
		drifts = append(drifts, drift)
	}

	if len(currents) == 0 {
		log.Println("[WARN] no results generated")
		return nil
	}

	if err := s.Recorder.RecordRun(currents, drifts); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}

	summary := notifier.FormatRunSummary(currents, drifts)
	if extra := notifier.FormatSkipped(skips); extra != "" {
		summary += "\n" + extra
	}
	s.trySend(summary)

	if err := s.Writer.Write(currents, drifts); err != nil {
		return err
	}
	log.Printf("[INFO] report saved to %s", s.Writer.Path)
	return nil
}

func (s *Scheduler) trySend(msg string) {
	if s.Notifier == nil || !s.Notifier.Enabled() {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, msg, 2); err != nil {
		log.Printf("[ERROR] telegram notify: %v", err)
	}
}
