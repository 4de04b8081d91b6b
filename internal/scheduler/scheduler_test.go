package scheduler

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"risksuite/internal/collector"
	"risksuite/internal/config"
	"risksuite/internal/recorder"
	"risksuite/internal/report"
	"risksuite/internal/risk"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Assets: []string{"BTC-USD", "TSLA"},
		Multipliers: []config.Multiplier{
			{Name: "Full Kelly", Factor: 3.0},
			{Name: "Half Kelly", Factor: 1.5},
		},
		PrimaryThreshold: "Half Kelly",
	}
	cfg.Settings.LookbackDays = 365
	cfg.Settings.DriftLookbackDays = 1825
	cfg.Settings.VolatilityWindow = 30
	cfg.Settings.MinSamples = 5
	cfg.Settings.CryptoTradingDays = 365
	cfg.Settings.StockTradingDays = 252
	cfg.Settings.MaxCrashCap = 0.85
	cfg.Settings.DynamicFloor.LookbackYears = 5
	cfg.Settings.DynamicFloor.Percentile = 0.25
	cfg.Settings.DynamicFloor.Fallback = 0.50
	return cfg
}

func newTestScheduler(t *testing.T, fetcher collector.Fetcher) (*Scheduler, string) {
	t.Helper()
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "report.xlsx")
	return NewScheduler(
		context.Background(),
		collector.NewCollector(fetcher, cfg.Settings),
		risk.NewAnalyzer(cfg),
		cfg.Assets,
		report.NewExcelWriter(path),
		recorder.NewNoopRecorder(),
		nil,
	), path
}

func TestRunOnce_WritesReport(t *testing.T) {
	sched, path := newTestScheduler(t, &collector.MockFetcher{})
	if err := sched.RunOnce(); err != nil {
		t.Fatalf("run: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected report file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("report file is empty")
	}
}

func TestRunOnce_AllAssetsUnavailable(t *testing.T) {
	sched, path := newTestScheduler(t, &collector.MockFetcher{Err: errors.New("gateway down")})
	if err := sched.RunOnce(); err != nil {
		t.Fatalf("per-asset failures must not abort the run: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no report should be written when every asset is skipped")
	}
}

func TestRunOnce_InsufficientHistorySkipped(t *testing.T) {
	// Three closes cannot produce a volatility estimate for any asset.
	sched, path := newTestScheduler(t, &collector.MockFetcher{Series: collector.GenerateMockSeries(100, 3)})
	if err := sched.RunOnce(); err != nil {
		t.Fatalf("insufficient data must not abort the run: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no report should be written without results")
	}
}

func TestHandleCommand_ReportRunsAnalysis(t *testing.T) {
	sched, path := newTestScheduler(t, &collector.MockFetcher{})
	reply := sched.HandleCommand("/report")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected report after /report: %v", err)
	}
	if !strings.Contains(reply, path) {
		t.Errorf("reply should name the report path, got %q", reply)
	}
}

func TestHandleCommand_ReportFailure(t *testing.T) {
	sched, _ := newTestScheduler(t, &collector.MockFetcher{})
	// A directory at the output path makes the save fail.
	sched.Writer = report.NewExcelWriter(t.TempDir())
	reply := sched.HandleCommand("/report")
	if !strings.Contains(reply, "❌") {
		t.Errorf("expected failure reply, got %q", reply)
	}
}

func TestHandleCommand_HelpAndUnknown(t *testing.T) {
	sched, _ := newTestScheduler(t, &collector.MockFetcher{})
	if reply := sched.HandleCommand("/help"); !strings.Contains(reply, "/report") {
		t.Errorf("help should list /report, got %q", reply)
	}
	if reply := sched.HandleCommand("/bogus"); !strings.Contains(reply, "/help") {
		t.Errorf("unknown command should point at /help, got %q", reply)
	}
}

func TestRunNow_LogsSaveFailure(t *testing.T) {
	sched, _ := newTestScheduler(t, &collector.MockFetcher{})
	sched.Writer = report.NewExcelWriter(t.TempDir())

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	sched.RunNow()
	if !strings.Contains(buf.String(), "[ERROR]") {
		t.Error("expected the save failure to be logged")
	}
}

func TestRegister_BadCronSpec(t *testing.T) {
	sched, _ := newTestScheduler(t, &collector.MockFetcher{})
	if err := sched.Register("not a cron spec"); err == nil {
		t.Error("expected error for invalid cron spec")
	}
}
