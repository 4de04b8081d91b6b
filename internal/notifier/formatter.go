package notifier

import (
	"fmt"
	"strings"
	"time"

	"risksuite/internal/model"
)

// FormatRunSummary formats one run's records into a Telegram message:
// a current-risk line per asset plus the survival verdicts, with liquidated
// assets called out first.
func FormatRunSummary(currents []model.CurrentRiskRecord, drifts []model.DriftRecord) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Risk Suite</b> | %s\n\n", time.Now().Format("2006-01-02")))

	var liquidated []string
	for _, d := range drifts {
		if d.Verdict == model.VerdictLiquidated {
			liquidated = append(liquidated, d.Ticker)
		}
	}
	if len(liquidated) > 0 {
		b.WriteString(fmt.Sprintf("❌ <b>Leverage drift breach:</b> %s\n\n", strings.Join(liquidated, ", ")))
	}

	b.WriteString("<b>Current risk:</b>\n")
	for _, c := range currents {
		floorMark := ""
		if c.FloorActive {
			floorMark = " (floored)"
		}
		b.WriteString(fmt.Sprintf("  %s: %.2f | drawdown %+.1f%% | vol %.0f%%%s\n",
			c.Ticker, c.Price, c.Drawdown*100, c.RawVol*100, floorMark))
	}

	b.WriteString("\n<b>Survival check:</b>\n")
	for _, d := range drifts {
		b.WriteString(fmt.Sprintf("  %s: %s (ATH %.2f on %s)\n",
			d.Ticker, d.VerdictString(), d.ATHPrice, d.ATHDate.Format("2006-01-02")))
	}

	return b.String()
}

// Skip names an asset left out of a run and the reason.
type Skip struct {
	Ticker string
	Reason string
}

// FormatSkipped lists assets skipped during a run, in processing order.
func FormatSkipped(skips []Skip) string {
	if len(skips) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("⚠️ <b>Skipped assets:</b>\n")
	for _, s := range skips {
		b.WriteString(fmt.Sprintf("  %s: %s\n", s.Ticker, s.Reason))
	}
	return b.String()
}
