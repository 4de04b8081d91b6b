package model

import (
	"fmt"
	"time"
)

// RiskMultiplier maps a named threshold to its volatility multiplier.
type RiskMultiplier struct {
	Name   string
	Factor float64
}

// SafePrice is one projected threshold price. Price is undefined (Valid=false)
// when the projection had no volatility estimate to work from.
type SafePrice struct {
	Name  string
	Price float64
	Valid bool
}

// SafePriceSet holds one projected price per configured threshold, in the
// configured order.
type SafePriceSet []SafePrice

// Get returns the entry for the named threshold.
func (s SafePriceSet) Get(name string) (SafePrice, bool) {
	for _, p := range s {
		if p.Name == name {
			return p, true
		}
	}
	return SafePrice{}, false
}

// CurrentRiskRecord is one asset's current-risk analysis result.
type CurrentRiskRecord struct {
	Ticker      string
	Price       float64
	CycleHigh   float64
	Drawdown    float64 // negative, loss convention
	RawVol      float64
	Floor       float64
	FloorActive bool
	SafePrices  SafePriceSet
}

// Verdict is the survival-check outcome of the leverage-drift analysis.
type Verdict string

const (
	VerdictSafe                Verdict = "SAFE"
	VerdictLiquidated          Verdict = "LIQUIDATED"
	VerdictInsufficientHistory Verdict = "INSUFFICIENT HISTORY"
)

// DriftRecord is one asset's leverage-drift analysis result: what the safe
// prices would have been at the most recent all-time-high, and whether the
// price has since fallen through the primary one.
type DriftRecord struct {
	Ticker       string
	ATHDate      time.Time
	ATHPrice     float64
	ATHVol       Vol
	CurrentPrice float64
	SafePrices   SafePriceSet
	Verdict      Verdict
	Margin       float64 // fraction of current price above the primary safe price; only meaningful when Verdict == VerdictSafe
}

// VerdictString renders the survival verdict for reports, with the margin
// attached when the asset survived.
func (d DriftRecord) VerdictString() string {
	switch d.Verdict {
	case VerdictSafe:
		return fmt.Sprintf("SAFE (+%.1f%%)", d.Margin*100)
	case VerdictLiquidated:
		return "LIQUIDATED"
	default:
		return "Insufficient History"
	}
}
