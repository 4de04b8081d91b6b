package risk

import (
	"errors"
	"math"

	"risksuite/internal/config"
	"risksuite/internal/model"
)

// ErrInsufficientData marks an asset whose price history is too short for a
// volatility estimate (brand-new listing). The run loop skips such assets.
var ErrInsufficientData = errors.New("insufficient history for volatility estimate")

// Analyzer runs the per-asset risk analyses against a shared configuration.
// Every analysis is a pure function of the price history and the settings;
// re-running on identical inputs produces identical records.
type Analyzer struct {
	settings    config.Settings
	multipliers []model.RiskMultiplier
	primary     string
}

// NewAnalyzer creates an Analyzer from a validated configuration.
func NewAnalyzer(cfg *config.Config) *Analyzer {
	return &Analyzer{
		settings:    cfg.Settings,
		multipliers: cfg.RiskMultipliers(),
		primary:     cfg.PrimaryThreshold,
	}
}

// AnnualDays returns the annualization constant for the symbol's asset class.
func (a *Analyzer) AnnualDays(symbol string) int {
	if model.ClassifyAsset(symbol) == model.ClassCrypto {
		return a.settings.CryptoTradingDays
	}
	return a.settings.StockTradingDays
}

// AnalyzeAsset produces the current-risk and leverage-drift records for one
// asset. Returns ErrInsufficientData when the latest volatility is undefined.
func (a *Analyzer) AnalyzeAsset(symbol string, prices model.PriceSeries) (model.CurrentRiskRecord, model.DriftRecord, error) {
	last, ok := prices.Last()
	if !ok {
		return model.CurrentRiskRecord{}, model.DriftRecord{}, ErrInsufficientData
	}

	annualDays := a.AnnualDays(symbol)
	vols := Volatility(prices, annualDays, a.settings.VolatilityWindow, a.settings.MinSamples)

	rawVol := vols.Last()
	if !rawVol.Valid {
		return model.CurrentRiskRecord{}, model.DriftRecord{}, ErrInsufficientData
	}

	fc := a.settings.DynamicFloor
	floor := DynamicFloor(vols, annualDays, fc.LookbackYears, fc.Percentile, fc.Fallback)
	effective := math.Max(rawVol.Value, floor)

	cycle, _ := prices.Tail(a.settings.LookbackDays).MaxClose()
	current := model.CurrentRiskRecord{
		Ticker:      symbol,
		Price:       last.Close,
		CycleHigh:   cycle.Close,
		Drawdown:    -(cycle.Close - last.Close) / cycle.Close,
		RawVol:      rawVol.Value,
		Floor:       floor,
		FloorActive: floor > rawVol.Value,
		SafePrices:  SafePrices(model.SomeVol(effective), cycle.Close, a.multipliers, a.settings.MaxCrashCap),
	}

	ath, _ := prices.Tail(a.settings.DriftLookbackDays).MaxClose()
	athVol := vols.AsOf(ath.Date)
	historical := SafePrices(athVol, ath.Close, a.multipliers, a.settings.MaxCrashCap)
	drift := model.DriftRecord{
		Ticker:       symbol,
		ATHDate:      ath.Date,
		ATHPrice:     ath.Close,
		ATHVol:       athVol,
		CurrentPrice: last.Close,
		SafePrices:   historical,
	}
	drift.Verdict, drift.Margin = a.survivalCheck(last.Close, historical)

	return current, drift, nil
}

// survivalCheck compares the current price against the primary threshold's
// historically-implied safe price. Equality counts as liquidated.
func (a *Analyzer) survivalCheck(currentPrice float64, historical model.SafePriceSet) (model.Verdict, float64) {
	primary, ok := historical.Get(a.primary)
	switch {
	case !ok || !primary.Valid:
		return model.VerdictInsufficientHistory, 0
	case currentPrice <= primary.Price:
		return model.VerdictLiquidated, 0
	default:
		return model.VerdictSafe, (currentPrice - primary.Price) / currentPrice
	}
}
