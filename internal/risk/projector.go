package risk

import "risksuite/internal/model"

// SafePrices projects one threshold price per configured multiplier from an
// effective volatility and a reference (cycle high) price. The crash fraction
// vol*multiplier is capped at maxCap so an extreme volatility spike cannot
// imply a drawdown past 100% and a non-positive price. An undefined
// volatility yields undefined prices for every threshold, never zero.
func SafePrices(vol model.Vol, referencePrice float64, multipliers []model.RiskMultiplier, maxCap float64) model.SafePriceSet {
	out := make(model.SafePriceSet, len(multipliers))
	for i, m := range multipliers {
		out[i].Name = m.Name
		if !vol.Valid {
			continue
		}
		crash := vol.Value * m.Factor
		if crash > maxCap {
			crash = maxCap
		}
		out[i].Price = referencePrice * (1 - crash)
		out[i].Valid = true
	}
	return out
}
