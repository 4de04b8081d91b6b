package risk

import (
	"math"
	"sort"

	"risksuite/internal/model"
)

// DynamicFloor derives a lower bound on volatility from the trailing
// percentile of the volatility series: the worst-typical regime, so that an
// abnormally calm stretch cannot undersize the thresholds. When the series is
// shorter than round(lookbackYears*annualDays) entries the fixed fallback is
// returned instead of a misleading percentile over thin history. Undefined
// entries are ignored when ranking but the raw tail length is what is checked
// against the window size.
func DynamicFloor(vols model.VolatilitySeries, annualDays int, lookbackYears, percentile, fallback float64) float64 {
	windowSize := int(math.Round(lookbackYears * float64(annualDays)))
	if len(vols) < windowSize {
		return fallback
	}

	tail := vols.Tail(windowSize)
	vals := make([]float64, 0, len(tail))
	for _, p := range tail {
		if p.Vol.Valid {
			vals = append(vals, p.Vol.Value)
		}
	}
	if len(vals) == 0 {
		return fallback
	}
	return quantile(vals, percentile)
}

// quantile returns the p-th quantile of vals with linear interpolation
// between ranks. vals is sorted in place.
func quantile(vals []float64, p float64) float64 {
	sort.Float64s(vals)
	if len(vals) == 1 {
		return vals[0]
	}
	h := p * float64(len(vals)-1)
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo == hi {
		return vals[lo]
	}
	return vals[lo] + (h-float64(lo))*(vals[hi]-vals[lo])
}
