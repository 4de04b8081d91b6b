package risk

import (
	"math"

	"risksuite/internal/model"
)

// Volatility computes the annualized rolling realized volatility of a daily
// close series. Each output entry covers the trailing `window` day-over-day
// log returns and is undefined until at least `minSamples` of them are
// available, so a newly listed asset gets an early estimate instead of an
// all-undefined series. Non-positive closes make the affected returns
// undefined rather than erroring.
func Volatility(prices model.PriceSeries, annualDays, window, minSamples int) model.VolatilitySeries {
	out := make(model.VolatilitySeries, len(prices))
	returns := make([]float64, len(prices)) // returns[i] is ln(close[i]/close[i-1])
	defined := make([]bool, len(prices))

	for i, p := range prices {
		out[i].Date = p.Date
		if i == 0 {
			continue
		}
		prev := prices[i-1].Close
		if prev > 0 && p.Close > 0 {
			returns[i] = math.Log(p.Close / prev)
			defined[i] = true
		}
	}

	if minSamples < 2 {
		// A sample standard deviation needs two observations.
		minSamples = 2
	}

	ann := math.Sqrt(float64(annualDays))
	for t := range prices {
		start := t - window + 1
		if start < 1 {
			start = 1
		}
		var n int
		var sum, sumSq float64
		for i := start; i <= t; i++ {
			if !defined[i] {
				continue
			}
			n++
			sum += returns[i]
			sumSq += returns[i] * returns[i]
		}
		if n < minSamples {
			continue
		}
		variance := (sumSq - sum*sum/float64(n)) / float64(n-1)
		if variance < 0 {
			variance = 0
		}
		out[t].Vol = model.SomeVol(math.Sqrt(variance) * ann)
	}
	return out
}
