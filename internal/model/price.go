package model

import "time"

// PricePoint is a single daily close observation.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// PriceSeries holds daily closes in ascending date order, no duplicate dates.
// The core never mutates a series it is handed.
type PriceSeries []PricePoint

// Last returns the most recent point. ok is false for an empty series.
func (s PriceSeries) Last() (PricePoint, bool) {
	if len(s) == 0 {
		return PricePoint{}, false
	}
	return s[len(s)-1], true
}

// Tail returns the most recent n points (the whole series if shorter).
func (s PriceSeries) Tail(n int) PriceSeries {
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

// MaxClose returns the point with the highest close, first occurrence on ties.
func (s PriceSeries) MaxClose() (PricePoint, bool) {
	if len(s) == 0 {
		return PricePoint{}, false
	}
	best := s[0]
	for _, p := range s[1:] {
		if p.Close > best.Close {
			best = p
		}
	}
	return best, true
}
