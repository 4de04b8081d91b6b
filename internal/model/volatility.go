package model

import (
	"sort"
	"time"
)

// Vol is an optional annualized volatility. Undefined and zero are distinct:
// an undefined volatility stays undefined through every downstream computation.
type Vol struct {
	Value float64
	Valid bool
}

// SomeVol wraps a defined volatility value.
func SomeVol(v float64) Vol { return Vol{Value: v, Valid: true} }

// VolPoint pairs a volatility estimate with the price date it belongs to.
type VolPoint struct {
	Date time.Time
	Vol  Vol
}

// VolatilitySeries is aligned one-to-one with the dates of the PriceSeries it
// was derived from. Entries are undefined until enough returns accumulate.
type VolatilitySeries []VolPoint

// Last returns the most recent volatility, undefined for an empty series.
func (s VolatilitySeries) Last() Vol {
	if len(s) == 0 {
		return Vol{}
	}
	return s[len(s)-1].Vol
}

// Tail returns the most recent n points (the whole series if shorter).
func (s VolatilitySeries) Tail(n int) VolatilitySeries {
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

// AsOf returns the volatility at the latest date not after t: an exact match
// when present, otherwise the nearest prior entry. Never a future value.
func (s VolatilitySeries) AsOf(t time.Time) Vol {
	// First index with date strictly after t.
	i := sort.Search(len(s), func(i int) bool { return s[i].Date.After(t) })
	if i == 0 {
		return Vol{}
	}
	return s[i-1].Vol
}
