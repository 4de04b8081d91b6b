package collector

import "risksuite/internal/model"

// Fetcher defines the interface for fetching historical market data.
type Fetcher interface {
	// FetchDailyCloses returns up to `days` daily closes for the symbol,
	// ascending by date.
	FetchDailyCloses(symbol string, days int) (model.PriceSeries, error)
	Name() string
}
