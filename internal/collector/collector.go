package collector

import (
	"fmt"
	"math"
	"time"

	"risksuite/internal/config"
	"risksuite/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Series model.PriceSeries
	Err    error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyCloses(_ string, days int) (model.PriceSeries, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Series != nil {
		return m.Series.Tail(days), nil
	}
	return GenerateMockSeries(100, days), nil
}

// GenerateMockSeries builds a gently oscillating close series ending today.
func GenerateMockSeries(basePrice float64, count int) model.PriceSeries {
	series := make(model.PriceSeries, count)
	for i := 0; i < count; i++ {
		series[i] = model.PricePoint{
			Date:  time.Now().AddDate(0, 0, -(count - i)),
			Close: basePrice * (1 + 0.02*math.Sin(float64(i)/7)),
		}
	}
	return series
}

// Collector fetches per-asset price history deep enough for every analysis
// window: the drift lookback, the dynamic-floor lookback, plus a one-year
// buffer so the floor window is fully populated behind the latest estimate.
type Collector struct {
	Fetcher     Fetcher
	HistoryDays int
}

// NewCollector creates a Collector sized from the engine settings.
func NewCollector(fetcher Fetcher, settings config.Settings) *Collector {
	floorDays := int(settings.DynamicFloor.LookbackYears * 365)
	days := settings.DriftLookbackDays
	if floorDays > days {
		days = floorDays
	}
	days += 365
	return &Collector{Fetcher: fetcher, HistoryDays: days}
}

// History fetches the close history for one asset. An empty result is an
// error: the caller treats it as data-unavailable and skips the asset.
func (c *Collector) History(symbol string) (model.PriceSeries, error) {
	series, err := c.Fetcher.FetchDailyCloses(symbol, c.HistoryDays)
	if err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", symbol, err)
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("no history returned for %s", symbol)
	}
	return series, nil
}
