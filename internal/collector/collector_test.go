package collector

import (
	"errors"
	"testing"

	"risksuite/internal/config"
)

func testSettings() config.Settings {
	s := config.Settings{
		LookbackDays:      365,
		DriftLookbackDays: 1825,
	}
	s.DynamicFloor.LookbackYears = 5
	return s
}

func TestNewCollector_HistoryDepth(t *testing.T) {
	// max(drift, floor years * 365) + one-year buffer
	c := NewCollector(&MockFetcher{}, testSettings())
	if c.HistoryDays != 1825+365 {
		t.Errorf("expected 2190 days, got %d", c.HistoryDays)
	}

	s := testSettings()
	s.DynamicFloor.LookbackYears = 7
	c = NewCollector(&MockFetcher{}, s)
	if c.HistoryDays != 7*365+365 {
		t.Errorf("expected floor window to dominate, got %d", c.HistoryDays)
	}
}

func TestHistory_FetchError(t *testing.T) {
	c := NewCollector(&MockFetcher{Err: errors.New("connection refused")}, testSettings())
	if _, err := c.History("BTC-USD"); err == nil {
		t.Error("expected wrapped fetch error")
	}
}

func TestHistory_EmptySeriesIsError(t *testing.T) {
	c := NewCollector(&MockFetcher{Series: GenerateMockSeries(100, 0)}, testSettings())
	_, err := c.History("UNKNOWN")
	if err == nil {
		t.Error("expected error for empty history")
	}
}

func TestHistory_TrimsToDepth(t *testing.T) {
	c := NewCollector(&MockFetcher{Series: GenerateMockSeries(100, 5000)}, testSettings())
	series, err := c.History("BTC-USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != c.HistoryDays {
		t.Errorf("expected %d points, got %d", c.HistoryDays, len(series))
	}
}

func TestRangeForDays(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{20, "1mo"},
		{365, "1y"},
		{1825, "5y"},
		{2190, "10y"},
		{4000, "max"},
	}
	for _, tt := range tests {
		if got := rangeForDays(tt.days); got != tt.want {
			t.Errorf("%d days: expected %q, got %q", tt.days, tt.want, got)
		}
	}
}
