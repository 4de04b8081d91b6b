package risk

import (
	"math"
	"testing"
	"time"

	"risksuite/internal/model"
)

func volSeries(vals ...float64) model.VolatilitySeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(model.VolatilitySeries, len(vals))
	for i, v := range vals {
		s[i] = model.VolPoint{Date: start.AddDate(0, 0, i), Vol: model.SomeVol(v)}
	}
	return s
}

func TestDynamicFloor_FallbackOnShortHistory(t *testing.T) {
	// 3 entries against a 5y*365d window: exactly the fallback, never a
	// percentile over thin history.
	got := DynamicFloor(volSeries(0.1, 0.2, 0.3), 365, 5, 0.25, 0.50)
	if got != 0.50 {
		t.Errorf("expected fallback 0.50, got %v", got)
	}
}

func TestDynamicFloor_PercentileOverTail(t *testing.T) {
	// windowSize = round(0.01*365) = 4; series of 8 entries, tail is the last 4.
	s := volSeries(9, 9, 9, 9, 0.1, 0.2, 0.3, 0.4)
	got := DynamicFloor(s, 365, 0.01, 0.25, 0.50)
	want := 0.175 // linear interpolation between 0.1 and 0.2 at rank 0.75
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestDynamicFloor_UndefinedEntriesIgnoredButCounted(t *testing.T) {
	// Raw tail length passes the window-size check even though some entries
	// are undefined; ranking then uses only the defined ones.
	s := volSeries(0.1, 0.2, 0.3, 0.4)
	s[0].Vol = model.Vol{}
	s[1].Vol = model.Vol{}
	got := DynamicFloor(s, 365, 0.01, 0.5, 0.50)
	want := 0.35 // median of {0.3, 0.4}
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestDynamicFloor_AllUndefinedTailFallsBack(t *testing.T) {
	s := volSeries(0.1, 0.2, 0.3, 0.4)
	for i := range s {
		s[i].Vol = model.Vol{}
	}
	got := DynamicFloor(s, 365, 0.01, 0.25, 0.50)
	if got != 0.50 {
		t.Errorf("expected fallback for all-undefined tail, got %v", got)
	}
}

func TestQuantile(t *testing.T) {
	tests := []struct {
		name string
		vals []float64
		p    float64
		want float64
	}{
		{"median odd", []float64{3, 1, 2}, 0.5, 2},
		{"median even", []float64{4, 1, 3, 2}, 0.5, 2.5},
		{"min", []float64{4, 1, 3, 2}, 0, 1},
		{"max", []float64{4, 1, 3, 2}, 1, 4},
		{"quarter", []float64{1, 2, 3, 4, 5}, 0.25, 2},
		{"interpolated", []float64{1, 2, 3, 4}, 0.25, 1.75},
		{"single", []float64{7}, 0.9, 7},
	}
	for _, tt := range tests {
		vals := append([]float64(nil), tt.vals...)
		if got := quantile(vals, tt.p); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}
