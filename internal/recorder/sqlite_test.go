package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"risksuite/internal/model"
)

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "risk.db")
	r, err := NewSQLiteRecorder(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	currents := []model.CurrentRiskRecord{{
		Ticker:      "BTC-USD",
		Price:       80,
		CycleHigh:   100,
		Drawdown:    -0.20,
		RawVol:      0.35,
		Floor:       0.50,
		FloorActive: true,
		SafePrices: model.SafePriceSet{
			{Name: "Half Kelly", Price: 25, Valid: true},
		},
	}}
	drifts := []model.DriftRecord{{
		Ticker:       "BTC-USD",
		ATHDate:      time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		ATHPrice:     100,
		ATHVol:       model.Vol{},
		CurrentPrice: 80,
		SafePrices:   model.SafePriceSet{{Name: "Half Kelly"}},
		Verdict:      model.VerdictInsufficientHistory,
	}}

	if err := r.RecordRun(currents, drifts); err != nil {
		t.Fatalf("record run: %v", err)
	}

	var ticker, prices string
	var floorActive bool
	row := r.db.QueryRow(`SELECT ticker, floor_active, safe_prices FROM current_risk`)
	if err := row.Scan(&ticker, &floorActive, &prices); err != nil {
		t.Fatalf("scan current risk: %v", err)
	}
	if ticker != "BTC-USD" || !floorActive {
		t.Errorf("unexpected current risk row: %s active=%v", ticker, floorActive)
	}
	if prices != `{"Half Kelly":25}` {
		t.Errorf("unexpected safe prices JSON: %s", prices)
	}

	var athVol *float64
	var verdict string
	row = r.db.QueryRow(`SELECT ath_vol, verdict FROM leverage_drift`)
	if err := row.Scan(&athVol, &verdict); err != nil {
		t.Fatalf("scan drift: %v", err)
	}
	if athVol != nil {
		t.Errorf("expected NULL ath_vol for undefined volatility, got %v", *athVol)
	}
	if verdict != string(model.VerdictInsufficientHistory) {
		t.Errorf("unexpected verdict: %s", verdict)
	}
}
