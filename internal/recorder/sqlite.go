package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"risksuite/internal/model"
)

// SQLiteRecorder persists analysis records to a SQLite database, one row per
// asset per run, runs grouped by a shared timestamp.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while a run is being written.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS current_risk (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_at        INTEGER NOT NULL,
			ticker        TEXT NOT NULL,
			price         REAL,
			cycle_high    REAL,
			drawdown      REAL,
			raw_vol       REAL,
			dynamic_floor REAL,
			floor_active  INTEGER,
			safe_prices   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_current_run ON current_risk(run_at)`,

		`CREATE TABLE IF NOT EXISTS leverage_drift (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_at        INTEGER NOT NULL,
			ticker        TEXT NOT NULL,
			ath_date      TEXT,
			ath_price     REAL,
			ath_vol       REAL,
			current_price REAL,
			safe_prices   TEXT,
			verdict       TEXT,
			margin        REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_drift_run ON leverage_drift(run_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun writes all of a run's records in a single transaction.
func (r *SQLiteRecorder) RecordRun(currents []model.CurrentRiskRecord, drifts []model.DriftRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().Unix()
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, rec := range currents {
		prices, err := marshalSafePrices(rec.SafePrices)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`INSERT INTO current_risk
			(run_at, ticker, price, cycle_high, drawdown, raw_vol, dynamic_floor, floor_active, safe_prices)
			VALUES (?,?,?,?,?,?,?,?,?)`,
			now, rec.Ticker, rec.Price, rec.CycleHigh, rec.Drawdown,
			rec.RawVol, rec.Floor, rec.FloorActive, prices,
		); err != nil {
			return fmt.Errorf("insert current risk for %s: %w", rec.Ticker, err)
		}
	}

	for _, rec := range drifts {
		prices, err := marshalSafePrices(rec.SafePrices)
		if err != nil {
			return err
		}
		var athVol interface{}
		if rec.ATHVol.Valid {
			athVol = rec.ATHVol.Value
		}
		if _, err := tx.Exec(`INSERT INTO leverage_drift
			(run_at, ticker, ath_date, ath_price, ath_vol, current_price, safe_prices, verdict, margin)
			VALUES (?,?,?,?,?,?,?,?,?)`,
			now, rec.Ticker, rec.ATHDate.Format("2006-01-02"), rec.ATHPrice,
			athVol, rec.CurrentPrice, prices, string(rec.Verdict), rec.Margin,
		); err != nil {
			return fmt.Errorf("insert leverage drift for %s: %w", rec.Ticker, err)
		}
	}

	return tx.Commit()
}

// marshalSafePrices serializes a threshold set as JSON; undefined prices
// become nulls.
func marshalSafePrices(set model.SafePriceSet) (string, error) {
	out := make(map[string]*float64, len(set))
	for _, p := range set {
		if p.Valid {
			v := p.Price
			out[p.Name] = &v
		} else {
			out[p.Name] = nil
		}
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("marshal safe prices: %w", err)
	}
	return string(data), nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
