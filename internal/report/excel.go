package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"risksuite/internal/model"
)

const (
	currentSheet = "Current Risk"
	driftSheet   = "Leverage Drift"
)

// ExcelWriter saves the two analysis tables to a spreadsheet, one sheet each,
// tickers as columns and metrics as rows.
type ExcelWriter struct {
	Path string
}

// NewExcelWriter creates a writer targeting the given file path.
func NewExcelWriter(path string) *ExcelWriter {
	return &ExcelWriter{Path: path}
}

// Write renders both sheets and saves the workbook. A save failure usually
// means the destination is open in another program; the computed records are
// untouched and the write can be retried.
func (w *ExcelWriter) Write(currents []model.CurrentRiskRecord, drifts []model.DriftRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeCurrentSheet(f, currents); err != nil {
		return fmt.Errorf("build current risk sheet: %w", err)
	}
	if err := writeDriftSheet(f, drifts); err != nil {
		return fmt.Errorf("build leverage drift sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	if err := f.SaveAs(w.Path); err != nil {
		return fmt.Errorf("save report to %s (close the file if it is open elsewhere): %w", w.Path, err)
	}
	return nil
}

// sheetWriter writes cells by (col, row) and remembers the first error.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (sw *sheetWriter) set(col, row int, v interface{}) {
	if sw.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		sw.err = err
		return
	}
	sw.err = sw.f.SetCellValue(sw.sheet, cell, v)
}

func writeCurrentSheet(f *excelize.File, records []model.CurrentRiskRecord) error {
	if _, err := f.NewSheet(currentSheet); err != nil {
		return err
	}
	sw := &sheetWriter{f: f, sheet: currentSheet}

	labels := []string{"Price", "Cycle High (1y)", "Drawdown", "Raw Vol", "Dynamic Floor", "Floor Active?"}
	if len(records) > 0 {
		for _, p := range records[0].SafePrices {
			labels = append(labels, p.Name+" Price")
		}
	}
	sw.set(1, 1, "Ticker")
	for i, label := range labels {
		sw.set(1, i+2, label)
	}

	for i, rec := range records {
		col := i + 2
		sw.set(col, 1, rec.Ticker)
		sw.set(col, 2, rec.Price)
		sw.set(col, 3, rec.CycleHigh)
		sw.set(col, 4, rec.Drawdown)
		sw.set(col, 5, rec.RawVol)
		sw.set(col, 6, rec.Floor)
		if rec.FloorActive {
			sw.set(col, 7, "YES")
		} else {
			sw.set(col, 7, "No")
		}
		for j, p := range rec.SafePrices {
			if p.Valid {
				sw.set(col, 8+j, p.Price)
			}
		}
	}
	return sw.err
}

func writeDriftSheet(f *excelize.File, records []model.DriftRecord) error {
	if _, err := f.NewSheet(driftSheet); err != nil {
		return err
	}
	sw := &sheetWriter{f: f, sheet: driftSheet}

	labels := []string{"ATH Date", "ATH Price", "ATH Vol", "Current Price"}
	if len(records) > 0 {
		for _, p := range records[0].SafePrices {
			labels = append(labels, "ATH "+p.Name+" Price")
		}
	}
	labels = append(labels, "SURVIVAL CHECK")
	sw.set(1, 1, "Ticker")
	for i, label := range labels {
		sw.set(1, i+2, label)
	}

	for i, rec := range records {
		col := i + 2
		sw.set(col, 1, rec.Ticker)
		sw.set(col, 2, rec.ATHDate.Format("2006-01-02"))
		sw.set(col, 3, rec.ATHPrice)
		if rec.ATHVol.Valid {
			sw.set(col, 4, rec.ATHVol.Value)
		}
		sw.set(col, 5, rec.CurrentPrice)
		for j, p := range rec.SafePrices {
			if p.Valid {
				sw.set(col, 6+j, p.Price)
			}
		}
		sw.set(col, 6+len(rec.SafePrices), rec.VerdictString())
	}
	return sw.err
}
