package recorder

import "risksuite/internal/model"

// Recorder persists each run's analysis records for later comparison.
type Recorder interface {
	RecordRun(currents []model.CurrentRiskRecord, drifts []model.DriftRecord) error
	Close() error
}
