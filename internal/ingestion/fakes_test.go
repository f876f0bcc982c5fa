package ingestion

import (
	"context"

	"github.com/guttosm/fxtrades/internal/domain/models"
)

// recordingLogger keeps every message in call order.
type recordingLogger struct {
	warnings []string
	infos    []string
	errors   []string
}

func (r *recordingLogger) Warning(msg string) { r.warnings = append(r.warnings, msg) }
func (r *recordingLogger) Info(msg string)    { r.infos = append(r.infos, msg) }
func (r *recordingLogger) Error(msg string)   { r.errors = append(r.errors, msg) }

// fakeStorage records every batch it receives.
type fakeStorage struct {
	batches [][]models.TradeRecord
	err     error
}

func (f *fakeStorage) Persist(_ context.Context, trades []models.TradeRecord) error {
	f.batches = append(f.batches, append([]models.TradeRecord(nil), trades...))
	return f.err
}

func newTestParser(log *recordingLogger) *LineParser {
	return NewLineParser(NewFieldValidator(log), NewLotMapper(DefaultLotSize))
}
