package service

import (
	"context"

	"github.com/guttosm/fxtrades/internal/domain/models"
	"github.com/guttosm/fxtrades/internal/ingestion"
	"github.com/guttosm/fxtrades/internal/metrics"
)

// TradeService runs the ingestion pipeline for lines received over the API.
// This keeps HTTP handlers unaware of how the pipeline is assembled.
type TradeService interface {
	Ingest(ctx context.Context, lines []string) (models.IngestSummary, error)
}

type tradeService struct {
	parser  ingestion.Parser
	storage ingestion.Storage
	metrics *metrics.Ingest
}

// NewTradeService wires a parser and a storage into a service. m may be nil.
func NewTradeService(parser ingestion.Parser, storage ingestion.Storage, m *metrics.Ingest) TradeService {
	return &tradeService{parser: parser, storage: storage, metrics: m}
}

// Ingest runs one pipeline over lines. The summary is filled as far as the run
// got: on a storage error Persisted holds the size of the batch that was handed
// over, not the number of rows committed.
func (s *tradeService) Ingest(ctx context.Context, lines []string) (models.IngestSummary, error) {
	summary := models.IngestSummary{Lines: len(lines)}

	counting := ingestion.StorageFunc(func(ctx context.Context, trades []models.TradeRecord) error {
		summary.Persisted = len(trades)
		summary.Skipped = len(lines) - len(trades)
		return s.storage.Persist(ctx, trades)
	})

	err := ingestion.Process(ctx, ingestion.NewStreamProvider(lines), s.parser, counting)
	if s.metrics != nil {
		s.metrics.Observe(summary, err)
	}
	return summary, err
}
