package ingestion

import (
	"context"
	"fmt"

	"github.com/guttosm/fxtrades/internal/domain/models"
)

// Storage persists a parsed batch of trades.
type Storage interface {
	Persist(ctx context.Context, trades []models.TradeRecord) error
}

// StorageFunc adapts a plain function to Storage.
type StorageFunc func(ctx context.Context, trades []models.TradeRecord) error

func (f StorageFunc) Persist(ctx context.Context, trades []models.TradeRecord) error {
	return f(ctx, trades)
}

// Process runs one pass of the pipeline: the provider is asked for lines once,
// the parser sees all of them once and storage receives the whole batch once.
//
// Errors from the provider stop the run before parsing. Storage errors are
// returned as-is (wrapped) and nothing is retried.
func Process(ctx context.Context, provider Provider, parser Parser, storage Storage) error {
	lines, err := provider.GetTradeData()
	if err != nil {
		return fmt.Errorf("get trade data: %w", err)
	}

	trades := parser.Parse(lines)

	if err := storage.Persist(ctx, trades); err != nil {
		return fmt.Errorf("persist trades: %w", err)
	}
	return nil
}

// TradeProcessor holds the three collaborators of a pipeline so it can be run
// without passing them around.
type TradeProcessor struct {
	provider Provider
	parser   Parser
	storage  Storage
}

func NewTradeProcessor(provider Provider, parser Parser, storage Storage) *TradeProcessor {
	return &TradeProcessor{provider: provider, parser: parser, storage: storage}
}

// ProcessTrades runs the pipeline once. See Process.
func (p *TradeProcessor) ProcessTrades(ctx context.Context) error {
	return Process(ctx, p.provider, p.parser, p.storage)
}
