package app

import (
	"database/sql"
	"fmt"

	"github.com/guttosm/fxtrades/config"
	"github.com/guttosm/fxtrades/internal/ingestion"
	"github.com/guttosm/fxtrades/internal/logger"
	"github.com/guttosm/fxtrades/internal/storage"
)

// Pipeline groups the configured parser and storage. The provider differs per
// run (file, stdin, request body) and is supplied by the caller.
type Pipeline struct {
	Parser  *ingestion.LineParser
	Storage *storage.SQLTradeStorage
}

// NewPipeline builds the validator → mapper → parser chain and the SQL storage
// for cfg, all reporting through log.
func NewPipeline(cfg config.Config, db *sql.DB, log logger.Logger) (*Pipeline, error) {
	dialect, err := storage.DialectFor(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLTradeStorage(db, dialect, cfg.Trades.Table, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	parser := ingestion.NewLineParser(
		ingestion.NewFieldValidator(log),
		ingestion.NewLotMapper(cfg.Trades.LotSize),
	)

	return &Pipeline{Parser: parser, Storage: store}, nil
}

// Processor binds the pipeline to provider for a single run.
func (p *Pipeline) Processor(provider ingestion.Provider) *ingestion.TradeProcessor {
	return ingestion.NewTradeProcessor(provider, p.Parser, p.Storage)
}
