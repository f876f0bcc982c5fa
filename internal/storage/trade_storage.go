package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/guttosm/fxtrades/internal/domain/models"
	"github.com/guttosm/fxtrades/internal/logger"
	pq "github.com/lib/pq"
)

// DefaultTable is the table trades are appended to unless configured otherwise.
const DefaultTable = "trade_table"

var (
	ErrUnsupportedDriver = errors.New("unsupported database driver")
	ErrInvalidTableName  = errors.New("invalid table name")
	ErrTableNotFound     = errors.New("table not found")
	ErrMissingColumn     = errors.New("missing column")
)

// tradeColumns is the column order used for every insert.
var tradeColumns = []string{"source_currency", "destination_currency", "lots", "price"}

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLTradeStorage appends trade records to an existing table.
//
// The table is never created or altered: its columns are read back from the
// database catalog before the first insert of a batch. Every record is inserted
// and committed in its own transaction; the first failure aborts the batch.
type SQLTradeStorage struct {
	db        *sql.DB
	dialect   Dialect
	table     string
	log       logger.Logger
	insertSQL string
}

// NewSQLTradeStorage validates the table name and prepares the insert statement text.
// An empty table selects DefaultTable; a nil log falls back to the global logger.
func NewSQLTradeStorage(db *sql.DB, dialect Dialect, table string, log logger.Logger) (*SQLTradeStorage, error) {
	if table == "" {
		table = DefaultTable
	}
	if !identifierRe.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTableName, table)
	}
	if log == nil {
		log = logger.Default()
	}

	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		pq.QuoteIdentifier(table),
		strings.Join(tradeColumns, ", "),
		dialect.placeholders(len(tradeColumns)),
	)

	return &SQLTradeStorage{
		db:        db,
		dialect:   dialect,
		table:     table,
		log:       log,
		insertSQL: insertSQL,
	}, nil
}

// Table returns the name of the target table.
func (s *SQLTradeStorage) Table() string { return s.table }

// Persist inserts trades in order, one committed transaction per record.
//
// On success one info line reports the number of trades processed. On failure
// nothing after the failing record is attempted, an error line reports how many
// records were committed, and the wrapped error is returned.
func (s *SQLTradeStorage) Persist(ctx context.Context, trades []models.TradeRecord) error {
	if len(trades) == 0 {
		s.log.Info("0 trades processed")
		return nil
	}

	if err := s.reflectTable(ctx); err != nil {
		s.log.Error(fmt.Sprintf("persisted 0 of %d trades before failure: %v", len(trades), err))
		return err
	}

	for i, trade := range trades {
		if err := s.insert(ctx, trade); err != nil {
			s.log.Error(fmt.Sprintf("persisted %d of %d trades before failure: %v", i, len(trades), err))
			return fmt.Errorf("insert trade %d: %w", i+1, err)
		}
	}

	s.log.Info(fmt.Sprintf("%d trades processed", len(trades)))
	return nil
}

func (s *SQLTradeStorage) insert(ctx context.Context, trade models.TradeRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	if _, err := tx.ExecContext(ctx, s.insertSQL,
		trade.SourceCurrency,
		trade.DestinationCurrency,
		trade.Lots,
		trade.Price,
	); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// reflectTable checks that the table exists and carries every trade column.
func (s *SQLTradeStorage) reflectTable(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, s.dialect.ColumnsQuery, s.table)
	if err != nil {
		return fmt.Errorf("reflect %s: %w", s.table, err)
	}
	defer func() { _ = rows.Close() }()

	present := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("reflect %s: %w", s.table, err)
		}
		present[strings.ToLower(name)] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reflect %s: %w", s.table, err)
	}

	if len(present) == 0 {
		return fmt.Errorf("%w: %s", ErrTableNotFound, s.table)
	}
	for _, col := range tradeColumns {
		if _, ok := present[col]; !ok {
			return fmt.Errorf("%w: %s.%s", ErrMissingColumn, s.table, col)
		}
	}
	return nil
}
