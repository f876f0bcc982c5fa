package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/guttosm/fxtrades/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dummyErr struct{}

func (dummyErr) Error() string { return "dummy" }

type recordingLogger struct {
	warnings, infos, errors []string
}

func (r *recordingLogger) Warning(msg string) { r.warnings = append(r.warnings, msg) }
func (r *recordingLogger) Info(msg string)    { r.infos = append(r.infos, msg) }
func (r *recordingLogger) Error(msg string)   { r.errors = append(r.errors, msg) }

const (
	sqliteInsert   = `INSERT INTO "trade_table" (source_currency, destination_currency, lots, price) VALUES (?, ?, ?, ?)`
	postgresInsert = `INSERT INTO "trade_table" (source_currency, destination_currency, lots, price) VALUES ($1, $2, $3, $4)`
)

var sampleTrades = []models.TradeRecord{
	{SourceCurrency: "USD", DestinationCurrency: "EUR", Lots: 0.001, Price: 45.98},
	{SourceCurrency: "EUR", DestinationCurrency: "GBP", Lots: 0.00105, Price: 0.86},
	{SourceCurrency: "GBP", DestinationCurrency: "JPY", Lots: 0.003, Price: 187.5},
}

func newMockStorage(t *testing.T, d Dialect) (*SQLTradeStorage, sqlmock.Sqlmock, *recordingLogger) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := &recordingLogger{}
	s, err := NewSQLTradeStorage(db, d, "", log)
	require.NoError(t, err)
	return s, mock, log
}

func expectColumns(mock sqlmock.Sqlmock, d Dialect, cols ...string) {
	rows := sqlmock.NewRows([]string{"name"})
	for _, c := range cols {
		rows.AddRow(c)
	}
	mock.ExpectQuery(regexp.QuoteMeta(d.ColumnsQuery)).WithArgs(DefaultTable).WillReturnRows(rows)
}

func TestPersist_InsertsAndCommitsEachRecord(t *testing.T) {
	cases := []struct {
		name    string
		dialect Dialect
		insert  string
	}{
		{name: "sqlite", dialect: SQLite, insert: sqliteInsert},
		{name: "postgres", dialect: Postgres, insert: postgresInsert},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, mock, log := newMockStorage(t, tc.dialect)

			expectColumns(mock, tc.dialect, "id", "source_currency", "destination_currency", "lots", "price")
			for _, tr := range sampleTrades {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(tc.insert)).
					WithArgs(tr.SourceCurrency, tr.DestinationCurrency, tr.Lots, tr.Price).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			}

			require.NoError(t, s.Persist(context.Background(), sampleTrades))
			require.NoError(t, mock.ExpectationsWereMet())
			assert.Equal(t, []string{"3 trades processed"}, log.infos)
			assert.Empty(t, log.errors)
		})
	}
}

func TestPersist_EmptyBatchTouchesNothing(t *testing.T) {
	s, mock, log := newMockStorage(t, SQLite)

	require.NoError(t, s.Persist(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, []string{"0 trades processed"}, log.infos)
}

// A failing insert aborts the batch: earlier records stay committed, later
// ones are never attempted. Unlike the first version of this program, the
// "N trades processed" line is not emitted on failure; an error line reports
// how many records made it instead.
func TestPersist_FailFastOnInsertError(t *testing.T) {
	s, mock, log := newMockStorage(t, SQLite)

	expectColumns(mock, SQLite, "source_currency", "destination_currency", "lots", "price")
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(sqliteInsert)).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(sqliteInsert)).WillReturnError(dummyErr{})
	mock.ExpectRollback()

	err := s.Persist(context.Background(), sampleTrades)

	require.Error(t, err)
	assert.ErrorIs(t, err, dummyErr{})
	assert.Contains(t, err.Error(), "insert trade 2")
	require.NoError(t, mock.ExpectationsWereMet(), "third record must not be attempted")
	assert.Empty(t, log.infos)
	require.Len(t, log.errors, 1)
	assert.Contains(t, log.errors[0], "persisted 1 of 3 trades before failure")
}

func TestPersist_BeginAndCommitErrors(t *testing.T) {
	t.Run("begin", func(t *testing.T) {
		s, mock, _ := newMockStorage(t, Postgres)
		expectColumns(mock, Postgres, "source_currency", "destination_currency", "lots", "price")
		mock.ExpectBegin().WillReturnError(dummyErr{})

		err := s.Persist(context.Background(), sampleTrades[:1])
		require.Error(t, err)
		assert.Contains(t, err.Error(), "begin")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("commit", func(t *testing.T) {
		s, mock, _ := newMockStorage(t, Postgres)
		expectColumns(mock, Postgres, "source_currency", "destination_currency", "lots", "price")
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(postgresInsert)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit().WillReturnError(dummyErr{})

		err := s.Persist(context.Background(), sampleTrades)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "commit")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPersist_ReflectionFailures(t *testing.T) {
	t.Run("table missing", func(t *testing.T) {
		s, mock, log := newMockStorage(t, SQLite)
		expectColumns(mock, SQLite)

		err := s.Persist(context.Background(), sampleTrades)
		assert.ErrorIs(t, err, ErrTableNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
		assert.Len(t, log.errors, 1)
	})

	t.Run("column missing", func(t *testing.T) {
		s, mock, _ := newMockStorage(t, SQLite)
		expectColumns(mock, SQLite, "source_currency", "destination_currency", "price")

		err := s.Persist(context.Background(), sampleTrades)
		assert.ErrorIs(t, err, ErrMissingColumn)
		assert.Contains(t, err.Error(), "trade_table.lots")
	})

	t.Run("query error", func(t *testing.T) {
		s, mock, _ := newMockStorage(t, SQLite)
		mock.ExpectQuery(regexp.QuoteMeta(SQLite.ColumnsQuery)).WillReturnError(dummyErr{})

		err := s.Persist(context.Background(), sampleTrades)
		assert.ErrorIs(t, err, dummyErr{})
	})

	t.Run("column names are case-insensitive", func(t *testing.T) {
		s, mock, _ := newMockStorage(t, SQLite)
		expectColumns(mock, SQLite, "SOURCE_CURRENCY", "Destination_Currency", "LOTS", "Price")
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(sqliteInsert)).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		require.NoError(t, s.Persist(context.Background(), sampleTrades[:1]))
	})
}

func TestPersist_ContextCanceled(t *testing.T) {
	s, mock, _ := newMockStorage(t, SQLite)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Persist(ctx, sampleTrades)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	_ = mock
}

func TestNewSQLTradeStorage_TableNames(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	s, err := NewSQLTradeStorage(db, SQLite, "", &recordingLogger{})
	require.NoError(t, err)
	assert.Equal(t, DefaultTable, s.Table())

	s, err = NewSQLTradeStorage(db, Postgres, "fx_trades_2025", nil)
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "fx_trades_2025" (source_currency, destination_currency, lots, price) VALUES ($1, $2, $3, $4)`, s.insertSQL)

	for _, bad := range []string{"trade table", `t"; DROP TABLE x; --`, "1trades", "public.trade_table"} {
		_, err := NewSQLTradeStorage(db, SQLite, bad, nil)
		assert.ErrorIs(t, err, ErrInvalidTableName, bad)
	}
}

func TestDialectFor(t *testing.T) {
	d, err := DialectFor("sqlite3")
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, d.Driver)
	assert.Equal(t, "?, ?", d.placeholders(2))

	d, err = DialectFor("Postgres")
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, d.Driver)
	assert.Equal(t, "$1, $2, $3", d.placeholders(3))

	for _, name := range []string{"oracle", "sqlite", "postgresql", "pgx"} {
		_, err = DialectFor(name)
		assert.ErrorIs(t, err, ErrUnsupportedDriver, name)
	}
}
