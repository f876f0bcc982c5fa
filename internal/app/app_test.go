package app

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/guttosm/fxtrades/config"
	"github.com/guttosm/fxtrades/internal/domain/dto"
	"github.com/guttosm/fxtrades/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postgresAppConfig() config.Config {
	return config.Config{
		Server:   config.ServerConfig{Port: "8080"},
		Database: config.DatabaseConfig{Driver: "postgres", URL: "postgres://u:p@h:5432/d"},
		Trades:   config.TradesConfig{Table: "trade_table", LotSize: 100000},
	}
}

// withApp overrides the global config, the database opener and the metrics registry.
func withApp(t *testing.T, cfg config.Config, open func(config.Config) (*sql.DB, error)) {
	t.Helper()
	oldCfg, oldOpener, oldReg := config.AppConfig, databaseOpener, metricsRegistry
	config.AppConfig = cfg
	databaseOpener = open
	metricsRegistry = prometheus.NewRegistry
	t.Cleanup(func() {
		config.AppConfig, databaseOpener, metricsRegistry = oldCfg, oldOpener, oldReg
	})
}

// TestInitializeApp_DBFailure ensures InitializeApp returns error when DB cannot connect.
func TestInitializeApp_DBFailure(t *testing.T) {
	withApp(t, postgresAppConfig(), func(config.Config) (*sql.DB, error) {
		return nil, errors.New("connection refused")
	})

	r, cleanup, err := InitializeApp()
	if err == nil || r != nil || cleanup != nil {
		t.Fatalf("expected error from InitializeApp with unreachable DB")
	}
}

func TestInitializeApp_BadTableName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	cfg := postgresAppConfig()
	cfg.Trades.Table = "trades; DROP TABLE x"
	withApp(t, cfg, func(config.Config) (*sql.DB, error) { return db, nil })

	_, _, err = InitializeApp()
	assert.ErrorIs(t, err, storage.ErrInvalidTableName)
	assert.NoError(t, mock.ExpectationsWereMet(), "db must be closed on failure")
}

func TestInitializeApp_HappyPath(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	withApp(t, postgresAppConfig(), func(config.Config) (*sql.DB, error) { return db, nil })

	router, cleanup, err := InitializeApp()
	require.NoError(t, err)
	require.NotNil(t, router)
	require.NotNil(t, cleanup)

	// Liveness never touches the database.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	mock.ExpectPing()
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	mock.ExpectQuery(regexp.QuoteMeta(storage.Postgres.ColumnsQuery)).
		WithArgs("trade_table").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).
			AddRow("source_currency").AddRow("destination_currency").AddRow("lots").AddRow("price"))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "trade_table"`)).
		WithArgs("USA", "EUR", 0.001, 45.98).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/trades", strings.NewReader("USAEUR,100,45.98\nBAD\n"))
	req.Header.Set("Content-Type", "text/plain")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out dto.IngestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, dto.IngestResponse{Lines: 2, Persisted: 1, Skipped: 1}, out)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fxtrades_lines_received_total 2")
	assert.Contains(t, w.Body.String(), "fxtrades_lines_skipped_total 1")
	assert.Contains(t, w.Body.String(), "fxtrades_trades_persisted_total 1")

	mock.ExpectClose()
	cleanup()

	assert.NoError(t, mock.ExpectationsWereMet())
}
