package app

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/guttosm/fxtrades/config"
	"github.com/guttosm/fxtrades/internal/storage"

	_ "github.com/lib/pq"           // PostgreSQL driver for database/sql
	_ "github.com/mattn/go-sqlite3" // SQLite driver for database/sql
)

// sqlOpener is an indirection for unit testing; defaults to sql.Open
var sqlOpener = sql.Open

// InitDatabase opens the configured store and pings it.
//
// Behavior:
//   - Uses cfg.Database.Driver ("sqlite3" or "postgres") and cfg.Database.URL as-is,
//     except that SQLAlchemy-style "sqlite:///path" URLs are accepted for sqlite3.
//   - Verifies connectivity with Ping before returning.
//
// Returns:
//   - *sql.DB: an open database handle.
//   - error: if the driver is unsupported or opening/pinging fails.
func InitDatabase(cfg config.Config) (*sql.DB, error) {
	dialect, err := storage.DialectFor(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}
	driver := dialect.Driver

	dsn := cfg.Database.URL
	if driver == storage.DriverSQLite {
		dsn = sqliteDSN(dsn)
	}

	db, err := sqlOpener(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", driver, err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", driver, err)
	}

	// sqlite serializes writers; one connection avoids "database is locked".
	if driver == storage.DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	return db, nil
}

// sqliteDSN turns "sqlite:///trades.db" into "trades.db"; other strings pass through.
func sqliteDSN(url string) string {
	const prefix = "sqlite:///"
	if strings.HasPrefix(url, prefix) {
		return strings.TrimPrefix(url, prefix)
	}
	return url
}

// databaseOpener is an indirection used by InitializeApp; overridden in tests to avoid real connections.
var databaseOpener = InitDatabase
