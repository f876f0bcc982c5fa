package storage

import (
	"fmt"
	"strings"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Dialect captures what differs between the supported SQL backends.
type Dialect struct {
	Driver string
	// Placeholder renders the n-th (1-based) bind parameter.
	Placeholder func(n int) string
	// ColumnsQuery lists the column names of the table bound to its only parameter.
	ColumnsQuery string
}

var (
	SQLite = Dialect{
		Driver:       DriverSQLite,
		Placeholder:  func(int) string { return "?" },
		ColumnsQuery: `SELECT name FROM pragma_table_info(?)`,
	}
	Postgres = Dialect{
		Driver:       DriverPostgres,
		Placeholder:  func(n int) string { return fmt.Sprintf("$%d", n) },
		ColumnsQuery: `SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1`,
	}
)

// DialectFor returns the dialect for a registered database/sql driver name,
// matched case-insensitively. Dialect.Driver holds the name to pass to sql.Open.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case DriverSQLite:
		return SQLite, nil
	case DriverPostgres:
		return Postgres, nil
	default:
		return Dialect{}, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

func (d Dialect) placeholders(n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = d.Placeholder(i + 1)
	}
	return strings.Join(ph, ", ")
}
