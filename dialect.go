package dbregistry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect describes how one driver prefix maps onto a registered
// database/sql driver.
type Dialect struct {
	// DriverName is the name the driver registered with database/sql.
	DriverName string

	// BindVar is the sqlx bindvar style (sqlx.QUESTION, sqlx.DOLLAR, ...)
	// used when rebinding named statements for this dialect.
	BindVar int

	// DSN builds the driver DSN from the dialect prefix and the
	// (possibly escaped) connection body. When nil the bare body is used.
	DSN func(prefix, body string) string

	// Setup runs once against a freshly opened engine, for per-dialect
	// session defaults. May be nil.
	Setup func(db *sqlx.DB) error
}

var (
	dialectMu sync.RWMutex
	dialects  = map[string]Dialect{
		"sqlite": {
			DriverName: "sqlite", // modernc.org/sqlite, CGO-free
			BindVar:    sqlx.QUESTION,
			Setup: func(db *sqlx.DB) error {
				// WAL mode for better concurrency.
				if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
					return fmt.Errorf("enable WAL: %w", err)
				}
				return nil
			},
		},
		"mysql": {
			DriverName: "mysql",
			BindVar:    sqlx.QUESTION,
		},
		"postgres": {
			// lib/pq accepts the full postgres:// URL as its DSN.
			DriverName: "postgres",
			BindVar:    sqlx.DOLLAR,
			DSN:        func(prefix, body string) string { return prefix + body },
		},
	}
)

// RegisterDialect makes a driver prefix resolvable by connections. The
// built-in prefixes are sqlite, mysql and postgres; applications that
// import their own database/sql driver register it here.
func RegisterDialect(prefix string, d Dialect) {
	dialectMu.Lock()
	defer dialectMu.Unlock()
	dialects[normalizePrefix(prefix)] = d
}

// lookupDialect resolves a config driver field, with or without the
// trailing "://".
func lookupDialect(driver string) (Dialect, error) {
	dialectMu.RLock()
	defer dialectMu.RUnlock()
	d, ok := dialects[normalizePrefix(driver)]
	if !ok {
		return Dialect{}, fmt.Errorf("%w: %q", ErrUnknownDialect, driver)
	}
	return d, nil
}

func normalizePrefix(driver string) string {
	return strings.ToLower(strings.TrimSuffix(driver, "://"))
}
