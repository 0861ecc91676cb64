package dbregistry

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/joestump/dbregistry/internal/metrics"
)

// Recordset is the fully materialized result of a query: all rows plus the
// column names, in the order the driver produced them.
type Recordset struct {
	Columns []string
	Rows    [][]any
}

// Connection owns one named configuration and at most one lazily opened
// engine handle. Statements run inside per-call transactions; the engine
// itself lives for the connection's lifetime.
type Connection struct {
	name    string
	dialect Dialect
	dsn     string

	mu     sync.Mutex
	engine *sqlx.DB
}

// newConnection builds a Connection from one config record. The connection
// string transformation (url_escape, prefix join) happens here, once; the
// resulting DSN is immutable.
func newConnection(cc ConnectionConfig) (*Connection, error) {
	d, err := lookupDialect(cc.Driver)
	if err != nil {
		return nil, err
	}

	body := cc.Connection
	if cc.URLEscape {
		body = url.QueryEscape(body)
	}

	dsn := body
	if d.DSN != nil {
		dsn = d.DSN(normalizePrefix(cc.Driver)+"://", body)
	}

	return &Connection{name: cc.Name, dialect: d, dsn: dsn}, nil
}

// Name returns the connection's configured name.
func (c *Connection) Name() string { return c.name }

// Engine returns the underlying engine handle, opening it on first use.
// Repeated calls return the same handle. A failed open leaves the slot
// empty so the next call may retry.
func (c *Connection) Engine() (*sqlx.DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.engine != nil {
		return c.engine, nil
	}

	db, err := sqlx.Open(c.dialect.DriverName, c.dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: connection %q: %w", ErrEngineCreation, c.name, err)
	}
	if c.dialect.Setup != nil {
		if err := c.dialect.Setup(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: connection %q: %w", ErrEngineCreation, c.name, err)
		}
	}

	slog.Debug("engine opened", "connection", c.name, "driver", c.dialect.DriverName)
	metrics.EnginesOpened.Inc()
	c.engine = db
	return db, nil
}

// Execute runs a single statement with named :params inside its own
// transaction. The transaction commits on success and rolls back on any
// failure; the session is released either way.
func (c *Connection) Execute(ctx context.Context, query string, params map[string]any) error {
	bound, args, err := bindStatement(query, params, c.dialect.BindVar)
	if err != nil {
		return err
	}
	return c.inTransaction(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, bound, args...)
		return err
	})
}

// Recordset runs a query with named :params inside its own transaction and
// returns every row plus the column names. Rows are fetched in full before
// the commit.
func (c *Connection) Recordset(ctx context.Context, query string, params map[string]any) (*Recordset, error) {
	bound, args, err := bindStatement(query, params, c.dialect.BindVar)
	if err != nil {
		return nil, err
	}

	var rs *Recordset
	err = c.inTransaction(ctx, func(tx *sqlx.Tx) error {
		rows, err := tx.QueryContext(ctx, bound, args...)
		if err != nil {
			return err
		}
		rs, err = fetchAll(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.RowsFetched.Add(float64(len(rs.Rows)))
	return rs, nil
}

// inTransaction opens a dedicated session, begins a transaction, runs fn,
// and commits. Any failure after the begin rolls the transaction back. The
// session is released on every exit path.
func (c *Connection) inTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	db, err := c.Engine()
	if err != nil {
		return err
	}

	sess, err := db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("%w: connection %q: %w", ErrStatementExecution, c.name, err)
	}
	defer func() { _ = sess.Close() }()

	sid := uuid.NewString()
	tx, err := sess.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: connection %q: %w", ErrStatementExecution, c.name, err)
	}
	slog.Debug("transaction begun", "connection", c.name, "statement_id", sid)

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		slog.Debug("transaction rolled back", "connection", c.name, "statement_id", sid, "error", err)
		metrics.Statements.WithLabelValues("rolled_back").Inc()
		return fmt.Errorf("%w: connection %q: %w", ErrStatementExecution, c.name, err)
	}

	if err := tx.Commit(); err != nil {
		slog.Debug("commit failed", "connection", c.name, "statement_id", sid, "error", err)
		metrics.Statements.WithLabelValues("rolled_back").Inc()
		return fmt.Errorf("%w: connection %q: %w", ErrStatementExecution, c.name, err)
	}

	slog.Debug("transaction committed", "connection", c.name, "statement_id", sid)
	metrics.Statements.WithLabelValues("committed").Inc()
	return nil
}

// fetchAll drains rows into a Recordset, closing the iterator before the
// caller commits.
func fetchAll(rows *sql.Rows) (*Recordset, error) {
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	rs := &Recordset{Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rs.Rows = append(rs.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rs, nil
}
