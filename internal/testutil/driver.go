package testutil

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"sync"
	"testing"
)

// Recorder captures the call sequence a fake driver sees, so tests can
// assert the transaction protocol: begin, exec, commit/rollback, close.
// Error fields inject failures at the matching call site.
type Recorder struct {
	mu    sync.Mutex
	calls []string

	OpenErr   error
	BeginErr  error
	ExecErr   error
	QueryErr  error
	CommitErr error

	// NextErr fails row iteration after Vals is exhausted, simulating a
	// result set that breaks mid-fetch.
	NextErr error

	// Canned result for Query calls.
	Cols []string
	Vals [][]driver.Value
}

func (r *Recorder) record(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

// Calls returns a copy of the recorded call sequence.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Count returns how many times call was recorded.
func (r *Recorder) Count(call string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == call {
			n++
		}
	}
	return n
}

var (
	registerMu  sync.Mutex
	registerSeq int
)

// RegisterDriver registers a fresh recording driver under a unique
// database/sql name and returns that name with its Recorder. database/sql
// driver names cannot be re-registered, hence the sequence.
func RegisterDriver(t *testing.T) (string, *Recorder) {
	t.Helper()
	rec := &Recorder{}
	registerMu.Lock()
	registerSeq++
	name := fmt.Sprintf("recording-driver-%d", registerSeq)
	registerMu.Unlock()
	sql.Register(name, recDriver{rec: rec})
	return name, rec
}

type recDriver struct{ rec *Recorder }

func (d recDriver) Open(string) (driver.Conn, error) {
	d.rec.record("open")
	if d.rec.OpenErr != nil {
		return nil, d.rec.OpenErr
	}
	return &recConn{rec: d.rec}, nil
}

type recConn struct{ rec *Recorder }

func (c *recConn) Prepare(query string) (driver.Stmt, error) {
	return &recStmt{rec: c.rec}, nil
}

func (c *recConn) Close() error {
	c.rec.record("close")
	return nil
}

func (c *recConn) Begin() (driver.Tx, error) {
	c.rec.record("begin")
	if c.rec.BeginErr != nil {
		return nil, c.rec.BeginErr
	}
	return &recTx{rec: c.rec}, nil
}

type recTx struct{ rec *Recorder }

func (t *recTx) Commit() error {
	t.rec.record("commit")
	return t.rec.CommitErr
}

func (t *recTx) Rollback() error {
	t.rec.record("rollback")
	return nil
}

type recStmt struct{ rec *Recorder }

func (s *recStmt) Close() error { return nil }

func (s *recStmt) NumInput() int { return -1 }

func (s *recStmt) Exec(args []driver.Value) (driver.Result, error) {
	s.rec.record("exec")
	if s.rec.ExecErr != nil {
		return nil, s.rec.ExecErr
	}
	return driver.RowsAffected(1), nil
}

func (s *recStmt) Query(args []driver.Value) (driver.Rows, error) {
	s.rec.record("query")
	if s.rec.QueryErr != nil {
		return nil, s.rec.QueryErr
	}
	return &recRows{cols: s.rec.Cols, vals: s.rec.Vals, nextErr: s.rec.NextErr}, nil
}

type recRows struct {
	cols    []string
	vals    [][]driver.Value
	nextErr error
	next    int
}

func (r *recRows) Columns() []string { return r.cols }

func (r *recRows) Close() error { return nil }

func (r *recRows) Next(dest []driver.Value) error {
	if r.next >= len(r.vals) {
		if r.nextErr != nil {
			return r.nextErr
		}
		return io.EOF
	}
	copy(dest, r.vals[r.next])
	r.next++
	return nil
}
