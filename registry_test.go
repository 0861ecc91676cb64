package dbregistry_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/joestump/dbregistry"
	"github.com/joestump/dbregistry/internal/testutil"
)

// newSQLiteRegistry loads a registry with one in-memory SQLite connection
// named db1.
func newSQLiteRegistry(t *testing.T) *dbregistry.Registry {
	t.Helper()
	path := testutil.WriteConfig(t, fmt.Sprintf(`connections:
  - name: db1
    driver: sqlite://
    connection: "%s"
`, testutil.SQLiteDSN(t)))

	reg, err := dbregistry.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return reg
}

func TestRegistry_ConnectionIdentity(t *testing.T) {
	reg := newSQLiteRegistry(t)

	first, err := reg.Connection("db1")
	if err != nil {
		t.Fatalf("Connection: %v", err)
	}
	second, err := reg.Connection("db1")
	if err != nil {
		t.Fatalf("Connection: %v", err)
	}
	if first != second {
		t.Error("repeated resolution returned distinct Connection instances")
	}
}

func TestRegistry_EngineIdentity(t *testing.T) {
	reg := newSQLiteRegistry(t)

	first, err := reg.Engine("db1")
	if err != nil {
		t.Fatalf("Engine: %v", err)
	}
	second, err := reg.Engine("db1")
	if err != nil {
		t.Fatalf("Engine: %v", err)
	}
	if first != second {
		t.Error("repeated Engine calls returned distinct handles")
	}
}

func TestRegistry_UnknownConnection(t *testing.T) {
	reg := newSQLiteRegistry(t)
	ctx := context.Background()

	if err := reg.Execute(ctx, "nope", "SELECT 1", nil); !errors.Is(err, dbregistry.ErrUnknownConnection) {
		t.Errorf("Execute err = %v, want ErrUnknownConnection", err)
	}
	if _, err := reg.Recordset(ctx, "nope", "SELECT 1", nil); !errors.Is(err, dbregistry.ErrUnknownConnection) {
		t.Errorf("Recordset err = %v, want ErrUnknownConnection", err)
	}
	if _, err := reg.Engine("nope"); !errors.Is(err, dbregistry.ErrUnknownConnection) {
		t.Errorf("Engine err = %v, want ErrUnknownConnection", err)
	}
}

func TestRegistry_ExecuteAndRecordset(t *testing.T) {
	reg := newSQLiteRegistry(t)
	ctx := context.Background()

	if err := reg.Execute(ctx, "db1", `CREATE TABLE people (id INTEGER, name TEXT)`, nil); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if err := reg.Execute(ctx, "db1",
		`INSERT INTO people (id, name) VALUES (:id, :name)`,
		map[string]any{"id": 1, "name": "alice"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := reg.Execute(ctx, "db1",
		`INSERT INTO people (id, name) VALUES (:id, :name)`,
		map[string]any{"id": 2, "name": "bob"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	rs, err := reg.Recordset(ctx, "db1",
		`SELECT id, name FROM people ORDER BY id`, nil)
	if err != nil {
		t.Fatalf("Recordset: %v", err)
	}

	if len(rs.Columns) != 2 || rs.Columns[0] != "id" || rs.Columns[1] != "name" {
		t.Errorf("columns = %v", rs.Columns)
	}
	if len(rs.Rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rs.Rows))
	}
	for i, row := range rs.Rows {
		if len(row) != len(rs.Columns) {
			t.Errorf("row %d has %d values for %d columns", i, len(row), len(rs.Columns))
		}
	}
	if rs.Rows[0][1] != "alice" || rs.Rows[1][1] != "bob" {
		t.Errorf("rows out of order: %v", rs.Rows)
	}
}

func TestRegistry_RecordsetParamProjection(t *testing.T) {
	reg := newSQLiteRegistry(t)

	rs, err := reg.Recordset(context.Background(), "db1",
		`SELECT :x AS y`, map[string]any{"x": 5})
	if err != nil {
		t.Fatalf("Recordset: %v", err)
	}
	if len(rs.Columns) != 1 || rs.Columns[0] != "y" {
		t.Errorf("columns = %v, want [y]", rs.Columns)
	}
	if len(rs.Rows) != 1 || rs.Rows[0][0] != int64(5) {
		t.Errorf("rows = %v, want [[5]]", rs.Rows)
	}
}

func TestRegistry_ConcurrentFirstAccess(t *testing.T) {
	reg := newSQLiteRegistry(t)

	const callers = 32
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		mu    sync.Mutex
		conns = make(map[*dbregistry.Connection]struct{})
		errs  []error
	)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			conn, err := reg.Connection("db1")
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			conns[conn] = struct{}{}
		}()
	}
	close(start)
	wg.Wait()

	if len(errs) > 0 {
		t.Fatalf("resolution errors: %v", errs)
	}
	if len(conns) != 1 {
		t.Errorf("%d distinct Connection instances constructed, want 1", len(conns))
	}
}

func TestRegistry_ConcurrentEngineCreation(t *testing.T) {
	reg := newSQLiteRegistry(t)

	const callers = 32
	var (
		wg      sync.WaitGroup
		start   = make(chan struct{})
		mu      sync.Mutex
		engines = make(map[any]struct{})
		errs    []error
	)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			eng, err := reg.Engine("db1")
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			engines[eng] = struct{}{}
		}()
	}
	close(start)
	wg.Wait()

	if len(errs) > 0 {
		t.Fatalf("engine errors: %v", errs)
	}
	if len(engines) != 1 {
		t.Errorf("%d distinct engine handles created, want 1", len(engines))
	}
}
