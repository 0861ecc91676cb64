package dbregistry

import (
	"context"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
)

// Registry maps connection names onto lazily created, cached Connection
// instances. A name resolves to the same Connection for the registry's
// lifetime; the cache only grows.
type Registry struct {
	cfg *Config

	mu    sync.RWMutex
	conns map[string]*Connection
}

// New builds a Registry from an already-loaded configuration.
func New(cfg *Config) *Registry {
	return &Registry{cfg: cfg, conns: make(map[string]*Connection)}
}

// Open loads the configuration file at path and builds a Registry from it.
// With an empty path the default locations are scanned in priority order
// and the first loadable file wins; ErrNoConfigFound is returned only when
// every location fails.
func Open(path string) (*Registry, error) {
	var (
		cfg *Config
		err error
	)
	if path == "" {
		cfg, err = findDefaultConfig()
	} else {
		cfg, err = LoadConfig(path)
	}
	if err != nil {
		return nil, err
	}
	return New(cfg), nil
}

// Execute runs a single statement with named :params on the named
// connection, inside its own transaction.
func (r *Registry) Execute(ctx context.Context, name, query string, params map[string]any) error {
	conn, err := r.Connection(name)
	if err != nil {
		return err
	}
	return conn.Execute(ctx, query, params)
}

// Recordset runs a query with named :params on the named connection and
// returns all rows plus column names.
func (r *Registry) Recordset(ctx context.Context, name, query string, params map[string]any) (*Recordset, error) {
	conn, err := r.Connection(name)
	if err != nil {
		return nil, err
	}
	return conn.Recordset(ctx, query, params)
}

// Engine returns the named connection's underlying engine handle, for
// callers that need the driver surface directly.
func (r *Registry) Engine(name string) (*sqlx.DB, error) {
	conn, err := r.Connection(name)
	if err != nil {
		return nil, err
	}
	return conn.Engine()
}

// Connection resolves a name to its cached Connection, constructing and
// caching it on first use. Construction happens at most once per name for
// the registry's lifetime.
func (r *Registry) Connection(name string) (*Connection, error) {
	r.mu.RLock()
	conn, ok := r.conns[name]
	r.mu.RUnlock()
	if ok {
		return conn, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another caller may have won the race between the locks.
	if conn, ok := r.conns[name]; ok {
		return conn, nil
	}

	for _, cc := range r.cfg.Connections {
		if cc.Name != name {
			continue
		}
		conn, err := newConnection(cc)
		if err != nil {
			return nil, err
		}
		r.conns[name] = conn
		return conn, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownConnection, name)
}
