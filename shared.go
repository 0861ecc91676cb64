package dbregistry

import (
	"context"
	"sync"

	"github.com/jmoiron/sqlx"
)

// Shared is an init-once registry holder for applications that want a
// single process-wide registry without package-level globals. Construct
// one, call Init at startup, and inject it where needed.
type Shared struct {
	mu  sync.RWMutex
	reg *Registry
}

// Init loads the registry. A second call returns ErrAlreadyInitialized and
// leaves the current registry in place.
func (s *Shared) Init(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reg != nil {
		return ErrAlreadyInitialized
	}
	reg, err := Open(path)
	if err != nil {
		return err
	}
	s.reg = reg
	return nil
}

// Registry returns the wrapped registry, or ErrNotInitialized before Init.
func (s *Shared) Registry() (*Registry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.reg == nil {
		return nil, ErrNotInitialized
	}
	return s.reg, nil
}

// Execute forwards to the wrapped registry.
func (s *Shared) Execute(ctx context.Context, name, query string, params map[string]any) error {
	reg, err := s.Registry()
	if err != nil {
		return err
	}
	return reg.Execute(ctx, name, query, params)
}

// Recordset forwards to the wrapped registry.
func (s *Shared) Recordset(ctx context.Context, name, query string, params map[string]any) (*Recordset, error) {
	reg, err := s.Registry()
	if err != nil {
		return nil, err
	}
	return reg.Recordset(ctx, name, query, params)
}

// Engine forwards to the wrapped registry.
func (s *Shared) Engine(name string) (*sqlx.DB, error) {
	reg, err := s.Registry()
	if err != nil {
		return nil, err
	}
	return reg.Engine(name)
}
