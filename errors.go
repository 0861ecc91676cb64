package dbregistry

import "errors"

var (
	// ErrConfigLoad is returned when an explicitly named configuration
	// file cannot be read or parsed.
	ErrConfigLoad = errors.New("dbregistry: cannot load config")

	// ErrNoConfigFound is returned when no explicit config file is given
	// and none of the default locations holds a loadable one.
	ErrNoConfigFound = errors.New("dbregistry: no config found in default locations")

	// ErrUnknownConnection is returned when a connection name is absent
	// from the loaded configuration.
	ErrUnknownConnection = errors.New("dbregistry: unknown connection")

	// ErrUnknownDialect is returned when a configured driver prefix has
	// no registered dialect.
	ErrUnknownDialect = errors.New("dbregistry: unknown dialect")

	// ErrEngineCreation is returned when the underlying driver fails to
	// open an engine. The connection's engine slot stays empty, so a
	// later call may retry.
	ErrEngineCreation = errors.New("dbregistry: cannot create engine")

	// ErrBinding is returned when named parameters and the statement's
	// placeholders do not match up.
	ErrBinding = errors.New("dbregistry: cannot bind parameters")

	// ErrStatementExecution wraps any failure after a transaction began.
	// It always follows a rollback attempt and session release.
	ErrStatementExecution = errors.New("dbregistry: statement execution failed")

	// ErrAlreadyInitialized is returned by Shared.Init when the shared
	// registry has already been loaded.
	ErrAlreadyInitialized = errors.New("dbregistry: shared registry already initialized")

	// ErrNotInitialized is returned by Shared methods called before Init.
	ErrNotInitialized = errors.New("dbregistry: shared registry not initialized")
)
