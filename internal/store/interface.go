package store

import (
	"context"
	"errors"
)

var (
	// ErrNotOpened is returned by stores used before Open.
	ErrNotOpened = errors.New("database not opened")

	// ErrInvalidTableName is returned when a table name contains characters
	// that cannot be safely interpolated into SQL.
	ErrInvalidTableName = errors.New("invalid table name")
)

// StoreState represents the initialization state of the datastore.
type StoreState int

const (
	StateMissing         StoreState = iota // File doesn't exist
	StateUninitialized                     // File exists but no schema
	StateVersionMismatch                   // Schema exists but wrong version
	StateReady                             // Initialized and correct version
)

func (s StoreState) String() string {
	switch s {
	case StateMissing:
		return "missing"
	case StateUninitialized:
		return "uninitialized"
	case StateVersionMismatch:
		return "version-mismatch"
	case StateReady:
		return "ready"
	}
	return "unknown"
}

// Store defines the datastore lifecycle contract.
// Implementations must be safe for concurrent use.
type Store interface {
	// Open opens the datastore connection
	Open() error

	// Close closes the datastore connection
	Close() error

	// InitSchema creates the initial schema (schema_migrations and options tables)
	InitSchema(version string) error

	// CheckState returns the current state of the datastore
	CheckState() (StoreState, error)

	// GetSchemaVersion returns the current schema version from the database
	GetSchemaVersion() (string, error)
}

// OptionStore is a persistent key-value store for named settings.
type OptionStore interface {
	// GetOption returns the stored value and whether the key is present.
	GetOption(ctx context.Context, key string) (string, bool, error)

	// SetOption stores value under key, replacing any previous value.
	SetOption(ctx context.Context, key, value string) error

	// AddOption stores value only if key is absent.
	// It reports whether the value was written.
	AddOption(ctx context.Context, key, value string) (bool, error)
}

// SchemaInspector answers read-only questions about the relational schema.
type SchemaInspector interface {
	TableExists(ctx context.Context, name string) (bool, error)
	RowCount(ctx context.Context, name string) (int64, error)
}

// BaseTableCreator creates (or brings up to date) the base tables for a table prefix.
// Implementations must be idempotent.
type BaseTableCreator interface {
	CreateOrUpdateBaseTables(ctx context.Context, prefix string) error
}
