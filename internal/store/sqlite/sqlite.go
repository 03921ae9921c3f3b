package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/maloquacious/freshstart/internal/store"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements the store interfaces using modernc.org/sqlite.
type SQLiteStore struct {
	dbPath         string
	db             *sql.DB
	expectedSchema string
}

var (
	_ store.Store            = (*SQLiteStore)(nil)
	_ store.OptionStore      = (*SQLiteStore)(nil)
	_ store.SchemaInspector  = (*SQLiteStore)(nil)
	_ store.BaseTableCreator = (*SQLiteStore)(nil)
)

// New creates a new SQLiteStore.
func New(dbPath string, expectedSchema string) *SQLiteStore {
	return &SQLiteStore{
		dbPath:         dbPath,
		expectedSchema: expectedSchema,
	}
}

// Open opens the SQLite database with safe defaults.
func (s *SQLiteStore) Open() error {
	db, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	s.db = db
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitSchema creates the schema_migrations and options tables and records version.
func (s *SQLiteStore) InitSchema(version string) error {
	if s.db == nil {
		return store.ErrNotOpened
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err = tx.Exec(initialSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	_, err = tx.Exec(`INSERT OR IGNORE INTO schema_migrations (version, applied_at) VALUES (?, strftime('%s', 'now'))`, version)
	if err != nil {
		return fmt.Errorf("failed to insert schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Migrate brings the base tables for prefix up to date and records version.
func (s *SQLiteStore) Migrate(ctx context.Context, prefix, version string) error {
	if s.db == nil {
		return store.ErrNotOpened
	}
	if err := s.CreateOrUpdateBaseTables(ctx, prefix); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO schema_migrations (version, applied_at) VALUES (?, strftime('%s', 'now'))`, version)
	if err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return nil
}

// CheckState returns the current state of the datastore.
func (s *SQLiteStore) CheckState() (store.StoreState, error) {
	if s.db == nil {
		return store.StateMissing, store.ErrNotOpened
	}

	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('schema_migrations', 'options')`).Scan(&count)
	if err != nil {
		return store.StateUninitialized, fmt.Errorf("failed to check schema tables: %w", err)
	}

	if count < 2 {
		return store.StateUninitialized, nil
	}

	version, err := s.GetSchemaVersion()
	if err != nil {
		return store.StateUninitialized, fmt.Errorf("failed to get schema version: %w", err)
	}

	if version != s.expectedSchema {
		return store.StateVersionMismatch, nil
	}

	return store.StateReady, nil
}

// GetSchemaVersion returns the current schema version from the database.
func (s *SQLiteStore) GetSchemaVersion() (string, error) {
	if s.db == nil {
		return "", store.ErrNotOpened
	}

	var version string
	err := s.db.QueryRow(`SELECT version FROM schema_migrations ORDER BY applied_at DESC, rowid DESC LIMIT 1`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query schema version: %w", err)
	}

	return version, nil
}

// GetOption returns the value stored under key.
func (s *SQLiteStore) GetOption(ctx context.Context, key string) (string, bool, error) {
	if s.db == nil {
		return "", false, store.ErrNotOpened
	}

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM options WHERE name = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read option %q: %w", key, err)
	}
	return value, true, nil
}

// SetOption stores value under key, replacing any previous value.
func (s *SQLiteStore) SetOption(ctx context.Context, key, value string) error {
	if s.db == nil {
		return store.ErrNotOpened
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO options (name, value, updated_at) VALUES (?, ?, strftime('%s', 'now'))
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to write option %q: %w", key, err)
	}
	return nil
}

// AddOption stores value under key only if key is not already present.
func (s *SQLiteStore) AddOption(ctx context.Context, key, value string) (bool, error) {
	if s.db == nil {
		return false, store.ErrNotOpened
	}

	res, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO options (name, value, updated_at) VALUES (?, ?, strftime('%s', 'now'))`, key, value)
	if err != nil {
		return false, fmt.Errorf("failed to add option %q: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to add option %q: %w", key, err)
	}
	return n == 1, nil
}

// TableExists reports whether a table called name exists.
func (s *SQLiteStore) TableExists(ctx context.Context, name string) (bool, error) {
	if s.db == nil {
		return false, store.ErrNotOpened
	}

	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name = ?`, name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check table %q: %w", name, err)
	}
	return count > 0, nil
}

// RowCount returns the number of rows in table name.
func (s *SQLiteStore) RowCount(ctx context.Context, name string) (int64, error) {
	if s.db == nil {
		return 0, store.ErrNotOpened
	}
	if !store.ValidTableName(name) {
		return 0, fmt.Errorf("%w: %q", store.ErrInvalidTableName, name)
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM "%s"`, name)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in %q: %w", name, err)
	}
	return count, nil
}

// CreateOrUpdateBaseTables creates the orders, suppliers and clients tables for prefix.
func (s *SQLiteStore) CreateOrUpdateBaseTables(ctx context.Context, prefix string) error {
	if s.db == nil {
		return store.ErrNotOpened
	}
	for _, name := range store.BaseTables(prefix) {
		if !store.ValidTableName(name) {
			return fmt.Errorf("%w: %q", store.ErrInvalidTableName, name)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(baseTablesSchema, prefix)); err != nil {
		return fmt.Errorf("failed to create base tables: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
