package store

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	DefaultDBFile = "freshstart.db"
)

// Base table suffixes. The full name is the host table prefix plus the suffix.
const (
	OrdersSuffix    = "orders"
	SuppliersSuffix = "suppliers"
	ClientsSuffix   = "clients"
)

// BaseTables returns the fully qualified base table names for prefix.
func BaseTables(prefix string) []string {
	return []string{
		prefix + OrdersSuffix,
		prefix + SuppliersSuffix,
		prefix + ClientsSuffix,
	}
}

// ValidTableName reports whether name is safe to use as an unquoted SQL identifier.
func ValidTableName(name string) bool {
	if name == "" || len(name) > 64 {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// CheckExists verifies if the datastore exists at the given path.
// Returns true if the store exists, false otherwise.
func CheckExists(storePath string) (bool, error) {
	dbPath := filepath.Join(storePath, DefaultDBFile)
	info, err := os.Stat(dbPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check store existence: %w", err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("datastore path is a directory, expected file: %s", dbPath)
	}
	return true, nil
}

// GetStorePath returns the path to the datastore directory.
// An empty dataDir means the current working directory.
func GetStorePath(dataDir string) string {
	if dataDir == "" {
		return "."
	}
	return dataDir
}

// GetDBPath returns the full path to the database file.
func GetDBPath(storePath string) string {
	return filepath.Join(storePath, DefaultDBFile)
}
