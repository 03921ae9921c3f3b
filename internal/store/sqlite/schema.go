package sqlite

// initialSchema holds the tables every datastore needs before anything else runs:
// schema_migrations for version tracking and options for persisted settings.
const initialSchema = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS options (
    name TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// baseTablesSchema is expanded with the table prefix as the only argument.
const baseTablesSchema = `
CREATE TABLE IF NOT EXISTS %[1]sorders (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    client_id INTEGER,
    supplier_id INTEGER,
    reference TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'draft',
    created_at INTEGER NOT NULL DEFAULT (strftime('%%s', 'now'))
);

CREATE INDEX IF NOT EXISTS idx_%[1]sorders_status ON %[1]sorders(status);

CREATE TABLE IF NOT EXISTS %[1]ssuppliers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL DEFAULT (strftime('%%s', 'now'))
);

CREATE TABLE IF NOT EXISTS %[1]sclients (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL DEFAULT (strftime('%%s', 'now'))
);
`
