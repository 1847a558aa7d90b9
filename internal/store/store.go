// Package store exports parsed syntax trees to SQLite so they can be queried
// after the explorer exits.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SchemaVersion is recorded in the metadata table by Migrate.
const SchemaVersion = "1"

// Store is the SQLite data access layer for the files, nodes and metadata
// tables.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates all tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := s.SetMetadata("schema_version", SchemaVersion); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS files (
  id              INTEGER PRIMARY KEY,
  path            TEXT NOT NULL UNIQUE,
  language        TEXT NOT NULL,
  hash            TEXT NOT NULL,
  byte_count      INTEGER NOT NULL,
  node_count      INTEGER NOT NULL,
  exported_at     TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS nodes (
  id              INTEGER PRIMARY KEY,
  file_id         INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
  node_id         TEXT NOT NULL,
  parent_id       INTEGER REFERENCES nodes(id),
  ordinal         INTEGER NOT NULL,
  depth           INTEGER NOT NULL,
  kind            TEXT NOT NULL,
  named           BOOLEAN NOT NULL DEFAULT FALSE,
  is_error        BOOLEAN NOT NULL DEFAULT FALSE,
  start_byte      INTEGER NOT NULL,
  end_byte        INTEGER NOT NULL,
  start_row       INTEGER NOT NULL,
  start_col       INTEGER NOT NULL,
  end_row         INTEGER NOT NULL,
  end_col         INTEGER NOT NULL,
  child_count     INTEGER NOT NULL,
  text            TEXT,
  UNIQUE (file_id, node_id)
);

CREATE TABLE IF NOT EXISTS metadata (
  key             TEXT PRIMARY KEY,
  value           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent_id);
CREATE INDEX IF NOT EXISTS idx_nodes_kind ON nodes(file_id, kind);
`

// SetMetadata upserts a metadata entry.
func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO metadata (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set metadata %q: %w", key, err)
	}
	return nil
}

// Metadata returns the value stored under key, or "" and false.
func (s *Store) Metadata(key string) (string, bool, error) {
	var v string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("metadata %q: %w", key, err)
	}
	return v, true, nil
}
