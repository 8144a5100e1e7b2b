// Package store persists variant call results in DuckDB so that runs can
// be listed and queried after the fact.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection holding call runs and their variants.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id BIGINT PRIMARY KEY,
		ref_path VARCHAR,
		query_path VARCHAR,
		ref_id VARCHAR,
		query_id VARCHAR,
		aligned_columns BIGINT,
		score BIGINT,
		variant_count BIGINT,
		transitions BIGINT,
		transversions BIGINT,
		ratio DOUBLE,
		created_at TIMESTAMP DEFAULT current_timestamp
	)`)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`CREATE TABLE IF NOT EXISTS variants (
		run_id BIGINT,
		pos BIGINT,
		ref_pos BIGINT,
		ref VARCHAR,
		alt VARCHAR,
		kind VARCHAR,
		ref_context VARCHAR,
		query_context VARCHAR,
		PRIMARY KEY (run_id, pos)
	)`)
	return err
}
