package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/marceldev/mediadex/internal/logging"
)

// sqliteStore holds the cache in an embedded sqlite database. Intended for
// very large trees where a single JSON document gets unwieldy; the lookup
// contract is identical to the file backend.
type sqliteStore struct {
	conn *sql.DB
}

func openSQLite(path string) (*sqliteStore, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		relative_path TEXT PRIMARY KEY,
		size_bytes INTEGER NOT NULL,
		modified_at_fs TEXT NOT NULL,
		record TEXT NOT NULL
	);
	`
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initialize cache schema: %w", err)
	}

	return &sqliteStore{conn: conn}, nil
}

func (s *sqliteStore) Load() (map[string]Entry, error) {
	entries := map[string]Entry{}

	rows, err := s.conn.Query(`SELECT relative_path, size_bytes, modified_at_fs, record FROM entries`)
	if err != nil {
		logging.Warn("cache database unreadable, starting empty: %v", err)
		return entries, nil
	}
	defer rows.Close()

	for rows.Next() {
		var rel, modified, recJSON string
		var size int64
		if err := rows.Scan(&rel, &size, &modified, &recJSON); err != nil {
			logging.Warn("cache row unreadable, skipping: %v", err)
			continue
		}

		entry := Entry{SizeBytes: size, ModifiedAtFS: modified}
		if err := json.Unmarshal([]byte(recJSON), &entry.Record); err != nil {
			logging.Warn("cache record for %s corrupt, dropping: %v", rel, err)
			continue
		}
		entries[rel] = entry
	}
	if err := rows.Err(); err != nil {
		logging.Warn("cache read incomplete, continuing with %d entries: %v", len(entries), err)
	}
	return entries, nil
}

// Save rewrites the full table in one transaction, mirroring the file
// backend's whole-file overwrite semantics.
func (s *sqliteStore) Save(entries map[string]Entry) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin cache save: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM entries`); err != nil {
		tx.Rollback()
		return fmt.Errorf("clear cache: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO entries (relative_path, size_bytes, modified_at_fs, record) VALUES (?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare cache insert: %w", err)
	}
	defer stmt.Close()

	for rel, entry := range entries {
		recJSON, err := json.Marshal(entry.Record)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("encode cache record %s: %w", rel, err)
		}
		if _, err := stmt.Exec(rel, entry.SizeBytes, entry.ModifiedAtFS, string(recJSON)); err != nil {
			tx.Rollback()
			return fmt.Errorf("store cache entry %s: %w", rel, err)
		}
	}

	return tx.Commit()
}

func (s *sqliteStore) Close() error {
	return s.conn.Close()
}
