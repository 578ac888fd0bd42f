// Package cache persists per-path scan results so unchanged files are not
// re-hashed or re-extracted on subsequent scans.
//
// Two backends implement the same contract: a single JSON file (default)
// and an embedded sqlite database for very large trees. Either way the
// whole cache is loaded once at scan start and rewritten once at scan end,
// and a missing or corrupt backing store loads as an empty cache, never as
// an error.
package cache

import "github.com/marceldev/mediadex/internal/record"

// Entry is the cached result of one file's last full scan.
type Entry struct {
	SizeBytes    int64              `json:"size_bytes"`
	ModifiedAtFS string             `json:"modified_at_fs"`
	Record       record.MediaRecord `json:"record"`
}

// Matches reports a cache hit: both the size and the rendered modification
// time must match exactly. Any drift forces a full re-hash.
func (e Entry) Matches(size int64, modifiedAtFS string) bool {
	return e.SizeBytes == size && e.ModifiedAtFS == modifiedAtFS
}

// Store is the persistence contract for the scan cache.
type Store interface {
	// Load returns the full cache; a missing or unreadable backing store
	// yields an empty map and no error.
	Load() (map[string]Entry, error)
	// Save rewrites the whole cache.
	Save(entries map[string]Entry) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open returns the store for the configured backend.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendSQLite:
		return openSQLite(path)
	default:
		return &fileStore{path: path}, nil
	}
}
