package cache

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/marceldev/mediadex/internal/logging"
)

// fileStore keeps the cache as one JSON object mapping relative path to
// entry. Saves go through a temp file and rename so an interrupted write
// never leaves the previous cache unreadable.
type fileStore struct {
	path string
}

func (s *fileStore) Load() (map[string]Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn("cache %s unreadable, starting empty: %v", s.path, err)
		}
		return map[string]Entry{}, nil
	}

	entries := map[string]Entry{}
	if err := json.Unmarshal(data, &entries); err != nil {
		logging.Warn("cache %s corrupt, starting empty: %v", s.path, err)
		return map[string]Entry{}, nil
	}
	return entries, nil
}

func (s *fileStore) Save(entries map[string]Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace cache: %w", err)
	}
	return nil
}

func (s *fileStore) Close() error { return nil }
