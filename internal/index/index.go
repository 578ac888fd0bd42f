// Package index reads and writes the JSONL index file: one JSON object per
// line, one line per MediaRecord, UTF-8, not ASCII-escaped.
package index

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/marceldev/mediadex/internal/record"
)

// maxLineBytes bounds a single record line; metadata-heavy records stay
// far below this.
const maxLineBytes = 4 << 20

// Write persists records in order, through a temp file and rename.
func Write(path string, records []record.MediaRecord) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			f.Close()
			os.Remove(tmp)
			return fmt.Errorf("encode record %s: %w", rec.RelativePath, err)
		}
	}

	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("flush index: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close index: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace index: %w", err)
	}
	return nil
}

// Read loads all records from a JSONL index, skipping blank lines.
func Read(path string) ([]record.MediaRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	defer f.Close()

	var records []record.MediaRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	line := 0
	for scanner.Scan() {
		line++
		data := scanner.Bytes()
		if len(data) == 0 {
			continue
		}
		var rec record.MediaRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("index line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	return records, nil
}
