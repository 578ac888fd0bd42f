// Package fingerprint computes content hashes used as stable file identity.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// chunkSize bounds memory use while hashing; files are streamed, never
// loaded whole.
const chunkSize = 1 << 20 // 1 MiB

// File returns the hex-encoded SHA256 of the file's full byte stream.
// A read error mid-stream is returned to the caller; the file may have
// been truncated or gone unreadable since it was statted.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
