package scan

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/marceldev/mediadex/internal/cache"
	"github.com/marceldev/mediadex/internal/record"
)

func setupTestTree(t *testing.T) (string, cache.Store) {
	t.Helper()
	tmpDir := t.TempDir()

	root := filepath.Join(tmpDir, "media")
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatalf("Failed to create test root: %v", err)
	}

	store, err := cache.Open(cache.BackendFile, filepath.Join(tmpDir, "cache.json"))
	if err != nil {
		t.Fatalf("Failed to open cache: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return root, store
}

func writeFile(t *testing.T, root, rel string, content []byte) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", rel, err)
	}
}

func runScan(t *testing.T, root string, store cache.Store) ([]record.MediaRecord, Stats) {
	t.Helper()
	records, stats, err := Run(context.Background(), Options{
		Root:    root,
		Store:   store,
		Workers: 2,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return records, stats
}

func TestRun_Basic(t *testing.T) {
	root, store := setupTestTree(t)

	writeFile(t, root, "a.jpg", []byte("same pixels"))
	writeFile(t, root, "b.jpg", []byte("same pixels"))
	writeFile(t, root, "c.mp4", []byte("video bytes"))
	writeFile(t, root, "notes.txt", []byte("not media"))
	writeFile(t, root, ".DS_Store", []byte("noise"))

	records, stats := runScan(t, root, store)

	if stats.Scanned != 3 {
		t.Errorf("Expected 3 scanned, got %d", stats.Scanned)
	}
	if stats.Photos != 2 {
		t.Errorf("Expected 2 photos, got %d", stats.Photos)
	}
	if stats.Videos != 1 {
		t.Errorf("Expected 1 video, got %d", stats.Videos)
	}
	if stats.Rehashed != 3 || stats.FromCache != 0 {
		t.Errorf("Expected 3 rehashed and 0 cached on first run, got %d/%d",
			stats.Rehashed, stats.FromCache)
	}
	if stats.Duplicates != 1 {
		t.Errorf("Expected 1 duplicate, got %d", stats.Duplicates)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	// Lexical walk order: a.jpg is first seen, b.jpg its duplicate.
	if records[0].RelativePath != "a.jpg" || records[0].IsDuplicate {
		t.Errorf("Expected a.jpg first and original, got %+v", records[0])
	}
	if !records[1].IsDuplicate || records[1].DuplicateOf == nil || *records[1].DuplicateOf != "a.jpg" {
		t.Errorf("Expected b.jpg to duplicate a.jpg, got %+v", records[1])
	}
	if records[0].SHA256 != records[1].SHA256 {
		t.Error("Expected identical content to share a hash")
	}
	if records[2].Type != "video" {
		t.Errorf("Expected c.mp4 last as video, got %+v", records[2])
	}
}

func TestRun_SecondScanServedFromCache(t *testing.T) {
	root, store := setupTestTree(t)

	writeFile(t, root, "a.jpg", []byte("one"))
	writeFile(t, root, "sub/b.jpg", []byte("two"))

	_, first := runScan(t, root, store)
	if first.Rehashed != 2 {
		t.Fatalf("Expected 2 rehashed on first run, got %d", first.Rehashed)
	}

	records, second := runScan(t, root, store)
	if second.FromCache != 2 || second.Rehashed != 0 {
		t.Errorf("Expected 2 cached and 0 rehashed on second run, got %d/%d",
			second.FromCache, second.Rehashed)
	}
	if len(records) != 2 {
		t.Errorf("Expected 2 records, got %d", len(records))
	}
}

func TestRun_ChangedFileIsRehashed(t *testing.T) {
	root, store := setupTestTree(t)

	writeFile(t, root, "a.jpg", []byte("original"))
	writeFile(t, root, "b.jpg", []byte("untouched"))
	runScan(t, root, store)

	// Same size, different mtime: still a miss, both dimensions must
	// match for a hit.
	later := time.Now().Add(2 * time.Hour)
	if err := os.Chtimes(filepath.Join(root, "a.jpg"), later, later); err != nil {
		t.Fatalf("Failed to bump mtime: %v", err)
	}

	_, stats := runScan(t, root, store)
	if stats.Rehashed != 1 {
		t.Errorf("Expected 1 rehashed after mtime change, got %d", stats.Rehashed)
	}
	if stats.FromCache != 1 {
		t.Errorf("Expected 1 cached, got %d", stats.FromCache)
	}
}

func TestRun_DuplicatesRecomputedFromCache(t *testing.T) {
	root, store := setupTestTree(t)

	writeFile(t, root, "a.jpg", []byte("dupe content"))
	writeFile(t, root, "b.jpg", []byte("dupe content"))
	runScan(t, root, store)

	// Remove the original; on the next scan the survivor must be
	// promoted even though its cached record says duplicate.
	if err := os.Remove(filepath.Join(root, "a.jpg")); err != nil {
		t.Fatalf("Failed to remove a.jpg: %v", err)
	}

	records, stats := runScan(t, root, store)
	if stats.Duplicates != 0 {
		t.Errorf("Expected no duplicates after removing the original, got %d", stats.Duplicates)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].IsDuplicate || records[0].DuplicateOf != nil {
		t.Errorf("Expected cached b.jpg promoted to original, got %+v", records[0])
	}
}

func TestRun_UnreadableFileCountedNotFatal(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Permission bits work differently on Windows")
	}
	if os.Getuid() == 0 {
		t.Skip("Permission bits do not bind root")
	}
	root, store := setupTestTree(t)

	writeFile(t, root, "good.jpg", []byte("fine"))
	writeFile(t, root, "bad.jpg", []byte("locked"))
	if err := os.Chmod(filepath.Join(root, "bad.jpg"), 0000); err != nil {
		t.Fatalf("Failed to chmod: %v", err)
	}

	records, stats := runScan(t, root, store)
	if stats.Errors != 1 {
		t.Errorf("Expected 1 error, got %d", stats.Errors)
	}
	if len(stats.FileErrors) != 1 || stats.FileErrors[0].Path != "bad.jpg" {
		t.Errorf("Expected bad.jpg in the error list, got %+v", stats.FileErrors)
	}
	if stats.Scanned != 2 {
		t.Errorf("Expected both files counted as scanned, got %d", stats.Scanned)
	}
	if len(records) != 1 || records[0].RelativePath != "good.jpg" {
		t.Errorf("Expected only good.jpg in the output, got %+v", records)
	}
}

func TestRun_MissingRoot(t *testing.T) {
	_, store := setupTestTree(t)

	_, _, err := Run(context.Background(), Options{
		Root:  filepath.Join(t.TempDir(), "nope"),
		Store: store,
	})
	if err == nil {
		t.Fatal("Expected error for missing root")
	}
}

func TestRun_RootIsFile(t *testing.T) {
	root, store := setupTestTree(t)
	writeFile(t, root, "a.jpg", []byte("x"))

	_, _, err := Run(context.Background(), Options{
		Root:  filepath.Join(root, "a.jpg"),
		Store: store,
	})
	if err == nil {
		t.Fatal("Expected error for non-directory root")
	}
}

func TestRun_CancelledContext(t *testing.T) {
	root, store := setupTestTree(t)
	writeFile(t, root, "a.jpg", []byte("one"))
	writeFile(t, root, "b.jpg", []byte("two"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, stats, err := Run(ctx, Options{Root: root, Store: store, Workers: 1})
	if err == nil {
		t.Fatal("Expected context error after cancellation")
	}
	if stats.Scanned != 0 {
		t.Errorf("Expected no files processed under a dead context, got %d", stats.Scanned)
	}
}

func TestDetector_Apply(t *testing.T) {
	d := newDetector()

	first := record.MediaRecord{SHA256: "x", RelativePath: "a.jpg"}
	if d.apply(&first) {
		t.Error("Expected first occurrence not to be a duplicate")
	}

	second := record.MediaRecord{SHA256: "x", RelativePath: "b.jpg"}
	if !d.apply(&second) {
		t.Fatal("Expected second occurrence to be a duplicate")
	}
	if second.DuplicateOf == nil || *second.DuplicateOf != "a.jpg" {
		t.Errorf("Expected duplicate_of a.jpg, got %+v", second.DuplicateOf)
	}

	// Stale duplicate state from a cached record must be overwritten.
	of := "stale.jpg"
	fresh := record.MediaRecord{SHA256: "y", RelativePath: "c.jpg", IsDuplicate: true, DuplicateOf: &of}
	if d.apply(&fresh) {
		t.Error("Expected new hash not to be a duplicate")
	}
	if fresh.IsDuplicate || fresh.DuplicateOf != nil {
		t.Errorf("Expected stale duplicate fields cleared, got %+v", fresh)
	}
}
