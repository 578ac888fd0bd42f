// Package scan walks a media tree and produces the full ordered record
// set, consulting the incremental cache so unchanged files are served from
// their last scan instead of being re-hashed and re-extracted.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/marceldev/mediadex/internal/cache"
	"github.com/marceldev/mediadex/internal/classify"
	"github.com/marceldev/mediadex/internal/fingerprint"
	"github.com/marceldev/mediadex/internal/logging"
	"github.com/marceldev/mediadex/internal/record"
	"github.com/marceldev/mediadex/internal/workers"
)

// maxFileErrors bounds the retained per-file error list; the total count
// keeps climbing past it.
const maxFileErrors = 50

// Options configures one scan pass.
type Options struct {
	// Root is the folder tree to scan. Must exist and be a directory.
	Root string
	// Store is the scan cache backend.
	Store cache.Store
	// Workers overrides the hash/extract pool size (0 = auto).
	Workers int
	// Progress enables a progress bar on stderr.
	Progress bool
}

// FileError is one file's failure, recorded without stopping the walk.
type FileError struct {
	Path string
	Err  error
}

// Stats accumulates counters over one scan pass.
type Stats struct {
	Scanned    int
	FromCache  int
	Rehashed   int
	Duplicates int
	Photos     int
	Videos     int

	Errors     int
	FileErrors []FileError
}

func (s *Stats) addError(path string, err error) {
	s.Errors++
	if len(s.FileErrors) < maxFileErrors {
		s.FileErrors = append(s.FileErrors, FileError{Path: path, Err: err})
	}
}

// job is one classified file in traversal order.
type job struct {
	seq  int
	path string
	rel  string
	kind classify.Kind
	size int64
	// mtime is the rendered modification time, the exact string compared
	// against the cache entry.
	mtime string
}

// result is the job's outcome; results are merged back in seq order so
// parallel completion order never leaks into the output.
type result struct {
	rec       record.MediaRecord
	newEntry  *cache.Entry
	fromCache bool
	skipped   bool
	err       error
}

// Run scans the tree and returns the ordered record set plus stats.
// Per-file failures are tallied, never fatal; only a missing or non-dir
// root aborts.
func Run(ctx context.Context, opts Options) ([]record.MediaRecord, Stats, error) {
	var stats Stats

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, stats, fmt.Errorf("resolve root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, stats, fmt.Errorf("folder not found: %s", root)
	}
	if !info.IsDir() {
		return nil, stats, fmt.Errorf("not a folder: %s", root)
	}

	snapshot, err := opts.Store.Load()
	if err != nil {
		return nil, stats, fmt.Errorf("load cache: %w", err)
	}

	jobs := enumerate(root, &stats)
	logging.Debug("scan: %d candidate files under %s", len(jobs), root)

	results := resolveAll(ctx, root, snapshot, jobs, opts)

	// Merge in traversal order: duplicate assignment and output order
	// depend on the walk, never on worker completion order.
	records := make([]record.MediaRecord, 0, len(jobs))
	dedupe := newDetector()
	for i, j := range jobs {
		res := results[i]
		if res.skipped {
			continue
		}
		stats.Scanned++
		if res.err != nil {
			stats.addError(j.rel, res.err)
			continue
		}

		if res.fromCache {
			stats.FromCache++
		} else {
			stats.Rehashed++
			snapshot[j.rel] = *res.newEntry
		}

		rec := res.rec
		if dedupe.apply(&rec) {
			stats.Duplicates++
		}
		switch rec.Type {
		case string(classify.KindPhoto):
			stats.Photos++
		case string(classify.KindVideo):
			stats.Videos++
		}
		records = append(records, rec)
	}

	// One save at scan end; entries collected before a cancellation are
	// still flushed.
	if err := opts.Store.Save(snapshot); err != nil {
		logging.Warn("cache not saved: %v", err)
	}

	return records, stats, ctx.Err()
}

// enumerate walks the tree in lexical order and collects classified files.
// Walk-level access errors are tallied and skipped.
func enumerate(root string, stats *Stats) []job {
	var jobs []job
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logging.Warn("cannot access %s: %v", path, err)
			stats.addError(path, err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		kind := classify.Detect(d.Name())
		if kind == classify.KindNone {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		fi, err := d.Info()
		if err != nil {
			stats.addError(rel, err)
			return nil
		}

		jobs = append(jobs, job{
			seq:   len(jobs),
			path:  path,
			rel:   rel,
			kind:  kind,
			size:  fi.Size(),
			mtime: record.ISOUTC(fi.ModTime()),
		})
		return nil
	})
	if walkErr != nil {
		logging.Warn("walk ended early: %v", walkErr)
	}
	return jobs
}

// resolveAll runs the per-file hash+extract step across a bounded worker
// pool. The cache snapshot is a read-only shared structure here; all
// writes happen in the merge phase.
func resolveAll(ctx context.Context, root string, snapshot map[string]cache.Entry, jobs []job, opts Options) []result {
	results := make([]result, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	numWorkers := opts.Workers
	if numWorkers <= 0 {
		numWorkers = workers.ForMixed(0)
	}

	var bar *progressbar.ProgressBar
	if opts.Progress {
		bar = progressbar.NewOptions64(int64(len(jobs)),
			progressbar.OptionSetDescription("Scanning"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionOnCompletion(func() { fmt.Fprint(os.Stderr, "\n") }),
		)
		defer bar.Close()
	}

	jobCh := make(chan job)
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				select {
				case <-ctx.Done():
					results[j.seq] = result{skipped: true}
					continue
				default:
				}
				results[j.seq] = resolve(ctx, root, snapshot, j)
				if bar != nil {
					_ = bar.Add(1)
				}
			}
		}()
	}

	// Cancellation stops scheduling; in-flight jobs finish on their own.
	for _, j := range jobs {
		select {
		case <-ctx.Done():
			results[j.seq] = result{skipped: true}
		case jobCh <- j:
		}
	}
	close(jobCh)
	wg.Wait()

	return results
}

// resolve serves one file from the cache or falls through to a full
// fingerprint + metadata extraction.
func resolve(ctx context.Context, root string, snapshot map[string]cache.Entry, j job) result {
	if entry, ok := snapshot[j.rel]; ok && entry.Matches(j.size, j.mtime) {
		rec := entry.Record
		rec.ClearDuplicate()
		return result{rec: rec, fromCache: true}
	}

	sha, err := fingerprint.File(j.path)
	if err != nil {
		return result{err: err}
	}
	rec, err := record.Build(ctx, j.path, root, j.kind, sha)
	if err != nil {
		return result{err: err}
	}

	return result{
		rec: rec,
		newEntry: &cache.Entry{
			SizeBytes:    j.size,
			ModifiedAtFS: j.mtime,
			Record:       rec,
		},
	}
}
