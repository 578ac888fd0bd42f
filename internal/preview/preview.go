// Package preview derives content-addressed preview artifacts from the
// index: scaled webp images for photos and downscaled mp4 clips for
// videos. Artifacts are named by content hash, so generation is idempotent
// and survives renames: the same bytes under a new path reuse the
// existing artifact.
package preview

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/marceldev/mediadex/internal/classify"
	"github.com/marceldev/mediadex/internal/index"
	"github.com/marceldev/mediadex/internal/logging"
	"github.com/marceldev/mediadex/internal/record"
	"github.com/marceldev/mediadex/internal/workers"
)

const maxFileErrors = 50

// Options configures one preview generation pass.
type Options struct {
	// Root is the media tree the index was scanned from.
	Root string
	// IndexPath is the JSONL index to read.
	IndexPath string
	// OutDir receives the <sha256>.<ext> artifacts.
	OutDir string

	// MaxSide caps the larger photo dimension; photos are never upscaled.
	MaxSide int
	// Quality is the webp encode quality (1-100).
	Quality int

	// VideoPreviews enables the mp4 derivation stage. Off by default:
	// videos are still counted as seen and skipped so stats stay honest.
	VideoPreviews bool
	// VideoCRF is the x264 quality factor.
	VideoCRF int
	// FPSCap bounds the preview frame rate.
	FPSCap int

	// Workers overrides the pool size (0 = auto).
	Workers int
	// Progress enables a progress bar on stderr.
	Progress bool
}

// FileError is one item's failure, recorded without stopping the batch.
type FileError struct {
	Path string
	Err  error
}

// Stats accumulates counters over one preview pass.
type Stats struct {
	PhotosSeen   int
	VideosSeen   int
	PhotoCreated int
	PhotoSkipped int
	VideoCreated int
	VideoSkipped int

	Errors     int
	LastError  string
	FileErrors []FileError
}

// Run generates previews for every record in the index. Per-item failures
// are tallied and never abort the batch.
func Run(ctx context.Context, opts Options) (Stats, error) {
	var stats Stats

	records, err := index.Read(opts.IndexPath)
	if err != nil {
		return stats, err
	}
	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return stats, fmt.Errorf("create preview dir: %w", err)
	}

	numWorkers := opts.Workers
	if numWorkers <= 0 {
		numWorkers = workers.ForCPU(0)
	}

	var bar *progressbar.ProgressBar
	if opts.Progress {
		bar = progressbar.NewOptions64(int64(len(records)),
			progressbar.OptionSetDescription("Previews"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionOnCompletion(func() { fmt.Fprint(os.Stderr, "\n") }),
		)
		defer bar.Close()
	}

	var mu sync.Mutex
	locks := newHashLocks()

	recCh := make(chan record.MediaRecord)
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rec := range recCh {
				outcome := generateOne(ctx, rec, opts, locks)
				mu.Lock()
				outcome.applyTo(&stats)
				mu.Unlock()
				if bar != nil {
					_ = bar.Add(1)
				}
			}
		}()
	}

	for _, rec := range records {
		select {
		case <-ctx.Done():
		case recCh <- rec:
			continue
		}
		break
	}
	close(recCh)
	wg.Wait()

	return stats, ctx.Err()
}

// outcome is one item's contribution to the stats, applied under the lock.
type outcome struct {
	photoSeen, videoSeen bool
	created, skipped     bool
	err                  error
	rel                  string
}

func (o outcome) applyTo(s *Stats) {
	switch {
	case o.photoSeen:
		s.PhotosSeen++
		if o.created {
			s.PhotoCreated++
		}
		if o.skipped {
			s.PhotoSkipped++
		}
	case o.videoSeen:
		s.VideosSeen++
		if o.created {
			s.VideoCreated++
		}
		if o.skipped {
			s.VideoSkipped++
		}
	}
	if o.err != nil {
		s.Errors++
		s.LastError = fmt.Sprintf("%s: %v", o.rel, o.err)
		if len(s.FileErrors) < maxFileErrors {
			s.FileErrors = append(s.FileErrors, FileError{Path: o.rel, Err: o.err})
		}
	}
}

func generateOne(ctx context.Context, rec record.MediaRecord, opts Options, locks *hashLocks) outcome {
	if rec.SHA256 == "" || rec.RelativePath == "" {
		return outcome{}
	}
	src := filepath.Join(opts.Root, filepath.FromSlash(rec.RelativePath))

	switch rec.Type {
	case string(classify.KindPhoto):
		o := outcome{photoSeen: true, rel: rec.RelativePath}
		dst := filepath.Join(opts.OutDir, rec.SHA256+".webp")

		// One builder per hash at a time; duplicates of the same content
		// resolve to a single artifact.
		unlock := locks.lock(rec.SHA256)
		defer unlock()

		if fileExists(dst) {
			o.skipped = true
			return o
		}
		if err := generatePhoto(ctx, src, dst, opts.MaxSide, opts.Quality); err != nil {
			o.err = err
			return o
		}
		o.created = true
		return o

	case string(classify.KindVideo):
		o := outcome{videoSeen: true, rel: rec.RelativePath}
		if !opts.VideoPreviews {
			o.skipped = true
			return o
		}
		dst := filepath.Join(opts.OutDir, rec.SHA256+".mp4")

		unlock := locks.lock(rec.SHA256)
		defer unlock()

		if fileExists(dst) {
			o.skipped = true
			return o
		}
		if err := generateVideo(ctx, src, dst, rec.Height, rec.FPS, opts.VideoCRF, opts.FPSCap); err != nil {
			o.err = err
			return o
		}
		o.created = true
		return o
	}
	return outcome{}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// writeArtifact lands bytes next to the destination and renames into
// place, so a crash never leaves a half-written artifact under its final
// name.
func writeArtifact(dst string, data []byte) error {
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalize artifact: %w", err)
	}
	logging.Debug("preview written: %s", dst)
	return nil
}
