package preview

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"os/exec"
	"sync"

	"github.com/davidbyttow/govips/v2/vips"
	"github.com/disintegration/imaging"

	"github.com/marceldev/mediadex/internal/logging"
)

var (
	vipsOnce  sync.Once
	vipsMu    sync.Mutex
	vipsReady bool
)

// initVips starts libvips once, with conservative memory settings; vips
// shrinks during decode, which keeps large originals cheap.
func initVips() bool {
	vipsOnce.Do(func() {
		vips.LoggingSettings(func(domain string, level vips.LogLevel, msg string) {
			if level <= vips.LogLevelError {
				logging.Error("vips [%s] %s", domain, msg)
			}
		}, vips.LogLevelError)

		vips.Startup(&vips.Config{
			ConcurrencyLevel: 1,
			MaxCacheMem:      50 * 1024 * 1024,
			MaxCacheSize:     100,
		})

		vipsMu.Lock()
		vipsReady = true
		vipsMu.Unlock()
		logging.Debug("libvips initialized (version %s)", vips.Version)
	})

	vipsMu.Lock()
	defer vipsMu.Unlock()
	return vipsReady
}

// Shutdown releases libvips resources. Safe to call when vips never
// started.
func Shutdown() {
	vipsMu.Lock()
	defer vipsMu.Unlock()
	if vipsReady {
		vips.Shutdown()
		vipsReady = false
	}
}

// generatePhoto writes a scaled webp preview of src to dst. The vips path
// handles decode, orientation and webp encode in one pass; formats vips
// rejects fall back to a pure-Go decode piped through ffmpeg's webp
// encoder.
func generatePhoto(ctx context.Context, src, dst string, maxSide, quality int) error {
	if initVips() {
		if err := photoWithVips(src, dst, maxSide, quality); err == nil {
			return nil
		} else {
			logging.Debug("vips preview failed for %s, falling back: %v", src, err)
		}
	}
	return photoWithImaging(ctx, src, dst, maxSide, quality)
}

func photoWithVips(src, dst string, maxSide, quality int) error {
	ref, err := vips.LoadImageFromFile(src, vips.NewImportParams())
	if err != nil {
		return fmt.Errorf("vips load: %w", err)
	}
	defer ref.Close()

	if err := ref.AutoRotate(); err != nil {
		return fmt.Errorf("vips autorotate: %w", err)
	}

	w, h := ref.Width(), ref.Height()
	if tw, th, scale := fitWithin(w, h, maxSide); scale {
		if err := ref.Thumbnail(tw, th, vips.InterestingNone); err != nil {
			return fmt.Errorf("vips resize: %w", err)
		}
	}

	params := vips.NewWebpExportParams()
	params.Quality = quality
	data, _, err := ref.ExportWebp(params)
	if err != nil {
		return fmt.Errorf("vips webp export: %w", err)
	}

	return writeArtifact(dst, data)
}

// photoWithImaging decodes and orients with pure Go, then hands the frame
// to ffmpeg for webp encoding (no webp encoder exists in the Go stdlib).
func photoWithImaging(ctx context.Context, src, dst string, maxSide, quality int) error {
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	if _, _, scale := fitWithin(b.Dx(), b.Dy(), maxSide); scale {
		img = imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
	}

	var frame bytes.Buffer
	if err := png.Encode(&frame, img); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	tmp := dst + ".tmp"
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-f", "png_pipe",
		"-i", "pipe:0",
		"-c:v", "libwebp",
		"-quality", fmt.Sprintf("%d", quality),
		"-f", "webp",
		tmp,
	)
	cmd.Stdin = &frame
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("ffmpeg webp encode: %w (%s)", err, stderr.String())
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalize artifact: %w", err)
	}
	return nil
}

// fitWithin returns the dimensions that fit (w, h) inside a maxSide square
// without upscaling, and whether scaling is needed at all.
func fitWithin(w, h, maxSide int) (int, int, bool) {
	longer := w
	if h > longer {
		longer = h
	}
	if longer <= maxSide || longer == 0 {
		return w, h, false
	}
	ratio := float64(maxSide) / float64(longer)
	tw := int(float64(w) * ratio)
	th := int(float64(h) * ratio)
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}
	return tw, th, true
}
