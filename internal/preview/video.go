package preview

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// pickTargetHeight selects the preview height from a fixed ladder based on
// the source height; unknown heights land in the middle rung.
func pickTargetHeight(srcHeight *int) int {
	if srcHeight == nil || *srcHeight <= 0 {
		return 360
	}
	switch h := *srcHeight; {
	case h > 480:
		return 480
	case h > 360:
		return 360
	default:
		return 240
	}
}

// generateVideo re-encodes src into a downscaled, frame-rate-capped,
// audio-free mp4 preview via ffmpeg. The encode lands in a temp file and
// is renamed into place.
func generateVideo(ctx context.Context, src, dst string, srcHeight *int, srcFPS *float64, crf, fpsCap int) error {
	targetH := pickTargetHeight(srcHeight)

	// Cap the output frame rate, never raise it.
	outFPS := float64(fpsCap)
	if srcFPS != nil && *srcFPS > 0 && *srcFPS < outFPS {
		outFPS = *srcFPS
	}

	tmp := dst + ".tmp"
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-i", src,
		// -2 keeps the width even, as required by yuv420p.
		"-vf", fmt.Sprintf("scale=-2:%d", targetH),
		"-r", strconv.FormatFloat(outFPS, 'g', -1, 64),
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", strconv.Itoa(crf),
		"-pix_fmt", "yuv420p",
		"-an",
		"-movflags", "+faststart",
		"-f", "mp4",
		tmp,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("ffmpeg video preview: %w (%s)", err, stderr.String())
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalize artifact: %w", err)
	}
	return nil
}
