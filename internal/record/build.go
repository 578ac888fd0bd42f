package record

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/marceldev/mediadex/internal/classify"
	"github.com/marceldev/mediadex/internal/extract"
	"github.com/marceldev/mediadex/internal/logging"
)

// Build assembles a MediaRecord for one classified file. It stats the file
// once, decomposes the path relative to root with forward-slash separators,
// runs the extractor for the media kind and applies the capture-time
// fallback (filesystem mtime when the file embeds no timestamp).
//
// Duplicate fields are always zeroed here; duplicate assignment belongs to
// the scan pass, not to record construction.
func Build(ctx context.Context, path, root string, kind classify.Kind, sha string) (MediaRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		return MediaRecord{}, fmt.Errorf("stat %s: %w", path, err)
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return MediaRecord{}, fmt.Errorf("relativize %s: %w", path, err)
	}
	rel = filepath.ToSlash(rel)

	name := info.Name()
	ext := strings.ToLower(filepath.Ext(name))

	var meta extract.Meta
	switch kind {
	case classify.KindPhoto:
		meta, err = extract.Photo(path)
		if err != nil {
			// Contract: an undecodable image is "no metadata", not a
			// failed record.
			logging.Debug("photo metadata unavailable for %s: %v", rel, err)
			meta = extract.Meta{}
		}
	case classify.KindVideo:
		meta = extract.Video(ctx, path)
	}

	capturedAt := ISOUTC(info.ModTime())
	if meta.CapturedAt != nil {
		capturedAt = ISOUTC(*meta.CapturedAt)
	}

	created, accessed := extraTimes(info)
	mode, uid, gid := ownership(info)

	rec := MediaRecord{
		Type:   string(kind),
		SHA256: sha,

		RelativePath: rel,
		FileName:     name,
		Stem:         strings.TrimSuffix(name, filepath.Ext(name)),
		Extension:    ext,
		ParentFolder: filepath.Base(filepath.Dir(path)),

		MimeType:  classify.MimeType(ext),
		SizeBytes: info.Size(),
		IsHidden:  isHidden(path, name),

		CreatedAtFS:  ISOUTC(created),
		ModifiedAtFS: ISOUTC(info.ModTime()),
		AccessedAtFS: ISOUTC(accessed),

		ModeOctal: mode,
		UID:       uid,
		GID:       gid,

		CapturedAt:  &capturedAt,
		Width:       meta.Width,
		Height:      meta.Height,
		DurationSec: meta.DurationSec,
		GPSLat:      meta.GPSLat,
		GPSLon:      meta.GPSLon,
		CameraMake:  meta.CameraMake,
		CameraModel: meta.CameraModel,
		Orientation: meta.Orientation,

		Codec:      meta.Codec,
		VideoCodec: meta.VideoCodec,
		AudioCodec: meta.AudioCodec,
		Container:  meta.Container,
		Bitrate:    meta.Bitrate,
		FPS:        meta.FPS,
	}
	return rec, nil
}

// isHidden reports whether the file is hidden: a dot-prefixed name on every
// platform, plus the hidden attribute on Windows.
func isHidden(path, name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	return hiddenAttr(path)
}
