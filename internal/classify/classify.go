// Package classify maps file names to media kinds. Classification is pure:
// it looks at the name only and never touches the file contents.
package classify

import (
	"mime"
	"path/filepath"
	"strings"
)

// Kind is the media kind of a file.
type Kind string

const (
	// KindPhoto is a still image.
	KindPhoto Kind = "photo"
	// KindVideo is a video container.
	KindVideo Kind = "video"
	// KindNone is anything mediadex does not index.
	KindNone Kind = "none"
)

// PhotoExtensions maps lowercase extensions to supported photo formats.
var PhotoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".tif":  true,
	".tiff": true,
	".heic": true,
	".heif": true,
}

// VideoExtensions maps lowercase extensions to supported video formats.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
	".avi":  true,
	".webm": true,
	".m4v":  true,
	".3gp":  true,
	".mpeg": true,
	".mpg":  true,
	".wmv":  true,
	".ts":   true,
}

// MimeTypes maps lowercase extensions to their MIME types.
var MimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".heic": "image/heic",
	".heif": "image/heif",

	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".webm": "video/webm",
	".m4v":  "video/x-m4v",
	".3gp":  "video/3gpp",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".wmv":  "video/x-ms-wmv",
	".ts":   "video/mp2t",
}

// noiseNames are OS droppings that are never media, whatever their extension.
var noiseNames = map[string]bool{
	".ds_store":   true,
	"thumbs.db":   true,
	"desktop.ini": true,
}

// noiseSuffixes mark partially written downloads and editor temp files.
var noiseSuffixes = []string{".tmp", ".part", ".crdownload"}

// ShouldIgnore reports whether a file name is OS noise or a partial write.
func ShouldIgnore(name string) bool {
	lower := strings.ToLower(name)
	if noiseNames[lower] {
		return true
	}
	for _, suffix := range noiseSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// Detect classifies a file name as photo, video or none.
// Decision order: noise rejection, extension tables, MIME prefix fallback.
func Detect(name string) Kind {
	if ShouldIgnore(name) {
		return KindNone
	}

	ext := strings.ToLower(filepath.Ext(name))
	if PhotoExtensions[ext] {
		return KindPhoto
	}
	if VideoExtensions[ext] {
		return KindVideo
	}

	switch mimeType := MimeType(ext); {
	case strings.HasPrefix(mimeType, "image/"):
		return KindPhoto
	case strings.HasPrefix(mimeType, "video/"):
		return KindVideo
	}
	return KindNone
}

// MimeType returns the MIME type for a lowercase extension, consulting the
// local table first and the platform MIME database second.
// Returns "application/octet-stream" when nothing matches.
func MimeType(ext string) string {
	if m, ok := MimeTypes[ext]; ok {
		return m
	}
	if m := mime.TypeByExtension(ext); m != "" {
		// Strip any "; charset=..." suffix the platform table may add.
		if i := strings.Index(m, ";"); i != -1 {
			m = strings.TrimSpace(m[:i])
		}
		return m
	}
	return "application/octet-stream"
}
