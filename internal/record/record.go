// Package record defines the canonical per-file metadata record and its
// builder. Every indexed file produces exactly one MediaRecord; nullable
// fields are pointers so partial extraction yields explicit nulls instead
// of missing keys.
package record

import "time"

// MediaRecord is the flat, canonical metadata record for one indexed file.
// Identity is (relative_path, sha256): the path locates the file within a
// root, the hash identifies its content independent of location.
type MediaRecord struct {
	Type   string `json:"type"`
	SHA256 string `json:"sha256"`

	RelativePath string `json:"relative_path"`
	FileName     string `json:"file_name"`
	Stem         string `json:"stem"`
	Extension    string `json:"extension"`
	ParentFolder string `json:"parent_folder"`

	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
	IsHidden  bool   `json:"is_hidden"`

	CreatedAtFS  string `json:"created_at_fs"`
	ModifiedAtFS string `json:"modified_at_fs"`
	AccessedAtFS string `json:"accessed_at_fs"`

	ModeOctal *string `json:"mode_octal"`
	UID       *int    `json:"uid"`
	GID       *int    `json:"gid"`

	CapturedAt  *string  `json:"captured_at"`
	Width       *int     `json:"width"`
	Height      *int     `json:"height"`
	DurationSec *float64 `json:"duration_sec"`
	GPSLat      *float64 `json:"gps_lat"`
	GPSLon      *float64 `json:"gps_lon"`
	CameraMake  *string  `json:"camera_make"`
	CameraModel *string  `json:"camera_model"`
	Orientation *int     `json:"orientation"`

	Codec      *string  `json:"codec"`
	VideoCodec *string  `json:"video_codec"`
	AudioCodec *string  `json:"audio_codec"`
	Container  *string  `json:"container"`
	Bitrate    *int64   `json:"bitrate"`
	FPS        *float64 `json:"fps"`

	IsDuplicate bool    `json:"is_duplicate"`
	DuplicateOf *string `json:"duplicate_of"`
}

// ClearDuplicate resets duplicate state. "First seen" is a property of the
// current traversal, never of history, so duplicate fields carried in from
// the cache are untrusted and recomputed every scan.
func (r *MediaRecord) ClearDuplicate() {
	r.IsDuplicate = false
	r.DuplicateOf = nil
}

// ISOUTC renders a timestamp the way every timestamp in the index and the
// cache is rendered. Cache hits compare modified_at_fs strings byte for
// byte, so all producers must go through this one formatter.
func ISOUTC(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
