// Package extract pulls embedded metadata out of photo and video files.
//
// Extraction is best-effort by contract: a malformed or absent tag group
// yields null fields, never an error. Only an unreadable or undecodable
// file surfaces as an error, and callers treat that as "no metadata".
// Extraction never invents a capture time; the record builder applies the
// filesystem-mtime fallback.
package extract

import "time"

// Meta is the fixed-shape metadata object shared by both media kinds.
// Fields that do not apply to a kind stay nil.
type Meta struct {
	CapturedAt  *time.Time
	Width       *int
	Height      *int
	DurationSec *float64
	GPSLat      *float64
	GPSLon      *float64
	CameraMake  *string
	CameraModel *string
	Orientation *int
	Codec       *string
	VideoCodec  *string
	AudioCodec  *string
	Container   *string
	Bitrate     *int64
	FPS         *float64
}

func strPtr(s string) *string        { return &s }
func intPtr(i int) *int              { return &i }
func int64Ptr(i int64) *int64        { return &i }
func floatPtr(f float64) *float64    { return &f }
func timePtr(t time.Time) *time.Time { return &t }
