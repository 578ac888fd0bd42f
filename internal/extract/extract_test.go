package extract

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDegreesFromDMS(t *testing.T) {
	tests := []struct {
		name string
		dms  [3][2]int64
		ref  string
		want float64
	}{
		{"north", [3][2]int64{{48, 1}, {51, 1}, {2979, 100}}, "N", 48.858275},
		{"south", [3][2]int64{{33, 1}, {52, 1}, {0, 1}}, "S", -33.866666},
		{"east", [3][2]int64{{2, 1}, {17, 1}, {40, 1}}, "E", 2.294444},
		{"west", [3][2]int64{{122, 1}, {25, 1}, {0, 1}}, "W", -122.416666},
		{"fractional degrees", [3][2]int64{{485, 10}, {0, 1}, {0, 1}}, "N", 48.5},
	}

	for _, tt := range tests {
		deg, ok := degreesFromDMS(tt.dms, tt.ref)
		if !ok {
			t.Errorf("%s: conversion unexpectedly failed", tt.name)
			continue
		}
		if math.Abs(deg-tt.want) > 1e-4 {
			t.Errorf("%s: got %f, want %f", tt.name, deg, tt.want)
		}
	}
}

func TestDegreesFromDMS_ZeroDenominator(t *testing.T) {
	_, ok := degreesFromDMS([3][2]int64{{48, 1}, {51, 0}, {0, 1}}, "N")
	if ok {
		t.Error("Expected failure for zero denominator")
	}
}

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"30/1", 30, true},
		{"30000/1001", 29.97, true},
		{"25", 25, true},
		{"0/0", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"0/1", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseFrameRate(tt.in)
		if ok != tt.ok {
			t.Errorf("parseFrameRate(%q): ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && math.Abs(got-tt.want) > 0.01 {
			t.Errorf("parseFrameRate(%q) = %f, want %f", tt.in, got, tt.want)
		}
	}
}

func TestParseCreationTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2023-07-14T12:30:45.000000Z", time.Date(2023, 7, 14, 12, 30, 45, 0, time.UTC), true},
		{"2023-07-14T12:30:45Z", time.Date(2023, 7, 14, 12, 30, 45, 0, time.UTC), true},
		{"2023-07-14 12:30:45", time.Date(2023, 7, 14, 12, 30, 45, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"not a timestamp", time.Time{}, false},
	}

	for _, tt := range tests {
		got, ok := parseCreationTime(tt.in)
		if ok != tt.ok {
			t.Errorf("parseCreationTime(%q): ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("parseCreationTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseCreationTime_OffsetNormalizedToUTC(t *testing.T) {
	got, ok := parseCreationTime("2023-07-14T14:30:45+02:00")
	if !ok {
		t.Fatal("Expected offset timestamp to parse")
	}
	want := time.Date(2023, 7, 14, 12, 30, 45, 0, time.UTC)
	if !got.Equal(want) || got.Location() != time.UTC {
		t.Errorf("Expected %v in UTC, got %v", want, got)
	}
}

func TestMetaFromProbe(t *testing.T) {
	raw := `{
		"format": {
			"format_name": "mov,mp4,m4a,3gp,3g2,mj2",
			"duration": "12.480000",
			"bit_rate": "8000000",
			"tags": {"creation_time": "2023-07-14T12:30:45.000000Z"}
		},
		"streams": [
			{"codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080, "avg_frame_rate": "30000/1001"},
			{"codec_type": "audio", "codec_name": "aac"}
		]
	}`

	var probe probeOutput
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		t.Fatalf("Failed to decode probe fixture: %v", err)
	}

	meta := metaFromProbe(probe)

	if meta.Container == nil || *meta.Container != "mov,mp4,m4a,3gp,3g2,mj2" {
		t.Error("Expected container from format_name")
	}
	if meta.DurationSec == nil || math.Abs(*meta.DurationSec-12.48) > 1e-9 {
		t.Error("Expected duration 12.48")
	}
	if meta.Bitrate == nil || *meta.Bitrate != 8000000 {
		t.Error("Expected bitrate 8000000")
	}
	if meta.VideoCodec == nil || *meta.VideoCodec != "h264" {
		t.Error("Expected video codec h264")
	}
	if meta.Codec == nil || *meta.Codec != "h264" {
		t.Error("Expected codec to mirror the video codec")
	}
	if meta.AudioCodec == nil || *meta.AudioCodec != "aac" {
		t.Error("Expected audio codec aac")
	}
	if meta.Width == nil || *meta.Width != 1920 || meta.Height == nil || *meta.Height != 1080 {
		t.Error("Expected 1920x1080 dimensions")
	}
	if meta.FPS == nil || math.Abs(*meta.FPS-29.97) > 0.01 {
		t.Error("Expected frame rate near 29.97")
	}
	if meta.CapturedAt == nil {
		t.Fatal("Expected capture time from format tags")
	}
	want := time.Date(2023, 7, 14, 12, 30, 45, 0, time.UTC)
	if !meta.CapturedAt.Equal(want) {
		t.Errorf("Expected capture time %v, got %v", want, *meta.CapturedAt)
	}
}

func TestMetaFromProbe_StreamCreationTimeFallback(t *testing.T) {
	probe := probeOutput{}
	probe.Streams = []probeStream{{CodecType: "video", CodecName: "hevc"}}
	probe.Streams[0].Tags.CreationTime = "2022-01-02T03:04:05Z"

	meta := metaFromProbe(probe)
	if meta.CapturedAt == nil {
		t.Fatal("Expected capture time from the video stream tags")
	}
	want := time.Date(2022, 1, 2, 3, 4, 5, 0, time.UTC)
	if !meta.CapturedAt.Equal(want) {
		t.Errorf("Expected %v, got %v", want, *meta.CapturedAt)
	}
}

func TestMetaFromProbe_Empty(t *testing.T) {
	meta := metaFromProbe(probeOutput{})
	if meta.Container != nil || meta.DurationSec != nil || meta.VideoCodec != nil ||
		meta.Width != nil || meta.FPS != nil || meta.CapturedAt != nil {
		t.Error("Expected all-null meta from an empty probe")
	}
}

func TestPhoto_Dimensions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.png")

	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		t.Fatalf("Failed to encode test image: %v", err)
	}
	f.Close()

	meta, err := Photo(path)
	if err != nil {
		t.Fatalf("Photo failed: %v", err)
	}

	if meta.Width == nil || *meta.Width != 64 {
		t.Error("Expected width 64")
	}
	if meta.Height == nil || *meta.Height != 48 {
		t.Error("Expected height 48")
	}
	// PNGs carry no EXIF; those fields stay null without an error.
	if meta.CameraMake != nil || meta.CapturedAt != nil || meta.GPSLat != nil {
		t.Error("Expected EXIF-derived fields to be null for a plain PNG")
	}
}

func TestPhoto_Undecodable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.jpg")
	if err := os.WriteFile(path, []byte("not an image"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	if _, err := Photo(path); err == nil {
		t.Fatal("Expected error for undecodable image")
	}
}
