package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/marceldev/mediadex/internal/logging"
)

// probeFormat mirrors the "format" object of ffprobe's JSON output.
type probeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	BitRate    string `json:"bit_rate"`
	Tags       struct {
		CreationTime string `json:"creation_time"`
	} `json:"tags"`
}

// probeStream mirrors one entry of the "streams" array.
type probeStream struct {
	CodecType    string `json:"codec_type"`
	CodecName    string `json:"codec_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"`
	Tags         struct {
		CreationTime string `json:"creation_time"`
	} `json:"tags"`
}

type probeOutput struct {
	Format  probeFormat   `json:"format"`
	Streams []probeStream `json:"streams"`
}

// creationTimeLayouts covers the timestamp shapes containers emit.
var creationTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000000Z",
	"2006-01-02 15:04:05",
}

// Video reads container metadata via ffprobe. An unparseable container, a
// failing probe or a missing ffprobe binary all yield an all-null Meta and
// a nil error; video extraction failures never abort a scan.
func Video(ctx context.Context, path string) Meta {
	var meta Meta

	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		logging.Debug("ffprobe failed for %s: %v (%s)", path, err, stderr.String())
		return meta
	}

	var probe probeOutput
	if err := json.Unmarshal(stdout.Bytes(), &probe); err != nil {
		logging.Debug("ffprobe output unparseable for %s: %v", path, err)
		return meta
	}

	return metaFromProbe(probe)
}

// metaFromProbe maps a decoded probe result onto the fixed metadata shape.
// Split out from Video so parsing is testable without an ffprobe binary.
func metaFromProbe(probe probeOutput) Meta {
	var meta Meta

	if probe.Format.FormatName != "" {
		meta.Container = strPtr(probe.Format.FormatName)
	}
	if d, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
		meta.DurationSec = floatPtr(d)
	}
	if br, err := strconv.ParseInt(probe.Format.BitRate, 10, 64); err == nil {
		meta.Bitrate = int64Ptr(br)
	}

	creation := probe.Format.Tags.CreationTime

	for _, stream := range probe.Streams {
		switch stream.CodecType {
		case "video":
			if meta.VideoCodec == nil && stream.CodecName != "" {
				meta.VideoCodec = strPtr(stream.CodecName)
			}
			if meta.Width == nil && stream.Width > 0 {
				meta.Width = intPtr(stream.Width)
				meta.Height = intPtr(stream.Height)
			}
			if meta.FPS == nil {
				if fps, ok := parseFrameRate(stream.AvgFrameRate); ok {
					meta.FPS = floatPtr(fps)
				}
			}
			if creation == "" {
				creation = stream.Tags.CreationTime
			}
		case "audio":
			if meta.AudioCodec == nil && stream.CodecName != "" {
				meta.AudioCodec = strPtr(stream.CodecName)
			}
		}
	}

	// The flat record exposes a single "codec" field; it tracks the video
	// stream's codec.
	meta.Codec = meta.VideoCodec

	if t, ok := parseCreationTime(creation); ok {
		meta.CapturedAt = timePtr(t)
	}

	return meta
}

// parseFrameRate parses ffprobe's rational frame rates ("30000/1001").
func parseFrameRate(rate string) (float64, bool) {
	if rate == "" || rate == "0/0" {
		return 0, false
	}
	num, den, found := strings.Cut(rate, "/")
	if !found {
		f, err := strconv.ParseFloat(rate, 64)
		return f, err == nil && f > 0
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 || n <= 0 {
		return 0, false
	}
	return n / d, true
}

func parseCreationTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	// Layouts without zone information parse as UTC.
	for _, layout := range creationTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
