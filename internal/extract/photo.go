package extract

import (
	"fmt"
	"image"
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/marceldev/mediadex/internal/logging"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// exifTimeLayout is the timestamp format EXIF uses; it carries no zone and
// is treated as UTC.
const exifTimeLayout = "2006:01:02 15:04:05"

// Photo reads pixel dimensions and EXIF tags from an image file.
// An unreadable or undecodable container is an error; any single missing
// or malformed tag group only nulls its own fields.
func Photo(path string) (Meta, error) {
	var meta Meta

	f, err := os.Open(path)
	if err != nil {
		return meta, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return meta, fmt.Errorf("decode %s: %w", path, err)
	}
	meta.Width = intPtr(cfg.Width)
	meta.Height = intPtr(cfg.Height)

	// EXIF lives in a separate pass over the file; its absence is normal
	// (PNG screenshots, stripped images).
	ef, err := os.Open(path)
	if err != nil {
		return meta, nil
	}
	defer ef.Close()

	x, err := exif.Decode(ef)
	if err != nil {
		logging.Debug("no exif in %s: %v", path, err)
		return meta, nil
	}

	meta.CameraMake = tagString(x, exif.Make)
	meta.CameraModel = tagString(x, exif.Model)
	meta.Orientation = tagInt(x, exif.Orientation)
	meta.CapturedAt = tagTime(x, exif.DateTimeOriginal)
	if meta.CapturedAt == nil {
		meta.CapturedAt = tagTime(x, exif.DateTime)
	}

	meta.GPSLat = gpsCoordinate(x, exif.GPSLatitude, exif.GPSLatitudeRef)
	meta.GPSLon = gpsCoordinate(x, exif.GPSLongitude, exif.GPSLongitudeRef)

	return meta, nil
}

func tagString(x *exif.Exif, field exif.FieldName) *string {
	tag, err := x.Get(field)
	if err != nil {
		return nil
	}
	s, err := tag.StringVal()
	if err != nil {
		return nil
	}
	s = strings.TrimRight(s, "\x00 ")
	if s == "" {
		return nil
	}
	return strPtr(s)
}

func tagInt(x *exif.Exif, field exif.FieldName) *int {
	tag, err := x.Get(field)
	if err != nil {
		return nil
	}
	v, err := tag.Int(0)
	if err != nil {
		return nil
	}
	return intPtr(v)
}

func tagTime(x *exif.Exif, field exif.FieldName) *time.Time {
	tag, err := x.Get(field)
	if err != nil {
		return nil
	}
	s, err := tag.StringVal()
	if err != nil {
		return nil
	}
	t, err := time.ParseInLocation(exifTimeLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return nil
	}
	return timePtr(t)
}

// gpsCoordinate reads one DMS rational triple plus its hemisphere reference
// and converts to signed decimal degrees. Both tags must be present and
// well formed or the coordinate is null.
func gpsCoordinate(x *exif.Exif, coordField, refField exif.FieldName) *float64 {
	coordTag, err := x.Get(coordField)
	if err != nil {
		return nil
	}
	refTag, err := x.Get(refField)
	if err != nil {
		return nil
	}
	ref, err := refTag.StringVal()
	if err != nil {
		return nil
	}

	var dms [3][2]int64
	for i := 0; i < 3; i++ {
		num, den, err := coordTag.Rat2(i)
		if err != nil {
			return nil
		}
		dms[i] = [2]int64{num, den}
	}

	deg, ok := degreesFromDMS(dms, strings.TrimSpace(ref))
	if !ok {
		return nil
	}
	return floatPtr(deg)
}

// degreesFromDMS converts degree/minute/second rationals and a hemisphere
// reference into signed decimal degrees. South and west are negative.
func degreesFromDMS(dms [3][2]int64, ref string) (float64, bool) {
	divisors := [3]float64{1, 60, 3600}
	var deg float64
	for i, part := range dms {
		if part[1] == 0 {
			return 0, false
		}
		deg += float64(part[0]) / float64(part[1]) / divisors[i]
	}
	if ref == "S" || ref == "W" {
		deg = -deg
	}
	return deg, true
}
