// Package webexport projects the photo index into a flat web bundle: a
// data.json manifest plus a previews/ directory of copied artifacts.
package webexport

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/marceldev/mediadex/internal/classify"
	"github.com/marceldev/mediadex/internal/index"
	"github.com/marceldev/mediadex/internal/logging"
)

// ManifestName is the manifest file written into the public directory.
const ManifestName = "data.json"

// Options configures one export pass.
type Options struct {
	// IndexPath is the JSONL index to project.
	IndexPath string
	// PreviewsDir holds the generated <sha256>.webp artifacts.
	PreviewsDir string
	// PublicDir receives data.json and the previews/ subdirectory.
	PublicDir string
}

// Item is the read-only manifest projection of one photo record.
type Item struct {
	SHA256       string   `json:"sha256"`
	FileName     string   `json:"file_name"`
	RelativePath string   `json:"relative_path"`
	ParentFolder string   `json:"parent_folder"`
	CapturedAt   *string  `json:"captured_at"`
	Width        *int     `json:"width"`
	Height       *int     `json:"height"`
	SizeBytes    int64    `json:"size_bytes"`
	CameraMake   *string  `json:"camera_make"`
	CameraModel  *string  `json:"camera_model"`
	GPSLat       *float64 `json:"gps_lat"`
	GPSLon       *float64 `json:"gps_lon"`
	IsDuplicate  bool     `json:"is_duplicate"`
	DuplicateOf  *string  `json:"duplicate_of"`
	PreviewFile  string   `json:"preview_file"`
}

// Stats are the export counters.
type Stats struct {
	Exported int
	Copied   int
	Missing  int

	ManifestPath string
	PreviewsPath string
}

// Run builds the manifest and copies available preview artifacts into the
// public directory. Records whose artifact is missing are still exported;
// the front end renders a placeholder for them.
func Run(opts Options) (Stats, error) {
	var stats Stats

	records, err := index.Read(opts.IndexPath)
	if err != nil {
		return stats, err
	}

	outPreviews := filepath.Join(opts.PublicDir, "previews")
	if err := os.MkdirAll(outPreviews, 0755); err != nil {
		return stats, fmt.Errorf("create public previews dir: %w", err)
	}

	var items []Item
	for _, rec := range records {
		if rec.Type != string(classify.KindPhoto) || rec.SHA256 == "" {
			continue
		}

		previewName := rec.SHA256 + ".webp"
		srcPreview := filepath.Join(opts.PreviewsDir, previewName)

		if srcInfo, err := os.Stat(srcPreview); err == nil {
			copied, err := copyIfChanged(srcPreview, filepath.Join(outPreviews, previewName), srcInfo.Size())
			if err != nil {
				logging.Warn("preview copy failed for %s: %v", previewName, err)
			} else if copied {
				stats.Copied++
			}
		} else {
			stats.Missing++
		}

		items = append(items, Item{
			SHA256:       rec.SHA256,
			FileName:     rec.FileName,
			RelativePath: rec.RelativePath,
			ParentFolder: rec.ParentFolder,
			CapturedAt:   rec.CapturedAt,
			Width:        rec.Width,
			Height:       rec.Height,
			SizeBytes:    rec.SizeBytes,
			CameraMake:   rec.CameraMake,
			CameraModel:  rec.CameraModel,
			GPSLat:       rec.GPSLat,
			GPSLon:       rec.GPSLon,
			IsDuplicate:  rec.IsDuplicate,
			DuplicateOf:  rec.DuplicateOf,
			PreviewFile:  previewName,
		})
	}

	sortItems(items)

	manifestPath := filepath.Join(opts.PublicDir, ManifestName)
	if err := writeManifest(manifestPath, items); err != nil {
		return stats, err
	}

	stats.Exported = len(items)
	stats.ManifestPath = manifestPath
	stats.PreviewsPath = outPreviews
	return stats, nil
}

// sortItems orders descending by (captured_at, file_name), with a null
// capture time treated as empty string so undated items sort last.
func sortItems(items []Item) {
	key := func(it Item) (string, string) {
		ca := ""
		if it.CapturedAt != nil {
			ca = *it.CapturedAt
		}
		return ca, it.FileName
	}
	sort.SliceStable(items, func(i, j int) bool {
		ci, ni := key(items[i])
		cj, nj := key(items[j])
		if ci != cj {
			return ci > cj
		}
		return ni > nj
	})
}

// copyIfChanged copies src over dst only when dst is absent or its size
// differs, making repeated exports cheap.
func copyIfChanged(src, dst string, srcSize int64) (bool, error) {
	if dstInfo, err := os.Stat(dst); err == nil && dstInfo.Size() == srcSize {
		return false, nil
	}

	in, err := os.Open(src)
	if err != nil {
		return false, err
	}
	defer in.Close()

	tmp := dst + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return false, err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return false, err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return false, err
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return false, err
	}
	return true, nil
}

func writeManifest(path string, items []Item) error {
	if items == nil {
		items = []Item{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace manifest: %w", err)
	}
	return nil
}
