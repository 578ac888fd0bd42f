// Package workers sizes worker pools for parallel file processing.
package workers

import (
	"os"
	"runtime"
	"strconv"
)

// Count returns a worker count for a task with the given CPU multiplier,
// capped at limit (0 = no cap). GOMAXPROCS reflects container CPU limits
// since Go 1.19, so this stays honest inside cgroups.
//
// The MEDIADEX_WORKERS environment variable overrides the computed value.
func Count(multiplier float64, limit int) int {
	if override := os.Getenv("MEDIADEX_WORKERS"); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			if limit > 0 && count > limit {
				return limit
			}
			return count
		}
	}

	workers := int(float64(runtime.GOMAXPROCS(0)) * multiplier)
	if workers < 1 {
		workers = 1
	}
	if limit > 0 && workers > limit {
		workers = limit
	}
	return workers
}

// ForCPU returns a worker count for CPU-bound tasks (1 per CPU).
func ForCPU(limit int) int {
	return Count(1.0, limit)
}

// ForMixed returns a worker count for mixed CPU/I-O tasks (1.5 per CPU).
// Hashing plus metadata extraction falls in this bucket.
func ForMixed(limit int) int {
	return Count(1.5, limit)
}
