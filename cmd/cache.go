package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/marceldev/mediadex/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the scan cache",
}

var cacheStatCmd = &cobra.Command{
	Use:   "stat",
	Short: "Show cache file location, size, and entry counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cachePath, backend := cacheFlags(cmd)

		fileInfo, err := os.Stat(cachePath)
		if err != nil {
			return fmt.Errorf("could not access cache file: %w", err)
		}

		absPath, err := filepath.Abs(cachePath)
		if err != nil {
			absPath = cachePath
		}

		store, err := cache.Open(backend, cachePath)
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.Load()
		if err != nil {
			return fmt.Errorf("could not load cache: %w", err)
		}

		var totalSize int64
		oldest := time.Time{}
		newest := time.Time{}
		for _, entry := range entries {
			totalSize += entry.SizeBytes
			if t, err := time.Parse(time.RFC3339Nano, entry.ModifiedAtFS); err == nil {
				if oldest.IsZero() || t.Before(oldest) {
					oldest = t
				}
				if newest.IsZero() || t.After(newest) {
					newest = t
				}
			}
		}

		fmt.Println("Cache Statistics")
		fmt.Println("================")
		fmt.Println()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "Cache Path:\t%s\n", absPath)
		fmt.Fprintf(w, "Cache Backend:\t%s\n", backend)
		fmt.Fprintf(w, "Cache Size:\t%s\n", formatBytes(fileInfo.Size()))
		fmt.Fprintf(w, "Last Modified:\t%s\n", fileInfo.ModTime().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "\n")
		fmt.Fprintf(w, "Entries:\t%d\n", len(entries))
		fmt.Fprintf(w, "Media Size Tracked:\t%s\n", formatBytes(totalSize))
		if !oldest.IsZero() {
			fmt.Fprintf(w, "Oldest Media Mtime:\t%s\n", oldest.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintf(w, "Newest Media Mtime:\t%s\n", newest.Local().Format("2006-01-02 15:04:05"))
		}
		w.Flush()
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the cache so the next scan starts fresh",
	RunE: func(cmd *cobra.Command, args []string) error {
		cachePath, _ := cacheFlags(cmd)

		if err := os.Remove(cachePath); err != nil {
			if os.IsNotExist(err) {
				fmt.Printf("Cache already empty: %s\n", cachePath)
				return nil
			}
			return fmt.Errorf("could not remove cache: %w", err)
		}

		fmt.Printf("Cache cleared: %s\n", cachePath)
		return nil
	},
}

func cacheFlags(cmd *cobra.Command) (path, backend string) {
	path, _ = cmd.Flags().GetString("cache")
	backend, _ = cmd.Flags().GetString("cache-backend")
	if path == "" {
		path = cfg.CachePath
	}
	if backend == "" {
		backend = cfg.CacheBackend
	}
	return path, backend
}

func init() {
	for _, c := range []*cobra.Command{cacheStatCmd, cacheClearCmd} {
		c.Flags().String("cache", "", "Cache file")
		c.Flags().String("cache-backend", "", "Cache backend (file or sqlite)")
	}

	cacheCmd.AddCommand(cacheStatCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
