package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marceldev/mediadex/internal/cache"
	"github.com/marceldev/mediadex/internal/index"
	"github.com/marceldev/mediadex/internal/scan"
)

var scanCmd = &cobra.Command{
	Use:   "scan [folder]",
	Short: "Index all media files under a folder",
	Long: `Scan walks the folder tree, classifies photo and video files,
fingerprints them by SHA256 and extracts embedded metadata. Unchanged
files (same size and modification time as the last scan) are served from
the cache without re-hashing. The full record set is written as JSONL.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		cachePath, _ := cmd.Flags().GetString("cache")
		backend, _ := cmd.Flags().GetString("cache-backend")
		numWorkers, _ := cmd.Flags().GetInt("workers")

		if out == "" {
			out = cfg.IndexPath
		}
		if cachePath == "" {
			cachePath = cfg.CachePath
		}
		if backend == "" {
			backend = cfg.CacheBackend
		}
		if numWorkers == 0 {
			numWorkers = cfg.Workers
		}
		if backend != cache.BackendFile && backend != cache.BackendSQLite {
			return fmt.Errorf("unknown cache backend %q", backend)
		}

		store, err := cache.Open(backend, cachePath)
		if err != nil {
			return err
		}
		defer store.Close()

		// Ctrl-C lets in-flight files finish, then flushes the cache.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		records, stats, err := scan.Run(ctx, scan.Options{
			Root:     args[0],
			Store:    store,
			Workers:  numWorkers,
			Progress: true,
		})
		if err != nil {
			return err
		}

		if err := index.Write(out, records); err != nil {
			return err
		}

		fmt.Printf("\nScan complete\n")
		fmt.Printf("  Files scanned:       %d\n", stats.Scanned)
		fmt.Printf("  Reused from cache:   %d\n", stats.FromCache)
		fmt.Printf("  Rehashed/extracted:  %d\n", stats.Rehashed)
		fmt.Printf("  Duplicates found:    %d\n", stats.Duplicates)
		fmt.Printf("    Photos: %d\n", stats.Photos)
		fmt.Printf("    Videos: %d\n", stats.Videos)
		fmt.Printf("  Errors:              %d\n", stats.Errors)
		for _, fe := range stats.FileErrors {
			fmt.Fprintf(os.Stderr, "    %s: %v\n", fe.Path, fe.Err)
		}
		fmt.Printf("  Index: %s\n", out)
		fmt.Printf("  Cache: %s\n", cachePath)
		return nil
	},
}

func init() {
	scanCmd.Flags().String("out", "", "Index output file (JSONL)")
	scanCmd.Flags().String("cache", "", "Scan cache file")
	scanCmd.Flags().String("cache-backend", "", "Cache backend: file or sqlite")
	scanCmd.Flags().IntP("workers", "w", 0, "Worker count (0 = auto)")

	rootCmd.AddCommand(scanCmd)
}
