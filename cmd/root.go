package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marceldev/mediadex/internal/config"
	"github.com/marceldev/mediadex/internal/preview"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "mediadex",
	Short: "Index a media tree, derive previews and export a web bundle",
	Long: `Mediadex indexes a folder tree of photos and videos. It extracts
embedded metadata, fingerprints every file by content hash, detects
duplicates and caches results so repeated scans over an unchanged tree
are cheap. Derived stages produce content-addressed preview artifacts
and a flat, web-consumable manifest.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Cleanup releases process-wide resources held by subcommands.
func Cleanup() {
	preview.Shutdown()
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
