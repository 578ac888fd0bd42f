package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marceldev/mediadex/internal/preview"
)

var previewCmd = &cobra.Command{
	Use:   "preview [folder]",
	Short: "Generate content-addressed preview artifacts from the index",
	Long: `Preview reads the scan index and derives a scaled webp artifact per
photo, named by content hash. Existing artifacts are skipped, so repeated
runs only do new work. Video previews (downscaled, frame-rate-capped mp4,
audio dropped) are generated only with --video-previews or the
video_previews config setting.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		indexPath, _ := cmd.Flags().GetString("index")
		outDir, _ := cmd.Flags().GetString("out")
		maxSide, _ := cmd.Flags().GetInt("max-side")
		quality, _ := cmd.Flags().GetInt("quality")
		videoCRF, _ := cmd.Flags().GetInt("video-crf")
		fpsCap, _ := cmd.Flags().GetInt("fps-cap")
		numWorkers, _ := cmd.Flags().GetInt("workers")

		videoPreviews := cfg.VideoPreviews
		if cmd.Flags().Changed("video-previews") {
			videoPreviews, _ = cmd.Flags().GetBool("video-previews")
		}

		if indexPath == "" {
			indexPath = cfg.IndexPath
		}
		if outDir == "" {
			outDir = cfg.PreviewDir
		}
		if maxSide == 0 {
			maxSide = cfg.MaxSide
		}
		if quality == 0 {
			quality = cfg.Quality
		}
		if videoCRF == 0 {
			videoCRF = cfg.VideoCRF
		}
		if fpsCap == 0 {
			fpsCap = cfg.FPSCap
		}
		if numWorkers == 0 {
			numWorkers = cfg.Workers
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		stats, err := preview.Run(ctx, preview.Options{
			Root:          args[0],
			IndexPath:     indexPath,
			OutDir:        outDir,
			MaxSide:       maxSide,
			Quality:       quality,
			VideoPreviews: videoPreviews,
			VideoCRF:      videoCRF,
			FPSCap:        fpsCap,
			Workers:       numWorkers,
			Progress:      true,
		})
		if err != nil {
			return err
		}

		fmt.Printf("\nPreview generation complete\n")
		fmt.Printf("  Photos seen:            %d\n", stats.PhotosSeen)
		fmt.Printf("  Photo previews created: %d\n", stats.PhotoCreated)
		fmt.Printf("  Photo previews skipped: %d\n", stats.PhotoSkipped)
		fmt.Printf("  Videos seen:            %d\n", stats.VideosSeen)
		fmt.Printf("  Video previews created: %d\n", stats.VideoCreated)
		fmt.Printf("  Video previews skipped: %d\n", stats.VideoSkipped)
		fmt.Printf("  Errors:                 %d\n", stats.Errors)
		if stats.LastError != "" {
			fmt.Printf("  Last error: %s\n", stats.LastError)
		}
		fmt.Printf("  Output: %s\n", outDir)
		return nil
	},
}

func init() {
	previewCmd.Flags().String("index", "", "Index file (JSONL)")
	previewCmd.Flags().String("out", "", "Preview output directory")
	previewCmd.Flags().Int("max-side", 0, "Maximum photo preview dimension in pixels")
	previewCmd.Flags().Int("quality", 0, "WebP quality (1-100)")
	previewCmd.Flags().Bool("video-previews", false, "Also generate video previews")
	previewCmd.Flags().Int("video-crf", 0, "x264 CRF for video previews")
	previewCmd.Flags().Int("fps-cap", 0, "Maximum video preview frame rate")
	previewCmd.Flags().IntP("workers", "w", 0, "Worker count (0 = auto)")

	rootCmd.AddCommand(previewCmd)
}
