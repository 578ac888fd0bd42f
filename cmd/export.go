package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marceldev/mediadex/internal/webexport"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a web-ready manifest and preview set",
	Long: `Export projects the photo records of the index into a data.json
manifest inside the web public directory and copies the matching preview
artifacts alongside it. Records without a preview are still listed, so a
missing artifact shows up as a count rather than a hole in the manifest.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		publicDir, _ := cmd.Flags().GetString("web-public")
		indexPath, _ := cmd.Flags().GetString("index")
		previewsDir, _ := cmd.Flags().GetString("previews")

		if indexPath == "" {
			indexPath = cfg.IndexPath
		}
		if previewsDir == "" {
			previewsDir = cfg.PreviewDir
		}

		stats, err := webexport.Run(webexport.Options{
			IndexPath:   indexPath,
			PreviewsDir: previewsDir,
			PublicDir:   publicDir,
		})
		if err != nil {
			return err
		}

		fmt.Printf("\nExport complete\n")
		fmt.Printf("  Items exported:   %d\n", stats.Exported)
		fmt.Printf("  Previews copied:  %d\n", stats.Copied)
		fmt.Printf("  Previews missing: %d\n", stats.Missing)
		fmt.Printf("  Manifest: %s\n", stats.ManifestPath)
		fmt.Printf("  Previews: %s\n", stats.PreviewsPath)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("web-public", "", "Web public directory to export into")
	exportCmd.Flags().String("index", "", "Index file (JSONL)")
	exportCmd.Flags().String("previews", "", "Preview artifact directory")
	exportCmd.MarkFlagRequired("web-public")

	rootCmd.AddCommand(exportCmd)
}
