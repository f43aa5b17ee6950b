package cmd

import (
	"fmt"
	"os"

	"mangashelf/internal/metrics"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mangashelf",
	Short: "Index and read a local manga and comic library.",
	Long: `Index and read a local manga and comic library.

A source is a directory of mangas; each manga is a directory holding its chapters
as CBZ/ZIP archives or plain folders of images.

Provide a configuration file using one of the following methods:
1. Use the --config <path> or -c <path> flag.
2. Place a config.yaml file in the default user configuration directory (e.g., ~/.config/mangashelf/).
3. Place a config.yaml file a folder inside your home directory (e.g., ~/.mangashelf/).
4. Place a config.yaml file in the directory of the binary.`,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if app == nil || app.metricsTextfile() == "" {
			return
		}

		if err := metrics.WriteTextfile(app.metricsTextfile()); err != nil {
			app.log.Error().Err(err).Str("path", app.metricsTextfile()).Msg("could not write metrics textfile")
		}
	},
}

func init() {
	initRootFlags()
	initScanFlags()
	initPageFlags()
	initThumbnailFlags()
	initExtractFlags()
	initExportFlags()

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(pagesCmd)
	rootCmd.AddCommand(pageCmd)
	rootCmd.AddCommand(thumbnailCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(libraryCmd)
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// fail prints to stderr and exits with status 1.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
