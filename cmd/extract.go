package cmd

import (
	"fmt"

	"mangashelf/internal/files"
	"mangashelf/internal/page"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <archive>",
	Short: "Extract all pages of a CBZ/ZIP archive into a directory",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		if !page.IsArchive(args[0]) {
			fail("Not a valid comic archive: %s", args[0])
		}

		dir, err := files.ExtractArchive(args[0], extractOutput)
		if err != nil {
			fail("Failed to extract %q: %v", args[0], err)
		}

		fmt.Println(dir)
	},
}
