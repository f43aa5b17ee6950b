package cmd

import (
	"fmt"
	"os"
	"strconv"

	"mangashelf/internal/page"

	"github.com/spf13/cobra"
)

var pagesCmd = &cobra.Command{
	Use:   "pages <chapter>",
	Short: "List the pages of a chapter archive or folder",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		src, err := page.Open(args[0])
		if err != nil {
			fail("Failed to open chapter: %v", err)
		}

		pages := src.ListPages()

		fmt.Printf("%s: %s, %d pages\n", src.Path(), src.Kind(), len(pages))
		for i, name := range pages {
			fmt.Printf("%4d  %s\n", i, name)
		}
	},
}

var pageCmd = &cobra.Command{
	Use:   "page <chapter> <index>",
	Short: "Write the raw bytes of a single page",
	Args:  cobra.ExactArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		index, err := strconv.Atoi(args[1])
		if err != nil {
			fail("Invalid page index %q", args[1])
		}

		data, err := page.ReadPage(args[0], index)
		if err != nil {
			fail("Failed to read page %d: %v", index, err)
		}

		if err := writeOutput(pageOutput, data); err != nil {
			fail("Failed to write page: %v", err)
		}
	},
}

// writeOutput writes data to path, or to stdout when path is "-" or empty.
func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
