package cmd

import (
	"strconv"

	"mangashelf/internal/page"
	"mangashelf/internal/thumbnail"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var thumbnailCmd = &cobra.Command{
	Use:   "thumbnail <chapter> <index>",
	Short: "Write a JPEG thumbnail of a single page",
	Args:  cobra.ExactArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		a := loadApp()

		index, err := strconv.Atoi(args[1])
		if err != nil {
			fail("Invalid page index %q", args[1])
		}

		width := firstPositive(thumbWidth, a.cfg.Config.ThumbnailWidth, thumbnail.DefaultWidth)
		height := firstPositive(thumbHeight, a.cfg.Config.ThumbnailHeight, thumbnail.DefaultHeight)
		quality := firstPositive(thumbQuality, a.cfg.Config.ThumbnailQuality, thumbnail.DefaultQuality)

		src, err := page.Open(args[0])
		if err != nil {
			fail("Failed to open chapter: %v", err)
		}

		data, err := thumbnail.New(quality).Page(src, index, width, height)
		if errors.Is(err, thumbnail.ErrUnavailable) {
			a.log.Warn().Err(err).Str("path", args[0]).Int("page", index).Msg("thumbnail unavailable")
			fail("No thumbnail available for page %d", index)
		}
		if err != nil {
			fail("Failed to create thumbnail: %v", err)
		}

		if err := writeOutput(thumbOutput, data); err != nil {
			fail("Failed to write thumbnail: %v", err)
		}
	},
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}

	return 0
}
