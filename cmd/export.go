package cmd

import (
	"fmt"

	"mangashelf/internal/domain"
	"mangashelf/internal/export"
	"mangashelf/internal/files"
	"mangashelf/internal/parse"
	"mangashelf/internal/scanner"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <manga directory>",
	Short: "Export chapters of a manga to new CBZ or PDF files",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		a := loadApp()

		if !cmd.Flags().Changed("first") && !cmd.Flags().Changed("chapters") {
			latest = true
		}

		format, err := export.ParseFormat(exportFormat)
		if err != nil {
			fail("Invalid format: %v", err)
		}

		if err := files.IsValidLocation(exportOutput); err != nil {
			fail("Invalid location: %v", err)
		}

		if naming == "" {
			naming = a.cfg.Config.NamingTemplate
		}

		manga, ok := scanner.New(a.log, nil).DiscoverManga(args[0])
		if !ok {
			fail("No chapters found in %q", args[0])
		}

		chaptersByNumber := make(map[float64][]domain.Chapter)
		for _, chapter := range manga.Chapters {
			chaptersByNumber[chapter.Number] = append(chaptersByNumber[chapter.Number], chapter)
		}

		var selectedChapterNumbers []float64

		firstChapterNr, latestChapterNr, err := parse.GetMinAndMaxKeys(chaptersByNumber)
		if err != nil {
			fail("Failed to find chapter numbers for %q: %v", manga.Title, err)
		}

		switch {
		case first:
			selectedChapterNumbers = firstChapterNr
		case latest:
			selectedChapterNumbers = latestChapterNr
		default:
			selectedChapterNumbers, err = parse.ChapterSelection(chapterNumbers, chaptersByNumber)
			if err != nil {
				fail("Failed to parse chapter selection for %q: %v", manga.Title, err)
			}
		}

		var selected []domain.Chapter
		for _, num := range selectedChapterNumbers {
			chapters, ok := chaptersByNumber[num]
			if !ok {
				fmt.Printf("Failed to find chapter with number: %g\n", num)
				continue
			}
			selected = append(selected, chapters...)
		}

		if len(selected) == 0 {
			fail("Failed to find matching chapters in range %s for %q", chapterNumbers, manga.Title)
		}

		opts := export.Options{
			Format:         format,
			NamingTemplate: naming,
			DropOddWidths:  dropOddWidths,
		}

		exported, err := export.Chapters(ctx, a.log, exportOutput, manga, selected, opts)
		fmt.Printf("Exported %d of %d chapters of %q\n", exported, len(selected), manga.Title)
		if err != nil {
			fail("Export finished with errors: %v", err)
		}
	},
}
