package cmd

import (
	"fmt"
	"path/filepath"

	"mangashelf/internal/domain"
	"mangashelf/internal/store"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var libraryCmd = &cobra.Command{
	Use:   "library [source]",
	Short: "List indexed mangas and chapters from the database",
	Long: `List indexed mangas and chapters from the database.

Without arguments every indexed source is listed. Run scan first to populate
the database.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		a := loadApp()

		st, err := store.Open(ctx, store.Config{Path: a.cfg.Config.DatabasePath}, a.log)
		if err != nil {
			fail("Failed to open database %q: %v", a.cfg.Config.DatabasePath, err)
		}
		defer st.Close()

		var sources []domain.Source
		if len(args) == 1 {
			src, err := st.SourceByName(ctx, args[0])
			if errors.Is(err, store.ErrNotFound) {
				fail("Source %q has not been scanned", args[0])
			} else if err != nil {
				fail("Failed to look up source %q: %v", args[0], err)
			}
			sources = append(sources, src)
		} else {
			sources, err = st.Sources(ctx)
			if err != nil {
				fail("Failed to list sources: %v", err)
			}
		}

		if len(sources) == 0 {
			fmt.Println("No sources indexed yet")
			return
		}

		for _, src := range sources {
			if err := printIndexed(cmd, st, src); err != nil {
				fail("Failed to list %q: %v", src.Name, err)
			}
		}
	},
}

func printIndexed(cmd *cobra.Command, st *store.Store, src domain.Source) error {
	ctx := cmd.Context()

	mangas, err := st.Mangas(ctx, src.ID)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", src.Name, src.Path)

	for _, manga := range mangas {
		fmt.Printf("  %s (%d chapters)", manga.Title, manga.TotalChapters)
		if manga.CoverPath != "" {
			fmt.Printf(" [cover: %s]", filepath.Base(manga.CoverPath))
		}
		fmt.Println()

		chapters, err := st.Chapters(ctx, manga.ID)
		if err != nil {
			return err
		}

		for _, chapter := range chapters {
			fmt.Printf("    %-8g %s (%d pages)\n", chapter.Number, chapter.Title, chapter.PageCount)
		}
	}

	return nil
}
