package cmd

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"mangashelf/internal/domain"
	"mangashelf/internal/scanner"
	"mangashelf/internal/store"

	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan [source...]",
	Short: "Scan sources and index their mangas and chapters",
	Long: `Scan sources and index their mangas and chapters.

Without arguments every source from the config is scanned. Name sources to scan
only those, or use --path to scan a single directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		a := loadApp()
		a.cfg.DynamicReload(a.log)

		targets, err := scanTargets(a, args)
		if err != nil {
			fail("%v", err)
		}

		if len(targets) == 0 {
			fail("No sources to scan, add one to the config or use --path")
		}

		if dryRun {
			s := scanner.New(a.log, nil)

			for _, target := range targets {
				mangas, err := s.Discover(ctx, target.Path)
				if err != nil {
					fail("Scan of %q cancelled: %v", target.Name, err)
				}

				printTree(target, mangas)
			}

			return
		}

		st, err := store.Open(ctx, store.Config{Path: a.cfg.Config.DatabasePath}, a.log)
		if err != nil {
			fail("Failed to open database %q: %v", a.cfg.Config.DatabasePath, err)
		}
		defer st.Close()

		s := scanner.New(a.log, st)

		results := make([]scanner.Result, len(targets))
		errs := make([]error, len(targets))

		wg := sync.WaitGroup{}

		for i, target := range targets {
			i, target := i, target
			wg.Add(1)

			go func() {
				defer wg.Done()

				src, err := st.AddSource(ctx, target.Name, target.Path)
				if err != nil {
					errs[i] = err
					return
				}

				results[i], errs[i] = s.Scan(ctx, src)
			}()
		}

		wg.Wait()

		for i, target := range targets {
			if errs[i] != nil {
				fmt.Printf("%s: failed: %v\n", target.Name, errs[i])
				continue
			}

			fmt.Printf("%s: %d mangas, %d chapters\n", target.Name, results[i].Mangas, results[i].Chapters)
		}
	},
}

// scanTargets resolves the sources to scan, sorted by name.
func scanTargets(a *application, names []string) ([]domain.Source, error) {
	if scanPath != "" {
		abs, err := filepath.Abs(scanPath)
		if err != nil {
			return nil, err
		}

		return []domain.Source{{Name: filepath.Base(abs), Path: abs}}, nil
	}

	if len(names) == 0 {
		for name := range a.cfg.Config.Sources {
			names = append(names, name)
		}
	}

	var targets []domain.Source
	for _, name := range names {
		src, ok := a.cfg.Source(name)
		if !ok {
			return nil, fmt.Errorf("unknown source %q", name)
		}

		targets = append(targets, domain.Source{Name: name, Path: src.Path})
	}

	slices.SortFunc(targets, func(x, y domain.Source) int {
		return cmp.Compare(x.Name, y.Name)
	})

	return targets, nil
}

func printTree(src domain.Source, mangas []domain.Manga) {
	fmt.Printf("%s (%s)\n", src.Name, src.Path)

	for _, manga := range mangas {
		fmt.Printf("  %s", manga.Title)
		if manga.CoverPath != "" {
			fmt.Printf(" [cover: %s]", filepath.Base(manga.CoverPath))
		}
		fmt.Println()

		chapters := slices.Clone(manga.Chapters)
		domain.SortChapters(chapters)

		for _, chapter := range chapters {
			fmt.Printf("    %-8g %s (%d pages)\n", chapter.Number, chapter.Title, chapter.PageCount)
		}
	}
}
