// Package export writes chapters out as new CBZ or PDF files. Pages are read
// through the page package, so folder chapters and archive chapters export
// the same way. Source files are never modified.
package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"mangashelf/internal/domain"
	"mangashelf/internal/files"
	"mangashelf/internal/logger"
	"mangashelf/internal/page"
	"mangashelf/internal/sanitize"
	"mangashelf/internal/templater"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const DefaultNamingTemplate = "{manga:<.>} Ch. {num:3}{title: - <.>}"

type Format string

const (
	FormatCBZ Format = "cbz"
	FormatPDF Format = "pdf"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCBZ, FormatPDF:
		return f, nil
	default:
		return "", errors.Errorf("unknown export format %q (want cbz or pdf)", s)
	}
}

type Options struct {
	Format         Format
	NamingTemplate string
	DropOddWidths  bool
}

// OutputPath returns where a chapter is written: a folder per manga under
// outputDir, with the file named by the naming template.
func OutputPath(outputDir string, manga domain.Manga, chapter domain.Chapter, opts Options) string {
	tmpl := opts.NamingTemplate
	if tmpl == "" {
		tmpl = DefaultNamingTemplate
	}

	name := sanitize.Filename(templater.New(manga, chapter).ExecTemplate(tmpl))

	return filepath.Join(outputDir, sanitize.Filename(manga.Title), name+"."+string(opts.Format))
}

// Chapter writes the pages of chapter into a new file at outputPath.
func Chapter(ctx context.Context, outputPath string, chapter domain.Chapter, opts Options) error {
	src, err := page.Open(chapter.Path)
	if err != nil {
		return err
	}

	names := src.ListPages()
	if len(names) == 0 {
		return errors.Errorf("chapter %s has no pages", chapter.Path)
	}

	temp, err := os.MkdirTemp("", "mangashelf-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(temp)

	width := max(3, len(fmt.Sprint(len(names))))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			filenameNoExt := filepath.Join(temp, fmt.Sprintf("%0*d", width, i+1))
			return copyPage(src, i, name, filenameNoExt, opts.Format)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	switch opts.Format {
	case FormatPDF:
		return files.CreatePDF(temp, outputPath)
	default:
		return files.CreateCbzArchive(temp, outputPath, opts.DropOddWidths)
	}
}

// copyPage writes page index of src next to filenameNoExt. PDF output only
// takes formats fpdf can embed, so other pages are re-encoded as JPEG.
func copyPage(src page.Source, index int, name, filenameNoExt string, format Format) error {
	data, err := src.ReadPage(index)
	if err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(name))

	if format == FormatPDF && !files.IsPDFImage(name) {
		img, err := imaging.Decode(bytes.NewReader(data))
		if err != nil {
			return errors.Wrapf(err, "could not decode page %s", name)
		}

		return imaging.Save(img, filenameNoExt+".jpg", imaging.JPEGQuality(95))
	}

	return os.WriteFile(filenameNoExt+ext, data, 0o644)
}

// Chapters exports each chapter of manga concurrently, skipping chapters
// whose output file already exists. It returns how many were written and
// the first error encountered.
func Chapters(ctx context.Context, log logger.Logger, outputDir string, manga domain.Manga, chapters []domain.Chapter, opts Options) (int, error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		exported int
		firstErr error
	)

	for _, chapter := range chapters {
		chapter := chapter
		wg.Add(1)

		go func() {
			defer wg.Done()

			outputPath := OutputPath(outputDir, manga, chapter, opts)

			if _, err := os.Stat(outputPath); err == nil {
				log.Info().Str("path", outputPath).Msg("chapter already exported, skipping")
				return
			}

			log.Debug().Str("chapter", chapter.Path).Str("output", outputPath).Msg("exporting chapter")

			if err := Chapter(ctx, outputPath, chapter, opts); err != nil {
				log.Error().Err(err).Str("chapter", chapter.Path).Msg("could not export chapter")

				mu.Lock()
				if firstErr == nil {
					firstErr = errors.Wrapf(err, "export %s", chapter.Title)
				}
				mu.Unlock()
				return
			}

			log.Info().Str("path", outputPath).Msg("chapter exported")

			mu.Lock()
			exported++
			mu.Unlock()
		}()
	}

	wg.Wait()

	return exported, firstErr
}
