// Package scanner walks a library source two levels deep (source, manga,
// chapter) and reports what it finds to a domain.Library.
package scanner

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"mangashelf/internal/cover"
	"mangashelf/internal/domain"
	"mangashelf/internal/files"
	"mangashelf/internal/logger"
	"mangashelf/internal/metrics"
	"mangashelf/internal/page"
	"mangashelf/internal/parse"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Result holds the totals of one scan. Only entities the Library accepted
// are counted.
type Result struct {
	Mangas   int
	Chapters int
}

type Scanner struct {
	log     logger.Logger
	library domain.Library
}

func New(log logger.Logger, library domain.Library) *Scanner {
	return &Scanner{
		log:     log,
		library: library,
	}
}

// Scan discovers every manga under src.Path and emits each one to the
// Library, immediately followed by its chapters in discovery order. Entries
// that can't be read are skipped. The only error returned is ctx's, checked
// between mangas.
func (s *Scanner) Scan(ctx context.Context, src domain.Source) (Result, error) {
	var result Result

	l := s.log.With().
		Str("scan", uuid.NewString()).
		Str("source", src.Name).
		Logger()

	start := time.Now()
	metrics.ScanRunsTotal.Inc()
	defer func() {
		metrics.ScanDuration.Observe(time.Since(start).Seconds())
	}()

	mangaDirs := s.mangaDirs(&l, src.Path)

	l.Info().Str("path", src.Path).Int("candidates", len(mangaDirs)).Msg("scan started")

	for _, dir := range mangaDirs {
		if err := ctx.Err(); err != nil {
			l.Warn().Err(err).Msg("scan cancelled")
			return result, err
		}

		manga, ok := s.discoverManga(&l, dir)
		if !ok {
			continue
		}

		mangaID, err := s.library.AddManga(ctx, src.ID, manga)
		if err != nil {
			l.Error().Err(err).Str("manga", manga.Title).Msg("could not store manga")
			metrics.ScanEntriesSkipped.WithLabelValues("store_error").Inc()
			continue
		}

		result.Mangas++
		metrics.MangasDiscovered.Inc()

		for _, chapter := range manga.Chapters {
			if _, err := s.library.AddChapter(ctx, mangaID, chapter); err != nil {
				l.Error().Err(err).Str("manga", manga.Title).Str("path", chapter.Path).Msg("could not store chapter")
				metrics.ScanEntriesSkipped.WithLabelValues("store_error").Inc()
				continue
			}

			result.Chapters++
			metrics.ChaptersDiscovered.Inc()
		}

		l.Debug().Str("manga", manga.Title).Int("chapters", len(manga.Chapters)).Msg("manga stored")
	}

	l.Info().
		Int("mangas", result.Mangas).
		Int("chapters", result.Chapters).
		Dur("took", time.Since(start)).
		Msg("scan finished")

	return result, nil
}

// Discover returns the mangas under root without emitting them anywhere.
func (s *Scanner) Discover(ctx context.Context, root string) ([]domain.Manga, error) {
	l := s.log.With().Str("scan", uuid.NewString()).Logger()

	var mangas []domain.Manga
	for _, dir := range s.mangaDirs(&l, root) {
		if err := ctx.Err(); err != nil {
			return mangas, err
		}

		if manga, ok := s.discoverManga(&l, dir); ok {
			mangas = append(mangas, manga)
		}
	}

	return mangas, nil
}

// DiscoverManga classifies the entries of a single manga directory. ok is
// false when the directory holds no chapters.
func (s *Scanner) DiscoverManga(mangaDir string) (domain.Manga, bool) {
	l := s.log.With().Logger()
	return s.discoverManga(&l, mangaDir)
}

// mangaDirs lists the directories directly under root, sorted by name. A
// root that is not a readable directory yields nothing.
func (s *Scanner) mangaDirs(l *zerolog.Logger, root string) []string {
	info, err := files.Stat(root)
	if err != nil || !info.IsDir() {
		l.Warn().Str("path", root).Msg("source root is not a directory")
		return nil
	}

	entries, err := files.ReadDir(root)
	if err != nil {
		l.Warn().Err(err).Str("path", root).Msg("could not list source root")
		return nil
	}

	var dirs []string
	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())

		info, err := files.Stat(path)
		if err != nil {
			l.Debug().Err(err).Str("path", path).Msg("skipping unreadable entry")
			metrics.ScanEntriesSkipped.WithLabelValues("unreadable").Inc()
			continue
		}
		if !info.IsDir() {
			continue
		}

		dirs = append(dirs, path)
	}

	return dirs
}

func (s *Scanner) discoverManga(l *zerolog.Logger, mangaDir string) (domain.Manga, bool) {
	entries, err := files.ReadDir(mangaDir)
	if err != nil {
		l.Warn().Err(err).Str("path", mangaDir).Msg("could not list manga directory")
		metrics.ScanEntriesSkipped.WithLabelValues("unreadable").Inc()
		return domain.Manga{}, false
	}

	var chapters []domain.Chapter
	for _, entry := range entries {
		if chapter, ok := discoverChapter(l, filepath.Join(mangaDir, entry.Name())); ok {
			chapters = append(chapters, chapter)
		}
	}

	if len(chapters) == 0 {
		l.Debug().Str("path", mangaDir).Msg("no chapters found, skipping")
		metrics.ScanEntriesSkipped.WithLabelValues("no_chapters").Inc()
		return domain.Manga{}, false
	}

	coverPath, _ := cover.Pick(mangaDir)

	return domain.Manga{
		Title:     filepath.Base(mangaDir),
		CoverPath: coverPath,
		Chapters:  chapters,
	}, true
}

// discoverChapter accepts any valid archive, even one without pages, but
// only directories that hold at least one page.
func discoverChapter(l *zerolog.Logger, path string) (domain.Chapter, bool) {
	name := filepath.Base(path)

	var title string
	var pageCount int

	switch page.Classify(path) {
	case page.KindArchive:
		title = strings.TrimSuffix(name, filepath.Ext(name))
		pageCount = page.Count(path)

	case page.KindDirectory:
		pageCount = page.Count(path)
		if pageCount == 0 {
			l.Trace().Str("path", path).Msg("directory without pages, skipping")
			return domain.Chapter{}, false
		}
		title = name

	default:
		if files.IsArchiveName(name) {
			l.Warn().Str("path", path).Msg("skipping unreadable archive")
			metrics.ScanEntriesSkipped.WithLabelValues("unreadable").Inc()
		}
		return domain.Chapter{}, false
	}

	return domain.Chapter{
		Number:    parse.ExtractNumber(title),
		Title:     title,
		Path:      path,
		PageCount: pageCount,
	}, true
}
