package domain

import (
	"cmp"
	"context"
	"slices"
)

// Source is a registered library root.
type Source struct {
	ID   int64
	Name string
	Path string
}

// Manga is one immediate subdirectory of a source root together with the
// chapters found inside it.
type Manga struct {
	Title     string
	CoverPath string
	Chapters  []Chapter
}

// Chapter is a single readable unit, either an archive or an image folder.
type Chapter struct {
	Number    float64
	Title     string
	Path      string
	PageCount int
}

// Library receives everything a scan discovers. Implementations own
// deduplication of repeated emissions.
type Library interface {
	// AddManga stores a manga (totalChapters = len(manga.Chapters)) and
	// returns its id for the chapters that follow.
	AddManga(ctx context.Context, sourceID int64, manga Manga) (int64, error)
	AddChapter(ctx context.Context, mangaID int64, chapter Chapter) (int64, error)
}

// SortChapters orders chapters by number. Chapters with equal numbers keep
// their current relative order, which for scanner output is the directory
// listing order.
func SortChapters(chapters []Chapter) {
	slices.SortStableFunc(chapters, func(a, b Chapter) int {
		return cmp.Compare(a.Number, b.Number)
	})
}
