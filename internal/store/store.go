// Package store is the SQLite-backed domain.Library used by the CLI. It
// upserts by natural key so that rescanning an unchanged source leaves the
// tables as they were.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"mangashelf/internal/domain"
	"mangashelf/internal/logger"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const defaultTimeout = 5 * time.Second

var ErrNotFound = errors.New("not found")

type Config struct {
	Path string
}

type Store struct {
	db  *sql.DB
	log logger.Logger
}

// MangaRecord is a stored manga row.
type MangaRecord struct {
	ID            int64
	SourceID      int64
	Title         string
	CoverPath     string
	TotalChapters int
}

// Open creates the database file and its parent directory if needed and
// applies the schema.
func Open(ctx context.Context, cfg Config, log logger.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, errors.Wrap(err, "ensure data dir")
	}

	// foreign_keys is per connection, so it goes in the DSN
	dsn := cfg.Path + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping sqlite")
	}

	s := &Store{db: db, log: log}

	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "apply schema")
	}

	log.Debug().Str("path", cfg.Path).Msg("database opened")

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS sources (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		path TEXT NOT NULL UNIQUE,
		created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	CREATE TABLE IF NOT EXISTS mangas (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		cover_path TEXT NOT NULL DEFAULT '',
		total_chapters INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now')),
		updated_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now')),
		FOREIGN KEY (source_id) REFERENCES sources(id) ON DELETE CASCADE,
		UNIQUE(source_id, title)
	);

	CREATE TABLE IF NOT EXISTS chapters (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		manga_id INTEGER NOT NULL,
		chapter_number REAL NOT NULL DEFAULT 0,
		title TEXT NOT NULL,
		file_path TEXT NOT NULL,
		page_count INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now')),
		FOREIGN KEY (manga_id) REFERENCES mangas(id) ON DELETE CASCADE,
		UNIQUE(manga_id, file_path)
	);

	CREATE INDEX IF NOT EXISTS idx_chapters_manga_number ON chapters(manga_id, chapter_number);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// AddSource registers a library root, renaming it if the path is already known.
func (s *Store) AddSource(ctx context.Context, name, path string) (domain.Source, error) {
	const query = `
	INSERT INTO sources (name, path) VALUES (?, ?)
	ON CONFLICT(path) DO UPDATE SET name = excluded.name
	RETURNING id`

	var id int64
	if err := s.db.QueryRowContext(ctx, query, name, path).Scan(&id); err != nil {
		return domain.Source{}, errors.Wrapf(err, "add source %s", path)
	}

	return domain.Source{ID: id, Name: name, Path: path}, nil
}

func (s *Store) Sources(ctx context.Context) ([]domain.Source, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, path FROM sources ORDER BY name, id`)
	if err != nil {
		return nil, errors.Wrap(err, "list sources")
	}
	defer rows.Close()

	var sources []domain.Source
	for rows.Next() {
		var src domain.Source
		if err := rows.Scan(&src.ID, &src.Name, &src.Path); err != nil {
			return nil, errors.Wrap(err, "scan source")
		}
		sources = append(sources, src)
	}

	return sources, rows.Err()
}

func (s *Store) SourceByName(ctx context.Context, name string) (domain.Source, error) {
	src := domain.Source{Name: name}

	err := s.db.QueryRowContext(ctx, `SELECT id, path FROM sources WHERE name = ? ORDER BY id LIMIT 1`, name).
		Scan(&src.ID, &src.Path)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Source{}, errors.Wrapf(ErrNotFound, "source %q", name)
	}
	if err != nil {
		return domain.Source{}, errors.Wrapf(err, "get source %q", name)
	}

	return src, nil
}

// AddManga implements domain.Library.
func (s *Store) AddManga(ctx context.Context, sourceID int64, manga domain.Manga) (int64, error) {
	const query = `
	INSERT INTO mangas (source_id, title, cover_path, total_chapters) VALUES (?, ?, ?, ?)
	ON CONFLICT(source_id, title) DO UPDATE SET
		cover_path = excluded.cover_path,
		total_chapters = excluded.total_chapters,
		updated_at = strftime('%s', 'now')
	RETURNING id`

	var id int64
	err := s.db.QueryRowContext(ctx, query, sourceID, manga.Title, manga.CoverPath, len(manga.Chapters)).Scan(&id)
	if err != nil {
		return 0, errors.Wrapf(err, "add manga %q", manga.Title)
	}

	return id, nil
}

// AddChapter implements domain.Library.
func (s *Store) AddChapter(ctx context.Context, mangaID int64, chapter domain.Chapter) (int64, error) {
	const query = `
	INSERT INTO chapters (manga_id, chapter_number, title, file_path, page_count) VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(manga_id, file_path) DO UPDATE SET
		chapter_number = excluded.chapter_number,
		title = excluded.title,
		page_count = excluded.page_count
	RETURNING id`

	var id int64
	err := s.db.QueryRowContext(ctx, query, mangaID, chapter.Number, chapter.Title, chapter.Path, chapter.PageCount).Scan(&id)
	if err != nil {
		return 0, errors.Wrapf(err, "add chapter %s", chapter.Path)
	}

	return id, nil
}

func (s *Store) Mangas(ctx context.Context, sourceID int64) ([]MangaRecord, error) {
	const query = `
	SELECT id, source_id, title, cover_path, total_chapters
	FROM mangas WHERE source_id = ? ORDER BY title, id`

	rows, err := s.db.QueryContext(ctx, query, sourceID)
	if err != nil {
		return nil, errors.Wrap(err, "list mangas")
	}
	defer rows.Close()

	var mangas []MangaRecord
	for rows.Next() {
		var m MangaRecord
		if err := rows.Scan(&m.ID, &m.SourceID, &m.Title, &m.CoverPath, &m.TotalChapters); err != nil {
			return nil, errors.Wrap(err, "scan manga")
		}
		mangas = append(mangas, m)
	}

	return mangas, rows.Err()
}

// Chapters returns the chapters of a manga ordered by number. Equal numbers
// keep insertion order, which is the order the scanner discovered them in.
func (s *Store) Chapters(ctx context.Context, mangaID int64) ([]domain.Chapter, error) {
	const query = `
	SELECT chapter_number, title, file_path, page_count
	FROM chapters WHERE manga_id = ? ORDER BY chapter_number, id`

	rows, err := s.db.QueryContext(ctx, query, mangaID)
	if err != nil {
		return nil, errors.Wrap(err, "list chapters")
	}
	defer rows.Close()

	var chapters []domain.Chapter
	for rows.Next() {
		var c domain.Chapter
		if err := rows.Scan(&c.Number, &c.Title, &c.Path, &c.PageCount); err != nil {
			return nil, errors.Wrap(err, "scan chapter")
		}
		chapters = append(chapters, c)
	}

	return chapters, rows.Err()
}
