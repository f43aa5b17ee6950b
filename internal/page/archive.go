package page

import (
	"archive/zip"
	"io"
	"sort"

	"mangashelf/internal/files"
	"mangashelf/internal/metrics"

	"github.com/pkg/errors"
)

// Archive serves pages from a CBZ/ZIP file. Each call opens the archive and
// closes it before returning.
type Archive struct {
	path string
}

func (a *Archive) Path() string {
	return a.path
}

func (a *Archive) Kind() Kind {
	return KindArchive
}

// open returns the archive reader and its page entries in page order.
// The caller closes the reader.
func (a *Archive) open() (*zip.ReadCloser, []*zip.File, error) {
	r, err := files.OpenZip(a.path)
	if err != nil {
		return nil, nil, errors.Wrapf(ErrCorruptArchive, "%s: %v", a.path, err)
	}

	return r, pageEntries(r.File), nil
}

// pageEntries filters zip entries down to page images, sorted byte-wise by
// normalized name. Duplicate names keep their central directory order.
func pageEntries(all []*zip.File) []*zip.File {
	pages := make([]*zip.File, 0, len(all))
	for _, f := range all {
		if f.FileInfo().IsDir() || !files.IsPageEntry(files.NormalizeEntryName(f.Name)) {
			continue
		}
		pages = append(pages, f)
	}

	sort.SliceStable(pages, func(i, j int) bool {
		return files.NormalizeEntryName(pages[i].Name) < files.NormalizeEntryName(pages[j].Name)
	})

	return pages
}

func (a *Archive) Count() int {
	r, pages, err := a.open()
	if err != nil {
		return 0
	}
	defer r.Close()

	return len(pages)
}

func (a *Archive) ListPages() []string {
	r, pages, err := a.open()
	if err != nil {
		return nil
	}
	defer r.Close()

	names := make([]string, 0, len(pages))
	for _, f := range pages {
		names = append(names, files.NormalizeEntryName(f.Name))
	}

	return names
}

// ReadPage decompresses only the requested entry.
func (a *Archive) ReadPage(index int) ([]byte, error) {
	data, err := a.readPage(index)
	if err != nil {
		metrics.PageReadsTotal.WithLabelValues(KindArchive.String(), "error").Inc()
		return nil, err
	}

	metrics.PageReadsTotal.WithLabelValues(KindArchive.String(), "ok").Inc()
	return data, nil
}

func (a *Archive) readPage(index int) ([]byte, error) {
	r, pages, err := a.open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if index < 0 || index >= len(pages) {
		return nil, outOfRange(a.path, index, len(pages))
	}

	entry := pages[index]

	rc, err := entry.Open()
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptArchive, "%s: entry %s: %v", a.path, entry.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptArchive, "%s: entry %s: %v", a.path, entry.Name, err)
	}

	return data, nil
}
