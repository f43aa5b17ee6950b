package page

import (
	"path/filepath"
	"sort"

	"mangashelf/internal/files"
	"mangashelf/internal/metrics"

	"github.com/pkg/errors"
)

// Directory serves pages from the image files directly inside a folder.
// Subdirectories are not descended into.
type Directory struct {
	path string
}

func (d *Directory) Path() string {
	return d.path
}

func (d *Directory) Kind() Kind {
	return KindDirectory
}

func (d *Directory) names() ([]string, error) {
	entries, err := files.ReadDir(d.path)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !files.IsImageFile(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}

	sort.Strings(names)

	return names, nil
}

func (d *Directory) Count() int {
	names, err := d.names()
	if err != nil {
		return 0
	}

	return len(names)
}

func (d *Directory) ListPages() []string {
	names, err := d.names()
	if err != nil {
		return nil
	}

	return names
}

func (d *Directory) ReadPage(index int) ([]byte, error) {
	data, err := d.readPage(index)
	if err != nil {
		metrics.PageReadsTotal.WithLabelValues(KindDirectory.String(), "error").Inc()
		return nil, err
	}

	metrics.PageReadsTotal.WithLabelValues(KindDirectory.String(), "ok").Inc()
	return data, nil
}

func (d *Directory) readPage(index int) ([]byte, error) {
	names, err := d.names()
	if err != nil {
		return nil, errors.Wrapf(ErrNotFound, "could not list %s: %v", d.path, err)
	}

	if index < 0 || index >= len(names) {
		return nil, outOfRange(d.path, index, len(names))
	}

	pagePath := filepath.Join(d.path, names[index])

	// a page that can't be read (permissions, a symlink to a directory) is
	// reported like a missing one
	data, err := files.ReadFile(pagePath)
	if err != nil {
		return nil, errors.Wrapf(ErrNotFound, "could not read page %s: %v", pagePath, err)
	}

	return data, nil
}
