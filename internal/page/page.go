// Package page gives uniform, random access to the pages of a chapter,
// whether the chapter is a CBZ/ZIP archive or a plain folder of images.
//
// Nothing is cached: every call opens what it needs and releases it before
// returning, so concurrent calls on the same path are independent.
package page

import (
	"fmt"
	"os"

	"mangashelf/internal/files"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when a path or page index does not exist.
	ErrNotFound = errors.New("page not found")

	// ErrCorruptArchive is returned when an archive fails to open or one of
	// its entries can't be read.
	ErrCorruptArchive = errors.New("corrupt archive")

	// ErrUnsupported is returned for paths that are neither a valid archive
	// nor a directory. It matches ErrNotFound with errors.Is.
	ErrUnsupported = fmt.Errorf("%w: unsupported chapter location", ErrNotFound)
)

// Kind is the chapter variant behind a path.
type Kind int

const (
	KindUnsupported Kind = iota
	KindArchive
	KindDirectory
)

func (k Kind) String() string {
	switch k {
	case KindArchive:
		return "archive"
	case KindDirectory:
		return "directory"
	default:
		return "unsupported"
	}
}

// Source lists and reads the pages of one chapter location.
type Source interface {
	Path() string
	Kind() Kind

	// Count returns the number of pages, or 0 if the location can't be read.
	Count() int

	// ListPages returns page identifiers sorted ascending by name.
	ListPages() []string

	// ReadPage returns the bytes of the page at index in ListPages order.
	ReadPage(index int) ([]byte, error)
}

// Classify reports which variant serves path. An archive must be a regular
// file with a .cbz or .zip extension that opens as a zip.
func Classify(path string) Kind {
	info, err := files.Stat(path)
	if err != nil {
		return KindUnsupported
	}

	if info.IsDir() {
		return KindDirectory
	}

	if info.Mode().IsRegular() && files.IsArchiveName(path) && isZip(path) {
		return KindArchive
	}

	return KindUnsupported
}

// IsArchive reports whether path is a valid comic archive.
func IsArchive(path string) bool {
	return Classify(path) == KindArchive
}

func isZip(path string) bool {
	r, err := files.OpenZip(path)
	if err != nil {
		return false
	}

	r.Close()
	return true
}

// Open classifies path once and returns the matching Source. A file named
// like an archive that fails the zip check yields ErrCorruptArchive;
// anything else unreadable yields ErrUnsupported.
func Open(path string) (Source, error) {
	switch Classify(path) {
	case KindArchive:
		return &Archive{path: path}, nil
	case KindDirectory:
		return &Directory{path: path}, nil
	}

	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() && files.IsArchiveName(path) {
		return nil, errors.Wrapf(ErrCorruptArchive, "%s", path)
	}

	return nil, errors.Wrapf(ErrUnsupported, "%s", path)
}

// Count returns the number of pages at path, 0 when path is unsupported.
func Count(path string) int {
	src, err := Open(path)
	if err != nil {
		return 0
	}

	return src.Count()
}

// ListPages returns the sorted page identifiers at path, nil when path is
// unsupported.
func ListPages(path string) []string {
	src, err := Open(path)
	if err != nil {
		return nil
	}

	return src.ListPages()
}

// ReadPage returns the bytes of page index at path.
func ReadPage(path string, index int) ([]byte, error) {
	src, err := Open(path)
	if err != nil {
		return nil, err
	}

	return src.ReadPage(index)
}

func outOfRange(path string, index, count int) error {
	return errors.Wrapf(ErrNotFound, "page %d of %s (%d pages)", index, path, count)
}
