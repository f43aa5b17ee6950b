package files

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/avast/retry-go"
	"github.com/pkg/errors"
)

// macOSMetadataDir is the resource fork folder Finder adds to zips.
const macOSMetadataDir = "__MACOSX"

// ImageExtensions are the page formats recognized in chapters and covers.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
}

// IsImageFile reports whether name carries a recognized image extension.
// A bare dotfile such as ".jpg" has no extension.
func IsImageFile(name string) bool {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	if ext == base {
		return false
	}

	return ImageExtensions[strings.ToLower(ext)]
}

// IsArchiveName reports whether name looks like a comic archive (.cbz or .zip).
func IsArchiveName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".cbz", ".zip":
		return true
	default:
		return false
	}
}

// NormalizeEntryName converts archive entry names written with Windows
// separators to forward slashes.
func NormalizeEntryName(name string) string {
	return strings.ReplaceAll(name, `\`, "/")
}

// IsPageEntry reports whether a normalized archive entry name is a page image.
func IsPageEntry(name string) bool {
	return !strings.HasPrefix(name, macOSMetadataDir) && IsImageFile(name)
}

func IsValidLocation(location string) error {
	if _, err := os.Stat(location); err != nil {
		return err
	}

	return nil
}

// IsTransient reports filesystem errors worth retrying, mostly seen on
// network mounts (stale NFS handles, interrupted or busy calls).
func IsTransient(err error) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}

	switch errno {
	case syscall.ESTALE, syscall.EAGAIN, syscall.EINTR:
		return true
	default:
		return false
	}
}

var retryOptions = []retry.Option{
	retry.Attempts(3),
	retry.Delay(50 * time.Millisecond),
	retry.MaxDelay(500 * time.Millisecond),
	retry.DelayType(retry.BackOffDelay),
	retry.RetryIf(IsTransient),
	retry.LastErrorOnly(true),
}

// ReadDir is os.ReadDir with retries on transient errors.
func ReadDir(path string) ([]os.DirEntry, error) {
	var entries []os.DirEntry

	err := retry.Do(func() error {
		var err error
		entries, err = os.ReadDir(path)
		return err
	}, retryOptions...)

	return entries, err
}

// ReadFile is os.ReadFile with retries on transient errors.
func ReadFile(path string) ([]byte, error) {
	var data []byte

	err := retry.Do(func() error {
		var err error
		data, err = os.ReadFile(path)
		return err
	}, retryOptions...)

	return data, err
}

// Stat is os.Stat with retries on transient errors.
func Stat(path string) (os.FileInfo, error) {
	var info os.FileInfo

	err := retry.Do(func() error {
		var err error
		info, err = os.Stat(path)
		return err
	}, retryOptions...)

	return info, err
}

// OpenZip opens a zip archive, retrying transient errors. The caller owns
// the returned reader and must close it.
func OpenZip(path string) (*zip.ReadCloser, error) {
	var r *zip.ReadCloser

	err := retry.Do(func() error {
		var err error
		r, err = zip.OpenReader(path)
		return err
	}, retryOptions...)

	return r, err
}
