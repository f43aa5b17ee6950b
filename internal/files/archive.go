package files

import (
	"archive/zip"
	"bufio"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // needed to decode webp
)

const binSize = 10

// ExtractArchive writes every page image of the archive at archivePath into
// destDir, keeping the entry's relative path. An empty destDir extracts into
// a new temporary directory. The directory used is returned.
func ExtractArchive(archivePath, destDir string) (string, error) {
	r, err := OpenZip(archivePath)
	if err != nil {
		return "", errors.Wrapf(err, "could not open archive %s", archivePath)
	}
	defer r.Close()

	if destDir == "" {
		destDir, err = os.MkdirTemp("", "mangashelf-*")
		if err != nil {
			return "", err
		}
	} else if err := os.MkdirAll(destDir, os.ModePerm); err != nil {
		return "", err
	}

	for _, f := range r.File {
		name := NormalizeEntryName(f.Name)
		if f.FileInfo().IsDir() || !IsPageEntry(name) {
			continue
		}

		target, err := safeJoin(destDir, name)
		if err != nil {
			return destDir, err
		}

		if err := extractZipFile(f, target); err != nil {
			return destDir, errors.Wrapf(err, "could not extract %s", f.Name)
		}
	}

	return destDir, nil
}

// safeJoin joins an archive entry name onto baseDir, refusing names that
// would land outside of it.
func safeJoin(baseDir, name string) (string, error) {
	if strings.HasPrefix(name, "/") || filepath.IsAbs(name) {
		return "", errors.Errorf("unsafe archive path: %s", name)
	}

	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return "", errors.Errorf("unsafe archive path: %s", name)
		}
	}

	return filepath.Join(baseDir, filepath.FromSlash(name)), nil
}

func extractZipFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), os.ModePerm); err != nil {
		return err
	}

	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return err
	}

	writeBuf := bufio.NewWriter(dst)
	if _, err := io.Copy(writeBuf, src); err != nil {
		dst.Close()
		return err
	}

	if err := writeBuf.Flush(); err != nil {
		dst.Close()
		return err
	}

	return dst.Close()
}

// listImages returns the image files directly inside dir, sorted by name.
func listImages(dir string) ([]string, error) {
	entries, err := ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() || !IsImageFile(entry.Name()) {
			continue
		}
		images = append(images, filepath.Join(dir, entry.Name()))
	}

	sort.Strings(images)

	return images, nil
}

// CreateCbzArchive creates a zip archive named cbzPath and adds all images from sourceDir to it.
// With dropOddWidths set, images whose width is far from the most common
// width are left out, which removes ad and credit pages from webtoon strips.
func CreateCbzArchive(sourceDir, cbzPath string, dropOddWidths bool) error {
	images, err := listImages(sourceDir)
	if err != nil {
		return err
	}

	if dropOddWidths {
		images = filterOddWidths(images)
	}

	if err := os.MkdirAll(filepath.Dir(cbzPath), os.ModePerm); err != nil {
		return err
	}

	cbzFile, err := os.Create(cbzPath)
	if err != nil {
		return err
	}

	writeBuf := bufio.NewWriter(cbzFile)
	zipWriter := zip.NewWriter(writeBuf)

	for _, imgPath := range images {
		if err := addFileToZip(zipWriter, imgPath, filepath.Base(imgPath)); err != nil {
			cbzFile.Close()
			return err
		}
	}

	if err := zipWriter.Close(); err != nil {
		cbzFile.Close()
		return err
	}

	if err := writeBuf.Flush(); err != nil {
		cbzFile.Close()
		return err
	}

	return cbzFile.Close()
}

// filterOddWidths keeps images within binSize of the most common width.
// Images whose header can't be decoded are kept.
func filterOddWidths(images []string) []string {
	widths := make(map[string]int, len(images))
	widthCount := make(map[int]int)

	for _, imgPath := range images {
		width, err := imageWidth(imgPath)
		if err != nil {
			continue
		}

		widths[imgPath] = width
		widthCount[(width/binSize)*binSize]++
	}

	var mostCommonWidth, maxCount int
	for bin, count := range widthCount {
		if count > maxCount || (count == maxCount && bin < mostCommonWidth) {
			maxCount = count
			mostCommonWidth = bin
		}
	}

	kept := make([]string, 0, len(images))
	for _, imgPath := range images {
		width, ok := widths[imgPath]
		if ok && (width < mostCommonWidth-binSize || width > mostCommonWidth+binSize) {
			continue
		}
		kept = append(kept, imgPath)
	}

	return kept
}

func imageWidth(imgPath string) (int, error) {
	imgFile, err := os.Open(imgPath)
	if err != nil {
		return 0, err
	}
	defer imgFile.Close()

	img, _, err := image.DecodeConfig(bufio.NewReader(imgFile))
	if err != nil {
		return 0, err
	}

	return img.Width, nil
}

// addFileToZip adds a single file to the zip archive
func addFileToZip(zipWriter *zip.Writer, filePath, fileName string) error {
	fileToZip, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer fileToZip.Close()

	writer, err := zipWriter.Create(fileName)
	if err != nil {
		return err
	}

	readerBuf := bufio.NewReader(fileToZip)

	_, err = io.Copy(writer, readerBuf)
	return err
}
