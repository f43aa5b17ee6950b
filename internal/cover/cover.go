package cover

import (
	"path/filepath"
	"strings"

	"mangashelf/internal/files"
)

// coverStems are base names, without extension, that mark an image as the
// intended cover of a manga.
var coverStems = map[string]bool{
	"cover":     true,
	"folder":    true,
	"poster":    true,
	"thumb":     true,
	"thumbnail": true,
}

// Pick returns the cover image of a manga directory. An image named like a
// cover wins; otherwise the first image by name is used. Subdirectories are
// never picked. ok is false when the directory holds no images or can't be
// listed.
func Pick(mangaDir string) (path string, ok bool) {
	entries, err := files.ReadDir(mangaDir)
	if err != nil {
		return "", false
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() || !files.IsImageFile(entry.Name()) {
			continue
		}
		images = append(images, entry.Name())
	}

	for _, name := range images {
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if coverStems[strings.ToLower(stem)] {
			return filepath.Join(mangaDir, name), true
		}
	}

	if len(images) > 0 {
		return filepath.Join(mangaDir, images[0]), true
	}

	return "", false
}
