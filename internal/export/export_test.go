package export

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"mangashelf/internal/domain"
	"mangashelf/internal/logger"
	"mangashelf/internal/page"

	"golang.org/x/image/bmp"
)

func testImage(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	return img
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(w, h)); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func folderChapter(t *testing.T, dir string, pages int) domain.Chapter {
	t.Helper()

	for i := 1; i <= pages; i++ {
		writePNG(t, filepath.Join(dir, "p"+string(rune('a'+i))+".png"), 40, 60)
	}

	return domain.Chapter{Number: 1, Title: filepath.Base(dir), Path: dir, PageCount: pages}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"cbz": FormatCBZ, "PDF": FormatPDF, " cbz ": FormatCBZ} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v, want %q", in, got, err, want)
		}
	}

	if _, err := ParseFormat("epub"); err == nil {
		t.Error("ParseFormat(epub) succeeded, want error")
	}
}

func TestOutputPath(t *testing.T) {
	manga := domain.Manga{Title: "Alpha: Beta"}
	chapter := domain.Chapter{Number: 3, Title: "Chapter 3?"}

	got := OutputPath("/out", manga, chapter, Options{Format: FormatCBZ})
	want := filepath.Join("/out", "Alpha Beta", "Alpha Beta Ch. 003 - Chapter 3.cbz")
	if got != want {
		t.Errorf("OutputPath() = %q, want %q", got, want)
	}

	got = OutputPath("/out", manga, chapter, Options{Format: FormatPDF, NamingTemplate: "{num}"})
	if want := filepath.Join("/out", "Alpha Beta", "3.pdf"); got != want {
		t.Errorf("OutputPath() = %q, want %q", got, want)
	}
}

func TestChapter_CBZ(t *testing.T) {
	chapter := folderChapter(t, filepath.Join(t.TempDir(), "Chapter 1"), 3)
	out := filepath.Join(t.TempDir(), "nested", "out.cbz")

	if err := Chapter(context.Background(), out, chapter, Options{Format: FormatCBZ}); err != nil {
		t.Fatalf("Chapter() error = %v", err)
	}

	if got, want := page.ListPages(out), []string{"001.png", "002.png", "003.png"}; !slices.Equal(got, want) {
		t.Fatalf("exported pages = %v, want %v", got, want)
	}

	for i := 0; i < 3; i++ {
		exported, err := page.ReadPage(out, i)
		if err != nil {
			t.Fatal(err)
		}
		original, err := page.ReadPage(chapter.Path, i)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(exported, original) {
			t.Errorf("page %d changed during export", i)
		}
	}
}

func TestChapter_PDFTranscodes(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "Chapter 2.cbz")

	f, err := os.Create(archive)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("01.bmp")
	if err != nil {
		t.Fatal(err)
	}
	if err := bmp.Encode(w, testImage(30, 50)); err != nil {
		t.Fatal(err)
	}
	w, err = zw.Create("02.png")
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(w, testImage(30, 50)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	out := filepath.Join(t.TempDir(), "out.pdf")
	chapter := domain.Chapter{Number: 2, Title: "Chapter 2", Path: archive, PageCount: 2}

	if err := Chapter(context.Background(), out, chapter, Options{Format: FormatPDF}); err != nil {
		t.Fatalf("Chapter() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header")
	}
}

func TestChapter_NoPages(t *testing.T) {
	dir := t.TempDir()
	chapter := domain.Chapter{Title: "empty", Path: dir}

	if err := Chapter(context.Background(), filepath.Join(t.TempDir(), "x.cbz"), chapter, Options{Format: FormatCBZ}); err == nil {
		t.Error("Chapter() with no pages succeeded, want error")
	}
}

func TestChapters(t *testing.T) {
	root := t.TempDir()
	manga := domain.Manga{Title: "Alpha"}

	first := folderChapter(t, filepath.Join(root, "Alpha", "Chapter 1"), 2)
	second := folderChapter(t, filepath.Join(root, "Alpha", "Chapter 2"), 1)
	second.Number = 2
	manga.Chapters = []domain.Chapter{first, second}

	outDir := t.TempDir()
	opts := Options{Format: FormatCBZ}

	n, err := Chapters(context.Background(), logger.Nop(), outDir, manga, manga.Chapters, opts)
	if err != nil {
		t.Fatalf("Chapters() error = %v", err)
	}
	if n != 2 {
		t.Fatalf("Chapters() exported %d, want 2", n)
	}

	for _, c := range manga.Chapters {
		if _, err := os.Stat(OutputPath(outDir, manga, c, opts)); err != nil {
			t.Errorf("missing export for %s: %v", c.Title, err)
		}
	}

	n, err = Chapters(context.Background(), logger.Nop(), outDir, manga, manga.Chapters, opts)
	if err != nil || n != 0 {
		t.Errorf("second Chapters() = %d, %v, want 0 and no error", n, err)
	}
}
