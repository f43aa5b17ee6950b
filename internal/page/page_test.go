package page

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/pkg/errors"
)

type zipEntry struct {
	name string
	data string
}

func writeZip(t *testing.T, path string, entries []zipEntry) {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: zip.Store})
		if err != nil {
			t.Fatalf("create entry %s: %v", e.name, err)
		}
		if _, err := w.Write([]byte(e.data)); err != nil {
			t.Fatalf("write entry %s: %v", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func sampleArchive(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "Chapter 01.cbz")
	writeZip(t, path, []zipEntry{
		{name: "b.png", data: "page-b"},
		{name: "a.jpg", data: "page-a"},
		{name: "__MACOSX/._a.jpg", data: "resource fork"},
		{name: "notes.txt", data: "not a page"},
		{name: "sub/c.WEBP", data: "page-c"},
		{name: "empty/"},
	})

	return path
}

func TestClassify(t *testing.T) {
	dir := t.TempDir()

	archive := filepath.Join(dir, "ch1.cbz")
	writeZip(t, archive, []zipEntry{{name: "1.jpg", data: "x"}})

	upper := filepath.Join(dir, "ch2.ZIP")
	writeZip(t, upper, []zipEntry{{name: "1.jpg", data: "x"}})

	wrongExt := filepath.Join(dir, "ch3.rar")
	writeZip(t, wrongExt, []zipEntry{{name: "1.jpg", data: "x"}})

	notZip := filepath.Join(dir, "ch4.cbz")
	writeFile(t, notZip, "definitely not a zip")

	text := filepath.Join(dir, "readme.txt")
	writeFile(t, text, "hello")

	folder := filepath.Join(dir, "ch5")
	if err := os.Mkdir(folder, 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want Kind
	}{
		{name: "cbz archive", path: archive, want: KindArchive},
		{name: "uppercase zip extension", path: upper, want: KindArchive},
		{name: "zip with other extension", path: wrongExt, want: KindUnsupported},
		{name: "cbz that is not a zip", path: notZip, want: KindUnsupported},
		{name: "plain file", path: text, want: KindUnsupported},
		{name: "directory", path: folder, want: KindDirectory},
		{name: "missing", path: filepath.Join(dir, "missing.cbz"), want: KindUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.path); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestArchive_ListPages(t *testing.T) {
	path := sampleArchive(t)

	want := []string{"a.jpg", "b.png", "sub/c.WEBP"}

	got := ListPages(path)
	if !slices.Equal(got, want) {
		t.Fatalf("ListPages() = %v, want %v", got, want)
	}

	if again := ListPages(path); !slices.Equal(again, got) {
		t.Fatalf("second ListPages() = %v, want %v", again, got)
	}

	if n := Count(path); n != len(want) {
		t.Fatalf("Count() = %d, want %d", n, len(want))
	}
}

func TestArchive_ListPagesNormalizesSeparators(t *testing.T) {
	path := filepath.Join(t.TempDir(), "win.cbz")
	writeZip(t, path, []zipEntry{
		{name: `pages\02.jpg`, data: "2"},
		{name: `pages\01.jpg`, data: "1"},
	})

	want := []string{"pages/01.jpg", "pages/02.jpg"}
	if got := ListPages(path); !slices.Equal(got, want) {
		t.Fatalf("ListPages() = %v, want %v", got, want)
	}
}

func TestArchive_ReadPage(t *testing.T) {
	path := sampleArchive(t)

	wantData := []string{"page-a", "page-b", "page-c"}
	for i, want := range wantData {
		got, err := ReadPage(path, i)
		if err != nil {
			t.Fatalf("ReadPage(%d) error = %v", i, err)
		}
		if string(got) != want {
			t.Errorf("ReadPage(%d) = %q, want %q", i, got, want)
		}
	}

	for _, index := range []int{-1, Count(path)} {
		if _, err := ReadPage(path, index); !errors.Is(err, ErrNotFound) {
			t.Errorf("ReadPage(%d) error = %v, want ErrNotFound", index, err)
		}
	}
}

func TestArchive_EmptyArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.cbz")
	writeZip(t, path, []zipEntry{{name: "info.txt", data: "no pages here"}})

	if got := Classify(path); got != KindArchive {
		t.Fatalf("Classify() = %v, want archive", got)
	}
	if n := Count(path); n != 0 {
		t.Fatalf("Count() = %d, want 0", n)
	}
	if _, err := ReadPage(path, 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ReadPage(0) error = %v, want ErrNotFound", err)
	}
}

func TestArchive_TruncatedCentralDirectory(t *testing.T) {
	path := sampleArchive(t)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data[:len(data)-30], 0o644); err != nil {
		t.Fatal(err)
	}

	if n := Count(path); n != 0 {
		t.Errorf("Count() = %d, want 0", n)
	}
	if got := ListPages(path); got != nil {
		t.Errorf("ListPages() = %v, want nil", got)
	}

	_, err = ReadPage(path, 0)
	if !errors.Is(err, ErrCorruptArchive) {
		t.Fatalf("ReadPage() error = %v, want ErrCorruptArchive", err)
	}

	if _, err := Open(path); !errors.Is(err, ErrCorruptArchive) {
		t.Fatalf("Open() error = %v, want ErrCorruptArchive", err)
	}
}

func TestArchive_CorruptEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad-crc.cbz")
	writeZip(t, path, []zipEntry{
		{name: "01.jpg", data: "first-page-contents"},
		{name: "02.jpg", data: "second-page-contents"},
	})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	idx := bytes.Index(data, []byte("second-page-contents"))
	if idx < 0 {
		t.Fatal("stored entry data not found")
	}
	data[idx] ^= 0xFF
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadPage(path, 0); err != nil {
		t.Fatalf("ReadPage(0) error = %v", err)
	}
	if _, err := ReadPage(path, 1); !errors.Is(err, ErrCorruptArchive) {
		t.Fatalf("ReadPage(1) error = %v, want ErrCorruptArchive", err)
	}
}

func TestDirectory_Pages(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "002.png"), "two")
	writeFile(t, filepath.Join(dir, "001.jpg"), "one")
	writeFile(t, filepath.Join(dir, "010.JPEG"), "ten")
	writeFile(t, filepath.Join(dir, "readme.txt"), "skip")
	writeFile(t, filepath.Join(dir, "nested", "003.jpg"), "nested")
	if err := os.Mkdir(filepath.Join(dir, "folder.jpg"), 0o755); err != nil {
		t.Fatal(err)
	}

	want := []string{"001.jpg", "002.png", "010.JPEG"}

	src, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if src.Kind() != KindDirectory {
		t.Fatalf("Kind() = %v, want directory", src.Kind())
	}

	if got := src.ListPages(); !slices.Equal(got, want) {
		t.Fatalf("ListPages() = %v, want %v", got, want)
	}
	if got := src.Count(); got != len(want) {
		t.Fatalf("Count() = %d, want %d", got, len(want))
	}

	for i, content := range []string{"one", "two", "ten"} {
		got, err := src.ReadPage(i)
		if err != nil {
			t.Fatalf("ReadPage(%d) error = %v", i, err)
		}
		if string(got) != content {
			t.Errorf("ReadPage(%d) = %q, want %q", i, got, content)
		}
	}

	if _, err := src.ReadPage(len(want)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ReadPage(count) error = %v, want ErrNotFound", err)
	}
}

func TestUnsupported(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "notes.txt")
	writeFile(t, text, "hello")

	for _, path := range []string{text, filepath.Join(dir, "missing")} {
		if n := Count(path); n != 0 {
			t.Errorf("Count(%q) = %d, want 0", path, n)
		}
		if got := ListPages(path); got != nil {
			t.Errorf("ListPages(%q) = %v, want nil", path, got)
		}

		_, err := ReadPage(path, 0)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("ReadPage(%q) error = %v, want ErrNotFound", path, err)
		}
		if !errors.Is(err, ErrUnsupported) {
			t.Errorf("ReadPage(%q) error = %v, want ErrUnsupported", path, err)
		}
	}
}

func TestConcurrentReads(t *testing.T) {
	archive := sampleArchive(t)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "01.jpg"), "one")
	writeFile(t, filepath.Join(dir, "02.jpg"), "two")

	var wg sync.WaitGroup
	errs := make(chan error, 64)

	for i := 0; i < 16; i++ {
		for _, path := range []string{archive, dir} {
			i, path := i, path
			wg.Add(1)

			go func() {
				defer wg.Done()

				if n := Count(path); n == 0 {
					errs <- errors.Errorf("Count(%s) = 0", path)
					return
				}
				if _, err := ReadPage(path, i%2); err != nil {
					errs <- err
				}
			}()
		}
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestDirectory_SkipsDotfiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".jpg"), "hidden")
	writeFile(t, filepath.Join(dir, "01.jpg"), "one")

	if got, want := ListPages(dir), []string{"01.jpg"}; !slices.Equal(got, want) {
		t.Fatalf("ListPages() = %v, want %v", got, want)
	}
}

func TestArchive_SkipsDotfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dots.cbz")
	writeZip(t, path, []zipEntry{
		{name: ".png", data: "hidden"},
		{name: "sub/.jpg", data: "hidden"},
		{name: "sub/01.jpg", data: "one"},
	})

	if got, want := ListPages(path), []string{"sub/01.jpg"}; !slices.Equal(got, want) {
		t.Fatalf("ListPages() = %v, want %v", got, want)
	}
}

func TestDirectory_UnreadablePageIsNotFound(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "01.jpg"), "one")

	target := t.TempDir()
	if err := os.Symlink(target, filepath.Join(dir, "02.jpg")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	src, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if n := src.Count(); n != 2 {
		t.Fatalf("Count() = %d, want 2", n)
	}

	_, err = src.ReadPage(1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ReadPage(1) error = %v, want ErrNotFound", err)
	}
}
