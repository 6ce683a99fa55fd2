package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFileStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "images")

	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fs.Dir() != dir {
		t.Errorf("expected dir %s, got %s", dir, fs.Dir())
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("directory was not created: %v", err)
	}
}

func TestNewFileStore_EmptyDir(t *testing.T) {
	if _, err := NewFileStore(""); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}

func TestFileStore_Save(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path, n, err := fs.Save("image_1.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != fs.Path("image_1.png") {
		t.Errorf("unexpected path %s", path)
	}
	if n != int64(len("png-bytes")) {
		t.Errorf("expected %d bytes, got %d", len("png-bytes"), n)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read back: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestFileStore_Save_Overwrites(t *testing.T) {
	fs, _ := NewFileStore(t.TempDir())

	first, _, err := fs.Save("same.png", strings.NewReader("first"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _, err := fs.Save("same.png", strings.NewReader("second"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("expected identical paths, got %s and %s", first, second)
	}

	data, _ := os.ReadFile(second)
	if string(data) != "second" {
		t.Errorf("expected overwritten content, got %q", data)
	}

	entries, _ := os.ReadDir(fs.Dir())
	if len(entries) != 1 {
		t.Errorf("expected a single file without temp leftovers, got %d entries", len(entries))
	}
}

func TestFileStore_Save_InvalidName(t *testing.T) {
	fs, _ := NewFileStore(t.TempDir())

	for _, name := range []string{"", "..", "../escape.png", "a/b.png"} {
		if _, _, err := fs.Save(name, strings.NewReader("x")); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Save(%q): expected ErrInvalidName, got %v", name, err)
		}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

func TestFileStore_Save_ReaderError(t *testing.T) {
	fs, _ := NewFileStore(t.TempDir())

	if _, _, err := fs.Save("broken.png", failingReader{}); err == nil {
		t.Fatal("expected error from failing reader")
	}
	if _, err := os.Stat(fs.Path("broken.png")); !os.IsNotExist(err) {
		t.Error("partial file must not be left behind")
	}
	entries, _ := os.ReadDir(fs.Dir())
	if len(entries) != 0 {
		t.Errorf("expected temp file cleanup, got %d entries", len(entries))
	}
}
