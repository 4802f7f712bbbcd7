package assets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStoragePutCreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStorage(dir)

	if err := store.Put("assets/html/page.html", []byte("<html></html>")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "assets", "html", "page.html"))
	if err != nil {
		t.Fatalf("read persisted file: %v", err)
	}
	if string(got) != "<html></html>" {
		t.Errorf("unexpected contents %q", got)
	}
}

func TestLocalStorageExists(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStorage(dir)

	if store.Exists("assets/bin/missing.bin") {
		t.Fatal("expected Exists to be false before Put")
	}
	if err := store.Put("assets/bin/present.bin", []byte{1, 2, 3}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !store.Exists("assets/bin/present.bin") {
		t.Fatal("expected Exists to be true after Put")
	}
}

func TestLocalStoragePutLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStorage(dir)
	if err := store.Put("assets/bin/a.bin", []byte("x")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(dir, "assets", "bin"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one file, got %d", len(entries))
	}
}
