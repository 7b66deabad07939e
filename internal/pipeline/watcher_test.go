package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestWatcherFindsGeneratedFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pre.qmd"))

	w, err := Watch(dir)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	writeFile(t, filepath.Join(dir, "gen", "plot.png"))
	writeFile(t, filepath.Join(dir, "page.md"))

	got, err := w.NewFiles()
	if err != nil {
		t.Fatalf("NewFiles: %v", err)
	}
	want := []string{
		filepath.Join(dir, "page.md"),
		filepath.Join(dir, "gen", "plot.png"),
		filepath.Join(dir, "gen"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("new files mismatch (-want +got):\n%s", diff)
	}
}

func TestWatcherCleanupDeepestFirst(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	w, err := Watch(dir)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	writeFile(t, filepath.Join(dir, "gen", "sub", "out.bin"))

	var order []string
	if _, err := w.Cleanup(func(path string) error {
		order = append(order, path)
		return os.RemoveAll(path)
	}); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if len(order) != 3 {
		t.Fatalf("cleaned %d paths, want 3: %v", len(order), order)
	}
	if order[0] != filepath.Join(dir, "gen", "sub", "out.bin") {
		t.Fatalf("file not removed before its directories: %v", order)
	}
	if _, err := os.Stat(filepath.Join(dir, "gen")); !os.IsNotExist(err) {
		t.Fatalf("generated tree still present")
	}
}

func TestWatcherNilActionOnlyReports(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	w, err := Watch(dir)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	path := filepath.Join(dir, "kept.md")
	writeFile(t, path)
	files, err := w.Cleanup(nil)
	if err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("reported %v, want one file", files)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("file removed by nil action: %v", err)
	}
}
