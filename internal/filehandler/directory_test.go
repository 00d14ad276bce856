package filehandler

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// writeFile creates name in dir with the given modification time.
func writeFile(t *testing.T, dir, name string, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("chtimes %s: %v", name, err)
	}
	return path
}

func TestFindMostRecentPicksNewestImage(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	writeFile(t, dir, "old.png", base)
	want := writeFile(t, dir, "newest.JPG", base.Add(2*time.Hour))
	writeFile(t, dir, "middle.jpeg", base.Add(time.Hour))
	// Newer non-image files must not influence the result.
	writeFile(t, dir, "notes.txt", base.Add(5*time.Hour))
	writeFile(t, dir, "clip.gif", base.Add(6*time.Hour))
	writeFile(t, dir, "png", base.Add(7*time.Hour))

	got, err := FindMostRecent(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected a candidate, got nil")
	}
	if got.Path != want {
		t.Errorf("Path = %q, want %q", got.Path, want)
	}
	if !got.LastModified.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("LastModified = %v", got.LastModified)
	}
	if got.Size != 4 {
		t.Errorf("Size = %d, want 4", got.Size)
	}
}

func TestFindMostRecentIsNotRecursive(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	want := writeFile(t, dir, "top.png", base)

	sub := filepath.Join(dir, "nested.png")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, sub, "deeper.png", base.Add(time.Hour))

	got, err := FindMostRecent(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Path != want {
		t.Errorf("got %+v, want %q", got, want)
	}
}

func TestFindMostRecentNoMatches(t *testing.T) {
	tests := []struct {
		name  string
		files []string
	}{
		{"empty directory", nil},
		{"only non-images", []string{"a.txt", "b.pdf", "c.heic", "README"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				writeFile(t, dir, f, time.Now())
			}

			got, err := FindMostRecent(dir)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != nil {
				t.Errorf("expected nil candidate, got %+v", got)
			}
		})
	}
}

func TestFindMostRecentMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "does-not-exist")

	_, err := FindMostRecent(dir)
	if err == nil {
		t.Fatal("expected error for missing directory")
	}

	var scanErr *ScanError
	if !errors.As(err, &scanErr) {
		t.Fatalf("expected *ScanError, got %T", err)
	}
	if scanErr.Type != ErrTypeDirectoryRead {
		t.Errorf("Type = %v, want ErrTypeDirectoryRead", scanErr.Type)
	}
	if !strings.Contains(err.Error(), dir) {
		t.Errorf("error %q should contain directory path", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("error should wrap os.ErrNotExist")
	}
}

func TestFindMostRecentSkipsBrokenSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated privileges on Windows")
	}

	dir := t.TempDir()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	want := writeFile(t, dir, "real.png", base)

	if err := os.Symlink(filepath.Join(dir, "missing.png"), filepath.Join(dir, "broken.png")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	got, err := FindMostRecent(dir)
	if err != nil {
		t.Fatalf("broken symlink should be skipped, got error: %v", err)
	}
	if got == nil || got.Path != want {
		t.Errorf("got %+v, want %q", got, want)
	}
}

func TestFindMostRecentFollowsFileSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated privileges on Windows")
	}

	dir := t.TempDir()
	other := t.TempDir()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	writeFile(t, dir, "older.png", base)
	target := writeFile(t, other, "target.png", base.Add(time.Hour))
	link := filepath.Join(dir, "linked.png")
	if err := os.Symlink(target, link); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	got, err := FindMostRecent(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Path != link {
		t.Errorf("got %+v, want %q", got, link)
	}
}
