package batch_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"mvc/internal/batch"
	"mvc/internal/testsupport"
)

func TestDiscoverMatchesExtensionsIgnoringCase(t *testing.T) {
	src := t.TempDir()
	testsupport.WriteVideos(t, src, "b.MP4", "a.mp4", "notes.txt", "c.mov", ".hidden.mp4", "nested/d.mp4")
	if err := os.Mkdir(filepath.Join(src, "folder.mp4"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := batch.Discover(src, []string{".mp4"}, false)
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	want := []string{filepath.Join(src, "a.mp4"), filepath.Join(src, "b.MP4")}
	if !slices.Equal(got, want) {
		t.Fatalf("unexpected files:\n got %v\nwant %v", got, want)
	}
}

func TestDiscoverRecursive(t *testing.T) {
	src := t.TempDir()
	testsupport.WriteVideos(t, src, "a.mp4", "nested/d.MOV", "nested/deeper/e.mp4", ".cache/x.mp4")

	got, err := batch.Discover(src, []string{"mp4", ".mov"}, true)
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	want := []string{
		filepath.Join(src, "a.mp4"),
		filepath.Join(src, "nested", "d.MOV"),
		filepath.Join(src, "nested", "deeper", "e.mp4"),
	}
	if !slices.Equal(got, want) {
		t.Fatalf("unexpected files:\n got %v\nwant %v", got, want)
	}
}

func TestDiscoverMissingSource(t *testing.T) {
	if _, err := batch.Discover(filepath.Join(t.TempDir(), "missing"), []string{".mp4"}, false); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestDiscoverEmpty(t *testing.T) {
	got, err := batch.Discover(t.TempDir(), []string{".mp4"}, false)
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no files, got %v", got)
	}
}
