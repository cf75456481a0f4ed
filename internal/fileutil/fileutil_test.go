package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestListByExt(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.MKV", "a.mp4", "notes.txt", ".hidden.mp4", "c.avi"} {
		touch(t, filepath.Join(dir, name))
	}
	if err := os.Mkdir(filepath.Join(dir, "d.mp4"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := ListByExt(dir, ".mp4", ".mkv", ".avi")
	if err != nil {
		t.Fatalf("ListByExt returned error: %v", err)
	}
	want := []string{"a.mp4", "b.MKV", "c.avi"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i, name := range want {
		if got[i] != filepath.Join(dir, name) {
			t.Fatalf("entry %d = %q, want %q", i, got[i], name)
		}
	}
}

func TestListByExtMissingDir(t *testing.T) {
	got, err := ListByExt(filepath.Join(t.TempDir(), "missing"), ".srt")
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty list without error, got %v %v", got, err)
	}
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	first := UniquePath(dir, "FINAL_movie", ".mp4")
	if first != filepath.Join(dir, "FINAL_movie.mp4") {
		t.Fatalf("unexpected first path %q", first)
	}
	touch(t, first)
	second := UniquePath(dir, "FINAL_movie", ".mp4")
	if second != filepath.Join(dir, "FINAL_movie_2.mp4") {
		t.Fatalf("unexpected second path %q", second)
	}
	touch(t, second)
	if third := UniquePath(dir, "FINAL_movie", ".mp4"); third != filepath.Join(dir, "FINAL_movie_3.mp4") {
		t.Fatalf("unexpected third path %q", third)
	}
}

func TestRemoveQuietlyAndIsRegularFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tmp.srt")
	touch(t, path)
	if !IsRegularFile(path) || IsRegularFile(dir) {
		t.Fatal("IsRegularFile mismatch")
	}
	RemoveQuietly(path, "", filepath.Join(dir, "missing"))
	if Exists(path) {
		t.Fatal("expected file removed")
	}
}
