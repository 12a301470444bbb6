package fileio

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestWriteFileThenReadFileRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")

	if err := WriteFile(path, "hello world\n"); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}
	if got != "hello world\n" {
		t.Fatalf("expected %q, got %q", "hello world\n", got)
	}
}

func TestWriteFileCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "index.html")

	if err := WriteFile(path, "<html></html>"); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	if !Exists(path) {
		t.Fatal("expected file to exist after write")
	}
}

func TestWriteFileOverwritesExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")

	if err := WriteFile(path, "first"); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	if err := WriteFile(path, "second"); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}
	if got != "second" {
		t.Fatalf("expected overwrite to win, got %q", got)
	}
}

func TestReadFileMissingReturnsFileAccessError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.txt")

	_, err := ReadFile(path)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, ErrFileAccess) {
		t.Fatalf("expected ErrFileAccess, got %v", err)
	}

	var accessErr *FileAccessError
	if !errors.As(err, &accessErr) {
		t.Fatalf("expected *FileAccessError, got %T", err)
	}
	if accessErr.Path != path {
		t.Fatalf("expected path %q in error, got %q", path, accessErr.Path)
	}
	if accessErr.Op != "read" {
		t.Fatalf("expected op read, got %q", accessErr.Op)
	}
}

func TestExistsReportsRegularFilesOnly(t *testing.T) {
	dir := t.TempDir()

	if Exists(dir) {
		t.Fatal("directories must not count as files")
	}
	if Exists(filepath.Join(dir, "missing.txt")) {
		t.Fatal("missing paths must not count as files")
	}

	path := filepath.Join(dir, "present.txt")
	if err := WriteFile(path, "x"); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	if !Exists(path) {
		t.Fatal("expected regular file to be reported")
	}
}

func TestWriteJSONThenReadJSONRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	in := map[string]string{"title": "First Post"}
	if err := WriteJSON(path, in); err != nil {
		t.Fatalf("WriteJSON returned error: %v", err)
	}

	var out map[string]string
	if err := ReadJSON(path, &out); err != nil {
		t.Fatalf("ReadJSON returned error: %v", err)
	}
	if out["title"] != "First Post" {
		t.Fatalf("expected round-tripped title, got %q", out["title"])
	}
}

func TestReadJSONMalformedReturnsDecodeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := WriteFile(path, "{not json"); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	var out map[string]string
	err := ReadJSON(path, &out)
	if err == nil {
		t.Fatal("expected decode error")
	}
	if errors.Is(err, ErrFileAccess) {
		t.Fatal("decode failures must not masquerade as access failures")
	}
}
