// Package fileio provides whole-file read and write primitives for the
// project tree. Every operation is synchronous and maps OS failures to a
// FileAccessError so callers can match one error kind for any unreadable or
// unwritable path.
package fileio

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	ErrFileAccess = errors.New("fileio: file access failed")
)

// FileAccessError reports a file that is missing, unreadable, or unwritable.
type FileAccessError struct {
	Path string
	Op   string
	Err  error
}

func (e *FileAccessError) Error() string {
	if e == nil {
		return ErrFileAccess.Error()
	}
	return fmt.Sprintf("%s: %s %q", ErrFileAccess.Error(), e.Op, e.Path)
}

func (e *FileAccessError) Unwrap() error {
	return ErrFileAccess
}

// Cause exposes the underlying OS error for debug output.
func (e *FileAccessError) Cause() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ReadFile returns the complete contents of the file at path.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &FileAccessError{Path: path, Op: "read", Err: err}
	}
	return string(data), nil
}

// WriteFile overwrites the file at path with text, creating it when absent.
// Parent directories are created as needed. There is no temp-file dance; a
// crash mid-write can truncate the target.
func WriteFile(path, text string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &FileAccessError{Path: path, Op: "write", Err: err}
		}
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return &FileAccessError{Path: path, Op: "write", Err: err}
	}
	return nil
}

// Exists reports whether path names an existing regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// ReadJSON decodes the JSON file at path into out.
func ReadJSON(path string, out any) error {
	text, err := ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("fileio: decode %q: %w", path, err)
	}
	return nil
}

// WriteJSON serializes value with two-space indentation and overwrites the
// file at path. State files stay readable in a text editor.
func WriteJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("fileio: encode %q: %w", path, err)
	}
	return WriteFile(path, string(data)+"\n")
}
