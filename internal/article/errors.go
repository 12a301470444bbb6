package article

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound      = errors.New("article: article not found")
	ErrNotRegistered = errors.New("article: article not registered")
	ErrCorruptState  = errors.New("article: registry state is corrupt")
)

// NotFoundError reports a lookup or removal that matched no registry entry.
type NotFoundError struct {
	Key     string
	ByTitle bool
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ErrNotFound.Error()
	}
	key := strings.TrimSpace(e.Key)
	if key == "" {
		return ErrNotFound.Error()
	}
	field := "target"
	if e.ByTitle {
		field = "title"
	}
	return fmt.Sprintf("%s: %s=%q", ErrNotFound.Error(), field, key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NotRegisteredError reports a traversal attempted on an article that was
// never inserted into the registry.
type NotRegisteredError struct {
	Title string
}

func (e *NotRegisteredError) Error() string {
	if e == nil {
		return ErrNotRegistered.Error()
	}
	title := strings.TrimSpace(e.Title)
	if title == "" {
		return ErrNotRegistered.Error()
	}
	return fmt.Sprintf("%s: title=%q", ErrNotRegistered.Error(), title)
}

func (e *NotRegisteredError) Unwrap() error {
	return ErrNotRegistered
}

// CorruptStateError reports a registry file that exists but cannot be decoded.
type CorruptStateError struct {
	Path string
	Err  error
}

func (e *CorruptStateError) Error() string {
	if e == nil {
		return ErrCorruptState.Error()
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", ErrCorruptState.Error(), e.Path)
	}
	return ErrCorruptState.Error()
}

func (e *CorruptStateError) Unwrap() error {
	return ErrCorruptState
}

// Cause exposes the underlying decode error for debug output.
func (e *CorruptStateError) Cause() error {
	if e == nil {
		return nil
	}
	return e.Err
}
