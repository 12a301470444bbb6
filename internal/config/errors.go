package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfigField     = errors.New("config: invalid configuration field")
	ErrProjectNotFound = errors.New("config: no project found")
)

// ConfigFieldError reports a configuration field that is missing or carries
// the wrong type.
type ConfigFieldError struct {
	Field  string
	Reason string
}

func (e *ConfigFieldError) Error() string {
	if e == nil {
		return ErrConfigField.Error()
	}
	reason := strings.TrimSpace(e.Reason)
	if reason != "" {
		return fmt.Sprintf("%s: %s", ErrConfigField.Error(), reason)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %q", ErrConfigField.Error(), e.Field)
	}
	return ErrConfigField.Error()
}

func (e *ConfigFieldError) Unwrap() error {
	return ErrConfigField
}

func newMissingFieldError(field string) *ConfigFieldError {
	return &ConfigFieldError{
		Field:  field,
		Reason: fmt.Sprintf("%q field is missing from configuration file", field),
	}
}

func newMistypedFieldError(field, message string) *ConfigFieldError {
	reason := fmt.Sprintf("value for %q in configuration file has invalid type", field)
	if message != "" {
		reason = fmt.Sprintf("%s (%s)", reason, message)
	}
	return &ConfigFieldError{Field: field, Reason: reason}
}

// ProjectNotFoundError reports a directory with no readable configuration
// file, meaning no project was initialized there.
type ProjectNotFoundError struct {
	Root string
	Err  error
}

func (e *ProjectNotFoundError) Error() string {
	if e == nil {
		return ErrProjectNotFound.Error()
	}
	if e.Root != "" {
		return fmt.Sprintf("%s: an auteur project could not be found in %q", ErrProjectNotFound.Error(), e.Root)
	}
	return ErrProjectNotFound.Error()
}

// Unwrap exposes both the sentinel and the underlying file error so callers
// can match either with errors.Is.
func (e *ProjectNotFoundError) Unwrap() []error {
	if e == nil || e.Err == nil {
		return []error{ErrProjectNotFound}
	}
	return []error{ErrProjectNotFound, e.Err}
}
