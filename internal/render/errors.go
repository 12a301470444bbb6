package render

import (
	"errors"
	"fmt"
)

// ErrMalformedContent marks article content the pipeline cannot derive a
// title from.
var ErrMalformedContent = errors.New("render: malformed content")

// MalformedContentError reports content with no extractable heading.
type MalformedContentError struct {
	Reason string
}

func (e *MalformedContentError) Error() string {
	if e == nil || e.Reason == "" {
		return ErrMalformedContent.Error()
	}
	return fmt.Sprintf("render: malformed content: %s", e.Reason)
}

func (e *MalformedContentError) Unwrap() error {
	return ErrMalformedContent
}
