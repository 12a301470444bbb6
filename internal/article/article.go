// Package article holds the blog's source of chronological truth: the
// Article entity, its deterministic identity, and the ordered Registry that
// persists as JSON between runs.
package article

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Article is one blog post. Target doubles as the unique registry key;
// Title is the traversal identity used by Previous/Next lookups.
type Article struct {
	// Source is the path to the Markdown/HTML input, nil for entries with
	// no backing source on disk.
	Source *string

	// Target is the output directory relative to the project root.
	Target string

	// PublicationDate is the primary sort key. Minute precision survives
	// persistence; anything finer does not.
	PublicationDate time.Time

	Title string

	// HTMLBody and AMPBody cache rendered content. They stay nil until a
	// caller loads them through EnsureHTMLBody/EnsureAMPBody or assigns
	// them after rendering.
	HTMLBody *string
	AMPBody  *string

	// HTMLFilename and AMPFilename are nil when the variant is disabled.
	HTMLFilename *string
	AMPFilename  *string
}

// New returns an article keyed by target with the given title and date.
func New(target, title string, publicationDate time.Time) *Article {
	return &Article{
		Target:          target,
		Title:           title,
		PublicationDate: publicationDate,
	}
}

// ID returns the article's deterministic identity, derived from the title.
func (a *Article) ID() uuid.UUID {
	return UUID(a.Title)
}

// SetSource records the path of the backing input file.
func (a *Article) SetSource(path string) {
	a.Source = &path
}

// SetHTMLBody caches rendered vanilla HTML.
func (a *Article) SetHTMLBody(body string) {
	a.HTMLBody = &body
}

// SetAMPBody caches rendered AMP HTML.
func (a *Article) SetAMPBody(body string) {
	a.AMPBody = &body
}

// SetFilenames records the output filenames; empty strings mean the variant
// is disabled and store as nil.
func (a *Article) SetFilenames(html, amp string) {
	a.HTMLFilename = nil
	a.AMPFilename = nil
	if html != "" {
		a.HTMLFilename = &html
	}
	if amp != "" {
		a.AMPFilename = &amp
	}
}

// HTMLPath returns target/<html_filename> relative to the project root, or
// false when the vanilla variant is disabled.
func (a *Article) HTMLPath() (string, bool) {
	if a.HTMLFilename == nil || *a.HTMLFilename == "" {
		return "", false
	}
	return filepath.Join(a.Target, *a.HTMLFilename), true
}

// AMPPath returns target/<amp_filename> relative to the project root, or
// false when the AMP variant is disabled.
func (a *Article) AMPPath() (string, bool) {
	if a.AMPFilename == nil || *a.AMPFilename == "" {
		return "", false
	}
	return filepath.Join(a.Target, *a.AMPFilename), true
}

// EnsureHTMLBody returns the cached vanilla body, calling load to fill the
// cache on first use. Loading is explicit so staleness stays visible to the
// caller; nothing invalidates the cache behind its back.
func (a *Article) EnsureHTMLBody(load func() (string, error)) (string, error) {
	if a.HTMLBody != nil {
		return *a.HTMLBody, nil
	}
	body, err := load()
	if err != nil {
		return "", err
	}
	a.HTMLBody = &body
	return body, nil
}

// EnsureAMPBody returns the cached AMP body, calling load to fill the cache
// on first use.
func (a *Article) EnsureAMPBody(load func() (string, error)) (string, error) {
	if a.AMPBody != nil {
		return *a.AMPBody, nil
	}
	body, err := load()
	if err != nil {
		return "", err
	}
	a.AMPBody = &body
	return body, nil
}
