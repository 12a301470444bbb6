// Package linker rewrites the Previous and Next navigation anchors inside
// rendered article pages so navigation stays consistent with registry
// order. Next anchors are created on demand after the home link; Previous
// anchors are only ever replaced, because the page template renders the
// Previous slot itself and first posts legitimately have none.
package linker

import (
	"regexp"
	"strings"

	"github.com/jerradgenson/auteur/internal/article"
	"github.com/jerradgenson/auteur/internal/config"
	"github.com/jerradgenson/auteur/internal/fileio"
	"github.com/jerradgenson/auteur/internal/logging"
	"github.com/jerradgenson/auteur/pkg/interfaces"
)

// homeLinkMarker anchors navigation rewrites. Every generated page carries
// it in the nav bar.
const homeLinkMarker = `Home</a>`

var (
	nextAnchorPattern     = regexp.MustCompile(`Home</a> <a href=".*?">Next</a>`)
	previousAnchorPattern = regexp.MustCompile(`<a href=".*?">Previous</a>`)
)

// Linker maintains navigation anchors in the rendered pages of a project.
type Linker struct {
	project config.Project
	logger  interfaces.Logger
}

// Option configures a Linker.
type Option func(*Linker)

// WithLogger attaches a logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(l *Linker) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New builds a Linker for the given project.
func New(project config.Project, opts ...Option) *Linker {
	l := &Linker{
		project: project,
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// InsertNextLink points target's Next anchor at next, creating the anchor
// right after the home link when the page does not carry one yet. Calling
// it again with the same neighbor is a no-op.
func (l *Linker) InsertNextLink(target, next *article.Article) error {
	if next == nil {
		return nil
	}
	return l.updateAnchors(target, "next", func(doc string) string {
		return upsertNextAnchor(doc, "../"+next.Target)
	})
}

// InsertPreviousLink points target's Previous anchor at previous. Pages
// without a Previous anchor are left untouched.
func (l *Linker) InsertPreviousLink(target, previous *article.Article) error {
	if previous == nil {
		return nil
	}
	return l.updateAnchors(target, "previous", func(doc string) string {
		return replacePreviousAnchor(doc, "../"+previous.Target)
	})
}

// updateAnchors applies rewrite to every rendered variant of target and
// persists the ones that changed.
func (l *Linker) updateAnchors(target *article.Article, kind string, rewrite func(string) string) error {
	if relPath, ok := target.HTMLPath(); ok {
		if err := l.rewriteFile(target, relPath, kind, target.EnsureHTMLBody, target.SetHTMLBody, rewrite); err != nil {
			return err
		}
	}
	if relPath, ok := target.AMPPath(); ok {
		if err := l.rewriteFile(target, relPath, kind, target.EnsureAMPBody, target.SetAMPBody, rewrite); err != nil {
			return err
		}
	}
	return nil
}

func (l *Linker) rewriteFile(
	target *article.Article,
	relPath, kind string,
	ensure func(func() (string, error)) (string, error),
	cache func(string),
	rewrite func(string) string,
) error {
	path := l.project.Resolve(relPath)
	doc, err := ensure(func() (string, error) {
		return fileio.ReadFile(path)
	})
	if err != nil {
		return err
	}

	updated := rewrite(doc)
	if updated == doc {
		return nil
	}
	if err := fileio.WriteFile(path, updated); err != nil {
		return err
	}
	cache(updated)

	l.logger.Debug("rewrote navigation anchor",
		"target", target.Target,
		"link", kind,
		"path", relPath)
	return nil
}

func upsertNextAnchor(doc, href string) string {
	replacement := homeLinkMarker + ` <a href="` + href + `">Next</a>`
	if nextAnchorPattern.MatchString(doc) {
		return nextAnchorPattern.ReplaceAllLiteralString(doc, replacement)
	}
	return strings.Replace(doc, homeLinkMarker, replacement, 1)
}

func replacePreviousAnchor(doc, href string) string {
	return previousAnchorPattern.ReplaceAllLiteralString(doc, `<a href="`+href+`">Previous</a>`)
}
