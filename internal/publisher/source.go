package publisher

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jerradgenson/auteur/internal/article"
	"github.com/jerradgenson/auteur/internal/fileio"
	"github.com/jerradgenson/auteur/internal/render"
)

// articleRegionPattern captures the wrapped article body of a rendered page,
// from the opening article tag through the close of the content section.
var articleRegionPattern = regexp.MustCompile(`(?s)<article>.+?</section>`)

var renderedWrappers = []string{
	"<article>",
	"</section>",
	`<section class="main_content">`,
	`<section class="article_content">`,
}

// rebuildEntry prepares a replacement draft for an already registered
// article. The existing registry date is the fallback, so rebuilds only
// move an article when its source declares a new date.
func (s *Service) rebuildEntry(a *article.Article) (draft, error) {
	content, markdownSource, sourcePath, err := s.loadSource(a)
	if err != nil {
		return draft{}, err
	}

	d, err := s.prepare(content, a.Target, "", a.PublicationDate, markdownSource)
	if err != nil {
		return draft{}, err
	}

	if sourcePath != "" {
		d.article.SetSource(sourcePath)
	} else if a.Source != nil {
		d.article.Source = a.Source
	}
	return d, nil
}

// loadSource finds the best content to rebuild a from. It tries the
// recorded source path, then the conventional markdown locations next to
// the target directory, and finally recovers the body from the article's
// own rendered page.
func (s *Service) loadSource(a *article.Article) (content string, markdownSource bool, sourcePath string, err error) {
	if a.Source != nil {
		for _, candidate := range []string{*a.Source, s.project.Resolve(*a.Source)} {
			if !fileio.Exists(candidate) {
				continue
			}
			content, err = fileio.ReadFile(candidate)
			if err != nil {
				return "", false, "", err
			}
			return content, !isHTMLFile(candidate), *a.Source, nil
		}
	}

	stem := filepath.Base(a.Target)
	inside := filepath.Join(a.Target, stem+".md")
	beside := filepath.Join(filepath.Dir(a.Target), stem+".md")
	for _, candidate := range []string{inside, beside} {
		resolved := s.project.Resolve(candidate)
		if !fileio.Exists(resolved) {
			continue
		}
		content, err = fileio.ReadFile(resolved)
		if err != nil {
			return "", false, "", err
		}
		return content, true, candidate, nil
	}

	content, err = s.recoverRendered(a)
	if err != nil {
		return "", false, "", err
	}
	return content, false, "", nil
}

// recoverRendered pulls the article body back out of the rendered page,
// stripping the structural wrappers the page template added around it.
func (s *Service) recoverRendered(a *article.Article) (string, error) {
	rel, ok := a.HTMLPath()
	if !ok {
		rel, ok = a.AMPPath()
	}
	if !ok {
		return "", fmt.Errorf("publisher: no rendered output recorded for %q", a.Target)
	}

	page, err := fileio.ReadFile(s.project.Resolve(rel))
	if err != nil {
		return "", err
	}

	region := articleRegionPattern.FindString(page)
	if region == "" {
		return "", &render.MalformedContentError{Reason: fmt.Sprintf("no article region in %s", rel)}
	}
	for _, wrapper := range renderedWrappers {
		region = strings.ReplaceAll(region, wrapper, "")
	}
	return strings.TrimSpace(region), nil
}

// deriveTarget maps a source file to its site-relative article directory.
// A source inside the project tree publishes into its own directory; a
// source at the project root or outside the tree gets a directory named
// after the file.
func (s *Service) deriveTarget(sourcePath string) string {
	abs, err := filepath.Abs(sourcePath)
	if err != nil {
		return sourceStem(sourcePath)
	}
	root, err := filepath.Abs(s.project.Root)
	if err != nil {
		return sourceStem(sourcePath)
	}

	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(sourcePath)
	}

	dir := filepath.Dir(rel)
	if dir == "." || dir == string(filepath.Separator) {
		return sourceStem(rel)
	}
	return dir
}

func sourceStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isHTMLFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}
