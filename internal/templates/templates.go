// Package templates resolves the page, AMP, and RSS templates for a project
// and substitutes {field} placeholders into them. Templates are plain
// placeholder strings, not a control-flow language: known tokens are
// replaced, everything else passes through untouched.
package templates

import (
	_ "embed"
	"strings"

	"github.com/jerradgenson/auteur/internal/config"
	"github.com/jerradgenson/auteur/internal/fileio"
	"github.com/jerradgenson/auteur/internal/logging"
	"github.com/jerradgenson/auteur/pkg/interfaces"
)

//go:embed assets/template.html
var defaultPageTemplate string

//go:embed assets/amp_template.html
var defaultAMPTemplate string

//go:embed assets/rss_template.xml
var defaultRSSTemplate string

//go:embed assets/rss_item_template.xml
var defaultRSSItemTemplate string

// Substitute replaces every {key} token in template with the corresponding
// field value. Tokens without a field entry are left as-is, which keeps CSS
// braces and stray brackets in templates safe.
func Substitute(template string, fields map[string]string) string {
	if len(fields) == 0 {
		return template
	}

	pairs := make([]string, 0, len(fields)*2)
	for key, value := range fields {
		pairs = append(pairs, "{"+key+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// SiteFields returns the substitution fields every generated page shares,
// drawn straight from the configuration. Callers layer page-specific fields
// on top.
func SiteFields(cfg *config.Config) map[string]string {
	return map[string]string{
		"blog_title":    cfg.BlogTitle,
		"blog_subtitle": cfg.BlogSubtitle,
		"owner":         cfg.Owner,
		"email_address": cfg.EmailAddress,
		"rss_feed_path": cfg.RSSFeedPath,
		"style_sheet":   cfg.StyleSheet,
		"root_url":      cfg.RootURL,
	}
}

// Store resolves template text for one project. Resolution order: a theme
// override path when configured, then a file under the project's state
// directory, then the embedded default.
type Store struct {
	project config.Project
	logger  interfaces.Logger

	themePagePath string
	themeAMPPath  string
}

// Option configures a Store.
type Option func(*Store)

// WithThemeTemplates points the page and AMP templates at theme-provided
// files. Empty paths leave the regular resolution order in place.
func WithThemeTemplates(pagePath, ampPath string) Option {
	return func(s *Store) {
		s.themePagePath = pagePath
		s.themeAMPPath = ampPath
	}
}

// WithLogger attaches a logger to the store. Defaults to a no-op.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore returns a template store for the given project.
func NewStore(project config.Project, opts ...Option) *Store {
	s := &Store{
		project: project,
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Page returns the article page template.
func (s *Store) Page() (string, error) {
	return s.resolve(s.themePagePath, s.project.TemplatePath(), defaultPageTemplate)
}

// AMP returns the AMP page template.
func (s *Store) AMP() (string, error) {
	return s.resolve(s.themeAMPPath, s.project.AMPTemplatePath(), defaultAMPTemplate)
}

// RSS returns the outer RSS document template.
func (s *Store) RSS() (string, error) {
	return s.resolve("", s.project.RSSTemplatePath(), defaultRSSTemplate)
}

// RSSItem returns the per-item RSS template.
func (s *Store) RSSItem() (string, error) {
	return s.resolve("", s.project.RSSItemTemplatePath(), defaultRSSItemTemplate)
}

// resolve reads the theme path when set, then the project override when
// present, and otherwise falls back to the embedded default. A configured
// theme path that cannot be read is an error, not a silent fallback.
func (s *Store) resolve(themePath, projectPath, fallback string) (string, error) {
	if themePath != "" {
		text, err := fileio.ReadFile(themePath)
		if err != nil {
			return "", err
		}
		s.logger.Debug("template resolved from theme", "path", themePath)
		return text, nil
	}

	if fileio.Exists(projectPath) {
		text, err := fileio.ReadFile(projectPath)
		if err != nil {
			return "", err
		}
		s.logger.Debug("template resolved from project", "path", projectPath)
		return text, nil
	}

	return fallback, nil
}

// EnsureDefaults writes any missing template files into the project state
// directory. Existing files are never overwritten.
func (s *Store) EnsureDefaults() error {
	files := []struct {
		path    string
		content string
	}{
		{s.project.TemplatePath(), defaultPageTemplate},
		{s.project.AMPTemplatePath(), defaultAMPTemplate},
		{s.project.RSSTemplatePath(), defaultRSSTemplate},
		{s.project.RSSItemTemplatePath(), defaultRSSItemTemplate},
	}

	for _, file := range files {
		if fileio.Exists(file.path) {
			continue
		}
		if err := fileio.WriteFile(file.path, file.content); err != nil {
			return err
		}
		s.logger.Debug("template scaffolded", "path", file.path)
	}

	return nil
}
