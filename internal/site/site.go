// Package site assembles the derivative artifacts of a blog: landing-page
// previews, the landing page itself, and the RSS feed. Everything here is
// regenerated from committed registry state rather than patched in place.
package site

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/jerradgenson/auteur/internal/article"
	"github.com/jerradgenson/auteur/internal/config"
	"github.com/jerradgenson/auteur/internal/fileio"
	"github.com/jerradgenson/auteur/internal/logging"
	"github.com/jerradgenson/auteur/internal/templates"
	"github.com/jerradgenson/auteur/pkg/interfaces"
)

// rssDateLayout is the item pubDate form. Feeds always report GMT, so the
// zone is appended as literal text after formatting in UTC.
const rssDateLayout = "Mon, 02 Jan 2006 15:04:05"

var (
	figurePattern     = regexp.MustCompile(`(?s)<figure>.+?</figure>`)
	figcaptionPattern = regexp.MustCompile(`(?s)<figcaption>.+?</figcaption>`)
	htmlTagPattern    = regexp.MustCompile(`<[^>]*>`)
)

// Preview carries the landing-page extract of one article.
type Preview struct {
	Article *article.Article

	// Path is the server-relative path of the rendered page the preview
	// was read from, which is also the path feed links point at.
	Path string

	// IntroText is the tag-stripped text of the first one or two prose
	// paragraphs.
	IntroText string

	// FirstPhoto is the raw markup of the article's first figure block,
	// empty when it has none.
	FirstPhoto string
}

// Builder assembles the landing page and feed artifacts of one project.
type Builder struct {
	cfg      *config.Config
	project  config.Project
	store    *templates.Store
	registry *article.Registry
	logger   interfaces.Logger
	now      func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger attaches a logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithClock fixes the time source used for the last-updated and copyright
// fields.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// New builds a Builder over the given configuration, project, template
// store, and registry.
func New(cfg *config.Config, project config.Project, store *templates.Store, registry *article.Registry, opts ...Option) *Builder {
	b := &Builder{
		cfg:      cfg,
		project:  project,
		store:    store,
		registry: registry,
		logger:   logging.NoOp(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Regenerate rebuilds the landing page and RSS feed together, the way every
// mutating command finishes.
func (b *Builder) Regenerate() error {
	if err := b.WriteLandingPage(); err != nil {
		return err
	}
	return b.WriteRSSFeed()
}

// Previews walks the registry newest-first and extracts a preview from each
// article's rendered page.
func (b *Builder) Previews() ([]Preview, error) {
	articles := b.registry.Articles()
	previews := make([]Preview, 0, len(articles))
	for i := len(articles) - 1; i >= 0; i-- {
		preview, err := b.preview(articles[i])
		if err != nil {
			return nil, err
		}
		previews = append(previews, preview)
	}
	return previews, nil
}

func (b *Builder) preview(a *article.Article) (Preview, error) {
	relPath, doc, err := b.readRendered(a)
	if err != nil {
		return Preview{}, err
	}
	return Preview{
		Article:    a,
		Path:       relPath,
		IntroText:  introText(doc),
		FirstPhoto: figurePattern.FindString(doc),
	}, nil
}

// readRendered loads the article's rendered page, falling back from the
// vanilla variant to the AMP one when the vanilla file cannot be read.
func (b *Builder) readRendered(a *article.Article) (string, string, error) {
	var htmlErr error
	if relPath, ok := a.HTMLPath(); ok {
		doc, err := a.EnsureHTMLBody(func() (string, error) {
			return fileio.ReadFile(b.project.Resolve(relPath))
		})
		if err == nil {
			return relPath, doc, nil
		}
		htmlErr = err
	}

	if relPath, ok := a.AMPPath(); ok {
		doc, err := a.EnsureAMPBody(func() (string, error) {
			return fileio.ReadFile(b.project.Resolve(relPath))
		})
		if err == nil {
			return relPath, doc, nil
		}
		if htmlErr == nil {
			htmlErr = err
		}
	}

	if htmlErr != nil {
		return "", "", htmlErr
	}
	return "", "", fmt.Errorf("site: article %q has no rendered output", a.Target)
}

// WriteLandingPage regenerates the landing page from registry state and
// writes it to index.html at the project root.
func (b *Builder) WriteLandingPage() error {
	previews, err := b.Previews()
	if err != nil {
		return err
	}

	var aggregate strings.Builder
	for _, preview := range previews {
		aggregate.WriteString(b.previewSection(preview))
		aggregate.WriteString("\n\n")
	}

	page, err := b.store.Page()
	if err != nil {
		return err
	}

	now := b.now()
	fields := templates.SiteFields(b.cfg)
	fields["article_title"] = b.cfg.BlogTitle
	fields["article_content"] = aggregate.String()
	fields["nav_bar"] = ""
	fields["home_page_link"] = ""
	fields["description"] = b.cfg.Description
	fields["article_url"] = b.cfg.RootURL
	fields["first_image"] = ""
	fields["last_updated"] = "Last updated: " + now.Format(article.HumanDateLayout)
	fields["current_year"] = now.Format("2006")

	if err := fileio.WriteFile(b.project.LandingPagePath(), templates.Substitute(page, fields)); err != nil {
		return err
	}

	b.logger.Debug("wrote landing page", "articles", len(previews))
	return nil
}

func (b *Builder) previewSection(preview Preview) string {
	target := preview.Article.Target
	titleBlock := templates.ArticleTitleBlock(target, preview.Article.Title,
		preview.Article.PublicationDate.Format(article.HumanDateLayout))
	content := "<p>" + preview.IntroText + " " + templates.ContinueReadingLink(target) + "</p>"
	return templates.ArticlePreviewSection(titleBlock, preview.FirstPhoto, content)
}

// WriteRSSFeed regenerates the RSS feed from registry state and writes it
// to the configured feed path. Every interpolated value is XML-escaped;
// item descriptions carry escaped HTML the way feed readers expect.
func (b *Builder) WriteRSSFeed() error {
	previews, err := b.Previews()
	if err != nil {
		return err
	}

	feedTemplate, err := b.store.RSS()
	if err != nil {
		return err
	}
	itemTemplate, err := b.store.RSSItem()
	if err != nil {
		return err
	}

	var items strings.Builder
	for _, preview := range previews {
		items.WriteString(templates.Substitute(itemTemplate, map[string]string{
			"article_title":       escapeXML(preview.Article.Title),
			"article_url":         escapeXML(BuildURL(b.cfg.RootURL, preview.Path)),
			"article_date":        escapeXML(rssDate(preview.Article.PublicationDate)),
			"article_description": escapeXML(rssDescription(preview)),
		}))
	}

	feed := templates.Substitute(feedTemplate, map[string]string{
		"blog_title":    escapeXML(b.cfg.BlogTitle),
		"blog_subtitle": escapeXML(b.cfg.BlogSubtitle),
		"root_url":      escapeXML(b.cfg.RootURL),
		"description":   escapeXML(b.cfg.Description),
		"owner":         escapeXML(b.cfg.Owner),
		"email_address": escapeXML(b.cfg.EmailAddress),
		"items":         items.String(),
	})

	if err := fileio.WriteFile(b.project.Resolve(b.cfg.RSSFeedPath), feed); err != nil {
		return err
	}

	b.logger.Debug("wrote rss feed", "items", len(previews), "path", b.cfg.RSSFeedPath)
	return nil
}

func rssDate(t time.Time) string {
	return t.UTC().Format(rssDateLayout) + " GMT"
}

func rssDescription(preview Preview) string {
	text := "<p>" + preview.IntroText + "</p>\n"
	if preview.FirstPhoto != "" {
		photo := figcaptionPattern.ReplaceAllString(preview.FirstPhoto, "")
		text = photo + "\n" + text
	}
	return text
}

// introText pulls the first one or two prose paragraphs out of a rendered
// page and strips their markup. Chunks that open with another tag are
// skipped, so figures, headings, and classed paragraphs never leak into the
// preview.
func introText(doc string) string {
	var collected []string
	chunks := strings.Split(doc, "<p>")
	for _, chunk := range chunks[1:] {
		if len(collected) == 2 {
			break
		}
		trimmed := strings.TrimSpace(chunk)
		if trimmed == "" || trimmed[0] == '<' {
			continue
		}
		if end := strings.Index(chunk, "</p>"); end >= 0 {
			chunk = chunk[:end]
		}
		text := strings.TrimSpace(htmlTagPattern.ReplaceAllString(chunk, ""))
		if text != "" {
			collected = append(collected, text)
		}
	}
	return strings.Join(collected, " ")
}

func escapeXML(value string) string {
	return html.EscapeString(value)
}
