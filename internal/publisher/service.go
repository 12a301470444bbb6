// Package publisher orchestrates the article lifecycle end to end: turning
// a source file into rendered pages, keeping the registry and neighbor
// navigation consistent, and regenerating the landing page and feed after
// every change.
package publisher

import (
	"context"
	"strings"
	"time"

	"github.com/jerradgenson/auteur/internal/article"
	"github.com/jerradgenson/auteur/internal/config"
	"github.com/jerradgenson/auteur/internal/fileio"
	"github.com/jerradgenson/auteur/internal/linker"
	"github.com/jerradgenson/auteur/internal/logging"
	"github.com/jerradgenson/auteur/internal/markdown"
	"github.com/jerradgenson/auteur/internal/render"
	"github.com/jerradgenson/auteur/internal/site"
	"github.com/jerradgenson/auteur/internal/templates"
	"github.com/jerradgenson/auteur/pkg/interfaces"
)

// Service drives add, remove, and build runs over one project. It owns the
// wiring between the registry, render pipeline, linker, and site builder;
// callers construct one Service per invocation.
type Service struct {
	cfg        *config.Config
	project    config.Project
	registry   *article.Registry
	translator *markdown.Translator
	renderer   *render.Pipeline
	linker     *linker.Linker
	site       *site.Builder
	logger     interfaces.Logger
	now        func() time.Time
}

// Option configures a Service.
type Option func(*options)

type options struct {
	logger     interfaces.Logger
	provider   interfaces.LoggerProvider
	translator *markdown.Translator
	now        func() time.Time
}

// WithLogger attaches the service's own logger. Defaults to a logger derived
// from the provider, or a no-op when there is none.
func WithLogger(logger interfaces.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLoggerProvider derives per-subsystem loggers from provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithTranslator swaps the markdown translator.
func WithTranslator(translator *markdown.Translator) Option {
	return func(o *options) {
		if translator != nil {
			o.translator = translator
		}
	}
}

// WithClock fixes the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// New wires a service over an already-loaded configuration and registry.
func New(cfg *config.Config, project config.Project, store *templates.Store, registry *article.Registry, opts ...Option) *Service {
	o := &options{
		translator: markdown.NewTranslator(markdown.Options{}),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger
	if logger == nil {
		logger = logging.PublisherLogger(o.provider)
	}

	return &Service{
		cfg:        cfg,
		project:    project,
		registry:   registry,
		translator: o.translator,
		renderer: render.New(cfg, store, registry,
			render.WithLogger(logging.RenderLogger(o.provider)),
			render.WithClock(o.now)),
		linker: linker.New(project,
			linker.WithLogger(logging.LinkerLogger(o.provider))),
		site: site.New(cfg, project, store, registry,
			site.WithLogger(logging.SiteLogger(o.provider)),
			site.WithClock(o.now)),
		logger: logger,
		now:    o.now,
	}
}

// BuildResult summarizes a full rebuild.
type BuildResult struct {
	Rebuilt int
}

// draft is an article prepared for writing: the replacement registry entry,
// its extraction, and the content page metadata derives from.
type draft struct {
	article    *article.Article
	extraction render.Extraction
	source     string
}

// Add publishes the article at sourcePath: translate, render, insert into
// the registry, commit, rewrite neighbor navigation, and regenerate the
// landing page and feed. dateOverride, when non-empty, wins over any date
// the source declares.
func (s *Service) Add(ctx context.Context, sourcePath, dateOverride string) (*article.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := fileio.ReadFile(sourcePath)
	if err != nil {
		return nil, err
	}

	d, err := s.prepare(raw, s.deriveTarget(sourcePath), dateOverride, time.Time{}, !isHTMLFile(sourcePath))
	if err != nil {
		return nil, err
	}
	d.article.SetSource(sourcePath)

	s.registry.Insert(d.article)

	if err := s.write(d); err != nil {
		return nil, err
	}
	if err := s.registry.Commit(); err != nil {
		return nil, err
	}
	if err := s.relinkNeighbors(d.article); err != nil {
		return nil, err
	}
	if err := s.site.Regenerate(); err != nil {
		return nil, err
	}

	logging.WithArticleContext(s.logger, d.article.Target, d.article.Title, sourcePath).
		Info("article published", "pub_date", d.article.PublicationDate.Format(article.HumanDateLayout))
	return d.article, nil
}

// Remove deletes the registry entry titled title, commits, and rebuilds the
// remaining site so no page links at the removed article. The removed
// article's files stay on disk; only the registry forgets them.
func (s *Service) Remove(ctx context.Context, title string) (*article.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	removed, err := s.registry.Remove(title, true)
	if err != nil {
		return nil, err
	}
	if err := s.registry.Commit(); err != nil {
		return nil, err
	}
	if _, err := s.Build(ctx); err != nil {
		return nil, err
	}

	logging.WithArticleContext(s.logger, removed.Target, removed.Title, "").
		Info("article removed")
	return removed, nil
}

// Build re-renders every registered article from its best available source,
// relinks the whole chronological chain, commits, and regenerates the
// landing page and feed. An article whose source file is gone is recovered
// from its own rendered page.
func (s *Service) Build(ctx context.Context) (*BuildResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries := s.registry.Articles()
	drafts := make([]draft, 0, len(entries))

	for _, a := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d, err := s.rebuildEntry(a)
		if err != nil {
			return nil, err
		}
		s.registry.Insert(d.article)
		drafts = append(drafts, d)
	}

	// Writing waits until the whole registry is re-inserted so every nav
	// bar sees the final ordering.
	for _, d := range drafts {
		if err := s.write(d); err != nil {
			return nil, err
		}
	}

	if err := s.linkSequence(); err != nil {
		return nil, err
	}
	if err := s.registry.Commit(); err != nil {
		return nil, err
	}
	if err := s.site.Regenerate(); err != nil {
		return nil, err
	}

	s.logger.Info("site rebuilt", "articles", len(drafts))
	return &BuildResult{Rebuilt: len(drafts)}, nil
}

// Regenerate rewrites the landing page and RSS feed from current registry
// state without touching article pages.
func (s *Service) Regenerate() error {
	return s.site.Regenerate()
}

// prepare turns raw source text into a draft: front matter split off,
// markdown translated, the title block rebuilt, and the publication date
// decided. fallback carries the prior registry date on rebuilds and stays
// zero on first publication.
func (s *Service) prepare(raw, target, dateOverride string, fallback time.Time, markdownSource bool) (draft, error) {
	fm, body, err := markdown.ParseFrontMatter(raw)
	if err != nil {
		return draft{}, err
	}

	// Only the authored marker drives the date. The subtitle paragraph
	// form also matches on recovered pages, but that text is our own
	// output; the registry date it came from is already the fallback.
	marker, markerDate := render.ExtractPubDate(body)
	authored := render.AuthoredPubDate(marker)
	if !authored {
		markerDate = ""
	}
	if authored && markdownSource {
		// goldmark escapes the marker tag as literal text, so it comes
		// off the source before translation
		body = strings.Replace(body, marker, "", 1)
	}

	content := body
	if markdownSource {
		content, err = s.translator.Translate(body)
		if err != nil {
			return draft{}, err
		}
	}

	pubDate, subtitle, err := s.publication(dateOverride, fm.Published, markerDate, fallback)
	if err != nil {
		return draft{}, err
	}

	ex, err := render.Extract(content, render.ExtractOptions{
		Title:       fm.Title,
		Subtitle:    subtitle,
		Description: fm.Description,
	})
	if err != nil {
		return draft{}, err
	}

	a := article.New(target, ex.Title, pubDate)
	a.SetFilenames(render.Filenames(s.cfg))
	return draft{article: a, extraction: ex, source: body}, nil
}

// publication decides the registry date and the human-readable subtitle
// shown under the title. Priority: explicit override, front matter, the
// embedded marker, then fallback. The marker text passes into the subtitle
// verbatim; other sources render in the standard human form.
func (s *Service) publication(override, declared, markerDate string, fallback time.Time) (time.Time, string, error) {
	switch {
	case strings.TrimSpace(override) != "":
		date, err := article.ParseDate(override)
		if err != nil {
			return time.Time{}, "", err
		}
		return date, date.Format(article.HumanDateLayout), nil
	case strings.TrimSpace(declared) != "":
		date, err := article.ParseDate(declared)
		if err != nil {
			return time.Time{}, "", err
		}
		return date, date.Format(article.HumanDateLayout), nil
	case markerDate != "":
		date, err := article.ParseDate(markerDate)
		if err != nil {
			return time.Time{}, "", err
		}
		return date, markerDate, nil
	case !fallback.IsZero():
		return fallback, fallback.Format(article.HumanDateLayout), nil
	}

	now := s.now().UTC().Truncate(time.Minute)
	return now, now.Format(article.HumanDateLayout), nil
}

// write composes the final pages for a draft and puts them on disk,
// caching the bodies on the article for preview assembly.
func (s *Service) write(d draft) error {
	rendered, err := s.renderer.Compose(d.article, d.extraction, d.source)
	if err != nil {
		return err
	}

	if rel, ok := d.article.HTMLPath(); ok {
		if err := fileio.WriteFile(s.project.Resolve(rel), rendered.HTML); err != nil {
			return err
		}
		d.article.SetHTMLBody(rendered.HTML)
	}
	if rel, ok := d.article.AMPPath(); ok {
		if err := fileio.WriteFile(s.project.Resolve(rel), rendered.AMP); err != nil {
			return err
		}
		d.article.SetAMPBody(rendered.AMP)
	}
	return nil
}

// relinkNeighbors points the chronological neighbors of a at their new
// middle. The new page's own Next anchor is created here too; its Previous
// anchor was baked in at compose time.
func (s *Service) relinkNeighbors(a *article.Article) error {
	prev, err := s.registry.Previous(a)
	if err != nil {
		return err
	}
	next, err := s.registry.Next(a)
	if err != nil {
		return err
	}

	if next != nil {
		if err := s.linker.InsertNextLink(a, next); err != nil {
			return err
		}
		if err := s.linker.InsertPreviousLink(next, a); err != nil {
			return err
		}
	}
	if prev != nil {
		if err := s.linker.InsertNextLink(prev, a); err != nil {
			return err
		}
	}
	return nil
}

// linkSequence inserts Next anchors down the full chronological chain.
// Freshly composed pages already carry correct Previous anchors.
func (s *Service) linkSequence() error {
	for i := 0; i+1 < s.registry.Len(); i++ {
		if err := s.linker.InsertNextLink(s.registry.At(i), s.registry.At(i+1)); err != nil {
			return err
		}
	}
	return nil
}
