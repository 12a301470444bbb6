// Package render turns translated article HTML into finished page
// documents. Extraction pulls the title and publication subtitle out of raw
// content and rebuilds the body around a templated title block; composition
// adds navigation, page metadata, and the AMP variant, then applies the
// page templates.
package render

import (
	"regexp"
	"strings"
	"time"

	"github.com/jerradgenson/auteur/internal/article"
	"github.com/jerradgenson/auteur/internal/config"
	"github.com/jerradgenson/auteur/internal/logging"
	"github.com/jerradgenson/auteur/internal/site"
	"github.com/jerradgenson/auteur/internal/templates"
	"github.com/jerradgenson/auteur/pkg/interfaces"
)

var (
	pubDateMarkerPattern   = regexp.MustCompile(`<Published\s*=\s*.+?>`)
	pubDateMarkerPrefix    = regexp.MustCompile(`<Published\s*=\s*`)
	pubDateSubtitlePattern = regexp.MustCompile(`<p class="article_subtitle">.+?</p>`)

	plainHeadingPattern  = regexp.MustCompile(`<h1[^>]*>.+?</h1>`)
	titledHeadingPattern = regexp.MustCompile(`<h2 class="article_title">.+?</a>`)
	titledBlockPattern   = regexp.MustCompile(`<h2 class="article_title">.+?</h2>`)

	h1OpenPattern = regexp.MustCompile(`<h1[^>]*>`)

	// href may be empty: an article page's own title block links nowhere.
	anchorOpenPattern = regexp.MustCompile(`<a href=".*?">`)
)

// ExtractPubDate finds the publication-date marker in content and returns
// the full matched text plus the bare date. The primary form is the
// `<Published = ...>` marker authors write into their source; content
// recovered from a rendered page carries the date in its subtitle paragraph
// instead. Both results are empty when neither form is present.
func ExtractPubDate(content string) (match, date string) {
	if m := pubDateMarkerPattern.FindString(content); m != "" {
		date = pubDateMarkerPrefix.ReplaceAllString(m, "")
		date = strings.TrimSuffix(date, ">")
		return m, strings.TrimSpace(date)
	}
	if m := pubDateSubtitlePattern.FindString(content); m != "" {
		date = strings.TrimPrefix(m, `<p class="article_subtitle">`)
		date = strings.TrimSuffix(date, "</p>")
		return m, strings.TrimSpace(date)
	}
	return "", ""
}

// AuthoredPubDate reports whether match is the author-written marker form
// rather than a subtitle paragraph recovered from a rendered page.
func AuthoredPubDate(match string) bool {
	return strings.HasPrefix(match, "<Published")
}

// ExtractOptions overrides values normally pulled from the content itself.
// Front matter feeds these.
type ExtractOptions struct {
	// Title replaces the heading text. When the content carries no heading
	// at all, a non-empty Title is prepended as the title block instead of
	// failing.
	Title string

	// Subtitle replaces the publication-date text shown under the title.
	Subtitle string

	// Description replaces the meta description normally derived from the
	// first prose paragraph of the source.
	Description string
}

// Extraction is the outcome of pulling an article apart.
type Extraction struct {
	// Title is the heading text with markup stripped.
	Title string

	// Subtitle is the human-readable publication date shown under the
	// title.
	Subtitle string

	// Description is the author-supplied meta description, empty unless
	// overridden.
	Description string

	// Content is the titled article body wrapped in its content section.
	Content string
}

// Extract locates the heading and publication date in article content and
// rebuilds the body around a templated title block spliced in place of the
// original heading. content is either a fresh markdown translation (plain
// h1 heading, optional date marker) or a previously rendered body recovered
// from disk (already-templated title block).
func Extract(content string, opts ExtractOptions) (Extraction, error) {
	region := plainHeadingPattern.FindString(content)
	titled := false
	if region == "" {
		region = titledHeadingPattern.FindString(content)
		titled = region != ""
	}
	if region == "" && opts.Title == "" {
		return Extraction{}, &MalformedContentError{Reason: "no h1 or titled h2 heading"}
	}

	title := opts.Title
	if title == "" {
		title = headingText(region)
	}

	marker, date := ExtractPubDate(content)
	subtitle := opts.Subtitle
	if subtitle == "" {
		subtitle = date
	}

	// A recovered body carries the whole previous title block, subtitle
	// paragraph and closing tag included. Widen the region so the rebuilt
	// block does not leave fragments of the old one behind.
	if titled {
		if full := titledBlockPattern.FindString(content); strings.HasPrefix(full, region) {
			region = full
		}
	}

	if marker != "" && !strings.Contains(region, marker) {
		content = strings.ReplaceAll(content, marker, "")
	}

	block := templates.ArticleTitleBlock("", title, subtitle)
	if region != "" {
		content = strings.Replace(content, region, block, 1)
	} else {
		content = block + "\n" + strings.TrimSpace(content)
	}
	content = dropBlankLeadingLine(content)
	content = strings.TrimRight(content, " \t\n")

	return Extraction{
		Title:       title,
		Subtitle:    subtitle,
		Description: opts.Description,
		Content:     templates.ArticleContentSection(content),
	}, nil
}

func headingText(heading string) string {
	text := h1OpenPattern.ReplaceAllString(heading, "")
	text = strings.ReplaceAll(text, "</h1>", "")
	text = strings.ReplaceAll(text, `<h2 class="article_title">`, "")
	text = anchorOpenPattern.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "</a>", "")
	return strings.TrimSpace(text)
}

// dropBlankLeadingLine removes the empty line a stripped marker can leave
// at the head of the body.
func dropBlankLeadingLine(content string) string {
	head, rest, found := strings.Cut(content, "\n")
	if found && strings.TrimSpace(head) == "" {
		return rest
	}
	return content
}

// Pipeline composes finished article pages. It owns the page templates, the
// registry used to resolve navigation, and the clock behind page metadata.
type Pipeline struct {
	cfg      *config.Config
	store    *templates.Store
	registry *article.Registry
	logger   interfaces.Logger
	now      func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger attaches a logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithClock fixes the time source used for the last-updated and copyright
// fields.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// New builds a Pipeline over the given configuration, template store, and
// registry.
func New(cfg *config.Config, store *templates.Store, registry *article.Registry, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:      cfg,
		store:    store,
		registry: registry,
		logger:   logging.NoOp(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Rendered holds the finished page documents for one article. An empty
// document means that variant is disabled.
type Rendered struct {
	HTML string
	AMP  string

	// HTMLFilename and AMPFilename name the output files inside the
	// article's target directory. Empty means the variant is not written.
	HTMLFilename string
	AMPFilename  string
}

// Filenames returns the output file names for the enabled variants. The
// canonical index.html goes to the vanilla page when it is enabled,
// otherwise to the AMP page.
func Filenames(cfg *config.Config) (html, amp string) {
	switch {
	case cfg.GenerateVanillaHTML && cfg.GenerateAMP:
		return "index.html", "amp.html"
	case cfg.GenerateVanillaHTML:
		return "index.html", ""
	case cfg.GenerateAMP:
		return "", "index.html"
	}
	return "", ""
}

// Compose renders the finished page documents for a. The article must
// already be inserted into the registry so its Previous neighbor resolves.
// source is the raw markdown used for page metadata; it may be empty when
// only recovered HTML was available.
func (p *Pipeline) Compose(a *article.Article, ex Extraction, source string) (Rendered, error) {
	nav, err := p.navBar(a)
	if err != nil {
		return Rendered{}, err
	}

	now := p.now()
	articleURL := site.BuildURL(p.cfg.RootURL, a.Target)
	description := ex.Description
	if description == "" {
		description = metaDescription(source)
	}
	if description == "" {
		description = p.cfg.Description
	}

	fields := templates.SiteFields(p.cfg)
	fields["nav_bar"] = nav
	fields["article_title"] = ex.Title
	fields["article_content"] = ex.Content
	fields["article_url"] = articleURL
	fields["description"] = description
	fields["first_image"] = firstImage(source, p.cfg.RootURL)
	fields["last_updated"] = "Last updated: " + now.Format(article.HumanDateLayout)
	fields["current_year"] = now.Format("2006")
	fields["home_page_link"] = "../"

	htmlName, ampName := Filenames(p.cfg)
	rendered := Rendered{HTMLFilename: htmlName, AMPFilename: ampName}

	if p.cfg.GenerateVanillaHTML {
		page, err := p.store.Page()
		if err != nil {
			return Rendered{}, err
		}
		rendered.HTML = templates.Substitute(page, fields)
	}

	if p.cfg.GenerateAMP {
		page, err := p.store.AMP()
		if err != nil {
			return Rendered{}, err
		}
		ampFields := make(map[string]string, len(fields)+3)
		for key, value := range fields {
			ampFields[key] = value
		}
		ampFields["article_content"] = rewriteAMPImages(ex.Content)
		ampFields["canonical_link"] = articleURL
		ampFields["structured_data_type"] = "BlogPosting"
		ampFields["publication_date_iso"] = a.PublicationDate.UTC().Format(time.RFC3339)
		rendered.AMP = templates.Substitute(page, ampFields)
	}

	p.logger.Debug("composed article pages",
		"target", a.Target,
		"title", a.Title,
		"html", rendered.HTMLFilename,
		"amp", rendered.AMPFilename)

	return rendered, nil
}

func (p *Pipeline) navBar(a *article.Article) (string, error) {
	prev, err := p.registry.Previous(a)
	if err != nil {
		return "", err
	}
	if prev == nil {
		return templates.NavBar(""), nil
	}
	return templates.NavBar("../" + prev.Target), nil
}

var markdownLinkPattern = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)

// metaDescription pulls the first prose paragraph out of raw markdown for
// the page's meta description. Markup-led blocks are skipped, link syntax
// collapses to its text, and double quotes are escaped so the value can sit
// inside an attribute.
func metaDescription(source string) string {
	for _, block := range strings.Split(source, "\n\n") {
		text := strings.TrimSpace(block)
		if text == "" {
			continue
		}
		switch text[0] {
		case '<', '#', '!', '-', '*':
			continue
		}
		text = markdownLinkPattern.ReplaceAllString(text, "$1")
		text = strings.Join(strings.Fields(text), " ")
		return strings.ReplaceAll(text, `"`, "&quot;")
	}
	return ""
}

var (
	markdownImagePattern = regexp.MustCompile(`!\[[^\]]*\]\(([^)\s]+)[^)]*\)`)
	inlineImagePattern   = regexp.MustCompile(`<img[^>]*\bsrc="([^"]+)"`)
)

// firstImage finds the earliest image reference in raw markdown, markdown
// syntax or inline HTML, and returns its URL resolved against the site
// root.
func firstImage(source, rootURL string) string {
	url := ""
	offset := len(source) + 1
	if loc := markdownImagePattern.FindStringSubmatchIndex(source); loc != nil && loc[0] < offset {
		offset = loc[0]
		url = source[loc[2]:loc[3]]
	}
	if loc := inlineImagePattern.FindStringSubmatchIndex(source); loc != nil && loc[0] < offset {
		url = source[loc[2]:loc[3]]
	}
	if url == "" {
		return ""
	}
	if strings.Contains(url, "://") || strings.HasPrefix(url, "//") {
		return url
	}
	return site.BuildURL(rootURL, url)
}

var imgTagPattern = regexp.MustCompile(`<img([^>]*?)\s*/?>`)

// rewriteAMPImages converts inline image tags to amp-img elements. AMP
// requires an explicit layout; responsive is assumed when the source tag
// does not carry one.
func rewriteAMPImages(content string) string {
	return imgTagPattern.ReplaceAllStringFunc(content, func(tag string) string {
		attrs := imgTagPattern.FindStringSubmatch(tag)[1]
		if !strings.Contains(attrs, "layout=") {
			attrs += ` layout="responsive"`
		}
		return "<amp-img" + attrs + "></amp-img>"
	})
}
