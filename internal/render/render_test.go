package render

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jerradgenson/auteur/internal/article"
	"github.com/jerradgenson/auteur/internal/config"
	"github.com/jerradgenson/auteur/internal/templates"
)

func testConfig() *config.Config {
	return &config.Config{
		RSSFeedPath:         "feed/rss.xml",
		RootURL:             "https://blog.example.com/",
		BlogTitle:           "Recursive Descent",
		BlogSubtitle:        "Notes from the workshop",
		Owner:               "Pat Author",
		EmailAddress:        "pat@example.com",
		StyleSheet:          "https://blog.example.com/styles.css",
		Description:         "A workshop notebook.",
		GenerateVanillaHTML: true,
	}
}

func testPipeline(t *testing.T, cfg *config.Config) (*Pipeline, *article.Registry) {
	t.Helper()

	dir := t.TempDir()
	store := templates.NewStore(config.NewProject(dir))
	registry := article.New(filepath.Join(dir, ".auteur", "registry.json"))
	pipeline := New(cfg, store, registry, WithClock(func() time.Time {
		return time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC)
	}))
	return pipeline, registry
}

func TestExtractPlainHeading(t *testing.T) {
	content := "<h1>First Post</h1>\n<p>Body text.</p>"

	ex, err := Extract(content, ExtractOptions{Subtitle: "August 1, 2025"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if ex.Title != "First Post" {
		t.Fatalf("title = %q", ex.Title)
	}
	if ex.Subtitle != "August 1, 2025" {
		t.Fatalf("subtitle = %q", ex.Subtitle)
	}

	want := "<section class=\"article_content\">\n" +
		`<h2 class="article_title"><a href="">First Post</a><p class="article_subtitle">August 1, 2025</p></h2>` +
		"\n<p>Body text.</p>\n</section>"
	if ex.Content != want {
		t.Fatalf("content:\n%s\nwant:\n%s", ex.Content, want)
	}
}

func TestExtractTitledBlockRebuiltWithoutFragments(t *testing.T) {
	block := `<h2 class="article_title"><a href="">Old Title</a><p class="article_subtitle">July 4, 2025</p></h2>`
	content := block + "\n<p>Recovered body.</p>"

	ex, err := Extract(content, ExtractOptions{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if ex.Title != "Old Title" {
		t.Fatalf("title = %q", ex.Title)
	}
	if ex.Subtitle != "July 4, 2025" {
		t.Fatalf("subtitle = %q", ex.Subtitle)
	}
	if got := strings.Count(ex.Content, "article_subtitle"); got != 1 {
		t.Fatalf("subtitle paragraphs = %d\n%s", got, ex.Content)
	}
	if strings.Contains(ex.Content, "</h2></h2>") {
		t.Fatalf("stray closing tag left behind:\n%s", ex.Content)
	}
}

func TestExtractSubtitleOverrideReplacesRecoveredDate(t *testing.T) {
	block := `<h2 class="article_title"><a href="">Old Title</a><p class="article_subtitle">July 4, 2025</p></h2>`
	content := block + "\n<p>Recovered body.</p>"

	ex, err := Extract(content, ExtractOptions{Subtitle: "August 9, 2025"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !strings.Contains(ex.Content, `<p class="article_subtitle">August 9, 2025</p>`) {
		t.Fatalf("override subtitle missing:\n%s", ex.Content)
	}
	if strings.Contains(ex.Content, "July 4, 2025") {
		t.Fatalf("old subtitle survived:\n%s", ex.Content)
	}
}

func TestExtractStripsPublicationMarker(t *testing.T) {
	content := "<h1>Dated Post</h1>\n<Published = August 1, 2025>\n\n<p>Body.</p>"

	ex, err := Extract(content, ExtractOptions{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if ex.Subtitle != "August 1, 2025" {
		t.Fatalf("subtitle = %q", ex.Subtitle)
	}
	if strings.Contains(ex.Content, "<Published") {
		t.Fatalf("marker survived:\n%s", ex.Content)
	}
	if !strings.Contains(ex.Content, `<p class="article_subtitle">August 1, 2025</p>`) {
		t.Fatalf("subtitle paragraph missing:\n%s", ex.Content)
	}
}

func TestExtractDropsBlankLeadingLine(t *testing.T) {
	content := "<Published = June 2, 2025>\n<h1>After Marker</h1>\n<p>Body.</p>"

	ex, err := Extract(content, ExtractOptions{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	wantPrefix := "<section class=\"article_content\">\n<h2 class=\"article_title\">"
	if !strings.HasPrefix(ex.Content, wantPrefix) {
		t.Fatalf("blank line not dropped:\n%s", ex.Content)
	}
}

func TestExtractWithoutHeadingFails(t *testing.T) {
	_, err := Extract("<p>No heading here.</p>", ExtractOptions{})
	if !errors.Is(err, ErrMalformedContent) {
		t.Fatalf("err = %v, want ErrMalformedContent", err)
	}

	var malformed *MalformedContentError
	if !errors.As(err, &malformed) {
		t.Fatalf("err = %T, want *MalformedContentError", err)
	}
}

func TestExtractTitleOverrideRescuesHeadingless(t *testing.T) {
	ex, err := Extract("<p>Front matter supplies the title.</p>", ExtractOptions{
		Title:    "Supplied",
		Subtitle: "May 5, 2025",
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !strings.HasPrefix(ex.Content, "<section class=\"article_content\">\n<h2 class=\"article_title\"><a href=\"\">Supplied</a>") {
		t.Fatalf("title block not prepended:\n%s", ex.Content)
	}
	if !strings.Contains(ex.Content, "<p>Front matter supplies the title.</p>") {
		t.Fatalf("body lost:\n%s", ex.Content)
	}
}

func TestComposeFirstPostOmitsPreviousAnchor(t *testing.T) {
	cfg := testConfig()
	pipeline, registry := testPipeline(t, cfg)

	a := article.New("first-post", "First Post", time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC))
	registry.Insert(a)

	ex, err := Extract("<h1>First Post</h1>\n<p>Body.</p>", ExtractOptions{Subtitle: "August 1, 2025"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	rendered, err := pipeline.Compose(a, ex, "")
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	if !strings.Contains(rendered.HTML, `<nav class="nav_bar"><a href="../">Home</a></nav>`) {
		t.Fatalf("nav bar wrong:\n%s", rendered.HTML)
	}
	if strings.Contains(rendered.HTML, ">Previous</a>") {
		t.Fatalf("first post must not link a previous article")
	}
	if rendered.HTMLFilename != "index.html" || rendered.AMPFilename != "" {
		t.Fatalf("filenames = %q, %q", rendered.HTMLFilename, rendered.AMPFilename)
	}
	if rendered.AMP != "" {
		t.Fatalf("amp variant rendered while disabled")
	}
}

func TestComposeLinksPreviousNeighbor(t *testing.T) {
	cfg := testConfig()
	pipeline, registry := testPipeline(t, cfg)

	first := article.New("first-post", "First Post", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	second := article.New("second-post", "Second Post", time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC))
	registry.Insert(first)
	registry.Insert(second)

	ex, err := Extract("<h1>Second Post</h1>\n<p>Body.</p>", ExtractOptions{Subtitle: "August 1, 2025"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	rendered, err := pipeline.Compose(second, ex, "")
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	if !strings.Contains(rendered.HTML, `<a href="../first-post">Previous</a> <a href="../">Home</a>`) {
		t.Fatalf("previous link missing:\n%s", rendered.HTML)
	}
	if !strings.Contains(rendered.HTML, `https://blog.example.com/second-post`) {
		t.Fatalf("article url missing:\n%s", rendered.HTML)
	}
}

func TestComposeUnregisteredArticleFails(t *testing.T) {
	cfg := testConfig()
	pipeline, _ := testPipeline(t, cfg)

	stray := article.New("stray", "Stray", time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC))
	ex := Extraction{Title: "Stray", Content: "<section class=\"article_content\">\n<p>x</p>\n</section>"}

	_, err := pipeline.Compose(stray, ex, "")
	if !errors.Is(err, article.ErrNotRegistered) {
		t.Fatalf("err = %v, want ErrNotRegistered", err)
	}
}

func TestComposeAMPVariant(t *testing.T) {
	cfg := testConfig()
	cfg.GenerateAMP = true
	pipeline, registry := testPipeline(t, cfg)

	a := article.New("first-post", "First Post", time.Date(2025, 8, 1, 9, 30, 0, 0, time.UTC))
	registry.Insert(a)

	content := "<h1>First Post</h1>\n<p>Intro.</p>\n<img src=\"pic.jpg\" alt=\"A pic\">"
	ex, err := Extract(content, ExtractOptions{Subtitle: "August 1, 2025"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	rendered, err := pipeline.Compose(a, ex, "")
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	if rendered.HTMLFilename != "index.html" || rendered.AMPFilename != "amp.html" {
		t.Fatalf("filenames = %q, %q", rendered.HTMLFilename, rendered.AMPFilename)
	}
	if !strings.Contains(rendered.AMP, `<amp-img src="pic.jpg" alt="A pic" layout="responsive"></amp-img>`) {
		t.Fatalf("amp image not rewritten:\n%s", rendered.AMP)
	}
	if !strings.Contains(rendered.HTML, `<img src="pic.jpg" alt="A pic">`) {
		t.Fatalf("vanilla image must stay untouched:\n%s", rendered.HTML)
	}
	if !strings.Contains(rendered.AMP, `"BlogPosting"`) {
		t.Fatalf("structured data type missing:\n%s", rendered.AMP)
	}
	if !strings.Contains(rendered.AMP, "2025-08-01T09:30:00Z") {
		t.Fatalf("iso publication date missing:\n%s", rendered.AMP)
	}
	if !strings.Contains(rendered.AMP, `href="https://blog.example.com/first-post"`) {
		t.Fatalf("canonical link missing:\n%s", rendered.AMP)
	}
}

func TestComposePageMetadata(t *testing.T) {
	cfg := testConfig()
	pipeline, registry := testPipeline(t, cfg)

	a := article.New("first-post", "First Post", time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC))
	registry.Insert(a)

	source := "# First Post\n\nAn [intro](https://x.example) paragraph with \"quotes\" inside.\n\n![cover](images/cover.jpg)\n"
	ex, err := Extract("<h1>First Post</h1>\n<p>Body.</p>", ExtractOptions{Subtitle: "August 1, 2025"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	rendered, err := pipeline.Compose(a, ex, source)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	if !strings.Contains(rendered.HTML, "Last updated: March 5, 2026") {
		t.Fatalf("last updated missing:\n%s", rendered.HTML)
	}
	if !strings.Contains(rendered.HTML, "&copy; 2026") {
		t.Fatalf("copyright year missing:\n%s", rendered.HTML)
	}
	if !strings.Contains(rendered.HTML, "An intro paragraph with &quot;quotes&quot; inside.") {
		t.Fatalf("meta description wrong:\n%s", rendered.HTML)
	}
	if !strings.Contains(rendered.HTML, "https://blog.example.com/images/cover.jpg") {
		t.Fatalf("first image not resolved:\n%s", rendered.HTML)
	}
}

func TestComposeMetaDescriptionFallsBackToConfig(t *testing.T) {
	cfg := testConfig()
	pipeline, registry := testPipeline(t, cfg)

	a := article.New("first-post", "First Post", time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC))
	registry.Insert(a)

	ex, err := Extract("<h1>First Post</h1>\n<p>Body.</p>", ExtractOptions{Subtitle: "August 1, 2025"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	rendered, err := pipeline.Compose(a, ex, "")
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if !strings.Contains(rendered.HTML, "A workshop notebook.") {
		t.Fatalf("config description fallback missing:\n%s", rendered.HTML)
	}
}

func TestComposeDescriptionOverrideWinsOverSource(t *testing.T) {
	cfg := testConfig()
	pipeline, registry := testPipeline(t, cfg)

	a := article.New("first-post", "First Post", time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC))
	registry.Insert(a)

	ex, err := Extract("<h1>First Post</h1>\n<p>Derived opener.</p>", ExtractOptions{
		Subtitle:    "August 1, 2025",
		Description: "Handwritten summary.",
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	rendered, err := pipeline.Compose(a, ex, "# First Post\n\nDerived opener.\n")
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if !strings.Contains(rendered.HTML, "Handwritten summary.") {
		t.Fatalf("description override missing:\n%s", rendered.HTML)
	}
	if strings.Contains(rendered.HTML, `content="Derived opener."`) {
		t.Fatalf("derived description should lose to the override:\n%s", rendered.HTML)
	}
}

func TestFilenamesFollowVariantFlags(t *testing.T) {
	cases := []struct {
		name     string
		vanilla  bool
		amp      bool
		wantHTML string
		wantAMP  string
	}{
		{"both", true, true, "index.html", "amp.html"},
		{"vanilla only", true, false, "index.html", ""},
		{"amp only", false, true, "", "index.html"},
		{"neither", false, false, "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.GenerateVanillaHTML = tc.vanilla
			cfg.GenerateAMP = tc.amp
			html, amp := Filenames(cfg)
			if html != tc.wantHTML || amp != tc.wantAMP {
				t.Fatalf("Filenames = %q, %q, want %q, %q", html, amp, tc.wantHTML, tc.wantAMP)
			}
		})
	}
}

func TestFirstImagePrefersEarliestReference(t *testing.T) {
	source := `<img src="inline.png"> before ![later](md.png)`
	if got := firstImage(source, "https://blog.example.com/"); got != "https://blog.example.com/inline.png" {
		t.Fatalf("firstImage = %q", got)
	}

	absolute := `![cover](https://cdn.example.com/cover.jpg)`
	if got := firstImage(absolute, "https://blog.example.com/"); got != "https://cdn.example.com/cover.jpg" {
		t.Fatalf("absolute url rewritten: %q", got)
	}

	if got := firstImage("no images here", "https://blog.example.com/"); got != "" {
		t.Fatalf("firstImage = %q, want empty", got)
	}
}

func TestExtractPubDateForms(t *testing.T) {
	match, date := ExtractPubDate("intro <Published = August 1, 2025> outro")
	if match != "<Published = August 1, 2025>" || date != "August 1, 2025" {
		t.Fatalf("marker form = %q, %q", match, date)
	}

	match, date = ExtractPubDate(`<p class="article_subtitle">July 4, 2025</p>`)
	if match != `<p class="article_subtitle">July 4, 2025</p>` || date != "July 4, 2025" {
		t.Fatalf("subtitle form = %q, %q", match, date)
	}

	match, date = ExtractPubDate("<p>nothing dated</p>")
	if match != "" || date != "" {
		t.Fatalf("undated content = %q, %q", match, date)
	}
}
