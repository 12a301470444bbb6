package site

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jerradgenson/auteur/internal/article"
	"github.com/jerradgenson/auteur/internal/config"
	"github.com/jerradgenson/auteur/internal/fileio"
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

func testBuilder(t *testing.T) (*Builder, *article.Registry, config.Project) {
	t.Helper()

	project := config.NewProject(t.TempDir())
	cfg := testConfig()
	store := templates.NewStore(project)
	registry := article.New(project.RegistryPath())
	builder := New(cfg, project, store, registry, WithClock(func() time.Time {
		return time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC)
	}))
	return builder, registry, project
}

func articlePage(title, subtitle, firstPara, secondPara string) string {
	return fmt.Sprintf(`<html>
<article><section class="main_content">
<section class="article_content">
<h2 class="article_title"><a href="">%s</a><p class="article_subtitle">%s</p></h2>
<p>%s</p>
<figure><img src="cat.jpg"><figcaption>A cat.</figcaption></figure>
<p>%s</p>
</section>
</section></article>
</html>`, title, subtitle, firstPara, secondPara)
}

func addArticleWithPage(t *testing.T, registry *article.Registry, project config.Project, target, title string, date time.Time) *article.Article {
	t.Helper()

	a := article.New(target, title, date)
	a.SetFilenames("index.html", "")
	registry.Insert(a)

	doc := articlePage(title, date.Format(article.HumanDateLayout), "Intro for "+title+".", "More about "+title+".")
	relPath, _ := a.HTMLPath()
	if err := fileio.WriteFile(project.Resolve(relPath), doc); err != nil {
		t.Fatalf("write page: %v", err)
	}
	return a
}

func TestBuildURLJoinsWithExactlyOneSlash(t *testing.T) {
	cases := []struct {
		root string
		path string
		want string
	}{
		{"http://example.com/", "/posts/1/", "http://example.com/posts/1/"},
		{"http://example.com", "posts/1", "http://example.com/posts/1"},
		{"http://example.com/", "posts/1", "http://example.com/posts/1"},
		{"http://example.com", "/posts/1", "http://example.com/posts/1"},
		{"http://example.com", `posts\1\index.html`, "http://example.com/posts/1/index.html"},
	}
	for _, tc := range cases {
		if got := BuildURL(tc.root, tc.path); got != tc.want {
			t.Fatalf("BuildURL(%q, %q) = %q, want %q", tc.root, tc.path, got, tc.want)
		}
	}
}

func TestIntroTextCollectsProseOnly(t *testing.T) {
	doc := articlePage("First Post", "August 1, 2025", "One with <em>style</em>.", "Two.") +
		"<p>Three never makes it.</p>"

	got := introText(doc)
	want := "One with style. Two."
	if got != want {
		t.Fatalf("introText = %q, want %q", got, want)
	}
}

func TestPreviewsWalkNewestFirst(t *testing.T) {
	builder, registry, project := testBuilder(t)

	addArticleWithPage(t, registry, project, "first-post", "First Post", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	addArticleWithPage(t, registry, project, "second-post", "Second Post", time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC))

	previews, err := builder.Previews()
	if err != nil {
		t.Fatalf("Previews: %v", err)
	}
	if len(previews) != 2 {
		t.Fatalf("previews = %d", len(previews))
	}
	if previews[0].Article.Title != "Second Post" || previews[1].Article.Title != "First Post" {
		t.Fatalf("preview order = %q, %q", previews[0].Article.Title, previews[1].Article.Title)
	}
	if previews[0].IntroText != "Intro for Second Post. More about Second Post." {
		t.Fatalf("intro = %q", previews[0].IntroText)
	}
	if !strings.HasPrefix(previews[0].FirstPhoto, "<figure>") || !strings.HasSuffix(previews[0].FirstPhoto, "</figure>") {
		t.Fatalf("first photo = %q", previews[0].FirstPhoto)
	}
	if previews[0].Path != filepath.Join("second-post", "index.html") {
		t.Fatalf("preview path = %q", previews[0].Path)
	}
}

func TestPreviewsFallBackToAMPPage(t *testing.T) {
	builder, registry, project := testBuilder(t)

	a := article.New("amp-only", "AMP Only", time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC))
	a.SetFilenames("index.html", "amp.html")
	registry.Insert(a)

	doc := articlePage("AMP Only", "August 1, 2025", "Only the AMP page exists.", "Still previews.")
	relPath, _ := a.AMPPath()
	if err := fileio.WriteFile(project.Resolve(relPath), doc); err != nil {
		t.Fatalf("write amp page: %v", err)
	}

	previews, err := builder.Previews()
	if err != nil {
		t.Fatalf("Previews: %v", err)
	}
	if previews[0].Path != filepath.Join("amp-only", "amp.html") {
		t.Fatalf("preview path = %q", previews[0].Path)
	}
	if previews[0].IntroText != "Only the AMP page exists. Still previews." {
		t.Fatalf("intro = %q", previews[0].IntroText)
	}
}

func TestPreviewsMissingPagesFail(t *testing.T) {
	builder, registry, _ := testBuilder(t)

	a := article.New("ghost", "Ghost", time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC))
	a.SetFilenames("index.html", "")
	registry.Insert(a)

	_, err := builder.Previews()
	if !errors.Is(err, fileio.ErrFileAccess) {
		t.Fatalf("err = %v, want ErrFileAccess", err)
	}
}

func TestWriteLandingPage(t *testing.T) {
	builder, registry, project := testBuilder(t)

	addArticleWithPage(t, registry, project, "first-post", "First Post", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	addArticleWithPage(t, registry, project, "second-post", "Second Post", time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC))

	if err := builder.WriteLandingPage(); err != nil {
		t.Fatalf("WriteLandingPage: %v", err)
	}

	page, err := fileio.ReadFile(project.LandingPagePath())
	if err != nil {
		t.Fatalf("read landing page: %v", err)
	}

	if !strings.Contains(page, `<nav class="nav_bar"></nav>`) {
		t.Fatalf("landing nav bar not empty:\n%s", page)
	}
	if !strings.Contains(page, `<section class="article_preview">`) {
		t.Fatalf("preview sections missing:\n%s", page)
	}
	if !strings.Contains(page, `<a href="second-post">Second Post</a>`) {
		t.Fatalf("preview title link missing:\n%s", page)
	}
	if !strings.Contains(page, `<a href="first-post">Continue reading...</a>`) {
		t.Fatalf("continue reading link missing:\n%s", page)
	}
	if strings.Index(page, "Second Post") > strings.Index(page, `Continue reading`) {
		t.Fatalf("newest article must lead the landing page:\n%s", page)
	}
	if !strings.Contains(page, "Last updated: March 5, 2026") {
		t.Fatalf("last updated missing:\n%s", page)
	}
}

func TestWriteRSSFeed(t *testing.T) {
	builder, registry, project := testBuilder(t)

	a := addArticleWithPage(t, registry, project, "cats-post", "Cats & Dogs", time.Date(2025, 8, 1, 9, 30, 0, 0, time.UTC))

	if err := builder.WriteRSSFeed(); err != nil {
		t.Fatalf("WriteRSSFeed: %v", err)
	}

	feed, err := fileio.ReadFile(project.Resolve(builder.cfg.RSSFeedPath))
	if err != nil {
		t.Fatalf("read feed: %v", err)
	}

	if !strings.Contains(feed, "Cats &amp; Dogs") {
		t.Fatalf("title not escaped:\n%s", feed)
	}
	if !strings.Contains(feed, "https://blog.example.com/cats-post/index.html") {
		t.Fatalf("item url missing:\n%s", feed)
	}
	if !strings.Contains(feed, "Fri, 01 Aug 2025 09:30:00 GMT") {
		t.Fatalf("pubDate missing:\n%s", feed)
	}
	if !strings.Contains(feed, "&lt;p&gt;Intro for Cats &amp; Dogs.") {
		t.Fatalf("escaped description missing:\n%s", feed)
	}
	if strings.Contains(feed, "figcaption") {
		t.Fatalf("figcaption must be stripped from feed photos:\n%s", feed)
	}
	if !strings.Contains(feed, "&lt;figure&gt;") {
		t.Fatalf("first photo missing from description:\n%s", feed)
	}

	if _, ok := a.HTMLPath(); !ok {
		t.Fatalf("article lost its html path")
	}
}

func TestRegenerateWritesLandingPageAndFeed(t *testing.T) {
	builder, registry, project := testBuilder(t)

	addArticleWithPage(t, registry, project, "first-post", "First Post", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))

	if err := builder.Regenerate(); err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	if !fileio.Exists(project.LandingPagePath()) {
		t.Fatalf("landing page not written")
	}
	if !fileio.Exists(project.Resolve(builder.cfg.RSSFeedPath)) {
		t.Fatalf("rss feed not written")
	}
}
