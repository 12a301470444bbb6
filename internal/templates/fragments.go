package templates

import "fmt"

// Fragment templates for the pieces of a generated page. These are fixed
// HTML contracts: link maintenance and preview extraction match against the
// exact anchor and section shapes produced here.
const (
	articleTitleFragment = `<h2 class="article_title"><a href="%s">%s</a><p class="article_subtitle">%s</p></h2>`

	continueReadingFragment = `<a href="%s">Continue reading...</a>`

	articleContentFragment = "<section class=\"article_content\">\n%s\n</section>"

	articlePreviewFragment = "<section class=\"article_preview\">\n%s\n%s\n%s\n</section>\n"

	navBarFragment = `<a href="%s">Previous</a> <a href="../">Home</a>`

	homeOnlyNavFragment = `<a href="../">Home</a>`
)

// ArticleTitleBlock renders the titled heading block for an article page or
// preview. path is empty on the article's own page and points at the
// article directory in previews.
func ArticleTitleBlock(path, title, subtitle string) string {
	return fmt.Sprintf(articleTitleFragment, path, title, subtitle)
}

// ContinueReadingLink renders the preview link into an article directory.
func ContinueReadingLink(path string) string {
	return fmt.Sprintf(continueReadingFragment, path)
}

// ArticleContentSection wraps a titled article body in its section tag.
func ArticleContentSection(content string) string {
	return fmt.Sprintf(articleContentFragment, content)
}

// ArticlePreviewSection assembles one landing-page preview from its title
// block, first photo (may be empty), and introductory paragraph.
func ArticlePreviewSection(titleBlock, photo, content string) string {
	return fmt.Sprintf(articlePreviewFragment, titleBlock, photo, content)
}

// NavBar renders the navigation bar. An empty previousHref omits the
// Previous anchor entirely, which is the shape of a first post.
func NavBar(previousHref string) string {
	if previousHref == "" {
		return homeOnlyNavFragment
	}
	return fmt.Sprintf(navBarFragment, previousHref)
}
