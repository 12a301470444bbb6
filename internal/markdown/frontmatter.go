package markdown

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
)

// FrontMatter carries the metadata an article source may declare ahead of
// its content. All fields are optional; the render pipeline falls back to
// extracting the same facts from the content itself.
type FrontMatter struct {
	// Title overrides the heading-derived article title.
	Title string

	// Published is the publication date as written by the author, either
	// "January 2, 2006" or "2006-01-02" form. Kept as a string so the
	// caller controls parsing and error reporting.
	Published string

	// Description overrides the meta description derived from the first
	// paragraph.
	Description string

	// Custom holds any further keys verbatim.
	Custom map[string]any
}

// ParseFrontMatter splits an optional YAML front-matter envelope off source
// and returns the metadata together with the remaining body. Sources without
// an envelope come back untouched with empty metadata.
func ParseFrontMatter(source string) (FrontMatter, string, error) {
	var env frontMatterEnvelope

	body, err := frontmatter.Parse(bytes.NewReader([]byte(source)), &env)
	if err != nil {
		return FrontMatter{}, "", fmt.Errorf("parse frontmatter: %w", err)
	}

	return envelopeToFrontMatter(env), string(body), nil
}

type frontMatterEnvelope struct {
	Title       string         `yaml:"title"`
	Published   string         `yaml:"published"`
	Description string         `yaml:"description"`
	Custom      map[string]any `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) FrontMatter {
	return FrontMatter{
		Title:       env.Title,
		Published:   env.Published,
		Description: env.Description,
		Custom:      cloneMap(env.Custom),
	}
}

func cloneMap(input map[string]any) map[string]any {
	if input == nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
