package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Options control the goldmark engine configuration.
type Options struct {
	// Extensions names goldmark extensions to enable. Empty means the
	// default set (GFM, linkify, task lists).
	Extensions []string

	// HardWraps renders newlines inside paragraphs as <br> elements.
	HardWraps bool

	// SafeMode suppresses raw HTML in the output. Blog sources routinely
	// embed figure and image markup, so it defaults off.
	SafeMode bool

	// AutoHeadingIDs adds generated id attributes to headings. The render
	// pipeline extracts plain heading tags, so it defaults off.
	AutoHeadingIDs bool
}

// Translator converts Markdown source into HTML. Raw HTML embedded in the
// source passes through untouched unless SafeMode is set. The translator is
// stateless; a single instance can be shared freely.
type Translator struct {
	defaults Options
}

// NewTranslator constructs a translator with the given default options.
func NewTranslator(defaults Options) *Translator {
	return &Translator{defaults: defaults}
}

// Translate renders source into HTML using the translator's defaults.
func (t *Translator) Translate(source string) (string, error) {
	return t.TranslateWithOptions(source, t.defaults)
}

// TranslateWithOptions renders source into HTML using the provided options.
func (t *Translator) TranslateWithOptions(source string, opts Options) (string, error) {
	engine := newGoldmarkEngine(opts)
	var buf bytes.Buffer
	if err := engine.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("markdown translate: %w", err)
	}
	return buf.String(), nil
}

// newGoldmarkEngine builds a goldmark.Markdown from the supplied options.
// Unsupported extension names are ignored.
func newGoldmarkEngine(opts Options) goldmark.Markdown {
	exts := collectExtensions(opts.Extensions)

	parserOptions := []parser.Option{}
	if opts.AutoHeadingIDs {
		parserOptions = append(parserOptions, parser.WithAutoHeadingID())
	}

	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if !opts.SafeMode {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{}
	if len(parserOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithParserOptions(parserOptions...))
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}
	if len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}

	return goldmark.New(engineOptions...)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{
			extension.GFM,
			extension.Linkify,
			extension.TaskList,
		}
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}

		if _, ok := seen[key]; ok {
			continue
		}

		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}

		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}

	return extenders
}
