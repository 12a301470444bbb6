// Package markdown turns article sources into HTML. It wraps the goldmark
// engine behind a small translator and splits an optional YAML front-matter
// envelope off the source before translation.
package markdown
