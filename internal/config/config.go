// Package config loads and validates the project configuration file. The
// decoded document is checked against an embedded JSON Schema so missing and
// mistyped fields fail with an error naming the field, then URL and
// stylesheet values are normalized for the render pipeline.
package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jerradgenson/auteur/internal/fileio"
	"github.com/jerradgenson/auteur/internal/logging"
	"github.com/jerradgenson/auteur/pkg/interfaces"
)

// Config is the validated, normalized project configuration.
type Config struct {
	RSSFeedPath         string `json:"rss_feed_path"`
	RootURL             string `json:"root_url"`
	BlogTitle           string `json:"blog_title"`
	BlogSubtitle        string `json:"blog_subtitle"`
	Owner               string `json:"owner"`
	EmailAddress        string `json:"email_address"`
	StyleSheet          string `json:"style_sheet"`
	Description         string `json:"description"`
	GenerateAMP         bool   `json:"generate_amp"`
	GenerateVanillaHTML bool   `json:"generate_vanilla_html"`

	// Theme names a directory under the project root whose manifest
	// overrides the embedded templates. Optional.
	Theme string `json:"theme,omitempty"`

	// PrettyLog switches CLI log output to the human-readable format.
	// Optional.
	PrettyLog bool `json:"pretty_log,omitempty"`
}

// Option configures the loader.
type Option func(*loader)

type loader struct {
	logger interfaces.Logger
}

// WithLogger attaches a logger to the loader. Defaults to a no-op.
func WithLogger(logger interfaces.Logger) Option {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Load reads, validates, and normalizes the configuration file at path.
// A missing or unreadable file means no project was initialized there and
// yields a ProjectNotFoundError; schema violations yield a ConfigFieldError
// naming the field.
func Load(path string, opts ...Option) (*Config, error) {
	l := &loader{logger: logging.NoOp()}
	for _, opt := range opts {
		opt(l)
	}

	text, err := fileio.ReadFile(path)
	if err != nil {
		return nil, &ProjectNotFoundError{Root: projectRootOf(path), Err: err}
	}

	var decoded any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return nil, fmt.Errorf("config: decode %q: %w", path, err)
	}

	if err := validateDocument(decoded); err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal([]byte(text), &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %q: %w", path, err)
	}

	normalize(&cfg)
	l.logger.Debug("configuration loaded", "path", path, "root_url", cfg.RootURL)

	return &cfg, nil
}

// normalize applies the URL joining rules: the root URL carries exactly one
// trailing slash and the stylesheet becomes a fully qualified URL under it.
func normalize(cfg *Config) {
	if !strings.HasSuffix(cfg.RootURL, "/") {
		cfg.RootURL += "/"
	}
	cfg.StyleSheet = cfg.RootURL + strings.TrimPrefix(cfg.StyleSheet, "/")
}

// Default returns the starter configuration written by project
// initialization. Values are placeholders the owner is expected to edit.
func Default() *Config {
	return &Config{
		RSSFeedPath:         "feed/rss.xml",
		RootURL:             "https://example.com",
		BlogTitle:           "My Blog",
		BlogSubtitle:        "Notes and essays",
		Owner:               "Site Owner",
		EmailAddress:        "owner@example.com",
		StyleSheet:          "styles.css",
		Description:         "A blog built with auteur.",
		GenerateAMP:         false,
		GenerateVanillaHTML: true,
	}
}
