// Package theme resolves an optional theme directory into the template and
// asset overrides it provides. A theme is a directory under the project root
// with a go-theme manifest; the manifest's template and asset entries take
// precedence over the project's own template files.
package theme

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	gotheme "github.com/goliatone/go-theme"

	"github.com/jerradgenson/auteur/internal/config"
	"github.com/jerradgenson/auteur/internal/logging"
	"github.com/jerradgenson/auteur/pkg/interfaces"
)

var ErrThemePathRequired = errors.New("theme: theme path required")

// ManifestLoader loads a theme manifest from a directory.
type ManifestLoader interface {
	Load(dir string) (*gotheme.Manifest, error)
}

type fsManifestLoader struct{}

func (fsManifestLoader) Load(dir string) (*gotheme.Manifest, error) {
	cleaned := filepath.Clean(strings.TrimSpace(dir))
	if cleaned == "" || cleaned == "." {
		return nil, ErrThemePathRequired
	}
	return gotheme.LoadDir(os.DirFS(cleaned), ".")
}

// Selected describes what a resolved theme contributes to rendering. Paths
// are empty when the theme does not provide the corresponding file.
type Selected struct {
	Name string

	// Dir is the theme directory on disk.
	Dir string

	// PageTemplatePath and AMPTemplatePath point at theme template files.
	PageTemplatePath string
	AMPTemplatePath  string

	// Stylesheet is the theme stylesheet as a site-relative path, suitable
	// for joining onto the root URL.
	Stylesheet string
}

// Resolver loads theme manifests, registers them, and answers which files a
// configured theme contributes. Manifests are cached per directory.
type Resolver struct {
	loader   ManifestLoader
	registry *gotheme.MemoryRegistry
	logger   interfaces.Logger

	mu        sync.Mutex
	manifests map[string]*gotheme.Manifest
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLoader swaps the manifest loader, mainly for tests.
func WithLoader(loader ManifestLoader) Option {
	return func(r *Resolver) {
		if loader != nil {
			r.loader = loader
		}
	}
}

// WithLogger attaches a logger to the resolver. Defaults to a no-op.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver returns a resolver backed by the filesystem loader.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		loader:    fsManifestLoader{},
		registry:  gotheme.NewRegistry(),
		logger:    logging.NoOp(),
		manifests: map[string]*gotheme.Manifest{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve loads the manifest of the theme named in the configuration and
// returns its contributions. name is the theme directory relative to the
// project root. A theme that cannot be loaded is a configuration error.
func (r *Resolver) Resolve(project config.Project, name string) (*Selected, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrThemePathRequired
	}

	dir := project.Resolve(trimmed)
	manifest, err := r.ensureManifest(dir)
	if err != nil {
		return nil, err
	}

	selector := gotheme.Selector{
		Registry:     r.registry,
		DefaultTheme: manifest.Name,
	}
	selection, err := selector.Select(manifest.Name, "")
	if err != nil {
		return nil, fmt.Errorf("theme: select %s: %w", manifest.Name, err)
	}

	selected := &Selected{
		Name: selection.Theme,
		Dir:  dir,
	}

	if file := templateFile(selection); file != "" {
		selected.PageTemplatePath = filepath.Join(dir, filepath.FromSlash(file))
	}
	if file := assetFile(selection, "amp_template"); file != "" {
		selected.AMPTemplatePath = filepath.Join(dir, filepath.FromSlash(file))
	}
	if file := assetFile(selection, "stylesheet"); file != "" {
		selected.Stylesheet = path.Join(filepath.ToSlash(trimmed), file)
	}

	r.logger.Debug("theme resolved",
		"theme", selected.Name,
		"page_template", selected.PageTemplatePath,
		"amp_template", selected.AMPTemplatePath,
		"stylesheet", selected.Stylesheet)

	return selected, nil
}

func (r *Resolver) ensureManifest(dir string) (*gotheme.Manifest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if manifest, ok := r.manifests[dir]; ok {
		return manifest, nil
	}

	manifest, err := r.loader.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("theme: load manifest from %s: %w", dir, err)
	}

	normalized := *manifest
	if strings.TrimSpace(normalized.Name) == "" {
		normalized.Name = filepath.Base(dir)
	}

	if err := r.registry.Register(&normalized); err != nil {
		return nil, fmt.Errorf("theme: register manifest: %w", err)
	}

	r.manifests[dir] = &normalized
	return &normalized, nil
}

// templateFile returns the page template the selection names, preferring the
// selection's own template over a manifest asset keyed "template".
func templateFile(selection *gotheme.Selection) string {
	if file := strings.TrimSpace(selection.Template); file != "" {
		return file
	}
	return assetFile(selection, "template")
}

func assetFile(selection *gotheme.Selection, key string) string {
	file, err := selection.Asset(key)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.TrimSpace(file), "/")
}
