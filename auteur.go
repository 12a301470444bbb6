// Package auteur assembles the blog engine for one project directory:
// configuration, the chronological article registry, templates with
// optional theme overrides, and the publisher service, surfaced as
// validated command handlers ready for a CLI or for embedding.
package auteur

import (
	"time"

	"github.com/jerradgenson/auteur/internal/article"
	"github.com/jerradgenson/auteur/internal/commands"
	blogcmd "github.com/jerradgenson/auteur/internal/commands/blog"
	"github.com/jerradgenson/auteur/internal/config"
	"github.com/jerradgenson/auteur/internal/logging"
	"github.com/jerradgenson/auteur/internal/publisher"
	"github.com/jerradgenson/auteur/internal/site"
	"github.com/jerradgenson/auteur/internal/templates"
	"github.com/jerradgenson/auteur/internal/theme"
	"github.com/jerradgenson/auteur/pkg/interfaces"
)

// Article exports the registry entity.
type Article = article.Article

// Registry exports the chronological article registry.
type Registry = article.Registry

// PublisherService exports the article lifecycle service contract.
type PublisherService = publisher.Service

// BuildResult exports the full-rebuild summary.
type BuildResult = publisher.BuildResult

// AddArticleCommand exports the publish command message.
type AddArticleCommand = blogcmd.AddArticleCommand

// RemoveArticleCommand exports the unregister command message.
type RemoveArticleCommand = blogcmd.RemoveArticleCommand

// BuildSiteCommand exports the full-rebuild command message.
type BuildSiteCommand = blogcmd.BuildSiteCommand

// InitProjectCommand exports the project scaffolding command message.
type InitProjectCommand = blogcmd.InitProjectCommand

// AddArticleHandler exports the publish command handler.
type AddArticleHandler = blogcmd.AddArticleHandler

// RemoveArticleHandler exports the unregister command handler.
type RemoveArticleHandler = blogcmd.RemoveArticleHandler

// BuildSiteHandler exports the full-rebuild command handler.
type BuildSiteHandler = blogcmd.BuildSiteHandler

// InitProjectHandler exports the project scaffolding command handler.
type InitProjectHandler = blogcmd.InitProjectHandler

// ErrProjectAlreadyInitialized exports the init guard error.
var ErrProjectAlreadyInitialized = blogcmd.ErrProjectAlreadyInitialized

// Option configures module construction.
type Option func(*options)

type options struct {
	provider interfaces.LoggerProvider
	clock    func() time.Time
}

// WithLoggerProvider derives every subsystem logger from provider. Without
// one the module runs silent.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithClock fixes the module's time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

func applyOptions(opts []Option) *options {
	o := &options{clock: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Module is the assembled engine over one opened project.
type Module struct {
	cfg      *config.Config
	project  config.Project
	registry *article.Registry
	store    *templates.Store
	service  *publisher.Service
	provider interfaces.LoggerProvider
}

// Open loads the project rooted at root and wires the engine over it. The
// project must already be initialized; a missing configuration surfaces as
// a config.ProjectNotFoundError.
func Open(root string, opts ...Option) (*Module, error) {
	o := applyOptions(opts)

	project := config.NewProject(root)
	cfg, err := config.Load(project.ConfigPath(), config.WithLogger(logging.ConfigLogger(o.provider)))
	if err != nil {
		return nil, err
	}

	registry, err := article.Load(project.RegistryPath(), article.WithLogger(logging.RegistryLogger(o.provider)))
	if err != nil {
		return nil, err
	}

	storeOpts := []templates.Option{
		templates.WithLogger(logging.TemplatesLogger(o.provider)),
	}
	if cfg.Theme != "" {
		resolver := theme.NewResolver(theme.WithLogger(logging.ThemeLogger(o.provider)))
		selected, err := resolver.Resolve(project, cfg.Theme)
		if err != nil {
			return nil, err
		}
		storeOpts = append(storeOpts, templates.WithThemeTemplates(selected.PageTemplatePath, selected.AMPTemplatePath))
		if selected.Stylesheet != "" {
			cfg.StyleSheet = site.BuildURL(cfg.RootURL, selected.Stylesheet)
		}
	}
	store := templates.NewStore(project, storeOpts...)

	service := publisher.New(cfg, project, store, registry,
		publisher.WithLoggerProvider(o.provider),
		publisher.WithClock(o.clock))

	return &Module{
		cfg:      cfg,
		project:  project,
		registry: registry,
		store:    store,
		service:  service,
		provider: o.provider,
	}, nil
}

// Config returns the loaded, normalized configuration.
func (m *Module) Config() *Config {
	return m.cfg
}

// Project returns the project path layout.
func (m *Module) Project() Project {
	return m.project
}

// Registry returns the chronological article registry.
func (m *Module) Registry() *Registry {
	return m.registry
}

// Publisher returns the article lifecycle service behind the handlers.
func (m *Module) Publisher() *PublisherService {
	return m.service
}

// AddArticle returns the handler that publishes a new article.
func (m *Module) AddArticle() *AddArticleHandler {
	return blogcmd.NewAddArticleHandler(m.service, m.commandLogger())
}

// RemoveArticle returns the handler that unregisters an article and
// rebuilds the remaining site.
func (m *Module) RemoveArticle() *RemoveArticleHandler {
	return blogcmd.NewRemoveArticleHandler(m.service, m.commandLogger())
}

// BuildSite returns the handler that re-renders every registered article.
func (m *Module) BuildSite() *BuildSiteHandler {
	return blogcmd.NewBuildSiteHandler(m.service, m.commandLogger())
}

func (m *Module) commandLogger() interfaces.Logger {
	return commands.CommandLogger(m.provider, "blog")
}

// InitProject returns the handler that scaffolds a new project at root. It
// works without an opened module; initialization creates the configuration
// Open requires.
func InitProject(root string, opts ...Option) *InitProjectHandler {
	o := applyOptions(opts)
	return blogcmd.NewInitProjectHandler(config.NewProject(root), commands.CommandLogger(o.provider, "blog"))
}
