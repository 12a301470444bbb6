// Package blogcmd exposes the blog lifecycle as validated command messages
// and handlers over the shared command foundation. The handlers stay thin:
// all article semantics live in the publisher service.
package blogcmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/jerradgenson/auteur/internal/article"
	"github.com/jerradgenson/auteur/internal/commands"
	"github.com/jerradgenson/auteur/internal/config"
	"github.com/jerradgenson/auteur/internal/fileio"
	"github.com/jerradgenson/auteur/internal/logging"
	"github.com/jerradgenson/auteur/internal/publisher"
	"github.com/jerradgenson/auteur/internal/templates"
	"github.com/jerradgenson/auteur/pkg/interfaces"
)

const (
	addOperation    = "blog.add_article"
	removeOperation = "blog.remove_article"
	buildOperation  = "blog.build_site"
	initOperation   = "blog.init_project"
)

// ErrProjectAlreadyInitialized is returned when init runs inside a project
// that already has a configuration file.
var ErrProjectAlreadyInitialized = errors.New("blog command: project already initialized")

var (
	_ command.Commander[AddArticleCommand]    = (*AddArticleHandler)(nil)
	_ command.Commander[RemoveArticleCommand] = (*RemoveArticleHandler)(nil)
	_ command.Commander[BuildSiteCommand]     = (*BuildSiteHandler)(nil)
	_ command.Commander[InitProjectCommand]   = (*InitProjectHandler)(nil)
)

// Publisher is the slice of the article lifecycle service the blog commands
// drive.
type Publisher interface {
	Add(ctx context.Context, sourcePath, dateOverride string) (*article.Article, error)
	Remove(ctx context.Context, title string) (*article.Article, error)
	Build(ctx context.Context) (*publisher.BuildResult, error)
}

// AddArticleHandler publishes one article via the shared command handler
// foundation.
type AddArticleHandler struct {
	inner *commands.Handler[AddArticleCommand]
}

// NewAddArticleHandler creates a handler bound to the supplied publisher
// service.
func NewAddArticleHandler(service Publisher, logger interfaces.Logger, opts ...commands.HandlerOption[AddArticleCommand]) *AddArticleHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg AddArticleCommand) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		published, err := service.Add(ctx, msg.InputPath, msg.PubDate)
		if err != nil {
			return err
		}
		if published != nil {
			logging.WithFields(baseLogger, map[string]any{
				"target":   published.Target,
				"title":    published.Title,
				"pub_date": published.PublicationDate.Format(article.HumanDateLayout),
			}).Info("blog.command.add_article.completed")
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[AddArticleCommand]{
		commands.WithLogger[AddArticleCommand](baseLogger),
		commands.WithOperation[AddArticleCommand](addOperation),
		commands.WithMessageFields(func(msg AddArticleCommand) map[string]any {
			fields := map[string]any{
				"input_path": msg.InputPath,
			}
			if msg.PubDate != "" {
				fields["pub_date"] = msg.PubDate
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[AddArticleCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &AddArticleHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[AddArticleCommand].
func (h *AddArticleHandler) Execute(ctx context.Context, msg AddArticleCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RemoveArticleHandler unregisters one article via the shared command
// handler foundation.
type RemoveArticleHandler struct {
	inner *commands.Handler[RemoveArticleCommand]
}

// NewRemoveArticleHandler creates a handler bound to the supplied publisher
// service.
func NewRemoveArticleHandler(service Publisher, logger interfaces.Logger, opts ...commands.HandlerOption[RemoveArticleCommand]) *RemoveArticleHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg RemoveArticleCommand) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		removed, err := service.Remove(ctx, msg.Title)
		if err != nil {
			return err
		}
		if removed != nil {
			logging.WithFields(baseLogger, map[string]any{
				"target": removed.Target,
				"title":  removed.Title,
			}).Info("blog.command.remove_article.completed")
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[RemoveArticleCommand]{
		commands.WithLogger[RemoveArticleCommand](baseLogger),
		commands.WithOperation[RemoveArticleCommand](removeOperation),
		commands.WithMessageFields(func(msg RemoveArticleCommand) map[string]any {
			return map[string]any{
				"title": msg.Title,
			}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RemoveArticleCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RemoveArticleHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[RemoveArticleCommand].
func (h *RemoveArticleHandler) Execute(ctx context.Context, msg RemoveArticleCommand) error {
	return h.inner.Execute(ctx, msg)
}

// BuildSiteHandler rebuilds the whole site via the shared command handler
// foundation.
type BuildSiteHandler struct {
	inner *commands.Handler[BuildSiteCommand]
}

// NewBuildSiteHandler creates a handler bound to the supplied publisher
// service.
func NewBuildSiteHandler(service Publisher, logger interfaces.Logger, opts ...commands.HandlerOption[BuildSiteCommand]) *BuildSiteHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg BuildSiteCommand) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := service.Build(ctx)
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"rebuilt_count": result.Rebuilt,
			}).Info("blog.command.build_site.completed")
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[BuildSiteCommand]{
		commands.WithLogger[BuildSiteCommand](baseLogger),
		commands.WithOperation[BuildSiteCommand](buildOperation),
		commands.WithTelemetry(commands.DefaultTelemetry[BuildSiteCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildSiteHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[BuildSiteCommand].
func (h *BuildSiteHandler) Execute(ctx context.Context, msg BuildSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// InitProjectHandler scaffolds project state via the shared command handler
// foundation.
type InitProjectHandler struct {
	inner *commands.Handler[InitProjectCommand]
}

// NewInitProjectHandler creates a handler that initializes the supplied
// project directory.
func NewInitProjectHandler(project config.Project, logger interfaces.Logger, opts ...commands.HandlerOption[InitProjectCommand]) *InitProjectHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg InitProjectCommand) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if fileio.Exists(project.ConfigPath()) {
			return ErrProjectAlreadyInitialized
		}
		if err := fileio.WriteJSON(project.ConfigPath(), config.Default()); err != nil {
			return err
		}
		if err := templates.NewStore(project).EnsureDefaults(); err != nil {
			return err
		}

		logging.WithFields(baseLogger, map[string]any{
			"dir": project.Dir(),
		}).Info("blog.command.init_project.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[InitProjectCommand]{
		commands.WithLogger[InitProjectCommand](baseLogger),
		commands.WithOperation[InitProjectCommand](initOperation),
		commands.WithTelemetry(commands.DefaultTelemetry[InitProjectCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &InitProjectHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[InitProjectCommand].
func (h *InitProjectHandler) Execute(ctx context.Context, msg InitProjectCommand) error {
	return h.inner.Execute(ctx, msg)
}
