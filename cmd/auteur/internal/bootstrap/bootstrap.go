// Package bootstrap wires what the auteur CLI needs before a command runs:
// a run-scoped logging provider and an opened module.
package bootstrap

import (
	"github.com/google/uuid"

	"github.com/jerradgenson/auteur"
	"github.com/jerradgenson/auteur/internal/config"
	"github.com/jerradgenson/auteur/internal/logging"
	"github.com/jerradgenson/auteur/internal/logging/gologger"
	"github.com/jerradgenson/auteur/pkg/interfaces"
)

// Options captures the CLI-level knobs that shape a bootstrap.
type Options struct {
	// Root is the project directory.
	Root string

	// Debug raises logging to debug level with source locations.
	Debug bool
}

// BuildProvider constructs the logging provider for one CLI run. The output
// format comes from the project configuration when one exists; before init
// there is none, so the console format wins. Every logger the provider hands
// out is stamped with a fresh run id.
func BuildProvider(opts Options) (interfaces.LoggerProvider, error) {
	level := "info"
	if opts.Debug {
		level = "debug"
	}
	format := "console"
	if cfg, err := config.Load(config.NewProject(opts.Root).ConfigPath()); err == nil && cfg.PrettyLog {
		format = "pretty"
	}

	provider, err := gologger.NewProvider(gologger.Config{
		Level:     level,
		Format:    format,
		AddSource: opts.Debug,
	})
	if err != nil {
		return nil, err
	}

	return logging.ScopedProvider(provider, map[string]any{"run_id": uuid.NewString()}), nil
}

// OpenModule opens the project at opts.Root with a run-scoped provider.
func OpenModule(opts Options) (*auteur.Module, error) {
	provider, err := BuildProvider(opts)
	if err != nil {
		return nil, err
	}
	return auteur.Open(opts.Root, auteur.WithLoggerProvider(provider))
}
