package logging

import (
	"context"
	"strings"

	"github.com/jerradgenson/auteur/pkg/interfaces"
)

const (
	rootModule      = "auteur"
	registryModule  = "auteur.registry"
	renderModule    = "auteur.render"
	linkerModule    = "auteur.linker"
	siteModule      = "auteur.site"
	configModule    = "auteur.config"
	publisherModule = "auteur.publisher"
	themeModule     = "auteur.theme"
	templatesModule = "auteur.templates"
)

const (
	fieldArticleTarget = "target"
	fieldArticleTitle  = "title"
	fieldArticleSource = "source"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// RegistryLogger returns the logger namespace reserved for the article registry.
func RegistryLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, registryModule)
}

// RenderLogger returns the logger namespace reserved for the render pipeline.
func RenderLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, renderModule)
}

// LinkerLogger returns the logger namespace reserved for link maintenance.
func LinkerLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, linkerModule)
}

// SiteLogger returns the logger namespace reserved for landing page and feed assembly.
func SiteLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, siteModule)
}

// ConfigLogger returns the logger namespace reserved for configuration loading.
func ConfigLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, configModule)
}

// PublisherLogger returns the logger namespace reserved for the article
// lifecycle service.
func PublisherLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, publisherModule)
}

// ThemeLogger returns the logger namespace reserved for theme resolution.
func ThemeLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, themeModule)
}

// TemplatesLogger returns the logger namespace reserved for template
// resolution.
func TemplatesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, templatesModule)
}

// WithArticleContext enriches the provided logger with common article fields
// such as target directory, title, and source path. Empty values are ignored.
func WithArticleContext(logger interfaces.Logger, target, title, source string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(target); trimmed != "" {
		fields[fieldArticleTarget] = trimmed
	}
	if trimmed := strings.TrimSpace(title); trimmed != "" {
		fields[fieldArticleTitle] = trimmed
	}
	if trimmed := strings.TrimSpace(source); trimmed != "" {
		fields[fieldArticleSource] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
