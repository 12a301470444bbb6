package logging

import (
	"maps"

	"github.com/jerradgenson/auteur/pkg/interfaces"
)

// WithFields attaches structured fields to a logger when the implementation
// supports the optional FieldsLogger extension. Callers can pass nil or an
// empty map to skip allocation safely.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		maps.Copy(copied, fields)
		return fieldsLogger.WithFields(copied)
	}

	return logger
}

// ScopedProvider wraps a provider so every logger it hands out carries the
// given fields. The CLI uses it to stamp a run id on all log output.
func ScopedProvider(provider interfaces.LoggerProvider, fields map[string]any) interfaces.LoggerProvider {
	if provider == nil || len(fields) == 0 {
		return provider
	}
	return scopedProvider{inner: provider, fields: fields}
}

type scopedProvider struct {
	inner  interfaces.LoggerProvider
	fields map[string]any
}

func (p scopedProvider) GetLogger(name string) interfaces.Logger {
	return WithFields(p.inner.GetLogger(name), p.fields)
}
