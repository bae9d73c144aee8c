package loader

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithLogger is an option builder that sets the structured logger used by the Loader and its backend.
// A nil logger is ignored; by default log output is discarded.
//
// Parameters:
//   - logger: the logger instance
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger *slog.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithBaseDir is an option builder that sets the directory LoadBytes resolves relative URIs against.
//
// Parameters:
//   - dir: the base directory
//
// Returns:
//   - LoaderBuilderOption: a function that applies the base directory option to a loader
func WithBaseDir(dir string) LoaderBuilderOption {
	return func(l *loader) {
		l.baseDir = dir
	}
}

// WithResourceResolver is an option builder that replaces the filesystem resource resolver for every load.
//
// Parameters:
//   - resources: the resolver for buffer and image URIs
//
// Returns:
//   - LoaderBuilderOption: a function that applies the resource resolver option to a loader
func WithResourceResolver(resources ResourceResolver) LoaderBuilderOption {
	return func(l *loader) {
		l.resources = resources
	}
}

// WithGraph is an option builder that pre-populates the graph cache.
//
// Parameters:
//   - key: the cache key for the graph
//   - g: the graph to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the graph option to a loader
func WithGraph(key string, g *model.Graph) LoaderBuilderOption {
	return func(l *loader) {
		l.graphCache[key] = g
	}
}
