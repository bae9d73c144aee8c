package loader

import (
	"log/slog"
)

// ResolveOption is a functional option for configuring Resolve.
type ResolveOption func(*gltfResolverImpl)

// WithResolveResources sets the ResourceResolver used for buffer and image URIs.
// Defaults to a filesystem resolver rooted at the working directory.
//
// Parameters:
//   - resources: the resource resolver
//
// Returns:
//   - ResolveOption: a function that applies the resource resolver to a resolver
func WithResolveResources(resources ResourceResolver) ResolveOption {
	return func(r *gltfResolverImpl) {
		if resources != nil {
			r.resources = resources
		}
	}
}

// WithResolveLogger sets the logger for resolution diagnostics. A nil logger is ignored.
func WithResolveLogger(logger *slog.Logger) ResolveOption {
	return func(r *gltfResolverImpl) {
		if logger != nil {
			r.logger = logger
		}
	}
}
