package loader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
)

// LoaderBackendType identifies the scene file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	logger *slog.Logger

	// baseDir is the directory LoadBytes resolves relative URIs against.
	baseDir string

	// resources overrides the per-document filesystem resolver when set.
	resources ResourceResolver

	graphCache map[string]*model.Graph

	backend loaderBackend
}

// Loader defines the public-facing interface for loading and caching glTF scene graphs.
// It abstracts the file format (glTF, GLB) behind a generic backend and
// manages a cache of previously loaded graphs.
type Loader interface {
	// Load reads a .gltf or .glb file, resolves it into a scene graph and caches the result.
	// If the graph is already cached (by file path), the cached graph is returned.
	// Buffer and image URIs are resolved relative to the file's directory.
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - *model.Graph: the loaded and cached graph
	//   - error: wraps common.ErrNotFound if path does not exist, common.ErrUnsupportedFormat for other
	//     extensions, or any container/resolution error
	Load(path string) (*model.Graph, error)

	// LoadBytes resolves in-memory file contents and caches the graph by the given name.
	// Relative URIs are resolved against the directory set with WithBaseDir.
	//
	// Parameters:
	//   - name: the cache key for the loaded graph
	//   - data: the raw file contents
	//   - ext: the extension selecting the container format, ".gltf" or ".glb"
	//
	// Returns:
	//   - *model.Graph: the loaded graph
	//   - error: error if loading fails
	LoadBytes(name string, data []byte, ext string) (*model.Graph, error)

	// Get retrieves a cached graph by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - *model.Graph: the cached graph or nil
	Get(name string) *model.Graph

	// Graphs returns a copy of the graph cache.
	//
	// Returns:
	//   - map[string]*model.Graph: all cached graphs keyed by name
	Graphs() map[string]*model.Graph
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:         sync.RWMutex{},
		logger:     slog.New(slog.DiscardHandler),
		graphCache: make(map[string]*model.Graph),
	}

	for _, option := range options {
		option(l)
	}

	// The backend is built after options so that it picks up the configured logger and resolver.
	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend(l.logger, l.resourcesFor)
	}
	return l
}

func (l *loader) Load(path string) (*model.Graph, error) {
	l.mu.RLock()
	if cached, ok := l.graphCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	if _, err := os.Stat(path); err != nil {
		return nil, notFound(path, err)
	}

	backend, err := l.resolveBackend(filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	g, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	g = l.store(path, g)
	l.logger.Info("loaded glTF",
		slog.String("path", path),
		slog.String("generator", common.Coalesce(g.Asset.Generator, "unknown")),
		slog.Int("nodes", len(g.Nodes)),
		slog.Int("meshes", len(g.Meshes)))
	return g, nil
}

func (l *loader) LoadBytes(name string, data []byte, ext string) (*model.Graph, error) {
	l.mu.RLock()
	if cached, ok := l.graphCache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(ext)
	if err != nil {
		return nil, err
	}

	g, err := backend.LoadBytes(data, ext, l.resourcesFor(l.baseDir))
	if err != nil {
		return nil, fmt.Errorf("failed to load %q: %w", name, err)
	}

	return l.store(name, g), nil
}

func (l *loader) Get(name string) *model.Graph {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.graphCache[name]
}

func (l *loader) Graphs() map[string]*model.Graph {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]*model.Graph, len(l.graphCache))
	for k, v := range l.graphCache {
		result[k] = v
	}
	return result
}

// store caches g under key and returns the cached graph. If another goroutine stored a graph first, that graph wins.
func (l *loader) store(key string, g *model.Graph) *model.Graph {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cached, ok := l.graphCache[key]; ok {
		return cached
	}
	l.graphCache[key] = g
	return g
}

// resolveBackend selects the loader backend for a file extension.
// Currently only glTF/GLB is supported.
func (l *loader) resolveBackend(ext string) (loaderBackend, error) {
	if l.backend == nil || !slices.Contains(l.backend.Extensions(), strings.ToLower(ext)) {
		return nil, fmt.Errorf("model format %q: %w", ext, common.ErrUnsupportedFormat)
	}
	return l.backend, nil
}

// resourcesFor returns the configured resource resolver, or a filesystem resolver rooted at baseDir.
func (l *loader) resourcesFor(baseDir string) ResourceResolver {
	if l.resources != nil {
		return l.resources
	}
	return NewFileResourceResolver(baseDir)
}
