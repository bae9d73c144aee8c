package loader

import (
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
)

// loaderBackend defines the generic interface for loading scene graphs from files or in-memory bytes.
// Concrete implementations (e.g., gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load reads, demultiplexes and resolves the file at path.
	// External resources are resolved relative to the file's directory.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *model.Graph: the resolved graph
	//   - error: error if loading fails
	Load(path string) (*model.Graph, error)

	// LoadBytes demultiplexes and resolves in-memory file contents.
	//
	// Parameters:
	//   - data: the raw file contents
	//   - ext: the file extension selecting the container format, e.g. ".glb"
	//   - resources: the resolver for buffer and image URIs
	//
	// Returns:
	//   - *model.Graph: the resolved graph
	//   - error: error if loading fails
	LoadBytes(data []byte, ext string, resources ResourceResolver) (*model.Graph, error)

	// Extensions lists the file extensions the backend accepts, lower-case with the leading dot.
	Extensions() []string
}
