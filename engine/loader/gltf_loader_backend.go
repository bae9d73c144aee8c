package loader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
)

// gltfLoaderBackendImpl is the implementation of gltfLoaderBackend.
type gltfLoaderBackendImpl struct {
	logger *slog.Logger

	// resources builds the resource resolver for a document directory.
	resources func(baseDir string) ResourceResolver
}

// gltfLoaderBackend is a loaderBackend implementation for glTF/GLB files.
// It demultiplexes the container and delegates to the glTF resolver.
type gltfLoaderBackend interface {
	loaderBackend
}

var _ gltfLoaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a new glTF loader backend.
//
// Parameters:
//   - logger: the logger for container and resolution diagnostics
//   - resources: builds the resource resolver for a document directory
//
// Returns:
//   - gltfLoaderBackend: the loader backend for glTF/GLB files
func newGLTFLoaderBackend(logger *slog.Logger, resources func(baseDir string) ResourceResolver) gltfLoaderBackend {
	return &gltfLoaderBackendImpl{
		logger:    logger,
		resources: resources,
	}
}

func (b *gltfLoaderBackendImpl) Load(path string) (*model.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, notFound(path, err)
	}
	return b.LoadBytes(data, filepath.Ext(path), b.resources(filepath.Dir(path)))
}

func (b *gltfLoaderBackendImpl) LoadBytes(data []byte, ext string, resources ResourceResolver) (*model.Graph, error) {
	c, err := demux(data, ext)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(ext, ".glb") {
		b.logger.Debug("parsed GLB container",
			slog.Uint64("version", uint64(c.Version)),
			slog.Uint64("length", uint64(c.Length)),
			slog.String("jsonChunkType", fmt.Sprintf("0x%08X", c.JSONChunkType)),
			slog.String("binChunkType", fmt.Sprintf("0x%08X", c.BinChunkType)),
			slog.Int("jsonBytes", len(c.JSON)),
			slog.Int("binBytes", len(c.Bin)))
		if c.JSONChunkType != gltfGLBChunkJSON || (c.Bin != nil && c.BinChunkType != gltfGLBChunkBIN) {
			b.logger.Debug("unexpected GLB chunk types, continuing")
		}
	}

	return Resolve(c.JSON, c.Bin,
		WithResolveResources(resources),
		WithResolveLogger(b.logger))
}

func (b *gltfLoaderBackendImpl) Extensions() []string {
	return []string{".gltf", ".glb"}
}
