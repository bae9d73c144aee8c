package loader

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
)

// gltfResolverImpl is the implementation of the gltfResolver interface.
// A resolver is single-use: it resolves one document into one graph.
type gltfResolverImpl struct {
	doc *gltfDocument
	bin []byte

	resources ResourceResolver
	logger    *slog.Logger

	graph *model.Graph
}

// gltfResolver defines the interface for turning a decoded glTF document into a linked model.Graph.
// Every integer index in the document is replaced by a direct reference, in dependency order.
type gltfResolver interface {
	// Resolve runs every resolution stage and returns the linked graph.
	// Stages fail fast; no partially resolved graph is ever returned.
	//
	// Returns:
	//   - *model.Graph: the resolved graph
	//   - error: an error wrapping one of the common error kinds
	Resolve() (*model.Graph, error)
}

var _ gltfResolver = &gltfResolverImpl{}

// newGLTFResolver creates a resolver for a decoded document.
//
// Parameters:
//   - doc: the decoded JSON document
//   - bin: the GLB binary chunk, or nil
//   - options: a variadic list of ResolveOption functions
//
// Returns:
//   - gltfResolver: the resolver
func newGLTFResolver(doc *gltfDocument, bin []byte, options ...ResolveOption) gltfResolver {
	r := &gltfResolverImpl{
		doc:       doc,
		bin:       bin,
		resources: NewFileResourceResolver(""),
		logger:    slog.New(slog.DiscardHandler),
	}

	for _, option := range options {
		option(r)
	}
	return r
}

// Resolve parses glTF JSON text and resolves it, with the optional GLB binary chunk, into a linked scene graph.
//
// Parameters:
//   - jsonText: the glTF JSON document
//   - bin: the GLB binary chunk, or nil for .gltf input
//   - options: a variadic list of ResolveOption functions (resource resolver, logger)
//
// Returns:
//   - *model.Graph: the fully linked graph
//   - error: an error wrapping one of the common error kinds; the graph is nil on error
func Resolve(jsonText, bin []byte, options ...ResolveOption) (*model.Graph, error) {
	var doc gltfDocument
	if err := json.Unmarshal(jsonText, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse glTF JSON: %w: %w", common.ErrUnsupportedFormat, err)
	}
	return newGLTFResolver(&doc, bin, options...).Resolve()
}

func (r *gltfResolverImpl) Resolve() (*model.Graph, error) {
	r.graph = &model.Graph{DefaultScene: -1}

	stages := []struct {
		name string
		run  func() error
	}{
		{"asset", r.resolveAsset},
		{"buffers", r.resolveBuffers},
		{"bufferViews", r.resolveBufferViews},
		{"accessors", r.resolveAccessors},
		{"samplers", r.resolveSamplers},
		{"images", r.resolveImages},
		{"textures", r.resolveTextures},
		{"materials", r.resolveMaterials},
		{"meshes", r.resolveMeshes},
		{"nodes", r.resolveNodes},
		{"skins", r.resolveSkins},
		{"scenes", r.resolveScenes},
		{"animations", r.resolveAnimations},
		{"node skins", r.linkNodeSkins},
	}
	for _, stage := range stages {
		if err := stage.run(); err != nil {
			r.graph = nil
			r.logger.Debug("glTF resolution failed", slog.String("stage", stage.name), slog.Any("error", err))
			return nil, err
		}
	}

	g := r.graph
	r.logger.Debug("resolved glTF graph",
		slog.String("version", g.Asset.Version),
		slog.String("generator", g.Asset.Generator),
		slog.Int("buffers", len(g.Buffers)),
		slog.Int("accessors", len(g.Accessors)),
		slog.Int("meshes", len(g.Meshes)),
		slog.Int("nodes", len(g.Nodes)),
		slog.Int("skins", len(g.Skins)),
		slog.Int("animations", len(g.Animations)))
	return g, nil
}

// --- Stage 1: Asset ---

func (r *gltfResolverImpl) resolveAsset() error {
	if r.doc.Asset == nil {
		return fmt.Errorf("asset: %w", common.ErrMissingField)
	}
	if r.doc.Asset.Version == nil || *r.doc.Asset.Version == "" {
		return fmt.Errorf("asset: version: %w", common.ErrMissingField)
	}

	version := *r.doc.Asset.Version
	if major, _, _ := strings.Cut(version, "."); major != "2" {
		return fmt.Errorf("asset: version %q: only glTF 2.x is supported: %w", version, common.ErrUnsupportedFormat)
	}

	r.graph.Asset = model.Asset{
		Version:    version,
		MinVersion: r.doc.Asset.MinVersion,
		Generator:  r.doc.Asset.Generator,
		Copyright:  r.doc.Asset.Copyright,
	}
	r.graph.ExtensionsUsed = r.doc.ExtensionsUsed
	r.graph.ExtensionsRequired = r.doc.ExtensionsRequired
	return nil
}

// --- Stage 2: Buffers ---

func (r *gltfResolverImpl) resolveBuffers() error {
	r.graph.Buffers = make([]*model.Buffer, len(r.doc.Buffers))
	for i, b := range r.doc.Buffers {
		if b.ByteLength == nil {
			return missingField("buffers", i, "byteLength")
		}

		buf := &model.Buffer{
			Index:      i,
			Name:       b.Name,
			URI:        b.URI,
			ByteLength: *b.ByteLength,
		}

		if b.URI == "" {
			if i != 0 || r.bin == nil {
				return fmt.Errorf("buffers[%d]: uri (only buffer 0 of a GLB may omit it): %w", i, common.ErrMissingField)
			}
			buf.Data = r.bin
			buf.Embedded = true
		} else {
			data, err := r.resources.Resolve(b.URI)
			if err != nil {
				return fmt.Errorf("buffers[%d]: %w", i, err)
			}
			buf.Data = data
		}

		if len(buf.Data) < buf.ByteLength {
			return fmt.Errorf("buffers[%d]: holds %d bytes, byteLength is %d: %w", i, len(buf.Data), buf.ByteLength, common.ErrBufferOverrun)
		}
		r.graph.Buffers[i] = buf
	}

	r.logger.Debug("resolved buffers", slog.Int("count", len(r.graph.Buffers)), slog.Bool("glb", r.bin != nil))
	return nil
}

// --- Stage 3: BufferViews ---

// Vertex attribute strides allowed by glTF.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#data-alignment
const (
	minByteStride = 4
	maxByteStride = 252
)

func (r *gltfResolverImpl) resolveBufferViews() error {
	r.graph.BufferViews = make([]*model.BufferView, len(r.doc.BufferViews))
	for i, v := range r.doc.BufferViews {
		if v.Buffer == nil {
			return missingField("bufferViews", i, "buffer")
		}
		if !common.InBounds(*v.Buffer, len(r.graph.Buffers)) {
			return danglingReference("bufferViews", i, "buffer", *v.Buffer)
		}
		if v.ByteLength == nil {
			return missingField("bufferViews", i, "byteLength")
		}

		bv := &model.BufferView{
			Index:      i,
			Name:       v.Name,
			Buffer:     r.graph.Buffers[*v.Buffer],
			ByteOffset: v.ByteOffset,
			ByteLength: *v.ByteLength,
			ByteStride: v.ByteStride,
			Target:     v.Target,
		}
		if bv.ByteStride != 0 && (bv.ByteStride < minByteStride || bv.ByteStride > maxByteStride || bv.ByteStride%4 != 0) {
			return fmt.Errorf("bufferViews[%d]: byteStride %d is not a multiple of 4 in [%d, %d]: %w",
				i, bv.ByteStride, minByteStride, maxByteStride, common.ErrUnsupportedFormat)
		}
		if _, err := bv.Bytes(); err != nil {
			return fmt.Errorf("bufferViews[%d]: %w", i, err)
		}
		r.graph.BufferViews[i] = bv
	}
	return nil
}

// --- Stage 4: Accessors ---

func (r *gltfResolverImpl) resolveAccessors() error {
	r.graph.Accessors = make([]*model.Accessor, len(r.doc.Accessors))
	for i, a := range r.doc.Accessors {
		if a.Sparse != nil {
			return fmt.Errorf("accessors[%d]: sparse storage: %w", i, common.ErrUnsupportedFormat)
		}
		if a.BufferView == nil {
			return missingField("accessors", i, "bufferView")
		}
		if !common.InBounds(*a.BufferView, len(r.graph.BufferViews)) {
			return danglingReference("accessors", i, "bufferView", *a.BufferView)
		}
		if a.ComponentType == nil {
			return missingField("accessors", i, "componentType")
		}
		ct, err := model.ParseComponentType(*a.ComponentType)
		if err != nil {
			return fmt.Errorf("accessors[%d]: %w", i, err)
		}
		if a.Type == nil {
			return missingField("accessors", i, "type")
		}
		st, err := model.ParseStructureType(*a.Type)
		if err != nil {
			return fmt.Errorf("accessors[%d]: %w", i, err)
		}
		if a.Count == nil {
			return missingField("accessors", i, "count")
		}
		if *a.Count < 0 || a.ByteOffset < 0 {
			return fmt.Errorf("accessors[%d]: count %d, byteOffset %d: %w", i, *a.Count, a.ByteOffset, common.ErrInvalidAccessor)
		}

		acc := &model.Accessor{
			Index:         i,
			Name:          a.Name,
			BufferView:    r.graph.BufferViews[*a.BufferView],
			ByteOffset:    a.ByteOffset,
			ComponentType: ct,
			StructureType: st,
			Count:         *a.Count,
			Normalized:    a.Normalized,
			Min:           a.Min,
			Max:           a.Max,
		}
		if stride := acc.BufferView.ByteStride; stride != 0 && stride < acc.ElementSize() {
			return fmt.Errorf("accessors[%d]: byteStride %d is shorter than a %d byte element: %w",
				i, stride, acc.ElementSize(), common.ErrUnsupportedFormat)
		}
		// FitsWithin bounds Count by the view length, so TotalByteCount cannot overflow after it.
		if !acc.FitsWithin(acc.BufferView.ByteLength) || acc.TotalByteCount() > acc.BufferView.ByteLength-acc.ByteOffset {
			return fmt.Errorf("accessors[%d]: %d %v elements at byteOffset %d exceed a %d byte bufferView: %w",
				i, acc.Count, acc.StructureType, acc.ByteOffset, acc.BufferView.ByteLength, common.ErrBufferOverrun)
		}
		r.graph.Accessors[i] = acc
	}

	r.logger.Debug("resolved accessors", slog.Int("count", len(r.graph.Accessors)))
	return nil
}

// --- Helpers ---

// accessor resolves an accessor index referenced by field of array[i].
func (r *gltfResolverImpl) accessor(array string, i int, field string, index int) (*model.Accessor, error) {
	if !common.InBounds(index, len(r.graph.Accessors)) {
		return nil, danglingReference(array, i, field, index)
	}
	return r.graph.Accessors[index], nil
}

// nodeID checks a node index referenced by field of array[i] and returns its handle.
func (r *gltfResolverImpl) nodeID(array string, i int, field string, index int) (model.NodeID, error) {
	if !common.InBounds(index, len(r.graph.Nodes)) {
		return 0, danglingReference(array, i, field, index)
	}
	return model.NodeID(index), nil
}

func missingField(array string, i int, field string) error {
	return fmt.Errorf("%s[%d]: %s: %w", array, i, field, common.ErrMissingField)
}

func danglingReference(array string, i int, field string, index int) error {
	return fmt.Errorf("%s[%d]: %s %d: %w", array, i, field, index, common.ErrDanglingReference)
}
