package model

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-gltf/common"

	"github.com/go-gl/mathgl/mgl32"
)

// --- Asset ---

// Asset is the metadata block of a glTF document.
type Asset struct {
	// Version is the glTF version the asset targets (required).
	Version string

	// MinVersion is the minimum glTF version a loader must support.
	MinVersion string

	// Generator is the tool that produced the asset.
	Generator string

	// Copyright is the copyright notice, if any.
	Copyright string
}

// --- Binary Data ---

// Buffer owns the raw bytes that bufferViews slice into.
type Buffer struct {
	// Index is the position of this buffer in Graph.Buffers.
	Index int

	Name string

	// URI is the declared uri. Empty for the GLB-embedded buffer.
	URI string

	// ByteLength is the declared length. Data may be longer (GLB chunks are padded).
	ByteLength int

	// Data holds the loaded bytes.
	Data []byte

	// Embedded is true when Data came from the GLB binary chunk.
	Embedded bool
}

// BufferView is a byte window into exactly one Buffer.
type BufferView struct {
	Index int
	Name  string

	// Buffer is the shared, non-owning reference to the viewed buffer.
	Buffer *Buffer

	ByteOffset int
	ByteLength int

	// ByteStride is the distance between element starts; 0 means tightly packed.
	ByteStride int

	// Target is the intended GPU buffer binding (34962 or 34963), 0 when absent.
	Target int
}

// Bytes returns the window of the underlying buffer covered by this view.
//
// Returns:
//   - []byte: a sub-slice of Buffer.Data (not a copy)
//   - error: wraps common.ErrInvalidAccessor if the buffer is nil, common.ErrBufferOverrun if the window exceeds the data
func (bv *BufferView) Bytes() ([]byte, error) {
	if bv == nil || bv.Buffer == nil {
		return nil, fmt.Errorf("buffer view has no buffer: %w", common.ErrInvalidAccessor)
	}
	n := len(bv.Buffer.Data)
	if bv.ByteOffset < 0 || bv.ByteLength < 0 || bv.ByteOffset > n || bv.ByteLength > n-bv.ByteOffset {
		return nil, fmt.Errorf("buffer view offset %d length %d exceeds buffer length %d: %w",
			bv.ByteOffset, bv.ByteLength, n, common.ErrBufferOverrun)
	}
	return bv.Buffer.Data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength], nil
}

// Accessor describes how to interpret a BufferView as typed elements.
type Accessor struct {
	// Index is the arena index of this accessor in Graph.Accessors. Decode caches key on it.
	Index int
	Name  string

	BufferView *BufferView

	// ByteOffset is relative to the start of BufferView.
	ByteOffset int

	ComponentType ComponentType
	StructureType StructureType

	// Count is the number of elements, not components.
	Count int

	// Normalized maps integer components to [0,1] or [-1,1] when decoding.
	Normalized bool

	Min []float32
	Max []float32
}

// TotalComponentCount is StructureType.ComponentCount() × Count.
func (a *Accessor) TotalComponentCount() int {
	return a.StructureType.ComponentCount() * a.Count
}

// BytesPerComponent is the width of one component.
func (a *Accessor) BytesPerComponent() int {
	return a.ComponentType.Size()
}

// TotalByteCount is BytesPerComponent() × TotalComponentCount().
func (a *Accessor) TotalByteCount() int {
	return a.BytesPerComponent() * a.TotalComponentCount()
}

// ElementSize is the byte size of one tightly packed element.
func (a *Accessor) ElementSize() int {
	return a.BytesPerComponent() * a.StructureType.ComponentCount()
}

// Stride is the distance between element starts, honoring the view's byteStride.
func (a *Accessor) Stride() int {
	if a.BufferView != nil && a.BufferView.ByteStride != 0 {
		return a.BufferView.ByteStride
	}
	return a.ElementSize()
}

// ByteSpan is the number of bytes from the accessor's first byte to the end of its last element.
// It saturates at math.MaxInt instead of overflowing.
func (a *Accessor) ByteSpan() int {
	if a.Count <= 0 {
		return 0
	}
	stride, elem := a.Stride(), a.ElementSize()
	if stride > 0 && a.Count-1 > (math.MaxInt-elem)/stride {
		return math.MaxInt
	}
	return (a.Count-1)*stride + elem
}

// FitsWithin reports whether every element, starting ByteOffset bytes in, lies inside n bytes.
// The check divides instead of multiplying, so counts and offsets taken from a document cannot overflow it.
//
// Parameters:
//   - n: the number of bytes available from the start of the view
//
// Returns:
//   - bool: true if the accessor's span fits
func (a *Accessor) FitsWithin(n int) bool {
	if a.ByteOffset < 0 || a.Count < 0 || a.ByteOffset > n {
		return false
	}
	if a.Count == 0 {
		return true
	}
	stride, elem := a.Stride(), a.ElementSize()
	if stride <= 0 || elem <= 0 || elem > n-a.ByteOffset {
		return false
	}
	return a.Count-1 <= (n-a.ByteOffset-elem)/stride
}

// --- Images & Textures ---

// Image is a texture image, either referenced by URI or embedded in a BufferView.
type Image struct {
	Index int
	Name  string

	// URI is the declared uri; empty for bufferView images.
	URI string

	// Path is the resolved filesystem path of an external image.
	Path string

	// BufferView holds the encoded bytes of an embedded image.
	BufferView *BufferView

	// MimeType is the signature-verified encoding. Zero for external images, which are only checked for existence.
	MimeType MimeType

	// Data holds the decoded bytes of a data: URI image.
	Data []byte
}

// TextureSampler holds texture filtering and wrapping codes.
type TextureSampler struct {
	Index int
	Name  string

	WrapS int
	WrapT int

	// MagFilter and MinFilter are nil when the asset leaves filtering to the renderer.
	MagFilter *int
	MinFilter *int
}

// Texture pairs an Image with an optional TextureSampler.
type Texture struct {
	Index int
	Name  string

	// Sampler is nil when the texture uses default sampling (wrap REPEAT, filters unspecified).
	Sampler *TextureSampler

	// Source is always set.
	Source *Image
}

// TextureRef is a material's reference to a Texture.
type TextureRef struct {
	Texture *Texture

	// TexCoord selects the TEXCOORD_n attribute set.
	TexCoord int

	// Scale is the normal-map scale or occlusion strength; 1 for other slots.
	Scale float32
}

// --- Materials ---

// Material describes the surface appearance of a primitive.
type Material struct {
	Index int
	Name  string

	BaseColorFactor          mgl32.Vec4
	BaseColorTexture         *TextureRef
	MetallicFactor           float32
	RoughnessFactor          float32
	MetallicRoughnessTexture *TextureRef

	NormalTexture    *TextureRef
	OcclusionTexture *TextureRef
	EmissiveTexture  *TextureRef
	EmissiveFactor   mgl32.Vec3

	AlphaMode   AlphaMode
	AlphaCutoff float32
	DoubleSided bool

	// SpecularGlossiness is set when the material carries KHR_materials_pbrSpecularGlossiness.
	SpecularGlossiness *SpecularGlossiness
}

// SpecularGlossiness holds the KHR_materials_pbrSpecularGlossiness parameters.
type SpecularGlossiness struct {
	DiffuseFactor    mgl32.Vec4
	DiffuseTexture   *TextureRef
	SpecularFactor   mgl32.Vec3
	GlossinessFactor float32
}

// --- Meshes ---

// Mesh is a set of primitives rendered together.
type Mesh struct {
	Index      int
	Name       string
	Primitives []*Primitive

	// Weights are the default morph target weights.
	Weights []float32
}

// Primitive is one draw of a mesh.
type Primitive struct {
	// Attributes maps a semantic name (POSITION, NORMAL, TEXCOORD_0, ...) to its accessor.
	Attributes map[string]*Accessor

	// Indices is nil for non-indexed geometry.
	Indices *Accessor

	// Material is nil when the primitive uses the default material.
	Material *Material

	Mode PrimitiveMode

	// Targets are morph targets, each a semantic → accessor map.
	Targets []map[string]*Accessor
}

// --- Scene Graph ---

// NodeID is a stable handle into Graph.Nodes.
type NodeID int

// Node is an element of the scene graph. Nodes live in the Graph.Nodes arena and refer to each other by NodeID.
type Node struct {
	ID   NodeID
	Name string

	Children []NodeID

	Mesh *Mesh

	// Skin is back-linked after skins are resolved. SkinIndex is -1 when the node has no skin.
	Skin      *Skin
	SkinIndex int

	// HasMatrix is true when the local transform was given as Matrix rather than TRS.
	HasMatrix   bool
	Matrix      mgl32.Mat4
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3

	Weights []float32
}

// Skin binds mesh vertices to a joint hierarchy.
type Skin struct {
	Index int
	Name  string

	// InverseBindMatrices holds one matrix per joint, decoded eagerly. Empty when the asset uses identity matrices.
	InverseBindMatrices []mgl32.Mat4

	Joints []NodeID

	// Skeleton is the root joint; only meaningful when HasSkeleton is true.
	Skeleton    NodeID
	HasSkeleton bool
}

// Scene lists the root nodes of one scene.
type Scene struct {
	Index int
	Name  string
	Nodes []NodeID
}

// --- Animation ---

// Animation is a set of channels driven by keyframe samplers.
type Animation struct {
	Index    int
	Name     string
	Samplers []*AnimationSampler
	Channels []*AnimationChannel
}

// AnimationSampler pairs keyframe times with keyframe values.
type AnimationSampler struct {
	Input         *Accessor
	Output        *Accessor
	Interpolation Interpolation
}

// AnimationChannel connects a sampler to the node property it animates.
type AnimationChannel struct {
	Sampler *AnimationSampler
	Target  AnimationChannelTarget
}

// AnimationChannelTarget identifies the animated node and property.
type AnimationChannelTarget struct {
	Node NodeID
	Path TargetPath
}
