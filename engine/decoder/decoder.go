// Package decoder turns linked glTF accessors into flat numeric arrays.
// The Decode functions are pure: they only read the accessor's buffer bytes and are safe for concurrent use.
// Cache memoizes Decode results per accessor.
package decoder

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"

	"github.com/go-gl/mathgl/mgl32"
)

// Decode reads every component of an accessor as a float32, in element-major order.
// Integer components are rescaled when acc.Normalized is set; otherwise they are widened as-is.
//
// Parameters:
//   - acc: a fully linked accessor
//
// Returns:
//   - []float32: TotalComponentCount() values
//   - error: wraps common.ErrInvalidAccessor for broken linkage, common.ErrBufferOverrun for out-of-range reads
func Decode(acc *model.Accessor) ([]float32, error) {
	data, err := accessorBytes(acc)
	if err != nil {
		return nil, err
	}

	ct := acc.ComponentType
	size := ct.Size()
	comps := acc.StructureType.ComponentCount()
	base := acc.BufferView.ByteOffset + acc.ByteOffset
	stride := acc.BufferView.ByteStride
	if stride == 0 {
		stride = comps * size
	}

	out := make([]float32, acc.TotalComponentCount())
	for e := 0; e < acc.Count; e++ {
		elem := base + e*stride
		for c := 0; c < comps; c++ {
			off := elem + c*size
			raw, err := readComponent(data, off, ct)
			if err != nil {
				return nil, fmt.Errorf("accessor %d element %d component %d: %w", acc.Index, e, c, err)
			}
			if acc.Normalized {
				out[e*comps+c] = NormalizeComponent(ct, raw)
			} else {
				out[e*comps+c] = float32(raw)
			}
		}
	}
	return out, nil
}

// DecodeIndices reads a primitive index accessor as uint32 values.
// Only UNSIGNED_BYTE, UNSIGNED_SHORT and UNSIGNED_INT are legal; a non-zero view stride is the width of one index slot.
//
// Parameters:
//   - acc: a fully linked index accessor
//
// Returns:
//   - []uint32: Count indices
//   - error: wraps common.ErrUnsupportedFormat for illegal component types, common.ErrBufferOverrun for out-of-range reads
func DecodeIndices(acc *model.Accessor) ([]uint32, error) {
	data, err := accessorBytes(acc)
	if err != nil {
		return nil, err
	}
	if !acc.ComponentType.ValidForIndices() {
		return nil, fmt.Errorf("accessor %d: index component type %v: %w", acc.Index, acc.ComponentType, common.ErrUnsupportedFormat)
	}

	size := acc.ComponentType.Size()
	stride := acc.BufferView.ByteStride
	if stride == 0 {
		stride = size
	}
	base := acc.BufferView.ByteOffset + acc.ByteOffset

	out := make([]uint32, acc.Count)
	for i := range out {
		off := base + i*stride
		if off < 0 || off+size > len(data) {
			return nil, fmt.Errorf("accessor %d index %d at byte %d: %w", acc.Index, i, off, common.ErrBufferOverrun)
		}
		switch acc.ComponentType {
		case model.ComponentTypeUnsignedByte:
			out[i] = uint32(data[off])
		case model.ComponentTypeUnsignedShort:
			out[i] = uint32(binary.LittleEndian.Uint16(data[off:]))
		case model.ComponentTypeUnsignedInt:
			out[i] = binary.LittleEndian.Uint32(data[off:])
		}
	}
	return out, nil
}

// DecodeMat4 reads a MAT4 accessor as 4x4 matrices. The 16 values of each matrix keep their order in the buffer.
//
// Parameters:
//   - acc: a fully linked MAT4 accessor
//
// Returns:
//   - []mgl32.Mat4: Count matrices
//   - error: wraps common.ErrUnsupportedFormat if the accessor is not MAT4, or any Decode error
func DecodeMat4(acc *model.Accessor) ([]mgl32.Mat4, error) {
	if acc != nil && acc.StructureType != model.StructureTypeMat4 {
		return nil, fmt.Errorf("accessor %d: expected MAT4, got %v: %w", acc.Index, acc.StructureType, common.ErrUnsupportedFormat)
	}
	flat, err := Decode(acc)
	if err != nil {
		return nil, err
	}

	out := make([]mgl32.Mat4, len(flat)/16)
	for i := range out {
		copy(out[i][:], flat[i*16:(i+1)*16])
	}
	return out, nil
}

// Bounds computes the axis-aligned bounding box of a VEC3 accessor, typically POSITION.
// An empty accessor yields two zero vectors.
//
// Parameters:
//   - acc: a fully linked VEC3 accessor
//
// Returns:
//   - mgl32.Vec3: the component-wise minimum
//   - mgl32.Vec3: the component-wise maximum
//   - error: wraps common.ErrUnsupportedFormat if the accessor is not VEC3, or any Decode error
func Bounds(acc *model.Accessor) (mgl32.Vec3, mgl32.Vec3, error) {
	if acc != nil && acc.StructureType != model.StructureTypeVec3 {
		return mgl32.Vec3{}, mgl32.Vec3{}, fmt.Errorf("accessor %d: expected VEC3, got %v: %w", acc.Index, acc.StructureType, common.ErrUnsupportedFormat)
	}
	flat, err := Decode(acc)
	if err != nil {
		return mgl32.Vec3{}, mgl32.Vec3{}, err
	}
	if len(flat) == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}, nil
	}

	bmin := mgl32.Vec3{flat[0], flat[1], flat[2]}
	bmax := bmin
	for i := 3; i+2 < len(flat); i += 3 {
		for j := 0; j < 3; j++ {
			bmin[j] = min(bmin[j], flat[i+j])
			bmax[j] = max(bmax[j], flat[i+j])
		}
	}
	return bmin, bmax, nil
}

// NormalizeComponent maps a raw integer component onto the glTF normalized range for its type.
// Signed types are clamped at -1 so that the most negative value and its neighbour both map to -1.
// Float components are returned unchanged.
//
// Parameters:
//   - ct: the component type the value was read as
//   - raw: the raw component value
//
// Returns:
//   - float32: the normalized value
func NormalizeComponent(ct model.ComponentType, raw float64) float32 {
	switch ct {
	case model.ComponentTypeUnsignedByte:
		return float32(raw / math.MaxUint8)
	case model.ComponentTypeByte:
		return float32(max(raw/math.MaxInt8, -1))
	case model.ComponentTypeUnsignedShort:
		return float32(raw / math.MaxUint16)
	case model.ComponentTypeShort:
		return float32(max(raw/math.MaxInt16, -1))
	case model.ComponentTypeUnsignedInt:
		return float32(raw / math.MaxUint32)
	default:
		return float32(raw)
	}
}

// accessorBytes validates accessor linkage and span, and returns the full data of the underlying buffer.
func accessorBytes(acc *model.Accessor) ([]byte, error) {
	switch {
	case acc == nil:
		return nil, fmt.Errorf("accessor is nil: %w", common.ErrInvalidAccessor)
	case acc.BufferView == nil:
		return nil, fmt.Errorf("accessor %d has no buffer view: %w", acc.Index, common.ErrInvalidAccessor)
	case acc.BufferView.Buffer == nil:
		return nil, fmt.Errorf("accessor %d: buffer view %d has no buffer: %w", acc.Index, acc.BufferView.Index, common.ErrInvalidAccessor)
	case !acc.ComponentType.Known():
		return nil, fmt.Errorf("accessor %d: component type %v: %w", acc.Index, acc.ComponentType, common.ErrInvalidAccessor)
	case !acc.StructureType.Known():
		return nil, fmt.Errorf("accessor %d: structure type %v: %w", acc.Index, acc.StructureType, common.ErrInvalidAccessor)
	case acc.Count < 0:
		return nil, fmt.Errorf("accessor %d: negative count %d: %w", acc.Index, acc.Count, common.ErrInvalidAccessor)
	}

	// The whole span is checked before any output is allocated.
	data := acc.BufferView.Buffer.Data
	viewOffset := acc.BufferView.ByteOffset
	if viewOffset < 0 || viewOffset > len(data) || !acc.FitsWithin(len(data)-viewOffset) {
		return nil, fmt.Errorf("accessor %d: %d elements at offset %d+%d exceed buffer length %d: %w",
			acc.Index, acc.Count, viewOffset, acc.ByteOffset, len(data), common.ErrBufferOverrun)
	}
	return data, nil
}

// readComponent reads one little-endian component at off, bounds-checked against data.
func readComponent(data []byte, off int, ct model.ComponentType) (float64, error) {
	size := ct.Size()
	if off < 0 || off+size > len(data) {
		return 0, fmt.Errorf("read of %d bytes at %d exceeds buffer length %d: %w", size, off, len(data), common.ErrBufferOverrun)
	}
	switch ct {
	case model.ComponentTypeByte:
		return float64(int8(data[off])), nil
	case model.ComponentTypeUnsignedByte:
		return float64(data[off]), nil
	case model.ComponentTypeShort:
		return float64(int16(binary.LittleEndian.Uint16(data[off:]))), nil
	case model.ComponentTypeUnsignedShort:
		return float64(binary.LittleEndian.Uint16(data[off:])), nil
	case model.ComponentTypeUnsignedInt:
		return float64(binary.LittleEndian.Uint32(data[off:])), nil
	case model.ComponentTypeFloat:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))), nil
	default:
		return 0, fmt.Errorf("component type %v: %w", ct, common.ErrInvalidAccessor)
	}
}
