// accessor_types.go holds the closed registries that map glTF codes to their binary layout.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#accessor-data-types
package model

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-gltf/common"
)

// --- Component Types ---

// ComponentType is the numeric encoding of a single accessor component.
// The underlying value is the glTF componentType code; the zero value is not a valid type.
type ComponentType uint16

const (
	ComponentTypeByte          ComponentType = 5120
	ComponentTypeUnsignedByte  ComponentType = 5121
	ComponentTypeShort         ComponentType = 5122
	ComponentTypeUnsignedShort ComponentType = 5123
	ComponentTypeUnsignedInt   ComponentType = 5125
	ComponentTypeFloat         ComponentType = 5126
)

// ParseComponentType maps a glTF componentType code to its ComponentType.
//
// Parameters:
//   - code: the integer code from the accessor JSON
//
// Returns:
//   - ComponentType: the registered component type
//   - error: wraps common.ErrUnsupportedFormat for unknown codes
func ParseComponentType(code int) (ComponentType, error) {
	ct := ComponentType(code)
	if code < 0 || code > 0xFFFF || !ct.Known() {
		return 0, fmt.Errorf("component type %d: %w", code, common.ErrUnsupportedFormat)
	}
	return ct, nil
}

// Known reports whether ct is one of the six registered component types.
func (ct ComponentType) Known() bool {
	return ct.Size() != 0
}

// Size returns the width of one component in bytes, or 0 for an unknown type.
func (ct ComponentType) Size() int {
	switch ct {
	case ComponentTypeByte, ComponentTypeUnsignedByte:
		return 1
	case ComponentTypeShort, ComponentTypeUnsignedShort:
		return 2
	case ComponentTypeUnsignedInt, ComponentTypeFloat:
		return 4
	default:
		return 0
	}
}

// Signed reports whether ct is a signed integer type.
func (ct ComponentType) Signed() bool {
	return ct == ComponentTypeByte || ct == ComponentTypeShort
}

// ValidForIndices reports whether ct may be used by a primitive index accessor.
func (ct ComponentType) ValidForIndices() bool {
	switch ct {
	case ComponentTypeUnsignedByte, ComponentTypeUnsignedShort, ComponentTypeUnsignedInt:
		return true
	default:
		return false
	}
}

// Code returns the glTF componentType code.
func (ct ComponentType) Code() int {
	return int(ct)
}

func (ct ComponentType) String() string {
	switch ct {
	case ComponentTypeByte:
		return "BYTE"
	case ComponentTypeUnsignedByte:
		return "UNSIGNED_BYTE"
	case ComponentTypeShort:
		return "SHORT"
	case ComponentTypeUnsignedShort:
		return "UNSIGNED_SHORT"
	case ComponentTypeUnsignedInt:
		return "UNSIGNED_INT"
	case ComponentTypeFloat:
		return "FLOAT"
	default:
		return fmt.Sprintf("ComponentType(%d)", uint16(ct))
	}
}

// --- Structure Types ---

// StructureType is the element shape of an accessor. The zero value is not a valid type.
type StructureType uint8

const (
	StructureTypeScalar StructureType = iota + 1
	StructureTypeVec2
	StructureTypeVec3
	StructureTypeVec4
	StructureTypeMat2
	StructureTypeMat3
	StructureTypeMat4
)

var structureTypeNames = map[string]StructureType{
	"SCALAR": StructureTypeScalar,
	"VEC2":   StructureTypeVec2,
	"VEC3":   StructureTypeVec3,
	"VEC4":   StructureTypeVec4,
	"MAT2":   StructureTypeMat2,
	"MAT3":   StructureTypeMat3,
	"MAT4":   StructureTypeMat4,
}

// ParseStructureType maps a glTF accessor type name (case-insensitive) to its StructureType.
//
// Parameters:
//   - name: the accessor "type" string, e.g. "VEC3"
//
// Returns:
//   - StructureType: the registered structure type
//   - error: wraps common.ErrUnsupportedFormat for unknown names
func ParseStructureType(name string) (StructureType, error) {
	st, ok := structureTypeNames[strings.ToUpper(name)]
	if !ok {
		return 0, fmt.Errorf("structure type %q: %w", name, common.ErrUnsupportedFormat)
	}
	return st, nil
}

// Known reports whether st is one of the seven registered structure types.
func (st StructureType) Known() bool {
	return st.ComponentCount() != 0
}

// ComponentCount returns the number of components per element, or 0 for an unknown type.
func (st StructureType) ComponentCount() int {
	switch st {
	case StructureTypeScalar:
		return 1
	case StructureTypeVec2:
		return 2
	case StructureTypeVec3:
		return 3
	case StructureTypeVec4, StructureTypeMat2:
		return 4
	case StructureTypeMat3:
		return 9
	case StructureTypeMat4:
		return 16
	default:
		return 0
	}
}

func (st StructureType) String() string {
	switch st {
	case StructureTypeScalar:
		return "SCALAR"
	case StructureTypeVec2:
		return "VEC2"
	case StructureTypeVec3:
		return "VEC3"
	case StructureTypeVec4:
		return "VEC4"
	case StructureTypeMat2:
		return "MAT2"
	case StructureTypeMat3:
		return "MAT3"
	case StructureTypeMat4:
		return "MAT4"
	default:
		return fmt.Sprintf("StructureType(%d)", uint8(st))
	}
}

// --- Image MIME Types ---

// MimeType is an image encoding accepted for bufferView-backed images. The zero value means unknown.
type MimeType uint8

const (
	MimeTypePNG MimeType = iota + 1
	MimeTypeJPEG
)

var (
	pngSignature  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	jpegSignature = []byte{0xFF, 0xD8, 0xFF}
)

// ParseMimeType maps a declared MIME string to its MimeType.
//
// Parameters:
//   - s: the image "mimeType" string
//
// Returns:
//   - MimeType: the registered MIME type
//   - error: wraps common.ErrUnsupportedFormat for anything other than image/png or image/jpeg
func ParseMimeType(s string) (MimeType, error) {
	switch s {
	case "image/png":
		return MimeTypePNG, nil
	case "image/jpeg":
		return MimeTypeJPEG, nil
	default:
		return 0, fmt.Errorf("mime type %q: %w", s, common.ErrUnsupportedFormat)
	}
}

// DetectMimeType identifies an image encoding from its leading magic bytes.
//
// Parameters:
//   - data: the encoded image bytes
//
// Returns:
//   - MimeType: the detected type
//   - error: wraps common.ErrUnsupportedFormat if no registered signature matches
func DetectMimeType(data []byte) (MimeType, error) {
	for _, mt := range []MimeType{MimeTypePNG, MimeTypeJPEG} {
		if mt.Matches(data) {
			return mt, nil
		}
	}
	return 0, fmt.Errorf("unrecognized image signature: %w", common.ErrUnsupportedFormat)
}

// Matches reports whether data starts with the signature of mt.
func (mt MimeType) Matches(data []byte) bool {
	sig := mt.signature()
	return sig != nil && bytes.HasPrefix(data, sig)
}

func (mt MimeType) signature() []byte {
	switch mt {
	case MimeTypePNG:
		return pngSignature
	case MimeTypeJPEG:
		return jpegSignature
	default:
		return nil
	}
}

func (mt MimeType) String() string {
	switch mt {
	case MimeTypePNG:
		return "image/png"
	case MimeTypeJPEG:
		return "image/jpeg"
	default:
		return ""
	}
}
