package model

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gltf/common"
)

// PrimitiveMode is the topology of a mesh primitive.
type PrimitiveMode uint8

const (
	PrimitiveModePoints PrimitiveMode = iota
	PrimitiveModeLines
	PrimitiveModeLineLoop
	PrimitiveModeLineStrip
	PrimitiveModeTriangles
	PrimitiveModeTriangleStrip
	PrimitiveModeTriangleFan
)

// ParsePrimitiveMode validates a glTF primitive mode code (0..6).
func ParsePrimitiveMode(code int) (PrimitiveMode, error) {
	if code < int(PrimitiveModePoints) || code > int(PrimitiveModeTriangleFan) {
		return 0, fmt.Errorf("primitive mode %d: %w", code, common.ErrUnsupportedFormat)
	}
	return PrimitiveMode(code), nil
}

// AlphaMode controls how the alpha channel of a material is interpreted.
type AlphaMode uint8

const (
	AlphaModeOpaque AlphaMode = iota
	AlphaModeMask
	AlphaModeBlend
)

// ParseAlphaMode maps "OPAQUE", "MASK" or "BLEND" to its AlphaMode. An empty string is OPAQUE.
func ParseAlphaMode(s string) (AlphaMode, error) {
	switch s {
	case "", "OPAQUE":
		return AlphaModeOpaque, nil
	case "MASK":
		return AlphaModeMask, nil
	case "BLEND":
		return AlphaModeBlend, nil
	default:
		return 0, fmt.Errorf("alpha mode %q: %w", s, common.ErrUnsupportedFormat)
	}
}

func (m AlphaMode) String() string {
	switch m {
	case AlphaModeMask:
		return "MASK"
	case AlphaModeBlend:
		return "BLEND"
	default:
		return "OPAQUE"
	}
}

// Interpolation is the keyframe interpolation of an animation sampler.
type Interpolation uint8

const (
	InterpolationLinear Interpolation = iota
	InterpolationStep
	InterpolationCubicSpline
)

// ParseInterpolation maps an interpolation string to its enum.
// The boolean is false when s was not recognized; the returned value is then InterpolationLinear.
func ParseInterpolation(s string) (Interpolation, bool) {
	switch s {
	case "", "LINEAR":
		return InterpolationLinear, true
	case "STEP":
		return InterpolationStep, true
	case "CUBICSPLINE":
		return InterpolationCubicSpline, true
	default:
		return InterpolationLinear, false
	}
}

func (i Interpolation) String() string {
	switch i {
	case InterpolationStep:
		return "STEP"
	case InterpolationCubicSpline:
		return "CUBICSPLINE"
	default:
		return "LINEAR"
	}
}

// TargetPath is the node property driven by an animation channel.
type TargetPath uint8

const (
	TargetPathTranslation TargetPath = iota
	TargetPathRotation
	TargetPathScale
	TargetPathWeights
	TargetPathTexture
)

// ParseTargetPath maps a channel target path string to its enum.
//
// Parameters:
//   - s: the "path" string of an animation channel target
//
// Returns:
//   - TargetPath: the parsed path
//   - error: wraps common.ErrUnsupportedFormat for unrecognized strings
func ParseTargetPath(s string) (TargetPath, error) {
	switch s {
	case "translation":
		return TargetPathTranslation, nil
	case "rotation":
		return TargetPathRotation, nil
	case "scale":
		return TargetPathScale, nil
	case "weights":
		return TargetPathWeights, nil
	case "texture":
		return TargetPathTexture, nil
	default:
		return 0, fmt.Errorf("animation target path %q: %w", s, common.ErrUnsupportedFormat)
	}
}

func (p TargetPath) String() string {
	switch p {
	case TargetPathTranslation:
		return "translation"
	case TargetPathRotation:
		return "rotation"
	case TargetPathScale:
		return "scale"
	case TargetPathWeights:
		return "weights"
	case TargetPathTexture:
		return "texture"
	default:
		return fmt.Sprintf("TargetPath(%d)", uint8(p))
	}
}

// Sampler wrap and filter codes.
const (
	WrapClampToEdge    = 33071
	WrapMirroredRepeat = 33648
	WrapRepeat         = 10497

	FilterNearest              = 9728
	FilterLinear               = 9729
	FilterNearestMipmapNearest = 9984
	FilterLinearMipmapNearest  = 9985
	FilterNearestMipmapLinear  = 9986
	FilterLinearMipmapLinear   = 9987
)
