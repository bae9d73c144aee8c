package model

import (
	"errors"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-gltf/common"
)

func TestParseComponentType(t *testing.T) {
	tests := []struct {
		code    int
		want    ComponentType
		size    int
		signed  bool
		indices bool
	}{
		{5120, ComponentTypeByte, 1, true, false},
		{5121, ComponentTypeUnsignedByte, 1, false, true},
		{5122, ComponentTypeShort, 2, true, false},
		{5123, ComponentTypeUnsignedShort, 2, false, true},
		{5125, ComponentTypeUnsignedInt, 4, false, true},
		{5126, ComponentTypeFloat, 4, false, false},
	}
	for _, tt := range tests {
		got, err := ParseComponentType(tt.code)
		if err != nil {
			t.Fatalf("ParseComponentType(%d) error: %v", tt.code, err)
		}
		if got != tt.want {
			t.Errorf("ParseComponentType(%d) = %v, want %v", tt.code, got, tt.want)
		}
		if got.Size() != tt.size {
			t.Errorf("%v.Size() = %d, want %d", got, got.Size(), tt.size)
		}
		if got.Signed() != tt.signed {
			t.Errorf("%v.Signed() = %v, want %v", got, got.Signed(), tt.signed)
		}
		if got.ValidForIndices() != tt.indices {
			t.Errorf("%v.ValidForIndices() = %v, want %v", got, got.ValidForIndices(), tt.indices)
		}
		if got.Code() != tt.code {
			t.Errorf("%v.Code() = %d, want %d", got, got.Code(), tt.code)
		}
	}
}

func TestParseComponentTypeRejectsUnknown(t *testing.T) {
	for _, code := range []int{0, 5124, 5127, -1, 70000} {
		if _, err := ParseComponentType(code); !errors.Is(err, common.ErrUnsupportedFormat) {
			t.Errorf("ParseComponentType(%d) error = %v, want ErrUnsupportedFormat", code, err)
		}
	}
}

func TestParseStructureType(t *testing.T) {
	tests := []struct {
		name  string
		count int
	}{
		{"SCALAR", 1},
		{"VEC2", 2},
		{"VEC3", 3},
		{"vec4", 4},
		{"MAT2", 4},
		{"MAT3", 9},
		{"Mat4", 16},
	}
	for _, tt := range tests {
		st, err := ParseStructureType(tt.name)
		if err != nil {
			t.Fatalf("ParseStructureType(%q) error: %v", tt.name, err)
		}
		if st.ComponentCount() != tt.count {
			t.Errorf("%q component count = %d, want %d", tt.name, st.ComponentCount(), tt.count)
		}
		if !strings.EqualFold(st.String(), tt.name) {
			t.Errorf("%q String() = %q", tt.name, st.String())
		}
	}

	if _, err := ParseStructureType("VEC5"); !errors.Is(err, common.ErrUnsupportedFormat) {
		t.Errorf("ParseStructureType(VEC5) error = %v, want ErrUnsupportedFormat", err)
	}
	if got := StructureType(0).String(); got != "StructureType(0)" {
		t.Errorf("StructureType(0).String() = %q", got)
	}
}

func TestMimeTypes(t *testing.T) {
	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0}

	if mt, err := DetectMimeType(png); err != nil || mt != MimeTypePNG {
		t.Errorf("DetectMimeType(png) = %v, %v", mt, err)
	}
	if mt, err := DetectMimeType(jpeg); err != nil || mt != MimeTypeJPEG {
		t.Errorf("DetectMimeType(jpeg) = %v, %v", mt, err)
	}
	if _, err := DetectMimeType([]byte("GIF89a")); !errors.Is(err, common.ErrUnsupportedFormat) {
		t.Errorf("DetectMimeType(gif) error = %v, want ErrUnsupportedFormat", err)
	}
	if MimeTypePNG.Matches(jpeg) {
		t.Error("PNG signature matched JPEG bytes")
	}
	if MimeTypeJPEG.Matches(jpeg[:2]) {
		t.Error("JPEG signature matched a truncated prefix")
	}

	if mt, err := ParseMimeType("image/jpeg"); err != nil || mt != MimeTypeJPEG {
		t.Errorf("ParseMimeType(image/jpeg) = %v, %v", mt, err)
	}
	if _, err := ParseMimeType("image/webp"); !errors.Is(err, common.ErrUnsupportedFormat) {
		t.Errorf("ParseMimeType(image/webp) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestEnums(t *testing.T) {
	if _, err := ParsePrimitiveMode(7); !errors.Is(err, common.ErrUnsupportedFormat) {
		t.Errorf("ParsePrimitiveMode(7) error = %v", err)
	}
	if m, err := ParsePrimitiveMode(4); err != nil || m != PrimitiveModeTriangles {
		t.Errorf("ParsePrimitiveMode(4) = %v, %v", m, err)
	}

	if m, err := ParseAlphaMode(""); err != nil || m != AlphaModeOpaque {
		t.Errorf("ParseAlphaMode(\"\") = %v, %v", m, err)
	}
	if _, err := ParseAlphaMode("CUTOUT"); !errors.Is(err, common.ErrUnsupportedFormat) {
		t.Errorf("ParseAlphaMode(CUTOUT) error = %v", err)
	}

	if i, ok := ParseInterpolation("CUBICSPLINE"); !ok || i != InterpolationCubicSpline {
		t.Errorf("ParseInterpolation(CUBICSPLINE) = %v, %v", i, ok)
	}
	if i, ok := ParseInterpolation("BEZIER"); ok || i != InterpolationLinear {
		t.Errorf("ParseInterpolation(BEZIER) = %v, %v; want LINEAR, false", i, ok)
	}

	for _, s := range []string{"translation", "rotation", "scale", "weights", "texture"} {
		p, err := ParseTargetPath(s)
		if err != nil {
			t.Fatalf("ParseTargetPath(%q) error: %v", s, err)
		}
		if p.String() != s {
			t.Errorf("ParseTargetPath(%q).String() = %q", s, p.String())
		}
	}
	if _, err := ParseTargetPath("Translation"); !errors.Is(err, common.ErrUnsupportedFormat) {
		t.Errorf("ParseTargetPath(Translation) error = %v", err)
	}
}
