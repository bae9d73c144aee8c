package decoder

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"

	"github.com/go-gl/mathgl/mgl32"
)

// newAccessor wraps data in a single buffer and a view covering all of it.
func newAccessor(data []byte, ct model.ComponentType, st model.StructureType, count int) *model.Accessor {
	buf := &model.Buffer{Data: data, ByteLength: len(data)}
	return &model.Accessor{
		BufferView:    &model.BufferView{Buffer: buf, ByteLength: len(data)},
		ComponentType: ct,
		StructureType: st,
		Count:         count,
	}
}

func floatBytes(values ...float32) []byte {
	out := make([]byte, 0, 4*len(values))
	for _, v := range values {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
	}
	return out
}

func TestDecodeFloatRoundTrip(t *testing.T) {
	want := []float32{1, 2, 3, -0.5, float32(math.Pi), math.MaxFloat32}
	acc := newAccessor(floatBytes(want...), model.ComponentTypeFloat, model.StructureTypeVec3, 2)

	got, err := Decode(acc)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if len(got) != acc.TotalComponentCount() {
		t.Fatalf("len = %d, want %d", len(got), acc.TotalComponentCount())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("component %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDecodeLengthMatchesComponentCount(t *testing.T) {
	tests := []struct {
		ct    model.ComponentType
		st    model.StructureType
		count int
	}{
		{model.ComponentTypeUnsignedByte, model.StructureTypeScalar, 7},
		{model.ComponentTypeShort, model.StructureTypeVec2, 5},
		{model.ComponentTypeUnsignedShort, model.StructureTypeVec4, 3},
		{model.ComponentTypeUnsignedInt, model.StructureTypeMat3, 2},
		{model.ComponentTypeFloat, model.StructureTypeMat4, 1},
		{model.ComponentTypeFloat, model.StructureTypeVec3, 0},
	}
	for _, tt := range tests {
		size := tt.ct.Size() * tt.st.ComponentCount() * tt.count
		acc := newAccessor(make([]byte, size), tt.ct, tt.st, tt.count)
		got, err := Decode(acc)
		if err != nil {
			t.Fatalf("Decode(%v %v x%d) error: %v", tt.ct, tt.st, tt.count, err)
		}
		if len(got) != tt.st.ComponentCount()*tt.count {
			t.Errorf("Decode(%v %v x%d) len = %d", tt.ct, tt.st, tt.count, len(got))
		}
	}
}

func TestDecodeNormalized(t *testing.T) {
	tests := []struct {
		name string
		ct   model.ComponentType
		data []byte
		want []float32
	}{
		{"ubyte", model.ComponentTypeUnsignedByte, []byte{0, 255, 51}, []float32{0, 1, 0.2}},
		{"byte", model.ComponentTypeByte, []byte{0x80, 0x81, 0x7F}, []float32{-1, -1, 1}},
		{"ushort", model.ComponentTypeUnsignedShort, []byte{0, 0, 0xFF, 0xFF, 0, 0}, []float32{0, 1, 0}},
		{"short", model.ComponentTypeShort, []byte{0x00, 0x80, 0x01, 0x80, 0xFF, 0x7F}, []float32{-1, -1, 1}},
		{"uint", model.ComponentTypeUnsignedInt, []byte{0, 0, 0, 0, 0xFF, 0xFF, 0xFF, 0xFF, 0, 0, 0, 0}, []float32{0, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := newAccessor(tt.data, tt.ct, model.StructureTypeScalar, 3)
			acc.Normalized = true
			got, err := Decode(acc)
			if err != nil {
				t.Fatalf("Decode error: %v", err)
			}
			for i, v := range got {
				if v < -1 || v > 1 {
					t.Errorf("component %d = %v is outside [-1, 1]", i, v)
				}
				if math.Abs(float64(v-tt.want[i])) > 1e-6 {
					t.Errorf("component %d = %v, want %v", i, v, tt.want[i])
				}
			}
		})
	}
}

func TestDecodeUnnormalizedIntegersWiden(t *testing.T) {
	acc := newAccessor([]byte{0xFE, 0xFF, 0x10, 0x00}, model.ComponentTypeShort, model.StructureTypeScalar, 2)
	got, err := Decode(acc)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if got[0] != -2 || got[1] != 16 {
		t.Errorf("Decode = %v, want [-2 16]", got)
	}
}

func TestNormalizeComponentLeavesFloats(t *testing.T) {
	if got := NormalizeComponent(model.ComponentTypeFloat, 42.5); got != 42.5 {
		t.Errorf("NormalizeComponent(FLOAT, 42.5) = %v", got)
	}
}

func TestDecodeInterleavedMatchesPacked(t *testing.T) {
	positions := []float32{1, 2, 3, 4, 5, 6, 7, 8, 9}
	packed := newAccessor(floatBytes(positions...), model.ComponentTypeFloat, model.StructureTypeVec3, 3)

	// Interleave each VEC3 position with a VEC2 of filler, 20 bytes per vertex.
	var interleaved []byte
	for v := 0; v < 3; v++ {
		interleaved = append(interleaved, floatBytes(positions[v*3:v*3+3]...)...)
		interleaved = append(interleaved, floatBytes(-1, -1)...)
	}
	strided := newAccessor(interleaved, model.ComponentTypeFloat, model.StructureTypeVec3, 3)
	strided.BufferView.ByteStride = 20

	want, err := Decode(packed)
	if err != nil {
		t.Fatalf("packed Decode error: %v", err)
	}
	got, err := Decode(strided)
	if err != nil {
		t.Fatalf("strided Decode error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("strided len %d != packed len %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("component %d: strided %v != packed %v", i, got[i], want[i])
		}
	}
}

func TestDecodeHonorsOffsets(t *testing.T) {
	data := append([]byte{0xAA, 0xAA, 0xAA, 0xAA, 0xBB, 0xBB, 0xBB, 0xBB}, floatBytes(7, 8)...)
	acc := newAccessor(data, model.ComponentTypeFloat, model.StructureTypeVec2, 1)
	acc.BufferView.ByteOffset = 4
	acc.ByteOffset = 4

	got, err := Decode(acc)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if got[0] != 7 || got[1] != 8 {
		t.Errorf("Decode = %v, want [7 8]", got)
	}
}

func TestDecodeBufferOverrun(t *testing.T) {
	acc := newAccessor(floatBytes(1, 2, 3, 4, 5), model.ComponentTypeFloat, model.StructureTypeVec3, 2)
	if _, err := Decode(acc); !errors.Is(err, common.ErrBufferOverrun) {
		t.Errorf("Decode error = %v, want ErrBufferOverrun", err)
	}

	idx := newAccessor([]byte{1, 0, 2}, model.ComponentTypeUnsignedShort, model.StructureTypeScalar, 2)
	if _, err := DecodeIndices(idx); !errors.Is(err, common.ErrBufferOverrun) {
		t.Errorf("DecodeIndices error = %v, want ErrBufferOverrun", err)
	}
}

func TestDecodeRejectsOversizedSpans(t *testing.T) {
	viewOffset := newAccessor(floatBytes(1), model.ComponentTypeFloat, model.StructureTypeScalar, 1)
	viewOffset.BufferView.ByteOffset = math.MaxInt

	byteOffset := newAccessor(floatBytes(1), model.ComponentTypeFloat, model.StructureTypeScalar, 1)
	byteOffset.ByteOffset = math.MaxInt - 2

	decode := func(acc *model.Accessor) error { _, err := Decode(acc); return err }
	indices := func(acc *model.Accessor) error { _, err := DecodeIndices(acc); return err }
	matrices := func(acc *model.Accessor) error { _, err := DecodeMat4(acc); return err }

	tests := []struct {
		name   string
		acc    *model.Accessor
		decode func(*model.Accessor) error
	}{
		{"count wraps span", newAccessor(floatBytes(1, 2, 3), model.ComponentTypeFloat, model.StructureTypeScalar, 1<<62), decode},
		{"matrix count wraps span", newAccessor(floatBytes(1, 2, 3), model.ComponentTypeFloat, model.StructureTypeMat4, 1<<58), matrices},
		{"index count wraps span", newAccessor([]byte{0, 1, 2, 3}, model.ComponentTypeUnsignedShort, model.StructureTypeScalar, 1<<62), indices},
		{"view offset past buffer", viewOffset, decode},
		{"accessor offset past buffer", byteOffset, decode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.decode(tt.acc); !errors.Is(err, common.ErrBufferOverrun) {
				t.Errorf("error = %v, want ErrBufferOverrun", err)
			}
		})
	}
}

func TestDecodeInvalidAccessor(t *testing.T) {
	tests := []struct {
		name string
		acc  *model.Accessor
	}{
		{"nil accessor", nil},
		{"no view", &model.Accessor{ComponentType: model.ComponentTypeFloat, StructureType: model.StructureTypeScalar, Count: 1}},
		{"no buffer", &model.Accessor{BufferView: &model.BufferView{}, ComponentType: model.ComponentTypeFloat, StructureType: model.StructureTypeScalar, Count: 1}},
		{"unknown component", newAccessor(make([]byte, 4), 0, model.StructureTypeScalar, 1)},
		{"unknown structure", newAccessor(make([]byte, 4), model.ComponentTypeFloat, 0, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.acc); !errors.Is(err, common.ErrInvalidAccessor) {
				t.Errorf("Decode error = %v, want ErrInvalidAccessor", err)
			}
		})
	}
}

func TestDecodeIndices(t *testing.T) {
	u8 := newAccessor([]byte{0, 1, 2}, model.ComponentTypeUnsignedByte, model.StructureTypeScalar, 3)
	u16 := newAccessor([]byte{0, 0, 1, 0, 0xFF, 0xFF}, model.ComponentTypeUnsignedShort, model.StructureTypeScalar, 3)
	u32 := newAccessor([]byte{0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 1, 0}, model.ComponentTypeUnsignedInt, model.StructureTypeScalar, 3)

	tests := []struct {
		name string
		acc  *model.Accessor
		want []uint32
	}{
		{"u8", u8, []uint32{0, 1, 2}},
		{"u16", u16, []uint32{0, 1, 65535}},
		{"u32", u32, []uint32{0, 1, 65536}},
	}
	for _, tt := range tests {
		got, err := DecodeIndices(tt.acc)
		if err != nil {
			t.Fatalf("%s: DecodeIndices error: %v", tt.name, err)
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("%s: index %d = %d, want %d", tt.name, i, got[i], tt.want[i])
			}
		}
	}

	strided := newAccessor([]byte{3, 0, 0, 0, 4, 0, 0, 0}, model.ComponentTypeUnsignedByte, model.StructureTypeScalar, 2)
	strided.BufferView.ByteStride = 4
	if got, err := DecodeIndices(strided); err != nil || got[0] != 3 || got[1] != 4 {
		t.Errorf("strided DecodeIndices = %v, %v; want [3 4]", got, err)
	}
}

func TestDecodeIndicesRejectsSignedAndFloat(t *testing.T) {
	for _, ct := range []model.ComponentType{model.ComponentTypeByte, model.ComponentTypeShort, model.ComponentTypeFloat} {
		acc := newAccessor(make([]byte, 16), ct, model.StructureTypeScalar, 2)
		if _, err := DecodeIndices(acc); !errors.Is(err, common.ErrUnsupportedFormat) {
			t.Errorf("DecodeIndices(%v) error = %v, want ErrUnsupportedFormat", ct, err)
		}
	}
}

func TestDecodeMat4(t *testing.T) {
	first := mgl32.Translate3D(1, 2, 3)
	second := mgl32.Scale3D(2, 2, 2)
	data := append(floatBytes(first[:]...), floatBytes(second[:]...)...)
	acc := newAccessor(data, model.ComponentTypeFloat, model.StructureTypeMat4, 2)

	got, err := DecodeMat4(acc)
	if err != nil {
		t.Fatalf("DecodeMat4 error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("DecodeMat4 returned %d matrices, want 2", len(got))
	}
	if got[0] != first || got[1] != second {
		t.Errorf("DecodeMat4 = %v, want [%v %v]", got, first, second)
	}

	vec := newAccessor(floatBytes(1, 2, 3), model.ComponentTypeFloat, model.StructureTypeVec3, 1)
	if _, err := DecodeMat4(vec); !errors.Is(err, common.ErrUnsupportedFormat) {
		t.Errorf("DecodeMat4(VEC3) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestBounds(t *testing.T) {
	acc := newAccessor(floatBytes(1, -2, 3, -4, 5, 0, 2, 2, 2), model.ComponentTypeFloat, model.StructureTypeVec3, 3)
	bmin, bmax, err := Bounds(acc)
	if err != nil {
		t.Fatalf("Bounds error: %v", err)
	}
	if bmin != (mgl32.Vec3{-4, -2, 0}) || bmax != (mgl32.Vec3{2, 5, 3}) {
		t.Errorf("Bounds = %v, %v", bmin, bmax)
	}

	scalar := newAccessor(floatBytes(1), model.ComponentTypeFloat, model.StructureTypeScalar, 1)
	if _, _, err := Bounds(scalar); !errors.Is(err, common.ErrUnsupportedFormat) {
		t.Errorf("Bounds(SCALAR) error = %v, want ErrUnsupportedFormat", err)
	}
}
