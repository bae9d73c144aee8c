package loader

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-gltf/common"
)

// buildGLB assembles a GLB container. A nil bin produces a JSON-only container.
func buildGLB(jsonText, bin []byte) []byte {
	for len(jsonText)%4 != 0 {
		jsonText = append(jsonText, ' ')
	}

	var out []byte
	out = binary.LittleEndian.AppendUint32(out, gltfGLBMagic)
	out = binary.LittleEndian.AppendUint32(out, 2)
	out = binary.LittleEndian.AppendUint32(out, 0) // patched below
	out = binary.LittleEndian.AppendUint32(out, uint32(len(jsonText)))
	out = binary.LittleEndian.AppendUint32(out, gltfGLBChunkJSON)
	out = append(out, jsonText...)
	if bin != nil {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(bin)))
		out = binary.LittleEndian.AppendUint32(out, gltfGLBChunkBIN)
		out = append(out, bin...)
	}
	binary.LittleEndian.PutUint32(out[8:12], uint32(len(out)))
	return out
}

func TestParseGLB(t *testing.T) {
	jsonText := []byte(`{"asset":{"version":"2.0"}}`)
	bin := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	data := buildGLB(jsonText, bin)

	c, err := ParseGLB(data)
	if err != nil {
		t.Fatalf("ParseGLB error: %v", err)
	}
	if c.Version != 2 || int(c.Length) != len(data) {
		t.Errorf("header = version %d length %d, want 2 %d", c.Version, c.Length, len(data))
	}
	if c.JSONChunkType != gltfGLBChunkJSON || c.BinChunkType != gltfGLBChunkBIN {
		t.Errorf("chunk types = 0x%X 0x%X", c.JSONChunkType, c.BinChunkType)
	}
	if !bytes.Equal(bytes.TrimRight(c.JSON, " "), jsonText) {
		t.Errorf("JSON = %q", c.JSON)
	}
	if !bytes.Equal(c.Bin, bin) {
		t.Errorf("Bin = %v, want %v", c.Bin, bin)
	}

	// The binary chunk is a copy, not a view into the input.
	data[len(data)-1] = 0xFF
	if c.Bin[len(c.Bin)-1] != 8 {
		t.Error("binary chunk aliases the input bytes")
	}
}

func TestParseGLBWithoutBinaryChunk(t *testing.T) {
	c, err := ParseGLB(buildGLB([]byte(`{}`), nil))
	if err != nil {
		t.Fatalf("ParseGLB error: %v", err)
	}
	if c.Bin != nil {
		t.Errorf("Bin = %v, want nil", c.Bin)
	}
}

func TestParseGLBRejectsCorruptInput(t *testing.T) {
	valid := buildGLB([]byte(`{"asset":{"version":"2.0"}}`), []byte{0, 0, 0, 0})

	badMagic := bytes.Clone(valid)
	copy(badMagic, "gLTF")

	jsonOverrun := bytes.Clone(valid)
	binary.LittleEndian.PutUint32(jsonOverrun[12:16], uint32(len(valid)))

	jsonOnly := buildGLB([]byte(`{"asset":{"version":"2.0"}}`), nil)
	truncatedBinHeader := append(bytes.Clone(jsonOnly), 4, 0, 0, 0)

	binOverrun := bytes.Clone(valid)
	binary.LittleEndian.PutUint32(binOverrun[len(jsonOnly):], 64)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"shorter than header", valid[:19]},
		{"bad magic", badMagic},
		{"json chunk overrun", jsonOverrun},
		{"truncated binary chunk header", truncatedBinHeader},
		{"binary chunk overrun", binOverrun},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseGLB(tt.data); !errors.Is(err, common.ErrCorruptContainer) {
				t.Errorf("ParseGLB error = %v, want ErrCorruptContainer", err)
			}
		})
	}
}

func TestDemux(t *testing.T) {
	text := []byte(`{"asset":{"version":"2.0"}}`)

	jsonText, bin, err := Demux(append([]byte{0xEF, 0xBB, 0xBF}, text...), ".gltf")
	if err != nil {
		t.Fatalf("Demux(.gltf) error: %v", err)
	}
	if !bytes.Equal(jsonText, text) || bin != nil {
		t.Errorf("Demux(.gltf) = %q, %v", jsonText, bin)
	}

	_, bin, err = Demux(buildGLB(text, []byte{9, 9, 9, 9}), ".GLB")
	if err != nil {
		t.Fatalf("Demux(.GLB) error: %v", err)
	}
	if !bytes.Equal(bin, []byte{9, 9, 9, 9}) {
		t.Errorf("Demux(.GLB) bin = %v", bin)
	}

	for _, ext := range []string{".obj", "", "gltf", ".fbx"} {
		if _, _, err := Demux(text, ext); !errors.Is(err, common.ErrUnsupportedFormat) {
			t.Errorf("Demux(%q) error = %v, want ErrUnsupportedFormat", ext, err)
		}
	}
}
