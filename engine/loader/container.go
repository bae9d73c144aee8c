package loader

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-gltf/common"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Container is a demultiplexed glTF input: the JSON document text plus the optional binary chunk.
// Header fields are only populated for GLB input; they are read but not enforced.
type Container struct {
	// Version is the GLB header version (bytes 4..7).
	Version uint32

	// Length is the declared total GLB length (bytes 8..11).
	Length uint32

	// JSONChunkType and BinChunkType are the declared chunk type tags. BinChunkType is 0 when there is no second chunk.
	JSONChunkType uint32
	BinChunkType  uint32

	// JSON is the document text.
	JSON []byte

	// Bin is an owned copy of the binary chunk payload, nil when absent.
	Bin []byte
}

// Demux splits raw file bytes into JSON text and an optional binary chunk according to the file extension.
// ".gltf" input is returned whole (minus a UTF-8 BOM) with no binary chunk; ".glb" input is parsed with ParseGLB.
// The extension comparison is case-insensitive.
//
// Parameters:
//   - data: the raw file contents
//   - ext: the file extension including the dot, e.g. ".glb"
//
// Returns:
//   - []byte: the JSON document text
//   - []byte: the binary chunk, or nil
//   - error: wraps common.ErrUnsupportedFormat for other extensions, common.ErrCorruptContainer for malformed GLB input
func Demux(data []byte, ext string) ([]byte, []byte, error) {
	c, err := demux(data, ext)
	if err != nil {
		return nil, nil, err
	}
	return c.JSON, c.Bin, nil
}

// ParseGLB parses a GLB container.
// The input must hold a 12-byte header, a chunk-0 header and the full chunk-0 payload. If bytes remain
// after chunk 0, they must hold a chunk-1 header and its full payload.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification
//
// Parameters:
//   - data: the raw GLB bytes
//
// Returns:
//   - *Container: the parsed container
//   - error: wraps common.ErrCorruptContainer on any structural violation
func ParseGLB(data []byte) (*Container, error) {
	const jsonStart = gltfGLBHeaderSize + gltfGLBChunkHeaderSize

	if len(data) < jsonStart {
		return nil, fmt.Errorf("GLB is %d bytes, shorter than the %d byte header: %w", len(data), jsonStart, common.ErrCorruptContainer)
	}
	if magic := binary.LittleEndian.Uint32(data[0:4]); magic != gltfGLBMagic {
		return nil, fmt.Errorf("invalid GLB magic 0x%08X: %w", magic, common.ErrCorruptContainer)
	}

	c := &Container{
		Version:       binary.LittleEndian.Uint32(data[4:8]),
		Length:        binary.LittleEndian.Uint32(data[8:12]),
		JSONChunkType: binary.LittleEndian.Uint32(data[16:20]),
	}

	jsonLen := int(binary.LittleEndian.Uint32(data[12:16]))
	jsonEnd := jsonStart + jsonLen
	if jsonLen < 0 || jsonEnd > len(data) {
		return nil, fmt.Errorf("JSON chunk of %d bytes exceeds GLB length %d: %w", jsonLen, len(data), common.ErrCorruptContainer)
	}
	c.JSON = data[jsonStart:jsonEnd]

	if len(data) == jsonEnd {
		return c, nil
	}

	binHeader := jsonEnd + gltfGLBChunkHeaderSize
	if binHeader > len(data) {
		return nil, fmt.Errorf("truncated chunk header at byte %d: %w", jsonEnd, common.ErrCorruptContainer)
	}
	binLen := int(binary.LittleEndian.Uint32(data[jsonEnd : jsonEnd+4]))
	c.BinChunkType = binary.LittleEndian.Uint32(data[jsonEnd+4 : binHeader])
	if binLen < 0 || binHeader+binLen > len(data) {
		return nil, fmt.Errorf("binary chunk of %d bytes exceeds GLB length %d: %w", binLen, len(data), common.ErrCorruptContainer)
	}
	c.Bin = bytes.Clone(data[binHeader : binHeader+binLen])

	return c, nil
}

// demux is Demux returning the full Container.
func demux(data []byte, ext string) (*Container, error) {
	switch strings.ToLower(ext) {
	case ".gltf":
		return &Container{JSON: bytes.TrimPrefix(data, utf8BOM)}, nil
	case ".glb":
		return ParseGLB(data)
	default:
		return nil, fmt.Errorf("file extension %q: %w", ext, common.ErrUnsupportedFormat)
	}
}
