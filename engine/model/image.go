package model

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/Carmen-Shannon/oxy-gltf/common"
)

// Bytes returns the encoded image bytes, from the bufferView, the decoded data: URI or the external file.
//
// Returns:
//   - []byte: the encoded PNG/JPEG bytes
//   - error: wraps common.ErrMissingField if the image has no source, common.ErrNotFound if the file cannot be read
func (img *Image) Bytes() ([]byte, error) {
	switch {
	case img == nil:
		return nil, fmt.Errorf("image is nil: %w", common.ErrInvalidAccessor)
	case img.BufferView != nil:
		return img.BufferView.Bytes()
	case len(img.Data) > 0:
		return img.Data, nil
	case img.Path != "":
		data, err := os.ReadFile(img.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read image file %s: %w: %w", img.Path, common.ErrNotFound, err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("image %d has neither data nor path: %w", img.Index, common.ErrMissingField)
	}
}

// Decode decodes the image to raw RGBA pixel data.
// Supports PNG and JPEG formats.
// Reference: https://pkg.go.dev/image
//
// Returns:
//   - []byte: raw RGBA pixel data (4 bytes per pixel, row-major order)
//   - uint32: image width in pixels
//   - uint32: image height in pixels
//   - error: error if reading or decoding fails
func (img *Image) Decode() ([]byte, uint32, uint32, error) {
	data, err := img.Bytes()
	if err != nil {
		return nil, 0, 0, err
	}

	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to decode image %d: %w", img.Index, err)
	}

	bounds := decoded.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), decoded, bounds.Min, draw.Src)

	return rgba.Pix, uint32(bounds.Dx()), uint32(bounds.Dy()), nil
}
