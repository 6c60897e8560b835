package rmeconv

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/ftrvxmtrx/tga"
)

// resultExtension is the format every produced texture is written in.
const resultExtension = ".png"

// acceptedExtensions are the texture formats the legacy library was authored
// in, in albedo probe order.
var acceptedExtensions = []string{".png", ".tga"}

// AcceptedExtension reports whether ext (dot included) is a readable texture
// format.
func AcceptedExtension(ext string) bool {
	for _, e := range acceptedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// DecodeFile reads a PNG or TGA texture into a normalized image.
func DecodeFile(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var src image.Image
	switch ext := filepath.Ext(path); ext {
	case ".png":
		src, err = png.Decode(f)
	case ".tga":
		src, err = tga.Decode(f)
	default:
		return nil, fmt.Errorf("rmeconv: unsupported texture extension %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return fromImage(src), nil
}

// EncodeFile writes a normalized image as an 8-bit PNG, clamping every
// channel to [0, 1] first.
func EncodeFile(path string, m *Image) error {
	var img image.Image
	if m.C == 1 {
		img = m.toGray()
	} else {
		img = m.toNRGBA()
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
