package rmeconv

import (
	"fmt"
	"image"
	"image/color"

	"github.com/nfnt/resize"
)

// Resize resamples m to targetH by targetW with a Lanczos kernel, keeping the
// channel count. Channel values are clamped to [0, 1] by the round trip
// through 8-bit samples.
func Resize(m *Image, targetH, targetW int) (*Image, error) {
	if m.H <= 0 || m.W <= 0 || m.C <= 0 {
		return nil, fmt.Errorf("%w: source %dx%dx%d", ErrDimension, m.H, m.W, m.C)
	}
	if targetH <= 0 || targetW <= 0 {
		return nil, fmt.Errorf("%w: target %dx%d", ErrDimension, targetH, targetW)
	}
	if m.C > 4 {
		return nil, fmt.Errorf("%w: %d channels", ErrChannelCount, m.C)
	}

	if m.C == 1 {
		scaled := resize.Resize(uint(targetW), uint(targetH), m.toGray(), resize.Lanczos3)

		gray, ok := scaled.(*image.Gray)
		if !ok {
			return nil, fmt.Errorf("rmeconv: unexpected resample type %T", scaled)
		}

		out := NewImage(targetH, targetW, 1)
		for y := 0; y < targetH; y++ {
			for x := 0; x < targetW; x++ {
				out.Pix[y*targetW+x] = float32(gray.Pix[y*gray.Stride+x]) / 255.0
			}
		}

		return out, nil
	}

	scaled := resize.Resize(uint(targetW), uint(targetH), m.toNRGBA(), resize.Lanczos3)

	out := NewImage(targetH, targetW, m.C)

	switch img := scaled.(type) {
	case *image.NRGBA:
		// Same-size calls hand the input back untouched.
		for y := 0; y < targetH; y++ {
			for x := 0; x < targetW; x++ {
				si := img.PixOffset(x, y)
				di := (y*targetW + x) * m.C

				for c := 0; c < m.C; c++ {
					out.Pix[di+c] = float32(img.Pix[si+c]) / 255.0
				}
			}
		}
	case *image.RGBA:
		// The kernel paths of nfnt/resize return premultiplied alpha.
		for y := 0; y < targetH; y++ {
			for x := 0; x < targetW; x++ {
				px := color.NRGBAModel.Convert(img.RGBAAt(x, y)).(color.NRGBA)
				ch := [4]uint8{px.R, px.G, px.B, px.A}
				di := (y*targetW + x) * m.C

				for c := 0; c < m.C; c++ {
					out.Pix[di+c] = float32(ch[c]) / 255.0
				}
			}
		}
	default:
		return nil, fmt.Errorf("rmeconv: unexpected resample type %T", scaled)
	}

	return out, nil
}
