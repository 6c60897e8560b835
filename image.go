package rmeconv

import (
	"image"
	"image/color"
)

// Image is a normalized texture: H×W pixels of C interleaved float32 channels
// in [0, 1]. All arithmetic happens in this form; DecodeFile and EncodeFile
// convert from and to the persisted 8-bit form.
type Image struct {
	H, W, C int
	Pix     []float32
}

// NewImage returns a zero-filled image with the given dimensions.
func NewImage(h, w, c int) *Image {
	return &Image{H: h, W: w, C: c, Pix: make([]float32, h*w*c)}
}

// At returns the value of channel c at (x, y).
func (m *Image) At(x, y, c int) float32 {
	return m.Pix[(y*m.W+x)*m.C+c]
}

// Set assigns channel c at (x, y).
func (m *Image) Set(x, y, c int, v float32) {
	m.Pix[(y*m.W+x)*m.C+c] = v
}

// Area returns the pixel area of the image.
func (m *Image) Area() int { return m.H * m.W }

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// quant8 converts a normalized value to its 8-bit form, clamping first.
// Rounding keeps decode→encode stable: k/255 always maps back to k.
func quant8(v float32) uint8 {
	return uint8(clamp01(v)*255.0 + 0.5)
}

// fromImage normalizes a decoded 8- or 16-bit image. The channel count
// follows the source: grayscale maps to 1 channel, opaque truecolor to 3,
// anything carrying alpha to 4.
func fromImage(src image.Image) *Image {
	b := src.Bounds()
	h, w := b.Dy(), b.Dx()

	switch img := src.(type) {
	case *image.Gray:
		out := NewImage(h, w, 1)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.Pix[y*w+x] = float32(img.GrayAt(b.Min.X+x, b.Min.Y+y).Y) / 255.0
			}
		}
		return out
	case *image.Gray16:
		out := NewImage(h, w, 1)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.Pix[y*w+x] = float32(img.Gray16At(b.Min.X+x, b.Min.Y+y).Y) / 65535.0
			}
		}
		return out
	case *image.RGBA:
		out := NewImage(h, w, 3)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := img.RGBAAt(b.Min.X+x, b.Min.Y+y)
				i := (y*w + x) * 3
				out.Pix[i] = float32(c.R) / 255.0
				out.Pix[i+1] = float32(c.G) / 255.0
				out.Pix[i+2] = float32(c.B) / 255.0
			}
		}
		return out
	case *image.RGBA64:
		out := NewImage(h, w, 3)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := img.RGBA64At(b.Min.X+x, b.Min.Y+y)
				i := (y*w + x) * 3
				out.Pix[i] = float32(c.R) / 65535.0
				out.Pix[i+1] = float32(c.G) / 65535.0
				out.Pix[i+2] = float32(c.B) / 65535.0
			}
		}
		return out
	case *image.NRGBA:
		out := NewImage(h, w, 4)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := img.NRGBAAt(b.Min.X+x, b.Min.Y+y)
				i := (y*w + x) * 4
				out.Pix[i] = float32(c.R) / 255.0
				out.Pix[i+1] = float32(c.G) / 255.0
				out.Pix[i+2] = float32(c.B) / 255.0
				out.Pix[i+3] = float32(c.A) / 255.0
			}
		}
		return out
	case *image.NRGBA64:
		out := NewImage(h, w, 4)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := img.NRGBA64At(b.Min.X+x, b.Min.Y+y)
				i := (y*w + x) * 4
				out.Pix[i] = float32(c.R) / 65535.0
				out.Pix[i+1] = float32(c.G) / 65535.0
				out.Pix[i+2] = float32(c.B) / 65535.0
				out.Pix[i+3] = float32(c.A) / 65535.0
			}
		}
		return out
	default:
		out := NewImage(h, w, 4)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				i := (y*w + x) * 4
				out.Pix[i] = float32(c.R) / 255.0
				out.Pix[i+1] = float32(c.G) / 255.0
				out.Pix[i+2] = float32(c.B) / 255.0
				out.Pix[i+3] = float32(c.A) / 255.0
			}
		}
		return out
	}
}

// toNRGBA renders up to four channels into 8-bit NRGBA. Missing channels
// encode as zero, a missing alpha channel as opaque.
func (m *Image) toNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, m.W, m.H))
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			i := (y*m.W + x) * m.C
			px := color.NRGBA{A: 0xFF}
			if m.C > 0 {
				px.R = quant8(m.Pix[i])
			}
			if m.C > 1 {
				px.G = quant8(m.Pix[i+1])
			}
			if m.C > 2 {
				px.B = quant8(m.Pix[i+2])
			}
			if m.C > 3 {
				px.A = quant8(m.Pix[i+3])
			}
			out.SetNRGBA(x, y, px)
		}
	}
	return out
}

// toGray renders the first channel into 8-bit grayscale.
func (m *Image) toGray() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, m.W, m.H))
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			out.SetGray(x, y, color.Gray{Y: quant8(m.Pix[(y*m.W+x)*m.C])})
		}
	}
	return out
}
