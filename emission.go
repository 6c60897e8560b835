package rmeconv

import (
	"fmt"
	"math"
)

// Rec. 709 luma coefficients.
const (
	lumR = 0.2126
	lumG = 0.7152
	lumB = 0.0722
)

// emissionTargetPeak is the luminance the brightest emissive pixel is pushed
// toward when normalization is on.
const emissionTargetPeak = 0.1

// ComposeEmission builds an RGBA emission texture by masking albedo color with
// the emission channel of the RME texture. When the two inputs disagree on
// size, the smaller one is resampled to the larger one's dimensions, albedo
// winning ties. With normalize set, dim results are boosted so the brightest
// pixel approaches a usable luminance.
func ComposeEmission(albedo, rme *Image, normalize bool) (*Image, error) {
	if albedo.C < 3 {
		return nil, fmt.Errorf("%w: albedo has %d, need at least 3", ErrChannelCount, albedo.C)
	}
	if rme.C < 3 {
		return nil, fmt.Errorf("%w: RME has %d, need at least 3", ErrChannelCount, rme.C)
	}

	if albedo.H != rme.H || albedo.W != rme.W {
		var err error
		if albedo.Area() >= rme.Area() {
			rme, err = Resize(rme, albedo.H, albedo.W)
		} else {
			albedo, err = Resize(albedo, rme.H, rme.W)
		}
		if err != nil {
			return nil, err
		}
	}

	out := NewImage(albedo.H, albedo.W, 4)
	for y := 0; y < albedo.H; y++ {
		for x := 0; x < albedo.W; x++ {
			ai := (y*albedo.W + x) * albedo.C
			ri := (y*rme.W + x) * rme.C
			di := (y*albedo.W + x) * 4

			mask := clamp01(rme.Pix[ri+2])

			out.Pix[di] = albedo.Pix[ai] * mask
			out.Pix[di+1] = albedo.Pix[ai+1] * mask
			out.Pix[di+2] = albedo.Pix[ai+2] * mask
			out.Pix[di+3] = 1.0
		}
	}

	if normalize {
		normalizeEmission(out)
	}

	return out, nil
}

// normalizeEmission scales the RGB channels of a 4-channel image so that the
// maximum luminance moves toward emissionTargetPeak. All-black images are left
// untouched.
func normalizeEmission(m *Image) {
	var maxLum float32

	for i := 0; i < len(m.Pix); i += 4 {
		lum := lumR*m.Pix[i] + lumG*m.Pix[i+1] + lumB*m.Pix[i+2]
		if lum > maxLum {
			maxLum = lum
		}
	}

	if maxLum <= 0 {
		return
	}

	scale := float32(math.Sqrt(float64(emissionTargetPeak / maxLum)))

	for i := 0; i < len(m.Pix); i += 4 {
		m.Pix[i] = clamp01(m.Pix[i] * scale)
		m.Pix[i+1] = clamp01(m.Pix[i+1] * scale)
		m.Pix[i+2] = clamp01(m.Pix[i+2] * scale)
	}
}
