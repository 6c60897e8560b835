package rmeconv

import "fmt"

// PackORM rearranges an RME texture into the glTF occlusion-roughness-metallic
// layout. Occlusion is constant 1 (fully unoccluded), roughness and metallic
// come from the first two source channels with an affine remap applied, and
// alpha is constant 1.
func PackORM(rme *Image, roughnessBias, roughnessMult, metallicBias, metallicMult float32) (*Image, error) {
	if rme.C < 2 {
		return nil, fmt.Errorf("%w: RME has %d, need at least 2", ErrChannelCount, rme.C)
	}

	out := NewImage(rme.H, rme.W, 4)
	for y := 0; y < rme.H; y++ {
		for x := 0; x < rme.W; x++ {
			si := (y*rme.W + x) * rme.C
			di := (y*rme.W + x) * 4

			out.Pix[di] = 1.0
			out.Pix[di+1] = clamp01(roughnessBias + roughnessMult*rme.Pix[si])
			out.Pix[di+2] = clamp01(metallicBias + metallicMult*rme.Pix[si+1])
			out.Pix[di+3] = 1.0
		}
	}

	return out, nil
}
