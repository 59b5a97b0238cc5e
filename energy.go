package vaire

import (
	"image"

	"github.com/esimov/vaire/utils"
)

const (
	// biasWeight is the weight of the temporal bias term, expressed in energy
	// units per column of distance from the previous seam. The value keeps the
	// bias comparable to the gradient levels of typical 8 bit frames.
	biasWeight = 2

	// faceBoost is added to every cell covered by a detected face so the
	// accumulation pass routes the seams around it.
	faceBoost = 1 << 16
)

// ComputeEnergy fills the energy field with the spatial gradient of the
// frame. The energy of a cell is the sum of the absolute differences against
// its four neighbors, with the out of bounds neighbors contributing zero.
// It's used on the first frame and whenever the shot detector fires.
func (c *Carver) ComputeEnergy(f *Frame) {
	w, h := c.Width, c.Height

	for y := 0; y < h; y++ {
		row := f.Row(y)
		var up, down []uint8
		if y > 0 {
			up = f.Row(y - 1)
		}
		if y < h-1 {
			down = f.Row(y + 1)
		}

		base := y * w
		for x := 0; x < w; x++ {
			v := int32(row[x])
			var e int32
			if x > 0 {
				e += abs32(v - int32(row[x-1]))
			}
			if x < w-1 {
				e += abs32(v - int32(row[x+1]))
			}
			if up != nil {
				e += abs32(v - int32(up[x]))
			}
			if down != nil {
				e += abs32(v - int32(down[x]))
			}
			c.energy[base+x] = e
		}
	}
}

// ComputeBiasedEnergy fills the energy field with the spatial gradient plus
// the temporal bias term. Cells far away from the column the previous frame's
// seam went through on the same row get increasingly penalized, which biases
// the accumulation pass toward re-selecting a spatially similar seam and
// keeps consecutive frames free of flicker.
func (c *Carver) ComputeBiasedEnergy(f *Frame, prevSeam []int) {
	c.ComputeEnergy(f)

	w, h := c.Width, c.Height
	for y := 0; y < h; y++ {
		prev := prevSeam[y]
		base := y * w
		for x := 0; x < w; x++ {
			d := utils.Min(utils.Abs(x-prev), w-1)
			c.energy[base+x] += biasWeight * int32(d)
		}
	}
}

// BoostRegions raises the energy of every cell covered by the given
// rectangles. The boost is large enough that a seam crosses a protected
// region only when no path around it exists.
func (c *Carver) BoostRegions(rects []image.Rectangle) {
	bounds := image.Rect(0, 0, c.Width, c.Height)
	for _, r := range rects {
		r = r.Intersect(bounds)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			base := y * c.Width
			for x := r.Min.X; x < r.Max.X; x++ {
				c.energy[base+x] += faceBoost
			}
		}
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
