package vaire

import (
	"math"
)

// Carver is the per-iteration seam carving engine. It holds the energy field
// of the current working frame, the accumulated seam costs and the parent
// table used to backtrack the cheapest seam.
type Carver struct {
	Width  int
	Height int

	// energy holds the per-pixel energy values, widened to int32 so the
	// temporal bias and the face boost can be added without overflow.
	energy []int32

	// costs holds the accumulated minimum seam cost of every cell, costs of
	// row 0 are the raw energy values.
	costs []int32

	// parents records for every cell below row 0 the column on the row above
	// which contributed the minimum accumulated cost.
	parents []int32
}

// NewCarver returns an initialized Carver for the given working frame size.
func NewCarver(width, height int) *Carver {
	return &Carver{
		Width:   width,
		Height:  height,
		energy:  make([]int32, width*height),
		costs:   make([]int32, width*height),
		parents: make([]int32, width*height),
	}
}

// ComputeCosts runs the accumulation pass over the energy field. Each cell
// sums its own energy with the cheapest of the three connected cells on the
// row above. Ties are broken deterministically: the center column wins over
// the left one, the left one over the right one. The randomness required to
// avoid seam bunching enters later, at the last row selection.
func (c *Carver) ComputeCosts() {
	w, h := c.Width, c.Height
	copy(c.costs[:w], c.energy[:w])

	for y := 1; y < h; y++ {
		row := y * w
		prev := row - w
		for x := 0; x < w; x++ {
			best := c.costs[prev+x]
			col := x
			if x > 0 && c.costs[prev+x-1] < best {
				best = c.costs[prev+x-1]
				col = x - 1
			}
			if x < w-1 && c.costs[prev+x+1] < best {
				best = c.costs[prev+x+1]
				col = x + 1
			}
			c.costs[row+x] = c.energy[row+x] + best
			c.parents[row+x] = int32(col)
		}
	}
}

// SeamCosts returns the accumulated cost of every seam ending on the last
// row, indexed by its last row column.
func (c *Carver) SeamCosts() []int32 {
	return c.costs[(c.Height-1)*c.Width:]
}

// FindLowestEnergySeam picks the cheapest seam out of the accumulated costs
// and walks the parent table to materialize it. When several last row columns
// share the minimum cost the start column is chosen uniformly at random
// through the injected chooser. A deterministic pick here would bunch the
// seams on flat regions and, through the temporal bias, drag the following
// frames into the same rut.
func (c *Carver) FindLowestEnergySeam(chooser Chooser) []int {
	w, h := c.Width, c.Height
	last := c.SeamCosts()

	min := int32(math.MaxInt32)
	for x := 0; x < w; x++ {
		if last[x] < min {
			min = last[x]
		}
	}

	var ties []int
	for x := 0; x < w; x++ {
		if last[x] == min {
			ties = append(ties, x)
		}
	}

	col := ties[0]
	if len(ties) > 1 {
		col = ties[chooser.Choice(len(ties))]
	}

	// The backtrack walk is strictly sequential in the frame height and is
	// kept on a plain scalar loop.
	seam := make([]int, h)
	seam[h-1] = col
	for y := h - 1; y > 0; y-- {
		col = int(c.parents[y*w+col])
		seam[y-1] = col
	}
	return seam
}

// RemoveSeam deletes the seam from the frame, producing a new frame exactly
// one column narrower. The pixels right of the seam shift left, no blending
// is applied at the cut.
func (c *Carver) RemoveSeam(f *Frame, seam []int) *Frame {
	dst := NewFrame(f.Width-1, f.Height)
	for y := 0; y < f.Height; y++ {
		src := f.Row(y)
		out := dst.Row(y)
		x := seam[y]
		copy(out[:x], src[:x])
		copy(out[x:], src[x+1:])
	}
	return dst
}
