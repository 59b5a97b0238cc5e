package vaire

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

// stubChooser always returns the same pick, clamped to the tie count.
type stubChooser struct {
	pick int
}

func (s stubChooser) Choice(n int) int {
	return s.pick % n
}

// frameFromRows builds a frame out of literal pixel rows.
func frameFromRows(rows [][]uint8) *Frame {
	f := NewFrame(len(rows[0]), len(rows))
	for y, row := range rows {
		copy(f.Row(y), row)
	}
	return f
}

func TestCarver_SingleSeamDistinctEnergies(t *testing.T) {
	assert := assert.New(t)

	// A bright vertical line on column 1; the cheapest seam is the zero
	// gradient column 3, which no neighboring difference reaches.
	frame := frameFromRows([][]uint8{
		{0, 10, 0, 0},
		{0, 10, 0, 0},
		{0, 10, 0, 0},
	})

	c := NewCarver(frame.Width, frame.Height)
	c.ComputeEnergy(frame)

	for y := 0; y < frame.Height; y++ {
		assert.Greater(c.energy[y*frame.Width+1], c.energy[y*frame.Width+3])
	}

	c.ComputeCosts()
	seam := c.FindLowestEnergySeam(stubChooser{})

	assert.Equal([]int{3, 3, 3}, seam)

	out := c.RemoveSeam(frame, seam)
	assert.Equal(3, out.Width)
	assert.Equal(frame.Height, out.Height)
}

func TestCarver_ConstantFrameTies(t *testing.T) {
	assert := assert.New(t)

	frame := NewFrame(4, 4)
	c := NewCarver(frame.Width, frame.Height)
	c.ComputeEnergy(frame)
	c.ComputeCosts()

	// Every accumulated seam cost ties at zero, the start column comes from
	// the injected chooser.
	for _, cost := range c.SeamCosts() {
		assert.Equal(int32(0), cost)
	}

	seam := c.FindLowestEnergySeam(stubChooser{pick: 2})
	assert.Equal([]int{2, 2, 2, 2}, seam)

	out := c.RemoveSeam(frame, seam)
	assert.Equal(3, out.Width)
	for _, v := range out.Pix {
		assert.Equal(uint8(0), v)
	}
}

func TestCarver_DeterministicOnTieFreeEnergy(t *testing.T) {
	frame := frameFromRows([][]uint8{
		{9, 3, 7, 1},
		{2, 8, 4, 6},
		{5, 1, 9, 3},
		{7, 6, 2, 8},
	})

	carve := func() []int {
		c := NewCarver(frame.Width, frame.Height)
		c.ComputeEnergy(frame)
		c.ComputeCosts()
		return c.FindLowestEnergySeam(stubChooser{})
	}

	first := carve()
	second := carve()

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("two runs over the same energy field disagree (-first +second):\n%s", diff)
	}
}

func TestCarver_SeamIsConnected(t *testing.T) {
	assert := assert.New(t)

	// A noisy deterministic frame; every produced seam must stay inside the
	// frame and move at most one column between rows.
	frame := NewFrame(16, 12)
	v := uint8(7)
	for i := range frame.Pix {
		v = v*31 + 11
		frame.Pix[i] = v
	}

	work := frame
	for i := 0; i < 8; i++ {
		c := NewCarver(work.Width, work.Height)
		c.ComputeEnergy(work)
		c.ComputeCosts()
		seam := c.FindLowestEnergySeam(stubChooser{})

		assert.Len(seam, work.Height)
		for y, x := range seam {
			assert.GreaterOrEqual(x, 0)
			assert.Less(x, work.Width)
			if y > 0 {
				dx := seam[y] - seam[y-1]
				assert.LessOrEqual(dx*dx, 1)
			}
		}
		work = c.RemoveSeam(work, seam)
	}
	assert.Equal(8, work.Width)
}

func TestCarver_CenterPreferredTieBreak(t *testing.T) {
	assert := assert.New(t)

	// A flat frame ties the three way minimum on every cell; the parent of
	// every inner cell must stay the center column.
	frame := NewFrame(5, 3)
	c := NewCarver(frame.Width, frame.Height)
	c.ComputeEnergy(frame)
	c.ComputeCosts()

	for y := 1; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			assert.Equal(int32(x), c.parents[y*frame.Width+x])
		}
	}
}

func TestCarver_RemoveSeamShiftsPixels(t *testing.T) {
	assert := assert.New(t)

	frame := frameFromRows([][]uint8{
		{1, 2, 3},
		{4, 5, 6},
	})
	c := NewCarver(frame.Width, frame.Height)
	out := c.RemoveSeam(frame, []int{1, 0})

	assert.Equal([]uint8{1, 3}, out.Row(0))
	assert.Equal([]uint8{5, 6}, out.Row(1))
}

func TestCarver_CarveDownToSingleColumn(t *testing.T) {
	assert := assert.New(t)

	// P equal to width-1 leaves a one pixel wide frame and must never touch
	// a width zero state.
	frame := frameFromRows([][]uint8{
		{12, 200, 43},
		{99, 5, 77},
	})

	work := frame
	for i := 0; i < 2; i++ {
		c := NewCarver(work.Width, work.Height)
		c.ComputeEnergy(work)
		c.ComputeCosts()
		seam := c.FindLowestEnergySeam(stubChooser{})
		work = c.RemoveSeam(work, seam)
	}

	assert.Equal(1, work.Width)
	assert.Equal(2, work.Height)
}
