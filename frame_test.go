package vaire

import (
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestFrame_GrayImageRoundTrip(t *testing.T) {
	f := NewFrame(5, 3)
	for i := range f.Pix {
		f.Pix[i] = uint8(i * 11)
	}

	back := FrameFromImage(f.ToImage())
	if diff := cmp.Diff(f, back); diff != "" {
		t.Errorf("gray round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFrame_FromNRGBAUsesLumaWeights(t *testing.T) {
	assert := assert.New(t)

	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	f := FrameFromImage(img)
	assert.Equal(uint8(76), f.At(0, 0))
	assert.Equal(uint8(255), f.At(1, 0))
}

func TestFrame_FromImageDropsTheMinPointOffset(t *testing.T) {
	src := image.NewGray(image.Rect(2, 3, 6, 5))
	src.SetGray(2, 3, color.Gray{Y: 77})

	f := FrameFromImage(src)
	assert.Equal(t, 4, f.Width)
	assert.Equal(t, 2, f.Height)
	assert.Equal(t, uint8(77), f.At(0, 0))
}

func TestFrame_CloneIsIndependent(t *testing.T) {
	f := NewFrame(3, 3)
	g := f.Clone()
	g.Pix[0] = 200

	assert.Equal(t, uint8(0), f.Pix[0])
}

func TestFrame_ToNRGBAReplicatesLuminance(t *testing.T) {
	f := frameFromRows([][]uint8{{0, 128, 255}})
	img := f.ToNRGBA()

	for x, want := range []uint8{0, 128, 255} {
		c := img.NRGBAAt(x, 0)
		assert.Equal(t, color.NRGBA{R: want, G: want, B: want, A: 255}, c)
	}
}

func TestBlur_UniformFrameStaysUniform(t *testing.T) {
	f := NewFrame(9, 7)
	for i := range f.Pix {
		f.Pix[i] = 140
	}

	out := StackBlur(f, 3)
	for _, v := range out.Pix {
		if v != 140 {
			t.Fatalf("blur changed a uniform frame, got %d", v)
		}
	}
}

func TestBlur_SmoothsAnImpulse(t *testing.T) {
	f := NewFrame(9, 9)
	f.Set(4, 4, 255)

	out := StackBlur(f, 2)
	assert.Less(t, out.At(4, 4), uint8(255), "the impulse must spread out")
	assert.Greater(t, out.At(3, 4), uint8(0), "the neighbors must absorb part of it")
}
