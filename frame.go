package vaire

import (
	"fmt"
	"image"
	"image/color"
)

// Frame is a single video frame stored as a row-major 8 bit luminance matrix.
// The height of a frame is fixed for the lifetime of a video, the width
// shrinks by one pixel on every carving iteration.
type Frame struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewFrame returns an initialized frame of the requested dimensions.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// At returns the luminance value at column x, row y.
func (f *Frame) At(x, y int) uint8 {
	return f.Pix[y*f.Width+x]
}

// Set replaces the luminance value at column x, row y.
func (f *Frame) Set(x, y int, v uint8) {
	f.Pix[y*f.Width+x] = v
}

// Row returns the underlying pixel slice of row y.
func (f *Frame) Row(y int) []uint8 {
	return f.Pix[y*f.Width : (y+1)*f.Width]
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	dst := NewFrame(f.Width, f.Height)
	copy(dst.Pix, f.Pix)
	return dst
}

// Bounds returns the frame rectangle with the min point at (0, 0).
func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

// ToImage converts the frame to a grayscale image.
func (f *Frame) ToImage() *image.Gray {
	dst := image.NewGray(f.Bounds())
	for y := 0; y < f.Height; y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+f.Width], f.Row(y))
	}
	return dst
}

// ToNRGBA converts the frame to an NRGBA image, replicating the luminance
// value over the color channels. It's used by the preview window.
func (f *Frame) ToNRGBA() *image.NRGBA {
	dst := image.NewNRGBA(f.Bounds())
	for y := 0; y < f.Height; y++ {
		di := dst.PixOffset(0, y)
		for _, v := range f.Row(y) {
			dst.Pix[di+0] = v
			dst.Pix[di+1] = v
			dst.Pix[di+2] = v
			dst.Pix[di+3] = 0xff
			di += 4
		}
	}
	return dst
}

// FrameFromImage converts any image type to a luminance frame with the
// min point at (0, 0). Grayscale sources are copied row by row, color
// sources are converted using the Rec. 601 luma coefficients.
func FrameFromImage(img image.Image) *Frame {
	bounds := img.Bounds()
	dx, dy := bounds.Dx(), bounds.Dy()
	dst := NewFrame(dx, dy)

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < dy; y++ {
			si := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(dst.Row(y), src.Pix[si:si+dx])
		}
	case *image.NRGBA:
		for y := 0; y < dy; y++ {
			si := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			row := dst.Row(y)
			for x := 0; x < dx; x++ {
				r := float64(src.Pix[si+0])
				g := float64(src.Pix[si+1])
				b := float64(src.Pix[si+2])
				row[x] = uint8(0.299*r + 0.587*g + 0.114*b)
				si += 4
			}
		}
	case *image.YCbCr:
		for y := 0; y < dy; y++ {
			row := dst.Row(y)
			for x := 0; x < dx; x++ {
				siy := src.YOffset(bounds.Min.X+x, bounds.Min.Y+y)
				row[x] = src.Y[siy]
			}
		}
	default:
		for y := 0; y < dy; y++ {
			row := dst.Row(y)
			for x := 0; x < dx; x++ {
				c := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
				row[x] = c.Y
			}
		}
	}
	return dst
}

// checkShape verifies a decoded frame against the declared stream geometry.
func (f *Frame) checkShape(width, height int) error {
	if f.Height != height || f.Width != width {
		return fmt.Errorf("frame shape %dx%d does not match the declared %dx%d",
			f.Width, f.Height, width, height)
	}
	return nil
}
