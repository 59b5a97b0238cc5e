package imgseq

import (
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"

	"github.com/esimov/vaire"
)

// writeStill saves a small gradient image under the given name.
func writeStill(t *testing.T, dir, name string, width, height int) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(x * 255 / width)
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	if err := imaging.Save(img, filepath.Join(dir, name)); err != nil {
		t.Fatalf("unable to save the test still: %v", err)
	}
}

func TestReader_OrdersFramesByName(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	writeStill(t, dir, "b.png", 6, 4)
	writeStill(t, dir, "a.jpg", 6, 4)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0644); err != nil {
		t.Fatal(err)
	}

	r, err := NewReader(dir)
	assert.NoError(err)

	meta := r.Metadata()
	assert.Equal(2, meta.FrameCount, "unsupported files are skipped")
	assert.Equal(6, meta.Width)
	assert.Equal(4, meta.Height)
	assert.Equal("a.jpg", r.Name(0))
	assert.Equal("b.png", r.Name(1))

	for i := 0; i < 2; i++ {
		frame, err := r.Next()
		assert.NoError(err)
		assert.Equal(6, frame.Width)
		assert.Equal(4, frame.Height)
	}
	_, err = r.Next()
	assert.Equal(io.EOF, err)
}

func TestReader_EmptyDirectoryYieldsNoFrames(t *testing.T) {
	r, err := NewReader(t.TempDir())
	assert.NoError(t, err)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestWriter_KeepsTheSourceNames(t *testing.T) {
	assert := assert.New(t)

	src := t.TempDir()
	writeStill(t, src, "first.png", 5, 3)
	writeStill(t, src, "second.bmp", 5, 3)

	r, err := NewReader(src)
	assert.NoError(err)

	dst := filepath.Join(t.TempDir(), "out")
	w, err := NewWriter(dst, r)
	assert.NoError(err)

	for {
		frame, err := r.Next()
		if err == io.EOF {
			break
		}
		assert.NoError(err)
		assert.NoError(w.WriteFrame(frame))
	}
	assert.NoError(w.Close())

	for _, name := range []string{"first.png", "second.bmp"} {
		if _, err := os.Stat(filepath.Join(dst, name)); err != nil {
			t.Errorf("missing output still %s: %v", name, err)
		}
	}
}

func TestWriter_NumbersFramesWithoutASource(t *testing.T) {
	assert := assert.New(t)

	dst := t.TempDir()
	w, err := NewWriter(dst, nil)
	assert.NoError(err)

	assert.NoError(w.WriteFrame(vaire.NewFrame(4, 4)))
	assert.NoError(w.Close())

	if _, err := os.Stat(filepath.Join(dst, "frame_000000.png")); err != nil {
		t.Errorf("missing numbered output still: %v", err)
	}
}
