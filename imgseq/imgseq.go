// Package imgseq treats a directory of still images as a video: the frames
// are the supported image files of the directory, ordered by file name. The
// carved frames are written back as stills carrying the source file names.
package imgseq

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/esimov/vaire"
	"golang.org/x/image/bmp"
)

// validExtensions lists the supported still formats.
var validExtensions = []string{".jpg", ".jpeg", ".png", ".bmp"}

// defaultFPS is reported for sequences, which carry no timing of their own.
const defaultFPS = 25

// Reader decodes the stills of a directory in file name order.
type Reader struct {
	dir   string
	paths []string
	next  int
	meta  vaire.Metadata
}

// NewReader lists the directory and decodes the first still to establish the
// sequence geometry.
func NewReader(dir string) (*Reader, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to read the source directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if slices.Contains(validExtensions, filepath.Ext(e.Name())) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	r := &Reader{dir: dir, paths: paths}
	r.meta = vaire.Metadata{
		FrameCount: len(paths),
		FPSNum:     defaultFPS,
		FPSDen:     1,
		Format:     "imgseq",
	}
	if len(paths) > 0 {
		img, err := imaging.Open(paths[0])
		if err != nil {
			return nil, fmt.Errorf("unable to decode %s: %w", paths[0], err)
		}
		r.meta.Width = img.Bounds().Dx()
		r.meta.Height = img.Bounds().Dy()
	}
	return r, nil
}

// Metadata returns the sequence geometry, taken from the first still.
func (r *Reader) Metadata() vaire.Metadata {
	return r.meta
}

// Next decodes the next still into a luminance frame, io.EOF once the
// sequence is exhausted.
func (r *Reader) Next() (*vaire.Frame, error) {
	if r.next >= len(r.paths) {
		return nil, io.EOF
	}
	path := r.paths[r.next]
	r.next++

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to decode %s: %w", path, err)
	}
	return vaire.FrameFromImage(imaging.Grayscale(img)), nil
}

// Name returns the base name of the still decoded at the given index.
func (r *Reader) Name(i int) string {
	return filepath.Base(r.paths[i])
}

func (r *Reader) Close() error {
	return nil
}

// Writer stores the carved frames as stills in a destination directory.
// When the writer is paired with a Reader the output stills carry the
// source file names, otherwise they are numbered.
type Writer struct {
	dir   string
	src   *Reader
	index int
}

// NewWriter creates the destination directory when needed. src may be nil.
func NewWriter(dir string, src *Reader) (*Writer, error) {
	if _, err := os.Stat(dir); err != nil {
		if err := os.Mkdir(dir, 0755); err != nil {
			return nil, fmt.Errorf("unable to create the destination directory: %w", err)
		}
	}
	return &Writer{dir: dir, src: src}, nil
}

// WriteFrame encodes one carved frame as a still.
func (w *Writer) WriteFrame(f *vaire.Frame) error {
	name := fmt.Sprintf("frame_%06d.png", w.index)
	if w.src != nil && w.index < len(w.src.paths) {
		name = w.src.Name(w.index)
	}
	w.index++

	path := filepath.Join(w.dir, name)
	img := f.ToImage()

	if filepath.Ext(name) == ".bmp" {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := bmp.Encode(file, img); err != nil {
			file.Close()
			return err
		}
		return file.Close()
	}
	return imaging.Save(img, path)
}

func (w *Writer) Close() error {
	return nil
}
