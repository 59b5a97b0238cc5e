//go:build !withcv
// +build !withcv

package capture

import (
	"errors"

	"github.com/esimov/vaire"
)

// errNoCV is returned by every constructor when the binary was built
// without OpenCV support.
var errNoCV = errors.New("this input requires a build with the withcv tag")

// Reader is a placeholder for builds without OpenCV support.
type Reader struct{}

func NewReader(path string) (*Reader, error) {
	return nil, errNoCV
}

func (r *Reader) Metadata() vaire.Metadata {
	return vaire.Metadata{}
}

func (r *Reader) Next() (*vaire.Frame, error) {
	return nil, errNoCV
}

func (r *Reader) Close() error {
	return nil
}

// Writer is a placeholder for builds without OpenCV support.
type Writer struct{}

func NewWriter(path string, meta vaire.Metadata) (*Writer, error) {
	return nil, errNoCV
}

func (w *Writer) WriteFrame(f *vaire.Frame) error {
	return errNoCV
}

func (w *Writer) Close() error {
	return nil
}
