//go:build withcv
// +build withcv

// Package capture decodes and encodes arbitrary video containers through
// OpenCV. It is only compiled with the withcv build tag, the default build
// stays free of cgo and handles YUV4MPEG2 streams and image sequences.
package capture

import (
	"fmt"
	"io"

	"gocv.io/x/gocv"

	"github.com/esimov/vaire"
)

// Reader wraps a gocv VideoCapture and converts the decoded frames to
// luminance matrices.
type Reader struct {
	vc   *gocv.VideoCapture
	meta vaire.Metadata
	mat  gocv.Mat
	gray gocv.Mat
}

// NewReader opens the source file with OpenCV.
func NewReader(path string) (*Reader, error) {
	vc, err := gocv.OpenVideoCapture(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open the video source: %w", err)
	}

	fps := vc.Get(gocv.VideoCaptureFPS)
	meta := vaire.Metadata{
		Width:      int(vc.Get(gocv.VideoCaptureFrameWidth)),
		Height:     int(vc.Get(gocv.VideoCaptureFrameHeight)),
		FrameCount: int(vc.Get(gocv.VideoCaptureFrameCount)),
		FPSNum:     int(fps * 1000),
		FPSDen:     1000,
		Format:     "opencv",
	}
	if meta.FrameCount < 1 {
		meta.FrameCount = -1
	}

	return &Reader{
		vc:   vc,
		meta: meta,
		mat:  gocv.NewMat(),
		gray: gocv.NewMat(),
	}, nil
}

func (r *Reader) Metadata() vaire.Metadata {
	return r.meta
}

// Next decodes and grayscales the next frame, io.EOF once the container is
// exhausted.
func (r *Reader) Next() (*vaire.Frame, error) {
	if ok := r.vc.Read(&r.mat); !ok || r.mat.Empty() {
		return nil, io.EOF
	}
	gocv.CvtColor(r.mat, &r.gray, gocv.ColorBGRToGray)

	frame := vaire.NewFrame(r.gray.Cols(), r.gray.Rows())
	copy(frame.Pix, r.gray.ToBytes())
	return frame, nil
}

// Close frees the OpenCV resources. It has to be done manually, due to gocv
// using c-go.
func (r *Reader) Close() error {
	r.mat.Close()
	r.gray.Close()
	return r.vc.Close()
}

// Writer encodes luminance frames through a gocv VideoWriter.
type Writer struct {
	out  *gocv.VideoWriter
	meta vaire.Metadata
}

// NewWriter opens the destination file with the MJPG fourcc, which every
// OpenCV build carries an encoder for.
func NewWriter(path string, meta vaire.Metadata) (*Writer, error) {
	fps := 25.0
	if meta.FPSNum > 0 && meta.FPSDen > 0 {
		fps = float64(meta.FPSNum) / float64(meta.FPSDen)
	}
	out, err := gocv.VideoWriterFile(path, "MJPG", fps, meta.Width, meta.Height, false)
	if err != nil {
		return nil, fmt.Errorf("unable to open the video destination: %w", err)
	}
	return &Writer{out: out, meta: meta}, nil
}

func (w *Writer) WriteFrame(f *vaire.Frame) error {
	mat, err := gocv.NewMatFromBytes(f.Height, f.Width, gocv.MatTypeCV8U, f.Pix)
	if err != nil {
		return err
	}
	defer mat.Close()
	return w.out.Write(mat)
}

func (w *Writer) Close() error {
	return w.out.Close()
}
