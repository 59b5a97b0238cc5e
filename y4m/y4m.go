// Package y4m reads and writes YUV4MPEG2 streams. Only the luminance plane
// is retained on decode, the chroma planes are skipped; encoded streams are
// emitted as Cmono. The format is plain enough that files and pipes produced
// or consumed by ffmpeg interoperate directly.
package y4m

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/esimov/vaire"
)

// signature starts every YUV4MPEG2 stream.
const signature = "YUV4MPEG2"

// frameMarker starts every frame record.
const frameMarker = "FRAME"

// chromaSize returns the byte count of the subsampled chroma planes (plus
// the alpha plane for 444alpha) for a single frame of the colorspace.
func chromaSize(colorspace string, w, h int) (int, error) {
	switch colorspace {
	case "420", "420jpeg", "420mpeg2", "420paldv":
		return (w / 2) * (h / 2) * 2, nil
	case "411":
		return (w / 4) * h * 2, nil
	case "422":
		return (w / 2) * h * 2, nil
	case "444":
		return w * h * 2, nil
	case "444alpha":
		return w * h * 3, nil
	case "mono":
		return 0, nil
	}
	return 0, fmt.Errorf("unsupported colorspace %q", colorspace)
}

// Reader decodes the luminance plane of a YUV4MPEG2 stream frame by frame.
type Reader struct {
	src    *bufio.Reader
	closer io.Closer
	meta   vaire.Metadata
	chroma []byte
}

// NewReader parses the stream header and returns a reader positioned at the
// first frame. When the source also implements io.Closer, Close closes it.
func NewReader(src io.Reader) (*Reader, error) {
	r := &Reader{src: bufio.NewReaderSize(src, 1<<16)}
	if c, ok := src.(io.Closer); ok {
		r.closer = c
	}
	if err := r.parseHeader(); err != nil {
		return nil, err
	}
	return r, nil
}

// parseHeader reads the signature line and the stream parameters.
func (r *Reader) parseHeader() error {
	line, err := r.src.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading the stream header: %w", err)
	}
	line = strings.TrimSuffix(line, "\n")

	fields := strings.Split(line, " ")
	if fields[0] != signature {
		return fmt.Errorf("missing %s signature", signature)
	}

	var (
		width, height  int
		fpsNum, fpsDen = 25, 1
		colorspace     = "420jpeg"
	)
	for _, field := range fields[1:] {
		if len(field) < 2 {
			continue
		}
		value := field[1:]
		switch field[0] {
		case 'W':
			width, err = strconv.Atoi(value)
		case 'H':
			height, err = strconv.Atoi(value)
		case 'F':
			fpsNum, fpsDen, err = parseRatio(value)
		case 'C':
			colorspace = value
		case 'I', 'A', 'X':
			// Interlacing, pixel aspect ratio and extension parameters do
			// not affect the luminance plane.
		default:
			return fmt.Errorf("unknown stream parameter %q", field)
		}
		if err != nil {
			return fmt.Errorf("malformed stream parameter %q: %w", field, err)
		}
	}
	if width < 1 || height < 1 {
		return fmt.Errorf("invalid stream geometry %dx%d", width, height)
	}

	n, err := chromaSize(colorspace, width, height)
	if err != nil {
		return err
	}
	r.chroma = make([]byte, n)

	r.meta = vaire.Metadata{
		Width:      width,
		Height:     height,
		FrameCount: -1,
		FPSNum:     fpsNum,
		FPSDen:     fpsDen,
		Format:     "yuv4mpeg2/C" + colorspace,
	}
	return nil
}

// Metadata returns the stream geometry parsed from the header.
func (r *Reader) Metadata() vaire.Metadata {
	return r.meta
}

// Next returns the luminance plane of the next frame, io.EOF once the
// stream is exhausted.
func (r *Reader) Next() (*vaire.Frame, error) {
	line, err := r.src.ReadString('\n')
	if err == io.EOF && len(line) == 0 {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("reading the frame marker: %w", err)
	}
	line = strings.TrimSuffix(line, "\n")

	// Frame records may carry their own parameters after the marker.
	if line != frameMarker && !strings.HasPrefix(line, frameMarker+" ") {
		return nil, fmt.Errorf("malformed frame marker %q", line)
	}

	frame := vaire.NewFrame(r.meta.Width, r.meta.Height)
	if _, err := io.ReadFull(r.src, frame.Pix); err != nil {
		return nil, fmt.Errorf("reading the luminance plane: %w", err)
	}
	if _, err := io.ReadFull(r.src, r.chroma); err != nil {
		return nil, fmt.Errorf("reading the chroma planes: %w", err)
	}
	return frame, nil
}

// Close closes the underlying source when it is closable.
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// Writer encodes luminance frames as a Cmono YUV4MPEG2 stream.
type Writer struct {
	dst    *bufio.Writer
	closer io.Closer
	meta   vaire.Metadata
}

// NewWriter writes the stream header for the given geometry and returns a
// writer ready to accept frames.
func NewWriter(dst io.Writer, meta vaire.Metadata) (*Writer, error) {
	w := &Writer{dst: bufio.NewWriterSize(dst, 1<<16), meta: meta}
	if c, ok := dst.(io.Closer); ok {
		w.closer = c
	}

	if meta.FPSNum < 1 || meta.FPSDen < 1 {
		meta.FPSNum, meta.FPSDen = 25, 1
	}
	_, err := fmt.Fprintf(w.dst, "%s W%d H%d F%d:%d Ip A1:1 Cmono\n",
		signature, meta.Width, meta.Height, meta.FPSNum, meta.FPSDen)
	if err != nil {
		return nil, fmt.Errorf("writing the stream header: %w", err)
	}
	return w, nil
}

// WriteFrame appends one frame record to the stream.
func (w *Writer) WriteFrame(f *vaire.Frame) error {
	if f.Width != w.meta.Width || f.Height != w.meta.Height {
		return fmt.Errorf("frame shape %dx%d does not match the stream geometry %dx%d",
			f.Width, f.Height, w.meta.Width, w.meta.Height)
	}
	if _, err := fmt.Fprintf(w.dst, "%s\n", frameMarker); err != nil {
		return err
	}
	_, err := w.dst.Write(f.Pix)
	return err
}

// Close flushes the stream and closes the underlying destination when it is
// closable.
func (w *Writer) Close() error {
	if err := w.dst.Flush(); err != nil {
		return err
	}
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}

// parseRatio parses a num:den pair.
func parseRatio(s string) (int, int, error) {
	num, den, found := strings.Cut(s, ":")
	if !found {
		return 0, 0, fmt.Errorf("missing ratio separator in %q", s)
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return 0, 0, err
	}
	d, err := strconv.Atoi(den)
	if err != nil {
		return 0, 0, err
	}
	return n, d, nil
}
