package vaire

// Metadata describes a frame stream. It's delivered by a decoder once,
// before the first frame.
type Metadata struct {
	Width  int
	Height int

	// FrameCount is the total number of frames when known, -1 otherwise.
	FrameCount int

	// FPSNum and FPSDen express the frame rate as a rational.
	FPSNum int
	FPSDen int

	// Format names the source codec or container.
	Format string
}

// Decoder yields the frames of a video in presentation order. Next returns
// io.EOF once the stream is exhausted.
type Decoder interface {
	Metadata() Metadata
	Next() (*Frame, error)
	Close() error
}

// Encoder consumes carved frames in presentation order.
type Encoder interface {
	WriteFrame(*Frame) error
	Close() error
}
