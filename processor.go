package vaire

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"
)

// pipelineDepth bounds the decode and encode queues. The carve stage is
// single threaded with respect to frames, the queues only decouple it from
// the I/O stages.
const pipelineDepth = 8

// Processor options
type Processor struct {
	// Pixels is the number of columns removed from every frame.
	Pixels int

	// Threshold is the shot boundary trigger: the normalized histogram
	// distance at which temporal coherence is reset. 0 disables coherence,
	// 1 pins it on.
	Threshold float64

	// BlurRadius smooths the luminance plane before the gradient pass.
	BlurRadius int

	// Seed pins the seam selector PRNG, 0 seeds it from the clock.
	Seed int64

	FaceDetect  bool
	CascadePath string
	FaceAngle   float64

	Profile bool
	Preview bool
	Debug   bool

	// SeamColor is the hex color of the seam overlay shown by the preview
	// window in debug mode.
	SeamColor string

	// Chooser overrides the seeded PRNG collaborator, tests inject a
	// deterministic stub through it.
	Chooser Chooser

	meta      Metadata
	chooser   Chooser
	shot      *ShotDetector
	faces     *faceDetector
	prof      *profiler
	prevSeams [][]int

	// frameWorker transfers the carved frames to the preview window. The
	// sends never block: a slow GUI drops frames instead of stalling the
	// carve stage.
	frameWorker chan previewFrame
}

// previewFrame carries one carved frame and the seam removed by the last
// inner iteration to the preview window.
type previewFrame struct {
	img  *image.NRGBA
	seam []int
}

// validate checks the processor options against the stream metadata.
// Configuration errors are fatal and reported before any frame is decoded.
func (p *Processor) validate(meta Metadata) error {
	if p.Pixels < 1 {
		return errors.New("the number of pixels to carve must be at least 1")
	}
	if p.Threshold < 0 || p.Threshold > 1 {
		return fmt.Errorf("shot threshold %v is outside of [0, 1]", p.Threshold)
	}
	if p.BlurRadius < 0 {
		return fmt.Errorf("blur radius %d must not be negative", p.BlurRadius)
	}
	if meta.Width <= p.Pixels {
		return fmt.Errorf("cannot carve %d pixels out of a %d pixel wide video", p.Pixels, meta.Width)
	}
	if meta.Height < 1 {
		return fmt.Errorf("invalid frame height %d", meta.Height)
	}
	if p.FaceDetect && len(p.CascadePath) == 0 {
		return errors.New("please provide a face classifier")
	}
	return nil
}

// Process carves every frame the decoder yields and hands the narrowed
// frames to the encoder, in presentation order. The decode, carve and encode
// stages run concurrently over bounded queues; carving itself is strictly
// sequential because every frame biases the seams of the next one.
func (p *Processor) Process(dec Decoder, enc Encoder) error {
	p.meta = dec.Metadata()
	if err := p.validate(p.meta); err != nil {
		return err
	}

	p.chooser = p.Chooser
	if p.chooser == nil {
		p.chooser = NewChooser(p.Seed)
	}
	p.shot = NewShotDetector(p.Threshold)
	p.prof = newProfiler(p.Profile)
	p.prevSeams = make([][]int, p.Pixels)

	if p.FaceDetect {
		faces, err := newFaceDetector(p.CascadePath, p.FaceAngle)
		if err != nil {
			return err
		}
		p.faces = faces
	}

	if p.Preview {
		p.frameWorker = make(chan previewFrame, 4)
		go p.showPreview()
	}

	var (
		frames  = make(chan *Frame, pipelineDepth)
		carved  = make(chan *Frame, pipelineDepth)
		errc    = make(chan error, 2)
		quit    = make(chan struct{})
		encDone = make(chan struct{})
		once    sync.Once
	)
	stop := func() { once.Do(func() { close(quit) }) }

	// Decode stage.
	go func() {
		defer close(frames)
		for i := 0; ; i++ {
			frame, err := dec.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				errc <- fmt.Errorf("decoding frame %d: %w", i, err)
				return
			}
			select {
			case frames <- frame:
			case <-quit:
				return
			}
		}
	}()

	// Encode stage.
	go func() {
		defer close(encDone)
		for i := 0; ; i++ {
			frame, ok := <-carved
			if !ok {
				return
			}
			if err := enc.WriteFrame(frame); err != nil {
				errc <- fmt.Errorf("encoding frame %d: %w", i, err)
				stop()
				return
			}
		}
	}()

	// Carve stage.
	var carveErr error
	idx := 0
carve:
	for frame := range frames {
		out, err := p.carveFrame(frame, idx)
		if err != nil {
			carveErr = err
			stop()
			break
		}
		select {
		case carved <- out:
		case <-quit:
			break carve
		}
		idx++
	}
	close(carved)
	<-encDone
	stop()

	if p.frameWorker != nil {
		close(p.frameWorker)
	}

	if carveErr != nil {
		return carveErr
	}
	select {
	case err := <-errc:
		return err
	default:
	}
	return nil
}

// carveFrame runs the per frame loop: shot detection against the undecimated
// frame, then Pixels inner iterations, each removing a single seam from the
// working copy.
func (p *Processor) carveFrame(frame *Frame, idx int) (*Frame, error) {
	if err := frame.checkShape(p.meta.Width, p.meta.Height); err != nil {
		return nil, fmt.Errorf("frame %d: %w", idx, err)
	}

	var reset bool
	p.prof.time(kernelShot, func() {
		reset = p.shot.Detect(frame)
	})
	useCoherence := !reset && idx > 0

	work := frame
	for i := 0; i < p.Pixels; i++ {
		c := NewCarver(work.Width, work.Height)

		src := work
		if p.BlurRadius > 0 {
			src = StackBlur(work.Clone(), uint32(p.BlurRadius))
		}

		p.prof.time(kernelEnergy, func() {
			if useCoherence {
				c.ComputeBiasedEnergy(src, p.prevSeams[i])
			} else {
				c.ComputeEnergy(src)
			}
		})

		if p.faces != nil {
			var rects []image.Rectangle
			p.prof.time(kernelFace, func() {
				rects = p.faces.detect(work)
			})
			c.BoostRegions(rects)
		}

		p.prof.time(kernelCost, c.ComputeCosts)

		var seam []int
		p.prof.time(kernelExtract, func() {
			seam = c.FindLowestEnergySeam(p.chooser)
		})

		// Slot i holds the seam removed at inner iteration i of this frame,
		// it biases the i-th iteration of the next one.
		p.prevSeams[i] = seam

		p.prof.time(kernelResize, func() {
			work = c.RemoveSeam(work, seam)
		})

		p.sendPreview(work, seam)
	}
	return work, nil
}

// sendPreview hands the working frame to the preview window without ever
// blocking the carve stage.
func (p *Processor) sendPreview(f *Frame, seam []int) {
	if p.frameWorker == nil {
		return
	}
	select {
	case p.frameWorker <- previewFrame{img: f.ToNRGBA(), seam: seam}:
	default:
	}
}

// ProfileReport writes the kernel timing table collected during Process.
func (p *Processor) ProfileReport(w io.Writer) {
	if p.prof != nil {
		p.prof.Report(w)
	}
}
