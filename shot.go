package vaire

// ShotDetector decides when the temporal coherence between two consecutive
// frames should be discarded. It keeps the 256 bin luminance histogram of the
// previously seen frame and compares it against the histogram of the current
// one: a normalized L1 distance at or above the threshold marks a shot
// boundary.
type ShotDetector struct {
	threshold float64
	prevHist  [256]int
	hasPrev   bool
}

// NewShotDetector returns a shot detector firing at the given histogram
// distance threshold. A threshold of 0 disables temporal coherence
// permanently, a threshold of 1 pins it on.
func NewShotDetector(threshold float64) *ShotDetector {
	return &ShotDetector{threshold: threshold}
}

// Detect reports whether the coherence state should be reset for the frame.
// The first frame always resets. The frame must be the original decoded one,
// not an intermediate narrowed copy, so that consecutive histograms cover the
// same pixel count.
func (d *ShotDetector) Detect(f *Frame) bool {
	// The extreme thresholds short-circuit: no histogram needs to be computed
	// when coherence is pinned off or on.
	if d.threshold == 0 {
		return true
	}
	if d.threshold == 1 {
		if !d.hasPrev {
			d.hasPrev = true
			return true
		}
		return false
	}

	hist := histogram(f)
	if !d.hasPrev {
		d.prevHist = hist
		d.hasPrev = true
		return true
	}

	dist := histDistance(hist, d.prevHist, f.Width*f.Height)
	d.prevHist = hist

	return dist >= d.threshold
}

// histogram counts the raw luminance byte values of the frame.
func histogram(f *Frame) [256]int {
	var hist [256]int
	for _, v := range f.Pix {
		hist[v]++
	}
	return hist
}

// histDistance returns the normalized L1 distance between two histograms of
// equal pixel count. The normalizer 2*n is the largest possible L1 between
// such histograms, so the result stays in [0, 1].
func histDistance(a, b [256]int, n int) float64 {
	var sum int
	for i := range a {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return float64(sum) / float64(2*n)
}
