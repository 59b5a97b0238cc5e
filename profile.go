package vaire

import (
	"fmt"
	"io"
	"time"

	"github.com/esimov/vaire/utils"
	"gonum.org/v1/gonum/stat"
)

// kernel names used by the profiler, in report order.
const (
	kernelShot    = "shot"
	kernelFace    = "face"
	kernelEnergy  = "energy"
	kernelCost    = "cost"
	kernelExtract = "extract"
	kernelResize  = "resize"
)

var kernelOrder = []string{
	kernelShot, kernelFace, kernelEnergy, kernelCost, kernelExtract, kernelResize,
}

// profiler accumulates the wall time spent in each carving kernel. It's only
// consulted when the profile flag is active, otherwise every call is a no-op.
type profiler struct {
	enabled bool
	samples map[string][]float64
}

func newProfiler(enabled bool) *profiler {
	return &profiler{
		enabled: enabled,
		samples: make(map[string][]float64),
	}
}

// observe records the duration of one kernel invocation.
func (p *profiler) observe(kernel string, d time.Duration) {
	if !p.enabled {
		return
	}
	p.samples[kernel] = append(p.samples[kernel], float64(d.Nanoseconds()))
}

// time runs fn and attributes its wall time to the kernel.
func (p *profiler) time(kernel string, fn func()) {
	if !p.enabled {
		fn()
		return
	}
	start := time.Now()
	fn()
	p.observe(kernel, time.Since(start))
}

// Report writes the per-kernel timing table: invocation count, total time
// and the mean and standard deviation per invocation.
func (p *profiler) Report(w io.Writer) {
	if !p.enabled {
		return
	}

	fmt.Fprintf(w, "\n%s\n", utils.DecorateText("Kernel timings:", utils.StatusMessage))
	fmt.Fprintf(w, "%-10s %8s %12s %12s %12s\n", "kernel", "calls", "total", "mean", "stddev")

	for _, kernel := range kernelOrder {
		samples := p.samples[kernel]
		if len(samples) == 0 {
			continue
		}
		var total float64
		for _, s := range samples {
			total += s
		}
		mean := stat.Mean(samples, nil)
		var std float64
		if len(samples) > 1 {
			std = stat.StdDev(samples, nil)
		}

		fmt.Fprintf(w, "%-10s %8d %12s %12s %12s\n",
			kernel,
			len(samples),
			time.Duration(total).Round(time.Microsecond),
			time.Duration(mean).Round(time.Microsecond),
			time.Duration(std).Round(time.Microsecond),
		)
	}
}
