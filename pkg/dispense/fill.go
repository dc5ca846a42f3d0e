// Package dispense implements the fill decision loop: it reads noisy load
// cell samples in small windows, suppresses outliers with a running median,
// and decides when the vessel has reached a calibrated cutoff reading.
package dispense

import (
	"context"
	"slices"
	"time"

	"github.com/anishk2/liqd-dispensing-mach/pkg/hal"
)

// DefaultWindow is the default median window. Must be odd.
const DefaultWindow = 3

// Filler runs the blocking fill loop for one station.
type Filler struct {
	scale    hal.Scale
	dispense hal.Button
	clock    hal.Clock
	log      hal.Logger
	window   int
	poll     time.Duration
}

// New creates a Filler over the station peripherals. window is forced to an
// odd value of at least DefaultWindow; nil clock and log get working
// defaults.
func New(scale hal.Scale, dispense hal.Button, window int, poll time.Duration, clock hal.Clock, log hal.Logger) *Filler {
	if window < DefaultWindow || window%2 == 0 {
		window = DefaultWindow
	}
	if clock == nil {
		clock = hal.RealClock{}
	}
	if log == nil {
		log = &hal.NullLogger{}
	}
	return &Filler{
		scale:    scale,
		dispense: dispense,
		clock:    clock,
		log:      log,
		window:   window,
		poll:     poll,
	}
}

// Representative reduces one sample window to the value compared against
// the cutoff: the window is sorted ascending and the element at index
// (n+1)/2 is selected. Note that for n=3 this is index 2, the largest of
// the three — an upper median, kept bit-for-bit compatible with the
// machines already in the field because it shifts the measured cutoff
// point.
func Representative(samples []int64) int64 {
	sorted := slices.Clone(samples)
	slices.Sort(sorted)
	idx := (len(sorted) + 1) / 2
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// RunToThreshold blocks until the windowed representative reading reaches
// or exceeds threshold. Samples are sign-normalized so that increasing
// weight increases the reading. The caller owns the relay; no other input
// is serviced while this runs.
func (f *Filler) RunToThreshold(ctx context.Context, threshold int64) {
	buf := make([]int64, f.window)
	for {
		if ctx.Err() != nil {
			return
		}
		for i := range buf {
			buf[i] = -f.scale.Raw()
		}
		rep := Representative(buf)
		f.log.Debugf("fill cycle: median=%d target=%d remaining=%d", rep, threshold, threshold-rep)
		if threshold-rep <= 0 {
			return
		}
	}
}

// RunManual blocks until the dispense button is released. The scale is
// never sampled: an uncalibrated mode has no meaningful cutoff, so the
// operator terminates the fill.
func (f *Filler) RunManual(ctx context.Context) {
	for f.dispense.Pressed() {
		if ctx.Err() != nil {
			return
		}
		f.clock.Sleep(f.poll)
	}
}
