// Package debounce turns a noisy momentary button line into a single clean
// event per physical press, using the 16-bit shift register technique from
// Ganssle's "A Guide to Debouncing".
package debounce

const (
	// settleMask keeps the top three bits of the register set regardless of
	// input history, bounding the effective window to 13 samples.
	settleMask = 0xE000
	// firePattern is the register value reached exactly once per press
	// cycle: one pressed sample followed by twelve quiet samples.
	firePattern = 0xF000
)

// Filter debounces one digital input. It must be polled at a steady cadence
// that is faster than a human press and slower than contact bounce; the
// controller's loop interval provides that.
type Filter struct {
	state uint16
}

// New returns a Filter in the idle (released) state.
func New() *Filter {
	return &Filter{}
}

// Update feeds one raw sample of the button level and reports whether a
// press event completed. pressed is the logical level (true while the
// active-low line reads low). The event fires exactly once per press, after
// the register settles; bounce shorter than the window never fires.
func (f *Filter) Update(pressed bool) bool {
	bit := uint16(0)
	if pressed {
		bit = 1
	}
	f.state = (f.state<<1 | bit) | settleMask
	return f.state == firePattern
}
