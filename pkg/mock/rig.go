// Package mock simulates a complete dispensing station: load cell, vessel,
// pump relay, indicator, buttons and LCD. It backs the desktop simulator and
// the controller tests.
package mock

import (
	"sync"

	"github.com/chewxy/math32"

	"github.com/anishk2/liqd-dispensing-mach/pkg/config"
	"github.com/anishk2/liqd-dispensing-mach/pkg/hal"
)

// Rig simulates one dispensing station. The vessel gains weight while the
// pump relay is on; the gain is applied per scale sample so behavior does
// not depend on wall-clock time.
type Rig struct {
	cfg config.MockConfig

	Dispense  *Button
	Mode      *Button
	Relay     *Lamp
	Indicator *Lamp
	LCD       *Display

	mu     sync.Mutex
	weight float64 // grams of container + liquid on the scale
	phase  float32 // noise oscillator state
}

var _ hal.Scale = (*Rig)(nil)

// New creates a simulated rig. A nil cfg uses the defaults.
func New(cfg *config.MockConfig) *Rig {
	if cfg == nil {
		c := config.Default().Mock
		cfg = &c
	}
	return &Rig{
		cfg:       *cfg,
		Dispense:  &Button{},
		Mode:      &Button{},
		Relay:     &Lamp{},
		Indicator: &Lamp{},
		LCD:       NewDisplay(),
	}
}

// HAL bundles the simulated peripherals for the controller.
func (r *Rig) HAL() hal.Rig {
	return hal.Rig{
		Scale:     r,
		Dispense:  r.Dispense,
		Mode:      r.Mode,
		Relay:     r.Relay,
		Indicator: r.Indicator,
		Display:   r.LCD,
	}
}

// Raw returns the next simulated load cell reading. The hardware sign is
// preserved: heavier reads more negative, like the reference wiring.
func (r *Rig) Raw() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Relay.On() {
		// One sample's worth of liquid enters the vessel.
		r.weight += r.cfg.FlowRate * r.cfg.SampleInterval.Seconds()
	}

	reading := float64(r.cfg.TareCounts) + r.weight*r.cfg.CountsPerGram
	if r.cfg.NoiseLevel > 0 {
		reading += float64(math32.Sin(r.phase)) * r.cfg.NoiseLevel
		r.phase += 0.7
	}

	return -int64(reading)
}

// Averaged returns the mean of count consecutive readings.
func (r *Rig) Averaged(count int) int64 {
	if count <= 0 {
		count = 1
	}
	var sum int64
	for i := 0; i < count; i++ {
		sum += r.Raw()
	}
	return sum / int64(count)
}

// SetWeight places weight grams on the scale (simulator slider, test setup).
func (r *Rig) SetWeight(grams float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.weight = grams
}

// Weight returns the current vessel weight in grams.
func (r *Rig) Weight() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.weight
}
