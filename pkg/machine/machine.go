// Package machine drives a single dispensing station: a mode table of three
// calibrated volume presets plus a manual mode, the idle/dispensing state
// machine, the power-on calibration and inspection procedures, and the
// persistence of calibrated cutoffs.
package machine

import (
	"context"
	"fmt"

	"github.com/anishk2/liqd-dispensing-mach/pkg/config"
	"github.com/anishk2/liqd-dispensing-mach/pkg/debounce"
	"github.com/anishk2/liqd-dispensing-mach/pkg/dispense"
	"github.com/anishk2/liqd-dispensing-mach/pkg/eeprom"
	"github.com/anishk2/liqd-dispensing-mach/pkg/hal"
)

// Version shown on the boot splash.
const Version = "v2.0"

// PresetCount is the number of calibrated modes. One manual mode follows
// them; the set is fixed, not dynamic.
const PresetCount = 3

// Mode is one dispensing mode: an informational volume label and an
// optional calibrated cutoff.
type Mode struct {
	VolumeML  int
	Threshold Threshold
}

// shouldDispense reports whether a fill may start at the given
// sign-normalized reading. A mode without a cutoff always qualifies.
func (m Mode) shouldDispense(reading int64) bool {
	v, ok := m.Threshold.Reading()
	if !ok {
		return true
	}
	return reading < int64(v)
}

// Controller owns the mode table and the current selection, and runs the
// station's control loop. All procedures block; the machine services no
// other input while one runs.
type Controller struct {
	rig    hal.Rig
	store  *eeprom.Store
	cfg    config.MachineConfig
	clock  hal.Clock
	log    hal.Logger
	filler *dispense.Filler

	modes  []Mode
	index  int
	button debounce.Filter
}

// WithClock overrides the real-time clock (deterministic tests).
func WithClock(c hal.Clock) func(*Controller) {
	return func(ctl *Controller) {
		ctl.clock = c
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l hal.Logger) func(*Controller) {
	return func(ctl *Controller) {
		ctl.log = l
	}
}

// New creates a Controller over the station peripherals. The mode table
// starts from the factory thresholds; Boot replaces them with the persisted
// calibration.
func New(rig hal.Rig, store *eeprom.Store, cfg config.MachineConfig, opts ...func(*Controller)) *Controller {
	c := &Controller{
		rig:   rig,
		store: store,
		cfg:   cfg,
		clock: hal.RealClock{},
		log:   &hal.NullLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}

	for i := 0; i < PresetCount; i++ {
		m := Mode{}
		if i < len(cfg.Volumes) {
			m.VolumeML = cfg.Volumes[i]
		}
		if i < len(cfg.FactoryThresholds) {
			m.Threshold = DecodeThreshold(cfg.FactoryThresholds[i])
		}
		c.modes = append(c.modes, m)
	}
	c.modes = append(c.modes, Mode{}) // manual mode, never calibrated

	c.filler = dispense.New(rig.Scale, rig.Dispense, cfg.MedianWindow, cfg.PollInterval, c.clock, c.log)
	return c
}

// Boot runs the one-shot power-on sequence: version splash, calibration
// entry when both buttons are held, threshold load from the store, and
// inspection mode when exactly one button is held. Never re-entered without
// a power cycle.
func (c *Controller) Boot(ctx context.Context) {
	c.printRow(0, "Dispense machine")
	c.printRow(1, Version)
	c.clock.Sleep(c.cfg.SplashDuration)
	c.rig.Display.Clear()

	if c.rig.Dispense.Pressed() && c.rig.Mode.Pressed() {
		i := c.selectMode(ctx)
		c.log.Infof("selected mode %d for calibration", i+1)
		c.Calibrate(ctx, i)
	}

	c.loadThresholds()

	if c.rig.Mode.Pressed() != c.rig.Dispense.Pressed() {
		c.Inspect(ctx)
	}

	c.showMode(c.index)
}

// loadThresholds replaces every preset cutoff with the persisted value.
func (c *Controller) loadThresholds() {
	for i := 0; i < PresetCount; i++ {
		v := c.store.ReadInt32(eeprom.Slot(i))
		c.modes[i].Threshold = DecodeThreshold(v)
		c.log.Infof("mode %d threshold: %s", i+1, c.modes[i].Threshold)
	}
}

// Run is the main control loop: poll the mode button through the debounce
// register, read the scale, start a fill when the dispense button is held
// below the cutoff, and advance the mode on each press event. Dispensing
// blocks the loop; presses during a fill are lost, not queued.
func (c *Controller) Run(ctx context.Context) {
	for ctx.Err() == nil {
		pressed := c.button.Update(c.rig.Mode.Pressed())
		reading := -c.rig.Scale.Raw()
		m := c.modes[c.index]
		c.log.Debugf("reading=%d mode=%d target=%s", reading, c.index+1, m.Threshold)

		if c.rig.Dispense.Pressed() && m.shouldDispense(reading) {
			c.dispense(ctx)
		}
		if pressed {
			c.index = (c.index + 1) % len(c.modes)
			c.showMode(c.index)
		}
		c.clock.Sleep(c.cfg.PollInterval)
	}
}

// dispense runs one blocking fill for the current mode, owning the relay
// and indicator for its duration.
func (c *Controller) dispense(ctx context.Context) {
	m := c.modes[c.index]
	c.rig.Display.Clear()

	v, ok := m.Threshold.Reading()
	if ok {
		c.printRow(0, "Dispensing")
		c.printRow(1, fmt.Sprintf("%d mL", m.VolumeML))
	} else {
		c.printRow(0, "Manual mode")
		c.printRow(1, "Dispensing")
	}

	c.rig.Indicator.Set(true)
	c.rig.Relay.Set(true)

	if ok {
		c.filler.RunToThreshold(ctx, int64(v))
	} else {
		c.filler.RunManual(ctx)
	}

	c.rig.Indicator.Set(false)
	c.rig.Relay.Set(false)

	c.rig.Display.Clear()
	c.showMode(c.index)
}

// showMode draws the idle screen for mode i.
func (c *Controller) showMode(i int) {
	if i == len(c.modes)-1 {
		c.printRow(0, "Manual Mode")
		c.printRow(1, "Press to Change")
		return
	}
	c.printRow(0, fmt.Sprintf("Volume: %d  mL", c.modes[i].VolumeML))
	c.printRow(1, "Press to change")
}

// printRow writes one full display row, blank-padded so stale characters
// from the previous screen never show through.
func (c *Controller) printRow(row int, text string) {
	c.rig.Display.SetCursor(0, row)
	c.rig.Display.Print(fmt.Sprintf("%-*s", hal.DisplayCols, text))
}
