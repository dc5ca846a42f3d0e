package machine

import (
	"context"
	"fmt"

	"github.com/anishk2/liqd-dispensing-mach/pkg/eeprom"
)

// Calibrate records an observed cutoff for preset i and persists it. The
// operator holds the MODE button while the pump fills the reference
// container; the last averaged reading before release becomes the cutoff.
// If no sample is ever taken the prior value is persisted unchanged.
func (c *Controller) Calibrate(ctx context.Context, i int) {
	value := c.modes[i].Threshold.Encode()
	sampled := false

	c.printRow(0, "Begin Calibration")
	c.printRow(1, fmt.Sprintf("Volume: %d", c.modes[i].VolumeML))
	c.clock.Sleep(c.cfg.PromptDuration)
	c.rig.Display.Clear()
	c.printRow(0, "Place container")
	c.clock.Sleep(c.cfg.PromptDuration)
	c.rig.Display.Clear()
	c.printRow(0, "Press VOL button")
	c.printRow(1, "to fill")
	c.clock.Sleep(c.cfg.PromptDuration)
	c.rig.Display.Clear()
	c.printRow(0, "Release")
	c.printRow(1, "to save value")
	c.clock.Sleep(c.cfg.PromptDuration)

	for !sampled && ctx.Err() == nil {
		for c.rig.Mode.Pressed() {
			c.rig.Indicator.Set(true)
			c.rig.Relay.Set(true)
			value = int32(-c.rig.Scale.Averaged(c.cfg.CalibrationSamples))
			sampled = true
			c.log.Debugf("calibration sample: %d", value)
			if ctx.Err() != nil {
				break
			}
			c.clock.Sleep(c.cfg.PollInterval)
		}
		c.rig.Indicator.Set(false)
		c.rig.Relay.Set(false)
		c.clock.Sleep(c.cfg.PollInterval)
	}

	c.rig.Display.Clear()
	c.printRow(0, "Done")
	c.printRow(1, fmt.Sprintf("Saved: %d", value))
	c.log.Infof("calibration saved: mode %d value %d", i+1, value)
	c.clock.Sleep(c.cfg.ConfirmDuration)
	c.rig.Display.Clear()

	c.store.WriteInt32(eeprom.Slot(i), value)
	c.modes[i].Threshold = DecodeThreshold(value)
}

// selectMode lets the operator choose which preset to calibrate: the MODE
// button cycles through the presets, DISPENSE confirms. Used only from
// Boot, after both buttons held at power-on are released.
func (c *Controller) selectMode(ctx context.Context) int {
	c.rig.Display.Clear()
	c.printRow(0, "Entering Calib")

	for (c.rig.Dispense.Pressed() || c.rig.Mode.Pressed()) && ctx.Err() == nil {
		c.clock.Sleep(c.cfg.PollInterval)
	}

	c.printRow(1, "Choose Volume")
	c.clock.Sleep(c.cfg.PromptDuration)
	c.rig.Display.Clear()
	c.printRow(0, "Press DISPENSE")
	c.printRow(1, "to confirm")
	c.clock.Sleep(c.cfg.PromptDuration)

	index := 0
	c.showMode(index)
	for ctx.Err() == nil {
		pressed := c.button.Update(c.rig.Mode.Pressed())
		if c.rig.Dispense.Pressed() {
			break
		}
		c.showMode(index)
		if pressed {
			index = (index + 1) % PresetCount
		}
		c.clock.Sleep(c.cfg.PollInterval)
	}

	c.rig.Display.Clear()
	return index
}
