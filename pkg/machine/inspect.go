package machine

import (
	"context"
	"fmt"
	"strconv"
)

// Inspect is the read-only diagnostic mode: the MODE button cycles through
// the three stored cutoffs and a live scale view, DISPENSE exits. Entered
// only from Boot with exactly one button held at power-on.
func (c *Controller) Inspect(ctx context.Context) {
	c.rig.Display.Clear()
	c.printRow(0, "Inspect Contents")
	c.clock.Sleep(c.cfg.PromptDuration)
	c.printRow(0, "Use VOL button")
	c.printRow(1, "to toggle")
	c.clock.Sleep(c.cfg.PromptDuration)
	c.rig.Display.Clear()
	c.printRow(0, "Use DISP button")
	c.printRow(1, "to exit")
	c.clock.Sleep(c.cfg.PromptDuration)
	c.rig.Display.Clear()

	index := 0
	for ctx.Err() == nil {
		if c.button.Update(c.rig.Mode.Pressed()) {
			index = (index + 1) % (PresetCount + 1)
		}

		if index < PresetCount {
			c.printRow(0, fmt.Sprintf("VOLUME: %d", c.modes[index].VolumeML))
			c.printRow(1, c.modes[index].Threshold.String())
		} else {
			c.printRow(0, "Current val:")
			c.printRow(1, strconv.FormatInt(-c.rig.Scale.Raw(), 10))
		}

		if c.rig.Dispense.Pressed() {
			c.rig.Display.Clear()
			c.printRow(0, "Exiting...")
			c.clock.Sleep(c.cfg.SplashDuration)
			break
		}
		c.clock.Sleep(c.cfg.PollInterval)
	}

	c.rig.Display.Clear()
}
