package machine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anishk2/liqd-dispensing-mach/pkg/eeprom"
)

func TestCalibrate_PersistsLastSample(t *testing.T) {
	ctl, rig, _, store := newTestStation(t, 0)
	rig.SetWeight(150)

	// Three held polls, then release: the last averaged reading wins.
	rig.Mode.Script(true, true, true, false)
	ctl.Calibrate(context.Background(), 0)

	// 180000 + 150*220 = 213000.
	assert.Equal(t, int32(213000), store.ReadInt32(eeprom.Slot(0)))
	assert.Equal(t, Cutoff(213000), ctl.modes[0].Threshold)
	assert.Equal(t, "Saved: 213000", rig.LCD.Row(1))
	assert.False(t, rig.Relay.On(), "pump stops when the button is released")
	assert.False(t, rig.Indicator.On())
}

func TestCalibrate_PumpRunsWhileHeld(t *testing.T) {
	ctl, rig, _, _ := newTestStation(t, 0)

	var transitions []bool
	rig.Relay.OnChange(func(on bool) {
		transitions = append(transitions, on)
	})

	rig.Mode.Script(true, true, false)
	ctl.Calibrate(context.Background(), 1)

	assert.Equal(t, []bool{true, false}, transitions)
}

func TestCalibrate_FallbackKeepsPriorValue(t *testing.T) {
	ctl, _, clock, store := newTestStation(t, 0)

	// The hold loop never runs: abort before any press. The previously-held
	// factory value must be persisted, not zero or an unsampled reading.
	ctx, cancel := context.WithCancel(context.Background())
	clock.At(clock.Sleeps()+8, cancel)
	ctl.Calibrate(ctx, 0)

	assert.Equal(t, int32(220000), store.ReadInt32(eeprom.Slot(0)))
	assert.Equal(t, Cutoff(220000), ctl.modes[0].Threshold)
}

func TestSelectMode_CyclesAndConfirms(t *testing.T) {
	ctl, rig, clock, _ := newTestStation(t, 0)

	rig.Mode.Script(false) // consumed by the release wait at entry
	pressCycle(rig.Mode)
	clock.At(clock.Sleeps()+30, rig.Dispense.Press)

	got := ctl.selectMode(context.Background())

	assert.Equal(t, 1, got, "one MODE press advances the selection once")
}

func TestSelectMode_ConfirmWithoutCycling(t *testing.T) {
	ctl, rig, clock, _ := newTestStation(t, 0)

	clock.At(clock.Sleeps()+5, rig.Dispense.Press)

	assert.Equal(t, 0, ctl.selectMode(context.Background()))
}

func TestInspect_ShowsStoredThresholdsAndExits(t *testing.T) {
	ctl, rig, clock, store := newTestStation(t, 0)
	seedThresholds(store, 220000, 240000, 250000)
	ctl.loadThresholds()

	var rows [2]string
	pressCycle(rig.Mode)
	clock.At(clock.Sleeps()+30, func() {
		rows[0] = rig.LCD.Row(0)
		rows[1] = rig.LCD.Row(1)
		rig.Dispense.Press()
	})

	ctl.Inspect(context.Background())

	assert.Equal(t, "VOLUME: 450", rows[0], "one MODE press toggles to the second preset")
	assert.Equal(t, "240000", rows[1])
	assert.Equal(t, "", rig.LCD.Row(0), "display cleared on exit")
}

func TestInspect_LiveReadingSlot(t *testing.T) {
	ctl, rig, clock, store := newTestStation(t, 0)
	seedThresholds(store, 220000, 240000, 250000)
	ctl.loadThresholds()
	rig.SetWeight(50) // 180000 + 50*220 = 191000

	var rows [2]string
	for i := 0; i < 3; i++ {
		pressCycle(rig.Mode)
	}
	clock.At(clock.Sleeps()+80, func() {
		rows[0] = rig.LCD.Row(0)
		rows[1] = rig.LCD.Row(1)
		rig.Dispense.Press()
	})

	ctl.Inspect(context.Background())

	assert.Equal(t, "Current val:", rows[0], "fourth slot shows the live sensor reading")
	assert.Equal(t, "191000", rows[1])
}
