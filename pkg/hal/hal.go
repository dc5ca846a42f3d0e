package hal

import "time"

// Display geometry of the character LCD on the front panel.
const (
	DisplayCols = 16
	DisplayRows = 2
)

// Scale produces raw load cell readings on demand. Readings carry the
// hardware sign: with the reference wiring, increasing weight drives the
// reading more negative, so consumers negate every sample before use.
type Scale interface {
	// Raw returns the next instantaneous reading.
	Raw() int64
	// Averaged blocks until count readings are gathered and returns their mean.
	Averaged(count int) int64
}

// Button is a momentary push button. The electrical line is active-low with
// a pull-up; implementations hide that and report the logical level.
type Button interface {
	// Pressed returns the current level of the button line.
	Pressed() bool
}

// Switch is a binary output such as the pump relay or the indicator LED.
type Switch interface {
	Set(on bool)
}

// Display is a fixed-width two-row character display.
type Display interface {
	Clear()
	SetCursor(col, row int)
	Print(text string)
}

// Clock abstracts the passage of time so blocking procedures can be driven
// deterministically in tests.
type Clock interface {
	Sleep(d time.Duration)
}

// Rig bundles the full set of peripherals of one dispensing station.
type Rig struct {
	Scale     Scale
	Dispense  Button
	Mode      Button
	Relay     Switch
	Indicator Switch
	Display   Display
}

// ButtonFunc adapts a level function to the Button interface.
type ButtonFunc func() bool

func (f ButtonFunc) Pressed() bool { return f() }

// SwitchFunc adapts a set function to the Switch interface.
type SwitchFunc func(on bool)

func (f SwitchFunc) Set(on bool) { f(on) }

// RealClock is the Clock used outside of tests.
type RealClock struct{}

var _ Clock = RealClock{}

func (RealClock) Sleep(d time.Duration) { time.Sleep(d) }
