package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// holdButton is a button that reports press and release separately, so the
// simulated front panel behaves like real momentary switches: holding the
// mouse button holds the panel button.
type holdButton struct {
	widget.Button
	onPress   func()
	onRelease func()
}

var _ desktop.Mouseable = (*holdButton)(nil)

func newHoldButton(label string, onPress, onRelease func()) *holdButton {
	b := &holdButton{onPress: onPress, onRelease: onRelease}
	b.Text = label
	b.ExtendBaseWidget(b)
	return b
}

func (b *holdButton) MouseDown(e *desktop.MouseEvent) {
	b.Button.MouseDown(e)
	if b.onPress != nil {
		b.onPress()
	}
}

func (b *holdButton) MouseUp(e *desktop.MouseEvent) {
	b.Button.MouseUp(e)
	if b.onRelease != nil {
		b.onRelease()
	}
}

// Tapped suppresses the default click action; press/release handling above
// already covers the full cycle.
func (b *holdButton) Tapped(*fyne.PointEvent) {}
