//go:build tinygo

package main

import (
	"machine"
	"time"
)

// hx711 is a bit-banged driver for the HX711 24-bit load cell ADC.
// Gain is fixed at 128 (channel A): one extra clock pulse after the
// 24 data bits selects that configuration for the next conversion.
type hx711 struct {
	dt  machine.Pin
	sck machine.Pin
}

func newHX711(dt, sck machine.Pin) *hx711 {
	dt.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	sck.Configure(machine.PinConfig{Mode: machine.PinOutput})
	sck.Low()
	return &hx711{dt: dt, sck: sck}
}

// ready reports whether a conversion is waiting. DT goes low when data
// is available.
func (h *hx711) ready() bool {
	return !h.dt.Get()
}

// read shifts out one 24-bit two's complement conversion. It must only be
// called when ready() is true; clocking the part without data available
// can shift it into an undefined state.
func (h *hx711) read() int32 {
	var raw uint32
	for i := 0; i < 24; i++ {
		h.sck.High()
		time.Sleep(time.Microsecond)
		raw = raw << 1
		if h.dt.Get() {
			raw |= 1
		}
		h.sck.Low()
		time.Sleep(time.Microsecond)
	}

	// 25th pulse: gain 128 for the next conversion.
	h.sck.High()
	time.Sleep(time.Microsecond)
	h.sck.Low()

	// Sign-extend from 24 bits.
	if raw&0x800000 != 0 {
		raw |= 0xFF000000
	}
	return int32(raw)
}
