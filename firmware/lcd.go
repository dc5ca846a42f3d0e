//go:build tinygo

package main

import (
	"machine"
	"time"
)

// lcd is a minimal HD44780 driver in 4-bit mode: init, clear, cursor
// positioning and text. That is all the panel screens need.
type lcd struct {
	rs, en         machine.Pin
	d4, d5, d6, d7 machine.Pin
}

func newLCD(rs, en, d4, d5, d6, d7 machine.Pin) *lcd {
	l := &lcd{rs: rs, en: en, d4: d4, d5: d5, d6: d6, d7: d7}
	for _, p := range []machine.Pin{rs, en, d4, d5, d6, d7} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.Low()
	}

	// Power-on init sequence per the HD44780 datasheet: three 8-bit
	// function-set nibbles, then switch to 4-bit mode.
	time.Sleep(50 * time.Millisecond)
	l.writeNibble(0x03)
	time.Sleep(5 * time.Millisecond)
	l.writeNibble(0x03)
	time.Sleep(200 * time.Microsecond)
	l.writeNibble(0x03)
	time.Sleep(200 * time.Microsecond)
	l.writeNibble(0x02)

	l.command(0x28) // 4-bit, 2 lines, 5x8 font
	l.command(0x0C) // display on, cursor off
	l.command(0x06) // entry mode: increment, no shift
	l.clear()
	return l
}

func (l *lcd) clear() {
	l.command(0x01)
	time.Sleep(2 * time.Millisecond)
}

// setCursor moves to (col, row). The two display rows start at DDRAM
// addresses 0x00 and 0x40.
func (l *lcd) setCursor(col, row int) {
	addr := col
	if row > 0 {
		addr += 0x40
	}
	l.command(byte(0x80 | addr))
}

func (l *lcd) print(text string) {
	for i := 0; i < len(text); i++ {
		l.write(text[i])
	}
}

func (l *lcd) command(b byte) {
	l.rs.Low()
	l.writeByte(b)
}

func (l *lcd) write(b byte) {
	l.rs.High()
	l.writeByte(b)
}

func (l *lcd) writeByte(b byte) {
	l.writeNibble(b >> 4)
	l.writeNibble(b & 0x0F)
	time.Sleep(50 * time.Microsecond)
}

func (l *lcd) writeNibble(n byte) {
	l.d4.Set(n&0x01 != 0)
	l.d5.Set(n&0x02 != 0)
	l.d6.Set(n&0x04 != 0)
	l.d7.Set(n&0x08 != 0)
	l.pulse()
}

func (l *lcd) pulse() {
	l.en.High()
	time.Sleep(time.Microsecond)
	l.en.Low()
	time.Sleep(time.Microsecond)
}
