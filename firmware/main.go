//go:build tinygo

//go:generate tinygo flash -target=xiao

package main

import (
	"machine"
	"strconv"
	"time"
)

var (
	uart = machine.UART0

	scale   *hx711
	display *lcd

	// Timing
	lastOutput time.Time

	// Serial buffer for reading command lines.
	// Longest command is "D1:" plus a 16 character row.
	serialBuffer [24]byte
	serialPos    int
)

func main() {
	// Buttons are active-low with internal pull-ups
	PIN_BTN_DISPENSE.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	PIN_BTN_MODE.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	PIN_RELAY.Configure(machine.PinConfig{Mode: machine.PinOutput})
	PIN_RELAY.Low()
	PIN_INDICATOR.Configure(machine.PinConfig{Mode: machine.PinOutput})
	PIN_INDICATOR.Low()

	scale = newHX711(PIN_HX711_DT, PIN_HX711_SCK)
	display = newLCD(PIN_LCD_RS, PIN_LCD_EN, PIN_LCD_D4, PIN_LCD_D5, PIN_LCD_D6, PIN_LCD_D7)

	uart.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	lastOutput = time.Now()

	// Main loop
	for {
		now := time.Now()

		// Check for serial input (non-blocking)
		processSerial()

		// Stream one reading per conversion, paced by the sample interval.
		// The HX711 converts at 10 SPS by default, so ready() is the real
		// limiter; the interval guards against a faster part.
		if scale.ready() && now.Sub(lastOutput) >= time.Duration(SAMPLE_INTERVAL_MS)*time.Millisecond {
			outputSample(scale.read())
			lastOutput = now
		}

		// Small delay to prevent tight loop
		time.Sleep(100 * time.Microsecond)
	}
}

func outputSample(reading int32) {
	timestampMicros := time.Now().UnixNano() / 1000

	// Output format: "unix_micros,reading,dispense,mode\n"
	// Button fields are the raw active-low levels: 0 means pressed.
	print(timestampMicros)
	print(",")
	print(reading)
	print(",")
	if PIN_BTN_DISPENSE.Get() {
		print("1")
	} else {
		print("0")
	}
	print(",")
	if PIN_BTN_MODE.Get() {
		print("1")
	} else {
		print("0")
	}
	print("\n")
}

func processSerial() {
	// Read available bytes from serial
	for uart.Buffered() > 0 {
		data, err := uart.ReadByte()
		if err != nil {
			break
		}

		// Check for newline (end of line)
		if data == '\n' || data == '\r' {
			if serialPos > 0 {
				processCommand(serialBuffer[:serialPos])
			}
			serialPos = 0
			continue
		}

		if serialPos < len(serialBuffer) {
			serialBuffer[serialPos] = data
			serialPos++
		}
		// Overlong lines are truncated; the trailing bytes are dropped
		// until the next newline resets the buffer.
	}
}

// processCommand handles one line from the host:
//
//	R0 / R1    relay off / on
//	L0 / L1    indicator off / on
//	C          clear the display
//	D<row>:<text>  write one display row starting at column 0
func processCommand(cmd []byte) {
	switch cmd[0] {
	case 'R':
		if len(cmd) == 2 {
			PIN_RELAY.Set(cmd[1] == '1')
		}
	case 'L':
		if len(cmd) == 2 {
			PIN_INDICATOR.Set(cmd[1] == '1')
		}
	case 'C':
		display.clear()
	case 'D':
		if len(cmd) < 3 || cmd[2] != ':' {
			return
		}
		row, err := strconv.Atoi(string(cmd[1:2]))
		if err != nil || row < 0 || row > 1 {
			return
		}
		display.setCursor(0, row)
		display.print(string(cmd[3:]))
	}
}
