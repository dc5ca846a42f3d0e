//go:build tinygo

package main

import "machine"

const (
	// Sampling configuration
	SAMPLE_INTERVAL_MS = 10 // Minimum spacing between streamed readings

	// Load cell amplifier pins (HX711)
	PIN_HX711_DT  = machine.D2
	PIN_HX711_SCK = machine.D3

	// Front panel buttons (active-low with pull-ups)
	PIN_BTN_DISPENSE = machine.D4
	PIN_BTN_MODE     = machine.D5

	// Outputs
	PIN_RELAY     = machine.D6
	PIN_INDICATOR = machine.D7

	// Character LCD in 4-bit mode
	PIN_LCD_RS = machine.D8
	PIN_LCD_EN = machine.D9
	PIN_LCD_D4 = machine.D10
	PIN_LCD_D5 = machine.D11
	PIN_LCD_D6 = machine.D12
	PIN_LCD_D7 = machine.D13

	// Serial configuration
	// Format "unix_micros,reading,dispense,mode\n"
	// Example: "1234567890123456,-8388608,1,1\n" = ~32 bytes max per line
	// 100 lines/sec * 32 bytes = 3,200 bytes/sec; UART 8N1 at 115200 gives
	// 11,520 bytes/sec, ~3.6x headroom
	UART_BAUD_RATE = 115200
)
