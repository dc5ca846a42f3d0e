// Package bridge drives a real dispensing station through the line protocol
// spoken by the firmware in firmware/: the MCU streams load cell readings
// and raw button levels, and accepts relay, indicator and display commands.
package bridge

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/anishk2/liqd-dispensing-mach/pkg/hal"
)

const (
	// DefaultBaudRate is the rate the firmware configures its UART for.
	DefaultBaudRate = 115200
	// DefaultBufferSize is the default size for the samples channel buffer.
	DefaultBufferSize = 100
)

// Sample is one line from the MCU: a load cell reading and the raw levels
// of both buttons. The button fields are already converted from the
// active-low electrical level: true means pressed.
type Sample struct {
	Timestamp time.Time
	Reading   int64
	Dispense  bool
	Mode      bool
}

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Rig is a connection to the station MCU. It implements hal.Scale; HAL
// exposes the remaining peripherals backed by the same link.
type Rig struct {
	port     string
	baudRate int
	bufSize  int
	log      hal.Logger

	conn      serial.Port
	samples   chan Sample
	mu        sync.RWMutex
	last      Sample
	done      chan struct{}
	connected bool

	display *display
}

var _ hal.Scale = (*Rig)(nil)

// New creates a Rig for the given serial port.
func New(port string, opts ...Option) *Rig {
	r := &Rig{
		port:     port,
		baudRate: DefaultBaudRate,
		bufSize:  DefaultBufferSize,
		log:      &hal.NullLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.samples = make(chan Sample, r.bufSize)
	r.done = make(chan struct{})
	r.display = newDisplay(r)
	return r
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{Name: name, Description: name})
	}
	return result, nil
}

// Connect opens the serial port and starts reading samples.
func (r *Rig) Connect() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.connected {
		return fmt.Errorf("already connected")
	}

	mode := &serial.Mode{
		BaudRate: r.baudRate,
	}

	port, err := serial.Open(r.port, mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", r.port, err)
	}

	r.conn = port
	r.connected = true

	go r.readSamples()

	return nil
}

// Close shuts the link down and stops the reader.
func (r *Rig) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.connected {
		return nil
	}

	close(r.done)

	if r.conn != nil {
		if err := r.conn.Close(); err != nil {
			r.log.Warnf("error closing serial port: %v", err)
		}
		r.conn = nil
	}

	r.connected = false
	close(r.samples)

	return nil
}

// IsConnected returns whether the link is currently up.
func (r *Rig) IsConnected() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.connected
}

// HAL bundles the station peripherals behind this link.
func (r *Rig) HAL() hal.Rig {
	return hal.Rig{
		Scale:     r,
		Dispense:  hal.ButtonFunc(func() bool { return r.latest().Dispense }),
		Mode:      hal.ButtonFunc(func() bool { return r.latest().Mode }),
		Relay:     hal.SwitchFunc(func(on bool) { r.command("R", on) }),
		Indicator: hal.SwitchFunc(func(on bool) { r.command("L", on) }),
		Display:   r.display,
	}
}

// Raw blocks for the next reading from the MCU.
func (r *Rig) Raw() int64 {
	s, ok := <-r.samples
	if !ok {
		return 0
	}
	return s.Reading
}

// Averaged blocks until count readings are gathered and returns their mean.
func (r *Rig) Averaged(count int) int64 {
	if count <= 0 {
		count = 1
	}
	var sum int64
	for i := 0; i < count; i++ {
		sum += r.Raw()
	}
	return sum / int64(count)
}

// latest returns the most recent sample without consuming the stream; the
// button levels ride along with every reading.
func (r *Rig) latest() Sample {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

// command sends a single on/off command line to the MCU.
func (r *Rig) command(prefix string, on bool) {
	v := "0"
	if on {
		v = "1"
	}
	r.send(prefix + v)
}

// send writes one protocol line. Failures are logged, not returned: the
// control loop has no error path, matching the station's never-halt design.
func (r *Rig) send(line string) {
	r.mu.RLock()
	conn := r.conn
	r.mu.RUnlock()

	if conn == nil {
		return
	}
	if _, err := conn.Write([]byte(line + "\n")); err != nil {
		r.log.Warnf("failed to send %q: %v", line, err)
	}
}

// readSamples reads lines from the serial port and parses them.
func (r *Rig) readSamples() {
	scanner := bufio.NewScanner(r.conn)
	for {
		select {
		case <-r.done:
			return
		default:
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil && err != io.EOF {
					r.log.Warnf("error reading from serial port: %v", err)
				}
				return
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			sample, err := parseLine(line)
			if err != nil {
				r.log.Debugf("failed to parse line %q: %v", line, err)
				continue
			}

			r.mu.Lock()
			r.last = sample
			r.mu.Unlock()

			select {
			case r.samples <- sample:
			case <-r.done:
				return
			default:
				// Channel full; the control loop is blocked elsewhere, drop.
			}
		}
	}
}

// parseLine parses one status line from the MCU.
// Format: unix_micros,reading,dispense,mode
// Example: 1234567890123,-219834,1,0
// Button fields are raw active-low levels: 0 means pressed.
func parseLine(line string) (Sample, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 4 {
		return Sample{}, fmt.Errorf("invalid line format: expected 4 comma-separated values, got %d", len(parts))
	}

	timestampMicros, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Sample{}, fmt.Errorf("invalid timestamp: %w", err)
	}

	reading, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Sample{}, fmt.Errorf("invalid reading: %w", err)
	}

	dispense, err := parseLevel(parts[2])
	if err != nil {
		return Sample{}, fmt.Errorf("invalid dispense level: %w", err)
	}
	mode, err := parseLevel(parts[3])
	if err != nil {
		return Sample{}, fmt.Errorf("invalid mode level: %w", err)
	}

	return Sample{
		Timestamp: time.Unix(0, timestampMicros*1000),
		Reading:   reading,
		Dispense:  dispense,
		Mode:      mode,
	}, nil
}

// parseLevel converts a raw active-low line level into a pressed flag.
func parseLevel(s string) (bool, error) {
	switch s {
	case "0":
		return true, nil
	case "1":
		return false, nil
	}
	return false, fmt.Errorf("level must be 0 or 1, got %q", s)
}
