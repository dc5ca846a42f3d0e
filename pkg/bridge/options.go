package bridge

import "github.com/anishk2/liqd-dispensing-mach/pkg/hal"

// Option configures a Rig.
type Option func(*Rig)

// WithBaudRate sets the serial baud rate.
func WithBaudRate(rate int) Option {
	return func(r *Rig) {
		if rate > 0 {
			r.baudRate = rate
		}
	}
}

// WithBufferSize sets the sample channel buffer size.
func WithBufferSize(size int) Option {
	return func(r *Rig) {
		if size > 0 {
			r.bufSize = size
		}
	}
}

// WithLogger sets the logger used for link diagnostics.
func WithLogger(log hal.Logger) Option {
	return func(r *Rig) {
		if log != nil {
			r.log = log
		}
	}
}
