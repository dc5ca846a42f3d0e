package mock

import (
	"sync"

	"github.com/anishk2/liqd-dispensing-mach/pkg/hal"
)

// Button is a simulated momentary button. The level can be set directly
// (simulator mouse events) or scripted as a sequence of per-poll samples
// (deterministic tests); once a script is exhausted the steady level is
// reported again.
type Button struct {
	mu     sync.Mutex
	level  bool
	script []bool
}

var _ hal.Button = (*Button)(nil)

// Pressed reports the button level, consuming one scripted sample per call.
func (b *Button) Pressed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.script) > 0 {
		v := b.script[0]
		b.script = b.script[1:]
		return v
	}
	return b.level
}

// Press holds the button down.
func (b *Button) Press() { b.set(true) }

// Release lets go of the button.
func (b *Button) Release() { b.set(false) }

func (b *Button) set(level bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.level = level
}

// Script queues raw per-poll samples returned ahead of the steady level.
func (b *Button) Script(levels ...bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.script = append(b.script, levels...)
}

// HoldFor queues n pressed samples followed by a release.
func (b *Button) HoldFor(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := 0; i < n; i++ {
		b.script = append(b.script, true)
	}
	b.script = append(b.script, false)
}

// Lamp is a simulated binary output (pump relay, indicator LED).
type Lamp struct {
	mu sync.Mutex
	on bool

	onChange func(on bool)
}

var _ hal.Switch = (*Lamp)(nil)

// Set switches the output.
func (l *Lamp) Set(on bool) {
	l.mu.Lock()
	changed := l.on != on
	l.on = on
	fn := l.onChange
	l.mu.Unlock()
	if changed && fn != nil {
		fn(on)
	}
}

// On reports the current output state.
func (l *Lamp) On() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.on
}

// OnChange registers a callback invoked whenever the state flips.
func (l *Lamp) OnChange(fn func(on bool)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = fn
}
