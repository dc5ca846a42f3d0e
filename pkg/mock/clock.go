package mock

import (
	"sync"
	"time"

	"github.com/anishk2/liqd-dispensing-mach/pkg/hal"
)

// Clock is an instant hal.Clock. It counts Sleep calls and can trigger
// hooks at specific counts, which lets tests cancel a blocking procedure at
// a chosen poll without real delays.
type Clock struct {
	mu     sync.Mutex
	sleeps int
	hooks  map[int]func()
}

var _ hal.Clock = (*Clock)(nil)

// NewClock returns an instant clock.
func NewClock() *Clock {
	return &Clock{hooks: make(map[int]func())}
}

// Sleep returns immediately, counting the call and running any hook
// registered for this count.
func (c *Clock) Sleep(time.Duration) {
	c.mu.Lock()
	c.sleeps++
	fn := c.hooks[c.sleeps]
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// At registers fn to run when the nth Sleep happens (1-based).
func (c *Clock) At(n int, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks[n] = fn
}

// Sleeps returns the number of Sleep calls so far.
func (c *Clock) Sleeps() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sleeps
}
