package bridge

import (
	"fmt"
	"strings"
	"sync"

	"github.com/anishk2/liqd-dispensing-mach/pkg/hal"
)

// display shadows the LCD contents host-side and pushes whole rows to the
// MCU. Sending a full row per change keeps the protocol stateless: a lost
// command corrupts one screen refresh, not the cursor position.
type display struct {
	rig *Rig

	mu   sync.Mutex
	rows [hal.DisplayRows][hal.DisplayCols]byte
	col  int
	row  int
}

var _ hal.Display = (*display)(nil)

func newDisplay(r *Rig) *display {
	d := &display{rig: r}
	d.reset()
	return d
}

func (d *display) reset() {
	for r := range d.rows {
		for c := range d.rows[r] {
			d.rows[r][c] = ' '
		}
	}
	d.col, d.row = 0, 0
}

// Clear blanks the framebuffer and the panel LCD.
func (d *display) Clear() {
	d.mu.Lock()
	d.reset()
	d.mu.Unlock()
	d.rig.send("C")
}

// SetCursor moves the write position. Out-of-range coordinates clamp to the
// panel edges like the character LCD controller does.
func (d *display) SetCursor(col, row int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if col < 0 {
		col = 0
	}
	if col >= hal.DisplayCols {
		col = hal.DisplayCols - 1
	}
	if row < 0 {
		row = 0
	}
	if row >= hal.DisplayRows {
		row = hal.DisplayRows - 1
	}
	d.col, d.row = col, row
}

// Print writes text at the cursor, clipping at the row edge, and flushes the
// touched row to the MCU.
func (d *display) Print(text string) {
	d.mu.Lock()
	for i := 0; i < len(text) && d.col+i < hal.DisplayCols; i++ {
		d.rows[d.row][d.col+i] = text[i]
	}
	row := d.row
	line := string(d.rows[row][:])
	if len(text)+d.col > hal.DisplayCols {
		d.col = hal.DisplayCols
	} else {
		d.col += len(text)
	}
	d.mu.Unlock()

	d.rig.send(fmt.Sprintf("D%d:%s", row, line))
}

// Row returns the current contents of one framebuffer row, trimmed.
func (d *display) Row(i int) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i < 0 || i >= hal.DisplayRows {
		return ""
	}
	return strings.TrimRight(string(d.rows[i][:]), " ")
}
