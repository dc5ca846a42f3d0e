package mock

import (
	"strings"
	"sync"

	"github.com/anishk2/liqd-dispensing-mach/pkg/hal"
)

// Display is an in-memory 16x2 character framebuffer with HD44780-style
// cursor semantics: Print advances the cursor and text past the row edge is
// dropped.
type Display struct {
	mu       sync.Mutex
	rows     [hal.DisplayRows][hal.DisplayCols]byte
	col, row int

	onUpdate func()
}

var _ hal.Display = (*Display)(nil)

// NewDisplay returns a blank display.
func NewDisplay() *Display {
	d := &Display{}
	d.clearLocked()
	return d
}

// Clear blanks the framebuffer and homes the cursor.
func (d *Display) Clear() {
	d.mu.Lock()
	d.clearLocked()
	fn := d.onUpdate
	d.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (d *Display) clearLocked() {
	for r := range d.rows {
		for c := range d.rows[r] {
			d.rows[r][c] = ' '
		}
	}
	d.col, d.row = 0, 0
}

// SetCursor moves the cursor. Out-of-range positions are clamped.
func (d *Display) SetCursor(col, row int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if col < 0 {
		col = 0
	}
	if row < 0 {
		row = 0
	}
	if row >= hal.DisplayRows {
		row = hal.DisplayRows - 1
	}
	d.col, d.row = col, row
}

// Print writes text at the cursor, advancing it.
func (d *Display) Print(text string) {
	d.mu.Lock()
	for i := 0; i < len(text); i++ {
		if d.col >= hal.DisplayCols {
			break
		}
		d.rows[d.row][d.col] = text[i]
		d.col++
	}
	fn := d.onUpdate
	d.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Row returns the contents of one display row, trailing spaces trimmed.
func (d *Display) Row(row int) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return strings.TrimRight(string(d.rows[row][:]), " ")
}

// RowPadded returns one display row at full width (simulator rendering).
func (d *Display) RowPadded(row int) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return string(d.rows[row][:])
}

// OnUpdate registers a callback invoked after every Clear or Print.
func (d *Display) OnUpdate(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onUpdate = fn
}
