package interaction

import "time"

// DoubleClickWindow is the longest gap between two presses on the same
// clip that still counts as a double click.
const DoubleClickWindow = 400 * time.Millisecond

// ClickTracker detects double clicks from a stream of single presses.
// Terminals only report presses, so the pairing happens here.
type ClickTracker struct {
	Window time.Duration

	lastID string
	lastAt time.Time
}

// Click records a press on target and reports whether it completes a
// double click. A completed pair is consumed; a third press starts over.
func (c *ClickTracker) Click(target string, now time.Time) bool {
	window := c.Window
	if window <= 0 {
		window = DoubleClickWindow
	}
	if target != "" && target == c.lastID && now.Sub(c.lastAt) <= window {
		c.lastID = ""
		c.lastAt = time.Time{}
		return true
	}
	c.lastID = target
	c.lastAt = now
	return false
}

func (c *ClickTracker) Reset() {
	c.lastID = ""
	c.lastAt = time.Time{}
}
