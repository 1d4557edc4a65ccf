package win32

import (
	"time"

	"github.com/xkilldash9x/tabkeeper/api/schemas"
)

// doubleClickTracker reproduces the system's double-click detection for low-level
// hooks, which only ever see button-down messages. The second press of a pair
// within maxTime and inside the double-click rectangle is a double click; the
// third press starts a new pair.
type doubleClickTracker struct {
	maxTime time.Duration
	// Half extents of the rectangle centred on the first press.
	halfWidth, halfHeight int32

	lastPos  schemas.Point
	lastTime time.Time
	armed    bool
}

func newDoubleClickTracker(maxTime time.Duration, width, height int32) *doubleClickTracker {
	return &doubleClickTracker{
		maxTime:    maxTime,
		halfWidth:  width / 2,
		halfHeight: height / 2,
	}
}

// press records a left-button press and reports whether it completes a double click.
func (t *doubleClickTracker) press(pos schemas.Point, at time.Time) bool {
	if t.armed && t.withinPair(pos, at) {
		t.reset()
		return true
	}
	t.armed = true
	t.lastPos = pos
	t.lastTime = at
	return false
}

func (t *doubleClickTracker) withinPair(pos schemas.Point, at time.Time) bool {
	elapsed := at.Sub(t.lastTime)
	if elapsed < 0 || elapsed > t.maxTime {
		return false
	}
	return abs32(pos.X-t.lastPos.X) <= t.halfWidth && abs32(pos.Y-t.lastPos.Y) <= t.halfHeight
}

func (t *doubleClickTracker) reset() {
	t.armed = false
	t.lastTime = time.Time{}
	t.lastPos = schemas.Point{}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// coversMonitor reports whether a window rectangle covers the whole monitor, which
// is how a borderless full-screen window presents itself.
func coversMonitor(window, monitor schemas.Rect) bool {
	return window.Left <= monitor.Left && window.Top <= monitor.Top &&
		window.Right >= monitor.Right && window.Bottom >= monitor.Bottom
}
