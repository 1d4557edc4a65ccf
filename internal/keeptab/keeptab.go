// Package keeptab decides when a close gesture must keep the window alive by
// replacing "close this tab" with "open a new tab, close the others".
package keeptab

import "time"

// A second close landing inside this window, while the host still reports two
// tabs, is treated as racing the first close. Faster repeats are switch bounce;
// slower ones are independent closes. The bounds are empirical and kept literal.
const (
	minRapidCloseGap = 50 * time.Millisecond
	maxRapidCloseGap = 250 * time.Millisecond
)

// Tracker holds the time of the last evaluated close. It is not safe for
// concurrent use; the dispatcher calls it from a single serial context.
type Tracker struct {
	enabled   bool
	now       func() time.Time
	lastClose time.Time
}

// NewTracker creates a tracker. A nil clock means time.Now.
func NewTracker(enabled bool, clock func() time.Time) *Tracker {
	if clock == nil {
		clock = time.Now
	}
	return &Tracker{enabled: enabled, now: clock}
}

// Enabled reports whether the keep-last-tab feature is on.
func (t *Tracker) Enabled() bool { return t.enabled }

// LastClose returns the time recorded by the most recent evaluation, or the zero
// time if ShouldKeep has not run while enabled.
func (t *Tracker) LastClose() time.Time { return t.lastClose }

// ShouldKeep reports whether closing a tab in a container holding tabCount tabs
// must keep the window open. Every call while enabled records the current time,
// whatever the answer, so all close paths share one timeline.
func (t *Tracker) ShouldKeep(tabCount int) bool {
	if !t.enabled {
		return false
	}

	keep := tabCount == 1

	now := t.now()
	if t.lastClose.IsZero() {
		t.lastClose = now
	}
	elapsed := now.Sub(t.lastClose)
	t.lastClose = now

	if elapsed > minRapidCloseGap && elapsed <= maxRapidCloseGap && tabCount == 2 {
		keep = true
	}
	return keep
}
