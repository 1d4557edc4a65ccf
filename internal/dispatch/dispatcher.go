// Package dispatch runs the per-event control flow: it orders the gesture
// classifiers, decides whether an event is consumed, applies the chosen actions,
// and carries the two pieces of state that span events.
package dispatch

import (
	"time"

	"github.com/xkilldash9x/tabkeeper/api/schemas"
	"github.com/xkilldash9x/tabkeeper/internal/config"
	"github.com/xkilldash9x/tabkeeper/internal/gesture"
	"github.com/xkilldash9x/tabkeeper/internal/keeptab"
	"go.uber.org/zap"
)

// Result is the dispatcher's verdict for one event.
type Result struct {
	// Consumed means the event must not reach the host.
	Consumed bool
	// Gesture names the gesture that acted on the event, if any. A gesture can act
	// without consuming (double-click close).
	Gesture gesture.Name
}

var pass = Result{}

type mouseClassifier func(*gesture.Env, schemas.MouseEventData, schemas.Modifiers) gesture.Decision
type keyClassifier func(*gesture.Env, schemas.KeyEventData, schemas.Modifiers) gesture.Decision

// Order matters: the first consuming match wins.
var (
	clickClassifiers = []mouseClassifier{
		gesture.ClassifyRightClick,
		gesture.ClassifyMiddleClick,
		gesture.ClassifyBookmark,
	}
	keyClassifiers = []keyClassifier{
		gesture.ClassifyCloseShortcut,
		gesture.ClassifyOmniboxEnter,
	}
)

// Dispatcher classifies input events one at a time. It is not safe for concurrent
// use: the hook delivers events serially and the dispatcher relies on that for
// its read-modify-write state.
type Dispatcher struct {
	env    gesture.Env
	keys   schemas.KeyboardState
	marker schemas.OriginMarker
	logger *zap.Logger

	// pendingMenuSuppress is armed by a wheel switch made while the right button is
	// held and consumed by the release (or context menu) that ends that hold.
	pendingMenuSuppress bool
}

type options struct {
	logger *zap.Logger
	clock  func() time.Time
	marker schemas.OriginMarker
}

// Option configures a Dispatcher.
type Option func(*options)

// WithLogger sets the logger used for debug traces of each decision.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithClock overrides the clock used by the keep-last-tab heuristic.
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

// WithOriginMarker overrides the marker identifying self-generated input.
func WithOriginMarker(marker schemas.OriginMarker) Option {
	return func(o *options) { o.marker = marker }
}

// New creates a dispatcher over a configuration snapshot and its collaborators.
func New(tabs config.TabConfig, ui schemas.UIQuery, host schemas.Commander, keys schemas.KeyboardState, opts ...Option) *Dispatcher {
	o := options{
		logger: zap.NewNop(),
		clock:  time.Now,
		marker: schemas.SyntheticOrigin,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Dispatcher{
		env: gesture.Env{
			Tabs: tabs,
			UI:   ui,
			Host: host,
			Keep: keeptab.NewTracker(tabs.KeepLastTab, o.clock),
		},
		keys:   keys,
		marker: o.marker,
		logger: o.logger,
	}
}

// MenuSuppressPending reports whether the next right-button release will be swallowed.
func (d *Dispatcher) MenuSuppressPending() bool { return d.pendingMenuSuppress }

// KeepTracker exposes the keep-last-tab heuristic state.
func (d *Dispatcher) KeepTracker() *keeptab.Tracker { return d.env.Keep }

// Handle dispatches any input event.
func (d *Dispatcher) Handle(ev schemas.InputEvent) Result {
	switch e := ev.(type) {
	case schemas.MouseEventData:
		return d.HandleMouse(e)
	case schemas.KeyEventData:
		return d.HandleKey(e)
	default:
		return pass
	}
}

// Consume makes the dispatcher a hook consumer.
func (d *Dispatcher) Consume(ev schemas.InputEvent) bool {
	return d.Handle(ev).Consumed
}

// HandleMouse runs the mouse classifiers in order.
func (d *Dispatcher) HandleMouse(ev schemas.MouseEventData) Result {
	if ev.Type == schemas.MouseMove || ev.Origin == d.marker {
		return pass
	}
	mods := schemas.ReadModifiers(d.keys)

	// A new right-button press starts a new press-release cycle; a flag armed in an
	// earlier cycle whose release never arrived must not eat this one.
	if d.pendingMenuSuppress && ev.Is(schemas.MousePress, schemas.ButtonRight) {
		d.pendingMenuSuppress = false
	}

	// The hooks are global; only pointer input over the host's own windows is ours.
	if !d.overHost(ev.Point) {
		return pass
	}

	if dec := gesture.ClassifyWheel(&d.env, ev, mods); dec.Matched() {
		return d.settle(dec)
	}

	if d.pendingMenuSuppress && d.env.Tabs.WheelTabDisableMenu &&
		(ev.Is(schemas.MouseRelease, schemas.ButtonRight) || ev.Type == schemas.ContextMenu) {
		d.pendingMenuSuppress = false
		return d.settle(gesture.Decision{
			Outcome: gesture.Consume,
			Gesture: gesture.MenuSuppress,
			Actions: []gesture.Action{gesture.CancelCapture(d.env.UI.FocusedWindow())},
		})
	}

	result := pass
	// Double-click close acts but never consumes: swallowing the double-click makes
	// rapid repeated double-clicks close more tabs than intended.
	if dec := gesture.ClassifyDoubleClick(&d.env, ev, mods); dec.Matched() {
		result = d.settle(dec)
	}

	for _, classify := range clickClassifiers {
		if dec := classify(&d.env, ev, mods); dec.Matched() {
			return d.settle(dec)
		}
	}
	return result
}

// overHost reports whether p lies over a window of the host's class family.
func (d *Dispatcher) overHost(p schemas.Point) bool {
	w := d.env.UI.WindowFromPoint(p)
	return w != 0 && d.env.UI.IsHostWindow(d.env.UI.RootOwner(w))
}

// HandleKey runs the keyboard classifiers in order. Releases are never classified.
func (d *Dispatcher) HandleKey(ev schemas.KeyEventData) Result {
	if ev.Origin == d.marker || !ev.Pressed {
		return pass
	}
	mods := schemas.ReadModifiers(d.keys)

	for _, classify := range keyClassifiers {
		if dec := classify(&d.env, ev, mods); dec.Matched() {
			return d.settle(dec)
		}
	}
	return pass
}

// settle applies a matched decision and converts it to a Result. Failed actions are
// logged and skipped; the host's own handling is the fallback.
func (d *Dispatcher) settle(dec gesture.Decision) Result {
	if dec.ArmMenuSuppress {
		d.pendingMenuSuppress = true
	}
	for _, action := range dec.Actions {
		if err := action.Apply(d.env.Host, d.marker); err != nil {
			d.logger.Debug("Host action failed",
				zap.String("gesture", string(dec.Gesture)),
				zap.Stringer("action", action),
				zap.Error(err))
		}
	}

	d.logger.Debug("Gesture matched",
		zap.String("gesture", string(dec.Gesture)),
		zap.Stringer("outcome", dec.Outcome),
		zap.Int("actions", len(dec.Actions)),
		zap.Bool("menu_suppress_pending", d.pendingMenuSuppress))

	return Result{Consumed: dec.Outcome == gesture.Consume, Gesture: dec.Gesture}
}
