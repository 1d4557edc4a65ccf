package sim

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/tabkeeper/api/schemas"
	"github.com/xkilldash9x/tabkeeper/internal/dispatch"
	"github.com/xkilldash9x/tabkeeper/internal/hook"
)

// maxSynthesizedPerStep bounds the feedback between synthesized input and the
// chain. A well-behaved dispatcher never re-synthesizes from marked input.
const maxSynthesizedPerStep = 64

// Epoch is where the replay clock starts.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Record is the outcome of one delivered event or one assertion.
type Record struct {
	Step      int                `json:"step"`
	Elapsed   time.Duration      `json:"elapsed_ns"`
	Kind      string             `json:"kind"`
	Event     schemas.InputEvent `json:"event,omitempty"`
	Synthetic bool               `json:"synthetic,omitempty"`
	Consumed  bool               `json:"consumed"`
	Gesture   string             `json:"gesture,omitempty"`
	State     Snapshot           `json:"state"`
	Failures  []string           `json:"failures,omitempty"`
}

// Summary totals a replay.
type Summary struct {
	Script   string `json:"script"`
	Events   int    `json:"events"`
	Consumed int    `json:"consumed"`
	Failures int    `json:"failures"`
}

// Runner replays a script through a hook chain and a dispatcher wired to a
// simulated browser.
type Runner struct {
	script     *Script
	browser    *Browser
	chain      *hook.Chain
	dispatcher *dispatch.Dispatcher
	logger     *zap.Logger

	last     dispatch.Result
	lastReal *dispatch.Result
}

// NewRunner builds the browser described by script and registers a dispatcher for
// it. classPrefix identifies host windows for the keyboard gestures.
func NewRunner(script *Script, classPrefix string, logger *zap.Logger) (*Runner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	b, err := NewBrowser(script.Browser, Epoch)
	if err != nil {
		return nil, fmt.Errorf("script %q: %w", script.Name, err)
	}
	b.SetHostClassPrefix(classPrefix)

	r := &Runner{
		script:  script,
		browser: b,
		logger:  logger.Named("replay"),
	}
	r.dispatcher = dispatch.New(script.Settings, b, b, b,
		dispatch.WithClock(b.Now),
		dispatch.WithLogger(logger.Named("dispatch")))
	r.chain = hook.NewChain(b.Native, logger)
	if _, err := r.chain.Register(hook.ConsumerFunc(func(ev schemas.InputEvent) bool {
		r.last = r.dispatcher.Handle(ev)
		return r.last.Consumed
	})); err != nil {
		return nil, err
	}
	return r, nil
}

// Browser exposes the simulated host.
func (r *Runner) Browser() *Browser { return r.browser }

// Dispatcher exposes the dispatcher under test.
func (r *Runner) Dispatcher() *dispatch.Dispatcher { return r.dispatcher }

// Run replays every step, handing each record to emit. Assertion failures are
// recorded and counted, not returned as errors.
func (r *Runner) Run(ctx context.Context, emit func(Record) error) (Summary, error) {
	sum := Summary{Script: r.script.Name}
	for i, st := range r.script.Steps {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		r.browser.Advance(st.After)

		var records []Record
		switch {
		case st.Mouse != nil:
			p, err := st.Mouse.At.Resolve()
			if err != nil {
				return sum, fmt.Errorf("step %d: %w", i, err)
			}
			ev := schemas.MouseEventData{Type: st.Mouse.Type, Button: st.Mouse.Button, Point: p, WheelDelta: st.Mouse.WheelDelta}
			recs, err := r.deliver(i, ev)
			if err != nil {
				return sum, err
			}
			records = recs
		case st.Key != nil:
			vk, err := ParseKey(st.Key.Key)
			if err != nil {
				return sum, fmt.Errorf("step %d: %w", i, err)
			}
			for _, down := range keyTransitions(st.Key.Action) {
				recs, err := r.deliver(i, schemas.KeyEventData{VirtualKey: vk, Pressed: down})
				if err != nil {
					return sum, err
				}
				records = append(records, recs...)
			}
		case st.Do != "":
			r.apply(st)
			records = []Record{r.record(i, "do", nil)}
		case st.Expect != nil:
			rec := r.record(i, "expect", nil)
			rec.Failures = r.check(*st.Expect)
			records = []Record{rec}
		}

		for _, rec := range records {
			if rec.Kind == "event" {
				sum.Events++
				if rec.Consumed {
					sum.Consumed++
				}
			}
			sum.Failures += len(rec.Failures)
			if emit != nil {
				if err := emit(rec); err != nil {
					return sum, fmt.Errorf("emit step %d: %w", i, err)
				}
			}
		}
	}
	r.logger.Debug("Replay finished",
		zap.String("script", sum.Script),
		zap.Int("events", sum.Events),
		zap.Int("failures", sum.Failures))
	return sum, nil
}

func keyTransitions(action string) []bool {
	switch action {
	case "down":
		return []bool{true}
	case "up":
		return []bool{false}
	default:
		return []bool{true, false}
	}
}

// deliver sends a real event through the chain, then drains whatever the dispatcher
// synthesized in response through the same chain.
func (r *Runner) deliver(step int, ev schemas.InputEvent) ([]Record, error) {
	first := r.offer(step, ev, false)
	res := r.last
	r.lastReal = &res

	records := []Record{first}
	for n := 0; ; {
		queued := r.browser.TakeSynthesized()
		if len(queued) == 0 {
			return records, nil
		}
		for _, syn := range queued {
			if n++; n > maxSynthesizedPerStep {
				return records, fmt.Errorf("step %d: more than %d synthesized events", step, maxSynthesizedPerStep)
			}
			records = append(records, r.offer(step, syn, true))
		}
	}
}

func (r *Runner) offer(step int, ev schemas.InputEvent, synthetic bool) Record {
	r.last = dispatch.Result{}
	if m, ok := ev.(schemas.MouseEventData); ok {
		r.browser.MoveCursor(m.Point)
	}
	consumed := r.chain.Deliver(ev)
	r.browser.Track(ev)

	rec := r.record(step, "event", ev)
	rec.Synthetic = synthetic
	rec.Consumed = consumed
	rec.Gesture = string(r.last.Gesture)
	return rec
}

func (r *Runner) apply(st Step) {
	switch st.Do {
	case DoOpenFindBar:
		r.browser.OpenFindBar()
	case DoEnterFullScreen:
		r.browser.SetFullScreen(true)
	case DoFocusOmnibox:
		r.browser.FocusOmnibox(st.Text)
	}
}

func (r *Runner) record(step int, kind string, ev schemas.InputEvent) Record {
	return Record{
		Step:    step,
		Elapsed: r.browser.Now().Sub(Epoch),
		Kind:    kind,
		Event:   ev,
		State:   r.browser.Snapshot(),
	}
}

func (r *Runner) check(e Expect) []string {
	s := r.browser.Snapshot()
	var failures []string
	fail := func(what string, want, got any) {
		failures = append(failures, fmt.Sprintf("%s: want %v, got %v", what, want, got))
	}

	if e.Tabs != nil && *e.Tabs != s.Tabs {
		fail("tabs", *e.Tabs, s.Tabs)
	}
	if e.LiveTabs != nil && *e.LiveTabs != s.LiveTabs {
		fail("live_tabs", *e.LiveTabs, s.LiveTabs)
	}
	if e.ActiveURL != nil && *e.ActiveURL != s.ActiveURL {
		fail("active_url", *e.ActiveURL, s.ActiveURL)
	}
	if e.WindowOpen != nil && *e.WindowOpen != s.WindowOpen {
		fail("window_open", *e.WindowOpen, s.WindowOpen)
	}
	if e.ContextMenus != nil && *e.ContextMenus != s.ContextMenus {
		fail("context_menus", *e.ContextMenus, s.ContextMenus)
	}
	if e.Consumed != nil || e.Gesture != nil {
		if r.lastReal == nil {
			failures = append(failures, "consumed/gesture: no input event delivered yet")
			return failures
		}
		if e.Consumed != nil && *e.Consumed != r.lastReal.Consumed {
			fail("consumed", *e.Consumed, r.lastReal.Consumed)
		}
		if e.Gesture != nil && *e.Gesture != string(r.lastReal.Gesture) {
			fail("gesture", *e.Gesture, string(r.lastReal.Gesture))
		}
	}
	return failures
}
