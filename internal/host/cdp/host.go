// Package cdp reads tab state from, and manages tabs of, a browser exposing the
// Chrome DevTools Protocol. It answers the tab-level UI queries when the desktop
// has no accessibility source for them and can execute tab commands in place of
// window messages.
//
// The protocol cannot see which tab is focused. The active tab is the one the
// backend last created or activated, or the first listed tab when that one is
// gone. Strip geometry is estimated from the frame bounds.
package cdp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/tabkeeper/api/schemas"
)

const (
	// DefaultTimeout bounds each protocol round trip. Queries run inside the input
	// hook, which the OS abandons after a few hundred milliseconds.
	DefaultTimeout = 100 * time.Millisecond
	// DefaultMaxAge lets the queries of one input event share a tab listing. It
	// matches the shortest gap the keep-last-tab heuristic acts on, so a second
	// close always sees a fresh count.
	DefaultMaxAge = 50 * time.Millisecond
)

var (
	// ErrCommandUnsupported is returned for host commands the protocol cannot perform.
	ErrCommandUnsupported = errors.New("command not available over devtools")
	// ErrNoActiveTab means the browser lists no tab to act on.
	ErrNoActiveTab = errors.New("no active tab")
)

// Options configures a Host.
type Options struct {
	Timeout time.Duration
	// MaxAge is how long a tab listing is reused. Zero relists on every query.
	MaxAge time.Duration
	Clock  func() time.Time
	Logger *zap.Logger
}

// Host is a schemas.TabQuery and a host-command executor backed by a DevTools
// connection. It is safe for concurrent use.
type Host struct {
	client  Client
	base    context.Context
	timeout time.Duration
	maxAge  time.Duration
	now     func() time.Time
	logger  *zap.Logger
	close   func()

	mu       sync.Mutex
	listedAt time.Time
	order    []target.ID
	urls     map[target.ID]string
	windows  map[target.ID]browser.WindowID
	bounds   map[browser.WindowID]*browser.Bounds
	active   target.ID
}

// Dial connects to the DevTools endpoint at url (an http:// discovery address or
// a ws:// browser socket). The connection lives until ctx is done or Close is called.
func Dial(ctx context.Context, url string, opts Options) (*Host, error) {
	allocCtx, allocCancel := chromedp.NewRemoteAllocator(ctx, url)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	cancel := func() {
		browserCancel()
		allocCancel()
	}

	client, err := connect(browserCtx)
	if err != nil {
		cancel()
		return nil, err
	}
	h := New(browserCtx, client, opts)
	h.close = cancel
	return h, nil
}

// New builds a Host over an established client. Every protocol call derives its
// context from base.
func New(base context.Context, client Client, opts Options) *Host {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Host{
		client:  client,
		base:    base,
		timeout: opts.Timeout,
		maxAge:  opts.MaxAge,
		now:     opts.Clock,
		logger:  opts.Logger.Named("cdp"),
		close:   func() {},
		urls:    make(map[target.ID]string),
		windows: make(map[target.ID]browser.WindowID),
		bounds:  make(map[browser.WindowID]*browser.Bounds),
	}
}

// Close drops the connection. Tabs are left as they are.
func (h *Host) Close() { h.close() }

func (h *Host) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(h.base, h.timeout)
}

// fresh reports whether the last listing is young enough to reuse. h.mu must be held.
func (h *Host) fresh() bool {
	return h.maxAge > 0 && !h.listedAt.IsZero() && h.now().Sub(h.listedAt) < h.maxAge
}

// refresh re-lists the tabs, unless the last listing is still fresh, and learns
// the frame of any tab seen for the first time. h.mu must be held.
func (h *Host) refresh(ctx context.Context) error {
	if h.fresh() {
		return nil
	}
	infos, err := h.client.Targets(ctx)
	if err != nil {
		return fmt.Errorf("list targets: %w", err)
	}
	h.order = orderTabs(h.order, infos)

	clear(h.urls)
	for _, info := range infos {
		if isTab(info) {
			h.urls[info.TargetID] = info.URL
		}
	}
	for id := range h.windows {
		if _, ok := h.urls[id]; !ok {
			delete(h.windows, id)
		}
	}
	if _, ok := h.urls[h.active]; !ok {
		h.active = ""
		if len(h.order) > 0 {
			h.active = h.order[0]
		}
	}

	for _, id := range h.order {
		if _, ok := h.windows[id]; ok {
			continue
		}
		w, b, err := h.client.WindowForTarget(ctx, id)
		if err != nil {
			return fmt.Errorf("window of target %s: %w", id, err)
		}
		h.windows[id] = w
		h.bounds[w] = b
	}
	h.listedAt = h.now()
	return nil
}

// tabsIn returns the tabs of frame w in strip order. h.mu must be held.
func (h *Host) tabsIn(w browser.WindowID) []target.ID {
	var out []target.ID
	for _, id := range h.order {
		if h.windows[id] == w {
			out = append(out, id)
		}
	}
	return out
}

// -- schemas.TabQuery --

// LocateTabContainer maps any window to the frame holding the active tab. The
// container is unreachable while that frame is full screen.
func (h *Host) LocateTabContainer(w schemas.WindowHandle) (schemas.ContainerHandle, error) {
	ctx, cancel := h.opContext()
	defer cancel()
	h.mu.Lock()
	defer h.mu.Unlock()

	cached := h.fresh()
	if err := h.refresh(ctx); err != nil {
		return 0, fmt.Errorf("window %#x: %w: %w", uintptr(w), schemas.ErrLookupFailed, err)
	}
	if h.active == "" {
		return 0, fmt.Errorf("window %#x: %w: %w", uintptr(w), schemas.ErrLookupFailed, ErrNoActiveTab)
	}
	frame, known := h.windows[h.active]
	b := h.bounds[frame]
	if !cached || !known || b == nil {
		var err error
		frame, b, err = h.client.WindowForTarget(ctx, h.active)
		if err != nil {
			return 0, fmt.Errorf("window %#x: %w: %w", uintptr(w), schemas.ErrLookupFailed, err)
		}
		h.windows[h.active] = frame
		h.bounds[frame] = b
	}
	if b != nil && b.WindowState == browser.WindowStateFullscreen {
		return 0, fmt.Errorf("frame %d is full screen: %w", frame, schemas.ErrLookupFailed)
	}
	return schemas.ContainerHandle(frame), nil
}

// TabCount reads a listing at most MaxAge old, so a close the browser has not
// finished yet is still counted. A failed listing reports zero.
func (h *Host) TabCount(c schemas.ContainerHandle) int {
	ctx, cancel := h.opContext()
	defer cancel()
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.refresh(ctx); err != nil {
		h.logger.Debug("Tab count unavailable", zap.Error(err))
		return 0
	}
	return len(h.tabsIn(browser.WindowID(c)))
}

func (h *Host) layout(c schemas.ContainerHandle) stripLayout {
	h.mu.Lock()
	defer h.mu.Unlock()
	w := browser.WindowID(c)
	return newStripLayout(h.bounds[w], len(h.tabsIn(w)))
}

func (h *Host) PointInTabStrip(c schemas.ContainerHandle, p schemas.Point) bool {
	return h.layout(c).inStrip(p)
}

func (h *Host) PointOnTab(c schemas.ContainerHandle, p schemas.Point) bool {
	_, ok := h.layout(c).tabAt(p)
	return ok
}

func (h *Host) PointOnTabCloseButton(c schemas.ContainerHandle, p schemas.Point) bool {
	return h.layout(c).onCloseButton(p)
}

func (h *Host) IsNewTabAffordance(c schemas.ContainerHandle) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active == "" || h.windows[h.active] != browser.WindowID(c) {
		return false
	}
	return isNewTabPage(h.urls[h.active])
}

// OmniboxHasFocus is always false: browser UI focus is not observable over the protocol.
func (h *Host) OmniboxHasFocus(schemas.ContainerHandle) bool { return false }

// -- host commands --

// ExecuteHostCommand performs a tab command on the active tab's frame. The window
// handle only appears in errors; the protocol has no notion of native windows.
func (h *Host) ExecuteHostCommand(id schemas.CommandID, w schemas.WindowHandle) error {
	ctx, cancel := h.opContext()
	defer cancel()
	h.mu.Lock()
	defer h.mu.Unlock()

	if id == schemas.CmdCloseFindOrStop {
		return fmt.Errorf("command %s: %w", id, ErrCommandUnsupported)
	}
	// Commands act on a fresh listing and change the tabs they act on.
	h.listedAt = time.Time{}
	defer func() { h.listedAt = time.Time{} }()
	if err := h.refresh(ctx); err != nil {
		return fmt.Errorf("command %s to window %#x: %w", id, uintptr(w), err)
	}
	if h.active == "" {
		return fmt.Errorf("command %s: %w", id, ErrNoActiveTab)
	}
	frame := h.windows[h.active]
	tabs := h.tabsIn(frame)

	switch id {
	case schemas.CmdNewTab:
		tab, err := h.client.CreateTarget(ctx, NewTabURL)
		if err != nil {
			return fmt.Errorf("open new tab: %w", err)
		}
		h.order = append(h.order, tab)
		h.urls[tab] = NewTabURL
		h.windows[tab] = frame
		h.active = tab

	case schemas.CmdCloseTab:
		next := successor(tabs, h.active)
		if err := h.closeTab(ctx, h.active); err != nil {
			return err
		}
		h.active = next

	case schemas.CmdSelectNextTab, schemas.CmdSelectPreviousTab:
		step := 1
		if id == schemas.CmdSelectPreviousTab {
			step = -1
		}
		next, ok := cycle(tabs, h.active, step)
		if !ok {
			return nil
		}
		if err := h.client.ActivateTarget(ctx, next); err != nil {
			return fmt.Errorf("activate tab %s: %w", next, err)
		}
		h.active = next

	case schemas.CmdFullscreen:
		b := h.bounds[frame]
		state := browser.WindowStateFullscreen
		if b != nil && b.WindowState == browser.WindowStateFullscreen {
			state = browser.WindowStateNormal
		}
		if err := h.client.SetWindowState(ctx, frame, state); err != nil {
			return fmt.Errorf("set frame %d %s: %w", frame, state, err)
		}
		if b != nil {
			b.WindowState = state
		}

	case schemas.CmdCloseOtherTabs:
		for _, tab := range tabs {
			if tab == h.active {
				continue
			}
			if err := h.closeTab(ctx, tab); err != nil {
				return err
			}
		}

	default:
		return fmt.Errorf("command %s: %w", id, ErrCommandUnsupported)
	}

	h.logger.Debug("Executed host command",
		zap.Stringer("command", id),
		zap.String("active", string(h.active)),
		zap.Int("tabs", len(h.tabsIn(frame))))
	return nil
}

// closeTab asks the browser to close a tab. It stays listed, and counted, until
// the browser drops it. h.mu must be held.
func (h *Host) closeTab(ctx context.Context, id target.ID) error {
	if err := h.client.CloseTarget(ctx, id); err != nil {
		return fmt.Errorf("close tab %s: %w", id, err)
	}
	return nil
}
