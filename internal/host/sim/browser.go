// Package sim is an in-memory model of a tabbed browser. It answers every UI query,
// executes host commands, tracks physical key state and reproduces the host's own
// reaction to input that reaches it, including the delay between a tab close and
// the tab leaving the tab count.
//
// A Browser is driven from a single goroutine, like the hook it stands in for.
package sim

import (
	"fmt"
	"strings"
	"time"

	"github.com/xkilldash9x/tabkeeper/api/schemas"
)

// NewTabURL is the address of a freshly opened tab.
const NewTabURL = "chrome://newtab/"

const (
	// TopWindow is the browser frame.
	TopWindow schemas.WindowHandle = 0x1000
	// ForeignWindow is a window of some other application.
	ForeignWindow schemas.WindowHandle = 0x9000

	// DefaultClassName is the frame's window class.
	DefaultClassName = "Chrome_WidgetWin_1"
	// DefaultClassPrefix is the class family IsHostWindow accepts.
	DefaultClassPrefix = "Chrome_WidgetWin_"
)

// Layout in screen coordinates. The frame sits at the origin.
const (
	WindowWidth  = 1280
	WindowHeight = 800

	stripBottom      = 40
	TabWidth         = 160
	CloseButtonWidth = 20
	toolbarBottom    = 80
	bookmarkBottom   = 110
	BookmarkWidth    = 120
)

var (
	windowRect   = schemas.Rect{Left: 0, Top: 0, Right: WindowWidth, Bottom: WindowHeight}
	stripRect    = schemas.Rect{Left: 0, Top: 0, Right: WindowWidth, Bottom: stripBottom}
	omniboxRect  = schemas.Rect{Left: 80, Top: stripBottom, Right: WindowWidth - 80, Bottom: toolbarBottom}
	findBarRect  = schemas.Rect{Left: WindowWidth - 400, Top: bookmarkBottom, Right: WindowWidth, Bottom: bookmarkBottom + 40}
	contentPoint = schemas.Point{X: WindowWidth / 2, Y: WindowHeight / 2}
)

// Tab is one tab of the window.
type Tab struct {
	ID  int
	URL string

	closing bool
	closeAt time.Time
}

// Bookmark is one item of the bookmark bar.
type Bookmark struct {
	Title string `yaml:"title" json:"title"`
	URL   string `yaml:"url" json:"url"`
}

// Setup describes the initial browser state.
type Setup struct {
	Tabs         []string      `yaml:"tabs"`
	Active       int           `yaml:"active"`
	Bookmarks    []Bookmark    `yaml:"bookmarks"`
	OmniboxText  string        `yaml:"omnibox_text"`
	CloseLatency time.Duration `yaml:"close_latency"`
	ClassName    string        `yaml:"class_name"`
}

// Browser is the simulated host.
type Browser struct {
	now          time.Time
	closeLatency time.Duration
	className    string
	classPrefix  string

	tabs      []*Tab
	active    *Tab
	nextID    int
	bookmarks []Bookmark

	open           bool
	closing        bool
	fullScreen     bool
	findBarOpen    bool
	omniboxFocused bool
	omniboxText    string
	menuOpen       bool

	contextMenus   int
	captureCancels int
	commands       []schemas.CommandID

	keys   map[schemas.VirtualKey]bool
	cursor schemas.Point
	synth  []schemas.InputEvent
}

// NewBrowser builds a browser from setup. An empty tab list opens one new tab.
func NewBrowser(setup Setup, start time.Time) (*Browser, error) {
	b := &Browser{
		now:          start,
		closeLatency: setup.CloseLatency,
		className:    setup.ClassName,
		classPrefix:  DefaultClassPrefix,
		bookmarks:    setup.Bookmarks,
		omniboxText:  setup.OmniboxText,
		open:         true,
		keys:         make(map[schemas.VirtualKey]bool),
	}
	if b.className == "" {
		b.className = DefaultClassName
	}
	if b.closeLatency < 0 {
		return nil, fmt.Errorf("close latency must not be negative (got %s)", b.closeLatency)
	}

	urls := setup.Tabs
	if len(urls) == 0 {
		urls = []string{NewTabURL}
	}
	for _, u := range urls {
		b.appendTab(u)
	}
	if setup.Active < 0 || setup.Active >= len(b.tabs) {
		return nil, fmt.Errorf("active tab %d out of range [0,%d)", setup.Active, len(b.tabs))
	}
	b.active = b.tabs[setup.Active]
	return b, nil
}

// Now is the browser's clock. The dispatcher shares it.
func (b *Browser) Now() time.Time { return b.now }

// Advance moves the clock forward and lets pending closes finish.
func (b *Browser) Advance(d time.Duration) {
	if d > 0 {
		b.now = b.now.Add(d)
	}
	b.settle()
}

func (b *Browser) appendTab(url string) *Tab {
	b.nextID++
	t := &Tab{ID: b.nextID, URL: url}
	b.tabs = append(b.tabs, t)
	return t
}

// live returns the tabs that are not on their way out.
func (b *Browser) live() []*Tab {
	out := make([]*Tab, 0, len(b.tabs))
	for _, t := range b.tabs {
		if !t.closing {
			out = append(out, t)
		}
	}
	return out
}

func (b *Browser) indexOf(t *Tab, in []*Tab) int {
	for i, x := range in {
		if x == t {
			return i
		}
	}
	return -1
}

// closeTab starts closing t. Closing the last live tab closes the window once the
// latency has passed.
func (b *Browser) closeTab(t *Tab) {
	if t == nil || t.closing || !b.open {
		return
	}
	live := b.live()
	i := b.indexOf(t, live)
	t.closing = true
	t.closeAt = b.now.Add(b.closeLatency)

	if t == b.active {
		b.active = nil
		switch {
		case i+1 < len(live):
			b.active = live[i+1]
		case i > 0:
			b.active = live[i-1]
		}
	}
	if b.active == nil {
		b.closing = true
	}
	b.settle()
}

// settle removes tabs whose close has completed.
func (b *Browser) settle() {
	kept := b.tabs[:0]
	for _, t := range b.tabs {
		if t.closing && !b.now.Before(t.closeAt) {
			continue
		}
		kept = append(kept, t)
	}
	b.tabs = kept
	if b.closing && len(b.tabs) == 0 {
		b.open = false
		b.closing = false
		b.menuOpen = false
	}
}

// -- schemas.WindowQuery --

func (b *Browser) WindowFromPoint(p schemas.Point) schemas.WindowHandle {
	if b.open && windowRect.Contains(p) {
		return TopWindow
	}
	return ForeignWindow
}

func (b *Browser) FocusedWindow() schemas.WindowHandle {
	if !b.open {
		return ForeignWindow
	}
	return TopWindow
}

func (b *Browser) ForegroundWindow() schemas.WindowHandle { return b.FocusedWindow() }

func (b *Browser) RootOwner(w schemas.WindowHandle) schemas.WindowHandle { return w }

// ClassName returns the window class of w.
func (b *Browser) ClassName(w schemas.WindowHandle) string {
	if w == TopWindow && b.open {
		return b.className
	}
	return "Notepad"
}

// SetHostClassPrefix sets the class prefix IsHostWindow matches against.
func (b *Browser) SetHostClassPrefix(prefix string) { b.classPrefix = prefix }

func (b *Browser) IsHostWindow(w schemas.WindowHandle) bool {
	return b.classPrefix != "" && strings.HasPrefix(b.ClassName(w), b.classPrefix)
}

func (b *Browser) IsFullScreen(w schemas.WindowHandle) bool {
	return w == TopWindow && b.open && b.fullScreen
}

func (b *Browser) PointOnDialog(w schemas.WindowHandle, p schemas.Point) bool {
	return w == TopWindow && b.findBarOpen && findBarRect.Contains(p)
}

func (b *Browser) PointOnBookmark(w schemas.WindowHandle, p schemas.Point) bool {
	return w == TopWindow && b.bookmarkAt(p) >= 0
}

// -- schemas.TabQuery --

// LocateTabContainer fails while the find bar is open or the frame is full screen,
// the two states in which the real tab strip drops out of the accessibility tree.
func (b *Browser) LocateTabContainer(w schemas.WindowHandle) (schemas.ContainerHandle, error) {
	switch {
	case w != TopWindow || !b.open:
		return 0, fmt.Errorf("window %#x has no tab strip: %w", uintptr(w), schemas.ErrLookupFailed)
	case b.findBarOpen:
		return 0, fmt.Errorf("tab strip hidden by find bar: %w", schemas.ErrLookupFailed)
	case b.fullScreen:
		return 0, fmt.Errorf("tab strip hidden in full screen: %w", schemas.ErrLookupFailed)
	}
	return schemas.ContainerHandle(TopWindow), nil
}

// TabCount includes tabs that are still animating closed.
func (b *Browser) TabCount(c schemas.ContainerHandle) int {
	if c != schemas.ContainerHandle(TopWindow) || !b.open {
		return 0
	}
	return len(b.tabs)
}

func (b *Browser) PointInTabStrip(c schemas.ContainerHandle, p schemas.Point) bool {
	return c == schemas.ContainerHandle(TopWindow) && b.open && stripRect.Contains(p)
}

func (b *Browser) PointOnTab(c schemas.ContainerHandle, p schemas.Point) bool {
	return c == schemas.ContainerHandle(TopWindow) && b.tabAt(p) != nil
}

func (b *Browser) PointOnTabCloseButton(c schemas.ContainerHandle, p schemas.Point) bool {
	if c != schemas.ContainerHandle(TopWindow) || b.tabAt(p) == nil {
		return false
	}
	return p.X%TabWidth >= TabWidth-CloseButtonWidth
}

func (b *Browser) IsNewTabAffordance(c schemas.ContainerHandle) bool {
	return c == schemas.ContainerHandle(TopWindow) && b.active != nil && b.active.URL == NewTabURL
}

func (b *Browser) OmniboxHasFocus(c schemas.ContainerHandle) bool {
	return c == schemas.ContainerHandle(TopWindow) && b.omniboxFocused
}

// -- geometry --

// tabAt returns the tab drawn under p. Closing tabs keep their slot until removed.
func (b *Browser) tabAt(p schemas.Point) *Tab {
	if !b.open || !stripRect.Contains(p) || p.X < 0 {
		return nil
	}
	i := int(p.X / TabWidth)
	if i >= len(b.tabs) {
		return nil
	}
	return b.tabs[i]
}

func (b *Browser) bookmarkAt(p schemas.Point) int {
	if !b.open || p.Y < toolbarBottom || p.Y >= bookmarkBottom || p.X < 0 {
		return -1
	}
	i := int(p.X / BookmarkWidth)
	if i >= len(b.bookmarks) {
		return -1
	}
	return i
}

// TabPoint is the centre of tab i's body, clear of its close button.
func TabPoint(i int) schemas.Point {
	return schemas.Point{X: int32(i*TabWidth + (TabWidth-CloseButtonWidth)/2), Y: stripBottom / 2}
}

// TabClosePoint is the centre of tab i's close button.
func TabClosePoint(i int) schemas.Point {
	return schemas.Point{X: int32((i+1)*TabWidth - CloseButtonWidth/2), Y: stripBottom / 2}
}

// StripPoint is an empty spot of the tab strip.
func StripPoint() schemas.Point {
	return schemas.Point{X: WindowWidth - 10, Y: stripBottom / 2}
}

// BookmarkPoint is the centre of bookmark i.
func BookmarkPoint(i int) schemas.Point {
	return schemas.Point{X: int32(i*BookmarkWidth + BookmarkWidth/2), Y: (toolbarBottom + bookmarkBottom) / 2}
}

// OmniboxPoint is inside the address box.
func OmniboxPoint() schemas.Point {
	return schemas.Point{X: (omniboxRect.Left + omniboxRect.Right) / 2, Y: (omniboxRect.Top + omniboxRect.Bottom) / 2}
}

// FindBarPoint is inside the find bar.
func FindBarPoint() schemas.Point {
	return schemas.Point{X: (findBarRect.Left + findBarRect.Right) / 2, Y: (findBarRect.Top + findBarRect.Bottom) / 2}
}

// ContentPoint is inside the page.
func ContentPoint() schemas.Point { return contentPoint }

// -- state for scripts and assertions --

// OpenFindBar shows the find bar.
func (b *Browser) OpenFindBar() { b.findBarOpen = b.open }

// SetFullScreen enters or leaves full screen.
func (b *Browser) SetFullScreen(on bool) { b.fullScreen = on && b.open }

// FocusOmnibox moves keyboard focus into the address box.
func (b *Browser) FocusOmnibox(text string) {
	b.omniboxFocused = b.open
	if text != "" {
		b.omniboxText = text
	}
}

// Snapshot is the observable browser state.
type Snapshot struct {
	Tabs           int      `json:"tabs"`
	LiveTabs       int      `json:"live_tabs"`
	Active         int      `json:"active"`
	ActiveURL      string   `json:"active_url"`
	URLs           []string `json:"urls"`
	WindowOpen     bool     `json:"window_open"`
	FullScreen     bool     `json:"full_screen"`
	FindBarOpen    bool     `json:"find_bar_open"`
	MenuOpen       bool     `json:"menu_open"`
	ContextMenus   int      `json:"context_menus"`
	CaptureCancels int      `json:"capture_cancels"`
}

// Snapshot captures the current state.
func (b *Browser) Snapshot() Snapshot {
	live := b.live()
	s := Snapshot{
		Tabs:           len(b.tabs),
		LiveTabs:       len(live),
		Active:         -1,
		WindowOpen:     b.open,
		FullScreen:     b.fullScreen,
		FindBarOpen:    b.findBarOpen,
		MenuOpen:       b.menuOpen,
		ContextMenus:   b.contextMenus,
		CaptureCancels: b.captureCancels,
	}
	for _, t := range live {
		s.URLs = append(s.URLs, t.URL)
	}
	if b.active != nil {
		s.Active = b.indexOf(b.active, live)
		s.ActiveURL = b.active.URL
	}
	return s
}

// Commands returns the host commands executed so far.
func (b *Browser) Commands() []schemas.CommandID {
	return append([]schemas.CommandID(nil), b.commands...)
}
