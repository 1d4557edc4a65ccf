package schemas

// -- Collaborator Interfaces --
//
// The dispatcher never talks to the operating system or the host directly. Every
// positional question and every side effect goes through one of these.

// WindowQuery answers window-level questions against the host's current window tree.
type WindowQuery interface {
	// WindowFromPoint returns the window under a screen point.
	WindowFromPoint(p Point) WindowHandle
	// FocusedWindow returns the window holding keyboard focus.
	FocusedWindow() WindowHandle
	// ForegroundWindow returns the active top-level window.
	ForegroundWindow() WindowHandle
	// RootOwner walks parent and owner links up to the top-level owning window.
	RootOwner(w WindowHandle) WindowHandle
	// IsHostWindow reports whether w belongs to the host's window-class family.
	IsHostWindow(w WindowHandle) bool
	IsFullScreen(w WindowHandle) bool
	// PointOnDialog reports whether a dialog (e.g. the find bar) covers p.
	PointOnDialog(w WindowHandle, p Point) bool
	PointOnBookmark(w WindowHandle, p Point) bool
}

// TabQuery answers questions about one window's tab container.
type TabQuery interface {
	// LocateTabContainer returns ErrLookupFailed (possibly wrapped) when w has no
	// reachable tab container, additionally wrapping ErrNoTabSource when no lookup
	// could ever succeed.
	LocateTabContainer(w WindowHandle) (ContainerHandle, error)
	TabCount(c ContainerHandle) int
	PointInTabStrip(c ContainerHandle, p Point) bool
	PointOnTab(c ContainerHandle, p Point) bool
	PointOnTabCloseButton(c ContainerHandle, p Point) bool
	// IsNewTabAffordance reports whether the container is showing the new-tab page.
	IsNewTabAffordance(c ContainerHandle) bool
	OmniboxHasFocus(c ContainerHandle) bool
}

// UIQuery is the complete UI query collaborator.
type UIQuery interface {
	WindowQuery
	TabQuery
}

// KeyboardState reports the live pressed state of keys and mouse buttons.
type KeyboardState interface {
	IsPressed(vk VirtualKey) bool
}

// Commander invokes host commands and synthesizes input.
type Commander interface {
	ExecuteHostCommand(id CommandID, w WindowHandle) error
	// SynthesizeInput injects chord with marker attached to every generated event.
	SynthesizeInput(chord Chord, marker OriginMarker) error
	// CancelInputCapture ends any capture or menu mode the host window is in.
	CancelInputCapture(w WindowHandle) error
}

type composedUI struct {
	WindowQuery
	TabQuery
}

// ComposeUI joins window-level and tab-level answers from different sources.
func ComposeUI(w WindowQuery, t TabQuery) UIQuery {
	return composedUI{WindowQuery: w, TabQuery: t}
}
