package schemas

import "errors"

// -- Host Browser Schemas --

// WindowHandle identifies a top-level or child window of the host. Zero means none.
type WindowHandle uintptr

// ContainerHandle identifies the UI subtree holding one window's tabs.
type ContainerHandle uintptr

// CommandID is a host command identifier. The values match the host's own
// command table so they can be sent as window messages unchanged.
type CommandID int

const (
	CmdNewTab            CommandID = 34014
	CmdCloseTab          CommandID = 34015
	CmdSelectNextTab     CommandID = 34016
	CmdSelectPreviousTab CommandID = 34017
	CmdFullscreen        CommandID = 34030
	CmdCloseOtherTabs    CommandID = 35023
	CmdCloseFindOrStop   CommandID = 37003
)

var commandNames = map[CommandID]string{
	CmdNewTab:            "new_tab",
	CmdCloseTab:          "close_tab",
	CmdSelectNextTab:     "select_next_tab",
	CmdSelectPreviousTab: "select_previous_tab",
	CmdFullscreen:        "fullscreen",
	CmdCloseOtherTabs:    "close_other_tabs",
	CmdCloseFindOrStop:   "close_find_or_stop",
}

func (c CommandID) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "command_unknown"
}

// -- Error Taxonomy --

var (
	// ErrLookupFailed means a window, container, or point could not be resolved.
	ErrLookupFailed = errors.New("ui lookup failed")
	// ErrTransientUIMismatch means a resolved container went stale before it could be used.
	ErrTransientUIMismatch = errors.New("ui changed between query and action")
	// ErrNoTabSource means no tab state source is wired at all. Lookups failing with
	// it will never succeed, so callers skip any retry.
	ErrNoTabSource = errors.New("no tab state source configured")
)
