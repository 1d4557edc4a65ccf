package gesture

import (
	"fmt"

	"github.com/xkilldash9x/tabkeeper/api/schemas"
)

// Outcome is the verdict of one classifier.
type Outcome int

const (
	// NotApplicable means the gesture did not match; the next classifier runs.
	NotApplicable Outcome = iota
	// Consume means the gesture matched and the event must not reach the host.
	Consume
	// PassThrough means the gesture matched and acted, but the event must still
	// reach the host.
	PassThrough
)

func (o Outcome) String() string {
	switch o {
	case NotApplicable:
		return "not_applicable"
	case Consume:
		return "consume"
	case PassThrough:
		return "pass_through"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Name identifies a gesture family.
type Name string

const (
	None                 Name = ""
	WheelTabSwitch       Name = "wheel_tab_switch"
	MenuSuppress         Name = "menu_suppress"
	DoubleClickClose     Name = "double_click_close"
	RightClickClose      Name = "right_click_close"
	MiddleClickPreserve  Name = "middle_click_preserve"
	BookmarkNewTab       Name = "bookmark_new_tab"
	OpenURLNewTab        Name = "open_url_new_tab"
	CloseShortcutKeepTab Name = "close_shortcut_keep_tab"
)

// ActionKind selects which Commander method an Action maps to.
type ActionKind int

const (
	ActionCommand ActionKind = iota
	ActionSynthesize
	ActionCancelCapture
)

// Action is one side effect requested by a gesture.
type Action struct {
	Kind    ActionKind
	Command schemas.CommandID
	Window  schemas.WindowHandle
	Chord   schemas.Chord
}

// Command builds an action that runs a host command against w.
func Command(id schemas.CommandID, w schemas.WindowHandle) Action {
	return Action{Kind: ActionCommand, Command: id, Window: w}
}

// Synthesize builds an action that injects chord as marked input.
func Synthesize(chord ...schemas.VirtualKey) Action {
	return Action{Kind: ActionSynthesize, Chord: schemas.Chord(chord)}
}

// CancelCapture builds an action that ends the capture mode of w.
func CancelCapture(w schemas.WindowHandle) Action {
	return Action{Kind: ActionCancelCapture, Window: w}
}

// Apply performs the action through host, stamping synthesized input with marker.
func (a Action) Apply(host schemas.Commander, marker schemas.OriginMarker) error {
	switch a.Kind {
	case ActionCommand:
		return host.ExecuteHostCommand(a.Command, a.Window)
	case ActionSynthesize:
		return host.SynthesizeInput(a.Chord, marker)
	case ActionCancelCapture:
		return host.CancelInputCapture(a.Window)
	default:
		return fmt.Errorf("unknown action kind %d", a.Kind)
	}
}

func (a Action) String() string {
	switch a.Kind {
	case ActionCommand:
		return fmt.Sprintf("%s@%#x", a.Command, uintptr(a.Window))
	case ActionSynthesize:
		return fmt.Sprintf("synthesize%v", []schemas.VirtualKey(a.Chord))
	case ActionCancelCapture:
		return fmt.Sprintf("cancel_capture@%#x", uintptr(a.Window))
	default:
		return "action_unknown"
	}
}

// Decision is what a classifier returns.
type Decision struct {
	Outcome Outcome
	Gesture Name
	Actions []Action
	// ArmMenuSuppress asks the dispatcher to swallow the next right-button release.
	ArmMenuSuppress bool
}

// Matched reports whether the classifier recognised its gesture.
func (d Decision) Matched() bool { return d.Outcome != NotApplicable }

var notApplicable = Decision{Outcome: NotApplicable}

func consume(name Name, actions ...Action) Decision {
	return Decision{Outcome: Consume, Gesture: name, Actions: actions}
}

func passThrough(name Name, actions ...Action) Decision {
	return Decision{Outcome: PassThrough, Gesture: name, Actions: actions}
}

// keepTabActions replaces a close with "new tab, then close the others", which
// leaves exactly one fresh tab and keeps the window open.
func keepTabActions(w schemas.WindowHandle) []Action {
	return []Action{
		Command(schemas.CmdNewTab, w),
		Command(schemas.CmdCloseOtherTabs, w),
	}
}
