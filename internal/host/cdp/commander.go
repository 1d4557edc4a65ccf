package cdp

import (
	"errors"
	"fmt"

	"github.com/xkilldash9x/tabkeeper/api/schemas"
)

// ErrInputUnsupported is returned when input has to be synthesized and no
// desktop commander is available.
var ErrInputUnsupported = errors.New("input synthesis needs a desktop commander")

// routedCommander sends tab commands over the protocol and everything it cannot
// reach (input synthesis, capture, the find bar) to the desktop.
type routedCommander struct {
	host    *Host
	desktop schemas.Commander
}

// Commander combines the host with a desktop commander. desktop may be nil, in
// which case only tab commands succeed.
func (h *Host) Commander(desktop schemas.Commander) schemas.Commander {
	return routedCommander{host: h, desktop: desktop}
}

func (r routedCommander) ExecuteHostCommand(id schemas.CommandID, w schemas.WindowHandle) error {
	err := r.host.ExecuteHostCommand(id, w)
	if errors.Is(err, ErrCommandUnsupported) && r.desktop != nil {
		return r.desktop.ExecuteHostCommand(id, w)
	}
	return err
}

// SynthesizeInput always goes through the desktop: input dispatched over the
// protocol lands in the page and never reaches the tab strip or the omnibox.
func (r routedCommander) SynthesizeInput(chord schemas.Chord, marker schemas.OriginMarker) error {
	if r.desktop == nil {
		return fmt.Errorf("chord %v: %w", []schemas.VirtualKey(chord), ErrInputUnsupported)
	}
	return r.desktop.SynthesizeInput(chord, marker)
}

func (r routedCommander) CancelInputCapture(w schemas.WindowHandle) error {
	if r.desktop == nil {
		return fmt.Errorf("cancel capture on window %#x: %w", uintptr(w), ErrInputUnsupported)
	}
	return r.desktop.CancelInputCapture(w)
}
