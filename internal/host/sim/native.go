package sim

import (
	"errors"
	"fmt"

	"github.com/xkilldash9x/tabkeeper/api/schemas"
)

// ErrWindowClosed is returned by commands aimed at a closed frame.
var ErrWindowClosed = errors.New("sim: browser window is closed")

// -- schemas.KeyboardState --

// IsPressed reports the physical state recorded by Press.
func (b *Browser) IsPressed(vk schemas.VirtualKey) bool { return b.keys[vk] }

// Press records a physical key or button transition.
func (b *Browser) Press(vk schemas.VirtualKey, down bool) {
	if down {
		b.keys[vk] = true
		return
	}
	delete(b.keys, vk)
}

// MoveCursor places the pointer. Synthesized mouse input lands there.
func (b *Browser) MoveCursor(p schemas.Point) { b.cursor = p }

// Track folds an event into the physical input state (cursor and held keys).
func (b *Browser) Track(ev schemas.InputEvent) {
	switch e := ev.(type) {
	case schemas.MouseEventData:
		b.cursor = e.Point
		if vk, ok := buttonKey(e.Button); ok {
			switch e.Type {
			case schemas.MousePress:
				b.Press(vk, true)
			case schemas.MouseRelease:
				b.Press(vk, false)
			}
		}
	case schemas.KeyEventData:
		b.Press(e.VirtualKey, e.Pressed)
	}
}

func buttonKey(btn schemas.MouseButton) (schemas.VirtualKey, bool) {
	switch btn {
	case schemas.ButtonLeft:
		return schemas.VKLButton, true
	case schemas.ButtonRight:
		return schemas.VKRButton, true
	case schemas.ButtonMiddle:
		return schemas.VKMButton, true
	}
	return 0, false
}

func keyButton(vk schemas.VirtualKey) schemas.MouseButton {
	switch vk {
	case schemas.VKLButton:
		return schemas.ButtonLeft
	case schemas.VKRButton:
		return schemas.ButtonRight
	default:
		return schemas.ButtonMiddle
	}
}

// -- schemas.Commander --

func (b *Browser) ExecuteHostCommand(id schemas.CommandID, w schemas.WindowHandle) error {
	if w != TopWindow {
		return fmt.Errorf("command %s to window %#x: %w", id, uintptr(w), schemas.ErrLookupFailed)
	}
	if !b.open {
		return fmt.Errorf("command %s: %w", id, ErrWindowClosed)
	}
	b.commands = append(b.commands, id)

	switch id {
	case schemas.CmdNewTab:
		b.active = b.appendTab(NewTabURL)
		b.closing = false
		b.omniboxFocused = true
	case schemas.CmdCloseTab:
		b.closeTab(b.active)
	case schemas.CmdSelectNextTab:
		b.cycle(1)
	case schemas.CmdSelectPreviousTab:
		b.cycle(-1)
	case schemas.CmdFullscreen:
		b.fullScreen = !b.fullScreen
	case schemas.CmdCloseOtherTabs:
		for _, t := range b.live() {
			if t != b.active {
				b.closeTab(t)
			}
		}
	case schemas.CmdCloseFindOrStop:
		b.findBarOpen = false
	default:
		return fmt.Errorf("command %d is not supported", int(id))
	}
	return nil
}

func (b *Browser) cycle(step int) {
	live := b.live()
	if len(live) == 0 || b.active == nil {
		return
	}
	i := b.indexOf(b.active, live)
	b.active = live[(i+step+len(live))%len(live)]
}

// SynthesizeInput queues the chord as marked events at the cursor. The queue is
// drained by whoever drives the browser, through the same hook chain as real input.
func (b *Browser) SynthesizeInput(chord schemas.Chord, marker schemas.OriginMarker) error {
	emit := func(vk schemas.VirtualKey, down bool) {
		if vk.IsMouseButton() {
			typ := schemas.MouseRelease
			if down {
				typ = schemas.MousePress
			}
			b.synth = append(b.synth, schemas.MouseEventData{Type: typ, Button: keyButton(vk), Point: b.cursor, Origin: marker})
			return
		}
		b.synth = append(b.synth, schemas.KeyEventData{VirtualKey: vk, Pressed: down, Origin: marker})
	}
	for _, vk := range chord {
		emit(vk, true)
	}
	for i := len(chord) - 1; i >= 0; i-- {
		emit(chord[i], false)
	}
	return nil
}

// CancelInputCapture ends capture mode; an open context menu is dismissed.
func (b *Browser) CancelInputCapture(w schemas.WindowHandle) error {
	if w != TopWindow {
		return fmt.Errorf("cancel capture on window %#x: %w", uintptr(w), schemas.ErrLookupFailed)
	}
	b.captureCancels++
	b.menuOpen = false
	return nil
}

// TakeSynthesized removes and returns the queued synthesized events.
func (b *Browser) TakeSynthesized() []schemas.InputEvent {
	out := b.synth
	b.synth = nil
	return out
}

// -- native behaviour --

// Native applies the host's own handling to an event that reached it. It is the
// next link of the hook chain.
func (b *Browser) Native(ev schemas.InputEvent) {
	if !b.open {
		return
	}
	switch e := ev.(type) {
	case schemas.MouseEventData:
		b.nativeMouse(e)
	case schemas.KeyEventData:
		if e.Pressed {
			b.nativeKey(e.VirtualKey)
		}
	}
}

func (b *Browser) nativeMouse(e schemas.MouseEventData) {
	switch {
	case e.Type == schemas.MousePress:
		b.menuOpen = false
		if e.Button == schemas.ButtonLeft {
			if t := b.tabAt(e.Point); t != nil && !t.closing {
				b.active = t
			}
			b.omniboxFocused = omniboxRect.Contains(e.Point)
		}

	case e.Is(schemas.MouseRelease, schemas.ButtonLeft):
		if t := b.tabAt(e.Point); t != nil && b.PointOnTabCloseButton(schemas.ContainerHandle(TopWindow), e.Point) {
			b.closeTab(t)
			return
		}
		if i := b.bookmarkAt(e.Point); i >= 0 {
			b.openBookmark(i, b.keys[schemas.VKControl], b.keys[schemas.VKShift])
		}

	case e.Is(schemas.MouseRelease, schemas.ButtonMiddle):
		if t := b.tabAt(e.Point); t != nil {
			b.closeTab(t)
			return
		}
		if i := b.bookmarkAt(e.Point); i >= 0 {
			b.openBookmark(i, true, b.keys[schemas.VKShift])
		}

	case e.Is(schemas.MouseRelease, schemas.ButtonRight), e.Type == schemas.ContextMenu:
		if windowRect.Contains(e.Point) {
			b.menuOpen = true
			b.contextMenus++
		}
	}
}

// openBookmark follows bookmark i. A new-tab click opens in the background unless
// Shift is held.
func (b *Browser) openBookmark(i int, newTab, foreground bool) {
	url := b.bookmarks[i].URL
	if !newTab {
		if b.active != nil {
			b.active.URL = url
		}
		return
	}
	t := b.appendTab(url)
	if foreground {
		b.active = t
	}
}

func (b *Browser) nativeKey(vk schemas.VirtualKey) {
	ctrl, shift, alt := b.keys[schemas.VKControl], b.keys[schemas.VKShift], b.keys[schemas.VKMenu]

	switch {
	case vk == schemas.VKW && ctrl && shift:
		for _, t := range b.live() {
			b.closeTab(t)
		}
	case (vk == schemas.VKW || vk == schemas.VKF4) && ctrl:
		b.closeTab(b.active)
	case vk == schemas.VKReturn && b.omniboxFocused && b.omniboxText != "":
		b.omniboxFocused = false
		if alt {
			t := b.appendTab(b.omniboxText)
			if !shift {
				b.active = t
			}
			return
		}
		if b.active != nil {
			b.active.URL = b.omniboxText
		}
	}
}
