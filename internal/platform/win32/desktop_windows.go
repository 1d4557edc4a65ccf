//go:build windows

package win32

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/xkilldash9x/tabkeeper/api/schemas"
	"go.uber.org/zap"
	"golang.org/x/sys/windows"
)

const (
	gaRootOwner             = 3
	monitorDefaultToNearest = 2
	smtoAbortIfHung         = 0x0002
	sendMessageTimeoutMs    = 500
	keyDownBit              = 0x8000
	maxClassName            = 256
)

type guiThreadInfo struct {
	cbSize        uint32
	flags         uint32
	hwndActive    uintptr
	hwndFocus     uintptr
	hwndCapture   uintptr
	hwndMenuOwner uintptr
	hwndMoveSize  uintptr
	hwndCaret     uintptr
	rcCaret       rect
}

type monitorInfo struct {
	cbSize    uint32
	rcMonitor rect
	rcWork    rect
	dwFlags   uint32
}

// input mirrors INPUT with the MOUSEINPUT arm of the union; the keyboard arm is
// written over the same bytes.
type input struct {
	typ uint32
	mi  mouseInput
}

type mouseInput struct {
	dx, dy    int32
	mouseData uint32
	flags     uint32
	time      uint32
	extraInfo uintptr
}

type keybdInput struct {
	vk        uint16
	scan      uint16
	flags     uint32
	time      uint32
	extraInfo uintptr
}

// desktop answers window queries and executes commands against the live desktop.
type desktop struct {
	classPrefix string
	logger      *zap.Logger
}

// packPoint passes a POINT by value the way the platform ABI expects.
func packPoint(p schemas.Point) []uintptr {
	if unsafe.Sizeof(uintptr(0)) == 8 {
		return []uintptr{uintptr(uint32(p.X)) | uintptr(uint32(p.Y))<<32}
	}
	return []uintptr{uintptr(p.X), uintptr(p.Y)}
}

func (d *desktop) WindowFromPoint(p schemas.Point) schemas.WindowHandle {
	h, _, _ := procWindowFromPoint.Call(packPoint(p)...)
	return schemas.WindowHandle(h)
}

// FocusedWindow returns the focus window of the foreground thread. Low-level hooks
// run outside the host's process, so GetFocus would only see our own thread.
func (d *desktop) FocusedWindow() schemas.WindowHandle {
	gti := guiThreadInfo{}
	gti.cbSize = uint32(unsafe.Sizeof(gti))
	if r, _, _ := procGetGUIThreadInfo.Call(0, uintptr(unsafe.Pointer(&gti))); r == 0 {
		return 0
	}
	if gti.hwndFocus != 0 {
		return schemas.WindowHandle(gti.hwndFocus)
	}
	return schemas.WindowHandle(gti.hwndActive)
}

func (d *desktop) ForegroundWindow() schemas.WindowHandle {
	h, _, _ := procGetForegroundWindow.Call()
	return schemas.WindowHandle(h)
}

func (d *desktop) RootOwner(w schemas.WindowHandle) schemas.WindowHandle {
	h, _, _ := procGetAncestor.Call(uintptr(w), gaRootOwner)
	return schemas.WindowHandle(h)
}

func (d *desktop) IsHostWindow(w schemas.WindowHandle) bool {
	if w == 0 || d.classPrefix == "" {
		return false
	}
	buf := make([]uint16, maxClassName)
	n, _, _ := procGetClassNameW.Call(uintptr(w), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return false
	}
	return strings.HasPrefix(windows.UTF16ToString(buf[:n]), d.classPrefix)
}

func (d *desktop) IsFullScreen(w schemas.WindowHandle) bool {
	top := d.RootOwner(w)
	if top == 0 {
		return false
	}
	var wr rect
	if r, _, _ := procGetWindowRect.Call(uintptr(top), uintptr(unsafe.Pointer(&wr))); r == 0 {
		return false
	}
	mon, _, _ := procMonitorFromWindow.Call(uintptr(top), monitorDefaultToNearest)
	mi := monitorInfo{}
	mi.cbSize = uint32(unsafe.Sizeof(mi))
	if r, _, _ := procGetMonitorInfoW.Call(mon, uintptr(unsafe.Pointer(&mi))); r == 0 {
		return false
	}
	return coversMonitor(wr.toSchema(), mi.rcMonitor.toSchema())
}

// PointOnDialog and PointOnBookmark need the accessibility tree, which window
// handles alone do not expose.
func (d *desktop) PointOnDialog(schemas.WindowHandle, schemas.Point) bool   { return false }
func (d *desktop) PointOnBookmark(schemas.WindowHandle, schemas.Point) bool { return false }

func (d *desktop) IsPressed(vk schemas.VirtualKey) bool {
	r, _, _ := procGetAsyncKeyState.Call(uintptr(vk))
	return r&keyDownBit != 0
}

func (d *desktop) send(w schemas.WindowHandle, message uint32, wParam uintptr) error {
	var result uintptr
	r, _, err := procSendMessageTimeoutW.Call(
		uintptr(w), uintptr(message), wParam, 0,
		smtoAbortIfHung, sendMessageTimeoutMs, uintptr(unsafe.Pointer(&result)))
	if r == 0 {
		return fmt.Errorf("SendMessageTimeoutW(%#x, %#x): %w", uintptr(w), message, err)
	}
	return nil
}

func (d *desktop) ExecuteHostCommand(id schemas.CommandID, w schemas.WindowHandle) error {
	if err := d.send(w, wmSysCommand, uintptr(id)); err != nil {
		return fmt.Errorf("host command %s: %w", id, err)
	}
	return nil
}

func (d *desktop) CancelInputCapture(w schemas.WindowHandle) error {
	return d.send(w, wmCancelMode, 0)
}

func (d *desktop) SynthesizeInput(chord schemas.Chord, marker schemas.OriginMarker) error {
	steps := expandChord(chord)
	if len(steps) == 0 {
		return nil
	}

	inputs := make([]input, len(steps))
	for i, step := range steps {
		if flags := step.mouseFlags(); flags != 0 {
			inputs[i].typ = inputMouse
			inputs[i].mi = mouseInput{flags: flags, extraInfo: uintptr(marker)}
			continue
		}
		inputs[i].typ = inputKeyboard
		ki := (*keybdInput)(unsafe.Pointer(&inputs[i].mi))
		ki.vk = uint16(step.Key)
		ki.extraInfo = uintptr(marker)
		if step.Up {
			ki.flags = keyEventfKeyUp
		}
	}

	sent, _, err := procSendInput.Call(uintptr(len(inputs)), uintptr(unsafe.Pointer(&inputs[0])), unsafe.Sizeof(input{}))
	if int(sent) != len(inputs) {
		return fmt.Errorf("SendInput sent %d of %d events: %w", sent, len(inputs), err)
	}
	d.logger.Debug("Input synthesized", zap.Int("events", len(inputs)), zap.Uintptr("marker", uintptr(marker)))
	return nil
}
