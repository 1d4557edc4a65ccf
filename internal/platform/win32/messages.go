package win32

import "github.com/xkilldash9x/tabkeeper/api/schemas"

// Window messages seen by low-level hooks or sent to the host.
const (
	wmQuit       = 0x0012
	wmCancelMode = 0x001F
	wmKeyDown    = 0x0100
	wmKeyUp      = 0x0101
	wmSysKeyDown = 0x0104
	wmSysKeyUp   = 0x0105
	wmSysCommand = 0x0112
	wmUser       = 0x0400

	wmMouseMove     = 0x0200
	wmLButtonDown   = 0x0201
	wmLButtonUp     = 0x0202
	wmLButtonDblClk = 0x0203
	wmRButtonDown   = 0x0204
	wmRButtonUp     = 0x0205
	wmMButtonDown   = 0x0207
	wmMButtonUp     = 0x0208
	wmMouseWheel    = 0x020A
)

type mouseKind struct {
	typ    schemas.MouseEventType
	button schemas.MouseButton
}

var mouseMessages = map[uint32]mouseKind{
	wmMouseMove:     {schemas.MouseMove, schemas.ButtonNone},
	wmLButtonDown:   {schemas.MousePress, schemas.ButtonLeft},
	wmLButtonUp:     {schemas.MouseRelease, schemas.ButtonLeft},
	wmLButtonDblClk: {schemas.MouseDoubleClick, schemas.ButtonLeft},
	wmRButtonDown:   {schemas.MousePress, schemas.ButtonRight},
	wmRButtonUp:     {schemas.MouseRelease, schemas.ButtonRight},
	wmMButtonDown:   {schemas.MousePress, schemas.ButtonMiddle},
	wmMButtonUp:     {schemas.MouseRelease, schemas.ButtonMiddle},
	wmMouseWheel:    {schemas.MouseWheel, schemas.ButtonNone},
}

// decodeMouse converts a WH_MOUSE_LL payload. The wheel delta is the signed high
// word of mouseData. Unknown messages (X buttons, horizontal wheel) are dropped.
func decodeMouse(message uint32, pt schemas.Point, mouseData uint32, extra uintptr) (schemas.MouseEventData, bool) {
	kind, ok := mouseMessages[message]
	if !ok {
		return schemas.MouseEventData{}, false
	}
	ev := schemas.MouseEventData{
		Type:   kind.typ,
		Button: kind.button,
		Point:  pt,
		Origin: schemas.OriginMarker(extra),
	}
	if message == wmMouseWheel {
		ev.WheelDelta = int32(int16(mouseData >> 16))
	}
	return ev, true
}

// decodeKey converts a WH_KEYBOARD_LL payload. System-key variants (Alt held) map
// to the same transitions.
func decodeKey(message uint32, vk uint32, extra uintptr) (schemas.KeyEventData, bool) {
	var pressed bool
	switch message {
	case wmKeyDown, wmSysKeyDown:
		pressed = true
	case wmKeyUp, wmSysKeyUp:
	default:
		return schemas.KeyEventData{}, false
	}
	return schemas.KeyEventData{
		VirtualKey: schemas.VirtualKey(vk),
		Pressed:    pressed,
		Origin:     schemas.OriginMarker(extra),
	}, true
}
