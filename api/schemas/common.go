package schemas

// -- Input Event Schemas --

// InputEvent is a raw input event delivered by the platform hook. It is implemented
// by MouseEventData and KeyEventData only.
type InputEvent interface {
	// EventOrigin returns the marker attached to the event by whoever produced it.
	EventOrigin() OriginMarker
	isInputEvent()
}

// OriginMarker tags an input event with its producer. Genuine user input carries
// the zero value.
type OriginMarker uintptr

// SyntheticOrigin is stamped onto every event produced by a Commander so the
// dispatcher can recognise and ignore its own output.
const SyntheticOrigin OriginMarker = 0x7AB5EE9

// Point is a position in screen coordinates.
type Point struct {
	X int32 `json:"x" yaml:"x"`
	Y int32 `json:"y" yaml:"y"`
}

// Rect is an axis-aligned screen rectangle. Right and Bottom are exclusive.
type Rect struct {
	Left   int32 `json:"left" yaml:"left"`
	Top    int32 `json:"top" yaml:"top"`
	Right  int32 `json:"right" yaml:"right"`
	Bottom int32 `json:"bottom" yaml:"bottom"`
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Right && p.Y >= r.Top && p.Y < r.Bottom
}

// MouseEventType defines the type of a mouse event.
type MouseEventType string

const (
	MouseMove        MouseEventType = "mouseMoved"
	MousePress       MouseEventType = "mousePressed"
	MouseRelease     MouseEventType = "mouseReleased"
	MouseDoubleClick MouseEventType = "mouseDoubleClicked"
	MouseWheel       MouseEventType = "mouseWheel"
	// ContextMenu is the host's request to open a context menu, delivered after a
	// right-button release by in-process hooks.
	ContextMenu MouseEventType = "contextMenu"
)

// MouseButton defines the mouse button an event refers to.
type MouseButton string

const (
	ButtonNone   MouseButton = "none"
	ButtonLeft   MouseButton = "left"
	ButtonRight  MouseButton = "right"
	ButtonMiddle MouseButton = "middle"
)

// MouseEventData encapsulates all data for a mouse event.
type MouseEventData struct {
	Type   MouseEventType `json:"type" yaml:"type"`
	Button MouseButton    `json:"button,omitempty" yaml:"button"`
	Point  Point          `json:"point" yaml:"point"`
	// WheelDelta is positive when the wheel rotates away from the user.
	WheelDelta int32        `json:"wheelDelta,omitempty" yaml:"wheel_delta"`
	Origin     OriginMarker `json:"origin,omitempty" yaml:"-"`
}

func (e MouseEventData) EventOrigin() OriginMarker { return e.Origin }
func (MouseEventData) isInputEvent()               {}

// Is reports whether the event is of type t for button b.
func (e MouseEventData) Is(t MouseEventType, b MouseButton) bool {
	return e.Type == t && e.Button == b
}

// KeyEventData represents a single virtual-key transition.
type KeyEventData struct {
	VirtualKey VirtualKey   `json:"vk" yaml:"vk"`
	Pressed    bool         `json:"pressed" yaml:"pressed"`
	Origin     OriginMarker `json:"origin,omitempty" yaml:"-"`
}

func (e KeyEventData) EventOrigin() OriginMarker { return e.Origin }
func (KeyEventData) isInputEvent()               {}

// VirtualKey is a Windows virtual-key code. Mouse buttons share the code space.
type VirtualKey uint16

const (
	VKLButton VirtualKey = 0x01
	VKRButton VirtualKey = 0x02
	VKMButton VirtualKey = 0x04
	VKReturn  VirtualKey = 0x0D
	VKShift   VirtualKey = 0x10
	VKControl VirtualKey = 0x11
	VKMenu    VirtualKey = 0x12 // Alt
	VKF4      VirtualKey = 0x73
	VKW       VirtualKey = 'W'
)

// IsMouseButton reports whether the code names a mouse button rather than a key.
func (k VirtualKey) IsMouseButton() bool {
	return k == VKLButton || k == VKRButton || k == VKMButton
}

// Modifiers is the modifier and button state sampled once per event.
type Modifiers struct {
	Shift       bool
	Control     bool
	Alt         bool
	RightButton bool
}

// ReadModifiers samples the modifier state from ks.
func ReadModifiers(ks KeyboardState) Modifiers {
	return Modifiers{
		Shift:       ks.IsPressed(VKShift),
		Control:     ks.IsPressed(VKControl),
		Alt:         ks.IsPressed(VKMenu),
		RightButton: ks.IsPressed(VKRButton),
	}
}

// Chord is an input sequence synthesized as a unit: every code is pressed in order
// and then released in reverse order.
type Chord []VirtualKey
