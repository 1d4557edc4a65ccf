package win32

import "github.com/xkilldash9x/tabkeeper/api/schemas"

const (
	inputMouse    = 0
	inputKeyboard = 1

	keyEventfKeyUp = 0x0002

	mouseEventfLeftDown   = 0x0002
	mouseEventfLeftUp     = 0x0004
	mouseEventfRightDown  = 0x0008
	mouseEventfRightUp    = 0x0010
	mouseEventfMiddleDown = 0x0020
	mouseEventfMiddleUp   = 0x0040
)

// inputStep is one transition of a synthesized chord.
type inputStep struct {
	Key schemas.VirtualKey
	Up  bool
}

// expandChord presses every code in order and releases them in reverse.
func expandChord(chord schemas.Chord) []inputStep {
	steps := make([]inputStep, 0, 2*len(chord))
	for _, vk := range chord {
		steps = append(steps, inputStep{Key: vk})
	}
	for i := len(chord) - 1; i >= 0; i-- {
		steps = append(steps, inputStep{Key: chord[i], Up: true})
	}
	return steps
}

// mouseFlags returns the MOUSEEVENTF_* flag for a button transition, or 0 when the
// step is a keyboard key.
func (s inputStep) mouseFlags() uint32 {
	switch s.Key {
	case schemas.VKLButton:
		if s.Up {
			return mouseEventfLeftUp
		}
		return mouseEventfLeftDown
	case schemas.VKRButton:
		if s.Up {
			return mouseEventfRightUp
		}
		return mouseEventfRightDown
	case schemas.VKMButton:
		if s.Up {
			return mouseEventfMiddleUp
		}
		return mouseEventfMiddleDown
	}
	return 0
}
