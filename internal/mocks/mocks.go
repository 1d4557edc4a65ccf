// File: internal/mocks/mocks.go
package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/xkilldash9x/tabkeeper/api/schemas"
)

// -- UI Query Mock --

// MockUIQuery mocks schemas.UIQuery.
type MockUIQuery struct {
	mock.Mock
}

func (m *MockUIQuery) WindowFromPoint(p schemas.Point) schemas.WindowHandle {
	args := m.Called(p)
	return args.Get(0).(schemas.WindowHandle)
}

func (m *MockUIQuery) FocusedWindow() schemas.WindowHandle {
	args := m.Called()
	return args.Get(0).(schemas.WindowHandle)
}

func (m *MockUIQuery) ForegroundWindow() schemas.WindowHandle {
	args := m.Called()
	return args.Get(0).(schemas.WindowHandle)
}

func (m *MockUIQuery) RootOwner(w schemas.WindowHandle) schemas.WindowHandle {
	args := m.Called(w)
	return args.Get(0).(schemas.WindowHandle)
}

func (m *MockUIQuery) IsHostWindow(w schemas.WindowHandle) bool {
	args := m.Called(w)
	return args.Bool(0)
}

func (m *MockUIQuery) IsFullScreen(w schemas.WindowHandle) bool {
	args := m.Called(w)
	return args.Bool(0)
}

func (m *MockUIQuery) PointOnDialog(w schemas.WindowHandle, p schemas.Point) bool {
	args := m.Called(w, p)
	return args.Bool(0)
}

func (m *MockUIQuery) PointOnBookmark(w schemas.WindowHandle, p schemas.Point) bool {
	args := m.Called(w, p)
	return args.Bool(0)
}

func (m *MockUIQuery) LocateTabContainer(w schemas.WindowHandle) (schemas.ContainerHandle, error) {
	args := m.Called(w)
	return args.Get(0).(schemas.ContainerHandle), args.Error(1)
}

func (m *MockUIQuery) TabCount(c schemas.ContainerHandle) int {
	args := m.Called(c)
	return args.Int(0)
}

func (m *MockUIQuery) PointInTabStrip(c schemas.ContainerHandle, p schemas.Point) bool {
	args := m.Called(c, p)
	return args.Bool(0)
}

func (m *MockUIQuery) PointOnTab(c schemas.ContainerHandle, p schemas.Point) bool {
	args := m.Called(c, p)
	return args.Bool(0)
}

func (m *MockUIQuery) PointOnTabCloseButton(c schemas.ContainerHandle, p schemas.Point) bool {
	args := m.Called(c, p)
	return args.Bool(0)
}

func (m *MockUIQuery) IsNewTabAffordance(c schemas.ContainerHandle) bool {
	args := m.Called(c)
	return args.Bool(0)
}

func (m *MockUIQuery) OmniboxHasFocus(c schemas.ContainerHandle) bool {
	args := m.Called(c)
	return args.Bool(0)
}

// -- Commander Mock --

// MockCommander mocks schemas.Commander.
type MockCommander struct {
	mock.Mock
}

func (m *MockCommander) ExecuteHostCommand(id schemas.CommandID, w schemas.WindowHandle) error {
	args := m.Called(id, w)
	return args.Error(0)
}

func (m *MockCommander) SynthesizeInput(chord schemas.Chord, marker schemas.OriginMarker) error {
	args := m.Called(chord, marker)
	return args.Error(0)
}

func (m *MockCommander) CancelInputCapture(w schemas.WindowHandle) error {
	args := m.Called(w)
	return args.Error(0)
}

// -- Keyboard State Mock --

// MockKeyboardState mocks schemas.KeyboardState.
type MockKeyboardState struct {
	mock.Mock
}

func (m *MockKeyboardState) IsPressed(vk schemas.VirtualKey) bool {
	args := m.Called(vk)
	if rf, ok := args.Get(0).(func(schemas.VirtualKey) bool); ok {
		return rf(vk)
	}
	return args.Bool(0)
}

// KeysUp returns a keyboard state with nothing held.
func KeysUp() *MockKeyboardState {
	return KeysHeld()
}

// KeysHeld returns a keyboard state reporting exactly the given codes as pressed.
func KeysHeld(held ...schemas.VirtualKey) *MockKeyboardState {
	ks := new(MockKeyboardState)
	pressed := make(map[schemas.VirtualKey]bool, len(held))
	for _, vk := range held {
		pressed[vk] = true
	}
	ks.On("IsPressed", mock.Anything).Return(func(vk schemas.VirtualKey) bool {
		return pressed[vk]
	})
	return ks
}
