package win32

import (
	"github.com/xkilldash9x/tabkeeper/api/schemas"
	"github.com/xkilldash9x/tabkeeper/internal/hook"
	"go.uber.org/zap"
)

// Options selects which hooks to install and how host windows are recognised.
type Options struct {
	Mouse    bool
	Keyboard bool
	// ClassPrefix is the window-class prefix shared by the host's windows.
	ClassPrefix string
	Logger      *zap.Logger
}

// Session is everything the desktop provides: window-level queries, live key
// state, host commands through window messages and SendInput, and the hook
// backend that feeds a chain.
type Session struct {
	Windows  schemas.WindowQuery
	Keys     schemas.KeyboardState
	Commands schemas.Commander
	Backend  hook.Backend
}
