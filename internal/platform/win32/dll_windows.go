//go:build windows

package win32

import (
	"github.com/xkilldash9x/tabkeeper/api/schemas"
	"golang.org/x/sys/windows"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procGetMessageW         = user32.NewProc("GetMessageW")
	procPeekMessageW        = user32.NewProc("PeekMessageW")
	procPostThreadMessageW  = user32.NewProc("PostThreadMessageW")
	procSendInput           = user32.NewProc("SendInput")
	procSendMessageTimeoutW = user32.NewProc("SendMessageTimeoutW")
	procGetAsyncKeyState    = user32.NewProc("GetAsyncKeyState")
	procWindowFromPoint     = user32.NewProc("WindowFromPoint")
	procGetGUIThreadInfo    = user32.NewProc("GetGUIThreadInfo")
	procGetForegroundWindow = user32.NewProc("GetForegroundWindow")
	procGetAncestor         = user32.NewProc("GetAncestor")
	procGetClassNameW       = user32.NewProc("GetClassNameW")
	procGetWindowRect       = user32.NewProc("GetWindowRect")
	procMonitorFromWindow   = user32.NewProc("MonitorFromWindow")
	procGetMonitorInfoW     = user32.NewProc("GetMonitorInfoW")
	procGetDoubleClickTime  = user32.NewProc("GetDoubleClickTime")
	procGetSystemMetrics    = user32.NewProc("GetSystemMetrics")
	procGetModuleHandleW    = kernel32.NewProc("GetModuleHandleW")
)

type point struct {
	x, y int32
}

type rect struct {
	left, top, right, bottom int32
}

func (r rect) toSchema() schemas.Rect {
	return schemas.Rect{Left: r.left, Top: r.top, Right: r.right, Bottom: r.bottom}
}
