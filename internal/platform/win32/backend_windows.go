//go:build windows

package win32

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"
	"unsafe"

	"github.com/xkilldash9x/tabkeeper/api/schemas"
	"github.com/xkilldash9x/tabkeeper/internal/hook"
	"go.uber.org/zap"
	"golang.org/x/sys/windows"
)

const (
	whKeyboardLL  = 13
	whMouseLL     = 14
	hcAction      = 0
	smCxDoubleClk = 36
	smCyDoubleClk = 37
	pmNoRemove    = 0x0000
)

type msllHookStruct struct {
	pt        point
	mouseData uint32
	flags     uint32
	time      uint32
	extraInfo uintptr
}

type kbdllHookStruct struct {
	vkCode    uint32
	scanCode  uint32
	flags     uint32
	time      uint32
	extraInfo uintptr
}

type msg struct {
	hwnd    uintptr
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      point
	private uint32
}

var errLoopEnded = errors.New("win32: message loop ended before shutdown")

// Open loads user32 and returns the desktop collaborators.
func Open(opts Options) (*Session, error) {
	if err := user32.Load(); err != nil {
		return nil, fmt.Errorf("load user32: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	d := &desktop{classPrefix: opts.ClassPrefix, logger: opts.Logger.Named("win32")}
	return &Session{
		Windows:  d,
		Keys:     d,
		Commands: d,
		Backend:  &backend{opts: opts, logger: opts.Logger.Named("win32.hook")},
	}, nil
}

type backend struct {
	opts   Options
	logger *zap.Logger
}

// Run installs the low-level hooks on a locked OS thread and pumps its message
// queue until ctx ends.
func (b *backend) Run(ctx context.Context, chain *hook.Chain) error {
	loop := func(ctx context.Context, started chan<- uint32) error {
		return b.loop(ctx, chain, started)
	}
	return superviseLoop(ctx, loop, postQuit)
}

func postQuit(tid uint32) error {
	if r, _, err := procPostThreadMessageW.Call(uintptr(tid), wmQuit, 0, 0); r == 0 {
		return fmt.Errorf("post WM_QUIT to hook thread %d: %w", tid, err)
	}
	return nil
}

func (b *backend) loop(ctx context.Context, chain *hook.Chain, threadID chan<- uint32) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	r := &relay{chain: chain, now: time.Now}
	if b.opts.Mouse {
		dblTime, _, _ := procGetDoubleClickTime.Call()
		cx, _, _ := procGetSystemMetrics.Call(smCxDoubleClk)
		cy, _, _ := procGetSystemMetrics.Call(smCyDoubleClk)
		r.clicks = newDoubleClickTracker(time.Duration(dblTime)*time.Millisecond, int32(cx), int32(cy))
	}

	module, _, _ := procGetModuleHandleW.Call(0)
	var installed []uintptr
	defer func() {
		for _, h := range installed {
			_, _, _ = procUnhookWindowsHookEx.Call(h)
		}
		b.logger.Info("Input hooks removed", zap.Int("count", len(installed)))
	}()

	install := func(id int, name string, proc func(code, wParam, lParam uintptr) uintptr) error {
		h, _, err := procSetWindowsHookExW.Call(uintptr(id), windows.NewCallback(proc), module, 0)
		if h == 0 {
			return fmt.Errorf("install %s hook: %w", name, err)
		}
		installed = append(installed, h)
		return nil
	}

	if b.opts.Mouse {
		err := install(whMouseLL, "mouse", func(code, wParam, lParam uintptr) uintptr {
			if int32(code) == hcAction {
				info := (*msllHookStruct)(unsafe.Pointer(lParam))
				pt := schemas.Point{X: info.pt.x, Y: info.pt.y}
				if r.mouse(uint32(wParam), pt, info.mouseData, info.extraInfo) {
					return 1
				}
			}
			ret, _, _ := procCallNextHookEx.Call(0, code, wParam, lParam)
			return ret
		})
		if err != nil {
			return err
		}
	}
	if b.opts.Keyboard {
		err := install(whKeyboardLL, "keyboard", func(code, wParam, lParam uintptr) uintptr {
			if int32(code) == hcAction {
				info := (*kbdllHookStruct)(unsafe.Pointer(lParam))
				if r.key(uint32(wParam), info.vkCode, info.extraInfo) {
					return 1
				}
			}
			ret, _, _ := procCallNextHookEx.Call(0, code, wParam, lParam)
			return ret
		})
		if err != nil {
			return err
		}
	}

	var m msg
	// PostThreadMessageW fails until the thread owns a message queue.
	_, _, _ = procPeekMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, wmUser, wmUser, pmNoRemove)
	if ctx.Err() != nil {
		return nil
	}
	threadID <- windows.GetCurrentThreadId()
	b.logger.Info("Input hooks installed",
		zap.Bool("mouse", b.opts.Mouse),
		zap.Bool("keyboard", b.opts.Keyboard))

	// Hook callbacks are invoked from inside GetMessageW.
	for {
		ret, _, err := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		switch int32(ret) {
		case 0:
			if ctx.Err() != nil {
				return nil
			}
			return errLoopEnded
		case -1:
			return fmt.Errorf("GetMessageW: %w", err)
		}
	}
}
