package win32

import "errors"

// ErrUnsupportedPlatform is returned by every entry point on non-Windows builds.
var ErrUnsupportedPlatform = errors.New("win32: not supported on this platform")
