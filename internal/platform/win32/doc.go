// Package win32 implements the hook backend and the window, key-state and command
// collaborators on top of user32. The decoding of hook payloads, the chord to
// SendInput expansion and double-click synthesis are portable and tested on every
// platform; the syscalls live in the _windows.go files.
package win32
