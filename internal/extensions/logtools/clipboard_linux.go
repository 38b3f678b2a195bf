//go:build linux

package logtools

import "errors"

// Write always fails: the clipboard library needs cgo and X11 on Linux.
func (SystemClipboard) Write(string) error {
	return errors.New("clipboard not available on this platform (Linux without X11)")
}
