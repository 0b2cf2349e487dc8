//go:build windows

package progress

import (
	"os"

	"golang.org/x/sys/windows"
)

// enableWindowsANSI turns on virtual terminal processing so mpb's cursor
// movement renders instead of printing raw escape codes.
func enableWindowsANSI(f *os.File) {
	handle := windows.Handle(f.Fd())
	var mode uint32

	if err := windows.GetConsoleMode(handle, &mode); err == nil {
		_ = windows.SetConsoleMode(handle, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING)
	}
}
