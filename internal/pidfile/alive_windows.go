//go:build windows

package pidfile

import (
	"os"
	"syscall"
)

// Alive reports whether pid names a live process. FindProcess succeeds for
// any pid on Windows, so the result of Signal decides.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return p.Signal(syscall.Signal(0)) == nil
}
