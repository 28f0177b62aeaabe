//go:build !windows

package pidfile

import "syscall"

// Alive reports whether pid names a live process. Signal 0 performs the
// existence check without delivering anything; EPERM still means alive.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	return err == nil || err == syscall.EPERM
}
