//go:build windows

package supervisor

import (
	"os"
	"syscall"
)

const createNewProcessGroup = 0x00000200

// sysProcAttr starts each child in a new process group.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{CreationFlags: createNewProcessGroup}
}

// terminateGroup has no graceful equivalent on Windows; Kill is used for
// both stages of the stop escalation.
func terminateGroup(pid int) { killGroup(pid) }

func killGroup(pid int) {
	if p, err := os.FindProcess(pid); err == nil {
		_ = p.Kill()
	}
}
