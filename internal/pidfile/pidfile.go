// Package pidfile records the supervisor's own PID on disk so a second
// invocation can refuse to start and the stop command can find the daemon.
package pidfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrAlreadyRunning is returned by Acquire when a live supervisor owns the
// PID file.
var ErrAlreadyRunning = errors.New("another instance is already running")

// Write stores pid at path, creating parent directories as needed.
func Write(path string, pid int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0o644)
}

// Read returns the PID stored at path.
func Read(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0, fmt.Errorf("malformed pid file %s: %w", path, err)
	}
	return pid, nil
}

// Remove deletes the PID file. A missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Acquire writes the current PID to path after checking for a live owner.
// A stale file left by a dead process is silently replaced; a file owned by
// a live process yields ErrAlreadyRunning with the owner's PID.
func Acquire(path string) error {
	if pid, err := Read(path); err == nil {
		if Alive(pid) {
			return fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, pid)
		}
	}
	return Write(path, os.Getpid())
}
