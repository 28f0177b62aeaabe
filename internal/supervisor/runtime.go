package supervisor

import (
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/meshworks/rnode/internal/service"
)

// managedService is the supervisor's live record of one service. The
// descriptor is immutable; everything else is guarded by mu and only
// mutated through the accessors below.
type managedService struct {
	desc service.Descriptor

	mu          sync.Mutex
	state       State
	cmd         *exec.Cmd
	done        chan struct{} // closed by watch once cmd.Wait returns
	startedAt   time.Time
	restarts    int
	lastRestart time.Time
	outW, errW  io.WriteCloser
	readers     sync.WaitGroup
}

func newManaged(d service.Descriptor) *managedService {
	return &managedService{desc: d, state: StateStopped}
}

func (m *managedService) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *managedService) setState(st State) {
	m.mu.Lock()
	m.state = st
	m.mu.Unlock()
}

// markStarted records a freshly spawned process.
func (m *managedService) markStarted(cmd *exec.Cmd, outW, errW io.WriteCloser) {
	m.mu.Lock()
	m.cmd = cmd
	m.done = make(chan struct{})
	m.startedAt = time.Now()
	m.outW, m.errW = outW, errW
	m.mu.Unlock()
}

// markExited drops the process handle and wakes stop waiters. Called
// exactly once per run, by the watcher, after the OS confirmed death.
func (m *managedService) markExited() {
	m.mu.Lock()
	m.cmd = nil
	if m.done != nil {
		close(m.done)
	}
	m.mu.Unlock()
}

// liveProcess returns the current pid and done channel, or ok=false when
// no process is attached.
func (m *managedService) liveProcess() (pid int, done chan struct{}, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cmd == nil || m.cmd.Process == nil {
		return 0, nil, false
	}
	return m.cmd.Process.Pid, m.done, true
}

func (m *managedService) closeWriters() {
	m.mu.Lock()
	outW, errW := m.outW, m.errW
	m.outW, m.errW = nil, nil
	m.mu.Unlock()
	if outW != nil {
		_ = outW.Close()
	}
	if errW != nil {
		_ = errW.Close()
	}
}

// Restart bookkeeping. The counter resets once the window since the last
// restart has elapsed; nextRestart reports whether another attempt is
// allowed under max (0 = unlimited) and records the attempt if so.
func (m *managedService) nextRestart(now time.Time, window time.Duration, max int) (attempt int, allowed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if window > 0 && !m.lastRestart.IsZero() && now.Sub(m.lastRestart) > window {
		m.restarts = 0
	}
	if max > 0 && m.restarts >= max {
		return m.restarts, false
	}
	m.restarts++
	m.lastRestart = now
	return m.restarts, true
}

func (m *managedService) restartCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.restarts
}

// snapshot builds a read-only status for external consumers.
func (m *managedService) snapshot() ServiceStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := ServiceStatus{
		Name:     m.desc.Name,
		State:    m.state,
		Restarts: m.restarts,
		Command:  m.desc.CommandLine(),
	}
	if m.cmd != nil && m.cmd.Process != nil {
		st.PID = m.cmd.Process.Pid
	}
	if m.state == StateRunning && !m.startedAt.IsZero() {
		st.UptimeSeconds = time.Since(m.startedAt).Seconds()
	}
	return st
}

// ServiceStatus is a point-in-time view of one service, safe to hand to
// observers and API consumers.
type ServiceStatus struct {
	Name          string  `json:"name"`
	State         State   `json:"state"`
	PID           int     `json:"pid,omitempty"`
	Restarts      int     `json:"restarts"`
	UptimeSeconds float64 `json:"uptime_seconds,omitempty"`
	Command       string  `json:"command"`
}
