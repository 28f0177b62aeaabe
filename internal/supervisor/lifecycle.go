package supervisor

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/meshworks/rnode/internal/event"
)

// launch spawns the service's process and attaches the output readers and
// the exit watcher. Launch failures never propagate: the service moves to
// failed and an error event is emitted, so the startup sequence can carry
// on with independent services.
func (s *Supervisor) launch(ctx context.Context, m *managedService) {
	name := m.desc.Name
	m.setState(StateStarting)
	s.emitState(name, StateStarting)

	for _, f := range m.desc.RequiredFiles {
		if _, err := os.Stat(f); err != nil {
			s.failLaunch(m, "required file missing: "+f)
			return
		}
	}

	// #nosec G204 -- descriptor commands come from the planner, not user input
	cmd := exec.Command(m.desc.Command[0], m.desc.Command[1:]...)
	cmd.Dir = m.desc.WorkDir
	cmd.Env = mergedEnv(m.desc.Env)
	cmd.SysProcAttr = sysProcAttr()

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		s.failLaunch(m, err.Error())
		return
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		s.failLaunch(m, err.Error())
		return
	}
	if err := cmd.Start(); err != nil {
		s.failLaunch(m, err.Error())
		return
	}

	var outW, errW io.WriteCloser
	if s.opts.CaptureWriters != nil {
		if outW, errW, err = s.opts.CaptureWriters(name); err != nil {
			slog.Warn("output capture unavailable", "name", name, "error", err)
		}
	}
	m.markStarted(cmd, outW, errW)
	m.setState(StateRunning)
	s.emitState(name, StateRunning)
	slog.Info("service started", "name", name, "pid", cmd.Process.Pid)

	m.readers.Add(2)
	go s.readOutput(m, stdout, "stdout", outW)
	go s.readOutput(m, stderr, "stderr", errW)
	go s.watch(ctx, m)
}

func (s *Supervisor) failLaunch(m *managedService, detail string) {
	name := m.desc.Name
	m.setState(StateFailed)
	s.emitState(name, StateFailed)
	s.emit(event.Event{Kind: event.KindError, Service: name, Detail: detail})
	slog.Error("failed to start service", "name", name, "error", detail)
}

// readOutput forwards each captured line as an output event tagged with the
// stream name and tees it into the rotating capture writer when configured.
func (s *Supervisor) readOutput(m *managedService, r io.Reader, stream string, w io.Writer) {
	defer m.readers.Done()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 256*1024)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		if w != nil {
			_, _ = w.Write([]byte(line + "\n"))
		}
		s.emit(event.Event{Kind: event.KindOutput, Service: m.desc.Name, Detail: line, Stream: stream})
	}
}

// watch reaps the process. During shutdown the exit is expected and the
// stop path owns all state transitions; otherwise the service moves to
// failed, the exit is reported, and the restart policy is applied.
func (s *Supervisor) watch(ctx context.Context, m *managedService) {
	m.mu.Lock()
	cmd := m.cmd
	m.mu.Unlock()
	// Drain both pipes before Wait, as os/exec requires.
	m.readers.Wait()
	err := cmd.Wait()
	code := exitCode(err)
	m.closeWriters()
	m.markExited()

	if !s.active.Load() {
		return
	}

	name := m.desc.Name
	m.setState(StateFailed)
	s.emitState(name, StateFailed)
	s.emit(event.Event{Kind: event.KindExit, Service: name, Code: code, Detail: "exit code " + strconv.Itoa(code)})
	slog.Warn("service exited", "name", name, "code", code)

	s.scheduleRestart(ctx, m, code)
}

// stopService requests graceful termination of the service's process group
// and escalates to SIGKILL after the grace period. It always waits for the
// watcher to confirm death before declaring the service stopped. Services
// without a live process keep their terminal state.
func (s *Supervisor) stopService(m *managedService, grace time.Duration) {
	if m == nil {
		return
	}
	pid, done, ok := m.liveProcess()
	if !ok {
		return
	}
	name := m.desc.Name
	m.setState(StateStopping)
	s.emitState(name, StateStopping)
	terminateGroup(pid)
	select {
	case <-done:
	case <-time.After(grace):
		slog.Warn("service did not exit in grace period, killing", "name", name, "grace", grace)
		killGroup(pid)
		<-done
	}
	m.setState(StateStopped)
	s.emitState(name, StateStopped)
	slog.Info("service stopped", "name", name)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return -1
}

// mergedEnv overlays the descriptor's environment on the supervisor's own;
// descriptor values win on key collision. A nil result inherits the parent
// environment untouched.
func mergedEnv(overrides map[string]string) []string {
	if len(overrides) == 0 {
		return nil
	}
	out := make([]string, 0, len(os.Environ())+len(overrides))
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			if _, ok := overrides[kv[:i]]; ok {
				continue
			}
		}
		out = append(out, kv)
	}
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, k+"="+overrides[k])
	}
	return out
}
