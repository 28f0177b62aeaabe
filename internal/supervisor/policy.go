package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/meshworks/rnode/internal/event"
)

// shouldRestart applies the configured policy to an unexpected exit.
func shouldRestart(policy RestartPolicy, code int) bool {
	switch policy {
	case PolicyNever:
		return false
	case PolicyOnFailure:
		return code != 0
	default:
		return true
	}
}

// scheduleRestart decides whether to relaunch a failed service and, if so,
// waits the restart delay and launches it again. The restart counter resets
// once the window since the previous restart has elapsed; when the max is
// reached within the window the service is abandoned in the failed state
// and a single max_restarts event is emitted.
func (s *Supervisor) scheduleRestart(ctx context.Context, m *managedService, code int) {
	if !shouldRestart(s.opts.Policy, code) {
		return
	}
	name := m.desc.Name
	attempt, allowed := m.nextRestart(time.Now(), s.opts.RestartWindow, s.opts.MaxRestarts)
	if !allowed {
		s.emit(event.Event{Kind: event.KindMaxRestarts, Service: name})
		slog.Error("service hit max restarts, giving up", "name", name, "max", s.opts.MaxRestarts)
		return
	}
	slog.Info("restarting service", "name", name, "attempt", attempt)
	if !sleepCtx(ctx, s.opts.RestartDelay) {
		return
	}
	if !s.active.Load() {
		return
	}
	s.launch(ctx, m)
}
