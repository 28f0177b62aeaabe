package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/meshworks/rnode/internal/event"
	"github.com/meshworks/rnode/internal/resolver"
	"github.com/meshworks/rnode/internal/service"
)

// ErrAlreadyStarted is returned by StartServices on a supervisor that is
// already supervising a batch.
var ErrAlreadyStarted = errors.New("supervisor already started")

// Supervisor owns the runtime state of every managed service. It launches
// them in dependency order, watches each for exit, applies the restart
// policy, scans health periodically, and stops everything in reverse start
// order on shutdown. All mutation of the runtime table happens here;
// external consumers see events and status snapshots only.
type Supervisor struct {
	opts Options
	bus  *event.Bus

	mu       sync.Mutex
	services map[string]*managedService
	order    []string
	cancel   context.CancelFunc

	active atomic.Bool
	bg     sync.WaitGroup
}

func New(opts Options) *Supervisor {
	return &Supervisor{
		opts:     opts.withDefaults(),
		bus:      event.NewBus(),
		services: make(map[string]*managedService),
	}
}

// OnEvent registers an observer for every lifecycle event. Delivery is
// synchronous and panic-isolated per observer.
func (s *Supervisor) OnEvent(cb event.Callback) { s.bus.Subscribe(cb) }

// Active reports whether the supervisor is between StartServices and
// StopAll. While false, process exits are treated as expected.
func (s *Supervisor) Active() bool { return s.active.Load() }

// StartServices validates the batch, resolves dependency order, and
// launches the services one at a time. A service whose dependency failed to
// start is marked failed without being launched. After the last launch the
// periodic health scan starts in the background.
//
// Configuration errors (duplicate names, dangling references, cycles) are
// returned before anything is launched.
func (s *Supervisor) StartServices(descs []service.Descriptor) error {
	if err := service.Validate(descs); err != nil {
		return err
	}
	ordered, err := resolver.Order(descs)
	if err != nil {
		return err
	}
	if !s.active.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancel = cancel
	for _, d := range ordered {
		s.services[d.Name] = newManaged(d)
		s.order = append(s.order, d.Name)
	}
	s.mu.Unlock()

	for _, d := range ordered {
		m := s.lookup(d.Name)
		if dep := s.failedDependency(d); dep != "" {
			m.setState(StateFailed)
			s.emitState(d.Name, StateFailed)
			s.emit(event.Event{
				Kind:    event.KindError,
				Service: d.Name,
				Detail:  "dependency " + dep + " failed to start",
			})
			slog.Error("not launching service, dependency failed", "name", d.Name, "dependency", dep)
			continue
		}
		s.launch(ctx, m)
		s.awaitReady(ctx, m)
	}

	s.bg.Add(1)
	go s.healthLoop(ctx)
	return nil
}

// StopAll marks the supervisor inactive, cancels the health scan and any
// pending restarts, then stops services in the reverse of start order,
// waiting for each to die before signalling the next. Safe to call when
// some or all services already stopped, and idempotent.
func (s *Supervisor) StopAll() {
	if !s.active.CompareAndSwap(true, false) {
		return
	}
	s.mu.Lock()
	cancel := s.cancel
	order := append([]string(nil), s.order...)
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.bg.Wait()
	for i := len(order) - 1; i >= 0; i-- {
		s.stopService(s.lookup(order[i]), s.opts.StopGrace)
	}
}

// Status returns a snapshot of every service keyed by name. It never blocks
// on lifecycle transitions beyond the per-service mutex.
func (s *Supervisor) Status() map[string]ServiceStatus {
	s.mu.Lock()
	names := append([]string(nil), s.order...)
	s.mu.Unlock()
	out := make(map[string]ServiceStatus, len(names))
	for _, name := range names {
		if m := s.lookup(name); m != nil {
			out[name] = m.snapshot()
		}
	}
	return out
}

// StartOrder returns the resolved launch order of the current batch.
func (s *Supervisor) StartOrder() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

func (s *Supervisor) lookup(name string) *managedService {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.services[name]
}

// failedDependency returns the name of a direct dependency that did not
// reach running, or "". Transitive failures propagate because the order is
// processed front to back.
func (s *Supervisor) failedDependency(d service.Descriptor) string {
	for _, dep := range d.DependsOn {
		if m := s.lookup(dep); m != nil && m.State() == StateFailed {
			return dep
		}
	}
	return ""
}

// awaitReady paces the sequential startup. Services with a health check are
// polled until the check passes or ReadyTimeout elapses; the timeout is
// advisory, startup proceeds and the scan loop keeps reporting. Check-less
// services get the fixed StartPause so they can bind their port.
func (s *Supervisor) awaitReady(ctx context.Context, m *managedService) {
	if m.State() != StateRunning {
		return
	}
	if m.desc.Check == nil {
		sleepCtx(ctx, s.opts.StartPause)
		return
	}
	deadline := time.Now().Add(s.opts.ReadyTimeout)
	for time.Now().Before(deadline) && ctx.Err() == nil {
		cctx, cancel := context.WithTimeout(ctx, s.opts.HealthTimeout)
		ok, _ := m.desc.Check(cctx)
		cancel()
		if ok {
			return
		}
		if !sleepCtx(ctx, s.opts.ReadyPoll) {
			return
		}
	}
	slog.Warn("service not ready before timeout, continuing startup", "name", m.desc.Name)
}

// healthLoop sleeps the startup grace, then probes every running service
// that carries a check, once per interval. Results are advisory: they are
// emitted and logged but never change service state.
func (s *Supervisor) healthLoop(ctx context.Context) {
	defer s.bg.Done()
	if !sleepCtx(ctx, s.opts.StartupGrace) {
		return
	}
	for {
		s.mu.Lock()
		names := append([]string(nil), s.order...)
		s.mu.Unlock()
		for _, name := range names {
			m := s.lookup(name)
			if m == nil || m.desc.Check == nil || m.State() != StateRunning {
				continue
			}
			cctx, cancel := context.WithTimeout(ctx, s.opts.HealthTimeout)
			ok, err := m.desc.Check(cctx)
			cancel()
			if ctx.Err() != nil {
				return
			}
			switch {
			case err != nil:
				s.emit(event.Event{Kind: event.KindHealthError, Service: name, Detail: err.Error()})
				slog.Error("health check error", "name", name, "error", err)
			case !ok:
				s.emit(event.Event{Kind: event.KindUnhealthy, Service: name})
				slog.Warn("health check failed", "name", name)
			}
		}
		if !sleepCtx(ctx, s.opts.HealthInterval) {
			return
		}
	}
}

func (s *Supervisor) emit(e event.Event) { s.bus.Publish(e) }

func (s *Supervisor) emitState(name string, st State) {
	s.emit(event.Event{Kind: event.KindStateChange, Service: name, Detail: string(st)})
}

// sleepCtx waits d or until ctx is done; it reports whether the full wait
// elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
