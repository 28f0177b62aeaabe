// Package rnode exposes the supervision engine for embedding: define
// service descriptors, start them in dependency order, observe lifecycle
// events, and stop everything in reverse order.
package rnode

import (
	"github.com/meshworks/rnode/internal/event"
	"github.com/meshworks/rnode/internal/health"
	"github.com/meshworks/rnode/internal/resolver"
	"github.com/meshworks/rnode/internal/service"
	"github.com/meshworks/rnode/internal/supervisor"
)

// Re-export core types for external consumers.
// These are aliases so conversions are zero-cost.

type Descriptor = service.Descriptor

type Check = health.Check

type Event = event.Event

type EventKind = event.Kind

type State = supervisor.State

type RestartPolicy = supervisor.RestartPolicy

type Options = supervisor.Options

type ServiceStatus = supervisor.ServiceStatus

const (
	StateStopped  = supervisor.StateStopped
	StateStarting = supervisor.StateStarting
	StateRunning  = supervisor.StateRunning
	StateStopping = supervisor.StateStopping
	StateFailed   = supervisor.StateFailed

	RestartNever     = supervisor.PolicyNever
	RestartOnFailure = supervisor.PolicyOnFailure
	RestartAlways    = supervisor.PolicyAlways
)

// TCPCheck probes plain TCP connectivity to host:port.
func TCPCheck(host string, port int) Check { return health.TCPCheck(host, port) }

// ReplyCheck probes a line-oriented control port by sending probe and
// expecting a reply line.
func ReplyCheck(host string, port int, probe string) Check {
	return health.ReplyCheck(host, port, probe)
}

// Order returns descs sorted into dependency order without starting
// anything.
func Order(descs []Descriptor) ([]Descriptor, error) { return resolver.Order(descs) }

// Supervisor is a thin facade over the internal supervision engine.
type Supervisor struct{ inner *supervisor.Supervisor }

func New(opts Options) *Supervisor {
	return &Supervisor{inner: supervisor.New(opts)}
}

func (s *Supervisor) OnEvent(cb func(Event))           { s.inner.OnEvent(cb) }
func (s *Supervisor) StartServices(d []Descriptor) error { return s.inner.StartServices(d) }
func (s *Supervisor) StopAll()                         { s.inner.StopAll() }
func (s *Supervisor) Active() bool                     { return s.inner.Active() }
func (s *Supervisor) Status() map[string]ServiceStatus { return s.inner.Status() }
func (s *Supervisor) StartOrder() []string             { return s.inner.StartOrder() }
