package event

import (
	"log/slog"
	"sync"
	"time"
)

// Kind enumerates the lifecycle event kinds a supervisor emits.
type Kind string

const (
	KindStateChange Kind = "state_change"
	KindExit        Kind = "exit"
	KindError       Kind = "error"
	KindOutput      Kind = "output"
	KindUnhealthy   Kind = "unhealthy"
	KindHealthError Kind = "health_error"
	KindMaxRestarts Kind = "max_restarts"
)

// Event is one lifecycle occurrence for a named service.
type Event struct {
	Kind    Kind      `json:"kind"`
	Service string    `json:"service"`
	// Detail carries the new state for state_change, the captured line for
	// output, and a human-readable message otherwise.
	Detail string `json:"detail,omitempty"`
	// Code is the OS exit code, set for exit events.
	Code int `json:"code,omitempty"`
	// Stream is "stdout" or "stderr" for output events.
	Stream string    `json:"stream,omitempty"`
	At     time.Time `json:"at"`
}

// Callback receives events synchronously. Callbacks must not block; slow
// consumers should hand off to their own channel.
type Callback func(Event)

// Bus fans events out to registered observers. Delivery is synchronous,
// in registration order, and best-effort: a panicking observer is logged
// and skipped without affecting the others.
type Bus struct {
	mu   sync.RWMutex
	subs []Callback
}

func NewBus() *Bus { return &Bus{} }

// Subscribe registers an observer. Observers cannot be removed; their
// lifetime matches the supervisor run.
func (b *Bus) Subscribe(cb Callback) {
	if cb == nil {
		return
	}
	b.mu.Lock()
	b.subs = append(b.subs, cb)
	b.mu.Unlock()
}

// Publish delivers e to every observer.
func (b *Bus) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()
	for _, cb := range subs {
		deliver(cb, e)
	}
}

func deliver(cb Callback, e Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("event observer panicked", "kind", e.Kind, "service", e.Service, "panic", r)
		}
	}()
	cb(e)
}
