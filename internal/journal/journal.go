// Package journal persists lifecycle events to an external store so node
// operators can audit restarts and failures after the fact.
package journal

import (
	"context"
	"log/slog"
	"time"

	"github.com/meshworks/rnode/internal/event"
)

// Entry is one persisted lifecycle record.
type Entry struct {
	Kind     string    `json:"kind"`
	Service  string    `json:"service"`
	Detail   string    `json:"detail"`
	ExitCode int       `json:"exit_code"`
	At       time.Time `json:"at"`
}

// Sink is a destination for journal entries. Implementations must be safe
// for concurrent use.
type Sink interface {
	Send(ctx context.Context, e Entry) error
	Close() error
}

// sendTimeout bounds each write so a slow store cannot stall the event bus.
const sendTimeout = 3 * time.Second

// Observer returns an event callback that records lifecycle events to sink.
// Output events are skipped; per-line chatter belongs in the capture logs,
// not the journal. Send failures are logged and dropped.
func Observer(sink Sink) event.Callback {
	return func(e event.Event) {
		if e.Kind == event.KindOutput {
			return
		}
		entry := Entry{
			Kind:     string(e.Kind),
			Service:  e.Service,
			Detail:   e.Detail,
			ExitCode: e.Code,
			At:       e.At,
		}
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		if err := sink.Send(ctx, entry); err != nil {
			slog.Error("journal write failed", "kind", entry.Kind, "service", entry.Service, "error", err)
		}
	}
}
