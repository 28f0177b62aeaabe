package metrics

import (
	"sync"

	"github.com/meshworks/rnode/internal/event"
)

// Observer returns an event callback that feeds the collectors. Output
// events are skipped; they arrive per line and would dominate scrape cost.
// A running transition that follows an exit counts as a restart.
func Observer() event.Callback {
	var mu sync.Mutex
	exited := make(map[string]bool)
	return func(e event.Event) {
		switch e.Kind {
		case event.KindStateChange:
			SetState(e.Service, e.Detail)
			if e.Detail == "running" {
				mu.Lock()
				if exited[e.Service] {
					exited[e.Service] = false
					mu.Unlock()
					IncRestart(e.Service)
					return
				}
				mu.Unlock()
			}
		case event.KindExit:
			mu.Lock()
			exited[e.Service] = true
			mu.Unlock()
			IncExit(e.Service)
		case event.KindError, event.KindMaxRestarts:
			IncError(e.Service)
		case event.KindUnhealthy:
			IncUnhealthy(e.Service)
		case event.KindHealthError:
			IncHealthError(e.Service)
		}
	}
}
