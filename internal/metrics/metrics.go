package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package-level Prometheus collectors, registered via Register.
var (
	regOK atomic.Bool

	serviceExits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rnode",
			Subsystem: "service",
			Name:      "exits_total",
			Help:      "Number of unexpected service exits.",
		}, []string{"name"},
	)
	serviceRestarts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rnode",
			Subsystem: "service",
			Name:      "restarts_total",
			Help:      "Number of automatic restarts.",
		}, []string{"name"},
	)
	serviceErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rnode",
			Subsystem: "service",
			Name:      "errors_total",
			Help:      "Number of launch and lifecycle errors.",
		}, []string{"name"},
	)
	healthUnhealthy = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rnode",
			Subsystem: "health",
			Name:      "unhealthy_total",
			Help:      "Number of failed health probes.",
		}, []string{"name"},
	)
	healthErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rnode",
			Subsystem: "health",
			Name:      "errors_total",
			Help:      "Number of health probes that errored.",
		}, []string{"name"},
	)
	currentState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "rnode",
			Subsystem: "service",
			Name:      "state",
			Help:      "Current service state (1 = active state, 0 = inactive).",
		}, []string{"name", "state"},
	)
)

// Register registers all collectors with r. Safe to call multiple times;
// calls after the first success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{serviceExits, serviceRestarts, serviceErrors, healthUnhealthy, healthErrors, currentState}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler serves Prometheus metrics for the default gatherer.
func Handler() http.Handler { return promhttp.Handler() }

// Helpers used by the event observer; no-ops until Register succeeds.

func IncExit(name string) {
	if regOK.Load() {
		serviceExits.WithLabelValues(name).Inc()
	}
}

func IncRestart(name string) {
	if regOK.Load() {
		serviceRestarts.WithLabelValues(name).Inc()
	}
}

func IncError(name string) {
	if regOK.Load() {
		serviceErrors.WithLabelValues(name).Inc()
	}
}

func IncUnhealthy(name string) {
	if regOK.Load() {
		healthUnhealthy.WithLabelValues(name).Inc()
	}
}

func IncHealthError(name string) {
	if regOK.Load() {
		healthErrors.WithLabelValues(name).Inc()
	}
}

// SetState flips the per-state gauge so exactly the current state reads 1.
func SetState(name, state string) {
	if !regOK.Load() {
		return
	}
	for _, s := range []string{"stopped", "starting", "running", "stopping", "failed"} {
		v := 0.0
		if s == state {
			v = 1.0
		}
		currentState.WithLabelValues(name, s).Set(v)
	}
}
