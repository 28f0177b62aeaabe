package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshworks/rnode/internal/event"
)

func TestRegisterIsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	require.NoError(t, Register(reg))
	require.NoError(t, Register(prometheus.NewRegistry()))
}

func TestObserverFeedsCollectors(t *testing.T) {
	require.NoError(t, Register(prometheus.NewRegistry()))
	obs := Observer()

	obs(event.Event{Kind: event.KindStateChange, Service: "obs-test", Detail: "running"})
	obs(event.Event{Kind: event.KindExit, Service: "obs-test", Code: 1})
	obs(event.Event{Kind: event.KindStateChange, Service: "obs-test", Detail: "running"})
	obs(event.Event{Kind: event.KindUnhealthy, Service: "obs-test"})
	obs(event.Event{Kind: event.KindHealthError, Service: "obs-test", Detail: "probe broke"})
	obs(event.Event{Kind: event.KindMaxRestarts, Service: "obs-test"})

	assert.Equal(t, 1.0, testutil.ToFloat64(serviceExits.WithLabelValues("obs-test")))
	assert.Equal(t, 1.0, testutil.ToFloat64(serviceRestarts.WithLabelValues("obs-test")),
		"running after exit counts as a restart")
	assert.Equal(t, 1.0, testutil.ToFloat64(healthUnhealthy.WithLabelValues("obs-test")))
	assert.Equal(t, 1.0, testutil.ToFloat64(healthErrors.WithLabelValues("obs-test")))
	assert.Equal(t, 1.0, testutil.ToFloat64(serviceErrors.WithLabelValues("obs-test")))
	assert.Equal(t, 1.0, testutil.ToFloat64(currentState.WithLabelValues("obs-test", "running")))
	assert.Equal(t, 0.0, testutil.ToFloat64(currentState.WithLabelValues("obs-test", "failed")))
}
