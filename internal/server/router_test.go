package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshworks/rnode/internal/service"
	"github.com/meshworks/rnode/internal/supervisor"
)

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests require sleep on Unix-like systems")
	}
}

func newTestSupervisor(t *testing.T) *supervisor.Supervisor {
	t.Helper()
	sup := supervisor.New(supervisor.Options{
		Policy:     supervisor.PolicyNever,
		StartPause: 10 * time.Millisecond,
		StopGrace:  2 * time.Second,
	})
	require.NoError(t, sup.StartServices([]service.Descriptor{
		{Name: "worker", Command: []string{"sleep", "300"}},
	}))
	t.Cleanup(sup.StopAll)
	return sup
}

func TestStatusEndpoint(t *testing.T) {
	requireUnix(t)
	sup := newTestSupervisor(t)
	ts := httptest.NewServer(NewRouter(sup, "").Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/status")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var statuses map[string]supervisor.ServiceStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&statuses))
	require.Contains(t, statuses, "worker")
	assert.Equal(t, supervisor.StateRunning, statuses["worker"].State)
	assert.Greater(t, statuses["worker"].PID, 0)
}

func TestHealthzFollowsSupervisorActivity(t *testing.T) {
	requireUnix(t)
	sup := newTestSupervisor(t)
	ts := httptest.NewServer(NewRouter(sup, "").Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	sup.StopAll()

	resp, err = http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	requireUnix(t)
	sup := newTestSupervisor(t)
	ts := httptest.NewServer(NewRouter(sup, "").Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBasePath(t *testing.T) {
	requireUnix(t)
	sup := newTestSupervisor(t)
	ts := httptest.NewServer(NewRouter(sup, "api").Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/status")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/status")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSanitizeBase(t *testing.T) {
	assert.Equal(t, "", sanitizeBase(""))
	assert.Equal(t, "", sanitizeBase("/"))
	assert.Equal(t, "/api", sanitizeBase("api"))
	assert.Equal(t, "/api", sanitizeBase("/api/"))
}
