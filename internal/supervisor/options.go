package supervisor

import (
	"io"
	"time"
)

// Options tunes the supervisor. The zero value gets sensible defaults via
// withDefaults; MaxRestarts 0 means unlimited.
type Options struct {
	Policy        RestartPolicy
	RestartDelay  time.Duration
	MaxRestarts   int
	RestartWindow time.Duration

	HealthInterval time.Duration
	HealthTimeout  time.Duration
	StartupGrace   time.Duration

	// StartPause is the wait after launching a check-less service before
	// the next one starts. Services with a health check are instead polled
	// until ready or ReadyTimeout.
	StartPause   time.Duration
	ReadyTimeout time.Duration
	ReadyPoll    time.Duration

	StopGrace time.Duration

	// CaptureWriters, when set, supplies rotating writers the captured
	// stdout/stderr of each service is teed into. Writers are closed when
	// the process exits.
	CaptureWriters func(name string) (stdout, stderr io.WriteCloser, err error)
}

func (o Options) withDefaults() Options {
	if o.Policy == "" {
		o.Policy = PolicyAlways
	}
	if o.RestartDelay <= 0 {
		o.RestartDelay = 3 * time.Second
	}
	if o.RestartWindow <= 0 {
		o.RestartWindow = 5 * time.Minute
	}
	if o.HealthInterval <= 0 {
		o.HealthInterval = 15 * time.Second
	}
	if o.HealthTimeout <= 0 {
		o.HealthTimeout = 5 * time.Second
	}
	if o.StartupGrace <= 0 {
		o.StartupGrace = 10 * time.Second
	}
	if o.StartPause <= 0 {
		o.StartPause = time.Second
	}
	if o.ReadyTimeout <= 0 {
		o.ReadyTimeout = 10 * time.Second
	}
	if o.ReadyPoll <= 0 {
		o.ReadyPoll = 500 * time.Millisecond
	}
	if o.StopGrace <= 0 {
		o.StopGrace = 10 * time.Second
	}
	return o
}
