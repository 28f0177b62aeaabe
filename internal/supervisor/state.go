package supervisor

// State is one lifecycle state of a managed service.
//
// Transitions: stopped -> starting -> running -> stopping -> stopped,
// with starting/running -> failed on launch error or unexpected exit and
// failed -> starting on restart.
type State string

const (
	StateStopped  State = "stopped"
	StateStarting State = "starting"
	StateRunning  State = "running"
	StateStopping State = "stopping"
	StateFailed   State = "failed"
)

// RestartPolicy decides whether a service is relaunched after an
// unexpected exit.
type RestartPolicy string

const (
	// PolicyNever leaves the service failed.
	PolicyNever RestartPolicy = "never"
	// PolicyOnFailure restarts only after a non-zero exit code.
	PolicyOnFailure RestartPolicy = "on-failure"
	// PolicyAlways restarts regardless of exit code, subject to limits.
	PolicyAlways RestartPolicy = "always"
)

// Valid reports whether p names a known policy.
func (p RestartPolicy) Valid() bool {
	switch p {
	case PolicyNever, PolicyOnFailure, PolicyAlways:
		return true
	}
	return false
}
