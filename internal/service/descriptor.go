package service

import (
	"fmt"
	"strings"

	"github.com/meshworks/rnode/internal/health"
)

// Descriptor describes how to launch and health-check one managed process.
// Descriptors are built by the planner before supervision begins and are
// never mutated afterwards.
type Descriptor struct {
	Name string `json:"name"`
	// Command is the executable followed by its arguments. No shell is
	// involved; the planner is responsible for quoting-free argv lists.
	Command []string `json:"command"`
	// Check, when non-nil, probes whether the running service is
	// responsive. A descriptor without a check is never flagged unhealthy.
	Check health.Check `json:"-"`
	// DependsOn lists names of descriptors that must reach the running
	// state before this one is launched.
	DependsOn []string `json:"depends_on,omitempty"`
	WorkDir   string   `json:"work_dir,omitempty"`
	// Env entries overlay the supervisor's process environment on launch;
	// descriptor values win on key collision.
	Env map[string]string `json:"env,omitempty"`
	// RequiredFiles must already exist on disk before launch is attempted.
	// Materializing them is the caller's responsibility.
	RequiredFiles []string `json:"required_files,omitempty"`
}

// CommandLine renders the argv list as a single display string.
func (d Descriptor) CommandLine() string {
	return strings.Join(d.Command, " ")
}

// Validate checks a descriptor batch for configuration errors: empty or
// duplicate names, empty commands, and depends_on references to names not
// present in the batch. It reports the offending names.
func Validate(descs []Descriptor) error {
	seen := make(map[string]bool, len(descs))
	for _, d := range descs {
		if d.Name == "" {
			return fmt.Errorf("descriptor with empty name (command %q)", d.CommandLine())
		}
		if len(d.Command) == 0 {
			return fmt.Errorf("descriptor %q has no command", d.Name)
		}
		if seen[d.Name] {
			return fmt.Errorf("duplicate descriptor name %q", d.Name)
		}
		seen[d.Name] = true
	}
	for _, d := range descs {
		for _, dep := range d.DependsOn {
			if !seen[dep] {
				return fmt.Errorf("descriptor %q depends on unknown service %q", d.Name, dep)
			}
		}
	}
	return nil
}
