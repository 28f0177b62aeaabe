package resolver

import (
	"fmt"
	"strings"

	"github.com/meshworks/rnode/internal/service"
)

// Order returns the descriptors arranged so that every descriptor appears
// after all descriptors it depends on, directly or transitively. Placement
// follows a depth-first walk in input order, so independent descriptors keep
// their relative position. A dependency cycle is an error naming its members.
func Order(descs []service.Descriptor) ([]service.Descriptor, error) {
	byName := make(map[string]service.Descriptor, len(descs))
	for _, d := range descs {
		byName[d.Name] = d
	}

	const (
		unvisited = iota
		inProgress
		placed
	)
	mark := make(map[string]int, len(descs))
	out := make([]service.Descriptor, 0, len(descs))

	var visit func(name string, stack []string) error
	visit = func(name string, stack []string) error {
		switch mark[name] {
		case placed:
			return nil
		case inProgress:
			return fmt.Errorf("dependency cycle: %s", cycleFrom(stack, name))
		}
		mark[name] = inProgress
		d := byName[name]
		for _, dep := range d.DependsOn {
			if _, ok := byName[dep]; !ok {
				// Validate catches this earlier; keep ordering robust anyway.
				continue
			}
			if err := visit(dep, append(stack, name)); err != nil {
				return err
			}
		}
		mark[name] = placed
		out = append(out, d)
		return nil
	}

	for _, d := range descs {
		if err := visit(d.Name, nil); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// cycleFrom trims the walk stack to the members of the detected cycle.
func cycleFrom(stack []string, repeat string) string {
	start := 0
	for i, n := range stack {
		if n == repeat {
			start = i
			break
		}
	}
	members := append(append([]string(nil), stack[start:]...), repeat)
	return strings.Join(members, " -> ")
}
