// Package plan translates the node configuration into service descriptors:
// which daemons to run, in what order, and how to probe each one.
package plan

import (
	"path/filepath"
	"sort"

	"github.com/meshworks/rnode/internal/config"
	"github.com/meshworks/rnode/internal/health"
	"github.com/meshworks/rnode/internal/service"
)

// Build derives the service set from cfg. generatedDir is where interface
// daemon configs and the rnsd config directory live; direwolf descriptors
// list their config file as required so a missing one fails the launch
// instead of starting direwolf against nothing.
//
// Order of planning (descriptor order is advisory, depends_on is binding):
//  1. rigctld, when any enabled FreeDV interface keys PTT through it
//  2. one TNC per enabled interface (freedvtnc2_<name>, direwolf_<name>)
//  3. rnsd, depending on every TNC
func Build(cfg config.Config, generatedDir string) []service.Descriptor {
	var services []service.Descriptor
	var tncNames []string

	names := make([]string, 0, len(cfg.Interfaces))
	for name := range cfg.Interfaces {
		names = append(names, name)
	}
	sort.Strings(names)

	needsRigctld := false
	for _, name := range names {
		if f, ok := cfg.Interfaces[name].(config.FreeDVInterface); ok && f.Enabled && f.PTT.Type == "rigctld" {
			needsRigctld = true
			break
		}
	}

	// One rigctld serves every HF interface; the first rigctld PTT block
	// provides its settings.
	if needsRigctld {
		for _, name := range names {
			f, ok := cfg.Interfaces[name].(config.FreeDVInterface)
			if !ok || !f.Enabled || f.PTT.Type != "rigctld" {
				continue
			}
			services = append(services, service.Descriptor{
				Name:    "rigctld",
				Command: RigctldArgs(f.PTT),
				Check:   health.ReplyCheck(f.PTT.RigctldHost, f.PTT.RigctldPort, "\\get_info\n"),
			})
			break
		}
	}

	for _, name := range names {
		iface := cfg.Interfaces[name]
		if !iface.IsEnabled() {
			continue
		}
		switch v := iface.(type) {
		case config.DirewolfInterface:
			confPath := filepath.Join(generatedDir, "direwolf_"+name+".conf")
			svcName := "direwolf_" + name
			services = append(services, service.Descriptor{
				Name:          svcName,
				Command:       []string{"direwolf", "-c", confPath, "-t", "0"},
				Check:         health.TCPCheck("127.0.0.1", v.KissPort),
				RequiredFiles: []string{confPath},
			})
			tncNames = append(tncNames, svcName)
		case config.FreeDVInterface:
			svcName := "freedvtnc2_" + name
			var deps []string
			if v.PTT.Type == "rigctld" && needsRigctld {
				deps = []string{"rigctld"}
			}
			services = append(services, service.Descriptor{
				Name:      svcName,
				Command:   FreedvArgs(v),
				Check:     health.TCPCheck("127.0.0.1", v.KissPort),
				DependsOn: deps,
			})
			tncNames = append(tncNames, svcName)
		}
	}

	services = append(services, service.Descriptor{
		Name:      "rnsd",
		Command:   []string{"rnsd", "--config", filepath.Join(generatedDir, "reticulum")},
		DependsOn: tncNames,
	})

	return services
}
