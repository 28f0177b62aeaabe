package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshworks/rnode/internal/config"
	"github.com/meshworks/rnode/internal/service"
)

func find(t *testing.T, descs []service.Descriptor, name string) service.Descriptor {
	t.Helper()
	for _, d := range descs {
		if d.Name == name {
			return d
		}
	}
	t.Fatalf("service %q not planned; have %v", name, names(descs))
	return service.Descriptor{}
}

func names(descs []service.Descriptor) []string {
	out := make([]string, len(descs))
	for i, d := range descs {
		out[i] = d.Name
	}
	return out
}

func freedvWithRigctld() config.FreeDVInterface {
	return config.FreeDVInterface{
		Enabled:      true,
		Type:         "freedvtnc2",
		InputDevice:  "USB Audio",
		OutputDevice: "USB Audio",
		Mode:         "DATAC1",
		PTT: config.FreeDVPTT{
			Type:        "rigctld",
			RigctldHost: "127.0.0.1",
			RigctldPort: 4532,
			RigModel:    3085,
			RigDevice:   "/dev/ttyUSB0",
			RigSpeed:    19200,
		},
		KissPort:           8002,
		PTTOnDelayMS:       200,
		PTTOffDelayMS:      100,
		MaxPacketsCombined: 1,
	}
}

func direwolf() config.DirewolfInterface {
	return config.DirewolfInterface{
		Enabled:     true,
		Type:        "direwolf",
		AudioDevice: "plughw:1,0",
		Callsign:    "AB1CDE-1",
		KissPort:    8001,
	}
}

func TestBuildFullNode(t *testing.T) {
	cfg := config.Default()
	cfg.Interfaces = map[string]config.Interface{
		"hf":  freedvWithRigctld(),
		"vhf": direwolf(),
	}

	descs := Build(cfg, "/tmp/generated")
	assert.Equal(t, []string{"rigctld", "freedvtnc2_hf", "direwolf_vhf", "rnsd"}, names(descs))

	rig := find(t, descs, "rigctld")
	assert.Equal(t, []string{"rigctld", "-m", "3085", "-t", "4532", "-r", "/dev/ttyUSB0", "-s", "19200"}, rig.Command)
	assert.NotNil(t, rig.Check)
	assert.Empty(t, rig.DependsOn)

	hf := find(t, descs, "freedvtnc2_hf")
	assert.Equal(t, []string{"rigctld"}, hf.DependsOn)
	assert.NotNil(t, hf.Check)

	vhf := find(t, descs, "direwolf_vhf")
	assert.Equal(t, []string{"direwolf", "-c", "/tmp/generated/direwolf_vhf.conf", "-t", "0"}, vhf.Command)
	assert.Equal(t, []string{"/tmp/generated/direwolf_vhf.conf"}, vhf.RequiredFiles)
	assert.Empty(t, vhf.DependsOn)

	rnsd := find(t, descs, "rnsd")
	assert.ElementsMatch(t, []string{"direwolf_vhf", "freedvtnc2_hf"}, rnsd.DependsOn)
	assert.Equal(t, []string{"rnsd", "--config", "/tmp/generated/reticulum"}, rnsd.Command)
}

func TestBuildSkipsDisabledInterfaces(t *testing.T) {
	dw := direwolf()
	dw.Enabled = false
	cfg := config.Default()
	cfg.Interfaces = map[string]config.Interface{"vhf": dw}

	descs := Build(cfg, "/tmp/generated")
	assert.Equal(t, []string{"rnsd"}, names(descs))
	assert.Empty(t, find(t, descs, "rnsd").DependsOn)
}

func TestBuildNoRigctldForVoxPTT(t *testing.T) {
	hf := freedvWithRigctld()
	hf.PTT.Type = "vox"
	cfg := config.Default()
	cfg.Interfaces = map[string]config.Interface{"hf": hf}

	descs := Build(cfg, "/tmp/generated")
	assert.Equal(t, []string{"freedvtnc2_hf", "rnsd"}, names(descs))
	assert.Empty(t, find(t, descs, "freedvtnc2_hf").DependsOn)
}

func TestBuildSingleRigctldForTwoHFInterfaces(t *testing.T) {
	a := freedvWithRigctld()
	b := freedvWithRigctld()
	b.KissPort = 8003
	cfg := config.Default()
	cfg.Interfaces = map[string]config.Interface{"hf_a": a, "hf_b": b}

	descs := Build(cfg, "/tmp/generated")
	count := 0
	for _, d := range descs {
		if d.Name == "rigctld" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestFreedvArgs(t *testing.T) {
	iface := freedvWithRigctld()
	args := FreedvArgs(iface)

	assert.Equal(t, "freedvtnc2", args[0])
	assert.Contains(t, args, "--no-cli")
	assert.Contains(t, args, "--kiss-tcp-port")
	assert.Contains(t, args, "8002")
	assert.Contains(t, args, "--rigctld-host")
	// Defaults are omitted from the command line.
	assert.NotContains(t, args, "--ptt-on-delay-ms")
	assert.NotContains(t, args, "--max-packets-combined")
	assert.NotContains(t, args, "--follow")
}

func TestFreedvArgsNonDefaults(t *testing.T) {
	iface := freedvWithRigctld()
	iface.PTTOnDelayMS = 300
	iface.OutputVolume = -6
	iface.FollowMode = true
	iface.MaxPacketsCombined = 4

	args := FreedvArgs(iface)
	assert.Contains(t, args, "--ptt-on-delay-ms")
	assert.Contains(t, args, "300")
	assert.Contains(t, args, "--output-volume")
	assert.Contains(t, args, "-6")
	assert.Contains(t, args, "--follow")
	assert.Contains(t, args, "--max-packets-combined")
	assert.Contains(t, args, "4")
}

func TestRigctldArgsOmitsEmptyDevice(t *testing.T) {
	ptt := config.FreeDVPTT{Type: "rigctld", RigctldPort: 4532, RigModel: 1}
	args := RigctldArgs(ptt)
	assert.Equal(t, []string{"rigctld", "-m", "1", "-t", "4532"}, args)
	require.NotContains(t, args, "-r")
}
