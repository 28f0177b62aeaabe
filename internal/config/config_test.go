package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMinimalUsesDefaults(t *testing.T) {
	path := writeConfig(t, `
node:
  callsign: AB1CDE
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "AB1CDE", cfg.Node.Callsign)
	assert.Equal(t, "Reticulum Node", cfg.Node.Name)
	assert.Equal(t, "always", cfg.Process.RestartPolicy)
	assert.Equal(t, 3, cfg.Process.RestartDelay)
	assert.Equal(t, 10, cfg.Process.MaxRestarts)
	assert.Equal(t, 300, cfg.Process.RestartWindow)
	assert.Equal(t, 15, cfg.Process.HealthCheckInterval)
	assert.Equal(t, 10, cfg.Process.StartupGracePeriod)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.TUI.Enabled)
	assert.Equal(t, 50, cfg.TUI.LogLines)
	assert.Empty(t, cfg.Interfaces)
}

func TestLoadDirewolfInterface(t *testing.T) {
	path := writeConfig(t, `
interfaces:
  vhf:
    type: direwolf
    audio_device: plughw:1,0
    callsign: AB1CDE-1
    kiss_port: 8010
    ptt:
      type: serial
      device: /dev/ttyUSB0
      line: DTR
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Contains(t, cfg.Interfaces, "vhf")

	dw, ok := cfg.Interfaces["vhf"].(DirewolfInterface)
	require.True(t, ok)
	assert.True(t, dw.Enabled)
	assert.Equal(t, "plughw:1,0", dw.AudioDevice)
	assert.Equal(t, 8010, dw.KissPort)
	assert.Equal(t, "serial", dw.PTT.Type)
	assert.Equal(t, "DTR", dw.PTT.Line)
	// Unset fields keep their defaults.
	assert.Equal(t, 1200, dw.Modem)
	assert.Equal(t, 40, dw.Timing.TXDelay)
	assert.Equal(t, 63, dw.Timing.Persist)
}

func TestLoadFreeDVInterface(t *testing.T) {
	path := writeConfig(t, `
interfaces:
  hf:
    type: freedvtnc2
    input_device: "USB Audio"
    output_device: "USB Audio"
    mode: DATAC3
    ptt:
      rig_model: 3085
      rig_device: /dev/ttyUSB1
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	hf, ok := cfg.Interfaces["hf"].(FreeDVInterface)
	require.True(t, ok)
	assert.Equal(t, "DATAC3", hf.Mode)
	assert.Equal(t, "rigctld", hf.PTT.Type)
	assert.Equal(t, "127.0.0.1", hf.PTT.RigctldHost)
	assert.Equal(t, 4532, hf.PTT.RigctldPort)
	assert.Equal(t, 3085, hf.PTT.RigModel)
	assert.Equal(t, 8002, hf.KissPort)
	assert.Equal(t, 200, hf.PTTOnDelayMS)
}

func TestLoadUnknownInterfaceType(t *testing.T) {
	path := writeConfig(t, `
interfaces:
  bad:
    type: carrier-pigeon
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
	assert.Contains(t, err.Error(), "bad")
}

func TestLoadSerialPTTRequiresDevice(t *testing.T) {
	path := writeConfig(t, `
interfaces:
  vhf:
    type: direwolf
    audio_device: plughw:1,0
    ptt:
      type: serial
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device")
}

func TestLoadRejectsBadRestartPolicy(t *testing.T) {
	path := writeConfig(t, `
process:
  restart_policy: sometimes
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "restart_policy")
}

func TestLoadRejectsOutOfRangeKissPort(t *testing.T) {
	path := writeConfig(t, `
interfaces:
  vhf:
    type: direwolf
    audio_device: plughw:1,0
    kiss_port: 80
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kiss_port")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestSupervisorOptionsMapping(t *testing.T) {
	p := ProcessConfig{
		RestartPolicy:       "on-failure",
		RestartDelay:        5,
		MaxRestarts:         7,
		RestartWindow:       120,
		HealthCheckInterval: 30,
		StartupGracePeriod:  20,
	}
	opts := p.SupervisorOptions()
	assert.Equal(t, "on-failure", string(opts.Policy))
	assert.Equal(t, 5*time.Second, opts.RestartDelay)
	assert.Equal(t, 7, opts.MaxRestarts)
	assert.Equal(t, 2*time.Minute, opts.RestartWindow)
	assert.Equal(t, 30*time.Second, opts.HealthInterval)
	assert.Equal(t, 20*time.Second, opts.StartupGrace)
}

func TestLoadJournalServerAndCapture(t *testing.T) {
	path := writeConfig(t, `
journal:
  dsn: "sqlite://:memory:"
server:
  listen: 127.0.0.1:8080
  base_path: /api
capture:
  dir: /var/log/rnode
  max_size_mb: 5
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite://:memory:", cfg.Journal.DSN)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Listen)
	assert.Equal(t, "/api", cfg.Server.BasePath)
	assert.Equal(t, "/var/log/rnode", cfg.Capture.Dir)
	assert.Equal(t, 5, cfg.Capture.MaxSizeMB)
}
