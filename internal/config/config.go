// Package config defines the unified node configuration and its YAML
// loading. One file describes the node, its radio interfaces, the Reticulum
// daemon, and supervision behavior.
package config

import (
	"fmt"
	"time"

	"github.com/meshworks/rnode/internal/logger"
	"github.com/meshworks/rnode/internal/supervisor"
)

// NodeConfig identifies the station.
type NodeConfig struct {
	Name     string `mapstructure:"name"`
	Callsign string `mapstructure:"callsign"`
}

// Interface is a configured radio interface. Concrete types are
// DirewolfInterface and FreeDVInterface, discriminated by the "type" field.
type Interface interface {
	InterfaceType() string
	IsEnabled() bool
	KISSPort() int
}

// DirewolfPTT selects how direwolf keys the transmitter.
type DirewolfPTT struct {
	Type    string `mapstructure:"type"`
	Device  string `mapstructure:"device"`
	Line    string `mapstructure:"line"`
	GPIOPin int    `mapstructure:"gpio_pin"`
}

// DirewolfTiming carries the half-duplex channel timing parameters, in the
// units direwolf expects (10 ms for delays, probability 0-255 for persist).
type DirewolfTiming struct {
	TXDelay  int `mapstructure:"txdelay"`
	TXTail   int `mapstructure:"txtail"`
	SlotTime int `mapstructure:"slottime"`
	Persist  int `mapstructure:"persist"`
}

// DirewolfInterface is a packet radio TNC backed by direwolf.
type DirewolfInterface struct {
	Enabled     bool           `mapstructure:"enabled"`
	Type        string         `mapstructure:"type"`
	AudioDevice string         `mapstructure:"audio_device"`
	Callsign    string         `mapstructure:"callsign"`
	Modem       int            `mapstructure:"modem"`
	PTT         DirewolfPTT    `mapstructure:"ptt"`
	KissPort    int            `mapstructure:"kiss_port"`
	Timing      DirewolfTiming `mapstructure:"timing"`
	Channel     int            `mapstructure:"channel"`
	ExtraConfig string         `mapstructure:"extra_config"`
}

func (d DirewolfInterface) InterfaceType() string { return "direwolf" }
func (d DirewolfInterface) IsEnabled() bool       { return d.Enabled }
func (d DirewolfInterface) KISSPort() int         { return d.KissPort }

// FreeDVPTT selects how freedvtnc2 keys the transmitter.
type FreeDVPTT struct {
	Type        string `mapstructure:"type"`
	RigctldHost string `mapstructure:"rigctld_host"`
	RigctldPort int    `mapstructure:"rigctld_port"`
	RigModel    int    `mapstructure:"rig_model"`
	RigDevice   string `mapstructure:"rig_device"`
	RigSpeed    int    `mapstructure:"rig_speed"`
}

// FreeDVInterface is an HF data TNC backed by freedvtnc2.
type FreeDVInterface struct {
	Enabled            bool      `mapstructure:"enabled"`
	Type               string    `mapstructure:"type"`
	InputDevice        string    `mapstructure:"input_device"`
	OutputDevice       string    `mapstructure:"output_device"`
	Mode               string    `mapstructure:"mode"`
	PTT                FreeDVPTT `mapstructure:"ptt"`
	KissPort           int       `mapstructure:"kiss_port"`
	PTTOnDelayMS       int       `mapstructure:"ptt_on_delay_ms"`
	PTTOffDelayMS      int       `mapstructure:"ptt_off_delay_ms"`
	OutputVolume       int       `mapstructure:"output_volume"`
	FollowMode         bool      `mapstructure:"follow_mode"`
	MaxPacketsCombined int       `mapstructure:"max_packets_combined"`
}

func (f FreeDVInterface) InterfaceType() string { return "freedvtnc2" }
func (f FreeDVInterface) IsEnabled() bool       { return f.Enabled }
func (f FreeDVInterface) KISSPort() int         { return f.KissPort }

// ReticulumInterfaceConfig tunes one generated Reticulum interface stanza.
type ReticulumInterfaceConfig struct {
	AnnounceRateTarget int `mapstructure:"announce_rate_target"`
	AnnounceRateGrace  int `mapstructure:"announce_rate_grace"`
	Bandwidth          int `mapstructure:"bandwidth"`
}

// ReticulumConfig controls the generated rnsd configuration.
type ReticulumConfig struct {
	EnableTransport      bool                                `mapstructure:"enable_transport"`
	ShareInstance        bool                                `mapstructure:"share_instance"`
	SharedInstancePort   int                                 `mapstructure:"shared_instance_port"`
	InstanceControlPort  int                                 `mapstructure:"instance_control_port"`
	LogLevel             int                                 `mapstructure:"loglevel"`
	InterfaceConfig      map[string]ReticulumInterfaceConfig `mapstructure:"interface_config"`
	AdditionalInterfaces map[string]map[string]any           `mapstructure:"additional_interfaces"`
}

// ProcessConfig sets supervision behavior. Intervals are in seconds.
type ProcessConfig struct {
	RestartPolicy       string `mapstructure:"restart_policy"`
	RestartDelay        int    `mapstructure:"restart_delay"`
	MaxRestarts         int    `mapstructure:"max_restarts"`
	RestartWindow       int    `mapstructure:"restart_window"`
	HealthCheckInterval int    `mapstructure:"health_check_interval"`
	StartupGracePeriod  int    `mapstructure:"startup_grace_period"`
}

// SupervisorOptions maps the process section onto supervisor options.
// Fields the file does not expose keep the supervisor defaults.
func (p ProcessConfig) SupervisorOptions() supervisor.Options {
	return supervisor.Options{
		Policy:         supervisor.RestartPolicy(p.RestartPolicy),
		RestartDelay:   time.Duration(p.RestartDelay) * time.Second,
		MaxRestarts:    p.MaxRestarts,
		RestartWindow:  time.Duration(p.RestartWindow) * time.Second,
		HealthInterval: time.Duration(p.HealthCheckInterval) * time.Second,
		StartupGrace:   time.Duration(p.StartupGracePeriod) * time.Second,
	}
}

// LoggingConfig controls the supervisor's own log output.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"backup_count"`
}

// JournalConfig enables the lifecycle journal when DSN is set.
type JournalConfig struct {
	DSN string `mapstructure:"dsn"`
}

// ServerConfig controls the HTTP status endpoint. Empty Listen disables it.
type ServerConfig struct {
	Listen   string `mapstructure:"listen"`
	BasePath string `mapstructure:"base_path"`
}

// TUIConfig controls the terminal dashboard.
type TUIConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	RefreshRate  float64 `mapstructure:"refresh_rate"`
	ShowLogPanel bool    `mapstructure:"show_log_panel"`
	LogLines     int     `mapstructure:"log_lines"`
}

// Config is the root of the unified YAML file.
type Config struct {
	Node       NodeConfig           `mapstructure:"node"`
	Interfaces map[string]Interface `mapstructure:"-"`
	Reticulum  ReticulumConfig      `mapstructure:"reticulum"`
	Process    ProcessConfig        `mapstructure:"process"`
	Logging    LoggingConfig        `mapstructure:"logging"`
	Capture    logger.CaptureConfig `mapstructure:"capture"`
	Journal    JournalConfig        `mapstructure:"journal"`
	Server     ServerConfig         `mapstructure:"server"`
	TUI        TUIConfig            `mapstructure:"tui"`
}

// Default returns a Config with every field at its documented default.
func Default() Config {
	return Config{
		Node: NodeConfig{Name: "Reticulum Node", Callsign: "N0CALL"},
		Reticulum: ReticulumConfig{
			EnableTransport:     true,
			ShareInstance:       true,
			SharedInstancePort:  37428,
			InstanceControlPort: 37429,
			LogLevel:            4,
		},
		Process: ProcessConfig{
			RestartPolicy:       "always",
			RestartDelay:        3,
			MaxRestarts:         10,
			RestartWindow:       300,
			HealthCheckInterval: 15,
			StartupGracePeriod:  10,
		},
		Logging: LoggingConfig{Level: "info", MaxSizeMB: 10, MaxBackups: 3},
		TUI:     TUIConfig{Enabled: true, RefreshRate: 1.0, ShowLogPanel: true, LogLines: 50},
	}
}

func defaultDirewolf() DirewolfInterface {
	return DirewolfInterface{
		Enabled:  true,
		Type:     "direwolf",
		Modem:    1200,
		PTT:      DirewolfPTT{Type: "none", Line: "RTS"},
		KissPort: 8001,
		Timing:   DirewolfTiming{TXDelay: 40, TXTail: 10, SlotTime: 10, Persist: 63},
	}
}

func defaultFreeDV() FreeDVInterface {
	return FreeDVInterface{
		Enabled: true,
		Type:    "freedvtnc2",
		Mode:    "DATAC1",
		PTT: FreeDVPTT{
			Type:        "rigctld",
			RigctldHost: "127.0.0.1",
			RigctldPort: 4532,
			RigModel:    1,
			RigSpeed:    9600,
		},
		KissPort:           8002,
		PTTOnDelayMS:       200,
		PTTOffDelayMS:      100,
		MaxPacketsCombined: 1,
	}
}

// Validate enforces the cross-field rules the decoder cannot express.
func (c Config) Validate() error {
	for name, iface := range c.Interfaces {
		switch v := iface.(type) {
		case DirewolfInterface:
			if v.AudioDevice == "" {
				return fmt.Errorf("interface %q: audio_device is required", name)
			}
			switch v.PTT.Type {
			case "serial":
				if v.PTT.Device == "" {
					return fmt.Errorf("interface %q: ptt type serial requires device", name)
				}
			case "gpio":
				if v.PTT.GPIOPin == 0 {
					return fmt.Errorf("interface %q: ptt type gpio requires gpio_pin", name)
				}
			case "cm108", "none":
			default:
				return fmt.Errorf("interface %q: unknown ptt type %q", name, v.PTT.Type)
			}
		case FreeDVInterface:
			if v.InputDevice == "" || v.OutputDevice == "" {
				return fmt.Errorf("interface %q: input_device and output_device are required", name)
			}
			switch v.Mode {
			case "DATAC1", "DATAC3", "DATAC4":
			default:
				return fmt.Errorf("interface %q: unknown freedv mode %q", name, v.Mode)
			}
		}
		if p := iface.KISSPort(); p < 1024 || p > 65535 {
			return fmt.Errorf("interface %q: kiss_port %d out of range", name, p)
		}
	}
	switch c.Process.RestartPolicy {
	case "always", "on-failure", "never":
	default:
		return fmt.Errorf("process: unknown restart_policy %q", c.Process.RestartPolicy)
	}
	return nil
}
