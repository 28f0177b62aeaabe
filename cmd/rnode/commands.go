package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/meshworks/rnode/internal/config"
	"github.com/meshworks/rnode/internal/pidfile"
	"github.com/meshworks/rnode/internal/plan"
	"github.com/meshworks/rnode/internal/resolver"
	"github.com/meshworks/rnode/internal/supervisor"
)

// GlobalFlags holds the persistent flags shared by every subcommand.
type GlobalFlags struct {
	ConfigPath string
}

// StartFlags holds flags for the start command.
type StartFlags struct {
	Headless bool
}

// StatusFlags holds flags for the status command.
type StatusFlags struct {
	APIUrl     string
	APITimeout time.Duration
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "rnode", "config.yaml")
}

// generatedDir and pidPath live next to the config file.
func generatedDir(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), "generated")
}

func pidPath(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), "rnode.pid")
}

func buildRoot() *cobra.Command {
	globalFlags := &GlobalFlags{}
	startFlags := &StartFlags{}
	statusFlags := &StatusFlags{}

	root := createRootCommand(globalFlags)
	root.AddCommand(
		createStartCommand(globalFlags, startFlags),
		createStopCommand(globalFlags),
		createStatusCommand(globalFlags, statusFlags),
		createPlanCommand(globalFlags),
	)
	return root
}

func createRootCommand(flags *GlobalFlags) *cobra.Command {
	root := &cobra.Command{
		Use:   "rnode",
		Short: "Radio mesh node supervisor",
		Long: `rnode supervises the daemons a radio mesh node needs (rigctld,
freedvtnc2, direwolf, rnsd), starting them in dependency order, probing
their health, and restarting them on failure.

Examples:
  rnode start                 # run with the terminal dashboard
  rnode start --headless      # run without TUI (for systemd)
  rnode status
  rnode plan                  # show the resolved start order`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", defaultConfigPath(), "path to the YAML config file")
	return root
}

func createStartCommand(globalFlags *GlobalFlags, startFlags *StartFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start all configured services",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(globalFlags.ConfigPath, startFlags.Headless)
		},
	}
	cmd.Flags().BoolVar(&startFlags.Headless, "headless", false, "run without the terminal dashboard")
	return cmd
}

func createStopCommand(globalFlags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running supervisor",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := pidPath(globalFlags.ConfigPath)
			pid, err := pidfile.Read(path)
			if err != nil {
				fmt.Println("rnode is not running.")
				return nil
			}
			if !pidfile.Alive(pid) {
				fmt.Println("Process not found, cleaning up stale PID file.")
				return pidfile.Remove(path)
			}
			fmt.Printf("Sending SIGTERM to rnode (PID %d)...\n", pid)
			p, err := os.FindProcess(pid)
			if err != nil {
				return err
			}
			if err := p.Signal(syscall.SIGTERM); err != nil {
				return fmt.Errorf("signal pid %d: %w", pid, err)
			}
			fmt.Println("Stop signal sent.")
			return nil
		},
	}
}

func createStatusCommand(globalFlags *GlobalFlags, statusFlags *StatusFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show supervisor and service status",
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := pidfile.Read(pidPath(globalFlags.ConfigPath))
			if err != nil || !pidfile.Alive(pid) {
				fmt.Println("rnode is not running.")
				return nil
			}
			fmt.Printf("rnode is running (PID %d)\n", pid)
			if statusFlags.APIUrl == "" {
				return nil
			}
			return printRemoteStatus(statusFlags.APIUrl, statusFlags.APITimeout)
		},
	}
	cmd.Flags().StringVar(&statusFlags.APIUrl, "api-url", "", "status API base URL (e.g. http://127.0.0.1:8080)")
	cmd.Flags().DurationVar(&statusFlags.APITimeout, "api-timeout", 10*time.Second, "request timeout")
	return cmd
}

func printRemoteStatus(baseURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(strings.TrimRight(baseURL, "/") + "/status")
	if err != nil {
		return fmt.Errorf("query status: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status API returned %s", resp.Status)
	}
	var statuses map[string]supervisor.ServiceStatus
	if err := json.NewDecoder(resp.Body).Decode(&statuses); err != nil {
		return fmt.Errorf("decode status: %w", err)
	}
	names := make([]string, 0, len(statuses))
	for name := range statuses {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Printf("%-24s %-10s %8s %9s\n", "SERVICE", "STATE", "PID", "RESTARTS")
	for _, name := range names {
		st := statuses[name]
		fmt.Printf("%-24s %-10s %8d %9d\n", name, st.State, st.PID, st.Restarts)
	}
	return nil
}

func createPlanCommand(globalFlags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show the resolved service start order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(globalFlags.ConfigPath)
			if err != nil {
				return err
			}
			services := plan.Build(cfg, generatedDir(globalFlags.ConfigPath))
			ordered, err := resolver.Order(services)
			if err != nil {
				return err
			}
			for i, d := range ordered {
				deps := ""
				if len(d.DependsOn) > 0 {
					deps = " (after " + strings.Join(d.DependsOn, ", ") + ")"
				}
				fmt.Printf("%d. %s%s\n   %s\n", i+1, d.Name, deps, d.CommandLine())
			}
			return nil
		},
	}
}
