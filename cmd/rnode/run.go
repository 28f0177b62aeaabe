package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/meshworks/rnode/internal/config"
	"github.com/meshworks/rnode/internal/event"
	"github.com/meshworks/rnode/internal/journal"
	"github.com/meshworks/rnode/internal/journal/factory"
	"github.com/meshworks/rnode/internal/logbuf"
	"github.com/meshworks/rnode/internal/logger"
	"github.com/meshworks/rnode/internal/metrics"
	"github.com/meshworks/rnode/internal/pidfile"
	"github.com/meshworks/rnode/internal/plan"
	"github.com/meshworks/rnode/internal/server"
	"github.com/meshworks/rnode/internal/supervisor"
	"github.com/meshworks/rnode/internal/tui"
)

// runStart wires the full runtime: config, logging, PID file, observers,
// HTTP server, and either the dashboard or a signal wait.
func runStart(configPath string, headless bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.File, cfg.Logging.MaxSizeMB, cfg.Logging.MaxBackups)

	pidFile := pidPath(configPath)
	if err := pidfile.Acquire(pidFile); err != nil {
		return err
	}
	defer func() { _ = pidfile.Remove(pidFile) }()

	opts := cfg.Process.SupervisorOptions()
	opts.CaptureWriters = cfg.Capture.Writers
	sup := supervisor.New(opts)

	sup.OnEvent(slogObserver())

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	sup.OnEvent(metrics.Observer())

	if cfg.Journal.DSN != "" {
		sink, err := factory.NewSinkFromDSN(cfg.Journal.DSN)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer func() { _ = sink.Close() }()
		sup.OnEvent(journal.Observer(sink))
	}

	useTUI := !headless && cfg.TUI.Enabled
	var buf *logbuf.Buffer
	var model tui.Model
	if useTUI {
		buf = logbuf.New(cfg.TUI.LogLines * 20)
		sup.OnEvent(bufferObserver(buf))
		refresh := time.Duration(cfg.TUI.RefreshRate * float64(time.Second))
		model = tui.NewModel(sup, buf, cfg.Node.Name, cfg.Node.Callsign, cfg.TUI.ShowLogPanel, refresh)
		sup.OnEvent(model.Observer())
	}

	if cfg.Server.Listen != "" {
		srv := server.NewServer(cfg.Server.Listen, cfg.Server.BasePath, sup)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	services := plan.Build(cfg, generatedDir(configPath))
	if err := sup.StartServices(services); err != nil {
		return err
	}
	defer sup.StopAll()

	if useTUI {
		p := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("dashboard: %w", err)
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	slog.Info("all services started, waiting for shutdown signal")
	<-ctx.Done()
	slog.Info("shutdown signal received, stopping services")
	return nil
}

// slogObserver logs lifecycle events. Output lines are skipped here; they go
// to the capture files and the dashboard.
func slogObserver() event.Callback {
	return func(e event.Event) {
		switch e.Kind {
		case event.KindOutput:
		case event.KindStateChange:
			slog.Info("service state", "name", e.Service, "state", e.Detail)
		case event.KindExit:
			slog.Warn("service exited", "name", e.Service, "code", e.Code)
		case event.KindUnhealthy:
			slog.Warn("service unhealthy", "name", e.Service)
		case event.KindHealthError, event.KindError, event.KindMaxRestarts:
			slog.Error("service error", "name", e.Service, "kind", e.Kind, "detail", e.Detail)
		}
	}
}

// bufferObserver feeds captured output lines into the dashboard ring buffer.
func bufferObserver(buf *logbuf.Buffer) event.Callback {
	return func(e event.Event) {
		if e.Kind != event.KindOutput {
			return
		}
		buf.Append(logbuf.Line{Service: e.Service, Stream: e.Stream, Text: e.Detail, At: e.At})
	}
}
