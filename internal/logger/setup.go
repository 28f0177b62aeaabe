package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Setup installs the default slog logger. Console output goes to stderr
// through the colored text handler; when file is non-empty, records are
// additionally written to a rotating log file.
func Setup(level, file string, maxSizeMB, maxBackups int) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var w io.Writer = os.Stderr
	if file != "" {
		rot := &lj.Logger{
			Filename:   file,
			MaxSize:    valOr(maxSizeMB, DefaultMaxSizeMB),
			MaxBackups: valOr(maxBackups, DefaultMaxBackups),
			MaxAge:     DefaultMaxAgeDays,
		}
		w = io.MultiWriter(os.Stderr, rot)
	}
	l := slog.New(NewColorTextHandler(w, opts, true))
	slog.SetDefault(l)
	return l
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warning", "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
