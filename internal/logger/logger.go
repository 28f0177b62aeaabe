package logger

import (
	"io"
	"path/filepath"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults, lumberjack semantics.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 7
)

// CaptureConfig describes where the captured stdout/stderr of managed
// services is teed. Files are Dir/<service>.stdout.log and
// Dir/<service>.stderr.log; an empty Dir disables file capture.
type CaptureConfig struct {
	Dir        string `mapstructure:"dir"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// Writers returns rotating write closers for one service's stdout and
// stderr, or nils when capture is disabled.
func (c CaptureConfig) Writers(service string) (io.WriteCloser, io.WriteCloser, error) {
	if c.Dir == "" {
		return nil, nil, nil
	}
	return c.writer(service + ".stdout.log"), c.writer(service + ".stderr.log"), nil
}

func (c CaptureConfig) writer(file string) io.WriteCloser {
	return &lj.Logger{
		Filename:   filepath.Join(c.Dir, file),
		MaxSize:    valOr(c.MaxSizeMB, DefaultMaxSizeMB),
		MaxBackups: valOr(c.MaxBackups, DefaultMaxBackups),
		MaxAge:     valOr(c.MaxAgeDays, DefaultMaxAgeDays),
		Compress:   c.Compress,
	}
}

func valOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
