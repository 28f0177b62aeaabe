package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritersDisabledWithoutDir(t *testing.T) {
	var c CaptureConfig
	out, errW, err := c.Writers("svc")
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.Nil(t, errW)
}

func TestWritersCreateRotatingFiles(t *testing.T) {
	dir := t.TempDir()
	c := CaptureConfig{Dir: dir}
	out, errW, err := c.Writers("rigctld")
	require.NoError(t, err)
	require.NotNil(t, out)
	require.NotNil(t, errW)

	_, err = out.Write([]byte("to stdout\n"))
	require.NoError(t, err)
	_, err = errW.Write([]byte("to stderr\n"))
	require.NoError(t, err)
	require.NoError(t, out.Close())
	require.NoError(t, errW.Close())

	b, err := os.ReadFile(filepath.Join(dir, "rigctld.stdout.log"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), "to stdout"))

	b, err = os.ReadFile(filepath.Join(dir, "rigctld.stderr.log"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), "to stderr"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("info"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}

func TestValOr(t *testing.T) {
	assert.Equal(t, DefaultMaxSizeMB, valOr(0, DefaultMaxSizeMB))
	assert.Equal(t, DefaultMaxSizeMB, valOr(-1, DefaultMaxSizeMB))
	assert.Equal(t, 42, valOr(42, DefaultMaxSizeMB))
}
