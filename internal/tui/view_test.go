package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "-", formatUptime(0))
	assert.Equal(t, "45s", formatUptime(45))
	assert.Equal(t, "2m05s", formatUptime(125))
	assert.Equal(t, "1h01m", formatUptime(3690))
}

func TestFormatPID(t *testing.T) {
	assert.Equal(t, "-", formatPID(0))
	assert.Equal(t, "4242", formatPID(4242))
}

func TestStateIcon(t *testing.T) {
	assert.Equal(t, "●", stateIcon("running"))
	assert.Equal(t, "✗", stateIcon("failed"))
	assert.Equal(t, "○", stateIcon("stopped"))
	assert.Equal(t, "○", stateIcon("unknown"))
}
