package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beka-birhanu/vinom-nav/config"
)

func TestNew(t *testing.T) {
	_, err := New("APP", config.ColorGreen, nil)
	assert.ErrorIs(t, err, ErrNilWriter)

	_, err = New("", config.ColorGreen, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrEmptyPrefix)
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("RUNNER", config.ColorCyan, &buf)
	require.NoError(t, err)

	l.Info("started")
	l.Warning("slow")
	l.With("maze", "open").Error("failed")

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "[RUNNER]")
	assert.Contains(t, out, "started")
	assert.Contains(t, out, "maze=open")
}
