package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWriterRenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, slog.LevelInfo)

	log.Error("phase failed", "phase", "A", "error", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "err=boom")
	assert.NotContains(t, out, "error=boom")
	assert.Contains(t, out, "phase=A")
}

func TestNewWriterLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, Level(false))
	log.Debug("hidden")
	assert.Empty(t, buf.String())

	log = NewWriter(&buf, Level(true))
	log.Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}
