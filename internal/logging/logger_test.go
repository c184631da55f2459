package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTo_RenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	NewTo(&buf, slog.LevelInfo).Error("load failed", "error", errors.New("boom"))
	assert.Contains(t, buf.String(), "err=boom")
	assert.NotContains(t, buf.String(), "error=")
}

func TestLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewTo(&buf, Level(false))
	log.Debug("hidden")
	log.Info("hidden")
	assert.Empty(t, buf.String())

	log = NewTo(&buf, Level(true))
	log.Debug("shown")
	assert.Contains(t, buf.String(), "msg=shown")
}
