package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLoggerTo(&buf, false)

	l.Info("invocation_started", StringField("runtime", "python"))
	l.Warn("batch_repaired", IntField("padded", 1))
	l.Error("invocation_failed")
	l.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "invocation_started")
	assert.Contains(t, out, "runtime=python")
	assert.Contains(t, out, "batch_repaired")
	assert.Contains(t, out, "padded=1")
	assert.Contains(t, out, "invocation_failed")
	assert.NotContains(t, out, "hidden")
}

func TestConsoleLogger_Verbose(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLoggerTo(&buf, true)
	l.Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestConsoleLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLoggerTo(&buf, false)
	l.SetLevel(LevelError)

	l.Warn("quiet")
	l.Error("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestConsoleLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLoggerTo(&buf, false).WithFields(StringField("run", "r1"))
	l.Info("run_completed")

	assert.Contains(t, buf.String(), "run=r1")
	assert.NoError(t, l.Close())
}
