package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// recordingLogger captures log calls for assertions.
type recordingLogger struct {
	messages []string
	fields   []Field
	closeErr error
	closed   bool
}

func (r *recordingLogger) Info(msg string, fields ...Field) {
	r.record("INFO "+msg, fields)
}

func (r *recordingLogger) Warn(msg string, fields ...Field) {
	r.record("WARN "+msg, fields)
}

func (r *recordingLogger) Error(msg string, fields ...Field) {
	r.record("ERROR "+msg, fields)
}

func (r *recordingLogger) Debug(msg string, fields ...Field) {
	r.record("DEBUG "+msg, fields)
}

func (r *recordingLogger) record(msg string, fields []Field) {
	r.messages = append(r.messages, msg)
	r.fields = append(r.fields, fields...)
}

func (r *recordingLogger) WithFields(fields ...Field) Logger {
	r.fields = append(r.fields, fields...)
	return r
}

func (r *recordingLogger) Close() error {
	r.closed = true
	return r.closeErr
}

func TestMultiLogger_FansOut(t *testing.T) {
	a, b := &recordingLogger{}, &recordingLogger{}
	m := NewMultiLogger(a, b)

	m.Info("i")
	m.Warn("w")
	m.Error("e")
	m.Debug("d")

	want := []string{"INFO i", "WARN w", "ERROR e", "DEBUG d"}
	assert.Equal(t, want, a.messages)
	assert.Equal(t, want, b.messages)
}

func TestMultiLogger_WithFields(t *testing.T) {
	a := &recordingLogger{}
	l := NewMultiLogger(a).WithFields(StringField("run", "1"))
	l.Info("x")
	assert.Contains(t, a.fields, StringField("run", "1"))
}

func TestMultiLogger_Close(t *testing.T) {
	a := &recordingLogger{closeErr: errors.New("a failed")}
	b := &recordingLogger{}
	err := NewMultiLogger(a, b).Close()

	assert.EqualError(t, err, "a failed")
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}

func TestNullLogger(t *testing.T) {
	var l Logger = NullLogger{}
	l.Info("x")
	l.Warn("x")
	l.Error("x")
	l.Debug("x")
	assert.Equal(t, NullLogger{}, l.WithFields(StringField("a", "b")))
	assert.NoError(t, l.Close())
}
