package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactingLogger_MasksSecrets(t *testing.T) {
	inner := &recordingLogger{}
	l := NewRedactingLogger(inner, "sk-secret-token", "abc")

	l.Info("using sk-secret-token",
		StringField("env", "TOKEN=sk-secret-token"),
		IntField("n", 1),
	)

	require.Len(t, inner.messages, 1)
	assert.Equal(t, "INFO using sk-s***********", inner.messages[0])
	assert.Equal(t, "TOKEN=sk-s***********", inner.fields[0].Value)
	assert.Equal(t, 1, inner.fields[1].Value)
}

func TestRedactingLogger_ShortSecretsIgnored(t *testing.T) {
	inner := &recordingLogger{}
	NewRedactingLogger(inner, "abc").Warn("abc")
	assert.Equal(t, []string{"WARN abc"}, inner.messages)
}

func TestRedactingLogger_WithFields(t *testing.T) {
	inner := &recordingLogger{}
	l := NewRedactingLogger(inner, "password123")
	l.WithFields(StringField("dsn", "user:password123@db")).Debug("x")

	assert.Contains(t, inner.fields, StringField("dsn", "user:pass*******@db"))
}

func TestRedactValue(t *testing.T) {
	assert.Equal(t, "***", redactValue("abc"))
	assert.Equal(t, "abcd**", redactValue("abcdef"))
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer

	l, err := New(Config{Format: "json", Level: "warn"}, &buf)
	require.NoError(t, err)
	l.Info("skipped")
	l.Warn("kept")
	assert.NotContains(t, buf.String(), "skipped")
	assert.Contains(t, buf.String(), `"message":"kept"`)

	l, err = New(Config{Format: "none"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, NullLogger{}, l)

	l, err = New(Config{Format: "console", Secrets: []string{"hunter22"}}, &buf)
	require.NoError(t, err)
	assert.IsType(t, &RedactingLogger{}, l)

	_, err = New(Config{Format: "xml"}, &buf)
	assert.Error(t, err)

	_, err = New(Config{Level: "loud"}, &buf)
	assert.Error(t, err)
}

func TestNew_FileFanOut(t *testing.T) {
	var buf bytes.Buffer
	path := t.TempDir() + "/run.jsonl"

	l, err := New(Config{Format: "console", File: path}, &buf)
	require.NoError(t, err)
	assert.IsType(t, &MultiLogger{}, l)
	require.NoError(t, l.Close())
}
