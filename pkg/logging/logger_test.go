package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.level.String())
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"":        LevelInfo,
		"warning": LevelWarn,
		"Error":   LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestFields(t *testing.T) {
	assert.Equal(t, Field{"k", "v"}, LogField("k", "v"))
	assert.Equal(t, Field{"name", "test"}, StringField("name", "test"))
	assert.Equal(t, Field{"count", 42}, IntField("count", 42))
	assert.Equal(t, Field{"score", 3.14}, Float64Field("score", 3.14))
	assert.Equal(t, Field{"ok", true}, BoolField("ok", true))
	assert.Equal(t, Field{"d", time.Second}, DurationField("d", time.Second))
}

func TestErrorField(t *testing.T) {
	assert.Equal(t, Field{"error", "boom"}, ErrorField(errors.New("boom")))
	assert.Equal(t, Field{"error", "<nil>"}, ErrorField(nil))
}

func TestKeyvals(t *testing.T) {
	kv := keyvals([]Field{StringField("a", "1"), IntField("b", 2)})
	assert.Equal(t, []any{"a", "1", "b", 2}, kv)
}
