package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.polyglot/pkg/example"
)

func TestShellExecutor_Sequential(t *testing.T) {
	e := NewShellExecutor()
	assert.True(t, e.ValidateEnvironment(context.Background()))

	got, err := e.Execute(
		context.Background(),
		&Invocation{Runtime: "shell", Source: `echo $((POLYGLOT_A + POLYGLOT_B))`},
		Target{Runtime: "shell"},
		SequentialContext(example.New(example.OpAdd, 2, 3)),
	)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got)
}

func TestShellExecutor_ContextArgument(t *testing.T) {
	got, err := NewShellExecutor().Execute(
		context.Background(),
		&Invocation{Runtime: "shell", Source: `printf '%s' "$1"`},
		Target{}, SequentialContext(example.New(example.OpMul, 4, 5)),
	)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"op": "mul", "a": 4.0, "b": 5.0}, got)
}

func TestShellExecutor_Batch(t *testing.T) {
	src := `if [ "$POLYGLOT_BATCH" = "true" ]; then echo '[1, 2]'; fi`
	got, err := NewShellExecutor().Execute(
		context.Background(),
		&Invocation{Runtime: "shell", Source: src},
		BatchTarget("shell"),
		BatchContext([]example.Example{
			example.New(example.OpAdd, 0, 1),
			example.New(example.OpAdd, 1, 1),
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 2.0}, got)
}

func TestShellExecutor_InjectedEnv(t *testing.T) {
	e := NewShellExecutor(WithEnv(map[string]string{"SCALE": "10"}))
	got, err := e.Execute(
		context.Background(),
		&Invocation{Runtime: "shell", Source: `echo $((POLYGLOT_A * SCALE))`},
		Target{}, SequentialContext(example.NewUnary(example.OpSin, 3)),
	)
	require.NoError(t, err)
	assert.Equal(t, 30.0, got)
}

func TestShellExecutor_ExitStatus(t *testing.T) {
	src := `echo '{"error": "bad input"}' >&2; exit 3`
	_, err := NewShellExecutor().Execute(
		context.Background(),
		&Invocation{Runtime: "shell", Source: src},
		Target{}, SequentialContext(example.New(example.OpAdd, 1, 1)),
	)
	require.Error(t, err)

	var perr *ProcessError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 3, perr.ExitCode)
	assert.Equal(t, "bad input", err.Error())
}

func TestShellExecutor_ParseError(t *testing.T) {
	_, err := NewShellExecutor().Execute(
		context.Background(),
		&Invocation{Runtime: "shell", Source: `if then fi (`},
		Target{}, SequentialContext(example.New(example.OpAdd, 1, 1)),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse script")
}

func TestShellExecutor_NoSource(t *testing.T) {
	_, err := NewShellExecutor().Execute(
		context.Background(), &Invocation{Runtime: "shell"},
		Target{}, SequentialContext(example.New(example.OpAdd, 1, 1)),
	)
	assert.EqualError(t, err, "runtime shell has no source file")
}
