package executor

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.polyglot/pkg/example"
)

func TestNativeExecutor_Sequential(t *testing.T) {
	e := NewNativeExecutor()
	assert.True(t, e.ValidateEnvironment(context.Background()))

	tests := []struct {
		ex   example.Example
		want float64
	}{
		{example.New(example.OpAdd, 2, 3), 5},
		{example.New(example.OpSub, 2, 3), -1},
		{example.New(example.OpMul, 2, 3), 6},
		{example.New(example.OpDiv, 3, 2), 1.5},
		{example.NewUnary(example.OpSin, math.Pi/6), 0.5},
		{example.NewUnary(example.OpCos, 0), 1},
	}
	for _, tt := range tests {
		got, err := e.Execute(
			context.Background(), &Invocation{Runtime: "native"},
			Target{Runtime: "native"}, SequentialContext(tt.ex),
		)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-12, string(tt.ex.Op))
	}
}

func TestNativeExecutor_Errors(t *testing.T) {
	e := NewNativeExecutor()
	ctx := context.Background()

	_, err := e.Execute(ctx, &Invocation{},
		Target{}, SequentialContext(example.New(example.OpDiv, 1, 0)))
	assert.EqualError(t, err, "division by zero")

	_, err = e.Execute(ctx, &Invocation{},
		Target{}, SequentialContext(example.New("pow", 1, 2)))
	assert.EqualError(t, err, "unsupported operation: pow")

	_, err = e.Execute(ctx, &Invocation{EntryPoint: "cordic"},
		Target{}, SequentialContext(example.New(example.OpAdd, 1, 2)))
	assert.EqualError(t, err, "unknown native method: cordic")
}

func TestNativeExecutor_Batch(t *testing.T) {
	e := NewNativeExecutor()
	rc := BatchContext([]example.Example{
		example.New(example.OpAdd, 1, 2),
		example.New(example.OpDiv, 1, 0),
		example.NewUnary(example.OpSin, 0),
	})

	got, err := e.Execute(
		context.Background(), &Invocation{EntryPoint: MethodTaylor},
		BatchTarget("native"), rc,
	)
	require.NoError(t, err)

	list, ok := got.([]any)
	require.True(t, ok)
	require.Len(t, list, 3)
	assert.Equal(t, 3.0, list[0])
	assert.Equal(t, "Error: division by zero", list[1])
	assert.InDelta(t, 0, list[2], 1e-12)
}
