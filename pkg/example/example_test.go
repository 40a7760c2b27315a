package example

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExample_Operation_Default(t *testing.T) {
	e := Example{A: 1, B: Float(2)}
	assert.Equal(t, OpAdd, e.Operation())

	e.Op = "MUL"
	assert.Equal(t, OpMul, e.Operation())
}

func TestExample_Recompute(t *testing.T) {
	tests := []struct {
		name string
		ex   Example
		want float64
		ok   bool
	}{
		{"add", New(OpAdd, 2, 3), 5, true},
		{"sub", New(OpSub, 2, 3), -1, true},
		{"mul", New(OpMul, 4, 2.5), 10, true},
		{"div", New(OpDiv, 9, 3), 3, true},
		{"div by zero", New(OpDiv, 9, 0), 0, false},
		{"sin", NewUnary(OpSin, math.Pi/2), 1, true},
		{"cos", NewUnary(OpCos, 0), 1, true},
		{"binary without b", Example{Op: OpAdd, A: 1}, 0, false},
		{"unknown op", New("pow", 2, 3), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.ex.Recompute()
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-12)
			}
		})
	}
}

func TestExample_Operands_OmitsExpected(t *testing.T) {
	e := New(OpAdd, 2, 3).WithExpected(5)
	ops := e.Operands()

	assert.Equal(t, OpAdd, ops.Op)
	assert.Equal(t, 2.0, ops.A)
	require.NotNil(t, ops.B)
	assert.Equal(t, 3.0, *ops.B)
}

func TestExample_WithExpected_DoesNotMutate(t *testing.T) {
	e := New(OpAdd, 2, 3)
	withExp := e.WithExpected(5)

	assert.Nil(t, e.Expected)
	require.NotNil(t, withExp.Expected)
	assert.Equal(t, 5.0, *withExp.Expected)
}

func TestExample_Validate(t *testing.T) {
	assert.NoError(t, New(OpAdd, 1, 2).Validate())
	assert.NoError(t, NewUnary(OpSin, 1).Validate())
	assert.NoError(t, Example{Op: "custom", A: 1}.Validate())

	err := Example{Op: OpMul, A: 1}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires operand b")
}

func TestRuntimeSpec_Kind(t *testing.T) {
	assert.Equal(t, KindSourceFile,
		RuntimeSpec{Name: "python", File: "a.py", Binary: "x"}.Kind())
	assert.Equal(t, KindBinaryPath,
		RuntimeSpec{Name: "c", Binary: "bin/add"}.Kind())
	assert.Equal(t, KindModulePath,
		RuntimeSpec{Name: "wasm", Module: "add.wasm"}.Kind())
	assert.Equal(t, KindNone, RuntimeSpec{Name: "native"}.Kind())
}

func TestRuntimeSpec_ExecutorName(t *testing.T) {
	assert.Equal(t, "python",
		RuntimeSpec{Name: "python"}.ExecutorName())
	assert.Equal(t, "python",
		RuntimeSpec{Name: "python-taylor", Executor: "python"}.ExecutorName())
}

func TestRuntimeSpec_Validate(t *testing.T) {
	assert.NoError(t, RuntimeSpec{Name: "python"}.Validate())
	assert.Error(t, RuntimeSpec{}.Validate())
}
