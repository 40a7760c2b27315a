package executor

import (
	"context"
	"fmt"
	"math"

	"digital.vasic.polyglot/pkg/example"
)

// Native methods selectable through the entry point.
const (
	MethodMath      = "math"
	MethodTaylor    = "taylor"
	MethodChebyshev = "chebyshev"
)

type trig struct {
	sin func(float64) float64
	cos func(float64) float64
}

var nativeMethods = map[string]trig{
	MethodMath:      {sin: math.Sin, cos: math.Cos},
	MethodTaylor:    {sin: SinTaylor, cos: CosTaylor},
	MethodChebyshev: {sin: SinChebyshev, cos: CosChebyshev},
}

// NativeExecutor evaluates examples in-process. The entry point
// selects the trigonometric method; arithmetic is exact. Batch
// calls return one entry per example, with failures reported as
// "Error: ..." strings in place.
type NativeExecutor struct{}

// NewNativeExecutor creates a NativeExecutor.
func NewNativeExecutor() *NativeExecutor {
	return &NativeExecutor{}
}

// Name returns "native".
func (e *NativeExecutor) Name() string { return "native" }

// ValidateEnvironment always succeeds.
func (e *NativeExecutor) ValidateEnvironment(_ context.Context) bool {
	return true
}

// Execute evaluates the context.
func (e *NativeExecutor) Execute(
	_ context.Context,
	inv *Invocation,
	_ Target,
	rc RunContext,
) (any, error) {
	method := inv.EntryPoint
	if method == "" {
		method = MethodMath
	}
	t, ok := nativeMethods[method]
	if !ok {
		return nil, fmt.Errorf("unknown native method: %s", method)
	}

	if !rc.IsBatch() {
		return evaluate(t, rc.Operands())
	}

	ops := rc.Examples()
	out := make([]any, len(ops))
	for i, o := range ops {
		v, err := evaluate(t, o)
		if err != nil {
			out[i] = "Error: " + err.Error()
			continue
		}
		out[i] = v
	}
	return out, nil
}

func evaluate(t trig, o example.Operands) (float64, error) {
	switch o.Op {
	case example.OpSin:
		return t.sin(o.A), nil
	case example.OpCos:
		return t.cos(o.A), nil
	}

	if o.B == nil {
		return 0, fmt.Errorf("operation %s requires operand b", o.Op)
	}
	a, b := o.A, *o.B
	switch o.Op {
	case example.OpAdd:
		return a + b, nil
	case example.OpSub:
		return a - b, nil
	case example.OpMul:
		return a * b, nil
	case example.OpDiv:
		if b == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return a / b, nil
	}
	return 0, fmt.Errorf("unsupported operation: %s", o.Op)
}
