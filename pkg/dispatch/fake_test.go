package dispatch

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"digital.vasic.polyglot/pkg/example"
	"digital.vasic.polyglot/pkg/executor"
)

type executeFunc func(
	ctx context.Context,
	inv *executor.Invocation,
	target executor.Target,
	rc executor.RunContext,
) (any, error)

// fakeExecutor records every call and delegates to fn.
type fakeExecutor struct {
	name        string
	unavailable bool
	checkErr    error
	fn          executeFunc

	mu    sync.Mutex
	calls []executor.RunContext
}

func newFake(name string, fn executeFunc) *fakeExecutor {
	return &fakeExecutor{name: name, fn: fn}
}

func (f *fakeExecutor) Name() string { return f.name }

func (f *fakeExecutor) ValidateEnvironment(context.Context) bool {
	return !f.unavailable
}

func (f *fakeExecutor) Execute(
	ctx context.Context,
	inv *executor.Invocation,
	target executor.Target,
	rc executor.RunContext,
) (any, error) {
	f.mu.Lock()
	f.calls = append(f.calls, rc)
	f.mu.Unlock()
	return f.fn(ctx, inv, target, rc)
}

func (f *fakeExecutor) CheckInvocation(
	context.Context, *executor.Invocation,
) error {
	return f.checkErr
}

func (f *fakeExecutor) Calls() []executor.RunContext {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]executor.RunContext, len(f.calls))
	copy(out, f.calls)
	return out
}

// constant returns v for every example.
func constant(v any) executeFunc {
	return func(
		_ context.Context,
		_ *executor.Invocation,
		_ executor.Target,
		rc executor.RunContext,
	) (any, error) {
		if !rc.IsBatch() {
			return v, nil
		}
		out := make([]any, rc.Size())
		for i := range out {
			out[i] = v
		}
		return out, nil
	}
}

// arithmetic computes add and mul for sequential and batch calls.
func arithmetic() executeFunc {
	calc := func(o example.Operands) any {
		b := 0.0
		if o.B != nil {
			b = *o.B
		}
		if o.Op == example.OpMul {
			return o.A * b
		}
		return o.A + b
	}
	return func(
		_ context.Context,
		_ *executor.Invocation,
		_ executor.Target,
		rc executor.RunContext,
	) (any, error) {
		if !rc.IsBatch() {
			return calc(rc.Operands()), nil
		}
		var out []any
		for _, o := range rc.Examples() {
			out = append(out, calc(o))
		}
		return out, nil
	}
}

func newTestRegistry(
	t *testing.T,
	execs ...executor.Executor,
) *executor.DefaultRegistry {
	t.Helper()
	reg := executor.NewRegistry()
	for _, e := range execs {
		require.NoError(t, reg.Register(e))
	}
	return reg
}

func specs(names ...string) []example.RuntimeSpec {
	out := make([]example.RuntimeSpec, len(names))
	for i, n := range names {
		out[i] = example.RuntimeSpec{Name: n}
	}
	return out
}
