package executor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubExecutor is a minimal Executor implementation for testing.
type stubExecutor struct {
	name      string
	available bool
	result    any
	err       error
}

func (s *stubExecutor) Name() string { return s.name }

func (s *stubExecutor) ValidateEnvironment(
	_ context.Context,
) bool {
	return s.available
}

func (s *stubExecutor) Execute(
	_ context.Context,
	_ *Invocation,
	_ Target,
	_ RunContext,
) (any, error) {
	return s.result, s.err
}

func TestDefaultRegistry_Register(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubExecutor{name: "python"}))
	assert.Equal(t, 1, r.Count())

	e, err := r.Get("python")
	require.NoError(t, err)
	assert.Equal(t, "python", e.Name())
}

func TestDefaultRegistry_Register_Duplicate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubExecutor{name: "python"}))

	err := r.Register(&stubExecutor{name: "python"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestDefaultRegistry_RegisterAs(t *testing.T) {
	r := NewRegistry()
	e := &stubExecutor{name: "python"}
	require.NoError(t, r.Register(e))
	require.NoError(t, r.RegisterAs("python-taylor", e))

	got, err := r.Get("python-taylor")
	require.NoError(t, err)
	assert.Same(t, e, got)

	assert.Error(t, r.RegisterAs("", e))
	assert.Error(t, r.RegisterAs("nil", nil))
}

func TestDefaultRegistry_Get_NotFound(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("cobol")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "cobol")
}

func TestDefaultRegistry_List_Sorted(t *testing.T) {
	r := NewRegistry()
	for _, n := range []string{"rust", "c", "python"} {
		require.NoError(t, r.Register(&stubExecutor{name: n}))
	}

	assert.Equal(t, []string{"c", "python", "rust"}, r.Names())
	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, "c", list[0].Name())
	assert.Equal(t, "rust", list[2].Name())
}

func TestDefaultRegistry_Clear(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubExecutor{name: "c"}))
	r.Clear()
	assert.Equal(t, 0, r.Count())
	assert.Empty(t, r.List())
}

func TestDefaultRegistry_Concurrent(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = r.Register(&stubExecutor{name: string(rune('a' + i))})
			_ = r.Names()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 20, r.Count())
}

func TestBuildRegistry(t *testing.T) {
	r, err := BuildRegistry(Options{})
	require.NoError(t, err)

	for _, n := range []string{
		"python", "javascript", "c", "rust", "wasm", "lean",
		"julia", "go", "shell", "container", "websocket", "native",
	} {
		_, err := r.Get(n)
		assert.NoError(t, err, n)
	}
}
