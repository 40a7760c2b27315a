package executor

import (
	"context"
	"fmt"
)

// BinaryExecutor runs a precompiled executable, passing the
// encoded context as its only argument.
type BinaryExecutor struct {
	process
	name      string
	toolchain []string
}

// NewBinaryExecutor creates a BinaryExecutor registered as name.
// The environment check succeeds when any toolchain command
// answers to --version.
func NewBinaryExecutor(
	name string,
	toolchain []string,
	opts ...ProcessOption,
) *BinaryExecutor {
	return &BinaryExecutor{
		process:   newProcess("", opts),
		name:      name,
		toolchain: toolchain,
	}
}

// NewCExecutor creates the executor for C binaries.
func NewCExecutor(opts ...ProcessOption) *BinaryExecutor {
	return NewBinaryExecutor("c", []string{"gcc", "clang", "cc"}, opts...)
}

// NewRustExecutor creates the executor for Rust binaries.
func NewRustExecutor(opts ...ProcessOption) *BinaryExecutor {
	return NewBinaryExecutor("rust", []string{"cargo", "rustc"}, opts...)
}

// Name returns the registered name.
func (e *BinaryExecutor) Name() string { return e.name }

// ValidateEnvironment probes the toolchain.
func (e *BinaryExecutor) ValidateEnvironment(
	ctx context.Context,
) bool {
	if len(e.toolchain) == 0 {
		return true
	}
	return probeAny(ctx, e.toolchain...)
}

// Execute runs the resolved binary.
func (e *BinaryExecutor) Execute(
	ctx context.Context,
	inv *Invocation,
	_ Target,
	rc RunContext,
) (any, error) {
	if inv.Path == "" {
		return nil, fmt.Errorf(
			"runtime %s has no binary path", inv.Runtime,
		)
	}
	payload, err := rc.JSON()
	if err != nil {
		return nil, fmt.Errorf("encode context: %w", err)
	}
	return e.run(ctx, inv.Path, inv.BaseDir, payload)
}
