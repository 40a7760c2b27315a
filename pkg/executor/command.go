package executor

import (
	"context"
	"fmt"
)

// CommandExecutor runs a resolved file through a fixed tool, as
// in `<command> [args...] <path> <context-json>`.
type CommandExecutor struct {
	process
	name string
	args []string
}

// NewCommandExecutor creates a CommandExecutor registered as name.
func NewCommandExecutor(
	name string,
	command string,
	args []string,
	opts ...ProcessOption,
) *CommandExecutor {
	return &CommandExecutor{
		process: newProcess(command, opts),
		name:    name,
		args:    args,
	}
}

// NewWasmExecutor runs WebAssembly modules with wasmtime.
func NewWasmExecutor(opts ...ProcessOption) *CommandExecutor {
	return NewCommandExecutor("wasm", "wasmtime", nil, opts...)
}

// NewLeanExecutor runs Lean sources with lean --run.
func NewLeanExecutor(opts ...ProcessOption) *CommandExecutor {
	return NewCommandExecutor(
		"lean", "lean", []string{"--run"}, opts...,
	)
}

// NewJuliaExecutor runs Julia sources.
func NewJuliaExecutor(opts ...ProcessOption) *CommandExecutor {
	return NewCommandExecutor("julia", "julia", nil, opts...)
}

// Name returns the registered name.
func (e *CommandExecutor) Name() string { return e.name }

// ValidateEnvironment probes the tool.
func (e *CommandExecutor) ValidateEnvironment(
	ctx context.Context,
) bool {
	return probe(ctx, e.command, "--version")
}

// Execute runs the tool against the resolved path.
func (e *CommandExecutor) Execute(
	ctx context.Context,
	inv *Invocation,
	_ Target,
	rc RunContext,
) (any, error) {
	if inv.Path == "" {
		return nil, fmt.Errorf(
			"runtime %s has no file to run", inv.Runtime,
		)
	}
	payload, err := rc.JSON()
	if err != nil {
		return nil, fmt.Errorf("encode context: %w", err)
	}

	args := make([]string, 0, len(e.args)+2)
	args = append(args, e.args...)
	args = append(args, inv.Path, payload)
	return e.run(ctx, e.command, inv.BaseDir, args...)
}
