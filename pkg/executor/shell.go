package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"digital.vasic.polyglot/pkg/value"
)

// ShellExecutor interprets inline POSIX shell source in-process.
// The encoded context is passed as $1; sequential calls also
// export POLYGLOT_OP, POLYGLOT_A and POLYGLOT_B. Stdout is parsed
// like subprocess output.
type ShellExecutor struct {
	process
}

// NewShellExecutor creates a ShellExecutor. Only WithEnv and
// WithWorkDir affect it.
func NewShellExecutor(opts ...ProcessOption) *ShellExecutor {
	return &ShellExecutor{process: newProcess("", opts)}
}

// Name returns "shell".
func (e *ShellExecutor) Name() string { return "shell" }

// EmbedsSource reports that shell source is embedded.
func (e *ShellExecutor) EmbedsSource() bool { return true }

// ValidateEnvironment always succeeds; the interpreter is linked
// in.
func (e *ShellExecutor) ValidateEnvironment(_ context.Context) bool {
	return true
}

// Execute parses and runs the script.
func (e *ShellExecutor) Execute(
	ctx context.Context,
	inv *Invocation,
	_ Target,
	rc RunContext,
) (any, error) {
	src, err := inlineSource(inv)
	if err != nil {
		return nil, err
	}
	payload, err := rc.JSON()
	if err != nil {
		return nil, fmt.Errorf("encode context: %w", err)
	}

	name := inv.Path
	if name == "" {
		name = inv.Runtime
	}
	prog, err := syntax.NewParser().Parse(strings.NewReader(src), name)
	if err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}

	var stdout, stderr bytes.Buffer
	opts := []interp.RunnerOption{
		interp.StdIO(nil, &stdout, &stderr),
		interp.Env(expand.ListEnviron(e.shellEnv(payload, rc)...)),
		interp.Params("--", payload),
	}
	dir := e.workDir
	if dir == "" {
		dir = inv.BaseDir
	}
	if dir != "" {
		opts = append(opts, interp.Dir(dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		errOut := strings.TrimSpace(stderr.String())
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return nil, &ProcessError{
				Command:  "shell",
				ExitCode: int(status),
				Message:  wrapperError(errOut, strings.TrimSpace(stdout.String())),
				Stderr:   errOut,
			}
		}
		return nil, fmt.Errorf("run script: %w", err)
	}
	return ParseOutput(stdout.String()), nil
}

func (e *ShellExecutor) shellEnv(payload string, rc RunContext) []string {
	env := append(os.Environ(), e.environ()...)
	env = append(env, "POLYGLOT_CONTEXT="+payload)
	if rc.IsBatch() {
		return append(env, "POLYGLOT_BATCH=true")
	}

	ops := rc.Operands()
	env = append(env,
		"POLYGLOT_OP="+string(ops.Op),
		"POLYGLOT_A="+value.FormatFloat(ops.A),
	)
	if ops.B != nil {
		env = append(env, "POLYGLOT_B="+value.FormatFloat(*ops.B))
	}
	return env
}
