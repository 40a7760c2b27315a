package executor

import (
	"context"
	"fmt"
)

// DefaultPythonEntry is the function called when a Python runtime
// names no entry point.
const DefaultPythonEntry = "calculate"

const pythonWrapper = `import json
import sys

context = json.loads(sys.argv[1])
target = context

%s

def _polyglot_main():
    fn = globals().get(%q)
    if callable(fn):
        return fn(context)
    return globals().get("result")

try:
    print(json.dumps(_polyglot_main()))
except Exception as e:
    print(json.dumps({"error": str(e)}))
    sys.exit(1)
`

// PythonExecutor runs inline Python source through python3. The
// entry function receives the decoded context; without one the
// module-level result variable is returned.
type PythonExecutor struct {
	process
}

// NewPythonExecutor creates a PythonExecutor.
func NewPythonExecutor(opts ...ProcessOption) *PythonExecutor {
	return &PythonExecutor{process: newProcess("python3", opts)}
}

// Name returns "python".
func (e *PythonExecutor) Name() string { return "python" }

// EmbedsSource reports that Python source is embedded.
func (e *PythonExecutor) EmbedsSource() bool { return true }

// ValidateEnvironment probes the interpreter.
func (e *PythonExecutor) ValidateEnvironment(
	ctx context.Context,
) bool {
	return probe(ctx, e.command, "--version")
}

// Execute runs the wrapped source.
func (e *PythonExecutor) Execute(
	ctx context.Context,
	inv *Invocation,
	_ Target,
	rc RunContext,
) (any, error) {
	src, err := inlineSource(inv)
	if err != nil {
		return nil, err
	}
	entry := inv.EntryPoint
	if entry == "" {
		entry = DefaultPythonEntry
	}
	if !validIdentifier(entry) {
		return nil, fmt.Errorf("invalid entry point: %q", entry)
	}

	script := fmt.Sprintf(pythonWrapper, src, entry)
	return e.runScript(ctx, "polyglot-*.py", script, inv, rc)
}
