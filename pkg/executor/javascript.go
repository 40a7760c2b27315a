package executor

import (
	"context"
	"fmt"
	"regexp"
)

var jsIdentifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

const jsWrapper = `const context = JSON.parse(process.argv[2]);
global.context = context;
let result;

(async () => {
    try {
%s
%s
        console.log(JSON.stringify(result));
    } catch (e) {
        console.error(JSON.stringify({ error: e.message }));
        process.exit(1);
    }
})();
`

// JavaScriptExecutor runs inline JavaScript through node. The
// source sees a global context and assigns result, or defines the
// named entry function.
type JavaScriptExecutor struct {
	process
}

// NewJavaScriptExecutor creates a JavaScriptExecutor.
func NewJavaScriptExecutor(
	opts ...ProcessOption,
) *JavaScriptExecutor {
	return &JavaScriptExecutor{process: newProcess("node", opts)}
}

// Name returns "javascript".
func (e *JavaScriptExecutor) Name() string { return "javascript" }

// EmbedsSource reports that JavaScript source is embedded.
func (e *JavaScriptExecutor) EmbedsSource() bool { return true }

// ValidateEnvironment probes node.
func (e *JavaScriptExecutor) ValidateEnvironment(
	ctx context.Context,
) bool {
	return probe(ctx, e.command, "--version")
}

// Execute runs the wrapped source.
func (e *JavaScriptExecutor) Execute(
	ctx context.Context,
	inv *Invocation,
	_ Target,
	rc RunContext,
) (any, error) {
	src, err := inlineSource(inv)
	if err != nil {
		return nil, err
	}

	call := ""
	if entry := inv.EntryPoint; entry != "" {
		if !jsIdentifierPattern.MatchString(entry) {
			return nil, fmt.Errorf(
				"invalid entry point: %q", entry,
			)
		}
		call = fmt.Sprintf(
			"        if (typeof %[1]s === 'function') { result = await %[1]s(context); }",
			entry,
		)
	}

	script := fmt.Sprintf(jsWrapper, src, call)
	return e.runScript(ctx, "polyglot-*.js", script, inv, rc)
}
