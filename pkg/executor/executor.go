// Package executor provides the runtime executor abstraction, the
// registry that maps runtime names to executors, the builder that
// resolves runtime specs into concrete invocations, and the
// built-in executors for subprocess, embedded and network runtimes.
package executor

import (
	"context"
	"encoding/json"

	"digital.vasic.polyglot/pkg/example"
)

// Executor runs one unit of work in a specific language or
// implementation.
type Executor interface {
	// Name returns the registry name of the executor.
	Name() string

	// ValidateEnvironment reports whether the runtime can be
	// used on this host. It fails closed: any error while
	// probing is reported as false.
	ValidateEnvironment(ctx context.Context) bool

	// Execute runs the invocation against the given context and
	// returns the raw, unnormalized result. Returned errors are
	// runtime-level failures, never fatal to a run.
	Execute(
		ctx context.Context,
		inv *Invocation,
		target Target,
		rc RunContext,
	) (any, error)
}

// SourceEmbedder is implemented by executors that run inline
// source text. The builder reads and embeds the source file for
// them.
type SourceEmbedder interface {
	EmbedsSource() bool
}

// Invocation is the concrete, fully resolved description of how
// to call one runtime.
type Invocation struct {
	// Runtime is the runtime name as configured.
	Runtime string `json:"runtime"`

	// Executor is the registry name of the executor.
	Executor string `json:"executor"`

	// Kind is the artifact kind Path refers to.
	Kind example.SourceKind `json:"kind,omitempty"`

	// Path is the absolute code, binary or module path.
	Path string `json:"path,omitempty"`

	// Source is the embedded source text for inline executors.
	Source string `json:"-"`

	// EntryPoint is carried unchanged from the runtime spec.
	EntryPoint string `json:"entry_point,omitempty"`

	// Image is the container image for container runtimes.
	Image string `json:"image,omitempty"`

	// URL is the endpoint for network runtimes.
	URL string `json:"url,omitempty"`

	// BaseDir is the directory relative paths resolved against.
	BaseDir string `json:"base_dir,omitempty"`
}

// Target identifies the unit of work an Execute call serves.
// Executors may ignore it.
type Target struct {
	// Runtime is the runtime name.
	Runtime string `json:"runtime"`

	// Example is the zero-based example index, or -1 for a
	// batch call covering every example.
	Example int `json:"example"`
}

// BatchTarget returns the target of a batch call.
func BatchTarget(runtime string) Target {
	return Target{Runtime: runtime, Example: -1}
}

// RunContext is the immutable payload handed to an executor.
// Sequential calls carry a single example's operands; batch calls
// carry every example.
type RunContext struct {
	batch    bool
	operands example.Operands
	examples []example.Operands
}

// SequentialContext builds the minimal per-example context. It
// never includes sibling examples.
func SequentialContext(ex example.Example) RunContext {
	return RunContext{operands: ex.Operands()}
}

// BatchContext builds a context carrying every example.
func BatchContext(examples []example.Example) RunContext {
	ops := make([]example.Operands, len(examples))
	for i, ex := range examples {
		ops[i] = ex.Operands()
	}
	return RunContext{batch: true, examples: ops}
}

// IsBatch reports whether the context covers every example.
func (c RunContext) IsBatch() bool { return c.batch }

// Operands returns the operands of a sequential context.
func (c RunContext) Operands() example.Operands { return c.operands }

// Examples returns a copy of the operands of a batch context.
func (c RunContext) Examples() []example.Operands {
	out := make([]example.Operands, len(c.examples))
	copy(out, c.examples)
	return out
}

// Size returns the number of results the call should produce.
func (c RunContext) Size() int {
	if c.batch {
		return len(c.examples)
	}
	return 1
}

// MarshalJSON encodes the context as {op, a, b} or
// {batch: true, examples: [...]}.
func (c RunContext) MarshalJSON() ([]byte, error) {
	if !c.batch {
		return json.Marshal(c.operands)
	}
	examples := c.examples
	if examples == nil {
		examples = []example.Operands{}
	}
	return json.Marshal(struct {
		Batch    bool               `json:"batch"`
		Examples []example.Operands `json:"examples"`
	}{Batch: true, Examples: examples})
}

// JSON returns the encoded context as a string, the form passed
// on subprocess command lines.
func (c RunContext) JSON() (string, error) {
	data, err := c.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// InvocationChecker is implemented by executors whose availability
// depends on the invocation itself, such as a network endpoint.
// A non-nil error skips the runtime like a failed environment
// check.
type InvocationChecker interface {
	CheckInvocation(ctx context.Context, inv *Invocation) error
}
