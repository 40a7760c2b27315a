package executor

import (
	"context"
	"fmt"
	"go/parser"
	"go/token"
	"sort"
	"strconv"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// DefaultGoEntry is the function looked up when a Go runtime names
// no entry point.
const DefaultGoEntry = "Calculate"

// defaultGoImports are the packages interpreted Go sources may
// import.
var defaultGoImports = []string{
	"bytes",
	"encoding/json",
	"errors",
	"fmt",
	"math",
	"sort",
	"strconv",
	"strings",
}

// GoExecutor interprets Go source in-process with yaegi. The
// source must define func <Entry>(input string) (string, error);
// input is the encoded context and the returned string is parsed
// like subprocess output.
type GoExecutor struct {
	allowed map[string]bool
}

// NewGoExecutor creates a GoExecutor. Extra packages are added to
// the import allowlist.
func NewGoExecutor(extraImports ...string) *GoExecutor {
	allowed := make(map[string]bool)
	for _, p := range defaultGoImports {
		allowed[p] = true
	}
	for _, p := range extraImports {
		allowed[p] = true
	}
	return &GoExecutor{allowed: allowed}
}

// Name returns "go".
func (e *GoExecutor) Name() string { return "go" }

// EmbedsSource reports that Go source is embedded.
func (e *GoExecutor) EmbedsSource() bool { return true }

// ValidateEnvironment always succeeds; the interpreter is linked
// in.
func (e *GoExecutor) ValidateEnvironment(_ context.Context) bool {
	return true
}

// Execute interprets the source and calls the entry function.
func (e *GoExecutor) Execute(
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
		entry = DefaultGoEntry
	}
	if !validIdentifier(entry) {
		return nil, fmt.Errorf("invalid entry point: %q", entry)
	}

	src = wrapGoSource(src)
	if err := e.validateImports(src); err != nil {
		return nil, err
	}

	payload, err := rc.JSON()
	if err != nil {
		return nil, fmt.Errorf("encode context: %w", err)
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("load stdlib: %w", err)
	}
	if _, err := i.EvalWithContext(ctx, src); err != nil {
		return nil, fmt.Errorf("evaluate source: %w", err)
	}

	sym, err := i.Eval("main." + entry)
	if err != nil {
		return nil, fmt.Errorf("entry point %s not found: %w", entry, err)
	}
	fn, ok := sym.Interface().(func(string) (string, error))
	if !ok {
		return nil, fmt.Errorf(
			"entry point %s has signature %s, want func(string) (string, error)",
			entry, sym.Type(),
		)
	}

	type outcome struct {
		out string
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		out, err := fn(payload)
		done <- outcome{out: out, err: err}
	}()

	select {
	case o := <-done:
		if o.err != nil {
			return nil, o.err
		}
		return ParseOutput(o.out), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func wrapGoSource(src string) string {
	if strings.Contains(src, "package main") {
		return src
	}
	return "package main\n\n" + src
}

// validateImports rejects sources importing packages outside the
// allowlist.
func (e *GoExecutor) validateImports(src string) error {
	f, err := parser.ParseFile(
		token.NewFileSet(), "source.go", src, parser.ImportsOnly,
	)
	if err != nil {
		return fmt.Errorf("parse source: %w", err)
	}

	var forbidden []string
	for _, imp := range f.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			return fmt.Errorf("parse import %s: %w", imp.Path.Value, err)
		}
		if !e.allowed[path] {
			forbidden = append(forbidden, path)
		}
	}
	if len(forbidden) > 0 {
		sort.Strings(forbidden)
		return fmt.Errorf(
			"forbidden imports: %s", strings.Join(forbidden, ", "),
		)
	}
	return nil
}
