package executor

import "fmt"

// DefaultBatchRuntimes are the runtimes that receive every example
// in a single call unless configured otherwise.
var DefaultBatchRuntimes = []string{
	"python", "javascript", "c", "julia", "native",
}

// Options configures the built-in executors.
type Options struct {
	// Env is injected into every subprocess, script and
	// container executor.
	Env map[string]string

	// Commands overrides tool binaries by executor name, e.g.
	// {"python": "/usr/bin/python3.12"}.
	Commands map[string]string

	// GoImports extends the import allowlist of the go executor.
	GoImports []string
}

// Builtins returns a fresh instance of every built-in executor.
func Builtins(opts Options) []Executor {
	proc := func(name string) []ProcessOption {
		return []ProcessOption{
			WithEnv(opts.Env),
			WithCommand(opts.Commands[name]),
		}
	}
	return []Executor{
		NewPythonExecutor(proc("python")...),
		NewJavaScriptExecutor(proc("javascript")...),
		NewCExecutor(proc("c")...),
		NewRustExecutor(proc("rust")...),
		NewWasmExecutor(proc("wasm")...),
		NewLeanExecutor(proc("lean")...),
		NewJuliaExecutor(proc("julia")...),
		NewGoExecutor(opts.GoImports...),
		NewShellExecutor(WithEnv(opts.Env)),
		NewContainerExecutor(opts.Env),
		NewWebSocketExecutor(),
		NewNativeExecutor(),
	}
}

// BuildRegistry creates a registry holding every built-in
// executor.
func BuildRegistry(opts Options) (*DefaultRegistry, error) {
	reg := NewRegistry()
	for _, e := range Builtins(opts) {
		if err := reg.Register(e); err != nil {
			return nil, fmt.Errorf("register %s: %w", e.Name(), err)
		}
	}
	return reg, nil
}
