package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"
)

// defaultWaitDelay bounds how long a cancelled subprocess may keep
// its output pipes open.
const defaultWaitDelay = 2 * time.Second

// ProcessOption configures a subprocess-backed executor.
type ProcessOption func(*process)

// WithEnv injects additional environment variables into every
// subprocess.
func WithEnv(env map[string]string) ProcessOption {
	return func(p *process) {
		for k, v := range env {
			p.env[k] = v
		}
	}
}

// WithCommand overrides the interpreter or tool binary.
func WithCommand(command string) ProcessOption {
	return func(p *process) {
		if command != "" {
			p.command = command
		}
	}
}

// WithWorkDir sets the working directory of every subprocess.
func WithWorkDir(dir string) ProcessOption {
	return func(p *process) {
		p.workDir = dir
	}
}

// WithWaitDelay sets the grace period after cancellation before
// the subprocess pipes are forcibly closed.
func WithWaitDelay(d time.Duration) ProcessOption {
	return func(p *process) {
		p.waitDelay = d
	}
}

// process holds the shared subprocess settings of the command
// based executors.
type process struct {
	command   string
	env       map[string]string
	workDir   string
	waitDelay time.Duration
}

func newProcess(command string, opts []ProcessOption) process {
	p := process{
		command:   command,
		env:       make(map[string]string),
		waitDelay: defaultWaitDelay,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// ProcessError is returned when a subprocess exits unsuccessfully.
type ProcessError struct {
	Command  string
	ExitCode int
	Message  string
	Stderr   string
}

// Error implements the error interface.
func (e *ProcessError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	msg := fmt.Sprintf(
		"%s exited with code %d", e.Command, e.ExitCode,
	)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// run executes name with args, captures stdout and stderr, and
// parses stdout as JSON when possible.
func (p process) run(
	ctx context.Context,
	name string,
	dir string,
	args ...string,
) (any, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = p.waitDelay

	switch {
	case p.workDir != "":
		cmd.Dir = p.workDir
	case dir != "":
		cmd.Dir = dir
	}

	if len(p.env) > 0 {
		cmd.Env = append(os.Environ(), p.environ()...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := strings.TrimSpace(stdout.String())
	errOut := strings.TrimSpace(stderr.String())

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &ProcessError{
				Command:  name,
				ExitCode: exitErr.ExitCode(),
				Message:  wrapperError(errOut, out),
				Stderr:   errOut,
			}
		}
		return nil, fmt.Errorf("execution error: %w", err)
	}

	if msg := wrapperError(errOut); msg != "" {
		return nil, errors.New(msg)
	}
	return ParseOutput(out), nil
}

func (p process) environ() []string {
	keys := make([]string, 0, len(p.env))
	for k := range p.env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, len(keys))
	for i, k := range keys {
		env[i] = fmt.Sprintf("%s=%s", k, p.env[k])
	}
	return env
}

// wrapperError extracts the message of an {"error": ...} object
// written by a runtime wrapper to any of the given streams.
func wrapperError(streams ...string) string {
	for _, s := range streams {
		if !strings.HasPrefix(s, "{") {
			continue
		}
		var obj struct {
			Error any `json:"error"`
		}
		if json.Unmarshal([]byte(s), &obj) != nil {
			continue
		}
		if obj.Error != nil {
			return fmt.Sprint(obj.Error)
		}
	}
	return ""
}

// ParseOutput decodes trimmed stdout as JSON, falling back to the
// raw string.
func ParseOutput(out string) any {
	out = strings.TrimSpace(out)
	if out == "" {
		return out
	}
	var v any
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		return out
	}
	return v
}
