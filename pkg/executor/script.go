package executor

import (
	"context"
	"fmt"
	"os"
	"regexp"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validIdentifier reports whether name can be templated into a
// wrapper script as a bare identifier.
func validIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// runScript writes a generated wrapper to a temporary file, runs
// it with the process command and the encoded context as its only
// argument, and removes the file afterwards.
func (p process) runScript(
	ctx context.Context,
	pattern string,
	script string,
	inv *Invocation,
	rc RunContext,
) (any, error) {
	payload, err := rc.JSON()
	if err != nil {
		return nil, fmt.Errorf("encode context: %w", err)
	}

	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return nil, fmt.Errorf("create wrapper: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(script); err != nil {
		f.Close()
		return nil, fmt.Errorf("write wrapper: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close wrapper: %w", err)
	}

	return p.run(ctx, p.command, inv.BaseDir, path, payload)
}

// inlineSource returns the embedded source of an invocation.
func inlineSource(inv *Invocation) (string, error) {
	if inv.Source != "" {
		return inv.Source, nil
	}
	if inv.Path == "" {
		return "", fmt.Errorf(
			"runtime %s has no source file", inv.Runtime,
		)
	}
	data, err := os.ReadFile(inv.Path)
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}
	return string(data), nil
}
