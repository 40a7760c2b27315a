package executor

import (
	"context"
	"os/exec"
	"time"
)

// probeTimeout bounds a single availability probe.
const probeTimeout = 5 * time.Second

// probe reports whether running name with args succeeds. Missing
// binaries, non-zero exits and timeouts all report false.
func probe(ctx context.Context, name string, args ...string) bool {
	if _, err := exec.LookPath(name); err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = time.Second
	return cmd.Run() == nil
}

// probeAny reports whether any of the named tools answers to
// --version.
func probeAny(ctx context.Context, names ...string) bool {
	for _, n := range names {
		if probe(ctx, n, "--version") {
			return true
		}
	}
	return false
}
