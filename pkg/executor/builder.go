package executor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"digital.vasic.polyglot/pkg/example"
)

// ErrMissingFile is returned when a runtime spec names a file that
// does not exist. Callers treat it as a skip for that runtime.
var ErrMissingFile = errors.New("runtime file not found")

// Builder resolves RuntimeSpecs into concrete Invocations.
type Builder struct {
	baseDir  string
	registry Registry
}

// NewBuilder creates a Builder resolving relative paths against
// baseDir. The registry is consulted to decide whether an
// executor needs the source text embedded; it may be nil.
func NewBuilder(baseDir string, registry Registry) *Builder {
	return &Builder{baseDir: baseDir, registry: registry}
}

// BaseDir returns the directory relative paths resolve against.
func (b *Builder) BaseDir() string { return b.baseDir }

// Build resolves one runtime spec. A named file that cannot be
// found yields an error wrapping ErrMissingFile.
func (b *Builder) Build(
	spec example.RuntimeSpec,
) (*Invocation, error) {
	inv := &Invocation{
		Runtime:    spec.Name,
		Executor:   spec.ExecutorName(),
		Kind:       spec.Kind(),
		EntryPoint: spec.Entry,
		Image:      spec.Image,
		URL:        spec.URL,
		BaseDir:    b.baseDir,
	}

	var rel string
	switch inv.Kind {
	case example.KindSourceFile:
		rel = spec.File
	case example.KindBinaryPath:
		rel = spec.Binary
	case example.KindModulePath:
		rel = spec.Module
	default:
		return inv, nil
	}

	path, err := b.resolve(rel)
	if err != nil {
		return nil, err
	}
	inv.Path = path

	if inv.Kind == example.KindSourceFile && b.embeds(inv.Executor) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf(
				"read source %s: %w", path, err,
			)
		}
		inv.Source = string(data)
	}
	return inv, nil
}

func (b *Builder) resolve(rel string) (string, error) {
	path := rel
	if !filepath.IsAbs(path) {
		path = filepath.Join(b.baseDir, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", rel, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrMissingFile, abs)
	}
	if info.IsDir() {
		return "", fmt.Errorf(
			"%w: %s is a directory", ErrMissingFile, abs,
		)
	}
	return abs, nil
}

func (b *Builder) embeds(name string) bool {
	if b.registry == nil {
		return false
	}
	e, err := b.registry.Get(name)
	if err != nil {
		return false
	}
	se, ok := e.(SourceEmbedder)
	return ok && se.EmbedsSource()
}
