package executor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.polyglot/pkg/example"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuilder_Build_EmbedsInlineSource(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "src/add.py", "def calculate(ctx):\n    return 1\n")

	reg, err := BuildRegistry(Options{})
	require.NoError(t, err)
	b := NewBuilder(dir, reg)

	inv, err := b.Build(example.RuntimeSpec{
		Name:  "python",
		File:  "src/add.py",
		Entry: "calculate",
	})
	require.NoError(t, err)
	assert.Equal(t, "python", inv.Runtime)
	assert.Equal(t, example.KindSourceFile, inv.Kind)
	assert.Equal(t, path, inv.Path)
	assert.Contains(t, inv.Source, "def calculate")
	assert.Equal(t, "calculate", inv.EntryPoint)
	assert.Equal(t, dir, inv.BaseDir)
}

func TestBuilder_Build_SourceNotEmbeddedForCompiledRuntimes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "add.lean", "def main : IO Unit := pure ()\n")

	reg, err := BuildRegistry(Options{})
	require.NoError(t, err)

	inv, err := NewBuilder(dir, reg).Build(
		example.RuntimeSpec{Name: "lean", File: "add.lean"},
	)
	require.NoError(t, err)
	assert.Empty(t, inv.Source)
	assert.Equal(t, filepath.Join(dir, "add.lean"), inv.Path)
}

func TestBuilder_Build_BinaryAndModule(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bin/add", "")
	writeFile(t, dir, "add.wasm", "")

	b := NewBuilder(dir, nil)

	inv, err := b.Build(example.RuntimeSpec{Name: "c", Binary: "bin/add"})
	require.NoError(t, err)
	assert.Equal(t, example.KindBinaryPath, inv.Kind)
	assert.Equal(t, filepath.Join(dir, "bin/add"), inv.Path)
	assert.Empty(t, inv.Source)

	inv, err = b.Build(example.RuntimeSpec{Name: "wasm", Module: "add.wasm"})
	require.NoError(t, err)
	assert.Equal(t, example.KindModulePath, inv.Kind)
	assert.Equal(t, filepath.Join(dir, "add.wasm"), inv.Path)
}

func TestBuilder_Build_AbsolutePath(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "add.js", "result = 1;")

	inv, err := NewBuilder("/nonexistent", nil).Build(
		example.RuntimeSpec{Name: "javascript", File: path},
	)
	require.NoError(t, err)
	assert.Equal(t, path, inv.Path)
}

func TestBuilder_Build_MissingFile(t *testing.T) {
	b := NewBuilder(t.TempDir(), nil)

	_, err := b.Build(example.RuntimeSpec{Name: "python", File: "missing.py"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingFile))
	assert.Contains(t, err.Error(), "missing.py")
}

func TestBuilder_Build_DirectoryIsMissingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "pkg"), 0o755))

	_, err := NewBuilder(dir, nil).Build(
		example.RuntimeSpec{Name: "c", Binary: "pkg"},
	)
	assert.True(t, errors.Is(err, ErrMissingFile))
}

func TestBuilder_Build_NoArtifact(t *testing.T) {
	inv, err := NewBuilder(t.TempDir(), nil).Build(example.RuntimeSpec{
		Name:     "remote",
		Executor: "websocket",
		URL:      "ws://localhost:1/run",
		Entry:    "taylor",
	})
	require.NoError(t, err)
	assert.Equal(t, "remote", inv.Runtime)
	assert.Equal(t, "websocket", inv.Executor)
	assert.Equal(t, example.KindNone, inv.Kind)
	assert.Empty(t, inv.Path)
	assert.Equal(t, "ws://localhost:1/run", inv.URL)
	assert.Equal(t, "taylor", inv.EntryPoint)
}
