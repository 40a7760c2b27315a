package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.polyglot/pkg/example"
)

const standardDoc = `
clm:
  abstract:
    context: Arithmetic consensus across runtimes
    goal: All runtimes agree
  concrete:
    runtimes_config:
      - name: python
        file: logic.py
      - name: c
        binary: bin/logic
      - name: python-taylor
        executor: python
        file: logic.py
        entry: sin_taylor
        batch: false
  balanced:
    examples:
      - {op: add, a: 2, b: 3}
      - {op: mul, a: 4, b: 2.5, expected: 10}
      - {op: sin, a: 0.5}
`

func TestParseDocument_StandardForm(t *testing.T) {
	doc, err := ParseDocument([]byte(standardDoc), "/work")
	require.NoError(t, err)

	assert.Equal(t, "/work", doc.BaseDir)
	assert.Equal(t, "All runtimes agree", doc.Abstract["goal"])
	assert.Equal(t,
		[]string{"python", "c", "python-taylor"}, doc.RuntimeNames(),
	)
	assert.Equal(t, "python", doc.Runtimes[2].ExecutorName())
	assert.Equal(t, "sin_taylor", doc.Runtimes[2].Entry)
	require.NotNil(t, doc.Runtimes[2].Batch)
	assert.False(t, *doc.Runtimes[2].Batch)
	assert.Equal(t, example.KindBinaryPath, doc.Runtimes[1].Kind())

	require.Len(t, doc.Examples, 3)
	assert.Equal(t, example.New(example.OpAdd, 2, 3), doc.Examples[0])
	require.NotNil(t, doc.Examples[1].Expected)
	assert.Equal(t, 10.0, *doc.Examples[1].Expected)
	assert.Nil(t, doc.Examples[2].B)
}

func TestParseDocument_LegacyForm(t *testing.T) {
	data := `
concrete:
  runtimes_config:
    - name: native
balanced:
  examples:
    - {op: sub, a: 5, b: 1}
`
	doc, err := ParseDocument([]byte(data), ".")
	require.NoError(t, err)
	assert.Equal(t, []string{"native"}, doc.RuntimeNames())
	assert.Equal(t, example.OpSub, doc.Examples[0].Op)
}

func TestParseDocument_TopLevelExamplesFallback(t *testing.T) {
	data := `
concrete:
  runtimes_config:
    - name: native
examples:
  - {a: 1, b: 1}
`
	doc, err := ParseDocument([]byte(data), ".")
	require.NoError(t, err)
	require.Len(t, doc.Examples, 1)
	assert.Equal(t, example.OpAdd, doc.Examples[0].Operation())
}

func TestParseDocument_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			data:    "clm: [unterminated",
			wantErr: "invalid comparison document",
		},
		{
			name: "missing runtimes",
			data: `
balanced:
  examples:
    - {op: add, a: 1, b: 2}
`,
			wantErr: "missing runtimes configuration",
		},
		{
			name: "missing examples",
			data: `
concrete:
  runtimes_config:
    - name: native
`,
			wantErr: "missing examples configuration",
		},
		{
			name: "duplicate runtime",
			data: `
concrete:
  runtimes_config:
    - name: native
    - name: native
examples:
  - {op: add, a: 1, b: 2}
`,
			wantErr: "duplicate runtime: native",
		},
		{
			name: "unnamed runtime",
			data: `
concrete:
  runtimes_config:
    - file: logic.py
examples:
  - {op: add, a: 1, b: 2}
`,
			wantErr: "runtime name is required",
		},
		{
			name: "binary op without b",
			data: `
concrete:
  runtimes_config:
    - name: native
examples:
  - {op: div, a: 1}
`,
			wantErr: "example 1: operation div requires operand b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument([]byte(tt.data), ".")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDocument))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "compare.yaml")
	require.NoError(t, os.WriteFile(path, []byte(standardDoc), 0o644))

	doc, err := LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Path)
	assert.Equal(t, dir, doc.BaseDir)
}

func TestLoadDocument_Missing(t *testing.T) {
	_, err := LoadDocument(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDocument)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
