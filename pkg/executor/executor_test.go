package executor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.polyglot/pkg/example"
)

func TestSequentialContext_JSON(t *testing.T) {
	rc := SequentialContext(example.New(example.OpAdd, 2, 3).WithExpected(5))

	assert.False(t, rc.IsBatch())
	assert.Equal(t, 1, rc.Size())

	s, err := rc.JSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"op":"add","a":2,"b":3}`, s)
}

func TestSequentialContext_Unary(t *testing.T) {
	rc := SequentialContext(example.NewUnary(example.OpSin, 0.5))

	s, err := rc.JSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"op":"sin","a":0.5,"b":null}`, s)
}

func TestBatchContext_JSON(t *testing.T) {
	rc := BatchContext([]example.Example{
		example.New(example.OpAdd, 1, 2),
		example.NewUnary(example.OpCos, 0),
	})

	assert.True(t, rc.IsBatch())
	assert.Equal(t, 2, rc.Size())

	data, err := json.Marshal(rc)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"batch": true,
		"examples": [
			{"op":"add","a":1,"b":2},
			{"op":"cos","a":0,"b":null}
		]
	}`, string(data))
}

func TestBatchContext_Empty(t *testing.T) {
	s, err := BatchContext(nil).JSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"batch":true,"examples":[]}`, s)
}

func TestRunContext_ExamplesIsCopy(t *testing.T) {
	rc := BatchContext([]example.Example{example.New(example.OpAdd, 1, 2)})
	ops := rc.Examples()
	ops[0].A = 99
	assert.Equal(t, 1.0, rc.Examples()[0].A)
}

func TestBatchTarget(t *testing.T) {
	assert.Equal(t, Target{Runtime: "c", Example: -1}, BatchTarget("c"))
}
