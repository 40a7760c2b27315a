package value

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_Variants(t *testing.T) {
	n := Numeric(5)
	assert.True(t, n.IsNumeric())
	f, ok := n.Float()
	assert.True(t, ok)
	assert.Equal(t, 5.0, f)

	e := Error("Error: boom")
	assert.True(t, e.IsError())
	assert.Equal(t, "Error: boom", e.Message())
	_, ok = e.Float()
	assert.False(t, ok)

	s := Skipped()
	assert.True(t, s.IsSkipped())
	assert.Equal(t, "", s.Message())
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "5", Numeric(5.0).String())
	assert.Equal(t, "2.5", Numeric(2.5).String())
	assert.Equal(t, "-0.001", Numeric(-0.001).String())
	assert.Equal(t, "Skipped", Skipped().String())
	assert.Equal(t, "Missing Result 1", Error("Missing Result 1").String())
}

func TestValue_Equal(t *testing.T) {
	assert.True(t, Numeric(1).Equal(Numeric(1)))
	assert.False(t, Numeric(1).Equal(Numeric(2)))
	assert.True(t, Numeric(math.NaN()).Equal(Numeric(math.NaN())))
	assert.False(t, Numeric(1).Equal(Error("1")))
	assert.True(t, Skipped().Equal(Skipped()))
	assert.False(t, Error("a").Equal(Error("b")))
}

func TestValue_IsFinite(t *testing.T) {
	assert.True(t, Numeric(1).IsFinite())
	assert.False(t, Numeric(math.Inf(1)).IsFinite())
	assert.False(t, Numeric(math.NaN()).IsFinite())
	assert.False(t, Error("x").IsFinite())
}

func TestValue_JSON(t *testing.T) {
	data, err := json.Marshal(map[string]Value{
		"a": Numeric(5),
		"b": Error("Error: x"),
		"c": Skipped(),
		"d": Numeric(math.Inf(1)),
	})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"a":5,"b":"Error: x","c":"Skipped","d":"+Inf"}`,
		string(data),
	)

	var decoded map[string]Value
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded["a"].Equal(Numeric(5)))
	assert.True(t, decoded["b"].Equal(Error("Error: x")))
	assert.True(t, decoded["c"].Equal(Skipped()))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "numeric", KindNumeric.String())
	assert.Equal(t, "error", KindError.String())
	assert.Equal(t, "skipped", KindSkipped.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}
