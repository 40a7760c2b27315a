// Package example defines the immutable inputs of a comparison
// run: the numerical examples every runtime evaluates and the
// static description of each participating runtime.
package example

import (
	"fmt"
	"math"
	"strings"
)

// Operation names the arithmetic or trigonometric operation an
// example exercises.
type Operation string

// Supported operations. Any other operation may still be
// dispatched to runtimes, but the evaluator cannot recompute its
// expected value.
const (
	OpAdd Operation = "add"
	OpSub Operation = "sub"
	OpMul Operation = "mul"
	OpDiv Operation = "div"
	OpSin Operation = "sin"
	OpCos Operation = "cos"
)

// DefaultOperation is used when an example omits its operation.
const DefaultOperation = OpAdd

// Unary reports whether the operation uses only operand A.
func (o Operation) Unary() bool {
	return o == OpSin || o == OpCos
}

// Known reports whether the operation can be recomputed locally.
func (o Operation) Known() bool {
	switch o {
	case OpAdd, OpSub, OpMul, OpDiv, OpSin, OpCos:
		return true
	}
	return false
}

// Example is one test vector. It is read from configuration at
// the start of a run and never mutated afterwards.
type Example struct {
	// Op is the operation to evaluate.
	Op Operation `json:"op" yaml:"op"`

	// A is the first operand.
	A float64 `json:"a" yaml:"a"`

	// B is the second operand; nil for unary operations.
	B *float64 `json:"b,omitempty" yaml:"b,omitempty"`

	// Expected is an optional caller-supplied expected value.
	Expected *float64 `json:"expected,omitempty" yaml:"expected,omitempty"`
}

// Operands is the minimal per-example payload handed to an
// executor. It deliberately carries no sibling examples and no
// expected value.
type Operands struct {
	Op Operation `json:"op"`
	A  float64   `json:"a"`
	B  *float64  `json:"b"`
}

// New creates an example for a binary operation.
func New(op Operation, a, b float64) Example {
	return Example{Op: op, A: a, B: Float(b)}
}

// NewUnary creates an example for a unary operation.
func NewUnary(op Operation, a float64) Example {
	return Example{Op: op, A: a}
}

// WithExpected returns a copy of the example carrying the given
// expected value.
func (e Example) WithExpected(v float64) Example {
	e.Expected = Float(v)
	return e
}

// Operation returns the example's operation, falling back to
// DefaultOperation when none was configured.
func (e Example) Operation() Operation {
	if e.Op == "" {
		return DefaultOperation
	}
	return Operation(strings.ToLower(string(e.Op)))
}

// Operands returns the minimal executor payload for the example.
func (e Example) Operands() Operands {
	return Operands{Op: e.Operation(), A: e.A, B: e.B}
}

// Recompute evaluates the example's operation locally. It
// returns false when the operation is unknown, a binary
// operation lacks its second operand, or the result would not be
// a finite number.
func (e Example) Recompute() (float64, bool) {
	op := e.Operation()
	if !op.Known() {
		return 0, false
	}
	if !op.Unary() && e.B == nil {
		return 0, false
	}

	var v float64
	switch op {
	case OpAdd:
		v = e.A + *e.B
	case OpSub:
		v = e.A - *e.B
	case OpMul:
		v = e.A * *e.B
	case OpDiv:
		if *e.B == 0 {
			return 0, false
		}
		v = e.A / *e.B
	case OpSin:
		v = math.Sin(e.A)
	case OpCos:
		v = math.Cos(e.A)
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Validate checks that the example is internally consistent.
func (e Example) Validate() error {
	op := e.Operation()
	if op.Known() && !op.Unary() && e.B == nil {
		return fmt.Errorf(
			"operation %s requires operand b", op,
		)
	}
	return nil
}

// Float returns a pointer to v. It is a convenience for building
// optional operands and expected values.
func Float(v float64) *float64 {
	return &v
}
