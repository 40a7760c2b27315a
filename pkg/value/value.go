// Package value converts the heterogeneous raw results produced by
// runtime executors into a canonical tagged union.
package value

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind is the variant of a normalized Value.
type Kind int

const (
	// KindNumeric is a finite or non-finite float result.
	KindNumeric Kind = iota
	// KindError is a failed or unparsable result.
	KindError
	// KindSkipped marks a runtime that did not participate.
	KindSkipped
)

// SkippedMarker is the literal string that normalizes to Skipped.
const SkippedMarker = "Skipped"

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindError:
		return "error"
	case KindSkipped:
		return "skipped"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is a normalized runtime result: exactly one of Numeric,
// Error or Skipped. The zero value is Numeric(0).
type Value struct {
	kind Kind
	num  float64
	msg  string
}

// Numeric wraps a float result.
func Numeric(v float64) Value {
	return Value{kind: KindNumeric, num: v}
}

// Error wraps a failure message.
func Error(msg string) Value {
	return Value{kind: KindError, msg: msg}
}

// Errorf formats a failure message.
func Errorf(format string, args ...any) Value {
	return Error(fmt.Sprintf(format, args...))
}

// Skipped marks a runtime that was not invoked.
func Skipped() Value {
	return Value{kind: KindSkipped}
}

// Kind returns the variant of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNumeric reports whether the value is Numeric.
func (v Value) IsNumeric() bool { return v.kind == KindNumeric }

// IsError reports whether the value is an Error.
func (v Value) IsError() bool { return v.kind == KindError }

// IsSkipped reports whether the value is Skipped.
func (v Value) IsSkipped() bool { return v.kind == KindSkipped }

// Float returns the numeric payload and whether the value is
// Numeric.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumeric {
		return 0, false
	}
	return v.num, true
}

// IsFinite reports whether the value is Numeric and neither NaN
// nor infinite.
func (v Value) IsFinite() bool {
	return v.kind == KindNumeric &&
		!math.IsNaN(v.num) && !math.IsInf(v.num, 0)
}

// Message returns the error message, or the empty string for
// non-error values.
func (v Value) Message() string {
	if v.kind != KindError {
		return ""
	}
	return v.msg
}

// String renders the value in its canonical display form.
// Integral floats print without a fractional part; the underlying
// float is unaffected.
func (v Value) String() string {
	switch v.kind {
	case KindNumeric:
		return FormatFloat(v.num)
	case KindSkipped:
		return SkippedMarker
	}
	return v.msg
}

// Equal reports whether two values are the same variant with the
// same payload. NaN equals NaN so that values compare structurally.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumeric:
		if math.IsNaN(v.num) && math.IsNaN(o.num) {
			return true
		}
		return v.num == o.num
	case KindError:
		return v.msg == o.msg
	}
	return true
}

// MarshalJSON encodes Numeric as a JSON number, Skipped as the
// marker string and Error as its message. Non-finite numbers are
// encoded as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch {
	case v.IsFinite():
		return json.Marshal(v.num)
	case v.kind == KindNumeric:
		return json.Marshal(FormatFloat(v.num))
	case v.kind == KindSkipped:
		return json.Marshal(SkippedMarker)
	}
	return json.Marshal(v.msg)
}

// UnmarshalJSON decodes the form written by MarshalJSON by
// normalizing the decoded raw value.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode value: %w", err)
	}
	*v = Normalize(raw)
	return nil
}

// FormatFloat renders a float without exponent and without a
// trailing fractional part for integral values.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
