package value

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

var numericPattern = regexp.MustCompile(
	`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`,
)

// ParseNumeric parses a trimmed string of the form
// [sign]digits[.digits][exponent]. It returns false for anything
// else, including values that overflow float64.
func ParseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !numericPattern.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Normalize converts a single raw executor result into a Value.
// It never fails: anything that is not numeric, a numeric string
// or the Skipped marker becomes an Error carrying the original
// text. JSON-array strings are only meaningful to NormalizeBatch
// and become an Error here.
func Normalize(raw any) Value {
	switch r := raw.(type) {
	case nil:
		return Error("null")
	case Value:
		return r
	case float64:
		return Numeric(r)
	case float32:
		return Numeric(float64(r))
	case int:
		return Numeric(float64(r))
	case int8:
		return Numeric(float64(r))
	case int16:
		return Numeric(float64(r))
	case int32:
		return Numeric(float64(r))
	case int64:
		return Numeric(float64(r))
	case uint:
		return Numeric(float64(r))
	case uint8:
		return Numeric(float64(r))
	case uint16:
		return Numeric(float64(r))
	case uint32:
		return Numeric(float64(r))
	case uint64:
		return Numeric(float64(r))
	case json.Number:
		return normalizeString(string(r))
	case string:
		return normalizeString(r)
	case []byte:
		return normalizeString(string(r))
	case error:
		return Error(r.Error())
	}
	return Error(describe(raw))
}

func normalizeString(s string) Value {
	trimmed := strings.TrimSpace(s)
	if f, ok := ParseNumeric(trimmed); ok {
		return Numeric(f)
	}
	if trimmed == SkippedMarker {
		return Skipped()
	}
	return Error(s)
}

// describe renders an arbitrary object for an Error message.
func describe(raw any) string {
	if data, err := json.Marshal(raw); err == nil {
		return string(data)
	}
	return fmt.Sprintf("%v", raw)
}

// Repair describes how a batch result was reshaped to align with
// the example list.
type Repair struct {
	Expected   int
	Received   int
	Padded     int
	Truncated  int
	Replicated bool
}

// Repaired reports whether the batch result needed any reshaping.
func (r Repair) Repaired() bool {
	return r.Padded > 0 || r.Truncated > 0 || r.Replicated
}

// MissingMarker returns the error message used to pad a batch
// result that is short by missing entries.
func MissingMarker(missing int) string {
	return fmt.Sprintf("Missing Result %d", missing)
}

// NormalizeBatch converts the raw result of a batch invocation into
// exactly n values aligned with the example list.
//
// A list (or a string holding a JSON array) is normalized
// element-wise and repaired to length n. A lone numeric result is
// treated as a one-element list. Any other scalar (typically an
// error string) applies to every example and is replicated.
func NormalizeBatch(raw any, n int) ([]Value, Repair) {
	if items, ok := asList(raw); ok {
		return RepairBatch(normalizeAll(items), n)
	}

	var s string
	switch r := raw.(type) {
	case string:
		s = r
	case []byte:
		s = string(r)
	default:
		return normalizeScalar(Normalize(raw), n)
	}

	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "[") {
		var items []any
		if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
			return replicate(
				Errorf("Parse Error: %v", err), n,
			)
		}
		return RepairBatch(normalizeAll(items), n)
	}
	return normalizeScalar(normalizeString(s), n)
}

func normalizeScalar(v Value, n int) ([]Value, Repair) {
	if v.IsNumeric() {
		return RepairBatch([]Value{v}, n)
	}
	return replicate(v, n)
}

// RepairBatch pads a short result list with Missing Result errors
// or truncates a long one so its length is exactly n. The first
// min(len(vals), n) entries are kept unchanged.
func RepairBatch(vals []Value, n int) ([]Value, Repair) {
	rep := Repair{Expected: n, Received: len(vals)}
	out := make([]Value, n)

	switch {
	case len(vals) < n:
		copy(out, vals)
		missing := n - len(vals)
		for i := len(vals); i < n; i++ {
			out[i] = Error(MissingMarker(missing))
		}
		rep.Padded = missing
	case len(vals) > n:
		copy(out, vals[:n])
		rep.Truncated = len(vals) - n
	default:
		copy(out, vals)
	}
	return out, rep
}

func replicate(v Value, n int) ([]Value, Repair) {
	out := make([]Value, n)
	for i := range out {
		out[i] = v
	}
	return out, Repair{
		Expected:   n,
		Received:   1,
		Replicated: n > 0,
	}
}

func normalizeAll(items []any) []Value {
	out := make([]Value, len(items))
	for i, item := range items {
		out[i] = Normalize(item)
	}
	return out
}

// asList returns the elements of any slice or array other than a
// byte slice.
func asList(raw any) ([]any, bool) {
	switch r := raw.(type) {
	case nil, []byte:
		return nil, false
	case []any:
		return r, true
	case []Value:
		items := make([]any, len(r))
		for i, v := range r {
			items[i] = v
		}
		return items, true
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}
