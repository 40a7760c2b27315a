package report

import (
	"fmt"
	"strings"

	"digital.vasic.polyglot/pkg/consensus"
	"digital.vasic.polyglot/pkg/value"
)

// Status glyphs.
const (
	GlyphPass         = "✅"
	GlyphFail         = "❌"
	GlyphInconclusive = "⚠️"
	GlyphSkipped      = "⏭"
)

// Transcript lines.
const (
	Header              = "--- Multi-Runtime Consensus Verification ---"
	VerdictPass         = "RESULT: All examples passed consensus checks."
	VerdictFail         = "RESULT: Consensus failures detected."
	VerdictInconclusive = "RESULT: Inconclusive: no active runtimes produced a result."
)

// Render turns a report into the transcript: a header, one line
// per example followed by one indented line per runtime, and a
// trailing verdict. It has no side effects.
func Render(rep *consensus.Report) []string {
	lines := make([]string, 0, 2+len(rep.Results)*(1+len(rep.Runtimes)))
	lines = append(lines, Header)

	for _, res := range rep.Results {
		lines = append(lines, Label(res)+": "+ExampleGlyph(res))
		for _, rt := range rep.Runtimes {
			v, ok := res.RuntimeResults[rt]
			if !ok {
				continue
			}
			lines = append(lines, fmt.Sprintf(
				"  %s %s: %s", RuntimeGlyph(res, rt, v), rt, v,
			))
		}
	}

	return append(lines, Verdict(rep))
}

// Label formats an example as "[OP] a=2, b=3". The b operand is
// omitted for unary operations.
func Label(res consensus.ExampleResult) string {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(strings.ToUpper(string(res.Op)))
	sb.WriteString("] a=")
	sb.WriteString(value.FormatFloat(res.Input.A))
	if res.Input.B != nil {
		sb.WriteString(", b=")
		sb.WriteString(value.FormatFloat(*res.Input.B))
	}
	return sb.String()
}

// ExampleGlyph returns the status glyph of an example.
func ExampleGlyph(res consensus.ExampleResult) string {
	switch {
	case res.Inconclusive:
		return GlyphInconclusive
	case res.Consensus:
		return GlyphPass
	}
	return GlyphFail
}

// RuntimeGlyph returns the status glyph of one runtime's value.
func RuntimeGlyph(
	res consensus.ExampleResult,
	runtime string,
	v value.Value,
) string {
	switch {
	case v.IsSkipped():
		return GlyphSkipped
	case v.IsError(), !res.Agrees(runtime):
		return GlyphFail
	}
	return GlyphPass
}

// Verdict returns the trailing verdict line.
func Verdict(rep *consensus.Report) string {
	switch {
	case rep.Inconclusive:
		return VerdictInconclusive
	case rep.Consensus:
		return VerdictPass
	}
	return VerdictFail
}
