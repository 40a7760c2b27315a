package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"digital.vasic.polyglot/pkg/consensus"
	"digital.vasic.polyglot/pkg/value"
)

// MarkdownReporter writes a Markdown document with one table row
// per example and one column per runtime.
type MarkdownReporter struct{}

// NewMarkdownReporter creates a new Markdown reporter.
func NewMarkdownReporter() *MarkdownReporter {
	return &MarkdownReporter{}
}

func (r *MarkdownReporter) Extension() string { return "md" }

func (r *MarkdownReporter) GenerateReport(
	rep *consensus.Report,
) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteReport(&buf, rep); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *MarkdownReporter) WriteReport(
	w io.Writer,
	rep *consensus.Report,
) error {
	var sb strings.Builder

	sb.WriteString("# Multi-Runtime Consensus Report\n\n")
	sb.WriteString(fmt.Sprintf("**Run ID:** %s\n\n", rep.RunID))
	if !rep.StartTime.IsZero() {
		sb.WriteString(fmt.Sprintf(
			"**Started:** %s\n\n", rep.StartTime.Format(time.RFC3339),
		))
	}
	sb.WriteString(fmt.Sprintf(
		"**Anchor:** %s, **Tolerance:** %g\n\n",
		rep.Anchor, rep.Tolerance,
	))

	sb.WriteString("## Results\n\n")
	sb.WriteString("| Example | Expected |")
	for _, rt := range rep.Runtimes {
		sb.WriteString(" " + rt + " |")
	}
	sb.WriteString(" Status |\n|---|---|")
	for range rep.Runtimes {
		sb.WriteString("---|")
	}
	sb.WriteString("---|\n")

	for _, res := range rep.Results {
		expected := "-"
		if res.Expected != nil {
			expected = value.FormatFloat(*res.Expected)
		}
		sb.WriteString(fmt.Sprintf(
			"| %s | %s |", mdEscape(Label(res)), expected,
		))
		for _, rt := range rep.Runtimes {
			v := res.RuntimeResults[rt]
			sb.WriteString(fmt.Sprintf(
				" %s %s |",
				RuntimeGlyph(res, rt, v), mdEscape(v.String()),
			))
		}
		sb.WriteString(" " + ExampleGlyph(res) + " |\n")
	}

	agreed, disagreed, inconclusive := rep.Summary()
	sb.WriteString("\n## Statistics\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Examples | %d |\n", len(rep.Results)))
	sb.WriteString(fmt.Sprintf("| Agreed | %d |\n", agreed))
	sb.WriteString(fmt.Sprintf("| Disagreed | %d |\n", disagreed))
	sb.WriteString(fmt.Sprintf("| Inconclusive | %d |\n", inconclusive))
	sb.WriteString(fmt.Sprintf("| Duration | %v |\n", rep.Duration))

	if len(rep.Skipped) > 0 {
		sb.WriteString("\n## Skipped Runtimes\n\n")
		for _, rt := range rep.Runtimes {
			if reason, ok := rep.Skipped[rt]; ok {
				sb.WriteString(fmt.Sprintf(
					"- **%s**: %s\n", rt, reason,
				))
			}
		}
	}

	writeList(&sb, "Failures", rep.Failures)
	writeList(&sb, "Warnings", rep.Warnings)

	sb.WriteString("\n" + Verdict(rep) + "\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString("\n## " + title + "\n\n")
	for _, item := range items {
		sb.WriteString("- " + mdEscape(item) + "\n")
	}
}

func mdEscape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
