package report

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"time"

	"digital.vasic.polyglot/pkg/consensus"
	"digital.vasic.polyglot/pkg/value"
)

// HTMLReporter generates standalone HTML reports.
type HTMLReporter struct{}

// NewHTMLReporter creates a new HTML reporter.
func NewHTMLReporter() *HTMLReporter {
	return &HTMLReporter{}
}

func (r *HTMLReporter) Extension() string { return "html" }

// GenerateReport creates an HTML report.
func (r *HTMLReporter) GenerateReport(
	rep *consensus.Report,
) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteReport(&buf, rep); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteReport writes an HTML report to the specified writer.
func (r *HTMLReporter) WriteReport(
	w io.Writer,
	rep *consensus.Report,
) error {
	r.writeHeader(w, "Consensus Report: "+rep.RunID)

	fmt.Fprintln(w, "<h1>Multi-Runtime Consensus Report</h1>")
	fmt.Fprintf(
		w,
		"<p><strong>Run ID:</strong> %s</p>\n",
		html.EscapeString(rep.RunID),
	)
	if !rep.StartTime.IsZero() {
		fmt.Fprintf(
			w,
			"<p><strong>Started:</strong> %s</p>\n",
			rep.StartTime.Format(time.RFC3339),
		)
	}

	r.writeSummaryTable(w, rep)
	r.writeResultsTable(w, rep)
	r.writeListSection(w, "Failures", rep.Failures)
	r.writeListSection(w, "Warnings", rep.Warnings)

	r.writeFooter(w)
	return nil
}

func statusClass(glyph string) string {
	switch glyph {
	case GlyphPass:
		return "status-passed"
	case GlyphFail:
		return "status-failed"
	}
	return "status-other"
}

func (r *HTMLReporter) writeSummaryTable(
	w io.Writer,
	rep *consensus.Report,
) {
	verdict := GlyphFail
	switch {
	case rep.Inconclusive:
		verdict = GlyphInconclusive
	case rep.Consensus:
		verdict = GlyphPass
	}
	agreed, disagreed, inconclusive := rep.Summary()

	fmt.Fprintln(w, "<h2>Summary</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(w, "<tr><th>Metric</th><th>Value</th></tr>")
	fmt.Fprintf(
		w,
		"<tr><td>Verdict</td><td class=\"%s\">"+
			"<strong>%s</strong></td></tr>\n",
		statusClass(verdict), html.EscapeString(Verdict(rep)),
	)
	fmt.Fprintf(
		w,
		"<tr><td>Anchor</td><td>%s</td></tr>\n",
		html.EscapeString(rep.Anchor),
	)
	fmt.Fprintf(
		w,
		"<tr><td>Tolerance</td><td>%g</td></tr>\n",
		rep.Tolerance,
	)
	fmt.Fprintf(
		w,
		"<tr><td>Examples</td><td>%d agreed, %d disagreed, "+
			"%d inconclusive</td></tr>\n",
		agreed, disagreed, inconclusive,
	)
	fmt.Fprintf(
		w,
		"<tr><td>Duration</td><td>%v</td></tr>\n",
		rep.Duration,
	)
	fmt.Fprintln(w, "</table>")
}

func (r *HTMLReporter) writeResultsTable(
	w io.Writer,
	rep *consensus.Report,
) {
	fmt.Fprintln(w, "<h2>Results</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprint(w, "<tr><th>Example</th><th>Expected</th>")
	for _, rt := range rep.Runtimes {
		fmt.Fprintf(w, "<th>%s</th>", html.EscapeString(rt))
	}
	fmt.Fprintln(w, "<th>Status</th></tr>")

	for _, res := range rep.Results {
		expected := "-"
		if res.Expected != nil {
			expected = value.FormatFloat(*res.Expected)
		}
		fmt.Fprintf(
			w,
			"<tr><td><code>%s</code></td><td>%s</td>",
			html.EscapeString(Label(res)), expected,
		)
		for _, rt := range rep.Runtimes {
			v := res.RuntimeResults[rt]
			glyph := RuntimeGlyph(res, rt, v)
			fmt.Fprintf(
				w,
				"<td class=\"%s\">%s %s</td>",
				statusClass(glyph), glyph,
				html.EscapeString(v.String()),
			)
		}
		glyph := ExampleGlyph(res)
		fmt.Fprintf(
			w,
			"<td class=\"%s\">%s</td></tr>\n",
			statusClass(glyph), glyph,
		)
	}

	fmt.Fprintln(w, "</table>")
}

func (r *HTMLReporter) writeListSection(
	w io.Writer,
	title string,
	items []string,
) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "<h2>%s</h2>\n<ul>\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "<li>%s</li>\n", html.EscapeString(item))
	}
	fmt.Fprintln(w, "</ul>")
}

func (r *HTMLReporter) writeHeader(w io.Writer, title string) {
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<style>
body {
  font-family: -apple-system, BlinkMacSystemFont,
    "Segoe UI", Roboto, sans-serif;
  max-width: 1100px;
  margin: 0 auto;
  padding: 20px;
  color: #333;
  background: #f9f9f9;
}
h1 { color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px; }
h2 { color: #2c3e50; margin-top: 30px; }
table {
  border-collapse: collapse;
  width: 100%%;
  margin: 10px 0;
  background: #fff;
}
th, td {
  border: 1px solid #ddd;
  padding: 8px 12px;
  text-align: left;
}
th { background: #3498db; color: #fff; }
tr:nth-child(even) { background: #f2f2f2; }
.status-passed { color: #27ae60; font-weight: bold; }
.status-failed { color: #e74c3c; font-weight: bold; }
.status-other { color: #7f8c8d; }
code {
  background: #ecf0f1;
  padding: 2px 6px;
  border-radius: 3px;
  font-size: 0.9em;
}
footer {
  margin-top: 40px;
  padding-top: 10px;
  border-top: 1px solid #ddd;
  color: #7f8c8d;
  font-size: 0.9em;
}
</style>
</head>
<body>
`, html.EscapeString(title))
}

func (r *HTMLReporter) writeFooter(w io.Writer) {
	fmt.Fprintln(w, "<footer>")
	fmt.Fprintln(w, "<p>Generated by polyglot</p>")
	fmt.Fprintln(w, "</footer>")
	fmt.Fprintln(w, "</body>")
	fmt.Fprintln(w, "</html>")
}
