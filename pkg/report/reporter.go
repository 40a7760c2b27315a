// Package report renders consensus reports as transcripts and
// persists them as text, JSON, Markdown or HTML files.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"digital.vasic.polyglot/pkg/consensus"
)

// Reporter defines the interface for generating run reports.
type Reporter interface {
	// GenerateReport creates the report document.
	GenerateReport(rep *consensus.Report) ([]byte, error)

	// WriteReport writes the report document to w.
	WriteReport(w io.Writer, rep *consensus.Report) error

	// Extension returns the file extension, without a dot.
	Extension() string
}

// NewReporter returns the reporter for a format name: text,
// json, markdown or html.
func NewReporter(format string) (Reporter, error) {
	switch strings.ToLower(format) {
	case "", "text", "txt":
		return NewTextReporter(), nil
	case "json":
		return NewJSONReporter(true), nil
	case "markdown", "md":
		return NewMarkdownReporter(), nil
	case "html":
		return NewHTMLReporter(), nil
	}
	return nil, fmt.Errorf("unknown report format: %s", format)
}

// TextReporter writes the rendered transcript followed by any
// warnings.
type TextReporter struct{}

// NewTextReporter creates a new text reporter.
func NewTextReporter() *TextReporter {
	return &TextReporter{}
}

func (r *TextReporter) Extension() string { return "txt" }

func (r *TextReporter) GenerateReport(
	rep *consensus.Report,
) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteReport(&buf, rep); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *TextReporter) WriteReport(
	w io.Writer,
	rep *consensus.Report,
) error {
	for _, line := range Render(rep) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	for _, warn := range rep.Warnings {
		if _, err := fmt.Fprintf(w, "WARNING: %s\n", warn); err != nil {
			return err
		}
	}
	return nil
}
