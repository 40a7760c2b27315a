package report

import (
	"encoding/json"
	"io"

	"digital.vasic.polyglot/pkg/consensus"
)

// JSONReporter writes the report structure as JSON.
type JSONReporter struct {
	pretty bool
}

// NewJSONReporter creates a new JSON reporter. When pretty is
// true, output is indented for readability.
func NewJSONReporter(pretty bool) *JSONReporter {
	return &JSONReporter{pretty: pretty}
}

func (r *JSONReporter) Extension() string { return "json" }

// GenerateReport marshals the report.
func (r *JSONReporter) GenerateReport(
	rep *consensus.Report,
) ([]byte, error) {
	if r.pretty {
		return json.MarshalIndent(rep, "", "  ")
	}
	return json.Marshal(rep)
}

// WriteReport writes a JSON report to the specified writer.
func (r *JSONReporter) WriteReport(
	w io.Writer,
	rep *consensus.Report,
) error {
	data, err := r.GenerateReport(rep)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
