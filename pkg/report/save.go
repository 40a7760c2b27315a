package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"digital.vasic.polyglot/pkg/consensus"
)

// SaveReport writes the report to outputDir as
// consensus_<timestamp>_<run>.<ext> and points latest.<ext> at it.
// It returns the path of the written file.
func SaveReport(
	rep *consensus.Report,
	outputDir string,
	reporter Reporter,
) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf(
			"failed to create output directory: %w", err,
		)
	}

	data, err := reporter.GenerateReport(rep)
	if err != nil {
		return "", fmt.Errorf("failed to generate report: %w", err)
	}

	ts := rep.StartTime
	if ts.IsZero() {
		ts = time.Now()
	}
	run := rep.RunID
	if len(run) > 8 {
		run = run[:8]
	}
	name := fmt.Sprintf(
		"consensus_%s_%s.%s",
		ts.Format("20060102_150405"), run, reporter.Extension(),
	)
	path := filepath.Join(outputDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	latest := filepath.Join(outputDir, "latest."+reporter.Extension())
	_ = os.Remove(latest)
	_ = os.Symlink(name, latest)

	return path, nil
}
