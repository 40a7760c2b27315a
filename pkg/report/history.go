package report

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"digital.vasic.polyglot/pkg/consensus"
)

// jsonMarshal is replaced in tests to exercise marshal failures.
var jsonMarshal = json.Marshal

// HistoricalEntry represents a single run in the historical log.
type HistoricalEntry struct {
	Timestamp    time.Time `json:"timestamp"`
	RunID        string    `json:"run_id"`
	Consensus    bool      `json:"consensus"`
	Inconclusive bool      `json:"inconclusive,omitempty"`
	Examples     int       `json:"examples"`
	Agreed       int       `json:"agreed"`
	Disagreed    int       `json:"disagreed"`
	Runtimes     []string  `json:"runtimes"`
	Skipped      []string  `json:"skipped,omitempty"`
	Duration     string    `json:"duration"`
	ReportPath   string    `json:"report_path,omitempty"`
}

// NewHistoricalEntry summarizes a report for the history log.
func NewHistoricalEntry(
	rep *consensus.Report,
	reportPath string,
) HistoricalEntry {
	agreed, disagreed, _ := rep.Summary()
	entry := HistoricalEntry{
		Timestamp:    rep.StartTime.Add(rep.Duration),
		RunID:        rep.RunID,
		Consensus:    rep.Consensus,
		Inconclusive: rep.Inconclusive,
		Examples:     len(rep.Results),
		Agreed:       agreed,
		Disagreed:    disagreed,
		Runtimes:     rep.Runtimes,
		Duration:     rep.Duration.String(),
		ReportPath:   reportPath,
	}
	for _, rt := range rep.Runtimes {
		if _, ok := rep.Skipped[rt]; ok {
			entry.Skipped = append(entry.Skipped, rt)
		}
	}
	return entry
}

// AppendToHistory adds an entry to the historical log stored at
// historyPath. Each entry is a single JSON line.
func AppendToHistory(
	historyPath string,
	rep *consensus.Report,
	reportPath string,
) error {
	data, err := jsonMarshal(NewHistoricalEntry(rep, reportPath))
	if err != nil {
		return fmt.Errorf(
			"failed to marshal history entry: %w", err,
		)
	}

	if dir := filepath.Dir(historyPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf(
				"failed to create history directory: %w", err,
			)
		}
	}

	file, err := os.OpenFile(
		historyPath,
		os.O_CREATE|os.O_APPEND|os.O_WRONLY,
		0o644,
	)
	if err != nil {
		return fmt.Errorf(
			"failed to open history file: %w", err,
		)
	}
	defer func() { _ = file.Close() }()

	_, err = fmt.Fprintln(file, string(data))
	return err
}

// ReadHistory returns every entry of the historical log, oldest
// first. A missing log yields no entries.
func ReadHistory(historyPath string) ([]HistoricalEntry, error) {
	file, err := os.Open(historyPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var entries []HistoricalEntry
	scanner := bufio.NewScanner(file)
	for line := 1; scanner.Scan(); line++ {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var e HistoricalEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, fmt.Errorf(
				"history line %d: %w", line, err,
			)
		}
		entries = append(entries, e)
	}
	return entries, scanner.Err()
}
