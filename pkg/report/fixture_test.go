package report

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"digital.vasic.polyglot/pkg/consensus"
	"digital.vasic.polyglot/pkg/example"
	"digital.vasic.polyglot/pkg/value"
)

func evaluate(
	t *testing.T,
	examples []example.Example,
	runtimes []string,
	results map[string][]value.Value,
) *consensus.Report {
	t.Helper()
	e, err := consensus.NewEvaluator(consensus.WithRunID("0123456789abcdef"))
	require.NoError(t, err)
	rep := e.Evaluate(examples, runtimes, results)
	rep.StartTime = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rep.Duration = 1500 * time.Millisecond
	return rep
}

// mixedReport has one agreeing and one failing example.
func mixedReport(t *testing.T) *consensus.Report {
	t.Helper()
	rep := evaluate(t,
		[]example.Example{
			example.New(example.OpAdd, 2, 3),
			example.New(example.OpDiv, 1, 0),
		},
		[]string{"python", "c", "rust"},
		map[string][]value.Value{
			"python": {value.Numeric(5), value.Error("Error: division by zero")},
			"c":      {value.Numeric(5), value.Numeric(math.Inf(1))},
			"rust":   {value.Skipped(), value.Skipped()},
		},
	)
	rep.Skipped = map[string]string{"rust": "environment unavailable"}
	return rep
}
