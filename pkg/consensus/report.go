package consensus

import (
	"time"

	"digital.vasic.polyglot/pkg/example"
	"digital.vasic.polyglot/pkg/value"
)

// Expected value sources.
const (
	SourceRecomputed = "recomputed"
	SourceLiteral    = "literal"
)

// ExampleResult is the evaluated outcome of one example across
// every runtime.
type ExampleResult struct {
	// ID is the one-based position of the example.
	ID int `json:"id"`

	Op    example.Operation `json:"op"`
	Input example.Operands  `json:"input"`

	// Expected is the reference value, when one is known.
	Expected *float64 `json:"expected,omitempty"`

	// ExpectedSource is recomputed or literal.
	ExpectedSource string `json:"expected_source,omitempty"`

	// Anchor is the value the policy compared against.
	Anchor *float64 `json:"anchor,omitempty"`

	RuntimeResults map[string]value.Value `json:"runtime_results"`

	// Consensus is true iff no runtime disagreed.
	Consensus bool `json:"consensus"`

	// Inconclusive is set when every runtime was skipped.
	Inconclusive bool `json:"inconclusive,omitempty"`

	Failures []string `json:"failures,omitempty"`

	// Dissenting lists runtimes that disagreed, in runtime order.
	Dissenting []string `json:"dissenting,omitempty"`
}

// Agrees reports whether a runtime's result agreed. Skipped
// runtimes never disagree.
func (r ExampleResult) Agrees(runtime string) bool {
	for _, d := range r.Dissenting {
		if d == runtime {
			return false
		}
	}
	return true
}

// Active returns the number of non-skipped runtimes.
func (r ExampleResult) Active() int {
	n := 0
	for _, v := range r.RuntimeResults {
		if !v.IsSkipped() {
			n++
		}
	}
	return n
}

// Report is the outcome of one comparison run.
type Report struct {
	RunID     string  `json:"run_id"`
	Anchor    string  `json:"anchor"`
	Tolerance float64 `json:"tolerance"`

	// Runtimes lists runtime names in configured order.
	Runtimes []string `json:"runtimes"`

	// Skipped maps skipped runtimes to the reason.
	Skipped map[string]string `json:"skipped,omitempty"`

	// Consensus is the AND of every example's consensus.
	Consensus bool `json:"consensus"`

	// Inconclusive is set when no runtime was active for any
	// example.
	Inconclusive bool `json:"inconclusive,omitempty"`

	Results  []ExampleResult `json:"results"`
	Failures []string        `json:"failures"`
	Warnings []string        `json:"warnings,omitempty"`

	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
}

// Passed reports whether the run reached a conclusive consensus.
func (r *Report) Passed() bool {
	return r.Consensus && !r.Inconclusive
}

// Summary counts agreeing and disagreeing examples.
func (r *Report) Summary() (agreed, disagreed, inconclusive int) {
	for _, res := range r.Results {
		switch {
		case res.Inconclusive:
			inconclusive++
		case res.Consensus:
			agreed++
		default:
			disagreed++
		}
	}
	return agreed, disagreed, inconclusive
}
