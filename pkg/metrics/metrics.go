// Package metrics records per-runtime invocation and consensus
// counters for a comparison run.
package metrics

import "time"

// Invocation outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
	OutcomePanic   = "panic"
)

// RuntimeMetrics defines the interface for recording run metrics.
type RuntimeMetrics interface {
	// RecordInvocation records one execute call.
	RecordInvocation(runtime string, batch bool, outcome string, duration time.Duration)
	// RecordSkip records a runtime excluded from the run.
	RecordSkip(runtime, reason string)
	// RecordRepair records a reshaped batch result.
	RecordRepair(runtime string, padded, truncated int)
	// RecordExample records one evaluated example.
	RecordExample(op string, consensus bool)
}

// NoopMetrics is a no-op implementation of RuntimeMetrics
// useful for testing or when metrics collection is disabled.
type NoopMetrics struct{}

func (NoopMetrics) RecordInvocation(_ string, _ bool, _ string, _ time.Duration) {}
func (NoopMetrics) RecordSkip(_, _ string)                                      {}
func (NoopMetrics) RecordRepair(_ string, _, _ int)                             {}
func (NoopMetrics) RecordExample(_ string, _ bool)                              {}
