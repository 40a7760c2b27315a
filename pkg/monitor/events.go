package monitor

import "time"

// EventType represents the type of run event.
type EventType string

const (
	EventRunStarted          EventType = "run_started"
	EventRuntimeSkipped      EventType = "runtime_skipped"
	EventInvocationStarted   EventType = "invocation_started"
	EventInvocationCompleted EventType = "invocation_completed"
	EventInvocationFailed    EventType = "invocation_failed"
	EventBatchRepaired       EventType = "batch_repaired"
	EventExampleEvaluated    EventType = "example_evaluated"
	EventRunCompleted        EventType = "run_completed"
)

// RunEvent represents a lifecycle event during a comparison run.
type RunEvent struct {
	Type      EventType     `json:"type"`
	RunID     string        `json:"run_id,omitempty"`
	Runtime   string        `json:"runtime,omitempty"`
	Example   int           `json:"example"`
	Op        string        `json:"op,omitempty"`
	Batch     bool          `json:"batch,omitempty"`
	Consensus *bool         `json:"consensus,omitempty"`
	Value     string        `json:"value,omitempty"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}
