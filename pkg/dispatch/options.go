package dispatch

import (
	"time"

	"digital.vasic.polyglot/pkg/example"
	"digital.vasic.polyglot/pkg/executor"
	"digital.vasic.polyglot/pkg/logging"
	"digital.vasic.polyglot/pkg/metrics"
	"digital.vasic.polyglot/pkg/monitor"
)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithRegistry sets the executor registry runtimes are resolved
// against.
func WithRegistry(reg executor.Registry) Option {
	return func(d *Dispatcher) {
		d.registry = reg
	}
}

// WithBaseDir sets the directory relative runtime paths resolve
// against.
func WithBaseDir(dir string) Option {
	return func(d *Dispatcher) {
		d.baseDir = dir
	}
}

// WithLogger sets the logger used for dispatch events.
func WithLogger(logger logging.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m metrics.RuntimeMetrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithCollector sets the event collector that receives every
// dispatch event.
func WithCollector(c *monitor.EventCollector) Option {
	return func(d *Dispatcher) {
		d.collector = c
	}
}

// WithRunID tags emitted events with a run identifier.
func WithRunID(id string) Option {
	return func(d *Dispatcher) {
		d.runID = id
	}
}

// WithTimeout sets the per-invocation timeout. Non-positive
// values are ignored.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// WithBatchRuntimes replaces the batch-capable runtime set.
func WithBatchRuntimes(names ...string) Option {
	return func(d *Dispatcher) {
		d.batch = BatchSet(names...)
	}
}

// WithBatchPredicate replaces the batch capability check
// entirely.
func WithBatchPredicate(p BatchPredicate) Option {
	return func(d *Dispatcher) {
		if p != nil {
			d.batch = p
		}
	}
}

// WithMode selects sequential or parallel dispatch.
func WithMode(mode Mode) Option {
	return func(d *Dispatcher) {
		d.mode = mode
	}
}

// WithConcurrency limits concurrent invocations in parallel
// mode.
func WithConcurrency(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

// BatchPredicate reports whether a runtime receives every example
// in one call.
type BatchPredicate func(spec example.RuntimeSpec) bool

// BatchSet returns a predicate matching runtimes whose name or
// executor name is in names.
func BatchSet(names ...string) BatchPredicate {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(spec example.RuntimeSpec) bool {
		return set[spec.Name] || set[spec.ExecutorName()]
	}
}
