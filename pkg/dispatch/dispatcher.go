// Package dispatch runs every configured runtime over the example
// list. Batch-capable runtimes receive all examples in one call,
// sequential runtimes one call per example; both result sets are
// merged into a single runtime-by-example matrix.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"digital.vasic.polyglot/pkg/example"
	"digital.vasic.polyglot/pkg/executor"
	"digital.vasic.polyglot/pkg/logging"
	"digital.vasic.polyglot/pkg/metrics"
	"digital.vasic.polyglot/pkg/monitor"
	"digital.vasic.polyglot/pkg/value"
)

// Configuration errors. They are the only errors Dispatch
// returns; every runtime failure is recorded in the matrix.
var (
	ErrNoRuntimes = errors.New("missing runtimes configuration")
	ErrNoExamples = errors.New("missing examples configuration")
)

// Mode selects how invocations are scheduled.
type Mode string

const (
	// ModeSequential issues one invocation at a time in runtime
	// then example order.
	ModeSequential Mode = "sequential"
	// ModeParallel issues invocations concurrently up to the
	// configured limit. Results are identical to sequential mode.
	ModeParallel Mode = "parallel"
)

// DefaultTimeout bounds a single invocation.
const DefaultTimeout = 15 * time.Second

// Skip reasons.
const (
	ReasonNotRegistered = "executor not registered"
	ReasonUnavailable   = "environment unavailable"
)

// Matrix holds the normalized result of every runtime for every
// example.
type Matrix struct {
	// Runtimes lists runtime names in configured order.
	Runtimes []string `json:"runtimes"`

	// Results maps a runtime name to one value per example.
	Results map[string][]value.Value `json:"results"`

	// Skipped maps each skipped runtime to the reason.
	Skipped map[string]string `json:"skipped,omitempty"`

	// Batch records which runtimes were dispatched as a batch.
	Batch map[string]bool `json:"batch"`

	// Repairs records reshaped batch results.
	Repairs map[string]value.Repair `json:"repairs,omitempty"`
}

func newMatrix(specs []example.RuntimeSpec, n int) *Matrix {
	m := &Matrix{
		Runtimes: make([]string, len(specs)),
		Results:  make(map[string][]value.Value, len(specs)),
		Skipped:  make(map[string]string),
		Batch:    make(map[string]bool),
		Repairs:  make(map[string]value.Repair),
	}
	for i, s := range specs {
		m.Runtimes[i] = s.Name
		m.Results[s.Name] = make([]value.Value, n)
	}
	return m
}

// Row returns every runtime's value for one example.
func (m *Matrix) Row(example int) map[string]value.Value {
	row := make(map[string]value.Value, len(m.Runtimes))
	for _, rt := range m.Runtimes {
		vals := m.Results[rt]
		if example >= 0 && example < len(vals) {
			row[rt] = vals[example]
		}
	}
	return row
}

// Active reports whether a runtime was invoked at all.
func (m *Matrix) Active(runtime string) bool {
	_, skipped := m.Skipped[runtime]
	return !skipped
}

// Dispatcher runs runtimes over examples.
type Dispatcher struct {
	registry    executor.Registry
	baseDir     string
	logger      logging.Logger
	metrics     metrics.RuntimeMetrics
	collector   *monitor.EventCollector
	runID       string
	timeout     time.Duration
	batch       BatchPredicate
	mode        Mode
	concurrency int
}

// NewDispatcher creates a Dispatcher with the supplied options.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry:    executor.NewRegistry(),
		baseDir:     ".",
		logger:      logging.NullLogger{},
		metrics:     metrics.NoopMetrics{},
		timeout:     DefaultTimeout,
		batch:       BatchSet(executor.DefaultBatchRuntimes...),
		mode:        ModeSequential,
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// participant is a runtime that passed every availability check.
type participant struct {
	spec  example.RuntimeSpec
	exec  executor.Executor
	inv   *executor.Invocation
	batch bool
}

// task is one Execute call. For batch tasks example is -1.
type task struct {
	p       *participant
	example int
}

// Dispatch executes every runtime over every example and returns
// the merged result matrix. Only configuration errors and
// cancellation of ctx are returned as errors.
func (d *Dispatcher) Dispatch(
	ctx context.Context,
	specs []example.RuntimeSpec,
	examples []example.Example,
) (*Matrix, error) {
	if len(specs) == 0 {
		return nil, ErrNoRuntimes
	}
	if len(examples) == 0 {
		return nil, ErrNoExamples
	}

	m := newMatrix(specs, len(examples))
	builder := executor.NewBuilder(d.baseDir, d.registry)

	var tasks []task
	for _, spec := range specs {
		p, reason := d.prepare(ctx, builder, spec)
		if p == nil {
			d.skip(m, spec.Name, reason)
			continue
		}
		m.Batch[spec.Name] = p.batch
		if p.batch {
			tasks = append(tasks, task{p: p, example: -1})
			continue
		}
		for i := range examples {
			tasks = append(tasks, task{p: p, example: i})
		}
	}

	d.logEvent("dispatch_started",
		logging.IntField("runtimes", len(specs)),
		logging.IntField("active", len(specs)-len(m.Skipped)),
		logging.IntField("examples", len(examples)),
		logging.IntField("invocations", len(tasks)),
		logging.StringField("mode", string(d.mode)),
	)

	if d.mode == ModeParallel {
		d.runParallel(ctx, m, tasks, examples)
	} else {
		for _, t := range tasks {
			merge(m, t, d.run(ctx, t, examples))
		}
	}

	if err := ctx.Err(); err != nil {
		return m, fmt.Errorf("dispatch canceled: %w", err)
	}
	return m, nil
}

// Partition splits runtimes into batch-capable and sequential
// groups, preserving order. An explicit batch flag on a runtime
// overrides the predicate.
func Partition(
	specs []example.RuntimeSpec,
	batch BatchPredicate,
) (batched, sequential []example.RuntimeSpec) {
	for _, s := range specs {
		if isBatch(s, batch) {
			batched = append(batched, s)
		} else {
			sequential = append(sequential, s)
		}
	}
	return batched, sequential
}

func isBatch(spec example.RuntimeSpec, batch BatchPredicate) bool {
	if spec.Batch != nil {
		return *spec.Batch
	}
	return batch != nil && batch(spec)
}

// prepare resolves, validates and builds one runtime. A nil
// participant comes with the reason it was skipped.
func (d *Dispatcher) prepare(
	ctx context.Context,
	builder *executor.Builder,
	spec example.RuntimeSpec,
) (*participant, string) {
	exec, err := d.registry.Get(spec.ExecutorName())
	if err != nil {
		return nil, ReasonNotRegistered
	}
	if !exec.ValidateEnvironment(ctx) {
		return nil, ReasonUnavailable
	}

	inv, err := builder.Build(spec)
	if err != nil {
		return nil, err.Error()
	}

	if checker, ok := exec.(executor.InvocationChecker); ok {
		if err := checker.CheckInvocation(ctx, inv); err != nil {
			return nil, err.Error()
		}
	}

	return &participant{
		spec:  spec,
		exec:  exec,
		inv:   inv,
		batch: isBatch(spec, d.batch),
	}, ""
}

func (d *Dispatcher) skip(m *Matrix, runtime, reason string) {
	m.Skipped[runtime] = reason
	vals := m.Results[runtime]
	for i := range vals {
		vals[i] = value.Skipped()
	}

	d.metrics.RecordSkip(runtime, reason)
	if d.collector != nil {
		d.collector.Emit(monitor.RunEvent{
			Type:    monitor.EventRuntimeSkipped,
			RunID:   d.runID,
			Runtime: runtime,
			Example: -1,
			Message: reason,
		})
	}
	d.logEvent("runtime_skipped",
		logging.StringField("runtime", runtime),
		logging.StringField("reason", reason),
	)
}

// logEvent emits a structured log entry with a fixed event name.
func (d *Dispatcher) logEvent(event string, fields ...logging.Field) {
	if d.runID != "" {
		fields = append(fields, logging.StringField("run_id", d.runID))
	}
	d.logger.Info(event, fields...)
}
