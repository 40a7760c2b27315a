// Package engine runs a full comparison: it dispatches every
// runtime over every example and evaluates consensus on the
// resulting matrix.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"digital.vasic.polyglot/pkg/config"
	"digital.vasic.polyglot/pkg/consensus"
	"digital.vasic.polyglot/pkg/dispatch"
	"digital.vasic.polyglot/pkg/example"
	"digital.vasic.polyglot/pkg/executor"
	"digital.vasic.polyglot/pkg/logging"
	"digital.vasic.polyglot/pkg/metrics"
	"digital.vasic.polyglot/pkg/monitor"
)

// Engine ties the executor registry, the dispatcher and the
// consensus evaluator together.
type Engine struct {
	settings  config.Settings
	registry  executor.Registry
	execOpts  executor.Options
	logger    logging.Logger
	metrics   metrics.RuntimeMetrics
	collector *monitor.EventCollector
}

// New creates an Engine. Settings are validated up front so that
// a bad anchor or mode surfaces before any runtime is invoked.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		settings: config.DefaultSettings(),
		logger:   logging.NullLogger{},
		metrics:  metrics.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.settings.Validate(); err != nil {
		return nil, err
	}
	if _, err := consensus.NewEvaluator(
		consensus.WithAnchor(e.settings.Anchor),
		consensus.WithTolerance(e.settings.Tolerance),
	); err != nil {
		return nil, err
	}

	if e.registry == nil {
		reg, err := executor.BuildRegistry(e.execOpts)
		if err != nil {
			return nil, fmt.Errorf("build registry: %w", err)
		}
		e.registry = reg
	}
	return e, nil
}

// Registry returns the executor registry in use.
func (e *Engine) Registry() executor.Registry { return e.registry }

// Settings returns the engine settings.
func (e *Engine) Settings() config.Settings { return e.settings }

// Compare runs the runtimes and examples of a comparison document.
func (e *Engine) Compare(
	ctx context.Context,
	doc *config.Document,
) (*consensus.Report, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return e.CompareExamples(ctx, doc.BaseDir, doc.Runtimes, doc.Examples)
}

// CompareExamples dispatches runtimes over examples, resolving
// runtime files against baseDir, and returns the consensus
// report. Only configuration errors and cancellation are returned
// as errors; runtime failures are part of the report.
func (e *Engine) CompareExamples(
	ctx context.Context,
	baseDir string,
	runtimes []example.RuntimeSpec,
	examples []example.Example,
) (*consensus.Report, error) {
	runID := uuid.NewString()
	start := time.Now()

	evaluator, err := consensus.NewEvaluator(
		consensus.WithTolerance(e.settings.Tolerance),
		consensus.WithAnchor(e.settings.Anchor),
		consensus.WithRunID(runID),
		consensus.WithLogger(e.logger),
		consensus.WithMetrics(e.metrics),
		consensus.WithCollector(e.collector),
	)
	if err != nil {
		return nil, err
	}

	d := dispatch.NewDispatcher(e.dispatchOptions(runID, baseDir)...)

	e.emit(monitor.RunEvent{
		Type:    monitor.EventRunStarted,
		RunID:   runID,
		Message: fmt.Sprintf("%d runtimes, %d examples", len(runtimes), len(examples)),
	})
	e.logEvent(runID, "run_started",
		logging.IntField("runtimes", len(runtimes)),
		logging.IntField("examples", len(examples)),
		logging.StringField("anchor", e.settings.Anchor),
	)

	m, err := d.Dispatch(ctx, runtimes, examples)
	if err != nil {
		e.logger.Error("run_aborted",
			logging.StringField("run_id", runID),
			logging.ErrorField(err),
		)
		return nil, err
	}

	rep := evaluator.Evaluate(examples, m.Runtimes, m.Results)
	rep.Skipped = m.Skipped
	rep.StartTime = start
	rep.Duration = time.Since(start)

	agreed, disagreed, inconclusive := rep.Summary()
	passed := rep.Consensus
	e.emit(monitor.RunEvent{
		Type:      monitor.EventRunCompleted,
		RunID:     runID,
		Consensus: &passed,
		Duration:  rep.Duration,
	})
	e.logEvent(runID, "run_completed",
		logging.BoolField("consensus", rep.Consensus),
		logging.BoolField("inconclusive", rep.Inconclusive),
		logging.IntField("agreed", agreed),
		logging.IntField("disagreed", disagreed),
		logging.IntField("inconclusive_examples", inconclusive),
		logging.DurationField("duration", rep.Duration),
	)
	return rep, nil
}

func (e *Engine) dispatchOptions(runID, baseDir string) []dispatch.Option {
	opts := []dispatch.Option{
		dispatch.WithRegistry(e.registry),
		dispatch.WithBaseDir(baseDir),
		dispatch.WithLogger(e.logger),
		dispatch.WithMetrics(e.metrics),
		dispatch.WithRunID(runID),
		dispatch.WithTimeout(e.settings.Timeout),
		dispatch.WithMode(dispatch.Mode(e.settings.Mode)),
		dispatch.WithConcurrency(e.settings.Concurrency),
		dispatch.WithBatchPredicate(e.batchPredicate()),
	}
	if e.collector != nil {
		opts = append(opts, dispatch.WithCollector(e.collector))
	}
	return opts
}

// batchPredicate falls back to the built-in batch set when the
// settings leave it unset.
func (e *Engine) batchPredicate() dispatch.BatchPredicate {
	if e.settings.BatchRuntimes == nil {
		return dispatch.BatchSet(executor.DefaultBatchRuntimes...)
	}
	return dispatch.BatchSet(e.settings.BatchRuntimes...)
}

func (e *Engine) emit(ev monitor.RunEvent) {
	if e.collector != nil {
		e.collector.Emit(ev)
	}
}

func (e *Engine) logEvent(runID, event string, fields ...logging.Field) {
	fields = append(fields, logging.StringField("run_id", runID))
	e.logger.Info(event, fields...)
}

// Status is the availability of one registered executor.
type Status struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// Availability probes every registered executor concurrently and
// returns the results sorted by name.
func (e *Engine) Availability(ctx context.Context) []Status {
	names := e.registry.Names()
	out := make([]Status, len(names))

	var g errgroup.Group
	g.SetLimit(e.settings.Concurrency)
	for i, name := range names {
		g.Go(func() error {
			out[i] = Status{Name: name}
			exec, err := e.registry.Get(name)
			if err != nil {
				return nil
			}
			out[i].Available = exec.ValidateEnvironment(ctx)
			return nil
		})
	}
	_ = g.Wait()
	return out
}
