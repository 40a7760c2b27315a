package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"digital.vasic.polyglot/pkg/example"
	"digital.vasic.polyglot/pkg/executor"
	"digital.vasic.polyglot/pkg/logging"
	"digital.vasic.polyglot/pkg/metrics"
	"digital.vasic.polyglot/pkg/monitor"
	"digital.vasic.polyglot/pkg/value"
)

// taskResult is the unshared output of one task, merged into the
// matrix after the task completes.
type taskResult struct {
	values []value.Value
	repair *value.Repair
}

type reply struct {
	raw      any
	err      error
	panicked bool
}

// run executes one task and normalizes its result.
func (d *Dispatcher) run(
	ctx context.Context,
	t task,
	examples []example.Example,
) taskResult {
	rt := t.p.spec.Name

	var (
		rc     executor.RunContext
		target executor.Target
	)
	if t.example < 0 {
		rc = executor.BatchContext(examples)
		target = executor.BatchTarget(rt)
	} else {
		rc = executor.SequentialContext(examples[t.example])
		target = executor.Target{Runtime: rt, Example: t.example}
	}

	d.emit(monitor.RunEvent{
		Type:    monitor.EventInvocationStarted,
		Runtime: rt,
		Example: t.example,
		Batch:   rc.IsBatch(),
	})
	d.logger.Debug("invocation_started",
		logging.StringField("runtime", rt),
		logging.IntField("example", t.example),
		logging.BoolField("batch", rc.IsBatch()),
	)

	start := time.Now()
	raw, outcome, err := d.invoke(ctx, t.p, target, rc)
	elapsed := time.Since(start)

	var res taskResult
	switch {
	case err != nil:
		res.values = fill(d.failure(outcome, err), rc.Size())
	case rc.IsBatch():
		vals, rep := value.NormalizeBatch(raw, rc.Size())
		res.values = vals
		if rep.Repaired() {
			res.repair = &rep
			d.repaired(rt, rep)
		}
	default:
		res.values = []value.Value{value.Normalize(raw)}
	}

	if outcome == metrics.OutcomeOK && allErrors(res.values) {
		outcome = metrics.OutcomeError
	}
	d.metrics.RecordInvocation(rt, rc.IsBatch(), outcome, elapsed)

	ev := monitor.RunEvent{
		Type:     monitor.EventInvocationCompleted,
		Runtime:  rt,
		Example:  t.example,
		Batch:    rc.IsBatch(),
		Duration: elapsed,
	}
	fields := []logging.Field{
		logging.StringField("runtime", rt),
		logging.IntField("example", t.example),
		logging.StringField("outcome", outcome),
		logging.DurationField("duration", elapsed),
	}
	if !rc.IsBatch() {
		ev.Value = res.values[0].String()
	}
	if outcome != metrics.OutcomeOK {
		ev.Type = monitor.EventInvocationFailed
		ev.Message = res.values[0].Message()
		d.emit(ev)
		d.logger.Warn("invocation_failed", append(fields,
			logging.StringField("error", ev.Message),
		)...)
		return res
	}
	d.emit(ev)
	d.logger.Debug("invocation_completed", fields...)
	return res
}

// invoke calls the executor under the per-invocation timeout,
// converting panics into errors. An executor that ignores its
// context cannot hold the run past the timeout.
func (d *Dispatcher) invoke(
	ctx context.Context,
	p *participant,
	target executor.Target,
	rc executor.RunContext,
) (any, string, error) {
	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	done := make(chan reply, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- reply{
					err:      fmt.Errorf("executor panicked: %v", r),
					panicked: true,
				}
			}
		}()
		raw, err := p.exec.Execute(callCtx, p.inv, target, rc)
		done <- reply{raw: raw, err: err}
	}()

	select {
	case r := <-done:
		switch {
		case r.panicked:
			return nil, metrics.OutcomePanic, r.err
		case r.err != nil && d.timedOut(ctx, callCtx):
			return nil, metrics.OutcomeTimeout, r.err
		case r.err != nil:
			return nil, metrics.OutcomeError, r.err
		}
		return r.raw, metrics.OutcomeOK, nil
	case <-callCtx.Done():
		if d.timedOut(ctx, callCtx) {
			return nil, metrics.OutcomeTimeout, callCtx.Err()
		}
		return nil, metrics.OutcomeError, ctx.Err()
	}
}

func (d *Dispatcher) timedOut(parent, call context.Context) bool {
	return parent.Err() == nil &&
		errors.Is(call.Err(), context.DeadlineExceeded)
}

// failure converts a raised error into the value recorded for the
// invocation.
func (d *Dispatcher) failure(outcome string, err error) value.Value {
	if outcome == metrics.OutcomeTimeout {
		return value.Errorf(
			"Error: execution timed out after %s", d.timeout,
		)
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "Error:") {
		msg = "Error: " + msg
	}
	return value.Error(msg)
}

func (d *Dispatcher) repaired(runtime string, rep value.Repair) {
	d.metrics.RecordRepair(runtime, rep.Padded, rep.Truncated)
	msg := fmt.Sprintf(
		"expected %d results, received %d", rep.Expected, rep.Received,
	)
	if rep.Replicated {
		msg = fmt.Sprintf(
			"scalar result replicated to %d examples", rep.Expected,
		)
	}
	d.emit(monitor.RunEvent{
		Type:    monitor.EventBatchRepaired,
		Runtime: runtime,
		Example: -1,
		Batch:   true,
		Message: msg,
	})
	d.logger.Warn("batch_repaired",
		logging.StringField("runtime", runtime),
		logging.IntField("expected", rep.Expected),
		logging.IntField("received", rep.Received),
		logging.IntField("padded", rep.Padded),
		logging.IntField("truncated", rep.Truncated),
		logging.BoolField("replicated", rep.Replicated),
	)
}

func (d *Dispatcher) emit(ev monitor.RunEvent) {
	if d.collector == nil {
		return
	}
	ev.RunID = d.runID
	d.collector.Emit(ev)
}

// merge writes a task's values into its runtime row.
func merge(m *Matrix, t task, res taskResult) {
	rt := t.p.spec.Name
	if t.example < 0 {
		copy(m.Results[rt], res.values)
	} else {
		m.Results[rt][t.example] = res.values[0]
	}
	if res.repair != nil {
		m.Repairs[rt] = *res.repair
	}
}

func fill(v value.Value, n int) []value.Value {
	out := make([]value.Value, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func allErrors(vals []value.Value) bool {
	if len(vals) == 0 {
		return false
	}
	for _, v := range vals {
		if !v.IsError() {
			return false
		}
	}
	return true
}
