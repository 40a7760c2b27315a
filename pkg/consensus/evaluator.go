// Package consensus decides whether runtimes agree on each
// example and assembles the run report.
package consensus

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"digital.vasic.polyglot/pkg/example"
	"digital.vasic.polyglot/pkg/logging"
	"digital.vasic.polyglot/pkg/metrics"
	"digital.vasic.polyglot/pkg/monitor"
	"digital.vasic.polyglot/pkg/value"
)

// DefaultTolerance is the inclusive absolute tolerance within
// which two numeric results agree.
const DefaultTolerance = 1e-3

// ErrUnknownPolicy is returned for an unregistered anchor policy.
var ErrUnknownPolicy = errors.New("unknown anchor policy")

// Warning messages.
const (
	WarnZeroActive = "zero active runtimes"
)

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithTolerance sets the agreement tolerance. Negative values are
// ignored.
func WithTolerance(tol float64) Option {
	return func(e *Evaluator) {
		if tol >= 0 {
			e.tolerance = tol
		}
	}
}

// WithAnchor selects the anchor policy by name.
func WithAnchor(name string) Option {
	return func(e *Evaluator) {
		if name != "" {
			e.anchor = name
		}
	}
}

// WithPolicy registers an additional anchor policy.
func WithPolicy(name string, p Policy) Option {
	return func(e *Evaluator) {
		e.policies[name] = p
	}
}

// WithRunID sets the report's run identifier instead of a
// generated one.
func WithRunID(id string) Option {
	return func(e *Evaluator) {
		e.runID = id
	}
}

// WithLogger sets the logger used for evaluation events.
func WithLogger(logger logging.Logger) Option {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m metrics.RuntimeMetrics) Option {
	return func(e *Evaluator) {
		e.metrics = m
	}
}

// WithCollector sets the event collector.
func WithCollector(c *monitor.EventCollector) Option {
	return func(e *Evaluator) {
		e.collector = c
	}
}

// Evaluator compares normalized results. It holds no state
// between runs.
type Evaluator struct {
	tolerance float64
	anchor    string
	policy    Policy
	policies  map[string]Policy
	runID     string
	logger    logging.Logger
	metrics   metrics.RuntimeMetrics
	collector *monitor.EventCollector
}

// NewEvaluator creates an Evaluator. It fails when the selected
// anchor policy is not registered.
func NewEvaluator(opts ...Option) (*Evaluator, error) {
	e := &Evaluator{
		tolerance: DefaultTolerance,
		anchor:    DefaultAnchor,
		policies:  defaultPolicies(),
		logger:    logging.NullLogger{},
		metrics:   metrics.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(e)
	}

	p, ok := e.policies[e.anchor]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPolicy, e.anchor)
	}
	e.policy = p
	return e, nil
}

// Tolerance returns the configured tolerance.
func (e *Evaluator) Tolerance() float64 { return e.tolerance }

// Anchor returns the configured anchor policy name.
func (e *Evaluator) Anchor() string { return e.anchor }

// Evaluate builds the report for a run. results maps each runtime
// to one value per example; a runtime without a value for an
// example counts as skipped.
func (e *Evaluator) Evaluate(
	examples []example.Example,
	runtimes []string,
	results map[string][]value.Value,
) *Report {
	runID := e.runID
	if runID == "" {
		runID = uuid.NewString()
	}

	rep := &Report{
		RunID:     runID,
		Anchor:    e.anchor,
		Tolerance: e.tolerance,
		Runtimes:  append([]string(nil), runtimes...),
		Consensus: true,
		Results:   make([]ExampleResult, 0, len(examples)),
		Failures:  []string{},
	}

	inconclusive := 0
	for i, ex := range examples {
		row := make(map[string]value.Value, len(runtimes))
		for _, rt := range runtimes {
			vals := results[rt]
			if i < len(vals) {
				row[rt] = vals[i]
			} else {
				row[rt] = value.Skipped()
			}
		}

		res := e.EvaluateExample(i+1, ex, runtimes, row)
		rep.Results = append(rep.Results, res)

		if !res.Consensus {
			rep.Consensus = false
		}
		for _, f := range res.Failures {
			rep.Failures = append(rep.Failures, fmt.Sprintf(
				"example %d (%s): %s", res.ID, res.Op, f,
			))
		}
		if res.Inconclusive {
			inconclusive++
			rep.Warnings = append(rep.Warnings, fmt.Sprintf(
				"no active runtimes for example %d", res.ID,
			))
		}
	}

	if len(examples) > 0 && inconclusive == len(examples) {
		rep.Inconclusive = true
		rep.Warnings = append(rep.Warnings, WarnZeroActive)
		e.logger.Warn(WarnZeroActive,
			logging.StringField("run_id", runID),
			logging.IntField("runtimes", len(runtimes)),
		)
	}
	return rep
}

// EvaluateExample evaluates one example. The runtimes slice fixes
// the order in which contributions reach the anchor policy.
func (e *Evaluator) EvaluateExample(
	id int,
	ex example.Example,
	runtimes []string,
	row map[string]value.Value,
) ExampleResult {
	res := ExampleResult{
		ID:             id,
		Op:             ex.Operation(),
		Input:          ex.Operands(),
		RuntimeResults: make(map[string]value.Value, len(runtimes)),
	}

	var (
		failures []string
		dissent  []Disagreement
	)
	ref, source, msg := e.reference(ex)
	if msg != "" {
		failures = append(failures, msg)
	}
	res.Expected, res.ExpectedSource = ref, source

	var numeric []Contribution
	active := 0
	for _, rt := range runtimes {
		v, ok := row[rt]
		if !ok {
			v = value.Skipped()
		}
		res.RuntimeResults[rt] = v

		switch {
		case v.IsSkipped():
			continue
		case v.IsError():
			dissent = append(dissent, Disagreement{
				Runtime: rt, Reason: v.Message(),
			})
		case !v.IsFinite():
			dissent = append(dissent, Disagreement{
				Runtime: rt,
				Reason:  "non-finite result " + v.String(),
			})
		default:
			f, _ := v.Float()
			numeric = append(numeric, Contribution{Runtime: rt, Value: f})
		}
		active++
	}

	anchor, disagreements := e.policy(numeric, e.tolerance)
	res.Anchor = anchor
	dissent = append(dissent, disagreements...)

	if ref != nil {
		for _, c := range numeric {
			if !Within(c.Value, *ref, e.tolerance) {
				dissent = append(dissent, Disagreement{
					Runtime: c.Runtime,
					Reason: fmt.Sprintf(
						"%s differs from expected %s",
						value.FormatFloat(c.Value),
						value.FormatFloat(*ref),
					),
				})
			}
		}
	}

	for _, d := range dissent {
		failures = append(failures, d.String())
	}
	res.Dissenting = dissenting(runtimes, dissent)
	res.Failures = failures
	res.Consensus = len(failures) == 0
	res.Inconclusive = active == 0

	e.metrics.RecordExample(string(res.Op), res.Consensus)
	if e.collector != nil {
		consensus := res.Consensus
		e.collector.Emit(monitor.RunEvent{
			Type:      monitor.EventExampleEvaluated,
			RunID:     e.runID,
			Example:   id - 1,
			Op:        string(res.Op),
			Consensus: &consensus,
		})
	}
	e.logger.Info("example_evaluated",
		logging.IntField("example", id),
		logging.StringField("op", string(res.Op)),
		logging.IntField("active", active),
		logging.BoolField("consensus", res.Consensus),
		logging.IntField("failures", len(failures)),
	)
	return res
}

// reference returns the expected value of an example. A known
// operation is recomputed; a literal that disagrees with the
// recomputation yields a failure message.
func (e *Evaluator) reference(
	ex example.Example,
) (*float64, string, string) {
	recomputed, ok := ex.Recompute()
	switch {
	case ok && ex.Expected != nil &&
		!Within(*ex.Expected, recomputed, e.tolerance):
		return &recomputed, SourceRecomputed, fmt.Sprintf(
			"expected literal %s disagrees with recomputed %s",
			value.FormatFloat(*ex.Expected),
			value.FormatFloat(recomputed),
		)
	case ok:
		return &recomputed, SourceRecomputed, ""
	case ex.Expected != nil &&
		!math.IsNaN(*ex.Expected) && !math.IsInf(*ex.Expected, 0):
		lit := *ex.Expected
		return &lit, SourceLiteral, ""
	}
	return nil, "", ""
}

// dissenting returns the runtimes named by disagreements, in
// runtime order.
func dissenting(runtimes []string, ds []Disagreement) []string {
	named := make(map[string]bool, len(ds))
	for _, d := range ds {
		named[d.Runtime] = true
		if d.Peer != "" {
			named[d.Peer] = true
		}
	}
	var out []string
	for _, rt := range runtimes {
		if named[rt] {
			out = append(out, rt)
		}
	}
	return out
}
