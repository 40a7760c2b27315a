package engine

import (
	"errors"

	"digital.vasic.polyglot/pkg/config"
	"digital.vasic.polyglot/pkg/dispatch"
	"digital.vasic.polyglot/pkg/executor"
)

// PlanEntry describes how one runtime of a document would be
// invoked, without invoking it.
type PlanEntry struct {
	Runtime     string               `json:"runtime"`
	Executor    string               `json:"executor"`
	Registered  bool                 `json:"registered"`
	Batch       bool                 `json:"batch"`
	Invocation  *executor.Invocation `json:"invocation,omitempty"`
	Error       string               `json:"error,omitempty"`
	MissingFile bool                 `json:"missing_file,omitempty"`
}

// OK reports whether the runtime could be dispatched as planned.
func (p PlanEntry) OK() bool {
	return p.Registered && p.Error == ""
}

// Plan validates doc and builds every invocation it names. Runtime
// environments are not probed.
func (e *Engine) Plan(doc *config.Document) ([]PlanEntry, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	batched, _ := dispatch.Partition(doc.Runtimes, e.batchPredicate())
	isBatch := make(map[string]bool, len(batched))
	for _, s := range batched {
		isBatch[s.Name] = true
	}

	builder := executor.NewBuilder(doc.BaseDir, e.registry)
	entries := make([]PlanEntry, 0, len(doc.Runtimes))
	for _, spec := range doc.Runtimes {
		entry := PlanEntry{
			Runtime:  spec.Name,
			Executor: spec.ExecutorName(),
			Batch:    isBatch[spec.Name],
		}
		if _, err := e.registry.Get(entry.Executor); err != nil {
			entry.Error = dispatch.ReasonNotRegistered
			entries = append(entries, entry)
			continue
		}
		entry.Registered = true

		inv, err := builder.Build(spec)
		if err != nil {
			entry.Error = err.Error()
			entry.MissingFile = errors.Is(err, executor.ErrMissingFile)
		} else {
			entry.Invocation = inv
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
