package dispatch

import (
	"context"

	"golang.org/x/sync/errgroup"

	"digital.vasic.polyglot/pkg/example"
)

// runParallel executes tasks concurrently with at most
// d.concurrency in flight. Each task writes only its own slot of
// results; the matrix is filled once every task has finished, so
// the merged output matches sequential mode exactly.
func (d *Dispatcher) runParallel(
	ctx context.Context,
	m *Matrix,
	tasks []task,
	examples []example.Example,
) {
	results := make([]taskResult, len(tasks))

	var g errgroup.Group
	g.SetLimit(d.concurrency)
	for i, t := range tasks {
		g.Go(func() error {
			results[i] = d.run(ctx, t, examples)
			return nil
		})
	}
	_ = g.Wait()

	for i, t := range tasks {
		merge(m, t, results[i])
	}
}
