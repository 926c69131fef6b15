package build

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Pool is a fixed-size worker pool over errgroup.Group, mirroring please's
// src/exec/exec.go Parallel. Workers never share mutable target state
// (spec §5): each task mutates exactly the SourceUnit or Target it closes
// over.
type Pool struct {
	size int
}

// NewPool constructs a Pool with the given concurrency limit.
func NewPool(size int) Pool {
	if size < 1 {
		size = 1
	}
	return Pool{size: size}
}

// Run submits every task in tasks to the pool and waits for them all to
// complete (or the first error, which cancels ctx for the rest).
func (p Pool) Run(ctx context.Context, tasks []func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.size)
	for _, task := range tasks {
		task := task
		g.Go(func() error { return task(gctx) })
	}
	return g.Wait()
}

// RunBestEffort is like Run but runs every task to completion even after
// some fail, per spec §5 ("its own remaining units to still complete, to
// surface the most errors at once"). It returns every error encountered,
// in submission order, with nils elided. Cancelling ctx is passed on to
// every task. Per spec §5's ordering guarantees, RunBestEffort is the
// mechanism by which the orchestrator makes depfile generation of all
// needed units in a level complete before compilation of any unit in that
// level begins, and all compiles in a level complete before any link.
func (p Pool) RunBestEffort(ctx context.Context, tasks []func(context.Context) error) []error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.size)
	errs := make([]error, len(tasks))
	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			errs[i] = task(gctx)
			return nil
		})
	}
	g.Wait()
	out := errs[:0]
	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}
	return out
}
