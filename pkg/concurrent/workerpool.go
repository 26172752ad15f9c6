// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkerCount is the pool size used by the KV repositories for fan-out reads.
const DefaultWorkerCount = 8

// WorkerPool runs functions concurrently with a bounded number of goroutines.
type WorkerPool struct {
	workerCount int
}

// NewWorkerPool creates a new worker pool with the specified number of workers
func NewWorkerPool(workerCount int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &WorkerPool{
		workerCount: workerCount,
	}
}

// Run executes all functions and returns the first error encountered,
// cancelling work that has not started yet.
func (wp *WorkerPool) Run(ctx context.Context, functions ...func() error) error {
	if len(functions) == 0 {
		return nil
	}

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(wp.workerCount)

	for _, fn := range functions {
		g.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			return fn()
		})
	}

	return g.Wait()
}

// RunAll executes every function regardless of failures and returns the
// non-nil errors in submission order.
func (wp *WorkerPool) RunAll(ctx context.Context, functions ...func() error) []error {
	if len(functions) == 0 {
		return nil
	}

	results := make([]error, len(functions))
	g := new(errgroup.Group)
	g.SetLimit(wp.workerCount)

	for i, fn := range functions {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = err
				return nil
			}
			results[i] = fn()
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, err := range results {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Collect applies fn to every item on the pool. Successful results keep the
// order of items; failed items are left out and their errors returned.
func Collect[In, Out any](ctx context.Context, wp *WorkerPool, items []In, fn func(context.Context, In) (Out, error)) ([]Out, []error) {
	type result struct {
		value Out
		err   error
		done  bool
	}
	results := make([]result, len(items))

	functions := make([]func() error, 0, len(items))
	for i, item := range items {
		functions = append(functions, func() error {
			value, err := fn(ctx, item)
			results[i] = result{value: value, err: err, done: true}
			return nil
		})
	}
	errs := wp.RunAll(ctx, functions...)

	out := make([]Out, 0, len(items))
	for _, r := range results {
		switch {
		case r.err != nil:
			errs = append(errs, r.err)
		case r.done:
			out = append(out, r.value)
		}
	}
	return out, errs
}
