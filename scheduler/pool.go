// Package scheduler fans independent loop iterations out to a fixed number
// of workers.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Pool runs the iterations of a loop on up to Workers goroutines. The zero
// value and Workers <= 1 run sequentially.
type Pool struct {
	Workers int
}

func NewPool(workers int) *Pool {
	return &Pool{Workers: workers}
}

// Run calls fn for every index in [0,n). Iterations must write disjoint
// state. The first failure cancels the iterations not yet started; every
// failure is returned in index order.
func (p *Pool) Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	if p == nil || p.Workers <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(ctx, i); err != nil {
				return err
			}
		}
		return nil
	}

	q := newConqFIFO()
	for i := 0; i < n; i++ {
		if err := q.Enqueue(&task{index: i}); err != nil {
			return fmt.Errorf("failed to enqueue iteration %d: %w", i, err)
		}
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errs := make([]error, n)
	workers := p.Workers
	if workers > n {
		workers = n
	}
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				t, err := q.Dequeue()
				if err != nil {
					return
				}
				if err := fn(ctx, t.index); err != nil {
					errs[t.index] = err
					cancel()
				}
			}
		}()
	}
	wg.Wait()

	err := multierr.Combine(errs...)
	if err == nil && q.GetLen() > 0 {
		err = ctx.Err()
	}
	if err != nil {
		zap.L().Debug(fmt.Sprintf("pool stopped with %d pending iterations/reason:%s", q.GetLen(), err))
	}
	return err
}
