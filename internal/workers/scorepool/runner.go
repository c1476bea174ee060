package scorepool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Processor handles the job at a population index.
type Processor func(ctx context.Context, index int) error

// Run dispatches indices 0..n-1 in ascending order to concurrency workers.
// Before each dispatch the dispatcher asks more(index); a false answer stops
// dispatch, and jobs already handed out still run to completion. Every index
// below the first refused one is therefore processed unless an error or
// cancellation ends the run early.
func Run(ctx context.Context, n, concurrency int, more func(index int) bool, process Processor) error {
	if n <= 0 {
		return nil
	}
	if concurrency < 1 {
		concurrency = 1
	}
	concurrency = min(concurrency, n)

	g, ctx := errgroup.WithContext(ctx)
	jobsCh := make(chan int, concurrency)

	// dispatcher loop
	g.Go(func() error {
		defer close(jobsCh)
		for i := 0; i < n; i++ {
			if more != nil && !more(i) {
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case jobsCh <- i:
			}
		}
		return nil
	})

	// workers
	for w := 0; w < concurrency; w++ {
		g.Go(func() error {
			for idx := range jobsCh {
				if err := process(ctx, idx); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
