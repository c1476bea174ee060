package scorepool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestRunProcessesEveryIndex(t *testing.T) {
	const n = 100
	var seen [n]atomic.Bool
	err := Run(context.Background(), n, 8, nil, func(_ context.Context, idx int) error {
		seen[idx].Store(true)
		return nil
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	for i := range seen {
		if !seen[i].Load() {
			t.Fatalf("index %d not processed", i)
		}
	}
}

func TestRunStopsDispatchButFinishesLowerIndices(t *testing.T) {
	const n = 200
	const stopAt = 37
	var mu sync.Mutex
	processed := map[int]bool{}
	err := Run(context.Background(), n, 4, func(idx int) bool { return idx <= stopAt }, func(_ context.Context, idx int) error {
		mu.Lock()
		processed[idx] = true
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	for i := 0; i <= stopAt; i++ {
		if !processed[i] {
			t.Fatalf("index %d below the stop point was skipped", i)
		}
	}
	for idx := range processed {
		if idx > stopAt {
			t.Fatalf("index %d dispatched after stop", idx)
		}
	}
}

func TestRunPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	err := Run(context.Background(), 50, 3, nil, func(_ context.Context, idx int) error {
		if idx == 10 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Run(ctx, 1000, 2, nil, func(ctx context.Context, _ int) error {
		return ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunEmpty(t *testing.T) {
	called := false
	if err := Run(context.Background(), 0, 4, nil, func(context.Context, int) error {
		called = true
		return nil
	}); err != nil || called {
		t.Fatalf("empty run: err=%v called=%v", err, called)
	}
}
