package services

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Background runs best-effort side effects (push, sentiment scoring) after
// the request that caused them has been answered.
type Background struct {
	Logger  *slog.Logger
	Timeout time.Duration

	wg sync.WaitGroup
}

func (b *Background) Go(ctx context.Context, name string, fn func(ctx context.Context) error) {
	if b == nil {
		return
	}
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	ctx = context.WithoutCancel(ctx)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := fn(ctx); err != nil && b.Logger != nil {
			b.Logger.Warn("background task failed", "task", name, "error", err)
		}
	}()
}

// Wait blocks until every started task has finished.
func (b *Background) Wait() {
	if b == nil {
		return
	}
	b.wg.Wait()
}
