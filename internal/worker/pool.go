// Package worker bounds how many updates are processed concurrently.
package worker

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Pool runs submitted tasks on goroutines while capping concurrency.
type Pool struct {
	sem *semaphore.Weighted
	log *slog.Logger
	wg  sync.WaitGroup
}

// NewPool creates a pool that runs at most slots tasks at once.
func NewPool(slots int64, log *slog.Logger) *Pool {
	if slots <= 0 {
		slots = 1
	}
	if log == nil {
		log = slog.Default()
	}

	return &Pool{
		sem: semaphore.NewWeighted(slots),
		log: log,
	}
}

// Submit schedules task on its own goroutine, blocking while all slots are
// busy. Submission fails only when ctx is canceled first. Task errors are
// logged, not returned, since ingestion must not stall on a slow handler.
func (p *Pool) Submit(ctx context.Context, task func(ctx context.Context) error) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.sem.Release(1)

		if err := task(ctx); err != nil {
			p.log.Error("task failed", slog.Any("error", err))
		}
	}()

	return nil
}

// Wait blocks until every submitted task has finished.
func (p *Pool) Wait() {
	p.wg.Wait()
}
