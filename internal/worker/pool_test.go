package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRunsEveryTask(t *testing.T) {
	pool := NewPool(4, nil)

	var done atomic.Int64
	for i := 0; i < 32; i++ {
		err := pool.Submit(context.Background(), func(context.Context) error {
			done.Add(1)
			return nil
		})
		require.NoError(t, err)
	}

	pool.Wait()
	assert.Equal(t, int64(32), done.Load())
}

func TestPoolCapsConcurrency(t *testing.T) {
	const slots = 3

	pool := NewPool(slots, nil)

	var (
		mu      sync.Mutex
		running int
		peak    int
	)

	release := make(chan struct{})

	for i := 0; i < 10; i++ {
		err := pool.Submit(context.Background(), func(context.Context) error {
			mu.Lock()
			running++
			if running > peak {
				peak = running
			}
			mu.Unlock()

			<-release

			mu.Lock()
			running--
			mu.Unlock()
			return nil
		})

		if i < slots {
			require.NoError(t, err)
		}
		if i == slots-1 {
			close(release)
		}
	}

	pool.Wait()

	assert.LessOrEqual(t, peak, slots)
}

func TestSubmitFailsOnCanceledContext(t *testing.T) {
	pool := NewPool(1, nil)

	block := make(chan struct{})
	require.NoError(t, pool.Submit(context.Background(), func(context.Context) error {
		<-block
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pool.Submit(ctx, func(context.Context) error { return nil })
	require.ErrorIs(t, err, context.Canceled)

	close(block)
	pool.Wait()
}
