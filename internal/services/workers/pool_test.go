package workers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestPoolRunsAllTasks(t *testing.T) {
	pool := NewPool(context.Background(), 4, arbor.NewLogger())
	pool.Start()

	var completed atomic.Int64
	for i := 0; i < 50; i++ {
		err := pool.Submit(func(ctx context.Context) error {
			completed.Add(1)
			return nil
		})
		require.NoError(t, err)
	}

	errs := pool.Wait()
	assert.Empty(t, errs)
	assert.Equal(t, int64(50), completed.Load())
}

func TestPoolCollectsErrorsWithoutAborting(t *testing.T) {
	pool := NewPool(context.Background(), 2, arbor.NewLogger())
	pool.Start()

	var completed atomic.Int64
	for i := 0; i < 10; i++ {
		i := i
		err := pool.Submit(func(ctx context.Context) error {
			if i%2 == 0 {
				return errors.New("task failed")
			}
			completed.Add(1)
			return nil
		})
		require.NoError(t, err)
	}

	errs := pool.Wait()
	assert.Len(t, errs, 5)
	assert.Equal(t, int64(5), completed.Load(), "failures must not stop remaining tasks")
}

func TestPoolBoundsConcurrency(t *testing.T) {
	const maxWorkers = 3
	pool := NewPool(context.Background(), maxWorkers, arbor.NewLogger())
	pool.Start()

	var mu sync.Mutex
	inFlight, peak := 0, 0
	for i := 0; i < 20; i++ {
		err := pool.Submit(func(ctx context.Context) error {
			mu.Lock()
			inFlight++
			if inFlight > peak {
				peak = inFlight
			}
			mu.Unlock()

			mu.Lock()
			inFlight--
			mu.Unlock()
			return nil
		})
		require.NoError(t, err)
	}

	pool.Wait()
	assert.LessOrEqual(t, peak, maxWorkers)
}

func TestPoolRejectsSubmitAfterShutdown(t *testing.T) {
	pool := NewPool(context.Background(), 2, arbor.NewLogger())
	pool.Start()
	pool.Shutdown()

	err := pool.Submit(func(ctx context.Context) error { return nil })
	require.Error(t, err)
}

func TestPoolDefaultsWorkerCount(t *testing.T) {
	pool := NewPool(context.Background(), 0, arbor.NewLogger())
	assert.Equal(t, 10, pool.maxWorkers)
}
