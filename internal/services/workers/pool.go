package workers

import (
	"context"
	"fmt"
	"sync"

	"github.com/ternarybob/arbor"
)

// Task is a unit of work executed by the pool
type Task func(ctx context.Context) error

// Pool runs tasks across a bounded number of goroutines. Task errors are
// collected rather than aborting the pool, so a batch completes as far as it
// can and the caller inspects the failures afterwards.
type Pool struct {
	tasks      chan Task
	maxWorkers int
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	errors     []error
	errorsMu   sync.Mutex
	logger     arbor.ILogger
}

// NewPool creates a worker pool bounded to maxWorkers, derived from the
// given parent context so cancellation propagates to running tasks.
func NewPool(ctx context.Context, maxWorkers int, logger arbor.ILogger) *Pool {
	if maxWorkers <= 0 {
		maxWorkers = 10
	}

	poolCtx, cancel := context.WithCancel(ctx)

	return &Pool{
		tasks:      make(chan Task, maxWorkers*2),
		maxWorkers: maxWorkers,
		ctx:        poolCtx,
		cancel:     cancel,
		logger:     logger,
	}
}

// Start launches the workers
func (p *Pool) Start() {
	p.logger.Debug().
		Int("max_workers", p.maxWorkers).
		Msg("Starting worker pool")

	for i := 0; i < p.maxWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Submit queues a task. It fails once the pool context is cancelled.
func (p *Pool) Submit(task Task) error {
	select {
	case p.tasks <- task:
		return nil
	case <-p.ctx.Done():
		return fmt.Errorf("worker pool is shutting down")
	}
}

// Wait closes the queue, blocks until all queued tasks finish, and returns
// the collected task errors.
func (p *Pool) Wait() []error {
	close(p.tasks)
	p.wg.Wait()
	p.cancel()

	p.errorsMu.Lock()
	defer p.errorsMu.Unlock()
	return p.errors
}

// Shutdown cancels in-flight tasks and waits for workers to exit
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.logger.Debug().Msg("Worker pool shutdown complete")
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case task, ok := <-p.tasks:
			if !ok {
				return
			}

			if err := task(p.ctx); err != nil {
				p.errorsMu.Lock()
				p.errors = append(p.errors, err)
				p.errorsMu.Unlock()

				p.logger.Error().
					Err(err).
					Int("worker_id", id).
					Msg("Worker task failed")
			}

		case <-p.ctx.Done():
			return
		}
	}
}
