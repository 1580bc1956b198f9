package pool

import (
	"context"
	"sync"
)

// WorkerPool runs submitted tasks with at most maxWorkers in flight.
type WorkerPool struct {
	sem chan struct{}
	wg  sync.WaitGroup
}

func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &WorkerPool{
		sem: make(chan struct{}, maxWorkers),
	}
}

// Submit schedules task. If ctx ends before a worker slot frees up the task
// is dropped without running.
func (p *WorkerPool) Submit(ctx context.Context, task func(context.Context)) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		select {
		case p.sem <- struct{}{}:
			defer func() { <-p.sem }()
			if ctx.Err() != nil {
				return
			}
			task(ctx)
		case <-ctx.Done():
		}
	}()
}

func (p *WorkerPool) Wait() {
	p.wg.Wait()
}
