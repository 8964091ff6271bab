package dispatch

import (
	"context"
	"sync"
)

// Pool runs conversion tasks on a fixed set of workers so one user's slow
// engine call never stalls event handling for other users.
type Pool struct {
	queue   chan func()
	workers int
	wg      sync.WaitGroup
}

// NewPool creates a pool with the given worker count.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{
		queue:   make(chan func(), 100),
		workers: workers,
	}
}

// Start launches the workers. They exit when ctx is cancelled or the queue
// is closed.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case task, ok := <-p.queue:
					if !ok {
						return
					}
					task()
				}
			}
		}()
	}
}

// Submit enqueues a task. Blocks when the queue is full.
func (p *Pool) Submit(task func()) {
	p.queue <- task
}

// Wait closes the queue and blocks until in-flight tasks finish.
func (p *Pool) Wait() {
	close(p.queue)
	p.wg.Wait()
}
