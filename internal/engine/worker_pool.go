package engine

import (
	"context"
	"sync"
)

// workerPool runs handle on n goroutines fed by a bounded queue.
type workerPool[T any] struct {
	mu     sync.RWMutex
	closed bool
	queue  chan T
	handle func(ctx context.Context, t T)
	wg     sync.WaitGroup
}

func newWorkerPool[T any](ctx context.Context, n, depth int, handle func(context.Context, T)) *workerPool[T] {
	p := &workerPool[T]{
		queue:  make(chan T, depth),
		handle: handle,
	}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer p.wg.Done()
			p.run(ctx)
		}()
	}
	return p
}

func (p *workerPool[T]) run(ctx context.Context) {
	for {
		select {
		case t, ok := <-p.queue:
			if !ok {
				return
			}
			p.handle(ctx, t)
		case <-ctx.Done():
			return
		}
	}
}

// Submit enqueues without blocking. It reports false when the queue is full
// or the pool has been drained.
func (p *workerPool[T]) Submit(t T) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	select {
	case p.queue <- t:
		return true
	default:
		return false
	}
}

// Drain stops intake, lets workers finish what is queued and waits for them.
func (p *workerPool[T]) Drain() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *workerPool[T]) Len() int { return len(p.queue) }
func (p *workerPool[T]) Cap() int { return cap(p.queue) }
