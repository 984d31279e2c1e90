// Package workerpool provides a bounded goroutine pool with backpressure.
// The notifier uses it to fan one notification out across channels
// without spawning a goroutine per recipient.
//
//	pool := workerpool.New(8)
//	defer pool.Shutdown()
//
//	err := pool.Submit(func() { deliver() })
//	if errors.Is(err, workerpool.ErrPoolFull) {
//	    // shed or retry
//	}
package workerpool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/shashiranjanraj/galeria/pkg/logger"
)

var (
	// ErrPoolFull is returned by Submit when every worker is busy and the
	// buffer is at capacity.
	ErrPoolFull = errors.New("workerpool: pool is full")
	// ErrPoolClosed is returned after Shutdown has been called.
	ErrPoolClosed = errors.New("workerpool: pool is closed")
)

// Pool is a bounded goroutine pool.
type Pool struct {
	tasks   chan func()
	wg      sync.WaitGroup
	once    sync.Once
	closeCh chan struct{}
	mu      sync.RWMutex // guards sends on tasks against close
	active  atomic.Int64
}

// New creates a Pool with size workers and a buffer of 2*size tasks.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}

	p := &Pool{
		tasks:   make(chan func(), size*2),
		closeCh: make(chan struct{}),
	}
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}
	return p
}

// Submit enqueues task without blocking.
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	select {
	case <-p.closeCh:
		return ErrPoolClosed
	default:
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitWait blocks until the task is queued, ctx is done or the pool closes.
func (p *Pool) SubmitWait(ctx context.Context, task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	select {
	case <-p.closeCh:
		return ErrPoolClosed
	default:
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case <-p.closeCh:
		return ErrPoolClosed
	case <-ctx.Done():
		return ctx.Err()
	case p.tasks <- task:
		return nil
	}
}

// Active reports the number of tasks currently executing.
func (p *Pool) Active() int64 { return p.active.Load() }

// Shutdown stops accepting tasks and waits for queued ones to finish.
// It is safe to call more than once.
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		close(p.closeCh)
		p.mu.Lock()
		close(p.tasks)
		p.mu.Unlock()
		p.wg.Wait()
	})
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.run(task)
	}
}

func (p *Pool) run(task func()) {
	p.active.Add(1)
	defer p.active.Add(-1)
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("workerpool: task panic", "panic", rec)
		}
	}()
	task()
}

// Each runs fn for every item on the pool and waits for all of them. The
// returned slice holds one error per item, in order.
func Each[T any](ctx context.Context, p *Pool, items []T, fn func(context.Context, T) error) []error {
	errs := make([]error, len(items))
	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		err := p.SubmitWait(ctx, func() {
			defer wg.Done()
			errs[i] = fn(ctx, item)
		})
		if err != nil {
			wg.Done()
			errs[i] = err
		}
	}
	wg.Wait()
	return errs
}
