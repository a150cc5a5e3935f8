// Package workerpool provides a bounded goroutine pool with backpressure.
//
// A Pool caps how many remote calls run at once. Submit never blocks and
// reports ErrPoolFull when the queue is at capacity; SubmitWait blocks until
// the task is queued or its context ends. Each is the batch form used to fan
// a fixed number of calls out over a short-lived pool:
//
//	err := workerpool.Each(ctx, 4, len(ids), func(ctx context.Context, i int) {
//	    results[i], errs[i] = client.Product(ctx, ids[i])
//	})
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

var ErrPoolFull = errors.New("workerpool: pool is full")

var ErrPoolClosed = errors.New("workerpool: pool is closed")

// ErrTaskPanicked is returned by Each when a call did not return normally.
var ErrTaskPanicked = errors.New("workerpool: task panicked")

// Pool is a bounded goroutine pool.
type Pool struct {
	tasks   chan func()
	wg      sync.WaitGroup
	once    sync.Once
	closeCh chan struct{}
}

// New starts a Pool with size workers (at least one) and a queue twice that
// deep.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}

	p := &Pool{
		tasks:   make(chan func(), size*2),
		closeCh: make(chan struct{}),
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return p
}

// Submit enqueues task without blocking.
func (p *Pool) Submit(task func()) error {
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

// SubmitWait blocks until task is queued, ctx is done, or the pool closes.
func (p *Pool) SubmitWait(ctx context.Context, task func()) error {
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

// Shutdown stops accepting tasks, runs whatever is already queued, and waits
// for the workers to exit. Safe to call more than once.
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		close(p.closeCh)
		p.wg.Wait()
	})
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case task := <-p.tasks:
			safeRun(task)
		case <-p.closeCh:
			for {
				select {
				case task := <-p.tasks:
					safeRun(task)
				default:
					return
				}
			}
		}
	}
}

func safeRun(task func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("workerpool: task panicked", "panic", fmt.Sprint(r))
		}
	}()
	task()
}

// Each calls fn(ctx, i) for every i in [0, n) on a pool of at most size
// workers and waits for all of them. It returns ctx.Err() when ctx ended
// before every call could be scheduled; calls already scheduled still finish.
// A call that panics is recovered and Each reports ErrTaskPanicked, so
// callers never read a result slot that was not filled.
func Each(ctx context.Context, size, n int, fn func(ctx context.Context, i int)) error {
	if n <= 0 {
		return nil
	}
	if size > n {
		size = n
	}

	pool := New(size)
	defer pool.Shutdown()

	var (
		wg       sync.WaitGroup
		panicked atomic.Int32
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		i := i
		if err := pool.SubmitWait(ctx, func() {
			finished := false
			defer func() {
				if !finished {
					panicked.Add(1)
				}
				wg.Done()
			}()
			fn(ctx, i)
			finished = true
		}); err != nil {
			wg.Done()
			wg.Wait()
			return err
		}
	}
	wg.Wait()
	if failed := panicked.Load(); failed > 0 {
		return fmt.Errorf("%w (%d of %d calls)", ErrTaskPanicked, failed, n)
	}
	return nil
}
