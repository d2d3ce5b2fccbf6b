// Package parallel splits per-pixel image work into horizontal row bands and
// runs them on a shared pool of goroutines.
//
// Every retouch operation computes each output pixel from an immutable source
// buffer only, so bands never share mutable state and the result is identical
// to a serial run.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool is a fixed set of goroutines that help run indexed work.
//
// Run publishes a job and the calling goroutine works on it alongside any
// idle workers; every participant claims the next unclaimed index until
// none remain. Bands of uneven cost therefore balance themselves, and a
// band may call Run on the same pool without deadlocking.
//
// WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int
	jobs    chan *job
	quit    chan struct{}
	wg      sync.WaitGroup
	closed  atomic.Bool
}

// job is one Run call shared between the caller and its helpers.
type job struct {
	n    int
	fn   func(i int)
	next atomic.Int64
	done sync.WaitGroup
}

// work claims indices until the job is exhausted.
func (j *job) work() {
	for {
		i := int(j.next.Add(1) - 1)
		if i >= j.n {
			return
		}
		j.fn(i)
		j.done.Done()
	}
}

// NewWorkerPool starts a pool of workers goroutines. If workers is 0 or
// negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &WorkerPool{
		workers: workers,
		jobs:    make(chan *job, workers),
		quit:    make(chan struct{}),
	}
	p.wg.Add(workers)
	for range workers {
		go p.loop()
	}
	return p
}

func (p *WorkerPool) loop() {
	defer p.wg.Done()
	for {
		select {
		case <-p.quit:
			return
		case j := <-p.jobs:
			j.work()
		}
	}
}

// Run calls fn(i) for every i in [0, n) and returns when all calls have
// finished. The caller always participates, so Run completes even when
// every worker is busy or the pool is closed.
func (p *WorkerPool) Run(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	j := &job{n: n, fn: fn}
	j.done.Add(n)

	if !p.closed.Load() {
		helpers := min(p.workers, n-1)
	offer:
		for range helpers {
			select {
			case p.jobs <- j:
			default:
				break offer
			}
		}
	}

	j.work()
	j.done.Wait()
}

// Close stops the workers. Jobs already handed out are finished by their
// callers. Close is safe to call more than once.
func (p *WorkerPool) Close() {
	if !p.closed.CompareAndSwap(false, true) {
		return
	}
	close(p.quit)
	p.wg.Wait()
}

// Workers returns the number of worker goroutines.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still has workers.
func (p *WorkerPool) IsRunning() bool {
	return !p.closed.Load()
}
