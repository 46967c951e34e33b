package looppool

import (
	"sync"
	"sync/atomic"
)

// Pool runs one function repeatedly over a fixed set of arguments, one
// persistent goroutine per argument. Each Trigger launches a single iteration
// across every worker; Sync blocks until that iteration has completed
// everywhere. Workers are created once at construction and live until Close.
//
// A Pool must not be copied after construction: workers hold a pointer to it.
type Pool[T any] struct {
	fn      func(T)
	size    int
	start   *signal
	finish  *signal
	synced  bool
	stopped atomic.Bool
	wg      sync.WaitGroup
}

// New spawns one worker per argument. Each worker loops: wait for a start
// permit, exit if the pool is closing, run fn with its bound argument, then
// post one finish permit.
func New[T any](fn func(T), args []T) *Pool[T] {
	p := &Pool[T]{
		fn:     fn,
		size:   len(args),
		start:  newSignal(),
		finish: newSignal(),
		synced: true,
	}
	p.wg.Add(len(args))
	for _, arg := range args {
		go p.work(arg)
	}
	return p
}

func (p *Pool[T]) work(arg T) {
	defer p.wg.Done()
	for {
		p.start.acquire()
		if p.stopped.Load() {
			return
		}
		p.fn(arg)
		p.finish.release(1)
	}
}

// Size reports the worker count, fixed for the pool's lifetime.
func (p *Pool[T]) Size() int { return p.size }

// Trigger launches one iteration asynchronously, releasing one start permit
// per worker. Calling Trigger again before Sync over-supplies permits and
// leaves the pairing of iterations to workers undefined.
func (p *Pool[T]) Trigger() {
	p.start.release(p.size)
	p.synced = false
}

// Sync blocks until every worker has completed the triggered iteration,
// consuming one finish permit per worker. If no iteration is outstanding it
// returns immediately.
func (p *Pool[T]) Sync() {
	if p.synced {
		return
	}
	for i := 0; i < p.size; i++ {
		p.finish.acquire()
	}
	p.synced = true
}

// TriggerSync launches one iteration and waits for it to complete.
func (p *Pool[T]) TriggerSync() {
	p.Trigger()
	p.Sync()
}

// Close asks every worker to stop and joins them. The extra unmatched Trigger
// wakes workers parked on the start signal so they can observe the stop flag;
// stopping workers skip the finish permit, so Close never calls Sync. An
// iteration already running is allowed to finish; only the next one is
// suppressed. Close must be called exactly once.
func (p *Pool[T]) Close() {
	p.stopped.Store(true)
	p.Trigger()
	p.wg.Wait()
}
