package looppool

import "sync"

// signal is a counting wakeup counter: release adds permits, acquire blocks
// until one is available and consumes it. Releases never block and permits
// accumulate, so a release before the matching acquire pre-arms the wakeup.
type signal struct {
	mu    sync.Mutex
	cond  *sync.Cond
	count int
}

func newSignal() *signal {
	s := &signal{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *signal) release(n int) {
	s.mu.Lock()
	s.count += n
	s.mu.Unlock()
	s.cond.Broadcast()
}

func (s *signal) acquire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.count == 0 {
		s.cond.Wait()
	}
	s.count--
}
