package looppool

import "sync"

// Barrier is a reusable rendezvous point for a fixed number of parties. Wait
// blocks until all parties have arrived, then releases them together and
// resets for the next round. A single Barrier can be reused across unboundedly
// many rounds, provided every party arrives the same number of times per
// round: an uneven arrival count leaves the phase misaligned and every later
// round deadlocks.
type Barrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	parties int
	count   int
	phase   uint64
}

func NewBarrier(parties int) *Barrier {
	if parties <= 0 {
		panic("looppool: barrier parties must be > 0")
	}
	b := &Barrier{parties: parties}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Parties reports the number of participants the barrier was built for.
func (b *Barrier) Parties() int { return b.parties }

// Wait blocks until all parties have arrived at the current phase. The last
// arrival advances the phase and wakes the rest; the phase counter keeps a
// late riser from one round from being confused with an arrival in the next.
func (b *Barrier) Wait() {
	b.mu.Lock()
	defer b.mu.Unlock()

	phase := b.phase
	b.count++
	if b.count == b.parties {
		b.count = 0
		b.phase++
		b.cond.Broadcast()
		return
	}
	for phase == b.phase {
		b.cond.Wait()
	}
}
