package solver

import (
	"github.com/san-kum/orogen/internal/looppool"
	"github.com/san-kum/orogen/internal/terrain"
)

// Stepper advances a terrain range in parallel across a fixed set of
// persistent workers. It owns two coordinated pools: a reduction pool for the
// steepness aggregate and an update pool for the two-stage elevation/growth
// step. Each pool carries its own rendezvous barrier, reused across every
// iteration; the barriers supply the ordering the pool handshake alone does
// not, including publication of the per-iteration time step and of the
// fully-updated elevation field. Both public operations are synchronous.
//
// A Stepper must be torn down with Close, and must not be used after.
type Stepper struct {
	rng     *terrain.Range
	workers int

	reducePool    *looppool.Pool[int]
	updatePool    *looppool.Pool[int]
	reduceBarrier *looppool.Barrier
	updateBarrier *looppool.Barrier

	ds floatAccumulator

	// iterDt is the time step for the in-flight update iteration. Written by
	// the caller before triggering, read by every update worker after the
	// first barrier rendezvous; that rendezvous is its publication fence, so
	// it needs no atomic of its own.
	iterDt float64
}

// NewStepper builds the worker pools for the given range and worker count and
// runs one zero-length bootstrap step so the growth field reflects the initial
// elevation before any caller-visible query. Worker counts below 1 are raised
// to 1.
func NewStepper(rng *terrain.Range, workers int) *Stepper {
	if workers < 1 {
		workers = 1
	}
	s := &Stepper{
		rng:           rng,
		workers:       workers,
		reduceBarrier: looppool.NewBarrier(workers),
		updateBarrier: looppool.NewBarrier(workers),
	}

	ids := make([]int, workers)
	for i := range ids {
		ids[i] = i
	}
	s.reducePool = looppool.New(s.reduceWorker, ids)
	s.updatePool = looppool.New(s.updateWorker, ids)

	s.Advance(0)
	return s
}

// reduceWorker is one reduction iteration for worker id. The opening
// rendezvous orders the caller's accumulator reset before any contribution;
// the closing one keeps a fast worker from reporting completion, and looping
// into the next iteration's barrier phase, while a slow one is still adding.
func (s *Stepper) reduceWorker(id int) {
	s.reduceBarrier.Wait()
	first, last := terrain.Partition(s.rng.CellCount(), id, s.workers)
	s.ds.Add(s.rng.DsSection(first, last))
	s.reduceBarrier.Wait()
}

// updateWorker is one update iteration for worker id. The opening rendezvous
// publishes iterDt; the middle one holds back every growth update until the
// whole elevation field is written, since growth at a section edge reads a
// neighbor cell owned by another worker; the closing one keeps the reusable
// barrier phase-aligned across iterations.
func (s *Stepper) updateWorker(id int) {
	first, last := terrain.Partition(s.rng.CellCount(), id, s.workers)
	s.updateBarrier.Wait()
	s.rng.ElevationSection(first, last, s.iterDt)
	s.updateBarrier.Wait()
	s.rng.GrowthSection(first, last)
	s.updateBarrier.Wait()
}

// Workers reports the per-pool worker count.
func (s *Stepper) Workers() int { return s.workers }

// Range returns the terrain range the stepper advances.
func (s *Stepper) Range() *terrain.Range { return s.rng }

// Steepness runs one parallel reduction and returns the mean per-cell
// steepness derivative over the whole domain. It recomputes from scratch on
// every call.
func (s *Stepper) Steepness() float64 {
	s.ds.Store(0)
	s.reducePool.TriggerSync()
	return s.ds.Load() / float64(s.rng.CellCount())
}

// Advance runs one parallel update step of size dt, advances the simulation
// clock by exactly dt, and returns the new clock value.
func (s *Stepper) Advance(dt float64) float64 {
	s.iterDt = dt
	s.updatePool.TriggerSync()
	s.rng.AdvanceClock(dt)
	return s.rng.Time()
}

// Close stops and joins all workers in both pools.
func (s *Stepper) Close() {
	s.reducePool.Close()
	s.updatePool.Close()
}
