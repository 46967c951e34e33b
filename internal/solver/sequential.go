package solver

import "github.com/san-kum/orogen/internal/terrain"

// Surface is the solver-facing view of a terrain range: advance it one step,
// or measure how far it is from steady state.
type Surface interface {
	Advance(dt float64) float64
	Steepness() float64
}

// Sequential is the single-threaded reference implementation of Surface. It
// performs the same two-stage update and the same reduction as Stepper over
// the full domain in one goroutine, with no pools or barriers.
type Sequential struct {
	rng *terrain.Range
}

// NewSequential wraps a range and runs the same zero-length bootstrap step as
// NewStepper.
func NewSequential(rng *terrain.Range) *Sequential {
	s := &Sequential{rng: rng}
	s.Advance(0)
	return s
}

// Range returns the terrain range the solver advances.
func (s *Sequential) Range() *terrain.Range { return s.rng }

func (s *Sequential) Advance(dt float64) float64 {
	n := s.rng.CellCount()
	s.rng.ElevationSection(0, n, dt)
	s.rng.GrowthSection(0, n)
	s.rng.AdvanceClock(dt)
	return s.rng.Time()
}

func (s *Sequential) Steepness() float64 {
	n := s.rng.CellCount()
	return s.rng.DsSection(0, n) / float64(n)
}
