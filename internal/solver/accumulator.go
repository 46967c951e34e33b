package solver

import (
	"math"
	"sync/atomic"
)

// floatAccumulator is an atomic float64 cell supporting concurrent adds.
// Addition is commutative, so the accumulated value is independent of worker
// scheduling up to floating-point rounding; the exact bit pattern is not.
type floatAccumulator struct {
	bits atomic.Uint64
}

func (a *floatAccumulator) Store(v float64) {
	a.bits.Store(math.Float64bits(v))
}

func (a *floatAccumulator) Load() float64 {
	return math.Float64frombits(a.bits.Load())
}

func (a *floatAccumulator) Add(v float64) {
	for {
		old := a.bits.Load()
		next := math.Float64bits(math.Float64frombits(old) + v)
		if a.bits.CompareAndSwap(old, next) {
			return
		}
	}
}
