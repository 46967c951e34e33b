package metrics

import (
	"math"

	"github.com/san-kum/orogen/internal/terrain"
)

// PeakElevation tracks the highest cell seen across the whole run. It scans
// the live range on every observation, so it must only be observed between
// steps, never while an update iteration is in flight.
type PeakElevation struct {
	name string
	rng  *terrain.Range
	peak float64
}

func NewPeakElevation(rng *terrain.Range) *PeakElevation {
	return &PeakElevation{name: "peak_elevation", peak: math.Inf(-1), rng: rng}
}

func (p *PeakElevation) Name() string { return p.name }

func (p *PeakElevation) Observe(steepness, t float64) {
	for _, h := range p.rng.Elevation() {
		if h > p.peak {
			p.peak = h
		}
	}
}

func (p *PeakElevation) Value() float64 {
	if math.IsInf(p.peak, -1) {
		return 0
	}
	return p.peak
}

func (p *PeakElevation) Reset() { p.peak = math.Inf(-1) }
