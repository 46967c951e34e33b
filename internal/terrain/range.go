package terrain

// Range holds the 1D state of a simulated mountain range: a fixed uplift rate
// per cell, the current elevation, and the growth rate derived from it. The
// growth rate combines uplift, cubic erosion, and diffusion of elevation into
// neighboring cells. The simulation clock advances only through AdvanceClock,
// driven by whichever solver owns the range.
type Range struct {
	uplift    []float64
	elevation []float64
	growth    []float64
	t         float64
}

// New builds a range from uplift and elevation profiles of equal length. Both
// slices are copied. The growth field starts zeroed; it is populated by the
// owning solver's bootstrap step, not here, so a Range is only consistent once
// a solver has been built over it.
func New(uplift, elevation []float64) *Range {
	if len(uplift) != len(elevation) {
		panic("terrain: uplift and elevation lengths differ")
	}
	return &Range{
		uplift:    append([]float64(nil), uplift...),
		elevation: append([]float64(nil), elevation...),
		growth:    make([]float64, len(uplift)),
	}
}

// NewFlat builds a range of the given cell count with uniform uplift and zero
// initial elevation.
func NewFlat(cells int, uplift float64) *Range {
	u := make([]float64, cells)
	for i := range u {
		u[i] = uplift
	}
	return New(u, make([]float64, cells))
}

// NewPlateau builds a range whose middle half uplifts at the given rate and
// whose flanks do not, producing a single growing ridge.
func NewPlateau(cells int, uplift float64) *Range {
	u := make([]float64, cells)
	for i := cells / 4; i < 3*cells/4; i++ {
		u[i] = uplift
	}
	return New(u, make([]float64, cells))
}

// NewRidge builds a range with uniform unit uplift and a triangular initial
// elevation peaking at the given amplitude in the middle.
func NewRidge(cells int, amplitude float64) *Range {
	if cells < 3 {
		cells = 3
	}
	u := make([]float64, cells)
	h := make([]float64, cells)
	mid := cells / 2
	for i := range h {
		u[i] = 1.0
		if i <= mid {
			h[i] = amplitude * float64(i) / float64(mid)
		} else {
			h[i] = amplitude * float64(cells-1-i) / float64(cells-1-mid)
		}
	}
	return New(u, h)
}

func (r *Range) CellCount() int       { return len(r.elevation) }
func (r *Range) Time() float64        { return r.t }
func (r *Range) Uplift() []float64    { return r.uplift }
func (r *Range) Elevation() []float64 { return r.elevation }
func (r *Range) Growth() []float64    { return r.growth }

// AdvanceClock moves the simulation clock forward by dt. Only the thread
// orchestrating updates may call it.
func (r *Range) AdvanceClock(dt float64) { r.t += dt }

// clamp returns i limited to the valid cell index range.
func (r *Range) clamp(i int) int {
	if i < 0 {
		return 0
	}
	if n := len(r.elevation) - 1; i > n {
		return n
	}
	return i
}

// GrowthSection recomputes the growth rate over [first,last) from the current
// elevation: uplift minus cubic erosion plus the discrete Laplacian of
// elevation. Cells outside the section may be read (neighbor elevations) but
// only cells inside it are written.
func (r *Range) GrowthSection(first, last int) {
	h := r.elevation
	for i := first; i < last; i++ {
		left, right := h[r.clamp(i-1)], h[r.clamp(i+1)]
		r.growth[i] = r.uplift[i] - h[i]*h[i]*h[i] + (left - 2*h[i] + right)
	}
}

// ElevationSection advances the elevation over [first,last) by one explicit
// Euler step of size dt using the current growth rate.
func (r *Range) ElevationSection(first, last int, dt float64) {
	for i := first; i < last; i++ {
		r.elevation[i] += dt * r.growth[i]
	}
}

// DsSection returns the partial sum over [first,last) of the per-cell
// steepness derivative, the rate at which the squared slope at each cell is
// changing. It tends to zero as the range approaches steady state.
func (r *Range) DsSection(first, last int) float64 {
	h, g := r.elevation, r.growth
	sum := 0.0
	for i := first; i < last; i++ {
		left, right := r.clamp(i-1), r.clamp(i+1)
		sum += (h[right] - h[left]) * (g[right] - g[left]) / 2
	}
	return sum
}
