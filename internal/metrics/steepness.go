package metrics

import "math"

// MeanSteepness averages the magnitude of the steepness derivative over every
// observed step.
type MeanSteepness struct {
	name    string
	total   float64
	samples int
}

func NewMeanSteepness() *MeanSteepness {
	return &MeanSteepness{name: "mean_steepness"}
}

func (m *MeanSteepness) Name() string { return m.name }

func (m *MeanSteepness) Observe(steepness, t float64) {
	m.total += math.Abs(steepness)
	m.samples++
}

func (m *MeanSteepness) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *MeanSteepness) Reset() {
	m.total = 0
	m.samples = 0
}

// ConvergenceRate estimates the exponential decay rate of the steepness
// derivative: ln(|first|/|last|) divided by elapsed simulated time. Zero until
// two samples with nonzero steepness and distinct times have been seen.
type ConvergenceRate struct {
	name            string
	firstT, firstDs float64
	lastT, lastDs   float64
	samples         int
}

func NewConvergenceRate() *ConvergenceRate {
	return &ConvergenceRate{name: "convergence_rate"}
}

func (c *ConvergenceRate) Name() string { return c.name }

func (c *ConvergenceRate) Observe(steepness, t float64) {
	if c.samples == 0 {
		c.firstT, c.firstDs = t, steepness
	}
	c.lastT, c.lastDs = t, steepness
	c.samples++
}

func (c *ConvergenceRate) Value() float64 {
	if c.samples < 2 || c.lastT == c.firstT || c.firstDs == 0 || c.lastDs == 0 {
		return 0
	}
	return math.Log(math.Abs(c.firstDs)/math.Abs(c.lastDs)) / (c.lastT - c.firstT)
}

func (c *ConvergenceRate) Reset() {
	c.firstT, c.firstDs = 0, 0
	c.lastT, c.lastDs = 0, 0
	c.samples = 0
}
