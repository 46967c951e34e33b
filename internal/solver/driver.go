package solver

import (
	"context"
	"fmt"
	"math"
)

// Metric accumulates a summary statistic over the course of a solve.
type Metric interface {
	Name() string
	Observe(steepness, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every step of a solve.
type Observer interface {
	OnStep(step int, t, steepness float64)
}

type Config struct {
	Dt        float64
	Threshold float64
	MaxSteps  int
}

type Sample struct {
	Time      float64
	Steepness float64
}

type Result struct {
	Steps          int
	FinalTime      float64
	FinalSteepness float64
	Converged      bool
	History        []Sample
	Metrics        map[string]float64
}

// Driver runs a Surface to steady state, feeding metrics and observers along
// the way.
type Driver struct {
	surface   Surface
	metrics   []Metric
	observers []Observer
}

func NewDriver(surface Surface) *Driver {
	return &Driver{surface: surface}
}

func (d *Driver) AddMetric(m Metric)     { d.metrics = append(d.metrics, m) }
func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }

// Run advances the surface with fixed steps of cfg.Dt until the mean steepness
// derivative falls below cfg.Threshold in magnitude, cfg.MaxSteps is reached,
// or ctx is canceled. The partial result is returned alongside ctx errors.
func (d *Driver) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := d.validate(cfg); err != nil {
		return nil, err
	}

	for _, m := range d.metrics {
		m.Reset()
	}

	histCap := cfg.MaxSteps + 1
	if histCap > 4096 {
		histCap = 4096
	}
	result := &Result{
		History: make([]Sample, 0, histCap),
		Metrics: make(map[string]float64),
	}

	t := 0.0
	for step := 0; ; step++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		ds := d.surface.Steepness()
		result.History = append(result.History, Sample{Time: t, Steepness: ds})
		result.FinalSteepness = ds

		for _, m := range d.metrics {
			m.Observe(ds, t)
		}
		for _, o := range d.observers {
			o.OnStep(step, t, ds)
		}

		if math.Abs(ds) < cfg.Threshold {
			result.Converged = true
			break
		}
		if step >= cfg.MaxSteps {
			break
		}

		t = d.surface.Advance(cfg.Dt)
		result.Steps++
	}

	result.FinalTime = t
	for _, m := range d.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

func (d *Driver) validate(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Threshold <= 0 {
		return fmt.Errorf("threshold must be positive, got %f", cfg.Threshold)
	}
	if cfg.MaxSteps < 0 {
		return fmt.Errorf("max steps must be non-negative, got %d", cfg.MaxSteps)
	}
	return nil
}
