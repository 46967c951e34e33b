package solver

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/orogen/internal/terrain"
)

type recordingMetric struct {
	samples int
	last    float64
}

func (m *recordingMetric) Name() string { return "recording" }
func (m *recordingMetric) Observe(steepness, t float64) {
	m.samples++
	m.last = steepness
}
func (m *recordingMetric) Value() float64 { return m.last }
func (m *recordingMetric) Reset()         { m.samples, m.last = 0, 0 }

type recordingObserver struct {
	steps int
}

func (o *recordingObserver) OnStep(step int, t, steepness float64) { o.steps++ }

func TestDriverConverges(t *testing.T) {
	d := NewDriver(NewSequential(terrain.NewRidge(50, 0.5)))

	result, err := d.Run(context.Background(), Config{Dt: 0.01, Threshold: 1e-6, MaxSteps: 100000})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !result.Converged {
		t.Fatal("expected convergence")
	}
	if math.Abs(result.FinalSteepness) >= 1e-6 {
		t.Errorf("final steepness %g not below threshold", result.FinalSteepness)
	}
	if result.Steps == 0 {
		t.Error("expected at least one step")
	}
	if len(result.History) != result.Steps+1 {
		t.Errorf("history has %d samples for %d steps", len(result.History), result.Steps)
	}
	if math.Abs(result.FinalTime-float64(result.Steps)*0.01) > 1e-9 {
		t.Errorf("final time %g inconsistent with %d steps of 0.01", result.FinalTime, result.Steps)
	}
}

func TestDriverParallelConverges(t *testing.T) {
	s := NewStepper(terrain.NewRidge(50, 0.5), 4)
	defer s.Close()

	result, err := NewDriver(s).Run(context.Background(), Config{Dt: 0.01, Threshold: 1e-6, MaxSteps: 100000})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !result.Converged {
		t.Error("expected convergence with 4 workers")
	}
}

func TestDriverMaxSteps(t *testing.T) {
	d := NewDriver(NewSequential(terrain.NewRidge(50, 0.5)))

	result, err := d.Run(context.Background(), Config{Dt: 0.01, Threshold: 1e-300, MaxSteps: 10})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Converged {
		t.Error("should not converge below an unreachable threshold")
	}
	if result.Steps != 10 {
		t.Errorf("expected exactly 10 steps, got %d", result.Steps)
	}
}

func TestDriverInvalidConfig(t *testing.T) {
	d := NewDriver(NewSequential(terrain.NewFlat(10, 1.0)))

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Threshold: 1e-3, MaxSteps: 10}},
		{"negative dt", Config{Dt: -0.1, Threshold: 1e-3, MaxSteps: 10}},
		{"zero threshold", Config{Dt: 0.1, Threshold: 0, MaxSteps: 10}},
		{"negative max steps", Config{Dt: 0.1, Threshold: 1e-3, MaxSteps: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := d.Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestDriverCancellation(t *testing.T) {
	d := NewDriver(NewSequential(terrain.NewRidge(50, 0.5)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := d.Run(ctx, Config{Dt: 0.01, Threshold: 1e-300, MaxSteps: 1000000})
	if err == nil {
		t.Fatal("expected context error")
	}
	if result == nil {
		t.Fatal("expected partial result alongside the error")
	}
}

func TestDriverMetricsAndObservers(t *testing.T) {
	d := NewDriver(NewSequential(terrain.NewRidge(30, 0.5)))
	m := &recordingMetric{samples: 99}
	o := &recordingObserver{}
	d.AddMetric(m)
	d.AddObserver(o)

	result, err := d.Run(context.Background(), Config{Dt: 0.01, Threshold: 1e-300, MaxSteps: 5})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if m.samples != 6 {
		t.Errorf("metric observed %d samples, expected 6 (reset plus one per visit)", m.samples)
	}
	if o.steps != 6 {
		t.Errorf("observer saw %d steps, expected 6", o.steps)
	}
	if _, ok := result.Metrics["recording"]; !ok {
		t.Error("metric value missing from result")
	}
}
