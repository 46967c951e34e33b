package solver_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orogen/internal/solver"
	"github.com/san-kum/orogen/internal/terrain"
)

const specTimeout = 10 * time.Second

var _ = Describe("Stepper", func() {
	newRange := func() *terrain.Range { return terrain.NewRidge(100, 0.5) }

	Describe("construction", func() {
		It("bootstraps the growth field without advancing time", func() {
			want := newRange()
			want.GrowthSection(0, want.CellCount())

			s := solver.NewStepper(newRange(), 4)
			defer s.Close()

			Expect(s.Range().Time()).To(BeZero())
			Expect(s.Range().Growth()).To(Equal(want.Growth()))
		})

		It("raises worker counts below one to one", func() {
			s := solver.NewStepper(newRange(), -2)
			defer s.Close()
			Expect(s.Workers()).To(Equal(1))
		})
	})

	Describe("Advance", func() {
		It("advances the clock by exactly the sum of the time steps", func() {
			s := solver.NewStepper(newRange(), 3)
			defer s.Close()

			var t float64
			for i := 0; i < 3; i++ {
				t = s.Advance(0.1)
			}
			Expect(t).To(BeNumerically("~", 0.3, 1e-12))
		})

		It("produces the same elevation as the sequential solver", func() {
			seq := solver.NewSequential(newRange())
			par := solver.NewStepper(newRange(), 5)
			defer par.Close()

			for i := 0; i < 10; i++ {
				seq.Advance(0.05)
				par.Advance(0.05)
			}
			Expect(par.Range().Elevation()).To(Equal(seq.Range().Elevation()))
		})
	})

	Describe("Steepness", func() {
		It("matches the sequential reduction up to rounding", func() {
			seq := solver.NewSequential(newRange())
			par := solver.NewStepper(newRange(), 4)
			defer par.Close()

			Expect(par.Steepness()).To(BeNumerically("~", seq.Steepness(), 1e-9))
		})

		It("is stable across repeated calls on unchanged state", func() {
			// One worker: a single contribution, so the result is bit-exact.
			s := solver.NewStepper(newRange(), 1)
			defer s.Close()

			first := s.Steepness()
			Expect(s.Steepness()).To(Equal(first))
		})

		It("shrinks toward zero as the range approaches steady state", func() {
			s := solver.NewStepper(newRange(), 2)
			defer s.Close()

			early := math.Abs(s.Steepness())
			for i := 0; i < 2000; i++ {
				s.Advance(0.01)
			}
			late := math.Abs(s.Steepness())
			Expect(late).To(BeNumerically("<", early))
		})
	})

	Describe("Close", func() {
		It("joins all workers even when only the bootstrap ran", func(ctx SpecContext) {
			s := solver.NewStepper(newRange(), 8)
			s.Close()
		}, SpecTimeout(specTimeout))
	})
})
