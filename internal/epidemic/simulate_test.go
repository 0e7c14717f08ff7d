package epidemic_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/seirb/internal/dynamo"
	"github.com/san-kum/seirb/internal/epidemic"
	"github.com/san-kum/seirb/internal/integrators"
)

func peak(series []float64) (float64, int) {
	best, idx := math.Inf(-1), -1
	for i, v := range series {
		if v > best {
			best, idx = v, i
		}
	}
	return best, idx
}

func minimum(tr *epidemic.Trajectory) float64 {
	m := math.Inf(1)
	for _, c := range epidemic.Compartments {
		for _, v := range tr.Series(c) {
			m = math.Min(m, v)
		}
	}
	return m
}

func simulate(p epidemic.Params, days int) *epidemic.Trajectory {
	tr, err := epidemic.Simulate(context.Background(), p, epidemic.DailyGrid(days), epidemic.SimOptions{})
	Expect(err).NotTo(HaveOccurred())
	return tr
}

var _ = Describe("Simulate", func() {
	var defaults epidemic.Params

	BeforeEach(func() {
		defaults = epidemic.DefaultParams()
	})

	It("returns one aligned state per day", func() {
		tr := simulate(defaults, 365)

		Expect(tr.Len()).To(Equal(366))
		Expect(tr.Times[0]).To(Equal(0.0))
		Expect(tr.Times[365]).To(Equal(365.0))
		for _, c := range epidemic.Compartments {
			Expect(tr.Series(c)).To(HaveLen(366))
		}
	})

	DescribeTable("reproduces the initial state exactly",
		func(mutate func(*epidemic.Params)) {
			p := epidemic.DefaultParams()
			mutate(&p)
			tr := simulate(p, 30)
			Expect(tr.State(0)).To(Equal(p.InitialState()))
		},
		Entry("defaults", func(p *epidemic.Params) {}),
		Entry("large outbreak seed", func(p *epidemic.Params) { p.I0, p.B0 = 50, 500 }),
		Entry("fractional values", func(p *epidemic.Params) { p.N, p.I0, p.B0 = 1234.5, 0.3, 0.7 }),
	)

	DescribeTable("keeps compartments non-negative over long horizons",
		func(mutate func(*epidemic.Params), days int) {
			p := epidemic.DefaultParams()
			mutate(&p)
			tr := simulate(p, days)
			Expect(minimum(tr)).To(BeNumerically(">", -1e-6))
		},
		Entry("defaults, one year", func(p *epidemic.Params) {}, 365),
		Entry("defaults, two years", func(p *epidemic.Params) {}, 730),
		Entry("slow transmission", func(p *epidemic.Params) { p.Beta, p.K = 0.1, 50 }, 730),
		Entry("fast transmission", func(p *epidemic.Params) { p.Beta, p.K, p.Xi = 1.0, 1, 20 }, 365),
		Entry("fast recovery and decay", func(p *epidemic.Params) { p.Gamma, p.MuB, p.Sigma = 1.0, 1.0, 1.0 }, 730),
		Entry("slow recovery and decay", func(p *epidemic.Params) { p.Gamma, p.MuB, p.Sigma = 0.05, 0.1, 0.1 }, 730),
		Entry("fast waning", func(p *epidemic.Params) { p.Omega = 0.005 }, 730),
	)

	It("settles to a disease-free population of N without waning or turnover", func() {
		p := defaults
		p.Omega, p.Mu, p.E0 = 0, 0, 0

		tr := simulate(p, 3000)
		last := tr.Len() - 1

		Expect(tr.Population(last)).To(BeNumerically("~", p.N, 1e-3*p.N))
		Expect(tr.I[last]).To(BeNumerically("<", 1e-4))
		Expect(tr.B[last]).To(BeNumerically("<", 1e-3))
	})

	It("never starts an outbreak without infection or bacteria", func() {
		p := defaults
		p.I0, p.B0, p.E0 = 0, 0, 0

		tr := simulate(p, 730)
		for i := range tr.Times {
			Expect(tr.I[i]).To(BeZero())
			Expect(tr.B[i]).To(BeZero())
			Expect(tr.E[i]).To(BeZero())
			Expect(tr.S[i]).To(BeNumerically("~", p.N, 1e-9))
		}
	})

	It("lets the default single exposed person seed an outbreak", func() {
		p := defaults
		p.I0, p.B0 = 0, 0

		tr := simulate(p, 365)
		Expect(tr.Population(0)).To(Equal(p.N + p.E0))
		peakI, _ := peak(tr.I)
		peakB, _ := peak(tr.B)
		Expect(peakI).To(BeNumerically(">", 1))
		Expect(peakB).To(BeNumerically(">", 1))
	})

	It("raises the infectious peak with the transmission rate", func() {
		low, high := defaults, defaults
		low.Beta, high.Beta = 0.3, 0.9

		peakLow, _ := peak(simulate(low, 365).I)
		peakHigh, _ := peak(simulate(high, 365).I)

		Expect(peakHigh).To(BeNumerically(">", peakLow))
	})

	It("is deterministic", func() {
		a := simulate(defaults, 365)
		b := simulate(defaults, 365)

		for _, c := range epidemic.Compartments {
			Expect(a.Series(c)).To(Equal(b.Series(c)))
		}
	})

	It("produces a single outbreak wave in the reference scenario", func() {
		tr := simulate(defaults, 365)
		peakI, idx := peak(tr.I)

		Expect(peakI).To(BeNumerically(">", 5*defaults.I0))
		Expect(tr.Times[idx]).To(BeNumerically(">", 1))
		Expect(tr.Times[idx]).To(BeNumerically("<", 365))
		Expect(tr.I[365]).To(BeNumerically("<", peakI))
	})

	It("agrees with a finer tolerance to display precision", func() {
		coarse := simulate(defaults, 365)

		cfg := dynamo.DefaultConfig()
		cfg.Tolerance = dynamo.Tolerance{Abs: 1e-11, Rel: 1e-11}
		fine, err := epidemic.Simulate(context.Background(), defaults, epidemic.DailyGrid(365), epidemic.SimOptions{Config: &cfg})
		Expect(err).NotTo(HaveOccurred())

		for _, c := range epidemic.Compartments {
			for i, v := range coarse.Series(c) {
				want := fine.Series(c)[i]
				Expect(v).To(BeNumerically("~", want, 1e-6+1e-5*math.Abs(want)))
			}
		}
	})

	It("accepts a fixed-step integrator", func() {
		cfg := dynamo.DefaultConfig()
		cfg.MaxDt = 0.01
		tr, err := epidemic.Simulate(context.Background(), defaults, epidemic.DailyGrid(60), epidemic.SimOptions{
			Stepper: integrators.NewRK4(),
			Config:  &cfg,
		})
		Expect(err).NotTo(HaveOccurred())

		reference := simulate(defaults, 60)
		Expect(tr.I[60]).To(BeNumerically("~", reference.I[60], 1e-2*math.Max(1, reference.I[60])))
	})

	Context("with invalid parameters", func() {
		It("rejects k = 0 before integrating", func() {
			p := defaults
			p.K = 0
			tr, err := epidemic.Simulate(context.Background(), p, epidemic.DailyGrid(30), epidemic.SimOptions{})
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
			Expect(tr).To(BeNil())
		})

		It("rejects a non-positive population", func() {
			p := defaults
			p.N = -1
			_, err := epidemic.Simulate(context.Background(), p, epidemic.DailyGrid(30), epidemic.SimOptions{})
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("rejects more initial infections than people instead of diverging", func() {
			p := defaults
			p.N, p.I0 = 100, 500
			tr, err := epidemic.Simulate(context.Background(), p, epidemic.DailyGrid(30), epidemic.SimOptions{})
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
			Expect(err).NotTo(MatchError(dynamo.ErrStepTooSmall))
			Expect(tr).To(BeNil())
		})
	})

	It("surfaces numerical divergence without a partial trajectory", func() {
		p := defaults
		p.Xi, p.MuB = 1e200, 0

		tr, err := epidemic.Simulate(context.Background(), p, epidemic.DailyGrid(365), epidemic.SimOptions{})
		Expect(err).To(SatisfyAny(MatchError(dynamo.ErrUnstable), MatchError(dynamo.ErrStepTooSmall)))
		Expect(tr).To(BeNil())

		var simErr *dynamo.SimulationError
		Expect(err).To(BeAssignableToTypeOf(simErr))
	})

	It("honours a cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := epidemic.Simulate(ctx, defaults, epidemic.DailyGrid(365), epidemic.SimOptions{})
		Expect(err).To(MatchError(dynamo.ErrContextCanceled))
	})
})
