// Package analysis derives summary quantities from simulated SEIR-B
// trajectories.
//
//   - [Summarize]: outbreak peak, final state, most negative value and R0
//   - [SteadyState]: detects whether a trajectory has settled
//   - [RecurrencePeriod]: dominant period of recurring outbreaks via FFT
//   - [PhasePortrait]: a two-compartment projection rendered as ASCII
//
// # Recurrence
//
// With waning immunity and demographic turnover the infectious curve can
// oscillate around an endemic equilibrium:
//
//	period := analysis.RecurrencePeriod(tr.I[burnIn:], 1.0)
//	if period > 0 {
//	    // outbreaks recur roughly every period days
//	}
package analysis
