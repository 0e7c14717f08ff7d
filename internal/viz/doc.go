// Package viz provides the terminal views of SEIR-B simulations.
//
// The interactive view is a Bubble Tea program with one slider per
// tunable parameter. Every change re-runs the whole simulation and
// redraws the five compartments:
//
//   - [Model]: the slider application
//   - [PlotTrajectory]: multi-series ASCII chart shared with the CLI
//   - Theme selection with built-in color schemes
//
// # Key Bindings
//
//	j/k   - Select slider
//	h/l   - Decrease/increase by one step (H/L for ten)
//	p     - Cycle presets
//	r     - Reset to the starting scenario
//	t     - Cycle color themes
//	q     - Quit
package viz
