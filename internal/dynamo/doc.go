// Package dynamo provides core simulation primitives for ordinary
// differential equation systems.
//
// The package defines the fundamental interfaces and types shared by the
// models, steppers and the simulator:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Stepper]: fixed-step numerical integrator
//   - [AdaptiveStepper]: integrator with an embedded error estimate
//   - [Metric] and [Observer]: hooks called at every reported grid point
//
// # Example
//
//	dyn := epidemic.NewSEIRB(params)
//	s := sim.New(dyn, integrators.NewRK45())
//	result, err := s.Run(ctx, x0, dynamo.UniformGrid(0, 365, 365), dynamo.DefaultConfig())
//
// # Thread Safety
//
// States are plain slices and Steppers may keep scratch buffers, so a
// Stepper must not be shared between goroutines. Systems are expected to be
// read-only during a run.
package dynamo
