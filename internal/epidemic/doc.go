// Package epidemic implements the SEIR-B cholera transmission model: a
// Susceptible-Exposed-Infectious-Recovered population coupled to an
// environmental Bacteria reservoir.
//
// The state vector is ordered (S, E, I, R, B); see [Compartment]. The
// model is autonomous, so [SEIRB.Derive] ignores its time argument.
//
// Force of infection saturates in the bacterial concentration:
//
//	lambda(B) = beta * B / (k + B)
//
// It approaches beta as B grows and is roughly (beta/k)*B for B much
// smaller than k.
//
// # Negative transients
//
// The continuous model keeps every compartment non-negative, but a
// numerical solution may dip slightly below zero in stiff regimes. Such
// values are reported as computed and never clamped, since clamping would
// break the population balance S+E+I+R used to validate runs.
package epidemic
