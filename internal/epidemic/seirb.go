package epidemic

import "github.com/san-kum/seirb/internal/dynamo"

// Compartment indexes the SEIR-B state vector.
type Compartment int

const (
	Susceptible Compartment = iota
	Exposed
	Infectious
	Recovered
	Bacteria
)

// NumCompartments is the state dimension.
const NumCompartments = 5

var compartmentNames = [NumCompartments]string{"Susceptible", "Exposed", "Infectious", "Recovered", "Bacteria"}

// Compartments lists every compartment in state order.
var Compartments = []Compartment{Susceptible, Exposed, Infectious, Recovered, Bacteria}

func (c Compartment) String() string {
	if c < 0 || int(c) >= NumCompartments {
		return "Unknown"
	}
	return compartmentNames[c]
}

// Symbol is the single-letter column name used in tables and exports.
func (c Compartment) Symbol() string {
	if c < 0 || int(c) >= NumCompartments {
		return "?"
	}
	return compartmentNames[c][:1]
}

// ForceOfInfection is the per-susceptible exposure rate beta*B/(k+B).
// It is exactly zero at B = 0.
func ForceOfInfection(beta, k, b float64) float64 {
	return beta * b / (k + b)
}

// SEIRB is the cholera model right-hand side. It is read-only after
// construction and safe to share between runs.
type SEIRB struct {
	p Params
}

func NewSEIRB(p Params) *SEIRB {
	return &SEIRB{p: p}
}

func (m *SEIRB) Params() Params { return m.p }

func (m *SEIRB) StateDim() int { return NumCompartments }

// Derive returns (dS, dE, dI, dR, dB). The model is autonomous.
func (m *SEIRB) Derive(x dynamo.State, _ float64) dynamo.State {
	p := &m.p
	s, e, i, r, b := x[Susceptible], x[Exposed], x[Infectious], x[Recovered], x[Bacteria]

	lambda := ForceOfInfection(p.Beta, p.K, b)

	return dynamo.State{
		p.Mu*p.N - lambda*s + p.Omega*r - p.Mu*s,
		lambda*s - (p.Sigma+p.Mu)*e,
		p.Sigma*e - (p.Gamma+p.Mu)*i,
		p.Gamma*i - (p.Omega+p.Mu)*r,
		p.Xi*i - p.MuB*b,
	}
}
