package epidemic

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/san-kum/seirb/internal/dynamo"
)

const (
	// DefaultMu is the natural birth/death rate for a 70 year life expectancy.
	DefaultMu = 1.0 / (70 * 365)
	// DefaultOmega is the immunity waning rate for three years of protection.
	DefaultOmega = 1.0 / (3 * 365)
)

// Params is one immutable SEIR-B configuration. Rates are per day.
type Params struct {
	Beta  float64 `json:"beta" yaml:"beta" validate:"finite,gte=0"`
	K     float64 `json:"k" yaml:"k" validate:"finite,gt=0"`
	Sigma float64 `json:"sigma" yaml:"sigma" validate:"finite,gte=0"`
	Gamma float64 `json:"gamma" yaml:"gamma" validate:"finite,gte=0"`
	Xi    float64 `json:"xi" yaml:"xi" validate:"finite,gte=0"`
	MuB   float64 `json:"mu_b" yaml:"mu_b" validate:"finite,gte=0"`
	Mu    float64 `json:"mu" yaml:"mu" validate:"finite,gte=0"`
	Omega float64 `json:"omega" yaml:"omega" validate:"finite,gte=0"`
	N     float64 `json:"n" yaml:"n" validate:"finite,gt=0"`

	I0 float64 `json:"i0" yaml:"i0" validate:"finite,gte=0,ltefield=N"`
	B0 float64 `json:"b0" yaml:"b0" validate:"finite,gte=0"`
	E0 float64 `json:"e0" yaml:"e0" validate:"finite,gte=0"`
}

func DefaultParams() Params {
	return Params{
		Beta:  0.6,
		K:     10,
		Sigma: 0.5,
		Gamma: 0.2,
		Xi:    10,
		MuB:   0.3,
		Mu:    DefaultMu,
		Omega: DefaultOmega,
		N:     1000,
		I0:    1,
		B0:    1,
		E0:    1,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	return v
}

// Validate rejects configurations the model cannot be integrated with:
// non-finite values, k <= 0, N <= 0, negative rates or initial values and
// I0 > N, which would start with a negative susceptible count.
// The returned error wraps dynamo.ErrParameterBounds.
func (p Params) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", dynamo.ErrParameterBounds, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s=%v %s", fe.Field(), fe.Value(), describe(fe)))
	}
	return fmt.Errorf("%w: %s", dynamo.ErrParameterBounds, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "finite":
		return "must be finite"
	case "gt":
		return "must be > " + fe.Param()
	case "gte":
		return "must be >= " + fe.Param()
	case "ltefield":
		return "must not exceed the population n"
	default:
		return "fails " + fe.Tag()
	}
}

// InitialState builds (S, E, I, R, B) at day 0: S = N - I0, E = E0, R = 0.
// E0 is not drawn from N, so the living population starts at N + E0. With
// the default E0 = 1 an outbreak starts even when I0 = B0 = 0; a
// disease-free start needs E0 = 0 as well.
func (p Params) InitialState() dynamo.State {
	return dynamo.State{p.N - p.I0, p.E0, p.I0, 0, p.B0}
}

// ReproductionNumber is the basic reproduction number at the disease-free
// equilibrium (S = N, B = 0): infections per bacterium (beta*N/k) times
// bacteria shed per infectious lifetime (xi/muB), weighted by the chance of
// surviving incubation and the infectious period.
func (p Params) ReproductionNumber() float64 {
	if p.K <= 0 || p.MuB <= 0 || p.Gamma+p.Mu <= 0 || p.Sigma+p.Mu <= 0 {
		return math.Inf(1)
	}
	return (p.Beta * p.N / p.K) * (p.Xi / p.MuB) * (p.Sigma / (p.Sigma + p.Mu)) / (p.Gamma + p.Mu)
}

// ParamNames lists the names accepted by [Params.With].
var ParamNames = []string{"beta", "k", "sigma", "gamma", "xi", "mu_b", "mu", "omega", "n", "i0", "b0", "e0"}

// With returns a copy of p with the named parameter replaced.
func (p Params) With(name string, value float64) (Params, error) {
	switch name {
	case "beta":
		p.Beta = value
	case "k":
		p.K = value
	case "sigma":
		p.Sigma = value
	case "gamma":
		p.Gamma = value
	case "xi":
		p.Xi = value
	case "mu_b":
		p.MuB = value
	case "mu":
		p.Mu = value
	case "omega":
		p.Omega = value
	case "n":
		p.N = value
	case "i0":
		p.I0 = value
	case "b0":
		p.B0 = value
	case "e0":
		p.E0 = value
	default:
		return p, fmt.Errorf("unknown parameter: %s", name)
	}
	return p, nil
}

// Get is the inverse of [Params.With].
func (p Params) Get(name string) (float64, error) {
	switch name {
	case "beta":
		return p.Beta, nil
	case "k":
		return p.K, nil
	case "sigma":
		return p.Sigma, nil
	case "gamma":
		return p.Gamma, nil
	case "xi":
		return p.Xi, nil
	case "mu_b":
		return p.MuB, nil
	case "mu":
		return p.Mu, nil
	case "omega":
		return p.Omega, nil
	case "n":
		return p.N, nil
	case "i0":
		return p.I0, nil
	case "b0":
		return p.B0, nil
	case "e0":
		return p.E0, nil
	}
	return 0, fmt.Errorf("unknown parameter: %s", name)
}
