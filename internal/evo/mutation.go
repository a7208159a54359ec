package evo

import (
	"math"
	"math/rand"

	"github.com/cwbudde/ionbench/internal/bench"
)

// MutationOperator perturbs a vector in place.
type MutationOperator interface {
	Mutate(x []float64, rng *rand.Rand)
}

// Mutate applies the operator to every individual and marks their costs as
// unset. The evaluator's cache keeps re-scoring untouched survivors cheap.
func Mutate(pop Population, op MutationOperator, rng *rand.Rand) {
	for i := range pop {
		op.Mutate(pop[i].X, rng)
		pop[i].Cost = 0
		pop[i].Evaluated = false
	}
}

// Polynomial is polynomial mutation. Prob gates whether an individual is
// mutated at all; ProbVar gates each variable. The perturbation span per
// axis is the bound width when finite, otherwise max(1, |x|).
type Polynomial struct {
	Eta     float64
	Prob    float64
	ProbVar float64
	Lower   []float64
	Upper   []float64
}

// Mutate implements MutationOperator.
func (m Polynomial) Mutate(x []float64, rng *rand.Rand) {
	if rng.Float64() > m.Prob {
		return
	}
	for i := range x {
		if rng.Float64() > m.ProbVar {
			continue
		}
		span := math.Max(1, math.Abs(x[i]))
		if len(m.Lower) > 0 && !math.IsInf(m.Lower[i], 0) && !math.IsInf(m.Upper[i], 0) {
			span = m.Upper[i] - m.Lower[i]
		}
		u := rng.Float64()
		var delta float64
		if u < 0.5 {
			delta = math.Pow(2*u, 1/(m.Eta+1)) - 1
		} else {
			delta = 1 - math.Pow(2*(1-u), 1/(m.Eta+1))
		}
		v := x[i] + delta*span
		if len(m.Lower) > 0 {
			v = math.Max(m.Lower[i], math.Min(m.Upper[i], v))
		}
		x[i] = v
	}
}

// NewPolynomial builds a polynomial mutation operator bounded to a
// benchmarker's input-space box.
func NewPolynomial(bm *bench.Benchmarker, eta float64) Polynomial {
	lo, hi := bm.InputBounds()
	return Polynomial{Eta: eta, Prob: 1, ProbVar: 0.1, Lower: lo, Upper: hi}
}
