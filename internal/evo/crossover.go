package evo

import (
	"math"
	"math/rand"

	"github.com/cwbudde/ionbench/internal/bench"
)

// CrossoverOperator recombines two parent vectors into two offspring.
// Implementations must not mutate the parents.
type CrossoverOperator interface {
	Cross(a, b []float64, rng *rand.Rand) ([]float64, []float64)
}

// Crossover pairs consecutive individuals and applies the operator to each
// pair, producing two offspring per pair with unset cost. An odd trailing
// individual is carried over unchanged.
func Crossover(pop Population, op CrossoverOperator, rng *rand.Rand) Population {
	out := make(Population, 0, len(pop))
	for i := 0; i+1 < len(pop); i += 2 {
		c1, c2 := op.Cross(pop[i].X, pop[i+1].X, rng)
		out = append(out, Individual{X: c1}, Individual{X: c2})
	}
	if len(pop)%2 == 1 {
		out = append(out, pop[len(pop)-1].Clone())
	}
	return out
}

// SBX is simulated binary crossover. Prob gates whether a pair is crossed at
// all; ProbVar gates each variable within a crossed pair. Offspring are
// clipped to [Lower, Upper] when bounds are provided.
type SBX struct {
	Eta     float64
	Prob    float64
	ProbVar float64
	Lower   []float64
	Upper   []float64
}

// Cross implements CrossoverOperator.
func (s SBX) Cross(a, b []float64, rng *rand.Rand) ([]float64, []float64) {
	c1 := append([]float64(nil), a...)
	c2 := append([]float64(nil), b...)
	if rng.Float64() > s.Prob {
		return c1, c2
	}
	for i := range a {
		if rng.Float64() > s.ProbVar {
			continue
		}
		u := rng.Float64()
		var beta float64
		if u <= 0.5 {
			beta = math.Pow(2*u, 1/(s.Eta+1))
		} else {
			beta = math.Pow(1/(2*(1-u)), 1/(s.Eta+1))
		}
		c1[i] = s.clip(0.5*((1+beta)*a[i]+(1-beta)*b[i]), i)
		c2[i] = s.clip(0.5*((1-beta)*a[i]+(1+beta)*b[i]), i)
	}
	return c1, c2
}

func (s SBX) clip(v float64, i int) float64 {
	if len(s.Lower) > 0 {
		v = math.Max(s.Lower[i], v)
	}
	if len(s.Upper) > 0 {
		v = math.Min(s.Upper[i], v)
	}
	return v
}

// SinglePoint swaps the tails of the two parents after a random cut point.
type SinglePoint struct{}

// Cross implements CrossoverOperator.
func (SinglePoint) Cross(a, b []float64, rng *rand.Rand) ([]float64, []float64) {
	c1 := append([]float64(nil), a...)
	c2 := append([]float64(nil), b...)
	if len(a) < 2 {
		return c1, c2
	}
	point := 1 + rng.Intn(len(a)-1)
	for i := point; i < len(a); i++ {
		c1[i], c2[i] = c2[i], c1[i]
	}
	return c1, c2
}

// NewSBX builds an SBX operator bounded to a benchmarker's input-space box,
// with the pairing and per-variable rates used by the genetic algorithm
// drivers.
func NewSBX(bm *bench.Benchmarker, eta float64) SBX {
	lo, hi := bm.InputBounds()
	return SBX{Eta: eta, Prob: 0.9, ProbVar: 0.5, Lower: lo, Upper: hi}
}
