// Package evo provides the generic population operators shared by every
// population-based optimiser: initialisation, cost evaluation, elite
// extraction, tournament selection, crossover, mutation and elitism
// re-insertion. Individuals are value-like and may be copied freely; the
// caller owns the population sequence.
package evo

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/ionbench/internal/bench"
)

// Individual is one candidate solution. X lives in input space. Cost is
// meaningless until Evaluated is set.
type Individual struct {
	X         bench.Input
	Cost      float64
	Evaluated bool
}

// Clone returns an independent copy; mutating the clone's X never alters the
// source.
func (ind Individual) Clone() Individual {
	return Individual{X: ind.X.Clone(), Cost: ind.Cost, Evaluated: ind.Evaluated}
}

// cost orders unevaluated individuals after everything else.
func (ind Individual) cost() float64 {
	if !ind.Evaluated {
		return math.Inf(1)
	}
	return ind.Cost
}

// Population is an ordered sequence of individuals.
type Population []Individual

// Initialize builds a population of the given size. With an empty x0 every
// individual is drawn via the benchmarker's sampler; otherwise each is x0
// perturbed by an independent uniform multiplicative factor in [0.5, 1.5]
// per axis in original space. Either way the result is clamped to bounds and
// left unevaluated.
func Initialize(bm *bench.Benchmarker, x0 bench.Input, size int, rng *rand.Rand) (Population, error) {
	pop := make(Population, size)
	for i := range pop {
		var x bench.Input
		if len(x0) == 0 {
			sampled, err := bm.Sample()
			if err != nil {
				return nil, fmt.Errorf("sampling individual %d: %w", i, err)
			}
			x = sampled
		} else {
			p, err := bm.ToOriginal(x0)
			if err != nil {
				return nil, fmt.Errorf("initial guess: %w", err)
			}
			for j := range p {
				p[j] *= 0.5 + rng.Float64()
			}
			x, err = bm.ToInput(p)
			if err != nil {
				return nil, fmt.Errorf("perturbing individual %d: %w", i, err)
			}
		}
		pop[i] = Individual{X: bm.Clamp(x)}
	}
	return pop, nil
}

// EvaluateAll fills in the cost of every individual that does not have one
// yet. Individuals with a known cost are left untouched.
func EvaluateAll(bm *bench.Benchmarker, pop Population) {
	for i := range pop {
		if pop[i].Evaluated {
			continue
		}
		pop[i].Cost = bm.Cost(pop[i].X)
		pop[i].Evaluated = true
	}
}

// Elites returns independent copies of the k lowest-cost individuals, ties
// broken by population order.
func Elites(pop Population, k int) []Individual {
	if k > len(pop) {
		k = len(pop)
	}
	order := make([]int, len(pop))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return pop[order[a]].cost() < pop[order[b]].cost()
	})
	elites := make([]Individual, k)
	for i := 0; i < k; i++ {
		elites[i] = pop[order[i]].Clone()
	}
	return elites
}

// ReplaceWorst overwrites the len(elites) worst-cost individuals with the
// saved elites. Run after a generation's costs are known, it guarantees the
// best cost in the population never regresses past the best elite.
func ReplaceWorst(pop Population, elites []Individual) {
	if len(elites) == 0 {
		return
	}
	order := make([]int, len(pop))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return pop[order[a]].cost() > pop[order[b]].cost()
	})
	n := len(elites)
	if n > len(pop) {
		n = len(pop)
	}
	for i := 0; i < n; i++ {
		pop[order[i]] = elites[i].Clone()
	}
}

// TournamentSelect builds a new population of the same size by two passes of
// pairwise tournaments: each pass draws a random permutation and copies the
// lower-cost individual of each adjacent pair.
func TournamentSelect(pop Population, rng *rand.Rand) Population {
	out := make(Population, 0, 2*(len(pop)/2))
	for pass := 0; pass < 2; pass++ {
		perm := rng.Perm(len(pop))
		for i := 0; i+1 < len(perm); i += 2 {
			winner := pop[perm[i]]
			if pop[perm[i+1]].cost() < winner.cost() {
				winner = pop[perm[i+1]]
			}
			out = append(out, winner.Clone())
		}
	}
	return out
}

// Best returns a copy of the lowest-cost individual, ties broken by
// population order.
func Best(pop Population) Individual {
	best := 0
	for i := 1; i < len(pop); i++ {
		if pop[i].cost() < pop[best].cost() {
			best = i
		}
	}
	return pop[best].Clone()
}

// MeanCost returns the mean cost across evaluated individuals.
func MeanCost(pop Population) float64 {
	costs := make([]float64, 0, len(pop))
	for _, ind := range pop {
		if ind.Evaluated {
			costs = append(costs, ind.Cost)
		}
	}
	if len(costs) == 0 {
		return math.Inf(1)
	}
	return stat.Mean(costs, nil)
}
