package evo

import (
	"math"
	"math/rand"
	"testing"

	"github.com/cwbudde/ionbench/internal/bench"
)

// sphereSim models trace[k] = p[0]^2 + p[1]^2 for every time point, so the
// cost is minimised at the origin.
var sphereSim = bench.SimulatorFunc(func(p bench.Original, times []float64) ([]float64, error) {
	v := p[0]*p[0] + p[1]*p[1]
	out := make([]float64, len(times))
	for i := range out {
		out[i] = v
	}
	return out, nil
})

func sphereBenchmarker(t *testing.T) *bench.Benchmarker {
	t.Helper()
	cfg := bench.Config{
		Name:          "test.sphere",
		DefaultParams: []float64{1.0, 1.0},
		Lower:         []float64{-5, -5},
		Upper:         []float64{5, 5},
		CostThreshold: 1e-3,
		Times:         []float64{0, 1},
		Data:          []float64{0, 0},
	}
	bm, err := bench.New(cfg, sphereSim, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return bm
}

func evaluatedPop(costs ...float64) Population {
	pop := make(Population, len(costs))
	for i, c := range costs {
		pop[i] = Individual{X: bench.Input{float64(i)}, Cost: c, Evaluated: true}
	}
	return pop
}

func TestElites(t *testing.T) {
	pop := evaluatedPop(5, 3, 8, 1)
	elites := Elites(pop, 1)
	if len(elites) != 1 {
		t.Fatalf("len(elites) = %d, want 1", len(elites))
	}
	if elites[0].Cost != 1 {
		t.Errorf("elite cost = %g, want 1", elites[0].Cost)
	}

	elites = Elites(pop, 2)
	if elites[0].Cost != 1 || elites[1].Cost != 3 {
		t.Errorf("elite costs = [%g %g], want [1 3]", elites[0].Cost, elites[1].Cost)
	}
}

func TestElitesCopies(t *testing.T) {
	pop := evaluatedPop(2, 1)
	elites := Elites(pop, 1)
	elites[0].X[0] = 99
	if pop[1].X[0] == 99 {
		t.Error("elite shares storage with the population")
	}
}

func TestElitesStableTies(t *testing.T) {
	pop := Population{
		{X: bench.Input{0}, Cost: 1, Evaluated: true},
		{X: bench.Input{1}, Cost: 1, Evaluated: true},
	}
	elites := Elites(pop, 1)
	if elites[0].X[0] != 0 {
		t.Error("tie should be broken by population order")
	}
}

func TestElitesUnevaluatedLast(t *testing.T) {
	pop := Population{
		{X: bench.Input{0}, Evaluated: false},
		{X: bench.Input{1}, Cost: 7, Evaluated: true},
	}
	elites := Elites(pop, 1)
	if elites[0].Cost != 7 {
		t.Error("unevaluated individual ranked ahead of an evaluated one")
	}
}

func TestReplaceWorstPreservesBest(t *testing.T) {
	pop := evaluatedPop(5, 3, 8, 1)
	elites := Elites(pop, 1)

	// The whole next generation turned out terrible.
	for i := range pop {
		pop[i].Cost = 9
	}
	ReplaceWorst(pop, elites)

	if best := Best(pop); best.Cost != 1 {
		t.Errorf("best cost after elitism = %g, want 1", best.Cost)
	}
	if len(pop) != 4 {
		t.Errorf("population size changed: %d", len(pop))
	}
}

func TestReplaceWorstEmpty(t *testing.T) {
	pop := evaluatedPop(2, 1)
	ReplaceWorst(pop, nil)
	if pop[0].Cost != 2 || pop[1].Cost != 1 {
		t.Error("ReplaceWorst with no elites must leave the population alone")
	}
}

func TestTournamentSelect(t *testing.T) {
	pop := evaluatedPop(5, 3, 8, 1)
	rng := rand.New(rand.NewSource(11))

	selected := TournamentSelect(pop, rng)
	if len(selected) != len(pop) {
		t.Fatalf("selected size = %d, want %d", len(selected), len(pop))
	}

	// With four distinct costs, each pass pairs the best individual exactly
	// once and it always wins its pair, so it appears exactly twice.
	bestSeen := 0
	for _, ind := range selected {
		if ind.Cost == 1 {
			bestSeen++
		}
		if !ind.Evaluated {
			t.Error("tournament winners should keep their cost")
		}
	}
	if bestSeen != 2 {
		t.Errorf("best individual selected %d times, want 2", bestSeen)
	}
}

func TestTournamentSelectCopies(t *testing.T) {
	pop := evaluatedPop(2, 1)
	selected := TournamentSelect(pop, rand.New(rand.NewSource(1)))
	selected[0].X[0] = 99
	if pop[0].X[0] == 99 || pop[1].X[0] == 99 {
		t.Error("selected individuals share storage with the source population")
	}
}

func TestBest(t *testing.T) {
	pop := evaluatedPop(4, 2, 2, 6)
	best := Best(pop)
	if best.Cost != 2 {
		t.Errorf("best cost = %g, want 2", best.Cost)
	}
	// Ties break to the earlier individual.
	if best.X[0] != 1 {
		t.Errorf("best index = %g, want the first of the tied pair", best.X[0])
	}
}

func TestMeanCost(t *testing.T) {
	pop := evaluatedPop(1, 2, 3)
	if m := MeanCost(pop); m != 2 {
		t.Errorf("mean cost = %g, want 2", m)
	}
	empty := Population{{X: bench.Input{0}}}
	if !math.IsInf(MeanCost(empty), 1) {
		t.Error("mean of an unevaluated population should be +Inf")
	}
}

func TestInitializeSampled(t *testing.T) {
	bm := sphereBenchmarker(t)
	pop, err := Initialize(bm, nil, 20, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatal(err)
	}
	if len(pop) != 20 {
		t.Fatalf("population size = %d, want 20", len(pop))
	}
	for i, ind := range pop {
		if ind.Evaluated {
			t.Errorf("individual %d starts evaluated", i)
		}
		for j, v := range ind.X {
			if v < -5 || v > 5 {
				t.Errorf("individual %d parameter %d = %g outside bounds", i, j, v)
			}
		}
	}
}

func TestInitializeFromGuess(t *testing.T) {
	bm := sphereBenchmarker(t)
	x0 := bench.Input{2.0, 2.0}
	pop, err := Initialize(bm, x0, 30, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatal(err)
	}
	for i, ind := range pop {
		for j, v := range ind.X {
			// Each axis is x0 scaled by a factor in [0.5, 1.5].
			if v < 1.0-1e-12 || v > 3.0+1e-12 {
				t.Errorf("individual %d parameter %d = %g outside perturbation range", i, j, v)
			}
		}
	}
	// The guess itself must stay untouched.
	if x0[0] != 2.0 || x0[1] != 2.0 {
		t.Errorf("Initialize mutated x0: %v", x0)
	}
}

func TestEvaluateAllSkipsEvaluated(t *testing.T) {
	bm := sphereBenchmarker(t)
	pop := Population{
		{X: bench.Input{1, 1}, Cost: -123, Evaluated: true},
		{X: bench.Input{0, 0}},
	}
	EvaluateAll(bm, pop)
	if pop[0].Cost != -123 {
		t.Error("EvaluateAll re-scored an evaluated individual")
	}
	if !pop[1].Evaluated || pop[1].Cost != 0 {
		t.Errorf("individual at the origin: cost = %g, evaluated = %t", pop[1].Cost, pop[1].Evaluated)
	}
	if bm.Tracker().SolveCount != 1 {
		t.Errorf("SolveCount = %d, want 1", bm.Tracker().SolveCount)
	}
}
