package opt

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/cwbudde/ionbench/internal/bench"
	"github.com/cwbudde/ionbench/internal/evo"
)

// GA is a genetic algorithm in the style of Bot et al. 2012: tournament
// selection, SBX crossover, polynomial mutation and elitism, all built on
// the shared population primitives.
type GA struct {
	Generations int
	PopSize     int
	EliteCount  int
	EtaCross    float64
	EtaMut      float64
	Seed        int64
}

// NewGA returns a GA with the published defaults and the given seed.
func NewGA(generations, popSize int, seed int64) *GA {
	return &GA{
		Generations: generations,
		PopSize:     popSize,
		EliteCount:  1,
		EtaCross:    10,
		EtaMut:      20,
		Seed:        seed,
	}
}

// Run implements Optimizer.
func (g *GA) Run(bm *bench.Benchmarker, x0 bench.Input) (bench.Input, float64, error) {
	if g.PopSize < 2 {
		return nil, 0, fmt.Errorf("population size must be at least 2, got %d", g.PopSize)
	}
	rng := rand.New(rand.NewSource(g.Seed))

	pop, err := evo.Initialize(bm, x0, g.PopSize, rng)
	if err != nil {
		return nil, 0, fmt.Errorf("initializing population: %w", err)
	}
	evo.EvaluateAll(bm, pop)

	crossover := evo.NewSBX(bm, g.EtaCross)
	mutation := evo.NewPolynomial(bm, g.EtaMut)

	for gen := 0; gen < g.Generations; gen++ {
		elites := evo.Elites(pop, g.EliteCount)

		pop = evo.TournamentSelect(pop, rng)
		pop = evo.Crossover(pop, crossover, rng)
		evo.Mutate(pop, mutation, rng)
		evo.EvaluateAll(bm, pop)
		evo.ReplaceWorst(pop, elites)

		slog.Debug("generation complete",
			"generation", gen,
			"best_cost", evo.Best(pop).Cost,
			"mean_cost", evo.MeanCost(pop),
			"solve_count", bm.Tracker().SolveCount,
		)
		if bm.IsConverged() {
			slog.Info("cost threshold reached, stopping early", "generation", gen)
			break
		}
	}

	best := evo.Best(pop)
	return best.X, best.Cost, nil
}
