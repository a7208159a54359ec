package opt

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/cwbudde/ionbench/internal/bench"
	"github.com/cwbudde/ionbench/internal/evo"
)

// PSO is a plain global-best particle swarm with inertia and the usual
// cognitive/social pulls, clamped to the benchmarker's bounds.
type PSO struct {
	Iterations int
	SwarmSize  int
	Inertia    float64
	Cognitive  float64
	Social     float64
	Seed       int64
}

// NewPSO returns a PSO with standard coefficients and the given seed.
func NewPSO(iterations, swarmSize int, seed int64) *PSO {
	return &PSO{
		Iterations: iterations,
		SwarmSize:  swarmSize,
		Inertia:    0.729,
		Cognitive:  1.494,
		Social:     1.494,
		Seed:       seed,
	}
}

// Run implements Optimizer.
func (p *PSO) Run(bm *bench.Benchmarker, x0 bench.Input) (bench.Input, float64, error) {
	if p.SwarmSize < 1 {
		return nil, 0, fmt.Errorf("swarm size must be at least 1, got %d", p.SwarmSize)
	}
	rng := rand.New(rand.NewSource(p.Seed))

	swarm, err := evo.Initialize(bm, x0, p.SwarmSize, rng)
	if err != nil {
		return nil, 0, fmt.Errorf("initializing swarm: %w", err)
	}
	evo.EvaluateAll(bm, swarm)

	n := bm.NParameters()
	velocities := make([]bench.Input, len(swarm))
	personalBest := make([]evo.Individual, len(swarm))
	for i := range swarm {
		velocities[i] = make(bench.Input, n)
		personalBest[i] = swarm[i].Clone()
	}
	globalBest := evo.Best(swarm)

	for iter := 0; iter < p.Iterations; iter++ {
		for i := range swarm {
			for j := 0; j < n; j++ {
				r1, r2 := rng.Float64(), rng.Float64()
				velocities[i][j] = p.Inertia*velocities[i][j] +
					p.Cognitive*r1*(personalBest[i].X[j]-swarm[i].X[j]) +
					p.Social*r2*(globalBest.X[j]-swarm[i].X[j])
				swarm[i].X[j] += velocities[i][j]
			}
			swarm[i].X = bm.Clamp(swarm[i].X)
			swarm[i].Cost = bm.Cost(swarm[i].X)
			swarm[i].Evaluated = true

			if swarm[i].Cost < personalBest[i].Cost {
				personalBest[i] = swarm[i].Clone()
			}
			if swarm[i].Cost < globalBest.Cost {
				globalBest = swarm[i].Clone()
			}
		}
		slog.Debug("iteration complete",
			"iteration", iter,
			"best_cost", globalBest.Cost,
			"mean_cost", evo.MeanCost(swarm),
			"solve_count", bm.Tracker().SolveCount,
		)
		if bm.IsConverged() {
			slog.Info("cost threshold reached, stopping early", "iteration", iter)
			break
		}
	}
	return globalBest.X, globalBest.Cost, nil
}
