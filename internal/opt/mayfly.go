package opt

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/mayfly"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/ionbench/internal/bench"
)

// Mayfly adapts the external mayfly optimizer to the Optimizer interface,
// driving it through the benchmarker's memoised cost.
type Mayfly struct {
	Iterations int
	PopSize    int
	Seed       int64
}

// NewMayfly creates a mayfly optimizer adapter.
func NewMayfly(iterations, popSize int, seed int64) *Mayfly {
	return &Mayfly{
		Iterations: iterations,
		PopSize:    popSize,
		Seed:       seed,
	}
}

// Run implements Optimizer. The external library uses scalar bounds shared
// by all dimensions, so the benchmarker's input-space box is collapsed to
// its extremes; this requires finite bounds on every parameter.
func (m *Mayfly) Run(bm *bench.Benchmarker, x0 bench.Input) (bench.Input, float64, error) {
	lo, hi := bm.InputBounds()
	lower, upper := floats.Min(lo), floats.Max(hi)
	if math.IsInf(lower, 0) || math.IsInf(upper, 0) {
		return nil, 0, fmt.Errorf("mayfly requires finite bounds on every parameter")
	}

	config := mayfly.NewDefaultConfig()
	config.ObjectiveFunc = func(x []float64) float64 {
		return bm.Cost(x)
	}
	config.ProblemSize = bm.NParameters()
	config.MaxIterations = m.Iterations
	config.NPop = m.PopSize
	config.LowerBound = lower
	config.UpperBound = upper
	config.Rand = rand.New(rand.NewSource(m.Seed))

	result, err := mayfly.Optimize(config)
	if err != nil {
		return nil, 0, fmt.Errorf("mayfly optimization: %w", err)
	}
	return result.GlobalBest.Position, result.GlobalBest.Cost, nil
}
