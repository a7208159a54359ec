package opt

import "github.com/cwbudde/ionbench/internal/bench"

// Optimizer runs one optimisation against a benchmarker.
// x0 is an optional input-space starting guess; nil lets the optimizer draw
// its own starting points from the benchmarker's sampler.
// Returns the best input-space parameters found and their cost.
type Optimizer interface {
	Run(bm *bench.Benchmarker, x0 bench.Input) (bench.Input, float64, error)
}
