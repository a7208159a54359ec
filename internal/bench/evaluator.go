package bench

import (
	"encoding/binary"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Simulator produces a model trace from an original-space parameter vector
// at the given times. It is treated as an opaque, fallible black box; any
// error degrades to an infinite cost and is never inspected further.
type Simulator interface {
	Simulate(params Original, times []float64) ([]float64, error)
}

// SimulatorFunc adapts a plain function to the Simulator interface.
type SimulatorFunc func(params Original, times []float64) ([]float64, error)

// Simulate calls f.
func (f SimulatorFunc) Simulate(params Original, times []float64) ([]float64, error) {
	return f(params, times)
}

// Evaluator wraps the simulator, transform, bounds and tracker into a single
// memoised cost contract. One cost call proceeds: transform to original
// space, bound check, cache lookup, simulate, record, return.
//
// The cache is keyed on the exact input-space vector: candidates that are
// numerically equal but differently rounded do not collide. Bound violations
// are never cached, since bounds may be mutated between calls; failed
// simulations are cached at +Inf, since the attempt will fail again.
type Evaluator struct {
	sim        Simulator
	transform  *Transform
	bounds     *Bounds
	tracker    *Tracker
	trueParams Original
	data       []float64
	times      []float64
	cache      map[string]float64
}

// NewEvaluator assembles an evaluator from its collaborators.
func NewEvaluator(sim Simulator, transform *Transform, bounds *Bounds, tracker *Tracker, trueParams Original, data, times []float64) *Evaluator {
	return &Evaluator{
		sim:        sim,
		transform:  transform,
		bounds:     bounds,
		tracker:    tracker,
		trueParams: trueParams,
		data:       data,
		times:      times,
		cache:      make(map[string]float64),
	}
}

// Cost evaluates the RMSE cost of an input-space vector, counting the solve.
func (e *Evaluator) Cost(x Input) float64 {
	return e.cost(x, true, true)
}

// cost runs the full evaluation pipeline. incrementSolveCounter is false for
// final evaluations; checkBounds is false only for gradient fallbacks where
// the bounds are deliberately ignored. Infeasible candidates and simulator
// failures never surface as errors, only as +Inf. A wrong-length vector is a
// programming error, not a candidate: it panics before anything is recorded.
func (e *Evaluator) cost(x Input, incrementSolveCounter, checkBounds bool) float64 {
	if len(x) != e.transform.NParameters() {
		panic(fmt.Sprintf("cost: vector has %d parameters, problem has %d", len(x), e.transform.NParameters()))
	}
	original, err := e.transform.ToOriginal(x)
	if err != nil {
		// Non-finite transform result, treated as out of bounds.
		e.tracker.Update(e.trueParams, original, math.Inf(1), false)
		return math.Inf(1)
	}
	if checkBounds && !e.bounds.Valid(original) {
		e.tracker.Update(e.trueParams, original, math.Inf(1), false)
		return math.Inf(1)
	}

	key := cacheKey(x)
	if cached, ok := e.cache[key]; ok {
		// The cost history must show every call; the solve count must not
		// double count.
		e.tracker.Update(e.trueParams, original, cached, false)
		return cached
	}

	cost := math.Inf(1)
	if trace, err := e.sim.Simulate(original, e.times); err == nil && len(trace) == len(e.data) {
		cost = rmse(trace, e.data)
	}
	e.tracker.Update(e.trueParams, original, cost, incrementSolveCounter)
	e.cache[key] = cost
	return cost
}

// Feasible reports whether an input-space vector transforms to a finite
// original-space vector that passes both bound checks. It records nothing.
func (e *Evaluator) Feasible(x Input) bool {
	original, err := e.transform.ToOriginal(x)
	return err == nil && e.bounds.Valid(original)
}

// Reset discards every cached cost.
func (e *Evaluator) Reset() {
	e.cache = make(map[string]float64)
}

// rmse is the root-mean-square error between a trace and the reference data.
func rmse(trace, data []float64) float64 {
	return floats.Distance(trace, data, 2) / math.Sqrt(float64(len(data)))
}

// cacheKey packs the exact IEEE-754 bits of the vector, so only bit-identical
// candidates share a cache entry.
func cacheKey(x Input) string {
	buf := make([]byte, 8*len(x))
	for i, v := range x {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return string(buf)
}
