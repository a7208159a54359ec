package bench

import (
	"fmt"
	"math"
)

// Input is a parameter vector in the space an optimiser manipulates.
type Input []float64

// Original is a parameter vector in the space the simulator consumes.
// Input and Original vectors must never be mixed without going through
// a Transform.
type Original []float64

// Clone returns an independent copy of the vector.
func (x Input) Clone() Input {
	return append(Input(nil), x...)
}

// Clone returns an independent copy of the vector.
func (p Original) Clone() Original {
	return append(Original(nil), p...)
}

// Transform is the bijective mapping between original and input parameter
// space. Going to input space applies an optional per-parameter scale factor
// (divide by the default value, so 1.0 means "at default") followed by an
// optional per-parameter natural log. Going back applies the exact inverse
// in reverse order: exp first, then multiply by the default.
type Transform struct {
	useScaleFactors bool
	logTransform    []bool
	defaults        []float64
}

// NewTransform creates a transform for the given default parameters.
// logTransform must have one entry per parameter. Defaults must be finite,
// and non-zero when scale factors are enabled.
func NewTransform(defaults []float64, logTransform []bool, useScaleFactors bool) (*Transform, error) {
	if len(logTransform) != len(defaults) {
		return nil, &ConfigError{Field: "LogTransform", Reason: fmt.Sprintf("length %d does not match %d parameters", len(logTransform), len(defaults))}
	}
	for i, d := range defaults {
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return nil, &ConfigError{Field: "DefaultParams", Reason: fmt.Sprintf("parameter %d is not finite", i)}
		}
		if useScaleFactors && d == 0 {
			return nil, &ConfigError{Field: "DefaultParams", Reason: fmt.Sprintf("parameter %d is zero, cannot be used as a scale factor", i)}
		}
	}
	return &Transform{
		useScaleFactors: useScaleFactors,
		logTransform:    append([]bool(nil), logTransform...),
		defaults:        append([]float64(nil), defaults...),
	}, nil
}

// NParameters returns the number of parameters the transform covers.
func (t *Transform) NParameters() int {
	return len(t.defaults)
}

// ToInput maps a vector from original space to input space. It fails with a
// domain error if a log transform is applied to a non-positive value; the
// error is surfaced rather than mapped to NaN so that bound violations are
// caught by the bounds checker and not by a silent transform failure.
func (t *Transform) ToInput(p Original) (Input, error) {
	if len(p) != len(t.defaults) {
		return nil, fmt.Errorf("expected %d parameters, got %d", len(t.defaults), len(p))
	}
	x := make(Input, len(p))
	for i, v := range p {
		if t.useScaleFactors {
			v = v / t.defaults[i]
		}
		if t.logTransform[i] {
			if v <= 0 {
				return nil, fmt.Errorf("parameter %d: log transform of non-positive value %g", i, v)
			}
			v = math.Log(v)
		}
		x[i] = v
	}
	return x, nil
}

// ToOriginal maps a vector from input space back to original space. The
// returned vector is always populated; a non-nil error indicates a non-finite
// result, which callers treat as an out-of-bounds candidate.
func (t *Transform) ToOriginal(x Input) (Original, error) {
	if len(x) != len(t.defaults) {
		return nil, fmt.Errorf("expected %d parameters, got %d", len(t.defaults), len(x))
	}
	p := make(Original, len(x))
	var err error
	for i, v := range x {
		if t.logTransform[i] {
			v = math.Exp(v)
		}
		if t.useScaleFactors {
			v = v * t.defaults[i]
		}
		if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
			err = fmt.Errorf("parameter %d: non-finite value %g in original space", i, v)
		}
		p[i] = v
	}
	return p, err
}

// boundToInput maps a single original-space bound for parameter i into input
// space, tolerating infinities and non-positive lower bounds under a log
// transform (which become an unbounded side).
func (t *Transform) boundToInput(v float64, i int) float64 {
	if t.useScaleFactors {
		v = v / t.defaults[i]
	}
	if t.logTransform[i] {
		if v <= 0 {
			return math.Inf(-1)
		}
		v = math.Log(v)
	}
	return v
}
