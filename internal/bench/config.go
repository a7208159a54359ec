package bench

import (
	"fmt"
	"math"
)

// Config holds everything that defines one benchmark problem: default and
// true parameters, the transform flags, absolute and rate bounds, the time
// grid, the reference data and the convergence threshold. Problems are built
// by composing a Config with a Simulator; there is no problem class
// hierarchy.
type Config struct {
	// Name identifies the problem in logs and run records.
	Name string

	// DefaultParams are the published model parameters. They are the centre
	// of sampling and the scale factors when UseScaleFactors is set.
	DefaultParams []float64

	// TrueParams generated the reference data. Nil means the defaults are
	// the true parameters.
	TrueParams []float64

	// LogTransform marks the parameters fitted in log space, one entry per
	// parameter. Nil means no log transforms.
	LogTransform []bool

	// UseScaleFactors divides every parameter by its default on the way into
	// input space, so 1.0 means "at default".
	UseScaleFactors bool

	// Lower and Upper are absolute bounds in original space; ±Inf entries
	// leave that side unbounded. Nil means unbounded.
	Lower, Upper []float64

	// Rates derive feasibility constraints from rate laws swept across
	// [VLow, VHigh]; each must stay within [RateMin, RateMax].
	Rates            []RateFunc
	RateMin, RateMax float64
	VLow, VHigh      float64

	// CostThreshold is the cost below which the problem counts as solved.
	CostThreshold float64

	// Times is the time grid the simulator is solved on, and Data the
	// reference trace aligned to it.
	Times []float64
	Data  []float64
}

// ConfigError is a fatal configuration problem: it aborts construction
// rather than degrading silently.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Field + " " + e.Reason
}

// Validate checks the config for programming errors. Anything caught here is
// fatal; runtime failures (infeasible candidates, simulator errors) are
// handled inside the cost pipeline instead.
func (c *Config) Validate() error {
	n := len(c.DefaultParams)
	if n == 0 {
		return &ConfigError{Field: "DefaultParams", Reason: "cannot be empty"}
	}
	for i, d := range c.DefaultParams {
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return &ConfigError{Field: "DefaultParams", Reason: fmt.Sprintf("parameter %d is not finite", i)}
		}
	}
	if c.TrueParams != nil && len(c.TrueParams) != n {
		return &ConfigError{Field: "TrueParams", Reason: fmt.Sprintf("length %d does not match %d parameters", len(c.TrueParams), n)}
	}
	if c.LogTransform != nil && len(c.LogTransform) != n {
		return &ConfigError{Field: "LogTransform", Reason: fmt.Sprintf("length %d does not match %d parameters", len(c.LogTransform), n)}
	}
	if (c.Lower == nil) != (c.Upper == nil) {
		return &ConfigError{Field: "Lower/Upper", Reason: "must be set together"}
	}
	if c.Lower != nil && (len(c.Lower) != n || len(c.Upper) != n) {
		return &ConfigError{Field: "Lower/Upper", Reason: fmt.Sprintf("lengths %d/%d do not match %d parameters", len(c.Lower), len(c.Upper), n)}
	}
	for i := range c.Lower {
		if c.Lower[i] > c.Upper[i] {
			return &ConfigError{Field: "Lower/Upper", Reason: fmt.Sprintf("lower bound %d exceeds upper bound", i)}
		}
		// A log-transformed parameter can never reach a non-positive value,
		// so such an upper bound leaves no feasible region at all.
		if c.LogTransform != nil && c.LogTransform[i] && c.Upper[i] <= 0 {
			return &ConfigError{Field: "Upper", Reason: fmt.Sprintf("bound %d is non-positive under a log transform", i)}
		}
	}
	if len(c.Rates) > 0 {
		if c.RateMin > c.RateMax {
			return &ConfigError{Field: "RateMin/RateMax", Reason: "rate range is empty"}
		}
		if c.VLow > c.VHigh {
			return &ConfigError{Field: "VLow/VHigh", Reason: "voltage range is empty"}
		}
		for i, rf := range c.Rates {
			if rf.Eval == nil {
				return &ConfigError{Field: "Rates", Reason: fmt.Sprintf("rate function %d is nil", i)}
			}
		}
	}
	if len(c.Times) == 0 {
		return &ConfigError{Field: "Times", Reason: "cannot be empty"}
	}
	if len(c.Data) != len(c.Times) {
		return &ConfigError{Field: "Data", Reason: fmt.Sprintf("length %d does not match %d timepoints", len(c.Data), len(c.Times))}
	}
	return nil
}

// trueParams returns the true parameters, defaulting to the defaults.
func (c *Config) trueParams() Original {
	if c.TrueParams != nil {
		return Original(c.TrueParams).Clone()
	}
	return Original(c.DefaultParams).Clone()
}

// logTransform returns the log-transform flags, defaulting to all false.
func (c *Config) logTransform() []bool {
	if c.LogTransform != nil {
		return c.LogTransform
	}
	return make([]bool, len(c.DefaultParams))
}

// bounds assembles the bounds checker, or an accept-everything checker when
// no bounds are configured.
func (c *Config) bounds() *Bounds {
	if c.Lower == nil && len(c.Rates) == 0 {
		return nil
	}
	return &Bounds{
		Lower:   append([]float64(nil), c.Lower...),
		Upper:   append([]float64(nil), c.Upper...),
		Rates:   c.Rates,
		RateMin: c.RateMin,
		RateMax: c.RateMax,
		VLow:    c.VLow,
		VHigh:   c.VHigh,
	}
}
