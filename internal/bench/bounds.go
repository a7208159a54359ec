package bench

import "math"

// Polarity tags a rate function as describing a forward (positive) or
// backward (negative) transition rate. It is diagnostic only; the bound test
// is the same for both polarities.
type Polarity string

const (
	Positive Polarity = "positive"
	Negative Polarity = "negative"
)

// RateFunc is a scalar rate law evaluated at a parameter vector and a
// membrane voltage, used to derive feasibility constraints that are not
// direct bounds on any single parameter.
type RateFunc struct {
	Eval     func(p Original, voltage float64) float64
	Polarity Polarity
}

// rateGridStep is the voltage spacing used when sweeping rate functions
// across [VLow, VHigh], matching the step spacing of the voltage protocols
// the range is derived from.
const rateGridStep = 10.0

// Bounds holds absolute per-parameter bounds and optional rate bounds, all
// expressed in original parameter space. A nil *Bounds accepts everything.
type Bounds struct {
	Lower []float64 // entries may be -Inf for "no bound"
	Upper []float64 // entries may be +Inf for "no bound"

	Rates            []RateFunc
	RateMin, RateMax float64
	VLow, VHigh      float64
}

// InBounds reports whether every entry satisfies Lower[i] <= p[i] <= Upper[i].
// With no bounds configured it is always true.
func (b *Bounds) InBounds(p Original) bool {
	if b == nil || len(b.Lower) == 0 {
		return true
	}
	for i, v := range p {
		if v < b.Lower[i] || v > b.Upper[i] {
			return false
		}
	}
	return true
}

// InRateBounds reports whether every configured rate function evaluates
// within [RateMin, RateMax] at every grid voltage spanning [VLow, VHigh].
// With no rate functions configured it is always true.
func (b *Bounds) InRateBounds(p Original) bool {
	if b == nil || len(b.Rates) == 0 {
		return true
	}
	for _, rf := range b.Rates {
		for v := b.VLow; v <= b.VHigh; v += rateGridStep {
			r := rf.Eval(p, v)
			if math.IsNaN(r) || r < b.RateMin || r > b.RateMax {
				return false
			}
		}
	}
	return true
}

// Valid reports whether a vector passes both the absolute parameter bounds
// and the rate bounds.
func (b *Bounds) Valid(p Original) bool {
	return b.InBounds(p) && b.InRateBounds(p)
}

// Clamp returns a copy of p hard-clipped to [Lower, Upper] per axis. It never
// re-samples; a violating entry lands exactly on the violated bound.
func (b *Bounds) Clamp(p Original) Original {
	out := p.Clone()
	if b == nil || len(b.Lower) == 0 {
		return out
	}
	for i, v := range out {
		out[i] = math.Max(b.Lower[i], math.Min(b.Upper[i], v))
	}
	return out
}

// Finite reports whether parameter i is bounded on both sides.
func (b *Bounds) Finite(i int) bool {
	if b == nil || len(b.Lower) == 0 {
		return false
	}
	return !math.IsInf(b.Lower[i], -1) && !math.IsInf(b.Upper[i], 1)
}
