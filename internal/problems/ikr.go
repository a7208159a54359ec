package problems

import (
	"fmt"
	"math"

	"github.com/cwbudde/ionbench/internal/bench"
)

const (
	ikrName          = "loewe2016.ikr"
	ikrReversal      = -85.0 // potassium reversal potential, mV
	ikrSampleStep    = 0.5   // data spacing, ms
	ikrCostThreshold = 0.01

	// Rate-bound range. The upper limit is the physiological ceiling from
	// Loewe et al. 2016; the floor is permissive because voltage-gated rates
	// legitimately vanish at one end of the sweep.
	ikrRateMin = 1e-12
	ikrRateMax = 1e3
)

// ikrDefaults are the published IKr activation parameters: five rate-law
// parameters and the channel conductance.
var ikrDefaults = []float64{3e-4, 14.1, 5, 3.3328, 5.1237, 0.15}

// ikrAdditive marks parameters sampled additively; the rest are
// multiplicative and fitted in log space.
var ikrAdditive = []bool{false, true, false, true, false, false}

// ikrAlpha is the forward (opening) rate of the activation gate.
func ikrAlpha(p bench.Original, v float64) float64 {
	num := p[0] * (v + p[1])
	den := 1 - math.Exp(-(v+p[1])/p[2])
	if den == 0 {
		// Removable singularity at v = -p1.
		return p[0] * p[2]
	}
	return num / den
}

// ikrBeta is the backward (closing) rate of the activation gate.
func ikrBeta(p bench.Original, v float64) float64 {
	num := 7.3898e-5 * (v + p[3])
	den := math.Exp((v+p[3])/p[4]) - 1
	if den == 0 {
		// Removable singularity at v = -p3.
		return 7.3898e-5 * p[4]
	}
	return num / den
}

// IKrSimulator solves the single Hodgkin-Huxley activation gate of the IKr
// model analytically over a piecewise-constant voltage protocol. With a
// constant voltage the gate ODE dx/dt = a(1-x) - b x has the exact solution
// x(t) = xinf + (x0 - xinf) exp(-t/tau) with xinf = a/(a+b), tau = 1/(a+b),
// so no numeric integrator is needed.
type IKrSimulator struct {
	protocol Protocol
}

// NewIKrSimulator creates the simulator for the given protocol.
func NewIKrSimulator(protocol Protocol) *IKrSimulator {
	return &IKrSimulator{protocol: protocol}
}

// Simulate returns the current trace at the requested times, which must be
// ascending. It fails when the rates degenerate (non-finite or non-positive
// total rate), which the evaluator degrades to an infinite cost.
func (s *IKrSimulator) Simulate(params bench.Original, times []float64) ([]float64, error) {
	if len(params) != len(ikrDefaults) {
		return nil, fmt.Errorf("expected %d parameters, got %d", len(ikrDefaults), len(params))
	}
	g := params[5]

	// Start from steady state at the first step's voltage.
	x, err := ikrSteadyState(params, s.protocol[0].Voltage)
	if err != nil {
		return nil, err
	}

	trace := make([]float64, len(times))
	ti := 0
	stepStart := 0.0
	for _, step := range s.protocol {
		a := ikrAlpha(params, step.Voltage)
		b := ikrBeta(params, step.Voltage)
		total := a + b
		if !isFinitePositive(total) {
			return nil, fmt.Errorf("degenerate gate rates at %g mV", step.Voltage)
		}
		xinf := a / total
		tau := 1 / total

		stepEnd := stepStart + step.Duration
		for ti < len(times) && times[ti] < stepEnd {
			xt := xinf + (x-xinf)*math.Exp(-(times[ti]-stepStart)/tau)
			trace[ti] = g * xt * (step.Voltage - ikrReversal)
			ti++
		}
		// Advance the gate to the end of the step.
		x = xinf + (x-xinf)*math.Exp(-step.Duration/tau)
		stepStart = stepEnd
	}
	if ti < len(times) {
		return nil, fmt.Errorf("time %g is beyond the protocol", times[ti])
	}
	return trace, nil
}

func ikrSteadyState(params bench.Original, v float64) (float64, error) {
	a := ikrAlpha(params, v)
	b := ikrBeta(params, v)
	if !isFinitePositive(a + b) {
		return 0, fmt.Errorf("degenerate gate rates at %g mV", v)
	}
	return a / (a + b), nil
}

func isFinitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// NewIKr builds the Loewe-2016-style IKr benchmark problem. The default
// parameters are the true parameters; the reference trace is the model
// solved at the defaults. Multiplicative parameters are log-transformed and
// bounded a factor of ten either side of the default, additive parameters
// ±60.
func NewIKr() (bench.Config, *IKrSimulator, error) {
	protocol := LoeweProtocol()
	sim := NewIKrSimulator(protocol)
	times := protocol.Times(ikrSampleStep)

	data, err := sim.Simulate(ikrDefaults, times)
	if err != nil {
		return bench.Config{}, nil, fmt.Errorf("generating reference data: %w", err)
	}
	cfg, err := ikrConfig(times, data)
	if err != nil {
		return bench.Config{}, nil, err
	}
	return cfg, sim, nil
}

// NewIKrFromTrace builds the IKr problem against a reference trace loaded
// from a CSV file instead of a freshly generated one.
func NewIKrFromTrace(path string) (bench.Config, *IKrSimulator, error) {
	protocol := LoeweProtocol()
	sim := NewIKrSimulator(protocol)
	times := protocol.Times(ikrSampleStep)

	data, err := LoadTrace(path)
	if err != nil {
		return bench.Config{}, nil, fmt.Errorf("loading reference data: %w", err)
	}
	cfg, err := ikrConfig(times, data)
	if err != nil {
		return bench.Config{}, nil, err
	}
	return cfg, sim, nil
}

func ikrConfig(times, data []float64) (bench.Config, error) {
	n := len(ikrDefaults)
	logTransform := make([]bool, n)
	lower := make([]float64, n)
	upper := make([]float64, n)
	for i := 0; i < n; i++ {
		logTransform[i] = !ikrAdditive[i]
		if ikrAdditive[i] {
			lower[i] = ikrDefaults[i] - 60
			upper[i] = ikrDefaults[i] + 60
		} else {
			lower[i] = ikrDefaults[i] / 10
			upper[i] = ikrDefaults[i] * 10
		}
	}
	vLow, vHigh := LoeweProtocol().VoltageRange()

	cfg := bench.Config{
		Name:          ikrName,
		DefaultParams: append([]float64(nil), ikrDefaults...),
		LogTransform:  logTransform,
		Lower:         lower,
		Upper:         upper,
		Rates: []bench.RateFunc{
			{Eval: ikrAlpha, Polarity: bench.Positive},
			{Eval: ikrBeta, Polarity: bench.Negative},
		},
		RateMin:       ikrRateMin,
		RateMax:       ikrRateMax,
		VLow:          vLow,
		VHigh:         vHigh,
		CostThreshold: ikrCostThreshold,
		Times:         times,
		Data:          data,
	}
	if err := cfg.Validate(); err != nil {
		return bench.Config{}, err
	}
	return cfg, nil
}
