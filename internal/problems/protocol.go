// Package problems provides concrete benchmark problems: voltage protocols,
// analytic channel models and reference traces, assembled into benchmarker
// configurations.
package problems

import "math"

// Step is one segment of a voltage-clamp protocol: hold Voltage for
// Duration milliseconds.
type Step struct {
	Voltage  float64
	Duration float64
}

// Protocol is a piecewise-constant voltage-clamp protocol.
type Protocol []Step

// LoeweProtocol is the step protocol from Loewe et al. 2016: 13 sweeps of
// 20 ms at -80 mV, 400 ms at a test voltage decreasing from 50 mV to -70 mV
// in 10 mV steps, and 400 ms at -110 mV.
func LoeweProtocol() Protocol {
	p := make(Protocol, 0, 39)
	for i := 0; i < 13; i++ {
		p = append(p,
			Step{Voltage: -80, Duration: 20},
			Step{Voltage: 50 - float64(i)*10, Duration: 400},
			Step{Voltage: -110, Duration: 400},
		)
	}
	return p
}

// Duration returns the total protocol length in milliseconds.
func (p Protocol) Duration() float64 {
	var total float64
	for _, s := range p {
		total += s.Duration
	}
	return total
}

// VoltageRange returns the lowest and highest step voltages.
func (p Protocol) VoltageRange() (low, high float64) {
	low, high = math.Inf(1), math.Inf(-1)
	for _, s := range p {
		low = math.Min(low, s.Voltage)
		high = math.Max(high, s.Voltage)
	}
	return low, high
}

// Times returns the sampling grid [0, Duration) with the given spacing.
func (p Protocol) Times(dt float64) []float64 {
	n := int(p.Duration() / dt)
	times := make([]float64, n)
	for i := range times {
		times[i] = float64(i) * dt
	}
	return times
}
