// Package metrics measures conservation-law drift over headless runs, the
// practical yardstick for integrator quality.
package metrics

import (
	"math"

	"github.com/orbitkit/gravsim/internal/physics"
)

// Observer samples the simulation state between steps.
type Observer interface {
	Name() string
	Observe(pos, vel, mass []float64, n int, t float64)
	Value() float64
	Reset()
}

// EnergyDrift tracks the maximum relative deviation of total mechanical
// energy from its first sample. It also keeps the per-sample series for
// plotting.
type EnergyDrift struct {
	field   physics.Field
	initial float64
	max     float64
	samples int
	series  []float64
}

func NewEnergyDrift(field physics.Field) *EnergyDrift {
	return &EnergyDrift{field: field}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(pos, vel, mass []float64, n int, t float64) {
	energy := e.field.Energy(pos, vel, mass, n)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	drift := 0.0
	if e.initial != 0 {
		drift = math.Abs(energy-e.initial) / math.Abs(e.initial)
	}
	e.series = append(e.series, drift)
	if drift > e.max {
		e.max = drift
	}
}

func (e *EnergyDrift) Value() float64 { return e.max }

// Series returns the relative drift at every observation, oldest first.
func (e *EnergyDrift) Series() []float64 { return e.series }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.max = 0
	e.samples = 0
	e.series = e.series[:0]
}

// MomentumDrift tracks the maximum absolute deviation of total linear
// momentum from its first sample, normalized by the system's initial
// momentum magnitude scale (or unnormalized when that is zero, the common
// case for co-moving-frame scenarios).
type MomentumDrift struct {
	px0, py0, pz0 float64
	scale         float64
	max           float64
	samples       int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{}
}

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Observe(pos, vel, mass []float64, n int, t float64) {
	px, py, pz := physics.Momentum(vel, mass, n)
	if m.samples == 0 {
		m.px0, m.py0, m.pz0 = px, py, pz
		m.scale = math.Abs(px) + math.Abs(py) + math.Abs(pz)
	}
	m.samples++

	drift := math.Abs(px-m.px0) + math.Abs(py-m.py0) + math.Abs(pz-m.pz0)
	if m.scale > 0 {
		drift /= m.scale
	}
	if drift > m.max {
		m.max = drift
	}
}

func (m *MomentumDrift) Value() float64 { return m.max }

func (m *MomentumDrift) Reset() {
	m.px0, m.py0, m.pz0 = 0, 0, 0
	m.scale = 0
	m.max = 0
	m.samples = 0
}
