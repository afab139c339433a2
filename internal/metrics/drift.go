// Package metrics provides run-level conservation diagnostics implementing
// the sim.Metric interface.
package metrics

import (
	"math"

	"github.com/jc-higgins/grav-sim/internal/gravity"
)

// EnergyDrift tracks the maximum relative deviation of total energy from its
// value at the first observation. A symplectic integrator keeps this bounded
// and small.
type EnergyDrift struct {
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(s *gravity.Simulation, t float64) {
	energy := s.TotalEnergy()

	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}

// MomentumDrift tracks the maximum absolute deviation of total linear
// momentum magnitude from its first observation. Internal forces are
// pairwise-antisymmetric, so this should stay at floating-point noise.
type MomentumDrift struct {
	initial  gravity.Vec2
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{}
}

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Observe(s *gravity.Simulation, t float64) {
	p := s.TotalMomentum()

	if m.samples == 0 {
		m.initial = p
	}
	m.samples++

	m.maxDrift = math.Max(m.maxDrift, p.Sub(m.initial).Norm())
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = gravity.Vec2{}
	m.maxDrift = 0
	m.samples = 0
}
