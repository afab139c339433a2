package metrics

import (
	"testing"

	"github.com/jc-higgins/grav-sim/internal/gravity"
)

func binarySim(t *testing.T) *gravity.Simulation {
	t.Helper()
	a, _ := gravity.NewBody(100, gravity.Vec2{X: -1}, gravity.Vec2{Y: 1})
	b, _ := gravity.NewBody(100, gravity.Vec2{X: 1}, gravity.Vec2{Y: -1})
	s, err := gravity.New([]gravity.Body{a, b}, 1.0, 0.0001)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestEnergyDrift_BoundedOverRun(t *testing.T) {
	s := binarySim(t)
	m := NewEnergyDrift()

	for i := 0; i < 100; i++ {
		m.Observe(s, s.Time())
		s.Step()
	}
	m.Observe(s, s.Time())

	if m.Value() > 1e-4 {
		t.Errorf("energy drift %g too large for a symplectic integrator", m.Value())
	}
}

func TestEnergyDrift_Reset(t *testing.T) {
	s := binarySim(t)
	m := NewEnergyDrift()

	m.Observe(s, 0)
	s.Step()
	m.Observe(s, s.Time())

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected zero drift after reset, got %g", m.Value())
	}
}

func TestMomentumDrift_NearZero(t *testing.T) {
	s := binarySim(t)
	m := NewMomentumDrift()

	for i := 0; i < 100; i++ {
		m.Observe(s, s.Time())
		s.Step()
	}
	m.Observe(s, s.Time())

	if m.Value() > 1e-10 {
		t.Errorf("momentum drift %g, expected floating-point noise only", m.Value())
	}
}
