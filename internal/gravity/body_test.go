package gravity

import (
	"errors"
	"math"
	"testing"
)

func TestNewBody_RejectsNonPositiveMass(t *testing.T) {
	for _, mass := range []float64{0, -1, -100} {
		_, err := NewBody(mass, Vec2{}, Vec2{})
		if !errors.Is(err, ErrNonPositiveMass) {
			t.Errorf("mass %f: expected ErrNonPositiveMass, got %v", mass, err)
		}
	}
}

func TestNewBody_Defaults(t *testing.T) {
	b, err := NewBody(100, Vec2{1, 2}, Vec2{3, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Mass != 100 {
		t.Errorf("expected mass 100, got %f", b.Mass)
	}
	if b.Radius != DisplayRadius {
		t.Errorf("expected radius %f, got %f", DisplayRadius, b.Radius)
	}
}

func TestDistanceTo(t *testing.T) {
	a, _ := NewBody(1, Vec2{0, 0}, Vec2{})
	b, _ := NewBody(1, Vec2{3, 4}, Vec2{})

	if d := a.DistanceTo(b); math.Abs(d-5.0) > 1e-6 {
		t.Errorf("expected distance 5.0, got %f", d)
	}
}

func TestGravitationalForce_Symmetry(t *testing.T) {
	a, _ := NewBody(100, Vec2{0, 0}, Vec2{})
	b, _ := NewBody(200, Vec2{1, 0.5}, Vec2{})
	g := 1.0

	fab := a.GravitationalForce(b, g)
	fba := b.GravitationalForce(a, g)

	if math.Abs(fab.X+fba.X) > 1e-10 || math.Abs(fab.Y+fba.Y) > 1e-10 {
		t.Errorf("forces not antisymmetric: %v vs %v", fab, fba)
	}
}

func TestGravitationalForce_Magnitude(t *testing.T) {
	a, _ := NewBody(100, Vec2{0, 0}, Vec2{})
	b, _ := NewBody(200, Vec2{2, 0}, Vec2{})
	g := 1.0

	f := a.GravitationalForce(b, g)

	// F = g·m1·m2/r² = 1·100·200/4 = 5000
	if math.Abs(f.Norm()-5000.0) > 1e-10 {
		t.Errorf("expected magnitude 5000, got %f", f.Norm())
	}
	if f.X <= 0 {
		t.Errorf("force should point toward the other body, got x component %f", f.X)
	}
	if math.Abs(f.Y) > 1e-10 {
		t.Errorf("expected zero y component, got %f", f.Y)
	}
}

func TestBodyUpdate(t *testing.T) {
	b, _ := NewBody(1, Vec2{0, 0}, Vec2{0, 0})

	b.Update(Vec2{2, 1}, 1.0)

	// Semi-implicit: v = (2,1), then x = v·dt = (2,1).
	if b.Velocity != (Vec2{2, 1}) {
		t.Errorf("expected velocity (2,1), got %v", b.Velocity)
	}
	if b.Position != (Vec2{2, 1}) {
		t.Errorf("expected position (2,1), got %v", b.Position)
	}
}

func TestKineticEnergy_HalfCoefficient(t *testing.T) {
	// Pins KE = 0.5·m·v², guarding against the dimensionally wrong m·|v|.
	b, _ := NewBody(2, Vec2{}, Vec2{3, 0})

	if ke := b.KineticEnergy(); math.Abs(ke-9.0) > 1e-12 {
		t.Errorf("expected kinetic energy 9.0, got %f", ke)
	}
}

func TestLinearMomentum(t *testing.T) {
	b, _ := NewBody(2, Vec2{}, Vec2{1, -3})

	p := b.LinearMomentum()
	if p != (Vec2{2, -6}) {
		t.Errorf("expected momentum (2,-6), got %v", p)
	}
}
