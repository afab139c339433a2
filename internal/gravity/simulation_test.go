package gravity

import (
	"errors"
	"math"
	"testing"
)

// binaryBodies is the reference symmetric two-body scenario.
func binaryBodies(t testing.TB) []Body {
	t.Helper()
	a, err := NewBody(100, Vec2{-1, 0}, Vec2{0, 1})
	if err != nil {
		t.Fatalf("body a: %v", err)
	}
	b, err := NewBody(100, Vec2{1, 0}, Vec2{0, -1})
	if err != nil {
		t.Fatalf("body b: %v", err)
	}
	return []Body{a, b}
}

// ringBodies places n unit masses on a circle with tangential velocities.
func ringBodies(n int) []Body {
	bodies := make([]Body, n)
	for i := range bodies {
		angle := float64(i) * 2 * math.Pi / float64(n)
		bodies[i] = Body{
			Mass:     1.0,
			Position: Vec2{math.Cos(angle), math.Sin(angle)},
			Velocity: Vec2{-math.Sin(angle) * 0.5, math.Cos(angle) * 0.5},
			Radius:   DisplayRadius,
		}
	}
	return bodies
}

func TestNew_Validation(t *testing.T) {
	bodies := binaryBodies(t)

	if _, err := New(bodies, 1.0, 0); !errors.Is(err, ErrNonPositiveTimeStep) {
		t.Errorf("dt=0: expected ErrNonPositiveTimeStep, got %v", err)
	}
	if _, err := New(bodies, 1.0, -0.1); !errors.Is(err, ErrNonPositiveTimeStep) {
		t.Errorf("dt<0: expected ErrNonPositiveTimeStep, got %v", err)
	}

	bad := append([]Body{}, bodies...)
	bad[1].Mass = 0
	if _, err := New(bad, 1.0, 0.001); !errors.Is(err, ErrNonPositiveMass) {
		t.Errorf("zero mass: expected ErrNonPositiveMass, got %v", err)
	}

	if _, err := New(bodies, 1.0, 0.001, WithSoftening(-1)); !errors.Is(err, ErrNegativeSoftening) {
		t.Errorf("negative softening: expected ErrNegativeSoftening, got %v", err)
	}
}

func TestBodies_ReturnsCopy(t *testing.T) {
	sim, err := New(binaryBodies(t), 1.0, 0.0001)
	if err != nil {
		t.Fatal(err)
	}

	snap := sim.Bodies()
	snap[0].Position = Vec2{99, 99}

	if sim.Bodies()[0].Position == (Vec2{99, 99}) {
		t.Error("mutating the snapshot leaked into the simulation")
	}
}

func TestStep_BinaryStaysSymmetric(t *testing.T) {
	sim, err := New(binaryBodies(t), 1.0, 0.0001)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 100; i++ {
		sim.Step()
	}

	bodies := sim.Bodies()
	// Equal masses with mirrored initial conditions stay mirrored.
	if math.Abs(bodies[0].Position.X+bodies[1].Position.X) > 1e-9 {
		t.Errorf("positions lost mirror symmetry: %v vs %v", bodies[0].Position, bodies[1].Position)
	}
	if math.Abs(bodies[0].Velocity.Y+bodies[1].Velocity.Y) > 1e-9 {
		t.Errorf("velocities lost mirror symmetry: %v vs %v", bodies[0].Velocity, bodies[1].Velocity)
	}
	if sim.Steps() != 100 {
		t.Errorf("expected 100 steps, got %d", sim.Steps())
	}
	if math.Abs(sim.Time()-100*0.0001) > 1e-12 {
		t.Errorf("expected time 0.01, got %f", sim.Time())
	}
}

func TestStep_CoincidentBodiesPropagateNonFinite(t *testing.T) {
	a, _ := NewBody(1, Vec2{0, 0}, Vec2{})
	b, _ := NewBody(1, Vec2{0, 0}, Vec2{})
	sim, err := New([]Body{a, b}, 1.0, 0.001)
	if err != nil {
		t.Fatal(err)
	}

	sim.Step()

	if sim.Valid() {
		t.Error("expected non-finite state from a coincident unsoftened pair")
	}
}

func TestStep_SofteningBoundsCoincidentPair(t *testing.T) {
	a, _ := NewBody(1, Vec2{0, 0}, Vec2{})
	b, _ := NewBody(1, Vec2{0, 0}, Vec2{})
	sim, err := New([]Body{a, b}, 1.0, 0.001, WithSoftening(0.01))
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		sim.Step()
	}

	if !sim.Valid() {
		t.Error("softened simulation should stay finite")
	}
}

func TestAngularMomentum_Conserved(t *testing.T) {
	sim, err := New(ringBodies(5), 1.0, 0.0001)
	if err != nil {
		t.Fatal(err)
	}

	l0 := sim.AngularMomentum()
	for i := 0; i < 100; i++ {
		sim.Step()
	}

	if drift := math.Abs(sim.AngularMomentum() - l0); drift > 1e-6 {
		t.Errorf("angular momentum drifted by %g", drift)
	}
}

func TestStep_ParallelMatchesSerial(t *testing.T) {
	bodies := ringBodies(64)

	serial, err := New(bodies, 1.0, 0.0001)
	if err != nil {
		t.Fatal(err)
	}
	parallel, err := New(bodies, 1.0, 0.0001, WithWorkers(4))
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		serial.Step()
		parallel.Step()
	}

	sb, pb := serial.Bodies(), parallel.Bodies()
	for i := range sb {
		dp := sb[i].Position.Sub(pb[i].Position).Norm()
		dv := sb[i].Velocity.Sub(pb[i].Velocity).Norm()
		if dp > 1e-9 || dv > 1e-9 {
			t.Fatalf("body %d diverged: position delta %g, velocity delta %g", i, dp, dv)
		}
	}
}

func TestParallel_BelowThresholdStaysSerial(t *testing.T) {
	sim, err := New(binaryBodies(t), 1.0, 0.0001, WithWorkers(8))
	if err != nil {
		t.Fatal(err)
	}

	sim.Step()

	if !sim.Valid() {
		t.Error("small parallel-configured simulation should behave like serial")
	}
}

func benchmarkStep(b *testing.B, n, workers int) {
	sim, err := New(ringBodies(n), 1.0, 0.0001, WithWorkers(workers))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sim.Step()
	}
}

func BenchmarkStep_10(b *testing.B)          { benchmarkStep(b, 10, 1) }
func BenchmarkStep_64(b *testing.B)          { benchmarkStep(b, 64, 1) }
func BenchmarkStep_64_Workers4(b *testing.B) { benchmarkStep(b, 64, 4) }
