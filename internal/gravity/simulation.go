package gravity

import (
	"fmt"
	"math"
)

// Simulation owns an ordered collection of bodies and advances them under
// mutual gravitational attraction with a fixed time step. Body order is
// stable across steps.
type Simulation struct {
	bodies    []Body
	g         float64
	dt        float64
	softening float64
	workers   int
	time      float64
	steps     int

	// acceleration accumulators reused across steps
	acc    []Vec2
	accNew []Vec2
}

// Option configures a Simulation at construction.
type Option func(*Simulation) error

// WithSoftening sets the Plummer softening length. eps² is added inside r²
// during force evaluation, bounding the force between near-coincident
// bodies. Zero (the default) keeps the force law exact, so a coincident
// pair yields non-finite values.
func WithSoftening(eps float64) Option {
	return func(s *Simulation) error {
		if eps < 0 {
			return ErrNegativeSoftening
		}
		s.softening = eps
		return nil
	}
}

// WithWorkers sets the number of goroutines used for the pairwise force
// passes. Values below 2 keep the passes serial. Parallelism only engages
// above a body-count threshold; results are identical either way.
func WithWorkers(n int) Option {
	return func(s *Simulation) error {
		s.workers = n
		return nil
	}
}

// New constructs a simulation over the given bodies. Every mass must be
// positive and dt must be positive. The body slice is copied; the caller's
// slice is not retained.
func New(bodies []Body, g, dt float64, opts ...Option) (*Simulation, error) {
	if dt <= 0 {
		return nil, ErrNonPositiveTimeStep
	}
	for i, b := range bodies {
		if b.Mass <= 0 {
			return nil, fmt.Errorf("body %d: %w", i, ErrNonPositiveMass)
		}
	}

	owned := make([]Body, len(bodies))
	copy(owned, bodies)

	s := &Simulation{
		bodies: owned,
		g:      g,
		dt:     dt,
		acc:    make([]Vec2, len(bodies)),
		accNew: make([]Vec2, len(bodies)),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Step advances the system by one fixed time step using velocity-Verlet
// integration. Every position update completes before the second force pass
// reads any position.
func (s *Simulation) Step() {
	dt := s.dt

	s.accelerations(s.acc)

	// x(t+dt) = x(t) + v(t)·dt + ½·a(t)·dt²
	halfDt2 := 0.5 * dt * dt
	for i := range s.bodies {
		b := &s.bodies[i]
		b.Position = b.Position.
			Add(b.Velocity.Scale(dt)).
			Add(s.acc[i].Scale(halfDt2))
	}

	s.accelerations(s.accNew)

	// v(t+dt) = v(t) + ½·(a(t) + a(t+dt))·dt
	halfDt := 0.5 * dt
	for i := range s.bodies {
		b := &s.bodies[i]
		b.Velocity = b.Velocity.Add(s.acc[i].Add(s.accNew[i]).Scale(halfDt))
	}

	s.time += dt
	s.steps++
}

// accelerations fills dst with the per-body acceleration at the current
// positions. Each unordered pair is evaluated once and applied to both
// members with opposite signs.
func (s *Simulation) accelerations(dst []Vec2) {
	for i := range dst {
		dst[i] = Vec2{}
	}
	if s.workers > 1 && len(s.bodies) >= parallelThreshold {
		s.accelerationsParallel(dst)
		return
	}
	s.accumulatePairs(dst, 0, len(s.bodies))
}

// accumulatePairs adds the pairwise contributions for rows [lo, hi) into
// dst. For row i every column j > i is visited, so disjoint row ranges
// still write to overlapping dst entries; serial callers pass the full
// range, parallel callers pass per-worker accumulators.
func (s *Simulation) accumulatePairs(dst []Vec2, lo, hi int) {
	eps2 := s.softening * s.softening
	n := len(s.bodies)

	for i := lo; i < hi; i++ {
		pi := s.bodies[i].Position
		for j := i + 1; j < n; j++ {
			d := s.bodies[j].Position.Sub(pi)
			r2 := d.NormSq() + eps2

			rInv := 1.0 / math.Sqrt(r2)
			r3Inv := rInv * rInv * rInv

			dst[i] = dst[i].Add(d.Scale(s.g * s.bodies[j].Mass * r3Inv))
			dst[j] = dst[j].Sub(d.Scale(s.g * s.bodies[i].Mass * r3Inv))
		}
	}
}

// Bodies returns a snapshot copy of the body collection in stable order.
func (s *Simulation) Bodies() []Body {
	out := make([]Body, len(s.bodies))
	copy(out, s.bodies)
	return out
}

// NumBodies returns the body count.
func (s *Simulation) NumBodies() int { return len(s.bodies) }

// Time returns the accumulated simulation time.
func (s *Simulation) Time() float64 { return s.time }

// Steps returns the number of completed integration steps.
func (s *Simulation) Steps() int { return s.steps }

// TimeStep returns the fixed integration interval.
func (s *Simulation) TimeStep() float64 { return s.dt }

// GravityConstant returns the gravitational constant g.
func (s *Simulation) GravityConstant() float64 { return s.g }

// Softening returns the configured softening length.
func (s *Simulation) Softening() float64 { return s.softening }

// TotalKineticEnergy returns the kinetic energy summed over all bodies.
func (s *Simulation) TotalKineticEnergy() float64 {
	ke := 0.0
	for i := range s.bodies {
		ke += s.bodies[i].KineticEnergy()
	}
	return ke
}

// TotalPotentialEnergy returns the gravitational potential energy summed
// over unordered pairs, -g·mi·mj/dij. It uses the same softened distance as
// the force evaluation so that the conserved quantity matches the integrated
// dynamics.
func (s *Simulation) TotalPotentialEnergy() float64 {
	eps2 := s.softening * s.softening
	pe := 0.0
	for i := range s.bodies {
		for j := i + 1; j < len(s.bodies); j++ {
			r2 := s.bodies[j].Position.Sub(s.bodies[i].Position).NormSq() + eps2
			pe -= s.g * s.bodies[i].Mass * s.bodies[j].Mass / math.Sqrt(r2)
		}
	}
	return pe
}

// TotalEnergy returns kinetic plus potential energy.
func (s *Simulation) TotalEnergy() float64 {
	return s.TotalKineticEnergy() + s.TotalPotentialEnergy()
}

// TotalMomentum returns the summed linear momentum.
func (s *Simulation) TotalMomentum() Vec2 {
	p := Vec2{}
	for i := range s.bodies {
		p = p.Add(s.bodies[i].LinearMomentum())
	}
	return p
}

// AngularMomentum returns the summed angular momentum about the origin,
// L = Σ m·(x·vy − y·vx).
func (s *Simulation) AngularMomentum() float64 {
	l := 0.0
	for i := range s.bodies {
		b := &s.bodies[i]
		l += b.Mass * (b.Position.X*b.Velocity.Y - b.Position.Y*b.Velocity.X)
	}
	return l
}

// Valid reports whether every body position and velocity is finite.
func (s *Simulation) Valid() bool {
	for i := range s.bodies {
		if !s.bodies[i].Position.IsFinite() || !s.bodies[i].Velocity.IsFinite() {
			return false
		}
	}
	return true
}
