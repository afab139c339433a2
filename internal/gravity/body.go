package gravity

import "math"

// DisplayRadius is the fixed body radius. It is presentation-only and takes
// no part in force computation.
const DisplayRadius = 1.0

// Body is a point mass with position and velocity.
type Body struct {
	Mass     float64
	Position Vec2
	Velocity Vec2
	Radius   float64
}

// NewBody constructs a body. Mass must be positive; the acceleration
// computation divides by it.
func NewBody(mass float64, position, velocity Vec2) (Body, error) {
	if mass <= 0 {
		return Body{}, ErrNonPositiveMass
	}
	return Body{
		Mass:     mass,
		Position: position,
		Velocity: velocity,
		Radius:   DisplayRadius,
	}, nil
}

// DistanceTo returns the Euclidean distance between the two bodies' positions.
func (b Body) DistanceTo(other Body) float64 {
	return other.Position.Sub(b.Position).Norm()
}

// GravitationalForce returns the Newtonian attraction F = g·m1·m2/d² exerted
// on b by other, directed from b toward other. Coincident bodies produce a
// non-finite result; see the package comment.
func (b Body) GravitationalForce(other Body, g float64) Vec2 {
	d := other.Position.Sub(b.Position)
	dist := d.Norm()
	magnitude := g * b.Mass * other.Mass / (dist * dist)
	return d.Scale(magnitude / dist)
}

// Update applies a single semi-implicit Euler step: velocity first, then
// position with the new velocity. It is a standalone primitive;
// [Simulation.Step] uses the higher-order velocity-Verlet scheme instead.
func (b *Body) Update(acceleration Vec2, dt float64) {
	b.Velocity = b.Velocity.Add(acceleration.Scale(dt))
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
}

// KineticEnergy returns 0.5·m·|v|².
func (b Body) KineticEnergy() float64 {
	return 0.5 * b.Mass * b.Velocity.NormSq()
}

// LinearMomentum returns m·v.
func (b Body) LinearMomentum() Vec2 {
	return b.Velocity.Scale(b.Mass)
}

// Speed returns |v|.
func (b Body) Speed() float64 {
	return math.Sqrt(b.Velocity.NormSq())
}
