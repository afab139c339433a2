// Package gravity implements a 2D gravitational N-body simulation core.
//
// The unit of simulation is [Body], a point mass with position and velocity.
// [Simulation] owns an ordered collection of bodies and advances them one
// fixed time step at a time with [Simulation.Step], a velocity-Verlet
// integration:
//
//  1. accelerations a(t) from pairwise Newtonian gravity
//  2. x(t+dt) = x(t) + v(t)·dt + ½·a(t)·dt²  for all bodies
//  3. accelerations a(t+dt) at the updated positions
//  4. v(t+dt) = v(t) + ½·(a(t) + a(t+dt))·dt
//
// Velocity-Verlet is symplectic, so total energy stays bounded over long
// runs where naive Euler integration drifts without bound. Pairwise forces
// are evaluated once per unordered pair and applied with opposite signs
// (Newton's third law), n(n-1)/2 evaluations per pass.
//
// # Diagnostics
//
// [Simulation.TotalEnergy], [Simulation.TotalMomentum] and friends are pure
// queries. Internal forces are pairwise-antisymmetric by construction, so
// linear momentum is conserved to floating-point error and total energy is
// approximately conserved by the integrator.
//
// # Degenerate configurations
//
// By default a coincident body pair divides by zero and the resulting
// non-finite values propagate through subsequent steps rather than being
// masked. Callers that need robustness opt in with
// [WithSoftening], which adds a Plummer softening term eps² inside r².
//
// Simulation instances are not safe for concurrent use; one Step must
// complete before the next begins.
package gravity
