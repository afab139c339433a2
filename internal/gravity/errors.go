package gravity

import "errors"

// Domain errors for simulation construction.
var (
	// ErrNonPositiveMass indicates an attempt to create a body with mass <= 0.
	ErrNonPositiveMass = errors.New("gravity: body mass must be positive")

	// ErrNonPositiveTimeStep indicates a simulation time step <= 0.
	ErrNonPositiveTimeStep = errors.New("gravity: time step must be positive")

	// ErrNegativeSoftening indicates a softening length < 0.
	ErrNegativeSoftening = errors.New("gravity: softening length must be non-negative")
)
