package sim

import (
	"fmt"

	"github.com/jc-higgins/grav-sim/internal/gravity"
)

// Observer receives the simulation after every completed step.
type Observer interface {
	OnStep(s *gravity.Simulation, step int, t float64)
}

// Metric accumulates a named diagnostic over the course of a run.
type Metric interface {
	Name() string
	Observe(s *gravity.Simulation, t float64)
	Value() float64
	Reset()
}

// Config controls a single run.
type Config struct {
	// Steps is the number of integration steps to perform.
	Steps int
	// ValidateState stops the run when a non-finite position or velocity
	// appears, recording the failure instead of letting it corrupt the
	// remaining frames.
	ValidateState bool
	// RecordEvery keeps one frame per that many steps; 0 or 1 keeps all.
	RecordEvery int
}

// Frame is a recorded snapshot of the body collection.
type Frame struct {
	Time   float64
	Bodies []gravity.Body
}

// Result is the outcome of a run.
type Result struct {
	Frames      []Frame
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Errors      []error
}

// RunError marks a failure at a specific integration step.
type RunError struct {
	Step    int
	Time    float64
	Message string
}

func (e RunError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
