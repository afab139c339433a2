// Package sim drives a gravity.Simulation through a configured number of
// steps, recording frames and feeding metrics and observers. The core knows
// nothing about cadence or recording; this is the host loop.
package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/jc-higgins/grav-sim/internal/gravity"
)

type Runner struct {
	sim       *gravity.Simulation
	metrics   []Metric
	observers []Observer
}

func New(s *gravity.Simulation) *Runner {
	return &Runner{sim: s}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run advances the simulation cfg.Steps times. The initial state is recorded
// as frame zero. Cancellation is checked once per step; a canceled run
// returns the frames collected so far alongside the context error.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Steps <= 0 {
		return nil, fmt.Errorf("steps must be positive, got %d", cfg.Steps)
	}
	recordEvery := cfg.RecordEvery
	if recordEvery < 1 {
		recordEvery = 1
	}

	result := &Result{
		Frames:  make([]Frame, 0, cfg.Steps/recordEvery+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	result.Frames = append(result.Frames, r.snapshot())
	initialEnergy := r.sim.TotalEnergy()

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, m := range r.metrics {
			m.Observe(r.sim, r.sim.Time())
		}
		for _, o := range r.observers {
			o.OnStep(r.sim, i, r.sim.Time())
		}

		r.sim.Step()

		if cfg.ValidateState && !r.sim.Valid() {
			result.Errors = append(result.Errors, RunError{
				Step:    i,
				Time:    r.sim.Time(),
				Message: "non-finite body state (NaN/Inf)",
			})
			break
		}

		result.StepsTaken++
		if (i+1)%recordEvery == 0 {
			result.Frames = append(result.Frames, r.snapshot())
		}
	}

	finalEnergy := r.sim.TotalEnergy()
	if initialEnergy != 0 && !math.IsNaN(finalEnergy) && !math.IsInf(finalEnergy, 0) {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback advances the simulation until the callback returns false
// or cfg.Steps is reached, without recording frames. The callback sees the
// state before each step.
func (r *Runner) RunWithCallback(ctx context.Context, cfg Config, callback func(s *gravity.Simulation, step int, t float64) bool) error {
	if cfg.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", cfg.Steps)
	}

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(r.sim, i, r.sim.Time()) {
			return nil
		}

		r.sim.Step()

		if cfg.ValidateState && !r.sim.Valid() {
			return RunError{Step: i, Time: r.sim.Time(), Message: "non-finite body state (NaN/Inf)"}
		}
	}

	return nil
}

func (r *Runner) snapshot() Frame {
	return Frame{Time: r.sim.Time(), Bodies: r.sim.Bodies()}
}
