// Package config loads and saves simulation scenarios as YAML and provides
// the built-in presets.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jc-higgins/grav-sim/internal/gravity"
)

const (
	DefaultG        = 1.0
	DefaultDt       = 0.0001
	DefaultSteps    = 10000
	DefaultScenario = "binary"
)

// BodyConfig is one body in a YAML scenario.
type BodyConfig struct {
	Mass float64 `yaml:"mass"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	VX   float64 `yaml:"vx"`
	VY   float64 `yaml:"vy"`
}

type Config struct {
	Scenario  string       `yaml:"scenario"`
	G         float64      `yaml:"g"`
	Dt        float64      `yaml:"dt"`
	Steps     int          `yaml:"steps"`
	Softening float64      `yaml:"softening"`
	Workers   int          `yaml:"workers"`
	NumBodies int          `yaml:"num_bodies"`
	Bodies    []BodyConfig `yaml:"bodies"`
}

// DefaultConfig is the reference two-body binary orbit.
func DefaultConfig() *Config {
	return &Config{
		Scenario: DefaultScenario,
		G:        DefaultG,
		Dt:       DefaultDt,
		Steps:    DefaultSteps,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// BuildBodies materializes the scenario. An explicit body list takes
// precedence over the named preset.
func (c *Config) BuildBodies() ([]gravity.Body, error) {
	if len(c.Bodies) > 0 {
		bodies := make([]gravity.Body, 0, len(c.Bodies))
		for i, bc := range c.Bodies {
			b, err := gravity.NewBody(bc.Mass, gravity.Vec2{X: bc.X, Y: bc.Y}, gravity.Vec2{X: bc.VX, Y: bc.VY})
			if err != nil {
				return nil, fmt.Errorf("body %d: %w", i, err)
			}
			bodies = append(bodies, b)
		}
		return bodies, nil
	}

	builder, ok := scenarios[c.Scenario]
	if !ok {
		return nil, fmt.Errorf("unknown scenario: %s (available: %v)", c.Scenario, ScenarioNames())
	}
	return builder(c.NumBodies)
}

// BuildSimulation materializes the full configured simulation.
func (c *Config) BuildSimulation() (*gravity.Simulation, error) {
	bodies, err := c.BuildBodies()
	if err != nil {
		return nil, err
	}
	return gravity.New(bodies, c.G, c.Dt,
		gravity.WithSoftening(c.Softening),
		gravity.WithWorkers(c.Workers),
	)
}
