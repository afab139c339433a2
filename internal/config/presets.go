package config

import (
	"math"
	"sort"

	"github.com/jc-higgins/grav-sim/internal/gravity"
)

// scenarios maps preset names to body builders. The n argument is the
// requested body count; builders with a fixed cast ignore it.
var scenarios = map[string]func(n int) ([]gravity.Body, error){
	"binary": buildBinary,
	"ring":   buildRing,
	"orbit":  buildOrbit,
}

func ScenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// buildBinary is the reference scenario: two equal masses in a symmetric
// binary orbit.
func buildBinary(int) ([]gravity.Body, error) {
	a, err := gravity.NewBody(100, gravity.Vec2{X: -1}, gravity.Vec2{Y: 1})
	if err != nil {
		return nil, err
	}
	b, err := gravity.NewBody(100, gravity.Vec2{X: 1}, gravity.Vec2{Y: -1})
	if err != nil {
		return nil, err
	}
	return []gravity.Body{a, b}, nil
}

// buildRing places n unit masses evenly on a unit circle with tangential
// velocities.
func buildRing(n int) ([]gravity.Body, error) {
	if n < 2 {
		n = 3
	}
	bodies := make([]gravity.Body, 0, n)
	for i := 0; i < n; i++ {
		angle := float64(i) * 2 * math.Pi / float64(n)
		b, err := gravity.NewBody(1.0,
			gravity.Vec2{X: math.Cos(angle), Y: math.Sin(angle)},
			gravity.Vec2{X: -math.Sin(angle) * 0.5, Y: math.Cos(angle) * 0.5},
		)
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, b)
	}
	return bodies, nil
}

// buildOrbit puts n-1 light satellites on circular orbits around a heavy
// central mass. Orbital speed for a circular orbit is sqrt(g·M/r) with the
// default g.
func buildOrbit(n int) ([]gravity.Body, error) {
	if n < 2 {
		n = 4
	}
	const centralMass = 1000.0

	center, err := gravity.NewBody(centralMass, gravity.Vec2{}, gravity.Vec2{})
	if err != nil {
		return nil, err
	}
	bodies := []gravity.Body{center}

	for i := 1; i < n; i++ {
		r := 1.0 + 0.5*float64(i-1)
		speed := math.Sqrt(DefaultG * centralMass / r)
		angle := float64(i) * 2 * math.Pi / float64(n-1)

		b, err := gravity.NewBody(0.001,
			gravity.Vec2{X: r * math.Cos(angle), Y: r * math.Sin(angle)},
			gravity.Vec2{X: -speed * math.Sin(angle), Y: speed * math.Cos(angle)},
		)
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, b)
	}
	return bodies, nil
}
