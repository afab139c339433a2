package gravity_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jc-higgins/grav-sim/internal/gravity"
)

var _ = Describe("velocity-Verlet integration", func() {
	var sim *gravity.Simulation

	BeforeEach(func() {
		a, err := gravity.NewBody(100, gravity.Vec2{X: -1}, gravity.Vec2{Y: 1})
		Expect(err).NotTo(HaveOccurred())
		b, err := gravity.NewBody(100, gravity.Vec2{X: 1}, gravity.Vec2{Y: -1})
		Expect(err).NotTo(HaveOccurred())

		sim, err = gravity.New([]gravity.Body{a, b}, 1.0, 0.0001)
		Expect(err).NotTo(HaveOccurred())
	})

	It("conserves total energy over ten steps", func() {
		initial := sim.TotalEnergy()

		for i := 0; i < 10; i++ {
			sim.Step()
		}

		Expect(sim.TotalEnergy()).To(BeNumerically("~", initial, 0.01))
	})

	It("conserves linear momentum over ten steps", func() {
		// Opposite equal velocities: total momentum starts at zero.
		Expect(sim.TotalMomentum().Norm()).To(BeNumerically("<", 1e-12))

		for i := 0; i < 10; i++ {
			sim.Step()
		}

		Expect(sim.TotalMomentum().Norm()).To(BeNumerically("<", 0.01))
	})

	It("keeps the potential energy negative while bodies are separated", func() {
		Expect(sim.TotalPotentialEnergy()).To(BeNumerically("<", 0))
	})

	It("answers diagnostics without mutating state", func() {
		first := sim.TotalEnergy()
		second := sim.TotalEnergy()

		Expect(second).To(Equal(first))
		Expect(sim.TotalMomentum()).To(Equal(sim.TotalMomentum()))
		Expect(sim.Steps()).To(BeZero())
	})
})
