package rain

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Faucet", func() {
	const (
		width   = 640.0
		height  = 480.0
		density = 80
	)

	var e *Engine

	drainTicks := func() int {
		return int((height+OffscreenMargin-RespawnTop)/MinSpeed) + 2
	}

	BeforeEach(func() {
		e = New(Options{Width: width, Height: height, Density: density, FaucetOn: true, Seed: 1234})
	})

	It("starts flowing and pre-filled to density", func() {
		Expect(e.Len()).To(Equal(density))
		Expect(e.State()).To(Equal(Flowing))
		Expect(e.IdleIndicatorVisible()).To(BeFalse())
	})

	Context("when the faucet closes", func() {
		BeforeEach(func() {
			e.SetFaucet(false)
		})

		It("drains while particles remain", func() {
			Expect(e.State()).To(Equal(Draining))
			Expect(e.IdleIndicatorVisible()).To(BeFalse())
		})

		It("empties the field and shows the idle indicator", func() {
			for i := 0; i < drainTicks(); i++ {
				e.Step()
			}
			Expect(e.Len()).To(BeZero())
			Expect(e.State()).To(Equal(IdleEmpty))
			Expect(e.IdleIndicatorVisible()).To(BeTrue())
		})

		It("never spawns while draining", func() {
			prev := e.Len()
			for i := 0; i < drainTicks(); i++ {
				e.Step()
				Expect(e.Len()).To(BeNumerically("<=", prev))
				prev = e.Len()
			}
		})

		Context("and reopens after draining", func() {
			BeforeEach(func() {
				for i := 0; i < drainTicks(); i++ {
					e.Step()
				}
				e.SetFaucet(true)
			})

			It("hides the idle indicator immediately", func() {
				Expect(e.IdleIndicatorVisible()).To(BeFalse())
				Expect(e.State()).To(Equal(Flowing))
			})

			It("refills one particle every six ticks", func() {
				for i := 0; i < 5; i++ {
					e.Step()
				}
				Expect(e.Len()).To(BeZero())
				e.Step()
				Expect(e.Len()).To(Equal(1))
				for i := 0; i < 6*9; i++ {
					e.Step()
				}
				Expect(e.Len()).To(Equal(10))
			})

			It("stops refilling at the target density", func() {
				for i := 0; i < DefaultRefillEvery*density+200; i++ {
					e.Step()
				}
				Expect(e.Len()).To(Equal(density))
			})

			It("enters refilled particles above the top edge", func() {
				for i := 0; i < DefaultRefillEvery; i++ {
					e.Step()
				}
				Expect(e.Particles()).To(HaveLen(1))
				p := e.Particles()[0]
				Expect(p.Y).To(BeNumerically("<", RespawnBottom))
			})
		})
	})

	Context("when density drops while flowing", func() {
		It("culls immediately without a faucet transition", func() {
			var transitions int
			e.OnTransition = func(_, _ FaucetState) { transitions++ }
			e.SetDensity(30)
			Expect(e.Len()).To(Equal(30))
			Expect(e.State()).To(Equal(Flowing))
			Expect(transitions).To(BeZero())
		})
	})
})
