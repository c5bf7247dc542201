package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rigidsim/internal/dynamo"
	"github.com/san-kum/rigidsim/internal/integrators"
	"github.com/san-kum/rigidsim/internal/physics"
)

var _ = Describe("Engine", func() {
	var eng *physics.Engine

	BeforeEach(func() {
		eng = physics.New()
		eng.CreateWorld()
	})

	Describe("a circle of mass 2 pushed along x", func() {
		var id physics.BodyID

		BeforeEach(func() {
			var err error
			id, err = eng.CreateBody("circle", physics.WithMass(2))
			Expect(err).NotTo(HaveOccurred())
			Expect(eng.ApplyForce(id, dynamo.Vec2{X: 10})).To(Succeed())
		})

		It("accelerates at force over mass before stepping", func() {
			b, err := eng.Body(id)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Acceleration().X).To(BeNumerically("~", 5, 1e-12))
		})

		It("reaches velocity 5 along x after one second", func() {
			Expect(eng.Step(1.0)).To(Succeed())
			b, _ := eng.Body(id)
			Expect(b.Velocity().X).To(BeNumerically("~", 5, 1e-12))
			Expect(b.Velocity().Y).To(BeNumerically("~", physics.StandardGravity, 1e-12))
			Expect(b.Position()).To(Equal(dynamo.Vec2{}))
		})
	})

	Describe("static bodies", func() {
		It("ignore gravity for any number of steps", func() {
			id, err := eng.CreateBody("ground",
				physics.WithStatic(true),
				physics.WithPosition(dynamo.Vec2{X: 0, Y: 100}),
			)
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 50; i++ {
				Expect(eng.Step(0.05)).To(Succeed())
			}

			b, _ := eng.Body(id)
			Expect(b.Position()).To(Equal(dynamo.Vec2{X: 0, Y: 100}))
			Expect(b.Velocity()).To(Equal(dynamo.Vec2{}))
			Expect(b.Angle()).To(BeZero())
		})
	})

	Describe("unknown ids", func() {
		It("fail every mutator without touching the registry", func() {
			_, err := eng.CreateBody("box")
			Expect(err).NotTo(HaveOccurred())
			before := eng.Snapshot()

			Expect(eng.ApplyForce(42, dynamo.Vec2{X: 1})).To(MatchError(dynamo.ErrBodyNotFound))
			Expect(eng.ApplyTorque(42, 1)).To(MatchError(dynamo.ErrBodyNotFound))
			Expect(eng.SetLinearVelocity(42, dynamo.Vec2{})).To(MatchError(dynamo.ErrBodyNotFound))
			Expect(eng.SetAngularVelocity(42, 1)).To(MatchError(dynamo.ErrBodyNotFound))

			Expect(eng.Snapshot()).To(Equal(before))
		})
	})

	DescribeTable("free fall distance after one second in ten steps",
		func(integ dynamo.Integrator, lower, upper float64) {
			eng = physics.New(physics.WithIntegrator(integ))
			eng.CreateWorld()
			id, err := eng.CreateBody("ball")
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 10; i++ {
				Expect(eng.Step(0.1)).To(Succeed())
			}

			b, _ := eng.Body(id)
			Expect(b.Position().Y).To(BeNumerically(">", lower))
			Expect(b.Position().Y).To(BeNumerically("<", upper))
			Expect(math.Abs(b.Position().X)).To(BeZero())
		},
		// Exact drag-free answer is g/2 = 4.905.
		Entry("euler lags", integrators.NewEuler(), 4.3, 4.905),
		Entry("semi-implicit leads", integrators.NewSemiImplicit(), 4.905, 5.5),
		Entry("verlet is close", integrators.NewVerlet(), 4.85, 4.905),
	)
})
