package id_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/plcsim/sim/id"
)

var _ = Describe("IDGenerator", func() {
	It("should count from one", func() {
		g := id.NewIDGenerator()

		Expect(g.Generate()).To(Equal("1"))
		Expect(g.Generate()).To(Equal("2"))
	})

	It("should produce distinct global IDs", func() {
		g := id.NewGlobalIDGenerator()

		a := g.Generate()
		b := g.Generate()

		Expect(a).NotTo(Equal(b))
		Expect(a).To(HaveLen(20))
	})
})
