package math_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kkkkkom/ezdxf/pkg/math"
)

var _ = Describe("bounding box", func() {
	It("is empty by default", func() {
		var b math.BoundingBox
		Expect(b.IsEmpty()).To(BeTrue())
		Expect(b.Contains(math.V(0, 0, 0))).To(BeFalse())
	})

	It("extends to cover its points", func() {
		b := math.NewBoundingBox(math.V(1, 2, 3), math.V(-1, 5, 0))
		Expect(b.Min).To(Equal(math.V(-1, 2, 0)))
		Expect(b.Max).To(Equal(math.V(1, 5, 3)))
		Expect(b.Contains(math.V(0, 3, 1))).To(BeTrue())
		Expect(b.Contains(math.V(0, 6, 1))).To(BeFalse())
	})

	It("has size and center", func() {
		b := math.NewBoundingBox(math.V(0, 0, 0), math.V(2, 4, 6))
		Expect(b.Size()).To(Equal(math.V(2, 4, 6)))
		Expect(b.Center()).To(Equal(math.V(1, 2, 3)))
	})
})
