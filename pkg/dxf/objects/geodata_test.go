package objects_test

import (
	"strings"

	"github.com/go-test/deep"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/paulmach/orb"

	. "github.com/kkkkkom/ezdxf/pkg/testutils"

	"github.com/kkkkkom/ezdxf/pkg/dxf/handle"
	"github.com/kkkkkom/ezdxf/pkg/dxf/objects"
	"github.com/kkkkkom/ezdxf/pkg/math"
)

var _ = Describe("geo data", func() {
	It("is initialized for geographic coordinates", func() {
		g := objects.NewGeoData()
		Expect(g.Version).To(Equal(objects.GeoDataVersion))
		Expect(g.CoordinateType).To(Equal(objects.CoordinateTypeGeographic))
		Expect(g.NorthDirection).To(Equal([2]float64{0, 1}))
		Expect(g.HorizontalUnitScale).To(Equal(1.0))
	})

	Context("transformation", func() {
		It("maps the design point to the reference point", func() {
			g := objects.NewGeoData()
			g.DesignPoint = math.V(100, 200, 0)
			g.ReferencePoint = orb.Point{8.6821, 50.1109}

			p := Must(g.TransformPoint(math.V(100, 200, 0)))
			Expect(p.Lon()).To(BeNumerically("~", 8.6821, 1e-9))
			Expect(p.Lat()).To(BeNumerically("~", 50.1109, 1e-9))
		})

		It("moves north with increasing y", func() {
			g := objects.NewGeoData()
			g.ReferencePoint = orb.Point{8.6821, 50.1109}

			p := Must(g.TransformPoint(math.V(0, 1000, 0)))
			Expect(p.Lat()).To(BeNumerically(">", 50.1109))
			Expect(p.Lon()).To(BeNumerically("~", 8.6821, 1e-9))
		})

		It("honours the horizontal unit scale", func() {
			g := objects.NewGeoData()
			g.ReferencePoint = orb.Point{0, 0}

			g.HorizontalUnitScale = 1000
			p1 := Must(g.TransformPoint(math.V(0, 1, 0)))
			g.HorizontalUnitScale = 1
			p2 := Must(g.TransformPoint(math.V(0, 1000, 0)))
			Expect(p1.Lat()).To(BeNumerically("~", p2.Lat(), 1e-12))
		})

		It("anchors at the nearest mesh vertex", func() {
			g := objects.NewGeoData()
			g.AddMeshVertex(math.V(0, 0, 0), orb.Point{8, 50})
			g.AddMeshVertex(math.V(1000, 0, 0), orb.Point{9, 51})

			p := Must(g.TransformPoint(math.V(1000, 0, 0)))
			Expect(p.Lon()).To(BeNumerically("~", 9, 1e-9))
			Expect(p.Lat()).To(BeNumerically("~", 51, 1e-9))
		})
	})

	It("round-trips its tag image", func() {
		g := objects.NewGeoData()
		g.SetHandle(handle.New(100))
		g.SetOwner(handle.New(1))
		g.HostBlock = handle.New(99)
		g.DesignPoint = math.V(1, 2, 3)
		g.ReferencePoint = orb.Point{8.6821, 50.1109}
		g.CoordinateSystem = strings.Repeat("x", 300)
		g.GeoRSSTag = "frankfurt"
		g.AddMeshVertex(math.V(0, 0, 0), orb.Point{8, 50})
		g.AddMeshVertex(math.V(10, 10, 0), orb.Point{8.1, 50.1})

		r := objects.NewGeoData()
		MustBeSuccessful(r.DecodeTags(Must(g.EncodeTags())))
		Expect(deep.Equal(r, g)).To(BeNil())
	})
})
