package objects_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/kkkkkom/ezdxf/pkg/testutils"

	"github.com/kkkkkom/ezdxf/pkg/dxf/handle"
	"github.com/kkkkkom/ezdxf/pkg/dxf/objects"
)

var _ = Describe("extension dictionaries", func() {
	var section *objects.Section
	var host *objects.XRecord

	BeforeEach(func() {
		section = objects.NewSection()
		host = section.AddXRecord(section.RootDict().Handle)
	})

	It("is absent by default", func() {
		Expect(section.HasExtensionDict(host)).To(BeFalse())
		_, err := section.ExtensionDict(host, false)
		Expect(err).To(HaveOccurred())
	})

	It("is created on demand", func() {
		d := Must(section.ExtensionDict(host, true))
		Expect(d.HardOwned).To(BeTrue())
		Expect(d.GetOwner()).To(Equal(host.GetHandle()))
		Expect(host.GetExtensionDictHandle()).To(Equal(d.Handle))
		Expect(section.HasExtensionDict(host)).To(BeTrue())
		Expect(Must(section.ExtensionDict(host, false))).To(BeIdenticalTo(d))
	})

	It("refuses objects outside the section", func() {
		_, err := section.ExtensionDict(objects.NewXRecord(), true)
		Expect(err).To(HaveOccurred())
	})

	It("dies with its object", func() {
		d := Must(section.ExtensionDict(host, true))
		v := section.AddDictionaryVar(d, "DIMASSOC", "2")

		MustBeSuccessful(section.Delete(host.GetHandle()))
		Expect(section.Contains(d.Handle)).To(BeFalse())
		Expect(section.Contains(v.Handle)).To(BeFalse())
	})

	It("can be discarded", func() {
		d := Must(section.ExtensionDict(host, true))
		MustBeSuccessful(section.DiscardExtensionDict(host))
		Expect(section.HasExtensionDict(host)).To(BeFalse())
		Expect(section.Contains(d.Handle)).To(BeFalse())
		// discarding again is a no-op
		MustBeSuccessful(section.DiscardExtensionDict(host))
	})

	Context("geo data", func() {
		It("is linked into the host extension dictionary", func() {
			g := section.AddGeoData(handle.Null)
			MustBeSuccessful(section.SetGeoData(host, g))
			Expect(g.HostBlock).To(Equal(host.GetHandle()))

			d := Must(section.ExtensionDict(host, false))
			h, ok := d.Find(objects.GeoDataEntryName)
			Expect(ok).To(BeTrue())
			Expect(h).To(Equal(g.Handle))
		})

		It("dies with its host", func() {
			g := section.AddGeoData(handle.Null)
			MustBeSuccessful(section.SetGeoData(host, g))
			MustBeSuccessful(section.Delete(host.GetHandle()))
			Expect(section.Contains(g.Handle)).To(BeFalse())
		})
	})
})
