package document_test

import (
	"bytes"
	"strings"

	"github.com/mandelsoft/vfs/pkg/memoryfs"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/kkkkkom/ezdxf/pkg/testutils"

	"github.com/kkkkkom/ezdxf/pkg/dxf/document"
	"github.com/kkkkkom/ezdxf/pkg/dxf/objects"
	"github.com/kkkkkom/ezdxf/pkg/dxf/tags"
)

var _ = Describe("drawing documents", func() {
	Context("creation", func() {
		It("prepares a complete drawing", func() {
			d := document.New()
			Expect(d.Version()).To(Equal(document.VersionR2013))
			Expect(d.Sections()).To(Equal([]string{document.SectionHeader, document.SectionObjects}))
			Expect(d.RootDict().Keys()).To(Equal(objects.RootDictEntries))
			Expect(d.Header.FingerprintGUID()).To(MatchRegexp(`^\{[0-9A-F-]{36}\}$`))
			Expect(d.Header.VersionGUID()).To(MatchRegexp(`^\{[0-9A-F-]{36}\}$`))
			Expect(d.Header.Created().IsZero()).To(BeFalse())
		})

		It("honours an explicit version", func() {
			Expect(document.New(document.VersionR2018).Version()).To(Equal(document.VersionR2018))
		})
	})

	Context("fingerprint", func() {
		It("is stable", func() {
			d := document.New()
			Expect(d.Fingerprint()).To(Equal(d.Fingerprint()))
		})

		It("changes with the content", func() {
			d := document.New()
			f := d.Fingerprint()
			d.AddImageDef("floorplan.png", 640, 480)
			Expect(d.Fingerprint()).NotTo(Equal(f))
		})
	})

	Context("encoding", func() {
		It("round-trips a drawing", func() {
			d := document.New()
			d.AddImageDef("floorplan.png", 640, 480)
			Must(d.AddUnderlayDef(objects.UnderlayPdf, "plan.pdf", "1"))
			d.SetRasterVariables(objects.FrameShow, 1, 0)
			d.SetWipeoutVariables(objects.FrameHide)

			buf := &bytes.Buffer{}
			MustBeSuccessful(d.Encode(buf))

			r := Must(document.Decode(buf))
			Expect(r.Version()).To(Equal(d.Version()))
			Expect(r.Sections()).To(Equal(d.Sections()))
			Expect(r.Objects.Len()).To(Equal(d.Objects.Len()))
			Expect(r.Header.HandSeed()).To(Equal(d.Objects.HandleSeed()))
			Expect(tags.Format(Must(r.Objects.ExportTags()))).To(Equal(tags.Format(Must(d.Objects.ExportTags()))))
		})

		It("preserves unmodeled sections", func() {
			in := strings.Join([]string{
				"  0", "SECTION",
				"  2", "HEADER",
				"  9", "$ACADVER",
				"  1", "AC1027",
				"  0", "ENDSEC",
				"  0", "SECTION",
				"  2", "ENTITIES",
				"  0", "LINE",
				"  5", "100",
				"  0", "ENDSEC",
				"  0", "EOF",
			}, "\n") + "\n"

			d := Must(document.Decode(strings.NewReader(in)))
			body, ok := d.RawSectionBody("ENTITIES")
			Expect(ok).To(BeTrue())
			Expect(body).To(Equal(tags.Tags{
				tags.New(0, "LINE"),
				tags.New(5, "100"),
			}))

			buf := &bytes.Buffer{}
			MustBeSuccessful(d.Encode(buf))
			Expect(buf.String()).To(ContainSubstring("  2\nENTITIES\n  0\nLINE\n"))
		})

		It("sets up the objects section for files without one", func() {
			in := strings.Join([]string{
				"  0", "SECTION",
				"  2", "HEADER",
				"  9", "$ACADVER",
				"  1", "AC1027",
				"  0", "ENDSEC",
				"  0", "EOF",
			}, "\n") + "\n"

			d := Must(document.Decode(strings.NewReader(in)))
			Expect(d.Sections()).To(ContainElement(document.SectionObjects))
			Expect(d.RootDict().Keys()).To(Equal(objects.RootDictEntries))
		})

		It("rejects broken framing", func() {
			for _, in := range []string{
				"  0\nSECTION\n  2\nHEADER\n",
				"  0\nENDSEC\n  0\nEOF\n",
				"  0\nSECTION\n  2\nHEADER\n  0\nSECTION\n",
				"  0\nSECTION\n  2\nHEADER\n  0\nEOF\n",
			} {
				_, err := document.Decode(strings.NewReader(in))
				Expect(err).To(HaveOccurred(), in)
			}
		})
	})

	Context("filesystem", func() {
		It("stores and loads drawing files", func() {
			fs := memoryfs.New()
			d := document.New()
			d.AddImageDef("floorplan.png", 640, 480)

			old := d.Header.VersionGUID()
			MustBeSuccessful(document.Write(fs, "drawing.dxf", d))
			Expect(d.Header.VersionGUID()).NotTo(Equal(old))

			r := Must(document.Read(fs, "drawing.dxf"))
			Expect(r.Version()).To(Equal(d.Version()))
			Expect(r.Header.VersionGUID()).To(Equal(d.Header.VersionGUID()))
			Expect(r.Objects.Len()).To(Equal(d.Objects.Len()))
		})

		It("fails for missing files", func() {
			_, err := document.Read(memoryfs.New(), "missing.dxf")
			Expect(err).To(HaveOccurred())
		})
	})
})
