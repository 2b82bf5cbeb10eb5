package objects_test

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/go-test/deep"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/paulmach/orb"

	. "github.com/kkkkkom/ezdxf/pkg/testutils"

	"github.com/kkkkkom/ezdxf/pkg/dxf/handle"
	"github.com/kkkkkom/ezdxf/pkg/dxf/objects"
	"github.com/kkkkkom/ezdxf/pkg/dxf/tags"
	"github.com/kkkkkom/ezdxf/pkg/math"
)

type recorder struct {
	lock sync.Mutex
	ids  []objects.EventId
}

var _ objects.EventHandler = (*recorder)(nil)

func (r *recorder) HandleEvent(id objects.EventId) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.ids = append(r.ids, id)
}

func (r *recorder) Ids() []objects.EventId {
	r.lock.Lock()
	defer r.lock.Unlock()
	return slices.Clone(r.ids)
}

var _ = Describe("objects section", func() {
	var section *objects.Section

	BeforeEach(func() {
		section = objects.NewSection()
	})

	Context("setup", func() {
		It("creates the root dictionary with all required entries", func() {
			root := section.RootDict()
			Expect(root.GetOwner().IsNull()).To(BeTrue())
			Expect(root.Keys()).To(Equal(objects.RootDictEntries))
			Expect(section.Len()).To(Equal(13))
		})

		It("prepares the default plot style", func() {
			root := section.RootDict()
			h, ok := root.Find(objects.PlotStyleDictName)
			Expect(ok).To(BeTrue())

			d, ok := Must(section.Get(h)).(*objects.DictionaryWithDefault)
			Expect(ok).To(BeTrue())
			n, ok := d.Find(objects.DefaultPlotStyle)
			Expect(ok).To(BeTrue())
			Expect(d.Default).To(Equal(n))
			Expect(d.Get("anything else")).To(Equal(n))

			p := Must(section.Get(n))
			Expect(p.GetType()).To(Equal(objects.TypePlaceholder))
			Expect(p.GetOwner()).To(Equal(d.Handle))
		})

		It("is idempotent", func() {
			n := section.Len()
			section.Setup()
			Expect(section.Len()).To(Equal(n))
		})
	})

	Context("lookup", func() {
		It("fails for unknown handles", func() {
			_, err := section.Get(handle.New(4711))
			Expect(err).To(MatchError(objects.ErrNotExist))
		})

		It("resolves dictionaries", func() {
			root := section.RootDict()
			Expect(Must(section.GetDictionary(root.Handle))).To(BeIdenticalTo(root))
		})

		It("refuses non dictionaries", func() {
			p := section.AddPlaceholder(section.RootDict().Handle)
			_, err := section.GetDictionary(p.Handle)
			Expect(err).To(MatchError(ContainSubstring("no dictionary")))
		})
	})

	Context("factories", func() {
		It("adds dictionaries", func() {
			root := section.RootDict()
			d := section.AddDictionary(root.Handle, true)
			Expect(d.HardOwned).To(BeTrue())
			Expect(d.GetOwner()).To(Equal(root.Handle))
			Expect(section.ContainsObject(d)).To(BeTrue())
		})

		It("adds dictionary variables", func() {
			d := section.AddDictionary(section.RootDict().Handle)
			v := section.AddDictionaryVar(d, "DIMASSOC", "2")
			Expect(v.Value).To(Equal("2"))
			h, ok := d.Find("DIMASSOC")
			Expect(ok).To(BeTrue())
			Expect(h).To(Equal(v.Handle))
		})

		It("validates xrecord content", func() {
			x := section.AddXRecord(section.RootDict().Handle)
			MustBeSuccessful(x.Append(tags.New(1, "data"), tags.NewInt(90, 42)))
			Expect(x.Append(tags.NewHandle(5, handle.New(1)))).To(HaveOccurred())
			Expect(x.Append(tags.New(0, "SECTION"))).To(HaveOccurred())
		})

		It("registers image definitions in the image dictionary", func() {
			img := section.AddImageDef("floorplan.png", 640, 480)
			Expect(img.PixelWidth).To(Equal(1.0))
			Expect(img.Loaded).To(BeTrue())

			dict := section.GetRequiredDict(objects.ImageDictName)
			h, ok := dict.Find("floorplan.png")
			Expect(ok).To(BeTrue())
			Expect(h).To(Equal(img.Handle))
			Expect(img.GetOwner()).To(Equal(dict.Handle))
		})

		It("registers image definitions under an explicit key", func() {
			img := section.AddImageDef("floorplan.png", 640, 480, "FLOORPLAN")
			dict := section.GetRequiredDict(objects.ImageDictName)
			h, ok := dict.Find("FLOORPLAN")
			Expect(ok).To(BeTrue())
			Expect(h).To(Equal(img.Handle))
		})

		It("wires image definition reactors", func() {
			img := section.AddImageDef("floorplan.png", 640, 480)
			r := section.AddImageDefReactor(img.Handle)
			Expect(r.Image).To(Equal(img.Handle))
			Expect(img.GetReactors()).To(ContainElement(r.Handle))
		})

		It("registers underlay definitions by kind", func() {
			u := Must(section.AddUnderlayDef(objects.UnderlayPdf, "plan.pdf", "1"))
			Expect(u.GetType()).To(Equal(objects.TypePdfDefinition))
			Expect(u.Kind()).To(Equal(objects.UnderlayPdf))

			dict := section.GetRequiredDict("ACAD_PDFDEFINITIONS")
			h, ok := dict.Find("plan.pdf")
			Expect(ok).To(BeTrue())
			Expect(h).To(Equal(u.Handle))
		})

		It("rejects unknown underlay kinds", func() {
			_, err := section.AddUnderlayDef("dxf", "plan.dxf", "1")
			Expect(err).To(HaveOccurred())
		})
	})

	Context("variable singletons", func() {
		It("creates raster variables only once", func() {
			v := section.SetRasterVariables(objects.FrameShow, 1, 0)
			n := section.Len()

			w := section.SetRasterVariables(objects.FrameHide, 2, 1)
			Expect(w).To(BeIdenticalTo(v))
			Expect(v.Frame).To(Equal(objects.FrameHide))
			Expect(section.Len()).To(Equal(n))

			h, ok := section.RootDict().Find(objects.ImageVarsName)
			Expect(ok).To(BeTrue())
			Expect(h).To(Equal(v.Handle))
		})

		It("creates wipeout variables only once", func() {
			v := section.SetWipeoutVariables(objects.FrameHide)
			n := section.Len()

			w := section.SetWipeoutVariables(objects.FrameShow)
			Expect(w).To(BeIdenticalTo(v))
			Expect(v.Frame).To(Equal(objects.FrameShow))
			Expect(section.Len()).To(Equal(n))
		})
	})

	Context("delete", func() {
		It("fails for unknown handles", func() {
			Expect(section.Delete(handle.New(4711))).To(MatchError(objects.ErrNotExist))
		})

		It("refuses to delete the root dictionary", func() {
			root := section.RootDict()
			n := section.Len()

			Expect(section.Delete(root.Handle)).To(MatchError(objects.ErrRootDict))
			Expect(section.Contains(root.Handle)).To(BeTrue())
			Expect(section.RootDict()).To(BeIdenticalTo(root))
			Expect(section.Len()).To(Equal(n))
		})

		It("deletes hard entries recursively", func() {
			root := section.RootDict()
			d := section.AddDictionary(root.Handle)
			root.Add("MY_DATA", d.Handle, true)
			v := section.AddDictionaryVar(d, "var", "value")
			p := section.AddPlaceholder(root.Handle)
			d.Add("soft", p.Handle)
			section.Update(root)

			MustBeSuccessful(section.Delete(d.Handle))
			Expect(section.Contains(d.Handle)).To(BeFalse())
			Expect(section.Contains(v.Handle)).To(BeFalse())
			Expect(section.Contains(p.Handle)).To(BeTrue())
			Expect(root.Has("MY_DATA")).To(BeFalse())
		})

		It("deletes the complete content of hard owned dictionaries", func() {
			root := section.RootDict()
			d := section.AddDictionary(root.Handle, true)
			root.Add("MY_DATA", d.Handle, true)
			p := section.AddPlaceholder(d.Handle)
			d.Add("soft", p.Handle)
			section.Update(root)

			MustBeSuccessful(section.Delete(d.Handle))
			Expect(section.Contains(p.Handle)).To(BeFalse())
		})

		It("cleans up reactor references", func() {
			img := section.AddImageDef("floorplan.png", 640, 480)
			r := section.AddImageDefReactor(img.Handle)
			MustBeSuccessful(section.Delete(r.Handle))
			Expect(img.GetReactors()).NotTo(ContainElement(r.Handle))
		})
	})

	Context("events", func() {
		It("propagates modifications", func() {
			h := &recorder{}
			section.RegisterHandler(h, false, objects.TypePlaceholder)
			p := section.AddPlaceholder(section.RootDict().Handle)
			Expect(h.Ids()).To(Equal([]objects.EventId{objects.NewEventIdFor(p)}))
		})

		It("replays current objects on rampup", func() {
			p1 := section.AddPlaceholder(section.RootDict().Handle)
			p2 := section.AddPlaceholder(section.RootDict().Handle)

			h := &recorder{}
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			Expect(section.RegisterHandler(h, true, objects.TypePlaceholder).Wait(ctx)).To(BeTrue())
			Expect(h.Ids()).To(ContainElements(objects.NewEventIdFor(p1), objects.NewEventIdFor(p2)))
		})

		It("stops propagation after unregistration", func() {
			h := &recorder{}
			section.RegisterHandler(h, false, objects.TypePlaceholder)
			section.UnregisterHandler(h, objects.TypePlaceholder)
			section.AddPlaceholder(section.RootDict().Handle)
			Expect(h.Ids()).To(BeEmpty())
		})

		It("filters by owner", func() {
			root := section.RootDict()
			d := section.AddDictionary(root.Handle)

			h := &recorder{}
			section.RegisterHandler(h, false, "", d.Handle.String())
			section.AddPlaceholder(d.Handle)
			section.AddPlaceholder(root.Handle)

			ids := h.Ids()
			Expect(ids).To(HaveLen(1))
			Expect(ids[0].Owner).To(Equal(d.Handle.String()))
		})

		It("propagates deletions", func() {
			root := section.RootDict()
			d := section.AddDictionary(root.Handle, true)
			p := section.AddPlaceholder(d.Handle)
			d.Add("entry", p.Handle)
			section.Update(d)

			h := &recorder{}
			section.RegisterHandler(h, false, "")
			MustBeSuccessful(section.Delete(d.Handle))
			Expect(h.Ids()).To(HaveLen(2))
		})

		It("reports updates for cleaned up reactor owners", func() {
			img := section.AddImageDef("floorplan.png", 640, 480)
			r := section.AddImageDefReactor(img.Handle)

			h := &recorder{}
			section.RegisterHandler(h, false, objects.TypeImageDef)
			MustBeSuccessful(section.Delete(r.Handle))

			Expect(img.GetReactors()).To(BeEmpty())
			Expect(h.Ids()).To(ContainElement(objects.NewEventIdFor(img)))
		})

		It("reports updates for dictionaries losing entries", func() {
			root := section.RootDict()
			d := section.AddDictionary(root.Handle)
			p := section.AddPlaceholder(root.Handle)
			d.Add("soft", p.Handle)
			section.Update(d)

			h := &recorder{}
			section.RegisterHandler(h, false, objects.TypeDictionary)
			MustBeSuccessful(section.Delete(p.Handle))

			Expect(d.Has("soft")).To(BeFalse())
			Expect(h.Ids()).To(ContainElement(objects.NewEventIdFor(d)))
		})
	})

	Context("file representation", func() {
		It("round-trips the tag image", func() {
			section.AddImageDef("floorplan.png", 640, 480)
			x := section.AddXRecord(section.RootDict().Handle)
			MustBeSuccessful(x.Append(tags.New(1, "payload"), tags.NewInt(90, 42)))
			g := section.AddGeoData(section.RootDict().Handle)
			g.AddMeshVertex(math.V(0, 0, 0), orb.Point{8.6821, 50.1109})

			ts := Must(section.ExportTags())
			loaded := objects.NewEmptySection()
			MustBeSuccessful(loaded.LoadTags(ts))

			Expect(loaded.Len()).To(Equal(section.Len()))
			Expect(loaded.RootDict().Handle).To(Equal(section.RootDict().Handle))
			Expect(tags.Format(Must(loaded.ExportTags()))).To(Equal(tags.Format(ts)))
		})

		It("reconstructs typed objects", func() {
			img := section.AddImageDef("floorplan.png", 640, 480)

			loaded := objects.NewEmptySection()
			MustBeSuccessful(loaded.LoadTags(Must(section.ExportTags())))
			Expect(deep.Equal(Must(loaded.Get(img.Handle)), img)).To(BeNil())
		})

		It("preserves unknown object types", func() {
			body := tags.Tags{
				tags.New(0, "DICTIONARY"),
				tags.New(5, "C0"),
				tags.New(330, "0"),
				tags.NewInt(281, 1),
				tags.New(0, "ACAD_PROXY_OBJECT"),
				tags.New(5, "C1"),
				tags.New(330, "C0"),
				tags.NewInt(90, 499),
			}
			loaded := objects.NewEmptySection()
			MustBeSuccessful(loaded.LoadTags(body))

			o := Must(loaded.Get(handle.Handle("C1")))
			Expect(o).To(BeAssignableToTypeOf(&objects.RawObject{}))
			Expect(o.GetType()).To(Equal("ACAD_PROXY_OBJECT"))
			Expect(Must(o.EncodeTags()).Filter(90)).To(Equal(tags.Tags{tags.NewInt(90, 499)}))
		})

		It("fails without a root dictionary", func() {
			body := tags.Tags{
				tags.New(0, "XRECORD"),
				tags.New(5, "1"),
				tags.New(330, "2"),
			}
			Expect(objects.NewEmptySection().LoadTags(body)).To(HaveOccurred())
		})

		It("continues handle allocation after loading", func() {
			loaded := objects.NewEmptySection()
			MustBeSuccessful(loaded.LoadTags(Must(section.ExportTags())))
			p := loaded.AddPlaceholder(loaded.RootDict().Handle)
			Expect(p.Handle).To(Equal(section.HandleSeed()))
		})
	})
})
