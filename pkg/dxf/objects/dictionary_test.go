package objects_test

import (
	"github.com/go-test/deep"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/kkkkkom/ezdxf/pkg/testutils"

	"github.com/kkkkkom/ezdxf/pkg/dxf/handle"
	"github.com/kkkkkom/ezdxf/pkg/dxf/objects"
	"github.com/kkkkkom/ezdxf/pkg/dxf/tags"
)

var _ = Describe("dictionaries", func() {
	It("keeps entry order", func() {
		d := objects.NewDictionary()
		d.Add("b", handle.New(2))
		d.Add("a", handle.New(1))
		d.Add("c", handle.New(3))
		Expect(d.Keys()).To(Equal([]string{"b", "a", "c"}))
		Expect(d.Len()).To(Equal(3))
	})

	It("replaces entries by key", func() {
		d := objects.NewDictionary()
		d.Add("a", handle.New(1))
		d.Add("a", handle.New(2), true)
		Expect(d.Len()).To(Equal(1))
		h, ok := d.Find("a")
		Expect(ok).To(BeTrue())
		Expect(h).To(Equal(handle.New(2)))
	})

	It("discards entries", func() {
		d := objects.NewDictionary()
		d.Add("a", handle.New(1))
		e, ok := d.Discard("a")
		Expect(ok).To(BeTrue())
		Expect(e.Ref).To(Equal(handle.New(1)))
		Expect(d.Has("a")).To(BeFalse())
		_, ok = d.Discard("a")
		Expect(ok).To(BeFalse())
	})

	It("finds keys by reference", func() {
		d := objects.NewDictionary()
		d.Add("a", handle.New(1))
		k, ok := d.FindKey(handle.New(1))
		Expect(ok).To(BeTrue())
		Expect(k).To(Equal("a"))
		_, ok = d.FindKey(handle.New(2))
		Expect(ok).To(BeFalse())
	})

	Context("tag image", func() {
		It("encodes entries with soft and hard pointers", func() {
			d := objects.NewDictionary()
			d.SetHandle(handle.New(10))
			d.SetOwner(handle.New(1))
			d.Add("soft", handle.New(2))
			d.Add("hard", handle.New(3), true)

			ts := Must(d.EncodeTags())
			Expect(ts.Filter(tags.CodeSoftPointer)).To(Equal(tags.Tags{tags.NewHandle(tags.CodeSoftPointer, handle.New(2))}))
			Expect(ts.Filter(tags.CodeHardPointer)).To(Equal(tags.Tags{tags.NewHandle(tags.CodeHardPointer, handle.New(3))}))

			r := objects.NewDictionary()
			MustBeSuccessful(r.DecodeTags(ts))
			Expect(deep.Equal(r, d)).To(BeNil())
		})

		It("keeps reactors and the extension dictionary", func() {
			d := objects.NewDictionary()
			d.SetHandle(handle.New(10))
			d.SetOwner(handle.New(1))
			d.AddReactor(handle.New(20))
			d.SetExtensionDictHandle(handle.New(21))

			r := objects.NewDictionary()
			MustBeSuccessful(r.DecodeTags(Must(d.EncodeTags())))
			Expect(r.GetReactors()).To(Equal([]handle.Handle{handle.New(20)}))
			Expect(r.GetExtensionDictHandle()).To(Equal(handle.New(21)))
		})

		It("rejects entries without target", func() {
			ts := tags.Tags{
				tags.New(0, "DICTIONARY"),
				tags.New(5, "A"),
				tags.New(330, "0"),
				tags.New(3, "orphan"),
			}
			Expect(objects.NewDictionary().DecodeTags(ts)).To(HaveOccurred())
		})

		It("rejects objects without handle", func() {
			ts := tags.Tags{
				tags.New(0, "DICTIONARY"),
				tags.New(330, "0"),
			}
			Expect(objects.NewDictionary().DecodeTags(ts)).To(HaveOccurred())
		})
	})

	Context("with default", func() {
		It("resolves unknown keys to the default", func() {
			d := objects.NewDictionaryWithDefault(handle.New(7))
			d.Add("known", handle.New(8), true)
			Expect(d.Get("known")).To(Equal(handle.New(8)))
			Expect(d.Get("unknown")).To(Equal(handle.New(7)))
		})

		It("round-trips its tag image", func() {
			d := objects.NewDictionaryWithDefault(handle.New(7))
			d.SetHandle(handle.New(10))
			d.SetOwner(handle.New(1))
			d.Add("known", handle.New(8), true)

			r := objects.NewDictionaryWithDefault(handle.Null)
			MustBeSuccessful(r.DecodeTags(Must(d.EncodeTags())))
			Expect(deep.Equal(r, d)).To(BeNil())
		})
	})
})
