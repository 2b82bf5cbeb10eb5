package query_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/kkkkkom/ezdxf/pkg/testutils"

	"github.com/kkkkkom/ezdxf/pkg/dxf/objects"
	"github.com/kkkkkom/ezdxf/pkg/dxf/query"
)

var _ = Describe("object queries", func() {
	Context("parsing", func() {
		It("parses type name lists", func() {
			q := Must(query.Parse("dictionary xrecord"))
			Expect(q.MatchType("DICTIONARY")).To(BeTrue())
			Expect(q.MatchType("XRECORD")).To(BeTrue())
			Expect(q.MatchType("IMAGEDEF")).To(BeFalse())
		})

		It("matches type patterns case insensitive", func() {
			q := Must(query.Parse("dict*"))
			Expect(q.MatchType("DICTIONARY")).To(BeTrue())
			Expect(q.MatchType("DICTIONARYVAR")).To(BeTrue())
			Expect(q.MatchType("XRECORD")).To(BeFalse())
		})

		It("selects all types with *", func() {
			q := Must(query.Parse("*"))
			Expect(q.MatchType("ANYTHING")).To(BeTrue())
		})

		It("rejects an empty expression", func() {
			_, err := query.Parse("")
			Expect(err).To(HaveOccurred())
		})

		It("rejects unterminated conditions", func() {
			_, err := query.Parse("a[x==1")
			Expect(err).To(HaveOccurred())
		})

		It("rejects trailing garbage", func() {
			_, err := query.Parse("a]")
			Expect(err).To(HaveOccurred())
		})

		It("rejects missing operators", func() {
			_, err := query.Parse("a[x 1]")
			Expect(err).To(HaveOccurred())
		})

		It("rejects unterminated string literals", func() {
			_, err := query.Parse("a[x=='abc]")
			Expect(err).To(HaveOccurred())
		})

		It("rejects broken encodings in string literals", func() {
			_, err := query.Parse("*[a=='\xff']")
			Expect(err).To(HaveOccurred())
		})

		It("rejects broken encodings outside of literals", func() {
			_, err := query.Parse("a\xffb")
			Expect(err).To(HaveOccurred())
		})
	})

	Context("conditions", func() {
		attrs := func(m map[string]interface{}) query.Attributes {
			return func(name string) (interface{}, bool) {
				v, ok := m[name]
				return v, ok
			}
		}

		eval := func(expr string, m map[string]interface{}) bool {
			q := Must(query.Parse("*[" + expr + "]"))
			return Must(q.Match("ANY", attrs(m)))
		}

		It("compares numbers", func() {
			m := map[string]interface{}{"width": 640.0}
			Expect(eval("width==640", m)).To(BeTrue())
			Expect(eval("width>100", m)).To(BeTrue())
			Expect(eval("width<100", m)).To(BeFalse())
			Expect(eval("width!=640", m)).To(BeFalse())
			Expect(eval("width>=640", m)).To(BeTrue())
		})

		It("compares strings with wildcards", func() {
			m := map[string]interface{}{"filename": "floorplan.png"}
			Expect(eval("filename=='*.png'", m)).To(BeTrue())
			Expect(eval("filename!='*.jpg'", m)).To(BeTrue())
			Expect(eval("filename=='plan*'", m)).To(BeFalse())
		})

		It("combines terms", func() {
			m := map[string]interface{}{"width": 640.0}
			Expect(eval("width>100&width<1000", m)).To(BeTrue())
			Expect(eval("width<100|width>500", m)).To(BeTrue())
			Expect(eval("!(width<100)", m)).To(BeTrue())
			Expect(eval("width<100&width>500", m)).To(BeFalse())
		})

		It("never matches unknown attributes", func() {
			Expect(eval("unknown==1", map[string]interface{}{})).To(BeFalse())
		})
	})

	Context("execution", func() {
		It("selects section objects", func() {
			section := objects.NewSection()
			img := section.AddImageDef("floorplan.png", 640, 480)
			section.AddImageDef("icon.png", 16, 16)

			r := Must(query.Execute(section, "imagedef[width>100]"))
			Expect(r).To(Equal([]objects.Object{img}))
		})

		It("resolves serialized attribute names case insensitive", func() {
			section := objects.NewSection()
			d := section.AddDictionary(section.RootDict().Handle)
			v := section.AddDictionaryVar(d, "DIMASSOC", "2")

			r := Must(query.Execute(section, "dictionaryvar[Value=='2']"))
			Expect(r).To(Equal([]objects.Object{v}))
		})

		It("fails for broken expressions", func() {
			_, err := query.Execute(objects.NewSection(), "[")
			Expect(err).To(HaveOccurred())
		})
	})
})
