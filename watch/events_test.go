package watch_test

import (
	"slices"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/kkkkkom/ezdxf/pkg/testutils"

	"github.com/kkkkkom/ezdxf/pkg/dxf/objects"
	"github.com/kkkkkom/ezdxf/watch"
)

type sink struct {
	lock   sync.Mutex
	events []watch.Event
}

var _ watch.EventHandler[watch.Event] = (*sink)(nil)

func (s *sink) HandleEvent(e watch.Event) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.events = append(s.events, e)
}

func (s *sink) Events() []watch.Event {
	s.lock.Lock()
	defer s.lock.Unlock()
	return slices.Clone(s.events)
}

var _ = Describe("section watch", func() {
	var section *objects.Section
	var w *watch.SectionWatch
	var h *sink

	BeforeEach(func() {
		section = objects.NewSection()
		w = watch.NewSectionWatch(section)
		h = &sink{}
	})

	It("replays current objects", func() {
		p := section.AddPlaceholder(section.RootDict().Handle)
		w.RegisterWatchHandler(watch.Request{Types: []string{objects.TypePlaceholder}}, h)

		Eventually(h.Events).Should(ContainElement(watch.Event{
			Type:   objects.TypePlaceholder,
			Handle: p.Handle,
			Owner:  section.RootDict().Handle.String(),
		}))
	})

	It("reports modifications and deletions", func() {
		w.RegisterWatchHandler(watch.Request{Types: []string{objects.TypeXRecord}}, h)

		x := section.AddXRecord(section.RootDict().Handle)
		Eventually(h.Events).Should(ContainElement(watch.Event{
			Type:   objects.TypeXRecord,
			Handle: x.Handle,
			Owner:  section.RootDict().Handle.String(),
		}))

		MustBeSuccessful(section.Delete(x.Handle))
		Eventually(h.Events).Should(ContainElement(watch.Event{
			Type:    objects.TypeXRecord,
			Handle:  x.Handle,
			Owner:   section.RootDict().Handle.String(),
			Deleted: true,
		}))
	})

	It("filters by owner", func() {
		d := section.AddDictionary(section.RootDict().Handle)
		req := watch.Request{Owner: d.Handle.String()}
		w.RegisterWatchHandler(req, h)

		p := section.AddPlaceholder(d.Handle)
		section.AddPlaceholder(section.RootDict().Handle)

		Eventually(h.Events).Should(ContainElement(watch.Event{
			Type:   objects.TypePlaceholder,
			Handle: p.Handle,
			Owner:  d.Handle.String(),
		}))
		Consistently(h.Events).Should(HaveLen(1))
	})

	It("stops after unregistration", func() {
		req := watch.Request{Types: []string{objects.TypeXRecord}}
		w.RegisterWatchHandler(req, h)
		section.AddXRecord(section.RootDict().Handle)
		Eventually(h.Events).Should(HaveLen(1))

		w.UnregisterWatchHandler(req, h)
		section.AddXRecord(section.RootDict().Handle)
		Consistently(h.Events).Should(HaveLen(1))
	})
})
