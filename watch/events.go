package watch

import (
	"sync"

	"github.com/kkkkkom/ezdxf/pkg/dxf/handle"
	"github.com/kkkkkom/ezdxf/pkg/dxf/objects"
)

// Request selects the objects a client wants to watch: any set of
// DXF type names and/or an owner handle. Empty fields match
// everything.
type Request struct {
	Types []string `json:"types,omitempty"`
	Owner string   `json:"owner,omitempty"`
}

// Event describes a modification of a single object.
type Event struct {
	Type    string        `json:"type"`
	Handle  handle.Handle `json:"handle"`
	Owner   string        `json:"owner,omitempty"`
	Deleted bool          `json:"deleted,omitempty"`
}

// SectionWatch adapts the event registry of an OBJECTS section to
// the watch registry interface.
type SectionWatch struct {
	lock     sync.Mutex
	section  *objects.Section
	handlers map[EventHandler[Event]]*sectionAdapter
}

var _ Registry[Request, Event] = (*SectionWatch)(nil)

func NewSectionWatch(s *objects.Section) *SectionWatch {
	return &SectionWatch{
		section:  s,
		handlers: map[EventHandler[Event]]*sectionAdapter{},
	}
}

func (w *SectionWatch) RegisterWatchHandler(r Request, h EventHandler[Event]) {
	w.lock.Lock()
	a := w.handlers[h]
	if a == nil {
		a = &sectionAdapter{section: w.section, handler: h}
		w.handlers[h] = a
	}
	w.lock.Unlock()

	for _, typ := range types(r) {
		w.section.RegisterHandler(a, true, typ, owners(r)...)
	}
}

func (w *SectionWatch) UnregisterWatchHandler(r Request, h EventHandler[Event]) {
	w.lock.Lock()
	a := w.handlers[h]
	delete(w.handlers, h)
	w.lock.Unlock()

	if a == nil {
		return
	}
	for _, typ := range types(r) {
		w.section.UnregisterHandler(a, typ, owners(r)...)
	}
}

func types(r Request) []string {
	if len(r.Types) == 0 {
		return []string{""}
	}
	return r.Types
}

func owners(r Request) []string {
	if r.Owner == "" {
		return nil
	}
	return []string{r.Owner}
}

// sectionAdapter converts section events to watch events.
type sectionAdapter struct {
	section *objects.Section
	handler EventHandler[Event]
}

var _ objects.EventHandler = (*sectionAdapter)(nil)

func (a *sectionAdapter) HandleEvent(id objects.EventId) {
	a.handler.HandleEvent(Event{
		Type:    id.Type,
		Handle:  id.Handle,
		Owner:   id.Owner,
		Deleted: !a.section.Contains(id.Handle),
	})
}
