package events

import (
	"reflect"
	"sync"

	"github.com/kkkkkom/ezdxf/pkg/utils"
)

// Id identifies an object by its DXF type name and the handle of
// its owner. Handlers may be registered for a dedicated type, a
// dedicated owner or both.
type Id interface {
	GetType() string
	GetOwner() string
}

type ObjectLister[I Id] interface {
	ListObjectIds(typ string, owner string, atomic ...func()) ([]I, error)
}

type EventHandler[I Id] interface {
	HandleEvent(I)
}

type HandlerRegistration[I Id] interface {
	RegisterHandler(h EventHandler[I], current bool, typ string, owners ...string) utils.Sync
	UnregisterHandler(h EventHandler[I], typ string, owners ...string)
}

type HandlerRegistrationTest[I Id] interface {
	HandlerRegistration[I]
	RegisterHandlerSync(t <-chan struct{}, h EventHandler[I], current bool, typ string, owners ...string) utils.Sync
}

type HandlerRegistry[I Id] interface {
	HandlerRegistration[I]
	EventHandler[I]

	TriggerEvent(I)
}

type eventhandlers[I Id] []*wrapper[I]
type owners[I Id] map[string]eventhandlers[I]

// KeyFunc provides a pure comparable Id implementation usable as
// map key for any element providing the Id interface.
type KeyFunc[I Id] func(id I) I

type registry[I Id] struct {
	lock   sync.Mutex
	key    KeyFunc[I]
	types  map[string]owners[I]
	lister ObjectLister[I]
}

var _ HandlerRegistrationTest[Id] = (*registry[Id])(nil)

func NewHandlerRegistry[I Id](l ObjectLister[I], k ...KeyFunc[I]) HandlerRegistry[I] {
	return &registry[I]{
		key:    utils.OptionalDefaulted[KeyFunc[I]](func(id I) I { return id }, k...),
		types:  map[string]owners[I]{},
		lister: l,
	}
}

func (r *registry[I]) HandleEvent(id I) {
	r.TriggerEvent(id)
}

func (r *registry[I]) RegisterHandler(h EventHandler[I], current bool, typ string, owners ...string) utils.Sync {
	s, d := utils.NewSyncPoint()
	if current {
		go func() {
			r.registerHandler(nil, h, current, typ, owners...)
			d.Done()
		}()
	} else {
		r.registerHandler(nil, h, current, typ, owners...)
		d.Done()
	}
	return s
}

func (r *registry[I]) RegisterHandlerSync(t <-chan struct{}, h EventHandler[I], current bool, typ string, owners ...string) utils.Sync {
	s, d := utils.NewSyncPoint()
	if current {
		go func() {
			r.registerHandler(t, h, current, typ, owners...)
			d.Done()
		}()
	} else {
		r.registerHandler(t, h, current, typ, owners...)
		d.Done()
	}
	return s
}

func index[I Id](list []*wrapper[I], h EventHandler[I]) int {
	for i, e := range list {
		if e.handler == h {
			return i
		}
	}
	return -1
}

func (r *registry[I]) registerHandler(t <-chan struct{}, h EventHandler[I], current bool, typ string, ownerlist ...string) {
	if len(ownerlist) == 0 {
		ownerlist = []string{""}
	}

	for _, owner := range ownerlist {
		r.lock.Lock()
		omap := assure(r.types, typ)
		handlers := assure(omap, owner)
		if index[I](handlers, h) < 0 {
			w := newHandler(h)
			atomic := func() {
				r.lock.Lock()
				omap := assure(r.types, typ)
				handlers := assure(omap, owner)
				if index(handlers, h) < 0 {
					omap[owner] = append(handlers, w)
				}
				r.lock.Unlock()
			}
			r.lock.Unlock()
			var list []I
			if current {
				list, _ = r.lister.ListObjectIds(typ, owner, atomic)
			} else {
				atomic()
			}
			if t != nil {
				<-t
			}
			w.Rampup(list)
		} else {
			r.lock.Unlock()
		}
	}
}

func (r *registry[I]) UnregisterHandler(h EventHandler[I], typ string, ownerlist ...string) {
	if len(ownerlist) == 0 {
		ownerlist = []string{""}
	}
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, owner := range ownerlist {
		omap := r.types[typ]
		if omap != nil {
			handlers := omap[owner]
			if handlers != nil {
				if i := index(handlers, h); i >= 0 {
					handlers = append(handlers[:i], handlers[i+1:]...)
				}
				if len(handlers) > 0 {
					omap[owner] = handlers
				} else {
					delete(omap, owner)
				}
			}
			if len(omap) == 0 {
				delete(r.types, typ)
			}
		}
	}
}

func (r *registry[I]) getHandlers(id I) []*wrapper[I] {
	r.lock.Lock()
	defer r.lock.Unlock()

	var handlers []*wrapper[I]
	owner := id.GetOwner()

	omap := r.types[""]
	if len(omap) != 0 {
		handlers = append(handlers, omap[owner]...)
		handlers = append(handlers, omap[""]...)
	}

	omap = r.types[id.GetType()]
	if len(omap) == 0 {
		return handlers
	}
	handlers = append(handlers, omap[owner]...)
	return append(handlers, omap[""]...)
}

func (r *registry[I]) TriggerEvent(id I) {
	id = r.key(id)
	for _, h := range r.getHandlers(id) {
		h.HandleEvent(id)
	}
}

func assure[T any, K comparable](m map[K]T, k K) T {
	e := m[k]
	if reflect.ValueOf(e).IsZero() {
		var v reflect.Value
		t := utils.TypeOf[T]()
		if t.Kind() == reflect.Map {
			v = reflect.MakeMap(t)
		} else {
			v = reflect.New(t).Elem()
		}
		e = v.Interface().(T)
		m[k] = e
	}
	return e
}

// wrapper handles the rampup of a handler. It queues new events
// until events for the actual object set are propagated.
type wrapper[I Id] struct {
	lock    sync.Mutex
	rampup  bool
	queue   []I
	handler EventHandler[I]
}

var _ EventHandler[Id] = (*wrapper[Id])(nil)

func newHandler[I Id](h EventHandler[I]) *wrapper[I] {
	return &wrapper[I]{
		handler: h,
		rampup:  true,
	}
}

func (w *wrapper[I]) handleEvent(id I) {
	w.handler.HandleEvent(id)
}

func (w *wrapper[I]) Rampup(ids []I) {
	w.lock.Lock()
	defer w.lock.Unlock()

	for _, id := range ids {
		w.handleEvent(id)
	}

	for _, id := range w.queue {
		w.handleEvent(id)
	}
	w.rampup = false
	w.queue = nil
}

func (w *wrapper[I]) HandleEvent(id I) {
	w.lock.Lock()
	defer w.lock.Unlock()

	if w.rampup {
		w.queue = append(w.queue, id)
	} else {
		w.handleEvent(id)
	}
}
