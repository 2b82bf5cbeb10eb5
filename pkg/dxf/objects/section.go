package objects

import (
	"errors"
	"fmt"
	"sync"

	"github.com/kkkkkom/ezdxf/pkg/dxf/handle"
	"github.com/kkkkkom/ezdxf/pkg/dxf/tags"
	"github.com/kkkkkom/ezdxf/pkg/utils"
)

var ErrNotExist = errors.New("object does not exist")

var ErrRootDict = errors.New("root dictionary cannot be deleted")

// Root dictionary entries required by AutoCAD.
var RootDictEntries = []string{
	"ACAD_COLOR",
	"ACAD_GROUP",
	"ACAD_LAYOUT",
	"ACAD_MATERIAL",
	"ACAD_MLEADERSTYLE",
	"ACAD_MLINESTYLE",
	"ACAD_PLOTSETTINGS",
	"ACAD_PLOTSTYLENAME",
	"ACAD_SCALELIST",
	"ACAD_TABLESTYLE",
	"ACAD_VISUALSTYLE",
}

// Names of the root dictionary entries managed by this package.
const (
	ImageDictName     = "ACAD_IMAGE_DICT"
	ImageVarsName     = "ACAD_IMAGE_VARS"
	WipeoutVarsName   = "ACAD_WIPEOUT_VARS"
	PlotStyleDictName = "ACAD_PLOTSTYLENAME"
	GeoDataEntryName  = "ACAD_GEOGRAPHICDATA"
	DefaultPlotStyle  = "Normal"
)

// Section is the OBJECTS section of a drawing: all non-graphical
// objects indexed by handle, rooted in the named object dictionary.
// Objects keep their insertion order for stable file output.
//
// All modifications are propagated to registered event handlers.
type Section struct {
	lock     sync.RWMutex
	scheme   Scheme
	handles  *handle.Allocator
	objects  map[handle.Handle]Object
	order    []handle.Handle
	rootdict handle.Handle
	registry HandlerRegistry
}

var _ ObjectLister = (*Section)(nil)

// NewSection creates an empty section including a prepared root
// dictionary.
func NewSection(scheme ...Scheme) *Section {
	s := newSection(scheme...)
	s.Setup()
	return s
}

// NewEmptySection creates a section without the prepared root
// dictionary, intended to be filled by LoadTags.
func NewEmptySection(scheme ...Scheme) *Section {
	return newSection(scheme...)
}

func newSection(scheme ...Scheme) *Section {
	s := &Section{
		scheme:  utils.OptionalDefaulted(DefaultScheme, scheme...),
		handles: handle.NewAllocator(),
		objects: map[handle.Handle]Object{},
	}
	s.registry = NewHandlerRegistry(s)
	return s
}

// Setup creates the root dictionary with all required entries, if
// it does not exist, yet.
func (s *Section) Setup() *Dictionary {
	s.lock.Lock()
	root, ok := s.objects[s.rootdict].(*Dictionary)
	if !ok {
		root = NewDictionary()
		s.add(root, handle.Null)
		s.rootdict = root.Handle
	}
	s.lock.Unlock()

	for _, name := range RootDictEntries {
		if root.Has(name) {
			continue
		}
		if name == PlotStyleDictName {
			p := NewPlaceholder()
			s.Add(p, root.Handle)
			d := NewDictionaryWithDefault(p.Handle)
			d.HardOwned = true
			s.Add(d, root.Handle)
			p.SetOwner(d.Handle)
			d.Add(DefaultPlotStyle, p.Handle, true)
			root.Add(name, d.Handle, true)
		} else {
			d := NewDictionary()
			d.HardOwned = true
			s.Add(d, root.Handle)
			root.Add(name, d.Handle, true)
		}
	}
	s.Update(root)
	return root
}

// RootDict yields the named object dictionary.
func (s *Section) RootDict() *Dictionary {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.objects[s.rootdict].(*Dictionary)
}

// Handles yields the object handles in insertion order.
func (s *Section) Handles() []handle.Handle {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return append([]handle.Handle(nil), s.order...)
}

// All yields all objects in insertion order.
func (s *Section) All() []Object {
	s.lock.RLock()
	defer s.lock.RUnlock()
	r := make([]Object, len(s.order))
	for i, h := range s.order {
		r[i] = s.objects[h]
	}
	return r
}

func (s *Section) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.objects)
}

func (s *Section) Contains(h handle.Handle) bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	_, ok := s.objects[h]
	return ok
}

func (s *Section) ContainsObject(o Object) bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.objects[o.GetHandle()] == o
}

func (s *Section) Get(h handle.Handle) (Object, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	o, ok := s.objects[h]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, h)
	}
	return o, nil
}

// GetDictionary resolves h to a plain or defaulted dictionary.
func (s *Section) GetDictionary(h handle.Handle) (*Dictionary, error) {
	o, err := s.Get(h)
	if err != nil {
		return nil, err
	}
	switch d := o.(type) {
	case *Dictionary:
		return d, nil
	case *DictionaryWithDefault:
		return &d.Dictionary, nil
	}
	return nil, fmt.Errorf("object %s is no dictionary (%s)", h, o.GetType())
}

// Add puts an object under section control. A new handle is
// assigned if the object has none, otherwise its handle is
// reserved.
func (s *Section) Add(o Object, owner handle.Handle) handle.Handle {
	s.lock.Lock()
	h := s.add(o, owner)
	s.lock.Unlock()

	log.Debug("added {{type}} object {{handle}}", "type", o.GetType(), "handle", h)
	s.registry.TriggerEvent(NewEventIdFor(o))
	return h
}

func (s *Section) add(o Object, owner handle.Handle) handle.Handle {
	h := o.GetHandle()
	if h.IsNull() {
		h = s.handles.Next()
		o.SetHandle(h)
	} else {
		s.handles.Reserve(h)
	}
	if !owner.IsNull() {
		o.SetOwner(owner)
	}
	if _, ok := s.objects[h]; !ok {
		s.order = append(s.order, h)
	}
	s.objects[h] = o
	return h
}

// Update announces a modification of an already managed object.
func (s *Section) Update(o Object) {
	s.registry.TriggerEvent(NewEventIdFor(o))
}

// Delete removes the object for h. Hard-owned content is deleted
// recursively: dictionary entries flagged hard, the complete
// content of hard-owned dictionaries and extension dictionaries.
// Soft references from surviving dictionaries and reactor lists
// are cleaned up; the affected objects report an update event.
// The root dictionary cannot be deleted.
func (s *Section) Delete(h handle.Handle) error {
	s.lock.Lock()
	if h == s.rootdict {
		s.lock.Unlock()
		return fmt.Errorf("%w: %s", ErrRootDict, h)
	}
	o, ok := s.objects[h]
	if !ok {
		s.lock.Unlock()
		return fmt.Errorf("%w: %s", ErrNotExist, h)
	}
	deleted := s.delete(o)
	var modified []Object
	for _, d := range deleted {
		modified = utils.AppendUnique(modified, s.cleanupRefs(d.GetHandle())...)
	}
	s.lock.Unlock()

	for _, d := range deleted {
		log.Debug("deleted {{type}} object {{handle}}", "type", d.GetType(), "handle", d.GetHandle())
		s.registry.TriggerEvent(NewEventIdFor(d))
	}
	for _, m := range modified {
		s.Update(m)
	}
	return nil
}

func (s *Section) delete(o Object) []Object {
	h := o.GetHandle()
	if _, ok := s.objects[h]; !ok {
		return nil
	}
	delete(s.objects, h)
	for i, e := range s.order {
		if e == h {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	deleted := []Object{o}

	if x := o.GetExtensionDictHandle(); !x.IsNull() {
		if xd, ok := s.objects[x]; ok {
			deleted = append(deleted, s.delete(xd)...)
		}
	}
	switch d := o.(type) {
	case *Dictionary:
		deleted = append(deleted, s.deleteEntries(d)...)
	case *DictionaryWithDefault:
		deleted = append(deleted, s.deleteEntries(&d.Dictionary)...)
	}
	return deleted
}

func (s *Section) deleteEntries(d *Dictionary) []Object {
	var deleted []Object
	for _, e := range d.Entries {
		if !e.Hard && !d.HardOwned {
			continue
		}
		if t, ok := s.objects[e.Ref]; ok {
			deleted = append(deleted, s.delete(t)...)
		}
	}
	return deleted
}

func (s *Section) cleanupRefs(h handle.Handle) []Object {
	var modified []Object
	for _, o := range s.objects {
		changed := false
		switch d := o.(type) {
		case *Dictionary:
			changed = d.removeRefs(h)
		case *DictionaryWithDefault:
			changed = d.removeRefs(h)
		}
		if o.RemoveReactor(h) {
			changed = true
		}
		if changed {
			modified = append(modified, o)
		}
	}
	return modified
}

////////////////////////////////////////////////////////////////////////////////
// factory operations

// AddDictionary creates a new dictionary owned by owner.
func (s *Section) AddDictionary(owner handle.Handle, hard ...bool) *Dictionary {
	d := NewDictionary()
	d.HardOwned = utils.Optional(hard...)
	s.Add(d, owner)
	return d
}

// AddDictionaryWithDefault creates a new dictionary answering
// unknown keys with def.
func (s *Section) AddDictionaryWithDefault(owner, def handle.Handle) *DictionaryWithDefault {
	d := NewDictionaryWithDefault(def)
	s.Add(d, owner)
	return d
}

// AddDictionaryVar creates a DICTIONARYVAR and registers it in the
// given dictionary under key.
func (s *Section) AddDictionaryVar(dict *Dictionary, key, value string) *DictionaryVar {
	v := NewDictionaryVar(value)
	s.Add(v, dict.Handle)
	dict.Add(key, v.Handle, true)
	s.Update(dict)
	return v
}

// AddPlaceholder creates an ACDBPLACEHOLDER object.
func (s *Section) AddPlaceholder(owner handle.Handle) *Placeholder {
	p := NewPlaceholder()
	s.Add(p, owner)
	return p
}

// AddXRecord creates an XRECORD owned by owner.
func (s *Section) AddXRecord(owner handle.Handle) *XRecord {
	x := NewXRecord()
	s.Add(x, owner)
	return x
}

// GetRequiredDict resolves a root dictionary entry, creating a
// hard-owned dictionary for it if missing.
func (s *Section) GetRequiredDict(name string) *Dictionary {
	root := s.RootDict()
	if h, ok := root.Find(name); ok {
		if d, err := s.GetDictionary(h); err == nil {
			return d
		}
	}
	d := NewDictionary()
	d.HardOwned = true
	s.Add(d, root.Handle)
	root.Add(name, d.Handle, true)
	s.Update(root)
	return d
}

// AddImageDef creates an IMAGEDEF for a raster file and registers
// it in the image dictionary. The registration key defaults to the
// filename.
func (s *Section) AddImageDef(filename string, width, height float64, name ...string) *ImageDef {
	dict := s.GetRequiredDict(ImageDictName)
	d := NewImageDef(filename, width, height)
	s.Add(d, dict.Handle)
	dict.Add(utils.OptionalDefaulted(filename, name...), d.Handle, true)
	s.Update(dict)
	return d
}

// AddImageDefReactor creates an IMAGEDEF_REACTOR for the image
// definition referenced by image.
func (s *Section) AddImageDefReactor(image handle.Handle) *ImageDefReactor {
	r := NewImageDefReactor(image)
	s.Add(r, image)
	if o, err := s.Get(image); err == nil {
		o.AddReactor(r.Handle)
		s.Update(o)
	}
	return r
}

// AddUnderlayDef creates an underlay definition and registers it in
// the definitions dictionary of its kind. The registration key
// defaults to the filename.
func (s *Section) AddUnderlayDef(kind UnderlayKind, filename, name string, key ...string) (*UnderlayDefinition, error) {
	dname, err := kind.DictionaryName()
	if err != nil {
		return nil, err
	}
	dict := s.GetRequiredDict(dname)
	d, err := NewUnderlayDefinition(kind, filename, name)
	if err != nil {
		return nil, err
	}
	s.Add(d, dict.Handle)
	dict.Add(utils.OptionalDefaulted(filename, key...), d.Handle, true)
	s.Update(dict)
	return d, nil
}

// AddGeoData creates a GEODATA object for the given block record.
// The caller is responsible for linking it into the extension
// dictionary of the block record.
func (s *Section) AddGeoData(block handle.Handle) *GeoData {
	g := NewGeoData()
	g.HostBlock = block
	s.Add(g, s.RootDict().Handle)
	return g
}

// SetRasterVariables creates or updates the RASTERVARIABLES
// singleton linked from the root dictionary.
func (s *Section) SetRasterVariables(frame, quality, units int64) *RasterVariables {
	root := s.RootDict()
	if h, ok := root.Find(ImageVarsName); ok {
		if v, err := s.Get(h); err == nil {
			if vars, ok := v.(*RasterVariables); ok {
				vars.Frame = frame
				vars.Quality = quality
				vars.Units = units
				s.Update(vars)
				return vars
			}
		}
	}
	vars := NewRasterVariables(frame, quality, units)
	s.Add(vars, root.Handle)
	root.Add(ImageVarsName, vars.Handle, true)
	s.Update(root)
	return vars
}

// SetWipeoutVariables creates or updates the WIPEOUTVARIABLES
// singleton linked from the root dictionary.
func (s *Section) SetWipeoutVariables(frame int64) *WipeoutVariables {
	root := s.RootDict()
	if h, ok := root.Find(WipeoutVarsName); ok {
		if v, err := s.Get(h); err == nil {
			if vars, ok := v.(*WipeoutVariables); ok {
				vars.Frame = frame
				s.Update(vars)
				return vars
			}
		}
	}
	vars := NewWipeoutVariables(frame)
	s.Add(vars, root.Handle)
	root.Add(WipeoutVarsName, vars.Handle, true)
	s.Update(root)
	return vars
}

////////////////////////////////////////////////////////////////////////////////
// events

// RegisterHandler registers an event handler for modifications of
// objects of the given type and/or owner. With current set, events
// for all matching objects are replayed first.
func (s *Section) RegisterHandler(h EventHandler, current bool, typ string, owners ...string) utils.Sync {
	return s.registry.RegisterHandler(h, current, typ, owners...)
}

func (s *Section) UnregisterHandler(h EventHandler, typ string, owners ...string) {
	s.registry.UnregisterHandler(h, typ, owners...)
}

// ListObjectIds implements the object lister interface used for
// handler rampup.
func (s *Section) ListObjectIds(typ string, owner string, atomic ...func()) ([]EventId, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	var ids []EventId
	for _, h := range s.order {
		o := s.objects[h]
		if typ != "" && o.GetType() != typ {
			continue
		}
		if owner != "" && o.GetOwner().String() != owner {
			continue
		}
		ids = append(ids, NewEventIdFor(o))
	}
	for _, a := range atomic {
		a()
	}
	return ids, nil
}

////////////////////////////////////////////////////////////////////////////////
// file representation

// LoadTags fills the section from the tag sequence of an OBJECTS
// section body (without the SECTION/ENDSEC frame). Objects of
// unknown types are preserved as raw objects. The first DICTIONARY
// without owner becomes the root dictionary.
func (s *Section) LoadTags(ts tags.Tags) error {
	structures := ts.Structures()

	s.lock.Lock()
	for _, ots := range structures {
		typ := ots[0].Value
		var o Object
		if s.scheme.HasType(typ) {
			c, err := s.scheme.CreateObject(typ)
			if err != nil {
				s.lock.Unlock()
				return err
			}
			o = c
		} else {
			o = NewRawObject(typ)
		}
		if err := o.DecodeTags(ots); err != nil {
			s.lock.Unlock()
			return fmt.Errorf("object %d: %w", len(s.order)+1, err)
		}
		s.add(o, handle.Null)
	}

	for _, h := range s.order {
		o := s.objects[h]
		if d, ok := o.(*Dictionary); ok && d.Owner.IsNull() {
			s.rootdict = h
			break
		}
	}
	s.lock.Unlock()

	if s.rootdict.IsNull() {
		return fmt.Errorf("objects section without root dictionary")
	}
	log.Debug("loaded {{count}} objects", "count", s.Len())
	return nil
}

// ExportTags yields the tag sequence of the section body. The root
// dictionary always comes first.
func (s *Section) ExportTags() (tags.Tags, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	var r tags.Tags
	export := func(o Object) error {
		ts, err := o.EncodeTags()
		if err != nil {
			return err
		}
		r = append(r, ts...)
		return nil
	}

	if root, ok := s.objects[s.rootdict]; ok {
		if err := export(root); err != nil {
			return nil, err
		}
	}
	for _, h := range s.order {
		if h == s.rootdict {
			continue
		}
		if err := export(s.objects[h]); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// HandleSeed is the next unissued handle, suitable for the
// $HANDSEED header variable.
func (s *Section) HandleSeed() handle.Handle {
	return s.handles.Seed()
}

// ReserveHandle bumps the handle allocator past h.
func (s *Section) ReserveHandle(h handle.Handle) {
	s.handles.Reserve(h)
}
