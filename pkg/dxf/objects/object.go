package objects

import (
	"fmt"
	"slices"

	"github.com/kkkkkom/ezdxf/pkg/dxf/handle"
	"github.com/kkkkkom/ezdxf/pkg/dxf/tags"
	"github.com/kkkkkom/ezdxf/pkg/runtime"
)

// Object is a non-graphical DXF object living in the OBJECTS
// section. Objects are addressed by handle and owned by exactly
// one other object, usually a dictionary.
type Object interface {
	runtime.Object

	GetHandle() handle.Handle
	SetHandle(handle.Handle)
	GetOwner() handle.Handle
	SetOwner(handle.Handle)

	GetReactors() []handle.Handle
	AddReactor(handle.Handle)
	RemoveReactor(handle.Handle) bool

	GetExtensionDictHandle() handle.Handle
	SetExtensionDictHandle(handle.Handle)

	EncodeTags() (tags.Tags, error)
	DecodeTags(ts tags.Tags) error
}

// ObjectMeta holds the attributes common to all objects.
type ObjectMeta struct {
	runtime.ObjectMeta `json:",inline"`
	Handle             handle.Handle   `json:"handle,omitempty"`
	Owner              handle.Handle   `json:"owner,omitempty"`
	Reactors           []handle.Handle `json:"reactors,omitempty"`
	XDict              handle.Handle   `json:"xdict,omitempty"`
}

func NewObjectMeta(typ string) ObjectMeta {
	return ObjectMeta{ObjectMeta: runtime.ObjectMeta{Type: typ}}
}

func (m *ObjectMeta) GetHandle() handle.Handle {
	return m.Handle
}

func (m *ObjectMeta) SetHandle(h handle.Handle) {
	m.Handle = h
}

func (m *ObjectMeta) GetOwner() handle.Handle {
	return m.Owner
}

func (m *ObjectMeta) SetOwner(h handle.Handle) {
	m.Owner = h
}

func (m *ObjectMeta) GetReactors() []handle.Handle {
	return slices.Clone(m.Reactors)
}

func (m *ObjectMeta) AddReactor(h handle.Handle) {
	if !slices.Contains(m.Reactors, h) {
		m.Reactors = append(m.Reactors, h)
	}
}

// RemoveReactor drops h from the reactor list and reports whether
// it was present.
func (m *ObjectMeta) RemoveReactor(h handle.Handle) bool {
	if i := slices.Index(m.Reactors, h); i >= 0 {
		m.Reactors = append(m.Reactors[:i], m.Reactors[i+1:]...)
		return true
	}
	return false
}

func (m *ObjectMeta) GetExtensionDictHandle() handle.Handle {
	return m.XDict
}

func (m *ObjectMeta) SetExtensionDictHandle(h handle.Handle) {
	m.XDict = h
}

const (
	appReactors = "{ACAD_REACTORS"
	appXDict    = "{ACAD_XDICTIONARY"
	appEnd      = "}"
)

// headTags encodes the common leading groups of an object: the
// structure tag, handle, application defined reactor and extension
// dictionary blocks and the owner pointer.
func (m *ObjectMeta) headTags() tags.Tags {
	owner := m.Owner
	if owner.IsNull() {
		owner = handle.Null
	}
	r := tags.Tags{
		tags.New(tags.CodeStructure, m.Type),
		tags.NewHandle(tags.CodeHandle, m.Handle),
	}
	if len(m.Reactors) > 0 {
		r = append(r, tags.New(tags.CodeAppData, appReactors))
		for _, h := range m.Reactors {
			r = append(r, tags.NewHandle(tags.CodeOwner, h))
		}
		r = append(r, tags.New(tags.CodeAppData, appEnd))
	}
	if !m.XDict.IsNull() {
		r = append(r,
			tags.New(tags.CodeAppData, appXDict),
			tags.NewHandle(tags.CodeHardPointer, m.XDict),
			tags.New(tags.CodeAppData, appEnd),
		)
	}
	return append(r, tags.NewHandle(tags.CodeOwner, owner))
}

// applyHead decodes the common leading groups and yields the
// remaining tags for the type specific content.
func (m *ObjectMeta) applyHead(ts tags.Tags) (tags.Tags, error) {
	var rest tags.Tags
	var app string
	ownerSeen := false

	for i := 0; i < len(ts); i++ {
		t := ts[i]
		switch {
		case t.Code == tags.CodeStructure:
			m.Type = t.Value
		case t.Code == tags.CodeHandle:
			h, err := t.Handle()
			if err != nil {
				return nil, err
			}
			m.Handle = h
		case t.Code == tags.CodeAppData:
			if t.Value == appEnd {
				app = ""
			} else {
				app = t.Value
			}
		case app == appReactors && t.Code == tags.CodeOwner:
			h, err := t.Handle()
			if err != nil {
				return nil, err
			}
			m.Reactors = append(m.Reactors, h)
		case app == appXDict && t.Code == tags.CodeHardPointer:
			h, err := t.Handle()
			if err != nil {
				return nil, err
			}
			m.XDict = h
		case app != "":
			// foreign application data is not preserved
		case t.Code == tags.CodeOwner && !ownerSeen:
			h, err := t.Handle()
			if err != nil {
				return nil, err
			}
			m.Owner = h
			ownerSeen = true
		default:
			rest = append(rest, t)
		}
	}
	if m.Handle.IsNull() {
		return nil, fmt.Errorf("%s object without handle", m.Type)
	}
	return rest, nil
}

// EventId is the comparable event identity of an object.
type EventId struct {
	Type   string
	Owner  string
	Handle handle.Handle
}

func (i EventId) GetType() string {
	return i.Type
}

func (i EventId) GetOwner() string {
	return i.Owner
}

func (i EventId) GetHandle() handle.Handle {
	return i.Handle
}

func (i EventId) String() string {
	return fmt.Sprintf("%s/%s/%s", i.Type, i.Owner, i.Handle)
}

func NewEventIdFor(o Object) EventId {
	return EventId{
		Type:   o.GetType(),
		Owner:  o.GetOwner().String(),
		Handle: o.GetHandle(),
	}
}
