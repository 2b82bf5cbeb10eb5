package objects

import (
	"errors"
	"fmt"
)

// ExtensionDict yields the extension dictionary of an object. With
// create set, a missing dictionary is created on the fly. The
// extension dictionary is hard-owned by its object: it dies
// together with the object.
func (s *Section) ExtensionDict(o Object, create bool) (*Dictionary, error) {
	if h := o.GetExtensionDictHandle(); !h.IsNull() {
		return s.GetDictionary(h)
	}
	if !create {
		return nil, fmt.Errorf("object %s has no extension dictionary", o.GetHandle())
	}
	if !s.ContainsObject(o) {
		return nil, fmt.Errorf("object %s is not part of the section", o.GetHandle())
	}
	d := NewDictionary()
	d.HardOwned = true
	s.Add(d, o.GetHandle())
	o.SetExtensionDictHandle(d.Handle)
	s.Update(o)
	return d, nil
}

// HasExtensionDict reports whether an extension dictionary exists.
func (s *Section) HasExtensionDict(o Object) bool {
	return !o.GetExtensionDictHandle().IsNull()
}

// DiscardExtensionDict removes the extension dictionary of an
// object together with all its hard-owned content.
func (s *Section) DiscardExtensionDict(o Object) error {
	h := o.GetExtensionDictHandle()
	if h.IsNull() {
		return nil
	}
	o.SetExtensionDictHandle("")
	if err := s.Delete(h); err != nil && !errors.Is(err, ErrNotExist) {
		return err
	}
	s.Update(o)
	return nil
}

// SetGeoData links a GEODATA object into the extension dictionary
// of its host block record object.
func (s *Section) SetGeoData(host Object, g *GeoData) error {
	d, err := s.ExtensionDict(host, true)
	if err != nil {
		return err
	}
	g.HostBlock = host.GetHandle()
	if !s.ContainsObject(g) {
		s.Add(g, d.Handle)
	}
	d.Add(GeoDataEntryName, g.Handle, true)
	s.Update(d)
	s.Update(g)
	return nil
}
