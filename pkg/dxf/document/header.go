package document

import (
	"time"

	"github.com/kkkkkom/ezdxf/pkg/dxf/handle"
	"github.com/kkkkkom/ezdxf/pkg/dxf/tags"
)

// Header variable names used by this package.
const (
	VarAcadVer         = "$ACADVER"
	VarHandSeed        = "$HANDSEED"
	VarFingerprintGUID = "$FINGERPRINTGUID"
	VarVersionGUID     = "$VERSIONGUID"
	VarCreated         = "$TDCREATE"
	VarUpdated         = "$TDUPDATE"
)

// Supported drawing file versions.
const (
	VersionR2010 = "AC1024"
	VersionR2013 = "AC1027"
	VersionR2018 = "AC1032"
)

// Variable is a single header variable: its name and value groups.
type Variable struct {
	Name string    `json:"name"`
	Tags tags.Tags `json:"tags"`
}

// Header is the HEADER section of a drawing: an ordered list of
// header variables. Unknown variables are preserved unchanged.
type Header struct {
	Vars []Variable `json:"vars,omitempty"`
}

func (h *Header) Find(name string) (Variable, bool) {
	for _, v := range h.Vars {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}

// Set creates or replaces a header variable, keeping its position.
func (h *Header) Set(name string, ts ...tags.Tag) {
	for i := range h.Vars {
		if h.Vars[i].Name == name {
			h.Vars[i].Tags = ts
			return
		}
	}
	h.Vars = append(h.Vars, Variable{Name: name, Tags: ts})
}

func (h *Header) Discard(name string) {
	for i, v := range h.Vars {
		if v.Name == name {
			h.Vars = append(h.Vars[:i], h.Vars[i+1:]...)
			return
		}
	}
}

func (h *Header) getString(name string, code int) string {
	if v, ok := h.Find(name); ok {
		return v.Tags.Get(code, "")
	}
	return ""
}

func (h *Header) Version() string {
	return h.getString(VarAcadVer, tags.CodeValue)
}

func (h *Header) SetVersion(v string) {
	h.Set(VarAcadVer, tags.New(tags.CodeValue, v))
}

func (h *Header) HandSeed() handle.Handle {
	if v, ok := h.Find(VarHandSeed); ok {
		if t, ok := v.Tags.Find(tags.CodeHandle); ok {
			if s, err := t.Handle(); err == nil {
				return s
			}
		}
	}
	return handle.Null
}

func (h *Header) SetHandSeed(s handle.Handle) {
	h.Set(VarHandSeed, tags.NewHandle(tags.CodeHandle, s))
}

func (h *Header) FingerprintGUID() string {
	return h.getString(VarFingerprintGUID, tags.CodeName)
}

func (h *Header) SetFingerprintGUID(g string) {
	h.Set(VarFingerprintGUID, tags.New(tags.CodeName, g))
}

func (h *Header) VersionGUID() string {
	return h.getString(VarVersionGUID, tags.CodeName)
}

func (h *Header) SetVersionGUID(g string) {
	h.Set(VarVersionGUID, tags.New(tags.CodeName, g))
}

func (h *Header) getTime(name string) time.Time {
	if v, ok := h.Find(name); ok {
		if t, ok := v.Tags.Find(40); ok {
			if jd, err := t.Float(); err == nil {
				return fromJulian(jd)
			}
		}
	}
	return time.Time{}
}

func (h *Header) Created() time.Time {
	return h.getTime(VarCreated)
}

func (h *Header) SetCreated(t time.Time) {
	h.Set(VarCreated, tags.NewFloat(40, toJulian(t)))
}

func (h *Header) Updated() time.Time {
	return h.getTime(VarUpdated)
}

func (h *Header) SetUpdated(t time.Time) {
	h.Set(VarUpdated, tags.NewFloat(40, toJulian(t)))
}

// EncodeTags yields the section body: a group 9 name tag followed
// by the value groups for each variable.
func (h *Header) EncodeTags() tags.Tags {
	var r tags.Tags
	for _, v := range h.Vars {
		r = append(r, tags.New(tags.CodeHeaderVar, v.Name))
		r = append(r, v.Tags...)
	}
	return r
}

// DecodeTags fills the header from a section body.
func (h *Header) DecodeTags(ts tags.Tags) {
	name := ""
	var cur tags.Tags
	flush := func() {
		if name != "" {
			h.Set(name, cur...)
		}
	}
	for _, t := range ts {
		if t.Code == tags.CodeHeaderVar {
			flush()
			name = t.Value
			cur = nil
			continue
		}
		cur = append(cur, t)
	}
	flush()
}

// Julian date epoch offset of the unix epoch.
const julianUnixEpoch = 2440587.5

func toJulian(t time.Time) float64 {
	return float64(t.UnixMilli())/86400000.0 + julianUnixEpoch
}

func fromJulian(jd float64) time.Time {
	ms := (jd - julianUnixEpoch) * 86400000.0
	return time.UnixMilli(int64(ms)).UTC()
}
