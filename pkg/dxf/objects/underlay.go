package objects

import (
	"fmt"

	"github.com/kkkkkom/ezdxf/pkg/dxf/tags"
)

// UnderlayKind selects the underlay file format.
type UnderlayKind string

const (
	UnderlayPdf UnderlayKind = "pdf"
	UnderlayDwf UnderlayKind = "dwf"
	UnderlayDgn UnderlayKind = "dgn"
)

// TypeName yields the DXF object type for the underlay kind.
func (k UnderlayKind) TypeName() (string, error) {
	switch k {
	case UnderlayPdf:
		return TypePdfDefinition, nil
	case UnderlayDwf:
		return TypeDwfDefinition, nil
	case UnderlayDgn:
		return TypeDgnDefinition, nil
	}
	return "", fmt.Errorf("unknown underlay kind %q", k)
}

// DictionaryName yields the root dictionary entry holding the
// definitions of this kind.
func (k UnderlayKind) DictionaryName() (string, error) {
	switch k {
	case UnderlayPdf:
		return "ACAD_PDFDEFINITIONS", nil
	case UnderlayDwf:
		return "ACAD_DWFDEFINITIONS", nil
	case UnderlayDgn:
		return "ACAD_DGNDEFINITIONS", nil
	}
	return "", fmt.Errorf("unknown underlay kind %q", k)
}

// UnderlayDefinition (PDFDEFINITION, DWFDEFINITION, DGNDEFINITION)
// describes an underlay file referenced by underlay entities. Name
// selects the content inside the file, for PDF the page number.
type UnderlayDefinition struct {
	ObjectMeta `json:",inline"`
	Filename   string `json:"filename"`
	Name       string `json:"name"`
}

var _ Object = (*UnderlayDefinition)(nil)

func NewUnderlayDefinition(kind UnderlayKind, filename, name string) (*UnderlayDefinition, error) {
	typ, err := kind.TypeName()
	if err != nil {
		return nil, err
	}
	return &UnderlayDefinition{
		ObjectMeta: NewObjectMeta(typ),
		Filename:   filename,
		Name:       name,
	}, nil
}

// Kind derives the underlay kind from the object type.
func (d *UnderlayDefinition) Kind() UnderlayKind {
	switch d.GetType() {
	case TypeDwfDefinition:
		return UnderlayDwf
	case TypeDgnDefinition:
		return UnderlayDgn
	}
	return UnderlayPdf
}

func (d *UnderlayDefinition) EncodeTags() (tags.Tags, error) {
	return append(d.headTags(),
		tags.New(tags.CodeSubclass, "AcDbUnderlayDefinition"),
		tags.New(tags.CodeValue, d.Filename),
		tags.New(tags.CodeName, d.Name),
	), nil
}

func (d *UnderlayDefinition) DecodeTags(ts tags.Tags) error {
	rest, err := d.applyHead(ts)
	if err != nil {
		return err
	}
	for _, t := range rest {
		switch t.Code {
		case tags.CodeValue:
			d.Filename = t.Value
		case tags.CodeName:
			d.Name = t.Value
		}
	}
	return nil
}
