package objects

import (
	"github.com/kkkkkom/ezdxf/pkg/dxf/tags"
)

// Placeholder (ACDBPLACEHOLDER) is a content free object used as
// dictionary entry target, e.g. the "Normal" plot style.
type Placeholder struct {
	ObjectMeta `json:",inline"`
}

var _ Object = (*Placeholder)(nil)

func NewPlaceholder() *Placeholder {
	return &Placeholder{ObjectMeta: NewObjectMeta(TypePlaceholder)}
}

func (p *Placeholder) EncodeTags() (tags.Tags, error) {
	return p.headTags(), nil
}

func (p *Placeholder) DecodeTags(ts tags.Tags) error {
	_, err := p.applyHead(ts)
	return err
}

////////////////////////////////////////////////////////////////////////////////

// DictionaryVar (DICTIONARYVAR) stores a single string value.
type DictionaryVar struct {
	ObjectMeta `json:",inline"`
	Value      string `json:"value"`
}

var _ Object = (*DictionaryVar)(nil)

func NewDictionaryVar(value string) *DictionaryVar {
	return &DictionaryVar{
		ObjectMeta: NewObjectMeta(TypeDictionaryVar),
		Value:      value,
	}
}

func (v *DictionaryVar) EncodeTags() (tags.Tags, error) {
	return append(v.headTags(),
		tags.New(tags.CodeSubclass, "DictionaryVariables"),
		tags.NewInt(tags.CodeBool280, 0), // object schema number
		tags.New(tags.CodeValue, v.Value),
	), nil
}

func (v *DictionaryVar) DecodeTags(ts tags.Tags) error {
	rest, err := v.applyHead(ts)
	if err != nil {
		return err
	}
	for _, t := range rest {
		if t.Code == tags.CodeValue {
			v.Value = t.Value
		}
	}
	return nil
}
